package transactions

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	docs map[string]*Transaction
	seq  int
}

func newMockRepo() *mockRepo {
	return &mockRepo{docs: make(map[string]*Transaction)}
}

func (m *mockRepo) Get(ctx context.Context, id string) (*Transaction, error) {
	tx, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (m *mockRepo) List(ctx context.Context, req ListTransactionsRequest) ([]Transaction, int, error) {
	var out []Transaction
	for _, tx := range m.docs {
		if tx.BusinessID == req.BusinessID {
			out = append(out, *tx)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) Create(ctx context.Context, tx Transaction) (string, error) {
	m.seq++
	tx.ID = fmt.Sprintf("tx-%d", m.seq)
	m.docs[tx.ID] = &tx
	return tx.ID, nil
}

func (m *mockRepo) Update(ctx context.Context, id string, updates map[string]any) error {
	tx, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["amount"]; ok {
		tx.Amount = v.(float64)
	}
	if v, ok := updates["has_vat"]; ok {
		tx.HasVAT = v.(bool)
	}
	if v, ok := updates["vat_amount"]; ok {
		tx.VATAmount = v.(float64)
	}
	if v, ok := updates["description"]; ok {
		tx.Description = v.(string)
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *mockRepo) SummaryByMonth(ctx context.Context, businessID string, from, to time.Time) ([]MonthSummary, error) {
	return nil, nil
}

func TestCreateDerivesVATFromInclusiveAmount(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, nil)

	tx, err := svc.Create(context.Background(), "biz-1", CreateTransactionRequest{
		Type:        TypeIncome,
		Category:    "ขายสินค้า",
		Description: "ขายหน้าร้าน",
		Amount:      1070,
		HasVAT:      true,
		TxDate:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}, "user-1")
	require.NoError(t, err)
	assert.InDelta(t, 70.0, tx.VATAmount, 0.001)
}

func TestCreateWithoutVAT(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, nil)

	tx, err := svc.Create(context.Background(), "biz-1", CreateTransactionRequest{
		Type:        TypeExpense,
		Category:    "ค่าเช่า",
		Description: "ค่าเช่าสำนักงาน",
		Amount:      15000,
		TxDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}, "user-1")
	require.NoError(t, err)
	assert.Zero(t, tx.VATAmount)
}

func TestUpdateAmountRecomputesVAT(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	tx, err := svc.Create(ctx, "biz-1", CreateTransactionRequest{
		Type:        TypeIncome,
		Category:    "บริการ",
		Description: "ค่าบริการ",
		Amount:      1070,
		HasVAT:      true,
		TxDate:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}, "user-1")
	require.NoError(t, err)

	amount := 2140.0
	tx, err = svc.Update(ctx, tx.ID, "biz-1", UpdateTransactionRequest{Amount: &amount}, "user-1")
	require.NoError(t, err)
	assert.InDelta(t, 140.0, tx.VATAmount, 0.001)

	// Dropping the VAT flag zeroes the derived tax.
	noVAT := false
	tx, err = svc.Update(ctx, tx.ID, "biz-1", UpdateTransactionRequest{HasVAT: &noVAT}, "user-1")
	require.NoError(t, err)
	assert.Zero(t, tx.VATAmount)
}

func TestTransactionsScopedToBusiness(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	tx, err := svc.Create(ctx, "biz-1", CreateTransactionRequest{
		Type:        TypeExpense,
		Category:    "ค่าเช่า",
		Description: "ค่าเช่าสำนักงาน",
		Amount:      15000,
		TxDate:      time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}, "user-1")
	require.NoError(t, err)

	_, err = svc.Get(ctx, tx.ID, "biz-2")
	require.ErrorIs(t, err, ErrNotFound)

	desc := "แก้ไขข้ามธุรกิจ"
	_, err = svc.Update(ctx, tx.ID, "biz-2", UpdateTransactionRequest{Description: &desc}, "user-9")
	require.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, tx.ID, "biz-2", "user-9")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, repo.docs, tx.ID)
}
