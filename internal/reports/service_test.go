package reports

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	plCalls int
	rows    []PLRow
	tax     TaxSummary
}

func (m *mockStore) ProfitLoss(ctx context.Context, businessID string, from, to time.Time) ([]PLRow, error) {
	m.plCalls++
	return m.rows, nil
}

func (m *mockStore) StatusCounts(ctx context.Context, businessID string) ([]StatusCount, error) {
	return []StatusCount{{Type: "invoice", Status: "รอชำระ", Count: 3}}, nil
}

func (m *mockStore) TopCustomers(ctx context.Context, businessID string, from, to time.Time, limit int) ([]TopCustomer, error) {
	return []TopCustomer{{Name: "ลูกค้า ก", Total: 50000, Count: 5}}, nil
}

func (m *mockStore) TaxSummary(ctx context.Context, businessID string, from, to time.Time) (*TaxSummary, error) {
	return &m.tax, nil
}

func TestProfitLossTotals(t *testing.T) {
	store := &mockStore{rows: []PLRow{
		{Month: "2024-01", Income: 10000, Expense: 4000, Net: 6000},
		{Month: "2024-02", Income: 8000, Expense: 9000, Net: -1000},
	}}
	svc := NewService(store, nil)

	report, err := svc.ProfitLoss(context.Background(), "biz-1",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 18000.0, report.TotalIncome)
	assert.Equal(t, 13000.0, report.TotalExpense)
	assert.Equal(t, 5000.0, report.TotalNet)
	assert.Len(t, report.Months, 2)
}

func TestProfitLossCachesAcrossCalls(t *testing.T) {
	store := &mockStore{rows: []PLRow{{Month: "2024-01", Income: 100, Expense: 50, Net: 50}}}
	svc := NewService(store, newTestCache(t))
	ctx := context.Background()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	_, err := svc.ProfitLoss(ctx, "biz-1", from, to)
	require.NoError(t, err)
	_, err = svc.ProfitLoss(ctx, "biz-1", from, to)
	require.NoError(t, err)

	assert.Equal(t, 1, store.plCalls)

	// A bump invalidates and the next read hits the store again.
	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.ProfitLoss(ctx, "biz-1", from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, store.plCalls)
}

func TestWritePLCSV(t *testing.T) {
	report := buildPLReport([]PLRow{
		{Month: "2024-01", Income: 10000, Expense: 4000, Net: 6000},
	})

	var buf bytes.Buffer
	require.NoError(t, WritePLCSV(&buf, report))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "เดือน")
	assert.Contains(t, lines[1], "2024-01")
	assert.Contains(t, lines[2], "รวม")
}

func TestWriteTaxCSV(t *testing.T) {
	summary := &TaxSummary{OutputVAT: 700, InputVAT: 300, VATDue: 400, WithholdingIssued: 150}

	var buf bytes.Buffer
	require.NoError(t, WriteTaxCSV(&buf, summary))
	assert.Contains(t, buf.String(), "ภาษีขาย")
	assert.Contains(t, buf.String(), "ภาษีซื้อ")
}
