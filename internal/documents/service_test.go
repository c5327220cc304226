package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountee/accountee/internal/platform/httpx"
)

// mockRepo simulates both the sales_documents table and the server-side
// functions the real repository invokes.
type mockRepo struct {
	*mockStore
	seq        int
	createErr  error
	paymentErr error
}

func newMockRepo(docs ...*Document) *mockRepo {
	m := &mockRepo{mockStore: newMockStore(docs...)}
	m.rpcErr = fmt.Errorf("aggregate rpc not simulated")
	return m
}

func (m *mockRepo) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *mockRepo) List(ctx context.Context, req ListRequest) ([]Document, int, error) {
	var out []Document
	for _, d := range m.docs {
		if d.BusinessID == req.BusinessID {
			out = append(out, *d)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) UpdateFields(ctx context.Context, id string, updates map[string]any) error {
	doc, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["customer_name"]; ok {
		doc.CustomerName = v.(string)
	}
	if v, ok := updates["notes"]; ok {
		notes := v.(string)
		doc.Notes = &notes
	}
	if v, ok := updates["grand_total"]; ok {
		doc.GrandTotal = v.(float64)
	}
	return nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	doc, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc.Status = status
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *mockRepo) CreateRPC(ctx context.Context, businessID string, docType DocType, common json.RawMessage, dueDate *time.Time, sourceDocID *string) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	var data commonData
	if err := json.Unmarshal(common, &data); err != nil {
		return "", err
	}
	issue, _ := time.Parse("2006-01-02", data.IssueDate)
	doc := &Document{
		ID:           m.nextID(string(docType)),
		BusinessID:   businessID,
		Type:         docType,
		DocNumber:    fmt.Sprintf("%s-2024-%04d", docType, m.seq),
		CustomerName: data.CustomerName,
		IssueDate:    issue,
		DueDate:      dueDate,
		Items:        data.Items,
		Subtotal:     data.Subtotal,
		VATAmount:    data.VATAmount,
		GrandTotal:   data.GrandTotal,
		Status:       data.Status,
		Notes:        data.Notes,
	}
	if sourceDocID != nil {
		source, ok := m.docs[*sourceDocID]
		if !ok {
			return "", ErrNotFound
		}
		doc.RelatedQuotationID = sourceDocID
		source.ConvertedToInvoiceID = &doc.ID
	}
	m.docs[doc.ID] = doc
	return doc.ID, nil
}

func (m *mockRepo) AcceptQuotationRPC(ctx context.Context, id string, acceptanceDate time.Time) error {
	doc, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc.Status = StatusAccepted
	doc.AcceptedDate = &acceptanceDate
	return nil
}

func (m *mockRepo) RecordPaymentRPC(ctx context.Context, invoiceID, businessID string) (string, error) {
	if m.paymentErr != nil {
		return "", m.paymentErr
	}
	inv, ok := m.docs[invoiceID]
	if !ok {
		return "", ErrNotFound
	}
	rc := &Document{
		ID:               m.nextID("receipt"),
		BusinessID:       businessID,
		Type:             TypeReceipt,
		DocNumber:        fmt.Sprintf("RC-2024-%04d", m.seq),
		Status:           StatusComplete,
		GrandTotal:       inv.GrandTotal,
		RelatedInvoiceID: &inv.ID,
	}
	inv.Status = StatusPaid
	inv.RelatedReceiptID = &rc.ID
	m.docs[rc.ID] = rc
	return rc.ID, nil
}

func newTestService(repo *mockRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, NewResolver(repo, logger), nil, nil, logger)
}

func TestCreateQuotation(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	doc, err := svc.Create(context.Background(), "biz-1", CreateDocumentRequest{
		Type:         TypeQuotation,
		CustomerName: "บริษัท ทดสอบ จำกัด",
		IssueDate:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Items: []ItemRequest{
			{Description: "ค่าบริการออกแบบ", Quantity: 2, UnitPrice: 5000},
		},
		VATRate: 7,
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, doc.Status)
	assert.Equal(t, "biz-1", doc.BusinessID)
	assert.NotEmpty(t, doc.DocNumber)
	assert.InDelta(t, 10000.0, doc.Subtotal, 0.001)
	assert.InDelta(t, 700.0, doc.VATAmount, 0.001)
	assert.InDelta(t, 10700.0, doc.GrandTotal, 0.001)
}

func TestQuotationLifecycleToInvoice(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	q, err := svc.Create(ctx, "biz-1", CreateDocumentRequest{
		Type:         TypeQuotation,
		CustomerName: "ลูกค้า",
		IssueDate:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Items:        []ItemRequest{{Description: "งานที่ปรึกษา", Quantity: 1, UnitPrice: 30000}},
	}, "user-1")
	require.NoError(t, err)

	// Freshly sent quotation has no invoice yet and is not locked.
	q, err = svc.Send(ctx, q.ID, "biz-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingAcceptance, q.Status)
	detail, err := svc.GetDetail(ctx, q.ID, "biz-1")
	require.NoError(t, err)
	assert.False(t, detail.Locked)
	assert.False(t, detail.Actions.CanConvertToInvoice)

	// Conversion before acceptance is rejected.
	_, err = svc.ConvertToInvoice(ctx, q.ID, "biz-1", ConvertRequest{}, "user-1")
	require.ErrorIs(t, err, ErrInvalidTransition)

	q, err = svc.Accept(ctx, q.ID, "biz-1", AcceptRequest{}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, q.Status)
	require.NotNil(t, q.AcceptedDate)

	due := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	inv, err := svc.ConvertToInvoice(ctx, q.ID, "biz-1", ConvertRequest{DueDate: &due}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, TypeInvoice, inv.Type)
	assert.Equal(t, StatusAwaitingPayment, inv.Status)
	require.NotNil(t, inv.RelatedQuotationID)
	assert.Equal(t, q.ID, *inv.RelatedQuotationID)

	// Resolving from the quotation now finds the invoice and locks it.
	detail, err = svc.GetDetail(ctx, q.ID, "biz-1")
	require.NoError(t, err)
	require.NotNil(t, detail.Timeline.Invoice)
	assert.Equal(t, inv.ID, detail.Timeline.Invoice.ID)
	assert.True(t, detail.Locked)
	assert.False(t, detail.Actions.CanConvertToInvoice)

	// A second conversion is blocked.
	_, err = svc.ConvertToInvoice(ctx, q.ID, "biz-1", ConvertRequest{}, "user-1")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRecordPaymentAndVoidReceipt(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	inv := invoice("i1")
	inv.BusinessID = "biz-1"
	inv.DueDate = &due
	repo := newMockRepo(inv)
	svc := newTestService(repo)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local) }
	ctx := context.Background()

	rc, err := svc.RecordPayment(ctx, inv.ID, "biz-1", "", "user-1")
	require.NoError(t, err)
	assert.Equal(t, TypeReceipt, rc.Type)
	require.NotNil(t, rc.RelatedInvoiceID)
	assert.Equal(t, inv.ID, *rc.RelatedInvoiceID)
	assert.Equal(t, StatusPaid, repo.docs[inv.ID].Status)

	// A second payment is blocked: the invoice is paid and linked.
	_, err = svc.RecordPayment(ctx, inv.ID, "biz-1", "", "user-1")
	require.ErrorIs(t, err, ErrInvalidTransition)

	// Voiding the receipt reverts the invoice by due date: 2024-01-01 is
	// long past, so the invoice becomes overdue.
	rc, err = svc.VoidReceipt(ctx, rc.ID, "biz-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, StatusVoid, rc.Status)
	assert.Equal(t, StatusOverdue, repo.docs[inv.ID].Status)
}

func TestVoidReceiptRevertsToAwaitingPaymentWhenNotPastDue(t *testing.T) {
	inv := invoice("i1")
	inv.BusinessID = "biz-1"
	repo := newMockRepo(inv)
	svc := newTestService(repo)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local) }
	ctx := context.Background()

	rc, err := svc.RecordPayment(ctx, inv.ID, "biz-1", "", "user-1")
	require.NoError(t, err)

	// No due date recorded: defaults to today, which is not overdue.
	_, err = svc.VoidReceipt(ctx, rc.ID, "biz-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingPayment, repo.docs[inv.ID].Status)
}

func TestUpdateBlockedWhenForwardLocked(t *testing.T) {
	q, inv, rc := chainDocs()
	repo := newMockRepo(q, inv, rc)
	svc := newTestService(repo)

	name := "ชื่อใหม่"
	_, err := svc.Update(context.Background(), q.ID, "biz-1", UpdateDocumentRequest{CustomerName: &name}, "user-1")
	require.ErrorIs(t, err, httpx.ErrLocked)

	_, err = svc.Update(context.Background(), inv.ID, "biz-1", UpdateDocumentRequest{CustomerName: &name}, "user-1")
	require.ErrorIs(t, err, httpx.ErrLocked)
}

func TestUpdateRecalculatesTotals(t *testing.T) {
	q := quotation("q1")
	q.BusinessID = "biz-1"
	q.Status = StatusDraft
	repo := newMockRepo(q)
	svc := newTestService(repo)

	items := []ItemRequest{{Description: "งานใหม่", Quantity: 3, UnitPrice: 1000}}
	vat := 7.0
	doc, err := svc.Update(context.Background(), q.ID, "biz-1", UpdateDocumentRequest{Items: &items, VATRate: &vat}, "user-1")
	require.NoError(t, err)
	assert.InDelta(t, 3210.0, doc.GrandTotal, 0.001)
}

func TestDeleteBlockedWhenLocked(t *testing.T) {
	q, inv, rc := chainDocs()
	repo := newMockRepo(q, inv, rc)
	svc := newTestService(repo)

	err := svc.Delete(context.Background(), q.ID, "biz-1", "user-1")
	require.Error(t, err)
	assert.Contains(t, repo.docs, q.ID)

	// Receipts are only locked by their own void status; an active one
	// can be deleted.
	require.NoError(t, svc.Delete(context.Background(), rc.ID, "biz-1", "user-1"))
	assert.NotContains(t, repo.docs, rc.ID)
}

func TestAcceptRequiresAwaitingAcceptance(t *testing.T) {
	q := quotation("q1")
	q.Status = StatusDraft
	q.BusinessID = "biz-1"
	repo := newMockRepo(q)
	svc := newTestService(repo)

	_, err := svc.Accept(context.Background(), q.ID, "biz-1", AcceptRequest{}, "user-1")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRecordPaymentPropagatesRemoteError(t *testing.T) {
	inv := invoice("i1")
	inv.BusinessID = "biz-1"
	repo := newMockRepo(inv)
	repo.paymentErr = fmt.Errorf("function timeout")
	svc := newTestService(repo)

	_, err := svc.RecordPayment(context.Background(), inv.ID, "biz-1", "", "user-1")
	require.ErrorContains(t, err, "function timeout")
}

func TestByIDOperationsScopedToBusiness(t *testing.T) {
	q, inv, rc := chainDocs()
	repo := newMockRepo(q, inv, rc)
	svc := newTestService(repo)

	_, err := svc.GetDetail(context.Background(), inv.ID, "biz-2")
	require.ErrorIs(t, err, ErrNotFound)

	items := []ItemRequest{{Description: "งานทดสอบ", Quantity: 1, UnitPrice: 100}}
	_, err = svc.Update(context.Background(), q.ID, "biz-2", UpdateDocumentRequest{Items: &items}, "user-9")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Void(context.Background(), rc.ID, "biz-2", "user-9")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, StatusComplete, repo.docs[rc.ID].Status)
}
