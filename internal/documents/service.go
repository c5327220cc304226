package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/accountee/accountee/internal/platform/httpx"
	"github.com/accountee/accountee/internal/shared"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Service carries the sales-document lifecycle. Creation, acceptance and
// payment recording delegate to server-side functions; the service owns
// the gates in front of them and the advisory edit lock.
type Service struct {
	repo     Repository
	resolver *Resolver
	audit    *shared.AuditLogger
	idem     *shared.IdempotencyStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, resolver *Resolver, audit *shared.AuditLogger, idem *shared.IdempotencyStore, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		audit:    audit,
		idem:     idem,
		logger:   logger,
		now:      time.Now,
	}
}

// commonData is the payload handed to create_sales_document.
type commonData struct {
	CustomerName    string     `json:"customer_name"`
	CustomerAddress *string    `json:"customer_address,omitempty"`
	CustomerTaxID   *string    `json:"customer_tax_id,omitempty"`
	IssueDate       string     `json:"issue_date"`
	ExpiryDate      *string    `json:"expiry_date,omitempty"`
	Items           []Item     `json:"items"`
	Subtotal        float64    `json:"subtotal"`
	DiscountAmount  float64    `json:"discount_amount"`
	VATAmount       float64    `json:"vat_amount"`
	WithholdingAmt  float64    `json:"withholding_amount"`
	GrandTotal      float64    `json:"grand_total"`
	Status          Status     `json:"status"`
	Notes           *string    `json:"notes,omitempty"`
}

// Create inserts a new document through the numbering RPC and returns the
// persisted row.
func (s *Service) Create(ctx context.Context, businessID string, req CreateDocumentRequest, actorID string) (*Document, error) {
	items := buildItems(req.Items)
	totals := CalculateTotals(items, req.DiscountAmount, req.VATRate, req.WithholdingRate)

	common := commonData{
		CustomerName:    req.CustomerName,
		CustomerAddress: req.CustomerAddress,
		CustomerTaxID:   req.CustomerTaxID,
		IssueDate:       req.IssueDate.Format("2006-01-02"),
		Items:           items,
		Subtotal:        totals.Subtotal,
		DiscountAmount:  totals.DiscountAmount,
		VATAmount:       totals.VATAmount,
		WithholdingAmt:  totals.WithholdingAmt,
		GrandTotal:      totals.GrandTotal,
		Status:          initialStatus(req.Type),
		Notes:           req.Notes,
	}
	if req.ExpiryDate != nil {
		v := req.ExpiryDate.Format("2006-01-02")
		common.ExpiryDate = &v
	}

	payload, err := json.Marshal(common)
	if err != nil {
		return nil, fmt.Errorf("encode common data: %w", err)
	}

	id, err := s.repo.CreateRPC(ctx, businessID, req.Type, payload, req.DueDate, nil)
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actorID, businessID, "document.create", id, map[string]any{"type": req.Type})
	return s.repo.Get(ctx, id)
}

// Get returns a single document within the caller's business.
func (s *Service) Get(ctx context.Context, id, businessID string) (*Document, error) {
	return s.getScoped(ctx, id, businessID)
}

// getScoped loads a document and hides rows belonging to another business.
func (s *Service) getScoped(ctx context.Context, id, businessID string) (*Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.BusinessID != businessID {
		return nil, ErrNotFound
	}
	return doc, nil
}

// List returns documents matching the filters plus the total count.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Document, int, error) {
	return s.repo.List(ctx, req)
}

// GetDetail resolves the timeline around the document and derives the
// action availability the UI renders.
func (s *Service) GetDetail(ctx context.Context, id, businessID string) (*Detail, error) {
	doc, err := s.getScoped(ctx, id, businessID)
	if err != nil {
		return nil, err
	}
	tl := s.resolver.Resolve(ctx, doc)
	locked := IsLocked(doc, tl)

	isQuotation := doc.Type == TypeQuotation || doc.Type == TypeProforma
	actions := Actions{
		CanEdit:             !locked,
		CanDelete:           !locked,
		CanSend:             isQuotation && doc.Status == StatusDraft,
		CanAccept:           isQuotation && doc.Status == StatusAwaitingAcceptance,
		CanReject:           isQuotation && doc.Status == StatusAwaitingAcceptance,
		CanConvertToInvoice: CanConvertToInvoice(doc, tl),
		CanRecordPayment:    CanCreateReceipt(doc, tl),
		CanVoid:             !doc.IsVoid(),
	}
	return &Detail{Document: *doc, Timeline: tl, Locked: locked, Actions: actions}, nil
}

// Update rewrites editable fields. Locked documents reject edits.
func (s *Service) Update(ctx context.Context, id, businessID string, req UpdateDocumentRequest, actorID string) (*Document, error) {
	doc, err := s.getScoped(ctx, id, businessID)
	if err != nil {
		return nil, err
	}
	tl := s.resolver.Resolve(ctx, doc)
	if IsLocked(doc, tl) {
		return nil, fmt.Errorf("%w: %s", httpx.ErrLocked, doc.DocNumber)
	}

	updates := make(map[string]any)
	if req.CustomerName != nil {
		updates["customer_name"] = *req.CustomerName
	}
	if req.CustomerAddress != nil {
		updates["customer_address"] = *req.CustomerAddress
	}
	if req.CustomerTaxID != nil {
		updates["customer_tax_id"] = *req.CustomerTaxID
	}
	if req.IssueDate != nil {
		updates["issue_date"] = *req.IssueDate
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.ExpiryDate != nil {
		updates["expiry_date"] = *req.ExpiryDate
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if req.Items != nil {
		items := buildItems(*req.Items)
		discount := doc.DiscountAmount
		if req.DiscountAmount != nil {
			discount = *req.DiscountAmount
		}
		vatRate := impliedRate(doc.VATAmount, doc.Subtotal-doc.DiscountAmount)
		if req.VATRate != nil {
			vatRate = *req.VATRate
		}
		whRate := impliedRate(doc.WithholdingAmt, doc.Subtotal-doc.DiscountAmount)
		if req.WithholdingRate != nil {
			whRate = *req.WithholdingRate
		}
		totals := CalculateTotals(items, discount, vatRate, whRate)

		encoded, err := json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("encode items: %w", err)
		}
		updates["items"] = encoded
		updates["subtotal"] = totals.Subtotal
		updates["discount_amount"] = totals.DiscountAmount
		updates["vat_amount"] = totals.VATAmount
		updates["withholding_amount"] = totals.WithholdingAmt
		updates["grand_total"] = totals.GrandTotal
	}

	if err := s.repo.UpdateFields(ctx, id, updates); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actorID, doc.BusinessID, "document.update", id, nil)
	return s.repo.Get(ctx, id)
}

// Delete removes a document. Only unlocked documents can be deleted.
func (s *Service) Delete(ctx context.Context, id, businessID string, actorID string) error {
	doc, err := s.getScoped(ctx, id, businessID)
	if err != nil {
		return err
	}
	tl := s.resolver.Resolve(ctx, doc)
	if IsLocked(doc, tl) {
		return fmt.Errorf("%w: %s", httpx.ErrLocked, doc.DocNumber)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, doc.BusinessID, "document.delete", id, map[string]any{"doc_number": doc.DocNumber})
	return nil
}

// Send moves a draft quotation into the awaiting-acceptance state.
func (s *Service) Send(ctx context.Context, id, businessID string, actorID string) (*Document, error) {
	doc, err := s.getScoped(ctx, id, businessID)
	if err != nil {
		return nil, err
	}
	if doc.Type != TypeQuotation && doc.Type != TypeProforma {
		return nil, fmt.Errorf("%w: only quotations can be sent", ErrInvalidTransition)
	}
	if doc.Status != StatusDraft {
		return nil, fmt.Errorf("%w: only drafts can be sent", ErrInvalidTransition)
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusAwaitingAcceptance); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actorID, doc.BusinessID, "document.send", id, nil)
	return s.repo.Get(ctx, id)
}

// Accept marks a quotation accepted through the server-side RPC. Remote
// errors propagate to the caller.
func (s *Service) Accept(ctx context.Context, id, businessID string, req AcceptRequest, actorID string) (*Document, error) {
	doc, err := s.getScoped(ctx, id, businessID)
	if err != nil {
		return nil, err
	}
	if doc.Type != TypeQuotation && doc.Type != TypeProforma {
		return nil, fmt.Errorf("%w: only quotations can be accepted", ErrInvalidTransition)
	}
	if doc.Status != StatusAwaitingAcceptance {
		return nil, fmt.Errorf("%w: quotation is not awaiting acceptance", ErrInvalidTransition)
	}

	acceptedAt := s.now()
	if req.AcceptanceDate != nil {
		acceptedAt = *req.AcceptanceDate
	}
	if err := s.repo.AcceptQuotationRPC(ctx, id, acceptedAt); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actorID, doc.BusinessID, "document.accept", id, nil)
	return s.repo.Get(ctx, id)
}

// Reject marks a quotation rejected.
func (s *Service) Reject(ctx context.Context, id, businessID string, actorID string) (*Document, error) {
	doc, err := s.getScoped(ctx, id, businessID)
	if err != nil {
		return nil, err
	}
	if doc.Type != TypeQuotation && doc.Type != TypeProforma {
		return nil, fmt.Errorf("%w: only quotations can be rejected", ErrInvalidTransition)
	}
	if doc.Status != StatusAwaitingAcceptance {
		return nil, fmt.Errorf("%w: quotation is not awaiting acceptance", ErrInvalidTransition)
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusRejected); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actorID, doc.BusinessID, "document.reject", id, nil)
	return s.repo.Get(ctx, id)
}

// ConvertToInvoice creates the invoice linked to an accepted quotation.
func (s *Service) ConvertToInvoice(ctx context.Context, quotationID, businessID string, req ConvertRequest, actorID string) (*Document, error) {
	q, err := s.getScoped(ctx, quotationID, businessID)
	if err != nil {
		return nil, err
	}
	tl := s.resolver.Resolve(ctx, q)
	if !CanConvertToInvoice(q, tl) {
		return nil, fmt.Errorf("%w: quotation must be accepted and not yet converted", ErrInvalidTransition)
	}

	common := commonData{
		CustomerName:    q.CustomerName,
		CustomerAddress: q.CustomerAddress,
		CustomerTaxID:   q.CustomerTaxID,
		IssueDate:       s.now().Format("2006-01-02"),
		Items:           q.Items,
		Subtotal:        q.Subtotal,
		DiscountAmount:  q.DiscountAmount,
		VATAmount:       q.VATAmount,
		WithholdingAmt:  q.WithholdingAmt,
		GrandTotal:      q.GrandTotal,
		Status:          StatusAwaitingPayment,
		Notes:           q.Notes,
	}
	payload, err := json.Marshal(common)
	if err != nil {
		return nil, fmt.Errorf("encode common data: %w", err)
	}

	invoiceID, err := s.repo.CreateRPC(ctx, q.BusinessID, TypeInvoice, payload, req.DueDate, &q.ID)
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actorID, q.BusinessID, "document.convert", quotationID, map[string]any{"invoice_id": invoiceID})
	return s.repo.Get(ctx, invoiceID)
}

// RecordPayment records payment against an invoice and creates its
// receipt through the server-side RPC. The idempotency key guards against
// double submission; the key is released again when the RPC fails.
func (s *Service) RecordPayment(ctx context.Context, invoiceID, businessID, idempotencyKey, actorID string) (*Document, error) {
	inv, err := s.getScoped(ctx, invoiceID, businessID)
	if err != nil {
		return nil, err
	}
	tl := s.resolver.Resolve(ctx, inv)
	if !CanCreateReceipt(inv, tl) {
		return nil, fmt.Errorf("%w: invoice is not payable or already has a receipt", ErrInvalidTransition)
	}

	if idempotencyKey != "" && s.idem != nil {
		if err := s.idem.CheckAndInsert(ctx, idempotencyKey, "documents.payment"); err != nil {
			return nil, err
		}
	}

	receiptID, err := s.repo.RecordPaymentRPC(ctx, invoiceID, inv.BusinessID)
	if err != nil {
		if idempotencyKey != "" && s.idem != nil {
			if delErr := s.idem.Delete(ctx, idempotencyKey); delErr != nil {
				s.logger.Warn("release idempotency key", slog.Any("error", delErr))
			}
		}
		return nil, err
	}

	s.recordAudit(ctx, actorID, inv.BusinessID, "document.record_payment", invoiceID, map[string]any{"receipt_id": receiptID})
	return s.repo.Get(ctx, receiptID)
}

// VoidReceipt voids a receipt and reverts the linked invoice to the
// status implied by its due date.
func (s *Service) VoidReceipt(ctx context.Context, receiptID, businessID, actorID string) (*Document, error) {
	receipt, err := s.getScoped(ctx, receiptID, businessID)
	if err != nil {
		return nil, err
	}
	if receipt.Type != TypeReceipt {
		return nil, fmt.Errorf("%w: document is not a receipt", ErrInvalidTransition)
	}
	if receipt.IsVoid() {
		return nil, fmt.Errorf("%w: receipt already void", ErrInvalidTransition)
	}

	tl := s.resolver.Resolve(ctx, receipt)
	if err := s.repo.UpdateStatus(ctx, receiptID, StatusVoid); err != nil {
		return nil, err
	}

	if tl.Invoice != nil {
		reverted := InvoiceStatusAfterReceiptVoid(tl.Invoice, s.now())
		if err := s.repo.UpdateStatus(ctx, tl.Invoice.ID, reverted); err != nil {
			return nil, fmt.Errorf("revert invoice status: %w", err)
		}
	}

	s.recordAudit(ctx, actorID, receipt.BusinessID, "document.void_receipt", receiptID, nil)
	return s.repo.Get(ctx, receiptID)
}

// Void cancels any non-void document without touching its siblings.
func (s *Service) Void(ctx context.Context, id, businessID string, actorID string) (*Document, error) {
	doc, err := s.getScoped(ctx, id, businessID)
	if err != nil {
		return nil, err
	}
	if doc.IsVoid() {
		return nil, fmt.Errorf("%w: document already void", ErrInvalidTransition)
	}
	if doc.Type == TypeReceipt {
		return s.VoidReceipt(ctx, id, businessID, actorID)
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusVoid); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actorID, doc.BusinessID, "document.void", id, nil)
	return s.repo.Get(ctx, id)
}

func (s *Service) recordAudit(ctx context.Context, actorID, businessID, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:    actorID,
		BusinessID: businessID,
		Action:     action,
		Entity:     "sales_document",
		EntityID:   entityID,
		Meta:       meta,
	}); err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}

func buildItems(reqs []ItemRequest) []Item {
	items := make([]Item, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, Item{
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			Amount:      r.Quantity * r.UnitPrice,
		})
	}
	return items
}

func initialStatus(t DocType) Status {
	switch t {
	case TypeInvoice:
		return StatusAwaitingPayment
	case TypeReceipt:
		return StatusComplete
	default:
		return StatusDraft
	}
}

func impliedRate(amount, base float64) float64 {
	if base <= 0 {
		return 0
	}
	return amount / base * 100
}
