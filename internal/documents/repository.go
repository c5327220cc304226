package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrBadRefField = errors.New("unknown reference column")
)

// Repository is the persistence boundary for sales documents. Reads go
// straight to the sales_documents table; mutations that must be atomic
// with numbering or multi-row effects go through server-side functions.
type Repository interface {
	Store

	List(ctx context.Context, req ListRequest) ([]Document, int, error)
	UpdateFields(ctx context.Context, id string, updates map[string]any) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error

	// Server-side RPCs. Numbering and row insertion happen atomically on
	// the database; this layer only relays errors.
	CreateRPC(ctx context.Context, businessID string, docType DocType, common json.RawMessage, dueDate *time.Time, sourceDocID *string) (string, error)
	AcceptQuotationRPC(ctx context.Context, id string, acceptanceDate time.Time) error
	RecordPaymentRPC(ctx context.Context, invoiceID, businessID string) (string, error)
}

// ListRequest filters the document listing.
type ListRequest struct {
	BusinessID string
	Type       *DocType
	Status     *Status
	DateFrom   *time.Time
	DateTo     *time.Time
	Search     string
	Limit      int
	Offset     int
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const documentColumns = `id, business_id, type, doc_number, customer_name, customer_address,
	customer_tax_id, issue_date, due_date, expiry_date, accepted_date, payment_date,
	items, subtotal, discount_amount, vat_amount, withholding_amount, grand_total,
	status, notes, created_at,
	converted_to_invoice_id, convertedtoinvoiceid, related_quotation_id,
	related_invoice_id, relatedinvoiceid, related_receipt_id, relatedreceiptid,
	related_transaction_id`

var validRefColumns = map[string]bool{
	ColConvertedToInvoiceID:       true,
	ColLegacyConvertedToInvoiceID: true,
	ColRelatedQuotationID:         true,
	ColRelatedInvoiceID:           true,
	ColLegacyRelatedInvoiceID:     true,
	ColRelatedReceiptID:           true,
	ColLegacyRelatedReceiptID:     true,
}

func (r *repository) Get(ctx context.Context, id string) (*Document, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM sales_documents WHERE id = $1`, documentColumns), id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (r *repository) FindByRef(ctx context.Context, docType DocType, field, docID string) (*Document, error) {
	if !validRefColumns[field] {
		return nil, fmt.Errorf("%w: %s", ErrBadRefField, field)
	}
	query := fmt.Sprintf(`SELECT %s FROM sales_documents WHERE type = $1 AND %s = $2 ORDER BY created_at DESC LIMIT 1`, documentColumns, field)
	row := r.pool.QueryRow(ctx, query, docType, docID)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

func (r *repository) TimelineRPC(ctx context.Context, docID string) (json.RawMessage, error) {
	var payload []byte
	if err := r.pool.QueryRow(ctx, `SELECT get_document_timeline($1)`, docID).Scan(&payload); err != nil {
		return nil, fmt.Errorf("get_document_timeline: %w", err)
	}
	return payload, nil
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]Document, int, error) {
	conditions := []string{"business_id = $1"}
	args := []any{req.BusinessID}
	argPos := 2

	if req.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argPos))
		args = append(args, *req.Type)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("issue_date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("issue_date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}
	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(doc_number ILIKE $%d OR customer_name ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+req.Search+"%")
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM sales_documents %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM sales_documents %s ORDER BY issue_date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		documentColumns, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, *doc)
	}
	return docs, total, rows.Err()
}

func (r *repository) UpdateFields(ctx context.Context, id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	query := "UPDATE sales_documents SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{
		"customer_name", "customer_address", "customer_tax_id", "issue_date",
		"due_date", "expiry_date", "notes", "items", "subtotal",
		"discount_amount", "vat_amount", "withholding_amount", "grand_total",
	} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}
	if argPos == 1 {
		return nil
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE sales_documents SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sales_documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) CreateRPC(ctx context.Context, businessID string, docType DocType, common json.RawMessage, dueDate *time.Time, sourceDocID *string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx,
		`SELECT create_sales_document($1, $2, $3, $4, $5)`,
		businessID, docType, common, dueDate, sourceDocID,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create_sales_document: %w", err)
	}
	return id, nil
}

func (r *repository) AcceptQuotationRPC(ctx context.Context, id string, acceptanceDate time.Time) error {
	if _, err := r.pool.Exec(ctx, `SELECT accept_quotation($1, $2)`, id, acceptanceDate); err != nil {
		return fmt.Errorf("accept_quotation: %w", err)
	}
	return nil
}

func (r *repository) RecordPaymentRPC(ctx context.Context, invoiceID, businessID string) (string, error) {
	var receiptID string
	err := r.pool.QueryRow(ctx, `SELECT record_payment_and_create_receipt($1, $2)`, invoiceID, businessID).Scan(&receiptID)
	if err != nil {
		return "", fmt.Errorf("record_payment_and_create_receipt: %w", err)
	}
	return receiptID, nil
}

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	var customerAddress, customerTaxID, notes pgtype.Text
	var dueDate, expiryDate, acceptedDate, paymentDate pgtype.Date
	var issueDate pgtype.Date
	var createdAt pgtype.Timestamptz
	var items []byte
	var subtotal, discount, vat, withholding, grand pgtype.Numeric
	var convertedTo, legacyConverted, relQuotation, relInvoice, legacyRelInvoice, relReceipt, legacyRelReceipt, relTransaction pgtype.Text

	err := row.Scan(
		&d.ID, &d.BusinessID, &d.Type, &d.DocNumber, &d.CustomerName, &customerAddress,
		&customerTaxID, &issueDate, &dueDate, &expiryDate, &acceptedDate, &paymentDate,
		&items, &subtotal, &discount, &vat, &withholding, &grand,
		&d.Status, &notes, &createdAt,
		&convertedTo, &legacyConverted, &relQuotation,
		&relInvoice, &legacyRelInvoice, &relReceipt, &legacyRelReceipt,
		&relTransaction,
	)
	if err != nil {
		return nil, err
	}

	if issueDate.Valid {
		d.IssueDate = issueDate.Time
	}
	d.DueDate = datePtr(dueDate)
	d.ExpiryDate = datePtr(expiryDate)
	d.AcceptedDate = datePtr(acceptedDate)
	d.PaymentDate = datePtr(paymentDate)
	if createdAt.Valid {
		d.CreatedAt = createdAt.Time
	}

	if len(items) > 0 {
		if err := json.Unmarshal(items, &d.Items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
	}

	d.Subtotal = numericFloat(subtotal)
	d.DiscountAmount = numericFloat(discount)
	d.VATAmount = numericFloat(vat)
	d.WithholdingAmt = numericFloat(withholding)
	d.GrandTotal = numericFloat(grand)

	d.CustomerAddress = textPtr(customerAddress)
	d.CustomerTaxID = textPtr(customerTaxID)
	d.Notes = textPtr(notes)
	d.ConvertedToInvoiceID = textPtr(convertedTo)
	d.LegacyConvertedToInvoiceID = textPtr(legacyConverted)
	d.RelatedQuotationID = textPtr(relQuotation)
	d.RelatedInvoiceID = textPtr(relInvoice)
	d.LegacyRelatedInvoiceID = textPtr(legacyRelInvoice)
	d.RelatedReceiptID = textPtr(relReceipt)
	d.LegacyRelatedReceiptID = textPtr(legacyRelReceipt)
	d.RelatedTransactionID = textPtr(relTransaction)

	return &d, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid || t.String == "" {
		return nil
	}
	val := t.String
	return &val
}

func datePtr(t pgtype.Date) *time.Time {
	if !t.Valid {
		return nil
	}
	val := t.Time
	return &val
}

func numericFloat(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, _ := n.Float64Value()
	return f.Float64
}
