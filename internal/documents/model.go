package documents

import "time"

// DocType discriminates rows in the polymorphic sales_documents table.
type DocType string

const (
	TypeQuotation  DocType = "quotation"
	TypeProforma   DocType = "proforma"
	TypeInvoice    DocType = "invoice"
	TypeCreditNote DocType = "credit_note"
	TypeDebitNote  DocType = "debit_note"
	TypeReceipt    DocType = "receipt"
)

// Status is the closed set of document statuses. The values are the Thai
// strings persisted by the original schema and must not be translated.
type Status string

const (
	StatusDraft              Status = "ฉบับร่าง"
	StatusAwaitingAcceptance Status = "รอตอบรับ"
	StatusAccepted           Status = "ยอมรับแล้ว"
	StatusRejected           Status = "ปฏิเสธแล้ว"
	StatusAwaitingPayment    Status = "รอชำระ"
	StatusOutstanding        Status = "ค้างชำระ"
	StatusOverdue            Status = "เกินกำหนด"
	StatusPaid               Status = "ชำระแล้ว"
	StatusVoid               Status = "ยกเลิก"
	StatusComplete           Status = "สมบูรณ์"
)

// Item is one line on a sales document, stored as jsonb.
type Item struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// Document is one row of sales_documents. The schema carries several
// historically-introduced alias columns for the same cross-document
// relation; see refs.go for the priority order readers must use.
type Document struct {
	ID              string     `json:"id" db:"id"`
	BusinessID      string     `json:"business_id" db:"business_id"`
	Type            DocType    `json:"type" db:"type"`
	DocNumber       string     `json:"doc_number" db:"doc_number"`
	CustomerName    string     `json:"customer_name" db:"customer_name"`
	CustomerAddress *string    `json:"customer_address,omitempty" db:"customer_address"`
	CustomerTaxID   *string    `json:"customer_tax_id,omitempty" db:"customer_tax_id"`
	IssueDate       time.Time  `json:"issue_date" db:"issue_date"`
	DueDate         *time.Time `json:"due_date,omitempty" db:"due_date"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty" db:"expiry_date"`
	AcceptedDate    *time.Time `json:"accepted_date,omitempty" db:"accepted_date"`
	PaymentDate     *time.Time `json:"payment_date,omitempty" db:"payment_date"`
	Items           []Item     `json:"items" db:"items"`
	Subtotal        float64    `json:"subtotal" db:"subtotal"`
	DiscountAmount  float64    `json:"discount_amount" db:"discount_amount"`
	VATAmount       float64    `json:"vat_amount" db:"vat_amount"`
	WithholdingAmt  float64    `json:"withholding_amount" db:"withholding_amount"`
	GrandTotal      float64    `json:"grand_total" db:"grand_total"`
	Status          Status     `json:"status" db:"status"`
	Notes           *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`

	// Cross-document references. Every alias that ever carried the edge is
	// kept; none of them alone is authoritative.
	ConvertedToInvoiceID       *string `json:"converted_to_invoice_id,omitempty" db:"converted_to_invoice_id"`
	LegacyConvertedToInvoiceID *string `json:"convertedtoinvoiceid,omitempty" db:"convertedtoinvoiceid"`
	RelatedQuotationID         *string `json:"related_quotation_id,omitempty" db:"related_quotation_id"`
	RelatedInvoiceID           *string `json:"related_invoice_id,omitempty" db:"related_invoice_id"`
	LegacyRelatedInvoiceID     *string `json:"relatedinvoiceid,omitempty" db:"relatedinvoiceid"`
	RelatedReceiptID           *string `json:"related_receipt_id,omitempty" db:"related_receipt_id"`
	LegacyRelatedReceiptID     *string `json:"relatedreceiptid,omitempty" db:"relatedreceiptid"`
	RelatedTransactionID       *string `json:"related_transaction_id,omitempty" db:"related_transaction_id"`
}

// IsVoid reports whether the document carries the void sentinel status.
func (d *Document) IsVoid() bool {
	return d != nil && d.Status == StatusVoid
}

// slot returns which timeline position the document occupies. Credit and
// debit notes have no position in the quotation→invoice→receipt chain.
func (d *Document) slot() (DocType, bool) {
	switch d.Type {
	case TypeQuotation, TypeProforma:
		return TypeQuotation, true
	case TypeInvoice:
		return TypeInvoice, true
	case TypeReceipt:
		return TypeReceipt, true
	default:
		return "", false
	}
}
