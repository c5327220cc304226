package documents

import "time"

type ItemRequest struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

type CreateDocumentRequest struct {
	Type            DocType       `json:"type" validate:"required,oneof=quotation proforma invoice credit_note debit_note receipt"`
	CustomerName    string        `json:"customer_name" validate:"required"`
	CustomerAddress *string       `json:"customer_address,omitempty"`
	CustomerTaxID   *string       `json:"customer_tax_id,omitempty"`
	IssueDate       time.Time     `json:"issue_date" validate:"required"`
	DueDate         *time.Time    `json:"due_date,omitempty"`
	ExpiryDate      *time.Time    `json:"expiry_date,omitempty"`
	Items           []ItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountAmount  float64       `json:"discount_amount" validate:"gte=0"`
	VATRate         float64       `json:"vat_rate" validate:"gte=0,lte=100"`
	WithholdingRate float64       `json:"withholding_rate" validate:"gte=0,lte=100"`
	Notes           *string       `json:"notes,omitempty"`
}

type UpdateDocumentRequest struct {
	CustomerName    *string        `json:"customer_name,omitempty"`
	CustomerAddress *string        `json:"customer_address,omitempty"`
	CustomerTaxID   *string        `json:"customer_tax_id,omitempty"`
	IssueDate       *time.Time     `json:"issue_date,omitempty"`
	DueDate         *time.Time     `json:"due_date,omitempty"`
	ExpiryDate      *time.Time     `json:"expiry_date,omitempty"`
	Items           *[]ItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
	DiscountAmount  *float64       `json:"discount_amount,omitempty" validate:"omitempty,gte=0"`
	VATRate         *float64       `json:"vat_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	WithholdingRate *float64       `json:"withholding_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	Notes           *string        `json:"notes,omitempty"`
}

type ConvertRequest struct {
	DueDate *time.Time `json:"due_date,omitempty"`
}

type AcceptRequest struct {
	AcceptanceDate *time.Time `json:"acceptance_date,omitempty"`
}

// Actions describes which lifecycle operations the current state allows.
// The flags are advisory: the service re-checks them before mutating.
type Actions struct {
	CanEdit             bool `json:"can_edit"`
	CanDelete           bool `json:"can_delete"`
	CanSend             bool `json:"can_send"`
	CanAccept           bool `json:"can_accept"`
	CanReject           bool `json:"can_reject"`
	CanConvertToInvoice bool `json:"can_convert_to_invoice"`
	CanRecordPayment    bool `json:"can_record_payment"`
	CanVoid             bool `json:"can_void"`
}

// Detail is a document with its resolved timeline and action availability.
type Detail struct {
	Document Document `json:"document"`
	Timeline Timeline `json:"timeline"`
	Locked   bool     `json:"locked"`
	Actions  Actions  `json:"actions"`
}
