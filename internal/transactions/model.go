package transactions

import "time"

type TxType string

const (
	TypeIncome  TxType = "income"
	TypeExpense TxType = "expense"
)

type Transaction struct {
	ID             string    `json:"id" db:"id"`
	BusinessID     string    `json:"business_id" db:"business_id"`
	Type           TxType    `json:"type" db:"type"`
	Category       string    `json:"category" db:"category"`
	Description    string    `json:"description" db:"description"`
	Amount         float64   `json:"amount" db:"amount"`
	HasVAT         bool      `json:"has_vat" db:"has_vat"`
	VATAmount      float64   `json:"vat_amount" db:"vat_amount"`
	WithholdingAmt float64   `json:"withholding_amount" db:"withholding_amount"`
	TxDate         time.Time `json:"transaction_date" db:"transaction_date"`
	ContactID      *string   `json:"contact_id,omitempty" db:"contact_id"`
	ContactName    *string   `json:"contact_name,omitempty" db:"contact_name"`
	DocumentID     *string   `json:"document_id,omitempty" db:"document_id"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// MonthSummary aggregates one calendar month of the ledger.
type MonthSummary struct {
	Month       string  `json:"month"`
	Income      float64 `json:"income"`
	Expense     float64 `json:"expense"`
	Net         float64 `json:"net"`
	VATPaid     float64 `json:"vat_paid"`
	VATReceived float64 `json:"vat_received"`
}
