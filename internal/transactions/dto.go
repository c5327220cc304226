package transactions

import "time"

type CreateTransactionRequest struct {
	Type           TxType    `json:"type" validate:"required,oneof=income expense"`
	Category       string    `json:"category" validate:"required,max=100"`
	Description    string    `json:"description" validate:"required,max=500"`
	Amount         float64   `json:"amount" validate:"required,gt=0"`
	HasVAT         bool      `json:"has_vat"`
	WithholdingAmt float64   `json:"withholding_amount" validate:"gte=0"`
	TxDate         time.Time `json:"transaction_date" validate:"required"`
	ContactID      *string   `json:"contact_id,omitempty"`
	ContactName    *string   `json:"contact_name,omitempty" validate:"omitempty,max=200"`
	DocumentID     *string   `json:"document_id,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
}

type UpdateTransactionRequest struct {
	Category       *string    `json:"category,omitempty" validate:"omitempty,max=100"`
	Description    *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	Amount         *float64   `json:"amount,omitempty" validate:"omitempty,gt=0"`
	HasVAT         *bool      `json:"has_vat,omitempty"`
	WithholdingAmt *float64   `json:"withholding_amount,omitempty" validate:"omitempty,gte=0"`
	TxDate         *time.Time `json:"transaction_date,omitempty"`
	ContactID      *string    `json:"contact_id,omitempty"`
	ContactName    *string    `json:"contact_name,omitempty" validate:"omitempty,max=200"`
	Notes          *string    `json:"notes,omitempty"`
}

type ListTransactionsRequest struct {
	BusinessID string     `json:"business_id" validate:"required"`
	Type       *TxType    `json:"type,omitempty"`
	Category   *string    `json:"category,omitempty"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
	Search     string     `json:"search,omitempty"`
	Limit      int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int        `json:"offset" validate:"gte=0"`
}
