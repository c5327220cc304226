package withholding

import "time"

type CreateCertificateRequest struct {
	PayeeType     PayeeType  `json:"payee_type" validate:"omitempty,oneof=individual company"`
	PayeeName     string     `json:"payee_name" validate:"required,max=200"`
	PayeeTaxID    string     `json:"payee_tax_id" validate:"required,len=13,numeric"`
	PayeeAddress  *string    `json:"payee_address,omitempty" validate:"omitempty,max=500"`
	IncomeType    IncomeType `json:"income_type" validate:"required"`
	IncomeDesc    *string    `json:"income_description,omitempty" validate:"omitempty,max=200"`
	PaymentDate   time.Time  `json:"payment_date" validate:"required"`
	BaseAmount    float64    `json:"base_amount" validate:"required,gt=0"`
	Rate          *float64   `json:"rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	TransactionID *string    `json:"transaction_id,omitempty"`
}
