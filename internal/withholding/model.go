package withholding

import "time"

// PNDForm is the revenue-department filing form the certificate rolls into.
type PNDForm string

const (
	PND3  PNDForm = "ภ.ง.ด.3"
	PND53 PNDForm = "ภ.ง.ด.53"
)

// PayeeType distinguishes individual payees from juristic persons.
type PayeeType string

const (
	PayeeIndividual PayeeType = "individual"
	PayeeCompany    PayeeType = "company"
)

// IncomeType keys the section of the certificate form and the default rate.
type IncomeType string

const (
	IncomeSalary    IncomeType = "40(1)"
	IncomeFees      IncomeType = "40(2)"
	IncomeService   IncomeType = "service"
	IncomeRent      IncomeType = "rent"
	IncomeTransport IncomeType = "transport"
	IncomeAds       IncomeType = "advertising"
	IncomeDividend  IncomeType = "dividend"
)

// DefaultRates maps each income type to its statutory withholding rate.
var DefaultRates = map[IncomeType]float64{
	IncomeSalary:    0,
	IncomeFees:      3,
	IncomeService:   3,
	IncomeRent:      5,
	IncomeTransport: 1,
	IncomeAds:       2,
	IncomeDividend:  10,
}

type Certificate struct {
	ID            string     `json:"id" db:"id"`
	BusinessID    string     `json:"business_id" db:"business_id"`
	CertNumber    string     `json:"cert_number" db:"cert_number"`
	SequenceNo    int        `json:"sequence_no" db:"sequence_no"`
	PNDForm       PNDForm    `json:"pnd_form" db:"pnd_form"`
	PayeeType     PayeeType  `json:"payee_type" db:"payee_type"`
	PayeeName     string     `json:"payee_name" db:"payee_name"`
	PayeeTaxID    string     `json:"payee_tax_id" db:"payee_tax_id"`
	PayeeAddress  *string    `json:"payee_address,omitempty" db:"payee_address"`
	IncomeType    IncomeType `json:"income_type" db:"income_type"`
	IncomeDesc    *string    `json:"income_description,omitempty" db:"income_description"`
	PaymentDate   time.Time  `json:"payment_date" db:"payment_date"`
	BaseAmount    float64    `json:"base_amount" db:"base_amount"`
	Rate          float64    `json:"rate" db:"rate"`
	TaxWithheld   float64    `json:"tax_withheld" db:"tax_withheld"`
	TransactionID *string    `json:"transaction_id,omitempty" db:"transaction_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
