package reports

// PLRow is one month of the profit and loss summary.
type PLRow struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

type PLReport struct {
	Months       []PLRow `json:"months"`
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	TotalNet     float64 `json:"total_net"`
}

// StatusCount tallies sales documents per type and status.
type StatusCount struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type TopCustomer struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// TaxSummary aggregates VAT and withholding over a date range.
type TaxSummary struct {
	OutputVAT         float64 `json:"output_vat"`
	InputVAT          float64 `json:"input_vat"`
	VATDue            float64 `json:"vat_due"`
	WithholdingIssued float64 `json:"withholding_issued"`
}
