package documents

// Totals holds the computed money fields of a document.
type Totals struct {
	Subtotal       float64
	DiscountAmount float64
	VATAmount      float64
	WithholdingAmt float64
	GrandTotal     float64
}

// CalculateTotals derives document totals from item lines. VAT and
// withholding apply to the discounted base; withholding reduces the amount
// payable but not the VAT base.
func CalculateTotals(items []Item, discount, vatRate, withholdingRate float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Quantity * item.UnitPrice
	}
	if discount < 0 {
		discount = 0
	}
	base := subtotal - discount
	if base < 0 {
		base = 0
	}
	vat := base * vatRate / 100
	withholding := base * withholdingRate / 100
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		VATAmount:      vat,
		WithholdingAmt: withholding,
		GrandTotal:     base + vat - withholding,
	}
}
