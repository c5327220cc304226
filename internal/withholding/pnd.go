package withholding

// ClassifyPNDForm picks the filing form for a payee. Juristic persons file
// under ภ.ง.ด.53, individuals under ภ.ง.ด.3. When the payee type is absent
// the tax id shape decides: 13-digit ids beginning with 0 belong to
// juristic persons registered with DBD.
func ClassifyPNDForm(payeeType PayeeType, taxID string) PNDForm {
	switch payeeType {
	case PayeeCompany:
		return PND53
	case PayeeIndividual:
		return PND3
	}
	if len(taxID) == 13 && taxID[0] == '0' {
		return PND53
	}
	return PND3
}

// RateFor returns the statutory rate for an income type. Unknown types get
// the general 3 percent service rate.
func RateFor(t IncomeType) float64 {
	if rate, ok := DefaultRates[t]; ok {
		return rate
	}
	return 3
}
