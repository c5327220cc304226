package withholding

import "testing"

func TestClassifyPNDForm(t *testing.T) {
	cases := []struct {
		name      string
		payeeType PayeeType
		taxID     string
		want      PNDForm
	}{
		{"company files PND53", PayeeCompany, "0105558000001", PND53},
		{"individual files PND3", PayeeIndividual, "1100500000001", PND3},
		{"unknown type, juristic tax id shape", "", "0105558000001", PND53},
		{"unknown type, personal tax id shape", "", "1100500000001", PND3},
		{"unknown type, short tax id", "", "12345", PND3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyPNDForm(tc.payeeType, tc.taxID); got != tc.want {
				t.Fatalf("ClassifyPNDForm(%q, %q) = %v, want %v", tc.payeeType, tc.taxID, got, tc.want)
			}
		})
	}
}

func TestRateFor(t *testing.T) {
	if got := RateFor(IncomeRent); got != 5 {
		t.Fatalf("rent rate = %v, want 5", got)
	}
	if got := RateFor(IncomeTransport); got != 1 {
		t.Fatalf("transport rate = %v, want 1", got)
	}
	if got := RateFor(IncomeType("something-else")); got != 3 {
		t.Fatalf("fallback rate = %v, want 3", got)
	}
}

func TestRound2(t *testing.T) {
	if got := round2(1070 * 3 / 100.0); got != 32.1 {
		t.Fatalf("round2 = %v, want 32.1", got)
	}
	if got := round2(3.14159); got != 3.14 {
		t.Fatalf("round2 = %v, want 3.14", got)
	}
}
