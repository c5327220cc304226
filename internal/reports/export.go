package reports

import (
	"encoding/csv"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WritePLCSV serialises the monthly P&L to CSV with baht grouping.
func WritePLCSV(w io.Writer, report *PLReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"เดือน", "รายรับ", "รายจ่าย", "กำไรสุทธิ"}); err != nil {
		return err
	}
	for _, row := range report.Months {
		if err := writer.Write([]string{
			row.Month,
			formatBaht(row.Income),
			formatBaht(row.Expense),
			formatBaht(row.Net),
		}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{
		"รวม",
		formatBaht(report.TotalIncome),
		formatBaht(report.TotalExpense),
		formatBaht(report.TotalNet),
	}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteTaxCSV emits the VAT and withholding summary as CSV.
func WriteTaxCSV(w io.Writer, summary *TaxSummary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	records := [][]string{
		{"รายการ", "จำนวนเงิน"},
		{"ภาษีขาย", formatBaht(summary.OutputVAT)},
		{"ภาษีซื้อ", formatBaht(summary.InputVAT)},
		{"ภาษีมูลค่าเพิ่มที่ต้องชำระ", formatBaht(summary.VATDue)},
		{"ภาษีหัก ณ ที่จ่ายที่ออกหนังสือรับรอง", formatBaht(summary.WithholdingIssued)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

var bahtPrinter = message.NewPrinter(language.Thai)

func formatBaht(v float64) string {
	return bahtPrinter.Sprintf("%.2f", v)
}
