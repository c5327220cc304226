package reports

import (
	"bytes"
	"context"
	"html/template"
)

// Renderer turns report HTML into a PDF. Satisfied by report.Client.
type Renderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

var plTemplate = template.Must(template.New("pl").Parse(`<!DOCTYPE html>
<html lang="th">
<head>
<meta charset="utf-8">
<style>
body { font-family: "TH Sarabun New", "Sarabun", sans-serif; font-size: 14pt; }
h1 { font-size: 18pt; text-align: center; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
td, th { border: 1px solid #333; padding: 6px 10px; }
.right { text-align: right; }
tr.total td { font-weight: bold; }
</style>
</head>
<body>
<h1>งบกำไรขาดทุน</h1>
<p>ช่วงเวลา {{.From}} ถึง {{.To}}</p>
<table>
<tr><th>เดือน</th><th class="right">รายรับ</th><th class="right">รายจ่าย</th><th class="right">กำไรสุทธิ</th></tr>
{{range .Rows}}
<tr><td>{{.Month}}</td><td class="right">{{.Income}}</td><td class="right">{{.Expense}}</td><td class="right">{{.Net}}</td></tr>
{{end}}
<tr class="total"><td>รวม</td><td class="right">{{.TotalIncome}}</td><td class="right">{{.TotalExpense}}</td><td class="right">{{.TotalNet}}</td></tr>
</table>
</body>
</html>`))

type plRowView struct {
	Month   string
	Income  string
	Expense string
	Net     string
}

type plView struct {
	From         string
	To           string
	Rows         []plRowView
	TotalIncome  string
	TotalExpense string
	TotalNet     string
}

// RenderPLPDF renders the P&L report to a printable PDF.
func RenderPLPDF(ctx context.Context, renderer Renderer, report *PLReport, from, to string) ([]byte, error) {
	view := plView{
		From:         from,
		To:           to,
		TotalIncome:  formatBaht(report.TotalIncome),
		TotalExpense: formatBaht(report.TotalExpense),
		TotalNet:     formatBaht(report.TotalNet),
	}
	for _, r := range report.Months {
		view.Rows = append(view.Rows, plRowView{
			Month:   r.Month,
			Income:  formatBaht(r.Income),
			Expense: formatBaht(r.Expense),
			Net:     formatBaht(r.Net),
		})
	}

	var buf bytes.Buffer
	if err := plTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return renderer.RenderHTML(ctx, buf.String())
}
