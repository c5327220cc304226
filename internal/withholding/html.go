package withholding

import (
	"bytes"
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var certTemplate = template.Must(template.New("cert").Parse(`<!DOCTYPE html>
<html lang="th">
<head>
<meta charset="utf-8">
<style>
body { font-family: "TH Sarabun New", "Sarabun", sans-serif; font-size: 14pt; }
h1 { font-size: 18pt; text-align: center; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
td, th { border: 1px solid #333; padding: 6px 10px; }
.right { text-align: right; }
.meta { margin-top: 8px; }
</style>
</head>
<body>
<h1>หนังสือรับรองการหักภาษี ณ ที่จ่าย</h1>
<p class="meta">เลขที่ {{.CertNumber}} &mdash; แบบ {{.PNDForm}}</p>
<p class="meta">ผู้ถูกหักภาษี: {{.PayeeName}} เลขประจำตัวผู้เสียภาษี {{.PayeeTaxID}}</p>
{{if .PayeeAddress}}<p class="meta">ที่อยู่: {{.PayeeAddress}}</p>{{end}}
<table>
<tr><th>ประเภทเงินได้</th><th>วันที่จ่าย</th><th class="right">จำนวนเงินที่จ่าย</th><th class="right">อัตรา</th><th class="right">ภาษีที่หัก</th></tr>
<tr>
	<td>{{.IncomeLabel}}</td>
	<td>{{.PaymentDate}}</td>
	<td class="right">{{.BaseAmount}}</td>
	<td class="right">{{.Rate}}%</td>
	<td class="right">{{.TaxWithheld}}</td>
</tr>
</table>
<p class="meta">จำนวนภาษีที่หักและนำส่ง (ตัวอักษร): {{.TaxWithheld}} บาท</p>
</body>
</html>`))

type certView struct {
	CertNumber   string
	PNDForm      PNDForm
	PayeeName    string
	PayeeTaxID   string
	PayeeAddress *string
	IncomeLabel  string
	PaymentDate  string
	BaseAmount   string
	Rate         float64
	TaxWithheld  string
}

var incomeLabels = map[IncomeType]string{
	IncomeSalary:    "เงินเดือน ค่าจ้าง ตามมาตรา 40(1)",
	IncomeFees:      "ค่าธรรมเนียม ค่านายหน้า ตามมาตรา 40(2)",
	IncomeService:   "ค่าบริการ",
	IncomeRent:      "ค่าเช่าทรัพย์สิน",
	IncomeTransport: "ค่าขนส่ง",
	IncomeAds:       "ค่าโฆษณา",
	IncomeDividend:  "เงินปันผล",
}

// certificateHTML renders the printable certificate. Amounts use Thai digit
// grouping through the message printer.
func certificateHTML(c *Certificate) string {
	p := message.NewPrinter(language.Thai)

	label, ok := incomeLabels[c.IncomeType]
	if !ok {
		label = string(c.IncomeType)
		if c.IncomeDesc != nil {
			label = *c.IncomeDesc
		}
	}

	view := certView{
		CertNumber:   c.CertNumber,
		PNDForm:      c.PNDForm,
		PayeeName:    c.PayeeName,
		PayeeTaxID:   c.PayeeTaxID,
		PayeeAddress: c.PayeeAddress,
		IncomeLabel:  label,
		PaymentDate:  c.PaymentDate.Format("02/01/2006"),
		BaseAmount:   p.Sprintf("%.2f", c.BaseAmount),
		Rate:         c.Rate,
		TaxWithheld:  p.Sprintf("%.2f", c.TaxWithheld),
	}

	var buf bytes.Buffer
	if err := certTemplate.Execute(&buf, view); err != nil {
		return ""
	}
	return buf.String()
}
