// Package export renders a customer's transactions as a standalone HTML
// statement that opens the browser print dialog once loaded.
package export

import (
	"errors"
	"html/template"
	"io"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/ledger"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
)

// ErrNothingToExport is returned for a customer without transactions; no
// document is produced.
var ErrNothingToExport = errors.New("no transactions to export")

type Statement struct {
	Customer     models.Customer
	Transactions []models.TransactionView
	ExportedAt   time.Time
}

type row struct {
	Date        string
	Kind        string
	Class       string
	Amount      template.HTML
	Description string
	CreatedAt   string
}

type page struct {
	Customer   models.Customer
	ExportDate string
	Rows       []row
	Balance    template.HTML
	Standing   string
}

var statementTemplate = template.Must(template.New("statement").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Customer.Name}} statement</title>
<style>
body { font-family: Inter, system-ui, -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; padding: 24px; color: #0f172a }
table { width: 100%; border-collapse: collapse; margin-top: 12px }
th, td { border: 1px solid #e6e9ef; padding: 8px; text-align: left }
th { background: #f8fafc; font-weight: 600 }
td.amount { text-align: right; font-variant-numeric: tabular-nums }
.debt { color: #dc2626 }
.payment { color: #16a34a }
.small { font-size: 12px; color: #6b7280 }
</style>
</head>
<body onload="window.focus(); setTimeout(function () { window.print(); }, 300)">
<div>
{{- with .Customer}}
<div><strong>{{.Name}}</strong></div>
{{- if .Phone}}<div>Phone: {{.Phone}}</div>{{end}}
{{- if .Email}}<div>Email: {{.Email}}</div>{{end}}
{{- if .Address}}<div>Address: {{.Address}}</div>{{end}}
{{- end}}
</div>
<div class="small" style="margin-top:8px">Export date: {{.ExportDate}}</div>
<div class="small">Balance: {{.Balance}} ({{.Standing}})</div>
<table>
<tr><th>Date</th><th>Type</th><th style="text-align:right">Amount (₦)</th><th>Description</th><th>Created At</th></tr>
{{- range .Rows}}
<tr><td>{{.Date}}</td><td class="{{.Class}}">{{.Kind}}</td><td class="amount {{.Class}}">{{.Amount}}</td><td>{{.Description}}</td><td>{{.CreatedAt}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

// Render writes the printable statement. Text fields are HTML-escaped.
func Render(w io.Writer, s Statement) error {
	if len(s.Transactions) == 0 {
		return ErrNothingToExport
	}

	rows := make([]row, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		sign := "+"
		if t.Type == ledger.Debt {
			sign = "-"
		}
		rows = append(rows, row{
			Date:        t.TransactionDate,
			Kind:        string(t.Type),
			Class:       string(t.Type),
			Amount:      signedAmount(sign, t.Amount.StringFixed(2)),
			Description: t.Description,
			CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	balance := ledger.Balance(s.Transactions)
	return statementTemplate.Execute(w, page{
		Customer:   s.Customer,
		ExportDate: s.ExportedAt.UTC().Format(models.DateLayout),
		Rows:       rows,
		Balance:    template.HTML(ledger.FormatNaira(balance)),
		Standing:   ledger.StandingOf(balance).Label(),
	})
}

// signedAmount marks a formatted number as safe so the leading "+" is not
// entity-encoded. Both parts come from decimal formatting only.
func signedAmount(sign, fixed string) template.HTML {
	return template.HTML(sign + fixed)
}
