package render

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/glanzwerk/invoicing/internal/invoice/domain"
	"github.com/glanzwerk/invoicing/internal/invoice/format"
	"github.com/glanzwerk/invoicing/internal/layout"
	"github.com/shopspring/decimal"
)

const invoiceHTMLTemplate = `<!doctype html>
<html lang="de">
<head>
  <meta charset="utf-8" />
  <title>Rechnung {{.Record.InvoiceNumber}}</title>
  <style>
    :root {
      --primary: {{.AccentColor}};
      --font: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 40px;
      font-family: var(--font);
      color: #1a1f36;
      background: #f7f9fc;
    }
    .invoice-card {
      background: #ffffff;
      max-width: 760px;
      margin: 0 auto;
      padding: 48px;
      box-shadow: 0 2px 5px rgba(0,0,0,0.04);
      border-radius: 4px;
    }
    .header { display: flex; justify-content: space-between; margin-bottom: 32px; }
    .header h1 { margin: 0; font-size: 24px; }
    .label {
      font-size: 11px;
      text-transform: uppercase;
      color: #8792a2;
      margin-bottom: 6px;
      font-weight: 600;
    }
    .value { font-size: 14px; line-height: 1.5; }
    .meta-grid { display: flex; justify-content: space-between; margin-bottom: 32px; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
    th {
      text-align: left;
      font-size: 11px;
      color: #8792a2;
      border-bottom: 1px solid #e3e8ee;
      padding: 10px 0;
    }
    td { padding: 12px 0; border-bottom: 1px solid #e3e8ee; font-size: 14px; vertical-align: top; }
    .td-right { text-align: right; }
    .item-sub { font-size: 12px; color: #697386; }
    .subtotal td { font-weight: 600; background: #f7f9fc; }
    .discount td { color: var(--primary); }
    .total td { font-weight: 700; font-size: 16px; }
    .total .td-right { color: var(--primary); }
    .badges { padding: 12px; border: 1px solid var(--primary); border-radius: 6px; }
    .badge {
      display: inline-block;
      margin: 4px 6px 0 0;
      padding: 2px 8px;
      border-radius: 10px;
      font-size: 12px;
      background: #ecfdf3;
      color: var(--primary);
    }
    .footer {
      margin-top: 48px;
      font-size: 12px;
      color: #8792a2;
      border-top: 1px solid #e3e8ee;
      padding-top: 16px;
      text-align: center;
    }
  </style>
</head>
<body>
  <div class="invoice-card">
    <div class="header">
      <div>
        <h1>RECHNUNG</h1>
        <div class="label" style="margin-top: 12px;">Rechnungsnummer</div>
        <div class="value">{{.Record.InvoiceNumber}}</div>
      </div>
      <div class="value" style="text-align: right;">{{.Company.Name}}<br>{{.Company.Street}}<br>{{.Company.PostalCity}}</div>
    </div>

    <div class="meta-grid">
      <div>
        <div class="label">Kunde</div>
        <div class="value"><strong>{{.Record.CustomerName}}</strong><br>Fahrzeug: {{.Record.VehicleNumber}}</div>
      </div>
      <div style="flex: 0 0 200px;">
        <div class="label">Rechnungsdatum</div>
        <div class="value">{{formatDate .Record.IssueDate}}</div>
        <div class="label" style="margin-top: 16px;">Fälligkeitsdatum</div>
        <div class="value">{{formatDate .Record.DueDate}}</div>
      </div>
    </div>

    <table>
      <thead>
        <tr>
          <th style="width: 55%;">Beschreibung</th>
          <th class="td-right">Einzelpreis</th>
          <th class="td-right">MwSt.</th>
          <th class="td-right">Gesamt</th>
        </tr>
      </thead>
      <tbody>
        {{range $i, $item := .Items}}
        <tr>
          <td>
            <div>{{$item.Description}}</div>
            {{if and (eq $i 0) $.Record.Service.Description}}<div class="item-sub">{{$.Record.Service.Description}}</div>{{end}}
          </td>
          <td class="td-right">{{$item.Net}}</td>
          <td class="td-right">{{$item.Tax}}</td>
          <td class="td-right">{{$item.Gross}}</td>
        </tr>
        {{end}}
        <tr class="subtotal">
          <td colspan="3">Zwischensumme inkl. MwSt. ({{formatPercent .TaxPercent}}% MwSt.: {{formatMoney .Record.TaxAmount}})</td>
          <td class="td-right">{{formatMoney .Record.GrossSubtotal}}</td>
        </tr>
        {{if .Record.HasDiscount}}
        <tr class="discount">
          <td colspan="3">Gesamtrabatt ({{formatPercent .Record.TotalDiscountPercent}}%)</td>
          <td class="td-right">{{formatNegative .Record.DiscountAmount}}</td>
        </tr>
        {{end}}
        <tr class="total">
          <td colspan="3">Gesamt inkl. MwSt.</td>
          <td class="td-right">{{formatMoney .Record.TotalPrice}}</td>
        </tr>
      </tbody>
    </table>

    {{if .Record.HasDiscount}}
    <div class="badges">
      <div class="label">Angewandte Rabatte</div>
      {{range .Record.DiscountSources}}<span class="badge">{{.Label}}</span>{{end}}
    </div>
    {{end}}

    <div class="footer">
      {{.Company.Name}} | {{.Company.Phone}} | {{.Company.Email}}
      {{if .Company.Tagline}}<br>{{.Company.Tagline}}{{end}}
    </div>
  </div>
</body>
</html>
`

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

const defaultAccent = "#16a34a"

// Renderer turns a priced record into an HTML preview.
type Renderer interface {
	RenderHTML(input RenderInput) (string, error)
}

type RenderInput struct {
	Record      domain.Record
	Company     layout.Profile
	AccentColor string
}

type itemView struct {
	Description string
	Net         string
	Tax         string
	Gross       string
}

type pageView struct {
	RenderInput
	Items      []itemView
	TaxPercent decimal.Decimal
}

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	funcs := template.FuncMap{
		"formatMoney":    format.Amount,
		"formatNegative": format.NegatedAmount,
		"formatPercent":  format.Percent,
		"formatDate":     format.Date,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("invoice").Funcs(funcs).Parse(invoiceHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(input RenderInput) (string, error) {
	input.AccentColor = sanitizeColor(input.AccentColor)

	view := pageView{
		RenderInput: input,
		Items:       make([]itemView, 0, len(input.Record.LineItems)),
		TaxPercent:  input.Record.TaxRate.Mul(decimal.NewFromInt(100)),
	}
	for _, item := range input.Record.LineItems {
		view.Items = append(view.Items, itemView{
			Description: item.Description,
			Net:         format.Amount(item.NetPrice),
			Tax:         format.Amount(item.TaxAmount(input.Record.TaxRate)),
			Gross:       format.Amount(item.Gross(input.Record.TaxRate)),
		})
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, view); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func sanitizeColor(value string) string {
	trimmed := strings.TrimSpace(value)
	if hexColorPattern.MatchString(trimmed) {
		return trimmed
	}
	return defaultAccent
}
