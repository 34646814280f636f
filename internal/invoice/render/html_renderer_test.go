package render

import (
	"testing"
	"time"

	"github.com/glanzwerk/invoicing/internal/config"
	"github.com/glanzwerk/invoicing/internal/invoice/domain"
	"github.com/glanzwerk/invoicing/internal/layout"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func previewRecord() domain.Record {
	issued := time.Date(2026, time.May, 4, 14, 7, 0, 0, time.UTC)
	net := decimal.NewFromInt(50)
	gross := net.Mul(decimal.RequireFromString("1.19"))
	discount := gross.Mul(decimal.NewFromInt(25)).Div(decimal.NewFromInt(100))
	return domain.Record{
		CustomerName:  "<b>Max</b>",
		VehicleNumber: "K-GW 123",
		LineItems:     []domain.LineItem{{Description: "Außenreinigung per Hand", NetPrice: net}},
		NetSubtotal:   net,
		TaxRate:       domain.TaxRate,
		TaxAmount:     net.Mul(domain.TaxRate),
		GrossSubtotal: gross,
		DiscountSources: []domain.DiscountSource{
			{Kind: domain.DiscountRegularCustomer, Label: "Stammkundenrabatt (10%)", Percent: decimal.NewFromInt(10)},
			{Kind: domain.DiscountCode, Label: "Code NEUKUNDE (15%)", Percent: decimal.NewFromInt(15)},
		},
		TotalDiscountPercent: decimal.NewFromInt(25),
		DiscountAmount:       discount,
		TotalPrice:           gross.Sub(discount),
		InvoiceNumber:        "2025-05041407",
		IssueDate:            issued,
		DueDate:              issued.AddDate(0, 0, domain.DueDays),
	}
}

func TestRenderHTML(t *testing.T) {
	r := NewRenderer()
	html, err := r.RenderHTML(RenderInput{
		Record:  previewRecord(),
		Company: layout.ProfileFromConfig(config.DefaultInvoiceConfig().Company),
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Rechnung 2025-05041407")
	assert.Contains(t, html, "&lt;b&gt;Max&lt;/b&gt;")
	assert.Contains(t, html, "59.50EUR")
	assert.Contains(t, html, "9.50EUR")
	assert.Contains(t, html, "Gesamtrabatt (25%)")
	assert.Contains(t, html, "-14.88EUR")
	assert.Contains(t, html, "44.63EUR")
	assert.Contains(t, html, "Stammkundenrabatt (10%)")
	assert.Contains(t, html, "Code NEUKUNDE (15%)")
	assert.Contains(t, html, "18.05.2026")
	assert.Contains(t, html, "19% MwSt.")
	assert.Contains(t, html, "--primary: #16a34a")
}

func TestRenderHTML_WithoutDiscount(t *testing.T) {
	rec := previewRecord()
	rec.DiscountSources = nil
	rec.TotalDiscountPercent = decimal.Zero
	rec.DiscountAmount = decimal.Zero
	rec.TotalPrice = rec.GrossSubtotal

	html, err := NewRenderer().RenderHTML(RenderInput{Record: rec, AccentColor: "#123456"})
	require.NoError(t, err)
	assert.NotContains(t, html, "Gesamtrabatt")
	assert.NotContains(t, html, "Angewandte Rabatte")
	assert.Contains(t, html, "--primary: #123456")
}

func TestSanitizeColor(t *testing.T) {
	assert.Equal(t, "#abcdef", sanitizeColor(" #abcdef "))
	assert.Equal(t, defaultAccent, sanitizeColor("red; background: url(x)"))
	assert.Equal(t, defaultAccent, sanitizeColor(""))
}
