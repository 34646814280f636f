package layout

import (
	"fmt"
	"sync/atomic"

	"github.com/glanzwerk/invoicing/internal/invoice/domain"
	"github.com/glanzwerk/invoicing/internal/invoice/format"
)

// DiscountRows selects how discounts appear below the subtotal.
type DiscountRows string

const (
	// DiscountRowsPerSource prints one row per discount source. Every row
	// carries the overall discount amount, not the share of that source.
	DiscountRowsPerSource DiscountRows = "per_source"
	// DiscountRowsLumped prints a single "Gesamtrabatt" row.
	DiscountRowsLumped DiscountRows = "lumped"
)

// Column widths of the line-item table.
var tableWidths = [5]float64{80, 25, 25, 25, 25}

const (
	labelWidth  = 155
	amountWidth = 25

	metaX     = 120
	metaY     = 35
	metaWidth = 70

	contentX = 10
	contentY = 70

	footerY = -40
)

type Options struct {
	DiscountRows DiscountRows
	LogoPath     string
}

// Engine lays out invoice records. It is safe for concurrent use; the
// profile can be swapped while requests are in flight.
type Engine struct {
	opts    Options
	profile atomic.Pointer[Profile]
}

func NewEngine(profile Profile, opts Options) *Engine {
	if opts.DiscountRows != DiscountRowsLumped {
		opts.DiscountRows = DiscountRowsPerSource
	}
	e := &Engine{opts: opts}
	e.profile.Store(&profile)
	return e
}

func (e *Engine) SetProfile(p Profile) {
	e.profile.Store(&p)
}

func (e *Engine) Profile() Profile {
	return *e.profile.Load()
}

// Layout builds the drawing program for rec. It is a pure function of the
// record, the profile and the options.
func (e *Engine) Layout(rec domain.Record) Document {
	p := e.Profile()
	return Document{
		title:  "Rechnung " + rec.InvoiceNumber,
		header: e.header(p),
		body:   e.body(p, rec),
		footer: footer(p),
	}
}

func (e *Engine) header(p Profile) []Instruction {
	var b program
	if e.opts.LogoPath != "" {
		b.image(e.opts.LogoPath, 10, 8, 25)
	}
	b.font(Regular, 10)
	b.cursor(45, 15)
	b.cell(0, 5, p.AddressLine(), false, true, AlignLeft)
	b.advance(10)
	return b.out
}

func footer(p Profile) []Instruction {
	var b program
	b.cursor(contentX, footerY)
	b.font(Regular, 9)

	rows := [4][3]string{
		{p.Name, p.Email, "Bankverbindung:"},
		{p.Street, p.Phone, prefixed("Bank: ", p.Bank)},
		{p.PostalCity, prefixed("Instagram: ", p.Instagram), prefixed("IBAN: ", p.IBAN)},
		{p.Country, p.Tagline, prefixed("BIC: ", p.BIC)},
	}
	for _, row := range rows {
		b.cell(60, 4, row[0], false, false, AlignLeft)
		b.cell(70, 4, row[1], false, false, AlignLeft)
		b.cell(60, 4, row[2], false, true, AlignLeft)
	}
	return b.out
}

func (e *Engine) body(p Profile, rec domain.Record) []Instruction {
	var b program
	b.newPage()

	// customer block
	b.font(Regular, 11)
	b.line(6, rec.CustomerName)
	b.line(6, "Fahrzeug: "+rec.VehicleNumber)
	b.advance(5)

	// metadata, right column next to the customer block
	b.cursor(metaX, metaY)
	b.font(Regular, 11)
	b.cell(metaWidth, 6, "Rechnungsnummer: "+rec.InvoiceNumber, false, true, AlignLeft)
	b.cursor(metaX, metaY+6)
	b.cell(metaWidth, 6, "Rechnungsdatum: "+format.Date(rec.IssueDate), false, true, AlignLeft)
	b.cursor(metaX, metaY+12)
	b.cell(metaWidth, 6, "Fälligkeitsdatum: "+format.Date(rec.DueDate), false, true, AlignLeft)
	b.cursor(contentX, contentY)

	b.font(Bold, 16)
	b.cell(0, 10, "RECHNUNG", false, true, AlignLeft)
	b.advance(5)

	b.font(Regular, 11)
	b.line(6, "Sehr geehrte Damen und Herren,")
	b.advance(3)
	b.line(6, fmt.Sprintf("vielen Dank für Ihre Inanspruchnahme unserer Dienstleistungen bei %s.", p.Name))
	b.line(6, "Nachfolgend finden Sie die Details Ihrer Rechnung:")
	b.advance(8)

	e.table(&b, rec)

	b.font(Regular, 10)
	b.line(6, fmt.Sprintf("Bezahlung durch: [%s]", p.PaymentMethods))
	b.advance(3)
	b.line(6, "Sofern nichts anderes angegeben ist, entspricht der Monat des")
	b.line(6, "Rechnungsdatums dem Leistungszeitpunkt.")
	b.advance(3)
	b.line(6, "Bitte überweisen Sie den Betrag bis spätestens "+format.Date(rec.DueDate))
	b.advance(5)
	b.line(6, "Bei Fragen stehen wir Ihnen gerne zur Verfügung.")
	b.line(6, "Wir danken Ihnen für Ihr Vertrauen und freuen uns auf eine weitere Zusammenarbeit.")
	b.advance(8)
	b.line(6, "Mit freundlichen Grüßen,")
	b.line(6, p.Name)

	return b.out
}

func (e *Engine) table(b *program, rec domain.Record) {
	w := tableWidths

	b.font(Bold, 11)
	b.cell(w[0], 8, "Beschreibung", true, false, AlignLeft)
	b.cell(w[1], 8, "Anzahl", true, false, AlignCenter)
	b.cell(w[2], 8, "Einzelpreis", true, false, AlignRight)
	b.cell(w[3], 8, "MwSt.", true, false, AlignRight)
	b.cell(w[4], 8, "Gesamt", true, true, AlignRight)

	b.font(Regular, 10)
	for _, item := range rec.LineItems {
		b.cell(w[0], 8, item.Description, true, false, AlignLeft)
		b.cell(w[1], 8, "1", true, false, AlignCenter)
		b.cell(w[2], 8, format.Amount(item.NetPrice), true, false, AlignRight)
		b.cell(w[3], 8, format.Amount(item.TaxAmount(rec.TaxRate)), true, false, AlignRight)
		b.cell(w[4], 8, format.Amount(item.Gross(rec.TaxRate)), true, true, AlignRight)
	}

	b.font(Bold, 10)
	b.cell(labelWidth, 8, "Zwischensumme inkl. MwSt.", true, false, AlignRight)
	b.cell(amountWidth, 8, format.Amount(rec.GrossSubtotal), true, true, AlignRight)

	if rec.HasDiscount() {
		b.font(Regular, 10)
		switch e.opts.DiscountRows {
		case DiscountRowsLumped:
			label := fmt.Sprintf("Gesamtrabatt (%s%%)", format.Percent(rec.TotalDiscountPercent))
			b.cell(labelWidth, 8, label, true, false, AlignLeft)
			b.cell(amountWidth, 8, format.NegatedAmount(rec.DiscountAmount), true, true, AlignRight)
		default:
			for _, src := range rec.DiscountSources {
				b.cell(labelWidth, 8, src.Label, true, false, AlignLeft)
				b.cell(amountWidth, 8, format.NegatedAmount(rec.DiscountAmount), true, true, AlignRight)
			}
		}
	}

	b.font(Bold, 11)
	b.cell(labelWidth, 10, "Gesamt inkl. MwSt.", true, false, AlignRight)
	b.cell(amountWidth, 10, format.Amount(rec.TotalPrice), true, true, AlignRight)
	b.advance(8)
}

func prefixed(prefix, value string) string {
	if value == "" {
		return ""
	}
	return prefix + value
}
