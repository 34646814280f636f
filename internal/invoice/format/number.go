package format

import (
	"time"

	"github.com/glanzwerk/invoicing/internal/clock"
	"github.com/glanzwerk/invoicing/internal/invoice/domain"
)

// Stamp is the identity of one invoice: its number and its dates.
type Stamp struct {
	Number    string
	IssueDate time.Time
	DueDate   time.Time
}

// NumberGenerator stamps invoices from a clock. Numbers have minute
// resolution, so two invoices issued in the same minute collide.
type NumberGenerator struct {
	Template string
	Location *time.Location
	Clock    clock.Clock
}

func NewNumberGenerator(template string, loc *time.Location, clk clock.Clock) *NumberGenerator {
	if loc == nil {
		loc = time.Local
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &NumberGenerator{Template: template, Location: loc, Clock: clk}
}

func (g *NumberGenerator) Generate() (Stamp, error) {
	now := g.Clock.Now().In(g.Location)
	number, err := FormatInvoiceNumber(g.Template, now)
	if err != nil {
		return Stamp{}, err
	}
	return Stamp{
		Number:    number,
		IssueDate: now,
		DueDate:   now.AddDate(0, 0, domain.DueDays),
	}, nil
}
