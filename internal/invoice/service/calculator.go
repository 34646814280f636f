package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/glanzwerk/invoicing/internal/catalog"
	"github.com/glanzwerk/invoicing/internal/invoice/domain"
	"github.com/glanzwerk/invoicing/internal/invoice/format"
	"github.com/glanzwerk/invoicing/internal/invoice/parse"
	"github.com/shopspring/decimal"
)

var manualPercentRe = regexp.MustCompile(`^\d+(\.\d+)?$`)

var hundred = decimal.NewFromInt(100)

// Stamper assigns invoice numbers and dates.
type Stamper interface {
	Generate() (format.Stamp, error)
}

// Calculator prices raw form input against the current catalog snapshot.
// It performs no I/O; the clock behind the stamper is its only other input.
type Calculator struct {
	source  catalog.Source
	stamper Stamper
}

func NewCalculator(source catalog.Source, stamper Stamper) *Calculator {
	return &Calculator{source: source, stamper: stamper}
}

func (c *Calculator) Calculate(req domain.CalculateRequest) (domain.Record, error) {
	snap := c.source.Current()

	customer := strings.TrimSpace(req.CustomerName)
	vehicle := strings.TrimSpace(req.VehicleNumber)
	serviceKey := strings.TrimSpace(req.SelectedService)

	verrs := &domain.ValidationErrors{}
	if customer == "" {
		verrs.Add(domain.MissingField(domain.FieldCustomerName))
	}
	if vehicle == "" {
		verrs.Add(domain.MissingField(domain.FieldVehicleNumber))
	}

	var svc catalog.ServiceDefinition
	if serviceKey == "" {
		verrs.Add(domain.MissingField(domain.FieldSelectedService))
	} else {
		def, err := snap.Services.Lookup(serviceKey)
		if err != nil {
			verrs.Add(domain.UnknownService(serviceKey))
		}
		svc = def
	}
	if !verrs.Empty() {
		return domain.Record{}, verrs
	}

	items := make([]domain.LineItem, 0, 1)
	items = append(items, domain.LineItem{Description: svc.Name, NetPrice: svc.NetPrice})
	items = append(items, parse.Parse(req.AdditionalServices)...)

	net := decimal.Zero
	for _, item := range items {
		net = net.Add(item.NetPrice)
	}
	tax := net.Mul(domain.TaxRate)
	gross := net.Add(tax)

	sources := discountSources(snap.Codes, req)
	totalPercent := decimal.Zero
	for _, src := range sources {
		totalPercent = totalPercent.Add(src.Percent)
	}
	discount := gross.Mul(totalPercent).Div(hundred)

	stamp, err := c.stamper.Generate()
	if err != nil {
		return domain.Record{}, fmt.Errorf("stamp invoice: %w", err)
	}

	return domain.Record{
		CustomerName:         customer,
		VehicleNumber:        vehicle,
		Service:              svc,
		LineItems:            items,
		NetSubtotal:          net,
		TaxRate:              domain.TaxRate,
		TaxAmount:            tax,
		GrossSubtotal:        gross,
		DiscountSources:      sources,
		TotalDiscountPercent: totalPercent,
		DiscountAmount:       discount,
		TotalPrice:           gross.Sub(discount),
		InvoiceNumber:        stamp.Number,
		IssueDate:            stamp.IssueDate,
		DueDate:              stamp.DueDate,
	}, nil
}

// discountSources evaluates the discount inputs in display order:
// regular customer, code, manual. The percentages are summed unweighted
// and never clamped.
func discountSources(codes *catalog.DiscountCodes, req domain.CalculateRequest) []domain.DiscountSource {
	sources := make([]domain.DiscountSource, 0, 3)

	if req.IsRegularCustomer {
		sources = append(sources, domain.DiscountSource{
			Kind:    domain.DiscountRegularCustomer,
			Label:   fmt.Sprintf("Stammkundenrabatt (%s%%)", format.Percent(domain.RegularCustomerPercent)),
			Percent: domain.RegularCustomerPercent,
		})
	}

	if code := strings.ToUpper(strings.TrimSpace(req.DiscountCode)); code != "" && codes != nil {
		if pct, ok := codes.Lookup(code); ok {
			sources = append(sources, domain.DiscountSource{
				Kind:    domain.DiscountCode,
				Label:   fmt.Sprintf("Code %s (%s%%)", code, format.Percent(pct)),
				Percent: pct,
			})
		}
	}

	if pct, ok := ParseManualPercent(req.ManualDiscountPercent); ok {
		sources = append(sources, domain.DiscountSource{
			Kind:    domain.DiscountManual,
			Label:   fmt.Sprintf("Manueller Rabatt (%s%%)", format.Percent(pct)),
			Percent: pct,
		})
	}

	return sources
}

// ParseManualPercent reads the manual discount field. Anything that is not
// a plain non-negative number in (0, 100] means "no manual discount".
func ParseManualPercent(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if !manualPercentRe.MatchString(raw) {
		return decimal.Zero, false
	}
	pct, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	if !pct.IsPositive() || pct.GreaterThan(hundred) {
		return decimal.Zero, false
	}
	return pct, true
}
