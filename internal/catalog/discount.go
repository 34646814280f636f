package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountCodes maps promotional codes to a percentage. Codes are stored
// and matched upper-case.
type DiscountCodes struct {
	percents map[string]decimal.Decimal
}

func NewDiscountCodes(codes map[string]decimal.Decimal) (*DiscountCodes, error) {
	d := &DiscountCodes{percents: make(map[string]decimal.Decimal, len(codes))}
	for code, pct := range codes {
		normalized := normalizeCode(code)
		if normalized == "" {
			return nil, fmt.Errorf("%w: empty code", ErrInvalidPercentage)
		}
		if !pct.IsPositive() || pct.GreaterThan(hundred) {
			return nil, fmt.Errorf("%w: %s=%s", ErrInvalidPercentage, normalized, pct.String())
		}
		d.percents[normalized] = pct
	}
	return d, nil
}

// Lookup is case-insensitive.
func (d *DiscountCodes) Lookup(code string) (decimal.Decimal, bool) {
	normalized := normalizeCode(code)
	if normalized == "" {
		return decimal.Zero, false
	}
	pct, ok := d.percents[normalized]
	return pct, ok
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
