// Package parse reads the free-text additional services field.
package parse

import (
	"regexp"
	"strings"

	"github.com/glanzwerk/invoicing/internal/invoice/domain"
	"github.com/shopspring/decimal"
)

var lineRe = regexp.MustCompile(`(?i)^(.+?):\s*(\d+(?:\.\d{1,2})?)\s*€?$`)

// Parse turns one "Description: price" entry per line into line items.
//
// Parsing is lenient: lines that do not match the pattern are dropped
// without an error, so the caller never learns about them. Blank input
// yields an empty, non-nil slice.
func Parse(text string) []domain.LineItem {
	items := make([]domain.LineItem, 0)
	for _, line := range strings.Split(text, "\n") {
		item, ok := ParseLine(line)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

// ParseLine parses a single entry. The bool is false for blank or
// malformed lines.
func ParseLine(line string) (domain.LineItem, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return domain.LineItem{}, false
	}

	match := lineRe.FindStringSubmatch(line)
	if len(match) != 3 {
		return domain.LineItem{}, false
	}

	desc := strings.TrimSpace(match[1])
	if desc == "" {
		return domain.LineItem{}, false
	}
	price, err := decimal.NewFromString(match[2])
	if err != nil {
		return domain.LineItem{}, false
	}

	return domain.LineItem{Description: desc, NetPrice: price}, true
}
