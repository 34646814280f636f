package format

import (
	"fmt"
	"strings"
	"time"
)

// FormatInvoiceNumber formats a human-readable invoice number
// from a template and the issue time.
//
// Supported tokens: {YYYY} {YY} {MM} {DD} {hh} {mm}.
//
// This function is PURE:
// - No side effects
// - Fully deterministic
func FormatInvoiceNumber(template string, issuedAt time.Time) (string, error) {
	if strings.TrimSpace(template) == "" {
		return "", fmt.Errorf("invoice number template is empty")
	}

	out := template

	// Date tokens
	out = strings.ReplaceAll(out, "{YYYY}", issuedAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", issuedAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", issuedAt.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", issuedAt.Format("02"))

	// Time tokens
	out = strings.ReplaceAll(out, "{hh}", issuedAt.Format("15"))
	out = strings.ReplaceAll(out, "{mm}", issuedAt.Format("04"))

	// Final safety check: unresolved tokens
	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in invoice format: %s", out)
	}

	return out, nil
}
