package tracing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributes(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("customer_name", "Max Mustermann"),
		attribute.String("http.route", "  /api/invoice/generate "),
		attribute.String("long", strings.Repeat("x", 400)),
		attribute.Int("http.status_code", 200),
	)

	assert.Len(t, attrs, 3)
	assert.Equal(t, "/api/invoice/generate", attrs[0].Value.AsString())
	assert.Len(t, attrs[1].Value.AsString(), maxAttributeLen)
	assert.Equal(t, int64(200), attrs[2].Value.AsInt64())
}

func TestSafeError(t *testing.T) {
	assert.Nil(t, SafeError(nil))
	assert.EqualError(t, SafeError(errors.New("render failed\nstack trace")), "render failed")
}
