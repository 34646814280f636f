package tracing

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
)

// Attribute keys that may carry customer data and never leave the process.
var blockedKeys = map[attribute.Key]struct{}{
	"customer_name":  {},
	"vehicle_number": {},
}

const maxAttributeLen = 256

// ExtractContext reads trace headers into ctx using the global propagator.
func ExtractContext(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// SafeAttributes drops personal fields and truncates long string values.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, blocked := blockedKeys[attr.Key]; blocked {
			continue
		}
		if attr.Value.Type() == attribute.STRING {
			value := strings.TrimSpace(attr.Value.AsString())
			if len(value) > maxAttributeLen {
				value = value[:maxAttributeLen]
			}
			attr = attr.Key.String(value)
		}
		out = append(out, attr)
	}
	return out
}

// SafeError strips the message of err down to its first line.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.TrimSpace(err.Error())
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	if len(msg) > maxAttributeLen {
		msg = msg[:maxAttributeLen]
	}
	return errors.New(msg)
}
