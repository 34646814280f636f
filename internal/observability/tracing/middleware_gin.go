package tracing

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	obscontext "github.com/glanzwerk/invoicing/internal/observability/context"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "glanzwerk/http"

// invoiceOperations names the spans of the invoice routes after what they do.
var invoiceOperations = map[string]string{
	"/api/invoice/generate": "invoice.generate",
	"/api/invoice/preview":  "invoice.preview",
	"/api/services":         "catalog.list",
}

// GinMiddleware instruments inbound HTTP requests. Invoice routes get a span
// named after the operation and carry the invoice number and output format.
func GinMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer(tracerName)
	return func(c *gin.Context) {
		ctx := ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		method := strings.ToUpper(c.Request.Method)
		ctx, span := tracer.Start(ctx, "HTTP "+method, trace.WithSpanKind(trace.SpanKindServer))

		if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
			if member, err := baggage.NewMember("request_id", requestID); err == nil {
				if bag, err := baggage.New(member); err == nil {
					ctx = baggage.ContextWithBaggage(ctx, bag)
				}
			}
			span.SetAttributes(attribute.String("request_id", requestID))
		}

		c.Request = c.Request.WithContext(ctx)
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		span.SetName(spanName(method, route))

		attrs := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
			attribute.Int64("http.server_duration_ms", time.Since(start).Milliseconds()),
		}
		attrs = append(attrs, invoiceAttributes(c, route, status)...)
		span.SetAttributes(SafeAttributes(attrs...)...)

		if status >= http.StatusInternalServerError {
			if lastErr := c.Errors.Last(); lastErr != nil {
				if safeErr := SafeError(lastErr.Err); safeErr != nil {
					span.RecordError(safeErr)
				}
			}
			span.SetStatus(codes.Error, "request error")
		}
		span.End()
	}
}

func spanName(method, route string) string {
	if op, ok := invoiceOperations[route]; ok {
		return op
	}
	return "HTTP " + method + " " + route
}

func invoiceAttributes(c *gin.Context, route string, status int) []attribute.KeyValue {
	if _, ok := invoiceOperations[route]; !ok {
		return nil
	}

	var attrs []attribute.KeyValue
	if number := strings.TrimSpace(c.GetString("invoice_number")); number != "" {
		attrs = append(attrs, attribute.String("invoice.number", number))
	}
	switch route {
	case "/api/invoice/generate":
		attrs = append(attrs, attribute.String("invoice.output", "pdf"))
	case "/api/invoice/preview":
		output := strings.ToLower(strings.TrimSpace(c.Query("format")))
		if output == "" {
			output = "json"
		}
		attrs = append(attrs, attribute.String("invoice.output", output))
	}
	switch status {
	case http.StatusBadRequest:
		attrs = append(attrs, attribute.Bool("invoice.rejected", true))
	case http.StatusTooManyRequests:
		attrs = append(attrs, attribute.Bool("invoice.rate_limited", true))
	}
	return attrs
}
