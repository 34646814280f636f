package service

import (
	"context"
	"errors"
	"time"

	"github.com/glanzwerk/invoicing/internal/invoice/domain"
	"github.com/glanzwerk/invoicing/internal/invoice/format"
	"github.com/glanzwerk/invoicing/internal/layout"
	obslogger "github.com/glanzwerk/invoicing/internal/observability/logger"
	"github.com/glanzwerk/invoicing/internal/observability/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const ContentTypePDF = "application/pdf"

var tracer = otel.Tracer("glanzwerk/invoice")

// DocumentRenderer draws a laid-out document.
type DocumentRenderer interface {
	Name() string
	Render(ctx context.Context, doc layout.Document) ([]byte, error)
}

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	Calculator domain.Calculator
	Layout     *layout.Engine
	Renderer   DocumentRenderer
	Metrics    *metrics.Metrics `optional:"true"`
}

// Service prices requests and renders them into invoice documents.
type Service struct {
	log        *zap.Logger
	calculator domain.Calculator
	layout     *layout.Engine
	renderer   DocumentRenderer
	metrics    *metrics.Metrics
}

func NewService(p ServiceParam) *Service {
	return &Service{
		log:        p.Log.Named("invoice.service"),
		calculator: p.Calculator,
		layout:     p.Layout,
		renderer:   p.Renderer,
		metrics:    p.Metrics,
	}
}

// Preview prices req without rendering a document.
func (s *Service) Preview(ctx context.Context, req domain.CalculateRequest) (domain.Record, error) {
	return s.calculate(ctx, req)
}

// Generate prices req, lays it out and renders the document in memory.
func (s *Service) Generate(ctx context.Context, req domain.CalculateRequest) (domain.Rendered, error) {
	rec, err := s.calculate(ctx, req)
	if err != nil {
		return domain.Rendered{}, err
	}

	log := obslogger.WithContext(ctx, s.log).With(
		zap.String("invoice_number", rec.InvoiceNumber),
		zap.String("backend", s.renderer.Name()),
	)

	start := time.Now()
	ctx, span := tracer.Start(ctx, "invoice.render", trace.WithAttributes(
		attribute.String("invoice.number", rec.InvoiceNumber),
		attribute.String("pdf.backend", s.renderer.Name()),
		attribute.Int("invoice.line_items", len(rec.LineItems)),
	))
	defer span.End()

	doc := s.layout.Layout(rec)
	body, err := s.renderer.Render(ctx, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		log.Error("invoice render failed", zap.Error(err))
		return domain.Rendered{}, err
	}
	elapsed := time.Since(start)
	s.metrics.RecordInvoiceGenerated(s.renderer.Name(), elapsed)
	span.SetAttributes(attribute.Int("pdf.bytes", len(body)))

	log.Info("invoice generated",
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", elapsed),
		zap.String("total", rec.TotalPrice.StringFixed(2)),
	)

	return domain.Rendered{
		Record:      rec,
		Filename:    format.Filename(rec.InvoiceNumber, rec.CustomerName),
		ContentType: ContentTypePDF,
		Body:        body,
	}, nil
}

func (s *Service) calculate(ctx context.Context, req domain.CalculateRequest) (domain.Record, error) {
	_, span := tracer.Start(ctx, "invoice.calculate", trace.WithAttributes(
		attribute.String("invoice.service", req.SelectedService),
	))
	defer span.End()

	rec, err := s.calculator.Calculate(req)
	if err != nil {
		var verrs *domain.ValidationErrors
		if errors.As(err, &verrs) {
			for _, item := range verrs.Errors {
				s.metrics.RecordValidationFailure(item.Field)
			}
			span.SetStatus(codes.Error, "validation error")
			return domain.Record{}, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "calculate failed")
		obslogger.WithContext(ctx, s.log).Error("invoice calculation failed", zap.Error(err))
		return domain.Record{}, err
	}

	span.SetAttributes(
		attribute.String("invoice.number", rec.InvoiceNumber),
		attribute.Int("invoice.discount_sources", len(rec.DiscountSources)),
	)
	return rec, nil
}
