package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config labels every series with the service identity.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics exposes the invoicing instruments.
type Metrics struct {
	invoicesGenerated  *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	renderDuration     *prometheus.HistogramVec
	logoMissing        prometheus.Counter
	rateLimited        *prometheus.CounterVec
}

// New registers the instruments on the default registerer.
func New(cfg Config) (*Metrics, error) {
	return NewWithRegisterer(prometheus.DefaultRegisterer, cfg)
}

// NewWithRegisterer registers the instruments on registerer. Tests pass a
// fresh prometheus.NewRegistry() to stay isolated.
func NewWithRegisterer(registerer prometheus.Registerer, cfg Config) (*Metrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "glanzwerk"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		invoicesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "glanzwerk_invoices_generated_total",
			Help:        "Invoice documents rendered by backend.",
			ConstLabels: constLabels,
		}, []string{"backend"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "glanzwerk_invoice_validation_failures_total",
			Help:        "Rejected invoice requests by offending field.",
			ConstLabels: constLabels,
		}, []string{"field"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "glanzwerk_invoice_render_seconds",
			Help:        "Time spent laying out and rendering one invoice document.",
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			ConstLabels: constLabels,
		}, []string{"backend"}),
		logoMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "glanzwerk_logo_missing_total",
			Help:        "Renders that skipped the logo because it could not be loaded.",
			ConstLabels: constLabels,
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "glanzwerk_rate_limited_total",
			Help:        "Requests rejected by the per-client rate limiter.",
			ConstLabels: constLabels,
		}, []string{"route"}),
	}

	collectors := []prometheus.Collector{
		m.invoicesGenerated,
		m.validationFailures,
		m.renderDuration,
		m.logoMissing,
		m.rateLimited,
	}
	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordInvoiceGenerated counts a finished document and its render latency.
func (m *Metrics) RecordInvoiceGenerated(backend string, elapsed time.Duration) {
	if m == nil {
		return
	}
	backend = normalizeLabel(backend)
	m.invoicesGenerated.WithLabelValues(backend).Inc()
	m.renderDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordValidationFailure(field string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(normalizeLabel(field)).Inc()
}

func (m *Metrics) RecordLogoMissing() {
	if m == nil {
		return
	}
	m.logoMissing.Inc()
}

func (m *Metrics) RecordRateLimited(route string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(normalizeLabel(route)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
