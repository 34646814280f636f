package pdf

import (
	"fmt"

	"github.com/glanzwerk/invoicing/internal/config"
	"github.com/glanzwerk/invoicing/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("pdf",
	fx.Provide(NewProviderFromConfig),
)

// BackendFactory returns the constructor for a named backend.
func BackendFactory(name string) (func() Backend, error) {
	switch name {
	case config.BackendFPDF:
		return func() Backend { return NewFPDFBackend() }, nil
	case config.BackendMaroto:
		return func() Backend { return NewMarotoBackend() }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, name)
	}
}

func NewProviderFromConfig(cfg config.Config, log *zap.Logger, m *metrics.Metrics) (*Provider, error) {
	factory, err := BackendFactory(cfg.PDF.Backend)
	if err != nil {
		return nil, err
	}
	log.Info("pdf backend selected", zap.String("backend", cfg.PDF.Backend), zap.String("logo", cfg.PDF.LogoPath))
	return NewProvider(cfg.PDF.Backend, factory, log.Named("pdf"), m), nil
}
