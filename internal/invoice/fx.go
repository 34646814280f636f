package invoice

import (
	"time"

	"github.com/glanzwerk/invoicing/internal/catalog"
	"github.com/glanzwerk/invoicing/internal/clock"
	"github.com/glanzwerk/invoicing/internal/config"
	"github.com/glanzwerk/invoicing/internal/invoice/domain"
	"github.com/glanzwerk/invoicing/internal/invoice/format"
	"github.com/glanzwerk/invoicing/internal/invoice/render"
	"github.com/glanzwerk/invoicing/internal/invoice/service"
	"github.com/glanzwerk/invoicing/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(
		render.NewRenderer,
		NewNumberGenerator,
		NewCalculator,
		func(p *pdf.Provider) service.DocumentRenderer { return p },
		service.NewService,
		func(s *service.Service) domain.Generator { return s },
	),
)

func NewNumberGenerator(cfg config.Config, clk clock.Clock) (*format.NumberGenerator, error) {
	loc, err := time.LoadLocation(cfg.Invoice.Timezone)
	if err != nil {
		return nil, err
	}
	gen := format.NewNumberGenerator(cfg.Invoice.NumberTemplate, loc, clk)
	if _, err := gen.Generate(); err != nil {
		return nil, err
	}
	return gen, nil
}

func NewCalculator(source catalog.Source, gen *format.NumberGenerator) domain.Calculator {
	return service.NewCalculator(source, gen)
}
