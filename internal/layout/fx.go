package layout

import (
	"github.com/glanzwerk/invoicing/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("layout",
	fx.Provide(NewEngineFromConfig),
)

// NewEngineFromConfig builds the engine and follows company changes in
// the invoice config.
func NewEngineFromConfig(cfg config.Config, holder *config.InvoiceConfigHolder) *Engine {
	engine := NewEngine(ProfileFromConfig(holder.Get().Company), Options{
		DiscountRows: DiscountRows(cfg.Layout.DiscountRows),
		LogoPath:     cfg.PDF.LogoPath,
	})
	holder.OnChange(func(c config.InvoiceConfig) {
		engine.SetProfile(ProfileFromConfig(c.Company))
	})
	return engine
}
