package catalog

import (
	"github.com/glanzwerk/invoicing/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("catalog",
	fx.Provide(
		NewStoreFromConfig,
		func(s *Store) Source { return s },
	),
)

// NewStoreFromConfig builds the initial snapshot and keeps the store in
// sync with config reloads. A reload that does not build is dropped and the
// previous snapshot stays active.
func NewStoreFromConfig(holder *config.InvoiceConfigHolder, log *zap.Logger) (*Store, error) {
	snap, err := FromConfig(holder.Get())
	if err != nil {
		return nil, err
	}
	store := NewStore(snap)

	holder.OnChange(func(cfg config.InvoiceConfig) {
		updated, err := FromConfig(cfg)
		if err != nil {
			log.Warn("catalog reload rejected", zap.Error(err))
			return
		}
		store.Replace(updated)
		log.Info("catalog reloaded", zap.Int("services", updated.Services.Len()))
	})

	return store, nil
}
