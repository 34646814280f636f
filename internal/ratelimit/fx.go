package ratelimit

import (
	"context"

	"github.com/glanzwerk/invoicing/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("rate.limit",
	fx.Provide(NewClientLimiterFromConfig),
)

func NewClientLimiterFromConfig(lc fx.Lifecycle, cfg config.Config) *ClientLimiter {
	limiter := NewClientLimiter(Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})
	if limiter == nil {
		return nil
	}

	stop := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go limiter.Run(stop)
			return nil
		},
		OnStop: func(context.Context) error {
			close(stop)
			return nil
		},
	})
	return limiter
}
