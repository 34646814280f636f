package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glanzwerk/invoicing/internal/catalog"
	"github.com/glanzwerk/invoicing/internal/config"
	"github.com/glanzwerk/invoicing/internal/invoice/domain"
	"github.com/glanzwerk/invoicing/internal/invoice/render"
	"github.com/glanzwerk/invoicing/internal/layout"
	"github.com/glanzwerk/invoicing/internal/observability"
	obsmiddleware "github.com/glanzwerk/invoicing/internal/observability/logger"
	obsmetrics "github.com/glanzwerk/invoicing/internal/observability/metrics"
	obstracing "github.com/glanzwerk/invoicing/internal/observability/tracing"
	"github.com/glanzwerk/invoicing/internal/ratelimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

var Module = fx.Module("http.server",
	ratelimit.Module,
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine   *gin.Engine
	cfg      config.Config
	invoices domain.Generator
	catalog  catalog.Source
	layout   *layout.Engine
	preview  render.Renderer
	limiter  *ratelimit.ClientLimiter
	metrics  *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin      *gin.Engine
	Cfg      config.Config
	Invoices domain.Generator
	Catalog  catalog.Source
	Layout   *layout.Engine
	Preview  render.Renderer
	Limiter  *ratelimit.ClientLimiter `optional:"true"`
	Metrics  *obsmetrics.Metrics      `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:   p.Gin,
		cfg:      p.Cfg,
		invoices: p.Invoices,
		catalog:  p.Catalog,
		layout:   p.Layout,
		preview:  p.Preview,
		limiter:  p.Limiter,
		metrics:  p.Metrics,
	}
}

func (s *Server) RegisterRoutes() {
	api := s.engine.Group("/api")
	api.GET("/services", s.ListServices)

	invoices := api.Group("/invoice")
	invoices.POST("/generate", s.RateLimit(), s.GenerateInvoice)
	invoices.POST("/preview", s.PreviewInvoice)
}
