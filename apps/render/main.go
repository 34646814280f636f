package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/glanzwerk/invoicing/internal/catalog"
	"github.com/glanzwerk/invoicing/internal/clock"
	"github.com/glanzwerk/invoicing/internal/config"
	"github.com/glanzwerk/invoicing/internal/invoice/domain"
	"github.com/glanzwerk/invoicing/internal/invoice/format"
	"github.com/glanzwerk/invoicing/internal/invoice/service"
	"github.com/glanzwerk/invoicing/internal/layout"
	"github.com/glanzwerk/invoicing/internal/logger"
	"github.com/glanzwerk/invoicing/internal/providers/pdf"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "render",
		Usage: "render one invoice request to a PDF file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "request", Aliases: []string{"r"}, Usage: "JSON request file, - for stdin", Required: true},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file or directory (default: derived file name in the working directory)"},
			&cli.StringFlag{Name: "backend", Usage: "pdf backend: fpdf or maroto", EnvVars: []string{"PDF_BACKEND"}},
			&cli.StringFlag{Name: "config", Usage: "invoice.yml with catalog, discount codes and company", EnvVars: []string{"INVOICE_CONFIG_PATH"}},
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "render:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	log, err := logger.New(c.String("log-level"), "console")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg := config.Load()
	if backend := strings.TrimSpace(c.String("backend")); backend != "" {
		cfg.PDF.Backend = strings.ToLower(backend)
	}
	if path := strings.TrimSpace(c.String("config")); path != "" {
		cfg.Invoice.ConfigPath = path
	}
	cfg.Invoice.WatchConfig = false

	req, err := readRequest(c.String("request"))
	if err != nil {
		return err
	}

	generator, err := buildGenerator(cfg, log)
	if err != nil {
		return err
	}

	out, err := generator.Generate(c.Context, req)
	if err != nil {
		var verrs *domain.ValidationErrors
		if errors.As(err, &verrs) {
			for _, item := range verrs.Errors {
				fmt.Fprintln(os.Stderr, item.Message)
			}
		}
		return err
	}

	target := outputPath(c.String("out"), out.Filename)
	if err := os.WriteFile(target, out.Body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	fmt.Printf("%s  %s  %s\n", out.Record.InvoiceNumber, format.Amount(out.Record.TotalPrice), target)
	return nil
}

func buildGenerator(cfg config.Config, log *zap.Logger) (*service.Service, error) {
	holder, err := config.NewInvoiceConfigHolder(cfg, log)
	if err != nil {
		return nil, err
	}
	invoiceCfg := holder.Get()

	snap, err := catalog.FromConfig(invoiceCfg)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Invoice.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invoice timezone: %w", err)
	}
	numbers := format.NewNumberGenerator(cfg.Invoice.NumberTemplate, loc, clock.SystemClock{})

	factory, err := pdf.BackendFactory(cfg.PDF.Backend)
	if err != nil {
		return nil, err
	}

	engine := layout.NewEngine(layout.ProfileFromConfig(invoiceCfg.Company), layout.Options{
		DiscountRows: layout.DiscountRows(cfg.Layout.DiscountRows),
		LogoPath:     cfg.PDF.LogoPath,
	})

	return service.NewService(service.ServiceParam{
		Log:        log,
		Calculator: service.NewCalculator(catalog.Static(snap), numbers),
		Layout:     engine,
		Renderer:   pdf.NewProvider(cfg.PDF.Backend, factory, log.Named("pdf"), nil),
	}), nil
}

func readRequest(path string) (domain.CalculateRequest, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.CalculateRequest{}, fmt.Errorf("read request: %w", err)
	}

	var req domain.CalculateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return domain.CalculateRequest{}, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

// outputPath resolves --out: empty means the derived name in the working
// directory, an existing directory receives the derived name.
func outputPath(out, filename string) string {
	out = strings.TrimSpace(out)
	if out == "" {
		return filename
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, filename)
	}
	return out
}
