package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	Invoice InvoiceSettings
	PDF     PDFSettings
	Layout  LayoutSettings

	RateLimit RateLimitSettings
}

// InvoiceSettings controls numbering and where the catalog file lives.
type InvoiceSettings struct {
	ConfigPath     string
	WatchConfig    bool
	NumberTemplate string
	Timezone       string
}

type PDFSettings struct {
	Backend  string
	LogoPath string
}

type LayoutSettings struct {
	DiscountRows string
}

type RateLimitSettings struct {
	RequestsPerSecond float64
	Burst             int
}

const (
	BackendFPDF   = "fpdf"
	BackendMaroto = "maroto"

	DiscountRowsPerSource = "per_source"
	DiscountRowsLumped    = "lumped"

	// DefaultNumberTemplate keeps the historical literal year prefix.
	DefaultNumberTemplate = "2025-{MM}{DD}{hh}{mm}"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "glanzwerk"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		Invoice: InvoiceSettings{
			ConfigPath:     strings.TrimSpace(getenv("INVOICE_CONFIG_PATH", "")),
			WatchConfig:    getenvBool("INVOICE_CONFIG_WATCH", false),
			NumberTemplate: getenv("INVOICE_NUMBER_TEMPLATE", DefaultNumberTemplate),
			Timezone:       getenv("INVOICE_TIMEZONE", "Europe/Berlin"),
		},
		PDF: PDFSettings{
			Backend:  normalizeBackend(getenv("PDF_BACKEND", BackendFPDF)),
			LogoPath: getenv("PDF_LOGO_PATH", "static/glanzwerk_logo.png"),
		},
		Layout: LayoutSettings{
			DiscountRows: normalizeDiscountRows(getenv("LAYOUT_DISCOUNT_ROWS", DiscountRowsPerSource)),
		},
		RateLimit: RateLimitSettings{
			RequestsPerSecond: getenvFloat("RATE_LIMIT_RPS", 2),
			Burst:             getenvInt("RATE_LIMIT_BURST", 10),
		},
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func normalizeBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case BackendMaroto:
		return BackendMaroto
	default:
		return BackendFPDF
	}
}

func normalizeDiscountRows(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case DiscountRowsLumped:
		return DiscountRowsLumped
	default:
		return DiscountRowsPerSource
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
