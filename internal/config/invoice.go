package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// InvoiceConfig is the operator-editable part of invoicing: the service
// catalog, discount codes and the company identity printed on documents.
type InvoiceConfig struct {
	Services      []ServiceConfig      `mapstructure:"services"`
	DiscountCodes []DiscountCodeConfig `mapstructure:"discount_codes"`
	Company       CompanyConfig        `mapstructure:"company"`
}

type ServiceConfig struct {
	Key         string `mapstructure:"key"`
	Name        string `mapstructure:"name"`
	NetPrice    string `mapstructure:"net_price"`
	Description string `mapstructure:"description"`
}

type DiscountCodeConfig struct {
	Code    string `mapstructure:"code"`
	Percent string `mapstructure:"percent"`
}

type CompanyConfig struct {
	Name           string `mapstructure:"name"`
	Street         string `mapstructure:"street"`
	PostalCity     string `mapstructure:"postal_city"`
	Country        string `mapstructure:"country"`
	Email          string `mapstructure:"email"`
	Phone          string `mapstructure:"phone"`
	Instagram      string `mapstructure:"instagram"`
	Bank           string `mapstructure:"bank"`
	IBAN           string `mapstructure:"iban"`
	BIC            string `mapstructure:"bic"`
	Tagline        string `mapstructure:"tagline"`
	PaymentMethods string `mapstructure:"payment_methods"`
}

func DefaultInvoiceConfig() InvoiceConfig {
	return InvoiceConfig{
		Services: []ServiceConfig{
			{Key: "aussenreinigung", Name: "Außenreinigung per Hand", NetPrice: "50", Description: "Professionelle Handwäsche außen"},
			{Key: "felgenreinigung", Name: "Felgenreinigung & Flugrostentfernung", NetPrice: "30", Description: "Intensive Felgenpflege"},
			{Key: "innenraumreinigung", Name: "Innenraumreinigung", NetPrice: "70", Description: "Komplette Innenraumreinigung"},
			{Key: "lederreinigung", Name: "Lederreinigung & -pflege", NetPrice: "60", Description: "Professionelle Lederpflege"},
			{Key: "lederreparatur", Name: "Lederreparatur", NetPrice: "100", Description: "Reparatur von Lederschäden"},
			{Key: "polsterreinigung", Name: "Polster- & Teppichreinigung", NetPrice: "80", Description: "Tiefenreinigung der Polster"},
			{Key: "scheibenreinigung", Name: "Scheibenreinigung innen & außen", NetPrice: "20", Description: "Kristallklare Scheiben"},
			{Key: "lackpolitur", Name: "Lackpolitur & Glanzversiegelung", NetPrice: "150", Description: "Hochglanzpolitur mit Versiegelung"},
			{Key: "nanokeramik", Name: "Nano-Keramik-Versiegelung", NetPrice: "300", Description: "Premium Keramikversiegelung"},
			{Key: "motorraumreinigung", Name: "Motorraumreinigung", NetPrice: "40", Description: "Professionelle Motorraumreinigung"},
			{Key: "geruchsneutralisierung", Name: "Geruchsneutralisierung & Ozonbehandlung", NetPrice: "50", Description: "Ozonbehandlung gegen Gerüche"},
			{Key: "tierhaarentfernung", Name: "Tierhaarentfernung", NetPrice: "40", Description: "Spezielle Tierhaarentfernung"},
			{Key: "hagelschaden", Name: "Hagelschaden- und Dellenentfernung", NetPrice: "200", Description: "Professionelle Dellenreparatur"},
			{Key: "folierung", Name: "Auto Folierung", NetPrice: "500", Description: "Komplette Fahrzeugfolierung"},
			{Key: "abholservice", Name: "Abhol- und Bringservice", NetPrice: "25", Description: "Bequemer Hol- und Bringservice"},
		},
		DiscountCodes: []DiscountCodeConfig{
			{Code: "NEUKUNDE", Percent: "15"},
			{Code: "STAMMKUNDE", Percent: "10"},
			{Code: "WINTER2025", Percent: "20"},
			{Code: "SOMMER2025", Percent: "12"},
		},
		Company: CompanyConfig{
			Name:           "Glanzwerk Rheinland",
			Street:         "Krasnaer Str. 1",
			PostalCity:     "56566 Neuwied",
			Country:        "Deutschland",
			Email:          "Glanzwerk.Rheinland@gmail.com",
			Phone:          "+49 171 1858241",
			Instagram:      "@glanzwerk_rheinland",
			Bank:           "Sparkasse Neuwied",
			IBAN:           "DE89 5745 0120 0000 1234 56",
			BIC:            "MALADE51NWD",
			Tagline:        "Grün gedacht, sauber gemacht",
			PaymentMethods: "Bar / Überweisung / PayPal",
		},
	}
}

// InvoiceConfigHolder keeps the current InvoiceConfig. Reloads replace the
// whole value, readers never observe a partially updated config.
type InvoiceConfigHolder struct {
	current atomic.Value // holds InvoiceConfig
	source  string

	mu          sync.Mutex
	subscribers []func(InvoiceConfig)
}

// NewStaticInvoiceConfigHolder wraps a fixed config, mostly for tests and the CLI.
func NewStaticInvoiceConfigHolder(cfg InvoiceConfig) (*InvoiceConfigHolder, error) {
	if err := ValidateInvoiceConfig(cfg); err != nil {
		return nil, err
	}
	holder := &InvoiceConfigHolder{source: "static"}
	holder.current.Store(cfg)
	return holder, nil
}

func NewInvoiceConfigHolder(appCfg Config, log *zap.Logger) (*InvoiceConfigHolder, error) {
	v := viper.New()

	if appCfg.Invoice.ConfigPath != "" {
		v.SetConfigFile(appCfg.Invoice.ConfigPath)
	} else {
		v.SetConfigName("invoice")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/glanzwerk")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GLANZWERK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read invoice config: %w", err)
		}
		fileFound = false
	}

	cfg, err := decodeInvoiceConfig(v)
	if err != nil {
		return nil, err
	}

	holder := &InvoiceConfigHolder{source: "defaults"}
	if fileFound {
		holder.source = v.ConfigFileUsed()
	}
	holder.current.Store(cfg)

	log.Info("invoice config loaded",
		zap.String("source", holder.source),
		zap.Int("services", len(cfg.Services)),
		zap.Int("discount_codes", len(cfg.DiscountCodes)),
	)

	if fileFound && appCfg.Invoice.WatchConfig {
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := decodeInvoiceConfig(v)
			if err != nil {
				log.Warn("invoice config reload ignored", zap.String("file", e.Name), zap.Error(err))
				return
			}
			holder.store(updated)
			log.Info("invoice config reloaded", zap.String("file", e.Name))
		})
		v.WatchConfig()
	}

	return holder, nil
}

func decodeInvoiceConfig(v *viper.Viper) (InvoiceConfig, error) {
	var cfg InvoiceConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return InvoiceConfig{}, fmt.Errorf("decode invoice config: %w", err)
	}

	defaults := DefaultInvoiceConfig()
	if len(cfg.Services) == 0 {
		cfg.Services = defaults.Services
	}
	if len(cfg.DiscountCodes) == 0 {
		cfg.DiscountCodes = defaults.DiscountCodes
	}
	if strings.TrimSpace(cfg.Company.Name) == "" {
		cfg.Company = defaults.Company
	}

	if err := ValidateInvoiceConfig(cfg); err != nil {
		return InvoiceConfig{}, err
	}
	return cfg, nil
}

func (h *InvoiceConfigHolder) Get() InvoiceConfig {
	return h.current.Load().(InvoiceConfig)
}

// Source reports the file the config came from, "defaults" or "static".
func (h *InvoiceConfigHolder) Source() string {
	return h.source
}

// OnChange registers fn to be called with every successfully reloaded config.
func (h *InvoiceConfigHolder) OnChange(fn func(InvoiceConfig)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers = append(h.subscribers, fn)
}

func (h *InvoiceConfigHolder) store(cfg InvoiceConfig) {
	h.current.Store(cfg)

	h.mu.Lock()
	subs := append([]func(InvoiceConfig){}, h.subscribers...)
	h.mu.Unlock()

	for _, fn := range subs {
		fn(cfg)
	}
}

func ValidateInvoiceConfig(cfg InvoiceConfig) error {
	if len(cfg.Services) == 0 {
		return errors.New("invoice.services cannot be empty")
	}
	for i, svc := range cfg.Services {
		if strings.TrimSpace(svc.Key) == "" {
			return fmt.Errorf("invoice.services[%d].key is required", i)
		}
		if strings.TrimSpace(svc.Name) == "" {
			return fmt.Errorf("invoice.services[%d].name is required", i)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(svc.NetPrice))
		if err != nil {
			return fmt.Errorf("invoice.services[%d].net_price: %w", i, err)
		}
		if price.IsNegative() {
			return fmt.Errorf("invoice.services[%d].net_price must not be negative", i)
		}
	}
	for i, code := range cfg.DiscountCodes {
		if strings.TrimSpace(code.Code) == "" {
			return fmt.Errorf("invoice.discount_codes[%d].code is required", i)
		}
		pct, err := decimal.NewFromString(strings.TrimSpace(code.Percent))
		if err != nil {
			return fmt.Errorf("invoice.discount_codes[%d].percent: %w", i, err)
		}
		if !pct.IsPositive() || pct.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("invoice.discount_codes[%d].percent must be in (0,100]", i)
		}
	}
	return nil
}
