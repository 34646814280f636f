package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoice.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewInvoiceConfigHolder_ReadsFile(t *testing.T) {
	path := writeConfig(t, `
services:
  - key: wash
    name: Wash
    net_price: 12.50
discount_codes:
  - code: half
    percent: 50
`)

	holder, err := NewInvoiceConfigHolder(Config{Invoice: InvoiceSettings{ConfigPath: path}}, zap.NewNop())
	require.NoError(t, err)

	cfg := holder.Get()
	require.Len(t, cfg.Services, 1)
	assert.Equal(t, "wash", cfg.Services[0].Key)
	assert.Equal(t, "12.5", cfg.Services[0].NetPrice)
	require.Len(t, cfg.DiscountCodes, 1)
	assert.Equal(t, "50", cfg.DiscountCodes[0].Percent)
	// company section missing: defaults apply
	assert.Equal(t, "Glanzwerk Rheinland", cfg.Company.Name)
	assert.Equal(t, path, holder.Source())
}

func TestNewInvoiceConfigHolder_RejectsInvalidPercent(t *testing.T) {
	path := writeConfig(t, `
discount_codes:
  - code: TOO_MUCH
    percent: 120
`)

	_, err := NewInvoiceConfigHolder(Config{Invoice: InvoiceSettings{ConfigPath: path}}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewInvoiceConfigHolder_MissingExplicitFile(t *testing.T) {
	_, err := NewInvoiceConfigHolder(Config{Invoice: InvoiceSettings{ConfigPath: filepath.Join(t.TempDir(), "nope.yml")}}, zap.NewNop())
	assert.Error(t, err)
}

func TestValidateInvoiceConfig_Defaults(t *testing.T) {
	cfg := DefaultInvoiceConfig()
	assert.NoError(t, ValidateInvoiceConfig(cfg))
	assert.Len(t, cfg.Services, 15)
}

func TestValidateInvoiceConfig_NegativePrice(t *testing.T) {
	cfg := DefaultInvoiceConfig()
	cfg.Services[0].NetPrice = "-1"
	assert.Error(t, ValidateInvoiceConfig(cfg))
}

func TestInvoiceConfigHolder_StoreNotifiesSubscribers(t *testing.T) {
	holder, err := NewStaticInvoiceConfigHolder(DefaultInvoiceConfig())
	require.NoError(t, err)

	var got InvoiceConfig
	holder.OnChange(func(cfg InvoiceConfig) { got = cfg })

	updated := DefaultInvoiceConfig()
	updated.Services = updated.Services[:1]
	holder.store(updated)

	assert.Len(t, got.Services, 1)
	assert.Len(t, holder.Get().Services, 1)
}

func TestLoad_Normalizes(t *testing.T) {
	t.Setenv("PDF_BACKEND", "MAROTO")
	t.Setenv("LAYOUT_DISCOUNT_ROWS", "something-else")
	t.Setenv("RATE_LIMIT_BURST", "abc")

	cfg := Load()
	assert.Equal(t, BackendMaroto, cfg.PDF.Backend)
	assert.Equal(t, DiscountRowsPerSource, cfg.Layout.DiscountRows)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, DefaultNumberTemplate, cfg.Invoice.NumberTemplate)
}
