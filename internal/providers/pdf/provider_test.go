package pdf

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glanzwerk/invoicing/internal/config"
	"github.com/glanzwerk/invoicing/internal/invoice/domain"
	"github.com/glanzwerk/invoicing/internal/layout"
	"github.com/glanzwerk/invoicing/internal/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBackend struct {
	mock.Mock
	header, footer func()
}

func (m *mockBackend) SetPageBands(header, footer func()) {
	m.header, m.footer = header, footer
	m.Called()
}

func (m *mockBackend) NewPage() {
	m.Called()
	if m.header != nil {
		m.header()
	}
}

func (m *mockBackend) SetFont(weight layout.Weight, size float64) { m.Called(weight, size) }

func (m *mockBackend) SetCursor(x, y float64) { m.Called(x, y) }

func (m *mockBackend) DrawCell(w, h float64, text string, bordered, newline bool, align layout.Align) {
	m.Called(w, h, text, bordered, newline, align)
}

func (m *mockBackend) AdvanceLine(h float64) { m.Called(h) }

func (m *mockBackend) DrawImage(asset Asset, x, y, w float64) { m.Called(asset.Path, x, y, w) }

func (m *mockBackend) Finish() ([]byte, error) {
	if m.footer != nil {
		m.footer()
	}
	args := m.Called()
	var out []byte
	if b := args.Get(0); b != nil {
		out = b.([]byte)
	}
	return out, args.Error(1)
}

func writeLogo(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: 20, G: 120, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func testDocument(logoPath string, rows layout.DiscountRows) layout.Document {
	issued := time.Date(2026, time.May, 4, 14, 7, 0, 0, time.UTC)
	net := decimal.NewFromInt(50)
	gross := net.Mul(decimal.RequireFromString("1.19"))
	rec := domain.Record{
		CustomerName:  "Jörg Müller",
		VehicleNumber: "NR-GW 42",
		LineItems:     []domain.LineItem{{Description: "Außenreinigung per Hand", NetPrice: net}},
		NetSubtotal:   net,
		TaxRate:       domain.TaxRate,
		TaxAmount:     net.Mul(domain.TaxRate),
		GrossSubtotal: gross,
		DiscountSources: []domain.DiscountSource{
			{Kind: domain.DiscountRegularCustomer, Label: "Stammkundenrabatt (10%)", Percent: decimal.NewFromInt(10)},
		},
		TotalDiscountPercent: decimal.NewFromInt(10),
		DiscountAmount:       gross.Div(decimal.NewFromInt(10)),
		TotalPrice:           gross.Sub(gross.Div(decimal.NewFromInt(10))),
		InvoiceNumber:        "2025-05041407",
		IssueDate:            issued,
		DueDate:              issued.AddDate(0, 0, domain.DueDays),
	}
	profile := layout.ProfileFromConfig(config.DefaultInvoiceConfig().Company)
	return layout.NewEngine(profile, layout.Options{DiscountRows: rows, LogoPath: logoPath}).Layout(rec)
}

func newTestMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()
	m, err := metrics.NewWithRegisterer(prometheus.NewRegistry(), metrics.Config{})
	require.NoError(t, err)
	return m
}

func TestProvider_ReplaysBandsInOrder(t *testing.T) {
	logo := writeLogo(t)
	doc := testDocument(logo, layout.DiscountRowsPerSource)

	backend := &mockBackend{}
	var calls []string
	record := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) { calls = append(calls, name) }
	}
	backend.On("SetPageBands").Return()
	backend.On("NewPage").Run(record("new_page")).Return()
	backend.On("SetFont", mock.Anything, mock.Anything).Return()
	backend.On("SetCursor", mock.Anything, mock.Anything).Return()
	backend.On("AdvanceLine", mock.Anything).Return()
	backend.On("DrawImage", logo, 10.0, 8.0, 25.0).Run(record("logo")).Once().Return()
	backend.On("DrawCell", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { calls = append(calls, args.String(2)) }).Return()
	backend.On("Finish").Return([]byte("%PDF-fake"), nil)

	p := NewProvider("mock", func() Backend { return backend }, nil, newTestMetrics(t))
	out, err := p.Render(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), out)
	backend.AssertExpectations(t)

	require.GreaterOrEqual(t, len(calls), 4)
	assert.Equal(t, "new_page", calls[0])
	assert.Equal(t, "logo", calls[1])
	assert.Equal(t, "Glanzwerk Rheinland, Krasnaer Str. 1, 56566 Neuwied, Deutschland", calls[2])
	assert.Equal(t, "Jörg Müller", calls[3])
	assert.Equal(t, "BIC: MALADE51NWD", calls[len(calls)-1])
}

func TestProvider_MissingLogoIsSkipped(t *testing.T) {
	doc := testDocument(filepath.Join(t.TempDir(), "missing.png"), layout.DiscountRowsPerSource)
	reg := prometheus.NewRegistry()
	m, err := metrics.NewWithRegisterer(reg, metrics.Config{Environment: "test"})
	require.NoError(t, err)

	p := NewProvider(config.BackendFPDF, func() Backend { return NewFPDFBackend() }, nil, m)
	out, err := p.Render(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	expected := `
# HELP glanzwerk_logo_missing_total Renders that skipped the logo because it could not be loaded.
# TYPE glanzwerk_logo_missing_total counter
glanzwerk_logo_missing_total{env="test",service="glanzwerk"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "glanzwerk_logo_missing_total"))
}

func TestProvider_UndecodableLogoIsSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))
	doc := testDocument(path, layout.DiscountRowsPerSource)

	backend := &mockBackend{}
	backend.On("SetPageBands").Return()
	backend.On("NewPage").Return()
	backend.On("SetFont", mock.Anything, mock.Anything).Return()
	backend.On("SetCursor", mock.Anything, mock.Anything).Return()
	backend.On("AdvanceLine", mock.Anything).Return()
	backend.On("DrawCell", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	backend.On("Finish").Return([]byte("%PDF-fake"), nil)

	p := NewProvider("mock", func() Backend { return backend }, nil, newTestMetrics(t))
	_, err := p.Render(context.Background(), doc)
	require.NoError(t, err)
	backend.AssertNotCalled(t, "DrawImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProvider_BackendFailure(t *testing.T) {
	backend := &mockBackend{}
	backend.On("SetPageBands").Return()
	backend.On("NewPage").Return()
	backend.On("SetFont", mock.Anything, mock.Anything).Return()
	backend.On("SetCursor", mock.Anything, mock.Anything).Return()
	backend.On("AdvanceLine", mock.Anything).Return()
	backend.On("DrawCell", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	backend.On("Finish").Return(nil, errors.New("disk full"))

	p := NewProvider("mock", func() Backend { return backend }, nil, nil)
	out, err := p.Render(context.Background(), testDocument("", layout.DiscountRowsPerSource))
	assert.Nil(t, out)
	assert.ErrorContains(t, err, "disk full")
}

func TestProvider_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProvider("mock", func() Backend {
		t.Fatal("backend must not be created")
		return nil
	}, nil, nil)
	_, err := p.Render(ctx, testDocument("", layout.DiscountRowsPerSource))
	assert.ErrorIs(t, err, context.Canceled)
}
