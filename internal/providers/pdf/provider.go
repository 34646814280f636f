package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/glanzwerk/invoicing/internal/layout"
	"github.com/glanzwerk/invoicing/internal/observability/metrics"
	"go.uber.org/zap"
)

var ErrUnsupportedBackend = errors.New("unsupported_backend")

// Backend is a stateful drawing surface. A backend renders exactly one
// document and is discarded after Finish.
type Backend interface {
	// SetPageBands installs the callbacks drawing the header and footer of
	// every page.
	SetPageBands(header, footer func())
	NewPage()
	SetFont(weight layout.Weight, size float64)
	// SetCursor moves the cursor. A negative y is measured from the bottom edge.
	SetCursor(x, y float64)
	DrawCell(w, h float64, text string, bordered, newline bool, align layout.Align)
	AdvanceLine(h float64)
	DrawImage(asset Asset, x, y, w float64)
	Finish() ([]byte, error)
}

// Titled is implemented by backends that can store a document title.
type Titled interface {
	SetTitle(title string)
}

// Asset is a decoded image file ready to embed.
type Asset struct {
	Path   string
	Data   []byte
	Format string // png, jpeg or gif
	Width  int
	Height int
}

// Provider replays layout documents onto a fresh backend per render.
type Provider struct {
	name       string
	newBackend func() Backend
	log        *zap.Logger
	metrics    *metrics.Metrics
}

func NewProvider(name string, newBackend func() Backend, log *zap.Logger, m *metrics.Metrics) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{name: name, newBackend: newBackend, log: log, metrics: m}
}

// Name is the backend identifier used in logs and metric labels.
func (p *Provider) Name() string {
	return p.name
}

// Render draws doc and returns the complete document bytes. Nothing is
// returned unless the backend finished successfully.
func (p *Provider) Render(ctx context.Context, doc layout.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	header, body, footer := doc.Header(), doc.Body(), doc.Footer()
	assets := p.loadAssets(header, body, footer)

	backend := p.newBackend()
	if titled, ok := backend.(Titled); ok {
		titled.SetTitle(doc.Title())
	}
	backend.SetPageBands(
		func() { replay(backend, header, assets) },
		func() { replay(backend, footer, assets) },
	)
	replay(backend, body, assets)

	out, err := backend.Finish()
	if err != nil {
		return nil, fmt.Errorf("render %s document: %w", p.name, err)
	}
	return out, nil
}

// loadAssets reads every image referenced by the document once. Images that
// cannot be read or decoded are left out, and their instructions are skipped.
func (p *Provider) loadAssets(bands ...[]layout.Instruction) map[string]Asset {
	assets := make(map[string]Asset)
	failed := make(map[string]struct{})
	for _, band := range bands {
		for _, ins := range band {
			if ins.Op != layout.OpImage {
				continue
			}
			if _, ok := assets[ins.Asset]; ok {
				continue
			}
			if _, ok := failed[ins.Asset]; ok {
				continue
			}
			asset, err := loadAsset(ins.Asset)
			if err != nil {
				failed[ins.Asset] = struct{}{}
				p.log.Warn("image skipped", zap.String("path", ins.Asset), zap.Error(err))
				p.metrics.RecordLogoMissing()
				continue
			}
			assets[ins.Asset] = asset
		}
	}
	return assets
}

func loadAsset(path string) (Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Asset{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Asset{}, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Asset{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return Asset{
		Path:   path,
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

func replay(b Backend, program []layout.Instruction, assets map[string]Asset) {
	for _, ins := range program {
		switch ins.Op {
		case layout.OpNewPage:
			b.NewPage()
		case layout.OpSetFont:
			b.SetFont(ins.Weight, ins.Size)
		case layout.OpSetCursor:
			b.SetCursor(ins.X, ins.Y)
		case layout.OpCell:
			b.DrawCell(ins.W, ins.H, ins.Text, ins.Border, ins.NewLine, ins.Align)
		case layout.OpAdvance:
			b.AdvanceLine(ins.H)
		case layout.OpImage:
			if asset, ok := assets[ins.Asset]; ok {
				b.DrawImage(asset, ins.X, ins.Y, ins.W)
			}
		}
	}
}
