package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/glanzwerk/invoicing/internal/layout"
	"github.com/jung-kurt/gofpdf"
)

const (
	fontFamily = "Arial"

	// pageBreakMargin keeps body rows clear of the 40mm footer band.
	pageBreakMargin = 45
)

// FPDFBackend draws with a moving cursor, the native model of the layout.
type FPDFBackend struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func NewFPDFBackend() *FPDFBackend {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, pageBreakMargin)
	pdf.SetCreator("glanzwerk", true)
	return &FPDFBackend{
		pdf: pdf,
		// core fonts are cp1252, umlauts need translating
		tr: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (b *FPDFBackend) SetTitle(title string) {
	b.pdf.SetTitle(title, true)
}

func (b *FPDFBackend) SetPageBands(header, footer func()) {
	b.pdf.SetHeaderFunc(header)
	b.pdf.SetFooterFunc(footer)
}

func (b *FPDFBackend) NewPage() {
	b.pdf.AddPage()
}

func (b *FPDFBackend) SetFont(weight layout.Weight, size float64) {
	style := ""
	if weight == layout.Bold {
		style = "B"
	}
	b.pdf.SetFont(fontFamily, style, size)
}

func (b *FPDFBackend) SetCursor(x, y float64) {
	b.pdf.SetXY(x, y)
}

func (b *FPDFBackend) DrawCell(w, h float64, text string, bordered, newline bool, align layout.Align) {
	border := ""
	if bordered {
		border = "1"
	}
	ln := 0
	if newline {
		ln = 1
	}
	b.pdf.CellFormat(w, h, b.tr(text), border, ln, string(align), false, 0, "")
}

func (b *FPDFBackend) AdvanceLine(h float64) {
	b.pdf.Ln(h)
}

func (b *FPDFBackend) DrawImage(asset Asset, x, y, w float64) {
	opts := gofpdf.ImageOptions{ImageType: imageType(asset.Format), ReadDpi: false}
	b.pdf.RegisterImageOptionsReader(asset.Path, opts, bytes.NewReader(asset.Data))
	b.pdf.ImageOptions(asset.Path, x, y, w, 0, false, opts, 0, "")
}

func (b *FPDFBackend) Finish() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("fpdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func imageType(format string) string {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return "JPG"
	case "gif":
		return "GIF"
	default:
		return "PNG"
	}
}
