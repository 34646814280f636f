package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/glanzwerk/invoicing/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFPDFBackend_RendersDocument(t *testing.T) {
	logo := writeLogo(t)
	p := NewProvider("fpdf", func() Backend { return NewFPDFBackend() }, nil, newTestMetrics(t))

	out, err := p.Render(context.Background(), testDocument(logo, layout.DiscountRowsPerSource))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "%%EOF")
}

func TestFPDFBackend_PaginatesLongTables(t *testing.T) {
	b := NewFPDFBackend()
	b.SetPageBands(func() {}, func() {})
	b.NewPage()
	b.SetFont(layout.Regular, 10)
	for i := 0; i < 80; i++ {
		b.DrawCell(80, 8, "Position", true, true, layout.AlignLeft)
	}
	assert.Greater(t, b.pdf.PageNo(), 2)

	out, err := b.Finish()
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestMarotoBackend_RendersDocument(t *testing.T) {
	logo := writeLogo(t)
	p := NewProvider("maroto", func() Backend { return NewMarotoBackend() }, nil, newTestMetrics(t))

	out, err := p.Render(context.Background(), testDocument(logo, layout.DiscountRowsLumped))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func stripTexts(st strip) []string {
	out := make([]string, 0, len(st.pieces))
	for _, p := range st.pieces {
		if p.image == nil {
			out = append(out, p.text)
		}
	}
	return out
}

func TestMarotoBackend_SideBySideBlocksShareRow(t *testing.T) {
	logo := writeLogo(t)
	asset, err := loadAsset(logo)
	require.NoError(t, err)
	assets := map[string]Asset{logo: asset}
	doc := testDocument(logo, layout.DiscountRowsPerSource)

	b := NewMarotoBackend()
	b.SetPageBands(
		func() { replay(b, doc.Header(), assets) },
		func() { replay(b, doc.Footer(), assets) },
	)
	replay(b, doc.Body(), assets)

	header := b.strips(bandHeader)
	require.Len(t, header, 1, "logo and company line form one row")
	require.Len(t, header[0].pieces, 2)
	assert.NotNil(t, header[0].pieces[0].image)
	assert.Equal(t, []string{"Glanzwerk Rheinland, Krasnaer Str. 1, 56566 Neuwied, Deutschland"}, stripTexts(header[0]))

	body := b.bands[bandBody]
	assert.Equal(t, 30.0, body.origin, "body starts below the header")

	strips := b.strips(bandBody)
	require.NotEmpty(t, strips)
	first := stripTexts(strips[0])
	assert.Contains(t, first, "Jörg Müller")
	assert.Contains(t, first, "Fahrzeug: NR-GW 42")
	assert.Contains(t, first, "Rechnungsnummer: 2025-05041407")
	assert.Contains(t, first, "Rechnungsdatum: 04.05.2026")
	assert.Equal(t, 30.0, strips[0].top)

	var title *strip
	for i := range strips {
		if assert.ObjectsAreEqual([]string{"RECHNUNG"}, stripTexts(strips[i])) {
			title = &strips[i]
		}
	}
	require.NotNil(t, title)
	assert.Equal(t, 70.0, title.top)

	footer := b.strips(bandFooter)
	require.Len(t, footer, 4)
	assert.Equal(t, float64(marginMM), footer[0].top, "bottom-relative cursor starts the footer band")
	for _, st := range footer {
		assert.Len(t, st.pieces, 3)
	}

	out, err := b.Finish()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestMarotoBackend_GroupsOverlappingPieces(t *testing.T) {
	b := NewMarotoBackend()
	b.NewPage()
	b.SetFont(layout.Regular, 11)

	b.DrawCell(0, 6, "links oben", false, true, layout.AlignLeft)
	b.DrawCell(0, 6, "links unten", false, true, layout.AlignLeft)
	b.AdvanceLine(5)
	assert.Equal(t, 27.0, b.y)

	b.SetCursor(120, 15)
	b.DrawCell(70, 6, "rechts", false, true, layout.AlignLeft)
	assert.Equal(t, float64(marginMM), b.x)
	assert.Equal(t, 21.0, b.y)

	b.SetCursor(10, 40)
	b.DrawCell(80, 8, "a", true, false, layout.AlignLeft)
	b.DrawCell(25, 8, "b", true, true, layout.AlignRight)
	b.DrawCell(80, 8, "c", true, true, layout.AlignLeft)

	strips := b.strips(bandBody)
	require.Len(t, strips, 3)
	assert.ElementsMatch(t, []string{"links oben", "links unten", "rechts"}, stripTexts(strips[0]))
	assert.Equal(t, 10.0, strips[0].top)
	assert.Equal(t, 22.0, strips[0].bottom)
	assert.Equal(t, []string{"a", "b"}, stripTexts(strips[1]))
	assert.Equal(t, []string{"c"}, stripTexts(strips[2]))
	assert.Equal(t, 48.0, strips[2].top)

	// spacer before the table, three strips, trailing nothing
	assert.Len(t, b.rowsFor(bandBody), 4)

	b.SetCursor(10, -40)
	assert.Equal(t, float64(marginMM), b.y, "bottom-relative position falls back to the band origin")
}

func TestMarotoBackend_CapturesBands(t *testing.T) {
	b := NewMarotoBackend()
	b.SetPageBands(
		func() { b.DrawCell(0, 5, "header", false, true, layout.AlignLeft) },
		func() {
			b.DrawCell(60, 4, "a", false, false, layout.AlignLeft)
			b.DrawCell(70, 4, "b", false, false, layout.AlignLeft)
			b.DrawCell(60, 4, "c", false, true, layout.AlignLeft)
		},
	)
	b.NewPage()
	b.DrawCell(0, 6, "body", false, true, layout.AlignLeft)

	out, err := b.Finish()
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Len(t, b.rowsFor(bandHeader), 1)
	assert.Len(t, b.rowsFor(bandFooter), 1)
	require.Len(t, b.strips(bandBody), 1)
	assert.Equal(t, 15.0, b.strips(bandBody)[0].top)
}
