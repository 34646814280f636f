package pdf

import (
	"fmt"
	"math"
	"sort"

	"github.com/glanzwerk/invoicing/internal/layout"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

const (
	marginMM    = 10
	pageWidthMM = 210
	// gridSize makes one grid unit one millimetre of the A4 content width.
	gridSize = 190

	epsilon = 0.001
)

type band int

const (
	bandBody band = iota
	bandHeader
	bandFooter
)

// piece is one cell or image at an absolute page position.
type piece struct {
	x, y, w, h float64

	text     string
	style    fontstyle.Type
	size     float64
	align    layout.Align
	bordered bool

	image []byte
	ext   extension.Type
}

func (p piece) bottom() float64 {
	return p.y + p.h
}

// bandState collects the pieces of one band. origin is the page y the band
// starts at, end is where its cursor stopped.
type bandState struct {
	origin float64
	end    float64
	pieces []piece
}

// strip is a run of pieces whose vertical extents overlap. Each strip
// becomes exactly one maroto row.
type strip struct {
	top, bottom float64
	pieces      []piece
}

// MarotoBackend maps cursor instructions onto maroto's row and column grid.
// Drawing is buffered per band; at Finish, pieces that share vertical space
// are grouped into one row and placed in columns by their x position, so
// blocks laid out side by side stay side by side. Positions relative to the
// page bottom only occur in the footer, which maroto anchors itself.
type MarotoBackend struct {
	title string

	header, footer func()
	bandsDrawn     bool

	bands   map[band]*bandState
	current band

	weight layout.Weight
	size   float64

	x float64
	y float64
}

func NewMarotoBackend() *MarotoBackend {
	return &MarotoBackend{
		bands: map[band]*bandState{
			bandBody: {origin: marginMM, end: marginMM},
		},
		weight: layout.Regular,
		size:   10,
		x:      marginMM,
		y:      marginMM,
	}
}

func (b *MarotoBackend) SetTitle(title string) {
	b.title = title
}

func (b *MarotoBackend) SetPageBands(header, footer func()) {
	b.header = header
	b.footer = footer
}

// NewPage draws the page bands once and starts the body below the header.
// Later pages are created by maroto when rows overflow.
func (b *MarotoBackend) NewPage() {
	if b.bandsDrawn {
		return
	}
	b.bandsDrawn = true

	headerEnd := b.capture(bandHeader, b.header)
	b.capture(bandFooter, b.footer)

	body := b.bands[bandBody]
	body.origin = headerEnd
	b.current = bandBody
	b.x = marginMM
	b.y = math.Max(b.y, headerEnd)
}

func (b *MarotoBackend) SetFont(weight layout.Weight, size float64) {
	b.weight = weight
	b.size = size
}

func (b *MarotoBackend) SetCursor(x, y float64) {
	b.x = x
	origin := b.state().origin
	if y < 0 {
		b.y = origin
		return
	}
	b.y = math.Max(y, origin)
}

func (b *MarotoBackend) DrawCell(w, h float64, value string, bordered, newline bool, a layout.Align) {
	if w <= 0 {
		w = pageWidthMM - marginMM - b.x
	}
	if w > 0 {
		b.add(piece{
			x: b.x, y: b.y, w: w, h: h,
			text:     value,
			style:    b.fontStyle(),
			size:     b.size,
			align:    a,
			bordered: bordered,
		})
	}

	if newline {
		b.x = marginMM
		b.y += h
		return
	}
	b.x += w
}

func (b *MarotoBackend) AdvanceLine(h float64) {
	b.x = marginMM
	b.y += h
}

func (b *MarotoBackend) DrawImage(asset Asset, x, y, w float64) {
	ext, ok := marotoExtension(asset.Format)
	if !ok || asset.Width == 0 || w <= 0 {
		return
	}
	b.add(piece{
		x:     x,
		y:     math.Max(y, b.state().origin),
		w:     w,
		h:     w * float64(asset.Height) / float64(asset.Width),
		image: asset.Data,
		ext:   ext,
	})
}

func (b *MarotoBackend) Finish() ([]byte, error) {
	if b.current == bandBody {
		b.state().end = b.y
	}

	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(marginMM).
		WithRightMargin(marginMM).
		WithTopMargin(marginMM).
		WithBottomMargin(marginMM).
		WithMaxGridSize(gridSize).
		WithDefaultFont(&props.Font{Family: fontfamily.Helvetica, Size: 10})
	if b.title != "" {
		builder = builder.WithTitle(b.title, true)
	}

	m := maroto.New(builder.Build())
	if rows := b.rowsFor(bandHeader); len(rows) > 0 {
		if err := m.RegisterHeader(rows...); err != nil {
			return nil, fmt.Errorf("maroto header: %w", err)
		}
	}
	if rows := b.rowsFor(bandFooter); len(rows) > 0 {
		if err := m.RegisterFooter(rows...); err != nil {
			return nil, fmt.Errorf("maroto footer: %w", err)
		}
	}
	m.AddRows(b.rowsFor(bandBody)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("maroto generate: %w", err)
	}
	return doc.GetBytes(), nil
}

// capture runs a band callback once and returns the y its cursor stopped at.
func (b *MarotoBackend) capture(target band, draw func()) float64 {
	state := &bandState{origin: marginMM, end: marginMM}
	b.bands[target] = state
	if draw == nil {
		return state.end
	}

	prevBand, prevX, prevY := b.current, b.x, b.y
	b.current, b.x, b.y = target, marginMM, marginMM
	draw()
	state.end = b.y
	b.current, b.x, b.y = prevBand, prevX, prevY
	return state.end
}

func (b *MarotoBackend) state() *bandState {
	s, ok := b.bands[b.current]
	if !ok {
		s = &bandState{origin: marginMM, end: marginMM}
		b.bands[b.current] = s
	}
	return s
}

func (b *MarotoBackend) add(p piece) {
	s := b.state()
	s.pieces = append(s.pieces, p)
}

// strips groups the pieces of a band into vertically disjoint runs, top to
// bottom.
func (b *MarotoBackend) strips(target band) []strip {
	s, ok := b.bands[target]
	if !ok || len(s.pieces) == 0 {
		return nil
	}
	pieces := append([]piece(nil), s.pieces...)
	sort.SliceStable(pieces, func(i, j int) bool { return pieces[i].y < pieces[j].y })

	var out []strip
	for _, p := range pieces {
		if n := len(out); n > 0 && p.y < out[n-1].bottom-epsilon {
			last := &out[n-1]
			last.pieces = append(last.pieces, p)
			last.bottom = math.Max(last.bottom, p.bottom())
			continue
		}
		out = append(out, strip{top: p.y, bottom: p.bottom(), pieces: []piece{p}})
	}
	return out
}

// rowsFor converts a band into maroto rows. Gaps between strips become
// empty spacer rows so every strip keeps its vertical position.
func (b *MarotoBackend) rowsFor(target band) []core.Row {
	s, ok := b.bands[target]
	if !ok {
		return nil
	}

	var rows []core.Row
	cursor := s.origin
	for _, st := range b.strips(target) {
		if gap := st.top - cursor; gap > epsilon {
			rows = append(rows, row.New(gap))
		}
		rows = append(rows, stripRow(st))
		cursor = math.Max(cursor, st.bottom)
	}
	if tail := s.end - cursor; tail > epsilon && len(rows) > 0 {
		rows = append(rows, row.New(tail))
	}
	return rows
}

// stripRow lays the pieces of a strip out as columns. Pieces whose
// horizontal extents overlap share a column and are offset inside it.
func stripRow(st strip) core.Row {
	pieces := append([]piece(nil), st.pieces...)
	sort.SliceStable(pieces, func(i, j int) bool { return pieces[i].x < pieces[j].x })

	type group struct {
		left, right float64
		pieces      []piece
	}
	var groups []group
	for _, p := range pieces {
		if n := len(groups); n > 0 && p.x < groups[n-1].right-epsilon {
			g := &groups[n-1]
			g.pieces = append(g.pieces, p)
			g.right = math.Max(g.right, p.x+p.w)
			continue
		}
		groups = append(groups, group{left: p.x, right: p.x + p.w, pieces: []piece{p}})
	}

	cols := make([]core.Col, 0, len(groups)*2)
	used := 0
	for _, g := range groups {
		left := max(units(g.left-marginMM), used)
		right := min(units(g.right-marginMM), gridSize)
		if right <= left {
			continue
		}
		if left > used {
			cols = append(cols, col.New(left-used))
		}

		colLeft := float64(marginMM + left)
		colRight := float64(marginMM + right)
		c := col.New(right - left)
		for _, p := range g.pieces {
			c = c.Add(pieceComponent(p, st.top, colLeft, colRight))
		}
		if len(g.pieces) == 1 && g.pieces[0].bordered {
			c = c.WithStyle(&props.Cell{BorderType: border.Full, BorderThickness: 0.2})
		}
		cols = append(cols, c)
		used = right
	}

	return row.New(st.bottom - st.top).Add(cols...)
}

func pieceComponent(p piece, top, colLeft, colRight float64) core.Component {
	offsetY := p.y - top
	if p.image != nil {
		return image.NewFromBytes(p.image, p.ext, props.Rect{
			Top:     offsetY,
			Left:    math.Max(0, p.x-colLeft),
			Percent: 100,
		})
	}
	return text.New(p.text, props.Text{
		Family: fontfamily.Helvetica,
		Style:  p.style,
		Size:   p.size,
		Align:  marotoAlign(p.align),
		Top:    offsetY + math.Max(0, (p.h-p.size*0.35)/2),
		Left:   math.Max(0, p.x-colLeft) + 1,
		Right:  math.Max(0, colRight-(p.x+p.w)) + 1,
	})
}

func (b *MarotoBackend) fontStyle() fontstyle.Type {
	if b.weight == layout.Bold {
		return fontstyle.Bold
	}
	return fontstyle.Normal
}

func units(mm float64) int {
	if mm <= 0 {
		return 0
	}
	return int(math.Round(mm))
}

func marotoAlign(a layout.Align) align.Type {
	switch a {
	case layout.AlignCenter:
		return align.Center
	case layout.AlignRight:
		return align.Right
	default:
		return align.Left
	}
}

func marotoExtension(format string) (extension.Type, bool) {
	switch format {
	case "png":
		return extension.Png, true
	case "jpeg":
		return extension.Jpeg, true
	default:
		return "", false
	}
}
