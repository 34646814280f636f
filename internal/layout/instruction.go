// Package layout maps an invoice record onto the fixed page grid of the
// printed invoice. It produces a flat list of drawing instructions that a
// rendering backend replays; it never draws anything itself.
package layout

// Op names one drawing primitive.
type Op string

const (
	OpNewPage   Op = "new_page"
	OpSetFont   Op = "set_font"
	OpSetCursor Op = "set_cursor"
	OpCell      Op = "cell"
	OpAdvance   Op = "advance"
	OpImage     Op = "image"
)

type Weight string

const (
	Regular Weight = "regular"
	Bold    Weight = "bold"
)

type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Instruction is one drawing step. Units are millimetres. A negative Y
// is measured from the bottom edge of the page. A cell width of zero
// extends the cell to the right margin.
type Instruction struct {
	Op Op

	Weight Weight
	Size   float64

	X, Y float64
	W, H float64

	Text    string
	Border  bool
	NewLine bool
	Align   Align

	Asset string
}

// Document is the complete, immutable drawing program of one invoice.
// Header and Footer are bands the backend repeats on every page.
type Document struct {
	title  string
	header []Instruction
	body   []Instruction
	footer []Instruction
}

func (d Document) Title() string { return d.title }

func (d Document) Header() []Instruction { return clone(d.header) }

func (d Document) Body() []Instruction { return clone(d.body) }

func (d Document) Footer() []Instruction { return clone(d.footer) }

func clone(in []Instruction) []Instruction {
	out := make([]Instruction, len(in))
	copy(out, in)
	return out
}

// program accumulates instructions for one band.
type program struct {
	out []Instruction
}

func (p *program) newPage() {
	p.out = append(p.out, Instruction{Op: OpNewPage})
}

func (p *program) font(weight Weight, size float64) {
	p.out = append(p.out, Instruction{Op: OpSetFont, Weight: weight, Size: size})
}

func (p *program) cursor(x, y float64) {
	p.out = append(p.out, Instruction{Op: OpSetCursor, X: x, Y: y})
}

func (p *program) cell(w, h float64, text string, border, newline bool, align Align) {
	p.out = append(p.out, Instruction{
		Op:      OpCell,
		W:       w,
		H:       h,
		Text:    text,
		Border:  border,
		NewLine: newline,
		Align:   align,
	})
}

// line is a full-width, borderless, left-aligned cell followed by a line break.
func (p *program) line(h float64, text string) {
	p.cell(0, h, text, false, true, AlignLeft)
}

func (p *program) advance(h float64) {
	p.out = append(p.out, Instruction{Op: OpAdvance, H: h})
}

func (p *program) image(asset string, x, y, w float64) {
	p.out = append(p.out, Instruction{Op: OpImage, Asset: asset, X: x, Y: y, W: w})
}
