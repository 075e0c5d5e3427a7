// Package tty is the terminal front-end: the fire field rendered into
// coloured block cells on a tcell screen, with the gauge as text above it.
package tty

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/inferno/internal/fire"
)

// Terminal cells are roughly twice as tall as they are wide.
const (
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 17.0
)

// glyphs by rising coverage
var glyphs = []rune{' ', '░', '▒', '▓', '█'}

// RGB is a linear colour accumulator, 0..255 per channel but unbounded above.
type RGB struct {
	R, G, B float64
}

// Surface is a fire.Surface over a grid of terminal cells. Each cell covers
// cellW×cellH virtual pixels and is shaded by the glow value at its centre.
type Surface struct {
	cols, rows   int
	cellW, cellH float64
	buf          []RGB
	blend        fire.Blend
}

// NewSurface creates a cols×rows cell surface.
func NewSurface(cols, rows int, cellW, cellH float64) *Surface {
	s := &Surface{cellW: cellW, cellH: cellH}
	s.Resize(cols, rows)
	return s
}

// Resize reallocates the grid when the size changed.
func (s *Surface) Resize(cols, rows int) {
	cols, rows = max(cols, 0), max(rows, 0)
	if cols == s.cols && rows == s.rows && s.buf != nil {
		return
	}
	s.cols, s.rows = cols, rows
	s.buf = make([]RGB, cols*rows)
}

// Cells returns the grid size.
func (s *Surface) Cells() (cols, rows int) { return s.cols, s.rows }

// CellSize returns the virtual pixel size of one cell.
func (s *Surface) CellSize() (w, h float64) { return s.cellW, s.cellH }

func (s *Surface) Size() (w, h float64) {
	return float64(s.cols) * s.cellW, float64(s.rows) * s.cellH
}

func (s *Surface) Clear() {
	clear(s.buf)
}

func (s *Surface) SetBlend(b fire.Blend) { s.blend = b }

func (s *Surface) Glow(x, y, radius float64, inner, outer color.NRGBA) {
	if radius <= 0 {
		return
	}
	c0 := max(int((x-radius)/s.cellW), 0)
	c1 := min(int((x+radius)/s.cellW), s.cols-1)
	r0 := max(int((y-radius)/s.cellH), 0)
	r1 := min(int((y+radius)/s.cellH), s.rows-1)

	for row := r0; row <= r1; row++ {
		cy := (float64(row) + 0.5) * s.cellH
		for col := c0; col <= c1; col++ {
			cx := (float64(col) + 0.5) * s.cellW
			w := fire.GlowFalloff(cx-x, cy-y, radius)
			if w <= 0 {
				continue
			}
			src, alpha := mix(inner, outer, w)
			dst := &s.buf[row*s.cols+col]
			if s.blend == fire.BlendAdditive {
				dst.R += src.R
				dst.G += src.G
				dst.B += src.B
				continue
			}
			dst.R = dst.R*(1-alpha) + src.R
			dst.G = dst.G*(1-alpha) + src.G
			dst.B = dst.B*(1-alpha) + src.B
		}
	}
}

// mix returns the premultiplied gradient colour at weight w of inner.
func mix(inner, outer color.NRGBA, w float64) (RGB, float64) {
	ia, oa := float64(inner.A)/255*w, float64(outer.A)/255*(1-w)
	return RGB{
		R: float64(inner.R)*ia + float64(outer.R)*oa,
		G: float64(inner.G)*ia + float64(outer.G)*oa,
		B: float64(inner.B)*ia + float64(outer.B)*oa,
	}, ia + oa
}

// At returns the accumulated colour of a cell.
func (s *Surface) At(col, row int) RGB {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return RGB{}
	}
	return s.buf[row*s.cols+col]
}

// Cell maps an accumulated colour to a glyph and style. Dark cells map to a
// blank.
func Cell(c RGB) (rune, tcell.Style) {
	peak := math.Max(c.R, math.Max(c.G, c.B))
	if peak < 8 {
		return ' ', tcell.StyleDefault.Background(tcell.ColorBlack)
	}
	level := min(int(peak/255*float64(len(glyphs)-1)+0.5), len(glyphs)-1)
	level = max(level, 1)

	// Saturated channels keep their hue at full glyph coverage.
	scale := 1.0
	if peak > 255 {
		scale = 255 / peak
	}
	fg := tcell.NewRGBColor(int32(c.R*scale), int32(c.G*scale), int32(c.B*scale))
	return glyphs[level], tcell.StyleDefault.Foreground(fg).Background(tcell.ColorBlack)
}

// Flush writes the grid to screen with its top row at top.
func (s *Surface) Flush(screen tcell.Screen, top int) {
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			ch, style := Cell(s.buf[row*s.cols+col])
			screen.SetContent(col, top+row, ch, nil, style)
		}
	}
}
