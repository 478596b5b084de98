// Package sheet draws every glyph of a font into one PNG, cell by cell, so the
// outlines can be checked without installing the font.
package sheet

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"

	"phonicsfont/glyphs"
	"phonicsfont/logger"
	"phonicsfont/ttf_tables"
)

// Debug draws cell borders and baselines into the sheet.
var Debug = false

const (
	DEFAULT_CELL_SIZE = 128
	DEFAULT_COLUMNS   = 9
)

// Metrics place a glyph in its cell: one em fills the cell and the baseline
// sits -Descent font units above the bottom of it.
type Metrics struct {
	UnitsPerEm int
	Descent    int
}

var DefaultMetrics = Metrics{UnitsPerEm: ttf_tables.DEFAULT_UNITS_PER_EM, Descent: ttf_tables.DEFAULT_DESCENT}

type layout struct {
	cell, columns, rows int
	scale               float32
	descent             float32
}

func (l layout) width() int  { return l.cell * l.columns }
func (l layout) height() int { return l.cell * l.rows }

// origin of glyph i in the unflipped sheet, where y grows upwards as in font
// space. Row 0 ends up on top once the sheet is flipped.
func (l layout) origin(i int) (float32, float32) {
	col, row := i%l.columns, i/l.columns
	x := float32(col * l.cell)
	y := float32(l.height()-(row+1)*l.cell) - l.descent*l.scale
	return x, y
}

// Render draws outlines into a grid of cellSize pixel cells, columns wide, in
// glyph id order. Glyphs are black on transparent.
func Render(outlines []glyphs.Outline, m Metrics, cellSize, columns int) (*image.NRGBA, error) {
	if cellSize <= 0 || columns <= 0 {
		return nil, fmt.Errorf("bad sheet layout %d px by %d columns", cellSize, columns)
	}
	if m.UnitsPerEm <= 0 {
		return nil, fmt.Errorf("bad units per em %d", m.UnitsPerEm)
	}
	if len(outlines) == 0 {
		return nil, fmt.Errorf("no glyphs to draw")
	}
	l := layout{
		cell:    cellSize,
		columns: columns,
		rows:    (len(outlines) + columns - 1) / columns,
		scale:   float32(cellSize) / float32(m.UnitsPerEm),
		descent: float32(m.Descent),
	}

	dst := image.NewAlpha(image.Rect(0, 0, l.width(), l.height()))
	z := vector.NewRasterizer(l.width(), l.height())
	for i, o := range outlines {
		ox, oy := l.origin(i)
		for _, c := range o.Contours {
			drawContour(z, c, func(p glyphs.Point) (float32, float32) {
				return ox + float32(p.X)*l.scale, oy + float32(p.Y)*l.scale
			})
		}
	}
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	if Debug {
		for x := 0; x < l.width(); x += l.cell {
			drawVerticalLine(dst, x, 0, l.height()-1) // draw columns
		}
		for y := 0; y < l.height(); y += l.cell {
			drawHorizontalLine(dst, 0, y, l.width()-1) // draw rows
			baseline := y + int(-l.descent*l.scale)
			drawHorizontalLine(dst, 0, baseline, l.width()-1) // draw baseline
		}
	}

	// imaging.FlipV returns an NRGBA image with white ink, invert it to black
	img := imaging.FlipV(dst)
	return imaging.Invert(img), nil
}

// drawContour adds a TrueType contour, where two off curve points in a row
// imply an on curve point half way between them.
func drawContour(z *vector.Rasterizer, c glyphs.Contour, at func(glyphs.Point) (float32, float32)) {
	if len(c) < 2 {
		return
	}

	var start glyphs.Point
	var rest glyphs.Contour
	switch last := len(c) - 1; {
	case c[0].OnCurve:
		start, rest = c[0], c[1:]
	case c[last].OnCurve:
		start, rest = c[last], c[:last]
	default:
		start = midpoint(c[0], c[last])
		rest = c
	}

	z.MoveTo(at(start))
	var ctrl *glyphs.Point
	for i := range rest {
		p := rest[i]
		switch {
		case p.OnCurve && ctrl == nil:
			z.LineTo(at(p))
		case p.OnCurve:
			quadTo(z, at, *ctrl, p)
			ctrl = nil
		case ctrl != nil:
			quadTo(z, at, *ctrl, midpoint(*ctrl, p))
			ctrl = &rest[i]
		default:
			ctrl = &rest[i]
		}
	}
	if ctrl != nil {
		quadTo(z, at, *ctrl, start)
	}
	z.ClosePath()
}

func quadTo(z *vector.Rasterizer, at func(glyphs.Point) (float32, float32), ctrl, p glyphs.Point) {
	bx, by := at(ctrl)
	cx, cy := at(p)
	z.QuadTo(bx, by, cx, cy)
}

func midpoint(a, b glyphs.Point) glyphs.Point {
	return glyphs.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, OnCurve: true}
}

func drawHorizontalLine(img *image.Alpha, x1, y, x2 int) {
	for ; x1 <= x2; x1++ {
		img.Set(x1, y, color.Opaque)
	}
}

func drawVerticalLine(img *image.Alpha, x, y1, y2 int) {
	for ; y1 <= y2; y1++ {
		img.Set(x, y1, color.Opaque)
	}
}

// WritePNG saves the sheet, creating the directory it goes in.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return err
	}
	logger.Logf(logger.Allow, "sheet", "wrote glyphs to %s", path)
	return nil
}
