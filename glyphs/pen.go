// Package glyphs draws the placeholder outlines that stand in for each
// letter. Drawings go through a Pen which collects closed contours in font
// units with y pointing up.
package glyphs

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"phonicsfont/ttf_tables"
)

type Point = ttf_tables.Point
type Contour = ttf_tables.Contour

// Outline is the finished drawing of one glyph.
type Outline struct {
	Contours []Contour
	Advance  int
}

func (o Outline) Empty() bool {
	return len(o.Contours) == 0
}

// NumPoints counts the points over all contours.
func (o Outline) NumPoints() int {
	n := 0
	for _, c := range o.Contours {
		n += len(c)
	}
	return n
}

// Pen records subpaths. Every point passes through Transform before it is
// stored.
type Pen struct {
	Transform matrix.Matrix

	contours []Contour
	current  Contour
	open     bool
}

func NewPen() *Pen {
	return &Pen{Transform: matrix.Identity}
}

// NewFlippedPen lets drawings be written top down inside a box of the given
// height: y becomes height - y.
func NewFlippedPen(height float64) *Pen {
	return &Pen{Transform: matrix.Matrix{1, 0, 0, -1, 0, height}}
}

// MoveTo starts a new subpath. A subpath that was never closed is dropped.
func (p *Pen) MoveTo(x, y float64) {
	p.current = nil
	p.open = true
	p.add(x, y, true)
}

func (p *Pen) LineTo(x, y float64) {
	if !p.open {
		p.MoveTo(x, y)
		return
	}
	p.add(x, y, true)
}

// QCurveTo adds a TrueType style quadratic run: every point but the last is
// an off curve control point, the last one is on the curve.
func (p *Pen) QCurveTo(points ...vec.Vec2) {
	if len(points) == 0 {
		return
	}
	if !p.open {
		last := points[len(points)-1]
		p.MoveTo(last.X, last.Y)
		return
	}
	for i, pt := range points {
		p.add(pt.X, pt.Y, i == len(points)-1)
	}
}

func (p *Pen) add(x, y float64, onCurve bool) {
	q := p.Transform.Apply(vec.Vec2{X: x, Y: y})
	p.current = append(p.current, Point{X: q.X, Y: q.Y, OnCurve: onCurve})
}

// ClosePath ends the current subpath. A closing point equal to the start is
// dropped, and contours with fewer than three points carry no area and are
// discarded. Contours are stored clockwise, the TrueType direction for filled
// outlines.
func (p *Pen) ClosePath() {
	if !p.open {
		return
	}
	c := p.current
	if n := len(c); n > 1 && c[0] == c[n-1] {
		c = c[:n-1]
	}
	if len(c) >= 3 {
		if SignedArea(c) > 0 {
			c = Reverse(c)
		}
		p.contours = append(p.contours, c)
	}
	p.current = nil
	p.open = false
}

// Hole runs draw and reverses every contour it adds, so that the new
// contours cut out of the shapes drawn before.
func (p *Pen) Hole(draw func()) {
	start := len(p.contours)
	draw()
	for i := start; i < len(p.contours); i++ {
		p.contours[i] = Reverse(p.contours[i])
	}
}

// Contours returns the closed contours drawn so far.
func (p *Pen) Contours() []Contour {
	return p.contours
}

// Outline returns the drawing with the given advance.
func (p *Pen) Outline(advance int) Outline {
	return Outline{Contours: p.contours, Advance: advance}
}

// Reverse returns c traversed in the opposite direction, keeping the same
// starting point.
func Reverse(c Contour) Contour {
	r := make(Contour, 0, len(c))
	if len(c) == 0 {
		return r
	}
	r = append(r, c[0])
	for i := len(c) - 1; i > 0; i-- {
		r = append(r, c[i])
	}
	return r
}

// SignedArea of the polygon through all points of c, positive for counter
// clockwise contours in a y up system.
func SignedArea(c Contour) float64 {
	area := 0.0
	for i := range c {
		a, b := c[i], c[(i+1)%len(c)]
		area += a.X*b.Y - b.X*a.Y
	}
	return area / 2
}

// Bounds of every point of the outline. ok is false for an empty outline.
func (o Outline) Bounds() (xMin, yMin, xMax, yMax float64, ok bool) {
	xMin, yMin = math.Inf(1), math.Inf(1)
	xMax, yMax = math.Inf(-1), math.Inf(-1)
	for _, c := range o.Contours {
		for _, pt := range c {
			xMin, xMax = min(xMin, pt.X), max(xMax, pt.X)
			yMin, yMax = min(yMin, pt.Y), max(yMax, pt.Y)
		}
	}
	return xMin, yMin, xMax, yMax, !o.Empty()
}

// contains reports whether p lies inside the polygon through the points of c,
// by the even-odd rule.
func contains(c Contour, p Point) bool {
	inside := false
	for i, j := 0, len(c)-1; i < len(c); j, i = i, i+1 {
		a, b := c[i], c[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// OrientByNesting fixes the direction of contours whose direction carries no
// meaning, as read from an even-odd filled drawing. Contours nested inside an
// even number of others are filled and become clockwise, the others are
// holes and become counter clockwise.
func OrientByNesting(contours []Contour) []Contour {
	out := make([]Contour, len(contours))
	for i, c := range contours {
		depth := 0
		for j, other := range contours {
			if i != j && len(c) > 0 && contains(other, c[0]) {
				depth++
			}
		}
		hole := depth%2 == 1
		if (SignedArea(c) > 0) != hole {
			c = Reverse(c)
		}
		out[i] = c
	}
	return out
}
