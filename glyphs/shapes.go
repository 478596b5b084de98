package glyphs

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// number of sides used to approximate circles and ellipses
const circleSegments = 24

func Polygon(p *Pen, points ...vec.Vec2) {
	if len(points) == 0 {
		return
	}
	p.MoveTo(points[0].X, points[0].Y)
	for _, pt := range points[1:] {
		p.LineTo(pt.X, pt.Y)
	}
	p.ClosePath()
}

func Rect(p *Pen, x0, y0, x1, y1 float64) {
	Polygon(p,
		vec.Vec2{X: x0, Y: y0},
		vec.Vec2{X: x1, Y: y0},
		vec.Vec2{X: x1, Y: y1},
		vec.Vec2{X: x0, Y: y1},
	)
}

func Triangle(p *Pen, a, b, c vec.Vec2) {
	Polygon(p, a, b, c)
}

// RegularPolygon has n corners on the circle of radius r, the first at angle
// offset (radians).
func RegularPolygon(p *Pen, cx, cy, r float64, n int, offset float64) {
	points := make([]vec.Vec2, n)
	for i := range points {
		angle := 2*math.Pi*float64(i)/float64(n) + offset
		points[i] = vec.Vec2{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	Polygon(p, points...)
}

func Ellipse(p *Pen, cx, cy, rx, ry float64) {
	points := make([]vec.Vec2, circleSegments)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / circleSegments
		points[i] = vec.Vec2{X: cx + rx*math.Cos(angle), Y: cy + ry*math.Sin(angle)}
	}
	Polygon(p, points...)
}

// Circle is a regular 24-gon.
func Circle(p *Pen, cx, cy, r float64) {
	Ellipse(p, cx, cy, r, r)
}

// Ring is a circle with a concentric hole of radius r*inner.
func Ring(p *Pen, cx, cy, r, inner float64) {
	Circle(p, cx, cy, r)
	p.Hole(func() {
		Circle(p, cx, cy, r*inner)
	})
}

// Stroke thickens the segment from (x0, y0) to (x1, y1) into a quadrilateral
// of the given width. Zero length segments draw nothing.
func Stroke(p *Pen, x0, y0, x1, y1, width float64) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	Polygon(p,
		vec.Vec2{X: x0 + nx, Y: y0 + ny},
		vec.Vec2{X: x1 + nx, Y: y1 + ny},
		vec.Vec2{X: x1 - nx, Y: y1 - ny},
		vec.Vec2{X: x0 - nx, Y: y0 - ny},
	)
}

// RoundBlob is a circle made of four quadratic quadrants with two control
// points each.
func RoundBlob(p *Pen, cx, cy, r float64) {
	p.MoveTo(cx, cy-r)
	p.QCurveTo(vec.Vec2{X: cx + r/2, Y: cy - r}, vec.Vec2{X: cx + r, Y: cy - r/2}, vec.Vec2{X: cx + r, Y: cy})
	p.QCurveTo(vec.Vec2{X: cx + r, Y: cy + r/2}, vec.Vec2{X: cx + r/2, Y: cy + r}, vec.Vec2{X: cx, Y: cy + r})
	p.QCurveTo(vec.Vec2{X: cx - r/2, Y: cy + r}, vec.Vec2{X: cx - r, Y: cy + r/2}, vec.Vec2{X: cx - r, Y: cy})
	p.QCurveTo(vec.Vec2{X: cx - r, Y: cy - r/2}, vec.Vec2{X: cx - r/2, Y: cy - r}, vec.Vec2{X: cx, Y: cy - r})
	p.ClosePath()
}

// HollowSquare is a square frame of the given border width.
func HollowSquare(p *Pen, x0, y0, x1, y1, border float64) {
	Rect(p, x0, y0, x1, y1)
	p.Hole(func() {
		Rect(p, x0+border, y0+border, x1-border, y1-border)
	})
}
