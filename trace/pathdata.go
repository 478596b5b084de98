package trace

import (
	"fmt"
	"math"

	"github.com/tdewolff/parse/v2/strconv"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"phonicsfont/glyphs"
)

const (
	// maximum distance, in font units, between a flattened cubic and the
	// polyline replacing it
	flatness     = 0.5
	maxSubdivide = 10
)

func skipCommaWhitespace(path []byte) int {
	i := 0
	for i < len(path) && (path[i] == ' ' || path[i] == ',' || path[i] == '\n' || path[i] == '\r' || path[i] == '\t') {
		i++
	}
	return i
}

func parseNum(path []byte) (float64, int) {
	i := skipCommaWhitespace(path)
	f, n := strconv.ParseFloat(path[i:])
	if n == 0 {
		return 0, 0
	}
	return f, i + n
}

// pathBuilder feeds path data through m into a pen with the identity
// transform. Cubics are flattened after the transform so that the flatness
// holds in font units.
type pathBuilder struct {
	m   matrix.Matrix
	pen *glyphs.Pen

	// in path coordinates
	cur, start vec.Vec2
	open       bool
}

func (b *pathBuilder) moveTo(p vec.Vec2) {
	if b.open {
		b.pen.ClosePath()
	}
	q := b.m.Apply(p)
	b.pen.MoveTo(q.X, q.Y)
	b.cur, b.start, b.open = p, p, true
}

func (b *pathBuilder) lineTo(p vec.Vec2) {
	if !b.open {
		b.moveTo(b.cur)
	}
	q := b.m.Apply(p)
	b.pen.LineTo(q.X, q.Y)
	b.cur = p
}

func (b *pathBuilder) quadTo(c, p vec.Vec2) {
	if !b.open {
		b.moveTo(b.cur)
	}
	b.pen.QCurveTo(b.m.Apply(c), b.m.Apply(p))
	b.cur = p
}

func (b *pathBuilder) cubeTo(c1, c2, p vec.Vec2) {
	if !b.open {
		b.moveTo(b.cur)
	}
	flattenCubic(b.pen, b.m.Apply(b.cur), b.m.Apply(c1), b.m.Apply(c2), b.m.Apply(p), 0)
	b.cur = p
}

func (b *pathBuilder) close() {
	if b.open {
		b.pen.ClosePath()
	}
	b.cur, b.open = b.start, false
}

// flattenCubic splits the curve in halves until its control points lie within
// flatness of the chord, then draws the chord.
func flattenCubic(pen *glyphs.Pen, p0, p1, p2, p3 vec.Vec2, depth int) {
	if depth >= maxSubdivide || (distToLine(p1, p0, p3) <= flatness && distToLine(p2, p0, p3) <= flatness) {
		pen.LineTo(p3.X, p3.Y)
		return
	}
	p01, p12, p23 := mid(p0, p1), mid(p1, p2), mid(p2, p3)
	p012, p123 := mid(p01, p12), mid(p12, p23)
	m := mid(p012, p123)
	flattenCubic(pen, p0, p01, p012, m, depth+1)
	flattenCubic(pen, m, p123, p23, p3, depth+1)
}

func mid(a, b vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// distToLine is the distance from p to the segment a b.
func distToLine(p, a, b vec.Vec2) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	length2 := dx*dx + dy*dy
	if length2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / length2
	t = max(0, min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

// drawPathData interprets the d attribute of a path element.
func drawPathData(b *pathBuilder, d string) error {
	path := []byte(d)

	var prevCmd byte
	var ctrl vec.Vec2

	i := 0
	nums := func(vals ...*float64) error {
		for _, v := range vals {
			f, n := parseNum(path[i:])
			if n == 0 {
				return fmt.Errorf("bad path data at %d: %q", i, truncate(path[i:]))
			}
			*v = f
			i += n
		}
		return nil
	}

	for {
		i += skipCommaWhitespace(path[i:])
		if i >= len(path) {
			break
		}
		cmd := prevCmd
		if c := path[i]; (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			cmd = c
			i++
		} else if prevCmd == 0 || prevCmd == 'Z' || prevCmd == 'z' {
			return fmt.Errorf("bad path data at %d: %q", i, truncate(path[i:]))
		}

		cur := b.cur
		rel := func(p vec.Vec2) vec.Vec2 {
			if cmd >= 'a' {
				return vec.Vec2{X: p.X + cur.X, Y: p.Y + cur.Y}
			}
			return p
		}

		var x0, y0, x1, y1, x2, y2 float64
		switch cmd {
		case 'M', 'm':
			if err := nums(&x0, &y0); err != nil {
				return err
			}
			b.moveTo(rel(vec.Vec2{X: x0, Y: y0}))
			// further coordinate pairs are implicit line commands
			if cmd == 'M' {
				cmd = 'L'
			} else {
				cmd = 'l'
			}
		case 'Z', 'z':
			b.close()
		case 'L', 'l':
			if err := nums(&x0, &y0); err != nil {
				return err
			}
			b.lineTo(rel(vec.Vec2{X: x0, Y: y0}))
		case 'H', 'h':
			if err := nums(&x0); err != nil {
				return err
			}
			p := vec.Vec2{X: x0, Y: cur.Y}
			if cmd == 'h' {
				p.X += cur.X
			}
			b.lineTo(p)
		case 'V', 'v':
			if err := nums(&y0); err != nil {
				return err
			}
			p := vec.Vec2{X: cur.X, Y: y0}
			if cmd == 'v' {
				p.Y += cur.Y
			}
			b.lineTo(p)
		case 'C', 'c':
			if err := nums(&x0, &y0, &x1, &y1, &x2, &y2); err != nil {
				return err
			}
			c1, c2 := rel(vec.Vec2{X: x0, Y: y0}), rel(vec.Vec2{X: x1, Y: y1})
			b.cubeTo(c1, c2, rel(vec.Vec2{X: x2, Y: y2}))
			ctrl = c2
		case 'S', 's':
			if err := nums(&x1, &y1, &x2, &y2); err != nil {
				return err
			}
			c1 := cur
			if prevCmd == 'C' || prevCmd == 'c' || prevCmd == 'S' || prevCmd == 's' {
				c1 = vec.Vec2{X: 2*cur.X - ctrl.X, Y: 2*cur.Y - ctrl.Y}
			}
			c2 := rel(vec.Vec2{X: x1, Y: y1})
			b.cubeTo(c1, c2, rel(vec.Vec2{X: x2, Y: y2}))
			ctrl = c2
		case 'Q', 'q':
			if err := nums(&x0, &y0, &x1, &y1); err != nil {
				return err
			}
			c := rel(vec.Vec2{X: x0, Y: y0})
			b.quadTo(c, rel(vec.Vec2{X: x1, Y: y1}))
			ctrl = c
		case 'T', 't':
			if err := nums(&x1, &y1); err != nil {
				return err
			}
			c := cur
			if prevCmd == 'Q' || prevCmd == 'q' || prevCmd == 'T' || prevCmd == 't' {
				c = vec.Vec2{X: 2*cur.X - ctrl.X, Y: 2*cur.Y - ctrl.Y}
			}
			b.quadTo(c, rel(vec.Vec2{X: x1, Y: y1}))
			ctrl = c
		default:
			return fmt.Errorf("unsupported path command %q", cmd)
		}
		prevCmd = cmd
	}
	b.close()
	return nil
}

func truncate(b []byte) string {
	if len(b) > 16 {
		return string(b[:16]) + "..."
	}
	return string(b)
}
