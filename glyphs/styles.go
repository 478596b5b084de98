package glyphs

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"phonicsfont/alphabet"
)

const (
	SQUARES  = "squares"
	PATTERNS = "patterns"
	PICTURES = "pictures"

	// every drawing is authored inside a box of this size
	DRAWING_BOX = 1000
)

// Style decides the outline of every letter and of .notdef.
type Style struct {
	Name    string
	Advance int

	// Flipped styles are drawn top down and flipped into font space
	Flipped bool

	Notdef func(p *Pen)
	Draw   func(p *Pen, l alphabet.Letter)
}

// pen draws in the DRAWING_BOX and stores the result scaled to unitsPerEm.
func (s Style) pen(unitsPerEm int) *Pen {
	p := NewPen()
	if s.Flipped {
		p = NewFlippedPen(DRAWING_BOX)
	}
	k := emScale(unitsPerEm)
	p.Transform = p.Transform.Mul(matrix.Scale(k, k))
	return p
}

func emScale(unitsPerEm int) float64 {
	return float64(unitsPerEm) / DRAWING_BOX
}

func (s Style) advance(unitsPerEm int) int {
	return int(math.Round(float64(s.Advance) * emScale(unitsPerEm)))
}

// Outline draws l for a font with the given units per em.
func (s Style) Outline(l alphabet.Letter, unitsPerEm int) Outline {
	p := s.pen(unitsPerEm)
	s.Draw(p, l)
	return p.Outline(s.advance(unitsPerEm))
}

// NotdefOutline is never flipped.
func (s Style) NotdefOutline(unitsPerEm int) Outline {
	p := NewPen()
	k := emScale(unitsPerEm)
	p.Transform = matrix.Scale(k, k)
	s.Notdef(p)
	return p.Outline(s.advance(unitsPerEm))
}

var styles = map[string]Style{
	SQUARES: {
		Name:    SQUARES,
		Advance: 500,
		Notdef: func(p *Pen) {
			HollowSquare(p, 50, 50, 450, 450, 50)
		},
		Draw: func(p *Pen, _ alphabet.Letter) {
			Rect(p, 50, 50, 450, 450)
		},
	},
	PATTERNS: {
		Name:    PATTERNS,
		Advance: DRAWING_BOX,
		Notdef: func(p *Pen) {
			HollowSquare(p, 100, 100, 900, 900, 50)
		},
		Draw: drawPattern,
	},
	PICTURES: {
		Name:    PICTURES,
		Advance: DRAWING_BOX,
		Flipped: true,
		Notdef: func(p *Pen) {
			HollowSquare(p, 100, 100, 900, 900, 50)
		},
		Draw: drawPicture,
	},
}

// Lookup finds a style by name.
func Lookup(name string) (Style, error) {
	s, ok := styles[strings.ToLower(name)]
	if !ok {
		return Style{}, fmt.Errorf("unknown style %q, expected one of %s", name, strings.Join(Names(), ", "))
	}
	return s, nil
}

func Names() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const (
	patternRadius    = 400
	patternHole      = 0.6
	patternBarWidth  = 30
	patternMaxBars   = 3
	patternShapeKind = 5

	// bars inside a vowel ring span this share of the pattern radius
	patternRingBars = patternHole * 0.8
	// bars that do not fit are shortened step by step down to this length
	patternMinBar = 60
	patternShrink = 0.85
)

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiou", r)
}

// drawPattern gives vowels a ring and consonants one of five polygons picked
// by alphabet position. One to three bars set the letters apart further,
// horizontal for even positions and vertical for odd ones. Consonant bars are
// cut out of the polygon, vowel bars are filled in the hole of the ring. Bars
// are shortened until they fit their area and left out if they never do.
func drawPattern(p *Pen, l alphabet.Letter) {
	const c, r = DRAWING_BOX / 2, patternRadius

	vowel := isVowel(l.Char)
	switch {
	case vowel:
		Ring(p, c, c, r, patternHole)
	case l.Index%patternShapeKind == 0:
		Rect(p, c-r, c-r, c+r, c+r)
	case l.Index%patternShapeKind == 1:
		RegularPolygon(p, c, c, r, 3, math.Pi/2)
	case l.Index%patternShapeKind == 2:
		RegularPolygon(p, c, c, r, 4, 0)
	case l.Index%patternShapeKind == 3:
		RegularPolygon(p, c, c, r, 5, math.Pi/2)
	default:
		RegularPolygon(p, c, c, r, 6, 0)
	}

	// the convex area the bars go in: the polygon itself or the ring's hole
	contours := p.Contours()
	area := contours[len(contours)-1]
	span := float64(r)
	if vowel {
		span *= patternRingBars
	}

	horizontal := l.Index%2 == 0
	bars := min(patternMaxBars, l.Index%patternShapeKind+1)
	gap := span * 1.6 / float64(bars+1)
	drawBars := func() {
		for j := 1; j <= bars; j++ {
			pos := c - span*0.8 + gap*float64(j)
			half, ok := fitBar(p, area, pos, horizontal, span*0.5)
			if !ok {
				continue
			}
			if horizontal {
				Stroke(p, c-half, pos, c+half, pos, patternBarWidth)
			} else {
				Stroke(p, pos, c-half, pos, c+half, patternBarWidth)
			}
		}
	}
	if vowel {
		drawBars()
	} else {
		p.Hole(drawBars)
	}
}

// fitBar returns the longest half length, starting from half, for which the
// bar centred on the middle of the drawing box at pos has all four corners
// inside the convex contour area. area is in stored coordinates, so corners
// go through the pen transform first.
func fitBar(p *Pen, area Contour, pos float64, horizontal bool, half float64) (float64, bool) {
	const c, w = DRAWING_BOX / 2, patternBarWidth / 2
	for ; half >= patternMinBar/2; half *= patternShrink {
		corners := [4]vec.Vec2{
			{X: c - half, Y: pos - w},
			{X: c + half, Y: pos - w},
			{X: c + half, Y: pos + w},
			{X: c - half, Y: pos + w},
		}
		inside := true
		for _, corner := range corners {
			if !horizontal {
				corner.X, corner.Y = corner.Y, corner.X
			}
			q := p.Transform.Apply(corner)
			if !contains(area, Point{X: q.X, Y: q.Y}) {
				inside = false
				break
			}
		}
		if inside {
			return half, true
		}
	}
	return 0, false
}
