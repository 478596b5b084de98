package glyphs

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"phonicsfont/alphabet"
	"phonicsfont/ttf_tables"
)

func TestPen(t *testing.T) {
	p := NewPen()

	// open and degenerate subpaths are dropped
	p.MoveTo(0, 0)
	p.LineTo(100, 0)
	p.MoveTo(0, 0)
	p.LineTo(100, 0)
	p.ClosePath()

	p.MoveTo(0, 0)
	p.LineTo(100, 0)
	p.QCurveTo(vec.Vec2{X: 100, Y: 100}, vec.Vec2{X: 0, Y: 100})
	p.LineTo(0, 0)
	p.ClosePath()

	// stored clockwise
	expected := []Contour{{
		{X: 0, Y: 0, OnCurve: true},
		{X: 0, Y: 100, OnCurve: true},
		{X: 100, Y: 100, OnCurve: false},
		{X: 100, Y: 0, OnCurve: true},
	}}
	if diff := cmp.Diff(expected, p.Contours()); diff != "" {
		t.Errorf("contours mismatch (-want +got):\n%s", diff)
	}
}

func TestFlippedPen(t *testing.T) {
	p := NewFlippedPen(1000)
	Rect(p, 100, 0, 200, 300)
	require.Len(t, p.Contours(), 1)
	assert.Equal(t, Point{X: 100, Y: 1000, OnCurve: true}, p.Contours()[0][0])
	assert.Equal(t, Point{X: 200, Y: 700, OnCurve: true}, p.Contours()[0][2])

	p = NewPen()
	p.Transform = matrix.Translate(10, 20)
	Rect(p, 0, 0, 1, 1)
	assert.Equal(t, Point{X: 10, Y: 20, OnCurve: true}, p.Contours()[0][0])
}

func TestHole(t *testing.T) {
	p := NewPen()
	Ring(p, 500, 500, 400, 0.6)
	require.Len(t, p.Contours(), 2)

	outer, inner := SignedArea(p.Contours()[0]), SignedArea(p.Contours()[1])
	assert.Negative(t, outer)
	assert.Positive(t, inner)
	assert.InDelta(t, 0.36, -inner/outer, 1e-9)
	assert.Len(t, p.Contours()[0], 24)
}

func TestStroke(t *testing.T) {
	p := NewPen()
	Stroke(p, 0, 0, 100, 0, 20)
	Stroke(p, 5, 5, 5, 5, 20)
	require.Len(t, p.Contours(), 1)
	assert.InDelta(t, -2000, SignedArea(p.Contours()[0]), 1e-9)
}

func TestStyles(t *testing.T) {
	assert.Equal(t, []string{"patterns", "pictures", "squares"}, Names())
	_, err := Lookup("cubes")
	assert.Error(t, err)

	for _, name := range Names() {
		style, err := Lookup(name)
		require.NoError(t, err)

		notdef := style.NotdefOutline(ttf_tables.DEFAULT_UNITS_PER_EM)
		assert.Len(t, notdef.Contours, 2, "%s .notdef is a hollow square", name)

		for _, l := range alphabet.Letters(nil) {
			o := style.Outline(l, ttf_tables.DEFAULT_UNITS_PER_EM)
			assert.False(t, o.Empty(), "%s %c has no outline", name, l.Char)
			assert.Positive(t, o.Advance)

			xMin, yMin, xMax, yMax, ok := o.Bounds()
			require.True(t, ok)
			assert.GreaterOrEqual(t, xMin, -200.0, "%s %c", name, l.Char)
			assert.GreaterOrEqual(t, yMin, -200.0, "%s %c", name, l.Char)
			assert.LessOrEqual(t, xMax, 1200.0, "%s %c", name, l.Char)
			assert.LessOrEqual(t, yMax, 1200.0, "%s %c", name, l.Char)
		}
	}
}

func TestSquares(t *testing.T) {
	style, err := Lookup("Squares")
	require.NoError(t, err)
	o := style.Outline(alphabet.Letters(nil)[0], ttf_tables.DEFAULT_UNITS_PER_EM)
	assert.Equal(t, 500, o.Advance)
	xMin, yMin, xMax, yMax, _ := o.Bounds()
	assert.Equal(t, []float64{50, 50, 450, 450}, []float64{xMin, yMin, xMax, yMax})
}

func TestPatterns(t *testing.T) {
	style, err := Lookup(PATTERNS)
	require.NoError(t, err)
	letters := alphabet.Letters(nil)

	// vowels are rings, the rest single shapes, plus min(3, i%5+1) bars
	a := style.Outline(letters[0], ttf_tables.DEFAULT_UNITS_PER_EM)
	assert.Len(t, a.Contours, 2+1)
	b := style.Outline(letters[1], ttf_tables.DEFAULT_UNITS_PER_EM)
	assert.Len(t, b.Contours, 1+2)
	d := style.Outline(letters[3], ttf_tables.DEFAULT_UNITS_PER_EM)
	assert.Len(t, d.Contours, 1+3)
	assert.Len(t, d.Contours[0], 5, "d is a pentagon")
	f := style.Outline(letters[5], ttf_tables.DEFAULT_UNITS_PER_EM)
	assert.Len(t, f.Contours[0], 4, "f is a square")
}

func TestPatternBarsInside(t *testing.T) {
	style, err := Lookup(PATTERNS)
	require.NoError(t, err)

	for _, l := range alphabet.Letters(nil) {
		o := style.Outline(l, ttf_tables.DEFAULT_UNITS_PER_EM)

		// bars of a vowel fill the ring's hole, the other bars cut into the
		// polygon, so every bar corner has to lie within that area
		shapes, area := 1, o.Contours[0]
		if isVowel(l.Char) {
			shapes, area = 2, o.Contours[1]
		}
		require.Greater(t, len(o.Contours), shapes, "%c has no bars", l.Char)
		for _, bar := range o.Contours[shapes:] {
			if isVowel(l.Char) {
				assert.Negative(t, SignedArea(bar), "%c bar is filled", l.Char)
			} else {
				assert.Positive(t, SignedArea(bar), "%c bar is a hole", l.Char)
			}
			for _, pt := range bar {
				assert.True(t, contains(area, pt), "%c bar point %v outside its area", l.Char, pt)
			}
		}
	}

	// the triangle is too narrow near its tip for full length bars
	g := style.Outline(alphabet.Letters(nil)[6], ttf_tables.DEFAULT_UNITS_PER_EM)
	require.Len(t, g.Contours, 1+2)
	low, high := glyphWidth(g.Contours[1]), glyphWidth(g.Contours[2])
	assert.InDelta(t, 400, low, 1e-9)
	assert.Less(t, high, low)
}

func glyphWidth(c Contour) float64 {
	xMin, _, xMax, _, _ := Outline{Contours: []Contour{c}}.Bounds()
	return xMax - xMin
}

func TestOutlineUnitsPerEm(t *testing.T) {
	for _, name := range Names() {
		style, err := Lookup(name)
		require.NoError(t, err)
		for _, l := range alphabet.Letters(nil)[:3] {
			small := style.Outline(l, 1000)
			large := style.Outline(l, 2048)
			assert.Equal(t, int(math.Round(float64(small.Advance)*2.048)), large.Advance, "%s %c", name, l.Char)
			require.Len(t, large.Contours, len(small.Contours), "%s %c", name, l.Char)
			for i := range small.Contours {
				for j, pt := range small.Contours[i] {
					got := large.Contours[i][j]
					assert.InDelta(t, pt.X*2.048, got.X, 1e-6)
					assert.InDelta(t, pt.Y*2.048, got.Y, 1e-6)
				}
			}
		}

		notdef := style.NotdefOutline(2048)
		xMin, _, _, _, ok := notdef.Bounds()
		require.True(t, ok)
		small, _, _, _, _ := style.NotdefOutline(1000).Bounds()
		assert.InDelta(t, small*2.048, xMin, 1e-6)
	}
}

func TestPicturesFlipped(t *testing.T) {
	style, err := Lookup(PICTURES)
	require.NoError(t, err)

	// the apple stem is drawn above the body in top down space, so it ends up
	// at the top of the glyph
	apple := style.Outline(alphabet.Letters(nil)[0], ttf_tables.DEFAULT_UNITS_PER_EM)
	_, _, _, yMax, _ := apple.Bounds()
	assert.Greater(t, yMax, 900.0)
}

func TestRoundBlob(t *testing.T) {
	p := NewPen()
	RoundBlob(p, 500, 500, 400)
	require.Len(t, p.Contours(), 1)
	c := p.Contours()[0]
	assert.Len(t, c, 12)
	onCurve := 0
	for _, pt := range c {
		if pt.OnCurve {
			onCurve++
		}
	}
	assert.Equal(t, 4, onCurve)
}
