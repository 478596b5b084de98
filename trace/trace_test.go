package trace

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/matrix"

	"phonicsfont/alphabet"
	"phonicsfont/glyphs"
)

func TestWritePBM(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 2))
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})                       // black
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255}) // white
	img.SetNRGBA(2, 0, color.NRGBA{R: 229, G: 45, B: 45, A: 255})   // letter color
	img.SetNRGBA(9, 1, color.NRGBA{A: 255})

	buf := &bytes.Buffer{}
	require.NoError(t, WritePBM(buf, img, DEFAULT_THRESHOLD))

	expected := append([]byte("P4\n10 2\n"), 0b10100000, 0, 0, 0b01000000)
	assert.Equal(t, expected, buf.Bytes())
}

func TestParseTransform(t *testing.T) {
	m, err := parseTransform("translate(0.000000,500.000000) scale(0.100000,-0.100000)")
	require.NoError(t, err)
	expected := matrix.Matrix{0.1, 0, 0, -0.1, 0, 500}
	for i := range expected {
		assert.InDelta(t, expected[i], m[i], 1e-12)
	}

	m, err = parseTransform("rotate(90 10 10)")
	require.NoError(t, err)
	x := m[0]*20 + m[2]*10 + m[4]
	y := m[1]*20 + m[3]*10 + m[5]
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, 20, y, 1e-9)

	_, err = parseTransform("spin(1)")
	assert.Error(t, err)
}

func TestParseSVGFallback(t *testing.T) {
	l := alphabet.Letters(nil)[0]
	contours, vb, err := ParseSVG(bytes.NewReader(Fallback(l)), DefaultEm)
	require.NoError(t, err)
	assert.Equal(t, ViewBox{Width: 500, Height: 500}, vb)

	// ring with a dot in the middle, the text is left out
	require.Len(t, contours, 3)
	assert.Negative(t, glyphs.SignedArea(contours[0]))
	assert.Positive(t, glyphs.SignedArea(contours[1]))
	assert.Negative(t, glyphs.SignedArea(contours[2]))

	o := glyphs.Outline{Contours: contours}
	xMin, yMin, xMax, yMax, ok := o.Bounds()
	require.True(t, ok)
	assert.InDelta(t, 200, xMin, 1e-6)
	assert.InDelta(t, 600, xMax, 1e-6)
	assert.InDelta(t, 100, yMin, 1e-6)
	assert.InDelta(t, 500, yMax, 1e-6)
}

func TestParseSVGPaths(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
<g transform="translate(10,10)"><path d="M0 0 H 50 V 50 h -50 z"/></g>
<text><path d="M0 0 L 10 0 L 10 10 Z"/></text>
<path d="M60 60 q 20 0 20 20 T 60 100 Z"/>
</svg>`
	contours, vb, err := ParseSVG(strings.NewReader(doc), DefaultEm)
	require.NoError(t, err)
	assert.Equal(t, ViewBox{Width: 100, Height: 100}, vb)
	require.Len(t, contours, 2)

	// 10 view units are 100 font units, y flipped below the ascender
	expected := glyphs.Contour{
		{X: 100, Y: 700, OnCurve: true},
		{X: 600, Y: 700, OnCurve: true},
		{X: 600, Y: 200, OnCurve: true},
		{X: 100, Y: 200, OnCurve: true},
	}
	if diff := cmp.Diff(expected, contours[0]); diff != "" {
		t.Errorf("square mismatch (-want +got):\n%s", diff)
	}

	offCurve := 0
	for _, p := range contours[1] {
		if !p.OnCurve {
			offCurve++
		}
	}
	assert.Equal(t, 2, offCurve)
}

func TestParseSVGEm(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><path d="M0 0 H100 V50 H0 Z"/></svg>`

	// the wider side fills the em, the drawing hangs from the top
	contours, _, err := ParseSVG(strings.NewReader(doc), Em{Size: 2048, Top: 1638})
	require.NoError(t, err)
	xMin, yMin, xMax, yMax, ok := glyphs.Outline{Contours: contours}.Bounds()
	require.True(t, ok)
	assert.InDelta(t, 0, xMin, 1e-9)
	assert.InDelta(t, 2048, xMax, 1e-9)
	assert.InDelta(t, 1638, yMax, 1e-9)
	assert.InDelta(t, 1638-1024, yMin, 1e-9)
}

func TestParseSVGErrors(t *testing.T) {
	_, _, err := ParseSVG(strings.NewReader(`<svg viewBox="0 0 10 10"></svg>`), DefaultEm)
	assert.ErrorIs(t, err, ErrNoDrawing)

	_, _, err = ParseSVG(strings.NewReader(`<svg viewBox="0 0 10 10"><path d="M0 0 L x"/></svg>`), DefaultEm)
	assert.Error(t, err)

	_, _, err = ParseSVG(strings.NewReader(`<svg><path d="M0 0 L 1 0 L 1 1 Z"/></svg>`), DefaultEm)
	assert.Error(t, err)

	_, _, err = ParseSVG(strings.NewReader(`<html></html>`), DefaultEm)
	assert.Error(t, err)

	_, _, err = ParseSVG(strings.NewReader(`<svg viewBox="0 0 10 10"><path d="M0 0 A 1 1 0 0 0 1 1"/></svg>`), DefaultEm)
	assert.Error(t, err)
}

func TestTraceOrFallback(t *testing.T) {
	dir := t.TempDir()
	tracer := NewTracer(filepath.Join(dir, "no-potrace-here"))
	assert.False(t, tracer.Available())

	l := alphabet.Letters(nil)[1]
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	svgPath := filepath.Join(dir, "svg", "b.svg")

	err := tracer.Trace(context.Background(), img, svgPath)
	assert.ErrorIs(t, err, ErrNoPotrace)

	traced, err := tracer.TraceOrFallback(context.Background(), l, img, svgPath)
	require.NoError(t, err)
	assert.False(t, traced)

	raw, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Equal(t, Fallback(l), raw)
	assert.Contains(t, string(raw), ">B</text>")
}

func TestRasterize(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 500 500">
<path d="M100 100 L400 100 L400 400 L100 400 Z" fill="#000000"/>
</svg>`
	img, err := Rasterize([]byte(doc), 100)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())

	// the square covers the middle, not the corner
	assert.Positive(t, img.RGBAAt(50, 50).A)
	assert.Zero(t, img.RGBAAt(2, 2).A)

	_, err = Rasterize(nil, 0)
	assert.Error(t, err)
}
