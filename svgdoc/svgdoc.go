// Package svgdoc wraps PNG pictures in SVG documents, either as standalone
// files or as glyph documents for the SVG table of a font.
package svgdoc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"

	"phonicsfont/logger"
)

const (
	MIMETYPE  = "image/svg+xml"
	PRECISION = 5

	SVG_NS   = "http://www.w3.org/2000/svg"
	XLINK_NS = "http://www.w3.org/1999/xlink"
)

var minifier = minify.New()

func init() {
	minifier.AddFunc(MIMETYPE, svg.Minify)
}

type num float64

func (f num) String() string {
	s := fmt.Sprintf("%.*g", PRECISION, float64(f))
	return string(minify.Number([]byte(s), PRECISION))
}

// Box is where the picture goes in glyph space. SVG glyphs are drawn with y
// pointing down and the baseline at y = 0, so a box spanning the ascender
// starts at a negative Y.
type Box struct {
	X, Y          float64
	Width, Height float64
}

// EmBox covers the advance horizontally and ascent to descent vertically.
func EmBox(advance, ascent, descent int) Box {
	return Box{X: 0, Y: float64(-ascent), Width: float64(advance), Height: float64(ascent - descent)}
}

func writeImage(buf *bytes.Buffer, png []byte) error {
	buf.WriteString(`xlink:href="data:image/png;base64,`)
	encoder := base64.NewEncoder(base64.StdEncoding, buf)
	if _, err := encoder.Write(png); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	buf.WriteString(`"/>`)
	return nil
}

// Minify shrinks an SVG document.
func Minify(doc []byte) ([]byte, error) {
	out, err := minifier.Bytes(MIMETYPE, doc)
	if err != nil {
		return nil, fmt.Errorf("minify svg: %w", err)
	}
	return out, nil
}

// Standalone is a width by height pixel document showing the PNG at its own
// size, the form the svg directory keeps next to the images.
func Standalone(png []byte, width, height int) ([]byte, error) {
	if len(png) == 0 || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("empty %dx%d image", width, height)
	}
	buf := &bytes.Buffer{}
	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	fmt.Fprintf(buf, `<svg xmlns="%s" xmlns:xlink="%s" width="%d" height="%d" viewBox="0 0 %d %d">`,
		SVG_NS, XLINK_NS, width, height, width, height)
	fmt.Fprintf(buf, `<image width="%d" height="%d" `, width, height)
	if err := writeImage(buf, png); err != nil {
		return nil, err
	}
	buf.WriteString(`</svg>`)
	return Minify(buf.Bytes())
}

// EmbedPNG builds the SVG table document for glyph gid. The PNG of
// width by height pixels is scaled to fit box, keeping its aspect ratio and
// centered in it.
func EmbedPNG(png []byte, width, height int, gid uint16, box Box) ([]byte, error) {
	if len(png) == 0 || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("glyph %d: empty %dx%d image", gid, width, height)
	}
	if box.Width <= 0 || box.Height <= 0 {
		return nil, fmt.Errorf("glyph %d: empty box", gid)
	}

	scale := math.Min(box.Width/float64(width), box.Height/float64(height))
	w, h := float64(width)*scale, float64(height)*scale
	x := box.X + (box.Width-w)/2
	y := box.Y + (box.Height-h)/2

	// the root element carries the glyph id
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, `<svg id="glyph%d" xmlns="%s" xmlns:xlink="%s" version="1.1">`, gid, SVG_NS, XLINK_NS)
	fmt.Fprintf(buf, `<image x="%v" y="%v" width="%v" height="%v" `, num(x), num(y), num(w), num(h))
	if err := writeImage(buf, png); err != nil {
		return nil, err
	}
	buf.WriteString(`</svg>`)
	return Minify(buf.Bytes())
}

// Path is where the document of letter r is kept inside dir.
func Path(dir string, r rune) string {
	return filepath.Join(dir, string(r)+".svg")
}

// WriteFiles writes every document to dir as <letter>.svg.
func WriteFiles(dir string, docs map[rune][]byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create svg dir: %w", err)
	}

	letters := make([]rune, 0, len(docs))
	for r := range docs {
		letters = append(letters, r)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })

	for _, r := range letters {
		path := Path(dir, r)
		if err := os.WriteFile(path, docs[r], 0644); err != nil {
			return err
		}
		logger.Logf(logger.Allow, "svg", "wrote %s", path)
	}
	return nil
}
