// Package trace turns the sample pictures into outlines. The potrace binary
// does the tracing, the SVG it writes is read back into glyph contours.
package trace

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"phonicsfont/alphabet"
	"phonicsfont/logger"
)

const (
	DEFAULT_POTRACE   = "potrace"
	DEFAULT_THRESHOLD = 128
)

var ErrNoPotrace = errors.New("potrace is not installed")

// Tracer runs potrace on images.
type Tracer struct {
	Path string

	// pixels darker than this, after flattening onto white, are traced
	Threshold uint8
}

func NewTracer(path string) *Tracer {
	if path == "" {
		path = DEFAULT_POTRACE
	}
	return &Tracer{Path: path, Threshold: DEFAULT_THRESHOLD}
}

// Available reports whether the potrace executable can be found.
func (t *Tracer) Available() bool {
	_, err := exec.LookPath(t.Path)
	return err == nil
}

// Trace writes the SVG tracing of img to svgPath.
func (t *Tracer) Trace(ctx context.Context, img image.Image, svgPath string) error {
	bin, err := exec.LookPath(t.Path)
	if err != nil {
		return fmt.Errorf("%s: %w", t.Path, ErrNoPotrace)
	}

	tmp, err := os.MkdirTemp("", "phonicsfont-trace")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	pbmPath := filepath.Join(tmp, "in.pbm")
	f, err := os.Create(pbmPath)
	if err != nil {
		return err
	}
	err = WritePBM(f, img, t.Threshold)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write bitmap: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(svgPath), 0755); err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, bin, "-s", "-o", svgPath, pbmPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("potrace: %w: %s", err, strings.TrimSpace(string(out)))
	}
	logger.Logf(logger.Allow, "trace", "traced %s", svgPath)
	return nil
}

// WritePBM writes img as a binary portable bitmap. Transparent pixels count
// as white, and a pixel is set when its luminance falls below threshold.
func WritePBM(w io.Writer, img image.Image, threshold uint8) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P4\n%d %d\n", b.Dx(), b.Dy())

	row := make([]byte, (b.Dx()+7)/8)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		clear(row)
		for x := b.Min.X; x < b.Max.X; x++ {
			if luminance(img.At(x, y).RGBA()) < uint32(threshold) {
				i := x - b.Min.X
				row[i/8] |= 0x80 >> (i % 8)
			}
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// luminance of a premultiplied color composed over white, 0 to 255.
func luminance(r, g, b, a uint32) uint32 {
	white := 0xFFFF - a
	r, g, b = r+white, g+white, b+white
	return (299*r + 587*g + 114*b) / 1000 >> 8
}

// Fallback is the stand-in drawing used when potrace is missing: a ring with
// a dot inside, in the coordinate system potrace writes, and the uppercase
// letter as text.
func Fallback(l alphabet.Letter) []byte {
	return []byte(fmt.Sprintf(`<?xml version="1.0" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 20010904//EN" "http://www.w3.org/TR/2001/REC-SVG-20010904/DTD/svg10.dtd">
<svg version="1.0" xmlns="http://www.w3.org/2000/svg" width="500pt" height="500pt" viewBox="0 0 500 500" preserveAspectRatio="xMidYMid meet">
<g transform="translate(0.000000,500.000000) scale(0.100000,-0.100000)" fill="#000000" stroke="none">
<path d="M1000 2500 c0 -1000 0 -1000 1000 -1000 1000 0 1000 0 1000 1000 0 1000 0 1000 -1000 1000 -1000 0 -1000 0 -1000 -1000z m1800 0 c0 -700 0 -700 -700 -700 -700 0 -700 0 -700 700 0 700 0 700 700 700 700 0 700 0 700 -700z"/>
<path d="M1500 2500 c0 -500 0 -500 500 -500 500 0 500 0 500 500 0 500 0 500 -500 500 -500 0 -500 0 -500 -500z"/>
<text x="2500" y="1750" transform="scale(1,-1)" font-family="Arial" font-size="500" text-anchor="middle">%s</text>
</g>
</svg>
`, l.Upper()))
}

// TraceOrFallback traces img into svgPath, writing the fallback drawing
// instead when potrace is not available. It reports whether potrace ran.
func (t *Tracer) TraceOrFallback(ctx context.Context, l alphabet.Letter, img image.Image, svgPath string) (bool, error) {
	err := t.Trace(ctx, img, svgPath)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, ErrNoPotrace) {
		return false, fmt.Errorf("%c: %w", l.Char, err)
	}

	logger.Logf(logger.Allow, "trace", "%v, using fallback drawing for %c", err, l.Char)
	if err := os.MkdirAll(filepath.Dir(svgPath), 0755); err != nil {
		return false, err
	}
	return false, os.WriteFile(svgPath, Fallback(l), 0644)
}
