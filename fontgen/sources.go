package fontgen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"phonicsfont/alphabet"
	"phonicsfont/config"
	"phonicsfont/glyphs"
	"phonicsfont/images"
	"phonicsfont/logger"
	"phonicsfont/svgdoc"
	"phonicsfont/trace"
)

// drawingSource reads letter outlines from SVG drawings that are already
// on disk.
type drawingSource struct {
	dir     string
	em      trace.Em
	advance int
	blank   glyphs.Outline

	// missing drawings are replaced by a full em square instead of failing
	lenient bool
}

func (s drawingSource) notdef() glyphs.Outline {
	return s.blank
}

func (s drawingSource) outline(l alphabet.Letter) (glyphs.Outline, error) {
	path := svgdoc.Path(s.dir, l.Char)
	contours, err := readDrawing(path, s.em)
	if err == nil {
		return glyphs.Outline{Contours: contours, Advance: s.advance}, nil
	}
	if !s.lenient {
		return glyphs.Outline{}, err
	}

	logger.Logf(logger.Allow, "fontgen", "%v, using a square for %c", err, l.Char)
	p := glyphs.NewPen()
	glyphs.Rect(p, 0, 0, s.em.Size, s.em.Size)
	return p.Outline(s.advance), nil
}

// emOf is the box drawings are fitted into: one em whose top is the ascent.
func emOf(cfg config.Config) trace.Em {
	return trace.Em{Size: float64(cfg.UnitsPerEm), Top: float64(cfg.Ascent)}
}

func readDrawing(path string, em trace.Em) ([]glyphs.Contour, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	contours, _, err := trace.ParseSVG(f, em)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return contours, nil
}

// newTraceSource traces the sample picture of every letter into the svg
// directory and reads the outlines back from there. Without potrace the
// fallback drawing is used.
func newTraceSource(ctx context.Context, cfg config.Config, letters []alphabet.Letter) (source, error) {
	if _, err := images.EnsureSamples(cfg.ImagesDir, letters); err != nil {
		return nil, err
	}

	tracer := trace.NewTracer(cfg.PotracePath)
	traced := 0
	for _, l := range letters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := images.Path(cfg.ImagesDir, l)
		img, err := images.Load(path)
		if err != nil {
			return nil, err
		}
		ok, err := tracer.TraceOrFallback(ctx, l, img, svgdoc.Path(cfg.SVGDir, l.Char))
		if err != nil {
			return nil, err
		}
		if ok {
			traced++
		}
	}
	logger.Logf(logger.Allow, "fontgen", "traced %d of %d pictures into %s", traced, len(letters), cfg.SVGDir)

	pictures, err := glyphs.Lookup(PICTURES)
	if err != nil {
		return nil, err
	}
	return drawingSource{
		dir:     cfg.SVGDir,
		em:      emOf(cfg),
		advance: cfg.UnitsPerEm,
		blank:   pictures.NotdefOutline(cfg.UnitsPerEm),
	}, nil
}

// newConvertSource reads the drawings already in the svg directory. .notdef
// is empty.
func newConvertSource(cfg config.Config) source {
	if _, err := os.Stat(cfg.SVGDir); errors.Is(err, fs.ErrNotExist) {
		logger.Logf(logger.Allow, "fontgen", "svg directory %s does not exist", cfg.SVGDir)
	}
	return drawingSource{
		dir:     cfg.SVGDir,
		em:      emOf(cfg),
		advance: cfg.ConvertAdvance,
		blank:   glyphs.Outline{Advance: cfg.ConvertAdvance},
		lenient: true,
	}
}
