package fontgen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"

	"github.com/disintegration/imaging"

	"phonicsfont/alphabet"
	"phonicsfont/config"
	"phonicsfont/images"
	"phonicsfont/logger"
	"phonicsfont/svgdoc"
	"phonicsfont/ttf_tables"
)

type picture struct {
	png           []byte
	width, height int
}

// loadPicture reads the sample picture of l, scaled down to fit size by size
// pixels when size is positive. ok is false when there is no picture.
func loadPicture(dir string, l alphabet.Letter, size int) (p picture, ok bool, err error) {
	path := images.Path(dir, l)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Logf(logger.Allow, "fontgen", "no picture for %s at %s", l, path)
		return p, false, nil
	}

	var img image.Image
	img, err = images.Load(path)
	if err != nil {
		return p, false, fmt.Errorf("%c: %w", l.Char, err)
	}
	if size > 0 {
		img = images.Fit(img, size, size)
	}

	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return p, false, fmt.Errorf("%c: encode png: %w", l.Char, err)
	}
	b := img.Bounds()
	return picture{png: buf.Bytes(), width: b.Dx(), height: b.Dy()}, true, nil
}

func scaleToStrike(v int, ppem int, unitsPerEm int) int8 {
	s := v * ppem / unitsPerEm
	return int8(max(-128, min(127, s)))
}

// attachStrike adds a CBDT bitmap strike with the sample picture of every
// letter that has one. The pictures sit on the baseline, scaled to one em.
func attachStrike(f *ttf_tables.Font, cfg config.Config, letters []alphabet.Letter) error {
	if _, err := images.EnsureSamples(cfg.ImagesDir, letters); err != nil {
		return err
	}

	ppem := cfg.StrikePPEM
	strike := &ttf_tables.ColorStrike{
		PPEM:      uint8(ppem),
		Ascender:  scaleToStrike(cfg.Ascent, ppem, cfg.UnitsPerEm),
		Descender: scaleToStrike(cfg.Descent, ppem, cfg.UnitsPerEm),
	}
	for _, l := range letters {
		p, ok, err := loadPicture(cfg.ImagesDir, l, ppem)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		strike.Glyphs = append(strike.Glyphs, ttf_tables.BitmapGlyph{
			GlyphID:  l.GlyphID(),
			PNG:      p.png,
			Width:    uint8(p.width),
			Height:   uint8(p.height),
			BearingX: int8((ppem - p.width) / 2),
			BearingY: strike.Ascender,
			Advance:  uint8(ppem),
		})
	}

	if len(strike.Glyphs) == 0 {
		logger.Logf(logger.Allow, "fontgen", "no pictures in %s, the font has outlines only", cfg.ImagesDir)
		return nil
	}
	f.Strike = strike
	return nil
}

// attachSVG adds an SVG table document embedding the sample picture of every
// letter that has one. The standalone documents are written to the svg
// directory as well.
func attachSVG(f *ttf_tables.Font, cfg config.Config, letters []alphabet.Letter) error {
	if _, err := images.EnsureSamples(cfg.ImagesDir, letters); err != nil {
		return err
	}

	table := &ttf_tables.SVG{}
	files := make(map[rune][]byte)
	for _, l := range letters {
		p, ok, err := loadPicture(cfg.ImagesDir, l, 0)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		advance := f.Glyphs[l.GlyphName].Advance
		box := svgdoc.EmBox(advance, cfg.Ascent, cfg.Descent)
		doc, err := svgdoc.EmbedPNG(p.png, p.width, p.height, l.GlyphID(), box)
		if err != nil {
			return err
		}
		table.Documents = append(table.Documents, ttf_tables.SVGDocument{
			StartGlyphID: l.GlyphID(),
			EndGlyphID:   l.GlyphID(),
			Data:         doc,
		})

		standalone, err := svgdoc.Standalone(p.png, p.width, p.height)
		if err != nil {
			return err
		}
		files[l.Char] = standalone
	}

	if err := svgdoc.WriteFiles(cfg.SVGDir, files); err != nil {
		return err
	}
	if len(table.Documents) == 0 {
		logger.Logf(logger.Allow, "fontgen", "no pictures in %s, the font has outlines only", cfg.ImagesDir)
		return nil
	}
	f.SVG = table
	return nil
}
