// Package fontgen runs the generators: it picks outlines for every letter,
// attaches color data for the color variants and writes the font.
package fontgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"phonicsfont/alphabet"
	"phonicsfont/config"
	"phonicsfont/glyphs"
	"phonicsfont/logger"
	"phonicsfont/ttf_tables"
)

const (
	SQUARES  = glyphs.SQUARES
	PATTERNS = glyphs.PATTERNS
	PICTURES = glyphs.PICTURES
	COLOR    = "color"
	SVG      = "svg"
	TRACE    = "trace"
	CONVERT  = "convert"

	CONVERT_DESCRIPTION = "Font created from SVG files"
)

// Variants lists every font Build knows how to make.
func Variants() []string {
	return []string{SQUARES, PATTERNS, PICTURES, COLOR, SVG, TRACE, CONVERT}
}

func fontInfo(cfg config.Config, variant string) ttf_tables.FontInfo {
	postFormat := uint32(ttf_tables.POST_FORMAT_3)
	if cfg.PostFormat == 2 {
		postFormat = ttf_tables.POST_FORMAT_2
	}
	description := cfg.Description
	if description == "" && variant == CONVERT {
		description = CONVERT_DESCRIPTION
	}
	return ttf_tables.FontInfo{
		FamilyName:   cfg.FontName,
		Version:      cfg.Version,
		Vendor:       cfg.Vendor,
		UnitsPerEm:   uint16(cfg.UnitsPerEm),
		Ascent:       int16(cfg.Ascent),
		Descent:      int16(cfg.Descent),
		PostFormat:   postFormat,
		Copyright:    cfg.Copyright,
		Manufacturer: cfg.Manufacturer,
		Designer:     cfg.Designer,
		Description:  description,
		License:      cfg.License,
		LicenseURL:   cfg.LicenseURL,
	}
}

// source produces the outline of .notdef and of each letter.
type source interface {
	notdef() glyphs.Outline
	outline(l alphabet.Letter) (glyphs.Outline, error)
}

type styleSource struct {
	style      glyphs.Style
	unitsPerEm int
}

func (s styleSource) notdef() glyphs.Outline {
	return s.style.NotdefOutline(s.unitsPerEm)
}

func (s styleSource) outline(l alphabet.Letter) (glyphs.Outline, error) {
	return s.style.Outline(l, s.unitsPerEm), nil
}

func lookupStyle(name string, cfg config.Config) (source, error) {
	style, err := glyphs.Lookup(name)
	if err != nil {
		return nil, err
	}
	return styleSource{style: style, unitsPerEm: cfg.UnitsPerEm}, nil
}

// Build assembles the font of the given variant. Pictures and drawings it
// needs are read from the directories in cfg, missing sample pictures are
// drawn first.
func Build(ctx context.Context, cfg config.Config, variant string) (*ttf_tables.Font, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	variant = strings.ToLower(variant)
	letters := alphabet.Letters(cfg.WordOverrides())

	var src source
	var err error
	switch variant {
	case SQUARES, PATTERNS, PICTURES:
		src, err = lookupStyle(variant, cfg)
	case COLOR:
		src, err = lookupStyle(PICTURES, cfg)
	case SVG:
		src, err = lookupStyle(SQUARES, cfg)
	case TRACE:
		src, err = newTraceSource(ctx, cfg, letters)
	case CONVERT:
		src = newConvertSource(cfg)
	default:
		err = fmt.Errorf("unknown font variant %q, expected one of %s", variant, strings.Join(Variants(), ", "))
	}
	if err != nil {
		return nil, err
	}

	f := ttf_tables.NewFont(fontInfo(cfg, variant))
	if err := addGlyphs(f, src, letters); err != nil {
		return nil, err
	}

	switch variant {
	case COLOR:
		err = attachStrike(f, cfg, letters)
	case SVG:
		err = attachSVG(f, cfg, letters)
	}
	if err != nil {
		return nil, err
	}

	logger.Logf(logger.Allow, "fontgen", "built %s font %q with %d glyphs", variant, f.Info.FamilyName, f.NumGlyphs())
	return f, nil
}

func addGlyphs(f *ttf_tables.Font, src source, letters []alphabet.Letter) error {
	notdef := src.notdef()
	_, err := f.AddGlyph(ttf_tables.Glyph{
		Name:     ttf_tables.NOTDEF_GLYPH_NAME,
		Contours: notdef.Contours,
		Advance:  notdef.Advance,
	})
	if err != nil {
		return err
	}

	for _, l := range letters {
		o, err := src.outline(l)
		if err != nil {
			return fmt.Errorf("%c: %w", l.Char, err)
		}
		gid, err := f.AddGlyph(ttf_tables.Glyph{
			Name:      l.GlyphName,
			CodePoint: l.Char,
			Contours:  o.Contours,
			Advance:   o.Advance,
		})
		if err != nil {
			return err
		}
		if gid != l.GlyphID() {
			return fmt.Errorf("%c: glyph id %d, expected %d", l.Char, gid, l.GlyphID())
		}
	}
	return nil
}

// Outlines returns the outline of every glyph of f in glyph id order.
func Outlines(f *ttf_tables.Font) []glyphs.Outline {
	outlines := make([]glyphs.Outline, 0, len(f.GlyphOrder))
	for _, name := range f.GlyphOrder {
		g := f.Glyphs[name]
		outlines = append(outlines, glyphs.Outline{Contours: g.Contours, Advance: g.Advance})
	}
	return outlines
}

// Save encodes f and writes it to path, creating the directory it goes in.
func Save(f *ttf_tables.Font, path string) ([]byte, error) {
	raw, err := f.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode font: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return nil, err
	}
	logger.Logf(logger.Allow, "fontgen", "wrote %s (%d bytes)", path, len(raw))
	return raw, nil
}
