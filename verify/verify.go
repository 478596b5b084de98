// Package verify reads a generated font back with two independent sfnt
// parsers and checks that every letter has a usable glyph.
package verify

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	seehuhn "seehuhn.de/go/sfnt"

	"phonicsfont/alphabet"
)

// every font has .notdef plus one glyph per letter
const EXPECTED_GLYPHS = alphabet.NUM_LETTERS + 1

var (
	ErrGlyphCount   = errors.New("wrong number of glyphs")
	ErrUnmapped     = errors.New("letter is not in the cmap")
	ErrEmptyOutline = errors.New("glyph has no outline")
	ErrAdvance      = errors.New("glyph advance is not positive")
	ErrMismatch     = errors.New("parsers disagree")
)

type LetterReport struct {
	Char     rune
	GlyphID  uint16
	Segments int
	Advance  int // font units
}

type Report struct {
	FamilyName string
	UnitsPerEm int
	NumGlyphs  int
	Letters    []LetterReport
}

func (r Report) WriteTo(w io.Writer) (int64, error) {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "family %q, %d units per em, %d glyphs\n", r.FamilyName, r.UnitsPerEm, r.NumGlyphs)
	for _, l := range r.Letters {
		fmt.Fprintf(buf, "  %c  gid %2d  segments %3d  advance %d\n", l.Char, l.GlyphID, l.Segments, l.Advance)
	}
	return buf.WriteTo(w)
}

// Check parses raw and verifies the glyph count, and that each letter a to z
// maps to a glyph with an outline and a positive advance. A second parser
// must agree on the glyph count and the cmap.
func Check(raw []byte) (Report, error) {
	var report Report

	f, err := sfnt.Parse(raw)
	if err != nil {
		return report, fmt.Errorf("parse font: %w", err)
	}
	var b sfnt.Buffer

	report.NumGlyphs = f.NumGlyphs()
	report.UnitsPerEm = int(f.UnitsPerEm())
	report.FamilyName, _ = f.Name(&b, sfnt.NameIDFamily)
	if report.NumGlyphs != EXPECTED_GLYPHS {
		return report, fmt.Errorf("%w: %d, expected %d", ErrGlyphCount, report.NumGlyphs, EXPECTED_GLYPHS)
	}

	// with ppem equal to units per em, sizes come back in font units
	ppem := fixed.I(report.UnitsPerEm)
	for _, l := range alphabet.Letters(nil) {
		gid, err := f.GlyphIndex(&b, l.Char)
		if err != nil {
			return report, fmt.Errorf("%c: %w", l.Char, err)
		}
		if gid == 0 {
			return report, fmt.Errorf("%c: %w", l.Char, ErrUnmapped)
		}
		segments, err := f.LoadGlyph(&b, gid, ppem, nil)
		if err != nil {
			return report, fmt.Errorf("%c: load glyph %d: %w", l.Char, gid, err)
		}
		if len(segments) == 0 {
			return report, fmt.Errorf("%c: %w", l.Char, ErrEmptyOutline)
		}
		advance, err := f.GlyphAdvance(&b, gid, ppem, font.HintingNone)
		if err != nil {
			return report, fmt.Errorf("%c: advance: %w", l.Char, err)
		}
		if advance <= 0 {
			return report, fmt.Errorf("%c: %w", l.Char, ErrAdvance)
		}
		report.Letters = append(report.Letters, LetterReport{
			Char:     l.Char,
			GlyphID:  uint16(gid),
			Segments: len(segments),
			Advance:  advance.Round(),
		})
	}

	if err := crossCheck(raw, report); err != nil {
		return report, err
	}
	return report, nil
}

func crossCheck(raw []byte, report Report) error {
	info, err := seehuhn.Read(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("second parser: %w", err)
	}
	if info.NumGlyphs() != report.NumGlyphs {
		return fmt.Errorf("%w: %d and %d glyphs", ErrMismatch, report.NumGlyphs, info.NumGlyphs())
	}
	cmap, err := info.CMapTable.GetBest()
	if err != nil {
		return fmt.Errorf("second parser: cmap: %w", err)
	}
	for _, l := range report.Letters {
		if gid := cmap.Lookup(l.Char); uint16(gid) != l.GlyphID {
			return fmt.Errorf("%w: %c is glyph %d and %d", ErrMismatch, l.Char, l.GlyphID, gid)
		}
	}
	return nil
}
