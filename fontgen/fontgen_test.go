package fontgen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonicsfont/alphabet"
	"phonicsfont/config"
	"phonicsfont/glyphs"
	"phonicsfont/svgdoc"
	"phonicsfont/ttf_tables"
	"phonicsfont/verify"
)

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.ImagesDir = filepath.Join(dir, "images")
	cfg.SVGDir = filepath.Join(dir, "svg")
	cfg.OutputDir = filepath.Join(dir, "font")
	cfg.PotracePath = filepath.Join(dir, "no-such-potrace")
	return cfg
}

func TestBuildEveryVariant(t *testing.T) {
	cfg := testConfig(t)
	for _, variant := range Variants() {
		t.Run(variant, func(t *testing.T) {
			f, err := Build(context.Background(), cfg, variant)
			require.NoError(t, err)
			assert.Equal(t, verify.EXPECTED_GLYPHS, f.NumGlyphs())
			assert.Equal(t, ttf_tables.NOTDEF_GLYPH_NAME, f.GlyphOrder[0])

			raw, err := Save(f, cfg.FontPath(variant))
			require.NoError(t, err)

			report, err := verify.Check(raw)
			require.NoError(t, err)
			assert.Equal(t, cfg.FontName, report.FamilyName)
			assert.Len(t, report.Letters, alphabet.NUM_LETTERS)

			_, err = os.Stat(cfg.FontPath(variant))
			assert.NoError(t, err)
		})
	}
}

func TestBuildUnknownVariant(t *testing.T) {
	_, err := Build(context.Background(), testConfig(t), "sparkles")
	assert.ErrorContains(t, err, "sparkles")
}

func TestBuildBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.FontName = ""
	_, err := Build(context.Background(), cfg, SQUARES)
	assert.Error(t, err)
}

func TestBuildColor(t *testing.T) {
	cfg := testConfig(t)
	f, err := Build(context.Background(), cfg, COLOR)
	require.NoError(t, err)

	require.NotNil(t, f.Strike)
	assert.Equal(t, uint8(cfg.StrikePPEM), f.Strike.PPEM)
	assert.Len(t, f.Strike.Glyphs, alphabet.NUM_LETTERS)
	assert.Equal(t, int8(57), f.Strike.Ascender) // 800 * 72 / 1000
	for _, g := range f.Strike.Glyphs {
		assert.LessOrEqual(t, int(g.Width), cfg.StrikePPEM)
		assert.LessOrEqual(t, int(g.Height), cfg.StrikePPEM)
		assert.NotEmpty(t, g.PNG)
	}

	tables, err := f.Tables()
	require.NoError(t, err)
	assert.Contains(t, tables, "CBDT")
	assert.Contains(t, tables, "CBLC")
	assert.Contains(t, tables, "glyf")
}

func TestBuildColorMissingPicture(t *testing.T) {
	cfg := testConfig(t)
	letters := alphabet.Letters(nil)

	// a file that exists but cannot be decoded stops the build
	require.NoError(t, os.MkdirAll(cfg.ImagesDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ImagesDir, "q.png"), []byte("not a png"), 0644))
	_, err := Build(context.Background(), cfg, COLOR)
	assert.ErrorContains(t, err, "q")

	// a missing one is skipped
	_, ok, err := loadPicture(t.TempDir(), letters[0], cfg.StrikePPEM)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuildSVG(t *testing.T) {
	cfg := testConfig(t)
	f, err := Build(context.Background(), cfg, SVG)
	require.NoError(t, err)

	require.NotNil(t, f.SVG)
	require.Len(t, f.SVG.Documents, alphabet.NUM_LETTERS)
	doc := f.SVG.Documents[0]
	assert.Equal(t, uint16(1), doc.StartGlyphID)
	assert.Equal(t, doc.StartGlyphID, doc.EndGlyphID)
	assert.Contains(t, string(doc.Data), "glyph1")

	// standalone drawings for every letter
	for _, r := range []rune{'a', 'm', 'z'} {
		_, err := os.Stat(svgdoc.Path(cfg.SVGDir, r))
		assert.NoError(t, err)
	}
}

func TestBuildTraceFallback(t *testing.T) {
	cfg := testConfig(t)
	f, err := Build(context.Background(), cfg, TRACE)
	require.NoError(t, err)

	// without potrace every letter is the fallback ring and dot
	a := f.Glyphs[alphabet.GlyphName('a')]
	require.Len(t, a.Contours, 3)
	assert.Equal(t, cfg.UnitsPerEm, a.Advance)
	assert.Less(t, glyphs.SignedArea(a.Contours[0]), 0.0)
	assert.Greater(t, glyphs.SignedArea(a.Contours[1]), 0.0)

	_, err = os.Stat(svgdoc.Path(cfg.SVGDir, 'z'))
	assert.NoError(t, err)
}

func TestBuildTraceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, testConfig(t), TRACE)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildConvert(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.SVGDir, 0755))
	drawing := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><path d="M10 10 H90 V90 H10 Z"/></svg>`
	require.NoError(t, os.WriteFile(svgdoc.Path(cfg.SVGDir, 'b'), []byte(drawing), 0644))

	f, err := Build(context.Background(), cfg, CONVERT)
	require.NoError(t, err)
	assert.Equal(t, CONVERT_DESCRIPTION, f.Info.Description)

	notdef := f.Glyphs[ttf_tables.NOTDEF_GLYPH_NAME]
	assert.Empty(t, notdef.Contours)
	assert.Equal(t, cfg.ConvertAdvance, notdef.Advance)

	// b comes from its drawing: 10..90 of 100 becomes 100..900 of 1000
	b := glyphs.Outline{Contours: f.Glyphs[alphabet.GlyphName('b')].Contours}
	xMin, _, xMax, _, ok := b.Bounds()
	require.True(t, ok)
	assert.InDelta(t, 100, xMin, 1e-6)
	assert.InDelta(t, 900, xMax, 1e-6)

	// a has no drawing and becomes a full square
	a := glyphs.Outline{Contours: f.Glyphs[alphabet.GlyphName('a')].Contours}
	xMin, yMin, xMax, yMax, ok := a.Bounds()
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0, 1000, 1000}, []float64{xMin, yMin, xMax, yMax})
	assert.Equal(t, cfg.ConvertAdvance, f.Glyphs[alphabet.GlyphName('a')].Advance)
}

func TestBuildUnitsPerEm(t *testing.T) {
	cfg := testConfig(t)
	cfg.UnitsPerEm, cfg.Ascent, cfg.Descent = 2048, 1638, -410

	// squares are drawn for 1000 units and scaled up
	f, err := Build(context.Background(), cfg, SQUARES)
	require.NoError(t, err)
	a := f.Glyphs[alphabet.GlyphName('a')]
	assert.Equal(t, 1024, a.Advance)
	xMin, yMin, xMax, yMax, ok := glyphs.Outline{Contours: a.Contours}.Bounds()
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{102.4, 102.4, 921.6, 921.6}, []float64{xMin, yMin, xMax, yMax}, 1e-9)

	raw, err := Save(f, cfg.FontPath(SQUARES))
	require.NoError(t, err)
	report, err := verify.Check(raw)
	require.NoError(t, err)
	assert.Equal(t, 2048, report.UnitsPerEm)
	assert.Equal(t, 1024, report.Letters[0].Advance)

	// traced drawings fill the em below the ascent
	f, err = Build(context.Background(), cfg, TRACE)
	require.NoError(t, err)
	a = f.Glyphs[alphabet.GlyphName('a')]
	assert.Equal(t, 2048, a.Advance)
	_, _, _, yMax, ok = glyphs.Outline{Contours: a.Contours}.Bounds()
	require.True(t, ok)
	assert.LessOrEqual(t, yMax, 1638.0+1e-9)
	assert.Greater(t, yMax, 1000.0)

	// a convert glyph without a drawing is a full em square, the trace above
	// left drawings in the svg directory so start from a fresh one
	cfg.SVGDir = filepath.Join(t.TempDir(), "svg")
	f, err = Build(context.Background(), cfg, CONVERT)
	require.NoError(t, err)
	_, _, xMax, _, ok = glyphs.Outline{Contours: f.Glyphs[alphabet.GlyphName('a')].Contours}.Bounds()
	require.True(t, ok)
	assert.Equal(t, 2048.0, xMax)
}

func TestOutlines(t *testing.T) {
	f, err := Build(context.Background(), testConfig(t), PATTERNS)
	require.NoError(t, err)
	outlines := Outlines(f)
	require.Len(t, outlines, verify.EXPECTED_GLYPHS)
	assert.Equal(t, f.Glyphs[alphabet.GlyphName('c')].Contours, outlines[3].Contours)
}
