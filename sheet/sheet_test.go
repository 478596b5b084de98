package sheet

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonicsfont/alphabet"
	"phonicsfont/glyphs"
	"phonicsfont/images"
	"phonicsfont/ttf_tables"
)

func squaresOutlines(t *testing.T) []glyphs.Outline {
	style, err := glyphs.Lookup(glyphs.SQUARES)
	require.NoError(t, err)
	return []glyphs.Outline{style.Outline(alphabet.Letters(nil)[0], ttf_tables.DEFAULT_UNITS_PER_EM), style.NotdefOutline(ttf_tables.DEFAULT_UNITS_PER_EM)}
}

func TestRender(t *testing.T) {
	img, err := Render(squaresOutlines(t), DefaultMetrics, 100, 2)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 100), img.Bounds())

	// the square sits on the baseline, 20 px above the bottom of its cell
	assert.Equal(t, uint8(255), img.NRGBAAt(25, 55).A)
	assert.Equal(t, uint8(0), img.NRGBAAt(25, 55).R, "ink is black")
	assert.Zero(t, img.NRGBAAt(25, 20).A, "above the square")
	assert.Zero(t, img.NRGBAAt(25, 90).A, "below the baseline")
	assert.Zero(t, img.NRGBAAt(0, 0).A, "no grid without debug")

	// .notdef is hollow
	assert.Equal(t, uint8(255), img.NRGBAAt(107, 55).A)
	assert.Zero(t, img.NRGBAAt(125, 55).A)

	_, err = Render(nil, DefaultMetrics, 100, 2)
	assert.Error(t, err)
	_, err = Render(squaresOutlines(t), DefaultMetrics, 0, 2)
	assert.Error(t, err)
}

func TestRenderCurves(t *testing.T) {
	p := glyphs.NewPen()
	glyphs.RoundBlob(p, 500, 300, 200)
	img, err := Render([]glyphs.Outline{p.Outline(1000)}, DefaultMetrics, 100, 1)
	require.NoError(t, err)

	// centre of the blob is 50 px in and 50 px down: (300 - -200) / 10 = 50
	assert.Equal(t, uint8(255), img.NRGBAAt(50, 50).A)
	assert.Zero(t, img.NRGBAAt(50, 5).A)
}

func TestRenderMetrics(t *testing.T) {
	// a 2048 unit square standing on the baseline of a font with a deep
	// descender fills the cell above it
	p := glyphs.NewPen()
	glyphs.Rect(p, 0, 0, 2048, 1024)
	img, err := Render([]glyphs.Outline{p.Outline(2048)}, Metrics{UnitsPerEm: 2048, Descent: -1024}, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), img.NRGBAAt(50, 25).A)
	assert.Zero(t, img.NRGBAAt(50, 75).A, "below the baseline")

	_, err = Render([]glyphs.Outline{p.Outline(2048)}, Metrics{}, 100, 1)
	assert.Error(t, err)
}

func TestDebugGrid(t *testing.T) {
	Debug = true
	defer func() { Debug = false }()

	img, err := Render(squaresOutlines(t), DefaultMetrics, 100, 2)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), img.NRGBAAt(0, 5).A)
	assert.Equal(t, uint8(255), img.NRGBAAt(100, 5).A)
}

func TestWritePNG(t *testing.T) {
	img, err := Render(squaresOutlines(t), DefaultMetrics, 32, 2)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "sheet.png")
	require.NoError(t, WritePNG(path, img))

	back, err := images.Load(path)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), back.Bounds())
}
