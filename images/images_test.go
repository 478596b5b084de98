package images

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonicsfont/alphabet"
)

func TestHSVToRGB(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 229, G: 45, B: 45, A: 255}, HSVToRGB(0, 0.8, 0.9))
	assert.Equal(t, color.NRGBA{R: 0, G: 255, B: 0, A: 255}, HSVToRGB(120, 1, 1))
	assert.Equal(t, color.NRGBA{R: 0, G: 0, B: 255, A: 255}, HSVToRGB(240, 1, 1))
	assert.Equal(t, HSVToRGB(10, 1, 1), HSVToRGB(370, 1, 1))
	assert.Equal(t, color.NRGBA{R: 127, G: 127, B: 127, A: 255}, HSVToRGB(200, 0, 0.5))
}

func countPixels(img *image.NRGBA, r image.Rectangle, match func(color.NRGBA) bool) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if match(img.NRGBAAt(x, y)) {
				n++
			}
		}
	}
	return n
}

func TestSynthesize(t *testing.T) {
	a := alphabet.Letters(nil)[0]
	img, err := Synthesize(a, SAMPLE_SIZE)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, SAMPLE_SIZE, SAMPLE_SIZE), img.Bounds())

	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(0, 0), "corners stay transparent")
	disc, want := img.NRGBAAt(30, 250), LetterColor(a)
	assert.InDelta(t, want.R, disc.R, 2, "inside the disc")
	assert.InDelta(t, want.G, disc.G, 2, "inside the disc")
	assert.InDelta(t, want.B, disc.B, 2, "inside the disc")
	assert.Greater(t, disc.A, uint8(250))

	white := func(c color.NRGBA) bool { return c.R > 250 && c.G > 250 && c.B > 250 && c.A > 250 }
	black := func(c color.NRGBA) bool { return c.R < 5 && c.G < 5 && c.B < 5 && c.A > 250 }

	// letter sits above the middle, the word below it
	assert.Positive(t, countPixels(img, image.Rect(150, 120, 350, 280), white))
	assert.Zero(t, countPixels(img, image.Rect(0, 300, 500, 500), white))
	assert.Positive(t, countPixels(img, image.Rect(50, 290, 450, 360), black))
	assert.Zero(t, countPixels(img, image.Rect(0, 0, 500, 250), black))

	_, err = Synthesize(a, 0)
	assert.Error(t, err)
}

func TestEnsureSamples(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	letters := alphabet.Letters(nil)[:2]

	// an existing image is never replaced
	require.NoError(t, os.MkdirAll(dir, 0755))
	keep := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	require.NoError(t, imaging.Save(keep, Path(dir, letters[1])))

	n, err := EnsureSamples(dir, letters)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = EnsureSamples(dir, letters)
	require.NoError(t, err)
	assert.Zero(t, n)

	img, err := Load(Path(dir, letters[0]))
	require.NoError(t, err)
	assert.Equal(t, SAMPLE_SIZE, img.Bounds().Dx())

	kept, err := Load(Path(dir, letters[1]))
	require.NoError(t, err)
	assert.Equal(t, 10, kept.Bounds().Dx())

	fitted := Fit(img, 72, 72)
	assert.Equal(t, image.Rect(0, 0, 72, 72), fitted.Bounds())
	assert.Equal(t, 10, Fit(kept, 72, 72).Bounds().Dx())

	_, err = Load(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
