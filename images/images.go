// Package images draws the sample picture cards each letter is illustrated
// with, and loads the PNGs the color fonts embed.
package images

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"phonicsfont/alphabet"
	"phonicsfont/logger"
)

const (
	SAMPLE_SIZE = 500

	// all measured on a SAMPLE_SIZE card and scaled with the card
	circleMargin   = 10
	letterFontSize = 120
	letterOffset   = -50
	wordFontSize   = 60
	wordOffset     = 70

	circleSegments = 96
	saturation     = 0.8
	value          = 0.9
)

// HSVToRGB converts a hue in degrees and saturation and value in [0, 1].
func HSVToRGB(h, s, v float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360

	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return color.NRGBA{R: to8(r), G: to8(g), B: to8(b), A: 0xFF}
}

func to8(c float64) uint8 {
	return uint8(max(0, min(1, c)) * 255)
}

// LetterColor is the hue a letter gets, evenly spread around the color wheel.
func LetterColor(l alphabet.Letter) color.NRGBA {
	return HSVToRGB(float64(l.Index)*360/alphabet.NUM_LETTERS, saturation, value)
}

var sampleFont *opentype.Font

func face(size float64) (font.Face, error) {
	if sampleFont == nil {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("parse sample font: %w", err)
		}
		sampleFont = f
	}
	return opentype.NewFace(sampleFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Synthesize draws the card for l: a colored disc with the uppercase letter
// in white above the middle and the picture word in black below it. The card
// is size by size pixels with a transparent background.
func Synthesize(l alphabet.Letter, size int) (*image.NRGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("sample size %d must be positive", size)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	scale := float64(size) / SAMPLE_SIZE
	center := float64(size) / 2

	radius := center - circleMargin*scale
	if radius > 0 {
		fillCircle(dst, center, center, radius, LetterColor(l))
	}

	err := drawCentered(dst, l.Upper(), letterFontSize*scale, image.White, center, center+letterOffset*scale)
	if err != nil {
		return nil, err
	}
	err = drawCentered(dst, l.Word, wordFontSize*scale, image.Black, center, center+wordOffset*scale)
	if err != nil {
		return nil, err
	}
	return dst, nil
}

func fillCircle(dst draw.Image, cx, cy, r float64, c color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	for i := 0; i < circleSegments; i++ {
		angle := 2 * math.Pi * float64(i) / circleSegments
		x, y := float32(cx+r*math.Cos(angle)), float32(cy+r*math.Sin(angle))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// drawCentered puts the middle of text, halfway between ascent and descent,
// on (cx, cy).
func drawCentered(dst draw.Image, text string, size float64, src image.Image, cx, cy float64) error {
	if text == "" {
		return nil
	}
	f, err := face(size)
	if err != nil {
		return err
	}
	defer f.Close()

	d := font.Drawer{Dst: dst, Src: src, Face: f}
	width := d.MeasureString(text)
	metrics := f.Metrics()
	x := fixed.Int26_6(cx*64) - width/2
	y := fixed.Int26_6(cy*64) + (metrics.Ascent-metrics.Descent)/2
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(text)
	return nil
}

// Path is where the sample image of l lives inside dir.
func Path(dir string, l alphabet.Letter) string {
	return filepath.Join(dir, string(l.Char)+".png")
}

// EnsureSamples writes a card for every letter whose PNG is missing from dir
// and returns how many were written. Existing images are left alone.
func EnsureSamples(dir string, letters []alphabet.Letter) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create images dir: %w", err)
	}

	written := 0
	for _, l := range letters {
		path := Path(dir, l)
		_, err := os.Stat(path)
		if err == nil {
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return written, err
		}

		img, err := Synthesize(l, SAMPLE_SIZE)
		if err != nil {
			return written, fmt.Errorf("%c: %w", l.Char, err)
		}
		if err := imaging.Save(img, path); err != nil {
			return written, fmt.Errorf("save %s: %w", path, err)
		}
		logger.Logf(logger.Allow, "images", "created %s for %s", path, l)
		written++
	}
	return written, nil
}

// Load decodes the image at path into NRGBA whatever its original color
// model.
func Load(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	return imaging.Clone(img), nil
}

// Fit scales img down to fit inside w by h keeping its aspect ratio. Images
// that already fit are returned unscaled.
func Fit(img image.Image, w, h int) *image.NRGBA {
	return imaging.Fit(img, w, h, imaging.Lanczos)
}
