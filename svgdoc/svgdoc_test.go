package svgdoc

import (
	"bytes"
	"encoding/xml"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, image.NewNRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// rootID returns the id attribute of the outermost element.
func rootID(t *testing.T, doc []byte) string {
	t.Helper()
	d := xml.NewDecoder(bytes.NewReader(doc))
	for {
		tok, err := d.Token()
		require.NoError(t, err)
		if start, ok := tok.(xml.StartElement); ok {
			require.Equal(t, "svg", start.Name.Local)
			for _, attr := range start.Attr {
				if attr.Name.Local == "id" {
					return attr.Value
				}
			}
			return ""
		}
	}
}

func TestEmbedPNG(t *testing.T) {
	doc, err := EmbedPNG(testPNG(t, 50, 50), 50, 50, 3, EmBox(1000, 800, -200))
	require.NoError(t, err)
	assert.Equal(t, "glyph3", rootID(t, doc))
	assert.Contains(t, string(doc), `data:image/png;base64,`)
	assert.NotContains(t, string(doc), "\n")

	_, err = EmbedPNG(nil, 50, 50, 3, EmBox(1000, 800, -200))
	assert.Error(t, err)
	_, err = EmbedPNG(testPNG(t, 50, 50), 50, 50, 3, Box{})
	assert.Error(t, err)
}

func TestEmBox(t *testing.T) {
	assert.Equal(t, Box{X: 0, Y: -800, Width: 600, Height: 1000}, EmBox(600, 800, -200))
}

func TestNum(t *testing.T) {
	assert.Equal(t, "-800", num(-800).String())
	assert.Equal(t, ".5", num(0.5).String())
	assert.Equal(t, "0", num(0).String())
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "svg")
	doc, err := Standalone(testPNG(t, 20, 10), 20, 10)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "<svg")

	require.NoError(t, WriteFiles(dir, map[rune][]byte{'a': doc, 'b': doc}))
	raw, err := os.ReadFile(Path(dir, 'b'))
	require.NoError(t, err)
	assert.Equal(t, doc, raw)

	_, err = Standalone(nil, 20, 10)
	assert.Error(t, err)
}
