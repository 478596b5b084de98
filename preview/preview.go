// Package preview writes an HTML page showing every letter card, the glyph
// sheet and sample sentences set in the generated font.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/disintegration/imaging"
	"github.com/pkg/browser"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"

	"phonicsfont/alphabet"
	"phonicsfont/images"
	"phonicsfont/logger"
	"phonicsfont/svgdoc"
	"phonicsfont/trace"
)

const (
	DEFAULT_TITLE  = "Phonics Picture Font"
	FONT_FAMILY    = "PhonicsPreview"
	THUMBNAIL_SIZE = 150
)

var Sentences = []string{
	"The quick brown fox",
	"The quick brown fox jumps over the lazy dog",
}

var minifier = minify.New()

func init() {
	minifier.AddFunc("text/html", html.Minify)
	minifier.AddFunc("text/css", css.Minify)
}

// Page describes what the preview shows. Paths are files on disk, the page
// refers to them relative to where it is written. Empty paths are left out.
type Page struct {
	Title     string
	FontPath  string
	SheetPath string
	ImagesDir string
	Letters   []alphabet.Letter

	// rendered SVG drawings by letter, see Thumbnails
	Drawings map[rune]string
}

type card struct {
	Image   string
	Drawing string
	Letter  string
	Word    string
}

// piece of a sample sentence, either a picture or plain text
type piece struct {
	Image string
	Alt   string
	Text  string
}

type sentence struct {
	Text   string
	Pieces []piece
}

type view struct {
	Title     string
	Family    string
	Font      string
	Sheet     string
	Cards     []card
	Sentences []sentence
}

var page = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
{{- if .Font}}
@font-face {
    font-family: "{{.Family}}";
    src: url("{{.Font}}") format("truetype");
}
.in-font {
    font-family: "{{.Family}}", sans-serif;
    font-size: 48px;
}
{{- end}}
body {
    font-family: Arial, sans-serif;
    max-width: 1200px;
    margin: 0 auto;
    padding: 20px;
}
h1 {
    text-align: center;
}
.letter-grid {
    display: grid;
    grid-template-columns: repeat(auto-fill, minmax(200px, 1fr));
    gap: 20px;
    margin: 30px 0;
}
.letter-card {
    border: 1px solid #ddd;
    border-radius: 8px;
    padding: 15px;
    display: flex;
    flex-direction: column;
    align-items: center;
    box-shadow: 0 2px 5px rgba(0, 0, 0, 0.1);
}
.letter-image {
    width: 150px;
    height: 150px;
    object-fit: contain;
}
.letter-label {
    margin-top: 10px;
    font-size: 24px;
    font-weight: bold;
}
.word-label {
    color: #555;
}
.text-sample {
    font-size: 24px;
    line-height: 1.5;
    margin: 30px 0;
    padding: 20px;
    border: 1px solid #ddd;
    border-radius: 8px;
}
.text-sample img {
    height: 40px;
    vertical-align: middle;
}
</style>
</head>
<body>
<h1>{{.Title}}</h1>

<div class="letter-grid">
{{- range .Cards}}
<div class="letter-card">
    {{if .Image}}<img src="{{.Image}}" alt="{{.Word}}" class="letter-image">{{end}}
    {{if .Drawing}}<img src="{{.Drawing}}" alt="{{.Word}} drawing" class="letter-image">{{end}}
    <div class="letter-label">{{.Letter}}</div>
    <div class="word-label">{{.Word}}</div>
</div>
{{- end}}
</div>

{{if .Sheet -}}
<h2>Glyphs</h2>
<img src="{{.Sheet}}" alt="glyph sheet">
{{- end}}

<h2>Example Sentences</h2>
<div class="text-sample">
{{- range .Sentences}}
<p>
    {{if $.Font}}<span class="in-font">{{.Text}}</span><br>{{end}}
    {{range .Pieces}}{{if .Image}}<img src="{{.Image}}" alt="{{.Alt}}">{{else}}{{.Text}}{{end}}{{end}}
</p>
{{- end}}
</div>
</body>
</html>
`))

// relative turns path into a URL relative to dir.
func relative(dir, path string) string {
	if path == "" {
		return ""
	}
	if rel, err := filepath.Rel(dir, path); err == nil {
		path = rel
	}
	return filepath.ToSlash(path)
}

func (p Page) view(dir string) view {
	v := view{
		Title:  p.Title,
		Family: FONT_FAMILY,
		Font:   relative(dir, p.FontPath),
		Sheet:  relative(dir, p.SheetPath),
	}
	if v.Title == "" {
		v.Title = DEFAULT_TITLE
	}

	imageOf := func(l alphabet.Letter) string {
		if p.ImagesDir == "" {
			return ""
		}
		return relative(dir, images.Path(p.ImagesDir, l))
	}

	for _, l := range p.Letters {
		v.Cards = append(v.Cards, card{
			Image:   imageOf(l),
			Drawing: relative(dir, p.Drawings[l.Char]),
			Letter:  l.Upper(),
			Word:    l.Word,
		})
	}

	for _, text := range Sentences {
		s := sentence{Text: text}
		for _, r := range text {
			l, ok := alphabet.Find(p.Letters, unicode.ToLower(r))
			if !ok || imageOf(l) == "" {
				s.Pieces = append(s.Pieces, piece{Text: string(r)})
				continue
			}
			s.Pieces = append(s.Pieces, piece{Image: imageOf(l), Alt: string(r)})
		}
		v.Sentences = append(v.Sentences, s)
	}
	return v
}

// Thumbnails renders the SVG drawing of every letter found in svgDir to a
// PNG in outDir and returns their paths. Letters without a drawing are left
// out.
func Thumbnails(svgDir, outDir string, letters []alphabet.Letter) (map[rune]string, error) {
	thumbs := make(map[rune]string)
	for _, l := range letters {
		doc, err := os.ReadFile(svgdoc.Path(svgDir, l.Char))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, err
		}

		img, err := trace.Rasterize(doc, THUMBNAIL_SIZE)
		if err != nil {
			logger.Logf(logger.Allow, "preview", "%c: %v", l.Char, err)
			continue
		}
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return nil, err
		}
		path := filepath.Join(outDir, string(l.Char)+".png")
		if err := imaging.Save(img, path); err != nil {
			return nil, err
		}
		thumbs[l.Char] = path
	}
	return thumbs, nil
}

// Render returns the minified page as it would be written into dir.
func Render(p Page, dir string) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := page.Execute(buf, p.view(dir)); err != nil {
		return nil, fmt.Errorf("preview template: %w", err)
	}
	out, err := minifier.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify preview: %w", err)
	}
	return out, nil
}

// Write renders the page to path, creating the directory it goes in.
func Write(path string, p Page) error {
	dir := filepath.Dir(path)
	out, err := Render(p, dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return err
	}
	logger.Logf(logger.Allow, "preview", "wrote %s", path)
	return nil
}

// Open shows the page in the default browser.
func Open(path string) error {
	if !strings.HasSuffix(path, ".html") {
		return fmt.Errorf("%s is not an html page", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return browser.OpenFile(abs)
}
