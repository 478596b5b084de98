package trace

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/strconv"
	"github.com/tdewolff/parse/v2/xml"
	"seehuhn.de/go/geom/matrix"

	"phonicsfont/glyphs"
	"phonicsfont/ttf_tables"
)

// Em is the square, in font units, that drawings are fitted into. Its top
// edge sits Top units above the baseline.
type Em struct {
	Size float64
	Top  float64
}

var DefaultEm = Em{Size: ttf_tables.DEFAULT_UNITS_PER_EM, Top: ttf_tables.DEFAULT_ASCENT}

var ErrNoDrawing = errors.New("svg has no paths")

type ViewBox struct {
	MinX, MinY    float64
	Width, Height float64
}

func (vb ViewBox) empty() bool {
	return vb.Width <= 0 || vb.Height <= 0
}

// emMatrix maps the view box into font units with y pointing up, scaled to
// fit em and centered horizontally.
func (vb ViewBox) emMatrix(em Em) matrix.Matrix {
	s := em.Size / math.Max(vb.Width, vb.Height)
	dx := (em.Size - vb.Width*s) / 2
	return matrix.Translate(-vb.MinX, -vb.MinY).Mul(matrix.Matrix{s, 0, 0, -s, dx, em.Top})
}

func parsePoints(v string) ([]float64, error) {
	b := []byte(v)
	vals := []float64{}
	for i := skipCommaWhitespace(b); i < len(b); i += skipCommaWhitespace(b[i:]) {
		f, n := strconv.ParseFloat(b[i:])
		if n == 0 {
			return nil, fmt.Errorf("bad number list %q", v)
		}
		vals = append(vals, f)
		i += n
	}
	return vals, nil
}

// parseLength reads a width or height, ignoring the unit.
func parseLength(v string) float64 {
	f, _ := strconv.ParseFloat([]byte(strings.TrimSpace(v)))
	return f
}

// parseTransform turns an SVG transform list into the matrix that applies
// its items from right to left.
func parseTransform(v string) (matrix.Matrix, error) {
	m := matrix.Identity
	i, j := 0, 0
	var fun string
	for ; i < len(v); i++ {
		if v[i] == '(' {
			fun = strings.ToLower(strings.Trim(v[j:i], " ,\t\n\r"))
			j = i + 1
		} else if v[i] == ')' {
			d, err := parsePoints(v[j:i])
			if err != nil {
				return m, err
			}
			var t matrix.Matrix
			switch {
			case fun == "matrix" && len(d) == 6:
				t = matrix.Matrix{d[0], d[1], d[2], d[3], d[4], d[5]}
			case fun == "translate" && len(d) == 1:
				t = matrix.Translate(d[0], 0)
			case fun == "translate" && len(d) == 2:
				t = matrix.Translate(d[0], d[1])
			case fun == "scale" && len(d) == 1:
				t = matrix.Scale(d[0], d[0])
			case fun == "scale" && len(d) == 2:
				t = matrix.Scale(d[0], d[1])
			case fun == "rotate" && (len(d) == 1 || len(d) == 3):
				sin, cos := math.Sincos(d[0] * math.Pi / 180)
				t = matrix.Matrix{cos, sin, -sin, cos, 0, 0}
				if len(d) == 3 {
					t = matrix.Translate(-d[1], -d[2]).Mul(t).Mul(matrix.Translate(d[1], d[2]))
				}
			case fun == "skewx" && len(d) == 1:
				t = matrix.Matrix{1, 0, math.Tan(d[0] * math.Pi / 180), 1, 0, 0}
			case fun == "skewy" && len(d) == 1:
				t = matrix.Matrix{1, math.Tan(d[0] * math.Pi / 180), 0, 1, 0, 0}
			default:
				return m, fmt.Errorf("bad transform %s(%s)", fun, v[j:i])
			}
			m = t.Mul(m)
			j = i + 1
		}
	}
	return m, nil
}

// ParseSVG reads the paths of an SVG drawing, as potrace writes them, into
// contours in font units. The view box is fitted into em with y pointing up.
// Text elements are skipped, only shapes become outlines.
func ParseSVG(r io.Reader, em Em) ([]glyphs.Contour, ViewBox, error) {
	z := parse.NewInput(r)
	defer z.Restore()
	l := xml.NewLexer(z)

	var vb ViewBox
	pen := glyphs.NewPen()

	// transform to font units of every open element
	var stack []matrix.Matrix
	rooted := false
	inText := 0

	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() != io.EOF {
				return nil, vb, l.Err()
			}
			if !rooted {
				return nil, vb, fmt.Errorf("expected SVG tag")
			}
			contours := pen.Contours()
			if len(contours) == 0 {
				return nil, vb, ErrNoDrawing
			}
			return glyphs.OrientByNesting(contours), vb, nil

		case xml.StartTagToken:
			attrs := map[string]string{}
			for {
				tt, _ = l.Next()
				if tt != xml.AttributeToken {
					break
				}
				val := l.AttrVal()
				if len(val) >= 2 && (val[0] == '"' || val[0] == '\'') {
					val = val[1 : len(val)-1]
				}
				attrs[string(l.Text())] = string(val)
			}
			void := tt == xml.StartTagCloseVoidToken

			tag := string(data[1:])
			var m matrix.Matrix
			if !rooted {
				if tag != "svg" {
					return nil, vb, fmt.Errorf("expected SVG tag, got %s", tag)
				}
				var err error
				vb, err = readViewBox(attrs)
				if err != nil {
					return nil, vb, parse.NewErrorLexer(z, "%v", err)
				}
				m = vb.emMatrix(em)
				rooted = true
			} else {
				m = stack[len(stack)-1]
			}

			if v, ok := attrs["transform"]; ok {
				t, err := parseTransform(v)
				if err != nil {
					return nil, vb, parse.NewErrorLexer(z, "%v", err)
				}
				m = t.Mul(m)
			}

			if tag == "text" {
				inText++
			}
			if tag == "path" && inText == 0 {
				b := &pathBuilder{m: m, pen: pen}
				if err := drawPathData(b, attrs["d"]); err != nil {
					return nil, vb, parse.NewErrorLexer(z, "%v", err)
				}
			}

			if void {
				if tag == "text" {
					inText--
				}
			} else {
				stack = append(stack, m)
			}

		case xml.EndTagToken:
			tag := string(data[2 : len(data)-1])
			if tag == "text" && inText > 0 {
				inText--
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// readViewBox takes the viewBox attribute, or the width and height when it is
// missing.
func readViewBox(attrs map[string]string) (ViewBox, error) {
	if v, ok := attrs["viewBox"]; ok {
		d, err := parsePoints(v)
		if err != nil || len(d) != 4 {
			return ViewBox{}, fmt.Errorf("bad viewBox %q", v)
		}
		vb := ViewBox{MinX: d[0], MinY: d[1], Width: d[2], Height: d[3]}
		if vb.empty() {
			return vb, fmt.Errorf("empty viewBox %q", v)
		}
		return vb, nil
	}

	vb := ViewBox{Width: parseLength(attrs["width"]), Height: parseLength(attrs["height"])}
	if vb.empty() {
		return vb, fmt.Errorf("svg has neither a viewBox nor a size")
	}
	return vb, nil
}
