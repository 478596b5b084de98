package ttf_tables

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// simple glyph flag bits
const (
	GLYF_ON_CURVE       = 0x01
	GLYF_X_SHORT        = 0x02
	GLYF_Y_SHORT        = 0x04
	GLYF_REPEAT         = 0x08
	GLYF_X_SAME_OR_POS  = 0x10
	GLYF_Y_SAME_OR_POS  = 0x20
	GLYF_OVERLAP_SIMPLE = 0x40

	LOCA_SHORT = 0
	LOCA_LONG  = 1

	// short loca offsets are stored divided by two in a uint16
	LOCA_SHORT_LIMIT = 0x1FFFE
)

type Point struct {
	X, Y    float64
	OnCurve bool
}

type Contour []Point

// A simple glyph. Contours are closed implicitly. Off curve points are
// quadratic control points, and two off curve points in a row imply an on
// curve point half way between them.
type SimpleGlyph struct {
	Contours []Contour
}

type GlyphHeader struct { //     Offset  Size  Description
	NumberOfContours int16 // 0x00    0x02  Number of contours (negative for composite)
	XMin             int16 // 0x02    0x02  Bounding box
	YMin             int16 // 0x04    0x02
	XMax             int16 // 0x06    0x02
	YMax             int16 // 0x08    0x02
}

// Bounds of a glyph's points in font units. Empty glyphs have no outline data.
type Bounds struct {
	XMin, YMin, XMax, YMax int16
	Empty                  bool
	NumPoints              int
	NumContours            int
}

type LOCA struct {
	Format  int16 // LOCA_SHORT or LOCA_LONG
	Offsets []uint32
}

type roundedPoint struct {
	x, y    int16
	onCurve bool
}

func roundCoordinate(v float64) (int16, error) {
	r := math.Round(v)
	if math.IsNaN(r) || r < math.MinInt16 || r > math.MaxInt16 {
		return 0, fmt.Errorf("%w: %v", ErrCoordinateRange, v)
	}
	return int16(r), nil
}

// Encode writes the glyph description. Glyphs without contours encode to zero
// bytes, which loca expresses as two equal offsets.
func (g *SimpleGlyph) Encode() ([]byte, Bounds, error) {
	var bounds Bounds
	contours := make([][]roundedPoint, 0, len(g.Contours))
	for _, c := range g.Contours {
		if len(c) == 0 {
			continue
		}
		rounded := make([]roundedPoint, len(c))
		for i, p := range c {
			x, err := roundCoordinate(p.X)
			if err != nil {
				return nil, bounds, err
			}
			y, err := roundCoordinate(p.Y)
			if err != nil {
				return nil, bounds, err
			}
			rounded[i] = roundedPoint{x: x, y: y, onCurve: p.OnCurve}
		}
		contours = append(contours, rounded)
	}

	if len(contours) == 0 {
		bounds.Empty = true
		return nil, bounds, nil
	}
	if len(contours) > math.MaxInt16 {
		return nil, bounds, fmt.Errorf("glyph has %d contours", len(contours))
	}

	header := GlyphHeader{NumberOfContours: int16(len(contours))}
	first := true
	for _, c := range contours {
		for _, p := range c {
			if first {
				header.XMin, header.XMax, header.YMin, header.YMax = p.x, p.x, p.y, p.y
				first = false
				continue
			}
			header.XMin = min(header.XMin, p.x)
			header.XMax = max(header.XMax, p.x)
			header.YMin = min(header.YMin, p.y)
			header.YMax = max(header.YMax, p.y)
		}
	}

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	binaryWrite(w, header.NumberOfContours)
	binaryWrite(w, header.XMin)
	binaryWrite(w, header.YMin)
	binaryWrite(w, header.XMax)
	binaryWrite(w, header.YMax)
	assertEqual(GLYF_HEADER_SIZE, buf.Len())

	endPt := -1
	for _, c := range contours {
		endPt += len(c)
		if endPt > math.MaxUint16 {
			return nil, bounds, fmt.Errorf("glyph has more than 65535 points")
		}
		binaryWrite(w, uint16(endPt))
	}
	binaryWrite(w, uint16(0)) // instructionLength

	var flags, xs, ys bytes.Buffer
	prevX, prevY := 0, 0
	for _, c := range contours {
		for _, p := range c {
			var flag byte
			if p.onCurve {
				flag |= GLYF_ON_CURVE
			}
			xFlag, err := encodeDelta(&xs, int(p.x)-prevX, GLYF_X_SHORT, GLYF_X_SAME_OR_POS)
			if err != nil {
				return nil, bounds, err
			}
			yFlag, err := encodeDelta(&ys, int(p.y)-prevY, GLYF_Y_SHORT, GLYF_Y_SAME_OR_POS)
			if err != nil {
				return nil, bounds, err
			}
			flags.WriteByte(flag | xFlag | yFlag)
			prevX, prevY = int(p.x), int(p.y)
		}
	}
	_, _ = w.Write(flags.Bytes())
	_, _ = w.Write(xs.Bytes())
	_, _ = w.Write(ys.Bytes())
	w.Flush()

	bounds = Bounds{
		XMin:        header.XMin,
		YMin:        header.YMin,
		XMax:        header.XMax,
		YMax:        header.YMax,
		NumPoints:   endPt + 1,
		NumContours: len(contours),
	}
	return buf.Bytes(), bounds, nil
}

// encodeDelta appends one coordinate delta and returns the flag bits that
// describe how it was stored. Zero deltas take no bytes and deltas that fit
// in a byte are stored as magnitude plus sign bit. Points more than 32767
// units apart cannot be expressed.
func encodeDelta(out *bytes.Buffer, delta int, shortBit byte, sameOrPositiveBit byte) (byte, error) {
	switch {
	case delta == 0:
		return sameOrPositiveBit, nil
	case delta > -256 && delta < 256:
		if delta > 0 {
			out.WriteByte(byte(delta))
			return shortBit | sameOrPositiveBit, nil
		}
		out.WriteByte(byte(-delta))
		return shortBit, nil
	case delta < math.MinInt16 || delta > math.MaxInt16:
		return 0, fmt.Errorf("%w: delta %d", ErrCoordinateRange, delta)
	default:
		var raw [2]byte
		binary.BigEndian.PutUint16(raw[:], uint16(int16(delta)))
		out.Write(raw[:])
		return 0, nil
	}
}

// EncodeGlyf encodes every glyph in order, padding each to 4 bytes, and
// returns the matching loca offsets. The short loca format is used whenever
// the glyf table is small enough.
func EncodeGlyf(glyphs []SimpleGlyph) ([]byte, LOCA, []Bounds, error) {
	var glyf []byte
	loca := LOCA{Offsets: make([]uint32, 0, len(glyphs)+1)}
	bounds := make([]Bounds, len(glyphs))

	for i := range glyphs {
		loca.Offsets = append(loca.Offsets, uint32(len(glyf)))
		data, b, err := glyphs[i].Encode()
		if err != nil {
			return nil, loca, nil, fmt.Errorf("glyph %d: %w", i, err)
		}
		bounds[i] = b
		glyf = append(glyf, padTo4(data)...)
	}
	loca.Offsets = append(loca.Offsets, uint32(len(glyf)))

	loca.Format = LOCA_SHORT
	if len(glyf) > LOCA_SHORT_LIMIT {
		loca.Format = LOCA_LONG
	}

	if Debug {
		fmt.Printf("glyf: %d glyphs, %d bytes, loca format %d\n", len(glyphs), len(glyf), loca.Format)
	}
	return glyf, loca, bounds, nil
}

func (loca *LOCA) Encode() []byte {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	for _, offset := range loca.Offsets {
		if loca.Format == LOCA_SHORT {
			binaryWrite(w, uint16(offset/2))
		} else {
			binaryWrite(w, offset)
		}
	}
	w.Flush()

	entrySize := 4
	if loca.Format == LOCA_SHORT {
		entrySize = 2
	}
	assertEqual(entrySize*len(loca.Offsets), len(buf.Bytes()))
	return buf.Bytes()
}

func (loca *LOCA) Decode(raw []byte, format int16, numGlyphs int) error {
	entrySize := 4
	if format == LOCA_SHORT {
		entrySize = 2
	}
	if len(raw) < entrySize*(numGlyphs+1) {
		return fmt.Errorf("loca: %w", ErrTruncated)
	}

	loca.Format = format
	loca.Offsets = make([]uint32, numGlyphs+1)
	for i := range loca.Offsets {
		if format == LOCA_SHORT {
			loca.Offsets[i] = 2 * uint32(binary.BigEndian.Uint16(raw[2*i:]))
		} else {
			loca.Offsets[i] = binary.BigEndian.Uint32(raw[4*i:])
		}
	}
	return nil
}

// DecodeSimpleGlyph reads a simple glyph description back into contours. It
// is the inverse of SimpleGlyph.Encode and is used to check written fonts.
func DecodeSimpleGlyph(raw []byte) (SimpleGlyph, error) {
	var g SimpleGlyph
	if len(raw) == 0 {
		return g, nil
	}
	if len(raw) < GLYF_HEADER_SIZE {
		return g, fmt.Errorf("glyf: %w", ErrTruncated)
	}

	numContours := int(int16(binary.BigEndian.Uint16(raw[0:2])))
	if numContours < 0 {
		return g, fmt.Errorf("glyf: composite glyphs are not supported")
	}
	pos := GLYF_HEADER_SIZE
	if len(raw) < pos+2*numContours+2 {
		return g, fmt.Errorf("glyf: %w", ErrTruncated)
	}

	endPts := make([]int, numContours)
	for i := range endPts {
		endPts[i] = int(binary.BigEndian.Uint16(raw[pos:]))
		pos += 2
		if i > 0 && endPts[i] <= endPts[i-1] {
			return g, fmt.Errorf("glyf: contour end points not increasing")
		}
	}
	instructionLength := int(binary.BigEndian.Uint16(raw[pos:]))
	pos += 2 + instructionLength

	numPoints := 0
	if numContours > 0 {
		numPoints = endPts[numContours-1] + 1
	}

	flags := make([]byte, 0, numPoints)
	for len(flags) < numPoints {
		if pos >= len(raw) {
			return g, fmt.Errorf("glyf flags: %w", ErrTruncated)
		}
		flag := raw[pos]
		pos++
		flags = append(flags, flag)
		if flag&GLYF_REPEAT != 0 {
			if pos >= len(raw) {
				return g, fmt.Errorf("glyf flags: %w", ErrTruncated)
			}
			for n := int(raw[pos]); n > 0; n-- {
				flags = append(flags, flag)
			}
			pos++
		}
	}

	readCoords := func(shortBit, sameBit byte) ([]int, error) {
		coords := make([]int, numPoints)
		value := 0
		for i := 0; i < numPoints; i++ {
			flag := flags[i]
			switch {
			case flag&shortBit != 0:
				if pos >= len(raw) {
					return nil, fmt.Errorf("glyf coordinates: %w", ErrTruncated)
				}
				delta := int(raw[pos])
				pos++
				if flag&sameBit == 0 {
					delta = -delta
				}
				value += delta
			case flag&sameBit == 0:
				if pos+2 > len(raw) {
					return nil, fmt.Errorf("glyf coordinates: %w", ErrTruncated)
				}
				value += int(int16(binary.BigEndian.Uint16(raw[pos:])))
				pos += 2
			}
			coords[i] = value
		}
		return coords, nil
	}

	xs, err := readCoords(GLYF_X_SHORT, GLYF_X_SAME_OR_POS)
	if err != nil {
		return g, err
	}
	ys, err := readCoords(GLYF_Y_SHORT, GLYF_Y_SAME_OR_POS)
	if err != nil {
		return g, err
	}

	start := 0
	for _, end := range endPts {
		c := make(Contour, 0, end-start+1)
		for i := start; i <= end; i++ {
			c = append(c, Point{X: float64(xs[i]), Y: float64(ys[i]), OnCurve: flags[i]&GLYF_ON_CURVE != 0})
		}
		g.Contours = append(g.Contours, c)
		start = end + 1
	}
	return g, nil
}
