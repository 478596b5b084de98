package ttf_tables

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

// Color bitmap glyphs. CBDT holds the image data and CBLC locates it. Only a
// single strike with a single index subtable (format 1, 32 bit offsets) and
// PNG image data (format 17) is produced.
const (
	CBDT_MAJOR_VERSION        = 3
	CBDT_MINOR_VERSION        = 0
	CBLC_INDEX_FORMAT_1       = 1
	CBDT_IMAGE_FORMAT_PNG     = 17
	CBLC_FLAG_HORIZONTAL      = 0x01
	CBLC_BIT_DEPTH_COLOR      = 32
	CBDT_DEFAULT_STRIKE_PPEM  = 72
	CBLC_INDEX_SUBTABLE_COUNT = 1
)

type BitmapGlyph struct {
	GlyphID uint16
	PNG     []byte

	// smallGlyphMetrics, in pixels of the strike
	Height   uint8
	Width    uint8
	BearingX int8
	BearingY int8
	Advance  uint8
}

type SbitLineMetrics struct { //         Offset  Size  Description
	Ascender              int8  // 0x00    0x01
	Descender             int8  // 0x01    0x01
	WidthMax              uint8 // 0x02    0x01
	CaretSlopeNumerator   int8  // 0x03    0x01
	CaretSlopeDenominator int8  // 0x04    0x01
	CaretOffset           int8  // 0x05    0x01
	MinOriginSB           int8  // 0x06    0x01
	MinAdvanceSB          int8  // 0x07    0x01
	MaxBeforeBL           int8  // 0x08    0x01
	MinAfterBL            int8  // 0x09    0x01
	Pad1                  int8  // 0x0A    0x01
	Pad2                  int8  // 0x0B    0x01
}

type BitmapSize struct { //             Offset  Size  Description
	IndexSubTableArrayOffset uint32 // 0x00    0x04  From start of CBLC
	IndexTablesSize          uint32 // 0x04    0x04  Array plus subtables in bytes
	NumberOfIndexSubTables   uint32 // 0x08    0x04
	ColorRef                 uint32 // 0x0C    0x04  Unused (0)
	Hori                     SbitLineMetrics
	Vert                     SbitLineMetrics
	StartGlyphIndex          uint16 // 0x28    0x02
	EndGlyphIndex            uint16 // 0x2A    0x02
	PpemX                    uint8  // 0x2C    0x01
	PpemY                    uint8  // 0x2D    0x01
	BitDepth                 uint8  // 0x2E    0x01
	Flags                    int8   // 0x2F    0x01
}

// ColorStrike is one bitmap size worth of color glyphs.
type ColorStrike struct {
	PPEM      uint8
	Ascender  int8
	Descender int8
	Glyphs    []BitmapGlyph

	Size BitmapSize
}

func (s *ColorStrike) lineMetrics() SbitLineMetrics {
	var widthMax uint8
	for _, g := range s.Glyphs {
		widthMax = max(widthMax, g.Width)
	}
	return SbitLineMetrics{
		Ascender:              s.Ascender,
		Descender:             s.Descender,
		WidthMax:              widthMax,
		CaretSlopeNumerator:   1,
		CaretSlopeDenominator: 0,
	}
}

func writeLineMetrics(w *bufio.Writer, m SbitLineMetrics) {
	binaryWrite(w, m.Ascender)
	binaryWrite(w, m.Descender)
	binaryWrite(w, m.WidthMax)
	binaryWrite(w, m.CaretSlopeNumerator)
	binaryWrite(w, m.CaretSlopeDenominator)
	binaryWrite(w, m.CaretOffset)
	binaryWrite(w, m.MinOriginSB)
	binaryWrite(w, m.MinAdvanceSB)
	binaryWrite(w, m.MaxBeforeBL)
	binaryWrite(w, m.MinAfterBL)
	binaryWrite(w, m.Pad1)
	binaryWrite(w, m.Pad2)
}

// Encode returns the CBDT and CBLC tables. Glyph ids between the first and
// last bitmap glyph that have no image get a zero length entry.
func (s *ColorStrike) Encode() (cbdt []byte, cblc []byte, err error) {
	if len(s.Glyphs) == 0 {
		return nil, nil, fmt.Errorf("color strike has no glyphs")
	}
	sort.Slice(s.Glyphs, func(i, j int) bool { return s.Glyphs[i].GlyphID < s.Glyphs[j].GlyphID })
	for i := 1; i < len(s.Glyphs); i++ {
		if s.Glyphs[i].GlyphID == s.Glyphs[i-1].GlyphID {
			return nil, nil, fmt.Errorf("color strike: glyph %d appears twice", s.Glyphs[i].GlyphID)
		}
	}

	first := s.Glyphs[0].GlyphID
	last := s.Glyphs[len(s.Glyphs)-1].GlyphID

	// CBDT: header then one format 17 record per glyph
	var dataBuf bytes.Buffer
	dw := bufio.NewWriter(&dataBuf)
	binaryWrite(dw, uint16(CBDT_MAJOR_VERSION))
	binaryWrite(dw, uint16(CBDT_MINOR_VERSION))
	assertEqual(CBDT_HEADER_SIZE, dataBuf.Len())

	imageDataOffset := uint32(CBDT_HEADER_SIZE)
	sbitOffsets := make([]uint32, 0, int(last-first)+2)
	next := 0
	for gid := int(first); gid <= int(last); gid++ {
		sbitOffsets = append(sbitOffsets, uint32(dataBuf.Len())-imageDataOffset)
		if next >= len(s.Glyphs) || int(s.Glyphs[next].GlyphID) != gid {
			continue
		}
		g := s.Glyphs[next]
		next++

		binaryWrite(dw, g.Height)
		binaryWrite(dw, g.Width)
		binaryWrite(dw, g.BearingX)
		binaryWrite(dw, g.BearingY)
		binaryWrite(dw, g.Advance)
		binaryWrite(dw, uint32(len(g.PNG)))
		_, _ = dw.Write(g.PNG)
		dw.Flush()
	}
	sbitOffsets = append(sbitOffsets, uint32(dataBuf.Len())-imageDataOffset)

	// CBLC: header, one BitmapSize, the subtable array and the format 1 subtable
	arrayOffset := uint32(CBLC_HEADER_SIZE + CBLC_BITMAP_SIZE_SIZE)
	subtableSize := CBLC_INDEX_FORMAT1_HEAD + 4*len(sbitOffsets)
	metrics := s.lineMetrics()
	s.Size = BitmapSize{
		IndexSubTableArrayOffset: arrayOffset,
		IndexTablesSize:          uint32(CBLC_SUBTABLE_ARRAY + subtableSize),
		NumberOfIndexSubTables:   CBLC_INDEX_SUBTABLE_COUNT,
		Hori:                     metrics,
		Vert:                     metrics,
		StartGlyphIndex:          first,
		EndGlyphIndex:            last,
		PpemX:                    s.PPEM,
		PpemY:                    s.PPEM,
		BitDepth:                 CBLC_BIT_DEPTH_COLOR,
		Flags:                    CBLC_FLAG_HORIZONTAL,
	}

	var locBuf bytes.Buffer
	lw := bufio.NewWriter(&locBuf)
	binaryWrite(lw, uint16(CBDT_MAJOR_VERSION))
	binaryWrite(lw, uint16(CBDT_MINOR_VERSION))
	binaryWrite(lw, uint32(1)) // numSizes
	assertEqual(CBLC_HEADER_SIZE, locBuf.Len())

	binaryWrite(lw, s.Size.IndexSubTableArrayOffset)
	binaryWrite(lw, s.Size.IndexTablesSize)
	binaryWrite(lw, s.Size.NumberOfIndexSubTables)
	binaryWrite(lw, s.Size.ColorRef)
	writeLineMetrics(lw, s.Size.Hori)
	writeLineMetrics(lw, s.Size.Vert)
	binaryWrite(lw, s.Size.StartGlyphIndex)
	binaryWrite(lw, s.Size.EndGlyphIndex)
	binaryWrite(lw, s.Size.PpemX)
	binaryWrite(lw, s.Size.PpemY)
	binaryWrite(lw, s.Size.BitDepth)
	binaryWrite(lw, s.Size.Flags)
	assertEqual(int(arrayOffset), locBuf.Len())

	// IndexSubTableArray entry, offset relative to the array start
	binaryWrite(lw, first)
	binaryWrite(lw, last)
	binaryWrite(lw, uint32(CBLC_SUBTABLE_ARRAY))

	binaryWrite(lw, uint16(CBLC_INDEX_FORMAT_1))
	binaryWrite(lw, uint16(CBDT_IMAGE_FORMAT_PNG))
	binaryWrite(lw, imageDataOffset)
	for _, offset := range sbitOffsets {
		binaryWrite(lw, offset)
	}
	lw.Flush()
	assertEqual(int(arrayOffset)+int(s.Size.IndexTablesSize), locBuf.Len())

	if Debug {
		pprint(s.Size)
		fmt.Printf("CBDT %d bytes, CBLC %d bytes, glyphs %d to %d\n", dataBuf.Len(), locBuf.Len(), first, last)
	}
	return dataBuf.Bytes(), locBuf.Bytes(), nil
}

// DecodeColorStrike locates the PNG data of every glyph in the first strike.
// It is the reader side of ColorStrike.Encode.
func DecodeColorStrike(cbdt []byte, cblc []byte) (map[uint16][]byte, error) {
	if len(cblc) < CBLC_HEADER_SIZE+CBLC_BITMAP_SIZE_SIZE || len(cbdt) < CBDT_HEADER_SIZE {
		return nil, fmt.Errorf("CBLC: %w", ErrTruncated)
	}
	if binary.BigEndian.Uint32(cblc[4:8]) == 0 {
		return map[uint16][]byte{}, nil
	}

	size := cblc[CBLC_HEADER_SIZE:]
	arrayOffset := int(binary.BigEndian.Uint32(size[0:4]))
	numSubtables := int(binary.BigEndian.Uint32(size[8:12]))

	images := make(map[uint16][]byte)
	for i := 0; i < numSubtables; i++ {
		entry := arrayOffset + CBLC_SUBTABLE_ARRAY*i
		if entry+CBLC_SUBTABLE_ARRAY > len(cblc) {
			return nil, fmt.Errorf("CBLC subtable array: %w", ErrTruncated)
		}
		first := binary.BigEndian.Uint16(cblc[entry:])
		last := binary.BigEndian.Uint16(cblc[entry+2:])
		sub := arrayOffset + int(binary.BigEndian.Uint32(cblc[entry+4:]))
		if sub+CBLC_INDEX_FORMAT1_HEAD > len(cblc) {
			return nil, fmt.Errorf("CBLC subtable: %w", ErrTruncated)
		}

		indexFormat := binary.BigEndian.Uint16(cblc[sub:])
		imageFormat := binary.BigEndian.Uint16(cblc[sub+2:])
		imageDataOffset := int(binary.BigEndian.Uint32(cblc[sub+4:]))
		if indexFormat != CBLC_INDEX_FORMAT_1 || imageFormat != CBDT_IMAGE_FORMAT_PNG {
			return nil, fmt.Errorf("CBLC: unsupported index format %d image format %d", indexFormat, imageFormat)
		}

		count := int(last) - int(first) + 2
		offsets := cblc[sub+CBLC_INDEX_FORMAT1_HEAD:]
		if len(offsets) < 4*count {
			return nil, fmt.Errorf("CBLC offsets: %w", ErrTruncated)
		}
		for k := 0; k+1 < count; k++ {
			start := imageDataOffset + int(binary.BigEndian.Uint32(offsets[4*k:]))
			end := imageDataOffset + int(binary.BigEndian.Uint32(offsets[4*k+4:]))
			if start == end {
				continue
			}
			if end > len(cbdt) || start+CBDT_SMALL_METRICS_SIZE+4 > end {
				return nil, fmt.Errorf("CBDT glyph %d: %w", int(first)+k, ErrTruncated)
			}
			record := cbdt[start:end]
			length := int(binary.BigEndian.Uint32(record[CBDT_SMALL_METRICS_SIZE:]))
			pngStart := CBDT_SMALL_METRICS_SIZE + 4
			if pngStart+length > len(record) {
				return nil, fmt.Errorf("CBDT glyph %d: %w", int(first)+k, ErrTruncated)
			}
			images[uint16(int(first)+k)] = record[pngStart : pngStart+length]
		}
	}
	return images, nil
}
