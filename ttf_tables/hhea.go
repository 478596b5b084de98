package ttf_tables

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
)

type HHEA struct { //              Offset  Size  Description
	Version             uint32 // 0x00    0x04  Version (0x00010000)
	Ascender            int16  // 0x04    0x02  Typographic ascent
	Descender           int16  // 0x06    0x02  Typographic descent (negative)
	LineGap             int16  // 0x08    0x02  Line Gap
	AdvanceWidthMax     uint16 // 0x0A    0x02  Maximum advance width in hmtx
	MinLeftSideBearing  int16  // 0x0C    0x02  Minimum lsb over glyphs with contours
	MinRightSideBearing int16  // 0x0E    0x02  Minimum advance - lsb - (xMax - xMin)
	XMaxExtent          int16  // 0x10    0x02  Maximum lsb + (xMax - xMin)
	CaretSlopeRise      int16  // 0x12    0x02  Caret Slope Rise (1 for vertical)
	CaretSlopeRun       int16  // 0x14    0x02  Caret Slope Run (0 for vertical)
	CaretOffset         int16  // 0x16    0x02  Caret Offset
	Reserved            [4]int16
	MetricDataFormat    int16  // 0x20    0x02  Metric Data Format (0)
	NumberOfHMetrics    uint16 // 0x22    0x02  Number of long metrics in hmtx
}

func (hhea *HHEA) Decode(raw []byte) error {
	if len(raw) < HHEA_TABLE_SIZE {
		return fmt.Errorf("hhea: %w", ErrTruncated)
	}

	hhea.Version = binary.BigEndian.Uint32(raw[0:4])
	hhea.Ascender = int16(binary.BigEndian.Uint16(raw[4:6]))
	hhea.Descender = int16(binary.BigEndian.Uint16(raw[6:8]))
	hhea.LineGap = int16(binary.BigEndian.Uint16(raw[8:10]))
	hhea.AdvanceWidthMax = binary.BigEndian.Uint16(raw[10:12])
	hhea.MinLeftSideBearing = int16(binary.BigEndian.Uint16(raw[12:14]))
	hhea.MinRightSideBearing = int16(binary.BigEndian.Uint16(raw[14:16]))
	hhea.XMaxExtent = int16(binary.BigEndian.Uint16(raw[16:18]))
	hhea.CaretSlopeRise = int16(binary.BigEndian.Uint16(raw[18:20]))
	hhea.CaretSlopeRun = int16(binary.BigEndian.Uint16(raw[20:22]))
	hhea.CaretOffset = int16(binary.BigEndian.Uint16(raw[22:24]))
	for i := range hhea.Reserved {
		hhea.Reserved[i] = int16(binary.BigEndian.Uint16(raw[24+2*i : 26+2*i]))
	}
	hhea.MetricDataFormat = int16(binary.BigEndian.Uint16(raw[32:34]))
	hhea.NumberOfHMetrics = binary.BigEndian.Uint16(raw[34:HHEA_TABLE_SIZE])

	if Debug {
		pprint(hhea)
	}
	return nil
}

func (hhea *HHEA) Encode() []byte {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	binaryWrite(w, hhea.Version)
	binaryWrite(w, hhea.Ascender)
	binaryWrite(w, hhea.Descender)
	binaryWrite(w, hhea.LineGap)
	binaryWrite(w, hhea.AdvanceWidthMax)
	binaryWrite(w, hhea.MinLeftSideBearing)
	binaryWrite(w, hhea.MinRightSideBearing)
	binaryWrite(w, hhea.XMaxExtent)
	binaryWrite(w, hhea.CaretSlopeRise)
	binaryWrite(w, hhea.CaretSlopeRun)
	binaryWrite(w, hhea.CaretOffset)
	binaryWrite(w, hhea.Reserved)
	binaryWrite(w, hhea.MetricDataFormat)
	binaryWrite(w, hhea.NumberOfHMetrics)
	w.Flush()

	if Debug {
		pprint(hhea)
	}

	assertEqual(HHEA_TABLE_SIZE, len(buf.Bytes()))
	return buf.Bytes()
}

// computeExtents fills the advance and side bearing statistics from the
// horizontal metrics and the glyph bounding boxes. Glyphs without contours do
// not take part in the side bearing minimums.
func (hhea *HHEA) computeExtents(metrics []LongHorMetric, bounds []Bounds) {
	first := true
	hhea.AdvanceWidthMax = 0
	for i, m := range metrics {
		if m.AdvanceWidth > hhea.AdvanceWidthMax {
			hhea.AdvanceWidthMax = m.AdvanceWidth
		}

		b := bounds[i]
		if b.Empty {
			continue
		}
		lsb := b.XMin
		rsb := int16(int(m.AdvanceWidth) - int(lsb) - int(b.XMax-b.XMin))
		extent := int16(int(lsb) + int(b.XMax-b.XMin))
		if first {
			hhea.MinLeftSideBearing, hhea.MinRightSideBearing, hhea.XMaxExtent = lsb, rsb, extent
			first = false
			continue
		}
		if lsb < hhea.MinLeftSideBearing {
			hhea.MinLeftSideBearing = lsb
		}
		if rsb < hhea.MinRightSideBearing {
			hhea.MinRightSideBearing = rsb
		}
		if extent > hhea.XMaxExtent {
			hhea.XMaxExtent = extent
		}
	}
}
