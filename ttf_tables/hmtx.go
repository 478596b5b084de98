package ttf_tables

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
)

type HMTX struct {
	Metrics []LongHorMetric

	// Number of entries written as full records. The remaining glyphs repeat
	// the last advance and only store their left side bearing.
	NumberOfHMetrics uint16
}

type LongHorMetric struct { //  Offset  Size  Description
	AdvanceWidth    uint16 // 0x00    0x02  Advance width in font units
	LeftSideBearing int16  // 0x02    0x02  Glyph left side bearing (xMin)
}

// compress finds the shortest prefix of full records so that every glyph
// after it shares the advance of the last full record.
func (hmtx *HMTX) compress() {
	n := len(hmtx.Metrics)
	if n == 0 {
		hmtx.NumberOfHMetrics = 0
		return
	}

	last := hmtx.Metrics[n-1].AdvanceWidth
	count := n
	for count > 1 && hmtx.Metrics[count-2].AdvanceWidth == last {
		count--
	}
	hmtx.NumberOfHMetrics = uint16(count)
}

func (hmtx *HMTX) Encode() []byte {
	hmtx.compress()

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	for i, m := range hmtx.Metrics {
		if i < int(hmtx.NumberOfHMetrics) {
			binaryWrite(w, m.AdvanceWidth)
		}
		binaryWrite(w, m.LeftSideBearing)
	}
	w.Flush()

	expected := 4*int(hmtx.NumberOfHMetrics) + 2*(len(hmtx.Metrics)-int(hmtx.NumberOfHMetrics))
	assertEqual(expected, len(buf.Bytes()))

	if Debug {
		fmt.Printf("hmtx: %d glyphs, %d long metrics\n", len(hmtx.Metrics), hmtx.NumberOfHMetrics)
	}
	return buf.Bytes()
}

// Decode reads numGlyphs metrics given the hhea numberOfHMetrics.
func (hmtx *HMTX) Decode(raw []byte, numberOfHMetrics int, numGlyphs int) error {
	expected := 4*numberOfHMetrics + 2*(numGlyphs-numberOfHMetrics)
	if numberOfHMetrics < 1 || numberOfHMetrics > numGlyphs || len(raw) < expected {
		return fmt.Errorf("hmtx: %w", ErrTruncated)
	}

	hmtx.NumberOfHMetrics = uint16(numberOfHMetrics)
	hmtx.Metrics = make([]LongHorMetric, numGlyphs)

	pos := 0
	var advance uint16
	for i := 0; i < numGlyphs; i++ {
		if i < numberOfHMetrics {
			advance = binary.BigEndian.Uint16(raw[pos : pos+2])
			pos += 2
		}
		hmtx.Metrics[i] = LongHorMetric{
			AdvanceWidth:    advance,
			LeftSideBearing: int16(binary.BigEndian.Uint16(raw[pos : pos+2])),
		}
		pos += 2
	}
	return nil
}
