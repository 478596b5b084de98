package ttf_tables

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

type HEAD struct { //             Offset  Size  Description
	MajorVersion       uint16 // 0x00    0x02  Major Version (1)
	MinorVersion       uint16 // 0x02    0x02  Minor Version (0)
	FontRevision       uint32 // 0x04    0x04  Font Revision (16.16 fixed)
	CheckSumAdjustment uint32 // 0x08    0x04  0xB1B0AFBA minus the checksum of the whole font
	MagicNumber        uint32 // 0x0C    0x04  Magic Number (0x5F0F3CF5)
	Flags              uint16 // 0x10    0x02  Flags
	UnitsPerEm         uint16 // 0x12    0x02  Units per em (16 to 16384)
	Created            int64  // 0x14    0x08  Created (seconds since 1904-01-01)
	Modified           int64  // 0x1C    0x08  Modified (seconds since 1904-01-01)
	XMin               int16  // 0x24    0x02  Bounding box of all glyphs
	YMin               int16  // 0x26    0x02
	XMax               int16  // 0x28    0x02
	YMax               int16  // 0x2A    0x02
	MacStyle           uint16 // 0x2C    0x02  Mac Style (bold, italic, ...)
	LowestRecPPEM      uint16 // 0x2E    0x02  Smallest readable size in pixels
	FontDirectionHint  int16  // 0x30    0x02  Font Direction Hint (deprecated, 2)
	IndexToLocFormat   int16  // 0x32    0x02  0 for short loca offsets, 1 for long
	GlyphDataFormat    int16  // 0x34    0x02  Glyph Data Format (0)
}

const (
	HEAD_FLAG_BASELINE_AT_Y0   = 1 << 0
	HEAD_FLAG_LSB_AT_X0        = 1 << 1
	HEAD_FLAG_INTEGER_PPEM     = 1 << 3
	HEAD_CHECKSUM_ADJUST_FIELD = 8
)

// LongDateTime converts t into the sfnt LONGDATETIME representation. The zero
// time is kept as zero so output stays reproducible.
func LongDateTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix() + MAC_EPOCH_OFFSET
}

func (head *HEAD) Decode(raw []byte) error {
	if len(raw) < HEAD_TABLE_SIZE {
		return fmt.Errorf("head: %w", ErrTruncated)
	}

	head.MajorVersion = binary.BigEndian.Uint16(raw[0:2])
	head.MinorVersion = binary.BigEndian.Uint16(raw[2:4])
	head.FontRevision = binary.BigEndian.Uint32(raw[4:8])
	head.CheckSumAdjustment = binary.BigEndian.Uint32(raw[8:12])
	head.MagicNumber = binary.BigEndian.Uint32(raw[12:16])
	head.Flags = binary.BigEndian.Uint16(raw[16:18])
	head.UnitsPerEm = binary.BigEndian.Uint16(raw[18:20])
	head.Created = int64(binary.BigEndian.Uint64(raw[20:28]))
	head.Modified = int64(binary.BigEndian.Uint64(raw[28:36]))
	head.XMin = int16(binary.BigEndian.Uint16(raw[36:38]))
	head.YMin = int16(binary.BigEndian.Uint16(raw[38:40]))
	head.XMax = int16(binary.BigEndian.Uint16(raw[40:42]))
	head.YMax = int16(binary.BigEndian.Uint16(raw[42:44]))
	head.MacStyle = binary.BigEndian.Uint16(raw[44:46])
	head.LowestRecPPEM = binary.BigEndian.Uint16(raw[46:48])
	head.FontDirectionHint = int16(binary.BigEndian.Uint16(raw[48:50]))
	head.IndexToLocFormat = int16(binary.BigEndian.Uint16(raw[50:52]))
	head.GlyphDataFormat = int16(binary.BigEndian.Uint16(raw[52:HEAD_TABLE_SIZE]))

	if head.MagicNumber != HEAD_MAGIC_NUMBER {
		return fmt.Errorf("head: bad magic number %#x", head.MagicNumber)
	}

	if Debug {
		pprint(head)
	}
	return nil
}

func (head *HEAD) Encode() []byte {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	binaryWrite(w, head.MajorVersion)
	binaryWrite(w, head.MinorVersion)
	binaryWrite(w, head.FontRevision)
	binaryWrite(w, head.CheckSumAdjustment)
	binaryWrite(w, head.MagicNumber)
	binaryWrite(w, head.Flags)
	binaryWrite(w, head.UnitsPerEm)
	binaryWrite(w, head.Created)
	binaryWrite(w, head.Modified)
	binaryWrite(w, head.XMin)
	binaryWrite(w, head.YMin)
	binaryWrite(w, head.XMax)
	binaryWrite(w, head.YMax)
	binaryWrite(w, head.MacStyle)
	binaryWrite(w, head.LowestRecPPEM)
	binaryWrite(w, head.FontDirectionHint)
	binaryWrite(w, head.IndexToLocFormat)
	binaryWrite(w, head.GlyphDataFormat)
	w.Flush()

	if Debug {
		pprint(head)
	}

	assertEqual(HEAD_TABLE_SIZE, len(buf.Bytes()))
	return buf.Bytes()
}
