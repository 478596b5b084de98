package ttf_tables

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
)

type MAXP struct { //                 Offset  Size  Description
	Version               uint32 // 0x00    0x04  Version (0x00010000 for TrueType outlines)
	NumGlyphs             uint16 // 0x04    0x02  Number of glyphs
	MaxPoints             uint16 // 0x06    0x02  Max points in a simple glyph
	MaxContours           uint16 // 0x08    0x02  Max contours in a simple glyph
	MaxCompositePoints    uint16 // 0x0A    0x02  Max points in a composite glyph
	MaxCompositeContours  uint16 // 0x0C    0x02  Max contours in a composite glyph
	MaxZones              uint16 // 0x0E    0x02  Max Zones (2 when twilight zone is used)
	MaxTwilightPoints     uint16 // 0x10    0x02  Max points in the twilight zone
	MaxStorage            uint16 // 0x12    0x02  Storage area locations
	MaxFunctionDefs       uint16 // 0x14    0x02  Function definitions
	MaxInstructionDefs    uint16 // 0x16    0x02  Instruction definitions
	MaxStackElements      uint16 // 0x18    0x02  Stack depth
	MaxSizeOfInstructions uint16 // 0x1A    0x02  Byte count of glyph instructions
	MaxComponentElements  uint16 // 0x1C    0x02  Components at the top level
	MaxComponentDepth     uint16 // 0x1E    0x02  Levels of recursion
}

func (maxp *MAXP) Decode(raw []byte) error {
	if len(raw) < 6 {
		return fmt.Errorf("maxp: %w", ErrTruncated)
	}

	maxp.Version = binary.BigEndian.Uint32(raw[0:4])
	maxp.NumGlyphs = binary.BigEndian.Uint16(raw[4:6])
	if maxp.Version != 0x00010000 {
		return nil
	}
	if len(raw) < MAXP_TABLE_SIZE {
		return fmt.Errorf("maxp: %w", ErrTruncated)
	}

	fields := []*uint16{
		&maxp.MaxPoints, &maxp.MaxContours, &maxp.MaxCompositePoints, &maxp.MaxCompositeContours,
		&maxp.MaxZones, &maxp.MaxTwilightPoints, &maxp.MaxStorage, &maxp.MaxFunctionDefs,
		&maxp.MaxInstructionDefs, &maxp.MaxStackElements, &maxp.MaxSizeOfInstructions,
		&maxp.MaxComponentElements, &maxp.MaxComponentDepth,
	}
	for i, field := range fields {
		*field = binary.BigEndian.Uint16(raw[6+2*i : 8+2*i])
	}

	if Debug {
		pprint(maxp)
	}
	return nil
}

func (maxp *MAXP) Encode() []byte {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	binaryWrite(w, maxp.Version)
	binaryWrite(w, maxp.NumGlyphs)
	binaryWrite(w, maxp.MaxPoints)
	binaryWrite(w, maxp.MaxContours)
	binaryWrite(w, maxp.MaxCompositePoints)
	binaryWrite(w, maxp.MaxCompositeContours)
	binaryWrite(w, maxp.MaxZones)
	binaryWrite(w, maxp.MaxTwilightPoints)
	binaryWrite(w, maxp.MaxStorage)
	binaryWrite(w, maxp.MaxFunctionDefs)
	binaryWrite(w, maxp.MaxInstructionDefs)
	binaryWrite(w, maxp.MaxStackElements)
	binaryWrite(w, maxp.MaxSizeOfInstructions)
	binaryWrite(w, maxp.MaxComponentElements)
	binaryWrite(w, maxp.MaxComponentDepth)
	w.Flush()

	if Debug {
		pprint(maxp)
	}

	assertEqual(MAXP_TABLE_SIZE, len(buf.Bytes()))
	return buf.Bytes()
}
