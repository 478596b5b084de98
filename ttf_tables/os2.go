package ttf_tables

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
)

type OS2 struct { //                Offset  Size  Description
	Version             uint16   // 0x00    0x02  Version (4)
	XAvgCharWidth       int16    // 0x02    0x02  Average advance of non zero width glyphs
	UsWeightClass       uint16   // 0x04    0x02  Weight Class (400 regular)
	UsWidthClass        uint16   // 0x06    0x02  Width Class (5 normal)
	FsType              uint16   // 0x08    0x02  Embedding permissions (0 installable)
	YSubscriptXSize     int16    // 0x0A    0x02
	YSubscriptYSize     int16    // 0x0C    0x02
	YSubscriptXOffset   int16    // 0x0E    0x02
	YSubscriptYOffset   int16    // 0x10    0x02
	YSuperscriptXSize   int16    // 0x12    0x02
	YSuperscriptYSize   int16    // 0x14    0x02
	YSuperscriptXOffset int16    // 0x16    0x02
	YSuperscriptYOffset int16    // 0x18    0x02
	YStrikeoutSize      int16    // 0x1A    0x02
	YStrikeoutPosition  int16    // 0x1C    0x02
	SFamilyClass        int16    // 0x1E    0x02  IBM font class (0 none)
	Panose              [10]byte // 0x20    0x0A  PANOSE classification (all 0 any)
	UlUnicodeRange      [4]uint32
	AchVendID           [4]byte  // 0x3A    0x04  Vendor ID
	FsSelection         uint16   // 0x3E    0x02  Style selection flags
	UsFirstCharIndex    uint16   // 0x40    0x02  Smallest mapped code point
	UsLastCharIndex     uint16   // 0x42    0x02  Largest mapped code point
	STypoAscender       int16    // 0x44    0x02
	STypoDescender      int16    // 0x46    0x02
	STypoLineGap        int16    // 0x48    0x02
	UsWinAscent         uint16   // 0x4A    0x02
	UsWinDescent        uint16   // 0x4C    0x02  Positive distance below the baseline
	UlCodePageRange     [2]uint32
	SxHeight            int16  // 0x56    0x02
	SCapHeight          int16  // 0x58    0x02
	UsDefaultChar       uint16 // 0x5A    0x02
	UsBreakChar         uint16 // 0x5C    0x02
	UsMaxContext        uint16 // 0x5E    0x02
}

const (
	OS2_FS_SELECTION_REGULAR   = 1 << 6
	OS2_UNICODE_RANGE_BASIC    = 1 << 0
	OS2_CODE_PAGE_LATIN1       = 1 << 0
	OS2_WEIGHT_REGULAR         = 400
	OS2_WIDTH_NORMAL           = 5
	OS2_FS_TYPE_INSTALLABLE    = 0
	OS2_DEFAULT_VERSION        = 4
	OS2_BREAK_CHAR_SPACE       = 0x20
	OS2_SUBSCRIPT_SIZE_PERMIL  = 650
	OS2_SUBSCRIPT_Y_PERMIL     = 75
	OS2_SUPERSCRIPT_Y_PERMIL   = 350
	OS2_STRIKEOUT_SIZE_PERMIL  = 50
	OS2_STRIKEOUT_Y_PERMIL     = 300
	OS2_VENDOR_ID_PADDING_BYTE = ' '
)

// SetVendor stores the first four bytes of id, space padded.
func (os2 *OS2) SetVendor(id string) {
	for i := range os2.AchVendID {
		os2.AchVendID[i] = OS2_VENDOR_ID_PADDING_BYTE
		if i < len(id) {
			os2.AchVendID[i] = id[i]
		}
	}
}

// setScriptMetrics derives the sub/superscript and strikeout fields as fixed
// fractions of the em square.
func (os2 *OS2) setScriptMetrics(unitsPerEm uint16) {
	permil := func(p int) int16 { return int16(int(unitsPerEm) * p / 1000) }

	os2.YSubscriptXSize = permil(OS2_SUBSCRIPT_SIZE_PERMIL)
	os2.YSubscriptYSize = permil(OS2_SUBSCRIPT_SIZE_PERMIL)
	os2.YSubscriptXOffset = 0
	os2.YSubscriptYOffset = permil(OS2_SUBSCRIPT_Y_PERMIL)
	os2.YSuperscriptXSize = permil(OS2_SUBSCRIPT_SIZE_PERMIL)
	os2.YSuperscriptYSize = permil(OS2_SUBSCRIPT_SIZE_PERMIL)
	os2.YSuperscriptXOffset = 0
	os2.YSuperscriptYOffset = permil(OS2_SUPERSCRIPT_Y_PERMIL)
	os2.YStrikeoutSize = permil(OS2_STRIKEOUT_SIZE_PERMIL)
	os2.YStrikeoutPosition = permil(OS2_STRIKEOUT_Y_PERMIL)
}

// averageWidth is the mean advance over glyphs with a non zero advance.
func averageWidth(metrics []LongHorMetric) int16 {
	total, count := 0, 0
	for _, m := range metrics {
		if m.AdvanceWidth > 0 {
			total += int(m.AdvanceWidth)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int16(total / count)
}

func (os2 *OS2) Encode() []byte {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	binaryWrite(w, os2.Version)
	binaryWrite(w, os2.XAvgCharWidth)
	binaryWrite(w, os2.UsWeightClass)
	binaryWrite(w, os2.UsWidthClass)
	binaryWrite(w, os2.FsType)
	binaryWrite(w, os2.YSubscriptXSize)
	binaryWrite(w, os2.YSubscriptYSize)
	binaryWrite(w, os2.YSubscriptXOffset)
	binaryWrite(w, os2.YSubscriptYOffset)
	binaryWrite(w, os2.YSuperscriptXSize)
	binaryWrite(w, os2.YSuperscriptYSize)
	binaryWrite(w, os2.YSuperscriptXOffset)
	binaryWrite(w, os2.YSuperscriptYOffset)
	binaryWrite(w, os2.YStrikeoutSize)
	binaryWrite(w, os2.YStrikeoutPosition)
	binaryWrite(w, os2.SFamilyClass)
	binaryWrite(w, os2.Panose)
	binaryWrite(w, os2.UlUnicodeRange)
	binaryWrite(w, os2.AchVendID)
	binaryWrite(w, os2.FsSelection)
	binaryWrite(w, os2.UsFirstCharIndex)
	binaryWrite(w, os2.UsLastCharIndex)
	binaryWrite(w, os2.STypoAscender)
	binaryWrite(w, os2.STypoDescender)
	binaryWrite(w, os2.STypoLineGap)
	binaryWrite(w, os2.UsWinAscent)
	binaryWrite(w, os2.UsWinDescent)
	binaryWrite(w, os2.UlCodePageRange)
	binaryWrite(w, os2.SxHeight)
	binaryWrite(w, os2.SCapHeight)
	binaryWrite(w, os2.UsDefaultChar)
	binaryWrite(w, os2.UsBreakChar)
	binaryWrite(w, os2.UsMaxContext)
	w.Flush()

	if Debug {
		pprint(os2)
	}

	assertEqual(OS2_TABLE_SIZE, len(buf.Bytes()))
	return buf.Bytes()
}

// Decode only reads the fields up to and including usWinDescent, which every
// version since 0 carries.
func (os2 *OS2) Decode(raw []byte) error {
	if len(raw) < 78 {
		return fmt.Errorf("OS/2: %w", ErrTruncated)
	}

	os2.Version = binary.BigEndian.Uint16(raw[0:2])
	os2.XAvgCharWidth = int16(binary.BigEndian.Uint16(raw[2:4]))
	os2.UsWeightClass = binary.BigEndian.Uint16(raw[4:6])
	os2.UsWidthClass = binary.BigEndian.Uint16(raw[6:8])
	os2.FsType = binary.BigEndian.Uint16(raw[8:10])
	copy(os2.AchVendID[:], raw[58:62])
	os2.FsSelection = binary.BigEndian.Uint16(raw[62:64])
	os2.UsFirstCharIndex = binary.BigEndian.Uint16(raw[64:66])
	os2.UsLastCharIndex = binary.BigEndian.Uint16(raw[66:68])
	os2.STypoAscender = int16(binary.BigEndian.Uint16(raw[68:70]))
	os2.STypoDescender = int16(binary.BigEndian.Uint16(raw[70:72]))
	os2.STypoLineGap = int16(binary.BigEndian.Uint16(raw[72:74]))
	os2.UsWinAscent = binary.BigEndian.Uint16(raw[74:76])
	os2.UsWinDescent = binary.BigEndian.Uint16(raw[76:78])
	return nil
}
