package ttf_tables

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	Debug bool
)

const (
	// number of bytes for each fixed size table or header
	SFNT_HEADER_SIZE        = 12
	TABLE_RECORD_SIZE       = 16
	HEAD_TABLE_SIZE         = 54
	HHEA_TABLE_SIZE         = 36
	MAXP_TABLE_SIZE         = 32
	OS2_TABLE_SIZE          = 96
	POST_HEADER_SIZE        = 32
	NAME_HEADER_SIZE        = 6
	NAME_RECORD_SIZE        = 12
	CMAP_HEADER_SIZE        = 4
	CMAP_ENCODING_SIZE      = 8
	CMAP_FORMAT4_HEADER     = 14
	GLYF_HEADER_SIZE        = 10
	CBLC_HEADER_SIZE        = 8
	CBLC_BITMAP_SIZE_SIZE   = 48
	CBLC_SUBTABLE_ARRAY     = 8
	CBLC_INDEX_FORMAT1_HEAD = 8
	CBDT_HEADER_SIZE        = 4
	CBDT_SMALL_METRICS_SIZE = 5
	SVG_HEADER_SIZE         = 10
	SVG_DOC_RECORD_SIZE     = 12

	HEAD_TAG = "head"
	HHEA_TAG = "hhea"
	HMTX_TAG = "hmtx"
	MAXP_TAG = "maxp"
	NAME_TAG = "name"
	OS2_TAG  = "OS/2"
	POST_TAG = "post"
	CMAP_TAG = "cmap"
	GLYF_TAG = "glyf"
	LOCA_TAG = "loca"
	CBDT_TAG = "CBDT"
	CBLC_TAG = "CBLC"
	SVG_TAG  = "SVG "

	SFNT_VERSION_TRUETYPE = 0x00010000
	HEAD_MAGIC_NUMBER     = 0x5F0F3CF5
	CHECKSUM_MAGIC        = 0xB1B0AFBA

	// seconds between 1904-01-01 (LONGDATETIME epoch) and 1970-01-01
	MAC_EPOCH_OFFSET = 2082844800

	NOTDEF_GLYPH_NAME = ".notdef"
)

var (
	ErrNoGlyphs           = errors.New("font has no glyphs")
	ErrTooManyGlyphs      = errors.New("font has more than 65535 glyphs")
	ErrNotdefFirst        = errors.New("glyph 0 must be .notdef")
	ErrDuplicateCodePoint = errors.New("code point mapped more than once")
	ErrCodePointRange     = errors.New("code point outside the basic multilingual plane")
	ErrCoordinateRange    = errors.New("glyph coordinate does not fit in 16 bits")
	ErrAdvance            = errors.New("advance width must be positive")
	ErrBitmapSize         = errors.New("bitmap glyph larger than 255 pixels")
	ErrSVGOverlap         = errors.New("svg documents overlap in glyph range")
	ErrTruncated          = errors.New("font data truncated")
	ErrChecksum           = errors.New("table checksum mismatch")
	ErrGlyphNameCount     = errors.New("number of glyph names does not match number of outlines")
	ErrMissingGlyph       = errors.New("glyph name has no outline")
	ErrDuplicateGlyph     = errors.New("glyph name used more than once")
)

func assertEqual(expected int, actual int) {
	if expected != actual {
		err := fmt.Errorf("%d(actual) does not equal %d(expected)\n", actual, expected)
		handleErr(err)
	}
}

func handleErr(err error) {
	if err != nil {
		panic(err)
	}
}

// Just a wrapper around binary.Write
func binaryWrite(w *bufio.Writer, data interface{}) {
	err := binary.Write(w, binary.BigEndian, data)
	handleErr(err)

	// just call every time. its easy to forget and end up with missing bytes
	w.Flush()
}

func pprint(s interface{}) {
	jsonBytes, err := json.MarshalIndent(s, "", "  ")
	handleErr(err)

	fmt.Printf("%s\n", string(jsonBytes))
}

// Checksum is the sum of the table read as big endian uint32 values. A table
// that does not end on a 4 byte boundary is summed as if zero padded.
func Checksum(data []byte) uint32 {
	var sum uint32
	full := len(data) &^ 3
	for i := 0; i < full; i += 4 {
		sum += binary.BigEndian.Uint32(data[i : i+4])
	}
	if full < len(data) {
		var last [4]byte
		copy(last[:], data[full:])
		sum += binary.BigEndian.Uint32(last[:])
	}
	return sum
}

// padTo4 returns data extended with zeros up to the next 4 byte boundary.
func padTo4(data []byte) []byte {
	if rem := len(data) % 4; rem != 0 {
		data = append(data, make([]byte, 4-rem)...)
	}
	return data
}

// binarySearchParams computes the searchRange, entrySelector and rangeShift
// triple used by both the table directory and cmap format 4.
func binarySearchParams(count int, unitSize int) (searchRange, entrySelector, rangeShift uint16) {
	power := 1
	for power*2 <= count {
		power *= 2
		entrySelector++
	}
	searchRange = uint16(power * unitSize)
	rangeShift = uint16(count*unitSize) - searchRange
	return searchRange, entrySelector, rangeShift
}

func printOffsets(name string, start int, end int) {
	fmt.Printf("%-6s %-8d to  %d\n", name, start, end)
}
