package ttf_tables

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

// The cmap table maps code points to glyph ids. Only a single format 4
// subtable is written and every encoding record points at it. Format 4 splits
// the mapped code points into segments. A segment covers a run of consecutive
// code points whose glyph ids are also consecutive, so the glyph id is the
// code point plus the segment's idDelta and no glyph id array is needed.
type CMAP struct { //        Offset  Size  Description
	Version   uint16 // 0x00    0x02  Table version (0)
	NumTables uint16 // 0x02    0x02  Number of encoding records
	Encodings []EncodingRecord

	// code point to glyph id
	Mapping map[uint16]uint16
}

type EncodingRecord struct { // Offset  Size  Description
	PlatformID uint16 // 0x00    0x02  Platform ID
	EncodingID uint16 // 0x02    0x02  Platform specific encoding ID
	Offset     uint32 // 0x04    0x04  Subtable offset from start of cmap
}

type CMAPFormat4 struct { //  Offset  Size  Description
	Format        uint16 // 0x00    0x02  Format (4)
	Length        uint16 // 0x02    0x02  Subtable length in bytes
	Language      uint16 // 0x04    0x02  Language (0 for non Mac platforms)
	SegCountX2    uint16 // 0x06    0x02  2 x segCount
	SearchRange   uint16 // 0x08    0x02  2 x 2^floor(log2(segCount))
	EntrySelector uint16 // 0x0A    0x02  log2(searchRange/2)
	RangeShift    uint16 // 0x0C    0x02  segCountX2 - searchRange
	Segments      []Segment
}

type Segment struct {
	StartCode uint16
	EndCode   uint16
	IDDelta   uint16 // added modulo 65536
}

// DefaultEncodings are Windows Unicode BMP and Unicode BMP.
var DefaultEncodings = []EncodingRecord{
	{PlatformID: PLATFORM_UNICODE, EncodingID: ENCODING_UNICODE_BMP},
	{PlatformID: PLATFORM_WINDOWS, EncodingID: ENCODING_WINDOWS_BMP},
}

// BuildSegments groups the mapping into format 4 segments, terminated by the
// required 0xFFFF segment.
func BuildSegments(mapping map[uint16]uint16) []Segment {
	codes := make([]int, 0, len(mapping))
	for code := range mapping {
		if code != 0xFFFF {
			codes = append(codes, int(code))
		}
	}
	sort.Ints(codes)

	segments := make([]Segment, 0)
	for i := 0; i < len(codes); {
		start := uint16(codes[i])
		gid := mapping[start]
		j := i + 1
		for j < len(codes) && codes[j] == codes[j-1]+1 && mapping[uint16(codes[j])] == mapping[uint16(codes[j-1])]+1 {
			j++
		}
		segments = append(segments, Segment{
			StartCode: start,
			EndCode:   uint16(codes[j-1]),
			IDDelta:   gid - start,
		})
		i = j
	}

	segments = append(segments, Segment{StartCode: 0xFFFF, EndCode: 0xFFFF, IDDelta: 1})
	return segments
}

func (cmap *CMAP) EncodeFormat4() []byte {
	segments := BuildSegments(cmap.Mapping)
	segCount := len(segments)

	sub := CMAPFormat4{
		Format:     4,
		Length:     uint16(CMAP_FORMAT4_HEADER + 2 + 8*segCount),
		Language:   0,
		SegCountX2: uint16(2 * segCount),
		Segments:   segments,
	}
	sub.SearchRange, sub.EntrySelector, sub.RangeShift = binarySearchParams(segCount, 2)

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	binaryWrite(w, sub.Format)
	binaryWrite(w, sub.Length)
	binaryWrite(w, sub.Language)
	binaryWrite(w, sub.SegCountX2)
	binaryWrite(w, sub.SearchRange)
	binaryWrite(w, sub.EntrySelector)
	binaryWrite(w, sub.RangeShift)
	for _, s := range segments {
		binaryWrite(w, s.EndCode)
	}
	binaryWrite(w, uint16(0)) // reservedPad
	for _, s := range segments {
		binaryWrite(w, s.StartCode)
	}
	for _, s := range segments {
		binaryWrite(w, s.IDDelta)
	}
	for range segments {
		binaryWrite(w, uint16(0)) // idRangeOffset, unused with delta mapping
	}
	w.Flush()

	if Debug {
		pprint(sub)
	}

	assertEqual(int(sub.Length), len(buf.Bytes()))
	return buf.Bytes()
}

func (cmap *CMAP) Encode() []byte {
	if len(cmap.Encodings) == 0 {
		cmap.Encodings = append([]EncodingRecord(nil), DefaultEncodings...)
	}
	sort.Slice(cmap.Encodings, func(i, j int) bool {
		a, b := cmap.Encodings[i], cmap.Encodings[j]
		if a.PlatformID != b.PlatformID {
			return a.PlatformID < b.PlatformID
		}
		return a.EncodingID < b.EncodingID
	})

	cmap.Version = 0
	cmap.NumTables = uint16(len(cmap.Encodings))
	subtableOffset := uint32(CMAP_HEADER_SIZE + CMAP_ENCODING_SIZE*len(cmap.Encodings))
	subtable := cmap.EncodeFormat4()

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	binaryWrite(w, cmap.Version)
	binaryWrite(w, cmap.NumTables)
	for i := range cmap.Encodings {
		cmap.Encodings[i].Offset = subtableOffset
		binaryWrite(w, cmap.Encodings[i].PlatformID)
		binaryWrite(w, cmap.Encodings[i].EncodingID)
		binaryWrite(w, cmap.Encodings[i].Offset)
	}
	assertEqual(int(subtableOffset), buf.Len())

	_, _ = w.Write(subtable)
	w.Flush()

	return buf.Bytes()
}

// Decode reads the encoding records and the first format 4 subtable found.
func (cmap *CMAP) Decode(raw []byte) error {
	if len(raw) < CMAP_HEADER_SIZE {
		return fmt.Errorf("cmap: %w", ErrTruncated)
	}

	cmap.Version = binary.BigEndian.Uint16(raw[0:2])
	cmap.NumTables = binary.BigEndian.Uint16(raw[2:4])
	if len(raw) < CMAP_HEADER_SIZE+CMAP_ENCODING_SIZE*int(cmap.NumTables) {
		return fmt.Errorf("cmap: %w", ErrTruncated)
	}

	cmap.Encodings = make([]EncodingRecord, cmap.NumTables)
	cmap.Mapping = nil
	for i := range cmap.Encodings {
		rec := raw[CMAP_HEADER_SIZE+CMAP_ENCODING_SIZE*i:]
		cmap.Encodings[i] = EncodingRecord{
			PlatformID: binary.BigEndian.Uint16(rec[0:2]),
			EncodingID: binary.BigEndian.Uint16(rec[2:4]),
			Offset:     binary.BigEndian.Uint32(rec[4:8]),
		}

		offset := int(cmap.Encodings[i].Offset)
		if cmap.Mapping != nil || offset+2 > len(raw) {
			continue
		}
		if binary.BigEndian.Uint16(raw[offset:offset+2]) != 4 {
			continue
		}
		mapping, err := DecodeFormat4(raw[offset:])
		if err != nil {
			return err
		}
		cmap.Mapping = mapping
	}
	return nil
}

// DecodeFormat4 expands a format 4 subtable back into a code point mapping.
// Code points mapping to glyph 0 are left out.
func DecodeFormat4(raw []byte) (map[uint16]uint16, error) {
	if len(raw) < CMAP_FORMAT4_HEADER {
		return nil, fmt.Errorf("cmap format 4: %w", ErrTruncated)
	}

	length := int(binary.BigEndian.Uint16(raw[2:4]))
	segCount := int(binary.BigEndian.Uint16(raw[6:8])) / 2
	if length > len(raw) || length < CMAP_FORMAT4_HEADER+2+8*segCount {
		return nil, fmt.Errorf("cmap format 4: %w", ErrTruncated)
	}

	endCodes := raw[CMAP_FORMAT4_HEADER:]
	startCodes := endCodes[2*segCount+2:]
	idDeltas := startCodes[2*segCount:]
	idRangeOffsets := idDeltas[2*segCount:]

	mapping := make(map[uint16]uint16)
	for i := 0; i < segCount; i++ {
		start := int(binary.BigEndian.Uint16(startCodes[2*i:]))
		end := int(binary.BigEndian.Uint16(endCodes[2*i:]))
		delta := binary.BigEndian.Uint16(idDeltas[2*i:])
		rangeOffset := int(binary.BigEndian.Uint16(idRangeOffsets[2*i:]))

		for code := start; code <= end; code++ {
			var gid uint16
			if rangeOffset == 0 {
				gid = uint16(code) + delta
			} else {
				// glyph id array lookup, relative to this idRangeOffset entry
				pos := 2*i + rangeOffset + 2*(code-start)
				if pos+2 > len(idRangeOffsets) {
					return nil, fmt.Errorf("cmap format 4: %w", ErrTruncated)
				}
				gid = binary.BigEndian.Uint16(idRangeOffsets[pos:])
				if gid != 0 {
					gid += delta
				}
			}
			if gid != 0 {
				mapping[uint16(code)] = gid
			}
		}
	}
	return mapping, nil
}
