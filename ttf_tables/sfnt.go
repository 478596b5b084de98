package ttf_tables

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

type OffsetTable struct { //    Offset  Size  Description
	SfntVersion   uint32 // 0x00    0x04  0x00010000 for TrueType outlines
	NumTables     uint16 // 0x04    0x02  Number of tables
	SearchRange   uint16 // 0x06    0x02  16 x 2^floor(log2(numTables))
	EntrySelector uint16 // 0x08    0x02  log2(searchRange/16)
	RangeShift    uint16 // 0x0A    0x02  numTables x 16 - searchRange
}

type TableRecord struct { // Offset  Size  Description
	Tag      string // 0x00    0x04  Table identifier
	Checksum uint32 // 0x04    0x04  Checksum of the table
	Offset   uint32 // 0x08    0x04  From start of the font file
	Length   uint32 // 0x0C    0x04  Unpadded table length
}

// Table bodies are laid out in this order. Unknown tags go last.
var tableOrder = []string{
	HEAD_TAG, HHEA_TAG, MAXP_TAG, OS2_TAG, HMTX_TAG, CMAP_TAG,
	LOCA_TAG, GLYF_TAG, NAME_TAG, POST_TAG, CBDT_TAG, CBLC_TAG, SVG_TAG,
}

func tableRank(tag string) int {
	for i, t := range tableOrder {
		if t == tag {
			return i
		}
	}
	return len(tableOrder)
}

// EncodeTables writes the sfnt wrapper around the given tables: the offset
// table, one record per table sorted by tag, then the table bodies each padded
// to 4 bytes. When a head table is present its checkSumAdjustment is set so
// the whole file sums to 0xB1B0AFBA.
func EncodeTables(tables map[string][]byte) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		assertEqual(4, len(tag))
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	bodyOrder := append([]string(nil), tags...)
	sort.SliceStable(bodyOrder, func(i, j int) bool {
		return tableRank(bodyOrder[i]) < tableRank(bodyOrder[j])
	})

	header := OffsetTable{
		SfntVersion: SFNT_VERSION_TRUETYPE,
		NumTables:   uint16(len(tags)),
	}
	header.SearchRange, header.EntrySelector, header.RangeShift = binarySearchParams(len(tags), TABLE_RECORD_SIZE)

	records := make(map[string]*TableRecord, len(tags))
	offset := SFNT_HEADER_SIZE + TABLE_RECORD_SIZE*len(tags)
	for _, tag := range bodyOrder {
		data := tables[tag]
		if tag == HEAD_TAG && len(data) >= HEAD_CHECKSUM_ADJUST_FIELD+4 {
			// the head checksum is taken with checkSumAdjustment zeroed
			binary.BigEndian.PutUint32(data[HEAD_CHECKSUM_ADJUST_FIELD:], 0)
		}
		records[tag] = &TableRecord{
			Tag:      tag,
			Checksum: Checksum(data),
			Offset:   uint32(offset),
			Length:   uint32(len(data)),
		}
		offset += len(padTo4(append([]byte(nil), data...)))
	}

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	binaryWrite(w, header.SfntVersion)
	binaryWrite(w, header.NumTables)
	binaryWrite(w, header.SearchRange)
	binaryWrite(w, header.EntrySelector)
	binaryWrite(w, header.RangeShift)
	assertEqual(SFNT_HEADER_SIZE, buf.Len())

	for _, tag := range tags {
		r := records[tag]
		_, _ = w.WriteString(r.Tag)
		binaryWrite(w, r.Checksum)
		binaryWrite(w, r.Offset)
		binaryWrite(w, r.Length)
	}
	w.Flush()
	assertEqual(SFNT_HEADER_SIZE+TABLE_RECORD_SIZE*len(tags), buf.Len())

	for _, tag := range bodyOrder {
		assertEqual(int(records[tag].Offset), buf.Len())
		_, _ = w.Write(padTo4(append([]byte(nil), tables[tag]...)))
		w.Flush()
		if Debug {
			printOffsets(tag, int(records[tag].Offset), int(records[tag].Offset+records[tag].Length))
		}
	}

	raw := buf.Bytes()
	if head, ok := records[HEAD_TAG]; ok && head.Length >= HEAD_CHECKSUM_ADJUST_FIELD+4 {
		adjust := uint32(CHECKSUM_MAGIC) - Checksum(raw)
		binary.BigEndian.PutUint32(raw[head.Offset+HEAD_CHECKSUM_ADJUST_FIELD:], adjust)
	}
	return raw
}

// Directory is the decoded table directory of an sfnt file.
type Directory struct {
	Header  OffsetTable
	Records []TableRecord
}

// Table returns the unpadded bytes of the table with the given tag.
func (dir *Directory) Table(raw []byte, tag string) ([]byte, bool) {
	for _, r := range dir.Records {
		if r.Tag == tag {
			return raw[r.Offset : r.Offset+r.Length], true
		}
	}
	return nil, false
}

// DecodeDirectory reads the offset table and table records and verifies every
// table checksum, plus the whole file checksum when a head table is present.
func DecodeDirectory(raw []byte) (Directory, error) {
	var dir Directory
	if len(raw) < SFNT_HEADER_SIZE {
		return dir, fmt.Errorf("sfnt header: %w", ErrTruncated)
	}

	dir.Header = OffsetTable{
		SfntVersion:   binary.BigEndian.Uint32(raw[0:4]),
		NumTables:     binary.BigEndian.Uint16(raw[4:6]),
		SearchRange:   binary.BigEndian.Uint16(raw[6:8]),
		EntrySelector: binary.BigEndian.Uint16(raw[8:10]),
		RangeShift:    binary.BigEndian.Uint16(raw[10:12]),
	}
	if dir.Header.SfntVersion != SFNT_VERSION_TRUETYPE {
		return dir, fmt.Errorf("unsupported sfnt version %#08x", dir.Header.SfntVersion)
	}

	numTables := int(dir.Header.NumTables)
	if len(raw) < SFNT_HEADER_SIZE+TABLE_RECORD_SIZE*numTables {
		return dir, fmt.Errorf("table directory: %w", ErrTruncated)
	}

	for i := 0; i < numTables; i++ {
		rec := raw[SFNT_HEADER_SIZE+TABLE_RECORD_SIZE*i:]
		r := TableRecord{
			Tag:      string(rec[0:4]),
			Checksum: binary.BigEndian.Uint32(rec[4:8]),
			Offset:   binary.BigEndian.Uint32(rec[8:12]),
			Length:   binary.BigEndian.Uint32(rec[12:16]),
		}
		if uint64(r.Offset)+uint64(r.Length) > uint64(len(raw)) {
			return dir, fmt.Errorf("table %q: %w", r.Tag, ErrTruncated)
		}

		data := raw[r.Offset : r.Offset+r.Length]
		sum := Checksum(data)
		if r.Tag == HEAD_TAG && len(data) >= HEAD_CHECKSUM_ADJUST_FIELD+4 {
			sum -= binary.BigEndian.Uint32(data[HEAD_CHECKSUM_ADJUST_FIELD:])
		}
		if sum != r.Checksum {
			return dir, fmt.Errorf("table %q: %w", r.Tag, ErrChecksum)
		}
		dir.Records = append(dir.Records, r)
	}

	if _, ok := dir.Table(raw, HEAD_TAG); ok && Checksum(raw) != CHECKSUM_MAGIC {
		return dir, fmt.Errorf("whole font: %w", ErrChecksum)
	}

	if Debug {
		pprint(dir)
	}
	return dir, nil
}
