package ttf_tables

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"golang.org/x/text/encoding/unicode"
)

const (
	NAME_ID_COPYRIGHT   = 0
	NAME_ID_FAMILY      = 1
	NAME_ID_SUBFAMILY   = 2
	NAME_ID_UNIQUE      = 3
	NAME_ID_FULL        = 4
	NAME_ID_VERSION     = 5
	NAME_ID_POSTSCRIPT  = 6
	NAME_ID_MANUFACTURE = 8
	NAME_ID_DESIGNER    = 9
	NAME_ID_DESCRIPTION = 10
	NAME_ID_LICENSE     = 13
	NAME_ID_LICENSE_URL = 14

	PLATFORM_UNICODE = 0
	PLATFORM_WINDOWS = 3

	ENCODING_WINDOWS_BMP = 1
	ENCODING_UNICODE_BMP = 3

	LANGUAGE_EN_US = 0x0409
)

type NAME struct { //       Offset  Size  Description
	Format       uint16 // 0x00    0x02  Format (0)
	Count        uint16 // 0x02    0x02  Number of name records
	StringOffset uint16 // 0x04    0x02  Offset to string storage from start of table
	Records      []NameRecord
}

type NameRecord struct { // Offset  Size  Description
	PlatformID uint16 // 0x00    0x02  Platform ID
	EncodingID uint16 // 0x02    0x02  Platform specific encoding ID
	LanguageID uint16 // 0x04    0x02  Language ID
	NameID     uint16 // 0x06    0x02  Name ID
	Length     uint16 // 0x08    0x02  String length in bytes
	Offset     uint16 // 0x0A    0x02  String offset from start of storage
	Value      string
}

// Set adds or replaces a Windows Unicode BMP, en-US record. Empty values are
// not stored.
func (name *NAME) Set(nameID uint16, value string) {
	for i, r := range name.Records {
		if r.PlatformID == PLATFORM_WINDOWS && r.NameID == nameID {
			if value == "" {
				name.Records = append(name.Records[:i], name.Records[i+1:]...)
			} else {
				name.Records[i].Value = value
			}
			return
		}
	}
	if value == "" {
		return
	}
	name.Records = append(name.Records, NameRecord{
		PlatformID: PLATFORM_WINDOWS,
		EncodingID: ENCODING_WINDOWS_BMP,
		LanguageID: LANGUAGE_EN_US,
		NameID:     nameID,
		Value:      value,
	})
}

func (name *NAME) Get(nameID uint16) string {
	for _, r := range name.Records {
		if r.NameID == nameID {
			return r.Value
		}
	}
	return ""
}

func (name *NAME) Encode() ([]byte, error) {
	sort.Slice(name.Records, func(i, j int) bool {
		a, b := name.Records[i], name.Records[j]
		if a.PlatformID != b.PlatformID {
			return a.PlatformID < b.PlatformID
		}
		if a.EncodingID != b.EncodingID {
			return a.EncodingID < b.EncodingID
		}
		if a.LanguageID != b.LanguageID {
			return a.LanguageID < b.LanguageID
		}
		return a.NameID < b.NameID
	})

	// string storage follows the records. Identical strings share storage.
	var storage bytes.Buffer
	stored := make(map[string]uint16)
	encoder := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	for i, r := range name.Records {
		encoded, err := encoder.Bytes([]byte(r.Value))
		if err != nil {
			return nil, fmt.Errorf("name %d: %w", r.NameID, err)
		}
		if len(encoded) > 0xFFFF {
			return nil, fmt.Errorf("name %d: string too long", r.NameID)
		}
		offset, ok := stored[string(encoded)]
		if !ok {
			offset = uint16(storage.Len())
			stored[string(encoded)] = offset
			storage.Write(encoded)
		}
		name.Records[i].Length = uint16(len(encoded))
		name.Records[i].Offset = offset
	}

	name.Format = 0
	name.Count = uint16(len(name.Records))
	name.StringOffset = uint16(NAME_HEADER_SIZE + NAME_RECORD_SIZE*len(name.Records))

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	binaryWrite(w, name.Format)
	binaryWrite(w, name.Count)
	binaryWrite(w, name.StringOffset)
	for _, r := range name.Records {
		binaryWrite(w, r.PlatformID)
		binaryWrite(w, r.EncodingID)
		binaryWrite(w, r.LanguageID)
		binaryWrite(w, r.NameID)
		binaryWrite(w, r.Length)
		binaryWrite(w, r.Offset)
	}
	assertEqual(int(name.StringOffset), buf.Len())

	_, _ = w.Write(storage.Bytes())
	w.Flush()

	if Debug {
		pprint(name)
	}
	return buf.Bytes(), nil
}

func (name *NAME) Decode(raw []byte) error {
	if len(raw) < NAME_HEADER_SIZE {
		return fmt.Errorf("name: %w", ErrTruncated)
	}

	name.Format = binary.BigEndian.Uint16(raw[0:2])
	name.Count = binary.BigEndian.Uint16(raw[2:4])
	name.StringOffset = binary.BigEndian.Uint16(raw[4:6])
	if len(raw) < NAME_HEADER_SIZE+NAME_RECORD_SIZE*int(name.Count) {
		return fmt.Errorf("name: %w", ErrTruncated)
	}

	decoder := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	name.Records = make([]NameRecord, 0, name.Count)
	for i := 0; i < int(name.Count); i++ {
		rec := raw[NAME_HEADER_SIZE+NAME_RECORD_SIZE*i:]
		r := NameRecord{
			PlatformID: binary.BigEndian.Uint16(rec[0:2]),
			EncodingID: binary.BigEndian.Uint16(rec[2:4]),
			LanguageID: binary.BigEndian.Uint16(rec[4:6]),
			NameID:     binary.BigEndian.Uint16(rec[6:8]),
			Length:     binary.BigEndian.Uint16(rec[8:10]),
			Offset:     binary.BigEndian.Uint16(rec[10:12]),
		}

		start := int(name.StringOffset) + int(r.Offset)
		end := start + int(r.Length)
		if end > len(raw) {
			return fmt.Errorf("name %d: %w", r.NameID, ErrTruncated)
		}
		if r.PlatformID == PLATFORM_WINDOWS || r.PlatformID == PLATFORM_UNICODE {
			value, err := decoder.Bytes(raw[start:end])
			if err != nil {
				return fmt.Errorf("name %d: %w", r.NameID, err)
			}
			r.Value = string(value)
		} else {
			r.Value = string(raw[start:end])
		}
		name.Records = append(name.Records, r)
	}
	return nil
}
