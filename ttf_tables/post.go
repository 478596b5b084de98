package ttf_tables

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	POST_FORMAT_2 = 0x00020000
	POST_FORMAT_3 = 0x00030000

	// glyph name indexes below this refer to the standard Macintosh set
	POST_STANDARD_NAMES = 258
)

type POST struct { //             Offset  Size  Description
	Version            uint32 // 0x00    0x04  Format (0x00020000 or 0x00030000)
	ItalicAngle        int32  // 0x04    0x04  Italic angle (16.16 fixed)
	UnderlinePosition  int16  // 0x08    0x02  Underline position
	UnderlineThickness int16  // 0x0A    0x02  Underline thickness
	IsFixedPitch       uint32 // 0x0C    0x04  Non zero for monospaced fonts
	MinMemType42       uint32 // 0x10    0x04
	MaxMemType42       uint32 // 0x14    0x04
	MinMemType1        uint32 // 0x18    0x04
	MaxMemType1        uint32 // 0x1C    0x04

	// Only written for format 2
	GlyphNames []string
}

// standard Macintosh glyph names that can show up in this font
var standardGlyphNames = map[string]uint16{
	".notdef":          0,
	".null":            1,
	"nonmarkingreturn": 2,
	"space":            3,
}

func (post *POST) Encode() ([]byte, error) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	binaryWrite(w, post.Version)
	binaryWrite(w, post.ItalicAngle)
	binaryWrite(w, post.UnderlinePosition)
	binaryWrite(w, post.UnderlineThickness)
	binaryWrite(w, post.IsFixedPitch)
	binaryWrite(w, post.MinMemType42)
	binaryWrite(w, post.MaxMemType42)
	binaryWrite(w, post.MinMemType1)
	binaryWrite(w, post.MaxMemType1)
	w.Flush()
	assertEqual(POST_HEADER_SIZE, len(buf.Bytes()))

	if post.Version == POST_FORMAT_2 {
		if err := post.encodeNames(w); err != nil {
			return nil, err
		}
	}

	if Debug {
		pprint(post)
	}
	return buf.Bytes(), nil
}

// Format 2 glyph name data: a name index per glyph followed by pascal strings
// for every name outside the standard set.
func (post *POST) encodeNames(w *bufio.Writer) error {
	if len(post.GlyphNames) > 0xFFFF {
		return ErrTooManyGlyphs
	}

	binaryWrite(w, uint16(len(post.GlyphNames)))

	var custom []string
	customIndex := make(map[string]uint16)
	for _, glyphName := range post.GlyphNames {
		if index, ok := standardGlyphNames[glyphName]; ok {
			binaryWrite(w, index)
			continue
		}
		index, ok := customIndex[glyphName]
		if !ok {
			if len(glyphName) > 255 {
				return fmt.Errorf("post: glyph name %q longer than 255 bytes", glyphName)
			}
			index = uint16(POST_STANDARD_NAMES + len(custom))
			customIndex[glyphName] = index
			custom = append(custom, glyphName)
		}
		binaryWrite(w, index)
	}

	for _, glyphName := range custom {
		binaryWrite(w, uint8(len(glyphName)))
		_, _ = w.WriteString(glyphName)
	}
	w.Flush()
	return nil
}

func (post *POST) Decode(raw []byte) error {
	if len(raw) < POST_HEADER_SIZE {
		return fmt.Errorf("post: %w", ErrTruncated)
	}

	post.Version = binary.BigEndian.Uint32(raw[0:4])
	post.ItalicAngle = int32(binary.BigEndian.Uint32(raw[4:8]))
	post.UnderlinePosition = int16(binary.BigEndian.Uint16(raw[8:10]))
	post.UnderlineThickness = int16(binary.BigEndian.Uint16(raw[10:12]))
	post.IsFixedPitch = binary.BigEndian.Uint32(raw[12:16])
	post.MinMemType42 = binary.BigEndian.Uint32(raw[16:20])
	post.MaxMemType42 = binary.BigEndian.Uint32(raw[20:24])
	post.MinMemType1 = binary.BigEndian.Uint32(raw[24:28])
	post.MaxMemType1 = binary.BigEndian.Uint32(raw[28:POST_HEADER_SIZE])

	post.GlyphNames = nil
	if post.Version != POST_FORMAT_2 {
		return nil
	}

	data := raw[POST_HEADER_SIZE:]
	if len(data) < 2 {
		return fmt.Errorf("post: %w", ErrTruncated)
	}
	numGlyphs := int(binary.BigEndian.Uint16(data[0:2]))
	if len(data) < 2+2*numGlyphs {
		return fmt.Errorf("post: %w", ErrTruncated)
	}

	indexes := make([]uint16, numGlyphs)
	for i := range indexes {
		indexes[i] = binary.BigEndian.Uint16(data[2+2*i : 4+2*i])
	}

	var custom []string
	for pos := 2 + 2*numGlyphs; pos < len(data); {
		length := int(data[pos])
		if pos+1+length > len(data) {
			return fmt.Errorf("post: %w", ErrTruncated)
		}
		custom = append(custom, string(data[pos+1:pos+1+length]))
		pos += 1 + length
	}

	standardByIndex := make(map[uint16]string, len(standardGlyphNames))
	for glyphName, index := range standardGlyphNames {
		standardByIndex[index] = glyphName
	}
	for _, index := range indexes {
		switch {
		case index >= POST_STANDARD_NAMES && int(index-POST_STANDARD_NAMES) < len(custom):
			post.GlyphNames = append(post.GlyphNames, custom[index-POST_STANDARD_NAMES])
		default:
			post.GlyphNames = append(post.GlyphNames, standardByIndex[index])
		}
	}
	return nil
}
