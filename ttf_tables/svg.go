package ttf_tables

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

type SVG struct { //                  Offset  Size  Description
	Version               uint16 // 0x00    0x02  Version (0)
	SVGDocumentListOffset uint32 // 0x02    0x04  From start of the SVG table
	Reserved              uint32 // 0x06    0x04  Reserved (0)
	Documents             []SVGDocument
}

// SVGDocument covers the glyph ids StartGlyphID to EndGlyphID inclusive. The
// document must contain an element with id "glyph<gid>" for every one of them.
type SVGDocument struct {
	StartGlyphID uint16
	EndGlyphID   uint16
	Data         []byte
}

func (svg *SVG) Encode() ([]byte, error) {
	sort.Slice(svg.Documents, func(i, j int) bool {
		return svg.Documents[i].StartGlyphID < svg.Documents[j].StartGlyphID
	})
	for i, doc := range svg.Documents {
		if doc.EndGlyphID < doc.StartGlyphID {
			return nil, fmt.Errorf("svg document %d: end glyph before start glyph", i)
		}
		if i > 0 && doc.StartGlyphID <= svg.Documents[i-1].EndGlyphID {
			return nil, fmt.Errorf("glyph %d: %w", doc.StartGlyphID, ErrSVGOverlap)
		}
	}

	svg.Version = 0
	svg.SVGDocumentListOffset = SVG_HEADER_SIZE
	svg.Reserved = 0

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	binaryWrite(w, svg.Version)
	binaryWrite(w, svg.SVGDocumentListOffset)
	binaryWrite(w, svg.Reserved)
	assertEqual(SVG_HEADER_SIZE, buf.Len())

	// document offsets are relative to the start of the document list.
	// Identical documents share their data.
	binaryWrite(w, uint16(len(svg.Documents)))
	offset := 2 + SVG_DOC_RECORD_SIZE*len(svg.Documents)
	shared := make(map[string]int)
	var docs bytes.Buffer
	for _, doc := range svg.Documents {
		docOffset, ok := shared[string(doc.Data)]
		if !ok {
			docOffset = offset + docs.Len()
			shared[string(doc.Data)] = docOffset
			docs.Write(doc.Data)
		}
		binaryWrite(w, doc.StartGlyphID)
		binaryWrite(w, doc.EndGlyphID)
		binaryWrite(w, uint32(docOffset))
		binaryWrite(w, uint32(len(doc.Data)))
	}
	assertEqual(SVG_HEADER_SIZE+offset, buf.Len())

	_, _ = w.Write(docs.Bytes())
	w.Flush()

	if Debug {
		fmt.Printf("SVG: %d documents, %d bytes\n", len(svg.Documents), buf.Len())
	}
	return buf.Bytes(), nil
}

func (svg *SVG) Decode(raw []byte) error {
	if len(raw) < SVG_HEADER_SIZE {
		return fmt.Errorf("SVG: %w", ErrTruncated)
	}

	svg.Version = binary.BigEndian.Uint16(raw[0:2])
	svg.SVGDocumentListOffset = binary.BigEndian.Uint32(raw[2:6])
	svg.Reserved = binary.BigEndian.Uint32(raw[6:10])

	list := int(svg.SVGDocumentListOffset)
	if list+2 > len(raw) {
		return fmt.Errorf("SVG document list: %w", ErrTruncated)
	}
	count := int(binary.BigEndian.Uint16(raw[list:]))
	if list+2+SVG_DOC_RECORD_SIZE*count > len(raw) {
		return fmt.Errorf("SVG document list: %w", ErrTruncated)
	}

	svg.Documents = make([]SVGDocument, count)
	for i := range svg.Documents {
		rec := raw[list+2+SVG_DOC_RECORD_SIZE*i:]
		start := list + int(binary.BigEndian.Uint32(rec[4:8]))
		end := start + int(binary.BigEndian.Uint32(rec[8:12]))
		if end > len(raw) {
			return fmt.Errorf("SVG document %d: %w", i, ErrTruncated)
		}
		svg.Documents[i] = SVGDocument{
			StartGlyphID: binary.BigEndian.Uint16(rec[0:2]),
			EndGlyphID:   binary.BigEndian.Uint16(rec[2:4]),
			Data:         raw[start:end],
		}
	}
	return nil
}
