package ttf_tables

import (
	"fmt"
)

// DecodedFont is a font file read back table by table. Color tables are
// only filled in when the file has them.
type DecodedFont struct {
	Directory Directory

	HEAD HEAD
	HHEA HHEA
	MAXP MAXP
	HMTX HMTX
	CMAP CMAP
	NAME NAME
	POST POST
	OS2  OS2
	LOCA LOCA

	// outline of every glyph, in glyph id order
	Glyphs []SimpleGlyph

	// PNG data of the color strike by glyph id
	Bitmaps map[uint16][]byte
	SVG     *SVG
}

// DecodeFont reads every table this package writes. With Debug set each table
// is printed once decoded.
func DecodeFont(raw []byte) (*DecodedFont, error) {
	dir, err := DecodeDirectory(raw)
	if err != nil {
		return nil, err
	}
	f := &DecodedFont{Directory: dir}

	table := func(tag string) ([]byte, error) {
		data, ok := dir.Table(raw, tag)
		if !ok {
			return nil, fmt.Errorf("font has no %q table", tag)
		}
		return data, nil
	}

	// head, hhea and maxp print themselves
	for _, t := range []struct {
		tag    string
		decode func([]byte) error
	}{
		{HEAD_TAG, f.HEAD.Decode},
		{HHEA_TAG, f.HHEA.Decode},
		{MAXP_TAG, f.MAXP.Decode},
	} {
		data, err := table(t.tag)
		if err != nil {
			return nil, err
		}
		if err := t.decode(data); err != nil {
			return nil, err
		}
	}
	numGlyphs := int(f.MAXP.NumGlyphs)

	data, err := table(HMTX_TAG)
	if err != nil {
		return nil, err
	}
	if err := f.HMTX.Decode(data, int(f.HHEA.NumberOfHMetrics), numGlyphs); err != nil {
		return nil, err
	}
	data, err = table(LOCA_TAG)
	if err != nil {
		return nil, err
	}
	if err := f.LOCA.Decode(data, f.HEAD.IndexToLocFormat, numGlyphs); err != nil {
		return nil, err
	}
	if err := f.decodeGlyf(raw); err != nil {
		return nil, err
	}

	for _, t := range []struct {
		tag    string
		decode func([]byte) error
		value  interface{}
	}{
		{CMAP_TAG, f.CMAP.Decode, &f.CMAP},
		{NAME_TAG, f.NAME.Decode, &f.NAME},
		{POST_TAG, f.POST.Decode, &f.POST},
		{OS2_TAG, f.OS2.Decode, &f.OS2},
	} {
		data, err := table(t.tag)
		if err != nil {
			return nil, err
		}
		if err := t.decode(data); err != nil {
			return nil, err
		}
		if Debug {
			pprint(t.value)
		}
	}
	if Debug {
		pprint(f.HMTX)
		pprint(f.LOCA)
	}

	cbdt, hasCBDT := dir.Table(raw, CBDT_TAG)
	cblc, hasCBLC := dir.Table(raw, CBLC_TAG)
	if hasCBDT != hasCBLC {
		return nil, fmt.Errorf("font has only one of the CBDT and CBLC tables")
	}
	if hasCBDT {
		f.Bitmaps, err = DecodeColorStrike(cbdt, cblc)
		if err != nil {
			return nil, err
		}
		if Debug {
			fmt.Printf("CBDT: %d bitmap glyphs\n", len(f.Bitmaps))
		}
	}

	if data, ok := dir.Table(raw, SVG_TAG); ok {
		f.SVG = &SVG{}
		if err := f.SVG.Decode(data); err != nil {
			return nil, err
		}
		if Debug {
			for _, doc := range f.SVG.Documents {
				fmt.Printf("SVG: glyphs %d to %d, %d bytes\n", doc.StartGlyphID, doc.EndGlyphID, len(doc.Data))
			}
		}
	}
	return f, nil
}

func (f *DecodedFont) decodeGlyf(raw []byte) error {
	glyf, ok := f.Directory.Table(raw, GLYF_TAG)
	if !ok {
		return fmt.Errorf("font has no %q table", GLYF_TAG)
	}

	offsets := f.LOCA.Offsets
	f.Glyphs = make([]SimpleGlyph, 0, len(offsets)-1)
	for gid := 0; gid+1 < len(offsets); gid++ {
		start, end := offsets[gid], offsets[gid+1]
		if start > end || int(end) > len(glyf) {
			return fmt.Errorf("glyph %d: %w", gid, ErrTruncated)
		}
		g, err := DecodeSimpleGlyph(glyf[start:end])
		if err != nil {
			return fmt.Errorf("glyph %d: %w", gid, err)
		}
		f.Glyphs = append(f.Glyphs, g)
		if Debug {
			fmt.Printf("glyph %-3d %d contours\n", gid, len(g.Contours))
		}
	}
	return nil
}

// FamilyName is the family from the name table.
func (f *DecodedFont) FamilyName() string {
	return f.NAME.Get(NAME_ID_FAMILY)
}
