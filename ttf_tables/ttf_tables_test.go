package ttf_tables

import (
	"encoding/binary"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x0, y0, x1, y1 float64) Contour {
	return Contour{
		{X: x0, Y: y0, OnCurve: true},
		{X: x0, Y: y1, OnCurve: true},
		{X: x1, Y: y1, OnCurve: true},
		{X: x1, Y: y0, OnCurve: true},
	}
}

func testFont(t *testing.T, postFormat uint32) *Font {
	f := NewFont(FontInfo{FamilyName: "Test Font", PostFormat: postFormat, Designer: "Phonics Project"})
	_, err := f.AddGlyph(Glyph{Name: NOTDEF_GLYPH_NAME, Contours: []Contour{square(50, 50, 450, 450)}, Advance: 500})
	require.NoError(t, err)
	for i, r := range "abc" {
		gid, err := f.AddGlyph(Glyph{
			Name:      fmt.Sprintf("uni%04X", r),
			CodePoint: r,
			Contours:  []Contour{square(50, 50, 450+float64(100*i), 450)},
			Advance:   1000,
		})
		require.NoError(t, err)
		assert.Equal(t, uint16(i+1), gid)
	}
	return f
}

func TestFontTables(t *testing.T) {
	f := testFont(t, POST_FORMAT_2)
	raw, err := f.Encode()
	require.NoError(t, err)

	dir, err := DecodeDirectory(raw)
	require.NoError(t, err)
	assert.Equal(t, uint16(10), dir.Header.NumTables)
	assert.Equal(t, uint32(CHECKSUM_MAGIC), Checksum(raw), "whole font checksum")
	for i := 1; i < len(dir.Records); i++ {
		assert.Less(t, dir.Records[i-1].Tag, dir.Records[i].Tag, "records sorted by tag")
	}
	for _, r := range dir.Records {
		assert.Zero(t, r.Offset%4, "table %q is not 4 byte aligned", r.Tag)
	}

	table := func(tag string) []byte {
		data, ok := dir.Table(raw, tag)
		require.True(t, ok, "missing table %q", tag)
		return data
	}

	var head HEAD
	require.NoError(t, head.Decode(table(HEAD_TAG)))
	assert.Equal(t, table(HEAD_TAG), head.Encode(), "head encoding did not produce the correct results")
	assert.Equal(t, uint16(1000), head.UnitsPerEm)
	assert.Equal(t, uint16(0x000B), head.Flags)
	assert.Equal(t, int16(LOCA_SHORT), head.IndexToLocFormat)
	assert.Equal(t, [4]int16{50, 50, 650, 450}, [4]int16{head.XMin, head.YMin, head.XMax, head.YMax})

	var hhea HHEA
	require.NoError(t, hhea.Decode(table(HHEA_TAG)))
	assert.Equal(t, table(HHEA_TAG), hhea.Encode(), "hhea encoding did not produce the correct results")
	assert.Equal(t, int16(800), hhea.Ascender)
	assert.Equal(t, int16(-200), hhea.Descender)
	assert.Equal(t, uint16(1000), hhea.AdvanceWidthMax)
	assert.Equal(t, uint16(2), hhea.NumberOfHMetrics)

	var maxp MAXP
	require.NoError(t, maxp.Decode(table(MAXP_TAG)))
	assert.Equal(t, table(MAXP_TAG), maxp.Encode(), "maxp encoding did not produce the correct results")
	assert.Equal(t, uint16(4), maxp.NumGlyphs)
	assert.Equal(t, uint16(4), maxp.MaxPoints)
	assert.Equal(t, uint16(1), maxp.MaxContours)

	var hmtx HMTX
	require.NoError(t, hmtx.Decode(table(HMTX_TAG), int(hhea.NumberOfHMetrics), int(maxp.NumGlyphs)))
	assert.Equal(t, table(HMTX_TAG), hmtx.Encode(), "hmtx encoding did not produce the correct results")
	for _, m := range hmtx.Metrics {
		assert.Positive(t, m.AdvanceWidth)
		assert.Equal(t, int16(50), m.LeftSideBearing)
	}

	var cmap CMAP
	require.NoError(t, cmap.Decode(table(CMAP_TAG)))
	assert.Equal(t, table(CMAP_TAG), cmap.Encode(), "cmap encoding did not produce the correct results")
	if diff := cmp.Diff(map[uint16]uint16{'a': 1, 'b': 2, 'c': 3}, cmap.Mapping); diff != "" {
		t.Errorf("cmap mapping mismatch (-want +got):\n%s", diff)
	}

	var name NAME
	require.NoError(t, name.Decode(table(NAME_TAG)))
	assert.Equal(t, table(NAME_TAG), mustEncode(t, name.Encode), "name encoding did not produce the correct results")
	assert.Equal(t, "Test Font", name.Get(NAME_ID_FAMILY))
	assert.Equal(t, "TestFont-Regular", name.Get(NAME_ID_POSTSCRIPT))
	assert.Equal(t, "Version 1.0", name.Get(NAME_ID_VERSION))
	assert.Equal(t, "Phonics Project", name.Get(NAME_ID_DESIGNER))
	assert.Equal(t, "", name.Get(NAME_ID_LICENSE))

	var post POST
	require.NoError(t, post.Decode(table(POST_TAG)))
	assert.Equal(t, table(POST_TAG), mustEncode(t, post.Encode), "post encoding did not produce the correct results")
	assert.Equal(t, []string{".notdef", "uni0061", "uni0062", "uni0063"}, post.GlyphNames)

	var loca LOCA
	require.NoError(t, loca.Decode(table(LOCA_TAG), head.IndexToLocFormat, int(maxp.NumGlyphs)))
	assert.Equal(t, table(LOCA_TAG), loca.Encode(), "loca encoding did not produce the correct results")

	glyf := table(GLYF_TAG)
	for gid, name := range f.GlyphOrder {
		g, err := DecodeSimpleGlyph(glyf[loca.Offsets[gid]:loca.Offsets[gid+1]])
		require.NoError(t, err)
		if diff := cmp.Diff(f.Glyphs[name].Contours, g.Contours); diff != "" {
			t.Errorf("glyph %q mismatch (-want +got):\n%s", name, diff)
		}
	}

	var os2 OS2
	require.NoError(t, os2.Decode(table(OS2_TAG)))
	assert.Equal(t, uint16('a'), os2.UsFirstCharIndex)
	assert.Equal(t, uint16('c'), os2.UsLastCharIndex)
	assert.Equal(t, [4]byte{'N', 'O', 'N', 'E'}, os2.AchVendID)
	assert.Equal(t, uint16(800), os2.UsWinAscent)
	assert.Equal(t, uint16(200), os2.UsWinDescent)
	assert.Len(t, table(OS2_TAG), OS2_TABLE_SIZE)
}

func mustEncode(t *testing.T, encode func() ([]byte, error)) []byte {
	raw, err := encode()
	require.NoError(t, err)
	return raw
}

func TestPostFormat3(t *testing.T) {
	f := testFont(t, 0)
	tables, err := f.Tables()
	require.NoError(t, err)
	assert.Len(t, tables[POST_TAG], POST_HEADER_SIZE)
	assert.Equal(t, uint32(POST_FORMAT_3), binary.BigEndian.Uint32(tables[POST_TAG]))
}

func TestCorruptTable(t *testing.T) {
	raw, err := testFont(t, 0).Encode()
	require.NoError(t, err)

	dir, err := DecodeDirectory(raw)
	require.NoError(t, err)
	for _, r := range dir.Records {
		if r.Tag == GLYF_TAG {
			raw[r.Offset+GLYF_HEADER_SIZE] ^= 0xFF
		}
	}

	_, err = DecodeDirectory(raw)
	assert.ErrorIs(t, err, ErrChecksum)

	_, err = DecodeDirectory(raw[:SFNT_HEADER_SIZE+4])
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestFontValidation(t *testing.T) {
	_, err := NewFont(FontInfo{FamilyName: "Empty"}).Encode()
	assert.ErrorIs(t, err, ErrNoGlyphs)

	f := NewFont(FontInfo{FamilyName: "No Notdef"})
	_, err = f.AddGlyph(Glyph{Name: "uni0061", CodePoint: 'a', Contours: []Contour{square(0, 0, 10, 10)}, Advance: 100})
	require.NoError(t, err)
	_, err = f.Encode()
	assert.ErrorIs(t, err, ErrNotdefFirst)

	f = testFont(t, 0)
	_, err = f.AddGlyph(Glyph{Name: "uni0061", Advance: 100})
	assert.ErrorIs(t, err, ErrDuplicateGlyph)

	f = testFont(t, 0)
	_, err = f.AddGlyph(Glyph{Name: "second_a", CodePoint: 'a', Advance: 100})
	require.NoError(t, err)
	_, err = f.Encode()
	assert.ErrorIs(t, err, ErrDuplicateCodePoint)

	f = testFont(t, 0)
	_, err = f.AddGlyph(Glyph{Name: "zero", Advance: 0})
	require.NoError(t, err)
	_, err = f.Encode()
	assert.ErrorIs(t, err, ErrAdvance)

	f = testFont(t, 0)
	_, err = f.AddGlyph(Glyph{Name: "huge", Contours: []Contour{square(0, 0, 40000, 10)}, Advance: 100})
	require.NoError(t, err)
	_, err = f.Encode()
	assert.ErrorIs(t, err, ErrCoordinateRange)

	f = testFont(t, 0)
	f.Glyphs["orphan"] = Glyph{Name: "orphan", Advance: 100}
	_, err = f.Encode()
	assert.ErrorIs(t, err, ErrGlyphNameCount)

	f = testFont(t, 0)
	_, err = f.AddGlyph(Glyph{Name: "astral", CodePoint: 0x1F34E, Advance: 100})
	require.NoError(t, err)
	_, err = f.Encode()
	assert.ErrorIs(t, err, ErrCodePointRange)
}

func TestEmptyGlyph(t *testing.T) {
	f := testFont(t, 0)
	_, err := f.AddGlyph(Glyph{Name: "space", CodePoint: ' ', Advance: 250})
	require.NoError(t, err)
	raw, err := f.Encode()
	require.NoError(t, err)

	dir, err := DecodeDirectory(raw)
	require.NoError(t, err)
	locaRaw, _ := dir.Table(raw, LOCA_TAG)
	var loca LOCA
	require.NoError(t, loca.Decode(locaRaw, LOCA_SHORT, 5))
	assert.Equal(t, loca.Offsets[4], loca.Offsets[5], "empty glyph takes no glyf bytes")
}

func TestSimpleGlyph(t *testing.T) {
	g := SimpleGlyph{Contours: []Contour{
		{
			{X: -300, Y: -120, OnCurve: true},
			{X: 700, Y: -120, OnCurve: false},
			{X: 700, Y: 880, OnCurve: true},
			{X: 700, Y: 880, OnCurve: true},
			{X: 10, Y: 5, OnCurve: false},
			{X: 12, Y: 9, OnCurve: false},
		},
		{
			{X: 100.4, Y: 100.6, OnCurve: true},
			{X: 200, Y: 100, OnCurve: true},
			{X: 150, Y: 300, OnCurve: true},
		},
	}}

	raw, bounds, err := g.Encode()
	require.NoError(t, err)
	assert.Equal(t, Bounds{XMin: -300, YMin: -120, XMax: 700, YMax: 880, NumPoints: 9, NumContours: 2}, bounds)

	decoded, err := DecodeSimpleGlyph(raw)
	require.NoError(t, err)

	want := g.Contours
	want[1][0] = Point{X: 100, Y: 101, OnCurve: true}
	if diff := cmp.Diff(want, decoded.Contours); diff != "" {
		t.Errorf("glyph mismatch (-want +got):\n%s", diff)
	}

	empty := SimpleGlyph{Contours: []Contour{{}}}
	raw, bounds, err = empty.Encode()
	require.NoError(t, err)
	assert.Empty(t, raw)
	assert.True(t, bounds.Empty)
}

func TestSimpleGlyphDeltaRange(t *testing.T) {
	// both ends fit in 16 bits but the step between them does not
	g := SimpleGlyph{Contours: []Contour{{
		{X: -30000, Y: 0, OnCurve: true},
		{X: 30000, Y: 0, OnCurve: true},
		{X: 30000, Y: 100, OnCurve: true},
	}}}
	_, _, err := g.Encode()
	assert.ErrorIs(t, err, ErrCoordinateRange)

	g = SimpleGlyph{Contours: []Contour{{
		{X: 0, Y: -20000, OnCurve: true},
		{X: 10, Y: 12767, OnCurve: true},
		{X: 20, Y: 0, OnCurve: true},
	}}}
	raw, _, err := g.Encode()
	require.NoError(t, err)
	decoded, err := DecodeSimpleGlyph(raw)
	require.NoError(t, err)
	assert.Equal(t, g.Contours, decoded.Contours)
}

func TestDecodeFont(t *testing.T) {
	f := testFont(t, POST_FORMAT_2)
	f.Strike = &ColorStrike{PPEM: CBDT_DEFAULT_STRIKE_PPEM, Glyphs: []BitmapGlyph{{GlyphID: 2, PNG: []byte{1, 2, 3}}}}
	f.SVG = &SVG{Documents: []SVGDocument{{StartGlyphID: 1, EndGlyphID: 1, Data: []byte(`<svg id="glyph1"/>`)}}}
	raw, err := f.Encode()
	require.NoError(t, err)

	Debug = true
	decoded, err := DecodeFont(raw)
	Debug = false
	require.NoError(t, err)

	assert.Equal(t, "Test Font", decoded.FamilyName())
	assert.Equal(t, uint16(1000), decoded.HEAD.UnitsPerEm)
	assert.Equal(t, uint16(4), decoded.MAXP.NumGlyphs)
	assert.Len(t, decoded.HMTX.Metrics, 4)
	assert.Equal(t, uint16(3), decoded.CMAP.Mapping['c'])
	assert.Equal(t, f.GlyphOrder, decoded.POST.GlyphNames)
	assert.Equal(t, uint16('a'), decoded.OS2.UsFirstCharIndex)
	require.Len(t, decoded.Glyphs, 4)
	for gid, name := range f.GlyphOrder {
		if diff := cmp.Diff(f.Glyphs[name].Contours, decoded.Glyphs[gid].Contours); diff != "" {
			t.Errorf("glyph %q mismatch (-want +got):\n%s", name, diff)
		}
	}
	assert.Equal(t, map[uint16][]byte{2: {1, 2, 3}}, decoded.Bitmaps)
	require.NotNil(t, decoded.SVG)
	require.Len(t, decoded.SVG.Documents, 1)
	assert.Equal(t, `<svg id="glyph1"/>`, string(decoded.SVG.Documents[0].Data))

	// a font without color tables has none decoded
	plain, err := testFont(t, 0).Encode()
	require.NoError(t, err)
	decoded, err = DecodeFont(plain)
	require.NoError(t, err)
	assert.Nil(t, decoded.Bitmaps)
	assert.Nil(t, decoded.SVG)

	tables, err := testFont(t, 0).Tables()
	require.NoError(t, err)
	delete(tables, HMTX_TAG)
	_, err = DecodeFont(EncodeTables(tables))
	assert.ErrorContains(t, err, HMTX_TAG)
}

func TestCmapSegments(t *testing.T) {
	mapping := map[uint16]uint16{}
	for i := uint16(0); i < 26; i++ {
		mapping['a'+i] = i + 1
	}
	mapping['!'] = 40

	segments := BuildSegments(mapping)
	expected := []Segment{
		{StartCode: '!', EndCode: '!', IDDelta: 40 - '!'},
		{StartCode: 'a', EndCode: 'z', IDDelta: uint16(0x10000 + 1 - 'a')},
		{StartCode: 0xFFFF, EndCode: 0xFFFF, IDDelta: 1},
	}
	assert.Equal(t, expected, segments)

	cmap := CMAP{Mapping: mapping}
	raw := cmap.Encode()
	assert.Equal(t, uint16(2), binary.BigEndian.Uint16(raw[2:4]))
	// both encoding records point at the same subtable
	assert.Equal(t, raw[8:12], raw[16:20])

	decoded, err := DecodeFormat4(raw[CMAP_HEADER_SIZE+2*CMAP_ENCODING_SIZE:])
	require.NoError(t, err)
	assert.Equal(t, mapping, decoded)
}

func TestHmtxCompress(t *testing.T) {
	hmtx := HMTX{Metrics: []LongHorMetric{{500, 50}, {1000, 0}, {1000, 10}, {1000, -5}}}
	raw := hmtx.Encode()
	assert.Equal(t, uint16(2), hmtx.NumberOfHMetrics)
	assert.Len(t, raw, 4*2+2*2)

	var decoded HMTX
	require.NoError(t, decoded.Decode(raw, 2, 4))
	assert.Equal(t, hmtx.Metrics, decoded.Metrics)
}

func TestLocaShort(t *testing.T) {
	loca := LOCA{Format: LOCA_SHORT, Offsets: []uint32{0, 20, 20, 48}}
	assert.Equal(t, []byte{0, 0, 0, 10, 0, 10, 0, 24}, loca.Encode())

	glyphs := make([]SimpleGlyph, 2)
	_, loca, _, err := EncodeGlyf(glyphs)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 0, 0}, loca.Offsets)
	assert.Equal(t, int16(LOCA_SHORT), loca.Format)
}

func TestBinarySearchParams(t *testing.T) {
	searchRange, entrySelector, rangeShift := binarySearchParams(10, TABLE_RECORD_SIZE)
	assert.Equal(t, []uint16{128, 3, 32}, []uint16{searchRange, entrySelector, rangeShift})

	searchRange, entrySelector, rangeShift = binarySearchParams(2, 2)
	assert.Equal(t, []uint16{4, 1, 0}, []uint16{searchRange, entrySelector, rangeShift})
}

func TestColorStrike(t *testing.T) {
	strike := ColorStrike{
		PPEM:      72,
		Ascender:  58,
		Descender: -14,
		Glyphs: []BitmapGlyph{
			{GlyphID: 3, PNG: []byte("third glyph png"), Width: 72, Height: 60, BearingY: 58, Advance: 72},
			{GlyphID: 1, PNG: []byte("first"), Width: 70, Height: 72, BearingY: 58, Advance: 72},
		},
	}

	cbdt, cblc, err := strike.Encode()
	require.NoError(t, err)
	assert.Len(t, cblc, CBLC_HEADER_SIZE+CBLC_BITMAP_SIZE_SIZE+CBLC_SUBTABLE_ARRAY+CBLC_INDEX_FORMAT1_HEAD+4*4)
	assert.Len(t, cbdt, CBDT_HEADER_SIZE+2*(CBDT_SMALL_METRICS_SIZE+4)+len("first")+len("third glyph png"))
	assert.Equal(t, uint16(1), strike.Size.StartGlyphIndex)
	assert.Equal(t, uint16(3), strike.Size.EndGlyphIndex)
	assert.Equal(t, uint8(72), strike.Size.Hori.WidthMax)
	assert.Equal(t, uint32(CBLC_HEADER_SIZE+CBLC_BITMAP_SIZE_SIZE), binary.BigEndian.Uint32(cblc[8:12]))

	images, err := DecodeColorStrike(cbdt, cblc)
	require.NoError(t, err)
	expected := map[uint16][]byte{
		1: []byte("first"),
		3: []byte("third glyph png"),
	}
	if diff := cmp.Diff(expected, images); diff != "" {
		t.Errorf("color strike mismatch (-want +got):\n%s", diff)
	}

	strike.Glyphs = append(strike.Glyphs, BitmapGlyph{GlyphID: 3})
	_, _, err = strike.Encode()
	assert.Error(t, err)
}

func TestSVGTable(t *testing.T) {
	svg := SVG{Documents: []SVGDocument{
		{StartGlyphID: 2, EndGlyphID: 2, Data: []byte(`<svg id="glyph2"/>`)},
		{StartGlyphID: 1, EndGlyphID: 1, Data: []byte(`<svg id="glyph1"/>`)},
	}}
	raw, err := svg.Encode()
	require.NoError(t, err)

	var decoded SVG
	require.NoError(t, decoded.Decode(raw))
	assert.Equal(t, uint32(SVG_HEADER_SIZE), decoded.SVGDocumentListOffset)
	require.Len(t, decoded.Documents, 2)
	assert.Equal(t, uint16(1), decoded.Documents[0].StartGlyphID)
	assert.Equal(t, `<svg id="glyph1"/>`, string(decoded.Documents[0].Data))
	assert.Equal(t, `<svg id="glyph2"/>`, string(decoded.Documents[1].Data))

	svg.Documents = append(svg.Documents, SVGDocument{StartGlyphID: 1, EndGlyphID: 2})
	_, err = svg.Encode()
	assert.ErrorIs(t, err, ErrSVGOverlap)
}

func TestColorTablesInFont(t *testing.T) {
	f := testFont(t, 0)
	f.Strike = &ColorStrike{PPEM: CBDT_DEFAULT_STRIKE_PPEM, Glyphs: []BitmapGlyph{{GlyphID: 2, PNG: []byte{1, 2, 3}}}}
	f.SVG = &SVG{Documents: []SVGDocument{{StartGlyphID: 1, EndGlyphID: 1, Data: []byte("<svg/>")}}}

	raw, err := f.Encode()
	require.NoError(t, err)
	dir, err := DecodeDirectory(raw)
	require.NoError(t, err)

	for _, tag := range []string{CBDT_TAG, CBLC_TAG, SVG_TAG} {
		_, ok := dir.Table(raw, tag)
		assert.True(t, ok, "missing table %q", tag)
	}
}

func TestLongDateTime(t *testing.T) {
	var zero HEAD
	assert.Zero(t, zero.Created)
	assert.Equal(t, int64(MAC_EPOCH_OFFSET), LongDateTime(time.Unix(0, 0)))
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}
