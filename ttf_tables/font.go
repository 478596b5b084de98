package ttf_tables

import (
	"fmt"
	"strings"
	"time"
)

const (
	DEFAULT_UNITS_PER_EM = 1000
	DEFAULT_ASCENT       = 800
	DEFAULT_DESCENT      = -200
	DEFAULT_X_HEIGHT     = 500
	DEFAULT_CAP_HEIGHT   = 700
	DEFAULT_VENDOR       = "NONE"
	DEFAULT_VERSION      = "1.0"
	DEFAULT_SUBFAMILY    = "Regular"

	HEAD_LOWEST_REC_PPEM       = 8
	HEAD_FONT_DIRECTION_HINT   = 2
	POST_UNDERLINE_POSITION    = -75
	POST_UNDERLINE_THICKNESS   = 50
	MAXP_ZONES_NO_TWILIGHT     = 2
	FIXED_ONE                  = 0x00010000
	HHEA_CARET_SLOPE_RISE      = 1
	HHEA_CARET_SLOPE_RUN       = 0
	HEAD_FLAGS                 = HEAD_FLAG_BASELINE_AT_Y0 | HEAD_FLAG_LSB_AT_X0 | HEAD_FLAG_INTEGER_PPEM
	MAX_GLYPHS                 = 0xFFFF
	NAME_POSTSCRIPT_SEPARATOR  = "-"
	NAME_FULL_NAME_SEPARATOR   = " "
	NAME_VERSION_STRING_PREFIX = "Version "
)

// FontInfo holds everything about the font that does not come from the
// glyphs themselves.
type FontInfo struct {
	FamilyName string
	Subfamily  string
	Version    string
	Vendor     string

	UnitsPerEm uint16
	Ascent     int16
	Descent    int16 // negative, below the baseline
	XHeight    int16
	CapHeight  int16

	// POST_FORMAT_2 keeps glyph names in the font, anything else writes format 3
	PostFormat uint32
	Created    time.Time

	Copyright    string
	Manufacturer string
	Designer     string
	Description  string
	License      string
	LicenseURL   string
}

// Glyph is one outline glyph. CodePoint 0 leaves the glyph unmapped.
type Glyph struct {
	Name      string
	CodePoint rune
	Contours  []Contour
	Advance   int
}

type Font struct {
	Info FontInfo

	// GlyphOrder decides glyph ids. Glyphs holds the outline for each name.
	GlyphOrder []string
	Glyphs     map[string]Glyph

	// optional color data
	Strike *ColorStrike
	SVG    *SVG

	// filled in by Encode
	HEAD HEAD
	HHEA HHEA
	HMTX HMTX
	MAXP MAXP
	OS2  OS2
	POST POST
	CMAP CMAP
	NAME NAME
	LOCA LOCA
}

func NewFont(info FontInfo) *Font {
	if info.UnitsPerEm == 0 {
		info.UnitsPerEm = DEFAULT_UNITS_PER_EM
	}
	if info.Ascent == 0 && info.Descent == 0 {
		info.Ascent, info.Descent = DEFAULT_ASCENT, DEFAULT_DESCENT
	}
	if info.XHeight == 0 {
		info.XHeight = DEFAULT_X_HEIGHT
	}
	if info.CapHeight == 0 {
		info.CapHeight = DEFAULT_CAP_HEIGHT
	}
	if info.Subfamily == "" {
		info.Subfamily = DEFAULT_SUBFAMILY
	}
	if info.Version == "" {
		info.Version = DEFAULT_VERSION
	}
	if info.Vendor == "" {
		info.Vendor = DEFAULT_VENDOR
	}
	if info.PostFormat != POST_FORMAT_2 {
		info.PostFormat = POST_FORMAT_3
	}

	return &Font{
		Info:   info,
		Glyphs: make(map[string]Glyph),
	}
}

// AddGlyph appends g to the glyph order and returns its glyph id.
func (f *Font) AddGlyph(g Glyph) (uint16, error) {
	if _, ok := f.Glyphs[g.Name]; ok {
		return 0, fmt.Errorf("%q: %w", g.Name, ErrDuplicateGlyph)
	}
	if len(f.GlyphOrder) >= MAX_GLYPHS {
		return 0, ErrTooManyGlyphs
	}
	f.GlyphOrder = append(f.GlyphOrder, g.Name)
	f.Glyphs[g.Name] = g
	return uint16(len(f.GlyphOrder) - 1), nil
}

// GlyphID returns the position of name in the glyph order.
func (f *Font) GlyphID(name string) (uint16, bool) {
	for i, n := range f.GlyphOrder {
		if n == name {
			return uint16(i), true
		}
	}
	return 0, false
}

// NumGlyphs is the number of glyphs the encoded font will contain.
func (f *Font) NumGlyphs() int {
	return len(f.GlyphOrder)
}

func (f *Font) PostScriptName() string {
	family := strings.ReplaceAll(f.Info.FamilyName, " ", "")
	return family + NAME_POSTSCRIPT_SEPARATOR + strings.ReplaceAll(f.Info.Subfamily, " ", "")
}

func (f *Font) validate() error {
	if len(f.GlyphOrder) == 0 {
		return ErrNoGlyphs
	}
	if len(f.GlyphOrder) > MAX_GLYPHS {
		return ErrTooManyGlyphs
	}
	if len(f.GlyphOrder) != len(f.Glyphs) {
		return fmt.Errorf("%w: %d names, %d outlines", ErrGlyphNameCount, len(f.GlyphOrder), len(f.Glyphs))
	}
	if f.GlyphOrder[0] != NOTDEF_GLYPH_NAME {
		return ErrNotdefFirst
	}

	seen := make(map[rune]string)
	for _, name := range f.GlyphOrder {
		g, ok := f.Glyphs[name]
		if !ok {
			return fmt.Errorf("%q: %w", name, ErrMissingGlyph)
		}
		if g.Advance <= 0 || g.Advance > 0xFFFF {
			return fmt.Errorf("%q advance %d: %w", name, g.Advance, ErrAdvance)
		}
		if g.CodePoint == 0 {
			continue
		}
		if g.CodePoint < 0 || g.CodePoint >= 0xFFFF {
			return fmt.Errorf("%q U+%04X: %w", name, g.CodePoint, ErrCodePointRange)
		}
		if other, ok := seen[g.CodePoint]; ok {
			return fmt.Errorf("U+%04X in %q and %q: %w", g.CodePoint, other, name, ErrDuplicateCodePoint)
		}
		seen[g.CodePoint] = name
	}
	return nil
}

// Tables encodes every table of the font without the sfnt wrapper.
func (f *Font) Tables() (map[string][]byte, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	info := f.Info
	numGlyphs := len(f.GlyphOrder)

	simple := make([]SimpleGlyph, numGlyphs)
	for i, name := range f.GlyphOrder {
		simple[i] = SimpleGlyph{Contours: f.Glyphs[name].Contours}
	}
	glyf, loca, bounds, err := EncodeGlyf(simple)
	if err != nil {
		return nil, err
	}
	f.LOCA = loca

	// hmtx, and the bounding box and point maximums for head and maxp
	f.HMTX = HMTX{Metrics: make([]LongHorMetric, numGlyphs)}
	f.MAXP = MAXP{
		Version:   FIXED_ONE,
		NumGlyphs: uint16(numGlyphs),
		MaxZones:  MAXP_ZONES_NO_TWILIGHT,
	}
	var box Bounds
	box.Empty = true
	mapping := make(map[uint16]uint16)
	for i, name := range f.GlyphOrder {
		g := f.Glyphs[name]
		b := bounds[i]
		m := LongHorMetric{AdvanceWidth: uint16(g.Advance)}
		if !b.Empty {
			m.LeftSideBearing = b.XMin
			if box.Empty {
				box = Bounds{XMin: b.XMin, YMin: b.YMin, XMax: b.XMax, YMax: b.YMax}
			} else {
				box.XMin, box.YMin = min(box.XMin, b.XMin), min(box.YMin, b.YMin)
				box.XMax, box.YMax = max(box.XMax, b.XMax), max(box.YMax, b.YMax)
			}
			f.MAXP.MaxPoints = max(f.MAXP.MaxPoints, uint16(b.NumPoints))
			f.MAXP.MaxContours = max(f.MAXP.MaxContours, uint16(b.NumContours))
		}
		f.HMTX.Metrics[i] = m
		if g.CodePoint != 0 {
			mapping[uint16(g.CodePoint)] = uint16(i)
		}
	}
	hmtx := f.HMTX.Encode()

	f.HEAD = HEAD{
		MajorVersion:      1,
		MinorVersion:      0,
		FontRevision:      FIXED_ONE,
		MagicNumber:       HEAD_MAGIC_NUMBER,
		Flags:             HEAD_FLAGS,
		UnitsPerEm:        info.UnitsPerEm,
		Created:           LongDateTime(info.Created),
		Modified:          LongDateTime(info.Created),
		XMin:              box.XMin,
		YMin:              box.YMin,
		XMax:              box.XMax,
		YMax:              box.YMax,
		LowestRecPPEM:     HEAD_LOWEST_REC_PPEM,
		FontDirectionHint: HEAD_FONT_DIRECTION_HINT,
		IndexToLocFormat:  loca.Format,
	}

	f.HHEA = HHEA{
		Version:          FIXED_ONE,
		Ascender:         info.Ascent,
		Descender:        info.Descent,
		CaretSlopeRise:   HHEA_CARET_SLOPE_RISE,
		CaretSlopeRun:    HHEA_CARET_SLOPE_RUN,
		NumberOfHMetrics: f.HMTX.NumberOfHMetrics,
	}
	f.HHEA.computeExtents(f.HMTX.Metrics, bounds)

	f.CMAP = CMAP{Mapping: mapping}

	f.OS2 = OS2{
		Version:         OS2_DEFAULT_VERSION,
		XAvgCharWidth:   averageWidth(f.HMTX.Metrics),
		UsWeightClass:   OS2_WEIGHT_REGULAR,
		UsWidthClass:    OS2_WIDTH_NORMAL,
		FsType:          OS2_FS_TYPE_INSTALLABLE,
		FsSelection:     OS2_FS_SELECTION_REGULAR,
		STypoAscender:   info.Ascent,
		STypoDescender:  info.Descent,
		UsWinAscent:     uint16(max(info.Ascent, box.YMax, 0)),
		UsWinDescent:    uint16(max(-info.Descent, -box.YMin, 0)),
		SxHeight:        info.XHeight,
		SCapHeight:      info.CapHeight,
		UsBreakChar:     OS2_BREAK_CHAR_SPACE,
		UlUnicodeRange:  [4]uint32{OS2_UNICODE_RANGE_BASIC, 0, 0, 0},
		UlCodePageRange: [2]uint32{OS2_CODE_PAGE_LATIN1, 0},
	}
	f.OS2.SetVendor(info.Vendor)
	f.OS2.setScriptMetrics(info.UnitsPerEm)
	first := true
	for code := range mapping {
		if first || code < f.OS2.UsFirstCharIndex {
			f.OS2.UsFirstCharIndex = code
		}
		if first || code > f.OS2.UsLastCharIndex {
			f.OS2.UsLastCharIndex = code
		}
		first = false
	}

	f.POST = POST{
		Version:            info.PostFormat,
		UnderlinePosition:  POST_UNDERLINE_POSITION,
		UnderlineThickness: POST_UNDERLINE_THICKNESS,
	}
	if info.PostFormat == POST_FORMAT_2 {
		f.POST.GlyphNames = append([]string(nil), f.GlyphOrder...)
	}
	post, err := f.POST.Encode()
	if err != nil {
		return nil, err
	}

	f.NAME = NAME{}
	psName := f.PostScriptName()
	f.NAME.Set(NAME_ID_COPYRIGHT, info.Copyright)
	f.NAME.Set(NAME_ID_FAMILY, info.FamilyName)
	f.NAME.Set(NAME_ID_SUBFAMILY, info.Subfamily)
	f.NAME.Set(NAME_ID_UNIQUE, psName)
	f.NAME.Set(NAME_ID_FULL, info.FamilyName+NAME_FULL_NAME_SEPARATOR+info.Subfamily)
	f.NAME.Set(NAME_ID_VERSION, NAME_VERSION_STRING_PREFIX+info.Version)
	f.NAME.Set(NAME_ID_POSTSCRIPT, psName)
	f.NAME.Set(NAME_ID_MANUFACTURE, info.Manufacturer)
	f.NAME.Set(NAME_ID_DESIGNER, info.Designer)
	f.NAME.Set(NAME_ID_DESCRIPTION, info.Description)
	f.NAME.Set(NAME_ID_LICENSE, info.License)
	f.NAME.Set(NAME_ID_LICENSE_URL, info.LicenseURL)
	name, err := f.NAME.Encode()
	if err != nil {
		return nil, err
	}

	tables := map[string][]byte{
		HEAD_TAG: f.HEAD.Encode(),
		HHEA_TAG: f.HHEA.Encode(),
		HMTX_TAG: hmtx,
		MAXP_TAG: f.MAXP.Encode(),
		OS2_TAG:  f.OS2.Encode(),
		POST_TAG: post,
		CMAP_TAG: f.CMAP.Encode(),
		NAME_TAG: name,
		GLYF_TAG: glyf,
		LOCA_TAG: f.LOCA.Encode(),
	}

	if f.Strike != nil && len(f.Strike.Glyphs) > 0 {
		cbdt, cblc, err := f.Strike.Encode()
		if err != nil {
			return nil, err
		}
		tables[CBDT_TAG] = cbdt
		tables[CBLC_TAG] = cblc
	}
	if f.SVG != nil && len(f.SVG.Documents) > 0 {
		svg, err := f.SVG.Encode()
		if err != nil {
			return nil, err
		}
		tables[SVG_TAG] = svg
	}
	return tables, nil
}

// Encode returns the complete font file.
func (f *Font) Encode() ([]byte, error) {
	tables, err := f.Tables()
	if err != nil {
		return nil, err
	}

	if Debug {
		fmt.Println("Byte offsets start(inclusive) to end(exclusive)================")
	}
	return EncodeTables(tables), nil
}
