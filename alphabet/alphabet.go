// Package alphabet describes the 26 lowercase letters the fonts cover and the
// picture word that goes with each of them.
package alphabet

import (
	"fmt"
	"unicode"

	"phonicsfont/ttf_tables"
)

const (
	FIRST_LETTER = 'a'
	LAST_LETTER  = 'z'
	NUM_LETTERS  = LAST_LETTER - FIRST_LETTER + 1
)

type Letter struct {
	Char      rune
	CodePoint uint16
	GlyphName string
	Word      string
	Index     int // 0 for a
}

func (l Letter) Upper() string {
	return string(unicode.ToUpper(l.Char))
}

func (l Letter) String() string {
	return fmt.Sprintf("%c (%s)", l.Char, l.Word)
}

var DefaultWords = map[rune]string{
	'a': "apple", 'b': "ball", 'c': "cat", 'd': "dog", 'e': "elephant",
	'f': "fish", 'g': "giraffe", 'h': "house", 'i': "igloo", 'j': "jellyfish",
	'k': "kite", 'l': "lion", 'm': "monkey", 'n': "nest", 'o': "octopus",
	'p': "penguin", 'q': "queen", 'r': "rabbit", 's': "snake", 't': "tiger",
	'u': "umbrella", 'v': "violin", 'w': "watermelon", 'x': "xylophone", 'y': "yacht",
	'z': "zebra",
}

// GlyphName is the uniXXXX name for r.
func GlyphName(r rune) string {
	return fmt.Sprintf("uni%04X", r)
}

// Letters returns a to z in order. words overrides the built-in picture words
// and may be nil.
func Letters(words map[rune]string) []Letter {
	letters := make([]Letter, 0, NUM_LETTERS)
	for r := rune(FIRST_LETTER); r <= LAST_LETTER; r++ {
		word, ok := words[r]
		if !ok || word == "" {
			word = DefaultWords[r]
		}
		letters = append(letters, Letter{
			Char:      r,
			CodePoint: uint16(r),
			GlyphName: GlyphName(r),
			Word:      word,
			Index:     int(r - FIRST_LETTER),
		})
	}
	return letters
}

// GlyphOrder puts .notdef first and then one glyph per letter, so the glyph
// id of a letter is its index plus one.
func GlyphOrder(letters []Letter) []string {
	order := make([]string, 0, len(letters)+1)
	order = append(order, ttf_tables.NOTDEF_GLYPH_NAME)
	for _, l := range letters {
		order = append(order, l.GlyphName)
	}
	return order
}

// GlyphID is the glyph id the letter gets in GlyphOrder.
func (l Letter) GlyphID() uint16 {
	return uint16(l.Index + 1)
}

// Find returns the letter for r.
func Find(letters []Letter, r rune) (Letter, bool) {
	for _, l := range letters {
		if l.Char == r {
			return l, true
		}
	}
	return Letter{}, false
}
