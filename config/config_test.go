package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, filepath.Join("font", "phonics_squares.ttf"), cfg.FontPath("squares"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phonics.yaml")
	err := os.WriteFile(path, []byte(`
font_name: Alphabet Pictures
strike_ppem: 109
post_format: 2
words:
  a: ant
  x: xylophone
`), 0o644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Alphabet Pictures", cfg.FontName)
	assert.Equal(t, 109, cfg.StrikePPEM)
	assert.Equal(t, 2, cfg.PostFormat)
	assert.Equal(t, 1000, cfg.UnitsPerEm, "unset fields keep their defaults")
	assert.Equal(t, map[rune]string{'a': "ant", 'x': "xylophone"}, cfg.WordOverrides())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	tests := map[string]string{
		"syntax":     "font_name: [",
		"post":       "post_format: 4",
		"ppem":       "strike_ppem: 300",
		"descent":    "descent: 10",
		"word":       "words: {A: apple}",
		"emptyname":  `font_name: ""`,
		"unitsPerEm": "units_per_em: 8",
		"ascent":     "ascent: 40000",
		"lowDescent": "descent: -40000",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
