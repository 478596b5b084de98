// Package config holds the settings shared by every font generator. Values
// start from Default, are overlaid by an optional YAML file and finally by
// command line flags.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	FontName string `yaml:"font_name"`
	Style    string `yaml:"style"`
	Vendor   string `yaml:"vendor"`
	Version  string `yaml:"version"`

	UnitsPerEm int `yaml:"units_per_em"`
	Ascent     int `yaml:"ascent"`
	Descent    int `yaml:"descent"`

	ImagesDir string `yaml:"images_dir"`
	SVGDir    string `yaml:"svg_dir"`
	OutputDir string `yaml:"output_dir"`

	// bitmap strike size of the color font in pixels per em
	StrikePPEM int `yaml:"strike_ppem"`
	// 2 keeps glyph names in the post table, 3 drops them
	PostFormat int `yaml:"post_format"`
	// width of glyphs converted from the svg directory
	ConvertAdvance int `yaml:"convert_advance"`

	// picture word per letter, overriding the built-in table
	Words map[string]string `yaml:"words"`

	Copyright    string `yaml:"copyright"`
	Manufacturer string `yaml:"manufacturer"`
	Designer     string `yaml:"designer"`
	Description  string `yaml:"description"`
	License      string `yaml:"license"`
	LicenseURL   string `yaml:"license_url"`

	PotracePath string `yaml:"potrace_path"`
}

func Default() Config {
	return Config{
		FontName:       "PhonicsFont",
		Style:          "squares",
		Vendor:         "NONE",
		Version:        "1.0",
		UnitsPerEm:     1000,
		Ascent:         800,
		Descent:        -200,
		ImagesDir:      "images",
		SVGDir:         "svg",
		OutputDir:      "font",
		StrikePPEM:     72,
		PostFormat:     3,
		ConvertAdvance: 600,
		Copyright:      "Copyright (c) 2025",
		Manufacturer:   "Custom",
		Designer:       "Phonics Project",
		License:        "SIL Open Font License",
		LicenseURL:     "http://scripts.sil.org/OFL",
		PotracePath:    "potrace",
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	if cfg.FontName == "" {
		return errors.New("font_name is empty")
	}
	if cfg.UnitsPerEm < 16 || cfg.UnitsPerEm > 16384 {
		return fmt.Errorf("units_per_em %d outside 16 to 16384", cfg.UnitsPerEm)
	}
	if cfg.Ascent <= 0 || cfg.Descent > 0 {
		return fmt.Errorf("ascent %d must be positive and descent %d not positive", cfg.Ascent, cfg.Descent)
	}
	if cfg.Ascent > math.MaxInt16 || cfg.Descent < math.MinInt16 {
		return fmt.Errorf("ascent %d and descent %d must fit in 16 bits", cfg.Ascent, cfg.Descent)
	}
	if cfg.StrikePPEM <= 0 || cfg.StrikePPEM > 255 {
		return fmt.Errorf("strike_ppem %d outside 1 to 255", cfg.StrikePPEM)
	}
	if cfg.PostFormat != 2 && cfg.PostFormat != 3 {
		return fmt.Errorf("post_format %d must be 2 or 3", cfg.PostFormat)
	}
	if cfg.ConvertAdvance <= 0 {
		return fmt.Errorf("convert_advance %d must be positive", cfg.ConvertAdvance)
	}
	for letter := range cfg.Words {
		if len(letter) != 1 || letter[0] < 'a' || letter[0] > 'z' {
			return fmt.Errorf("words: %q is not a lowercase letter", letter)
		}
	}
	return nil
}

// WordOverrides converts the words map into the form the alphabet package
// takes.
func (cfg Config) WordOverrides() map[rune]string {
	words := make(map[rune]string, len(cfg.Words))
	for letter, word := range cfg.Words {
		if len(letter) == 1 {
			words[rune(letter[0])] = word
		}
	}
	return words
}

// FontPath is where a font of the given variant is written when no explicit
// output is given.
func (cfg Config) FontPath(variant string) string {
	return filepath.Join(cfg.OutputDir, fmt.Sprintf("phonics_%s.ttf", variant))
}
