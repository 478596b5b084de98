package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/tdewolff/argp"

	"phonicsfont/alphabet"
	"phonicsfont/config"
	"phonicsfont/fontgen"
	"phonicsfont/glyphs"
	"phonicsfont/images"
	"phonicsfont/logger"
	"phonicsfont/preview"
	"phonicsfont/sheet"
	"phonicsfont/ttf_tables"
	"phonicsfont/verify"
)

type Root struct{}

// Font builds one font variant. Every variant has its own command sharing
// these options, the variant it builds is kept in fontVariants.
type Font struct {
	Config string `desc:"YAML config file"`
	Output string `short:"o" desc:"Output font file"`
	Name   string `desc:"Font family name"`
	Debug  bool   `short:"d" desc:"Enable debug output"`
}

var fontVariants = map[*Font]string{}

func newFontCommand(variant string) *Font {
	cmd := &Font{}
	fontVariants[cmd] = variant
	return cmd
}

type Samples struct {
	Config string `desc:"YAML config file"`
	Debug  bool   `short:"d" desc:"Enable debug output"`
}

type Sheet struct {
	Config  string `desc:"YAML config file"`
	Output  string `short:"o" desc:"Output PNG file"`
	Variant string `short:"v" desc:"Font variant to draw"`
	Cell    int    `default:"128" desc:"Cell size in pixels"`
	Columns int    `default:"9" desc:"Cells per row"`
	Debug   bool   `short:"d" desc:"Draw cell borders and baselines"`
}

type Preview struct {
	Config  string `desc:"YAML config file"`
	Output  string `short:"o" desc:"Output HTML file"`
	Variant string `short:"v" desc:"Font variant to show"`
	Name    string `desc:"Font family name"`
	Open    bool   `desc:"Open the page in a browser"`
	Debug   bool   `short:"d" desc:"Enable debug output"`
}

type Inspect struct {
	Input string `index:"0" desc:"Font file"`
	Debug bool   `short:"d" desc:"Print every decoded table"`
}

var descriptions = map[string]string{
	fontgen.SQUARES:  "Font of filled squares",
	fontgen.PATTERNS: "Font of geometric patterns, vowels are circles",
	fontgen.PICTURES: "Font of simple outline pictures",
	fontgen.COLOR:    "Picture font with a color bitmap strike",
	fontgen.SVG:      "Font with SVG color glyphs",
	fontgen.TRACE:    "Trace the sample pictures into outlines with potrace",
	fontgen.CONVERT:  "Font from the SVG drawings in the svg directory",
}

type command struct {
	name, description string
	cmd               argp.Cmd
}

func commands() []command {
	cmds := []command{}
	for _, variant := range fontgen.Variants() {
		cmds = append(cmds, command{variant, descriptions[variant], newFontCommand(variant)})
	}
	return append(cmds,
		command{"samples", "Write sample pictures that are missing", &Samples{}},
		command{"sheet", "Draw every glyph of a font variant into a PNG", &Sheet{}},
		command{"preview", "Write an HTML page showing a font variant", &Preview{}},
		command{"inspect", "List the tables of a font file and check its glyphs", &Inspect{}},
	)
}

func newRoot() *argp.Argp {
	root := argp.NewCmd(&Root{}, "Phonics picture font generator")
	for _, c := range commands() {
		root.AddCmd(c.cmd, c.name, c.description)
	}
	return root
}

var ctx = context.Background()

func main() {
	// Parse exits the process, so the first interrupt cancels ctx and the
	// second one gets the default behaviour back
	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(ctx)
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		signal.Stop(interrupt)
		cancel()
	}()

	logger.SetEcho(os.Stderr)

	root := newRoot()
	root.Parse()
	root.PrintHelp()
}

func (cmd *Root) Run() error {
	return argp.ShowUsage
}

func setDebug(debug bool) {
	ttf_tables.Debug = debug
	sheet.Debug = debug
}

func loadConfig(path, name string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if name != "" {
		cfg.FontName = name
	}
	return cfg, cfg.Validate()
}

func buildAndSave(cfg config.Config, variant, output string) (*ttf_tables.Font, string, error) {
	f, err := fontgen.Build(ctx, cfg, variant)
	if err != nil {
		return nil, "", err
	}
	if output == "" {
		output = cfg.FontPath(variant)
	}
	raw, err := fontgen.Save(f, output)
	if err != nil {
		return nil, "", err
	}

	report, err := verify.Check(raw)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", output, err)
	}
	logger.Logf(logger.Allow, "verify", "%s: %d glyphs, every letter has an outline", output, report.NumGlyphs)
	return f, output, nil
}

func (cmd *Font) Run() error {
	variant, ok := fontVariants[cmd]
	if !ok {
		return fmt.Errorf("font command without a variant")
	}
	setDebug(cmd.Debug)
	cfg, err := loadConfig(cmd.Config, cmd.Name)
	if err != nil {
		return err
	}
	_, output, err := buildAndSave(cfg, variant, cmd.Output)
	if err != nil {
		return err
	}
	fmt.Println(output)
	return nil
}

func (cmd *Samples) Run() error {
	setDebug(cmd.Debug)
	cfg, err := loadConfig(cmd.Config, "")
	if err != nil {
		return err
	}
	n, err := images.EnsureSamples(cfg.ImagesDir, alphabet.Letters(cfg.WordOverrides()))
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d sample pictures to %s\n", n, cfg.ImagesDir)
	return nil
}

func variantOrStyle(variant string, cfg config.Config) string {
	if variant != "" {
		return variant
	}
	if cfg.Style != "" {
		return cfg.Style
	}
	return glyphs.SQUARES
}

func writeSheet(f *ttf_tables.Font, path string, cell, columns int) error {
	m := sheet.Metrics{UnitsPerEm: int(f.Info.UnitsPerEm), Descent: int(f.Info.Descent)}
	img, err := sheet.Render(fontgen.Outlines(f), m, cell, columns)
	if err != nil {
		return err
	}
	return sheet.WritePNG(path, img)
}

func (cmd *Sheet) Run() error {
	setDebug(cmd.Debug)
	cfg, err := loadConfig(cmd.Config, "")
	if err != nil {
		return err
	}
	variant := variantOrStyle(cmd.Variant, cfg)

	f, err := fontgen.Build(ctx, cfg, variant)
	if err != nil {
		return err
	}
	output := cmd.Output
	if output == "" {
		output = filepath.Join(cfg.OutputDir, fmt.Sprintf("sheet_%s.png", variant))
	}
	if err := writeSheet(f, output, cmd.Cell, cmd.Columns); err != nil {
		return err
	}
	fmt.Println(output)
	return nil
}

func (cmd *Preview) Run() error {
	setDebug(cmd.Debug)
	cfg, err := loadConfig(cmd.Config, cmd.Name)
	if err != nil {
		return err
	}
	variant := variantOrStyle(cmd.Variant, cfg)
	letters := alphabet.Letters(cfg.WordOverrides())

	if _, err := images.EnsureSamples(cfg.ImagesDir, letters); err != nil {
		return err
	}
	f, fontPath, err := buildAndSave(cfg, variant, "")
	if err != nil {
		return err
	}
	sheetPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("sheet_%s.png", variant))
	if err := writeSheet(f, sheetPath, sheet.DEFAULT_CELL_SIZE, sheet.DEFAULT_COLUMNS); err != nil {
		return err
	}

	output := cmd.Output
	if output == "" {
		output = filepath.Join(cfg.OutputDir, "preview.html")
	}
	drawings, err := preview.Thumbnails(cfg.SVGDir, filepath.Join(cfg.OutputDir, "drawings"), letters)
	if err != nil {
		return err
	}
	page := preview.Page{
		Title:     cfg.FontName,
		FontPath:  fontPath,
		SheetPath: sheetPath,
		ImagesDir: cfg.ImagesDir,
		Letters:   letters,
		Drawings:  drawings,
	}
	if err := preview.Write(output, page); err != nil {
		return err
	}
	fmt.Println(output)

	if cmd.Open {
		return preview.Open(output)
	}
	return nil
}

func (cmd *Inspect) Run() error {
	if cmd.Input == "" {
		return argp.ShowUsage
	}
	setDebug(cmd.Debug)
	raw, err := os.ReadFile(cmd.Input)
	if err != nil {
		return err
	}

	f, err := ttf_tables.DecodeFont(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Input, err)
	}
	fmt.Printf("%s: %d tables\n", cmd.Input, f.Directory.Header.NumTables)
	for _, r := range f.Directory.Records {
		fmt.Printf("  %q  offset %8d  length %8d  checksum %#08x\n", r.Tag, r.Offset, r.Length, r.Checksum)
	}
	fmt.Printf("glyf: %d outlines, loca %s\n", len(f.Glyphs), locaFormat(f.LOCA.Format))
	if f.Bitmaps != nil {
		fmt.Printf("CBDT: %d bitmaps\n", len(f.Bitmaps))
	}
	if f.SVG != nil {
		fmt.Printf("SVG: %d documents\n", len(f.SVG.Documents))
	}

	report, err := verify.Check(raw)
	if err != nil {
		return err
	}
	_, err = report.WriteTo(os.Stdout)
	return err
}

func locaFormat(format int16) string {
	if format == ttf_tables.LOCA_SHORT {
		return "short"
	}
	return "long"
}
