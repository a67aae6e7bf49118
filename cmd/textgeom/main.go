// Package main is the entry point for textgeom, which lays text out and reports
// its geometry as JSON, paints it to a PNG, or shows it in the terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dshills/textgeom/internal/config"
	"github.com/dshills/textgeom/internal/logging"
	"github.com/dshills/textgeom/internal/renderer/backend"
	"github.com/dshills/textgeom/internal/renderer/core"
	"github.com/dshills/textgeom/internal/renderer/shaper"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options are the parsed command line.
type options struct {
	configPath string
	width      float64
	format     string
	out        string
	lang       string
	theme      string
	encoding   string
	x, y       float64
	index      int
	logLevel   string
	version    bool
	file       string

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}
	fs := flag.NewFlagSet("textgeom", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.Float64Var(&opts.width, "width", 0, "Wrap width in pixels (columns for -format term); 0 for none")
	fs.StringVar(&opts.format, "format", config.FormatJSON, "Output format (json, png, term)")
	fs.StringVar(&opts.out, "out", "", "Output file (default stdout)")
	fs.StringVar(&opts.lang, "lang", "", "Highlight as this language or file name")
	fs.StringVar(&opts.theme, "theme", "", "Highlight theme")
	fs.StringVar(&opts.encoding, "encoding", "utf-8", "Input encoding (IANA name)")
	fs.Float64Var(&opts.x, "x", 0, "Hit-test x coordinate (with -y)")
	fs.Float64Var(&opts.y, "y", 0, "Hit-test y coordinate (with -x)")
	fs.IntVar(&opts.index, "index", -1, "Report the position of this byte offset")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.version, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "textgeom - text layout geometry\n\n")
		fmt.Fprintf(stderr, "Usage: textgeom [options] [file]\n\n")
		fmt.Fprintf(stderr, "Reads stdin when no file is given.\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  textgeom -width 200 notes.txt           Wrapped geometry as JSON\n")
		fmt.Fprintf(stderr, "  textgeom -x 30 -y 12 notes.txt          Byte offset under a point\n")
		fmt.Fprintf(stderr, "  textgeom -lang go -format png -out a.png main.go\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return nil, fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}
	opts.file = fs.Arg(0)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	if opts.set["x"] != opts.set["y"] {
		return nil, fmt.Errorf("-x and -y must be given together")
	}
	return opts, nil
}

// apply lays the explicitly set flags over cfg.
func (o *options) apply(cfg *config.Config) {
	if o.set["width"] {
		cfg.Render.Width = float32(o.width)
	}
	if o.set["format"] {
		cfg.Render.Format = o.format
	}
	if o.set["lang"] {
		cfg.Highlight.Language = o.lang
	}
	if o.set["theme"] {
		cfg.Highlight.Theme = o.theme
	}
	if o.set["log-level"] {
		cfg.Logging.Level = o.logLevel
	}
}

func (o *options) query() query {
	q := query{index: o.index}
	if o.set["x"] {
		p := core.Pt(core.Pixels(o.x), core.Pixels(o.y))
		q.hit = &p
	}
	return q
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if opts.version {
		fmt.Fprintf(stdout, "textgeom %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: loading config: %v\n", err)
		return 1
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	lc := cfg.LoggerConfig()
	lc.Output = stderr
	logging.Set(logging.New(lc))
	log := logging.Component("cli")

	text, err := readInput(opts.file, stdin, opts.encoding)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	log.Debug().Str("file", opts.file).Int("len", len(text)).Str("format", cfg.Render.Format).Msg("input read")

	s, err := styleText(cfg, text)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if cfg.Render.Format == config.FormatTerminal {
		if err := runTerminal(s, int(cfg.Render.Width)); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := render(cfg, s, opts, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func readInput(file string, stdin io.Reader, encoding string) (string, error) {
	var data []byte
	var err error
	if file == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return decodeInput(data, encoding)
}

// render writes the JSON or PNG output.
func render(cfg *config.Config, s *styled, opts *options, stdout io.Writer) error {
	fonts := shaper.NewGoFonts()
	f, err := drawFrame(s, shaper.New(fonts), core.Pixels(cfg.Render.RemSize), core.Pixels(cfg.Render.Width), nil)
	if err != nil {
		return err
	}

	write := func(w io.Writer) error {
		if cfg.Render.Format == config.FormatPNG {
			return writePNG(w, f, fonts, s.background, core.Pixels(cfg.Render.Width), core.Pixels(cfg.Render.Height))
		}
		data, err := encodeJSON(f, opts.query())
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	if opts.out == "" {
		return write(stdout)
	}
	file, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	return writeAndClose(file, write)
}

// writeAndClose runs write on wc and closes it. A failed close is reported
// when the write succeeded.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	if err := write(wc); err != nil {
		wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}

func runTerminal(s *styled, maxCols int) error {
	term, err := backend.NewTerminal()
	if err != nil {
		return fmt.Errorf("create terminal: %w", err)
	}
	if err := term.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer term.Shutdown()

	return showTerminal(term, s, maxCols)
}
