// Package config loads textgeom settings.
//
// Settings come from three layers, each overriding the one below:
//
//	1. Built-in defaults (Default)
//	2. A TOML file with [text], [render], [highlight] and [logging] sections
//	3. TEXTGEOM_* environment variables
//
// Command line flags are applied by the caller on top of the loaded Config.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/textgeom/internal/logging"
	"github.com/dshills/textgeom/internal/renderer/core"
)

// Config holds all textgeom settings.
type Config struct {
	Text      TextConfig      `toml:"text"`
	Render    RenderConfig    `toml:"render"`
	Highlight HighlightConfig `toml:"highlight"`
	Logging   LoggingConfig   `toml:"logging"`
}

// TextConfig is the base text style.
type TextConfig struct {
	Family     string  `toml:"family"`
	Bold       bool    `toml:"bold"`
	Italic     bool    `toml:"italic"`
	FontSize   float32 `toml:"fontSize"`
	Unit       string  `toml:"unit"`
	LineHeight float32 `toml:"lineHeight"`
	WhiteSpace string  `toml:"whiteSpace"`
	Truncate   string  `toml:"truncate"`
	Color      string  `toml:"color"`
	Background string  `toml:"background"`
}

// RenderConfig controls the frame that text is laid out in.
type RenderConfig struct {
	RemSize float32 `toml:"remSize"`
	// Width is the wrap width in pixels. Zero lays text out unbounded.
	Width float32 `toml:"width"`
	// Height is the output height in pixels. Zero sizes the output to the text.
	Height float32 `toml:"height"`
	Format string  `toml:"format"`
}

// HighlightConfig selects syntax highlighting.
type HighlightConfig struct {
	// Language is a lexer name, alias or file name. Empty disables highlighting.
	Language string `toml:"language"`
	Theme    string `toml:"theme"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// Output formats.
const (
	FormatJSON     = "json"
	FormatPNG      = "png"
	FormatTerminal = "term"
)

// Length units.
const (
	UnitPx  = "px"
	UnitRem = "rem"
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Text: TextConfig{
			Family:     "Go",
			FontSize:   1,
			Unit:       UnitRem,
			LineHeight: 1.618034,
			WhiteSpace: core.WhiteSpaceNormal.String(),
			Truncate:   core.TruncateNone.String(),
			Color:      "#000000",
		},
		Render: RenderConfig{
			RemSize: 16,
			Format:  FormatJSON,
		},
		Highlight: HighlightConfig{
			Theme: "monokai",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load returns the defaults overridden by the file at path and then by the
// environment. A missing file is not an error. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := cfg.decode(path, data); err != nil {
				return nil, err
			}
		}
	}

	if err := NewEnvLoader(EnvPrefix).Apply(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader overrides the defaults with TOML read from r. The
// environment is not consulted.
func LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := cfg.decode("<reader>", data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode lays TOML over c. Keys that match no setting are rejected.
func (c *Config) decode(source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return newParseError(source, err)
	}
	return nil
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, v any, code ValidationErrorCode) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v, Code: code})
	}

	t := c.Text
	if t.Family == "" {
		add("text.family", "font family is required", t.Family, ErrCodeRequiredMissing)
	}
	if t.FontSize <= 0 {
		add("text.fontSize", "must be positive", t.FontSize, ErrCodeOutOfRange)
	}
	if t.Unit != UnitPx && t.Unit != UnitRem {
		add("text.unit", "must be px or rem", t.Unit, ErrCodeInvalidEnum)
	}
	if t.LineHeight <= 0 {
		add("text.lineHeight", "must be positive", t.LineHeight, ErrCodeOutOfRange)
	}
	if _, ok := parseWhiteSpace(t.WhiteSpace); !ok {
		add("text.whiteSpace", "must be normal or nowrap", t.WhiteSpace, ErrCodeInvalidEnum)
	}
	if _, ok := parseTruncate(t.Truncate); !ok {
		add("text.truncate", "must be none, truncate or ellipsis", t.Truncate, ErrCodeInvalidEnum)
	}
	if _, err := core.Hex(t.Color); err != nil {
		add("text.color", "must be a hex color", t.Color, ErrCodePatternMismatch)
	}
	if t.Background != "" {
		if _, err := core.Hex(t.Background); err != nil {
			add("text.background", "must be a hex color", t.Background, ErrCodePatternMismatch)
		}
	}

	r := c.Render
	if r.RemSize <= 0 {
		add("render.remSize", "must be positive", r.RemSize, ErrCodeOutOfRange)
	}
	if r.Width < 0 {
		add("render.width", "must not be negative", r.Width, ErrCodeOutOfRange)
	}
	if r.Height < 0 {
		add("render.height", "must not be negative", r.Height, ErrCodeOutOfRange)
	}
	if !slices.Contains([]string{FormatJSON, FormatPNG, FormatTerminal}, r.Format) {
		add("render.format", "must be json, png or term", r.Format, ErrCodeInvalidEnum)
	}

	if c.Highlight.Language != "" && c.Highlight.Theme == "" {
		add("highlight.theme", "theme is required when highlighting", c.Highlight.Theme, ErrCodeRequiredMissing)
	}

	if _, ok := logging.LookupLevel(c.Logging.Level); !ok {
		add("logging.level", "must be trace, debug, info, warn, error or off", c.Logging.Level, ErrCodeInvalidEnum)
	}

	return errors.Join(errs...)
}

// TextStyle converts the [text] section to a core.TextStyle.
// The Config must be valid.
func (c *Config) TextStyle() core.TextStyle {
	t := c.Text
	s := core.DefaultTextStyle()
	s.Font.Family = t.Family
	if t.Bold {
		s.Font.Weight = core.FontWeightBold
	}
	if t.Italic {
		s.Font.Style = core.FontStyleItalic
	}
	if t.Unit == UnitPx {
		s.FontSize = core.Pxs(t.FontSize)
	} else {
		s.FontSize = core.Rems(t.FontSize)
	}
	s.LineHeight = core.Relative(t.LineHeight)
	s.WhiteSpace, _ = parseWhiteSpace(t.WhiteSpace)
	s.Truncate, _ = parseTruncate(t.Truncate)
	if color, err := core.Hex(t.Color); err == nil {
		s.Color = color
	}
	if bg, err := core.Hex(t.Background); t.Background != "" && err == nil {
		s.Background = &bg
	}
	return s
}

// LoggerConfig returns the logging settings. Output is left to the default.
func (c *Config) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.Logging.Level)
	cfg.Pretty = c.Logging.Pretty
	return cfg
}

func parseWhiteSpace(s string) (core.WhiteSpace, bool) {
	for _, w := range []core.WhiteSpace{core.WhiteSpaceNormal, core.WhiteSpaceNoWrap} {
		if w.String() == s {
			return w, true
		}
	}
	return core.WhiteSpaceNormal, false
}

func parseTruncate(s string) (core.Truncate, bool) {
	for _, t := range []core.Truncate{core.TruncateNone, core.TruncateCut, core.TruncateEllipsis} {
		if t.String() == s {
			return t, true
		}
	}
	return core.TruncateNone, false
}
