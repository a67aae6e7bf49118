// Package logging provides the process-wide structured logger.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Config configures the logger.
type Config struct {
	// Level is the minimum level to output.
	Level zerolog.Level
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Pretty selects human-readable console output instead of JSON lines.
	Pretty bool
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  zerolog.WarnLevel,
		Output: os.Stderr,
	}
}

// ParseLevel parses a level name. Unknown names fall back to info.
func ParseLevel(s string) zerolog.Level {
	if l, ok := LookupLevel(s); ok {
		return l
	}
	return zerolog.InfoLevel
}

// LookupLevel parses a level name and reports whether it is known.
func LookupLevel(s string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	}
	return zerolog.InfoLevel, false
}

// New creates a logger from cfg.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: "15:04:05.000"}
	}
	return zerolog.New(out).Level(cfg.Level).With().Timestamp().Str("app", "textgeom").Logger()
}

var (
	mu     sync.RWMutex
	global = New(DefaultConfig())
)

// Get returns the process-wide logger.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Set replaces the process-wide logger. Should be called early in startup.
func Set(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

// Component returns the process-wide logger with the component field set.
func Component(name string) *zerolog.Logger {
	l := Get().With().Str("component", name).Logger()
	return &l
}

// Discard silences the process-wide logger.
func Discard() {
	Set(zerolog.Nop())
}
