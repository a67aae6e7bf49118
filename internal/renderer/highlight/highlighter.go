// Package highlight turns source text into styled highlight ranges using chroma lexers
// and themes.
package highlight

import (
	"fmt"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/dshills/textgeom/internal/logging"
	"github.com/dshills/textgeom/internal/renderer/element"
)

// UnknownError reports a language or theme that chroma does not know.
type UnknownError struct {
	Kind string
	Name string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

// DefaultCacheSize is the number of highlighted texts kept by a Highlighter.
const DefaultCacheSize = 256

// Highlighter produces highlight ranges for one language and theme.
// A Highlighter is safe for concurrent use.
type Highlighter struct {
	lexer chroma.Lexer
	theme *Theme

	mu       sync.Mutex
	cache    map[string][]element.Highlight
	maxCache int
}

// New creates a highlighter. language is a chroma lexer name or alias, or a file name
// to match against lexer patterns.
func New(language string, theme *Theme) (*Highlighter, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Match(language)
	}
	if lexer == nil {
		return nil, &UnknownError{Kind: "language", Name: language}
	}
	return &Highlighter{
		lexer:    chroma.Coalesce(lexer),
		theme:    theme,
		cache:    make(map[string][]element.Highlight),
		maxCache: DefaultCacheSize,
	}, nil
}

// Language returns the lexer name.
func (h *Highlighter) Language() string {
	return h.lexer.Config().Name
}

// Theme returns the theme.
func (h *Highlighter) Theme() *Theme {
	return h.theme
}

// Highlights returns the styled ranges of text, ordered and non-overlapping.
// Tokens in the theme's plain text style produce no range.
func (h *Highlighter) Highlights(text string) ([]element.Highlight, error) {
	h.mu.Lock()
	if cached, ok := h.cache[text]; ok {
		h.mu.Unlock()
		return cached, nil
	}
	h.mu.Unlock()

	// Line endings are kept as-is so token offsets match text.
	it, err := h.lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, text)
	if err != nil {
		return nil, fmt.Errorf("tokenise %s: %w", h.Language(), err)
	}

	plain := keyOf(h.theme.StyleForToken(chroma.Text))
	var out []element.Highlight
	offset := 0
	for tok := it(); tok != chroma.EOF; tok = it() {
		start := offset
		offset += len(tok.Value)
		// Lexers may append a newline the text does not have.
		end := min(offset, len(text))
		if start >= end {
			continue
		}

		style := h.theme.StyleForToken(tok.Type)
		if keyOf(style) == plain {
			continue
		}
		if n := len(out); n > 0 && out[n-1].End == start && keyOf(out[n-1].Style) == keyOf(style) {
			out[n-1].End = end
			continue
		}
		out = append(out, element.Highlight{Start: start, End: end, Style: style})
	}

	logging.Component("highlight").Debug().
		Str("language", h.Language()).
		Int("len", len(text)).
		Int("ranges", len(out)).
		Msg("highlighted")

	h.mu.Lock()
	if len(h.cache) >= h.maxCache {
		h.cache = make(map[string][]element.Highlight)
	}
	h.cache[text] = out
	h.mu.Unlock()
	return out, nil
}

// CacheLen returns the number of cached texts.
func (h *Highlighter) CacheLen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.cache)
}
