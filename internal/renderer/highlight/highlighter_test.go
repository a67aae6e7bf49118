package highlight

import (
	"errors"
	"testing"

	"github.com/alecthomas/chroma/v2"

	"github.com/dshills/textgeom/internal/renderer/core"
	"github.com/dshills/textgeom/internal/renderer/element"
)

func newGoHighlighter(t *testing.T) *Highlighter {
	t.Helper()
	theme, err := LoadTheme(DefaultTheme)
	if err != nil {
		t.Fatalf("LoadTheme() error: %v", err)
	}
	h, err := New("go", theme)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return h
}

func checkRanges(t *testing.T, text string, hs []element.Highlight) {
	t.Helper()
	prev := 0
	for i, h := range hs {
		if h.Start < prev || h.End <= h.Start || h.End > len(text) {
			t.Fatalf("highlight %d = [%d, %d) is out of order or out of range", i, h.Start, h.End)
		}
		prev = h.End
	}
}

func TestNew(t *testing.T) {
	theme, _ := LoadTheme(DefaultTheme)

	tests := []struct {
		language string
		want     string
		wantErr  bool
	}{
		{"go", "Go", false},
		{"main.go", "Go", false},
		{"python", "Python", false},
		{"no-such-language", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			h, err := New(tt.language, theme)
			if tt.wantErr {
				var unknown *UnknownError
				if !errors.As(err, &unknown) || unknown.Kind != "language" {
					t.Errorf("New() error = %v, want unknown language", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			if h.Language() != tt.want {
				t.Errorf("Language() = %q, want %q", h.Language(), tt.want)
			}
		})
	}
}

func TestHighlights(t *testing.T) {
	h := newGoHighlighter(t)
	text := "package main\n\nfunc main() {}"

	hs, err := h.Highlights(text)
	if err != nil {
		t.Fatalf("Highlights() error: %v", err)
	}
	if len(hs) == 0 {
		t.Fatal("Highlights() returned no ranges")
	}
	checkRanges(t, text, hs)

	first := hs[0]
	if text[first.Start:first.End] != "package" {
		t.Errorf("first range = %q, want %q", text[first.Start:first.End], "package")
	}
	if first.Style.Color == nil || first.Style.Color.Hex() != "#f92672" {
		t.Errorf("first range color = %v, want #f92672", first.Style.Color)
	}

	runs := element.NewStyledText(text).WithHighlights(core.DefaultTextStyle(), hs).Runs()
	if core.RunsLen(runs) != len(text) {
		t.Errorf("RunsLen() = %d, want %d", core.RunsLen(runs), len(text))
	}
}

func TestHighlightsKeepsOffsets(t *testing.T) {
	h := newGoHighlighter(t)
	text := "x := 1\r\ny := 2"

	hs, err := h.Highlights(text)
	if err != nil {
		t.Fatalf("Highlights() error: %v", err)
	}
	checkRanges(t, text, hs)

	last := hs[len(hs)-1]
	if last.Start != len(text)-1 || last.End != len(text) {
		t.Errorf("last range = [%d, %d), want the final digit", last.Start, last.End)
	}
}

func TestHighlightsCache(t *testing.T) {
	h := newGoHighlighter(t)
	h.maxCache = 2

	for _, text := range []string{"a", "b", "a"} {
		if _, err := h.Highlights(text); err != nil {
			t.Fatalf("Highlights(%q) error: %v", text, err)
		}
	}
	if h.CacheLen() != 2 {
		t.Errorf("CacheLen() = %d, want 2", h.CacheLen())
	}

	if _, err := h.Highlights("c"); err != nil {
		t.Fatal(err)
	}
	if h.CacheLen() != 1 {
		t.Errorf("CacheLen() after overflow = %d, want 1", h.CacheLen())
	}
}

func TestHighlightsEmpty(t *testing.T) {
	h := newGoHighlighter(t)
	hs, err := h.Highlights("")
	if err != nil {
		t.Fatalf("Highlights() error: %v", err)
	}
	if len(hs) != 0 {
		t.Errorf("Highlights(\"\") = %v, want none", hs)
	}
}

func TestLoadTheme(t *testing.T) {
	theme, err := LoadTheme("monokai")
	if err != nil {
		t.Fatalf("LoadTheme() error: %v", err)
	}
	if theme.Name() != "monokai" {
		t.Errorf("Name() = %q", theme.Name())
	}
	if got := theme.Background().Hex(); got != "#272822" {
		t.Errorf("Background() = %s, want #272822", got)
	}
	if got := theme.Foreground().Hex(); got != "#f8f8f2" {
		t.Errorf("Foreground() = %s, want #f8f8f2", got)
	}
	if got := theme.TextStyle(core.DefaultTextStyle()).Color.Hex(); got != "#f8f8f2" {
		t.Errorf("TextStyle().Color = %s, want #f8f8f2", got)
	}

	_, err = LoadTheme("no-such-theme")
	var unknown *UnknownError
	if !errors.As(err, &unknown) || unknown.Kind != "theme" {
		t.Errorf("LoadTheme() error = %v, want unknown theme", err)
	}
}

func TestStyleForToken(t *testing.T) {
	theme, _ := LoadTheme("monokai")

	if s := theme.StyleForToken(chroma.GenericEmph); s.FontStyle == nil || *s.FontStyle != core.FontStyleItalic {
		t.Error("GenericEmph should be italic")
	}
	if s := theme.StyleForToken(chroma.GenericStrong); s.FontWeight == nil || *s.FontWeight != core.FontWeightBold {
		t.Error("GenericStrong should be bold")
	}
	if s := theme.StyleForToken(chroma.Keyword); s.Background != nil {
		t.Error("tokens should not repeat the theme background")
	}
	if s := theme.StyleForToken(chroma.Error); s.Background == nil || s.Background.Hex() != "#1e0010" {
		t.Errorf("Error background = %v, want #1e0010", s.Background)
	}
}
