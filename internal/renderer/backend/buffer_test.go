package backend

import (
	"testing"

	"github.com/dshills/textgeom/internal/renderer/core"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer(80, 24)

	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected size (80, 24), got (%d, %d)", w, h)
	}
	if b.GetCell(0, 0) != EmptyCell() {
		t.Error("new buffer should be blank")
	}
}

func TestBufferSetGetCell(t *testing.T) {
	b := NewBuffer(10, 5)

	cell := Cell{Text: "A", Width: 1, Style: CellStyle{Foreground: core.MustHex("#0000ff")}}
	b.SetCell(3, 2, cell)

	if got := b.GetCell(3, 2); got != cell {
		t.Errorf("cell mismatch: expected %+v, got %+v", cell, got)
	}

	// Out of bounds
	b.SetCell(-1, 0, cell)
	b.SetCell(100, 0, cell)
	if b.GetCell(-1, 0) != EmptyCell() {
		t.Error("out of bounds should return empty cell")
	}
}

func TestBufferFill(t *testing.T) {
	b := NewBuffer(10, 5)

	cell := Cell{Text: "#", Width: 1}
	b.Fill(Rect{Left: -2, Top: 1, Right: 4, Bottom: 3}, cell)

	if b.GetCell(0, 1) != cell || b.GetCell(3, 2) != cell {
		t.Error("cell inside rect should be filled")
	}
	if b.GetCell(4, 1) == cell || b.GetCell(0, 3) == cell {
		t.Error("cell outside rect should not be filled")
	}

	b.Clear()
	if b.GetCell(0, 1) != EmptyCell() {
		t.Error("Clear should blank the buffer")
	}
}

func TestBufferResize(t *testing.T) {
	b := NewBuffer(4, 2)
	b.SetString(0, 0, "abcd", CellStyle{})
	b.SetString(0, 1, "efgh", CellStyle{})

	b.Resize(2, 3)
	if w, h := b.Size(); w != 2 || h != 3 {
		t.Fatalf("Size() = (%d, %d), want (2, 3)", w, h)
	}
	if got := b.String(); got != "ab\nef\n\n" {
		t.Errorf("String() = %q", got)
	}
}

func TestBufferSetString(t *testing.T) {
	b := NewBuffer(8, 1)
	b.SetString(1, 0, "a世éxyz", CellStyle{})

	tests := []struct {
		x    int
		text string
	}{
		{0, " "},
		{1, "a"},
		{2, "世"},
		{3, ""},
		{4, "é"},
		{5, "x"},
		{7, "z"},
	}
	for _, tt := range tests {
		if got := b.GetCell(tt.x, 0).Text; got != tt.text {
			t.Errorf("cell %d = %q, want %q", tt.x, got, tt.text)
		}
	}
	if !b.GetCell(3, 0).IsContinuation() {
		t.Error("cell after a wide cluster should be a continuation")
	}
	if got := b.Row(0); got != " a世éxyz" {
		t.Errorf("Row(0) = %q", got)
	}
}

func TestStyleCode(t *testing.T) {
	bg := core.MustHex("#333333")
	tests := []struct {
		style CellStyle
		want  byte
	}{
		{CellStyle{}, '.'},
		{CellStyle{Bold: true, Italic: true}, 'b'},
		{CellStyle{Italic: true}, 'i'},
		{CellStyle{Underline: true}, 'u'},
		{CellStyle{Strikethrough: true}, 's'},
		{CellStyle{Background: bg}, '#'},
	}
	for _, tt := range tests {
		if got := styleCode(tt.style); got != tt.want {
			t.Errorf("styleCode(%+v) = %c, want %c", tt.style, got, tt.want)
		}
	}
}
