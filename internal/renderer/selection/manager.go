package selection

import (
	"slices"
	"sync"
)

// Manager holds the selections of one document.
// A Manager is safe for concurrent use.
type Manager struct {
	mu         sync.RWMutex
	selections []Selection[Point]
	nextID     int
}

// NewManager creates an empty selection manager.
func NewManager() *Manager {
	return &Manager{
		selections: make([]Selection[Point], 0),
	}
}

// Add adds a selection from tail to head and returns it.
func (m *Manager) Add(tail, head Point) Selection[Point] {
	m.mu.Lock()
	defer m.mu.Unlock()

	sel := New(m.nextID, tail, head, Point.Compare)
	m.nextID++
	m.selections = append(m.selections, sel)
	return sel
}

// AddCursor adds an empty selection at p.
func (m *Manager) AddCursor(p Point) Selection[Point] {
	return m.Add(p, p)
}

// Set replaces every selection. IDs are reassigned.
func (m *Manager) Set(selections ...Selection[Point]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.selections = make([]Selection[Point], 0, len(selections))
	for _, sel := range selections {
		if sel.End.Less(sel.Start) {
			sel.Start, sel.End = sel.End, sel.Start
			sel.Reversed = !sel.Reversed
		}
		sel.ID = m.nextID
		m.nextID++
		m.selections = append(m.selections, sel)
	}
}

// Clear removes every selection.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selections = make([]Selection[Point], 0)
}

// Len returns the number of selections.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.selections)
}

// All returns every selection ordered by start, then end.
func (m *Manager) All() []Selection[Point] {
	m.mu.RLock()
	out := slices.Clone(m.selections)
	m.mu.RUnlock()

	SortFunc(out, Point.Compare)
	return out
}

// Newest returns the most recently added selection.
func (m *Manager) Newest() (Selection[Point], bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.selections) == 0 {
		return Selection[Point]{}, false
	}
	newest := m.selections[0]
	for _, sel := range m.selections[1:] {
		if sel.ID > newest.ID {
			newest = sel
		}
	}
	return newest, true
}

// Contains returns true if any non-empty selection contains p.
// Selections are half-open: the end position is not contained.
func (m *Manager) Contains(p Point) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sel := range m.selections {
		if sel.Start.Compare(p) <= 0 && p.Less(sel.End) {
			return true
		}
	}
	return false
}

// Merged returns the selections with overlapping and touching ones merged.
func (m *Manager) Merged() []Selection[Point] {
	return MergeFunc(m.All(), Point.Compare)
}

// Normalize replaces the selections with their merged form.
func (m *Manager) Normalize() {
	m.mu.Lock()
	defer m.mu.Unlock()

	sorted := slices.Clone(m.selections)
	SortFunc(sorted, Point.Compare)
	m.selections = append(make([]Selection[Point], 0, len(sorted)), MergeFunc(sorted, Point.Compare)...)
}

// RowGroups returns the selections grouped into contiguous row bands.
func (m *Manager) RowGroups(dm DisplayMap) []RowGroup {
	return Groups(m.All(), dm)
}
