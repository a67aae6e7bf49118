package layout

import (
	"fmt"
	"sync"

	"github.com/dshills/textgeom/internal/renderer/core"
)

// LayoutID identifies a node registered with a Requester.
type LayoutID uint32

// MeasureFunc computes the size of a node for the given constraints.
// It may be called several times per frame and must be idempotent.
type MeasureFunc func(known core.KnownDimensions, available core.AvailableSize) core.Size

// Requester registers measured layout nodes.
type Requester interface {
	RequestMeasuredLayout(measure MeasureFunc) LayoutID
}

// MeasureTree is a flat set of measured nodes. It implements Requester.
type MeasureTree struct {
	mu    sync.Mutex
	nodes []MeasureFunc
}

// NewMeasureTree creates an empty tree.
func NewMeasureTree() *MeasureTree {
	return &MeasureTree{}
}

// RequestMeasuredLayout implements Requester.
func (t *MeasureTree) RequestMeasuredLayout(measure MeasureFunc) LayoutID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes = append(t.nodes, measure)
	return LayoutID(len(t.nodes) - 1)
}

// ComputeLayout measures node id. Known dimensions win over the measured size.
func (t *MeasureTree) ComputeLayout(id LayoutID, known core.KnownDimensions, available core.AvailableSize) (core.Size, error) {
	t.mu.Lock()
	if int(id) >= len(t.nodes) {
		t.mu.Unlock()
		return core.Size{}, fmt.Errorf("unknown layout node %d", id)
	}
	measure := t.nodes[id]
	t.mu.Unlock()

	size := measure(known, available)
	if w, ok := known.Width.Get(); ok {
		size.Width = w
	}
	if h, ok := known.Height.Get(); ok {
		size.Height = h
	}
	return size, nil
}

// Len returns the number of registered nodes.
func (t *MeasureTree) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.nodes)
}

// Clear removes every node. Call between frames.
func (t *MeasureTree) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes = nil
}
