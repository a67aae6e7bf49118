package selection

import "iter"

// peekable is a pull cursor over a sequence with one item of lookahead.
type peekable[T any] struct {
	pull func() (T, bool)
	stop func()
	head T
	has  bool
	done bool
}

func newPeekable[T any](seq iter.Seq[T]) *peekable[T] {
	pull, stop := iter.Pull(seq)
	return &peekable[T]{pull: pull, stop: stop}
}

// Peek returns the next item without consuming it.
func (p *peekable[T]) Peek() (T, bool) {
	if !p.has && !p.done {
		p.head, p.has = p.pull()
		if !p.has {
			p.Stop()
		}
	}
	return p.head, p.has
}

// Next consumes and returns the next item.
func (p *peekable[T]) Next() (T, bool) {
	v, ok := p.Peek()
	var zero T
	p.head, p.has = zero, false
	return v, ok
}

// Stop releases the underlying sequence. Further calls report no items.
func (p *peekable[T]) Stop() {
	var zero T
	p.head, p.has, p.done = zero, false, true
	p.stop()
}
