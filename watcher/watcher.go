// Package watcher turns point-in-time samples into old/current pairs.
package watcher

import "fmt"

// Pair holds the previous and the latest sample of a value
type Pair[T comparable] struct {
	Old     T
	Current T
}

// Changed reports whether the latest sample differs from the previous one
func (p Pair[T]) Changed() bool {
	return p.Old != p.Current
}

// ChangedTo reports a transition into v; a steady v is not a change
func (p Pair[T]) ChangedTo(v T) bool {
	return p.Old != v && p.Current == v
}

// ChangedFrom reports a transition out of v
func (p Pair[T]) ChangedFrom(v T) bool {
	return p.Old == v && p.Current != v
}

// ChangedFromTo reports exactly the transition from -> to
func (p Pair[T]) ChangedFromTo(from, to T) bool {
	return p.Old == from && p.Current == to
}

func (p Pair[T]) String() string {
	return fmt.Sprintf("%v -> %v", p.Old, p.Current)
}

// Watcher remembers the last two samples of a value.
// A missing sample leaves the pair untouched, so a transient read failure never
// looks like a change. The first sample fills both slots.
type Watcher[T comparable] struct {
	pair  Pair[T]
	valid bool
}

// Update shifts current into old and stores v. When ok is false nothing changes
// and Update reports no new pair.
func (w *Watcher[T]) Update(v T, ok bool) (Pair[T], bool) {
	if !ok {
		return Pair[T]{}, false
	}
	return w.UpdateInfallible(v), true
}

// UpdateInfallible stores a sample that is known to be present
func (w *Watcher[T]) UpdateInfallible(v T) Pair[T] {
	if !w.valid {
		w.pair = Pair[T]{Old: v, Current: v}
		w.valid = true
		return w.pair
	}
	w.pair.Old, w.pair.Current = w.pair.Current, v
	return w.pair
}

// Pair returns the current pair, if any sample has been stored
func (w *Watcher[T]) Pair() (Pair[T], bool) {
	return w.pair, w.valid
}

// Current returns the latest sample, if any
func (w *Watcher[T]) Current() (T, bool) {
	return w.pair.Current, w.valid
}

// Reset forgets every sample
func (w *Watcher[T]) Reset() {
	*w = Watcher[T]{}
}
