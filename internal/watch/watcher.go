// Package watch provides the latest-value holders that decouple the pulse
// loop's pure computation from however the host keeps market data fresh.
package watch

import "sync"

// Watcher holds the latest value pushed by an external stream.
// Safe for concurrent use; the pulse loop only ever reads.
type Watcher[T any] struct {
	mu    sync.RWMutex
	value T
	set   bool
}

// NewWatcher returns an empty watcher.
func NewWatcher[T any]() *Watcher[T] {
	return &Watcher[T]{}
}

// NewWatcherWith returns a watcher seeded with an initial value.
func NewWatcherWith[T any](value T) *Watcher[T] {
	return &Watcher[T]{value: value, set: true}
}

// Update replaces the latest value.
func (w *Watcher[T]) Update(value T) {
	w.mu.Lock()
	w.value = value
	w.set = true
	w.mu.Unlock()
}

// Latest returns the most recent value. The zero value before any Update.
func (w *Watcher[T]) Latest() T {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.value
}

// Ready reports whether the watcher has received at least one value.
func (w *Watcher[T]) Ready() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.set
}
