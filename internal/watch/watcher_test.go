package watch

import (
	"sync"
	"testing"
)

func TestWatcher_LatestAndReady(t *testing.T) {
	w := NewWatcher[int]()

	if w.Ready() {
		t.Error("fresh watcher should not be ready")
	}
	if got := w.Latest(); got != 0 {
		t.Errorf("Latest before update = %d, want zero value", got)
	}

	w.Update(42)
	if !w.Ready() {
		t.Error("watcher should be ready after update")
	}
	if got := w.Latest(); got != 42 {
		t.Errorf("Latest = %d, want 42", got)
	}
}

func TestWatcher_Seeded(t *testing.T) {
	w := NewWatcherWith("hello")
	if !w.Ready() || w.Latest() != "hello" {
		t.Errorf("seeded watcher = %q ready=%v", w.Latest(), w.Ready())
	}
}

func TestWatcher_ConcurrentAccess(t *testing.T) {
	w := NewWatcher[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(v int) {
			defer wg.Done()
			w.Update(v)
		}(i)
		go func() {
			defer wg.Done()
			_ = w.Latest()
		}()
	}
	wg.Wait()
	if !w.Ready() {
		t.Error("watcher should be ready after concurrent updates")
	}
}
