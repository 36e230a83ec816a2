package analyzer

import (
	"context"
	"sync"
	"testing"
)

func TestTrackerCounts(t *testing.T) {
	type call struct {
		current, total int
		path           string
	}
	var calls []call
	var mu sync.Mutex

	tracker := NewTracker(func(current, total int, path string) {
		mu.Lock()
		calls = append(calls, call{current, total, path})
		mu.Unlock()
	})

	tracker.Add(2)
	tracker.Tick("a.ts")
	tracker.Tick("b.tsx")

	if got := tracker.Total(); got != 2 {
		t.Errorf("Total() = %d, want 2", got)
	}
	if got := tracker.Current(); got != 2 {
		t.Errorf("Current() = %d, want 2", got)
	}
	if len(calls) != 2 {
		t.Fatalf("got %d callbacks, want 2", len(calls))
	}
	if calls[0] != (call{1, 2, "a.ts"}) {
		t.Errorf("first callback = %+v, want {1 2 a.ts}", calls[0])
	}
	if calls[1] != (call{2, 2, "b.tsx"}) {
		t.Errorf("second callback = %+v, want {2 2 b.tsx}", calls[1])
	}
}

func TestTrackerSetTotal(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Add(4)
	tracker.SetTotal(9)
	if got := tracker.Total(); got != 9 {
		t.Errorf("Total() = %d, want 9", got)
	}
}

func TestTrackerConcurrentTicks(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Add(64)

	var wg sync.WaitGroup
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Tick("file.ts")
		}()
	}
	wg.Wait()

	if got := tracker.Current(); got != 64 {
		t.Errorf("Current() = %d, want 64", got)
	}
}

func TestTrackerNilCallback(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Add(1)
	tracker.Tick("file.ts")
}

func TestTrackerContextRoundTrip(t *testing.T) {
	tracker := NewTracker(nil)
	ctx := WithTracker(context.Background(), tracker)

	if got := TrackerFromContext(ctx); got != tracker {
		t.Error("TrackerFromContext should return the attached tracker")
	}
	if got := TrackerFromContext(context.Background()); got != nil {
		t.Error("TrackerFromContext without a tracker should return nil")
	}
}
