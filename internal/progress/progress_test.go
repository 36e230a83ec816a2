package progress

import (
	"sync"
	"testing"
)

func TestNewTracker(t *testing.T) {
	tests := []struct {
		name  string
		label string
		total int
	}{
		{name: "standard", label: "Checking files", total: 100},
		{name: "zero total", label: "Nothing to do", total: 0},
		{name: "single file", label: "One file", total: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTracker(tt.label, tt.total)
			if tracker == nil {
				t.Fatal("NewTracker() returned nil")
			}
			if tracker.bar == nil {
				t.Error("tracker.bar should not be nil")
			}
			if tracker.label != tt.label {
				t.Errorf("tracker.label = %q, want %q", tracker.label, tt.label)
			}
		})
	}
}

func TestNewSpinner(t *testing.T) {
	tracker := NewSpinner("Scanning...")
	if tracker == nil {
		t.Fatal("NewSpinner() returned nil")
	}
	if tracker.bar == nil {
		t.Error("tracker.bar should not be nil")
	}
	tracker.Finish()
}

func TestTrackerTickAndFinish(t *testing.T) {
	tests := []struct {
		name  string
		total int
		ticks int
	}{
		{name: "partial", total: 10, ticks: 5},
		{name: "complete", total: 10, ticks: 10},
		{name: "overshoot", total: 10, ticks: 12},
		{name: "no ticks", total: 10, ticks: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTracker("Test", tt.total)
			for range tt.ticks {
				tracker.Tick()
			}
			tracker.Finish()
		})
	}
}

func TestTrackerConcurrentTicks(t *testing.T) {
	tracker := NewTracker("Concurrent", 100)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				tracker.Tick()
			}
		}()
	}
	wg.Wait()
	tracker.Finish()
}

func TestTrackerFinishTwice(t *testing.T) {
	tracker := NewTracker("Double finish", 5)
	tracker.Tick()
	tracker.Finish()
	tracker.Finish()
}
