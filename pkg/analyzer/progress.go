package analyzer

import (
	"context"
	"sync/atomic"
)

// ProgressFunc receives progress updates. current is the number of files
// finished so far, total the number known to be queued, and path identifies
// the file that just completed.
type ProgressFunc func(current, total int, path string)

// Tracker counts completed work items and forwards each completion to an
// optional callback. All methods are safe for concurrent use.
type Tracker struct {
	total    atomic.Int32
	current  atomic.Int32
	callback ProgressFunc
}

// NewTracker returns a tracker that invokes callback on every Tick.
// A nil callback disables reporting but still counts.
func NewTracker(callback ProgressFunc) *Tracker {
	return &Tracker{callback: callback}
}

// Add grows the expected total by n. Processing layers call this once the
// number of workable files is known, which may be less than requested when
// unreadable or oversized files are dropped.
func (t *Tracker) Add(n int) {
	t.total.Add(int32(n))
}

// SetTotal replaces the expected total.
func (t *Tracker) SetTotal(n int) {
	t.total.Store(int32(n))
}

// Tick records the completion of one file and reports it.
func (t *Tracker) Tick(path string) {
	current := int(t.current.Add(1))
	if t.callback != nil {
		t.callback(current, int(t.total.Load()), path)
	}
}

// Current returns how many files have completed.
func (t *Tracker) Current() int {
	return int(t.current.Load())
}

// Total returns the expected total.
func (t *Tracker) Total() int {
	return int(t.total.Load())
}

type trackerKey struct{}

// WithTracker attaches a progress tracker to the context so the processing
// layer can report without threading a callback through every call.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext returns the tracker attached by WithTracker, or nil.
func TrackerFromContext(ctx context.Context) *Tracker {
	if t, ok := ctx.Value(trackerKey{}).(*Tracker); ok {
		return t
	}
	return nil
}
