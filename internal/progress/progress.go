// Package progress renders terminal progress for long-running CLI phases.
// Bars write to stderr so stdout stays clean for formatted results.
package progress

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar over a known number of files.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
}

// NewSpinner creates a spinner for phases with no known total, such as
// walking a directory tree.
func NewSpinner(label string) *Tracker {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar, label: label}
}

// NewTracker creates a progress bar expecting total ticks.
func NewTracker(label string, total int) *Tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label}
}

// Tick advances the bar by one. Safe for concurrent use.
func (t *Tracker) Tick() {
	t.bar.Add(1)
}

// Finish clears the bar from the terminal. Call it before printing
// results or errors so the output does not land mid-bar.
func (t *Tracker) Finish() {
	t.bar.Finish()
	t.bar.Clear()
}
