// Package analyzer defines the contract shared by vestige's file analyzers
// and the progress plumbing used to report on long-running scans.
package analyzer

import "context"

// FileAnalyzer is the interface implemented by every file-based analyzer.
// Analyze receives absolute file paths and produces a typed report; the
// context carries cancellation and optional progress tracking.
type FileAnalyzer[T any] interface {
	// Analyze processes the given files and returns the analysis result.
	Analyze(ctx context.Context, files []string) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}
