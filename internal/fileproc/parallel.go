package fileproc

import (
	"context"
	"runtime"
	"sync"

	"github.com/panbanda/vestige/pkg/analyzer"
	"github.com/panbanda/vestige/pkg/parser"
	"github.com/sourcegraph/conc/pool"
)

// MapSourceFiles processes files from a ContentSource in parallel, calling fn
// for each file with a dedicated parser and the loaded content.
// Progress is tracked via context using analyzer.WithTracker.
func MapSourceFiles[T any](
	ctx context.Context,
	files []string,
	src ContentSource,
	fn func(*parser.Parser, string, []byte) (T, error),
) ([]T, *ProcessingErrors) {
	return MapSourceFilesWithSizeLimit(ctx, files, src, 0, fn)
}

// MapSourceFilesWithSizeLimit is MapSourceFiles with files over maxSize bytes
// dropped before processing. If maxSize is 0, no limit is enforced.
// Unreadable and oversized files are skipped silently; fn failures are
// collected and returned alongside the successful results.
func MapSourceFilesWithSizeLimit[T any](
	ctx context.Context,
	files []string,
	src ContentSource,
	maxSize int64,
	fn func(*parser.Parser, string, []byte) (T, error),
) ([]T, *ProcessingErrors) {
	if len(files) == 0 {
		return nil, nil
	}

	loaded := readAll(files, src, maxSize)

	tracker := analyzer.TrackerFromContext(ctx)
	if tracker != nil {
		tracker.Add(len(loaded))
	}

	maxWorkers := runtime.NumCPU() * DefaultWorkerMultiplier
	results := make([]T, 0, len(loaded))
	errs := &ProcessingErrors{}
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(maxWorkers).WithContext(ctx)
	for _, fc := range loaded {
		p.Go(func(ctx context.Context) error {
			defer func() {
				if tracker != nil {
					tracker.Tick(fc.path)
				}
			}()

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			psr := parser.New()
			defer psr.Close()

			result, err := fn(psr, fc.path, fc.content)
			if err != nil {
				errs.Add(fc.path, err)
				return nil
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	_ = p.Wait()

	if !errs.HasErrors() {
		return results, nil
	}
	return results, errs
}

// MapSourceFilesPooled is MapSourceFilesWithSizeLimit with parsers reused
// across files instead of created per file. Prefer this for large file sets
// since each parser holds CGO state that is expensive to set up.
func MapSourceFilesPooled[T any](
	ctx context.Context,
	files []string,
	src ContentSource,
	maxSize int64,
	fn func(*parser.Parser, string, []byte) (T, error),
) ([]T, *ProcessingErrors) {
	if len(files) == 0 {
		return nil, nil
	}

	loaded := readAll(files, src, maxSize)
	if len(loaded) == 0 {
		return nil, nil
	}

	tracker := analyzer.TrackerFromContext(ctx)
	if tracker != nil {
		tracker.Add(len(loaded))
	}

	maxWorkers := runtime.NumCPU() * DefaultWorkerMultiplier
	results := make([]T, 0, len(loaded))
	errs := &ProcessingErrors{}
	var mu sync.Mutex

	parsers := newParserPool(maxWorkers)
	defer parsers.close()

	p := pool.New().WithMaxGoroutines(maxWorkers).WithContext(ctx)
	for _, fc := range loaded {
		p.Go(func(ctx context.Context) error {
			defer func() {
				if tracker != nil {
					tracker.Tick(fc.path)
				}
			}()

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			psr := parsers.get()
			defer parsers.put(psr)

			result, err := fn(psr, fc.path, fc.content)
			if err != nil {
				errs.Add(fc.path, err)
				return nil
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	_ = p.Wait()

	if !errs.HasErrors() {
		return results, nil
	}
	return results, errs
}
