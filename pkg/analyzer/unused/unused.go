// Package unused finds declared bindings that are never read: variables,
// parameters, functions, classes, imports, and TypeScript-only forms such
// as namespaces, enums, interfaces, and type parameters. Exemptions mirror
// the places where an unused name is syntactically or semantically
// required, so the findings stay actionable.
package unused

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/panbanda/vestige/internal/cache"
	"github.com/panbanda/vestige/internal/fileproc"
	"github.com/panbanda/vestige/pkg/analyzer"
	"github.com/panbanda/vestige/pkg/parser"
	"github.com/panbanda/vestige/pkg/semantic"
	"github.com/panbanda/vestige/pkg/source"
	"github.com/panbanda/vestige/pkg/stats"
)

// Ensure Analyzer implements analyzer.FileAnalyzer.
var _ analyzer.FileAnalyzer[*Analysis] = (*Analyzer)(nil)

// Analyzer detects unused bindings in JavaScript and TypeScript sources.
type Analyzer struct {
	parser      *parser.Parser
	src         source.ContentSource
	cache       *cache.Cache
	opts        Options
	maxFileSize int64
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithOptions sets the reporting options.
func WithOptions(opts Options) Option {
	return func(a *Analyzer) {
		a.opts = opts
	}
}

// WithMaxFileSize sets the maximum file size to analyze (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(a *Analyzer) {
		a.maxFileSize = maxSize
	}
}

// WithCache attaches a result cache keyed by content and option
// fingerprint.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithSource overrides where file content is read from.
func WithSource(src source.ContentSource) Option {
	return func(a *Analyzer) {
		a.src = src
	}
}

// New creates a new unused-binding analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		parser: parser.New(),
		src:    source.NewFilesystem(),
		opts:   DefaultOptions(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeFile analyzes a single file using the analyzer's own parser.
func (a *Analyzer) AnalyzeFile(path string) ([]Finding, error) {
	content, err := a.src.Read(path)
	if err != nil {
		return nil, err
	}
	return a.analyzeContent(a.parser, path, content)
}

// AnalyzeSource analyzes an in-memory snippet. The path determines the
// language and is echoed in findings.
func (a *Analyzer) AnalyzeSource(content []byte, path string) ([]Finding, error) {
	return a.analyzeContent(a.parser, path, content)
}

// analyzeContent parses one file and evaluates its bindings.
func (a *Analyzer) analyzeContent(psr *parser.Parser, path string, content []byte) ([]Finding, error) {
	lang := parser.DetectLanguage(path)
	if lang == parser.LangUnknown {
		return nil, fmt.Errorf("unsupported language: %s", path)
	}

	result, err := psr.Parse(content, lang, path)
	if err != nil {
		return nil, err
	}

	model, err := semantic.Build(result)
	if err != nil {
		return nil, err
	}

	ev := &evaluator{model: model, opts: a.opts}
	return ev.evaluate(), nil
}

// fileResult carries one file's findings through the worker pool.
type fileResult struct {
	path     string
	findings []Finding
	cached   bool
}

// Analyze analyzes all files using parallel processing. Progress is
// tracked via context using analyzer.WithTracker. Per-file failures are
// reported in Analysis.Errors rather than aborting the run.
func (a *Analyzer) Analyze(ctx context.Context, files []string) (*Analysis, error) {
	fingerprint := a.opts.Fingerprint()

	results, errs := fileproc.MapSourceFilesPooled(ctx, files, a.src, a.maxFileSize,
		func(psr *parser.Parser, path string, content []byte) (fileResult, error) {
			if a.cache == nil {
				findings, err := a.analyzeContent(psr, path, content)
				if err != nil {
					return fileResult{}, err
				}
				return fileResult{path: path, findings: findings}, nil
			}

			hash := cache.HashBytes(content) + "-" + fingerprint
			if raw, ok := a.cache.GetWithHash(path, hash); ok {
				var findings []Finding
				if json.Unmarshal(raw, &findings) == nil {
					return fileResult{path: path, findings: findings, cached: true}, nil
				}
			}

			findings, err := a.analyzeContent(psr, path, content)
			if err != nil {
				return fileResult{}, err
			}
			if raw, err := json.Marshal(findings); err == nil {
				_ = a.cache.SetWithHash(path, hash, raw)
			}
			return fileResult{path: path, findings: findings}, nil
		})

	return buildAnalysis(len(files), results, errs), nil
}

// Close releases analyzer resources.
func (a *Analyzer) Close() {
	a.parser.Close()
}

// buildAnalysis aggregates per-file results into an Analysis. Files the
// loader dropped, unreadable or over the size limit, count as skipped;
// files whose analysis failed are listed in Errors.
func buildAnalysis(requested int, results []fileResult, errs *fileproc.ProcessingErrors) *Analysis {
	analysis := &Analysis{Findings: make([]Finding, 0)}

	perFile := make([]float64, 0, len(results))
	for _, r := range results {
		analysis.Findings = append(analysis.Findings, r.findings...)
		analysis.FilesAnalyzed++
		if r.cached {
			analysis.CacheHits++
		}
		perFile = append(perFile, float64(len(r.findings)))
	}

	failed := 0
	if errs != nil {
		failed = len(errs.Errors)
		for _, pe := range errs.Errors {
			analysis.Errors = append(analysis.Errors, pe.Error())
		}
	}
	if skipped := requested - len(results) - failed; skipped > 0 {
		analysis.FilesSkipped = skipped
	}

	sort.Slice(analysis.Findings, func(i, j int) bool {
		a, b := analysis.Findings[i], analysis.Findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Name < b.Name
	})

	analysis.Summary = summarize(analysis.Findings, perFile)
	return analysis
}

func summarize(findings []Finding, perFile []float64) Summary {
	s := Summary{
		TotalFindings: len(findings),
		ByKind:        make(map[BindingKind]int),
	}
	for _, f := range findings {
		s.ByKind[f.Kind]++
	}

	dist := stats.Describe(perFile)
	s.AvgPerFile = dist.Mean
	s.P50PerFile = dist.P50
	s.P90PerFile = dist.P90
	s.MaxPerFile = int(dist.Max)
	return s
}
