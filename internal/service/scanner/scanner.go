// Package scanner exposes file discovery as a service for the CLI and the
// MCP server, wrapping per-path failures with user-facing context.
package scanner

import (
	"github.com/panbanda/vestige/pkg/config"
	"github.com/panbanda/vestige/pkg/parser"
	"github.com/panbanda/vestige/pkg/scanner"
)

// ScanResult contains the result of a file scan.
type ScanResult struct {
	Files          []string
	LanguageGroups map[parser.Language][]string
}

// Service provides file scanning functionality.
type Service struct {
	config *config.Config
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// New creates a new scanner service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanPaths scans files and directories and returns all lintable source
// files found, grouped by language. Empty input scans the current
// directory.
func (s *Service) ScanPaths(paths []string) (*ScanResult, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	scan := scanner.NewScanner(s.config)
	var files []string

	for _, path := range paths {
		found, err := scan.ScanPaths([]string{path})
		if err != nil {
			return nil, &ScanError{Path: path, Err: err}
		}
		files = append(files, found...)
	}

	return &ScanResult{
		Files:          files,
		LanguageGroups: scan.GroupByLanguage(files),
	}, nil
}

// ScanError indicates a scanning failure for one requested path.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return "failed to scan " + e.Path + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
