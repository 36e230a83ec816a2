// Package analysis wires configuration, caching, and the unused-binding
// analyzer into one entry point shared by the CLI and the MCP server.
package analysis

import (
	"context"
	"regexp"

	"github.com/panbanda/vestige/internal/cache"
	"github.com/panbanda/vestige/pkg/analyzer/unused"
	"github.com/panbanda/vestige/pkg/config"
)

// Service orchestrates unused-binding analysis.
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

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the configuration the service was built with.
func (s *Service) Config() *config.Config {
	return s.config
}

// UnusedOptions configures one unused-binding run. String fields override
// the loaded configuration when non-empty; boolean overrides can only
// tighten what the configuration allows.
type UnusedOptions struct {
	Args                           string
	Vars                           string
	CaughtErrors                   string
	IgnoreRestSiblings             bool
	VarsIgnorePattern              string
	ArgsIgnorePattern              string
	CaughtErrorsIgnorePattern      string
	DestructuredArrayIgnorePattern string
	MaxFileSize                    int64
	NoCache                        bool
}

// AnalyzeUnused runs unused-binding analysis on the given files. Progress
// is tracked through ctx, so callers attach a tracker before calling.
func (s *Service) AnalyzeUnused(ctx context.Context, files []string, opts UnusedOptions) (*unused.Analysis, error) {
	ruleOpts, err := s.RuleOptions(opts)
	if err != nil {
		return nil, err
	}

	analyzerOpts := []unused.Option{unused.WithOptions(ruleOpts)}

	if opts.MaxFileSize > 0 {
		analyzerOpts = append(analyzerOpts, unused.WithMaxFileSize(opts.MaxFileSize))
	} else if s.config.Include.MaxFileSize > 0 {
		analyzerOpts = append(analyzerOpts, unused.WithMaxFileSize(s.config.Include.MaxFileSize))
	}

	if s.config.Cache.Enabled && !opts.NoCache {
		c, err := cache.New(s.config.Cache.Dir, s.config.Cache.TTL, true)
		if err != nil {
			return nil, err
		}
		analyzerOpts = append(analyzerOpts, unused.WithCache(c))
	}

	ua := unused.New(analyzerOpts...)
	defer ua.Close()

	return ua.Analyze(ctx, files)
}

// RuleOptions resolves rule options from the configuration plus per-call
// overrides. Mode strings and ignore patterns are validated here so a bad
// value fails the run before any file is parsed.
func (s *Service) RuleOptions(opts UnusedOptions) (unused.Options, error) {
	uc := s.effectiveUnused(opts)

	ruleOpts := unused.Options{IgnoreRestSiblings: uc.IgnoreRestSiblings}

	var err error
	if ruleOpts.Args, err = unused.ParseArgsMode(uc.Args); err != nil {
		return unused.Options{}, err
	}
	if ruleOpts.Vars, err = unused.ParseVarsMode(uc.Vars); err != nil {
		return unused.Options{}, err
	}
	if ruleOpts.CaughtErrors, err = unused.ParseCaughtMode(uc.CaughtErrors); err != nil {
		return unused.Options{}, err
	}
	if ruleOpts.VarsIgnorePattern, err = compilePattern(uc.VarsIgnorePattern); err != nil {
		return unused.Options{}, err
	}
	if ruleOpts.ArgsIgnorePattern, err = compilePattern(uc.ArgsIgnorePattern); err != nil {
		return unused.Options{}, err
	}
	if ruleOpts.CaughtErrorsIgnorePattern, err = compilePattern(uc.CaughtErrorsIgnorePattern); err != nil {
		return unused.Options{}, err
	}
	if ruleOpts.DestructuredArrayIgnorePattern, err = compilePattern(uc.DestructuredArrayIgnorePattern); err != nil {
		return unused.Options{}, err
	}

	return ruleOpts, nil
}

// effectiveUnused overlays per-call overrides onto the configured rule
// settings.
func (s *Service) effectiveUnused(opts UnusedOptions) config.UnusedConfig {
	uc := s.config.Unused
	if opts.Args != "" {
		uc.Args = opts.Args
	}
	if opts.Vars != "" {
		uc.Vars = opts.Vars
	}
	if opts.CaughtErrors != "" {
		uc.CaughtErrors = opts.CaughtErrors
	}
	if opts.IgnoreRestSiblings {
		uc.IgnoreRestSiblings = true
	}
	if opts.VarsIgnorePattern != "" {
		uc.VarsIgnorePattern = opts.VarsIgnorePattern
	}
	if opts.ArgsIgnorePattern != "" {
		uc.ArgsIgnorePattern = opts.ArgsIgnorePattern
	}
	if opts.CaughtErrorsIgnorePattern != "" {
		uc.CaughtErrorsIgnorePattern = opts.CaughtErrorsIgnorePattern
	}
	if opts.DestructuredArrayIgnorePattern != "" {
		uc.DestructuredArrayIgnorePattern = opts.DestructuredArrayIgnorePattern
	}
	return uc
}

// compilePattern compiles one ignore pattern, treating empty as unset.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}
	return re, nil
}

// OpenCache opens the configured analysis cache regardless of whether
// caching is enabled for runs, so maintenance commands can inspect it.
func (s *Service) OpenCache() (*cache.Cache, error) {
	return cache.New(s.config.Cache.Dir, s.config.Cache.TTL, true)
}

// PatternError indicates an invalid ignore pattern.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return "invalid pattern " + e.Pattern + ": " + e.Err.Error()
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
