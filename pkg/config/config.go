package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for vestige. The toml tags
// mirror the koanf keys so that a file written by `vestige init` loads
// back unchanged.
type Config struct {
	// Rule settings
	Unused UnusedConfig `koanf:"unused" toml:"unused"`

	// File inclusion settings
	Include IncludeConfig `koanf:"include" toml:"include"`

	// File exclusion settings
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// UnusedConfig controls which unused bindings are reported. Mode and
// pattern values are kept as strings here; the service layer parses them
// into rule options so that a bad value surfaces as a load-time error.
type UnusedConfig struct {
	Args                           string `koanf:"args" toml:"args"`
	Vars                           string `koanf:"vars" toml:"vars"`
	CaughtErrors                   string `koanf:"caught_errors" toml:"caught_errors"`
	IgnoreRestSiblings             bool   `koanf:"ignore_rest_siblings" toml:"ignore_rest_siblings"`
	VarsIgnorePattern              string `koanf:"vars_ignore_pattern" toml:"vars_ignore_pattern"`
	ArgsIgnorePattern              string `koanf:"args_ignore_pattern" toml:"args_ignore_pattern"`
	CaughtErrorsIgnorePattern      string `koanf:"caught_errors_ignore_pattern" toml:"caught_errors_ignore_pattern"`
	DestructuredArrayIgnorePattern string `koanf:"destructured_array_ignore_pattern" toml:"destructured_array_ignore_pattern"`
}

// IncludeConfig defines which files are candidates for analysis.
type IncludeConfig struct {
	// Extensions is the lintable extension allow-list, without dots.
	Extensions []string `koanf:"extensions" toml:"extensions"`
	// MaxFileSize is the largest file in bytes to analyze (0 = no limit).
	MaxFileSize int64 `koanf:"max_file_size" toml:"max_file_size"`
}

// ExcludeConfig defines how files are excluded from discovery.
type ExcludeConfig struct {
	// Patterns are override exclusions in gitignore syntax, including
	// `!` negation.
	Patterns []string `koanf:"patterns" toml:"patterns"`
	// Dirs are directory names skipped outright wherever they appear.
	Dirs []string `koanf:"dirs" toml:"dirs"`
	// Gitignore honors .gitignore files found during traversal.
	Gitignore bool `koanf:"gitignore" toml:"gitignore"`
	// IgnoreFile is an additional ignore file name read like .gitignore.
	IgnoreFile string `koanf:"ignore_file" toml:"ignore_file"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Unused: UnusedConfig{
			Args:         "after-used",
			Vars:         "all",
			CaughtErrors: "all",
		},
		Include: IncludeConfig{
			Extensions: []string{
				"js", "mjs", "cjs", "jsx",
				"ts", "mts", "cts", "tsx",
			},
		},
		Exclude: ExcludeConfig{
			Dirs: []string{
				"node_modules",
			},
			Gitignore:  true,
			IgnoreFile: ".vestigeignore",
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".vestige/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// parserFor selects a koanf parser from the file extension, defaulting
// to TOML.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	default:
		return toml.Parser()
	}
}

// Load loads configuration from a file. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Locate searches the standard locations for a config file and returns
// the first one found, or "" when none exists.
func Locate() string {
	configNames := []string{
		"vestige.toml",
		"vestige.yaml",
		"vestige.yml",
		"vestige.json",
		".vestige.toml",
		".vestige.yaml",
		".vestige.yml",
		".vestige.json",
	}

	searchDirs := []string{".", ".vestige"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	if path := Locate(); path != "" {
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

// AllowsExtension reports whether the file name's extension is in the
// lintable allow-list. Files without an extension are never allowed.
func (c *Config) AllowsExtension(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, allowed := range c.Include.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
