// Package scanner discovers lintable source files. Discovery follows
// symbolic links, honors .gitignore files plus a configurable ignore
// file, applies override patterns in gitignore syntax, and filters by
// the configured extension allow-list. Returned paths are absolute and
// never canonicalized: a file reached through a symlinked directory
// keeps the symlinked spelling.
package scanner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/vestige/pkg/config"
	"github.com/panbanda/vestige/pkg/parser"
)

// minifiedMarkers are name substrings that mark build artifacts; files
// carrying one are never analyzed.
var minifiedMarkers = []string{".min.", "-min.", "_min."}

// Scanner finds source files in a directory tree.
type Scanner struct {
	config *config.Config
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// ScanPaths expands a mixed list of files and directories into the files
// to analyze. Directories are scanned recursively; explicit files only
// need to exist and pass the per-file checks.
func (s *Scanner) ScanPaths(paths []string) ([]string, error) {
	files := make([]string, 0, 256)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}

		if info.IsDir() {
			found, err := s.ScanDir(abs)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}

		ok, err := s.ScanFile(abs)
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, abs)
		}
	}
	return files, nil
}

// ScanDir recursively scans a directory for source files. Symbolic links
// to files and directories are followed; a visited set over resolved
// directory identities breaks link cycles. Dot-named entries and
// configured directory names are skipped. Unreadable subdirectories are
// skipped rather than failing the scan.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	w := &walker{
		config:  s.config,
		matcher: s.buildMatcher(absRoot),
		visited: make(map[string]struct{}),
		files:   make([]string, 0, 256),
	}
	if canonical, err := filepath.EvalSymlinks(absRoot); err == nil {
		w.visited[canonical] = struct{}{}
	}
	w.walk(absRoot, nil)
	return w.files, nil
}

// ScanFile checks if a single file should be analyzed.
func (s *Scanner) ScanFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}

	name := filepath.Base(path)
	if !wantedName(name, s.config) {
		return false, nil
	}

	absDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return false, err
	}
	if m := s.buildMatcher(absDir); m != nil && m.Match([]string{name}, false) {
		return false, nil
	}
	return true, nil
}

// FilterByLanguage filters files to only those of a specific language.
func (s *Scanner) FilterByLanguage(files []string, lang parser.Language) []string {
	var filtered []string
	for _, f := range files {
		if parser.DetectLanguage(f) == lang {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// GroupByLanguage groups files by their detected language.
func (s *Scanner) GroupByLanguage(files []string) map[parser.Language][]string {
	groups := make(map[parser.Language][]string)
	for _, f := range files {
		lang := parser.DetectLanguage(f)
		if lang != parser.LangUnknown {
			groups[lang] = append(groups[lang], f)
		}
	}
	return groups
}

// wantedName reports whether a file name passes the minified-marker and
// extension checks.
func wantedName(name string, cfg *config.Config) bool {
	for _, marker := range minifiedMarkers {
		if strings.Contains(name, marker) {
			return false
		}
	}
	return cfg.AllowsExtension(name)
}

// buildMatcher combines override patterns, .gitignore files, and the
// configured ignore file into a single matcher. Override patterns apply
// from the scan root; file-sourced patterns are scoped to the directory
// holding the file. Returns nil when nothing is excluded.
func (s *Scanner) buildMatcher(root string) gitignore.Matcher {
	var patterns []gitignore.Pattern

	for _, p := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}

	fs := osfs.New(root)
	if s.config.Exclude.Gitignore {
		if ps, err := gitignore.ReadPatterns(fs, nil); err == nil {
			patterns = append(patterns, ps...)
		}
	}
	if name := s.config.Exclude.IgnoreFile; name != "" && name != ".gitignore" {
		patterns = append(patterns, readIgnorePatterns(fs, nil, name)...)
	}

	if len(patterns) == 0 {
		return nil
	}
	return gitignore.NewMatcher(patterns)
}

// readIgnorePatterns recursively reads the named ignore file in every
// directory under path, scoping each file's patterns to its directory.
func readIgnorePatterns(fs billy.Filesystem, path []string, name string) []gitignore.Pattern {
	patterns := readIgnoreFile(fs, path, name)

	entries, err := fs.ReadDir(fs.Join(path...))
	if err != nil {
		return patterns
	}
	for _, entry := range entries {
		if entry.IsDir() && entry.Name() != ".git" {
			// copy: parsed patterns retain the domain slice
			sub := make([]string, len(path)+1)
			copy(sub, path)
			sub[len(path)] = entry.Name()
			patterns = append(patterns, readIgnorePatterns(fs, sub, name)...)
		}
	}
	return patterns
}

// readIgnoreFile parses one ignore file in gitignore syntax.
func readIgnoreFile(fs billy.Filesystem, path []string, name string) []gitignore.Pattern {
	f, err := fs.Open(fs.Join(append(path, name)...))
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, path))
	}
	return patterns
}

// walker carries the state of one ScanDir traversal.
type walker struct {
	config  *config.Config
	matcher gitignore.Matcher
	visited map[string]struct{}
	files   []string
}

// walk visits one directory. rel holds the path components relative to
// the scan root, which is what the ignore matcher operates on.
func (w *walker) walk(dir string, rel []string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		full := filepath.Join(dir, name)
		parts := make([]string, len(rel)+1)
		copy(parts, rel)
		parts[len(rel)] = name

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			target, err := os.Stat(full)
			if err != nil {
				// dangling link
				continue
			}
			isDir = target.IsDir()
		}

		if isDir {
			if w.skippedDir(name) {
				continue
			}
			if w.matcher != nil && w.matcher.Match(parts, true) {
				continue
			}
			canonical, err := filepath.EvalSymlinks(full)
			if err != nil {
				continue
			}
			if _, seen := w.visited[canonical]; seen {
				continue
			}
			w.visited[canonical] = struct{}{}
			w.walk(full, parts)
			continue
		}

		if !wantedName(name, w.config) {
			continue
		}
		if w.matcher != nil && w.matcher.Match(parts, false) {
			continue
		}
		w.files = append(w.files, full)
	}
}

func (w *walker) skippedDir(name string) bool {
	for _, dir := range w.config.Exclude.Dirs {
		if name == dir {
			return true
		}
	}
	return false
}
