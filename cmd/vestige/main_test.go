package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/panbanda/vestige/pkg/config"
	"github.com/urfave/cli/v2"
)

// newTestApp returns the real app with exit handling suppressed so that
// exit-coded errors surface as return values instead of killing the test
// process.
func newTestApp() *cli.App {
	app := newApp()
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

// TestGetPaths verifies path handling from CLI arguments.
func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "no args defaults to current dir",
			args:     []string{},
			expected: []string{"."},
		},
		{
			name:     "single path",
			args:     []string{"/foo/bar"},
			expected: []string{"/foo/bar"},
		},
		{
			name:     "multiple paths",
			args:     []string{"/foo", "/bar"},
			expected: []string{"/foo", "/bar"},
		},
		{
			name:     "flags before paths are not positional",
			args:     []string{"-f", "json", "/foo"},
			expected: []string{"/foo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &cli.App{
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
					},
				},
				Action: func(c *cli.Context) error {
					result := getPaths(c)
					if len(result) != len(tt.expected) {
						t.Errorf("getPaths() = %v, want %v", result, tt.expected)
						return nil
					}
					for i := range result {
						if result[i] != tt.expected[i] {
							t.Errorf("getPaths()[%d] = %q, want %q", i, result[i], tt.expected[i])
						}
					}
					return nil
				},
			}
			args := append([]string{"test"}, tt.args...)
			_ = app.Run(args)
		})
	}
}

// TestLoadConfigFlag verifies that the global --config flag takes priority
// over the search locations.
func TestLoadConfigFlag(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom.toml")
	if err := os.WriteFile(configPath, []byte("[output]\nformat = \"json\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				t.Fatalf("loadConfig() error: %v", err)
			}
			if cfg.Output.Format != "json" {
				t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
			}
			return nil
		},
	}
	if err := app.Run([]string{"test", "-c", configPath}); err != nil {
		t.Fatalf("app.Run() error: %v", err)
	}
}

func TestLoadConfigBadPath(t *testing.T) {
	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}},
		},
		Action: func(c *cli.Context) error {
			_, err := loadConfig(c)
			if err == nil {
				t.Error("loadConfig() should fail for a missing file")
			}
			return nil
		},
	}
	if err := app.Run([]string{"test", "-c", "/nonexistent/vestige.toml"}); err != nil {
		t.Fatalf("app.Run() error: %v", err)
	}
}

// TestCheckCommandE2E runs the check command end-to-end and verifies the
// exit code and the JSON written to the output file.
func TestCheckCommandE2E(t *testing.T) {
	tmpDir := t.TempDir()
	srcFile := filepath.Join(tmpDir, "app.ts")
	content := "const dead = 1;\nexport const live = 2;\n"
	if err := os.WriteFile(srcFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	outFile := filepath.Join(tmpDir, "out.json")
	app := newTestApp()
	err := app.Run([]string{"vestige", "-f", "json", "-o", outFile, "--no-cache", "check", tmpDir})
	if err == nil {
		t.Fatal("check should exit non-zero when findings exist")
	}
	exitErr, ok := err.(cli.ExitCoder)
	if !ok {
		t.Fatalf("check returned %v, want an exit-coded error", err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.ExitCode())
	}

	data, readErr := os.ReadFile(outFile)
	if readErr != nil {
		t.Fatalf("failed to read output file: %v", readErr)
	}
	text := string(data)
	if !strings.Contains(text, "dead") {
		t.Errorf("output should report the unused binding, got: %s", text)
	}
	if !strings.Contains(text, "app.ts") {
		t.Errorf("output should name the file, got: %s", text)
	}
	if !strings.Contains(text, "total_findings") {
		t.Errorf("output should include the summary, got: %s", text)
	}
}

// TestCheckCommandNoFail verifies --fail-on-findings=false reports without
// a non-zero exit.
func TestCheckCommandNoFail(t *testing.T) {
	tmpDir := t.TempDir()
	srcFile := filepath.Join(tmpDir, "app.ts")
	if err := os.WriteFile(srcFile, []byte("const dead = 1;\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	outFile := filepath.Join(tmpDir, "out.json")
	app := newTestApp()
	err := app.Run([]string{"vestige", "-f", "json", "-o", outFile, "--no-cache", "check", "--fail-on-findings=false", tmpDir})
	if err != nil {
		t.Fatalf("check command failed: %v", err)
	}
}

// TestCheckCommandClean verifies a file with no unused bindings exits zero
// under the default flags.
func TestCheckCommandClean(t *testing.T) {
	tmpDir := t.TempDir()
	srcFile := filepath.Join(tmpDir, "app.ts")
	content := "export const live = 2;\n"
	if err := os.WriteFile(srcFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	outFile := filepath.Join(tmpDir, "out.json")
	app := newTestApp()
	err := app.Run([]string{"vestige", "-f", "json", "-o", outFile, "--no-cache", "check", tmpDir})
	if err != nil {
		t.Fatalf("check command failed: %v", err)
	}
}

// TestCheckCommandEmptyDir verifies the command handles directories without
// lintable files gracefully.
func TestCheckCommandEmptyDir(t *testing.T) {
	tmpDir := t.TempDir()

	app := newTestApp()
	if err := app.Run([]string{"vestige", "--no-cache", "check", tmpDir}); err != nil {
		t.Fatalf("check command failed on empty dir: %v", err)
	}
}

func TestCheckCommandInvalidArgsMode(t *testing.T) {
	tmpDir := t.TempDir()
	srcFile := filepath.Join(tmpDir, "app.ts")
	if err := os.WriteFile(srcFile, []byte("export const live = 2;\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	app := newTestApp()
	err := app.Run([]string{"vestige", "--no-cache", "check", "--args", "sometimes", tmpDir})
	if err == nil {
		t.Fatal("check should fail for an invalid args mode")
	}
	if !strings.Contains(err.Error(), "invalid args mode") {
		t.Errorf("error = %v, want invalid args mode", err)
	}
}

// TestScanCommandE2E verifies scan lists lintable files and nothing else.
func TestScanCommandE2E(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "app.ts"), []byte("export const x = 1;\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "readme.md"), []byte("# readme\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	outFile := filepath.Join(tmpDir, "out.json")
	app := newTestApp()
	if err := app.Run([]string{"vestige", "-f", "json", "-o", outFile, "scan", tmpDir}); err != nil {
		t.Fatalf("scan command failed: %v", err)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "app.ts") {
		t.Errorf("scan output should list app.ts, got: %s", text)
	}
	if strings.Contains(text, "readme.md") {
		t.Errorf("scan output should not list readme.md, got: %s", text)
	}
	if !strings.Contains(text, "typescript") {
		t.Errorf("scan output should group by language, got: %s", text)
	}
}

// TestInitCommand verifies init writes a config that loads back with the
// default values intact.
func TestInitCommand(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vestige.toml")

	app := newTestApp()
	if err := app.Run([]string{"vestige", "init", "-o", configPath}); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.Unused.Args != "after-used" {
		t.Errorf("Unused.Args = %s, want after-used", cfg.Unused.Args)
	}
	if cfg.Cache.TTL != 24 {
		t.Errorf("Cache.TTL = %d, want 24", cfg.Cache.TTL)
	}
	if len(cfg.Include.Extensions) != 8 {
		t.Errorf("Include.Extensions = %v, want 8 defaults", cfg.Include.Extensions)
	}
}

func TestInitCommandRefusesOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vestige.toml")
	if err := os.WriteFile(configPath, []byte("[output]\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	app := newTestApp()
	err := app.Run([]string{"vestige", "init", "-o", configPath})
	if err == nil {
		t.Fatal("init should refuse to overwrite without --force")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error = %v, want already exists", err)
	}

	if err := app.Run([]string{"vestige", "init", "-o", configPath, "--force"}); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	content, err := generateDefaultConfig()
	if err != nil {
		t.Fatalf("generateDefaultConfig() error: %v", err)
	}
	if !strings.HasPrefix(content, "# Vestige configuration\n") {
		t.Error("generated config should start with the header comment")
	}
	if !strings.Contains(content, "[unused]") {
		t.Error("generated config should contain the [unused] section")
	}
	if !strings.Contains(content, "[cache]") {
		t.Error("generated config should contain the [cache] section")
	}
}

// TestConfigValidateCommand covers valid files, schema violations, and bad
// ignore patterns.
func TestConfigValidateCommand(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vestige.toml")
	if err := os.WriteFile(configPath, []byte("[unused]\nargs = \"all\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	app := newTestApp()
	if err := app.Run([]string{"vestige", "-c", configPath, "config", "validate"}); err != nil {
		t.Fatalf("config validate failed for a valid file: %v", err)
	}
}

func TestConfigValidateCommandBadEnum(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vestige.toml")
	if err := os.WriteFile(configPath, []byte("[unused]\nargs = \"sometimes\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	app := newTestApp()
	if err := app.Run([]string{"vestige", "-c", configPath, "config", "validate"}); err == nil {
		t.Fatal("config validate should fail for an invalid args mode")
	}
}

func TestConfigValidateCommandBadPattern(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vestige.toml")
	if err := os.WriteFile(configPath, []byte("[unused]\nvars_ignore_pattern = \"[\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	app := newTestApp()
	if err := app.Run([]string{"vestige", "-c", configPath, "config", "validate"}); err == nil {
		t.Fatal("config validate should fail for an invalid ignore pattern")
	}
}

func TestConfigShowCommand(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vestige.toml")
	if err := os.WriteFile(configPath, []byte("[output]\nformat = \"json\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	app := newTestApp()
	if err := app.Run([]string{"vestige", "-c", configPath, "config", "show"}); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
}

// TestCacheCommands runs stats and clear against a fresh cache dir.
func TestCacheCommands(t *testing.T) {
	t.Chdir(t.TempDir())

	app := newTestApp()
	if err := app.Run([]string{"vestige", "cache", "stats"}); err != nil {
		t.Fatalf("cache stats failed: %v", err)
	}
	if err := app.Run([]string{"vestige", "cache", "clear"}); err != nil {
		t.Fatalf("cache clear failed: %v", err)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 << 20, "3.0 MiB"},
	}

	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatAge(t *testing.T) {
	if got := formatAge(0); got != "-" {
		t.Errorf("formatAge(0) = %q, want -", got)
	}
	if got := formatAge(90 * time.Second); got != "1m30s" {
		t.Errorf("formatAge(90s) = %q, want 1m30s", got)
	}
}

// TestVersionVariable verifies version variables are defined.
func TestVersionVariable(t *testing.T) {
	// These are set via ldflags at build time
	if version == "" {
		t.Error("version variable should have a default value")
	}
}
