package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/panbanda/vestige/internal/output"
	"github.com/panbanda/vestige/internal/progress"
	"github.com/panbanda/vestige/internal/service/analysis"
	scannerSvc "github.com/panbanda/vestige/internal/service/scanner"
	"github.com/panbanda/vestige/pkg/analyzer"
	"github.com/panbanda/vestige/pkg/config"
	"github.com/panbanda/vestige/pkg/parser"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// loadConfig honors the global --config flag and otherwise falls back to
// the standard search locations.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "vestige",
		Usage:    "Unused-binding detection for TypeScript and JavaScript",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `Vestige finds variables, parameters, imports, classes, and type
declarations that are bound but never read, following the allow-list
semantics of eslint's no-unused-vars.

Supports: TypeScript, TSX, JavaScript, JSX`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"VESTIGE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable caching",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
			&cli.StringFlag{
				Name:  "pprof",
				Usage: "Enable pprof profiling and write to specified prefix (creates <prefix>.cpu.pprof and <prefix>.mem.pprof)",
			},
		},
		Before: func(c *cli.Context) error {
			if pprofPrefix := c.String("pprof"); pprofPrefix != "" {
				cpuFile, err := os.Create(pprofPrefix + ".cpu.pprof")
				if err != nil {
					return fmt.Errorf("failed to create CPU profile: %w", err)
				}
				if err := pprof.StartCPUProfile(cpuFile); err != nil {
					cpuFile.Close()
					return fmt.Errorf("failed to start CPU profile: %w", err)
				}
				// Store file handle for cleanup
				c.App.Metadata["pprofCPU"] = cpuFile
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if pprofPrefix := c.String("pprof"); pprofPrefix != "" {
				// Stop CPU profile
				pprof.StopCPUProfile()
				if cpuFile, ok := c.App.Metadata["pprofCPU"].(*os.File); ok {
					cpuFile.Close()
					color.Green("CPU profile written to %s.cpu.pprof", pprofPrefix)
				}

				// Write memory profile
				memFile, err := os.Create(pprofPrefix + ".mem.pprof")
				if err != nil {
					return fmt.Errorf("failed to create memory profile: %w", err)
				}
				defer memFile.Close()

				runtime.GC() // Get up-to-date statistics
				if err := pprof.WriteHeapProfile(memFile); err != nil {
					return fmt.Errorf("failed to write memory profile: %w", err)
				}
				color.Green("Memory profile written to %s.mem.pprof", pprofPrefix)
			}
			return nil
		},
		Commands: []*cli.Command{
			checkCmd(),
			scanCmd(),
			initCmd(),
			configCmd(),
			cacheCmd(),
			mcpCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Aliases:   []string{"unused"},
		Usage:     "Report unused bindings",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "args",
				Usage: "Parameter checking: after-used, all, none",
			},
			&cli.StringFlag{
				Name:  "vars",
				Usage: "Variable checking: all, local",
			},
			&cli.StringFlag{
				Name:  "caught-errors",
				Usage: "Catch parameter checking: all, none",
			},
			&cli.BoolFlag{
				Name:  "ignore-rest-siblings",
				Usage: "Skip bindings whose object pattern also has a rest element",
			},
			&cli.StringFlag{
				Name:  "vars-ignore-pattern",
				Usage: "Regexp of variable names to skip",
			},
			&cli.StringFlag{
				Name:  "args-ignore-pattern",
				Usage: "Regexp of parameter names to skip",
			},
			&cli.StringFlag{
				Name:  "caught-errors-ignore-pattern",
				Usage: "Regexp of catch parameter names to skip",
			},
			&cli.StringFlag{
				Name:  "destructured-array-ignore-pattern",
				Usage: "Regexp of array destructuring names to skip",
			},
			&cli.Int64Flag{
				Name:  "max-file-size",
				Usage: "Largest file in bytes to analyze (0 = no limit)",
			},
			&cli.BoolFlag{
				Name:  "fail-on-findings",
				Value: true,
				Usage: "Exit 1 when unused bindings are found",
			},
		},
		Action: runCheckCmd,
	}
}

func runCheckCmd(c *cli.Context) error {
	paths := getPaths(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	scan := scannerSvc.New(scannerSvc.WithConfig(cfg))
	scanResult, err := scan.ScanPaths(paths)
	if err != nil {
		return err
	}

	if len(scanResult.Files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	if c.Bool("verbose") && output.ParseFormat(c.String("format")) == output.FormatText {
		color.Cyan("Checking %d files", len(scanResult.Files))
	}

	svc := analysis.New(analysis.WithConfig(cfg))
	opts := analysis.UnusedOptions{
		Args:                           c.String("args"),
		Vars:                           c.String("vars"),
		CaughtErrors:                   c.String("caught-errors"),
		IgnoreRestSiblings:             c.Bool("ignore-rest-siblings"),
		VarsIgnorePattern:              c.String("vars-ignore-pattern"),
		ArgsIgnorePattern:              c.String("args-ignore-pattern"),
		CaughtErrorsIgnorePattern:      c.String("caught-errors-ignore-pattern"),
		DestructuredArrayIgnorePattern: c.String("destructured-array-ignore-pattern"),
		MaxFileSize:                    c.Int64("max-file-size"),
		NoCache:                        c.Bool("no-cache"),
	}

	tracker := progress.NewTracker("Checking bindings...", len(scanResult.Files))
	ctx := analyzer.WithTracker(context.Background(), analyzer.NewTracker(func(current, total int, path string) {
		tracker.Tick()
	}))

	result, err := svc.AnalyzeUnused(ctx, scanResult.Files, opts)
	tracker.Finish()
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, f := range result.Findings {
		rows = append(rows, []string{
			fmt.Sprintf("%s:%d:%d", f.File, f.Line, f.Column),
			color.YellowString(f.Name),
			string(f.Kind),
			f.Message(),
		})
	}

	table := output.NewTable(
		"Unused Bindings",
		[]string{"Location", "Name", "Kind", "Message"},
		rows,
		[]string{
			fmt.Sprintf("Findings: %d", result.Summary.TotalFindings),
			fmt.Sprintf("Files: %d", result.FilesAnalyzed),
			fmt.Sprintf("Skipped: %d", result.FilesSkipped),
			fmt.Sprintf("Cache hits: %d", result.CacheHits),
		},
		result,
	)

	if err := formatter.Output(table); err != nil {
		return err
	}

	if len(result.Errors) > 0 && formatter.Format() == output.FormatText {
		fmt.Println()
		color.Yellow("Errors (%d):", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	if c.Bool("fail-on-findings") && result.Summary.TotalFindings > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func scanCmd() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "List the files a check would analyze",
		ArgsUsage: "[path...]",
		Action:    runScanCmd,
	}
}

func runScanCmd(c *cli.Context) error {
	paths := getPaths(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	spinner := progress.NewSpinner("Scanning files...")
	scan := scannerSvc.New(scannerSvc.WithConfig(cfg))
	scanResult, err := scan.ScanPaths(paths)
	spinner.Finish()
	if err != nil {
		return err
	}

	if len(scanResult.Files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	langs := make([]parser.Language, 0, len(scanResult.LanguageGroups))
	for lang := range scanResult.LanguageGroups {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })

	byLanguage := make(map[string]int, len(langs))
	var rows [][]string
	for _, lang := range langs {
		group := append([]string(nil), scanResult.LanguageGroups[lang]...)
		sort.Strings(group)
		byLanguage[string(lang)] = len(group)
		for _, file := range group {
			rows = append(rows, []string{file, string(lang)})
		}
	}

	scanData := struct {
		Files      []string       `json:"files" toon:"files"`
		Total      int            `json:"total" toon:"total"`
		ByLanguage map[string]int `json:"by_language" toon:"by_language"`
	}{
		Files:      scanResult.Files,
		Total:      len(scanResult.Files),
		ByLanguage: byLanguage,
	}

	table := output.NewTable(
		"Lintable Files",
		[]string{"File", "Language"},
		rows,
		[]string{
			fmt.Sprintf("Total: %d", scanData.Total),
			fmt.Sprintf("Languages: %d", len(byLanguage)),
		},
		scanData,
	)

	return formatter.Output(table)
}

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Cache management commands",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache size and entry ages",
				Action: runCacheStatsCmd,
			},
			{
				Name:   "clear",
				Usage:  "Delete all cached results",
				Action: runCacheClearCmd,
			},
		},
	}
}

func runCacheStatsCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	svc := analysis.New(analysis.WithConfig(cfg))
	cch, err := svc.OpenCache()
	if err != nil {
		return err
	}

	stats, err := cch.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	rows := [][]string{
		{"Directory", cfg.Cache.Dir},
		{"Entries", fmt.Sprintf("%d", stats.Entries)},
		{"Size", formatSize(stats.TotalSize)},
		{"Oldest entry", formatAge(stats.OldestAge)},
		{"Newest entry", formatAge(stats.NewestAge)},
	}

	table := output.NewTable("Cache", []string{"Metric", "Value"}, rows, nil, stats)
	return formatter.Output(table)
}

func runCacheClearCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	svc := analysis.New(analysis.WithConfig(cfg))
	cch, err := svc.OpenCache()
	if err != nil {
		return err
	}

	if err := cch.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	color.Green("Cache cleared")
	return nil
}

// formatSize renders a byte count with a binary unit.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// formatAge renders an entry age, or "-" for an empty cache.
func formatAge(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	return d.Round(time.Second).String()
}
