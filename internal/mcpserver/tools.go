package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/vestige/internal/output"
	"github.com/panbanda/vestige/internal/service/analysis"
	scannerSvc "github.com/panbanda/vestige/internal/service/scanner"
	toon "github.com/toon-format/toon-go"
)

// AnalyzeInput is the base input shared by all vestige tools.
type AnalyzeInput struct {
	Paths  []string `json:"paths,omitempty" jsonschema:"Paths to check. Defaults to current directory if empty."`
	Format string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// CheckUnusedInput adds per-call rule options for the unused-binding check.
// String options left empty fall back to the configuration file.
type CheckUnusedInput struct {
	AnalyzeInput
	Args                           string `json:"args,omitempty" jsonschema:"Parameter checking mode: after-used (default), all, or none."`
	Vars                           string `json:"vars,omitempty" jsonschema:"Variable checking mode: all (default) or local."`
	CaughtErrors                   string `json:"caught_errors,omitempty" jsonschema:"Catch parameter checking mode: all (default) or none."`
	IgnoreRestSiblings             bool   `json:"ignore_rest_siblings,omitempty" jsonschema:"Exempt bindings whose object destructuring pattern also contains a rest element."`
	VarsIgnorePattern              string `json:"vars_ignore_pattern,omitempty" jsonschema:"Regex exempting matching variable names, e.g. ^_."`
	ArgsIgnorePattern              string `json:"args_ignore_pattern,omitempty" jsonschema:"Regex exempting matching parameter names."`
	CaughtErrorsIgnorePattern      string `json:"caught_errors_ignore_pattern,omitempty" jsonschema:"Regex exempting matching catch parameter names."`
	DestructuredArrayIgnorePattern string `json:"destructured_array_ignore_pattern,omitempty" jsonschema:"Regex exempting names bound by array destructuring."`
	NoCache                        bool   `json:"no_cache,omitempty" jsonschema:"Bypass the result cache for this run."`
}

// ScanFilesInput selects paths for file discovery.
type ScanFilesInput struct {
	AnalyzeInput
}

// Helper functions

func getPaths(input AnalyzeInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(input AnalyzeInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return "```\n" + string(out) + "\n```", nil
	default:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// Tool handlers

func handleCheckUnused(ctx context.Context, req *mcp.CallToolRequest, input CheckUnusedInput) (*mcp.CallToolResult, any, error) {
	paths := getPaths(input.AnalyzeInput)
	format := getFormat(input.AnalyzeInput)

	scanner := scannerSvc.New()
	scanResult, err := scanner.ScanPaths(paths)
	if err != nil {
		return toolError(err.Error())
	}

	if len(scanResult.Files) == 0 {
		return toolError("no lintable files found")
	}

	svc := analysis.New()
	result, err := svc.AnalyzeUnused(ctx, scanResult.Files, analysis.UnusedOptions{
		Args:                           input.Args,
		Vars:                           input.Vars,
		CaughtErrors:                   input.CaughtErrors,
		IgnoreRestSiblings:             input.IgnoreRestSiblings,
		VarsIgnorePattern:              input.VarsIgnorePattern,
		ArgsIgnorePattern:              input.ArgsIgnorePattern,
		CaughtErrorsIgnorePattern:      input.CaughtErrorsIgnorePattern,
		DestructuredArrayIgnorePattern: input.DestructuredArrayIgnorePattern,
		NoCache:                        input.NoCache,
	})
	if err != nil {
		return toolError(err.Error())
	}

	return toolResult(result, format)
}

func handleScanFiles(ctx context.Context, req *mcp.CallToolRequest, input ScanFilesInput) (*mcp.CallToolResult, any, error) {
	paths := getPaths(input.AnalyzeInput)
	format := getFormat(input.AnalyzeInput)

	scanner := scannerSvc.New()
	scanResult, err := scanner.ScanPaths(paths)
	if err != nil {
		return toolError(err.Error())
	}

	byLanguage := make(map[string]int, len(scanResult.LanguageGroups))
	for lang, group := range scanResult.LanguageGroups {
		byLanguage[string(lang)] = len(group)
	}

	result := struct {
		Files      []string       `json:"files" toon:"files"`
		Total      int            `json:"total" toon:"total"`
		ByLanguage map[string]int `json:"by_language" toon:"by_language"`
	}{scanResult.Files, len(scanResult.Files), byLanguage}

	return toolResult(result, format)
}
