package unused

import "fmt"

// BindingKind classifies the declaration a finding points at.
type BindingKind string

const (
	KindVariable      BindingKind = "variable"
	KindParameter     BindingKind = "parameter"
	KindFunction      BindingKind = "function"
	KindClass         BindingKind = "class"
	KindNamespace     BindingKind = "namespace"
	KindImport        BindingKind = "import"
	KindCatchParam    BindingKind = "catch"
	KindEnum          BindingKind = "enum"
	KindInterface     BindingKind = "interface"
	KindTypeAlias     BindingKind = "type-alias"
	KindTypeParameter BindingKind = "type-parameter"
)

// Finding represents one unused binding.
type Finding struct {
	File      string      `json:"file" toon:"file"`
	Name      string      `json:"name" toon:"name"`
	Kind      BindingKind `json:"kind" toon:"kind"`
	Line      int         `json:"line" toon:"line"`
	Column    int         `json:"column" toon:"column"`
	EndLine   int         `json:"end_line" toon:"end_line"`
	EndColumn int         `json:"end_column" toon:"end_column"`
}

// Message renders the finding as a human-readable diagnostic.
func (f Finding) Message() string {
	switch f.Kind {
	case KindParameter:
		return fmt.Sprintf("'%s' is declared but never used.", f.Name)
	case KindCatchParam:
		return fmt.Sprintf("'%s' is caught but never used.", f.Name)
	case KindImport:
		return fmt.Sprintf("'%s' is imported but never used.", f.Name)
	default:
		return fmt.Sprintf("'%s' is assigned a value but never used.", f.Name)
	}
}

// FileResult groups the findings for a single file.
type FileResult struct {
	Path     string    `json:"path" toon:"path"`
	Findings []Finding `json:"findings" toon:"findings"`
}

// Analysis represents the full analysis result.
type Analysis struct {
	Findings      []Finding `json:"findings" toon:"findings"`
	FilesAnalyzed int       `json:"files_analyzed" toon:"files_analyzed"`
	FilesSkipped  int       `json:"files_skipped" toon:"files_skipped"`
	CacheHits     int       `json:"cache_hits" toon:"cache_hits"`
	Errors        []string  `json:"errors,omitempty" toon:"errors,omitempty"`
	Summary       Summary   `json:"summary" toon:"summary"`
}

// ByFile groups the findings by file, preserving the sorted order. Files
// without findings do not appear.
func (a *Analysis) ByFile() []FileResult {
	var out []FileResult
	for _, f := range a.Findings {
		if n := len(out); n == 0 || out[n-1].Path != f.File {
			out = append(out, FileResult{Path: f.File})
		}
		out[len(out)-1].Findings = append(out[len(out)-1].Findings, f)
	}
	return out
}

// Summary provides aggregate statistics.
type Summary struct {
	TotalFindings int                 `json:"total_findings" toon:"total_findings"`
	ByKind        map[BindingKind]int `json:"by_kind" toon:"by_kind"`
	AvgPerFile    float64             `json:"avg_per_file" toon:"avg_per_file"`
	P50PerFile    float64             `json:"p50_per_file" toon:"p50_per_file"`
	P90PerFile    float64             `json:"p90_per_file" toon:"p90_per_file"`
	MaxPerFile    int                 `json:"max_per_file" toon:"max_per_file"`
}
