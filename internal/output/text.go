package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/rohankatakam/codeinsight/internal/models"
)

// FileAnalysis is one file's result in a multi-file run. Error is set instead
// of Result when the file could not be analyzed.
type FileAnalysis struct {
	Path   string                 `json:"path" yaml:"path"`
	Result *models.AnalysisResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string                 `json:"error,omitempty" yaml:"error,omitempty"`
}

// TextFormatter renders results for a human at a terminal. Values it does not
// know are written as YAML.
type TextFormatter struct{}

func (f *TextFormatter) Format(v interface{}, w io.Writer) error {
	switch r := v.(type) {
	case *models.AnalysisResult:
		writeAnalysis(w, r)
	case *models.DesignPatternResult:
		writeDesign(w, r)
	case *models.Report:
		writeReport(w, r)
	case *models.InsightReport:
		writeInsights(w, r)
	case *models.SyncResult:
		writeSync(w, r)
	case FileAnalysis:
		writeFile(w, r)
	case []FileAnalysis:
		for i, fa := range r {
			if i > 0 {
				fmt.Fprintln(w)
			}
			writeFile(w, fa)
		}
	default:
		return (&YAMLFormatter{}).Format(v, w)
	}
	return nil
}

func writeFile(w io.Writer, fa FileAnalysis) {
	if fa.Error != "" {
		fmt.Fprintf(w, "❌ %s: %s\n", fa.Path, fa.Error)
		return
	}
	fmt.Fprintf(w, "📄 %s\n", fa.Path)
	writeAnalysis(w, fa.Result)
}

func writeAnalysis(w io.Writer, r *models.AnalysisResult) {
	if r == nil {
		fmt.Fprintf(w, "No analysis\n")
		return
	}
	if r.Language != "" {
		fmt.Fprintf(w, "Language: %s\n", r.Language)
	}
	fmt.Fprintf(w, "Entities: %d\n", r.EntitiesCount)
	for _, e := range r.Entities {
		fmt.Fprintf(w, "  %4d  %-8s %s\n", e.Line, e.Kind, e.Name)
	}
	fmt.Fprintf(w, "Relationships: %d\n", r.RelationshipsCount)
	for _, rel := range r.Relationships {
		fmt.Fprintf(w, "  %4d  %s %s %s\n", rel.Line, rel.Source, rel.Kind, rel.Target)
	}
	fmt.Fprintf(w, "Patterns: %s\n", tagList(r.Patterns))
	if len(r.LanguagePatterns) > 0 {
		fmt.Fprintf(w, "Language patterns: %s\n", tagList(r.LanguagePatterns))
	}
}

func writeDesign(w io.Writer, r *models.DesignPatternResult) {
	fmt.Fprintf(w, "Design patterns (%d): %s\n", r.Count, tagList(r.Patterns))
}

func writeReport(w io.Writer, r *models.Report) {
	fmt.Fprintf(w, "🔍 Analysis Report\n\n")
	writeAnalysis(w, r.Structure)
	if r.Patterns != nil {
		writeDesign(w, r.Patterns)
	}
	fmt.Fprintf(w, "\nSummary:\n")
	fmt.Fprintf(w, "  Entities:        %d\n", r.Summary.TotalEntities)
	fmt.Fprintf(w, "  Relationships:   %d\n", r.Summary.TotalRelationships)
	fmt.Fprintf(w, "  Design patterns: %d\n", r.Summary.DesignPatternCount)
	fmt.Fprintf(w, "  Complexity:      %.2f %s\n", r.Summary.ComplexityScore, complexityEmoji(r.Summary.ComplexityScore))
}

func writeInsights(w io.Writer, r *models.InsightReport) {
	fmt.Fprintf(w, "Similarity: %.2f\n", r.SimilarityScore)
	for _, insight := range r.Insights {
		fmt.Fprintf(w, "- %s\n", insight)
	}
}

func writeSync(w io.Writer, r *models.SyncResult) {
	fmt.Fprintf(w, "🔄 Synchronization: %s\n\n", r.SynchronizationStatus)
	fmt.Fprintf(w, "Local:\n")
	writeIndented(w, func(w io.Writer) { writeAnalysis(w, r.LocalAnalysis) })
	fmt.Fprintf(w, "Peer:\n")
	writeIndented(w, func(w io.Writer) { writeAnalysis(w, r.PeerAnalysis) })
	if r.CrossLanguageInsights != nil {
		fmt.Fprintln(w)
		writeInsights(w, r.CrossLanguageInsights)
	}
}

func writeIndented(w io.Writer, fn func(io.Writer)) {
	var b strings.Builder
	fn(&b)
	for _, line := range strings.SplitAfter(b.String(), "\n") {
		if line != "" {
			fmt.Fprintf(w, "  %s", line)
		}
	}
}

func tagList(tags []models.PatternTag) string {
	if len(tags) == 0 {
		return "none"
	}
	return strings.Join(models.PatternStrings(tags), ", ")
}

func complexityEmoji(score float64) string {
	switch {
	case score >= 5:
		return "🔴"
	case score >= 2:
		return "🟡"
	default:
		return "🟢"
	}
}
