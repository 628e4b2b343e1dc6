package analysis

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rohankatakam/codeinsight/internal/errors"
	"github.com/rohankatakam/codeinsight/internal/models"
)

// MergeInsights compares two analyses. Each side is labelled by its language,
// falling back to "A" and "B" when a language is missing or both match.
func MergeInsights(a, b *models.AnalysisResult) (*models.InsightReport, error) {
	labelA, labelB := resultLabel(a, "A"), resultLabel(b, "B")
	if labelA == labelB {
		labelA, labelB = "A", "B"
	}
	return MergeInsightsLabeled(labelA, a, labelB, b)
}

// MergeInsightsLabeled compares two analyses using caller-chosen labels in the
// insight strings. Set fields depend only on the pattern sets, so swapping the
// arguments swaps UniqueToA and UniqueToB and leaves the rest unchanged.
func MergeInsightsLabeled(labelA string, a *models.AnalysisResult, labelB string, b *models.AnalysisResult) (*models.InsightReport, error) {
	if a == nil {
		return nil, errors.MissingPeerResult(labelA)
	}
	if b == nil {
		return nil, errors.MissingPeerResult(labelB)
	}

	var insights []string
	switch {
	case a.EntitiesCount > b.EntitiesCount:
		insights = append(insights, fmt.Sprintf("%s has more complex structure", labelA))
	case b.EntitiesCount > a.EntitiesCount:
		insights = append(insights, fmt.Sprintf("%s has more complex structure", labelB))
	default:
		insights = append(insights, "Both analyses have similar complexity")
	}

	setA := newTagSet(a.Patterns...)
	setB := newTagSet(b.Patterns...)

	common := newTagSet()
	uniqueA := newTagSet()
	for t := range setA {
		if setB.has(t) {
			common.add(t)
		} else {
			uniqueA.add(t)
		}
	}
	uniqueB := newTagSet()
	for t := range setB {
		if !common.has(t) {
			uniqueB.add(t)
		}
	}

	report := &models.InsightReport{
		CommonPatterns:  common.sorted(),
		UniqueToA:       uniqueA.sorted(),
		UniqueToB:       uniqueB.sorted(),
		SimilarityScore: jaccard(len(setA), len(setB), len(common)),
	}

	if len(report.CommonPatterns) > 0 {
		insights = append(insights, "Common patterns: "+joinTags(report.CommonPatterns))
	}
	if len(report.UniqueToA) > 0 {
		insights = append(insights, fmt.Sprintf("%s-specific patterns: %s", labelA, joinTags(report.UniqueToA)))
	}
	if len(report.UniqueToB) > 0 {
		insights = append(insights, fmt.Sprintf("%s-specific patterns: %s", labelB, joinTags(report.UniqueToB)))
	}
	report.Insights = insights

	return report, nil
}

// jaccard is |common| / |A ∪ B|, with an empty union scoring 0
func jaccard(sizeA, sizeB, common int) float64 {
	union := sizeA + sizeB - common
	if union < 1 {
		union = 1
	}
	return float64(common) / float64(union)
}

func resultLabel(r *models.AnalysisResult, fallback string) string {
	if r == nil || r.Language == "" {
		return fallback
	}
	return languageLabel(r.Language)
}

// languageLabel title-cases a language identifier for display
func languageLabel(lang string) string {
	r, size := utf8.DecodeRuneInString(lang)
	if r == utf8.RuneError {
		return lang
	}
	return string(unicode.ToUpper(r)) + lang[size:]
}

func joinTags(tags []models.PatternTag) string {
	return strings.Join(models.PatternStrings(tags), ", ")
}
