package analysis

import (
	"strings"

	"github.com/rohankatakam/codeinsight/internal/models"
)

// designPredicates are evaluated independently over the full text
var designPredicates = []struct {
	tag   models.PatternTag
	match func(text string) bool
}{
	{models.DesignWorkerPool, func(text string) bool {
		return containsAll(text, []string{"chan", "goroutine", "worker"})
	}},
	{models.DesignPipeline, func(text string) bool {
		return containsAll(text, []string{"chan", "select"})
	}},
	{models.DesignProducerConsumer, func(text string) bool {
		return containsAll(text, []string{"Producer", "Consumer"})
	}},
	{models.DesignSingleton, func(text string) bool {
		if strings.Contains(text, "sync.Once") {
			return true
		}
		lower := strings.ToLower(text)
		return strings.Contains(lower, "once") && strings.Contains(lower, "do")
	}},
}

// ExtractDesignPatterns derives higher-order design pattern tags from text
func ExtractDesignPatterns(text string) *models.DesignPatternResult {
	patterns := []models.PatternTag{}
	for _, p := range designPredicates {
		if p.match(text) {
			patterns = append(patterns, p.tag)
		}
	}
	return &models.DesignPatternResult{
		Patterns:     patterns,
		Count:        len(patterns),
		AnalysisType: models.AnalysisTypeDesign,
	}
}
