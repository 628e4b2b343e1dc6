package analysis

import (
	"testing"

	"github.com/rohankatakam/codeinsight/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestScoreComplexity(t *testing.T) {
	tests := []struct {
		name          string
		entities      int
		relationships int
		designs       int
		want          float64
	}{
		{"zero", 0, 0, 0, 0},
		{"entities only", 3, 0, 0, 0.3},
		{"float noise rounded away", 1, 1, 0, 0.3},
		{"all weights", 4, 2, 2, 1.8},
		{"large", 123, 45, 3, 22.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			structure := &models.AnalysisResult{EntitiesCount: tt.entities, RelationshipsCount: tt.relationships}
			design := &models.DesignPatternResult{Patterns: make([]models.PatternTag, tt.designs), Count: tt.designs}

			got := ScoreComplexity(structure, design)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ScoreComplexity(structure, design))
		})
	}
}

func TestScoreComplexity_NilInputs(t *testing.T) {
	assert.Equal(t, 0.0, ScoreComplexity(nil, nil))
	assert.Equal(t, 0.5, ScoreComplexity(nil, &models.DesignPatternResult{Patterns: []models.PatternTag{"x"}}))
}

func TestScoreComplexity_Monotonic(t *testing.T) {
	prev := complexityScore(0, 0, 0)
	for i := 1; i < 50; i++ {
		next := complexityScore(i, 0, 0)
		assert.GreaterOrEqual(t, next, prev)
		assert.GreaterOrEqual(t, complexityScore(i, i, 0), next)
		assert.GreaterOrEqual(t, complexityScore(i, i, i), complexityScore(i, i, 0))
		prev = next
	}
}

func TestGenerateReport(t *testing.T) {
	report := GenerateReport(loadFixture(t, "worker_pool.go.txt"))

	assert.Equal(t, models.AnalysisTypeComprehensive, report.AnalysisType)
	assert.Equal(t, models.ReportSummary{
		TotalEntities:      4,
		TotalRelationships: 2,
		DesignPatternCount: 2,
		ComplexityScore:    1.8,
	}, report.Summary)
	assert.Equal(t, 4, report.Structure.EntitiesCount)
	assert.Equal(t, 2, report.Patterns.Count)
}

func TestAggregate_IsStrictlyAMerge(t *testing.T) {
	structure := &models.AnalysisResult{EntitiesCount: 2, RelationshipsCount: 1}
	design := &models.DesignPatternResult{Patterns: []models.PatternTag{models.DesignSingleton}, Count: 1}

	report := Aggregate(structure, design)

	assert.Same(t, structure, report.Structure)
	assert.Same(t, design, report.Patterns)
	assert.Equal(t, 0.9, report.Summary.ComplexityScore)
	assert.Equal(t, 1, report.Summary.DesignPatternCount)
}

func TestGenerateReport_Empty(t *testing.T) {
	report := GenerateReport("")
	assert.Equal(t, models.ReportSummary{}, report.Summary)
}
