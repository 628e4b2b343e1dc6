package analysis

import (
	"math"

	"github.com/rohankatakam/codeinsight/internal/models"
)

// Complexity weights per counted item
const (
	entityWeight        = 0.1
	relationshipWeight  = 0.2
	designPatternWeight = 0.5
)

// ScoreComplexity is the weighted sum of entity, relationship and design
// pattern counts, rounded to two decimals. nil inputs count as zero.
func ScoreComplexity(structure *models.AnalysisResult, design *models.DesignPatternResult) float64 {
	var entities, relationships, designs int
	if structure != nil {
		entities = structure.EntitiesCount
		relationships = structure.RelationshipsCount
	}
	if design != nil {
		designs = len(design.Patterns)
	}
	return complexityScore(entities, relationships, designs)
}

func complexityScore(entities, relationships, designs int) float64 {
	raw := entityWeight*float64(entities) +
		relationshipWeight*float64(relationships) +
		designPatternWeight*float64(designs)
	return math.Round(raw*100) / 100
}
