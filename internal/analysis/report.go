package analysis

import "github.com/rohankatakam/codeinsight/internal/models"

// GenerateReport runs the structural scan and design extraction over text and
// merges them
func GenerateReport(text string) *models.Report {
	return Aggregate(ScanStructure(text), ExtractDesignPatterns(text))
}

// Aggregate merges two existing results into a report. It adds no detection
// of its own.
func Aggregate(structure *models.AnalysisResult, design *models.DesignPatternResult) *models.Report {
	if structure == nil {
		structure = ScanStructure("")
	}
	if design == nil {
		design = ExtractDesignPatterns("")
	}
	return &models.Report{
		Structure: structure,
		Patterns:  design,
		Summary: models.ReportSummary{
			TotalEntities:      structure.EntitiesCount,
			TotalRelationships: structure.RelationshipsCount,
			DesignPatternCount: len(design.Patterns),
			ComplexityScore:    ScoreComplexity(structure, design),
		},
		AnalysisType: models.AnalysisTypeComprehensive,
	}
}
