package analysis

import (
	stderrors "errors"
	"testing"
	"unicode/utf8"

	"github.com/rohankatakam/codeinsight/internal/errors"
	"github.com/rohankatakam/codeinsight/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withPatterns(entities int, tags ...models.PatternTag) *models.AnalysisResult {
	return &models.AnalysisResult{EntitiesCount: entities, Patterns: tags}
}

func TestMergeInsights_Jaccard(t *testing.T) {
	a := withPatterns(1, "x", "y")
	b := withPatterns(1, "y", "z")

	report, err := MergeInsights(a, b)
	require.NoError(t, err)

	assert.Equal(t, []models.PatternTag{"y"}, report.CommonPatterns)
	assert.Equal(t, []models.PatternTag{"x"}, report.UniqueToA)
	assert.Equal(t, []models.PatternTag{"z"}, report.UniqueToB)
	assert.InDelta(t, 1.0/3.0, report.SimilarityScore, 1e-12)
	assert.Equal(t, []string{
		"Both analyses have similar complexity",
		"Common patterns: y",
		"A-specific patterns: x",
		"B-specific patterns: z",
	}, report.Insights)
}

func TestMergeInsights_Symmetry(t *testing.T) {
	a := withPatterns(3, "channel_usage", "select_pattern", "context_pattern")
	b := withPatterns(5, "context_pattern", "goroutine_launch")

	ab, err := MergeInsights(a, b)
	require.NoError(t, err)
	ba, err := MergeInsights(b, a)
	require.NoError(t, err)

	assert.Equal(t, ab.CommonPatterns, ba.CommonPatterns)
	assert.Equal(t, ab.UniqueToA, ba.UniqueToB)
	assert.Equal(t, ab.UniqueToB, ba.UniqueToA)
	assert.Equal(t, ab.SimilarityScore, ba.SimilarityScore)
}

func TestMergeInsights_Boundaries(t *testing.T) {
	empty, err := MergeInsights(withPatterns(0), withPatterns(0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.SimilarityScore)
	assert.Equal(t, []string{"Both analyses have similar complexity"}, empty.Insights)

	same, err := MergeInsights(withPatterns(0, "a", "b"), withPatterns(0, "b", "a"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, same.SimilarityScore)
	assert.Empty(t, same.UniqueToA)
	assert.Empty(t, same.UniqueToB)

	disjoint, err := MergeInsights(withPatterns(0, "a"), withPatterns(0, "b"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, disjoint.SimilarityScore)
}

func TestMergeInsights_DuplicateTagsCountOnce(t *testing.T) {
	report, err := MergeInsights(withPatterns(0, "a", "a", "b"), withPatterns(0, "a"))
	require.NoError(t, err)
	assert.Equal(t, 0.5, report.SimilarityScore)
}

func TestMergeInsights_EntityComparison(t *testing.T) {
	py := &models.AnalysisResult{EntitiesCount: 7, Language: "python"}
	goResult := &models.AnalysisResult{EntitiesCount: 2, Language: "go"}

	report, err := MergeInsights(py, goResult)
	require.NoError(t, err)
	assert.Equal(t, "Python has more complex structure", report.Insights[0])

	report, err = MergeInsights(goResult, py)
	require.NoError(t, err)
	assert.Equal(t, "Python has more complex structure", report.Insights[0])

	report, err = MergeInsightsLabeled("local", withPatterns(1), "peer", withPatterns(4, "x"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"peer has more complex structure",
		"peer-specific patterns: x",
	}, report.Insights)
}

func TestLanguageLabel(t *testing.T) {
	tests := map[string]string{
		"":       "",
		"go":     "Go",
		"Python": "Python",
		"élixir": "Élixir",
		"日本":     "日本",
		"\xffgo": "\xffgo",
	}
	for in, want := range tests {
		assert.Equal(t, want, languageLabel(in), "%q", in)
	}
}

func TestMergeInsights_MultibyteLanguage(t *testing.T) {
	a := &models.AnalysisResult{EntitiesCount: 3, Language: "élixir"}
	b := &models.AnalysisResult{EntitiesCount: 1, Language: "go"}

	report, err := MergeInsights(a, b)
	require.NoError(t, err)
	assert.Equal(t, "Élixir has more complex structure", report.Insights[0])
	for _, insight := range report.Insights {
		assert.True(t, utf8.ValidString(insight), insight)
	}
}

func TestMergeInsights_SameLanguageFallsBackToLetters(t *testing.T) {
	a := &models.AnalysisResult{Language: "go", Patterns: []models.PatternTag{"x"}}
	b := &models.AnalysisResult{Language: "go", Patterns: []models.PatternTag{"z"}}

	report, err := MergeInsights(a, b)
	require.NoError(t, err)
	assert.Contains(t, report.Insights, "A-specific patterns: x")
	assert.Contains(t, report.Insights, "B-specific patterns: z")
}

func TestMergeInsights_MissingPeer(t *testing.T) {
	report, err := MergeInsights(withPatterns(1, "x"), nil)
	assert.Nil(t, report)
	assert.True(t, stderrors.Is(err, errors.ErrMissingPeerResult))

	_, err = MergeInsights(nil, withPatterns(1, "x"))
	assert.ErrorIs(t, err, errors.ErrMissingPeerResult)
}

func TestMergeInsights_DoesNotMutateInputs(t *testing.T) {
	a := withPatterns(1, "z", "a")
	b := withPatterns(1, "a")

	_, err := MergeInsights(a, b)
	require.NoError(t, err)
	assert.Equal(t, []models.PatternTag{"z", "a"}, a.Patterns)
}
