package analysis

import (
	"testing"

	"github.com/rohankatakam/codeinsight/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestExtractDesignPatterns(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []models.PatternTag
	}{
		{
			name: "pipeline from chan and select",
			text: "out := make(chan int)\nselect {\ncase v := <-out:\n}",
			want: []models.PatternTag{models.DesignPipeline},
		},
		{
			name: "worker pool needs all three markers",
			text: "// each worker goroutine reads from a chan",
			want: []models.PatternTag{models.DesignWorkerPool},
		},
		{
			name: "worker pool missing goroutine",
			text: "worker reads from chan",
			want: []models.PatternTag{},
		},
		{
			name: "producer consumer is case sensitive",
			text: "producer consumer",
			want: []models.PatternTag{},
		},
		{
			name: "producer consumer",
			text: "type Producer struct{}\ntype Consumer struct{}",
			want: []models.PatternTag{models.DesignProducerConsumer},
		},
		{
			name: "singleton via sync.Once",
			text: "var initOnce sync.Once",
			want: []models.PatternTag{models.DesignSingleton},
		},
		{
			name: "singleton via once and do in any case",
			text: "ONCE.DO(setup)",
			want: []models.PatternTag{models.DesignSingleton},
		},
		{
			name: "fixture",
			text: loadFixture(t, "worker_pool.go.txt"),
			want: []models.PatternTag{models.DesignWorkerPool, models.DesignPipeline},
		},
		{
			name: "empty",
			text: "",
			want: []models.PatternTag{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractDesignPatterns(tt.text)
			assert.Equal(t, tt.want, result.Patterns)
			assert.Equal(t, len(tt.want), result.Count)
			assert.Equal(t, models.AnalysisTypeDesign, result.AnalysisType)
		})
	}
}

func TestExtractDesignPatterns_AllMatch(t *testing.T) {
	text := "Producer Consumer worker goroutine chan select sync.Once"
	result := ExtractDesignPatterns(text)

	assert.ElementsMatch(t, []models.PatternTag{
		models.DesignWorkerPool,
		models.DesignPipeline,
		models.DesignProducerConsumer,
		models.DesignSingleton,
	}, result.Patterns)
	assert.Equal(t, 4, result.Count)
}
