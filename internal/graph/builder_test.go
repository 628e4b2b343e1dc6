package graph

import (
	"strings"
	"testing"

	"github.com/rohankatakam/codeinsight/internal/analysis"
	"github.com/rohankatakam/codeinsight/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goSource = `type Pool struct {
	jobs chan int
}

func Run() {
	go worker(jobs)
	go worker(jobs)
	defer wg.Wait()
}
`

func goDocument(t *testing.T) Document {
	t.Helper()
	structure, err := analysis.AnalyzeLanguage(goSource, "go")
	require.NoError(t, err)
	return Document{
		Source:    "pool.go",
		Structure: structure,
		Design:    analysis.ExtractDesignPatterns(goSource),
	}
}

func rowsOf(stmt Statement) []map[string]any {
	rows, _ := stmt.Params["rows"].([]map[string]any)
	return rows
}

func TestBuildStatements(t *testing.T) {
	stmts, err := BuildStatements(goDocument(t), DefaultBatchConfig())
	require.NoError(t, err)
	require.Len(t, stmts, 6)

	assert.Contains(t, stmts[0].Query, "DETACH DELETE n")
	assert.Contains(t, stmts[1].Query, "DELETE r")
	assert.Contains(t, stmts[2].Query, "MERGE (s:Source {path: $source})")
	assert.Equal(t, "go", stmts[2].Params["language"])
	assert.Equal(t, int64(2), stmts[2].Params["entities_count"])
	assert.Equal(t, int64(2), stmts[2].Params["relationships_count"])

	entities := rowsOf(stmts[3])
	assert.Contains(t, stmts[3].Query, "MERGE (n:Entity {key: row.key})")
	assert.Contains(t, stmts[3].Query, "MERGE (s)-[r:DECLARES]->(n)")
	require.Len(t, entities, 2)
	assert.Equal(t, "pool.go#type:Pool@1", entities[0]["key"])
	assert.Equal(t, "pool.go#function:Run@5", entities[1]["key"])
	assert.Equal(t, map[string]any{"name": "Run", "kind": "function", "line": int64(5)}, entities[1]["props"])

	tasks := rowsOf(stmts[4])
	assert.Contains(t, stmts[4].Query, "[r:LAUNCHES]")
	require.Len(t, tasks, 2, "each launch site is its own task")
	assert.Equal(t, "pool.go#worker@6", tasks[0]["key"])
	assert.Equal(t, "pool.go#worker@7", tasks[1]["key"])
	assert.Equal(t, map[string]any{"line": int64(7)}, tasks[1]["edge"])

	patterns := rowsOf(stmts[5])
	assert.Contains(t, stmts[5].Query, "MERGE (n:Pattern {name: row.key})")
	categories := map[string]string{}
	for _, row := range patterns {
		categories[row["key"].(string)] = row["edge"].(map[string]any)["category"].(string)
	}
	assert.Equal(t, map[string]string{
		"channel_usage":    CategoryStructural,
		"goroutine_launch": CategoryStructural,
		"defer_usage":      CategoryLanguage,
	}, categories)

	for _, stmt := range stmts {
		assert.Equal(t, "pool.go", stmt.Params["source"])
	}
}

func TestBuildStatements_DesignPatterns(t *testing.T) {
	text := "type Producer struct{}\ntype Consumer struct{}\nvar once sync.Once"
	doc := Document{
		Source:    "pc.py",
		Structure: analysis.ScanStructure(text),
		Design:    analysis.ExtractDesignPatterns(text),
	}

	stmts, err := BuildStatements(doc, DefaultBatchConfig())
	require.NoError(t, err)

	var patterns []map[string]any
	for _, stmt := range stmts {
		if strings.Contains(stmt.Query, "Pattern") && stmt.Params["rows"] != nil {
			patterns = append(patterns, rowsOf(stmt)...)
		}
	}
	require.Len(t, patterns, 2)
	assert.Equal(t, string(models.DesignProducerConsumer), patterns[0]["key"])
	assert.Equal(t, string(models.DesignSingleton), patterns[1]["key"])
	assert.Equal(t, map[string]any{"category": CategoryDesign}, patterns[0]["props"])
}

func TestBuildStatements_EmptyStructure(t *testing.T) {
	stmts, err := BuildStatements(Document{Source: "empty.txt", Structure: analysis.ScanStructure("")}, BatchConfig{})
	require.NoError(t, err)
	assert.Len(t, stmts, 3, "only the clear and source statements")
}

func TestBuildStatements_Batching(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		b.WriteString("func f() {}\n")
	}
	doc := Document{Source: "many.go", Structure: analysis.ScanStructure(b.String())}

	stmts, err := BuildStatements(doc, BatchConfig{EntityBatchSize: 3})
	require.NoError(t, err)

	var sizes []int
	for _, stmt := range stmts {
		if strings.Contains(stmt.Query, "DECLARES]->(n)") {
			sizes = append(sizes, len(rowsOf(stmt)))
		}
	}
	assert.Equal(t, []int{3, 3, 1}, sizes)
}

func TestBuildStatements_Invalid(t *testing.T) {
	_, err := BuildStatements(Document{Structure: analysis.ScanStructure("")}, BatchConfig{})
	assert.Error(t, err)

	_, err = BuildStatements(Document{Source: "a.go"}, BatchConfig{})
	assert.Error(t, err)
}

func TestUnwindOwned_RejectsInjection(t *testing.T) {
	_, err := unwindOwned("Entity) DETACH DELETE (x", "key", RelDeclares)
	assert.Error(t, err)

	_, err = unwindOwned(LabelEntity, "key", "")
	assert.Error(t, err)
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Source", true},
		{"_private", true},
		{"EXHIBITS", true},
		{"a1", true},
		{"", false},
		{"1abc", false},
		{"has space", false},
		{"a-b", false},
		{"n:Label", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isValidIdentifier(tt.in), tt.in)
	}
}
