// Package graph writes analysis results into Neo4j.
//
// Each analyzed source becomes a (:Source {path}) node owning its declared
// entities and task launches. Pattern tags are shared (:Pattern {name}) nodes
// so sources exhibiting the same idiom meet in the graph:
//
//	(:Source)-[:DECLARES]->(:Entity)
//	(:Source)-[:LAUNCHES]->(:Task)
//	(:Source)-[:EXHIBITS {category}]->(:Pattern)
//
// Re-exporting a source replaces what it owns.
package graph

import (
	"fmt"
	"regexp"

	"github.com/rohankatakam/codeinsight/internal/models"
)

// Node labels and relationship types
const (
	LabelSource  = "Source"
	LabelEntity  = "Entity"
	LabelTask    = "Task"
	LabelPattern = "Pattern"

	RelDeclares = "DECLARES"
	RelLaunches = "LAUNCHES"
	RelExhibits = "EXHIBITS"
)

// Pattern categories, stored on EXHIBITS edges
const (
	CategoryStructural = "structural"
	CategoryLanguage   = "language"
	CategoryDesign     = "design"
)

// Document is one analyzed source ready for export. Design may be nil.
type Document struct {
	Source    string
	Structure *models.AnalysisResult
	Design    *models.DesignPatternResult
}

// Statement is a parameterized Cypher query
type Statement struct {
	Query  string
	Params map[string]any
}

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// isValidIdentifier reports whether s can be spliced into Cypher as a label,
// key or relationship type. Values always travel as parameters.
func isValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

const clearOwnedQuery = `
	MATCH (s:Source {path: $source})-[:DECLARES|LAUNCHES]->(n)
	DETACH DELETE n
`

const clearExhibitsQuery = `
	MATCH (s:Source {path: $source})-[r:EXHIBITS]->(:Pattern)
	DELETE r
`

const mergeSourceQuery = `
	MERGE (s:Source {path: $source})
	SET s.language = $language,
	    s.entities_count = $entities_count,
	    s.relationships_count = $relationships_count,
	    s.updated_at = datetime()
`

// BuildStatements turns a document into the ordered statements that replace
// its subgraph. Rows are split by cfg so no single UNWIND grows unbounded.
func BuildStatements(doc Document, cfg BatchConfig) ([]Statement, error) {
	if doc.Source == "" {
		return nil, fmt.Errorf("graph document has no source")
	}
	if doc.Structure == nil {
		return nil, fmt.Errorf("graph document %s has no structure analysis", doc.Source)
	}
	cfg = cfg.withDefaults()

	source := map[string]any{"source": doc.Source}
	stmts := []Statement{
		{Query: clearOwnedQuery, Params: source},
		{Query: clearExhibitsQuery, Params: source},
		{Query: mergeSourceQuery, Params: map[string]any{
			"source":              doc.Source,
			"language":            doc.Structure.Language,
			"entities_count":      int64(doc.Structure.EntitiesCount),
			"relationships_count": int64(doc.Structure.RelationshipsCount),
		}},
	}

	groups := []struct {
		label, key, rel string
		rows            []map[string]any
		size            int
	}{
		{LabelEntity, "key", RelDeclares, entityRows(doc), cfg.EntityBatchSize},
		{LabelTask, "key", RelLaunches, taskRows(doc), cfg.EntityBatchSize},
		{LabelPattern, "name", RelExhibits, patternRows(doc), cfg.PatternBatchSize},
	}

	for _, g := range groups {
		query, err := unwindOwned(g.label, g.key, g.rel)
		if err != nil {
			return nil, err
		}
		for _, batch := range chunk(g.rows, g.size) {
			stmts = append(stmts, Statement{
				Query:  query,
				Params: map[string]any{"source": doc.Source, "rows": batch},
			})
		}
	}

	return stmts, nil
}

// unwindOwned builds the batch MERGE linking each row's node to the source.
// A row carries "key", the node "props" and the edge "edge" properties.
func unwindOwned(label, key, rel string) (string, error) {
	for _, id := range []string{label, key, rel} {
		if !isValidIdentifier(id) {
			return "", fmt.Errorf("invalid cypher identifier: %q", id)
		}
	}
	return fmt.Sprintf(`
	UNWIND $rows AS row
	MATCH (s:Source {path: $source})
	MERGE (n:%s {%s: row.key})
	SET n += row.props
	MERGE (s)-[r:%s]->(n)
	SET r += row.edge
`, label, key, rel), nil
}

func entityRows(doc Document) []map[string]any {
	rows := make([]map[string]any, 0, len(doc.Structure.Entities))
	for _, e := range doc.Structure.Entities {
		rows = append(rows, map[string]any{
			"key": fmt.Sprintf("%s#%s:%s@%d", doc.Source, e.Kind, e.Name, e.Line),
			"props": map[string]any{
				"name": e.Name,
				"kind": string(e.Kind),
				"line": int64(e.Line),
			},
			"edge": map[string]any{},
		})
	}
	return rows
}

func taskRows(doc Document) []map[string]any {
	rows := make([]map[string]any, 0, len(doc.Structure.Relationships))
	for _, r := range doc.Structure.Relationships {
		if r.Kind != models.RelationshipLaunches {
			continue
		}
		rows = append(rows, map[string]any{
			"key": fmt.Sprintf("%s#%s@%d", doc.Source, r.Target, r.Line),
			"props": map[string]any{
				"name": r.Target,
				"line": int64(r.Line),
			},
			"edge": map[string]any{"line": int64(r.Line)},
		})
	}
	return rows
}

// patternRows lists every tag once. A tag belongs to a single vocabulary so
// the category is fixed per pattern.
func patternRows(doc Document) []map[string]any {
	var rows []map[string]any
	seen := make(map[models.PatternTag]bool)
	add := func(tags []models.PatternTag, category string) {
		for _, t := range tags {
			if seen[t] {
				continue
			}
			seen[t] = true
			rows = append(rows, map[string]any{
				"key":   string(t),
				"props": map[string]any{"category": category},
				"edge":  map[string]any{"category": category},
			})
		}
	}

	add(doc.Structure.Patterns, CategoryStructural)
	add(doc.Structure.LanguagePatterns, CategoryLanguage)
	if doc.Design != nil {
		add(doc.Design.Patterns, CategoryDesign)
	}
	return rows
}

func chunk(rows []map[string]any, size int) [][]map[string]any {
	var out [][]map[string]any
	for i := 0; i < len(rows); i += size {
		end := i + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[i:end])
	}
	return out
}
