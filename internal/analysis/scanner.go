// Package analysis implements the heuristic structural analyzer: a
// line-oriented scan for declarations and concurrency idioms, language
// specializers, design-pattern predicates, complexity scoring, and
// cross-language insight comparison.
//
// None of this is a parser. Rules are prefix and substring tests, so a
// variable literally named "go" at the start of a line counts as a task
// launch. Those collisions are accepted.
//
// Every function here is pure: no package state is mutated, so callers may
// invoke them concurrently without locking.
package analysis

import (
	"strings"

	"github.com/rohankatakam/codeinsight/internal/models"
)

// Keywords and markers recognized by the line scan
var (
	functionKeywords = []string{"func ", "def "}
	typeKeywords     = []string{"type ", "class "}
	channelMarkers   = []string{"chan ", "make(chan"}
	launchKeyword    = "go "
)

// textMarkers are checked once against the whole text
var textMarkers = []struct {
	marker string
	tag    models.PatternTag
}{
	{"select {", models.PatternSelect},
	{"sync.WaitGroup", models.PatternWaitGroup},
	{"context.Context", models.PatternContext},
}

// launchSource stands in for the enclosing function. The scan does not track
// lexical scope.
const launchSource = "current_function"

// ScanStructure extracts entities, relationships and base pattern tags from
// raw text. It never fails: empty or malformed input yields an empty result.
func ScanStructure(text string) *models.AnalysisResult {
	result := &models.AnalysisResult{
		Entities:      []models.Entity{},
		Relationships: []models.Relationship{},
		AnalysisType:  models.AnalysisTypeStructure,
	}
	patterns := newTagSet()

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		lineNo := i + 1

		switch {
		case hasAnyPrefix(line, functionKeywords):
			result.Entities = append(result.Entities, models.Entity{
				Kind: models.EntityFunction,
				Name: functionName(line),
				Line: lineNo,
			})

		case hasAnyPrefix(line, typeKeywords):
			result.Entities = append(result.Entities, models.Entity{
				Kind: models.EntityType,
				Name: typeName(line),
				Line: lineNo,
			})

		case containsAny(line, channelMarkers):
			patterns.add(models.PatternChannelUsage)

		case strings.HasPrefix(line, launchKeyword):
			patterns.add(models.PatternGoroutineLaunch)
			result.Relationships = append(result.Relationships, models.Relationship{
				Kind:   models.RelationshipLaunches,
				Source: launchSource,
				Target: launchTarget(line),
				Line:   lineNo,
			})
		}
	}

	for _, m := range textMarkers {
		if strings.Contains(text, m.marker) {
			patterns.add(m.tag)
		}
	}

	result.EntitiesCount = len(result.Entities)
	result.RelationshipsCount = len(result.Relationships)
	result.Patterns = patterns.sorted()
	return result
}

// functionName returns the token immediately before the first '('.
// "func (s *S) Foo()" therefore yields "func"; receivers are not understood.
func functionName(line string) string {
	head, _, _ := strings.Cut(line, "(")
	fields := strings.Fields(head)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// typeName returns the second field with any parameter or generic suffix cut
func typeName(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}
	name, _, _ := strings.Cut(fields[1], "(")
	name, _, _ = strings.Cut(name, "[")
	return name
}

// launchTarget returns the token after the launch keyword up to '('
func launchTarget(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}
	target, _, _ := strings.Cut(fields[1], "(")
	return target
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
