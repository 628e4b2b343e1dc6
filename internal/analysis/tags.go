package analysis

import (
	"sort"

	"github.com/rohankatakam/codeinsight/internal/models"
)

// tagSet deduplicates pattern tags. Results are emitted sorted so identical
// input serializes identically.
type tagSet map[models.PatternTag]struct{}

func newTagSet(tags ...models.PatternTag) tagSet {
	s := make(tagSet, len(tags))
	for _, t := range tags {
		s.add(t)
	}
	return s
}

func (s tagSet) add(t models.PatternTag) {
	s[t] = struct{}{}
}

func (s tagSet) has(t models.PatternTag) bool {
	_, ok := s[t]
	return ok
}

func (s tagSet) sorted() []models.PatternTag {
	out := make([]models.PatternTag, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
