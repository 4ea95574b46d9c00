// Package skills matches career skills against free text and scores the result.
package skills

import (
	"strings"
)

// Normalize lowercases text, collapses every run of whitespace into a single
// space and trims the ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// SynonymTable maps a canonical skill name to the variants that count as a
// mention of it. The canonical name is expected to be one of the variants.
type SynonymTable map[string][]string

// Variants returns the match variants for skill. Unknown skills match only
// their own literal name.
func (t SynonymTable) Variants(skill string) []string {
	if variants, ok := t[skill]; ok {
		return variants
	}

	return []string{skill}
}

// Weight is a single skill of a career profile and its importance.
type Weight struct {
	Skill  string
	Weight int
}

// Weights is an ordered skill-weight table. Order is significant: matched and
// missing lists follow it.
type Weights []Weight

// Total returns the sum of all weights.
func (w Weights) Total() int {
	total := 0
	for _, item := range w {
		total += item.Weight
	}

	return total
}

// Names returns skill names in table order.
func (w Weights) Names() []string {
	names := make([]string, 0, len(w))
	for _, item := range w {
		names = append(names, item.Skill)
	}

	return names
}

// Result is the outcome of scoring one text against one skill table.
type Result struct {
	Score   float64
	Matched []string
	Missing []string
}

// Matcher decides whether skills are mentioned in a text.
type Matcher struct {
	synonyms SynonymTable
}

// NewMatcher returns a matcher backed by the given synonyms. A nil table is
// valid and makes every skill match only its own name.
func NewMatcher(synonyms SynonymTable) *Matcher {
	return &Matcher{synonyms: synonyms}
}

// Has reports whether any variant of skill occurs in haystack. The haystack
// must already be normalized. Matching is plain substring containment, so a
// short variant like "js" also matches inside longer words.
func (m *Matcher) Has(haystack, skill string) bool {
	for _, variant := range m.synonyms.Variants(skill) {
		if strings.Contains(haystack, variant) {
			return true
		}
	}

	return false
}

// Score normalizes source and computes the weighted share of matched skills
// as a percentage. A table with zero total weight scores 0.
func (m *Matcher) Score(source string, weights Weights) Result {
	haystack := Normalize(source)

	result := Result{
		Matched: make([]string, 0, len(weights)),
		Missing: make([]string, 0, len(weights)),
	}

	matchedWeight := 0
	for _, item := range weights {
		if m.Has(haystack, item.Skill) {
			result.Matched = append(result.Matched, item.Skill)
			matchedWeight += item.Weight
			continue
		}
		result.Missing = append(result.Missing, item.Skill)
	}

	if total := weights.Total(); total > 0 {
		result.Score = float64(matchedWeight) / float64(total) * 100
	}

	return result
}
