// Package symptom selects the diagnostic question set for a customer concern.
package symptom

import (
	"regexp"
	"slices"
	"strings"

	"github.com/Veraticus/shop-assist/internal/model"
)

// MinScore is the lowest cumulative keyword length accepted as a match.
const MinScore = 4

// Keywords longer than this also match as plain substrings, so phrases
// followed by punctuation ("check engine light,") still count.
const substringMinLength = 5

type compiledKeyword struct {
	boundary *regexp.Regexp
	lower    string
}

type compiledCategory struct {
	keywords []compiledKeyword
	category model.SymptomCategory
}

// Result describes the outcome of matching a single concern.
type Result struct {
	Category  *model.SymptomCategory `json:"category,omitempty"`
	Questions []string               `json:"questions"`
	Score     int                    `json:"score"`
	Matched   bool                   `json:"matched"`
}

// Matcher scores customer concerns against a fixed category catalog.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	categories []compiledCategory
	general    []string
}

// NewMatcher creates a matcher over categories; general is the fallback question list.
func NewMatcher(categories []model.SymptomCategory, general []string) *Matcher {
	m := &Matcher{
		categories: make([]compiledCategory, 0, len(categories)),
		general:    slices.Clone(general),
	}

	for _, c := range categories {
		cc := compiledCategory{
			category: model.SymptomCategory{
				Name:      c.Name,
				Keywords:  slices.Clone(c.Keywords),
				Questions: slices.Clone(c.Questions),
			},
		}
		for _, kw := range c.Keywords {
			lower := strings.ToLower(strings.TrimSpace(kw))
			if lower == "" {
				continue
			}
			cc.keywords = append(cc.keywords, compiledKeyword{
				lower:    lower,
				boundary: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(lower) + `\b`),
			})
		}
		m.categories = append(m.categories, cc)
	}

	return m
}

// NewDefaultMatcher creates a matcher over the built-in catalog.
func NewDefaultMatcher() *Matcher {
	return NewMatcher(DefaultCatalog(), GeneralQuestions())
}

// Match returns the best-scoring category for concern. Ties keep catalog order,
// and a best score below MinScore is reported as no match.
func (m *Matcher) Match(concern string) (model.SymptomCategory, bool) {
	idx, _ := m.best(concern)
	if idx < 0 {
		return model.SymptomCategory{}, false
	}
	return m.categoryCopy(idx), true
}

// Evaluate matches concern and resolves the question list, falling back to the
// general questions when nothing matches.
func (m *Matcher) Evaluate(concern string) Result {
	idx, score := m.best(concern)
	if idx < 0 {
		return Result{
			Questions: slices.Clone(m.general),
			Score:     score,
		}
	}

	category := m.categoryCopy(idx)
	return Result{
		Category:  &category,
		Questions: slices.Clone(category.Questions),
		Score:     score,
		Matched:   true,
	}
}

// Questions returns the question list for concern.
func (m *Matcher) Questions(concern string) []string {
	return m.Evaluate(concern).Questions
}

// Categories returns a copy of the catalog.
func (m *Matcher) Categories() []model.SymptomCategory {
	out := make([]model.SymptomCategory, 0, len(m.categories))
	for i := range m.categories {
		out = append(out, m.categoryCopy(i))
	}
	return out
}

// best returns the winning category index (or -1) and the highest score seen.
func (m *Matcher) best(concern string) (int, int) {
	text := strings.ToLower(concern)
	if strings.TrimSpace(text) == "" {
		return -1, 0
	}

	bestIdx, bestScore := -1, 0
	for i, c := range m.categories {
		score := 0
		for _, kw := range c.keywords {
			if kw.matches(text) {
				score += len(kw.lower)
			}
		}
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}

	if bestScore < MinScore {
		return -1, bestScore
	}
	return bestIdx, bestScore
}

func (k compiledKeyword) matches(lowerText string) bool {
	if k.boundary.MatchString(lowerText) {
		return true
	}
	return len(k.lower) > substringMinLength && strings.Contains(lowerText, k.lower)
}

func (m *Matcher) categoryCopy(i int) model.SymptomCategory {
	c := m.categories[i].category
	return model.SymptomCategory{
		Name:      c.Name,
		Keywords:  slices.Clone(c.Keywords),
		Questions: slices.Clone(c.Questions),
	}
}
