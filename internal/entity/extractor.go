package entity

import "github.com/hyperjump/erabu/internal/models"

// Extractor produces labeled spans from raw text. Implementations must be
// safe for concurrent use.
type Extractor interface {
	// Name identifies the extractor; it is stamped on every span it emits.
	Name() string
	// Extract returns the spans found in text, possibly none.
	Extract(text string) []models.Span
}

// Set is an ordered collection of extractors whose outputs are pooled. A
// panicking extractor contributes nothing; span extraction is supplemental
// and must never take a prediction down.
type Set struct {
	extractors []Extractor
}

// NewSet builds a set from the given extractors, skipping nils.
func NewSet(extractors ...Extractor) *Set {
	s := &Set{extractors: make([]Extractor, 0, len(extractors))}
	for _, e := range extractors {
		if e != nil {
			s.extractors = append(s.extractors, e)
		}
	}
	return s
}

// NewRuleSet builds the standard rule-only set: travel, food and health
// extractors in that order.
func NewRuleSet() *Set {
	return NewSet(TravelExtractor{}, FoodExtractor{}, HealthExtractor{})
}

// Extract runs every extractor in order and concatenates their spans.
func (s *Set) Extract(text string) []models.Span {
	var spans []models.Span
	for _, e := range s.extractors {
		spans = append(spans, runExtractor(e, text)...)
	}
	return spans
}

// Len returns the number of extractors in the set.
func (s *Set) Len() int { return len(s.extractors) }

func runExtractor(e Extractor, text string) (spans []models.Span) {
	defer func() {
		if r := recover(); r != nil {
			spans = nil
		}
	}()
	return e.Extract(text)
}
