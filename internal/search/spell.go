package search

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// TermEntry is one dictionary term with its document frequency.
type TermEntry struct {
	Term  string
	Count int
}

// TermDictionary exposes the index term dictionary to the spell checker.
type TermDictionary interface {
	Terms() ([]TermEntry, error)
}

const (
	// minSuggestLength keeps corrections away from very short terms. The
	// standard analyzer drops stop words from the dictionary, so "a" or
	// "to" would otherwise look misspelled and attract absurd neighbors.
	minSuggestLength = 4
	// shortTermLength bounds the edit distance to 1 for terms this short.
	shortTermLength = 5
)

// Suggestion is one candidate correction for a misspelled term.
type Suggestion struct {
	Term      string  `json:"term"`
	Distance  int     `json:"distance"`
	Frequency int     `json:"frequency"`
	Score     float64 `json:"score"`
}

// CheckResult describes the corrections applied to a query.
type CheckResult struct {
	Query          string
	Corrected      string
	HasCorrections bool
	Misspelled     []string
	Suggestions    []Suggestion
}

// SpellChecker suggests corrections for query terms absent from the index,
// ranked by frequency-weighted inverse edit distance.
type SpellChecker struct {
	dict           TermDictionary
	maxDistance    int
	minFreq        int
	maxSuggestions int

	mu    sync.RWMutex
	terms []TermEntry
	known map[string]struct{}
	valid bool
}

// SpellOption configures a SpellChecker.
type SpellOption func(*SpellChecker)

// WithMaxDistance sets the maximum edit distance for suggestions.
func WithMaxDistance(d int) SpellOption {
	return func(s *SpellChecker) {
		if d > 0 {
			s.maxDistance = d
		}
	}
}

// WithMinFrequency drops suggestion candidates below a document frequency.
func WithMinFrequency(f int) SpellOption {
	return func(s *SpellChecker) {
		if f >= 0 {
			s.minFreq = f
		}
	}
}

// WithMaxSuggestions caps the suggestions returned per term.
func WithMaxSuggestions(n int) SpellOption {
	return func(s *SpellChecker) {
		if n > 0 {
			s.maxSuggestions = n
		}
	}
}

// NewSpellChecker creates a spell checker over the given term dictionary.
func NewSpellChecker(dict TermDictionary, opts ...SpellOption) *SpellChecker {
	s := &SpellChecker{
		dict:           dict,
		maxDistance:    2,
		minFreq:        1,
		maxSuggestions: 5,
		known:          make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh reloads the term cache from the dictionary.
func (s *SpellChecker) Refresh() error {
	terms, err := s.dict.Terms()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms = terms
	s.known = make(map[string]struct{}, len(terms))
	for _, t := range terms {
		s.known[t.Term] = struct{}{}
	}
	s.valid = true
	return nil
}

// Invalidate marks the term cache stale. The next check reloads it.
func (s *SpellChecker) Invalidate() {
	s.mu.Lock()
	s.valid = false
	s.mu.Unlock()
}

func (s *SpellChecker) ensure() error {
	s.mu.RLock()
	valid := s.valid
	s.mu.RUnlock()
	if valid {
		return nil
	}
	return s.Refresh()
}

// Check looks every query term up in the dictionary and builds a corrected
// query from the best suggestion for each unknown term. Terms with no close
// neighbor are kept as typed.
func (s *SpellChecker) Check(query string) (*CheckResult, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}

	result := &CheckResult{Query: query}
	corrected := make([]string, 0)

	for _, term := range queryTerms(query) {
		s.mu.RLock()
		_, exists := s.known[term]
		s.mu.RUnlock()
		if exists {
			corrected = append(corrected, term)
			continue
		}

		suggestions := s.Suggest(term)
		if len(suggestions) == 0 {
			corrected = append(corrected, term)
			continue
		}
		result.HasCorrections = true
		result.Misspelled = append(result.Misspelled, term)
		result.Suggestions = append(result.Suggestions, suggestions...)
		corrected = append(corrected, suggestions[0].Term)
	}

	result.Corrected = strings.Join(corrected, " ")
	return result, nil
}

// Suggest returns ranked corrections for a single term. Terms shorter than
// minSuggestLength get none, and terms up to shortTermLength are held to an
// edit distance of 1.
func (s *SpellChecker) Suggest(term string) []Suggestion {
	if err := s.ensure(); err != nil {
		return nil
	}

	term = strings.ToLower(term)
	termLen := utf8.RuneCountInString(term)
	if termLen < minSuggestLength {
		return nil
	}
	maxDistance := s.maxDistance
	if termLen <= shortTermLength && maxDistance > 1 {
		maxDistance = 1
	}

	s.mu.RLock()
	terms := s.terms
	s.mu.RUnlock()

	var suggestions []Suggestion
	for _, entry := range terms {
		if entry.Term == term || entry.Count < s.minFreq {
			continue
		}
		// Length difference lower-bounds the edit distance.
		lenDiff := utf8.RuneCountInString(entry.Term) - termLen
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff > maxDistance {
			continue
		}

		distance := LevenshteinDistance(term, entry.Term)
		if distance > maxDistance {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Term:      entry.Term,
			Distance:  distance,
			Frequency: entry.Count,
			Score:     (1.0 / float64(distance+1)) * float64(entry.Count),
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > s.maxSuggestions {
		suggestions = suggestions[:s.maxSuggestions]
	}
	return suggestions
}

// IsMisspelled reports whether a term is absent from the dictionary.
func (s *SpellChecker) IsMisspelled(term string) bool {
	if err := s.ensure(); err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.known[strings.ToLower(term)]
	return !exists
}
