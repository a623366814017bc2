// Package models defines core data structures for examples, predictions,
// review queues, and evaluation reports.
package models

// Span is a labeled region of an utterance. Start and End are half-open
// rune offsets into the source text. Offsets of -1 mark a span that was
// built from text alone (no position known).
type Span struct {
	Label  string  `json:"label"`
	Text   string  `json:"text"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Score  float64 `json:"score"`
	Source string  `json:"source,omitempty"`
}

// HasOffsets reports whether the span carries a usable offset interval.
func (s *Span) HasOffsets() bool {
	return s.Start >= 0 && s.End > s.Start
}

// Length returns the offset length of the span, or 0 without offsets.
func (s *Span) Length() int {
	if !s.HasOffsets() {
		return 0
	}
	return s.End - s.Start
}
