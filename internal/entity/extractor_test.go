package entity

import (
	"testing"

	"github.com/hyperjump/erabu/internal/models"
)

// requireSpan returns the first span with the given label or fails the test.
func requireSpan(t *testing.T, spans []models.Span, label string) models.Span {
	t.Helper()
	for _, sp := range spans {
		if sp.Label == label {
			return sp
		}
	}
	t.Fatalf("no span with label %q in %v", label, spans)
	return models.Span{}
}

func spansWithLabel(spans []models.Span, label string) []models.Span {
	var out []models.Span
	for _, sp := range spans {
		if sp.Label == label {
			out = append(out, sp)
		}
	}
	return out
}

func hasSpanText(spans []models.Span, text string) bool {
	for _, sp := range spans {
		if sp.Text == text {
			return true
		}
	}
	return false
}

type panicExtractor struct{}

func (panicExtractor) Name() string { return "panic" }

func (panicExtractor) Extract(string) []models.Span { panic("extractor blew up") }

func TestSetRecoversPanics(t *testing.T) {
	set := NewSet(panicExtractor{}, FoodExtractor{})
	spans := set.Extract("order a pizza")
	if !hasSpanText(spansWithLabel(spans, "food_item"), "pizza") {
		t.Errorf("got %v, want pizza from the surviving extractor", spans)
	}
}

func TestNewSetSkipsNil(t *testing.T) {
	set := NewSet(nil, TravelExtractor{})
	if set.Len() != 1 {
		t.Errorf("Len = %d, want 1", set.Len())
	}
}

func TestRuleSetUnion(t *testing.T) {
	set := NewRuleSet()
	if set.Len() != 3 {
		t.Fatalf("Len = %d, want 3", set.Len())
	}
	spans := set.Extract("order a pizza for my headache on the train to delhi")

	sources := make(map[string]bool)
	for _, sp := range spans {
		sources[sp.Source] = true
	}
	if len(sources) < 3 {
		t.Fatalf("expected spans from all extractors, got sources %v in %v", sources, spans)
	}
	if !hasSpanText(spansWithLabel(spans, "destination"), "delhi") {
		t.Errorf("want destination delhi in %v", spans)
	}
	if !hasSpanText(spansWithLabel(spans, "food_item"), "pizza") {
		t.Errorf("want food_item pizza in %v", spans)
	}
	if !hasSpanText(spansWithLabel(spans, "symptom"), "headache") {
		t.Errorf("want symptom headache in %v", spans)
	}
}
