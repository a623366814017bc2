// Package e2e exercises the trained engines end to end on a generated corpus.
package e2e

import (
	"strings"

	"github.com/hyperjump/erabu/internal/models"
)

// PredictionCase is an utterance with the intent and span labels a trained
// engine must produce for it.
type PredictionCase struct {
	Text           string
	ExpectedIntent string
	ExpectedLabels []string
	Description    string
}

// Corpus holds labeled training examples and prediction test cases.
type Corpus struct {
	Examples      []models.LabeledExample
	TestCases     []PredictionCase
	TotalExamples int
	TotalCases    int
}

// BuildCorpus returns a deterministic corpus covering the three stock domains.
// Slot values are drawn from the rule extractors' vocabulary so the span
// expectations hold independent of tagger quality, and the content words of
// each domain are disjoint so intent expectations are unambiguous.
func BuildCorpus() *Corpus {
	examples := buildExamples()
	cases := buildPredictionCases()
	return &Corpus{
		Examples:      examples,
		TestCases:     cases,
		TotalExamples: len(examples),
		TotalCases:    len(cases),
	}
}

// Texts returns the corpus utterances and their intents as parallel slices.
func (c *Corpus) Texts() (texts []string, intents []string) {
	texts = make([]string, len(c.Examples))
	intents = make([]string, len(c.Examples))
	for i, ex := range c.Examples {
		texts[i] = ex.Text
		intents[i] = ex.Intent
	}
	return texts, intents
}

func buildExamples() []models.LabeledExample {
	var out []models.LabeledExample
	out = append(out, buildTravelExamples()...)
	out = append(out, buildFoodExamples()...)
	out = append(out, buildHealthExamples()...)
	return out
}

func buildTravelExamples() []models.LabeledExample {
	cities := []string{"pune", "goa", "mumbai", "delhi", "jaipur", "chennai", "indore", "nagpur"}
	out := make([]models.LabeledExample, 0, len(cities)*5)
	for i, city := range cities {
		from := cities[(i+3)%len(cities)]
		out = append(out,
			annotated("book_travel", "book a flight to "+city, slot("destination", city)),
			annotated("book_travel", "book a train ticket from "+from+" to "+city, slot("source", from), slot("destination", city)),
			annotated("book_travel", "i want to travel to "+city+" tomorrow", slot("destination", city)),
			annotated("book_travel", "find me a hotel in "+city, slot("destination", city)),
			annotated("book_travel", "reserve a bus seat to "+city+" for 2 passengers", slot("destination", city)),
		)
	}
	return out
}

func buildFoodExamples() []models.LabeledExample {
	dishes := []string{
		"pepperoni pizza", "veg burger", "chicken biryani", "paneer tikka",
		"butter chicken", "fried rice", "club sandwich", "margherita",
	}
	out := make([]models.LabeledExample, 0, len(dishes)*5)
	for _, dish := range dishes {
		out = append(out,
			annotated("order_food", "order a "+dish+" for me", slot("food_item", dish)),
			annotated("order_food", "i want to eat "+dish+" tonight", slot("food_item", dish)),
			annotated("order_food", "get one "+dish+" delivered home", slot("food_item", dish)),
			annotated("order_food", "please order "+dish+" and a coffee", slot("food_item", dish), slot("beverage", "coffee")),
			annotated("order_food", "i am craving "+dish+" right now", slot("food_item", dish)),
		)
	}
	return out
}

func buildHealthExamples() []models.LabeledExample {
	symptoms := []string{
		"headache", "fever", "cold", "cough", "sore throat", "stomach ache",
		"back pain", "migraine",
	}
	out := make([]models.LabeledExample, 0, len(symptoms)*5)
	for _, symptom := range symptoms {
		out = append(out,
			annotated("health_query", "i have a "+symptom+" since morning", slot("symptom", symptom)),
			annotated("health_query", "what should i take for "+symptom, slot("symptom", symptom)),
			annotated("health_query", "my "+symptom+" is getting worse", slot("symptom", symptom)),
			annotated("health_query", "suggest home remedies for "+symptom, slot("symptom", symptom)),
			annotated("health_query", "is paracetamol good for "+symptom, slot("symptom", symptom), slot("medication", "paracetamol")),
		)
	}
	return out
}

func buildPredictionCases() []PredictionCase {
	return []PredictionCase{
		{
			Text:           "i need a flight ticket to goa",
			ExpectedIntent: "book_travel",
			ExpectedLabels: []string{"destination"},
			Description:    "unseen phrasing with travel vocabulary",
		},
		{
			Text:           "book a train from mumbai to jaipur tomorrow",
			ExpectedIntent: "book_travel",
			ExpectedLabels: []string{"source", "destination", "date"},
			Description:    "full route with a relative date",
		},
		{
			Text:           "travel to chennai next monday",
			ExpectedIntent: "book_travel",
			ExpectedLabels: []string{"destination", "date"},
			Description:    "terse route with a weekday date",
		},
		{
			Text:           "order a large pepperoni pizza",
			ExpectedIntent: "order_food",
			ExpectedLabels: []string{"food_item", "size"},
			Description:    "dish with a size modifier",
		},
		{
			Text:           "get me a veg burger and a coke",
			ExpectedIntent: "order_food",
			ExpectedLabels: []string{"food_item", "beverage"},
			Description:    "dish plus a drink",
		},
		{
			Text:           "i am craving noodles",
			ExpectedIntent: "order_food",
			ExpectedLabels: []string{"food_item"},
			Description:    "dish outside the training slots",
		},
		{
			Text:           "i have a fever and a sore throat",
			ExpectedIntent: "health_query",
			ExpectedLabels: []string{"symptom"},
			Description:    "two symptoms in one utterance",
		},
		{
			Text:           "what should i take for back pain",
			ExpectedIntent: "health_query",
			ExpectedLabels: []string{"symptom"},
			Description:    "remedy question",
		},
	}
}

type slotValue struct {
	label string
	value string
}

func slot(label, value string) slotValue { return slotValue{label: label, value: value} }

// annotated builds a labeled example, locating each slot value in the text to
// fill the span offsets. The corpus is ASCII, so byte offsets double as rune
// offsets.
func annotated(intent, text string, slots ...slotValue) models.LabeledExample {
	ex := models.LabeledExample{Text: text, Intent: intent}
	for _, sv := range slots {
		start := strings.Index(text, sv.value)
		if start < 0 {
			continue
		}
		ex.Spans = append(ex.Spans, models.Span{
			Label: sv.label,
			Text:  sv.value,
			Start: start,
			End:   start + len(sv.value),
			Score: 1,
		})
	}
	return ex
}
