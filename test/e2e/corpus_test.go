package e2e

import (
	"testing"
)

func TestBuildCorpus_Counts(t *testing.T) {
	c := BuildCorpus()
	if c.TotalExamples != 120 {
		t.Errorf("expected 120 examples, got %d", c.TotalExamples)
	}
	if len(c.Examples) != c.TotalExamples {
		t.Errorf("TotalExamples = %d but len(Examples) = %d", c.TotalExamples, len(c.Examples))
	}
	if c.TotalCases == 0 {
		t.Fatal("expected at least one prediction test case")
	}
	if len(c.TestCases) != c.TotalCases {
		t.Errorf("TotalCases = %d but len(TestCases) = %d", c.TotalCases, len(c.TestCases))
	}
}

func TestBuildCorpus_IntentCoverage(t *testing.T) {
	c := BuildCorpus()
	counts := make(map[string]int)
	for i, ex := range c.Examples {
		if ex.Text == "" {
			t.Fatalf("example %d: empty text", i)
		}
		if ex.Intent == "" {
			t.Fatalf("example %d: empty intent", i)
		}
		counts[ex.Intent]++
	}
	for _, intent := range []string{"book_travel", "order_food", "health_query"} {
		if counts[intent] < 20 {
			t.Errorf("intent %q has %d examples, want at least 20", intent, counts[intent])
		}
	}
}

func TestBuildCorpus_SpanOffsetsMatchText(t *testing.T) {
	c := BuildCorpus()
	for _, ex := range c.Examples {
		if len(ex.Spans) == 0 {
			t.Errorf("example %q has no gold spans", ex.Text)
			continue
		}
		runes := []rune(ex.Text)
		for _, sp := range ex.Spans {
			if !sp.HasOffsets() || sp.End > len(runes) {
				t.Errorf("example %q: span %q has unusable offsets [%d:%d]", ex.Text, sp.Text, sp.Start, sp.End)
				continue
			}
			if got := string(runes[sp.Start:sp.End]); got != sp.Text {
				t.Errorf("example %q: span %q covers %q at [%d:%d]", ex.Text, sp.Text, got, sp.Start, sp.End)
			}
		}
	}
}

func TestBuildCorpus_CasesReferenceTrainedIntents(t *testing.T) {
	c := BuildCorpus()
	known := make(map[string]bool)
	for _, ex := range c.Examples {
		known[ex.Intent] = true
	}
	for i, tc := range c.TestCases {
		if tc.Text == "" {
			t.Errorf("case %d: empty text", i)
		}
		if !known[tc.ExpectedIntent] {
			t.Errorf("case %d expects intent %q which has no training examples", i, tc.ExpectedIntent)
		}
	}
}

func TestCorpus_Texts(t *testing.T) {
	c := BuildCorpus()
	texts, intents := c.Texts()
	if len(texts) != len(c.Examples) || len(intents) != len(c.Examples) {
		t.Fatalf("got %d texts and %d intents, want %d each", len(texts), len(intents), len(c.Examples))
	}
	for i := range texts {
		if texts[i] != c.Examples[i].Text {
			t.Errorf("texts[%d] = %q, want %q", i, texts[i], c.Examples[i].Text)
		}
		if intents[i] != c.Examples[i].Intent {
			t.Errorf("intents[%d] = %q, want %q", i, intents[i], c.Examples[i].Intent)
		}
	}
}
