package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hyperjump/erabu/internal/models"
)

// mapPredictor predicts by text prefix: "a..." -> a, "b..." -> b.
type mapPredictor struct {
	confidence float64
	err        error

	gotEngine string
	gotTexts  []string
}

func (p *mapPredictor) PredictBatch(ctx context.Context, engineID string, texts []string) ([]models.Prediction, error) {
	p.gotEngine = engineID
	p.gotTexts = texts
	if p.err != nil {
		return nil, p.err
	}
	out := make([]models.Prediction, len(texts))
	for i, text := range texts {
		out[i] = models.Prediction{
			Text:       text,
			Intent:     text[:1],
			Confidence: p.confidence,
		}
	}
	return out, nil
}

func evalCorpus() (texts, intents []string) {
	for _, label := range []string{"a", "b"} {
		for j := 0; j < 4; j++ {
			texts = append(texts, fmt.Sprintf("%s%d", label, j))
			intents = append(intents, label)
		}
	}
	return texts, intents
}

func TestEvaluateValidation(t *testing.T) {
	p := &mapPredictor{confidence: 0.9}
	if _, err := Evaluate(context.Background(), p, "logit", nil, nil, Options{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty input error = %v, want ErrInvalidInput", err)
	}
	if _, err := Evaluate(context.Background(), p, "logit", []string{"x"}, []string{"a", "b"}, Options{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("mismatched input error = %v, want ErrInvalidInput", err)
	}
}

func TestEvaluatePropagatesPredictorError(t *testing.T) {
	sentinel := errors.New("engine down")
	p := &mapPredictor{err: sentinel}
	texts, intents := evalCorpus()
	if _, err := Evaluate(context.Background(), p, "logit", texts, intents, Options{TrainPct: 50}); !errors.Is(err, sentinel) {
		t.Errorf("error = %v, want predictor error", err)
	}
}

func TestEvaluateReport(t *testing.T) {
	p := &mapPredictor{confidence: 1.2} // deliberately out of range
	texts, intents := evalCorpus()

	report, err := Evaluate(context.Background(), p, " LOGIT ", texts, intents, Options{TrainPct: 50, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	if report.Engine != "logit" {
		t.Errorf("engine = %q, want logit", report.Engine)
	}
	if report.TrainSamples != 4 || report.TestSamples != 4 {
		t.Errorf("samples = %d/%d, want 4/4", report.TrainSamples, report.TestSamples)
	}
	if len(report.Details) != 4 {
		t.Fatalf("details = %d rows, want 4", len(report.Details))
	}
	// Only the test partition reaches the predictor; no training happens here.
	if len(p.gotTexts) != 4 {
		t.Errorf("predictor saw %d texts, want the 4 test texts", len(p.gotTexts))
	}

	if report.Metrics.Accuracy != 1 || report.Metrics.F1 != 1 {
		t.Errorf("metrics = %+v, want perfect scores", report.Metrics)
	}
	support := 0
	for _, im := range report.PerIntent {
		support += im.Support
	}
	if support != 4 {
		t.Errorf("total support = %d, want 4", support)
	}
	for _, d := range report.Details {
		if !d.Match {
			t.Errorf("detail %+v should match", d)
		}
		if d.Confidence != 1 {
			t.Errorf("confidence = %v, want clamped to 1", d.Confidence)
		}
	}
}

func TestEvaluateNormalizesIntents(t *testing.T) {
	p := &mapPredictor{confidence: 0.9}
	texts := []string{"a0", "a1", "b0", "b1"}
	intents := []string{" A ", "A", " B", "b "}

	report, err := Evaluate(context.Background(), p, "logit", texts, intents, Options{TrainPct: 50})
	if err != nil {
		t.Fatal(err)
	}
	if report.Metrics.Accuracy != 1 {
		t.Errorf("accuracy = %v, want 1 after label normalization", report.Metrics.Accuracy)
	}
	for _, label := range report.Confusion.Labels {
		if label != strings.ToLower(strings.TrimSpace(label)) {
			t.Errorf("label %q not normalized", label)
		}
	}
}

func TestEvaluateAllTest(t *testing.T) {
	p := &mapPredictor{confidence: 0.9}
	texts, intents := evalCorpus()
	report, err := Evaluate(context.Background(), p, "logit", texts, intents, Options{TrainPct: 0})
	if err != nil {
		t.Fatal(err)
	}
	if report.TrainSamples != 0 || report.TestSamples != 8 {
		t.Errorf("samples = %d/%d, want 0/8", report.TrainSamples, report.TestSamples)
	}
}

func TestEvaluateAllowedIntents(t *testing.T) {
	p := &mapPredictor{confidence: 0.9}
	texts, intents := evalCorpus()
	report, err := Evaluate(context.Background(), p, "logit", texts, intents, Options{
		TrainPct:       50,
		AllowedIntents: []string{"C"},
	})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, label := range report.Confusion.Labels {
		if label == "c" {
			found = true
		}
	}
	if !found {
		t.Errorf("labels = %v, want allowed intent c included", report.Confusion.Labels)
	}
	if im, ok := report.PerIntent["c"]; !ok || im.Support != 0 {
		t.Errorf("per-intent c = %+v, want present with zero support", im)
	}
}
