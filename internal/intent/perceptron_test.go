package intent

import (
	"math"
	"testing"
)

func TestPerceptronLearnsSeparableIntents(t *testing.T) {
	texts, labels := trainingTexts()
	m, err := TrainPerceptron(texts, labels, 0)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		text string
		want string
	}{
		{"book a train ticket for tomorrow", "book_travel"},
		{"get me a pizza and fries", "order_food"},
		{"my stomach hurts", "health_query"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := m.Predict(tt.text); got != tt.want {
				t.Errorf("Predict(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestPerceptronProbabilities(t *testing.T) {
	texts, labels := trainingTexts()
	m, err := TrainPerceptron(texts, labels, 8)
	if err != nil {
		t.Fatal(err)
	}
	probs := m.(ProbabilityModel).Probabilities("order a pizza")
	var sum float64
	for _, p := range probs {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("scores not normalized, sum = %f", sum)
	}
	label, conf := PredictWithConfidence(m, "order a pizza", 0.88)
	if label != "order_food" {
		t.Errorf("Predict = %q, want order_food", label)
	}
	if conf <= 1.0/float64(len(probs)) {
		t.Errorf("confidence %f should beat the uniform baseline", conf)
	}
}

func TestPerceptronLearnShiftsDecision(t *testing.T) {
	texts := []string{
		"book a ticket", "reserve a seat",
		"order a pizza", "get me a burger",
	}
	labels := []string{"book_travel", "book_travel", "order_food", "order_food"}
	m, err := TrainPerceptron(texts, labels, 8)
	if err != nil {
		t.Fatal(err)
	}
	inc, ok := m.(IncrementalModel)
	if !ok {
		t.Fatal("perceptron should support incremental updates")
	}

	// Drill an ambiguous utterance toward order_food until it sticks.
	probe := "tandoori platter"
	for i := 0; i < 20; i++ {
		inc.Learn(probe, "order_food")
	}
	if got := m.Predict(probe); got != "order_food" {
		t.Errorf("after Learn, Predict(%q) = %q, want order_food", probe, got)
	}

	// Unknown labels and empty texts are ignored.
	inc.Learn(probe, "brand_new_label")
	inc.Learn("   ", "order_food")
	if got := m.Predict(probe); got != "order_food" {
		t.Errorf("no-op updates changed the decision to %q", got)
	}
}
