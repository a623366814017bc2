package intent

import (
	"errors"
	"testing"
)

func trainingTexts() ([]string, []string) {
	texts := []string{
		"book a train ticket to delhi",
		"reserve a flight from mumbai to pune",
		"i need a bus ticket for tomorrow",
		"order a pepperoni pizza",
		"get me a burger and fries",
		"i want two coffees delivered",
		"i have a headache and fever",
		"book an appointment with the doctor",
		"my stomach hurts since yesterday",
	}
	labels := []string{
		"book_travel", "book_travel", "book_travel",
		"order_food", "order_food", "order_food",
		"health_query", "health_query", "health_query",
	}
	return texts, labels
}

func TestPrepareTrainingSetErrors(t *testing.T) {
	tests := []struct {
		name   string
		texts  []string
		labels []string
	}{
		{"empty input", nil, nil},
		{"mismatched lengths", []string{"a", "b"}, []string{"x"}},
		{"empty labels", []string{"a"}, nil},
		{"all pairs blank", []string{"  ", "\t"}, []string{"x", "y"}},
		{"blank labels", []string{"hello", "world"}, []string{"", "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := prepareTrainingSet(tt.texts, tt.labels); !errors.Is(err, ErrInvalidTrainingData) {
				t.Errorf("expected ErrInvalidTrainingData, got %v", err)
			}
		})
	}
}

func TestPrepareTrainingSetNormalizes(t *testing.T) {
	texts, labels, classes, err := prepareTrainingSet(
		[]string{"  Book a ticket  ", "order pizza", ""},
		[]string{"Book_Travel", "ORDER_FOOD", "ignored"},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(texts) != 2 || len(labels) != 2 {
		t.Fatalf("got %d pairs, want 2", len(texts))
	}
	if labels[0] != "book_travel" || labels[1] != "order_food" {
		t.Errorf("labels not normalized: %v", labels)
	}
	want := []string{"book_travel", "order_food"}
	if len(classes) != 2 || classes[0] != want[0] || classes[1] != want[1] {
		t.Errorf("classes = %v, want %v", classes, want)
	}
}

func TestSingleLabelYieldsMajority(t *testing.T) {
	trainers := map[string]func() (Classifier, error){
		"logit": func() (Classifier, error) {
			return TrainLogit([]string{"hi", "hello there"}, []string{"Greet", "greet"})
		},
		"svm": func() (Classifier, error) {
			return TrainSVM([]string{"hi", "hello there"}, []string{"greet", "GREET"})
		},
		"perceptron": func() (Classifier, error) {
			return TrainPerceptron([]string{"hi", "hello there"}, []string{"greet", "greet"}, 0)
		},
	}
	for name, train := range trainers {
		t.Run(name, func(t *testing.T) {
			m, err := train()
			if err != nil {
				t.Fatal(err)
			}
			if _, ok := m.(*Majority); !ok {
				t.Fatalf("expected Majority classifier, got %T", m)
			}
			label, conf := PredictWithConfidence(m, "anything at all", 0.5)
			if label != "greet" {
				t.Errorf("Predict = %q, want greet", label)
			}
			if conf != 1.0 {
				t.Errorf("confidence = %f, want 1.0", conf)
			}
		})
	}
}

func TestPredictWithConfidenceFallback(t *testing.T) {
	texts, labels := trainingTexts()

	svm, err := TrainSVM(texts, labels)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := svm.(ProbabilityModel); ok {
		t.Fatal("svm should not expose probabilities")
	}
	if _, ok := svm.(MarginModel); !ok {
		t.Fatal("svm should expose margins")
	}
	_, conf := PredictWithConfidence(svm, "book a ticket", 0.9)
	if conf != 0.9 {
		t.Errorf("margin-only model should fall back, got %f", conf)
	}

	logit, err := TrainLogit(texts, labels)
	if err != nil {
		t.Fatal(err)
	}
	label, conf := PredictWithConfidence(logit, "book a train ticket", 0.95)
	probs := logit.(ProbabilityModel).Probabilities("book a train ticket")
	idx := classIndex(logit.Classes(), label)
	if idx < 0 {
		t.Fatalf("predicted label %q not in classes", label)
	}
	if conf != probs[idx] {
		t.Errorf("confidence = %f, want probability %f of predicted class", conf, probs[idx])
	}
}
