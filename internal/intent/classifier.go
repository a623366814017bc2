// Package intent provides trainable intent classifiers: a bag-of-words
// logistic regression, a tf-idf linear SVM, and an incremental averaged
// perceptron. All models train in-process with no external runtime.
package intent

import (
	"errors"
	"sort"

	"github.com/hyperjump/erabu/pkg/utils"
)

// ErrInvalidTrainingData is returned when training input is empty, has
// mismatched lengths, or contains no usable pairs after normalization.
var ErrInvalidTrainingData = errors.New("invalid training data")

// Classifier is a trained intent model.
type Classifier interface {
	// Predict returns the most likely class label for the text.
	Predict(text string) string
	// Classes returns the sorted label set the model was trained on.
	Classes() []string
}

// ProbabilityModel is implemented by classifiers that expose a calibrated
// per-class probability distribution aligned with Classes().
type ProbabilityModel interface {
	Probabilities(text string) []float64
}

// MarginModel is implemented by classifiers that expose raw decision
// margins aligned with Classes(). Margins are not calibrated.
type MarginModel interface {
	Margins(text string) []float64
}

// IncrementalModel is implemented by classifiers that accept
// single-example updates after initial training.
type IncrementalModel interface {
	Learn(text, label string)
}

// PredictWithConfidence predicts a label and extracts the model's
// confidence in it. Models without probabilities (or whose probability
// lookup fails) report the fallback; a degenerate single-entry
// distribution is used as-is.
func PredictWithConfidence(m Classifier, text string, fallback float64) (string, float64) {
	label := m.Predict(text)
	pm, ok := m.(ProbabilityModel)
	if !ok {
		return label, fallback
	}
	probs := pm.Probabilities(text)
	if len(probs) == 1 {
		return label, probs[0]
	}
	idx := classIndex(m.Classes(), label)
	if idx < 0 || idx >= len(probs) {
		return label, fallback
	}
	return label, probs[idx]
}

func classIndex(classes []string, label string) int {
	for i, c := range classes {
		if c == label {
			return i
		}
	}
	return -1
}

// prepareTrainingSet validates and normalizes raw training input: lengths
// must match and be non-zero, texts are trimmed, labels lowercased, and
// blank pairs dropped. Returns the clean pairs and the sorted unique label
// set.
func prepareTrainingSet(texts, labels []string) (cleanTexts, cleanLabels, classes []string, err error) {
	if len(texts) == 0 || len(labels) == 0 || len(texts) != len(labels) {
		return nil, nil, nil, ErrInvalidTrainingData
	}
	seen := make(map[string]bool)
	for i := range texts {
		text := utils.NormalizeWhitespace(texts[i])
		label := utils.NormalizeLabel(labels[i])
		if text == "" || label == "" {
			continue
		}
		cleanTexts = append(cleanTexts, text)
		cleanLabels = append(cleanLabels, label)
		if !seen[label] {
			seen[label] = true
			classes = append(classes, label)
		}
	}
	if len(cleanTexts) == 0 {
		return nil, nil, nil, ErrInvalidTrainingData
	}
	sort.Strings(classes)
	return cleanTexts, cleanLabels, classes, nil
}

// Majority is the degenerate classifier produced when training data holds a
// single distinct label. It always predicts that label with probability 1.
type Majority struct {
	label string
}

// NewMajority creates a constant classifier for the given label.
func NewMajority(label string) *Majority {
	return &Majority{label: label}
}

func (m *Majority) Predict(string) string { return m.label }

func (m *Majority) Classes() []string { return []string{m.label} }

func (m *Majority) Probabilities(string) []float64 { return []float64{1.0} }
