package intent

import (
	"strings"

	"github.com/hyperjump/erabu/pkg/utils"
)

// perceptronDefaultEpochs is the fixed number of passes over the training
// texts. A handful is enough for utterance-sized inputs.
const perceptronDefaultEpochs = 8

// Perceptron is a minimal incremental classifier: a multi-class averaged
// perceptron over raw lowercase tokens. After the initial fit it accepts
// further single-example updates via Learn.
type Perceptron struct {
	classes []string
	weights []map[string]float64 // [class][token]
	biases  []float64
}

// TrainPerceptron fits an averaged perceptron with the given number of
// passes (<= 0 selects the default). A single distinct label yields a
// Majority classifier.
func TrainPerceptron(texts, labels []string, epochs int) (Classifier, error) {
	cleanTexts, cleanLabels, classes, err := prepareTrainingSet(texts, labels)
	if err != nil {
		return nil, err
	}
	if len(classes) == 1 {
		return NewMajority(classes[0]), nil
	}
	if epochs <= 0 {
		epochs = perceptronDefaultEpochs
	}

	classIdx := make(map[string]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}
	tokenized := make([][]string, len(cleanTexts))
	for i, text := range cleanTexts {
		tokenized[i] = strings.Fields(strings.ToLower(text))
	}

	m := &Perceptron{
		classes: classes,
		weights: make([]map[string]float64, len(classes)),
		biases:  make([]float64, len(classes)),
	}
	accW := make([]map[string]float64, len(classes))
	accB := make([]float64, len(classes))
	for c := range classes {
		m.weights[c] = make(map[string]float64)
		accW[c] = make(map[string]float64)
	}

	// Averaged perceptron: every update also feeds a step-weighted
	// accumulator, folded back at the end so late updates count less.
	step := 1
	for epoch := 0; epoch < epochs; epoch++ {
		for i, tokens := range tokenized {
			pred := m.argmax(tokens)
			truth := classIdx[cleanLabels[i]]
			if pred != truth {
				m.update(truth, tokens, 1, accW, accB, step)
				m.update(pred, tokens, -1, accW, accB, step)
			}
			step++
		}
	}
	total := float64(step)
	for c := range m.classes {
		for tok, acc := range accW[c] {
			m.weights[c][tok] -= acc / total
		}
		m.biases[c] -= accB[c] / total
	}
	return m, nil
}

func (m *Perceptron) update(class int, tokens []string, delta float64, accW []map[string]float64, accB []float64, step int) {
	for _, tok := range tokens {
		m.weights[class][tok] += delta
		accW[class][tok] += float64(step) * delta
	}
	m.biases[class] += delta
	accB[class] += float64(step) * delta
}

func (m *Perceptron) scores(tokens []string) []float64 {
	scores := make([]float64, len(m.classes))
	for c := range m.classes {
		s := m.biases[c]
		for _, tok := range tokens {
			s += m.weights[c][tok]
		}
		scores[c] = s
	}
	return scores
}

func (m *Perceptron) argmax(tokens []string) int {
	scores := m.scores(tokens)
	best := 0
	for c := 1; c < len(scores); c++ {
		if scores[c] > scores[best] {
			best = c
		}
	}
	return best
}

func (m *Perceptron) Predict(text string) string {
	return m.classes[m.argmax(strings.Fields(strings.ToLower(text)))]
}

func (m *Perceptron) Classes() []string { return m.classes }

func (m *Perceptron) Probabilities(text string) []float64 {
	return softmax(m.scores(strings.Fields(strings.ToLower(text))))
}

// Learn applies one perceptron update against the live weights. Labels the
// model was not trained on are ignored.
func (m *Perceptron) Learn(text, label string) {
	truth := classIndex(m.classes, utils.NormalizeLabel(label))
	if truth < 0 {
		return
	}
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return
	}
	pred := m.argmax(tokens)
	if pred == truth {
		return
	}
	for _, tok := range tokens {
		m.weights[truth][tok]++
		m.weights[pred][tok]--
	}
	m.biases[truth]++
	m.biases[pred]--
}
