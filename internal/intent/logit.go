package intent

import "math"

// Training hyperparameters for the bag-of-words logistic regression.
// Full-batch gradient descent keeps the fit deterministic.
const (
	logitEpochs = 200
	logitRate   = 0.5
	logitL2     = 1e-3
)

// Logit is a binary bag-of-words logistic regression classifier with
// balanced class weights. It exposes softmax probabilities.
type Logit struct {
	vectorizer *countVectorizer
	classes    []string
	weights    [][]float64 // [class][column]
	biases     []float64
}

// TrainLogit fits a logistic regression on the given texts and labels.
// A single distinct label yields a Majority classifier.
func TrainLogit(texts, labels []string) (Classifier, error) {
	cleanTexts, cleanLabels, classes, err := prepareTrainingSet(texts, labels)
	if err != nil {
		return nil, err
	}
	if len(classes) == 1 {
		return NewMajority(classes[0]), nil
	}

	v := fitCountVectorizer(cleanTexts)
	classIdx := make(map[string]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}

	docs := make([][]feature, len(cleanTexts))
	y := make([]int, len(cleanTexts))
	counts := make([]float64, len(classes))
	for i := range cleanTexts {
		docs[i] = v.transform(cleanTexts[i])
		y[i] = classIdx[cleanLabels[i]]
		counts[y[i]]++
	}

	// Balanced class weighting: n / (k * n_c). Rare intents get larger
	// gradient steps so skewed datasets do not collapse to the majority.
	n := float64(len(docs))
	k := float64(len(classes))
	classWeight := make([]float64, len(classes))
	for c := range classWeight {
		classWeight[c] = n / (k * counts[c])
	}

	m := &Logit{
		vectorizer: v,
		classes:    classes,
		weights:    make([][]float64, len(classes)),
		biases:     make([]float64, len(classes)),
	}
	for c := range m.weights {
		m.weights[c] = make([]float64, v.size())
	}

	gradW := make([][]float64, len(classes))
	gradB := make([]float64, len(classes))
	for c := range gradW {
		gradW[c] = make([]float64, v.size())
	}

	for epoch := 0; epoch < logitEpochs; epoch++ {
		for c := range gradW {
			gradB[c] = 0
			for j := range gradW[c] {
				gradW[c][j] = 0
			}
		}
		for i, doc := range docs {
			probs := softmax(m.scores(doc))
			w := classWeight[y[i]]
			for c := range m.classes {
				delta := probs[c]
				if c == y[i] {
					delta -= 1
				}
				delta *= w
				gradB[c] += delta
				for _, f := range doc {
					gradW[c][f.col] += delta * f.val
				}
			}
		}
		for c := range m.classes {
			m.biases[c] -= logitRate * gradB[c] / n
			for j := range m.weights[c] {
				m.weights[c][j] -= logitRate * (gradW[c][j]/n + logitL2*m.weights[c][j])
			}
		}
	}
	return m, nil
}

func (m *Logit) scores(doc []feature) []float64 {
	scores := make([]float64, len(m.classes))
	for c := range m.classes {
		s := m.biases[c]
		for _, f := range doc {
			s += m.weights[c][f.col] * f.val
		}
		scores[c] = s
	}
	return scores
}

func (m *Logit) Predict(text string) string {
	probs := m.Probabilities(text)
	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return m.classes[best]
}

func (m *Logit) Classes() []string { return m.classes }

func (m *Logit) Probabilities(text string) []float64 {
	return softmax(m.scores(m.vectorizer.transform(text)))
}

func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	var sum float64
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
