package intent

// Training hyperparameters for the tf-idf linear SVM. Examples are visited
// in input order, so the fit is deterministic.
const (
	svmEpochs = 50
	svmRate   = 0.1
	svmDecay  = 1e-4
)

// SVM is a one-vs-rest linear SVM over tf-idf unigram+bigram features.
// It exposes raw decision margins; confidence extraction falls back to the
// engine default because margins are not calibrated probabilities.
type SVM struct {
	vectorizer *tfidfVectorizer
	classes    []string
	weights    [][]float64 // [class][column]
	biases     []float64
}

// TrainSVM fits a linear SVM with hinge loss on the given texts and labels.
// A single distinct label yields a Majority classifier.
func TrainSVM(texts, labels []string) (Classifier, error) {
	cleanTexts, cleanLabels, classes, err := prepareTrainingSet(texts, labels)
	if err != nil {
		return nil, err
	}
	if len(classes) == 1 {
		return NewMajority(classes[0]), nil
	}

	v := fitTfidfVectorizer(cleanTexts)
	classIdx := make(map[string]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}
	docs := make([][]feature, len(cleanTexts))
	y := make([]int, len(cleanTexts))
	for i := range cleanTexts {
		docs[i] = v.transform(cleanTexts[i])
		y[i] = classIdx[cleanLabels[i]]
	}

	m := &SVM{
		vectorizer: v,
		classes:    classes,
		weights:    make([][]float64, len(classes)),
		biases:     make([]float64, len(classes)),
	}
	for c := range m.weights {
		m.weights[c] = make([]float64, v.size())
	}

	for c := range m.classes {
		w := m.weights[c]
		for epoch := 0; epoch < svmEpochs; epoch++ {
			for i, doc := range docs {
				target := -1.0
				if y[i] == c {
					target = 1.0
				}
				margin := m.biases[c]
				for _, f := range doc {
					margin += w[f.col] * f.val
				}
				if target*margin < 1 {
					for _, f := range doc {
						w[f.col] += svmRate * target * f.val
					}
					m.biases[c] += svmRate * target
				}
			}
			decay := 1 - svmRate*svmDecay
			for j := range w {
				w[j] *= decay
			}
		}
	}
	return m, nil
}

func (m *SVM) Predict(text string) string {
	margins := m.Margins(text)
	best := 0
	for c := 1; c < len(margins); c++ {
		if margins[c] > margins[best] {
			best = c
		}
	}
	return m.classes[best]
}

func (m *SVM) Classes() []string { return m.classes }

// Margins returns the per-class decision values for the text.
func (m *SVM) Margins(text string) []float64 {
	doc := m.vectorizer.transform(text)
	margins := make([]float64, len(m.classes))
	for c := range m.classes {
		s := m.biases[c]
		for _, f := range doc {
			s += m.weights[c][f.col] * f.val
		}
		margins[c] = s
	}
	return margins
}
