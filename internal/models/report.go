package models

// Metrics holds overall classification quality. Precision, Recall, and F1
// are macro averages over the label set.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
}

// IntentMetrics holds per-label quality and support.
type IntentMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
	Support   int     `json:"support"`
}

// Confusion is a confusion matrix. Matrix[i][j] counts test items whose true
// label is Labels[i] and predicted label is Labels[j].
type Confusion struct {
	Labels []string `json:"labels"`
	Matrix [][]int  `json:"matrix"`
}

// EvaluationDetail is one scored test item.
type EvaluationDetail struct {
	Text            string  `json:"text"`
	TrueIntent      string  `json:"true_intent"`
	PredictedIntent string  `json:"predicted_intent"`
	Confidence      float64 `json:"confidence"`
	Match           bool    `json:"match"`
}

// EvaluationReport is the full output of an evaluation run.
type EvaluationReport struct {
	Engine       string                   `json:"engine"`
	Metrics      Metrics                  `json:"metrics"`
	PerIntent    map[string]IntentMetrics `json:"per_intent"`
	Confusion    Confusion                `json:"confusion"`
	Details      []EvaluationDetail       `json:"details"`
	TrainSamples int                      `json:"train_samples"`
	TestSamples  int                      `json:"test_samples"`
}
