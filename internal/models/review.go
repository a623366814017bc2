package models

import "time"

// Review queue filtering strategies.
const (
	StrategySmart          = "smart"
	StrategyConfidenceOnly = "confidence_only"
)

// ReviewItem is one utterance selected for human review. IsWrong is nil when
// no ground truth was supplied, otherwise it records whether the prediction
// disagreed with the known intent.
type ReviewItem struct {
	Text         string  `json:"text"`
	Intent       string  `json:"intent"`
	Confidence   float64 `json:"confidence"`
	IsWrong      *bool   `json:"is_wrong"`
	ActualIntent string  `json:"actual_intent,omitempty"`
}

// ReviewQueue is the ordered output of the active-learning selector.
type ReviewQueue struct {
	Engine            string       `json:"engine"`
	Threshold         float64      `json:"threshold"`
	Count             int          `json:"count"`
	Items             []ReviewItem `json:"items"`
	FilteringStrategy string       `json:"filtering_strategy"`
	WrongPredictions  int          `json:"wrong_predictions"`
}

// Correction is a reviewer's fix for a model prediction, persisted so it can
// be folded back into training data.
type Correction struct {
	ID                  string    `json:"id" db:"id"`
	Text                string    `json:"text" db:"text"`
	PredictedIntent     string    `json:"predicted_intent" db:"predicted_intent"`
	PredictedConfidence float64   `json:"predicted_confidence" db:"predicted_confidence"`
	CorrectedIntent     string    `json:"corrected_intent" db:"corrected_intent"`
	Spans               []Span    `json:"entities,omitempty" db:"entities"`
	Remarks             string    `json:"remarks,omitempty" db:"remarks"`
	Engine              string    `json:"engine" db:"engine"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}
