package models

import "time"

// Prediction is the result of classifying a single utterance.
// RawIntent preserves the classifier output before lowercasing; Error is
// set only on degraded batch items.
type Prediction struct {
	Text       string  `json:"text"`
	Intent     string  `json:"intent"`
	RawIntent  string  `json:"raw_intent,omitempty"`
	Confidence float64 `json:"confidence"`
	Spans      []Span  `json:"entities"`
	Error      string  `json:"error,omitempty"`
}

// TrainResult summarizes a completed training run.
type TrainResult struct {
	Engine          string   `json:"engine"`
	Labels          []string `json:"labels"`
	TrainingSamples int      `json:"training_samples"`
	EntityModel     bool     `json:"entity_model"`
}

// EngineInfo describes one engine slot and its trained state.
type EngineInfo struct {
	ID        string     `json:"id"`
	Trained   bool       `json:"trained"`
	Labels    []string   `json:"labels,omitempty"`
	TrainedAt *time.Time `json:"trained_at,omitempty"`
}
