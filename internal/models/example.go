package models

import "time"

// LabeledExample is one training record: an utterance, its intent label,
// and optional entity spans.
type LabeledExample struct {
	Text   string `json:"text"`
	Intent string `json:"intent"`
	Spans  []Span `json:"entities,omitempty"`
}

// Example is a persisted utterance belonging to a dataset. Intent is empty
// for unlabeled corpus rows awaiting annotation.
type Example struct {
	ID        string    `json:"id" db:"id"`
	DatasetID string    `json:"dataset_id" db:"dataset_id"`
	Text      string    `json:"text" db:"text"`
	Intent    string    `json:"intent" db:"intent"`
	Spans     []Span    `json:"entities,omitempty" db:"entities"`
	Source    string    `json:"source" db:"source"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Example sources.
const (
	SourceImport     = "import"
	SourceAnnotation = "annotation"
	SourceCorrection = "correction"
)

// Labeled converts a persisted example to a training record.
func (e *Example) Labeled() LabeledExample {
	return LabeledExample{Text: e.Text, Intent: e.Intent, Spans: e.Spans}
}

// Dataset describes an imported or hand-built collection of examples.
type Dataset struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Filename     string    `json:"filename,omitempty" db:"filename"`
	Checksum     string    `json:"checksum" db:"checksum"`
	ExampleCount int       `json:"example_count" db:"example_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
