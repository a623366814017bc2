package models

import "testing"

func TestSpanHasOffsets(t *testing.T) {
	tests := []struct {
		name string
		span Span
		want bool
	}{
		{"valid interval", Span{Start: 0, End: 5}, true},
		{"missing offsets", Span{Start: -1, End: -1}, false},
		{"empty interval", Span{Start: 3, End: 3}, false},
		{"inverted interval", Span{Start: 5, End: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.HasOffsets(); got != tt.want {
				t.Errorf("HasOffsets() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanLength(t *testing.T) {
	if got := (&Span{Start: 2, End: 8}).Length(); got != 6 {
		t.Errorf("Length() = %d, want 6", got)
	}
	if got := (&Span{Start: -1, End: -1}).Length(); got != 0 {
		t.Errorf("Length() without offsets = %d, want 0", got)
	}
}

func TestExampleLabeled(t *testing.T) {
	ex := Example{
		Text:   "book a flight to delhi",
		Intent: "book_flight",
		Spans:  []Span{{Label: "destination", Text: "delhi", Start: 17, End: 22, Score: 0.95}},
	}
	got := ex.Labeled()
	if got.Text != ex.Text || got.Intent != ex.Intent || len(got.Spans) != 1 {
		t.Errorf("Labeled() = %+v", got)
	}
}
