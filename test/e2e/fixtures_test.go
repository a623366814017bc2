package e2e

import (
	"testing"

	"github.com/hyperjump/erabu/internal/dataset"
)

func TestWriteDatasetFile_AllExtensionsParseBack(t *testing.T) {
	examples := BuildCorpus().Examples[:6]
	for _, ext := range SupportedDatasetExtensions {
		ext := ext
		t.Run(ext, func(t *testing.T) {
			content, err := WriteDatasetFile(ext, examples)
			if err != nil {
				t.Fatalf("WriteDatasetFile: %v", err)
			}
			if len(content) == 0 {
				t.Fatal("empty content")
			}
			parsed, err := dataset.Parse("corpus"+ext, content)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(parsed) != len(examples) {
				t.Fatalf("parsed %d examples, want %d", len(parsed), len(examples))
			}
			for i := range parsed {
				if parsed[i].Text != examples[i].Text {
					t.Errorf("row %d: text %q, want %q", i, parsed[i].Text, examples[i].Text)
				}
				if parsed[i].Intent != examples[i].Intent {
					t.Errorf("row %d: intent %q, want %q", i, parsed[i].Intent, examples[i].Intent)
				}
				if len(parsed[i].Spans) != len(examples[i].Spans) {
					t.Errorf("row %d: %d spans, want %d", i, len(parsed[i].Spans), len(examples[i].Spans))
				}
			}
		})
	}
}

func TestWriteDatasetFile_UnknownExtension(t *testing.T) {
	if _, err := WriteDatasetFile(".pdf", nil); err == nil {
		t.Fatal("expected an error for an extension without a fixture writer")
	}
}
