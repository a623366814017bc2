package entity

import (
	"strings"

	"github.com/hyperjump/erabu/internal/models"
)

// bioOutside is the tag for tokens outside any span.
const bioOutside = "O"

// decodedScore is assigned to spans recovered from a tag sequence; the tagger
// has no calibrated confidence of its own.
const decodedScore = 0.9

// SpansToBIO projects labeled spans onto a token sequence as BIO tags. The
// first token overlapping a span is tagged B-LABEL and every later overlapping
// token I-LABEL. Spans without a label or without valid offsets are skipped.
func SpansToBIO(tokens []Token, spans []models.Span) []string {
	tags := make([]string, len(tokens))
	for i := range tags {
		tags[i] = bioOutside
	}
	for _, sp := range spans {
		label := strings.TrimSpace(sp.Label)
		if label == "" || sp.End <= sp.Start || sp.Start < 0 {
			continue
		}
		upper := strings.ToUpper(label)
		began := false
		for i, tok := range tokens {
			if tok.End > sp.Start && tok.Start < sp.End {
				if began {
					tags[i] = "I-" + upper
				} else {
					tags[i] = "B-" + upper
					began = true
				}
			}
		}
	}
	return tags
}

// BIOToSpans decodes a tag sequence back into spans over the original text.
// A B- tag opens a span and consecutive I- tags with the same label extend
// it; stray I- tags are ignored. Span text is sliced from text using the
// token offsets.
func BIOToSpans(tokens []Token, tags []string, text string) []models.Span {
	if len(tokens) != len(tags) {
		return nil
	}
	runes := []rune(text)
	var spans []models.Span
	for i := 0; i < len(tags); {
		tag := tags[i]
		if !strings.HasPrefix(tag, "B-") {
			i++
			continue
		}
		label := tag[2:]
		start, end := tokens[i].Start, tokens[i].End
		j := i + 1
		for j < len(tags) && tags[j] == "I-"+label {
			end = tokens[j].End
			j++
		}
		spans = append(spans, models.Span{
			Label: strings.ToLower(label),
			Text:  sliceRunes(runes, start, end),
			Start: start,
			End:   end,
			Score: decodedScore,
		})
		i = j
	}
	return spans
}

// sliceRunes returns runes[start:end] clamped to valid bounds.
func sliceRunes(runes []rune, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}
