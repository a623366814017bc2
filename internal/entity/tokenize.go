// Package entity extracts labeled text spans from utterances. It combines a
// trainable BIO sequence tagger with rule extractors for the travel, food and
// health domains, and reconciles the pooled output into a deduplicated span
// list.
package entity

import "strings"

// Token is a whitespace-delimited token with rune offsets into the source
// text. Offsets follow the original text, not the token stream.
type Token struct {
	Text  string
	Start int
	End   int
}

// Tokenize splits text on whitespace and recovers each token's offsets with a
// case-insensitive forward scan. The cursor never moves backwards, so repeated
// tokens resolve to successive occurrences. When a token cannot be located
// (normalization collapsed it), the cursor position is used as a best effort.
func Tokenize(text string) []Token {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	lower := []rune(strings.ToLower(text))
	tokens := make([]Token, 0, len(fields))
	cursor := 0
	for _, field := range fields {
		tok := []rune(strings.ToLower(field))
		idx := indexRunes(lower, tok, cursor)
		if idx < 0 {
			idx = indexRunes(lower, tok, 0)
		}
		if idx < 0 {
			idx = cursor
		}
		tokens = append(tokens, Token{Text: field, Start: idx, End: idx + len(tok)})
		cursor = max(idx+len(tok), cursor+len(tok))
	}
	return tokens
}

// indexRunes reports the first occurrence of needle in haystack at or after
// from, or -1.
func indexRunes(haystack, needle []rune, from int) int {
	if from < 0 {
		from = 0
	}
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := from; i+len(needle) <= len(haystack); i++ {
		matched := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}
