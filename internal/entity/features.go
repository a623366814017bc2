package entity

import (
	"strings"
	"unicode"
)

// tokenFeatures computes the sparse feature set for the token at position i:
// a bias term, the lowercased surface form, casing and digit flags, and the
// lowercased neighbours (or sentence-boundary markers).
func tokenFeatures(tokens []Token, i int) []string {
	word := tokens[i].Text
	feats := make([]string, 0, 8)
	feats = append(feats, "bias", "lower="+strings.ToLower(word))
	if isUpperWord(word) {
		feats = append(feats, "upper")
	}
	if isTitleWord(word) {
		feats = append(feats, "title")
	}
	if isDigitWord(word) {
		feats = append(feats, "digit")
	}
	if i > 0 {
		feats = append(feats, "prev="+strings.ToLower(tokens[i-1].Text))
	} else {
		feats = append(feats, "bos")
	}
	if i < len(tokens)-1 {
		feats = append(feats, "next="+strings.ToLower(tokens[i+1].Text))
	} else {
		feats = append(feats, "eos")
	}
	return feats
}

// isUpperWord reports whether s contains at least one letter and every letter
// is uppercase.
func isUpperWord(s string) bool {
	hasLetter := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		hasLetter = true
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return hasLetter
}

// isTitleWord reports whether s is title-cased: each run of letters starts
// with an uppercase letter followed only by lowercase ones.
func isTitleWord(s string) bool {
	hasLetter := false
	prevLetter := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			prevLetter = false
			continue
		}
		hasLetter = true
		if prevLetter {
			if unicode.IsUpper(r) {
				return false
			}
		} else if !unicode.IsUpper(r) {
			return false
		}
		prevLetter = true
	}
	return hasLetter
}

// isDigitWord reports whether s is non-empty and all digits.
func isDigitWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
