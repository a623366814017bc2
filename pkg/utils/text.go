// Package utils provides shared utilities for text, math, and logging.
package utils

import "strings"

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// NormalizeWhitespace collapses runs of whitespace to single spaces and trims
// leading/trailing whitespace.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeLabel lowercases and trims a class label. Labels are compared in
// this normalized form everywhere.
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
