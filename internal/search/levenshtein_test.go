package search

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"identical empty", "", "", 0},
		{"identical word", "flight", "flight", 0},
		{"empty a", "", "pizza", 5},
		{"empty b", "pizza", "", 5},
		{"one substitution", "cat", "bat", 1},
		{"one insertion", "cat", "cart", 1},
		{"one deletion", "cart", "cat", 1},
		{"kitten to sitting", "kitten", "sitting", 3},
		{"common typo", "lerning", "learning", 1},
		{"case difference", "Delhi", "delhi", 1},
		{"unicode substitution", "café", "cafe", 1},
		{"transposition counts twice", "ab", "ba", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := LevenshteinDistance(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}
			reverse := LevenshteinDistance(tt.b, tt.a)
			if result != reverse {
				t.Errorf("not symmetric: (%q,%q)=%d, (%q,%q)=%d", tt.a, tt.b, result, tt.b, tt.a, reverse)
			}
		})
	}
}

func BenchmarkLevenshteinDistance(b *testing.B) {
	for i := 0; i < b.N; i++ {
		LevenshteinDistance("documentation", "documantation")
	}
}
