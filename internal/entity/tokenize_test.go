package entity

import (
	"reflect"
	"testing"
)

func TestTokenizeOffsets(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Token
	}{
		{
			name: "simple",
			text: "book a flight",
			want: []Token{{"book", 0, 4}, {"a", 5, 6}, {"flight", 7, 13}},
		},
		{
			name: "repeated tokens advance the cursor",
			text: "go go go",
			want: []Token{{"go", 0, 2}, {"go", 3, 5}, {"go", 6, 8}},
		},
		{
			name: "case insensitive recovery keeps original casing",
			text: "Delhi to Mumbai",
			want: []Token{{"Delhi", 0, 5}, {"to", 6, 8}, {"Mumbai", 9, 15}},
		},
		{
			name: "mixed whitespace",
			text: "  two\t spaces ",
			want: []Token{{"two", 2, 5}, {"spaces", 7, 13}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if got := Tokenize(""); got != nil {
		t.Errorf("Tokenize(\"\") = %v, want nil", got)
	}
	if got := Tokenize("   \t\n"); got != nil {
		t.Errorf("Tokenize(whitespace) = %v, want nil", got)
	}
}

func TestTokenizeMonotonic(t *testing.T) {
	tokens := Tokenize("a a b a b b a")
	prevEnd := 0
	for i, tok := range tokens {
		if tok.Start < prevEnd {
			t.Fatalf("token %d (%q) starts at %d before previous end %d", i, tok.Text, tok.Start, prevEnd)
		}
		if tok.End <= tok.Start {
			t.Fatalf("token %d (%q) has empty interval [%d,%d)", i, tok.Text, tok.Start, tok.End)
		}
		prevEnd = tok.End
	}
}
