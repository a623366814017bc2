package intent

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/hyperjump/erabu/pkg/utils"
)

// wordToken matches lowercase word tokens of at least two characters.
// Single-character tokens carry almost no class signal and are skipped.
var wordToken = regexp.MustCompile(`[a-z0-9]{2,}`)

func analyze(text string) []string {
	return wordToken.FindAllString(strings.ToLower(text), -1)
}

// feature is one non-zero column of a document vector. Columns are emitted
// in ascending order.
type feature struct {
	col int
	val float64
}

// countVectorizer maps documents to binary unigram presence vectors.
type countVectorizer struct {
	vocab map[string]int
}

func fitCountVectorizer(docs []string) *countVectorizer {
	terms := make(map[string]bool)
	for _, doc := range docs {
		for _, tok := range analyze(doc) {
			terms[tok] = true
		}
	}
	sorted := make([]string, 0, len(terms))
	for t := range terms {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)
	vocab := make(map[string]int, len(sorted))
	for i, t := range sorted {
		vocab[t] = i
	}
	return &countVectorizer{vocab: vocab}
}

func (v *countVectorizer) size() int { return len(v.vocab) }

func (v *countVectorizer) transform(doc string) []feature {
	cols := make(map[int]bool)
	for _, tok := range analyze(doc) {
		if col, ok := v.vocab[tok]; ok {
			cols[col] = true
		}
	}
	out := make([]feature, 0, len(cols))
	for col := range cols {
		out = append(out, feature{col: col, val: 1})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].col < out[j].col })
	return out
}

// tfidfVectorizer maps documents to L2-normalized tf-idf vectors over
// unigrams and bigrams, with smoothed idf: ln((1+n)/(1+df)) + 1.
type tfidfVectorizer struct {
	vocab map[string]int
	idf   []float64
}

func ngrams(tokens []string) []string {
	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func fitTfidfVectorizer(docs []string) *tfidfVectorizer {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range ngrams(analyze(doc)) {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}
	sorted := make([]string, 0, len(df))
	for t := range df {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)
	vocab := make(map[string]int, len(sorted))
	idf := make([]float64, len(sorted))
	n := float64(len(docs))
	for i, t := range sorted {
		vocab[t] = i
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return &tfidfVectorizer{vocab: vocab, idf: idf}
}

func (v *tfidfVectorizer) size() int { return len(v.vocab) }

func (v *tfidfVectorizer) transform(doc string) []feature {
	counts := make(map[int]float64)
	for _, term := range ngrams(analyze(doc)) {
		if col, ok := v.vocab[term]; ok {
			counts[col]++
		}
	}
	out := make([]feature, 0, len(counts))
	for col, tf := range counts {
		out = append(out, feature{col: col, val: tf * v.idf[col]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].col < out[j].col })
	vals := make([]float64, len(out))
	for i := range out {
		vals[i] = out[i].val
	}
	utils.NormalizeL2(vals)
	for i := range out {
		out[i].val = vals[i]
	}
	return out
}
