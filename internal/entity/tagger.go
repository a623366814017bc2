package entity

import (
	"sort"

	"github.com/hyperjump/erabu/internal/models"
)

// taggerDefaultEpochs is the fixed number of training passes over the
// annotated examples.
const taggerDefaultEpochs = 5

// Tagger assigns BIO tags to tokens with a multi-class averaged perceptron
// over local token features. Tokens are tagged independently; the prev/next
// word features carry the sequence context.
type Tagger struct {
	tags    []string
	weights []map[string]float64 // [tag][feature]
	biases  []float64
}

// taggedSequence is one training sentence: per-token features and gold tags.
type taggedSequence struct {
	feats [][]string
	tags  []string
}

// TrainTagger fits a tagger on the annotated examples (<= 0 epochs selects
// the default). Examples without spans contribute all-O sequences. It returns
// nil when no example carries a labeled token, in which case span extraction
// falls back to the rule extractors alone.
func TrainTagger(examples []models.LabeledExample, epochs int) *Tagger {
	if epochs <= 0 {
		epochs = taggerDefaultEpochs
	}

	var seqs []taggedSequence
	hasLabeled := false
	tagSet := map[string]bool{bioOutside: true}
	for _, ex := range examples {
		tokens := Tokenize(ex.Text)
		if len(tokens) == 0 {
			continue
		}
		tags := SpansToBIO(tokens, ex.Spans)
		feats := make([][]string, len(tokens))
		for i := range tokens {
			feats[i] = tokenFeatures(tokens, i)
		}
		for _, tag := range tags {
			tagSet[tag] = true
			if tag != bioOutside {
				hasLabeled = true
			}
		}
		seqs = append(seqs, taggedSequence{feats: feats, tags: tags})
	}
	if !hasLabeled {
		return nil
	}

	tags := make([]string, 0, len(tagSet))
	for tag := range tagSet {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	tagIdx := make(map[string]int, len(tags))
	for i, tag := range tags {
		tagIdx[tag] = i
	}

	t := &Tagger{
		tags:    tags,
		weights: make([]map[string]float64, len(tags)),
		biases:  make([]float64, len(tags)),
	}
	accW := make([]map[string]float64, len(tags))
	accB := make([]float64, len(tags))
	for i := range tags {
		t.weights[i] = make(map[string]float64)
		accW[i] = make(map[string]float64)
	}

	// Averaged perceptron, same scheme as the intent models: step-weighted
	// accumulators folded back at the end.
	step := 1
	for epoch := 0; epoch < epochs; epoch++ {
		for _, seq := range seqs {
			for i, feats := range seq.feats {
				pred := t.argmax(feats)
				truth := tagIdx[seq.tags[i]]
				if pred != truth {
					t.update(truth, feats, 1, accW, accB, step)
					t.update(pred, feats, -1, accW, accB, step)
				}
				step++
			}
		}
	}
	total := float64(step)
	for i := range t.tags {
		for feat, acc := range accW[i] {
			t.weights[i][feat] -= acc / total
		}
		t.biases[i] -= accB[i] / total
	}
	return t
}

func (t *Tagger) update(tag int, feats []string, delta float64, accW []map[string]float64, accB []float64, step int) {
	for _, feat := range feats {
		t.weights[tag][feat] += delta
		accW[tag][feat] += float64(step) * delta
	}
	t.biases[tag] += delta
	accB[tag] += float64(step) * delta
}

func (t *Tagger) argmax(feats []string) int {
	best := 0
	bestScore := 0.0
	for i := range t.tags {
		s := t.biases[i]
		for _, feat := range feats {
			s += t.weights[i][feat]
		}
		if i == 0 || s > bestScore {
			best = i
			bestScore = s
		}
	}
	return best
}

// Tags returns the tag inventory the tagger was trained with.
func (t *Tagger) Tags() []string { return t.tags }

// Name implements Extractor.
func (t *Tagger) Name() string { return "tagger" }

// Extract tags the text token by token and decodes the result into spans.
func (t *Tagger) Extract(text string) []models.Span {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	tags := make([]string, len(tokens))
	for i := range tokens {
		tags[i] = t.tags[t.argmax(tokenFeatures(tokens, i))]
	}
	spans := BIOToSpans(tokens, tags, text)
	for i := range spans {
		spans[i].Source = t.Name()
	}
	return spans
}
