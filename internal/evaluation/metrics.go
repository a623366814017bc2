package evaluation

import (
	"math"
	"sort"

	"github.com/hyperjump/erabu/internal/models"
)

// SafeRound rounds to four decimal places and maps NaN and infinities to
// zero, so reports always carry finite JSON numbers.
func SafeRound(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*10000) / 10000
}

// MetricsSummary computes accuracy and macro-averaged precision, recall and
// F1 over the given label set. Labels absent from the data contribute zeros
// to the macro averages; division by zero yields zero rather than NaN.
func MetricsSummary(trueLabels, predLabels []string, labels []string) models.Metrics {
	matches := 0
	for i := range trueLabels {
		if trueLabels[i] == predLabels[i] {
			matches++
		}
	}
	counts := tallies(trueLabels, predLabels, labels)
	var sumP, sumR, sumF float64
	for _, label := range labels {
		t := counts[label]
		p := ratio(t.tp, t.tp+t.fp)
		r := ratio(t.tp, t.tp+t.fn)
		sumP += p
		sumR += r
		sumF += f1(p, r)
	}
	k := len(labels)
	return models.Metrics{
		Accuracy:  SafeRound(ratio(matches, len(trueLabels))),
		Precision: SafeRound(mean(sumP, k)),
		Recall:    SafeRound(mean(sumR, k)),
		F1:        SafeRound(mean(sumF, k)),
	}
}

// PerIntentReport computes precision, recall, F1 and support per label.
func PerIntentReport(trueLabels, predLabels []string, labels []string) map[string]models.IntentMetrics {
	counts := tallies(trueLabels, predLabels, labels)
	out := make(map[string]models.IntentMetrics, len(labels))
	for _, label := range labels {
		t := counts[label]
		p := ratio(t.tp, t.tp+t.fp)
		r := ratio(t.tp, t.tp+t.fn)
		out[label] = models.IntentMetrics{
			Precision: SafeRound(p),
			Recall:    SafeRound(r),
			F1:        SafeRound(f1(p, r)),
			Support:   t.support,
		}
	}
	return out
}

// BuildConfusion counts test items per (true, predicted) label pair in the
// given label order.
func BuildConfusion(trueLabels, predLabels []string, labels []string) models.Confusion {
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}
	matrix := make([][]int, len(labels))
	for i := range matrix {
		matrix[i] = make([]int, len(labels))
	}
	for i := range trueLabels {
		ti, tok := index[trueLabels[i]]
		pi, pok := index[predLabels[i]]
		if tok && pok {
			matrix[ti][pi]++
		}
	}
	return models.Confusion{
		Labels: append([]string(nil), labels...),
		Matrix: matrix,
	}
}

// labelSet returns the sorted union of observed and allowed labels,
// skipping blanks.
func labelSet(trueLabels, predLabels, allowed []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(label string) {
		if label != "" && !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	for _, label := range trueLabels {
		add(label)
	}
	for _, label := range predLabels {
		add(label)
	}
	for _, label := range allowed {
		add(label)
	}
	sort.Strings(out)
	return out
}

type tally struct {
	tp, fp, fn int
	support    int
}

func tallies(trueLabels, predLabels []string, labels []string) map[string]*tally {
	m := make(map[string]*tally, len(labels))
	for _, label := range labels {
		m[label] = &tally{}
	}
	for i := range trueLabels {
		trueLabel, predLabel := trueLabels[i], predLabels[i]
		if t, ok := m[trueLabel]; ok {
			t.support++
			if trueLabel == predLabel {
				t.tp++
			} else {
				t.fn++
			}
		}
		if predLabel != trueLabel {
			if p, ok := m[predLabel]; ok {
				p.fp++
			}
		}
	}
	return m
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func f1(p, r float64) float64 {
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func mean(sum float64, k int) float64 {
	if k == 0 {
		return 0
	}
	return sum / float64(k)
}
