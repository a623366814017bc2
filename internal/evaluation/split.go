// Package evaluation measures intent-classification quality on a held-out
// split of labeled data.
package evaluation

import (
	"math/rand"
	"sort"
)

// DefaultSeed is used when the caller does not pick a shuffle seed.
const DefaultSeed int64 = 42

// SplitResult is a train/test partition of aligned texts and labels.
type SplitResult struct {
	TrainTexts  []string
	TrainLabels []string
	TestTexts   []string
	TestLabels  []string
	Stratified  bool
}

// Split partitions texts and labels at trainPct percent train, clamped to
// [0,100]. When at least two classes exist and every class has at least two
// members, the split is stratified per class using a shuffle seeded by
// seed; otherwise items are split positionally in input order. Either way
// the output keeps input order within each side, and the test side is
// never left empty: a split that would do so moves the last training item
// into test.
func Split(texts, labels []string, trainPct int, seed int64) SplitResult {
	if trainPct < 0 {
		trainPct = 0
	}
	if trainPct > 100 {
		trainPct = 100
	}
	frac := float64(trainPct) / 100.0

	var trainIdx, testIdx []int
	stratified := stratifiable(labels)
	if stratified {
		rng := rand.New(rand.NewSource(seed))
		byLabel := make(map[string][]int)
		var order []string
		for i, label := range labels {
			if _, ok := byLabel[label]; !ok {
				order = append(order, label)
			}
			byLabel[label] = append(byLabel[label], i)
		}
		sort.Strings(order)
		for _, label := range order {
			shuffled := append([]int(nil), byLabel[label]...)
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})
			take := int(frac * float64(len(shuffled)))
			trainIdx = append(trainIdx, shuffled[:take]...)
			testIdx = append(testIdx, shuffled[take:]...)
		}
		sort.Ints(trainIdx)
		sort.Ints(testIdx)
	} else {
		take := int(frac * float64(len(texts)))
		for i := range texts {
			if i < take {
				trainIdx = append(trainIdx, i)
			} else {
				testIdx = append(testIdx, i)
			}
		}
	}

	if len(testIdx) == 0 && len(trainIdx) > 0 {
		last := trainIdx[len(trainIdx)-1]
		trainIdx = trainIdx[:len(trainIdx)-1]
		testIdx = append(testIdx, last)
	}

	result := SplitResult{Stratified: stratified}
	for _, i := range trainIdx {
		result.TrainTexts = append(result.TrainTexts, texts[i])
		result.TrainLabels = append(result.TrainLabels, labels[i])
	}
	for _, i := range testIdx {
		result.TestTexts = append(result.TestTexts, texts[i])
		result.TestLabels = append(result.TestLabels, labels[i])
	}
	return result
}

// stratifiable reports whether a per-class split is feasible: at least two
// classes, each with at least two members.
func stratifiable(labels []string) bool {
	counts := make(map[string]int)
	for _, label := range labels {
		counts[label]++
	}
	if len(counts) < 2 {
		return false
	}
	for _, c := range counts {
		if c < 2 {
			return false
		}
	}
	return true
}
