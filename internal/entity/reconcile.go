package entity

import (
	"sort"
	"strings"

	"github.com/hyperjump/erabu/internal/models"
)

// DefaultOverlapThreshold is the same-label IoU above which the lower-scored
// of two spans is suppressed.
const DefaultOverlapThreshold = 0.8

// dedupKey identifies re-detections of the same entity: by offsets when they
// are usable, by normalized surface text otherwise.
type dedupKey struct {
	label string
	start int
	end   int
	text  string
}

func keyFor(sp models.Span) dedupKey {
	label := strings.ToLower(sp.Label)
	if sp.HasOffsets() {
		return dedupKey{label: label, start: sp.Start, end: sp.End}
	}
	return dedupKey{label: label, start: -1, end: -1, text: normalizeSpanText(sp.Text)}
}

// Reconcile merges the pooled extractor output into one consistent span list.
// Exact re-detections collapse to the highest-scored span (ties go to the
// longer one). The survivors are then sorted by descending score and accepted
// greedily, dropping any candidate whose same-label IoU with an already
// accepted span reaches the threshold (<= 0 selects the default). Different
// labels never suppress each other.
func Reconcile(spans []models.Span, threshold float64) []models.Span {
	if len(spans) == 0 {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultOverlapThreshold
	}

	order := make([]dedupKey, 0, len(spans))
	best := make(map[dedupKey]models.Span, len(spans))
	for _, sp := range spans {
		key := keyFor(sp)
		cur, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = sp
			continue
		}
		if sp.Score > cur.Score || (sp.Score == cur.Score && sp.Length() > cur.Length()) {
			best[key] = sp
		}
	}

	deduped := make([]models.Span, 0, len(order))
	for _, key := range order {
		deduped = append(deduped, best[key])
	}
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Score > deduped[j].Score
	})

	final := make([]models.Span, 0, len(deduped))
	for _, cand := range deduped {
		conflict := false
		for i := range final {
			if strings.EqualFold(final[i].Label, cand.Label) && spanIoU(&final[i], &cand) >= threshold {
				conflict = true
				break
			}
		}
		if !conflict {
			final = append(final, cand)
		}
	}
	return final
}

// spanIoU computes intersection-over-union of two offset intervals. Spans
// without usable offsets never overlap.
func spanIoU(a, b *models.Span) float64 {
	if !a.HasOffsets() || !b.HasOffsets() {
		return 0
	}
	inter := min(a.End, b.End) - max(a.Start, b.Start)
	if inter < 0 {
		inter = 0
	}
	union := max(a.End, b.End) - min(a.Start, b.Start)
	if union <= 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// normalizeSpanText lowercases and strips surrounding whitespace and
// punctuation, so "Pizza!" and "pizza" group together when offsets are
// missing.
func normalizeSpanText(text string) string {
	t := strings.TrimSpace(strings.ToLower(text))
	return strings.Trim(t, `"'.,;:!?)({}[]`)
}
