package entity

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/erabu/internal/models"
)

// ruleText wraps one utterance for the rule extractors: the original runes
// for span text, plus a lowercased copy for matching. Offsets are rune
// offsets throughout.
type ruleText struct {
	raw      string
	original []rune
	lower    string
	runes    []rune
}

func newRuleText(text string) *ruleText {
	lower := strings.ToLower(text)
	return &ruleText{
		raw:      text,
		original: []rune(text),
		lower:    lower,
		runes:    []rune(lower),
	}
}

// slice returns the lowered text for the rune interval [start,end). Rule
// matching happens on the lowered text, so emitted span text is lowercase.
func (rt *ruleText) slice(start, end int) string {
	return sliceRunes(rt.runes, start, end)
}

// sliceRaw returns the original-case text for the rune interval [start,end).
func (rt *ruleText) sliceRaw(start, end int) string {
	return sliceRunes(rt.original, start, end)
}

// byteToRune converts a byte offset in rt.lower to a rune offset.
func (rt *ruleText) byteToRune(off int) int {
	if off <= 0 {
		return 0
	}
	if off >= len(rt.lower) {
		return len(rt.runes)
	}
	return utf8.RuneCountInString(rt.lower[:off])
}

// span builds a Span for the rune interval [start,end) with the original-case
// surface text.
func (rt *ruleText) span(label string, start, end int, score float64, source string) models.Span {
	return models.Span{
		Label:  label,
		Text:   rt.slice(start, end),
		Start:  start,
		End:    end,
		Score:  score,
		Source: source,
	}
}

// containsWord reports a letter-bounded occurrence of the keyword, so "bus"
// does not register inside "business". Used for context gating.
func (rt *ruleText) containsWord(keyword string) bool {
	_, _, ok := rt.findFirst(keyword)
	return ok
}

// findFirst locates the first letter-bounded occurrence of the lowered phrase
// and returns its rune interval. Letter-bounded means the match may not be
// preceded or followed by a letter, so "one" never fires inside "someone".
func (rt *ruleText) findFirst(phrase string) (int, int, bool) {
	needle := []rune(phrase)
	from := 0
	for {
		idx := indexRunes(rt.runes, needle, from)
		if idx < 0 {
			return 0, 0, false
		}
		end := idx + len(needle)
		if rt.letterBounded(idx, end) {
			return idx, end, true
		}
		from = idx + 1
	}
}

// findAll locates every letter-bounded occurrence of the lowered phrase.
func (rt *ruleText) findAll(phrase string) [][2]int {
	needle := []rune(phrase)
	var out [][2]int
	from := 0
	for {
		idx := indexRunes(rt.runes, needle, from)
		if idx < 0 {
			return out
		}
		end := idx + len(needle)
		if rt.letterBounded(idx, end) {
			out = append(out, [2]int{idx, end})
			from = end
			continue
		}
		from = idx + 1
	}
}

func (rt *ruleText) letterBounded(start, end int) bool {
	if start > 0 && unicode.IsLetter(rt.runes[start-1]) {
		return false
	}
	if end < len(rt.runes) && unicode.IsLetter(rt.runes[end]) {
		return false
	}
	return true
}

// regexAll returns the rune intervals of every match of re against the
// lowered text.
func (rt *ruleText) regexAll(re *regexp.Regexp) [][2]int {
	matches := re.FindAllStringIndex(rt.lower, -1)
	out := make([][2]int, 0, len(matches))
	for _, m := range matches {
		out = append(out, [2]int{rt.byteToRune(m[0]), rt.byteToRune(m[1])})
	}
	return out
}

// regexAllRaw returns the rune intervals of every match of re against the
// original-case text, for case-sensitive patterns.
func (rt *ruleText) regexAllRaw(re *regexp.Regexp) [][2]int {
	matches := re.FindAllStringIndex(rt.raw, -1)
	out := make([][2]int, 0, len(matches))
	for _, m := range matches {
		out = append(out, [2]int{
			utf8.RuneCountInString(rt.raw[:m[0]]),
			utf8.RuneCountInString(rt.raw[:m[1]]),
		})
	}
	return out
}

// regexFirstGroups returns the rune intervals of the capture groups of the
// first match of re, or nil. Index 0 is the whole match.
func (rt *ruleText) regexFirstGroups(re *regexp.Regexp) [][2]int {
	m := re.FindStringSubmatchIndex(rt.lower)
	if m == nil {
		return nil
	}
	out := make([][2]int, 0, len(m)/2)
	for i := 0; i+1 < len(m); i += 2 {
		if m[i] < 0 {
			out = append(out, [2]int{-1, -1})
			continue
		}
		out = append(out, [2]int{rt.byteToRune(m[i]), rt.byteToRune(m[i+1])})
	}
	return out
}

// byLengthDesc returns a copy of words sorted longest first, so multiword
// phrases are tried before the words they contain.
func byLengthDesc(words []string) []string {
	out := make([]string, len(words))
	copy(out, words)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i]) > len(out[j])
	})
	return out
}

// wordIntervals splits the rune interval [start,end) into its non-space runs.
func wordIntervals(runes []rune, start, end int) [][2]int {
	var out [][2]int
	i := start
	for i < end {
		for i < end && unicode.IsSpace(runes[i]) {
			i++
		}
		j := i
		for j < end && !unicode.IsSpace(runes[j]) {
			j++
		}
		if j > i {
			out = append(out, [2]int{i, j})
		}
		i = j
	}
	return out
}
