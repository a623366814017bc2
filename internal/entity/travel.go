package entity

import (
	"regexp"

	"github.com/hyperjump/erabu/internal/models"
)

const travelSource = "travel"

var (
	// Route phrases. The first "from X to Y" wins; a bare "to Y" is the
	// fallback when no full route is present.
	travelRouteRe = regexp.MustCompile(`\bfrom\s+([a-z][a-z ]{1,39})\s+to\s+([a-z][a-z ]{1,39})\b`)
	travelToRe    = regexp.MustCompile(`\bto\s+([a-z][a-z ]{1,39})\b`)

	travelDateRes = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?\b`),
		regexp.MustCompile(`\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\s+\d{1,2}\b`),
		regexp.MustCompile(`\b\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\b`),
		regexp.MustCompile(`\b(?:today|tomorrow|day after tomorrow|next\s+(?:mon|tue|wed|thu|thur|fri|sat|sun|monday|tuesday|wednesday|thursday|friday|saturday|sunday))\b`),
	}
	travelTimeRes = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}:\d{2}\b`),
		regexp.MustCompile(`\b\d{1,2}\s*(?:am|pm)\b`),
	}
	travelPassengerRe = regexp.MustCompile(`\b\d+\s*(?:passengers|passenger|people|persons|adults|kids|children)\b`)

	// Presence of any of these marks the utterance as transport-related and
	// unlocks the class and quota rules.
	travelContext = []string{
		"train", "railway", "bus", "coach", "flight", "plane", "airport",
		"station", "pnr", "ticket", "tickets", "booking", "reservation",
		"seat", "berth", "sleeper",
	}

	travelClasses  = byLengthDesc([]string{"economy", "business", "first class", "sleeper"})
	travelClassRes = []*regexp.Regexp{
		regexp.MustCompile(`\b3a\b`),
		regexp.MustCompile(`\b2a\b`),
		regexp.MustCompile(`\b1a\b`),
		regexp.MustCompile(`\bac\b`),
		regexp.MustCompile(`\bnon[ -]?ac\b`),
	}
	travelQuotas = byLengthDesc([]string{
		"tatkal", "premium tatkal", "ladies quota", "senior citizen",
		"general quota", "general",
	})

	// Words stripped from the edges of a captured place name. The route
	// regexes capture greedily, so "mumbai tomorrow" needs narrowing to the
	// place itself.
	placeFiller = map[string]bool{
		"the": true, "a": true, "an": true, "my": true, "this": true,
		"that": true, "next": true, "on": true, "at": true, "for": true,
		"by": true, "in": true, "please": true, "now": true,
		"today": true, "tomorrow": true, "tonight": true, "yesterday": true,
		"morning": true, "afternoon": true, "evening": true, "night": true,
		"day": true, "after": true,
		"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
		"friday": true, "saturday": true, "sunday": true,
		"mon": true, "tue": true, "wed": true, "thu": true, "thur": true,
		"fri": true, "sat": true, "sun": true,
		"am": true, "pm": true,
	}
)

// TravelExtractor finds transport-booking attributes: route endpoints,
// dates, times, passenger counts, and (in transport context) travel class
// and booking quota.
type TravelExtractor struct{}

func (TravelExtractor) Name() string { return travelSource }

func (TravelExtractor) Extract(text string) []models.Span {
	rt := newRuleText(text)
	var out []models.Span

	if g := rt.regexFirstGroups(travelRouteRe); g != nil {
		if s, e, ok := trimPlace(rt.runes, g[1][0], g[1][1]); ok {
			out = append(out, rt.span("source", s, e, 0.97, travelSource))
		}
		if s, e, ok := trimPlace(rt.runes, g[2][0], g[2][1]); ok {
			out = append(out, rt.span("destination", s, e, 0.97, travelSource))
		}
	} else if g := rt.regexFirstGroups(travelToRe); g != nil {
		if s, e, ok := trimPlace(rt.runes, g[1][0], g[1][1]); ok {
			out = append(out, rt.span("destination", s, e, 0.95, travelSource))
		}
	}

	for _, re := range travelDateRes {
		for _, m := range rt.regexAll(re) {
			out = append(out, rt.span("date", m[0], m[1], 0.9, travelSource))
		}
	}
	for _, re := range travelTimeRes {
		for _, m := range rt.regexAll(re) {
			out = append(out, rt.span("time", m[0], m[1], 0.9, travelSource))
		}
	}
	for _, m := range rt.regexAll(travelPassengerRe) {
		out = append(out, rt.span("passenger_count", m[0], m[1], 0.9, travelSource))
	}

	if hasTravelContext(rt) {
		for _, w := range travelClasses {
			if s, e, ok := rt.findFirst(w); ok {
				out = append(out, rt.span("class", s, e, 0.92, travelSource))
			}
		}
		for _, re := range travelClassRes {
			for _, m := range rt.regexAll(re) {
				out = append(out, rt.span("class", m[0], m[1], 0.92, travelSource))
			}
		}
		for _, w := range travelQuotas {
			if s, e, ok := rt.findFirst(w); ok {
				out = append(out, rt.span("quota", s, e, 0.9, travelSource))
			}
		}
	}
	return out
}

func hasTravelContext(rt *ruleText) bool {
	for _, k := range travelContext {
		if rt.containsWord(k) {
			return true
		}
	}
	return false
}

// trimPlace narrows a captured place interval by dropping filler words from
// both ends. It reports false when nothing remains.
func trimPlace(runes []rune, start, end int) (int, int, bool) {
	words := wordIntervals(runes, start, end)
	lo, hi := 0, len(words)
	for lo < hi && placeFiller[string(runes[words[lo][0]:words[lo][1]])] {
		lo++
	}
	for hi > lo && placeFiller[string(runes[words[hi-1][0]:words[hi-1][1]])] {
		hi--
	}
	if lo >= hi {
		return 0, 0, false
	}
	return words[lo][0], words[hi-1][1], true
}
