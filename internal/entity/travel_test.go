package entity

import "testing"

func TestTravelRouteScenario(t *testing.T) {
	spans := TravelExtractor{}.Extract("book a flight from Delhi to Mumbai tomorrow")

	source := requireSpan(t, spans, "source")
	if source.Text != "delhi" {
		t.Errorf("source = %q, want %q", source.Text, "delhi")
	}
	dest := requireSpan(t, spans, "destination")
	if dest.Text != "mumbai" {
		t.Errorf("destination = %q, want %q", dest.Text, "mumbai")
	}
	date := requireSpan(t, spans, "date")
	if date.Text != "tomorrow" {
		t.Errorf("date = %q, want %q", date.Text, "tomorrow")
	}
	if source.Score != 0.97 || dest.Score != 0.97 {
		t.Errorf("route scores = %v/%v, want 0.97", source.Score, dest.Score)
	}
}

func TestTravelStandaloneDestination(t *testing.T) {
	spans := TravelExtractor{}.Extract("fly to chennai please")

	if sp := spansWithLabel(spans, "source"); len(sp) != 0 {
		t.Errorf("unexpected source spans: %v", sp)
	}
	dest := requireSpan(t, spans, "destination")
	if dest.Text != "chennai" || dest.Score != 0.95 {
		t.Errorf("destination = %+v, want chennai at 0.95", dest)
	}
}

func TestTravelClassNeedsContext(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantClass string
	}{
		{"class with context", "book a business class flight", "business"},
		{"code with context", "3a coach to agra", "3a"},
		{"no context", "business dinner tomorrow", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := TravelExtractor{}.Extract(tt.text)
			classes := spansWithLabel(spans, "class")
			if tt.wantClass == "" {
				if len(classes) != 0 {
					t.Errorf("unexpected class spans: %v", classes)
				}
				return
			}
			if !hasSpanText(classes, tt.wantClass) {
				t.Errorf("class spans %v, want one with text %q", classes, tt.wantClass)
			}
		})
	}
}

func TestTravelDateStillFiresWithoutContext(t *testing.T) {
	spans := TravelExtractor{}.Extract("see you tomorrow")
	date := requireSpan(t, spans, "date")
	if date.Text != "tomorrow" {
		t.Errorf("date = %q, want tomorrow", date.Text)
	}
}

func TestTravelDatesAndTimes(t *testing.T) {
	spans := TravelExtractor{}.Extract("train on 12/05 at 5 pm or 17:30")

	if dates := spansWithLabel(spans, "date"); !hasSpanText(dates, "12/05") {
		t.Errorf("date spans %v, want 12/05", dates)
	}
	times := spansWithLabel(spans, "time")
	if !hasSpanText(times, "5 pm") || !hasSpanText(times, "17:30") {
		t.Errorf("time spans %v, want 5 pm and 17:30", times)
	}
}

func TestTravelQuotaAndPassengers(t *testing.T) {
	spans := TravelExtractor{}.Extract("tatkal ticket to varanasi for 3 adults")

	quota := requireSpan(t, spans, "quota")
	if quota.Text != "tatkal" {
		t.Errorf("quota = %q, want tatkal", quota.Text)
	}
	pax := requireSpan(t, spans, "passenger_count")
	if pax.Text != "3 adults" {
		t.Errorf("passenger_count = %q, want 3 adults", pax.Text)
	}
}

func TestTravelNextWeekday(t *testing.T) {
	spans := TravelExtractor{}.Extract("bus to goa next friday")
	dates := spansWithLabel(spans, "date")
	if !hasSpanText(dates, "next friday") {
		t.Errorf("date spans %v, want next friday", dates)
	}
	dest := requireSpan(t, spans, "destination")
	if dest.Text != "goa" {
		t.Errorf("destination = %q, want goa", dest.Text)
	}
}
