package timeparse

import (
	"testing"
	"time"
)

// monday is Monday 2024-03-04 09:00 UTC.
var monday = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.March, day, hour, minute, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		message string
		now     time.Time
		expect  time.Time
	}{
		{name: "tomorrow with pm", message: "tomorrow at 2pm", now: monday, expect: at(5, 14, 0)},
		{name: "spanish tomorrow with bare hour", message: "mañana a las 9", now: monday, expect: at(5, 9, 0)},
		{name: "spanish tomorrow morning", message: "mañana por la mañana", now: monday, expect: at(5, 10, 0)},
		{name: "tomorrow afternoon bare hour", message: "tomorrow afternoon at 3", now: monday, expect: at(5, 15, 0)},
		{name: "today with minutes", message: "today at 4:30pm", now: monday, expect: at(4, 16, 30)},
		{name: "today with day part stays today", message: "today afternoon", now: monday, expect: at(4, 14, 0)},
		{name: "tonight", message: "tonight", now: monday, expect: at(4, 17, 0)},
		{name: "weekday", message: "Friday at 10am", now: monday, expect: at(8, 10, 0)},
		{name: "spanish weekday with accent", message: "el miércoles a las 11", now: monday, expect: at(6, 11, 0)},
		{name: "same weekday rolls a week", message: "monday at 9am", now: monday, expect: at(11, 9, 0)},
		{name: "weekday with day part", message: "friday afternoon", now: monday, expect: at(8, 14, 0)},
		{name: "next week default", message: "sometime next week", now: monday, expect: at(11, 10, 0)},
		{name: "next week with time", message: "next week at 1pm", now: monday, expect: at(11, 13, 0)},
		{name: "day part default", message: "in the evening", now: monday, expect: at(5, 17, 0)},
		{name: "spanish day part", message: "por la tarde", now: monday, expect: at(5, 14, 0)},
		{name: "bare time later today", message: "at 3pm", now: monday, expect: at(4, 15, 0)},
		{name: "bare time already passed", message: "8am works", now: monday, expect: at(5, 8, 0)},
		{name: "24 hour clock", message: "14:00", now: monday, expect: at(4, 14, 0)},
		{name: "meridiem beats day number", message: "friday the 8 at 3pm", now: monday, expect: at(8, 15, 0)},
		{name: "twelve am is midnight", message: "tomorrow 12am", now: monday, expect: at(5, 0, 0)},
		{name: "twelve pm is noon", message: "tomorrow 12pm", now: monday, expect: at(5, 12, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Parse(tt.message, tt.now)
			if !ok {
				t.Fatalf("expected %q to parse", tt.message)
			}
			if !got.Equal(tt.expect) {
				t.Fatalf("Parse(%q) = %s, want %s", tt.message, got, tt.expect)
			}
		})
	}
}

func TestParseNone(t *testing.T) {
	t.Parallel()

	for _, message := range []string{
		"sometime soonish",
		"",
		"today works",
		"tomorrow",
		"mañana",
		"friday",
		"at 25:00",
		"13pm",
	} {
		if got, ok := Parse(message, monday); ok {
			t.Fatalf("expected %q not to parse, got %s", message, got)
		}
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	expr, ok := Extract("8am", monday)
	if !ok {
		t.Fatalf("expected bare time to be extracted")
	}
	if expr.HasDate {
		t.Fatalf("bare time must not claim a date cue")
	}
	if !expr.HasTimeOfDay || expr.Hour != 8 || expr.Minute != 0 || expr.DayOffset != 1 || !expr.ExactClock {
		t.Fatalf("unexpected expression %+v", expr)
	}

	expr, ok = Extract("next week", monday)
	if !ok || !expr.HasDate || expr.DayOffset != 7 || expr.Hour != nextWeekDefaultHour || expr.ExactClock {
		t.Fatalf("unexpected next week expression %+v", expr)
	}

	for message, exact := range map[string]bool{
		"tomorrow at 2":     false,
		"tomorrow at 14:30": true,
		"friday afternoon":  false,
		"show me 3 options": false,
		"available at 10am": true,
	} {
		expr, ok := Extract(message, monday)
		if !ok || expr.ExactClock != exact {
			t.Fatalf("Extract(%q) = %+v, %v; want ExactClock %v", message, expr, ok, exact)
		}
	}
}

func TestParseKeepsLocation(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("MST", -7*60*60)
	now := time.Date(2024, time.March, 4, 9, 0, 0, 0, loc)

	got, ok := Parse("tomorrow at 2pm", now)
	if !ok {
		t.Fatalf("expected parse")
	}
	if got.Location() != loc || got.Hour() != 14 || got.Day() != 5 {
		t.Fatalf("unexpected time %s", got)
	}
}
