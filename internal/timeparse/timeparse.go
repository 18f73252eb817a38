// Package timeparse extracts a concrete interview time from free text.
//
// Rules are tried in a fixed order and the first one that yields a time wins:
//
//  1. today       today at the given time
//  2. tomorrow    tomorrow at the given time
//  3. weekday     next occurrence of that weekday (never today)
//  4. next week   seven days out, 10:00 unless a time is given
//  5. day part    tomorrow morning 10:00, afternoon 14:00, evening 17:00
//  6. bare time   today, or tomorrow when that moment has passed
//
// Date cues (rules 1-4) always take priority over day-part cues. A day part next to a
// date cue only supplies the time of day, so "mañana a las 9" is tomorrow at 09:00,
// never a generic morning default, and "today afternoon" is today at 14:00. A date cue
// with no time of day at all ("mañana", "friday") yields nothing.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/text"
)

const nextWeekDefaultHour = 10

// clockPattern matches "2pm", "10:30 am", "14:00" or a bare "9".
var clockPattern = regexp.MustCompile(`(?i)(?:^|[^\d:])(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)

// dayParts maps day-part cues to their default hour, checked in order.
var dayParts = []struct {
	cue  locale.Cue
	hour int
	pm   bool
}{
	{locale.CueMorning, 10, false},
	{locale.CueAfternoon, 14, true},
	{locale.CueEvening, 17, true},
}

// Expression is the parsed, not yet materialized, form of a date/time mention.
type Expression struct {
	HasDate      bool
	DayOffset    int
	HasTimeOfDay bool
	Hour         int
	Minute       int
	// ExactClock is set when the time came from a clock with minutes or am/pm.
	ExactClock bool
}

// At materializes e relative to now, in now's location.
func (e Expression) At(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+e.DayOffset, e.Hour, e.Minute, 0, 0, now.Location())
}

// Parse returns the moment described by message, or false when no rule applies.
// A false result is an expected outcome; callers should ask again rather than guess.
func Parse(message string, now time.Time) (time.Time, bool) {
	expr, ok := Extract(message, now)
	if !ok {
		return time.Time{}, false
	}
	return expr.At(now), true
}

// Extract runs the rule cascade and returns the resulting Expression.
func Extract(message string, now time.Time) (Expression, bool) {
	folded := text.Fold(message)
	clk, rank, hasClock := findClock(message)
	exact := hasClock && rank > 0
	part, hasPart := findDayPart(folded)

	// timeOfDay prefers an explicit clock, read in the light of any day part, then
	// the day part's default hour.
	timeOfDay := func() (clock, bool) {
		switch {
		case hasClock && hasPart:
			return clk.inDayPart(part), true
		case hasClock:
			return clk, true
		case hasPart:
			return clock{hour: part.hour}, true
		default:
			return clock{}, false
		}
	}

	at := func(offset int, c clock) Expression {
		return Expression{HasDate: true, DayOffset: offset, HasTimeOfDay: true, Hour: c.hour, Minute: c.minute, ExactClock: exact}
	}

	if locale.HasFolded(folded, locale.CueToday) {
		if c, ok := timeOfDay(); ok {
			return at(0, c), true
		}
	}

	if locale.HasFolded(folded, locale.CueTomorrow) {
		if c, ok := timeOfDay(); ok {
			return at(1, c), true
		}
	}

	if day, ok := locale.Weekday(folded); ok {
		if c, ok := timeOfDay(); ok {
			offset := (int(day) - int(now.Weekday()) + 7) % 7
			if offset == 0 {
				offset = 7
			}
			return at(offset, c), true
		}
	}

	if locale.HasFolded(folded, locale.CueNextWeek) {
		c, ok := timeOfDay()
		if !ok {
			c = clock{hour: nextWeekDefaultHour}
		}
		return at(7, c), true
	}

	if hasPart {
		c, _ := timeOfDay()
		return at(1, c), true
	}

	if hasClock {
		expr := Expression{HasTimeOfDay: true, Hour: clk.hour, Minute: clk.minute, ExactClock: exact}
		if expr.At(now).Before(now) {
			expr.DayOffset = 1
		}
		return expr, true
	}

	return Expression{}, false
}

type clock struct {
	hour     int
	minute   int
	meridiem bool
}

// inDayPart moves a bare afternoon or evening hour such as "3" to the afternoon.
func (c clock) inDayPart(p dayPart) clock {
	if p.pm && !c.meridiem && c.hour < 12 {
		c.hour += 12
	}
	return c
}

type dayPart struct {
	hour int
	pm   bool
}

func findDayPart(folded string) (dayPart, bool) {
	for _, p := range dayParts {
		if locale.HasFolded(folded, p.cue) {
			return dayPart{hour: p.hour, pm: p.pm}, true
		}
	}
	return dayPart{}, false
}

// findClock returns the most explicit clock time in message: one with an am/pm
// marker beats one with minutes, which beats a bare hour. Earlier mentions win ties.
// The rank is 2 for am/pm, 1 for minutes and 0 for a bare hour.
func findClock(message string) (clock, int, bool) {
	var (
		best     clock
		bestRank = -1
	)

	for _, m := range clockPattern.FindAllStringSubmatch(message, -1) {
		c, rank, ok := readClock(m[1], m[2], strings.ToLower(m[3]))
		if ok && rank > bestRank {
			best, bestRank = c, rank
		}
	}

	return best, bestRank, bestRank >= 0
}

func readClock(hourText, minuteText, meridiem string) (clock, int, bool) {
	hour, err := strconv.Atoi(hourText)
	if err != nil {
		return clock{}, 0, false
	}

	minute := 0
	if minuteText != "" {
		if minute, err = strconv.Atoi(minuteText); err != nil || minute > 59 {
			return clock{}, 0, false
		}
	}

	rank := 0
	if minuteText != "" {
		rank = 1
	}

	switch meridiem {
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return clock{}, 0, false
		}
		if meridiem == "pm" && hour != 12 {
			hour += 12
		}
		if meridiem == "am" && hour == 12 {
			hour = 0
		}
		return clock{hour: hour, minute: minute, meridiem: true}, 2, true
	default:
		if hour > 23 {
			return clock{}, 0, false
		}
		return clock{hour: hour, minute: minute}, rank, true
	}
}
