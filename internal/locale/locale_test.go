package locale

import (
	"regexp"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/spigell/jale-assistant/internal/text"
)

var placeholder = regexp.MustCompile(`\{[a-z]+\}`)

func TestTemplatesHaveParity(t *testing.T) {
	t.Parallel()

	reference := templates[Default]
	for _, lang := range Languages() {
		table, ok := templates[lang]
		if !ok {
			t.Fatalf("missing templates for %s", lang)
		}
		if len(table) != len(reference) {
			t.Fatalf("%s has %d templates, %s has %d", lang, len(table), Default, len(reference))
		}

		for id, tmpl := range reference {
			other, ok := table[id]
			if !ok {
				t.Fatalf("%s is missing template %s", lang, id)
			}
			if got, want := slotsOf(other), slotsOf(tmpl); got != want {
				t.Fatalf("template %s in %s uses slots %q, %s uses %q", id, lang, got, Default, want)
			}
		}
	}
}

func slotsOf(tmpl string) string {
	found := placeholder.FindAllString(tmpl, -1)
	sort.Strings(found)
	return strings.Join(found, ",")
}

func TestCuesCoverEveryLanguage(t *testing.T) {
	t.Parallel()

	for cue, byLang := range cues {
		for _, lang := range Languages() {
			if len(byLang[lang]) == 0 {
				t.Fatalf("cue %s has no keywords for %s", cue, lang)
			}
		}
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	got := Render(English, TemplateOutreachScore, Slots{SlotScore: "87"})
	if got != "Based on your profile, you're a 87% match for this role!" {
		t.Fatalf("unexpected render: %q", got)
	}

	got = Render(Spanish, TemplateJobLocation, Slots{SlotLocation: "El Paso, TX"})
	if !strings.Contains(got, "El Paso, TX") || strings.Contains(got, "{location}") {
		t.Fatalf("unexpected spanish render: %q", got)
	}

	if got := Render(Language("fr"), TemplateGreeting, nil); got != templates[English][TemplateGreeting] {
		t.Fatalf("expected fallback to english, got %q", got)
	}

	if got := Render(English, TemplateJobPay, Slots{SlotPay: "$30/hr"}); !strings.Contains(got, "{location}") {
		t.Fatalf("expected unfilled slot to stay visible, got %q", got)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	cases := map[string]Language{
		"es":    Spanish,
		"ES-mx": Spanish,
		"en_US": English,
		"fr":    English,
		"":      English,
	}
	for in, want := range cases {
		if got := Parse(in); got != want {
			t.Fatalf("Parse(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestHasAndWeekday(t *testing.T) {
	t.Parallel()

	if !Has("Can we do mañana por la mañana?", CueMorning) {
		t.Fatalf("expected spanish morning phrase to match")
	}
	if Has("mañana a las 9", CueMorning) {
		t.Fatalf("bare mañana must not be a morning cue")
	}
	if !Has("mañana a las 9", CueTomorrow) {
		t.Fatalf("expected mañana to be a tomorrow cue")
	}
	if Has("I'm looking for work", CueSchedule) {
		t.Fatalf("ok inside looking must not count as an affirmative")
	}

	day, ok := Weekday(text.Fold("el miércoles a las 3"))
	if !ok || day != time.Wednesday {
		t.Fatalf("expected wednesday, got %v %v", day, ok)
	}
	if _, ok := Weekday(text.Fold("sometime soonish")); ok {
		t.Fatalf("expected no weekday")
	}
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

	if got := FormatDateTime(English, at); got != "Tuesday, March 5, 2024 at 2:30 PM" {
		t.Fatalf("unexpected english datetime %q", got)
	}
	if got := FormatDateTime(Spanish, at); got != "martes, 5 de marzo de 2024 a las 2:30 PM" {
		t.Fatalf("unexpected spanish datetime %q", got)
	}
	if got := FormatShortDate(English, at); got != "Tuesday, Mar 5" {
		t.Fatalf("unexpected short date %q", got)
	}
}
