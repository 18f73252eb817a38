package dialogue

import (
	"strings"
	"time"

	"github.com/spigell/jale-assistant/internal/locale"
)

// suggestedSlots are offered per day, counted from tomorrow.
var suggestedSlots = [][]int{
	{9, 14, 16},
	{10, 13, 15},
}

// Suggestions lists the candidate interview times offered relative to now.
func Suggestions(now time.Time) [][]time.Time {
	days := make([][]time.Time, 0, len(suggestedSlots))
	for i, hours := range suggestedSlots {
		day := make([]time.Time, 0, len(hours))
		for _, hour := range hours {
			day = append(day, time.Date(now.Year(), now.Month(), now.Day()+i+1, hour, 0, 0, 0, now.Location()))
		}
		days = append(days, day)
	}
	return days
}

func renderSuggestions(lang locale.Language, now time.Time) string {
	blocks := []string{locale.Render(lang, locale.TemplateSuggestionsIntro, nil)}

	for _, day := range Suggestions(now) {
		times := make([]string, 0, len(day))
		for _, slot := range day {
			times = append(times, "• "+locale.FormatClock(lang, slot))
		}
		blocks = append(blocks, locale.Render(lang, locale.TemplateSuggestionsDay, locale.Slots{
			locale.SlotDate:  locale.FormatShortDate(lang, day[0]),
			locale.SlotTimes: strings.Join(times, "\n"),
		}))
	}

	blocks = append(blocks, locale.Render(lang, locale.TemplateSuggestionsOutro, nil))
	return strings.Join(blocks, "\n\n")
}
