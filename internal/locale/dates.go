package locale

import (
	"fmt"
	"time"
)

var (
	spanishDays = [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

	spanishMonths = [12]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}
)

// FormatDate renders a long date, e.g. "Tuesday, March 5, 2024" or
// "martes, 5 de marzo de 2024".
func FormatDate(lang Language, t time.Time) string {
	if lang.orDefault() == Spanish {
		return fmt.Sprintf("%s, %d de %s de %d", spanishDays[t.Weekday()], t.Day(), spanishMonths[t.Month()-1], t.Year())
	}
	return t.Format("Monday, January 2, 2006")
}

// FormatShortDate renders a date without the year, e.g. "Tuesday, Mar 5".
func FormatShortDate(lang Language, t time.Time) string {
	if lang.orDefault() == Spanish {
		return fmt.Sprintf("%s, %d de %s", spanishDays[t.Weekday()], t.Day(), spanishMonths[t.Month()-1])
	}
	return t.Format("Monday, Jan 2")
}

// FormatClock renders a time of day as "3:04 PM".
func FormatClock(_ Language, t time.Time) string {
	return t.Format("3:04 PM")
}

// FormatDateTime joins FormatDate and FormatClock.
func FormatDateTime(lang Language, t time.Time) string {
	if lang.orDefault() == Spanish {
		return FormatDate(lang, t) + " a las " + FormatClock(lang, t)
	}
	return FormatDate(lang, t) + " at " + FormatClock(lang, t)
}
