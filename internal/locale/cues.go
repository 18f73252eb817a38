package locale

import (
	"time"

	"github.com/spigell/jale-assistant/internal/text"
)

// Cue names a class of keywords the assistant reacts to.
type Cue string

const (
	CueSchedule  Cue = "schedule"
	CueCancel    Cue = "cancel"
	CueSuggest   Cue = "suggest"
	CueToday     Cue = "today"
	CueTomorrow  Cue = "tomorrow"
	CueNextWeek  Cue = "next_week"
	CueMorning   Cue = "morning"
	CueAfternoon Cue = "afternoon"
	CueEvening   Cue = "evening"
	CuePay       Cue = "pay"
	CueLocation  Cue = "location"
	CueHours     Cue = "hours"
	CueBenefits  Cue = "benefits"
	CueWorker    Cue = "worker"
	CueEmployer  Cue = "employer"
)

// cues is the {language, keyword-set} table. Keywords are matched as whole words
// against folded text, in every language at once: users switch languages mid-thread.
//
// Spanish "mañana" is both "tomorrow" and "morning". Only the unambiguous phrases
// ("por la mañana") are morning cues; bare "mañana" is a date cue.
var cues = map[Cue]map[Language][]string{
	CueSchedule: {
		English: {
			"schedule", "book", "arrange", "set up", "meeting", "interview",
			"when can", "available", "talk", "meet", "call", "video",
			"yes", "sure", "okay", "ok", "sounds good",
		},
		Spanish: {
			"programar", "agendar", "reunión", "reunion", "entrevista", "disponible",
			"sí", "si", "claro", "vale", "de acuerdo",
		},
	},
	CueCancel: {
		English: {"cancel", "nevermind", "never mind", "forget it"},
		Spanish: {"cancelar", "cancela", "no importa", "olvídalo", "olvidalo"},
	},
	CueSuggest: {
		English: {"suggest", "suggestions", "show", "options", "available", "slots"},
		Spanish: {"sugerir", "sugiere", "mostrar", "muestra", "opciones", "horarios disponibles"},
	},
	CueToday: {
		English: {"today", "tonight"},
		Spanish: {"hoy", "esta noche"},
	},
	CueTomorrow: {
		English: {"tomorrow"},
		Spanish: {"mañana", "manana"},
	},
	CueNextWeek: {
		English: {"next week"},
		Spanish: {"próxima semana", "proxima semana", "semana que viene"},
	},
	CueMorning: {
		English: {"morning"},
		Spanish: {"por la mañana", "en la mañana", "por la manana", "en la manana", "temprano"},
	},
	CueAfternoon: {
		English: {"afternoon"},
		Spanish: {"tarde", "por la tarde", "en la tarde"},
	},
	CueEvening: {
		English: {"evening", "tonight"},
		Spanish: {"noche", "por la noche", "esta noche"},
	},
	CuePay: {
		English: {"pay", "salary", "wage", "wages", "rate"},
		Spanish: {"pago", "salario", "sueldo", "tarifa"},
	},
	CueLocation: {
		English: {"location", "where", "address"},
		Spanish: {"ubicación", "ubicacion", "dónde", "donde", "dirección", "direccion"},
	},
	CueHours: {
		English: {"schedule", "hours", "shift"},
		Spanish: {"horario", "horas", "turno"},
	},
	CueBenefits: {
		English: {"benefit", "benefits", "perks"},
		Spanish: {"beneficio", "beneficios", "prestaciones"},
	},
	CueWorker: {
		English: {"looking for", "need work", "find job", "find work"},
		Spanish: {"busco trabajo", "necesito trabajo"},
	},
	CueEmployer: {
		English: {"need worker", "need workers", "hire", "hiring", "looking to hire"},
		Spanish: {"necesito trabajador", "necesito trabajadores", "contratar"},
	},
}

// weekdays holds weekday names per language, indexed by time.Weekday.
var weekdays = map[Language][7][]string{
	English: {
		{"sunday"}, {"monday"}, {"tuesday"}, {"wednesday"},
		{"thursday"}, {"friday"}, {"saturday"},
	},
	Spanish: {
		{"domingo"}, {"lunes"}, {"martes"}, {"miércoles", "miercoles"},
		{"jueves"}, {"viernes"}, {"sábado", "sabado"},
	},
}

// Keywords returns every keyword registered for cue across all languages.
func Keywords(cue Cue) []string {
	var out []string
	for _, lang := range Languages() {
		out = append(out, cues[cue][lang]...)
	}
	return out
}

// Has reports whether message contains any keyword of cue as whole words.
func Has(message string, cue Cue) bool {
	return HasFolded(text.Fold(message), cue)
}

// HasFolded is Has for text already passed through text.Fold.
func HasFolded(folded string, cue Cue) bool {
	for _, lang := range Languages() {
		if text.HasAnyPhrase(folded, cues[cue][lang]) {
			return true
		}
	}
	return false
}

// Weekday finds the first weekday named in the folded text, in any language.
func Weekday(folded string) (time.Weekday, bool) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		for _, lang := range Languages() {
			if text.HasAnyPhrase(folded, weekdays[lang][day]) {
				return day, true
			}
		}
	}
	return 0, false
}
