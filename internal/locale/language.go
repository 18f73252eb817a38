// Package locale keeps everything language specific in tables: the keyword cues the
// router and parser look for, the response templates and date formatting.
//
// Adding a language means adding rows to these tables; no caller branches on a
// language value.
package locale

import "strings"

// Language is a supported conversation language.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
)

// Default is used when the caller does not name a supported language.
const Default = English

// Languages lists the supported languages in a stable order.
func Languages() []Language {
	return []Language{English, Spanish}
}

// Parse maps a language code such as "es" or "es-MX" to a supported Language,
// falling back to Default.
func Parse(code string) Language {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}

	for _, lang := range Languages() {
		if string(lang) == code {
			return lang
		}
	}
	return Default
}

// Supported reports whether lang has a row in every table.
func (l Language) Supported() bool {
	_, ok := templates[l]
	return ok
}

func (l Language) orDefault() Language {
	if l.Supported() {
		return l
	}
	return Default
}
