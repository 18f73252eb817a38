// Package text holds the string primitives shared by every part of the assistant:
// typo correction, tokenization and the token-overlap similarity metric.
package text

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// typos maps common misspellings seen in chat messages to the intended word.
// No correction may itself appear as a key, which keeps Normalize idempotent.
var typos = map[string]string{
	"constrution": "construction",
	"constuction": "construction",
	"electrcian":  "electrician",
	"electrian":   "electrician",
	"pluming":     "plumbing",
	"plumer":      "plumber",
	"carpintry":   "carpentry",
	"weldr":       "welder",
	"hw":          "how",
	"wat":         "what",
	"wen":         "when",
	"ned":         "need",
	"tomorow":     "tomorrow",
	"tommorrow":   "tomorrow",
	"tommorow":    "tomorrow",
	"intrview":    "interview",
	"intervew":    "interview",
	"shedule":     "schedule",
	"scedule":     "schedule",
}

var typoPattern = compileTypoPattern()

func compileTypoPattern() *regexp.Regexp {
	keys := make([]string, 0, len(typos))
	for k := range typos {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	// Longest first so alternation never settles on a shorter prefix.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(keys, "|") + `)\b`)
}

// Normalize trims the message and replaces whole-word typos, case-insensitively,
// with their corrections.
func Normalize(raw string) string {
	return typoPattern.ReplaceAllStringFunc(strings.TrimSpace(raw), func(word string) string {
		if fixed, ok := typos[strings.ToLower(word)]; ok {
			return fixed
		}
		return word
	})
}

// Tokenize lowercases s and splits it on whitespace.
func Tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// Fold lowercases s, turns every rune that is not a letter or digit into a space and
// pads the result with single spaces, so phrases can be matched on word boundaries
// with HasPhrase.
func Fold(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	return " " + strings.Join(strings.Fields(mapped), " ") + " "
}

// HasPhrase reports whether the folded text contains phrase as a run of whole words.
func HasPhrase(folded, phrase string) bool {
	needle := strings.TrimSpace(Fold(phrase))
	if needle == "" {
		return false
	}
	return strings.Contains(folded, " "+needle+" ")
}

// HasAnyPhrase reports whether the folded text contains any of the phrases.
func HasAnyPhrase(folded string, phrases []string) bool {
	for _, p := range phrases {
		if HasPhrase(folded, p) {
			return true
		}
	}
	return false
}
