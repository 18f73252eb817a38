package knowledge

import "github.com/spigell/jale-assistant/internal/locale"

// Audience selects which half of the knowledge table applies.
type Audience string

const (
	Worker   Audience = "worker"
	Employer Audience = "employer"
)

// Valid reports whether a is a known audience.
func (a Audience) Valid() bool {
	return a == Worker || a == Employer
}

// DetectAudience infers the audience from keyword cues in message. Without a cue it
// keeps previous, and defaults to Worker on first contact.
func DetectAudience(message string, previous Audience) Audience {
	switch {
	case locale.Has(message, locale.CueWorker):
		return Worker
	case locale.Has(message, locale.CueEmployer):
		return Employer
	case previous.Valid():
		return previous
	default:
		return Worker
	}
}
