// Package intent decides what kind of message the assistant received.
package intent

import (
	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/text"
)

// Kind is the routing decision for a message.
type Kind string

const (
	// KindDialogue means a scheduling dialogue is already active and owns the message.
	KindDialogue        Kind = "dialogue"
	KindScheduleStart   Kind = "schedule_start"
	KindJobQuestion     Kind = "job_question"
	KindGeneralQuestion Kind = "general_question"
)

// Route classifies a normalized message. An active dialogue bypasses routing;
// otherwise scheduling cues win, then job questions when job context is available.
func Route(message string, active, hasJob bool) Kind {
	if active {
		return KindDialogue
	}

	folded := text.Fold(message)
	switch {
	case locale.HasFolded(folded, locale.CueSchedule):
		return KindScheduleStart
	case hasJob:
		return KindJobQuestion
	default:
		return KindGeneralQuestion
	}
}
