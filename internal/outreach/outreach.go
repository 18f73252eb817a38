// Package outreach writes the first message a worker receives about a matching job.
package outreach

import (
	"strconv"
	"strings"

	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/matching"
)

// Message is a composed outreach text together with the score it quotes.
type Message struct {
	Text      string
	Score     int
	Breakdown *matching.ScoreBreakdown
}

// Compose scores profile against job and fills the outreach templates for lang:
// greeting, job details, score and a call to action.
func Compose(profile matching.Profile, job matching.JobPosting, lang locale.Language) (*Message, error) {
	breakdown, err := matching.Score(profile, job)
	if err != nil {
		return nil, err
	}
	score := breakdown.Score()

	parts := []string{
		locale.Render(lang, locale.TemplateOutreachGreeting, locale.Slots{
			locale.SlotName: orDefault(profile.Name, "there"),
		}),
		locale.Render(lang, locale.TemplateOutreachDetails, locale.Slots{
			locale.SlotLocation:     orDefault(job.Location, "TBD"),
			locale.SlotPay:          orDefault(job.Pay, "Competitive"),
			locale.SlotAvailability: orDefault(job.Availability, "Flexible"),
			locale.SlotSkills:       strings.Join(job.SkillsNeeded, ", "),
		}),
		locale.Render(lang, locale.TemplateOutreachScore, locale.Slots{
			locale.SlotScore: strconv.Itoa(score),
		}),
		locale.Render(lang, locale.TemplateOutreachQuestion, nil),
	}

	return &Message{Text: strings.Join(parts, "\n\n"), Score: score, Breakdown: breakdown}, nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
