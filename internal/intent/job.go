package intent

import (
	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/matching"
	"github.com/spigell/jale-assistant/internal/text"
)

// jobAnswers is checked in order; the first cue present picks the template.
var jobAnswers = []struct {
	cue      locale.Cue
	template locale.Template
}{
	{locale.CuePay, locale.TemplateJobPay},
	{locale.CueLocation, locale.TemplateJobLocation},
	{locale.CueHours, locale.TemplateJobHours},
	{locale.CueBenefits, locale.TemplateJobBenefits},
	{locale.CueSchedule, locale.TemplateInterviewPrompt},
}

// AnswerJob answers a question about job by keyword dispatch over pay, location,
// hours and benefits, substituting the job's attributes into the template for lang.
func AnswerJob(message string, job matching.JobPosting, lang locale.Language) string {
	folded := text.Fold(message)

	for _, a := range jobAnswers {
		if !locale.HasFolded(folded, a.cue) {
			continue
		}

		slots := locale.Slots{
			locale.SlotPay:          orDefault(job.Pay, "Competitive"),
			locale.SlotLocation:     orDefault(job.Location, "TBD"),
			locale.SlotAvailability: orDefault(job.Availability, "Flexible"),
		}
		if a.template == locale.TemplateJobPay {
			slots[locale.SlotLocation] = orDefault(job.Location, "your area")
		}

		return locale.Render(lang, a.template, slots)
	}

	return locale.Render(lang, locale.TemplateFallback, nil)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
