// Package matching scores how well a worker profile fits a job posting.
package matching

import (
	"errors"
	"math"
	"strings"

	"github.com/spigell/jale-assistant/internal/text"
)

// ErrInvalidInput is returned when neither side offers any attribute that can be
// compared.
var ErrInvalidInput = errors.New("invalid input: no comparable attributes")

// Factor weights. A factor only counts towards the total when both sides provide it.
const (
	SkillsWeight       = 50.0
	LocationWeight     = 25.0
	PayWeight          = 15.0
	AvailabilityWeight = 10.0

	// skillMatchThreshold is the similarity a required skill must exceed against
	// some offered skill to count as covered.
	skillMatchThreshold = 0.7
)

// Profile is the part of a worker that scoring looks at.
type Profile struct {
	Name          string
	SkillsOffered []string
	Location      string
	Pay           string
	Availability  string
}

// JobPosting is the part of a job that scoring looks at.
type JobPosting struct {
	Title        string
	Description  string
	SkillsNeeded []string
	Location     string
	Pay          string
	Availability string
}

// ScoreBreakdown keeps every component so callers can explain a score.
type ScoreBreakdown struct {
	Skills       float64
	Location     float64
	Pay          float64
	Availability float64
	// Weight is the sum of the weights of the factors that were evaluated.
	Weight float64
}

// Sum returns the total of the components.
func (b *ScoreBreakdown) Sum() float64 {
	return b.Skills + b.Location + b.Pay + b.Availability
}

// Score returns the final 0-100 score.
func (b *ScoreBreakdown) Score() int {
	if b.Weight <= 0 {
		return 0
	}
	return int(math.Round(b.Sum() / b.Weight * 100))
}

// Score compares profile with job. It fails with ErrInvalidInput when no factor can be
// evaluated.
func Score(profile Profile, job JobPosting) (*ScoreBreakdown, error) {
	b := &ScoreBreakdown{}

	offered := cleanSkills(profile.SkillsOffered)
	needed := cleanSkills(job.SkillsNeeded)
	if len(offered) > 0 && len(needed) > 0 {
		b.Skills = skillsComponent(offered, needed)
		b.Weight += SkillsWeight
	}

	if present(profile.Location, job.Location) {
		b.Location = text.Similarity(profile.Location, job.Location) * LocationWeight
		b.Weight += LocationWeight
	}

	if present(profile.Pay, job.Pay) {
		b.Pay = payComponent(profile.Pay, job.Pay)
		b.Weight += PayWeight
	}

	if present(profile.Availability, job.Availability) {
		b.Availability = text.Similarity(profile.Availability, job.Availability) * AvailabilityWeight
		b.Weight += AvailabilityWeight
	}

	if b.Weight == 0 {
		return nil, ErrInvalidInput
	}

	return b, nil
}

func skillsComponent(offered, needed []string) float64 {
	matched := 0
	for _, want := range needed {
		best := 0.0
		for _, have := range offered {
			best = max(best, text.Similarity(want, have))
		}
		if best > skillMatchThreshold {
			matched++
		}
	}

	return float64(matched) / float64(len(needed)) * SkillsWeight
}

// payComponent rewards a job paying at least the worker's rate. When either rate is
// missing it awards two thirds of the weight, so absent data is not a mismatch.
func payComponent(profilePay, jobPay string) float64 {
	want, okWant := ExtractRate(profilePay)
	offer, okOffer := ExtractRate(jobPay)
	if !okWant || !okOffer {
		return PayWeight * 2 / 3
	}

	return math.Min(float64(offer)/float64(want), 1) * PayWeight
}

func present(a, b string) bool {
	return strings.TrimSpace(a) != "" && strings.TrimSpace(b) != ""
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
