package discovery

import (
	"cmp"
	"slices"

	"github.com/spigell/jale-assistant/internal/matching"
	"github.com/spigell/jale-assistant/internal/outreach"
	"github.com/spigell/jale-assistant/internal/store"
)

// Candidate is a job being considered for a worker. Score and Outreach are filled by
// the minimum_score step.
type Candidate struct {
	Job       *store.Job
	Score     int
	Breakdown *matching.ScoreBreakdown
	Outreach  *outreach.Message
}

type Candidates struct {
	Items []*Candidate
}

func NewCandidates(jobs []*store.Job) *Candidates {
	items := make([]*Candidate, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, &Candidate{Job: job})
	}
	return &Candidates{Items: items}
}

func (c *Candidates) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// Exclude drops every candidate drop reports true for and returns the dropped job ids.
func (c *Candidates) Exclude(drop func(*Candidate) bool) []string {
	kept := c.Items[:0]
	var excluded []string
	for _, item := range c.Items {
		if drop(item) {
			excluded = append(excluded, item.Job.ID)
			continue
		}
		kept = append(kept, item)
	}
	c.Items = kept
	return excluded
}

// SortByScore orders candidates best first, keeping store order between equal scores.
func (c *Candidates) SortByScore() {
	slices.SortStableFunc(c.Items, func(a, b *Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
}
