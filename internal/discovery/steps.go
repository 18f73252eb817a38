package discovery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jale-assistant/internal/matching"
	"github.com/spigell/jale-assistant/internal/outreach"
	"github.com/spigell/jale-assistant/internal/store"
)

type alreadyMatchedFilter struct {
	disabled bool
	reason   string
}

// NewAlreadyMatched creates a filter that removes jobs the worker already has a match for.
func NewAlreadyMatched() Filter {
	return &alreadyMatchedFilter{}
}

func (f *alreadyMatchedFilter) Name() string { return "already_matched" }

func (f *alreadyMatchedFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *alreadyMatchedFilter) IsEnabled() bool { return !f.disabled }

func (f *alreadyMatchedFilter) Validate(*Config) error { return nil }

func (f *alreadyMatchedFilter) Apply(ctx context.Context, deps Deps, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	if deps.Store == nil || deps.Worker == nil {
		return c, Step{}, errors.New("store and worker are required")
	}

	matches, err := store.Find[store.Match](ctx, deps.Store, store.Matches, store.Record{"workerId": deps.Worker.ID})
	if err != nil {
		return c, Step{}, fmt.Errorf("loading matches: %w", err)
	}

	matched := make(map[string]bool, len(matches))
	for _, m := range matches {
		matched[m.JobID] = true
	}

	excluded := c.Exclude(func(item *Candidate) bool { return matched[item.Job.ID] })
	if len(excluded) > 0 {
		deps.Logger.Info("excluding jobs the worker is already matched with",
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *alreadyMatchedFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

type employersFilter struct {
	employers []string
}

// NewExcludedEmployers creates a filter that removes jobs of the configured employers.
func NewExcludedEmployers() Filter {
	return &employersFilter{}
}

func (f *employersFilter) Name() string { return "excluded_employers" }

func (f *employersFilter) Disable(string) {}

func (f *employersFilter) IsEnabled() bool { return true }

func (f *employersFilter) Validate(cfg *Config) error {
	f.employers = nil
	if cfg != nil {
		for _, e := range cfg.ExcludeEmployers {
			if e = strings.TrimSpace(e); e != "" {
				f.employers = append(f.employers, e)
			}
		}
	}
	return nil
}

func (f *employersFilter) Apply(_ context.Context, deps Deps, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	if len(f.employers) == 0 {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	excluded := c.Exclude(func(item *Candidate) bool {
		return slices.Contains(f.employers, item.Job.EmployerID)
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding jobs by employers",
			zap.Strings("excluded_employers", f.employers),
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *employersFilter) Status() Status {
	details := map[string]string{}
	if len(f.employers) > 0 {
		details["employers"] = strings.Join(f.employers, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type minimumScoreFilter struct {
	minimum int
}

// NewMinimumScore creates the step that scores every job, composes its outreach and
// drops jobs below the configured score. Jobs that cannot be scored are dropped too.
func NewMinimumScore() Filter {
	return &minimumScoreFilter{}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Disable(string) {}

func (f *minimumScoreFilter) IsEnabled() bool { return true }

func (f *minimumScoreFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		f.minimum = cfg.MinimumScore
	}
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum score %d is outside 0-100", f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, deps Deps, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	if deps.Worker == nil {
		return c, Step{}, errors.New("worker is required")
	}
	profile := deps.Worker.Profile()

	excluded := c.Exclude(func(item *Candidate) bool {
		msg, err := outreach.Compose(profile, item.Job.Posting(), deps.Language)
		if errors.Is(err, matching.ErrInvalidInput) {
			deps.Logger.Debug("job cannot be scored", zap.String("job_id", item.Job.ID))
			return true
		}
		if err != nil {
			deps.Logger.Warn("scoring job failed", zap.String("job_id", item.Job.ID), zap.Error(err))
			return true
		}

		item.Score = msg.Score
		item.Breakdown = msg.Breakdown
		item.Outreach = msg
		return msg.Score < f.minimum
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding jobs below the minimum score",
			zap.Int("minimum_score", f.minimum),
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{
		"minimum_score": strconv.Itoa(f.minimum),
	}}
}
