// Package discovery finds jobs worth offering to a worker. Open jobs pass through a
// list of filter steps; the survivors carry a match score and a composed outreach
// message.
package discovery

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/store"
)

// Filter is a single step applied to the candidates.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, c *Candidates) (*Candidates, Step, error)
}

// Deps aggregates what the steps share.
type Deps struct {
	Store    store.Store
	Worker   *store.User
	Language locale.Language
	Logger   *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

type Config struct {
	// JobStatus selects which jobs are considered, "open" when empty.
	JobStatus        string   `mapstructure:"job-status"`
	ExcludeEmployers []string `mapstructure:"exclude-employers"`
	MinimumScore     int      `mapstructure:"minimum-score"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// DefaultSteps returns the discovery steps in the order they run.
func DefaultSteps() []Filter {
	return []Filter{
		NewAlreadyMatched(),
		NewExcludedEmployers(),
		NewMinimumScore(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the enabled filters in order.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, c *Candidates) (*Candidates, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, deps, c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		c = next
	}

	return c, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{Name: step.Name(), Enabled: step.IsEnabled()})
	}
	return statuses
}

// Discover loads the worker and the jobs with the configured status, runs steps and
// returns the survivors best first.
func Discover(ctx context.Context, cfg *Config, s store.Store, workerID string, lang locale.Language, steps []Filter, logger *zap.Logger) (*Candidates, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	worker, err := store.Load[store.User](ctx, s, store.Users, workerID)
	if err != nil {
		return nil, fmt.Errorf("loading worker: %w", err)
	}
	if worker.UserType != store.UserTypeWorker {
		return nil, fmt.Errorf("user %s is a %s, not a worker", workerID, worker.UserType)
	}

	status := cfg.JobStatus
	if status == "" {
		status = store.JobOpen
	}
	jobs, err := store.Find[store.Job](ctx, s, store.Jobs, store.Record{"status": status})
	if err != nil {
		return nil, fmt.Errorf("loading jobs: %w", err)
	}

	deps := Deps{Store: s, Worker: worker, Language: lang, Logger: logger}
	candidates, err := Run(ctx, cfg, deps, steps, NewCandidates(jobs))
	if err != nil {
		return nil, err
	}

	candidates.SortByScore()
	return candidates, nil
}

// Accept creates the match between worker and the candidate's job and posts the
// outreach message into it. It returns the new match id.
func Accept(ctx context.Context, s store.Store, worker *store.User, c *Candidate, now time.Time) (string, error) {
	if c.Outreach == nil {
		return "", fmt.Errorf("job %s has no outreach message", c.Job.ID)
	}

	match := &store.Match{
		JobID:        c.Job.ID,
		WorkerID:     worker.ID,
		Status:       store.MatchPending,
		MatchScore:   c.Score,
		LastActivity: now,
		CreatedAt:    now,
	}
	matchID, err := s.Create(ctx, store.Matches, match.Record())
	if err != nil {
		return "", fmt.Errorf("creating match: %w", err)
	}

	msg := &store.Message{
		MatchID:     matchID,
		SenderID:    store.SystemSender,
		Message:     c.Outreach.Text,
		MessageType: store.MessageTypeOutreach,
		Timestamp:   now,
	}
	if _, err := s.Create(ctx, store.Messages, msg.Record()); err != nil {
		return "", fmt.Errorf("posting outreach: %w", err)
	}

	return matchID, nil
}
