// Package reminder notifies both parties shortly before a scheduled interview.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/store"
)

const (
	DefaultSchedule = "@every 5m"
	DefaultLeadTime = time.Hour
)

type Config struct {
	Schedule string        `mapstructure:"schedule"`
	LeadTime time.Duration `mapstructure:"lead-time"`
}

// Service finds confirmed interviews starting within the lead time and writes one
// reminder notification per party. Each interview is reminded once.
type Service struct {
	store    store.Store
	schedule string
	leadTime time.Duration
	now      func() time.Time
	logger   *zap.Logger

	cron *cron.Cron
}

func New(s store.Store, cfg Config, logger *zap.Logger) *Service {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.LeadTime <= 0 {
		cfg.LeadTime = DefaultLeadTime
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{store: s, schedule: cfg.Schedule, leadTime: cfg.LeadTime, now: time.Now, logger: logger}
}

// RunOnce sends the reminders that are due and returns how many interviews were
// reminded. A failing interview is logged and skipped.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	interviews, err := store.Find[store.Interview](ctx, s.store, store.Interviews, store.Record{
		"status":    store.InterviewScheduled,
		"confirmed": true,
		"reminded":  false,
	})
	if err != nil {
		return 0, fmt.Errorf("loading interviews: %w", err)
	}

	now := s.now()
	sent := 0
	var errs []error
	for _, iv := range interviews {
		if iv.ScheduledAt.Before(now) || iv.ScheduledAt.Sub(now) > s.leadTime {
			continue
		}

		if err := s.remind(ctx, iv, now); err != nil {
			s.logger.Warn("reminder failed", zap.String("interview_id", iv.ID), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		sent++
	}

	s.logger.Info("reminder run", zap.Int("candidates", len(interviews)), zap.Int("sent", sent))
	return sent, errors.Join(errs...)
}

func (s *Service) remind(ctx context.Context, iv *store.Interview, now time.Time) error {
	match, err := store.Load[store.Match](ctx, s.store, store.Matches, iv.MatchID)
	if err != nil {
		return fmt.Errorf("loading match: %w", err)
	}
	job, err := store.Load[store.Job](ctx, s.store, store.Jobs, match.JobID)
	if err != nil {
		return fmt.Errorf("loading job: %w", err)
	}

	for _, userID := range []string{match.WorkerID, job.EmployerID} {
		user, err := store.Load[store.User](ctx, s.store, store.Users, userID)
		if err != nil {
			return fmt.Errorf("loading user %s: %w", userID, err)
		}
		lang := locale.Parse(user.Language)

		n := &store.Notification{
			UserID: user.ID,
			Type:   store.NotificationReminder,
			Title:  job.Title,
			Message: locale.Render(lang, locale.TemplateReminder, locale.Slots{
				locale.SlotDate: locale.FormatDate(lang, iv.ScheduledAt),
				locale.SlotTime: locale.FormatClock(lang, iv.ScheduledAt),
			}),
			Timestamp: now,
		}
		if _, err := s.store.Create(ctx, store.Notifications, n.Record()); err != nil {
			return fmt.Errorf("notifying user %s: %w", user.ID, err)
		}
	}

	return s.store.Update(ctx, store.Interviews, iv.ID, store.Record{"reminded": true})
}

// Start runs RunOnce on the configured cron schedule until Stop is called.
func (s *Service) Start(ctx context.Context) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("reminder run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info("reminder scheduler started", zap.String("schedule", s.schedule), zap.Duration("lead_time", s.leadTime))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Service) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("reminder scheduler stopped")
}
