package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/store"
)

const (
	DefaultDuration  = 30
	interviewType    = "video"
	bookingNote      = "Interview scheduled by the assistant"
	supersededReason = "superseded by a later booking"
)

var (
	ErrNotScheduled   = errors.New("interview is not scheduled")
	ErrNotParticipant = errors.New("user is not a party of the interview")
	ErrNoReason       = errors.New("a cancellation reason is required")
)

// NewRoomToken returns a video room name that is unique per call.
func NewRoomToken(matchID string) string {
	return fmt.Sprintf("jale-interview-%s-%s", matchID, uuid.NewString())
}

// StoreBooker writes an interview and everything that goes with it to the record
// store: the interview, the match status, a system message and one notification per
// party.
type StoreBooker struct {
	store    store.Store
	duration int
	now      func() time.Time
	token    func(matchID string) string
	logger   *zap.Logger
}

type BookerOption func(*StoreBooker)

func WithBookingClock(now func() time.Time) BookerOption {
	return func(b *StoreBooker) {
		b.now = now
	}
}

func WithRoomTokens(token func(matchID string) string) BookerOption {
	return func(b *StoreBooker) {
		b.token = token
	}
}

func NewStoreBooker(s store.Store, duration int, log *zap.Logger, opts ...BookerOption) *StoreBooker {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if log == nil {
		log = zap.NewNop()
	}

	b := &StoreBooker{store: s, duration: duration, now: time.Now, token: NewRoomToken, logger: log}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Book stores the interview and its side effects. Every side effect is keyed by the
// interview id, so a retry after a partial failure at the same instant picks up the
// unconfirmed interview and writes only what is missing. A retry at another instant
// cancels the unconfirmed interviews of the match before creating a new one.
func (b *StoreBooker) Book(ctx context.Context, booking Booking) (*Confirmation, error) {
	p, err := b.loadParties(ctx, booking.MatchID)
	if err != nil {
		return nil, err
	}

	now := b.now()
	iv, reused, err := b.interview(ctx, booking, now)
	if err != nil {
		return nil, err
	}

	confirmation := &Confirmation{
		InterviewID: iv.ID,
		MatchID:     iv.MatchID,
		RoomToken:   iv.RoomToken,
		At:          iv.ScheduledAt,
		Duration:    iv.Duration,
		Reused:      reused,
	}
	if iv.Confirmed {
		return confirmation, nil
	}

	if err := b.store.Update(ctx, store.Matches, p.match.ID, store.Record{
		"status":       store.MatchInterviewScheduled,
		"lastActivity": now,
	}); err != nil {
		return nil, fmt.Errorf("updating match: %w", err)
	}

	lang := booking.Language
	if err := b.ensureMessage(ctx, &store.Message{
		MatchID:     p.match.ID,
		InterviewID: iv.ID,
		SenderID:    store.SystemSender,
		Message: locale.Render(lang, locale.TemplateBookingMessage, locale.Slots{
			locale.SlotDate:     locale.FormatDate(lang, iv.ScheduledAt),
			locale.SlotTime:     locale.FormatClock(lang, iv.ScheduledAt),
			locale.SlotDuration: strconv.Itoa(iv.Duration),
		}),
		MessageType: store.MessageTypeInterview,
		Timestamp:   now,
	}); err != nil {
		return nil, fmt.Errorf("writing booking message: %w", err)
	}

	when := locale.FormatDateTime(lang, iv.ScheduledAt)
	title := locale.Render(lang, locale.TemplateNotificationTitle, nil)
	notifications := []*store.Notification{
		{
			UserID:      p.worker.ID,
			InterviewID: iv.ID,
			Type:        store.NotificationInterview,
			Title:       title,
			Message: locale.Render(lang, locale.TemplateNotificationWorker, locale.Slots{
				locale.SlotTitle:    p.job.Title,
				locale.SlotDateTime: when,
			}),
			Timestamp: now,
		},
		{
			UserID:      p.employer.ID,
			InterviewID: iv.ID,
			Type:        store.NotificationInterview,
			Title:       title,
			Message: locale.Render(lang, locale.TemplateNotificationEmployer, locale.Slots{
				locale.SlotName:     p.worker.Name,
				locale.SlotTitle:    p.job.Title,
				locale.SlotDateTime: when,
			}),
			Timestamp: now,
		},
	}
	for _, n := range notifications {
		if err := b.ensureNotification(ctx, n); err != nil {
			return nil, fmt.Errorf("notifying user %s: %w", n.UserID, err)
		}
	}

	if err := b.store.Update(ctx, store.Interviews, iv.ID, store.Record{"confirmed": true}); err != nil {
		return nil, fmt.Errorf("confirming interview: %w", err)
	}

	return confirmation, nil
}

// parties are the records a booking touches besides the interview itself.
type parties struct {
	match    *store.Match
	job      *store.Job
	employer *store.User
	worker   *store.User
}

func (b *StoreBooker) loadParties(ctx context.Context, matchID string) (*parties, error) {
	match, err := store.Load[store.Match](ctx, b.store, store.Matches, matchID)
	if err != nil {
		return nil, fmt.Errorf("loading match: %w", err)
	}
	job, err := store.Load[store.Job](ctx, b.store, store.Jobs, match.JobID)
	if err != nil {
		return nil, fmt.Errorf("loading job: %w", err)
	}
	employer, err := store.Load[store.User](ctx, b.store, store.Users, job.EmployerID)
	if err != nil {
		return nil, fmt.Errorf("loading employer: %w", err)
	}
	worker, err := store.Load[store.User](ctx, b.store, store.Users, match.WorkerID)
	if err != nil {
		return nil, fmt.Errorf("loading worker: %w", err)
	}
	return &parties{match: match, job: job, employer: employer, worker: worker}, nil
}

// interview returns the scheduled interview of the match at the booked instant,
// creating it when there is none. The bool reports whether it already existed.
func (b *StoreBooker) interview(ctx context.Context, booking Booking, now time.Time) (*store.Interview, bool, error) {
	existing, err := store.Find[store.Interview](ctx, b.store, store.Interviews, store.Record{
		"matchId": booking.MatchID,
		"status":  store.InterviewScheduled,
	})
	if err != nil {
		return nil, false, fmt.Errorf("looking up interviews: %w", err)
	}

	for _, iv := range existing {
		if iv.ScheduledAt.Equal(booking.At) {
			b.logger.Debug("reusing scheduled interview", zap.String("interview_id", iv.ID), zap.Bool("confirmed", iv.Confirmed))
			return iv, true, nil
		}
	}

	for _, iv := range existing {
		if iv.Confirmed {
			continue
		}
		if err := b.store.Update(ctx, store.Interviews, iv.ID, store.Record{
			"status":             store.InterviewCancelled,
			"cancelledBy":        store.SystemSender,
			"cancellationReason": supersededReason,
			"cancelledAt":        now,
		}); err != nil {
			return nil, false, fmt.Errorf("cancelling unconfirmed interview %s: %w", iv.ID, err)
		}
		b.logger.Info("unconfirmed interview superseded", zap.String("interview_id", iv.ID), zap.Time("at", iv.ScheduledAt))
	}

	iv := &store.Interview{
		MatchID:       booking.MatchID,
		ScheduledAt:   booking.At,
		Duration:      b.duration,
		InterviewType: interviewType,
		RoomToken:     b.token(booking.MatchID),
		Status:        store.InterviewScheduled,
		Notes:         bookingNote,
		CreatedAt:     now,
	}
	id, err := b.store.Create(ctx, store.Interviews, iv.Record())
	if err != nil {
		return nil, false, fmt.Errorf("creating interview: %w", err)
	}
	iv.ID = id

	return iv, false, nil
}

func (b *StoreBooker) ensureMessage(ctx context.Context, msg *store.Message) error {
	found, err := b.store.Query(ctx, store.Messages, store.Record{
		"interviewId": msg.InterviewID,
		"messageType": msg.MessageType,
	})
	if err != nil {
		return err
	}
	if len(found) > 0 {
		return nil
	}
	_, err = b.store.Create(ctx, store.Messages, msg.Record())
	return err
}

func (b *StoreBooker) ensureNotification(ctx context.Context, n *store.Notification) error {
	found, err := b.store.Query(ctx, store.Notifications, store.Record{
		"interviewId": n.InterviewID,
		"userId":      n.UserID,
		"type":        n.Type,
	})
	if err != nil {
		return err
	}
	if len(found) > 0 {
		return nil
	}
	_, err = b.store.Create(ctx, store.Notifications, n.Record())
	return err
}

// Cancel marks a scheduled interview cancelled on behalf of userID, who must be the
// worker or the employer of its match. The other party is notified in their language
// and a system message with the reason goes into the thread. The status is written
// last, so after a failure the interview is still scheduled and a retry writes only
// the missing records.
func (b *StoreBooker) Cancel(ctx context.Context, interviewID, userID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrNoReason
	}

	iv, err := b.scheduled(ctx, interviewID)
	if err != nil {
		return err
	}
	p, err := b.loadParties(ctx, iv.MatchID)
	if err != nil {
		return err
	}

	var by, other *store.User
	switch userID {
	case p.worker.ID:
		by, other = p.worker, p.employer
	case p.employer.ID:
		by, other = p.employer, p.worker
	default:
		return fmt.Errorf("%w: user %s, match %s", ErrNotParticipant, userID, iv.MatchID)
	}

	now := b.now()
	otherLang := locale.Parse(other.Language)
	notification := &store.Notification{
		UserID:      other.ID,
		InterviewID: iv.ID,
		Type:        store.NotificationInterviewCancelled,
		Title:       locale.Render(otherLang, locale.TemplateCancelTitle, nil),
		Message: locale.Render(otherLang, locale.TemplateCancelNotification, locale.Slots{
			locale.SlotName:     by.Name,
			locale.SlotDateTime: locale.FormatDateTime(otherLang, iv.ScheduledAt),
		}),
		Timestamp: now,
	}
	if err := b.ensureNotification(ctx, notification); err != nil {
		return fmt.Errorf("notifying user %s: %w", other.ID, err)
	}

	byLang := locale.Parse(by.Language)
	if err := b.ensureMessage(ctx, &store.Message{
		MatchID:     iv.MatchID,
		InterviewID: iv.ID,
		SenderID:    store.SystemSender,
		Message: locale.Render(byLang, locale.TemplateCancelMessage, locale.Slots{
			locale.SlotName:   by.Name,
			locale.SlotReason: reason,
		}),
		MessageType: store.MessageTypeInterviewCancelled,
		Timestamp:   now,
	}); err != nil {
		return fmt.Errorf("writing cancellation message: %w", err)
	}

	if err := b.store.Update(ctx, store.Interviews, iv.ID, store.Record{
		"status":             store.InterviewCancelled,
		"cancelledBy":        by.ID,
		"cancellationReason": reason,
		"cancelledAt":        now,
	}); err != nil {
		return fmt.Errorf("cancelling interview: %w", err)
	}

	b.logger.Info("interview cancelled", zap.String("interview_id", iv.ID), zap.String("cancelled_by", by.ID))
	return nil
}

// Complete marks a scheduled interview completed and its match interviewed. The
// match goes first; a failed call leaves the interview scheduled for a retry.
func (b *StoreBooker) Complete(ctx context.Context, interviewID string) error {
	iv, err := b.scheduled(ctx, interviewID)
	if err != nil {
		return err
	}

	now := b.now()
	if err := b.store.Update(ctx, store.Matches, iv.MatchID, store.Record{
		"status":       store.MatchInterviewed,
		"lastActivity": now,
	}); err != nil {
		return fmt.Errorf("updating match: %w", err)
	}
	if err := b.store.Update(ctx, store.Interviews, iv.ID, store.Record{
		"status":      store.InterviewCompleted,
		"completedAt": now,
	}); err != nil {
		return fmt.Errorf("completing interview: %w", err)
	}

	b.logger.Info("interview completed", zap.String("interview_id", iv.ID))
	return nil
}

func (b *StoreBooker) scheduled(ctx context.Context, interviewID string) (*store.Interview, error) {
	iv, err := store.Load[store.Interview](ctx, b.store, store.Interviews, interviewID)
	if err != nil {
		return nil, fmt.Errorf("loading interview: %w", err)
	}
	if iv.Status != store.InterviewScheduled {
		return nil, fmt.Errorf("%w: interview %s is %s", ErrNotScheduled, iv.ID, iv.Status)
	}
	return iv, nil
}
