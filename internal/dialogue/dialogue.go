// Package dialogue runs the multi-turn exchange that turns a free-text time into a
// booked interview.
//
// A thread is Idle until Start stores a State awaiting a time. While awaiting, each
// message is either a cancellation, a request for suggested times, or an attempt at a
// time. A parsed time is handed to a Booker; on success the state is discarded, on
// failure it is kept so the user can simply try again.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/logger"
	"github.com/spigell/jale-assistant/internal/matching"
	"github.com/spigell/jale-assistant/internal/text"
	"github.com/spigell/jale-assistant/internal/timeparse"
)

var (
	// ErrThreadMismatch is returned when a state is handed a message of another thread.
	ErrThreadMismatch = errors.New("dialogue state belongs to another thread")
	// ErrNotActive is returned by Handle when the state is not awaiting a time.
	ErrNotActive = errors.New("dialogue is not awaiting a time")
	// ErrPersistence wraps booking failures. The dialogue stays active after one.
	ErrPersistence = errors.New("booking could not be persisted")
)

// Outcome is what a handled message did to the dialogue.
type Outcome string

const (
	OutcomeStarted   Outcome = "started"
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeSuggested Outcome = "suggested"
	OutcomeReprompt  Outcome = "reprompt"
	OutcomeRetry     Outcome = "retry"
)

// Booking is the request handed to a Booker.
type Booking struct {
	MatchID  string
	At       time.Time
	Language locale.Language
}

// Confirmation describes a stored interview.
type Confirmation struct {
	InterviewID string
	MatchID     string
	RoomToken   string
	At          time.Time
	Duration    int
	// Reused is set when an identical interview already existed.
	Reused bool
}

// Booker persists an interview and its side effects.
type Booker interface {
	Book(ctx context.Context, booking Booking) (*Confirmation, error)
}

// Result is the reply to one message.
type Result struct {
	Text    string
	Outcome Outcome
	// State is the thread's state after the message, nil once the thread is Idle.
	State *State
	// Booking is set on OutcomeConfirmed.
	Booking *Confirmation
	// Err carries the ErrPersistence failure behind OutcomeRetry.
	Err error
}

type Dialogue struct {
	states StateStore
	booker Booker
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*Dialogue)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Dialogue) {
		d.now = now
	}
}

func New(states StateStore, booker Booker, log *zap.Logger, opts ...Option) *Dialogue {
	if log == nil {
		log = zap.NewNop()
	}

	d := &Dialogue{states: states, booker: booker, now: time.Now, logger: log}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Active returns the stored state of a thread, or nil when the thread is Idle.
func (d *Dialogue) Active(ctx context.Context, matchID string) (*State, error) {
	state, ok, err := d.states.Load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !ok || !state.Active() {
		return nil, nil
	}
	return state, nil
}

// Start opens a dialogue for matchID, replacing any previous one, and asks for a time.
func (d *Dialogue) Start(ctx context.Context, matchID string, job *matching.JobPosting, lang locale.Language) (*Result, error) {
	if matchID == "" {
		return nil, errors.New("match id is required to schedule")
	}

	state := &State{
		MatchID:   matchID,
		Job:       job,
		Step:      StepAwaitingTime,
		Language:  lang,
		UpdatedAt: d.now(),
	}
	if err := d.states.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("starting dialogue: %w", err)
	}

	d.logger.Debug("dialogue started", logger.ThreadFields(matchID, string(lang), "", "")...)

	return &Result{
		Text:    locale.Render(lang, locale.TemplateInterviewPrompt, nil),
		Outcome: OutcomeStarted,
		State:   state,
	}, nil
}

// Handle advances an active dialogue with a normalized message of the same thread.
func (d *Dialogue) Handle(ctx context.Context, state *State, matchID, message string) (*Result, error) {
	if state == nil || !state.Active() {
		return nil, ErrNotActive
	}
	if state.MatchID != matchID {
		return nil, fmt.Errorf("%w: state %q, message %q", ErrThreadMismatch, state.MatchID, matchID)
	}

	lang := state.Language
	log := logger.WithFields(d.logger, logger.ThreadFields(matchID, string(lang), "", "")...)
	folded := text.Fold(message)
	now := d.now()
	expr, parsed := timeparse.Extract(message, now)

	switch {
	case locale.HasFolded(folded, locale.CueCancel):
		if err := d.states.Delete(ctx, matchID); err != nil {
			return nil, fmt.Errorf("cancelling dialogue: %w", err)
		}
		log.Info("scheduling cancelled")
		return &Result{
			Text:    locale.Render(lang, locale.TemplateSchedulingCanceled, nil),
			Outcome: OutcomeCancelled,
		}, nil

	// "available tomorrow at 2pm" names a time; only a vague request gets suggestions.
	case locale.HasFolded(folded, locale.CueSuggest) && !(parsed && expr.ExactClock):
		return &Result{
			Text:    renderSuggestions(lang, now),
			Outcome: OutcomeSuggested,
			State:   state,
		}, nil
	}

	if !parsed {
		log.Debug("no time in message", zap.String("message", logger.TruncateForLog(message, logger.PreviewLength)))
		return &Result{
			Text:    locale.Render(lang, locale.TemplateSchedulingReprompt, nil),
			Outcome: OutcomeReprompt,
			State:   state,
		}, nil
	}

	at := expr.At(now)
	confirmation, err := d.booker.Book(ctx, Booking{MatchID: matchID, At: at, Language: lang})
	if err != nil {
		log.Warn("booking failed, dialogue kept", zap.Time("at", at), zap.Error(err))
		return &Result{
			Text:    locale.Render(lang, locale.TemplateSchedulingFailed, nil),
			Outcome: OutcomeRetry,
			State:   state,
			Err:     fmt.Errorf("%w: %w", ErrPersistence, err),
		}, nil
	}

	if err := d.states.Delete(ctx, matchID); err != nil {
		// The booking exists; a stale state only means the next time message reuses it.
		log.Warn("clearing dialogue after booking", zap.Error(err))
	}

	log.Info("interview booked",
		zap.String("interview_id", confirmation.InterviewID),
		zap.Time("at", confirmation.At),
		zap.Bool("reused", confirmation.Reused),
	)

	return &Result{
		Text: locale.Render(lang, locale.TemplateInterviewConfirmed, locale.Slots{
			locale.SlotDateTime: locale.FormatDateTime(lang, at),
		}),
		Outcome: OutcomeConfirmed,
		Booking: confirmation,
	}, nil
}
