// Package assistant is the per-message entry point: it normalizes the message, hands
// it to an active scheduling dialogue or routes it to scheduling, a job answer, the
// knowledge base or the fallback.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jale-assistant/internal/ai"
	"github.com/spigell/jale-assistant/internal/dialogue"
	"github.com/spigell/jale-assistant/internal/intent"
	"github.com/spigell/jale-assistant/internal/knowledge"
	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/logger"
	"github.com/spigell/jale-assistant/internal/matching"
	"github.com/spigell/jale-assistant/internal/text"
	"github.com/spigell/jale-assistant/internal/threadlock"
)

// KindGreeting is reported for empty messages.
const KindGreeting intent.Kind = "greeting"

// Request is one inbound message. Audience is what the previous Reply of the thread
// returned, empty on first contact.
type Request struct {
	MatchID  string
	Message  string
	Language locale.Language
	// Job is the posting the thread is about, nil when there is none.
	Job      *matching.JobPosting
	Audience knowledge.Audience
}

// Reply is the answer to a Request together with the context the caller passes back
// on the next one.
type Reply struct {
	Text     string
	Kind     intent.Kind
	Audience knowledge.Audience
	Language locale.Language

	// Outcome and Booking are set when the scheduling dialogue handled the message.
	Outcome dialogue.Outcome
	Booking *dialogue.Confirmation
	// KnowledgeID names the knowledge entry that answered a general question.
	KnowledgeID string
	// Generated is set when the generative fallback wrote Text.
	Generated bool
}

type Assistant struct {
	knowledge *knowledge.Base
	dialogue  *dialogue.Dialogue
	locks     threadlock.Locker
	responder ai.Responder
	logger    *zap.Logger
}

type Option func(*Assistant)

// WithResponder enables the generative fallback for unanswered general questions.
func WithResponder(r ai.Responder) Option {
	return func(a *Assistant) {
		a.responder = r
	}
}

func New(kb *knowledge.Base, dlg *dialogue.Dialogue, locks threadlock.Locker, log *zap.Logger, opts ...Option) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	if locks == nil {
		locks = threadlock.NewLocal(0)
	}

	a := &Assistant{knowledge: kb, dialogue: dlg, locks: locks, logger: log}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Reply answers one message. Messages of the same thread are processed one at a time;
// a message arriving while a booking of its thread is in flight waits for it.
func (a *Assistant) Reply(ctx context.Context, req Request) (*Reply, error) {
	lang := req.Language
	if !lang.Supported() {
		lang = locale.Default
	}

	message := text.Normalize(req.Message)
	if message == "" {
		audience := req.Audience
		if !audience.Valid() {
			audience = knowledge.Worker
		}
		return &Reply{
			Text:     locale.Render(lang, locale.TemplateGreeting, nil),
			Kind:     KindGreeting,
			Audience: audience,
			Language: lang,
		}, nil
	}

	audience := knowledge.DetectAudience(message, req.Audience)

	if req.MatchID != "" {
		release, err := a.locks.Lock(ctx, req.MatchID)
		if err != nil {
			return nil, fmt.Errorf("waiting for thread %s: %w", req.MatchID, err)
		}
		defer release()

		state, err := a.dialogue.Active(ctx, req.MatchID)
		if err != nil {
			return nil, fmt.Errorf("loading dialogue: %w", err)
		}
		if state != nil {
			return a.continueDialogue(ctx, state, req.MatchID, message, audience)
		}
	}

	kind := intent.Route(message, false, req.Job != nil)
	if kind == intent.KindScheduleStart && req.MatchID == "" {
		// Nothing to book against without a thread.
		kind = intent.KindGeneralQuestion
		if req.Job != nil {
			kind = intent.KindJobQuestion
		}
	}

	log := logger.WithFields(a.logger, logger.ThreadFields(req.MatchID, string(lang), string(audience), string(kind))...)
	log.Debug("message routed", zap.String("message", logger.TruncateForLog(message, logger.PreviewLength)))

	reply := &Reply{Kind: kind, Audience: audience, Language: lang}

	switch kind {
	case intent.KindScheduleStart:
		res, err := a.dialogue.Start(ctx, req.MatchID, req.Job, lang)
		if err != nil {
			return nil, err
		}
		reply.Text = res.Text
		reply.Outcome = res.Outcome

	case intent.KindJobQuestion:
		reply.Text = intent.AnswerJob(message, *req.Job, lang)

	default:
		a.answerGeneral(ctx, log, message, reply)
	}

	return reply, nil
}

func (a *Assistant) continueDialogue(ctx context.Context, state *dialogue.State, matchID, message string, audience knowledge.Audience) (*Reply, error) {
	res, err := a.dialogue.Handle(ctx, state, matchID, message)
	if err != nil {
		return nil, err
	}

	log := logger.WithFields(a.logger, logger.ThreadFields(matchID, string(state.Language), string(audience), string(intent.KindDialogue))...)
	if res.Err != nil {
		log.Warn("scheduling attempt failed", zap.Error(res.Err))
	} else {
		log.Debug("dialogue advanced", zap.String("outcome", string(res.Outcome)))
	}

	return &Reply{
		Text:     res.Text,
		Kind:     intent.KindDialogue,
		Audience: audience,
		Language: state.Language,
		Outcome:  res.Outcome,
		Booking:  res.Booking,
	}, nil
}

func (a *Assistant) answerGeneral(ctx context.Context, log *zap.Logger, message string, reply *Reply) {
	if a.knowledge != nil {
		if answer, ok := a.knowledge.Retrieve(message, reply.Audience); ok {
			log.Debug("knowledge answer", zap.String("entry", answer.EntryID), zap.Float64("confidence", answer.Confidence))
			reply.Text = answer.Text
			reply.KnowledgeID = answer.EntryID
			return
		}
	}

	if a.responder != nil {
		generated, err := a.responder.Respond(ctx, ai.Question{
			Message:  message,
			Language: string(reply.Language),
			Audience: string(reply.Audience),
		})
		switch {
		case err == nil && strings.TrimSpace(generated) != "":
			reply.Text = generated
			reply.Generated = true
			return
		case errors.Is(err, context.Canceled):
		case err != nil:
			log.Warn("generative fallback failed", zap.Error(err))
		}
	}

	reply.Text = locale.Render(reply.Language, locale.TemplateFallback, nil)
}
