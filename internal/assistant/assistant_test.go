package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/jale-assistant/internal/ai"
	"github.com/spigell/jale-assistant/internal/dialogue"
	"github.com/spigell/jale-assistant/internal/intent"
	"github.com/spigell/jale-assistant/internal/knowledge"
	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/matching"
	"github.com/spigell/jale-assistant/internal/store"
	"github.com/spigell/jale-assistant/internal/threadlock"
)

var monday = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

type countingBooker struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
	err     error
}

func (b *countingBooker) Book(_ context.Context, booking dialogue.Booking) (*dialogue.Confirmation, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()

	if b.entered != nil {
		b.entered <- struct{}{}
		<-b.release
	}
	if b.err != nil {
		return nil, b.err
	}
	return &dialogue.Confirmation{InterviewID: "1", MatchID: booking.MatchID, At: booking.At}, nil
}

func (b *countingBooker) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

type stubResponder struct {
	answer string
	err    error
	asked  []ai.Question
}

func (s *stubResponder) Respond(_ context.Context, q ai.Question) (string, error) {
	s.asked = append(s.asked, q)
	return s.answer, s.err
}

func newAssistant(t *testing.T, booker dialogue.Booker, opts ...Option) *Assistant {
	t.Helper()

	kb, err := knowledge.Load("")
	if err != nil {
		t.Fatalf("load knowledge: %v", err)
	}
	dlg := dialogue.New(dialogue.NewMemoryStore(0), booker, nil, dialogue.WithClock(func() time.Time { return monday }))
	return New(kb, dlg, threadlock.NewLocal(time.Second), zap.NewNop(), opts...)
}

var plumber = &matching.JobPosting{
	Title:        "Plumber",
	Location:     "Austin, TX",
	Pay:          "$30/hr",
	Availability: "Weekdays 8-5",
}

func TestReplyRouting(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		kind     intent.Kind
		contains string
		audience knowledge.Audience
	}{
		{
			name:     "empty message greets",
			req:      Request{MatchID: "7", Message: "   ", Language: locale.Spanish},
			kind:     KindGreeting,
			contains: "¡Estoy aquí para ayudarte!",
			audience: knowledge.Worker,
		},
		{
			name:     "schedule start",
			req:      Request{MatchID: "7", Message: "Can we schedule an intrview?", Language: locale.English, Job: plumber},
			kind:     intent.KindScheduleStart,
			contains: "When would work best for you?",
			audience: knowledge.Worker,
		},
		{
			name:     "job question",
			req:      Request{MatchID: "7", Message: "what is the pay?", Language: locale.English, Job: plumber},
			kind:     intent.KindJobQuestion,
			contains: "$30/hr",
			audience: knowledge.Worker,
		},
		{
			name:     "job question in spanish",
			req:      Request{MatchID: "7", Message: "¿dónde es el trabajo?", Language: locale.Spanish, Job: plumber},
			kind:     intent.KindJobQuestion,
			contains: "El trabajo está ubicado en Austin, TX",
			audience: knowledge.Worker,
		},
		{
			name:     "general question keeps previous audience",
			req:      Request{Message: "how do i post a job", Language: locale.English, Audience: knowledge.Employer},
			kind:     intent.KindGeneralQuestion,
			contains: "Posting a job",
			audience: knowledge.Employer,
		},
		{
			name:     "scheduling without a thread becomes a job answer",
			req:      Request{Message: "yes", Language: locale.English, Job: plumber},
			kind:     intent.KindJobQuestion,
			audience: knowledge.Worker,
		},
		{
			name:     "unknown question falls back",
			req:      Request{Message: "what's the weather like on mars", Language: "fr"},
			kind:     intent.KindGeneralQuestion,
			contains: locale.Render(locale.English, locale.TemplateFallback, nil),
			audience: knowledge.Worker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAssistant(t, &countingBooker{})

			reply, err := a.Reply(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("reply: %v", err)
			}
			if reply.Kind != tt.kind {
				t.Fatalf("expected kind %s, got %s", tt.kind, reply.Kind)
			}
			if reply.Audience != tt.audience {
				t.Fatalf("expected audience %s, got %s", tt.audience, reply.Audience)
			}
			if !strings.Contains(reply.Text, tt.contains) {
				t.Fatalf("reply %q does not contain %q", reply.Text, tt.contains)
			}
		})
	}
}

func TestReplyKnowledgeAnswer(t *testing.T) {
	a := newAssistant(t, &countingBooker{})

	reply, err := a.Reply(context.Background(), Request{Message: "How do I find work?", Language: locale.English})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.KnowledgeID != "how_do_i_find_work" || reply.Generated {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestReplyGenerativeFallback(t *testing.T) {
	responder := &stubResponder{answer: "Why did the plumber quit? Too many leaks."}
	a := newAssistant(t, &countingBooker{}, WithResponder(responder))

	reply, err := a.Reply(context.Background(), Request{Message: "tell me a joke please", Language: locale.English})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if !reply.Generated || reply.Text != responder.answer {
		t.Fatalf("expected generated answer, got %+v", reply)
	}
	if len(responder.asked) != 1 || responder.asked[0].Audience != "worker" {
		t.Fatalf("unexpected questions: %+v", responder.asked)
	}

	// knowledge hits never reach the responder
	if _, err := a.Reply(context.Background(), Request{Message: "how do i find work", Language: locale.English}); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if len(responder.asked) != 1 {
		t.Fatalf("responder called for a knowledge hit")
	}
}

func TestReplyGenerativeFallbackFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	kb, err := knowledge.Load("")
	if err != nil {
		t.Fatalf("load knowledge: %v", err)
	}
	dlg := dialogue.New(dialogue.NewMemoryStore(0), &countingBooker{}, nil)
	a := New(kb, dlg, nil, zap.New(core), WithResponder(&stubResponder{err: errors.New("quota")}))

	reply, err := a.Reply(context.Background(), Request{Message: "tell me a joke please", Language: locale.English})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.Generated || reply.Text != locale.Render(locale.English, locale.TemplateFallback, nil) {
		t.Fatalf("expected static fallback, got %+v", reply)
	}
	if logs.FilterMessage("generative fallback failed").Len() != 1 {
		t.Fatalf("expected a warning about the failed fallback")
	}
}

func TestReplyFullSchedulingFlow(t *testing.T) {
	ctx := context.Background()
	booker := &countingBooker{}
	a := newAssistant(t, booker)

	steps := []struct {
		message string
		kind    intent.Kind
		outcome dialogue.Outcome
	}{
		{"sí, quiero una entrevista", intent.KindScheduleStart, dialogue.OutcomeStarted},
		{"no sé, algún día", intent.KindDialogue, dialogue.OutcomeReprompt},
		{"muestra opciones", intent.KindDialogue, dialogue.OutcomeSuggested},
		{"mañana a las 2pm", intent.KindDialogue, dialogue.OutcomeConfirmed},
		{"¿cuál es el pago?", intent.KindJobQuestion, ""},
	}

	for _, step := range steps {
		reply, err := a.Reply(ctx, Request{MatchID: "7", Message: step.message, Language: locale.Spanish, Job: plumber})
		if err != nil {
			t.Fatalf("%q: %v", step.message, err)
		}
		if reply.Kind != step.kind || reply.Outcome != step.outcome {
			t.Fatalf("%q: expected %s/%s, got %s/%s", step.message, step.kind, step.outcome, reply.Kind, reply.Outcome)
		}
		if reply.Language != locale.Spanish {
			t.Fatalf("%q: language drifted to %s", step.message, reply.Language)
		}
	}

	if booker.count() != 1 {
		t.Fatalf("expected one booking, got %d", booker.count())
	}
}

func TestReplyCancelWritesNothing(t *testing.T) {
	ctx := context.Background()
	booker := &countingBooker{}
	a := newAssistant(t, booker)

	for _, msg := range []string{"let's book an interview", "cancel"} {
		if _, err := a.Reply(ctx, Request{MatchID: "7", Message: msg, Language: locale.English}); err != nil {
			t.Fatalf("%q: %v", msg, err)
		}
	}

	reply, err := a.Reply(ctx, Request{MatchID: "7", Message: "tomorrow at 2pm", Language: locale.English})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.Kind == intent.KindDialogue || booker.count() != 0 {
		t.Fatalf("cancelled dialogue still handled the message: %+v, %d bookings", reply, booker.count())
	}
}

func TestReplySerializesThread(t *testing.T) {
	ctx := context.Background()
	booker := &countingBooker{entered: make(chan struct{}), release: make(chan struct{})}
	a := newAssistant(t, booker)

	if _, err := a.Reply(ctx, Request{MatchID: "7", Message: "schedule an interview", Language: locale.English}); err != nil {
		t.Fatalf("start: %v", err)
	}

	replies := make(chan *Reply, 2)
	send := func() {
		reply, err := a.Reply(ctx, Request{MatchID: "7", Message: "tomorrow at 2pm", Language: locale.English})
		if err != nil {
			t.Errorf("reply: %v", err)
			return
		}
		replies <- reply
	}

	go send()
	<-booker.entered // first booking is in flight and holds the thread

	go send()
	time.Sleep(20 * time.Millisecond)
	close(booker.release)

	first, second := <-replies, <-replies
	if booker.count() != 1 {
		t.Fatalf("expected exactly one booking, got %d", booker.count())
	}
	if first.Outcome != dialogue.OutcomeConfirmed {
		t.Fatalf("first message should confirm, got %+v", first)
	}
	if second.Kind == intent.KindDialogue {
		t.Fatalf("second message should find the dialogue closed, got %+v", second)
	}
}

func TestReplyConcurrentBookingsAgainstStore(t *testing.T) {
	ctx := context.Background()

	s, err := store.OpenSQLite(ctx, store.MemoryPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	employerID, _ := s.Create(ctx, store.Users, (&store.User{Name: "Acme", UserType: store.UserTypeEmployer}).Record())
	workerID, _ := s.Create(ctx, store.Users, (&store.User{Name: "Ana", UserType: store.UserTypeWorker}).Record())
	jobID, _ := s.Create(ctx, store.Jobs, (&store.Job{EmployerID: employerID, Title: "Plumber"}).Record())
	matchID, err := s.Create(ctx, store.Matches, (&store.Match{JobID: jobID, WorkerID: workerID}).Record())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	a := newAssistant(t, dialogue.NewStoreBooker(s, 0, nil))
	if _, err := a.Reply(ctx, Request{MatchID: matchID, Message: "book an interview", Language: locale.English}); err != nil {
		t.Fatalf("start: %v", err)
	}

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := a.Reply(ctx, Request{MatchID: matchID, Message: "friday at 10am", Language: locale.English}); err != nil {
				t.Errorf("reply: %v", err)
			}
		}()
	}
	wg.Wait()

	interviews, err := s.Query(ctx, store.Interviews, store.Record{"matchId": matchID})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(interviews) != 1 {
		t.Fatalf("expected one interview, got %d", len(interviews))
	}
}

func TestReplyLockTimeout(t *testing.T) {
	kb, err := knowledge.Load("")
	if err != nil {
		t.Fatalf("load knowledge: %v", err)
	}
	locks := threadlock.NewLocal(10 * time.Millisecond)
	a := New(kb, dialogue.New(dialogue.NewMemoryStore(0), &countingBooker{}, nil), locks, nil)

	release, err := locks.Lock(context.Background(), "7")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer release()

	_, err = a.Reply(context.Background(), Request{MatchID: "7", Message: "hello", Language: locale.English})
	if !errors.Is(err, threadlock.ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}
}
