package discovery

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/store"
)

type fixture struct {
	store    *store.SQLite
	workerID string
	employer map[string]string
	jobs     map[string]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	s, err := store.OpenSQLite(ctx, store.MemoryPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	f := &fixture{store: s, employer: map[string]string{}, jobs: map[string]string{}}
	create := func(collection string, rec store.Record) string {
		id, err := s.Create(ctx, collection, rec)
		if err != nil {
			t.Fatalf("create %s: %v", collection, err)
		}
		return id
	}

	f.workerID = create(store.Users, (&store.User{
		Name:          "Ana",
		UserType:      store.UserTypeWorker,
		SkillsOffered: []string{"Plumbing", "Pipe Fitting"},
		Location:      "Austin, TX",
		Pay:           "$30/hr",
		Availability:  "Weekdays",
	}).Record())
	f.employer["acme"] = create(store.Users, (&store.User{Name: "Acme", UserType: store.UserTypeEmployer}).Record())
	f.employer["bolt"] = create(store.Users, (&store.User{Name: "Bolt", UserType: store.UserTypeEmployer}).Record())

	jobs := []struct {
		key string
		job store.Job
	}{
		{"plumber", store.Job{EmployerID: f.employer["acme"], Title: "Plumber", SkillsNeeded: []string{"Plumbing"}, Location: "Austin, TX", Pay: "$30/hr", Availability: "Weekdays", Status: store.JobOpen}},
		{"fitter", store.Job{EmployerID: f.employer["bolt"], Title: "Fitter", SkillsNeeded: []string{"Pipe Fitting", "Welding"}, Location: "Austin, TX", Pay: "$30/hr", Availability: "Weekdays", Status: store.JobOpen}},
		{"painter", store.Job{EmployerID: f.employer["acme"], Title: "Painter", SkillsNeeded: []string{"Painting"}, Location: "Dallas", Pay: "$15/hr", Status: store.JobOpen}},
		{"blank", store.Job{EmployerID: f.employer["bolt"], Title: "Mystery", Status: store.JobOpen}},
		{"closed", store.Job{EmployerID: f.employer["acme"], Title: "Closed plumber", SkillsNeeded: []string{"Plumbing"}, Status: "closed"}},
	}
	for _, j := range jobs {
		f.jobs[j.key] = create(store.Jobs, j.job.Record())
	}

	return f
}

func titles(c *Candidates) []string {
	out := make([]string, 0, c.Len())
	for _, item := range c.Items {
		out = append(out, item.Job.Title)
	}
	return out
}

func TestDiscoverScoresAndSorts(t *testing.T) {
	f := newFixture(t)

	got, err := Discover(context.Background(), &Config{MinimumScore: 50}, f.store, f.workerID, locale.English, DefaultSteps(), nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	if strings.Join(titles(got), ",") != "Plumber,Fitter" {
		t.Fatalf("unexpected candidates %v", titles(got))
	}
	if got.Items[0].Score != 100 || got.Items[1].Score != 75 {
		t.Fatalf("unexpected scores %d, %d", got.Items[0].Score, got.Items[1].Score)
	}
	if got.Items[0].Outreach == nil || !strings.Contains(got.Items[0].Outreach.Text, "100% match") {
		t.Fatalf("missing outreach: %+v", got.Items[0].Outreach)
	}
}

func TestDiscoverFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// An existing match hides the plumber job.
	if _, err := f.store.Create(ctx, store.Matches, (&store.Match{JobID: f.jobs["plumber"], WorkerID: f.workerID}).Record()); err != nil {
		t.Fatalf("create match: %v", err)
	}

	got, err := Discover(ctx, &Config{ExcludeEmployers: []string{f.employer["bolt"]}}, f.store, f.workerID, locale.English, DefaultSteps(), nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if strings.Join(titles(got), ",") != "Painter" {
		t.Fatalf("unexpected candidates %v", titles(got))
	}

	steps := DefaultSteps()
	DisableByName(steps, "already_matched", "requested")
	got, err = Discover(ctx, &Config{MinimumScore: 90}, f.store, f.workerID, locale.English, steps, nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if strings.Join(titles(got), ",") != "Plumber" {
		t.Fatalf("unexpected candidates with matched jobs included %v", titles(got))
	}

	statuses := Describe(steps)
	if len(statuses) != 3 || statuses[0].Enabled || statuses[0].Reason != "requested" {
		t.Fatalf("unexpected statuses %+v", statuses)
	}
}

func TestDiscoverRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := Discover(ctx, &Config{MinimumScore: 120}, f.store, f.workerID, locale.English, DefaultSteps(), nil); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := Discover(ctx, nil, f.store, f.employer["acme"], locale.English, DefaultSteps(), nil); err == nil {
		t.Fatalf("expected error for an employer id")
	}
}

func TestRunReportsSteps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	worker, err := store.Load[store.User](ctx, f.store, store.Users, f.workerID)
	if err != nil {
		t.Fatalf("load worker: %v", err)
	}
	jobs, err := store.Find[store.Job](ctx, f.store, store.Jobs, store.Record{"status": store.JobOpen})
	if err != nil {
		t.Fatalf("find jobs: %v", err)
	}

	step := NewMinimumScore()
	if err := step.Validate(&Config{MinimumScore: 50}); err != nil {
		t.Fatalf("validate: %v", err)
	}
	_, info, err := step.Apply(ctx, Deps{Worker: worker, Language: locale.English, Logger: nopLogger()}, NewCandidates(jobs))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	// painter scores low, blank cannot be scored
	if info.Initial != 4 || info.Dropped != 2 || info.Left != 2 {
		t.Fatalf("unexpected step %+v", info)
	}
}

func TestAccept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := Discover(ctx, &Config{}, f.store, f.workerID, locale.Spanish, DefaultSteps(), nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	worker, _ := store.Load[store.User](ctx, f.store, store.Users, f.workerID)

	now := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	matchID, err := Accept(ctx, f.store, worker, got.Items[0], now)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	match, err := store.Load[store.Match](ctx, f.store, store.Matches, matchID)
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	if match.JobID != f.jobs["plumber"] || match.MatchScore != 100 || match.Status != store.MatchPending {
		t.Fatalf("unexpected match %+v", match)
	}

	msgs, err := store.Find[store.Message](ctx, f.store, store.Messages, store.Record{"matchId": matchID})
	if err != nil {
		t.Fatalf("find messages: %v", err)
	}
	if len(msgs) != 1 || !strings.HasPrefix(msgs[0].Message, "¡Hola Ana!") {
		t.Fatalf("unexpected outreach %+v", msgs)
	}

	if _, err := Accept(ctx, f.store, worker, &Candidate{Job: got.Items[0].Job}, now); err == nil {
		t.Fatalf("expected error for an unscored candidate")
	}
}

func nopLogger() *zap.Logger { return zap.NewNop() }
