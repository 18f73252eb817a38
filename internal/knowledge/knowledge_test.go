package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func loadBuiltin(t *testing.T) *Base {
	t.Helper()
	base, err := Load("")
	if err != nil {
		t.Fatalf("loading built-in knowledge: %v", err)
	}
	return base
}

func TestLoadBuiltin(t *testing.T) {
	base := loadBuiltin(t)

	if base.Len() != 7 {
		t.Fatalf("expected 7 entries, got %d", base.Len())
	}
	if len(base.byAudience[Worker]) != 4 || len(base.byAudience[Employer]) != 3 {
		t.Fatalf("unexpected audience split: %d worker, %d employer", len(base.byAudience[Worker]), len(base.byAudience[Employer]))
	}
}

func TestRetrieve(t *testing.T) {
	base := loadBuiltin(t)

	tests := []struct {
		name     string
		message  string
		audience Audience
		entry    string
	}{
		{name: "exact trigger", message: "how do i find work", audience: Worker, entry: "how_do_i_find_work"},
		{name: "close wording", message: "How do I get paid?", audience: Worker, entry: "how_payment_works"},
		{name: "employer question", message: "how do i post a job", audience: Employer, entry: "how_to_post_job"},
		{name: "audience scoping", message: "how do i post a job", audience: Worker, entry: "how_do_i_find_work"},
		{name: "below threshold", message: "what's the weather like on mars", audience: Worker, entry: ""},
		{name: "empty message", message: "", audience: Worker, entry: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, ok := base.Retrieve(tt.message, tt.audience)
			if tt.entry == "" {
				if ok {
					t.Fatalf("expected no answer, got %s (%.2f)", answer.EntryID, answer.Confidence)
				}
				return
			}
			if !ok {
				t.Fatalf("expected answer %s, got none", tt.entry)
			}
			if answer.EntryID != tt.entry {
				t.Fatalf("expected %s, got %s (%.2f)", tt.entry, answer.EntryID, answer.Confidence)
			}
			if answer.Confidence <= AcceptanceThreshold {
				t.Fatalf("confidence %.2f not above threshold", answer.Confidence)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kb.yaml")
	content := strings.Join([]string{
		"entries:",
		"  - id: tools",
		"    audience: worker",
		"    triggers: [do i need my own tools]",
		"    answer: Bring your own hand tools.",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing knowledge file: %v", err)
	}

	base, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answer, ok := base.Retrieve("do i need my own tools", Worker)
	if !ok || answer.Text != "Bring your own hand tools." {
		t.Fatalf("unexpected answer %+v", answer)
	}
}

func TestNewValidates(t *testing.T) {
	cases := []struct {
		name    string
		entries []Entry
	}{
		{name: "missing id", entries: []Entry{{Audience: Worker, Triggers: []string{"a"}, Answer: "b"}}},
		{name: "bad audience", entries: []Entry{{ID: "x", Audience: "admin", Triggers: []string{"a"}, Answer: "b"}}},
		{name: "no triggers", entries: []Entry{{ID: "x", Audience: Worker, Answer: "b"}}},
		{name: "no answer", entries: []Entry{{ID: "x", Audience: Worker, Triggers: []string{"a"}}}},
		{name: "duplicate", entries: []Entry{
			{ID: "x", Audience: Worker, Triggers: []string{"a"}, Answer: "b"},
			{ID: "x", Audience: Employer, Triggers: []string{"a"}, Answer: "b"},
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := New(c.entries); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestDetectAudience(t *testing.T) {
	t.Parallel()

	cases := []struct {
		message  string
		previous Audience
		expect   Audience
	}{
		{"I'm looking for work", "", Worker},
		{"we need workers for a remodel", Worker, Employer},
		{"busco trabajo", Employer, Worker},
		{"quiero contratar a alguien", "", Employer},
		{"how does this work", Employer, Employer},
		{"hello", "", Worker},
	}

	for _, c := range cases {
		if got := DetectAudience(c.message, c.previous); got != c.expect {
			t.Fatalf("DetectAudience(%q, %q) = %s, want %s", c.message, c.previous, got, c.expect)
		}
	}
}
