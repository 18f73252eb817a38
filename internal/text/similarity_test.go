package text

import (
	"math"
	"testing"
)

func TestSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		a, b   string
		expect float64
	}{
		{name: "identical", a: "how do i find work", b: "how do i find work", expect: 1},
		{name: "case insensitive", a: "Plumbing", b: "plumbing", expect: 1},
		{name: "empty left", a: "", b: "plumbing", expect: 0},
		{name: "empty right", a: "plumbing", b: "   ", expect: 0},
		{name: "substring of longer token", a: "plumb", b: "plumbing", expect: 1},
		{name: "containing token", a: "plumbing", b: "plumb", expect: 1},
		{name: "short tokens need exact match", a: "tx", b: "txt", expect: 0},
		{name: "partial overlap", a: "el paso, tx", b: "las cruces, nm", expect: 0},
		{name: "divides by longer side", a: "general maintenance", b: "maintenance", expect: 0.5},
		{name: "half matched", a: "find work now please", b: "find work", expect: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.expect) > 1e-9 {
				t.Fatalf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expect)
			}
		})
	}
}

func TestSimilaritySelfIsOne(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"a", "El Paso, TX", "7:00 AM - 5:00 PM", "heavy equipment operator"} {
		if got := Similarity(s, s); got != 1 {
			t.Fatalf("Similarity(%q, itself) = %v, want 1", s, got)
		}
		if got := Similarity(s, ""); got != 0 {
			t.Fatalf("Similarity(%q, empty) = %v, want 0", s, got)
		}
	}
}
