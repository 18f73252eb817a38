// Package knowledge answers free-text questions by retrieval against a small static
// question/answer table.
package knowledge

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/spigell/jale-assistant/internal/text"
)

// AcceptanceThreshold is the similarity an answer must exceed to be returned.
const AcceptanceThreshold = 0.35

//go:embed knowledge.yaml
var builtin []byte

// Entry is one question/answer pair.
type Entry struct {
	ID       string   `mapstructure:"id"`
	Audience Audience `mapstructure:"audience"`
	Category string   `mapstructure:"category"`
	Triggers []string `mapstructure:"triggers"`
	Answer   string   `mapstructure:"answer"`
}

// Answer is a retrieved entry together with the similarity that selected it.
type Answer struct {
	EntryID    string
	Text       string
	Confidence float64
}

// Base is a read-only knowledge table, safe for concurrent use once loaded.
type Base struct {
	byAudience map[Audience][]Entry
}

// Load reads the knowledge table from path, or the built-in table when path is empty.
func Load(path string) (*Base, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	path = strings.TrimSpace(path)
	if path == "" {
		if err := v.ReadConfig(bytes.NewReader(builtin)); err != nil {
			return nil, fmt.Errorf("reading built-in knowledge: %w", err)
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading knowledge file %q: %w", path, err)
		}
	}

	var entries []Entry
	if err := v.UnmarshalKey("entries", &entries); err != nil {
		return nil, fmt.Errorf("decoding knowledge entries: %w", err)
	}

	return New(entries)
}

// New validates entries and builds a Base from them.
func New(entries []Entry) (*Base, error) {
	b := &Base{byAudience: make(map[Audience][]Entry)}
	seen := make(map[string]struct{}, len(entries))

	for i, e := range entries {
		if strings.TrimSpace(e.ID) == "" {
			return nil, fmt.Errorf("entry %d: id is required", i)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("entry %q: duplicate id", e.ID)
		}
		seen[e.ID] = struct{}{}

		if !e.Audience.Valid() {
			return nil, fmt.Errorf("entry %q: unknown audience %q", e.ID, e.Audience)
		}
		if len(e.Triggers) == 0 {
			return nil, fmt.Errorf("entry %q: at least one trigger phrase is required", e.ID)
		}
		if strings.TrimSpace(e.Answer) == "" {
			return nil, fmt.Errorf("entry %q: answer is required", e.ID)
		}

		b.byAudience[e.Audience] = append(b.byAudience[e.Audience], e)
	}

	return b, nil
}

// Len returns the number of entries.
func (b *Base) Len() int {
	n := 0
	for _, entries := range b.byAudience {
		n += len(entries)
	}
	return n
}

// Retrieve returns the entry for audience whose trigger phrase is most similar to
// message. Nothing is returned unless the best similarity exceeds
// AcceptanceThreshold; ties keep the first entry in table order.
func (b *Base) Retrieve(message string, audience Audience) (*Answer, bool) {
	var best *Answer

	for _, e := range b.byAudience[audience] {
		for _, trigger := range e.Triggers {
			score := text.Similarity(message, trigger)
			if best == nil || score > best.Confidence {
				best = &Answer{EntryID: e.ID, Text: e.Answer, Confidence: score}
			}
		}
	}

	if best == nil || best.Confidence <= AcceptanceThreshold {
		return nil, false
	}
	return best, true
}
