package dialogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spigell/jale-assistant/internal/locale"
	"github.com/spigell/jale-assistant/internal/matching"
)

// Step is where a thread is in the scheduling dialogue.
type Step string

const (
	StepIdle         Step = "idle"
	StepAwaitingTime Step = "awaiting_time"
)

// State is the scheduling dialogue of one thread. It exists only while the thread is
// awaiting a time; Idle threads have no stored state.
type State struct {
	MatchID   string               `json:"matchId"`
	Job       *matching.JobPosting `json:"job,omitempty"`
	Step      Step                 `json:"step"`
	Language  locale.Language      `json:"language"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// Active reports whether the dialogue owns the next message of the thread.
func (s *State) Active() bool {
	return s != nil && s.Step == StepAwaitingTime
}

// StateStore keeps at most one State per match id. Save replaces any previous value.
type StateStore interface {
	Load(ctx context.Context, matchID string) (*State, bool, error)
	Save(ctx context.Context, state *State) error
	Delete(ctx context.Context, matchID string) error
}

// MemoryStore keeps states in process. Entries older than ttl are treated as absent.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	states map[string]State
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, states: map[string]State{}}
}

func (m *MemoryStore) Load(_ context.Context, matchID string) (*State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[matchID]
	if !ok {
		return nil, false, nil
	}
	if m.ttl > 0 && m.now().Sub(state.UpdatedAt) > m.ttl {
		delete(m.states, matchID)
		return nil, false, nil
	}
	return &state, true, nil
}

func (m *MemoryStore) Save(_ context.Context, state *State) error {
	if state == nil || state.MatchID == "" {
		return errors.New("state without match id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.MatchID] = *state
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, matchID)
	return nil
}

const stateKeyPrefix = "jale:dialogue:"

// RedisStore keeps states as JSON values that expire after ttl, so abandoned
// dialogues clean themselves up.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context, matchID string) (*State, bool, error) {
	data, err := r.client.Get(ctx, stateKeyPrefix+matchID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading dialogue %s: %w", matchID, err)
	}

	state := &State{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, false, fmt.Errorf("decoding dialogue %s: %w", matchID, err)
	}
	return state, true, nil
}

func (r *RedisStore) Save(ctx context.Context, state *State) error {
	if state == nil || state.MatchID == "" {
		return errors.New("state without match id")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding dialogue %s: %w", state.MatchID, err)
	}
	if err := r.client.Set(ctx, stateKeyPrefix+state.MatchID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("saving dialogue %s: %w", state.MatchID, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, matchID string) error {
	if err := r.client.Del(ctx, stateKeyPrefix+matchID).Err(); err != nil {
		return fmt.Errorf("deleting dialogue %s: %w", matchID, err)
	}
	return nil
}
