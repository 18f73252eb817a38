// Package threadlock serializes work per conversation thread so two messages for the
// same match are never processed at the same time.
package threadlock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrLockTimeout is returned when a thread stays locked longer than the caller waits.
var ErrLockTimeout = errors.New("thread lock timeout")

// Locker hands out exclusive access to one key. The returned release func must be
// called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// Local is an in-process keyed mutex. Waiters for the same key queue in order of
// arrival on the channel; unrelated keys never block each other.
type Local struct {
	timeout time.Duration

	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewLocal builds a keyed mutex. A zero timeout waits until ctx is done.
func NewLocal(timeout time.Duration) *Local {
	return &Local{timeout: timeout, slots: map[string]*slot{}}
}

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	s := l.acquireSlot(key)

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.releaseSlot(key, s)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", key, ErrLockTimeout)
		}
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.releaseSlot(key, s)
		})
	}, nil
}

func (l *Local) acquireSlot(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *Local) releaseSlot(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// held reports how many keys currently have holders or waiters.
func (l *Local) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
