package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Zachdehooge/weather-map/internal/metrics"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
)

var ErrNotFound = errors.New("session not found")

// Store keeps at most max sessions, evicting the least recently used, and
// drops sessions idle for longer than the idle TTL.
type Store struct {
	mu      sync.Mutex
	cache   *lru.Cache[string, *Session]
	idleTTL time.Duration
	clock   clockwork.Clock
	metrics *metrics.NavigationMetrics
}

func NewStore(max int, idleTTL time.Duration, clock clockwork.Clock, m *metrics.NavigationMetrics) (*Store, error) {
	s := &Store{idleTTL: idleTTL, clock: clock, metrics: m}

	cache, err := lru.NewWithEvict(max, func(_ string, sess *Session) {
		sess.Close()
		if s.metrics != nil {
			s.metrics.ActiveSessions.Dec()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	s.cache = cache
	return s, nil
}

func (s *Store) Add(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.lastSeen = s.clock.Now()
	s.cache.Add(sess.ID(), sess)
	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
	}
}

// Get returns the session and marks it as seen.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	now := s.clock.Now()
	if now.Sub(sess.lastSeen) > s.idleTTL {
		s.cache.Remove(id)
		return nil, ErrNotFound
	}
	sess.lastSeen = now
	return sess, nil
}

func (s *Store) Len() int {
	return s.cache.Len()
}

// Sweep removes idle sessions and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	removed := 0
	for _, id := range s.cache.Keys() {
		sess, ok := s.cache.Peek(id)
		if ok && now.Sub(sess.lastSeen) > s.idleTTL {
			s.cache.Remove(id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until the returned stop func is
// called.
func (s *Store) StartSweeper(interval time.Duration) (stop func()) {
	ticker := s.clock.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				if n := s.Sweep(); n > 0 {
					slog.Debug("Swept idle sessions", "component", "session", "removed", n)
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
