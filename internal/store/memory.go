// internal/store/memory.go
//
// In-memory store of live sessions.
// A session is either a game (server-held secret, human or engine guessing)
// or a solver (the engine guesses a secret only the client knows).
//
// Characteristics:
//   - Sessions keyed by ID in a map, guarded by an RWMutex.
//   - Each session carries its own mutex; handlers serialise rounds with it.
//   - Idle sessions can be swept; state is lost when the process restarts.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/mastermind/internal/brain"
	"github.com/robalobadob/mastermind/internal/game"
)

var ErrNotFound = errors.New("session not found")

// Kind tells games and solver sessions apart.
type Kind string

const (
	KindGame   Kind = "game"
	KindDaily  Kind = "daily"
	KindSolver Kind = "solver"
)

// Session is one live game or solver run. Lock it before touching Game,
// Brain or Good.
type Session struct {
	sync.Mutex

	ID      string
	Kind    Kind
	Game    *game.Game     // nil for solver sessions
	Brain   *brain.Brain   // set for solver sessions and once autoplay starts
	Good    brain.Snapshot // engine state before the last accepted score (undo)
	Owner   string         // user or anonymous id, "" when unknown
	Guest   bool           // Owner is an anonymous cookie id
	Created time.Time

	seen time.Time
}

// Store defines the persistence interface for live sessions.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID, ErrNotFound if missing.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete drops a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep drops sessions not touched since before, returning how many.
	Sweep(ctx context.Context, before time.Time) int

	// Len is the number of live sessions.
	Len() int
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session), now: time.Now}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return errors.New("session without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if s.Created.IsZero() {
		s.Created = now
	}
	s.seen = now
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.seen = m.now()
	return s, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, before time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.seen.Before(before) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
