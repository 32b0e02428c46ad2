package estimate

import (
	"sync"

	"github.com/google/uuid"

	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// SessionRegistry keeps the live editing sessions of a server process
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

// NewID returns a fresh session identifier
func (r *SessionRegistry) NewID() string {
	return uuid.NewString()
}

// Add registers a session under its own id
func (r *SessionRegistry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Get returns the session with id
func (r *SessionRegistry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, shared.NewNotFoundError("session", id)
	}
	return s, nil
}

// Remove drops a session; unknown ids are ignored
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
