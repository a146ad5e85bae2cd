// Package reconcile keeps repair order labor rates in line with the shop's make groups.
package reconcile

import (
	"sync"

	"github.com/Veraticus/shop-assist/internal/model"
)

// SessionStore holds the most recently captured auth session.
// The last capture wins and the session is never cleared.
type SessionStore struct {
	session model.AuthSession
	mu      sync.RWMutex
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Capture replaces the stored session. Incomplete sessions are ignored.
func (s *SessionStore) Capture(session model.AuthSession) bool {
	if !session.Valid() {
		return false
	}
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	return true
}

// Current returns the stored session and whether one has been captured.
func (s *SessionStore) Current() (model.AuthSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.session.Valid()
}
