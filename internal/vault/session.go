package vault

import (
	"sync"

	"github.com/dmitrijs2005/recoverylog/internal/common"
)

// Session is the single-slot holder of the derived vault key. The key lives
// only in process memory for the lifetime of an unlocked vault; it is wiped
// on Clear and on every replacement. Nothing ever persists it.
type Session struct {
	mu  sync.RWMutex
	key []byte
}

func NewSession() *Session {
	return &Session{}
}

// Set stores key as the current session key, wiping any previously held one.
func (s *Session) Set(key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	common.WipeByteArray(s.key)
	s.key = key
}

// Key returns the held key, or nil when the session is empty. The slice
// stays owned by the session: use it immediately, do not retain or modify.
func (s *Session) Key() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// Active reports whether a key is currently held.
func (s *Session) Active() bool {
	return s.Key() != nil
}

// Clear zeroes the held key and drops the reference.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	common.WipeByteArray(s.key)
	s.key = nil
}
