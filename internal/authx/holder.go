package authx

import (
	"sync"

	"github.com/avorobjovs/taskdeck/internal/models"
)

// SessionHolder is the in-memory home of the current session credential.
// It is shared between user-initiated operations and the background
// liveness loops, hence the lock.
type SessionHolder struct {
	mu sync.RWMutex
	s  *models.Session
}

func NewSessionHolder() *SessionHolder {
	return &SessionHolder{}
}

func (h *SessionHolder) Set(s *models.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.s = s
}

// Current returns the held session, or nil when signed out.
func (h *SessionHolder) Current() *models.Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.s
}

// Token returns the held access token, or "" when signed out.
func (h *SessionHolder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.s == nil {
		return ""
	}
	return h.s.AccessToken
}

// UserID returns the signed-in user's id, or "" when signed out.
func (h *SessionHolder) UserID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.s == nil {
		return ""
	}
	return h.s.User.ID
}

func (h *SessionHolder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.s = nil
}
