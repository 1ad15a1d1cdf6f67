package wizard

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"

	"vitaplan/internal/persist"
)

// maxSessions bounds the in-memory session registry. Evicted sessions behave
// like a closed tab: the saved-routine shortcut still works because saves key
// on the client ID, not the session.
const maxSessions = 4096

// Registry holds the live wizard sessions, LRU-evicted.
type Registry struct {
	sessions *lru.Cache[string, *Session]
	store    *persist.RoutineStore
	notifier Notifier
}

func NewRegistry(store *persist.RoutineStore, notifier Notifier) (*Registry, error) {
	cache, err := lru.New[string, *Session](maxSessions)
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	return &Registry{sessions: cache, store: store, notifier: notifier}, nil
}

// Create starts a new session for a client and registers it.
func (r *Registry) Create(clientID string) *Session {
	s := NewSession(uuid.New().String(), clientID, r.store, r.notifier)
	r.sessions.Add(s.ID, s)
	return s
}

// Get looks up a live session by ID.
func (r *Registry) Get(id string) (*Session, bool) {
	return r.sessions.Get(id)
}

// Store exposes the saved-routine store shared by all sessions.
func (r *Registry) Store() *persist.RoutineStore {
	return r.store
}
