package games

import (
	"fmt"
	"sort"
	"sync"

	"github.com/royalmock/casino/internal/types"
	"github.com/royalmock/casino/pkg/entities"
)

// Session is an open game instance for one user. Callers assert it back
// to the concrete game type whose factory they registered.
type Session interface{}

// Factory creates a fresh session for a user
type Factory func(userID string) Session

type sessionKey struct {
	userID string
	game   entities.GameName
}

// Registry maps game names to factories and tracks at most one live
// session per user per game.
type Registry struct {
	mu        sync.RWMutex
	factories map[entities.GameName]Factory
	sessions  map[sessionKey]Session
}

// NewRegistry creates an empty game registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[entities.GameName]Factory),
		sessions:  make(map[sessionKey]Session),
	}
}

// Register adds a game factory to the registry
func (r *Registry) Register(name entities.GameName, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return types.NewGameError(types.ErrInvalidAction, fmt.Sprintf("game %s is already registered", name))
	}

	r.factories[name] = factory
	return nil
}

// Session returns the user's live session for a game, creating one
// through the registered factory on first use.
func (r *Registry) Session(userID string, name entities.GameName) (Session, error) {
	key := sessionKey{userID: userID, game: name}

	r.mu.RLock()
	session, ok := r.sessions[key]
	r.mu.RUnlock()
	if ok {
		return session, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have created it between the locks
	if session, ok := r.sessions[key]; ok {
		return session, nil
	}

	factory, ok := r.factories[name]
	if !ok {
		return nil, types.NewGameError(types.ErrGameNotFound, fmt.Sprintf("game %s not found", name))
	}

	session = factory(userID)
	r.sessions[key] = session
	return session, nil
}

// End discards the user's session for a game. The next Session call
// starts a fresh one.
func (r *Registry) End(userID string, name entities.GameName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionKey{userID: userID, game: name})
}

// EachSession calls fn for every live session of one game. The snapshot
// is taken under the lock; fn runs outside it.
func (r *Registry) EachSession(name entities.GameName, fn func(userID string, session Session)) {
	r.mu.RLock()
	type entry struct {
		userID  string
		session Session
	}
	var entries []entry
	for key, session := range r.sessions {
		if key.game == name {
			entries = append(entries, entry{key.userID, session})
		}
	}
	r.mu.RUnlock()

	for _, e := range entries {
		fn(e.userID, e.session)
	}
}

// ActiveGames lists the games the user currently has sessions for
func (r *Registry) ActiveGames(userID string) []entities.GameName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []entities.GameName
	for key := range r.sessions {
		if key.userID == userID {
			names = append(names, key.game)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ListGames returns the registered game names in stable order
func (r *Registry) ListGames() []entities.GameName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]entities.GameName, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
