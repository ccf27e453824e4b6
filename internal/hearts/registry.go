// internal/hearts/registry.go
package hearts

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry is the process-wide mapping from game name to live game instance.
// It is constructed once at startup and passed to the transport handlers;
// games are created on first join and removed once fully empty.
type Registry struct {
	mu     sync.Mutex
	games  map[string]*Game
	logger *logrus.Logger
}

// NewRegistry builds an empty registry.
func NewRegistry(logger *logrus.Logger) *Registry {
	return &Registry{
		games:  make(map[string]*Game),
		logger: logger,
	}
}

// GetOrCreate returns the game with the given name, creating it on first
// sight. The second result is true when the game was just created, so the
// caller can wire its broadcast functions before any player acts on it.
func (r *Registry) GetOrCreate(name string) (*Game, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.games[name]; ok {
		return g, false
	}
	g := NewGame(name, r.logger)
	r.games[name] = g
	return g, true
}

// Get returns the game with the given name, if it exists.
func (r *Registry) Get(name string) (*Game, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[name]
	return g, ok
}

// Remove tears the game down: it is closed so that pending pacing callbacks
// no-op, and dropped from the registry.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	g, ok := r.games[name]
	delete(r.games, name)
	r.mu.Unlock()
	if ok {
		g.Close()
	}
}

// RemoveIfEmpty drops the game only when no connected player remains. The
// re-check runs under the registry lock, so a join racing the teardown either
// lands before the close and keeps the game, or arrives after the name is
// gone and creates a fresh one.
func (r *Registry) RemoveIfEmpty(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[name]
	if !ok || !g.CloseIfEmpty() {
		return false
	}
	delete(r.games, name)
	return true
}

// Len reports the number of live games.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games)
}
