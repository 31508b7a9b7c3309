package game

import (
	"sync"

	"megamind_api/internal/shapes"
)

// Registry owns the user id -> session map. Sessions live for the whole
// process; there is no eviction, the map is bounded by active users.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	catalog   *shapes.Catalog
	hitRadius float64
}

func NewRegistry(catalog *shapes.Catalog, hitRadius float64) *Registry {
	return &Registry{
		sessions:  make(map[string]*Session),
		catalog:   catalog,
		hitRadius: hitRadius,
	}
}

// GetOrCreate returns the user's session, creating one with a random shape
// on first contact.
func (r *Registry) GetOrCreate(userID string) *Session {
	r.mu.RLock()
	s, ok := r.sessions[userID]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok {
		return s
	}

	name := r.catalog.RandomName()
	points, _ := r.catalog.Get(name)
	s = newSession(name, points, r.hitRadius)
	r.sessions[userID] = s
	return s
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Get returns the user's session if one exists.
func (r *Registry) Get(userID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[userID]
	return s, ok
}

// Reset rebinds the user's session to shapeName, or to a random shape when
// shapeName is empty. A session is created if the user has none yet.
func (r *Registry) Reset(userID, shapeName string) (*Session, error) {
	if shapeName == "" {
		shapeName = r.catalog.RandomName()
	}
	points, err := r.catalog.Get(shapeName)
	if err != nil {
		return nil, err
	}

	s := r.GetOrCreate(userID)
	s.reset(shapeName, points)
	return s, nil
}
