package realtime

import (
	"sync"

	"versefeed/contract"
)

// Registry is the single source of truth for "is this user currently
// reachable for push delivery". One process, one instance, rebuilt empty on
// restart. At most one live socket per user: a new Bind for the same user
// silently replaces the previous one without closing it.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]contract.FrameWriter
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]contract.FrameWriter)}
}

// Bind registers w as the live channel for userID, overwriting any existing
// binding. Cannot fail.
func (r *Registry) Bind(userID int64, w contract.FrameWriter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = w
}

// Unbind removes the binding for userID if present. Idempotent.
func (r *Registry) Unbind(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// Release removes the binding only if it still points at w. A closing
// socket uses this instead of Unbind, so that an old connection going away
// cannot evict the binding of a newer connection for the same user.
func (r *Registry) Release(userID int64, w contract.FrameWriter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[userID]; ok && current == w {
		delete(r.sessions, userID)
	}
}

// Lookup returns the live writer for userID, or false if the user has no
// current binding.
func (r *Registry) Lookup(userID int64) (contract.FrameWriter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.sessions[userID]
	return w, ok
}

// Online returns the number of currently bound users, for telemetry.
func (r *Registry) Online() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
