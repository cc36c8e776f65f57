package workflow

import "sync"

// Guard tracks keys with an action in flight. Share one Guard between
// workflows that must not act on the same item concurrently.
type Guard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

// NewGuard returns an empty guard.
func NewGuard() *Guard { return &Guard{busy: make(map[string]struct{})} }

// Acquire marks key busy. It reports false when key is already busy.
func (g *Guard) Acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.busy[key]; ok {
		return false
	}
	g.busy[key] = struct{}{}
	return true
}

// Release clears key.
func (g *Guard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.busy, key)
}

// Busy reports whether key is in flight.
func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.busy[key]
	return ok
}
