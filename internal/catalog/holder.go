package catalog

import (
	"sync"
	"time"
)

// Holder keeps the active catalog; reloads swap it atomically.
type Holder struct {
	mu       sync.RWMutex
	current  *Catalog
	loadedAt time.Time
}

func NewHolder(c *Catalog) *Holder {
	return &Holder{current: c, loadedAt: time.Now()}
}

// Get returns the active catalog. Callers must not modify it.
func (h *Holder) Get() *Catalog {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Set replaces the active catalog.
func (h *Holder) Set(c *Catalog) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = c
	h.loadedAt = time.Now()
}

// LoadedAt reports when the active catalog was installed.
func (h *Holder) LoadedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loadedAt
}
