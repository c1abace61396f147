package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"fundspark/pkg/views"
)

// DefaultViewTTL is how long an idle donate view stays cached.
const DefaultViewTTL = 30 * time.Minute

// DefaultMaxViews caps the donate views held at once; the least recently used
// one is dropped first.
const DefaultMaxViews = 1024

// viewEntry is one page load of the donate view. mu serializes requests
// against the same view.
type viewEntry struct {
	mu   sync.Mutex
	view *views.DonateView
}

// viewCache holds donate views between requests of the same page load so a
// donation can update the loaded list without fetching it again.
type viewCache struct {
	lru *expirable.LRU[string, *viewEntry]
}

func newViewCache(size int, ttl time.Duration) *viewCache {
	if size <= 0 {
		size = DefaultMaxViews
	}
	if ttl <= 0 {
		ttl = DefaultViewTTL
	}
	evicted := func(_ string, e *viewEntry) { e.view.Deactivate() }
	return &viewCache{lru: expirable.NewLRU[string, *viewEntry](size, evicted, ttl)}
}

// put stores v under a new id.
func (vc *viewCache) put(v *views.DonateView) string {
	id := uuid.NewString()
	vc.lru.Add(id, &viewEntry{view: v})
	return id
}

// get returns the entry for id and extends its lifetime.
func (vc *viewCache) get(id string) (*viewEntry, bool) {
	e, ok := vc.lru.Get(id)
	if !ok {
		return nil, false
	}
	vc.lru.Add(id, e)
	return e, true
}

func (vc *viewCache) len() int {
	return vc.lru.Len()
}
