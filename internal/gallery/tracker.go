package gallery

import (
	"context"
	"slices"
	"sync"

	"github.com/JaimeStill/portfolio/internal/locale"
)

// Tracker re-runs a loader only when the request changes. A new load
// cancels the previous one; its late results are discarded.
type Tracker struct {
	loader *Loader

	mu      sync.Mutex
	urls    []string
	lang    locale.Language
	count   int
	current *Collection
}

// NewTracker creates a tracker over loader.
func NewTracker(loader *Loader) *Tracker {
	return &Tracker{loader: loader}
}

// Track returns the current collection when req has the same URLs, language
// and priority count as the last call, and starts a new load otherwise.
func (t *Tracker) Track(ctx context.Context, req Request) *Collection {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil &&
		slices.Equal(t.urls, req.URLs) &&
		t.lang == req.Language &&
		t.count == req.PriorityCount {
		return t.current
	}

	if t.current != nil {
		t.current.Cancel()
	}

	t.urls = slices.Clone(req.URLs)
	t.lang = req.Language
	t.count = req.PriorityCount
	t.current = t.loader.Load(ctx, req)
	return t.current
}

// Current returns the latest collection, or nil before the first Track.
func (t *Tracker) Current() *Collection {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Stop cancels the current load.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current != nil {
		t.current.Cancel()
	}
}
