package gallery

import (
	"context"
	"slices"
	"sync"
)

// LoadState is the observable state of one image collection. Grid and Solo
// are independent views over the same resolved items. An empty Error means
// no error.
type LoadState struct {
	Grid        []ImageItem `json:"grid"`
	Solo        []ImageItem `json:"solo"`
	Loading     bool        `json:"loading"`
	LazyLoading bool        `json:"lazy_loading"`
	Error       string      `json:"error,omitempty"`
}

func initialState() LoadState {
	return LoadState{
		Grid:        []ImageItem{},
		Solo:        []ImageItem{},
		Loading:     true,
		LazyLoading: true,
	}
}

func (s LoadState) clone() LoadState {
	s.Grid = slices.Clone(s.Grid)
	s.Solo = slices.Clone(s.Solo)
	if s.Grid == nil {
		s.Grid = []ImageItem{}
	}
	if s.Solo == nil {
		s.Solo = []ImageItem{}
	}
	return s
}

// Settled reports whether both phases have finished.
func (s LoadState) Settled() bool {
	return !s.Loading && !s.LazyLoading
}

// updateBuffer covers every transition of one load: reset, priority, remainder.
const updateBuffer = 3

// Collection is the live state of one Load call. It is written only by the
// loader goroutine; readers get copies.
type Collection struct {
	mu      sync.RWMutex
	state   LoadState
	updates chan LoadState
	done    chan struct{}
	cancel  context.CancelFunc
}

func newCollection(cancel context.CancelFunc) *Collection {
	c := &Collection{
		state:   initialState(),
		updates: make(chan LoadState, updateBuffer),
		done:    make(chan struct{}),
		cancel:  cancel,
	}
	c.updates <- c.state.clone()
	return c
}

// State returns a snapshot of the current state.
func (c *Collection) State() LoadState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Updates delivers a snapshot after each transition, starting with the reset
// state. The channel is closed when loading finishes.
func (c *Collection) Updates() <-chan LoadState {
	return c.updates
}

// Done is closed when both phases have settled.
func (c *Collection) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until loading finishes or ctx ends and returns the latest state.
func (c *Collection) Wait(ctx context.Context) (LoadState, error) {
	select {
	case <-c.done:
		return c.State(), nil
	case <-ctx.Done():
		return c.State(), ctx.Err()
	}
}

// Cancel stops in-flight probes. Results that arrive afterwards are discarded.
func (c *Collection) Cancel() {
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Collection) update(fn func(*LoadState)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot := c.state.clone()
	c.mu.Unlock()

	select {
	case c.updates <- snapshot:
	default:
	}
}

func (c *Collection) finish() {
	close(c.updates)
	close(c.done)
	if c.cancel != nil {
		c.cancel()
	}
}
