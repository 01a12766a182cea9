package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JaimeStill/portfolio/internal/gallery"
	"github.com/JaimeStill/portfolio/internal/grid"
	"github.com/JaimeStill/portfolio/internal/locale"
	"github.com/JaimeStill/portfolio/pkg/lifecycle"
)

// maxViews bounds retained client views. The least recently used is dropped.
const maxViews = 1024

var (
	ErrNotLoaded     = errors.New("gallery not loaded")
	ErrImageNotFound = errors.New("image not found")
)

type viewKey struct {
	client string
	slug   string
}

// Views keeps one View per client and gallery. Loads run on the service
// context, so a client that disconnects mid-load picks up the same
// collection on its next request.
type Views struct {
	svc    *Service
	prober gallery.Prober
	logger *slog.Logger

	mu    sync.Mutex
	ctx   context.Context
	views map[viewKey]*View
}

// NewViews creates an empty view registry. prober fetches zoom assets.
func NewViews(svc *Service, prober gallery.Prober, logger *slog.Logger) *Views {
	return &Views{
		svc:    svc,
		prober: prober,
		logger: logger.With("system", "views"),
		ctx:    context.Background(),
		views:  make(map[viewKey]*View),
	}
}

// Start binds loads to the coordinator context and stops them on shutdown.
func (v *Views) Start(lc *lifecycle.Coordinator) {
	v.mu.Lock()
	v.ctx = lc.Context()
	v.mu.Unlock()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		v.mu.Lock()
		defer v.mu.Unlock()
		for key, view := range v.views {
			view.tracker.Stop()
			delete(v.views, key)
		}
	})
}

// Open tracks the gallery for slug on behalf of client. An unchanged request
// returns the collection of the previous call; fresh reports whether a new
// load started.
func (v *Views) Open(client, slug string, lang locale.Language) (view *View, c *gallery.Collection, fresh bool, err error) {
	g, err := v.svc.Catalog().Gallery(slug)
	if err != nil {
		return nil, nil, false, err
	}

	v.mu.Lock()
	key := viewKey{client: client, slug: slug}
	view, ok := v.views[key]
	if !ok {
		view = &View{
			Gallery: g,
			svc:     v.svc,
			prober:  v.prober,
			tracker: gallery.NewTracker(v.svc.loader),
		}
		v.views[key] = view
		v.evict(key)
	}
	view.touch()
	ctx := v.ctx
	v.mu.Unlock()

	prev := view.tracker.Current()
	c = view.tracker.Track(ctx, v.svc.Request(g, lang))
	return view, c, c != prev, nil
}

// Find returns the view client opened for slug.
func (v *Views) Find(client, slug string) (*View, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	view, ok := v.views[viewKey{client: client, slug: slug}]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotLoaded, slug)
	}
	view.touch()
	return view, nil
}

// Len returns the number of retained views.
func (v *Views) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.views)
}

// evict must be called with v.mu held.
func (v *Views) evict(keep viewKey) {
	if len(v.views) <= maxViews {
		return
	}

	var oldest viewKey
	var at time.Time
	for key, view := range v.views {
		if key == keep {
			continue
		}
		if used := view.lastUsed(); at.IsZero() || used.Before(at) {
			oldest, at = key, used
		}
	}
	if view, ok := v.views[oldest]; ok {
		view.tracker.Stop()
		delete(v.views, oldest)
		v.logger.Debug("view evicted", "slug", oldest.slug)
	}
}

// View is one client's loaded gallery. Image events act on the working set
// built from the items that client was sent; removed images stay removed
// until the request changes.
type View struct {
	Gallery *Gallery

	svc     *Service
	prober  gallery.Prober
	tracker *gallery.Tracker

	mu       sync.Mutex
	used     time.Time
	source   *gallery.Collection
	renderer *grid.Renderer
	zoom     *grid.Zoom
}

func (v *View) touch() {
	v.mu.Lock()
	v.used = time.Now()
	v.mu.Unlock()
}

func (v *View) lastUsed() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.used
}

// Render lays out state, the settled state of c. The first call for c builds
// the working set that listener observes.
func (v *View) Render(ctx context.Context, c *gallery.Collection, state gallery.LoadState, listener grid.Listener) ([]SectionLayout, error) {
	var stale *grid.Zoom
	v.mu.Lock()
	if v.source != c || v.renderer == nil {
		r, err := grid.New(state.Grid, v.Gallery.Grid, listener, nil)
		if err != nil {
			v.mu.Unlock()
			return nil, err
		}
		v.source = c
		v.renderer = r
		stale, v.zoom = v.zoom, nil
	}
	live := v.renderer.Items()
	v.mu.Unlock()

	if stale != nil {
		stale.Close()
	}

	ids := make(map[string]bool, len(live))
	for _, item := range live {
		ids[item.ID] = true
	}
	state.Grid = keep(state.Grid, ids)
	state.Solo = keep(state.Solo, ids)

	return v.svc.Layout(ctx, v.Gallery, state, nil)
}

func keep(items []gallery.ImageItem, ids map[string]bool) []gallery.ImageItem {
	out := make([]gallery.ImageItem, 0, len(items))
	for _, item := range items {
		if ids[item.ID] {
			out = append(out, item)
		}
	}
	return out
}

func (v *View) current() (*grid.Renderer, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.renderer == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotLoaded, v.Gallery.Slug)
	}
	return v.renderer, nil
}

// Items returns the working set.
func (v *View) Items() []gallery.ImageItem {
	r, err := v.current()
	if err != nil {
		return nil
	}
	return r.Items()
}

// Click reports a click on the rendered image with id.
func (v *View) Click(id string) (gallery.ImageItem, error) {
	r, err := v.current()
	if err != nil {
		return gallery.ImageItem{}, err
	}
	item, ok := r.HandleClick(id)
	if !ok {
		return gallery.ImageItem{}, fmt.Errorf("%w: %q", ErrImageNotFound, id)
	}
	return item, nil
}

// Loaded reports that the image with id displayed. Repeats are ignored.
func (v *View) Loaded(id string) error {
	r, err := v.current()
	if err != nil {
		return err
	}
	if !r.HandleLoad(id) && !v.has(r, id) {
		return fmt.Errorf("%w: %q", ErrImageNotFound, id)
	}
	return nil
}

// Failed removes the image with id from the working set. Unknown and
// already removed images report ErrImageNotFound.
func (v *View) Failed(id string) error {
	r, err := v.current()
	if err != nil {
		return err
	}
	if !r.HandleError(id) {
		return fmt.Errorf("%w: %q", ErrImageNotFound, id)
	}
	return nil
}

func (v *View) has(r *grid.Renderer, id string) bool {
	for _, item := range r.Items() {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Zoom opens the zoom overlay on the rendered image with id, closing any
// overlay already open, and loads its largest variant.
func (v *View) Zoom(ctx context.Context, id string) (*grid.Zoom, grid.ZoomStatus, error) {
	r, err := v.current()
	if err != nil {
		return nil, "", err
	}

	var item gallery.ImageItem
	var found bool
	for _, it := range r.Items() {
		if it.ID == id {
			item, found = it, true
			break
		}
	}
	if !found {
		return nil, "", fmt.Errorf("%w: %q", ErrImageNotFound, id)
	}

	var z *grid.Zoom
	z = grid.NewZoom(item, func() {
		v.mu.Lock()
		if v.zoom == z {
			v.zoom = nil
		}
		v.mu.Unlock()
	})

	v.mu.Lock()
	stale := v.zoom
	v.zoom = z
	v.mu.Unlock()

	if stale != nil {
		stale.Close()
	}

	if v.prober == nil {
		return z, z.Status(), nil
	}
	return z, z.Load(ctx, v.prober), nil
}

// OpenZoom returns the open overlay, or nil.
func (v *View) OpenZoom() *grid.Zoom {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

// CloseZoom closes the open overlay, if any.
func (v *View) CloseZoom() {
	v.mu.Lock()
	z := v.zoom
	v.zoom = nil
	v.mu.Unlock()

	if z != nil {
		z.Close()
	}
}

