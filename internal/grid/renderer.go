package grid

import (
	"context"
	"slices"
	"sync"

	"github.com/JaimeStill/portfolio/internal/gallery"
	"github.com/JaimeStill/portfolio/internal/orientation"
	"golang.org/x/sync/errgroup"
)

// probeLimit bounds concurrent dimension probes during Layout.
const probeLimit = 4

// Placement is the layout decision for one image.
type Placement struct {
	Item        gallery.ImageItem       `json:"item"`
	Orientation orientation.Orientation `json:"orientation"`
	Rule        orientation.Rule        `json:"rule"`
	Row         int                     `json:"row"`
	Column      int                     `json:"column"`
}

// DimensionProber discovers natural dimensions of an image.
type DimensionProber interface {
	Dimensions(ctx context.Context, item gallery.ImageItem) (width, height int, err error)
}

type galleryProber struct {
	prober gallery.Prober
}

// FromProber adapts a gallery.Prober. Probes that succeed without
// dimensions count as failures.
func FromProber(p gallery.Prober) DimensionProber {
	return galleryProber{prober: p}
}

func (g galleryProber) Dimensions(ctx context.Context, item gallery.ImageItem) (int, int, error) {
	probe, err := g.prober.Probe(ctx, item.URL)
	if err != nil {
		return 0, 0, err
	}
	if probe.Width <= 0 || probe.Height <= 0 {
		return 0, 0, gallery.ErrProbeFailed
	}
	return probe.Width, probe.Height, nil
}

// Renderer holds the live working set of one grid. Items removed after a
// load error do not come back.
type Renderer struct {
	opts     Options
	listener Listener
	prober   DimensionProber

	mu       sync.Mutex
	items    []gallery.ImageItem
	probed   map[string]orientation.Orientation
	loaded   map[string]bool
	reported map[string]bool
}

// New creates a renderer over images. listener and prober may be nil; auto
// mode without a prober treats unknown dimensions as square.
func New(images []gallery.ImageItem, opts Options, listener Listener, prober DimensionProber) (*Renderer, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if listener == nil {
		listener = ListenerFuncs{}
	}
	return &Renderer{
		opts:     opts,
		listener: listener,
		prober:   prober,
		items:    slices.Clone(images),
		probed:   make(map[string]orientation.Orientation),
		loaded:   make(map[string]bool),
		reported: make(map[string]bool),
	}, nil
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Items returns the live working set.
func (r *Renderer) Items() []gallery.ImageItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.items)
}

// Layout assigns a rule and position to every live image. In auto mode,
// images without dimensions are probed once; failures classify as square.
func (r *Renderer) Layout(ctx context.Context) []Placement {
	items := r.Items()

	if r.opts.Adaptive == AdaptiveAuto {
		r.probeMissing(ctx, items)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	placements := make([]Placement, 0, len(items))
	for i, item := range items {
		row, col := r.position(i)
		p := Placement{Item: item, Row: row, Column: col}

		if r.opts.Adaptive == AdaptiveManual {
			p.Rule = r.opts.Fallback
		} else {
			p.Orientation = r.orientationOf(item)
			p.Rule = orientation.Resolve(p.Orientation, r.opts.Rules, r.opts.Fallback)
		}
		placements = append(placements, p)
	}
	return placements
}

func (r *Renderer) position(i int) (row, col int) {
	if r.opts.Mode == ModeSolo {
		return i, 0
	}
	return i / r.opts.Columns, i % r.opts.Columns
}

// orientationOf must be called with r.mu held.
func (r *Renderer) orientationOf(item gallery.ImageItem) orientation.Orientation {
	if item.HasDimensions() {
		return item.Orientation()
	}
	if o, ok := r.probed[item.ID]; ok {
		return o
	}
	return orientation.Square
}

func (r *Renderer) probeMissing(ctx context.Context, items []gallery.ImageItem) {
	r.mu.Lock()
	var pending []gallery.ImageItem
	for _, item := range items {
		if _, done := r.probed[item.ID]; !done && !item.HasDimensions() {
			pending = append(pending, item)
		}
	}
	r.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	results := make([]orientation.Orientation, len(pending))
	var g errgroup.Group
	g.SetLimit(probeLimit)

	for i, item := range pending {
		g.Go(func() error {
			results[i] = orientation.Square
			if r.prober == nil {
				return nil
			}
			w, h, err := r.prober.Dimensions(ctx, item)
			if err == nil {
				if o := orientation.ClassifyInts(w, h); o != orientation.Unknown {
					results[i] = o
				}
			}
			return nil
		})
	}
	g.Wait()

	r.mu.Lock()
	for i, item := range pending {
		r.probed[item.ID] = results[i]
	}
	r.mu.Unlock()
}

// HandleLoad reports that the image with id finished loading. The listener is
// notified the first time only.
func (r *Renderer) HandleLoad(id string) bool {
	r.mu.Lock()
	item, ok := r.find(id)
	if !ok || r.loaded[id] {
		r.mu.Unlock()
		return false
	}
	r.loaded[id] = true
	r.mu.Unlock()

	r.listener.OnLoad(item)
	return true
}

// HandleError removes the image with id from the working set and notifies the
// listener once.
func (r *Renderer) HandleError(id string) bool {
	r.mu.Lock()
	i := slices.IndexFunc(r.items, func(item gallery.ImageItem) bool { return item.ID == id })
	if i < 0 || r.reported[id] {
		r.mu.Unlock()
		return false
	}
	item := r.items[i]
	r.items = slices.Delete(r.items, i, i+1)
	r.reported[id] = true
	r.mu.Unlock()

	r.listener.OnError(item)
	return true
}

// HandleClick notifies the listener of a click on a live image.
func (r *Renderer) HandleClick(id string) (gallery.ImageItem, bool) {
	r.mu.Lock()
	item, ok := r.find(id)
	r.mu.Unlock()
	if !ok {
		return gallery.ImageItem{}, false
	}

	r.listener.OnClick(item)
	return item, true
}

// find must be called with r.mu held.
func (r *Renderer) find(id string) (gallery.ImageItem, bool) {
	for _, item := range r.items {
		if item.ID == id {
			return item, true
		}
	}
	return gallery.ImageItem{}, false
}
