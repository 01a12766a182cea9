package site

import (
	"context"

	"github.com/JaimeStill/portfolio/internal/gallery"
	"github.com/JaimeStill/portfolio/internal/grid"
	"github.com/JaimeStill/portfolio/internal/locale"
)

// SectionLayout is the rendered layout of one page section.
type SectionLayout struct {
	Name       string           `json:"name,omitempty"`
	View       grid.View        `json:"view"`
	Mode       grid.Mode        `json:"mode"`
	Columns    int              `json:"columns"`
	Placements []grid.Placement `json:"placements"`
}

// Service loads catalog galleries and lays them out.
type Service struct {
	catalog   *Catalog
	loader    *gallery.Loader
	prober    grid.DimensionProber
	cacheBust bool
}

// NewService creates a gallery service. prober backs auto layout for images
// whose dimensions the loader did not discover; it may be nil.
func NewService(catalog *Catalog, loader *gallery.Loader, prober grid.DimensionProber, cacheBust bool) *Service {
	return &Service{
		catalog:   catalog,
		loader:    loader,
		prober:    prober,
		cacheBust: cacheBust,
	}
}

// Catalog returns the underlying catalog.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// Request builds the loader request for g.
func (s *Service) Request(g *Gallery, lang locale.Language) gallery.Request {
	return gallery.Request{
		URLs:          g.Images,
		Language:      lang,
		PriorityCount: g.Priority,
		CacheBust:     s.cacheBust,
	}
}

// Layout renders each section of g over state. A gallery without sections
// renders as a single grid over every loaded image.
func (s *Service) Layout(ctx context.Context, g *Gallery, state gallery.LoadState, listener grid.Listener) ([]SectionLayout, error) {
	sections := g.Sections
	if len(sections) == 0 {
		sections = []grid.Section{{View: grid.ViewGrid}}
	}

	layouts := make([]SectionLayout, 0, len(sections))
	for _, section := range sections {
		opts := section.Options(g.Grid)
		r, err := grid.New(section.Slice(state), opts, listener, s.prober)
		if err != nil {
			return nil, err
		}

		view := section.View
		if view == "" {
			view = grid.ViewGrid
		}
		effective := r.Options()
		layouts = append(layouts, SectionLayout{
			Name:       section.Name,
			View:       view,
			Mode:       effective.Mode,
			Columns:    effective.Columns,
			Placements: r.Layout(ctx),
		})
	}
	return layouts, nil
}
