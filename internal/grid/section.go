package grid

import (
	"fmt"
	"slices"

	"github.com/JaimeStill/portfolio/internal/gallery"
)

// View names one of the LoadState views.
type View string

const (
	ViewGrid View = "grid"
	ViewSolo View = "solo"
)

// Section is one page region built from an index range of a LoadState view,
// e.g. "the first 3 images are a row, the 4th is solo". To is exclusive;
// zero or negative means the end of the view.
type Section struct {
	Name    string `json:"name" yaml:"name"`
	View    View   `json:"view" yaml:"view"`
	From    int    `json:"from" yaml:"from"`
	To      int    `json:"to" yaml:"to"`
	Mode    Mode   `json:"mode" yaml:"mode"`
	Columns int    `json:"columns" yaml:"columns"`
}

// Validate checks the view and index range.
func (s Section) Validate() error {
	switch s.View {
	case "", ViewGrid, ViewSolo:
	default:
		return fmt.Errorf("section %q: unknown view %q", s.Name, s.View)
	}
	if s.From < 0 {
		return fmt.Errorf("section %q: negative from", s.Name)
	}
	if s.To > 0 && s.To < s.From {
		return fmt.Errorf("section %q: to %d before from %d", s.Name, s.To, s.From)
	}
	return nil
}

// Slice returns the section's items from state, clamped to what has loaded.
func (s Section) Slice(state gallery.LoadState) []gallery.ImageItem {
	view := state.Grid
	if s.View == ViewSolo {
		view = state.Solo
	}

	from := min(max(s.From, 0), len(view))
	to := len(view)
	if s.To > 0 {
		to = min(s.To, len(view))
	}
	if to < from {
		return []gallery.ImageItem{}
	}
	return slices.Clone(view[from:to])
}

// Options overlays the section's mode and columns on base.
func (s Section) Options(base Options) Options {
	if s.Mode != "" {
		base.Mode = s.Mode
	}
	if s.Columns != 0 {
		base.Columns = s.Columns
	}
	return base
}
