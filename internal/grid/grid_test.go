package grid_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/JaimeStill/portfolio/internal/gallery"
	"github.com/JaimeStill/portfolio/internal/grid"
	"github.com/JaimeStill/portfolio/internal/orientation"
)

func item(id string, w, h int) gallery.ImageItem {
	return gallery.ImageItem{ID: id, URL: "https://x/" + id + ".jpg", Width: w, Height: h}
}

type dims map[string][2]int

func (d dims) Dimensions(ctx context.Context, it gallery.ImageItem) (int, int, error) {
	v, ok := d[it.ID]
	if !ok {
		return 0, 0, errors.New("unreachable")
	}
	return v[0], v[1], nil
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name string
		opts grid.Options
		want error
	}{
		{"defaults", grid.Options{}, nil},
		{"two columns", grid.Options{Columns: 2}, nil},
		{"five columns", grid.Options{Columns: 5}, nil},
		{"one column", grid.Options{Columns: 1}, grid.ErrInvalidColumns},
		{"six columns", grid.Options{Columns: 6}, grid.ErrInvalidColumns},
		{"bad mode", grid.Options{Mode: "masonry"}, grid.ErrInvalidMode},
		{"bad adaptive", grid.Options{Adaptive: "sometimes"}, grid.ErrInvalidAdaptive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.WithDefaults().Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLayout_Auto(t *testing.T) {
	images := []gallery.ImageItem{
		item("wide", 3000, 1000),
		item("tall", 300, 1000),
		item("probed", 0, 0),
		item("unreachable", 0, 0),
	}
	prober := dims{"probed": {600, 800}}

	r, err := grid.New(images, grid.Options{Columns: 3}, nil, prober)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	placements := r.Layout(context.Background())
	if len(placements) != 4 {
		t.Fatalf("Layout() = %d placements, want 4", len(placements))
	}

	want := []struct {
		o        orientation.Orientation
		rule     orientation.Rule
		row, col int
	}{
		{orientation.UltraWide, orientation.DefaultRules.UltraWide, 0, 0},
		{orientation.UltraTall, orientation.DefaultRules.UltraTall, 0, 1},
		{orientation.Portrait, orientation.DefaultRules.Portrait, 0, 2},
		{orientation.Square, orientation.DefaultRules.Square, 1, 0},
	}

	for i, w := range want {
		p := placements[i]
		if p.Orientation != w.o || p.Rule != w.rule || p.Row != w.row || p.Column != w.col {
			t.Errorf("placement %d = %+v, want %v %+v at (%d,%d)", i, p, w.o, w.rule, w.row, w.col)
		}
	}
}

func TestLayout_Manual(t *testing.T) {
	fallback := orientation.Rule{AspectRatio: orientation.AspectVideo, ObjectFit: orientation.FitContain}
	var probes atomic.Int32
	prober := dimensionFunc(func() { probes.Add(1) })

	r, err := grid.New(
		[]gallery.ImageItem{item("a", 3000, 1000), item("b", 0, 0)},
		grid.Options{Mode: grid.ModeSolo, Adaptive: grid.AdaptiveManual, Fallback: fallback},
		nil, prober,
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	for i, p := range r.Layout(context.Background()) {
		if p.Rule != fallback {
			t.Errorf("placement %d rule = %+v, want fallback", i, p.Rule)
		}
		if p.Row != i || p.Column != 0 {
			t.Errorf("solo placement %d at (%d,%d)", i, p.Row, p.Column)
		}
	}
	if probes.Load() != 0 {
		t.Errorf("manual mode probed %d images", probes.Load())
	}
}

type dimensionFunc func()

func (f dimensionFunc) Dimensions(ctx context.Context, it gallery.ImageItem) (int, int, error) {
	f()
	return 100, 100, nil
}

func TestLayout_ProbesOnce(t *testing.T) {
	var probes atomic.Int32
	r, err := grid.New([]gallery.ImageItem{item("a", 0, 0)}, grid.Options{}, nil, dimensionFunc(func() { probes.Add(1) }))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	r.Layout(context.Background())
	r.Layout(context.Background())

	if probes.Load() != 1 {
		t.Errorf("probes = %d, want 1", probes.Load())
	}
}

func TestLayout_CustomTableMissingEntry(t *testing.T) {
	table := orientation.RuleTable{
		Landscape: orientation.Rule{AspectRatio: orientation.AspectVideo, ObjectFit: orientation.FitCover},
	}
	fallback := orientation.Rule{AspectRatio: orientation.AspectAuto, ObjectFit: orientation.FitContain}

	r, err := grid.New(
		[]gallery.ImageItem{item("land", 1600, 1000), item("port", 700, 1000)},
		grid.Options{Rules: table, Fallback: fallback},
		nil, nil,
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	p := r.Layout(context.Background())
	if p[0].Rule != table.Landscape {
		t.Errorf("landscape rule = %+v", p[0].Rule)
	}
	if p[1].Rule != fallback {
		t.Errorf("portrait rule = %+v, want fallback", p[1].Rule)
	}
}

func TestRenderer_Events(t *testing.T) {
	var clicks, loads, errs []string
	listener := grid.ListenerFuncs{
		Click: func(it gallery.ImageItem) { clicks = append(clicks, it.ID) },
		Load:  func(it gallery.ImageItem) { loads = append(loads, it.ID) },
		Error: func(it gallery.ImageItem) { errs = append(errs, it.ID) },
	}

	r, err := grid.New([]gallery.ImageItem{item("a", 1, 1), item("b", 1, 1)}, grid.Options{}, listener, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	r.HandleLoad("a")
	r.HandleLoad("a")
	if len(loads) != 1 {
		t.Errorf("loads = %v, want one", loads)
	}

	if !r.HandleError("b") {
		t.Error("HandleError(b) = false")
	}
	if r.HandleError("b") {
		t.Error("second HandleError(b) = true")
	}
	if len(errs) != 1 {
		t.Errorf("errors = %v, want one", errs)
	}
	if items := r.Items(); len(items) != 1 || items[0].ID != "a" {
		t.Errorf("Items() = %v, want only a", items)
	}
	if got := len(r.Layout(context.Background())); got != 1 {
		t.Errorf("Layout() after error = %d placements, want 1", got)
	}

	r.HandleClick("a")
	r.HandleClick("a")
	if _, ok := r.HandleClick("b"); ok {
		t.Error("HandleClick on removed image succeeded")
	}
	if len(clicks) != 2 {
		t.Errorf("clicks = %v, want two", clicks)
	}
}

func TestListeners_FanOut(t *testing.T) {
	var first, second int
	l := grid.Listeners(
		grid.ListenerFuncs{Click: func(gallery.ImageItem) { first++ }},
		nil,
		grid.ListenerFuncs{Click: func(gallery.ImageItem) { second++ }},
	)

	l.OnClick(item("a", 1, 1))
	l.OnLoad(item("a", 1, 1))

	if first != 1 || second != 1 {
		t.Errorf("fan-out counts = %d/%d, want 1/1", first, second)
	}
}
