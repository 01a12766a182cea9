package grid_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JaimeStill/portfolio/internal/gallery"
	"github.com/JaimeStill/portfolio/internal/grid"
)

func TestSection_Slice(t *testing.T) {
	state := gallery.LoadState{
		Grid: []gallery.ImageItem{item("1", 1, 1), item("2", 1, 1), item("3", 1, 1), item("4", 1, 1)},
		Solo: []gallery.ImageItem{item("1", 1, 1), item("2", 1, 1), item("3", 1, 1), item("4", 1, 1)},
	}

	tests := []struct {
		name    string
		section grid.Section
		want    []string
	}{
		{"row", grid.Section{View: grid.ViewGrid, From: 0, To: 3}, []string{"1", "2", "3"}},
		{"solo", grid.Section{View: grid.ViewSolo, From: 3, To: 4}, []string{"4"}},
		{"open end", grid.Section{From: 2}, []string{"3", "4"}},
		{"past loaded", grid.Section{From: 3, To: 10}, []string{"4"}},
		{"not loaded yet", grid.Section{From: 6, To: 8}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.section.Slice(state)
			if len(got) != len(tt.want) {
				t.Fatalf("Slice() = %d items, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("item %d = %s, want %s", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}

func TestSection_Validate(t *testing.T) {
	if err := (grid.Section{Name: "x", View: "carousel"}).Validate(); err == nil {
		t.Error("Validate() accepted unknown view")
	}
	if err := (grid.Section{Name: "x", From: 3, To: 2}).Validate(); err == nil {
		t.Error("Validate() accepted inverted range")
	}
}

func TestSection_Options(t *testing.T) {
	base := grid.Options{Mode: grid.ModeGrid, Columns: 3}
	got := grid.Section{Mode: grid.ModeSolo}.Options(base)
	if got.Mode != grid.ModeSolo || got.Columns != 3 {
		t.Errorf("Options() = %+v", got)
	}
}

type fakeProber struct{ err error }

func (p fakeProber) Probe(ctx context.Context, url string) (gallery.Probe, error) {
	return gallery.Probe{}, p.err
}

func TestZoom(t *testing.T) {
	img := gallery.ImageItem{
		URL:  "https://cdn/a.jpg",
		URLs: &gallery.Variants{Small: "s", Large: "l"},
	}

	closes := 0
	z := grid.NewZoom(img, func() { closes++ })

	if z.Source() != "l" {
		t.Errorf("Source() = %q, want largest variant", z.Source())
	}
	if z.Status() != grid.ZoomLoading {
		t.Errorf("initial status = %s", z.Status())
	}
	if got := z.Load(context.Background(), fakeProber{}); got != grid.ZoomLoaded {
		t.Errorf("Load() = %s, want loaded", got)
	}
	if got := z.Load(context.Background(), fakeProber{err: errors.New("gone")}); got != grid.ZoomFailed {
		t.Errorf("Load() = %s, want failed", got)
	}

	z.Close()
	z.Close()
	if closes != 1 {
		t.Errorf("OnClose called %d times, want 1", closes)
	}
}
