package grid

import (
	"context"
	"sync"

	"github.com/JaimeStill/portfolio/internal/gallery"
)

// ZoomStatus is the internal display state of a zoom overlay.
type ZoomStatus string

const (
	ZoomLoading ZoomStatus = "loading"
	ZoomLoaded  ZoomStatus = "loaded"
	ZoomFailed  ZoomStatus = "failed"
)

// Zoom is a full-screen view of a single image. It owns only its own
// loading state; closing notifies the owner once.
type Zoom struct {
	Image   gallery.ImageItem
	OnClose func()

	mu     sync.Mutex
	status ZoomStatus
	once   sync.Once
}

// NewZoom opens a zoom overlay on image.
func NewZoom(image gallery.ImageItem, onClose func()) *Zoom {
	return &Zoom{
		Image:   image,
		OnClose: onClose,
		status:  ZoomLoading,
	}
}

// Source is the largest available variant of the image.
func (z *Zoom) Source() string {
	return z.Image.Source()
}

// Status returns the current display state.
func (z *Zoom) Status() ZoomStatus {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.status == "" {
		return ZoomLoading
	}
	return z.status
}

// Load fetches the large asset through prober and records the outcome.
func (z *Zoom) Load(ctx context.Context, prober gallery.Prober) ZoomStatus {
	status := ZoomLoaded
	if _, err := prober.Probe(ctx, z.Source()); err != nil {
		status = ZoomFailed
	}

	z.mu.Lock()
	z.status = status
	z.mu.Unlock()
	return status
}

// Close calls OnClose at most once.
func (z *Zoom) Close() {
	z.once.Do(func() {
		if z.OnClose != nil {
			z.OnClose()
		}
	})
}
