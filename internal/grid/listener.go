package grid

import "github.com/JaimeStill/portfolio/internal/gallery"

// Listener observes rendered images. The renderer calls OnLoad and OnError
// at most once per item and OnClick once per click.
type Listener interface {
	OnClick(item gallery.ImageItem)
	OnLoad(item gallery.ImageItem)
	OnError(item gallery.ImageItem)
}

// ListenerFuncs adapts optional functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Click func(gallery.ImageItem)
	Load  func(gallery.ImageItem)
	Error func(gallery.ImageItem)
}

func (f ListenerFuncs) OnClick(item gallery.ImageItem) {
	if f.Click != nil {
		f.Click(item)
	}
}

func (f ListenerFuncs) OnLoad(item gallery.ImageItem) {
	if f.Load != nil {
		f.Load(item)
	}
}

func (f ListenerFuncs) OnError(item gallery.ImageItem) {
	if f.Error != nil {
		f.Error(item)
	}
}

type multiListener []Listener

// Listeners fans each event out to every non-nil listener in order.
func Listeners(ls ...Listener) Listener {
	out := make(multiListener, 0, len(ls))
	for _, l := range ls {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (m multiListener) OnClick(item gallery.ImageItem) {
	for _, l := range m {
		l.OnClick(item)
	}
}

func (m multiListener) OnLoad(item gallery.ImageItem) {
	for _, l := range m {
		l.OnLoad(item)
	}
}

func (m multiListener) OnError(item gallery.ImageItem) {
	for _, l := range m {
		l.OnError(item)
	}
}
