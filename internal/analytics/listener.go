package analytics

import "github.com/JaimeStill/portfolio/internal/gallery"

// ClickTracker is a grid listener that reports image clicks.
type ClickTracker struct {
	tracker  Tracker
	path     string
	language string
	clientID string
}

// NewClickTracker reports clicks on the page at path.
func NewClickTracker(tracker Tracker, path, language, clientID string) *ClickTracker {
	return &ClickTracker{
		tracker:  tracker,
		path:     path,
		language: language,
		clientID: clientID,
	}
}

func (c *ClickTracker) OnClick(item gallery.ImageItem) {
	c.tracker.Track(Event{
		Type:     ImageClick,
		Path:     c.path,
		Label:    item.URL,
		Value:    item.ID,
		Language: c.language,
		ClientID: c.clientID,
	})
}

func (c *ClickTracker) OnLoad(gallery.ImageItem) {}

func (c *ClickTracker) OnError(gallery.ImageItem) {}
