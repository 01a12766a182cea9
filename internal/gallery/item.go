package gallery

import (
	"fmt"

	"github.com/JaimeStill/portfolio/internal/orientation"
	"github.com/google/uuid"
)

// Variants holds precomputed resolution tiers of one image.
type Variants struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
	Main   string `json:"main"`
}

// Largest returns the highest resolution variant that is set.
func (v *Variants) Largest() string {
	if v == nil {
		return ""
	}
	for _, u := range []string{v.Main, v.Large, v.Medium, v.Small} {
		if u != "" {
			return u
		}
	}
	return ""
}

// ImageItem is one displayable image. Position is its index in the source
// list. Width and Height are zero until a dimension probe discovers them.
type ImageItem struct {
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	Position int       `json:"position"`
	URLs     *Variants `json:"urls,omitempty"`
	Alt      string    `json:"alt,omitempty"`
	Title    string    `json:"title,omitempty"`
	Width    int       `json:"width,omitempty"`
	Height   int       `json:"height,omitempty"`
}

// NewImageItem creates an item for url at position index with a fresh ID.
func NewImageItem(url string, index int) ImageItem {
	return ImageItem{
		ID:       newItemID(url, index),
		URL:      url,
		Position: index,
	}
}

// newItemID derives an identifier from the URL and index under a random
// namespace, so two loads of the same list never share IDs.
func newItemID(url string, index int) string {
	return uuid.NewSHA1(uuid.New(), fmt.Appendf(nil, "%s#%d", url, index)).String()
}

// HasDimensions reports whether natural dimensions are known.
func (i ImageItem) HasDimensions() bool {
	return i.Width > 0 && i.Height > 0
}

// Orientation classifies the item, or returns Unknown without dimensions.
func (i ImageItem) Orientation() orientation.Orientation {
	return orientation.ClassifyInts(i.Width, i.Height)
}

// WithDimensions returns a copy of the item with discovered dimensions merged in.
func (i ImageItem) WithDimensions(width, height int) ImageItem {
	i.Width = width
	i.Height = height
	return i
}

// Source returns the best URL for full-size display.
func (i ImageItem) Source() string {
	if u := i.URLs.Largest(); u != "" {
		return u
	}
	return i.URL
}
