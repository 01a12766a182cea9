// Package site owns the portfolio catalog, the client route table and the
// gallery HTTP surface built on the progressive loader.
package site

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/JaimeStill/portfolio/internal/gallery"
	"github.com/JaimeStill/portfolio/internal/grid"
	"github.com/JaimeStill/portfolio/internal/locale"
	"gopkg.in/yaml.v3"
)

var (
	ErrNotFound       = errors.New("gallery not found")
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// HomeSlug identifies the home page gallery.
const HomeSlug = "home"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Localized holds one string per language.
type Localized map[locale.Language]string

// In returns the text for lang, falling back to the default language.
func (l Localized) In(lang locale.Language) string {
	if v, ok := l[lang]; ok && v != "" {
		return v
	}
	return l[locale.DefaultLanguage]
}

// Gallery is one image collection: the home page or a project.
type Gallery struct {
	Slug        string         `yaml:"slug" json:"slug"`
	Title       Localized      `yaml:"title" json:"-"`
	Description Localized      `yaml:"description" json:"-"`
	Images      []string       `yaml:"images" json:"images"`
	Priority    int            `yaml:"priority" json:"priority"`
	Grid        grid.Options   `yaml:"grid" json:"grid"`
	Sections    []grid.Section `yaml:"sections" json:"sections"`
}

// PrintStore is an external shop selling prints.
type PrintStore struct {
	Name        string    `yaml:"name"`
	URL         string    `yaml:"url"`
	Description Localized `yaml:"description"`
}

// Catalog is the whole site content.
type Catalog struct {
	Home     Gallery      `yaml:"home"`
	About    Localized    `yaml:"about"`
	Projects []Gallery    `yaml:"projects"`
	Prints   []PrintStore `yaml:"prints"`
}

// LoadCatalog reads and validates a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	c.Home.Slug = HomeSlug
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if err := validateGallery(&c.Home); err != nil {
		return err
	}

	seen := map[string]bool{HomeSlug: true}
	for i := range c.Projects {
		p := &c.Projects[i]
		if !slugPattern.MatchString(p.Slug) {
			return fmt.Errorf("%w: project %d: invalid slug %q", ErrInvalidCatalog, i, p.Slug)
		}
		if seen[p.Slug] {
			return fmt.Errorf("%w: duplicate slug %q", ErrInvalidCatalog, p.Slug)
		}
		seen[p.Slug] = true

		if err := validateGallery(p); err != nil {
			return err
		}
	}

	for i, s := range c.Prints {
		if s.Name == "" || !gallery.ValidateURL(s.URL) {
			return fmt.Errorf("%w: print store %d needs a name and an http(s) url", ErrInvalidCatalog, i)
		}
	}
	return nil
}

func validateGallery(g *Gallery) error {
	if len(g.Images) == 0 {
		return fmt.Errorf("%w: %s: no images", ErrInvalidCatalog, g.Slug)
	}
	if err := g.Grid.WithDefaults().Validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, g.Slug, err)
	}
	for _, s := range g.Sections {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, g.Slug, err)
		}
		if err := s.Options(g.Grid).WithDefaults().Validate(); err != nil {
			return fmt.Errorf("%w: %s: section %q: %v", ErrInvalidCatalog, g.Slug, s.Name, err)
		}
	}
	return nil
}

// Gallery returns the gallery for slug, including the home gallery.
func (c *Catalog) Gallery(slug string) (*Gallery, error) {
	if slug == HomeSlug {
		return &c.Home, nil
	}
	for i := range c.Projects {
		if c.Projects[i].Slug == slug {
			return &c.Projects[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, slug)
}
