package api

import (
	"fmt"

	"github.com/JaimeStill/portfolio/internal/contact"
	"github.com/JaimeStill/portfolio/internal/gallery"
	"github.com/JaimeStill/portfolio/internal/grid"
	"github.com/JaimeStill/portfolio/internal/site"
)

// Domain holds the systems behind the API.
type Domain struct {
	Catalog *site.Catalog
	Routes  *site.RouteTable
	Site    *site.Service
	Views   *site.Views
	Contact contact.Sender
}

// NewDomain loads the catalog and assembles the site systems.
func NewDomain(runtime *Runtime) (*Domain, error) {
	cfg := runtime.Config

	catalog, err := site.LoadCatalog(cfg.Site.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	prober := gallery.NewHTTPProber(&cfg.Gallery, runtime.HTTP)
	loader := gallery.NewLoader(&cfg.Gallery, prober, runtime.Translator, runtime.Logger)

	runtime.Logger.Info(
		"catalog loaded",
		"path", cfg.Site.CatalogPath,
		"projects", len(catalog.Projects),
		"home_images", len(catalog.Home.Images),
	)

	svc := site.NewService(catalog, loader, grid.FromProber(prober), cfg.Gallery.CacheBust)
	views := site.NewViews(svc, prober, runtime.Logger)
	views.Start(runtime.Lifecycle)

	return &Domain{
		Catalog: catalog,
		Routes:  site.NewRouteTable(catalog, runtime.Translator),
		Site:    svc,
		Views:   views,
		Contact: contact.NewClient(&cfg.Contact, nil),
	}, nil
}
