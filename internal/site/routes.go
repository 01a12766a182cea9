package site

import (
	"strings"

	"github.com/JaimeStill/portfolio/internal/locale"
)

// Page names the client component a route renders.
type Page string

const (
	PageHome     Page = "home"
	PageAbout    Page = "about"
	PageProjects Page = "projects"
	PageProject  Page = "project"
	PageContact  Page = "contact"
	PagePrints   Page = "prints"
)

// Route is one client-side path.
type Route struct {
	Path  string    `json:"path"`
	Page  Page      `json:"page"`
	Slug  string    `json:"slug,omitempty"`
	Title Localized `json:"-"`
}

// RouteTable maps paths to pages. Unknown paths redirect to "/".
type RouteTable struct {
	routes []Route
	index  map[string]Route
}

// NewRouteTable builds the fixed pages plus one route per project. titles
// resolves the fixed page names in each language.
func NewRouteTable(c *Catalog, titles locale.Translator) *RouteTable {
	fixed := []struct {
		path string
		page Page
		msg  string
	}{
		{"/", PageHome, locale.MsgPageHome},
		{"/about", PageAbout, locale.MsgPageAbout},
		{"/projects", PageProjects, locale.MsgPageProjects},
		{"/contact", PageContact, locale.MsgPageContact},
		{"/prints", PagePrints, locale.MsgPagePrints},
	}

	t := &RouteTable{index: make(map[string]Route)}
	for _, f := range fixed {
		title := Localized{}
		for _, lang := range locale.Supported {
			if titles != nil {
				title[lang] = titles.Translate(lang, f.msg, nil)
			}
		}
		t.add(Route{Path: f.path, Page: f.page, Title: title})
	}

	for _, p := range c.Projects {
		t.add(Route{Path: "/projects/" + p.Slug, Page: PageProject, Slug: p.Slug, Title: p.Title})
	}
	return t
}

func (t *RouteTable) add(r Route) {
	t.routes = append(t.routes, r)
	t.index[r.Path] = r
}

// Routes returns every route in registration order.
func (t *RouteTable) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Resolve returns the route for path. Unknown paths return the root route
// and false, meaning the caller should redirect.
func (t *RouteTable) Resolve(path string) (Route, bool) {
	if r, ok := t.index[normalizePath(path)]; ok {
		return r, true
	}
	return t.index["/"], false
}

func normalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path = strings.TrimRight(path, "/"); path == "" {
		return "/"
	}
	return path
}
