// Package app serves the portfolio page shell and its embedded assets.
// Every client route renders the same shell with the visitor's language and
// theme applied to the root element; unknown paths redirect to the root.
package app

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/portfolio/internal/locale"
	"github.com/JaimeStill/portfolio/internal/preferences"
	"github.com/JaimeStill/portfolio/internal/session"
	"github.com/JaimeStill/portfolio/internal/site"
	"github.com/JaimeStill/portfolio/pkg/storage"
	"github.com/JaimeStill/portfolio/pkg/web"
)

//go:embed dist/*
var distFS embed.FS

//go:embed server/layouts/*
var layoutFS embed.FS

//go:embed server/pages/*
var pageFS embed.FS

const layout = "app.html"

var shell = web.PageDef{Template: "index.html", Bundle: "app"}

// Handler renders the shell for the routes in a RouteTable.
type Handler struct {
	templates *web.TemplateSet
	table     *site.RouteTable
	sys       storage.System
	logger    *slog.Logger
	secure    bool
}

// NewHandler parses the embedded templates. basePath prefixes every asset
// and link; it is empty when the app is mounted at the root.
func NewHandler(basePath string, table *site.RouteTable, sys storage.System, logger *slog.Logger, secure bool) (*Handler, error) {
	ts, err := web.NewTemplateSet(
		layoutFS,
		pageFS,
		"server/layouts/*.html",
		"server/pages",
		basePath,
		[]web.PageDef{shell},
	)
	if err != nil {
		return nil, err
	}
	return &Handler{
		templates: ts,
		table:     table,
		sys:       sys,
		logger:    logger.With("handler", "app"),
		secure:    secure,
	}, nil
}

// Router serves /dist/ from the embedded build and the shell for everything else.
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /dist/", web.Assets(distFS))
	mux.HandleFunc("GET /", h.Page)
	return mux
}

// Page renders the shell for a known route or redirects to the root.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	route, ok := h.table.Resolve(r.URL.Path)
	if !ok {
		http.Redirect(w, r, h.templates.BasePath()+"/", http.StatusFound)
		return
	}

	state := h.preferences(w, r)
	root := state.Root()

	data := web.PageData{
		Title:   route.Title.In(state.Language()),
		Lang:    root.Lang,
		Classes: root.Classes,
		Data:    route,
	}
	if err := h.templates.Render(w, http.StatusOK, layout, shell, data); err != nil {
		h.logger.Error("render failed", "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// preferences loads the visitor's stored state. Storage failures fall back
// to defaults so the page still renders.
func (h *Handler) preferences(w http.ResponseWriter, r *http.Request) *preferences.AppState {
	accept := r.Header.Get("Accept-Language")
	client := session.Ensure(w, r, h.secure)

	state, err := preferences.Load(r.Context(), preferences.NewStorageStore(h.sys, client), accept)
	if err != nil {
		h.logger.Warn("preferences unavailable", "error", err)
		return preferences.NewAppState(nil, preferences.DefaultTheme, locale.Detect(accept))
	}
	return state
}

// Dist exposes the embedded build for callers that mount it elsewhere.
func Dist() fs.FS {
	sub, _ := fs.Sub(distFS, "dist")
	return sub
}
