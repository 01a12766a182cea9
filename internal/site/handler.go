package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/portfolio/internal/analytics"
	"github.com/JaimeStill/portfolio/internal/gallery"
	"github.com/JaimeStill/portfolio/internal/grid"
	"github.com/JaimeStill/portfolio/internal/locale"
	"github.com/JaimeStill/portfolio/internal/session"
	"github.com/JaimeStill/portfolio/pkg/handlers"
	"github.com/JaimeStill/portfolio/pkg/routes"
)

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotLoaded):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

type Handler struct {
	svc        *Service
	views      *Views
	table      *RouteTable
	translator locale.Translator
	tracker    analytics.Tracker
	logger     *slog.Logger
	secure     bool
}

func NewHandler(svc *Service, views *Views, table *RouteTable, translator locale.Translator, tracker analytics.Tracker, logger *slog.Logger, secure bool) *Handler {
	return &Handler{
		svc:        svc,
		views:      views,
		table:      table,
		translator: translator,
		tracker:    tracker,
		logger:     logger.With("handler", "site"),
		secure:     secure,
	}
}

// Routes returns the route, project, print and gallery groups.
func (h *Handler) Routes() []routes.Group {
	return []routes.Group{
		{
			Prefix:      "/routes",
			Description: "Client route table",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: h.ListRoutes},
				{Method: "GET", Pattern: "/resolve", Handler: h.ResolveRoute},
			},
		},
		{
			Prefix:      "/projects",
			Description: "Project showcases",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: h.ListProjects},
				{Method: "GET", Pattern: "/{slug}", Handler: h.FindProject},
			},
		},
		{
			Prefix:      "/prints",
			Description: "Print stores",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: h.ListPrints},
			},
		},
		{
			Prefix:      "/galleries",
			Description: "Progressive gallery loading",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/{slug}", Handler: h.Gallery},
				{Method: "GET", Pattern: "/{slug}/stream", Handler: h.Stream},
				{Method: "POST", Pattern: "/{slug}/images/{id}/click", Handler: h.Click},
				{Method: "POST", Pattern: "/{slug}/images/{id}/load", Handler: h.ImageLoaded},
				{Method: "POST", Pattern: "/{slug}/images/{id}/error", Handler: h.ImageFailed},
				{Method: "GET", Pattern: "/{slug}/images/{id}/zoom", Handler: h.Zoom},
				{Method: "DELETE", Pattern: "/{slug}/zoom", Handler: h.CloseZoom},
			},
		},
	}
}

func language(r *http.Request) locale.Language {
	return locale.Resolve(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}

type routeView struct {
	Path  string `json:"path"`
	Page  Page   `json:"page"`
	Slug  string `json:"slug,omitempty"`
	Title string `json:"title"`
}

func viewRoute(r Route, lang locale.Language) routeView {
	return routeView{Path: r.Path, Page: r.Page, Slug: r.Slug, Title: r.Title.In(lang)}
}

func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	lang := language(r)
	all := h.table.Routes()

	out := make([]routeView, len(all))
	for i, route := range all {
		out[i] = viewRoute(route, lang)
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}

type resolveResponse struct {
	Route    routeView `json:"route"`
	Redirect string    `json:"redirect,omitempty"`
}

// ResolveRoute resolves ?path= and records a page view. Unknown paths
// resolve to the root route with a redirect.
func (h *Handler) ResolveRoute(w http.ResponseWriter, r *http.Request) {
	lang := language(r)
	route, ok := h.table.Resolve(r.URL.Query().Get("path"))

	resp := resolveResponse{Route: viewRoute(route, lang)}
	if !ok {
		resp.Redirect = route.Path
	}

	event := analytics.Event{Type: analytics.PageView, Path: route.Path, Language: string(lang)}
	if route.Page == PageProject {
		event.Type = analytics.ProjectNavigation
		event.Label = route.Slug
	}
	h.track(r, event)

	handlers.RespondJSON(w, http.StatusOK, resp)
}

type projectSummary struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Cover       string `json:"cover"`
	ImageCount  int    `json:"image_count"`
}

func summarize(g *Gallery, lang locale.Language) projectSummary {
	return projectSummary{
		Slug:        g.Slug,
		Title:       g.Title.In(lang),
		Description: g.Description.In(lang),
		Cover:       g.Images[0],
		ImageCount:  len(g.Images),
	}
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	lang := language(r)
	projects := h.svc.Catalog().Projects

	out := make([]projectSummary, len(projects))
	for i := range projects {
		out[i] = summarize(&projects[i], lang)
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}

type projectDetail struct {
	projectSummary
	Images   []string       `json:"images"`
	Priority int            `json:"priority"`
	Grid     grid.Options   `json:"grid"`
	Sections []grid.Section `json:"sections"`
}

func (h *Handler) FindProject(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	g, err := h.svc.Catalog().Gallery(slug)
	if err != nil || slug == HomeSlug {
		if err == nil {
			err = fmt.Errorf("%w: %q", ErrNotFound, slug)
		}
		h.notFound(w, r, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, projectDetail{
		projectSummary: summarize(g, language(r)),
		Images:         g.Images,
		Priority:       g.Priority,
		Grid:           g.Grid.WithDefaults(),
		Sections:       g.Sections,
	})
}

type printView struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

func (h *Handler) ListPrints(w http.ResponseWriter, r *http.Request) {
	lang := language(r)
	prints := h.svc.Catalog().Prints

	out := make([]printView, len(prints))
	for i, p := range prints {
		out[i] = printView{Name: p.Name, URL: p.URL, Description: p.Description.In(lang)}
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}

type galleryResponse struct {
	Slug     string            `json:"slug"`
	State    gallery.LoadState `json:"state"`
	Sections []SectionLayout   `json:"sections"`
}

// Gallery loads the gallery to completion and returns its state and layout.
// Repeat requests with the same language reuse the client's loaded items.
func (h *Handler) Gallery(w http.ResponseWriter, r *http.Request) {
	lang := language(r)
	client := session.Ensure(w, r, h.secure)
	view, c, _, err := h.views.Open(client, r.PathValue("slug"), lang)
	if err != nil {
		h.notFound(w, r, err)
		return
	}

	state, err := c.Wait(r.Context())
	if err != nil {
		h.logger.Debug("client went away", "slug", view.Gallery.Slug, "error", err)
		return
	}

	sections, err := view.Render(r.Context(), c, state, h.listener(view.Gallery, lang, client))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, galleryResponse{Slug: view.Gallery.Slug, State: state, Sections: sections})
}

// Stream sends one "state" event per load transition, then a "layout" event
// with the final sections. A stream over a load already in progress starts
// from its current state.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	lang := language(r)
	client := session.Ensure(w, r, h.secure)
	view, c, fresh, err := h.views.Open(client, r.PathValue("slug"), lang)
	if err != nil {
		h.notFound(w, r, err)
		return
	}
	slug := view.Gallery.Slug

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	var last gallery.LoadState
	if fresh {
		for state := range c.Updates() {
			last = state
			if err := writeEvent(w, rc, "state", state); err != nil {
				h.logger.Debug("stream closed", "slug", slug, "error", err)
				return
			}
		}
	} else {
		if err := writeEvent(w, rc, "state", c.State()); err != nil {
			h.logger.Debug("stream closed", "slug", slug, "error", err)
			return
		}
		if last, err = c.Wait(r.Context()); err != nil {
			h.logger.Debug("stream closed", "slug", slug, "error", err)
			return
		}
		if err := writeEvent(w, rc, "state", last); err != nil {
			h.logger.Debug("stream closed", "slug", slug, "error", err)
			return
		}
	}

	sections, err := view.Render(r.Context(), c, last, h.listener(view.Gallery, lang, client))
	if err != nil {
		h.logger.Error("layout failed", "slug", slug, "error", err)
		return
	}
	if err := writeEvent(w, rc, "layout", sections); err != nil {
		h.logger.Debug("stream closed", "slug", slug, "error", err)
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload); err != nil {
		return err
	}
	return rc.Flush()
}

// listener observes the working set of a client's gallery: clicks are
// tracked and load errors are logged.
func (h *Handler) listener(g *Gallery, lang locale.Language, client string) grid.Listener {
	errs := grid.ListenerFuncs{
		Error: func(item gallery.ImageItem) {
			h.logger.Debug("image removed after load error", "slug", g.Slug, "id", item.ID, "url", item.URL)
		},
	}
	if h.tracker == nil {
		return errs
	}
	return grid.Listeners(analytics.NewClickTracker(h.tracker, galleryPath(g), string(lang), client), errs)
}

func galleryPath(g *Gallery) string {
	if g.Slug == HomeSlug {
		return "/"
	}
	return "/projects/" + g.Slug
}

func (h *Handler) view(r *http.Request) (*View, error) {
	client, ok := session.Peek(r)
	if !ok {
		return nil, fmt.Errorf("%w: no client session", ErrNotLoaded)
	}
	return h.views.Find(client, r.PathValue("slug"))
}

// Click reports a click on a rendered image.
func (h *Handler) Click(w http.ResponseWriter, r *http.Request) {
	h.imageEvent(w, r, func(v *View, id string) error {
		_, err := v.Click(id)
		return err
	})
}

// ImageLoaded reports that a rendered image displayed.
func (h *Handler) ImageLoaded(w http.ResponseWriter, r *http.Request) {
	h.imageEvent(w, r, (*View).Loaded)
}

// ImageFailed removes a rendered image that failed to display from the
// client's working set.
func (h *Handler) ImageFailed(w http.ResponseWriter, r *http.Request) {
	h.imageEvent(w, r, (*View).Failed)
}

func (h *Handler) imageEvent(w http.ResponseWriter, r *http.Request, fn func(*View, string) error) {
	v, err := h.view(r)
	if err == nil {
		err = fn(v, r.PathValue("id"))
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type zoomView struct {
	ID     string          `json:"id"`
	Source string          `json:"source"`
	Alt    string          `json:"alt,omitempty"`
	Status grid.ZoomStatus `json:"status"`
}

// Zoom opens the zoom overlay on a rendered image and loads its largest
// variant.
func (h *Handler) Zoom(w http.ResponseWriter, r *http.Request) {
	v, err := h.view(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	z, status, err := v.Zoom(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, zoomView{
		ID:     z.Image.ID,
		Source: z.Source(),
		Alt:    z.Image.Alt,
		Status: status,
	})
}

// CloseZoom closes the open zoom overlay.
func (h *Handler) CloseZoom(w http.ResponseWriter, r *http.Request) {
	v, err := h.view(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	v.CloseZoom()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) track(r *http.Request, event analytics.Event) {	if h.tracker == nil {
		return
	}
	if client, ok := session.Peek(r); ok {
		event.ClientID = client
	}
	h.tracker.Track(event)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, err error) {
	msg := err.Error()
	if h.translator != nil {
		msg = h.translator.Translate(language(r), locale.MsgGalleryNotFound, nil)
	}
	handlers.RespondMessage(w, h.logger, MapHTTPStatus(err), err, msg)
}
