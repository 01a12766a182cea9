package site_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/JaimeStill/portfolio/internal/analytics"
	"github.com/JaimeStill/portfolio/internal/gallery"
	"github.com/JaimeStill/portfolio/internal/grid"
	"github.com/JaimeStill/portfolio/internal/locale"
	"github.com/JaimeStill/portfolio/internal/orientation"
	"github.com/JaimeStill/portfolio/internal/site"
	"github.com/JaimeStill/portfolio/pkg/logging"
	"github.com/JaimeStill/portfolio/pkg/routes"
)

const catalogYAML = `
home:
  priority: 2
  images:
    - https://cdn.example.com/1.jpg
    - https://cdn.example.com/2.jpg
    - https://cdn.example.com/3.jpg
    - https://cdn.example.com/4.jpg
  grid:
    columns: 3
  sections:
    - name: hero
      view: grid
      from: 0
      to: 3
    - name: feature
      view: solo
      from: 3
      to: 4
      mode: solo
about:
  en: Painter based in Lisbon.
  pt: Pintora em Lisboa.
projects:
  - slug: ink-studies
    title:
      en: Ink studies
      pt: Estudos a tinta
    priority: 1
    images:
      - https://cdn.example.com/ink-1.jpg
      - https://cdn.example.com/ink-2.jpg
    grid:
      columns: 2
      adaptive: manual
      fallback:
        aspect_ratio: portrait
        object_fit: contain
  - slug: coast
    title:
      en: Coast
    images:
      - https://cdn.example.com/coast-1.jpg
    grid:
      rules:
        landscape:
          aspect_ratio: video
          object_fit: cover
prints:
  - name: Print shop
    url: https://prints.example.com
    description:
      en: Giclée prints
      pt: Impressões giclée
`

func parseCatalog(t *testing.T) *site.Catalog {
	t.Helper()
	c, err := site.ParseCatalog([]byte(catalogYAML))
	if err != nil {
		t.Fatalf("ParseCatalog() failed: %v", err)
	}
	return c
}

func TestParseCatalog(t *testing.T) {
	c := parseCatalog(t)

	if c.Home.Slug != site.HomeSlug || len(c.Home.Images) != 4 {
		t.Errorf("home = %+v", c.Home)
	}
	if len(c.Projects) != 2 {
		t.Fatalf("projects = %d, want 2", len(c.Projects))
	}

	ink := c.Projects[0]
	if ink.Grid.Adaptive != grid.AdaptiveManual || ink.Grid.Fallback.ObjectFit != orientation.FitContain {
		t.Errorf("ink grid = %+v", ink.Grid)
	}
	if ink.Title.In(locale.Portuguese) != "Estudos a tinta" {
		t.Errorf("pt title = %q", ink.Title.In(locale.Portuguese))
	}
	if c.Projects[1].Title.In(locale.Portuguese) != "Coast" {
		t.Errorf("missing pt title did not fall back to en")
	}
	if c.Projects[1].Grid.Rules.Landscape.AspectRatio != orientation.AspectVideo {
		t.Errorf("coast rules = %+v", c.Projects[1].Grid.Rules)
	}
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no home images", "home: {images: []}"},
		{"bad slug", "home: {images: [https://x/a.jpg]}\nprojects: [{slug: Bad Slug, images: [https://x/b.jpg]}]"},
		{"duplicate slug", "home: {images: [https://x/a.jpg]}\nprojects: [{slug: a, images: [https://x/b.jpg]}, {slug: a, images: [https://x/c.jpg]}]"},
		{"home slug", "home: {images: [https://x/a.jpg]}\nprojects: [{slug: home, images: [https://x/b.jpg]}]"},
		{"bad columns", "home: {images: [https://x/a.jpg], grid: {columns: 7}}"},
		{"bad fit", "home: {images: [https://x/a.jpg], grid: {fallback: {aspect_ratio: square, object_fit: stretch}}}"},
		{"bad print", "home: {images: [https://x/a.jpg]}\nprints: [{name: shop, url: ftp://shop}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := site.ParseCatalog([]byte(tt.yaml)); !errors.Is(err, site.ErrInvalidCatalog) {
				t.Errorf("ParseCatalog() = %v, want ErrInvalidCatalog", err)
			}
		})
	}
}

func newCatalog(t *testing.T) *locale.Catalog {
	t.Helper()
	c, err := locale.NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog() failed: %v", err)
	}
	return c
}

func TestRouteTable_Resolve(t *testing.T) {
	table := site.NewRouteTable(parseCatalog(t), newCatalog(t))

	tests := []struct {
		path  string
		want  string
		known bool
	}{
		{"/", "/", true},
		{"", "/", true},
		{"/about/", "/about", true},
		{"/prints?ref=x", "/prints", true},
		{"/projects/ink-studies", "/projects/ink-studies", true},
		{"/projects/missing", "/", false},
		{"/admin", "/", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r, ok := table.Resolve(tt.path)
			if r.Path != tt.want || ok != tt.known {
				t.Errorf("Resolve(%q) = %s,%v want %s,%v", tt.path, r.Path, ok, tt.want, tt.known)
			}
		})
	}

	if n := len(table.Routes()); n != 7 {
		t.Errorf("Routes() = %d, want 7", n)
	}
}

type recorder struct {
	mu     sync.Mutex
	events []analytics.Event
}

func (r *recorder) Track(e analytics.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Events() []analytics.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]analytics.Event(nil), r.events...)
}

func newServer(t *testing.T, prober gallery.Prober) (*httptest.Server, *recorder) {
	t.Helper()

	cfg := &gallery.Config{CDNHosts: []string{"cdn.example.com"}}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	translator := newCatalog(t)
	catalog := parseCatalog(t)
	loader := gallery.NewLoader(cfg, prober, translator, logging.Discard())
	svc := site.NewService(catalog, loader, grid.FromProber(prober), false)
	views := site.NewViews(svc, prober, logging.Discard())
	rec := &recorder{}
	h := site.NewHandler(svc, views, site.NewRouteTable(catalog, translator), translator, rec, logging.Discard(), false)

	sys := routes.New(logging.Discard())
	sys.RegisterGroup(routes.Group{Prefix: "/api", Children: h.Routes()})

	srv := httptest.NewServer(sys.Build())
	t.Cleanup(srv.Close)
	return srv, rec
}

func landscapeProber() gallery.Prober {
	return gallery.ProberFunc(func(ctx context.Context, url string) (gallery.Probe, error) {
		if strings.HasSuffix(url, "/2.jpg") {
			return gallery.Probe{}, gallery.ErrProbeFailed
		}
		return gallery.Probe{Width: 1600, Height: 1000}, nil
	})
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New() failed: %v", err)
	}
	return &http.Client{Jar: jar}
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	return getWith(t, http.DefaultClient, url, v)
}

func getWith(t *testing.T, client *http.Client, url string, v any) int {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil {
		json.NewDecoder(resp.Body).Decode(v)
	}
	return resp.StatusCode
}

func TestHandler_Gallery(t *testing.T) {
	srv, _ := newServer(t, landscapeProber())

	var body struct {
		Slug  string            `json:"slug"`
		State gallery.LoadState `json:"state"`
		Sections []struct {
			Name       string           `json:"name"`
			Mode       string           `json:"mode"`
			Placements []grid.Placement `json:"placements"`
		} `json:"sections"`
	}
	if status := getJSON(t, srv.URL+"/api/galleries/home?lang=pt", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}

	if len(body.State.Grid) != 3 || body.State.Loading || body.State.LazyLoading {
		t.Fatalf("state = %+v", body.State)
	}
	if body.State.Grid[0].Alt != "Obra 1" || body.State.Grid[0].URLs == nil {
		t.Errorf("first item not optimized: %+v", body.State.Grid[0])
	}
	if len(body.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(body.Sections))
	}
	if len(body.Sections[0].Placements) != 3 {
		t.Errorf("hero placements = %d, want 3", len(body.Sections[0].Placements))
	}
	hero := body.Sections[0].Placements[0]
	if hero.Orientation != orientation.Landscape || hero.Rule != orientation.DefaultRules.Landscape {
		t.Errorf("hero placement = %+v", hero)
	}
	if body.Sections[1].Mode != "solo" || len(body.Sections[1].Placements) != 0 {
		t.Errorf("feature section = %+v", body.Sections[1])
	}
}

func TestHandler_Gallery_NotFound(t *testing.T) {
	srv, _ := newServer(t, landscapeProber())

	var body map[string]string
	if status := getJSON(t, srv.URL+"/api/galleries/nope?lang=en", &body); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if body["error"] != "Gallery not found." {
		t.Errorf("error = %q", body["error"])
	}
}

func TestHandler_Stream(t *testing.T) {
	srv, _ := newServer(t, landscapeProber())

	resp, err := http.Get(srv.URL + "/api/galleries/ink-studies/stream")
	if err != nil {
		t.Fatalf("GET stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	var events []string
	var states []gallery.LoadState
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			events = append(events, name)
		}
		if data, ok := strings.CutPrefix(line, "data: "); ok && events[len(events)-1] == "state" {
			var s gallery.LoadState
			if err := json.Unmarshal([]byte(data), &s); err != nil {
				t.Fatalf("decode state: %v", err)
			}
			states = append(states, s)
		}
	}

	want := []string{"state", "state", "state", "layout"}
	if strings.Join(events, ",") != strings.Join(want, ",") {
		t.Fatalf("events = %v, want %v", events, want)
	}
	if !states[0].Loading || len(states[1].Grid) != 1 || !states[1].LazyLoading || len(states[2].Grid) != 2 {
		t.Errorf("state sequence = %+v", states)
	}
}

func TestHandler_Catalog(t *testing.T) {
	srv, rec := newServer(t, landscapeProber())

	var projects []map[string]any
	getJSON(t, srv.URL+"/api/projects?lang=pt", &projects)
	if len(projects) != 2 || projects[0]["title"] != "Estudos a tinta" {
		t.Errorf("projects = %v", projects)
	}

	if status := getJSON(t, srv.URL+"/api/projects/home", nil); status != http.StatusNotFound {
		t.Errorf("GET /api/projects/home = %d, want 404", status)
	}

	var prints []map[string]any
	getJSON(t, srv.URL+"/api/prints?lang=en", &prints)
	if len(prints) != 1 || prints[0]["description"] != "Giclée prints" {
		t.Errorf("prints = %v", prints)
	}

	var routesList []map[string]any
	getJSON(t, srv.URL+"/api/routes?lang=pt", &routesList)
	if len(routesList) != 7 {
		t.Errorf("routes = %d, want 7", len(routesList))
	}

	var resolved struct {
		Route    map[string]any `json:"route"`
		Redirect string         `json:"redirect"`
	}
	getJSON(t, srv.URL+"/api/routes/resolve?path=/nowhere", &resolved)
	if resolved.Redirect != "/" {
		t.Errorf("redirect = %q, want /", resolved.Redirect)
	}
	getJSON(t, srv.URL+"/api/routes/resolve?path=/projects/coast", &resolved)

	events := rec.Events()
	if len(events) != 2 || events[0].Type != analytics.PageView || events[1].Type != analytics.ProjectNavigation {
		t.Errorf("events = %+v", events)
	}
}

type galleryBody struct {
	State    gallery.LoadState `json:"state"`
	Sections []struct {
		Name       string           `json:"name"`
		Placements []grid.Placement `json:"placements"`
	} `json:"sections"`
}

func loadGallery(t *testing.T, client *http.Client, url string) galleryBody {
	t.Helper()
	var body galleryBody
	if status := getWith(t, client, url, &body); status != http.StatusOK {
		t.Fatalf("GET %s = %d", url, status)
	}
	return body
}

func post(t *testing.T, client *http.Client, url string) int {
	t.Helper()
	resp, err := client.Post(url, "application/json", nil)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestHandler_Click(t *testing.T) {
	srv, rec := newServer(t, landscapeProber())
	client := newClient(t)

	body := loadGallery(t, client, srv.URL+"/api/galleries/coast?lang=en")
	if len(body.State.Grid) != 1 {
		t.Fatalf("grid = %+v", body.State.Grid)
	}
	rendered := body.State.Grid[0]

	if status := post(t, client, srv.URL+"/api/galleries/coast/images/"+rendered.ID+"/click"); status != http.StatusAccepted {
		t.Errorf("click status = %d, want 202", status)
	}
	if status := post(t, client, srv.URL+"/api/galleries/coast/images/unknown/click"); status != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", status)
	}
	if status := post(t, http.DefaultClient, srv.URL+"/api/galleries/coast/images/"+rendered.ID+"/click"); status != http.StatusConflict {
		t.Errorf("no session status = %d, want 409", status)
	}

	events := rec.Events()
	if len(events) != 1 {
		t.Fatalf("events = %+v, want 1", events)
	}
	e := events[0]
	if e.Type != analytics.ImageClick || e.Path != "/projects/coast" || e.Language != "en" {
		t.Errorf("event = %+v", e)
	}
	if e.Value != rendered.ID || e.Label != rendered.URL {
		t.Errorf("event item = %s %s, want rendered %s %s", e.Value, e.Label, rendered.ID, rendered.URL)
	}
	if e.ClientID == "" {
		t.Error("event has no client id")
	}
}

func TestHandler_Gallery_ReusesLoad(t *testing.T) {
	srv, _ := newServer(t, landscapeProber())
	client := newClient(t)

	first := loadGallery(t, client, srv.URL+"/api/galleries/home?lang=en")
	again := loadGallery(t, client, srv.URL+"/api/galleries/home?lang=en")
	if first.State.Grid[0].ID != again.State.Grid[0].ID {
		t.Error("unchanged request started a new load")
	}

	switched := loadGallery(t, client, srv.URL+"/api/galleries/home?lang=pt")
	if switched.State.Grid[0].ID == first.State.Grid[0].ID {
		t.Error("language change reused the previous load")
	}
	if switched.State.Grid[0].Alt != "Obra 1" {
		t.Errorf("alt = %q", switched.State.Grid[0].Alt)
	}

	other := loadGallery(t, newClient(t), srv.URL+"/api/galleries/home?lang=en")
	if other.State.Grid[0].ID == first.State.Grid[0].ID {
		t.Error("clients share a load")
	}
}

func TestHandler_ImageFailed(t *testing.T) {
	srv, _ := newServer(t, landscapeProber())
	client := newClient(t)

	body := loadGallery(t, client, srv.URL+"/api/galleries/home")
	if len(body.Sections[0].Placements) != 3 {
		t.Fatalf("hero placements = %d, want 3", len(body.Sections[0].Placements))
	}
	failed := body.State.Grid[0]

	url := srv.URL + "/api/galleries/home/images/" + failed.ID + "/error"
	if status := post(t, client, url); status != http.StatusAccepted {
		t.Fatalf("error status = %d, want 202", status)
	}
	if status := post(t, client, url); status != http.StatusNotFound {
		t.Errorf("repeat error status = %d, want 404", status)
	}

	body = loadGallery(t, client, srv.URL+"/api/galleries/home")
	hero := body.Sections[0].Placements
	if len(hero) != 2 {
		t.Fatalf("hero placements after error = %d, want 2", len(hero))
	}
	for _, p := range hero {
		if p.Item.ID == failed.ID {
			t.Errorf("failed image %s still placed", failed.ID)
		}
	}

	if status := post(t, client, srv.URL+"/api/galleries/home/images/"+failed.ID+"/click"); status != http.StatusNotFound {
		t.Errorf("click on removed image = %d, want 404", status)
	}

	loaded := hero[0].Item.ID
	for range 2 {
		if status := post(t, client, srv.URL+"/api/galleries/home/images/"+loaded+"/load"); status != http.StatusAccepted {
			t.Errorf("load status = %d, want 202", status)
		}
	}
}

func TestHandler_Zoom(t *testing.T) {
	srv, _ := newServer(t, landscapeProber())
	client := newClient(t)

	body := loadGallery(t, client, srv.URL+"/api/galleries/ink-studies")
	item := body.State.Grid[0]

	var zoom struct {
		ID     string `json:"id"`
		Source string `json:"source"`
		Status string `json:"status"`
	}
	if status := getWith(t, client, srv.URL+"/api/galleries/ink-studies/images/"+item.ID+"/zoom", &zoom); status != http.StatusOK {
		t.Fatalf("zoom status = %d", status)
	}
	if zoom.ID != item.ID || zoom.Source != item.Source() || zoom.Status != string(grid.ZoomLoaded) {
		t.Errorf("zoom = %+v, want source %s", zoom, item.Source())
	}
	if zoom.Source == item.URL {
		t.Error("zoom did not use the largest variant")
	}

	if status := getWith(t, client, srv.URL+"/api/galleries/ink-studies/images/nope/zoom", nil); status != http.StatusNotFound {
		t.Errorf("unknown zoom status = %d, want 404", status)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/galleries/ink-studies/zoom", nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("DELETE zoom: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("close status = %d, want 204", resp.StatusCode)
	}
}

func TestHandler_Stream_ResumesLoad(t *testing.T) {
	srv, _ := newServer(t, landscapeProber())
	client := newClient(t)

	body := loadGallery(t, client, srv.URL+"/api/galleries/coast")

	resp, err := client.Get(srv.URL + "/api/galleries/coast/stream")
	if err != nil {
		t.Fatalf("GET stream: %v", err)
	}
	defer resp.Body.Close()

	var events []string
	var last gallery.LoadState
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			events = append(events, name)
		}
		if data, ok := strings.CutPrefix(line, "data: "); ok && events[len(events)-1] == "state" {
			json.Unmarshal([]byte(data), &last)
		}
	}

	if strings.Join(events, ",") != "state,state,layout" {
		t.Fatalf("events = %v", events)
	}
	if len(last.Grid) != 1 || last.Grid[0].ID != body.State.Grid[0].ID {
		t.Errorf("stream state = %+v, want the loaded item", last)
	}
}

func TestViews_Find(t *testing.T) {
	catalog := parseCatalog(t)
	cfg := &gallery.Config{}
	cfg.Finalize(nil)
	svc := site.NewService(catalog, gallery.NewLoader(cfg, landscapeProber(), newCatalog(t), logging.Discard()), nil, false)
	views := site.NewViews(svc, nil, logging.Discard())

	if _, err := views.Find("client-1", "coast"); !errors.Is(err, site.ErrNotLoaded) {
		t.Errorf("Find() before Open = %v, want ErrNotLoaded", err)
	}
	if _, _, _, err := views.Open("client-1", "missing", locale.English); !errors.Is(err, site.ErrNotFound) {
		t.Errorf("Open(missing) = %v, want ErrNotFound", err)
	}

	view, c, fresh, err := views.Open("client-1", "coast", locale.English)
	if err != nil || !fresh {
		t.Fatalf("Open() = %v, fresh %v", err, fresh)
	}
	if _, err := view.Click("x"); !errors.Is(err, site.ErrNotLoaded) {
		t.Errorf("Click() before Render = %v, want ErrNotLoaded", err)
	}

	state, err := c.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() failed: %v", err)
	}
	if _, err := view.Render(context.Background(), c, state, nil); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	found, err := views.Find("client-1", "coast")
	if err != nil || found != view {
		t.Errorf("Find() = %v, %v", found, err)
	}
	if _, _, fresh, _ := views.Open("client-1", "coast", locale.English); fresh {
		t.Error("unchanged Open() started a new load")
	}
	if views.Len() != 1 {
		t.Errorf("Len() = %d, want 1", views.Len())
	}
}

type failingWriter struct {
	header http.Header
	fail   string
}

func (w *failingWriter) Header() http.Header { return w.header }

func (w *failingWriter) WriteHeader(int) {}

func (w *failingWriter) Write(p []byte) (int, error) {
	if strings.Contains(string(p), w.fail) {
		return 0, errors.New("connection reset")
	}
	return len(p), nil
}

func (w *failingWriter) Flush() {}

func TestHandler_Stream_LogsFailedLayoutWrite(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := &gallery.Config{}
	cfg.Finalize(nil)
	catalog := parseCatalog(t)
	svc := site.NewService(catalog, gallery.NewLoader(cfg, landscapeProber(), newCatalog(t), logging.Discard()), nil, false)
	h := site.NewHandler(svc, site.NewViews(svc, nil, logging.Discard()), site.NewRouteTable(catalog, newCatalog(t)), nil, nil, logger, false)

	req := httptest.NewRequest(http.MethodGet, "/api/galleries/coast/stream", nil)
	req.SetPathValue("slug", "coast")
	h.Stream(&failingWriter{header: http.Header{}, fail: "event: layout"}, req)

	out := logs.String()
	if !strings.Contains(out, "stream closed") || !strings.Contains(out, "connection reset") {
		t.Errorf("layout write failure not logged: %s", out)
	}
}
