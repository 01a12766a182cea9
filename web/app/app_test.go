package app_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/portfolio/internal/locale"
	"github.com/JaimeStill/portfolio/internal/preferences"
	"github.com/JaimeStill/portfolio/internal/session"
	"github.com/JaimeStill/portfolio/internal/site"
	"github.com/JaimeStill/portfolio/pkg/logging"
	"github.com/JaimeStill/portfolio/pkg/storage"
	"github.com/JaimeStill/portfolio/web/app"
)

const catalogYAML = `
home:
  images:
    - https://cdn.example.com/1.jpg
projects:
  - slug: coast
    title:
      en: Coast
      pt: Costa
    images:
      - https://cdn.example.com/coast-1.jpg
`

type fixture struct {
	srv *httptest.Server
	sys storage.System
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	catalog, err := site.ParseCatalog([]byte(catalogYAML))
	if err != nil {
		t.Fatalf("ParseCatalog() failed: %v", err)
	}
	messages, err := locale.NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog() failed: %v", err)
	}

	cfg := &storage.Config{BasePath: t.TempDir()}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	sys, err := storage.New(cfg, logging.Discard())
	if err != nil {
		t.Fatalf("storage.New() failed: %v", err)
	}

	h, err := app.NewHandler("", site.NewRouteTable(catalog, messages), sys, logging.Discard(), false)
	if err != nil {
		t.Fatalf("NewHandler() failed: %v", err)
	}

	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, sys: sys}
}

func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

func get(t *testing.T, f *fixture, path string, header map[string]string, cookies ...*http.Cookie) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, f.srv.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	client := &http.Client{CheckRedirect: noRedirect}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestPage_KnownRoutes(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		path  string
		page  string
		title string
	}{
		{"/", "home", "<title>Home</title>"},
		{"/about", "about", "<title>About</title>"},
		{"/projects/coast", "project", "<title>Coast</title>"},
		{"/contact/", "contact", "<title>Contact</title>"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, f, tt.path, map[string]string{"Accept-Language": "en-US"})

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if !strings.Contains(body, `data-page="`+tt.page+`"`) {
				t.Errorf("body missing page %q", tt.page)
			}
			if !strings.Contains(body, tt.title) {
				t.Errorf("body missing %s", tt.title)
			}
			if !strings.Contains(body, `<html lang="en" class="dark">`) {
				t.Error("root element should carry the default dark theme")
			}
		})
	}
}

func TestPage_UnknownRedirectsToRoot(t *testing.T) {
	f := newFixture(t)

	resp, _ := get(t, f, "/no/such/page", nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestPage_DetectsLanguage(t *testing.T) {
	f := newFixture(t)

	_, body := get(t, f, "/projects/coast", map[string]string{"Accept-Language": "pt-BR,pt;q=0.9"})
	if !strings.Contains(body, `lang="pt"`) {
		t.Error("expected Portuguese root language")
	}
	if !strings.Contains(body, "<title>Costa</title>") {
		t.Error("expected Portuguese title")
	}
}

func TestPage_AppliesStoredPreferences(t *testing.T) {
	f := newFixture(t)

	resp, _ := get(t, f, "/", nil)
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("first visit should issue a client cookie")
	}

	store := preferences.NewStorageStore(f.sys, cookie.Value)
	if err := store.Set(context.Background(), preferences.KeyTheme, string(preferences.Light)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	_, body := get(t, f, "/", nil, cookie)
	if !strings.Contains(body, `class=""`) {
		t.Error("light theme should clear the dark class")
	}
}

func TestRouter_ServesAssets(t *testing.T) {
	f := newFixture(t)

	resp, body := get(t, f, "/dist/app.js", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "EventSource") {
		t.Error("unexpected asset body")
	}
}
