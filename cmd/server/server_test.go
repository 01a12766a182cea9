package main

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/portfolio/internal/config"
)

const catalogYAML = `
home:
  images: [https://cdn.example.com/1.jpg]
projects:
  - slug: coast
    title: {en: Coast}
    images: [https://cdn.example.com/coast.jpg]
`

func getAvailablePort(t *testing.T) int {
	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("Failed to find available port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()
	return port
}

func newTestServer(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	catalog := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(catalog, []byte(catalogYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{}
	cfg.Server.Host = "localhost"
	cfg.Server.Port = getAvailablePort(t)
	cfg.Logging.Level = "error"
	cfg.Storage.BasePath = filepath.Join(dir, "store")
	cfg.Site.CatalogPath = catalog
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := srv.Shutdown(5 * time.Second); err != nil {
			t.Errorf("Shutdown() failed: %v", err)
		}
	})

	base := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	deadline := time.Now().Add(3 * time.Second)
	for {
		resp, err := http.Get(base + "/readyz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return base
			}
		}
		if time.Now().After(deadline) {
			t.Fatal("server never became ready")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestServer_Endpoints(t *testing.T) {
	base := newTestServer(t)
	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{"/healthz", http.StatusOK, "OK"},
		{"/readyz", http.StatusOK, "READY"},
		{"/api/routes", http.StatusOK, "/projects/coast"},
		{"/", http.StatusOK, `data-page="home"`},
		{"/projects/coast", http.StatusOK, "<title>Coast</title>"},
		{"/dist/app.css", http.StatusOK, "--bg"},
		{"/nowhere", http.StatusFound, ""},
		{"/about/", http.StatusMovedPermanently, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := client.Get(base + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body missing %q", tt.contains)
			}
		})
	}
}
