package main

import (
	"net/http"

	"github.com/JaimeStill/portfolio/internal/infrastructure"
	"github.com/JaimeStill/portfolio/pkg/lifecycle"
	"github.com/JaimeStill/portfolio/pkg/routes"
	"github.com/JaimeStill/portfolio/web/app"
)

// registerRoutes adds the probes and the page shell next to the API.
func registerRoutes(r routes.System, infra *infrastructure.Infrastructure, appHandler *app.Handler) {
	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/healthz",
		Handler: handleHealthCheck,
	})

	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/readyz",
		Handler: func(w http.ResponseWriter, r *http.Request) {
			handleReadinessCheck(w, infra.Lifecycle)
		},
	})

	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/",
		Handler: appHandler.Router().ServeHTTP,
	})
}

// handleHealthCheck responds with OK status for health monitoring.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func handleReadinessCheck(w http.ResponseWriter, ready lifecycle.ReadinessChecker) {
	if !ready.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("NOT READY"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}
