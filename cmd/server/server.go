package main

import (
	"time"

	"github.com/JaimeStill/portfolio/internal/api"
	"github.com/JaimeStill/portfolio/internal/config"
	"github.com/JaimeStill/portfolio/internal/infrastructure"
	"github.com/JaimeStill/portfolio/internal/server"
	"github.com/JaimeStill/portfolio/pkg/routes"
	"github.com/JaimeStill/portfolio/web/app"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	infra *infrastructure.Infrastructure
	http  server.System
}

// NewServer creates and initializes the service with all subsystems.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	appHandler, err := app.NewHandler("", apiModule.Domain.Routes, infra.Storage, infra.Logger, cfg.Site.SecureCookies)
	if err != nil {
		return nil, err
	}

	router := routes.New(infra.Logger)
	router.RegisterGroup(apiModule.Group)
	registerRoutes(router, infra, appHandler)

	handler := buildMiddleware(infra, cfg).Apply(router.Build())

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
	)

	return &Server{
		infra: infra,
		http:  server.New(&cfg.Server, handler, infra.Logger),
	}, nil
}

// Start begins all subsystems and returns when they are ready.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown gracefully stops all subsystems within the timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
