package main

import (
	"github.com/JaimeStill/portfolio/internal/config"
	"github.com/JaimeStill/portfolio/internal/infrastructure"
	"github.com/JaimeStill/portfolio/pkg/middleware"
)

// buildMiddleware creates and configures the middleware stack with logging and CORS.
func buildMiddleware(infra *infrastructure.Infrastructure, cfg *config.Config) middleware.System {
	middlewareSys := middleware.New()
	middlewareSys.Use(middleware.TrimSlash())
	middlewareSys.Use(middleware.Logger(infra.Logger))
	middlewareSys.Use(middleware.CORS(&cfg.CORS))
	return middlewareSys
}
