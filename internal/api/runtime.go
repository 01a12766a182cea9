package api

import (
	"github.com/JaimeStill/portfolio/internal/config"
	"github.com/JaimeStill/portfolio/internal/infrastructure"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Config *config.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")
	return &Runtime{
		Infrastructure: &scoped,
		Config:         cfg,
	}
}
