// Package api assembles the JSON API consumed by the portfolio client.
package api

import (
	"github.com/JaimeStill/portfolio/internal/config"
	"github.com/JaimeStill/portfolio/internal/infrastructure"
	"github.com/JaimeStill/portfolio/pkg/routes"
)

// BasePath prefixes every API route.
const BasePath = "/api"

// Module is the assembled API: its route group and the domain behind it.
type Module struct {
	Group  routes.Group
	Domain *Domain
}

// NewModule builds the API route group from the shared infrastructure.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	return &Module{
		Group: routes.Group{
			Prefix:      BasePath,
			Description: "Portfolio API",
			Children:    buildGroups(runtime, domain),
		},
		Domain: domain,
	}, nil
}
