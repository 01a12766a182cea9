package api

import (
	"github.com/JaimeStill/portfolio/internal/analytics"
	"github.com/JaimeStill/portfolio/internal/contact"
	"github.com/JaimeStill/portfolio/internal/preferences"
	"github.com/JaimeStill/portfolio/internal/site"
	"github.com/JaimeStill/portfolio/pkg/routes"
)

func buildGroups(runtime *Runtime, domain *Domain) []routes.Group {
	siteHandler := site.NewHandler(
		domain.Site,
		domain.Views,
		domain.Routes,
		runtime.Translator,
		runtime.Analytics,
		runtime.Logger,
		runtime.Config.Site.SecureCookies,
	)
	preferencesHandler := preferences.NewHandler(runtime.Storage, runtime.Analytics, runtime.Logger, runtime.Config.Site.SecureCookies)
	contactHandler := contact.NewHandler(domain.Contact, runtime.Translator, runtime.Logger)
	analyticsHandler := analytics.NewHandler(runtime.Analytics, runtime.Logger)

	groups := siteHandler.Routes()
	groups = append(groups,
		preferencesHandler.Routes(),
		contactHandler.Routes(),
		analyticsHandler.Routes(),
	)
	return groups
}
