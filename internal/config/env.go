package config

import (
	"github.com/JaimeStill/portfolio/internal/analytics"
	"github.com/JaimeStill/portfolio/internal/contact"
	"github.com/JaimeStill/portfolio/internal/gallery"
	"github.com/JaimeStill/portfolio/pkg/logging"
	"github.com/JaimeStill/portfolio/pkg/middleware"
	"github.com/JaimeStill/portfolio/pkg/storage"
)

var loggingEnv = &logging.Env{
	Level:  "LOGGING_LEVEL",
	Format: "LOGGING_FORMAT",
	Source: "LOGGING_SOURCE",
}

var corsEnv = &middleware.CORSEnv{
	Enabled:          "CORS_ENABLED",
	Origins:          "CORS_ORIGINS",
	AllowedMethods:   "CORS_ALLOWED_METHODS",
	AllowedHeaders:   "CORS_ALLOWED_HEADERS",
	AllowCredentials: "CORS_ALLOW_CREDENTIALS",
	MaxAge:           "CORS_MAX_AGE",
}

var storageEnv = &storage.Env{
	BasePath:     "STORAGE_BASE_PATH",
	MaxValueSize: "STORAGE_MAX_VALUE_SIZE",
}

var galleryEnv = &gallery.Env{
	ProbeTimeout:  "GALLERY_PROBE_TIMEOUT",
	MaxProbeSize:  "GALLERY_MAX_PROBE_SIZE",
	MaxConcurrent: "GALLERY_MAX_CONCURRENT",
	CacheBust:     "GALLERY_CACHE_BUST",
	CDNHosts:      "GALLERY_CDN_HOSTS",
}

var contactEnv = &contact.Env{
	Endpoint:   "CONTACT_ENDPOINT",
	ServiceID:  "CONTACT_SERVICE_ID",
	TemplateID: "CONTACT_TEMPLATE_ID",
	PublicKey:  "CONTACT_PUBLIC_KEY",
}

var analyticsEnv = &analytics.Env{
	Enabled:  "ANALYTICS_ENABLED",
	Endpoint: "ANALYTICS_ENDPOINT",
	SiteID:   "ANALYTICS_SITE_ID",
}
