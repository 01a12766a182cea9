package config

import (
	"os"
	"strconv"
)

const (
	EnvSiteCatalogPath   = "PORTFOLIO_CATALOG_PATH"
	EnvSiteSecureCookies = "PORTFOLIO_SECURE_COOKIES"
)

// SiteConfig locates the content catalog and controls session cookies.
type SiteConfig struct {
	CatalogPath   string `toml:"catalog_path"`
	SecureCookies bool   `toml:"secure_cookies"`
}

// Finalize applies defaults and loads environment overrides.
func (c *SiteConfig) Finalize() error {
	if c.CatalogPath == "" {
		c.CatalogPath = "catalog.yaml"
	}
	if v := os.Getenv(EnvSiteCatalogPath); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv(EnvSiteSecureCookies); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.SecureCookies = b
		}
	}
	return nil
}

// Merge applies non-zero values from overlay.
func (c *SiteConfig) Merge(overlay *SiteConfig) {
	if overlay.CatalogPath != "" {
		c.CatalogPath = overlay.CatalogPath
	}
	if overlay.SecureCookies {
		c.SecureCookies = true
	}
}
