package contact

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config contains email API configuration.
type Config struct {
	// Endpoint is the transactional email send URL.
	// Default: "https://api.emailjs.com/api/v1.0/email/send"
	Endpoint string `toml:"endpoint"`

	ServiceID  string `toml:"service_id"`
	TemplateID string `toml:"template_id"`
	PublicKey  string `toml:"public_key"`

	// Timeout bounds one send.
	// Default: "15s"
	Timeout string `toml:"timeout"`

	timeoutVal time.Duration
}

// Env maps environment variable names for contact configuration.
type Env struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
}

// TimeoutDuration returns the parsed Timeout. Valid after Finalize.
func (c *Config) TimeoutDuration() time.Duration {
	return c.timeoutVal
}

// Configured reports whether credentials are present.
func (c *Config) Configured() bool {
	return c.ServiceID != "" && c.TemplateID != "" && c.PublicKey != ""
}

// Finalize applies defaults, loads environment overrides, and validates the contact configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.ServiceID != "" {
		c.ServiceID = overlay.ServiceID
	}
	if overlay.TemplateID != "" {
		c.TemplateID = overlay.TemplateID
	}
	if overlay.PublicKey != "" {
		c.PublicKey = overlay.PublicKey
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "https://api.emailjs.com/api/v1.0/email/send"
	}
	if c.Timeout == "" {
		c.Timeout = "15s"
	}
}

func (c *Config) loadEnv(env *Env) {
	for _, m := range []struct {
		name   string
		target *string
	}{
		{env.Endpoint, &c.Endpoint},
		{env.ServiceID, &c.ServiceID},
		{env.TemplateID, &c.TemplateID},
		{env.PublicKey, &c.PublicKey},
	} {
		if m.name == "" {
			continue
		}
		if v := os.Getenv(m.name); v != "" {
			*m.target = v
		}
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint %q", c.Endpoint)
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	c.timeoutVal = d
	return nil
}
