package analytics

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config contains analytics configuration.
type Config struct {
	// Enabled turns on forwarding to the collector.
	Enabled bool `toml:"enabled"`

	// Endpoint is the collector URL events are POSTed to.
	Endpoint string `toml:"endpoint"`

	// SiteID identifies this site to the collector.
	SiteID string `toml:"site_id"`

	// Timeout bounds one collector request.
	// Default: "5s"
	Timeout string `toml:"timeout"`

	// QueueSize bounds events buffered per sink.
	// Default: 256
	QueueSize int `toml:"queue_size"`

	timeoutVal time.Duration
}

// Env maps environment variable names for analytics configuration.
type Env struct {
	Enabled  string
	Endpoint string
	SiteID   string
}

// TimeoutDuration returns the parsed Timeout. Valid after Finalize.
func (c *Config) TimeoutDuration() time.Duration {
	return c.timeoutVal
}

// Finalize applies defaults, loads environment overrides, and validates the analytics configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.SiteID != "" {
		c.SiteID = overlay.SiteID
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.QueueSize != 0 {
		c.QueueSize = overlay.QueueSize
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "5s"
	}
	if c.QueueSize == 0 {
		c.QueueSize = 256
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Enabled = b
			}
		}
	}
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.SiteID != "" {
		if v := os.Getenv(env.SiteID); v != "" {
			c.SiteID = v
		}
	}
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	c.timeoutVal = d

	if c.QueueSize < 0 {
		return fmt.Errorf("queue_size must not be negative")
	}
	if c.Enabled && c.Endpoint == "" {
		return fmt.Errorf("endpoint required when enabled")
	}
	return nil
}

// collectorPayload is the body sent to the collector.
type collectorPayload struct {
	SiteID string `json:"site_id,omitempty"`
	Event
}

// Collector forwards events to the external collector over HTTP.
type Collector struct {
	client   *resty.Client
	endpoint string
	siteID   string
}

// NewCollector creates a collector sink from a finalized configuration.
func NewCollector(cfg *Config, client *resty.Client) *Collector {
	if client == nil {
		client = resty.New()
	}
	client.SetTimeout(cfg.TimeoutDuration())

	return &Collector{
		client:   client,
		endpoint: cfg.Endpoint,
		siteID:   cfg.SiteID,
	}
}

// Collect POSTs event to the collector. Non-2xx responses are errors.
func (c *Collector) Collect(ctx context.Context, event Event) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(collectorPayload{SiteID: c.siteID, Event: event}).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("post event: status %d", resp.StatusCode())
	}
	return nil
}
