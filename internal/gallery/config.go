package gallery

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
)

// Config contains image loading configuration.
type Config struct {
	// ProbeTimeout bounds a single image probe.
	// Default: "10s"
	ProbeTimeout string `toml:"probe_timeout"`

	// MaxProbeSize bounds the bytes read while decoding an image header.
	// Default: "20MB"
	MaxProbeSize string `toml:"max_probe_size"`

	// MaxConcurrent bounds in-flight probes per phase. Zero means unbounded.
	// Default: 8
	MaxConcurrent int `toml:"max_concurrent"`

	// SkipDimensions disables header decoding; probes only check reachability.
	SkipDimensions bool `toml:"skip_dimensions"`

	// CacheBust appends a timestamp parameter to every URL. Development only.
	CacheBust bool `toml:"cache_bust"`

	// CDNHosts lists the image CDN hosts whose URLs are rewritten into variants.
	CDNHosts []string `toml:"cdn_hosts"`

	// Variants configures the CDN resolution tiers.
	Variants Tiers `toml:"variants"`

	probeTimeoutVal time.Duration
	maxProbeSizeVal int64
}

// Env maps environment variable names for gallery configuration.
type Env struct {
	ProbeTimeout  string
	MaxProbeSize  string
	MaxConcurrent string
	CacheBust     string
	CDNHosts      string
}

// ProbeTimeoutDuration returns the parsed ProbeTimeout. Valid after Finalize.
func (c *Config) ProbeTimeoutDuration() time.Duration {
	return c.probeTimeoutVal
}

// MaxProbeSizeBytes returns the parsed MaxProbeSize. Valid after Finalize.
func (c *Config) MaxProbeSizeBytes() int64 {
	return c.maxProbeSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the gallery configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.ProbeTimeout != "" {
		c.ProbeTimeout = overlay.ProbeTimeout
	}
	if overlay.MaxProbeSize != "" {
		c.MaxProbeSize = overlay.MaxProbeSize
	}
	if overlay.MaxConcurrent != 0 {
		c.MaxConcurrent = overlay.MaxConcurrent
	}
	if overlay.SkipDimensions {
		c.SkipDimensions = true
	}
	if overlay.CacheBust {
		c.CacheBust = true
	}
	if len(overlay.CDNHosts) > 0 {
		c.CDNHosts = overlay.CDNHosts
	}
	mergeSpec(&c.Variants.Small, overlay.Variants.Small)
	mergeSpec(&c.Variants.Medium, overlay.Variants.Medium)
	mergeSpec(&c.Variants.Large, overlay.Variants.Large)
	mergeSpec(&c.Variants.Main, overlay.Variants.Main)
}

func mergeSpec(dst *VariantSpec, overlay VariantSpec) {
	if overlay.Width != 0 {
		dst.Width = overlay.Width
	}
	if overlay.Format != "" {
		dst.Format = overlay.Format
	}
	if overlay.Quality != 0 {
		dst.Quality = overlay.Quality
	}
}

func (c *Config) loadDefaults() {
	if c.ProbeTimeout == "" {
		c.ProbeTimeout = "10s"
	}
	if c.MaxProbeSize == "" {
		c.MaxProbeSize = "20MB"
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 8
	}
	c.Variants.Small = withDefaults(c.Variants.Small, DefaultTiers.Small)
	c.Variants.Medium = withDefaults(c.Variants.Medium, DefaultTiers.Medium)
	c.Variants.Large = withDefaults(c.Variants.Large, DefaultTiers.Large)
	c.Variants.Main = withDefaults(c.Variants.Main, DefaultTiers.Main)
}

func withDefaults(spec, def VariantSpec) VariantSpec {
	if spec.Width == 0 {
		spec.Width = def.Width
	}
	if spec.Format == "" {
		spec.Format = def.Format
	}
	if spec.Quality == 0 {
		spec.Quality = def.Quality
	}
	return spec
}

func (c *Config) loadEnv(env *Env) {
	if env.ProbeTimeout != "" {
		if v := os.Getenv(env.ProbeTimeout); v != "" {
			c.ProbeTimeout = v
		}
	}
	if env.MaxProbeSize != "" {
		if v := os.Getenv(env.MaxProbeSize); v != "" {
			c.MaxProbeSize = v
		}
	}
	if env.MaxConcurrent != "" {
		if v := os.Getenv(env.MaxConcurrent); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxConcurrent = n
			}
		}
	}
	if env.CacheBust != "" {
		if v := os.Getenv(env.CacheBust); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.CacheBust = b
			}
		}
	}
	if env.CDNHosts != "" {
		if v := os.Getenv(env.CDNHosts); v != "" {
			hosts := strings.Split(v, ",")
			for i, h := range hosts {
				hosts[i] = strings.TrimSpace(h)
			}
			c.CDNHosts = hosts
		}
	}
}

func (c *Config) validate() error {
	timeout, err := time.ParseDuration(c.ProbeTimeout)
	if err != nil {
		return fmt.Errorf("invalid probe_timeout: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("probe_timeout must be positive")
	}
	c.probeTimeoutVal = timeout

	size, err := units.FromHumanSize(c.MaxProbeSize)
	if err != nil {
		return fmt.Errorf("invalid max_probe_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_probe_size must be positive")
	}
	c.maxProbeSizeVal = size

	if c.MaxConcurrent < 0 {
		return fmt.Errorf("max_concurrent must not be negative")
	}
	return nil
}
