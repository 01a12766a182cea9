package storage

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
)

// Config contains key/value storage configuration.
type Config struct {
	// BasePath is the root directory for filesystem storage.
	// Default: ".data/store"
	BasePath string `toml:"base_path"`

	// MaxValueSize bounds a single stored value, in human-readable form.
	// Default: "64KB"
	MaxValueSize    string `toml:"max_value_size"`
	maxValueSizeVal int64
}

// Env maps environment variable names for storage configuration.
type Env struct {
	BasePath     string
	MaxValueSize string
}

// MaxValueSizeBytes returns the parsed MaxValueSize. Valid after Finalize.
func (c *Config) MaxValueSizeBytes() int64 {
	return c.maxValueSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxValueSize != "" {
		c.MaxValueSize = overlay.MaxValueSize
	}
}

func (c *Config) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = ".data/store"
	}
	if c.MaxValueSize == "" {
		c.MaxValueSize = "64KB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BasePath != "" {
		if v := os.Getenv(env.BasePath); v != "" {
			c.BasePath = v
		}
	}
	if env.MaxValueSize != "" {
		if v := os.Getenv(env.MaxValueSize); v != "" {
			c.MaxValueSize = v
		}
	}
}

func (c *Config) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}

	size, err := units.FromHumanSize(c.MaxValueSize)
	if err != nil {
		return fmt.Errorf("invalid max_value_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_value_size must be positive")
	}
	c.maxValueSizeVal = size

	return nil
}
