// Package config supplies configuration producers for loom contexts: typed
// access over the process environment (optionally seeded from .env files)
// and TOML value manifests registered as named producers.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/km-arc/loom"
)

// Config provides typed access to the process environment.
type Config struct{}

// Load reads the given .env files (default: ".env") into the environment
// and returns a Config. Missing files are not an error; production
// deployments usually carry no .env.
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	_ = godotenv.Load(files...)
	return &Config{}
}

// Register loads the environment and registers the resulting *Config as a
// singleton value producer, reachable by type and under the name "config".
func Register(ctx *loom.Context, envFiles ...string) *Config {
	cfg := Load(envFiles...)
	ctx.RegisterValue(cfg, loom.WithNames("config"))
	return cfg
}

// Get returns an env value, falling back to defaultVal when unset.
func (c *Config) Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func (c *Config) GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func (c *Config) GetBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
