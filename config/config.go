package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

/*
Configuration for the cache layer.

Every cell TTL in the system is set here, nowhere else. The values
ship with defaults tuned for a POS floor (orders churn every few
seconds, business settings change once a quarter) and can be adjusted
per deployment through a YAML file or environment variables without
touching code.
*/

// Config is the root configuration.
type Config struct {
	Cache CacheConfig `koanf:"cache"`
}

// CacheConfig carries the TTL for each cache cell plus per-key
// overrides inside the generic cell.
type CacheConfig struct {
	// GenericTTL is the default for the generic API cell.
	GenericTTL time.Duration `koanf:"generic_ttl"`

	// AdminTTL is the default for the admin-scoped cell.
	AdminTTL time.Duration `koanf:"admin_ttl"`

	// Fast cells for high-churn real-time data.
	OrdersTTL    time.Duration `koanf:"orders_ttl"`
	TablesTTL    time.Duration `koanf:"tables_ttl"`
	MenuTTL      time.Duration `koanf:"menu_ttl"`
	InventoryTTL time.Duration `koanf:"inventory_ttl"`

	// KeyTTLs overrides GenericTTL for individual generic-cell keys
	// (static reference data lives longer, dashboard data shorter).
	KeyTTLs map[string]time.Duration `koanf:"key_ttls"`
}

// ConfigPathEnvVar overrides where the YAML config file is looked for.
const ConfigPathEnvVar = "POSCACHE_CONFIG"

// DefaultConfigPaths are tried in order when ConfigPathEnvVar is unset.
var DefaultConfigPaths = []string{
	"poscache.yaml",
	"poscache.yml",
	"/etc/poscache/config.yaml",
}

// envPrefix namespaces the environment variables, e.g.
// POSCACHE_CACHE_MENU_TTL=2s.
const envPrefix = "POSCACHE_"

// Default returns the built-in configuration. These are the values
// the admin application ships with.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			GenericTTL:   5 * time.Minute,
			AdminTTL:     5 * time.Minute,
			OrdersTTL:    8 * time.Second,
			TablesTTL:    10 * time.Second,
			MenuTTL:      5 * time.Second,
			InventoryTTL: 3 * time.Second,
			KeyTTLs: map[string]time.Duration{
				// Static reference data: changes rarely, cache long.
				"categories": 10 * time.Minute,
				// Business settings: changes almost never.
				"business_settings": 30 * time.Minute,
				// Dashboard aggregates: must track the floor closely.
				"dashboard_stats": 30 * time.Second,
				// User records.
				"users": 5 * time.Minute,
			},
		},
	}
}

/*
Load builds the effective configuration from three layers:

 1. Defaults (Default above)
 2. Optional YAML file (first of DefaultConfigPaths that exists, or
    the path in POSCACHE_CONFIG)
 3. Environment variables, highest priority
    (POSCACHE_CACHE_ORDERS_TTL=4s → cache.orders_ttl)
*/
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the cache cannot honor. TTLs must
// be non-negative; zero is allowed and means "stale immediately".
func (c *Config) Validate() error {
	ttls := map[string]time.Duration{
		"cache.generic_ttl":   c.Cache.GenericTTL,
		"cache.admin_ttl":     c.Cache.AdminTTL,
		"cache.orders_ttl":    c.Cache.OrdersTTL,
		"cache.tables_ttl":    c.Cache.TablesTTL,
		"cache.menu_ttl":      c.Cache.MenuTTL,
		"cache.inventory_ttl": c.Cache.InventoryTTL,
	}
	for name, ttl := range ttls {
		if ttl < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, ttl)
		}
	}
	for key, ttl := range c.Cache.KeyTTLs {
		if ttl < 0 {
			return fmt.Errorf("cache.key_ttls[%s] must not be negative, got %s", key, ttl)
		}
	}
	return nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		return ""
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

/*
envTransform maps an environment variable name to a koanf path:

	POSCACHE_CACHE_MENU_TTL → cache.menu_ttl

Only the first underscore after the prefix separates the section from
the key; the rest of the name is the key verbatim, lowercased.
*/
func envTransform(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
	section, key, found := strings.Cut(name, "_")
	if !found {
		return section
	}
	return section + "." + key
}
