package config

import (
	"time"

	"github.com/wpsix/breakdance-icon-fix/internal/host"
)

const (
	AppName        = "bif-updater"
	PluginFileName = "breakdance-icon-fix/plugin.php"

	DefaultCacheTTL       = 12 * time.Hour
	DefaultRequestTimeout = 10 * time.Second
)

// Config drives one update checker instance.
type Config struct {
	PluginFile     string        `mapstructure:"plugin_file" yaml:"plugin_file"`
	PluginsDir     string        `mapstructure:"plugins_dir" yaml:"plugins_dir"`
	Version        string        `mapstructure:"version" yaml:"version"`
	UpdateURL      string        `mapstructure:"update_url" yaml:"update_url"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	CacheAllowed   bool          `mapstructure:"cache_allowed" yaml:"cache_allowed"`
	StateDir       string        `mapstructure:"state_dir" yaml:"state_dir"`
	Store          string        `mapstructure:"store" yaml:"store"`
}

func baseConfig() Config {
	return Config{
		PluginFile: "/var/www/html/wp-content/plugins/" + PluginFileName,
		PluginsDir: "/var/www/html/wp-content/plugins",
		Version:    "1.0.0",
		UpdateURL:  "https://wpsix.com/updates/breakdance-icon-fix/info.json",
		Store:      host.BackendFile,
	}
}

// DefaultCheckerConfig matches the host's update cadence: remote metadata is
// trusted for 12 hours and a fetch may take at most 10 seconds.
func DefaultCheckerConfig() Config {
	config := baseConfig()
	config.CacheTTL = DefaultCacheTTL
	config.RequestTimeout = DefaultRequestTimeout
	config.CacheAllowed = true
	return config
}

// WithBoundedDurations returns a copy where a non-positive cache TTL or request
// timeout is replaced by its default. Stores read a zero TTL as no expiry.
func (c Config) WithBoundedDurations() Config {
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	return c
}

// DefaultTestConfig keeps everything in memory.
func DefaultTestConfig() Config {
	config := DefaultCheckerConfig()
	config.Store = host.BackendMemory
	return config
}
