package globalconfig

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/wpsix/breakdance-icon-fix/internal/config"
	"github.com/wpsix/breakdance-icon-fix/internal/utils"
	"github.com/wpsix/breakdance-icon-fix/internal/utils/pathutils"
)

const (
	configDir  = ".config/" + config.AppName
	configFile = "config.yml"
	envPrefix  = "BIF"
)

// Keys understood in config.yml and as BIF_* environment variables.
const (
	KeyPluginFile     = "plugin_file"
	KeyPluginsDir     = "plugins_dir"
	KeyVersion        = "version"
	KeyUpdateURL      = "update_url"
	KeyCacheTTL       = "cache_ttl"
	KeyRequestTimeout = "request_timeout"
	KeyCacheAllowed   = "cache_allowed"
	KeyStateDir       = "state_dir"
	KeyStore          = "store"
)

// PersistentConfig is the on-disk shape of config.yml. Durations are kept as
// strings ("12h") so the file stays hand-editable.
type PersistentConfig struct {
	PluginFile     string `yaml:"plugin_file"`
	PluginsDir     string `yaml:"plugins_dir"`
	Version        string `yaml:"version"`
	UpdateURL      string `yaml:"update_url"`
	CacheTTL       string `yaml:"cache_ttl"`
	RequestTimeout string `yaml:"request_timeout"`
	CacheAllowed   bool   `yaml:"cache_allowed"`
	StateDir       string `yaml:"state_dir,omitempty"`
	Store          string `yaml:"store"`
}

type loadSettings struct {
	path string
}

type Option func(*loadSettings)

// WithConfigPath overrides ~/.config/bif-updater/config.yml.
func WithConfigPath(path string) Option {
	return func(s *loadSettings) {
		s.path = path
	}
}

func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

func DefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load resolves the runtime configuration with the precedence
// defaults < config.yml < BIF_* environment. A missing file is not an error.
func Load(opts ...Option) (*config.Config, error) {
	settings := loadSettings{}
	for _, opt := range opts {
		opt(&settings)
	}

	if settings.path == "" {
		path, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		settings.path = path
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, config.DefaultCheckerConfig())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := mergeConfigFile(v, settings.path); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %s", KeyCacheTTL, cfg.CacheTTL)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %s", KeyRequestTimeout, cfg.RequestTimeout)
	}

	for _, p := range []*string{&cfg.PluginFile, &cfg.PluginsDir, &cfg.StateDir} {
		abs, err := pathutils.ToAbsolutePath(*p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %q: %w", *p, err)
		}
		*p = abs
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault(KeyPluginFile, d.PluginFile)
	v.SetDefault(KeyPluginsDir, d.PluginsDir)
	v.SetDefault(KeyVersion, d.Version)
	v.SetDefault(KeyUpdateURL, d.UpdateURL)
	v.SetDefault(KeyCacheTTL, d.CacheTTL)
	v.SetDefault(KeyRequestTimeout, d.RequestTimeout)
	v.SetDefault(KeyCacheAllowed, d.CacheAllowed)
	v.SetDefault(KeyStateDir, d.StateDir)
	v.SetDefault(KeyStore, d.Store)
}

func mergeConfigFile(v *viper.Viper, path string) error {
	exists, err := utils.FileExists(path)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func FromConfig(c config.Config) *PersistentConfig {
	return &PersistentConfig{
		PluginFile:     c.PluginFile,
		PluginsDir:     c.PluginsDir,
		Version:        c.Version,
		UpdateURL:      c.UpdateURL,
		CacheTTL:       c.CacheTTL.String(),
		RequestTimeout: c.RequestTimeout.String(),
		CacheAllowed:   c.CacheAllowed,
		StateDir:       c.StateDir,
		Store:          c.Store,
	}
}

// Save writes the config to path, or to the default location when path is
// empty. Paths under $HOME are stored in ~ form.
func (c *PersistentConfig) Save(path string) error {
	configDirRights := 0o755
	configFileRights := 0o644

	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(configDirRights)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := *c
	for _, p := range []*string{&out.PluginFile, &out.PluginsDir, &out.StateDir} {
		homePath, err := pathutils.ToHomePathFormat(*p)
		if err != nil {
			return fmt.Errorf("failed to convert to home path format: %w", err)
		}
		*p = homePath
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, os.FileMode(configFileRights)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
