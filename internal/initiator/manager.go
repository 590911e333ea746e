package initiator

import (
	"fmt"
	"path/filepath"

	"github.com/wpsix/breakdance-icon-fix/internal/config"
	"github.com/wpsix/breakdance-icon-fix/internal/globalconfig"
	"github.com/wpsix/breakdance-icon-fix/internal/host"
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
	"github.com/wpsix/breakdance-icon-fix/internal/prompter"
	"github.com/wpsix/breakdance-icon-fix/internal/utils"
)

type Initiator struct {
	ConfigPath string
	Prompter   prompter.Prompter
}

func New(configPath string, p prompter.Prompter) *Initiator {
	if p == nil {
		p = prompter.Static{}
	}
	return &Initiator{ConfigPath: configPath, Prompter: p}
}

// Execute asks for the host-specific settings, starting from the current
// configuration, and writes config.yml.
func (i *Initiator) Execute() (*config.Config, error) {
	var opts []globalconfig.Option
	if i.ConfigPath != "" {
		opts = append(opts, globalconfig.WithConfigPath(i.ConfigPath))
	}

	cfg, err := globalconfig.Load(opts...)
	if err != nil {
		return nil, err
	}

	if cfg.PluginFile, err = i.Prompter.Prompt("Plugin main file", cfg.PluginFile); err != nil {
		return nil, err
	}
	if cfg.PluginsDir, err = i.Prompter.Prompt("Plugins directory", filepath.Dir(filepath.Dir(cfg.PluginFile))); err != nil {
		return nil, err
	}
	if cfg.Version, err = i.Prompter.Prompt("Installed version", cfg.Version); err != nil {
		return nil, err
	}
	if cfg.UpdateURL, err = i.Prompter.Prompt("Update metadata URL", cfg.UpdateURL); err != nil {
		return nil, err
	}
	if _, err := utils.ParseSecureURL(cfg.UpdateURL); err != nil {
		return nil, fmt.Errorf("invalid update URL: %w", err)
	}
	if cfg.Store, err = i.Prompter.Prompt("Transient store (memory, file, sqlite)", cfg.Store); err != nil {
		return nil, err
	}
	if !utils.Contains([]string{host.BackendMemory, host.BackendFile, host.BackendSQLite}, cfg.Store) {
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}

	if err := globalconfig.FromConfig(*cfg).Save(i.ConfigPath); err != nil {
		return nil, err
	}

	logger.Debug("Saved configuration for %s", cfg.PluginFile)
	return cfg, nil
}
