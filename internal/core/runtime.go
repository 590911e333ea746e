package core

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/wpsix/breakdance-icon-fix/internal/checker"
	"github.com/wpsix/breakdance-icon-fix/internal/config"
	"github.com/wpsix/breakdance-icon-fix/internal/hooks"
	"github.com/wpsix/breakdance-icon-fix/internal/host"
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
	"github.com/wpsix/breakdance-icon-fix/internal/service"
	"github.com/wpsix/breakdance-icon-fix/internal/utils"
)

var ErrUnknownPlugin = errors.New("plugin is not managed by this host")

// Runtime is a minimal host: it owns the transient store, the hook bus and
// the update checker registered on it.
//
// Fields:
//   - Config: the resolved runtime configuration
//   - Store: the transient store selected by Config.Store
//   - Site: typed access to the update_plugins site transient
//   - Bus: the hook bus every host event is dispatched through
//   - Checker: the update checker subscribed to Bus
type Runtime struct {
	Config  *config.Config
	Store   host.TransientStore
	Site    *host.SiteStore
	Bus     *hooks.Bus
	Checker *checker.UpdateChecker

	closeFn   func() error
	closeOnce sync.Once
	closeErr  error
}

type runtimeOptions struct {
	client service.HTTPClient
	store  host.TransientStore
}

type Option func(*runtimeOptions)

// WithHTTPClient replaces the client used to reach the update server.
func WithHTTPClient(c service.HTTPClient) Option {
	return func(o *runtimeOptions) { o.client = c }
}

// WithStore injects a ready transient store instead of opening Config.Store.
func WithStore(s host.TransientStore) Option {
	return func(o *runtimeOptions) { o.store = s }
}

// NewRuntime opens the configured store and builds the checker on a fresh bus.
//
// Parameters:
//   - ctx: bounds every outbound request made by the checker
//   - cfg: runtime configuration, DefaultCheckerConfig when nil
//   - opts: optional overrides (HTTP client, store)
//
// Returns:
//   - *Runtime: a ready host; call Close when done
//   - error: when the store cannot be opened
func NewRuntime(ctx context.Context, cfg *config.Config, opts ...Option) (*Runtime, error) {
	if cfg == nil {
		defaultConfig := config.DefaultCheckerConfig()
		cfg = &defaultConfig
	}

	o := runtimeOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	closeFn := func() error { return nil }
	store := o.store
	if store == nil {
		dir := cfg.StateDir
		if dir == "" {
			dir = utils.StateDir(config.AppName)
		}

		s, c, err := host.Open(cfg.Store, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
		}
		store, closeFn = s, c
	}

	site := host.NewSiteStore(store)
	bus := hooks.New()

	chk := checker.New(ctx, cfg, checker.Deps{
		Cache:  store,
		Site:   site,
		Client: o.client,
		Hooks:  bus,
	})

	logger.With("plugin", chk.Slug(), "store", cfg.Store).Debugw("runtime ready")

	return &Runtime{
		Config:  cfg,
		Store:   store,
		Site:    site,
		Bus:     bus,
		Checker: chk,
		closeFn: closeFn,
	}, nil
}

// Close releases the store. Later calls return the first result.
func (r *Runtime) Close() error {
	if r == nil || r.closeFn == nil {
		return nil
	}
	r.closeOnce.Do(func() { r.closeErr = r.closeFn() })
	return r.closeErr
}

// Installed returns the plugin id to version map the host reports as checked.
func (r *Runtime) Installed() map[string]string {
	return map[string]string{r.Checker.Slug(): r.Config.Version}
}

// CheckUpdates runs one update-check pass: it rebuilds the update_plugins
// record from the installed plugins, threads it through the pre-set filters
// and persists the result.
//
// Returns:
//   - *host.UpdatePlugins: the record as stored
//   - bool: whether the checker had remote metadata for this pass
//   - error: when the site transient cannot be read or written
func (r *Runtime) CheckUpdates() (*host.UpdatePlugins, bool, error) {
	prev, ok, err := r.Site.GetSite(host.UpdatePluginsScope)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", host.UpdatePluginsScope, err)
	}

	state := host.NewUpdatePlugins(r.Installed())
	if ok {
		for id, d := range prev.Response {
			if d == nil {
				logger.Debug("Dropping empty %s entry %q", host.UpdatePluginsScope, id)
				continue
			}
			entry := *d
			state.Response[id] = &entry
		}
	}

	state = r.Bus.ApplyUpdatePlugins(state)

	if err := r.Site.SetSite(host.UpdatePluginsScope, state); err != nil {
		return nil, false, fmt.Errorf("failed to write %s: %w", host.UpdatePluginsScope, err)
	}
	return state, r.Checker.Resolved(), nil
}

// PluginInfo dispatches a plugin_information query for slug.
func (r *Runtime) PluginInfo(slug string) (*host.PluginInfo, error) {
	res := r.Bus.ApplyPluginsAPI(host.ActionPluginInformation, host.QueryArgs{Slug: slug})
	info, ok := res.Info()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, slug)
	}
	return info, nil
}

// AdminInit dispatches admin_init with the given request query.
func (r *Runtime) AdminInit(query url.Values) {
	r.Bus.DoAdminInit(host.Request{Query: query})
}

// UpgradeComplete dispatches upgrader_process_complete.
func (r *Runtime) UpgradeComplete(opts host.UpgradeOptions) {
	r.Bus.DoUpgraderProcessComplete(opts)
}
