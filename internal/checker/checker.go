package checker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/wpsix/breakdance-icon-fix/internal/config"
	"github.com/wpsix/breakdance-icon-fix/internal/hooks"
	"github.com/wpsix/breakdance-icon-fix/internal/host"
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
	"github.com/wpsix/breakdance-icon-fix/internal/service"
	"github.com/wpsix/breakdance-icon-fix/internal/utils"
	"github.com/wpsix/breakdance-icon-fix/internal/versions"
)

// Hook priorities used at registration.
const (
	PriorityUpdatePlugins    = hooks.DefaultPriority
	PriorityPluginsAPI       = 20
	PriorityAdminInit        = hooks.DefaultPriority
	PriorityUpgraderComplete = hooks.DefaultPriority
)

// Registrar is the subset of the hook bus the checker subscribes through.
type Registrar interface {
	AddUpdatePluginsFilter(priority int, fn hooks.UpdatePluginsFilter)
	AddPluginsAPIFilter(priority int, fn hooks.PluginsAPIFilter)
	AddAdminInitAction(priority int, fn hooks.AdminInitAction)
	AddUpgraderCompleteAction(priority int, fn hooks.UpgraderCompleteAction)
}

// Deps are the host services the checker needs. Hooks may be nil, in which
// case nothing is registered and the caller drives the checker directly.
type Deps struct {
	Cache  host.TransientStore
	Site   host.SiteTransients
	Client service.HTTPClient
	Hooks  Registrar
}

type UpdateChecker struct {
	Config     config.Config
	HTTPClient service.HTTPClient
	ctx        context.Context
	cache      host.TransientStore
	site       host.SiteTransients
	slug       string
	baseSlug   string
	cacheKey   string
	resolved   bool
}

// New builds a checker for conf.PluginFile, sweeps a stale cache left by a
// previous version and subscribes to the host hooks.
func New(ctx context.Context, conf *config.Config, deps Deps) *UpdateChecker {
	if conf == nil {
		defaultConfig := config.DefaultCheckerConfig()
		conf = &defaultConfig
	}

	if conf.CacheTTL <= 0 || conf.RequestTimeout <= 0 {
		logger.Debug("Non-positive cache_ttl %s or request_timeout %s, using defaults", conf.CacheTTL, conf.RequestTimeout)
		bounded := conf.WithBoundedDurations()
		conf = &bounded
	}

	if deps.Client == nil {
		deps.Client = service.NewHTTPClient(conf.RequestTimeout)
	}

	if deps.Cache == nil {
		deps.Cache = host.NewMemoryStore()
	}

	if deps.Site == nil {
		deps.Site = host.NewSiteStore(deps.Cache)
	}

	slug := PluginBasename(conf.PluginFile, conf.PluginsDir)

	c := &UpdateChecker{
		Config:     *conf,
		HTTPClient: deps.Client,
		ctx:        ctx,
		cache:      deps.Cache,
		site:       deps.Site,
		slug:       slug,
		baseSlug:   path.Dir(slug),
		cacheKey:   CacheKey(slug),
	}

	c.StaleSweep()

	if deps.Hooks != nil {
		c.Register(deps.Hooks)
	}

	return c
}

// PluginBasename returns the plugin id ("dir/file.php") of file relative to
// pluginsDir. Files outside pluginsDir keep their last two path elements.
func PluginBasename(file, pluginsDir string) string {
	file = filepath.Clean(file)

	if pluginsDir != "" {
		rel, err := filepath.Rel(filepath.Clean(pluginsDir), file)
		if err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}

	parts := strings.Split(strings.Trim(filepath.ToSlash(file), "/"), "/")
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], "/")
	}
	return parts[0]
}

// CacheKey derives the transient name holding remote metadata for slug.
func CacheKey(slug string) string {
	sum := sha256.Sum256([]byte(slug))
	return "bif_update_info_" + hex.EncodeToString(sum[:])[:12]
}

func (c *UpdateChecker) Slug() string     { return c.slug }
func (c *UpdateChecker) BaseSlug() string { return c.baseSlug }
func (c *UpdateChecker) CacheKey() string { return c.cacheKey }

func (c *UpdateChecker) Register(reg Registrar) {
	reg.AddUpdatePluginsFilter(PriorityUpdatePlugins, c.CheckForUpdate)
	reg.AddPluginsAPIFilter(PriorityPluginsAPI, c.ProvideMetadata)
	reg.AddAdminInitAction(PriorityAdminInit, c.ForceCheckInvalidation)
	reg.AddUpgraderCompleteAction(PriorityUpgraderComplete, c.PostUpdateInvalidation)
}

// StaleSweep drops cached metadata, and this plugin's pending entry, once the
// installed version has caught up with the cached one.
func (c *UpdateChecker) StaleSweep() {
	cached, ok := c.CachedInfo()
	if !ok {
		return
	}

	// NOTE: equality counts as stale too, so a cache that merely confirms the
	// installed version is refetched on the next pass.
	if !versions.Compare(c.Config.Version, cached.Version, versions.OpGreaterEqual) {
		return
	}

	logger.Debug("Installed %s >= cached %s, clearing update cache", c.Config.Version, cached.Version)
	c.clearCache()
	c.removePending()
}

// CheckForUpdate is the pre-set filter on the update_plugins transient.
func (c *UpdateChecker) CheckForUpdate(state *host.UpdatePlugins) *host.UpdatePlugins {
	c.resolved = false
	if state == nil || len(state.Checked) == 0 {
		return state
	}

	info, ok := c.GetRemoteInfo()
	if !ok {
		return state
	}
	c.resolved = true

	if versions.Compare(c.Config.Version, info.Version, versions.OpLess) {
		state.SetPending(c.descriptor(info))
		logger.Debug("Update available for %s: %s -> %s", c.slug, c.Config.Version, info.Version)
	} else {
		state.RemovePending(c.slug)
	}

	return state
}

// Resolved reports whether the last CheckForUpdate pass had remote metadata
// to compare against.
func (c *UpdateChecker) Resolved() bool { return c.resolved }

// ProvideMetadata answers plugin_information queries for this plugin and
// passes everything else through untouched.
func (c *UpdateChecker) ProvideMetadata(res host.InfoResult, action string, args host.QueryArgs) host.InfoResult {
	if action != host.ActionPluginInformation {
		return res
	}

	if args.Slug != c.baseSlug {
		return res
	}

	info, ok := c.GetRemoteInfo()
	if !ok {
		return res
	}

	return host.Handled(c.pluginInfo(info))
}

// GetRemoteInfo returns the cached metadata when fresh, otherwise fetches and
// caches it. The bool is false whenever no usable record could be produced.
func (c *UpdateChecker) GetRemoteInfo() (*RemoteInfo, bool) {
	if c.Config.CacheAllowed {
		if info, ok := c.CachedInfo(); ok {
			return info, true
		}
	}

	body, err := service.GetJSON(c.ctx, c.HTTPClient, c.Config.UpdateURL, c.Config.RequestTimeout)
	if err != nil {
		logger.Debug("Failed to fetch update metadata: %v", err)
		return nil, false
	}

	info, err := DecodeRemoteInfo(body)
	if err != nil {
		logger.Debug("Rejected update metadata: %v", err)
		return nil, false
	}

	if c.Config.CacheAllowed {
		c.storeInfo(info)
	}

	return info, true
}

// CachedInfo reads the cached record without touching the network.
func (c *UpdateChecker) CachedInfo() (*RemoteInfo, bool) {
	raw, ok, err := c.cache.Get(c.cacheKey)
	if err != nil {
		logger.Debug("Failed to read update cache: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var info RemoteInfo
	if err := json.Unmarshal(raw, &info); err != nil || info.Version == "" {
		logger.Debug("Ignoring unreadable update cache entry %s", c.cacheKey)
		return nil, false
	}
	return &info, true
}

// ClearCache drops the cached record. Exposed for the CLI.
func (c *UpdateChecker) ClearCache() error {
	if err := c.cache.Delete(c.cacheKey); err != nil {
		return fmt.Errorf("failed to clear update cache: %w", err)
	}
	return nil
}

func (c *UpdateChecker) storeInfo(info *RemoteInfo) {
	raw, err := json.Marshal(info)
	if err != nil {
		logger.Debug("Failed to encode update metadata: %v", err)
		return
	}

	if err := c.cache.Set(c.cacheKey, raw, c.Config.CacheTTL); err != nil {
		logger.Debug("Failed to cache update metadata: %v", err)
	}
}

func (c *UpdateChecker) clearCache() {
	if err := c.ClearCache(); err != nil {
		logger.Debug("%v", err)
	}
}

func (c *UpdateChecker) removePending() {
	state, ok, err := c.site.GetSite(host.UpdatePluginsScope)
	if err != nil {
		logger.Debug("Failed to read %s: %v", host.UpdatePluginsScope, err)
		return
	}
	if !ok || !state.RemovePending(c.slug) {
		return
	}

	if err := c.site.SetSite(host.UpdatePluginsScope, state); err != nil {
		logger.Debug("Failed to write %s: %v", host.UpdatePluginsScope, err)
	}
}

// ForceCheckInvalidation clears the cache when the admin asked for a manual
// re-check, so the pass that follows goes to the network.
func (c *UpdateChecker) ForceCheckInvalidation(req host.Request) {
	if req.Query == nil || req.Query.Get(host.ForceCheckParam) != "1" {
		return
	}
	logger.Debug("Forced update check requested, clearing cache")
	c.clearCache()
}

// PostUpdateInvalidation clears cached state after this plugin was updated.
func (c *UpdateChecker) PostUpdateInvalidation(opts host.UpgradeOptions) {
	if opts.Action != host.UpgradeActionUpdate || opts.Type != host.UpgradeTypePlugin {
		return
	}

	if !utils.Contains(opts.Plugins, c.slug) {
		return
	}

	logger.Debug("%s was updated, clearing update cache", c.slug)
	c.clearCache()
	c.removePending()
}

func (c *UpdateChecker) descriptor(info *RemoteInfo) *host.UpdateDescriptor {
	return &host.UpdateDescriptor{
		Slug:        c.baseSlug,
		Plugin:      c.slug,
		NewVersion:  info.Version,
		URL:         info.Homepage,
		Package:     info.DownloadURL,
		Tested:      info.Tested,
		Requires:    info.Requires,
		RequiresPHP: info.RequiresPHP,
	}
}

func (c *UpdateChecker) pluginInfo(info *RemoteInfo) *host.PluginInfo {
	return &host.PluginInfo{
		Name:          info.Name,
		Slug:          c.baseSlug,
		Version:       info.Version,
		Author:        info.Author,
		AuthorProfile: info.AuthorProfile,
		Homepage:      info.Homepage,
		Requires:      info.Requires,
		Tested:        info.Tested,
		RequiresPHP:   info.RequiresPHP,
		DownloadLink:  info.DownloadURL,
		Sections:      info.Sections,
		Banners:       info.Banners,
	}
}

// Status summarizes the cache for display.
type Status struct {
	Slug      string      `json:"plugin"`
	CacheKey  string      `json:"cache_key"`
	Installed string      `json:"installed"`
	Cached    *RemoteInfo `json:"cached"`
	CheckedAt time.Time   `json:"last_checked"`
}

func (c *UpdateChecker) Status() Status {
	st := Status{Slug: c.slug, CacheKey: c.cacheKey, Installed: c.Config.Version}
	if info, ok := c.CachedInfo(); ok {
		st.Cached = info
	}
	if state, ok, err := c.site.GetSite(host.UpdatePluginsScope); err == nil && ok {
		st.CheckedAt = state.LastChecked
	}
	return st
}
