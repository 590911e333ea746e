// Package hooks is a small typed event bus mirroring the host's filter and
// action registration. Subscribers run in ascending priority order; equal
// priorities run in registration order.
package hooks

import (
	"sort"
	"sync"

	"github.com/wpsix/breakdance-icon-fix/internal/host"
)

// Hook names, as the host spells them.
const (
	FilterPreSetUpdatePlugins     = "pre_set_site_transient_update_plugins"
	FilterPluginsAPI              = "plugins_api"
	ActionAdminInit               = "admin_init"
	ActionUpgraderProcessComplete = "upgrader_process_complete"
)

const DefaultPriority = 10

type (
	UpdatePluginsFilter    func(state *host.UpdatePlugins) *host.UpdatePlugins
	PluginsAPIFilter       func(res host.InfoResult, action string, args host.QueryArgs) host.InfoResult
	AdminInitAction        func(req host.Request)
	UpgraderCompleteAction func(opts host.UpgradeOptions)
)

type entry[F any] struct {
	priority int
	seq      int
	fn       F
}

type Bus struct {
	mu               sync.Mutex
	seq              int
	updatePlugins    []entry[UpdatePluginsFilter]
	pluginsAPI       []entry[PluginsAPIFilter]
	adminInit        []entry[AdminInitAction]
	upgraderComplete []entry[UpgraderCompleteAction]
}

func New() *Bus {
	return &Bus{}
}

func insert[F any](b *Bus, list []entry[F], priority int, fn F) []entry[F] {
	b.seq++
	list = append(list, entry[F]{priority: priority, seq: b.seq, fn: fn})
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].priority != list[j].priority {
			return list[i].priority < list[j].priority
		}
		return list[i].seq < list[j].seq
	})
	return list
}

func snapshot[F any](b *Bus, get func() []entry[F]) []F {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := get()
	out := make([]F, len(list))
	for i, e := range list {
		out[i] = e.fn
	}
	return out
}

func (b *Bus) AddUpdatePluginsFilter(priority int, fn UpdatePluginsFilter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updatePlugins = insert(b, b.updatePlugins, priority, fn)
}

func (b *Bus) AddPluginsAPIFilter(priority int, fn PluginsAPIFilter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pluginsAPI = insert(b, b.pluginsAPI, priority, fn)
}

func (b *Bus) AddAdminInitAction(priority int, fn AdminInitAction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.adminInit = insert(b, b.adminInit, priority, fn)
}

func (b *Bus) AddUpgraderCompleteAction(priority int, fn UpgraderCompleteAction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.upgraderComplete = insert(b, b.upgraderComplete, priority, fn)
}

// ApplyUpdatePlugins threads state through every pre-set filter.
func (b *Bus) ApplyUpdatePlugins(state *host.UpdatePlugins) *host.UpdatePlugins {
	for _, fn := range snapshot(b, func() []entry[UpdatePluginsFilter] { return b.updatePlugins }) {
		state = fn(state)
	}
	return state
}

// ApplyPluginsAPI starts from NotHandled and lets each subscriber answer.
func (b *Bus) ApplyPluginsAPI(action string, args host.QueryArgs) host.InfoResult {
	res := host.NotHandled()
	for _, fn := range snapshot(b, func() []entry[PluginsAPIFilter] { return b.pluginsAPI }) {
		res = fn(res, action, args)
	}
	return res
}

func (b *Bus) DoAdminInit(req host.Request) {
	for _, fn := range snapshot(b, func() []entry[AdminInitAction] { return b.adminInit }) {
		fn(req)
	}
}

func (b *Bus) DoUpgraderProcessComplete(opts host.UpgradeOptions) {
	for _, fn := range snapshot(b, func() []entry[UpgraderCompleteAction] { return b.upgraderComplete }) {
		fn(opts)
	}
}

// Count returns the number of subscribers registered for hook.
func (b *Bus) Count(hook string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch hook {
	case FilterPreSetUpdatePlugins:
		return len(b.updatePlugins)
	case FilterPluginsAPI:
		return len(b.pluginsAPI)
	case ActionAdminInit:
		return len(b.adminInit)
	case ActionUpgraderProcessComplete:
		return len(b.upgraderComplete)
	}
	return 0
}
