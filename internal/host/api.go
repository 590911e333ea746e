package host

import "net/url"

// ActionPluginInformation is the plugins_api action asking for full details.
const ActionPluginInformation = "plugin_information"

// Upgrader action and type values reported by upgrader_process_complete.
const (
	UpgradeActionUpdate  = "update"
	UpgradeActionInstall = "install"
	UpgradeTypePlugin    = "plugin"
	UpgradeTypeTheme     = "theme"
)

// ForceCheckParam is the query flag the host sets on a manual re-check.
const ForceCheckParam = "force-check"

type Sections struct {
	Description string `json:"description"`
	Changelog   string `json:"changelog"`
}

type Banners struct {
	High string `json:"high"`
	Low  string `json:"low"`
}

// PluginInfo is the full descriptor answered to a plugin_information query.
type PluginInfo struct {
	Name          string   `json:"name,omitempty"`
	Slug          string   `json:"slug"`
	Version       string   `json:"version"`
	Author        string   `json:"author,omitempty"`
	AuthorProfile string   `json:"author_profile,omitempty"`
	Homepage      string   `json:"homepage,omitempty"`
	Requires      string   `json:"requires,omitempty"`
	Tested        string   `json:"tested,omitempty"`
	RequiresPHP   string   `json:"requires_php,omitempty"`
	DownloadLink  string   `json:"download_link,omitempty"`
	Sections      Sections `json:"sections"`
	Banners       Banners  `json:"banners"`
}

// InfoResult is the value threaded through the plugins_api filter. The zero
// value means "not handled": the host falls back to its own directory. A
// handled result always carries a non-nil Info, even if its fields are empty.
type InfoResult struct {
	info *PluginInfo
}

func NotHandled() InfoResult { return InfoResult{} }

func Handled(info *PluginInfo) InfoResult {
	if info == nil {
		info = &PluginInfo{}
	}
	return InfoResult{info: info}
}

func (r InfoResult) IsHandled() bool { return r.info != nil }

// Info returns the descriptor and whether the query was handled.
func (r InfoResult) Info() (*PluginInfo, bool) {
	return r.info, r.info != nil
}

// QueryArgs carries the plugins_api arguments.
type QueryArgs struct {
	Slug   string
	Locale string
	Fields map[string]bool
}

// UpgradeOptions is the summary passed to upgrader_process_complete.
type UpgradeOptions struct {
	Action  string
	Type    string
	Plugins []string
}

// Request is the request-scoped data seen by admin_init.
type Request struct {
	Query url.Values
}
