// Package host models the parts of the host platform the update checker talks
// to: the transient key/value store and the shared update_plugins record.
package host

import (
	"encoding/json"
	"time"
)

// UpdatePluginsScope is the site transient holding pending plugin updates.
const UpdatePluginsScope = "update_plugins"

// UpdateDescriptor describes one available update, keyed by plugin id in
// UpdatePlugins.Response.
type UpdateDescriptor struct {
	Slug        string `json:"slug"`
	Plugin      string `json:"plugin"`
	NewVersion  string `json:"new_version"`
	URL         string `json:"url,omitempty"`
	Package     string `json:"package,omitempty"`
	Tested      string `json:"tested,omitempty"`
	Requires    string `json:"requires,omitempty"`
	RequiresPHP string `json:"requires_php,omitempty"`
}

// UpdatePlugins is the host's aggregate of the last update-check pass.
// Checked maps plugin id to installed version; an empty Checked means the
// pass is not a real check and filters must leave it alone.
type UpdatePlugins struct {
	LastChecked  time.Time                    `json:"last_checked"`
	Checked      map[string]string            `json:"checked,omitempty"`
	Response     map[string]*UpdateDescriptor `json:"response,omitempty"`
	NoUpdate     map[string]*UpdateDescriptor `json:"no_update,omitempty"`
	Translations []json.RawMessage            `json:"translations,omitempty"`
}

func NewUpdatePlugins(checked map[string]string) *UpdatePlugins {
	return &UpdatePlugins{
		LastChecked: time.Now().UTC(),
		Checked:     checked,
		Response:    make(map[string]*UpdateDescriptor),
	}
}

// Pending returns the response entry for plugin, if any.
func (u *UpdatePlugins) Pending(plugin string) (*UpdateDescriptor, bool) {
	if u == nil || u.Response == nil {
		return nil, false
	}
	d, ok := u.Response[plugin]
	return d, ok
}

// SetPending upserts the response entry for d.Plugin.
func (u *UpdatePlugins) SetPending(d *UpdateDescriptor) {
	if u.Response == nil {
		u.Response = make(map[string]*UpdateDescriptor)
	}
	u.Response[d.Plugin] = d
}

// RemovePending deletes the response entry for plugin and reports whether
// anything was removed.
func (u *UpdatePlugins) RemovePending(plugin string) bool {
	if u == nil || u.Response == nil {
		return false
	}
	if _, ok := u.Response[plugin]; !ok {
		return false
	}
	delete(u.Response, plugin)
	return true
}

// Clone returns a deep copy.
func (u *UpdatePlugins) Clone() *UpdatePlugins {
	if u == nil {
		return nil
	}
	c := &UpdatePlugins{LastChecked: u.LastChecked}
	if u.Checked != nil {
		c.Checked = make(map[string]string, len(u.Checked))
		for k, v := range u.Checked {
			c.Checked[k] = v
		}
	}
	c.Response = cloneDescriptors(u.Response)
	c.NoUpdate = cloneDescriptors(u.NoUpdate)
	if u.Translations != nil {
		c.Translations = append([]json.RawMessage(nil), u.Translations...)
	}
	return c
}

func cloneDescriptors(in map[string]*UpdateDescriptor) map[string]*UpdateDescriptor {
	if in == nil {
		return nil
	}
	out := make(map[string]*UpdateDescriptor, len(in))
	for k, v := range in {
		if v == nil {
			out[k] = nil
			continue
		}
		d := *v
		out[k] = &d
	}
	return out
}
