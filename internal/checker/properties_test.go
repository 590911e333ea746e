package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/wpsix/breakdance-icon-fix/internal/host"
	"github.com/wpsix/breakdance-icon-fix/internal/versions"
)

func genSemver() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 4),
		gen.IntRange(0, 12),
		gen.IntRange(0, 12),
	).Map(func(v []interface{}) string {
		return fmt.Sprintf("%d.%d.%d", v[0].(int), v[1].(int), v[2].(int))
	})
}

func genRemoteInfo() gopter.Gen {
	return gopter.CombineGens(
		genSemver(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	).Map(func(v []interface{}) *RemoteInfo {
		return &RemoteInfo{
			Version:     v[0].(string),
			Name:        v[1].(string),
			Author:      v[2].(string),
			Homepage:    "https://example.test/" + v[3].(string),
			DownloadURL: "https://example.test/dl/" + v[3].(string) + ".zip",
			Tested:      "6.6",
			Requires:    "6.0",
			RequiresPHP: "7.4",
			Sections:    host.Sections{Description: v[4].(string), Changelog: v[5].(string)},
			Banners:     host.Banners{High: v[5].(string)},
		}
	})
}

func remoteFor(info *RemoteInfo, calls *int32) *fakeHTTPClient {
	body, _ := json.Marshal(info)
	return payloadClient(http.StatusOK, string(body), calls)
}

func newPropChecker(version string, deps Deps) *UpdateChecker {
	return New(context.Background(), testConfig(version), deps)
}

func TestUpdateChecker_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("sweep clears cache and pending entry when local >= cached", prop.ForAll(
		func(local, cached string) bool {
			cache := host.NewMemoryStore()
			site := host.NewSiteStore(cache)
			raw, _ := json.Marshal(RemoteInfo{Version: cached})
			_ = cache.Set(CacheKey(testSlug), raw, time.Hour)
			state := checkedState()
			state.SetPending(&host.UpdateDescriptor{Plugin: testSlug, NewVersion: cached})
			_ = site.SetSite(host.UpdatePluginsScope, state)

			var calls int32
			c := newPropChecker(local, Deps{Cache: cache, Site: site, Client: failingClient(&calls)})

			_, hasCache := c.CachedInfo()
			after, _, _ := site.GetSite(host.UpdatePluginsScope)
			_, hasPending := after.Pending(testSlug)

			if versions.Compare(local, cached, versions.OpGreaterEqual) {
				return !hasCache && !hasPending
			}
			return hasCache && hasPending
		},
		genSemver(), genSemver(),
	))

	properties.Property("CheckForUpdate is idempotent", prop.ForAll(
		func(local string, info *RemoteInfo) bool {
			var calls int32
			c := newPropChecker(local, Deps{Client: remoteFor(info, &calls)})

			first := c.CheckForUpdate(checkedState()).Clone()
			second := c.CheckForUpdate(first.Clone())

			first.LastChecked, second.LastChecked = time.Time{}, time.Time{}
			a, _ := json.Marshal(first)
			b, _ := json.Marshal(second)
			return string(a) == string(b) && calls == 1
		},
		genSemver(), genRemoteInfo(),
	))

	properties.Property("cached record equals fetched record", prop.ForAll(
		func(info *RemoteInfo) bool {
			var calls int32
			c := newPropChecker("0.0.0", Deps{Client: remoteFor(info, &calls)})

			fetched, ok := c.GetRemoteInfo()
			if !ok {
				return false
			}
			cached, ok := c.CachedInfo()
			return ok && *cached == *fetched && *fetched == *info
		},
		genRemoteInfo(),
	))

	properties.Property("pending entry present iff remote is newer", prop.ForAll(
		func(local string, info *RemoteInfo) bool {
			var calls int32
			c := newPropChecker(local, Deps{Client: remoteFor(info, &calls)})

			state := checkedState()
			state.SetPending(&host.UpdateDescriptor{Plugin: testSlug, NewVersion: "0.0.1"})
			out := c.CheckForUpdate(state)

			d, ok := out.Pending(testSlug)
			if versions.Compare(local, info.Version, versions.OpLess) {
				return ok && d.NewVersion == info.Version && d.Package == info.DownloadURL
			}
			return !ok
		},
		genSemver(), genRemoteInfo(),
	))

	properties.Property("other slugs are never answered", prop.ForAll(
		func(slug string, info *RemoteInfo) bool {
			if slug == testBaseSlug {
				return true
			}
			var calls int32
			c := newPropChecker("1.0.0", Deps{Client: remoteFor(info, &calls)})

			res := c.ProvideMetadata(host.NotHandled(), host.ActionPluginInformation, host.QueryArgs{Slug: slug})
			return !res.IsHandled() && calls == 0
		},
		gen.AlphaString(), genRemoteInfo(),
	))

	properties.Property("matching slug gets sections", prop.ForAll(
		func(info *RemoteInfo) bool {
			var calls int32
			c := newPropChecker("1.0.0", Deps{Client: remoteFor(info, &calls)})

			res := c.ProvideMetadata(host.NotHandled(), host.ActionPluginInformation, host.QueryArgs{Slug: testBaseSlug})
			got, ok := res.Info()
			return ok && got.Sections == info.Sections && got.DownloadLink == info.DownloadURL
		},
		genRemoteInfo(),
	))

	properties.Property("only plugin updates of this slug invalidate", prop.ForAll(
		func(action, kind string, includeSelf bool) bool {
			cache := host.NewMemoryStore()
			raw, _ := json.Marshal(RemoteInfo{Version: "9.0.0"})
			_ = cache.Set(CacheKey(testSlug), raw, time.Hour)
			c := newPropChecker("1.0.0", Deps{Cache: cache})

			plugins := []string{"akismet/akismet.php"}
			if includeSelf {
				plugins = append(plugins, testSlug)
			}
			c.PostUpdateInvalidation(host.UpgradeOptions{Action: action, Type: kind, Plugins: plugins})

			_, cached := c.CachedInfo()
			shouldClear := action == host.UpgradeActionUpdate && kind == host.UpgradeTypePlugin && includeSelf
			return cached != shouldClear
		},
		gen.OneConstOf(host.UpgradeActionUpdate, host.UpgradeActionInstall, "delete"),
		gen.OneConstOf(host.UpgradeTypePlugin, host.UpgradeTypeTheme, "translation"),
		gen.Bool(),
	))

	properties.Property("force-check clears only on exactly 1", prop.ForAll(
		func(flag string) bool {
			cache := host.NewMemoryStore()
			raw, _ := json.Marshal(RemoteInfo{Version: "9.0.0"})
			_ = cache.Set(CacheKey(testSlug), raw, time.Hour)
			c := newPropChecker("1.0.0", Deps{Cache: cache})

			c.ForceCheckInvalidation(host.Request{Query: url.Values{host.ForceCheckParam: {flag}}})

			_, cached := c.CachedInfo()
			return cached != (flag == "1")
		},
		gen.OneConstOf("1", "0", "", "true", "yes", "11"),
	))

	properties.Property("unavailable remote never mutates state", prop.ForAll(
		func(local string) bool {
			var calls int32
			c := newPropChecker(local, Deps{Client: failingClient(&calls)})

			state := checkedState()
			state.SetPending(&host.UpdateDescriptor{Plugin: testSlug, NewVersion: "7.7.7"})
			before, _ := json.Marshal(state)
			after, _ := json.Marshal(c.CheckForUpdate(state))

			res := c.ProvideMetadata(host.NotHandled(), host.ActionPluginInformation, host.QueryArgs{Slug: testBaseSlug})
			return string(before) == string(after) && !res.IsHandled()
		},
		genSemver(),
	))

	properties.TestingRun(t)
}
