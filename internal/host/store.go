package host

import (
	"encoding/json"
	"fmt"
	"time"
)

// TransientStore is the host's expiring key/value cache. A zero ttl stores
// the value without expiry. Get reports absence with ok=false and a nil error.
type TransientStore interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// SiteTransients gives typed access to the shared site-wide update record.
type SiteTransients interface {
	GetSite(scope string) (*UpdatePlugins, bool, error)
	SetSite(scope string, v *UpdatePlugins) error
}

type options struct {
	now func() time.Time
}

// Option configures a store.
type Option func(*options)

// WithNowFunc injects the clock used for expiry decisions.
func WithNowFunc(fn func() time.Time) Option {
	return func(o *options) {
		o.now = fn
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

func expired(now, expireAt time.Time) bool {
	return !expireAt.IsZero() && !now.Before(expireAt)
}

const siteKeyPrefix = "site_transient_"

// SiteStore stores site transients as JSON documents in a TransientStore
// without expiry.
type SiteStore struct {
	store TransientStore
}

func NewSiteStore(store TransientStore) *SiteStore {
	return &SiteStore{store: store}
}

func (s *SiteStore) GetSite(scope string) (*UpdatePlugins, bool, error) {
	raw, ok, err := s.store.Get(siteKeyPrefix + scope)
	if err != nil || !ok {
		return nil, false, err
	}

	var v UpdatePlugins
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, fmt.Errorf("decode site transient %q: %w", scope, err)
	}
	return &v, true, nil
}

func (s *SiteStore) SetSite(scope string, v *UpdatePlugins) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode site transient %q: %w", scope, err)
	}
	return s.store.Set(siteKeyPrefix+scope, raw, 0)
}
