package config

import (
	"testing"
	"time"

	"github.com/wpsix/breakdance-icon-fix/internal/host"
)

func TestDefaultCheckerConfig(t *testing.T) {
	c := DefaultCheckerConfig()
	if c.CacheTTL != 12*time.Hour {
		t.Fatalf("want CacheTTL=12h, got %s", c.CacheTTL)
	}
	if c.RequestTimeout != 10*time.Second {
		t.Fatalf("want RequestTimeout=10s, got %s", c.RequestTimeout)
	}
	if !c.CacheAllowed {
		t.Fatal("want CacheAllowed=true")
	}
	if c.UpdateURL == "" {
		t.Fatal("want UpdateURL")
	}
	if c.Store != host.BackendFile {
		t.Fatalf("want file store, got %q", c.Store)
	}
}

func TestDefaultTestConfig(t *testing.T) {
	c := DefaultTestConfig()
	if c.Store != host.BackendMemory {
		t.Fatalf("want memory store, got %q", c.Store)
	}
	if c.CacheTTL != DefaultCheckerConfig().CacheTTL {
		t.Fatal("want same TTL as checker config")
	}
}
