package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.json")

	ok, err := FileExists(path)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	ok, err = FileExists(path)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = FileExists(dir)
	assert.Error(t, err)
}

func TestWriteJSONAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "transients.json")

	require.NoError(t, WriteJSONAtomic(path, sample{Name: "first"}))
	require.NoError(t, WriteJSONAtomic(path, sample{Name: "second"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var out sample
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "second", out.Name)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteJSONAtomic_Unencodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")

	assert.Error(t, WriteJSONAtomic(path, map[string]any{"ch": make(chan int)}))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/var/lib/state")
	assert.Equal(t, "/var/lib/state/bif-updater", StateDir("bif-updater"))

	home := t.TempDir()
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, ".local", "state", "bif-updater"), StateDir("bif-updater"))
}
