package initiator

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpsix/breakdance-icon-fix/internal/config"
	"github.com/wpsix/breakdance-icon-fix/internal/globalconfig"
	"github.com/wpsix/breakdance-icon-fix/internal/host"
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
	"github.com/wpsix/breakdance-icon-fix/internal/prompter"
)

func TestInitiator_Defaults(t *testing.T) {
	logger.UseTestMode()
	path := filepath.Join(t.TempDir(), "config.yml")

	cfg, err := New(path, nil).Execute()
	require.NoError(t, err)

	assert.Equal(t, config.DefaultCheckerConfig().PluginFile, cfg.PluginFile)
	assert.FileExists(t, path)
}

func TestInitiator_Answers(t *testing.T) {
	logger.UseTestMode()
	path := filepath.Join(t.TempDir(), "config.yml")
	answers := strings.Join([]string{
		"/srv/wp/wp-content/plugins/breakdance-icon-fix/plugin.php",
		"",
		"1.0.4",
		"",
		"sqlite",
	}, "\n") + "\n"
	p := prompter.New(strings.NewReader(answers), &strings.Builder{})

	_, err := New(path, p).Execute()
	require.NoError(t, err)

	loaded, err := globalconfig.Load(globalconfig.WithConfigPath(path))
	require.NoError(t, err)
	assert.Equal(t, "/srv/wp/wp-content/plugins", loaded.PluginsDir)
	assert.Equal(t, "1.0.4", loaded.Version)
	assert.Equal(t, host.BackendSQLite, loaded.Store)
}

func TestInitiator_RejectsPlainHTTP(t *testing.T) {
	logger.UseTestMode()
	path := filepath.Join(t.TempDir(), "config.yml")
	answers := "\n\n\nhttp://insecure.example.test/info.json\n\n"
	p := prompter.New(strings.NewReader(answers), &strings.Builder{})

	_, err := New(path, p).Execute()
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}
