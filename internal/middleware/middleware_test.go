package middleware

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpsix/breakdance-icon-fix/internal/config"
	"github.com/wpsix/breakdance-icon-fix/internal/core"
	"github.com/wpsix/breakdance-icon-fix/internal/errs"
	"github.com/wpsix/breakdance-icon-fix/internal/host"
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
)

func TestUseMiddlewareChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) MiddlewareFunc {
		return func(cmd *cobra.Command, args []string, next func(*cobra.Command, []string) error) error {
			order = append(order, name)
			return next(cmd, args)
		}
	}

	factory := UseMiddlewareChain(mw("a"), mw("b"))(func() *cobra.Command {
		return &cobra.Command{
			Use:     "x",
			PreRunE: func(*cobra.Command, []string) error { order = append(order, "pre"); return nil },
			RunE:    func(*cobra.Command, []string) error { order = append(order, "run"); return nil },
		}
	})

	cmd := factory()
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, []string{"a", "b", "pre", "run"}, order)
}

func TestUseMiddlewareChain_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	factory := UseMiddlewareChain(func(*cobra.Command, []string, func(*cobra.Command, []string) error) error {
		return boom
	})(func() *cobra.Command {
		return &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { ran = true; return nil }}
	})

	cmd := factory()
	cmd.SetArgs([]string{})
	cmd.SilenceErrors = true
	assert.ErrorIs(t, cmd.Execute(), boom)
	assert.False(t, ran)
}

func TestGet(t *testing.T) {
	cmd := &cobra.Command{}

	_, err := Get[*config.Config](cmd, CtxKeyConfig)
	assert.Error(t, err, "nil context")

	cmd.SetContext(context.Background())
	_, err = Get[*config.Config](cmd, CtxKeyConfig)
	assert.Error(t, err, "missing value")

	cmd.SetContext(context.WithValue(context.Background(), CtxKeyConfig, "nope"))
	_, err = Get[*config.Config](cmd, CtxKeyConfig)
	assert.Error(t, err, "wrong type")

	cfg := config.DefaultTestConfig()
	cmd.SetContext(context.WithValue(context.Background(), CtxKeyConfig, &cfg))
	got, err := Get[*config.Config](cmd, CtxKeyConfig)
	require.NoError(t, err)
	assert.Same(t, &cfg, got)
}

func TestRequireConfigAndLoadRuntime(t *testing.T) {
	logger.UseTestMode()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("store: memory\nversion: 2.0.0\n"), 0o644))

	var rt *core.Runtime
	factory := UseMiddlewareChain(RequireConfig, LoadRuntime)(func() *cobra.Command {
		cmd := &cobra.Command{
			Use: "x",
			RunE: func(cmd *cobra.Command, _ []string) error {
				var err error
				rt, err = Get[*core.Runtime](cmd, CtxKeyRuntime)
				return err
			},
		}
		cmd.Flags().String("config", "", "")
		return cmd
	})

	cmd := factory()
	cmd.SetArgs([]string{"--config", path})
	require.NoError(t, cmd.Execute())
	require.NotNil(t, rt)
	assert.Equal(t, "2.0.0", rt.Config.Version)
	assert.Equal(t, host.BackendMemory, rt.Config.Store)
	require.NoError(t, rt.Close())
}

func TestLoadRuntime_ClosesStoreWhenCommandFails(t *testing.T) {
	logger.UseTestMode()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("store: sqlite\nstate_dir: "+dir+"\n"), 0o644))

	boom := errors.New("boom")
	tests := map[string][]MiddlewareFunc{
		"run fails": {RequireConfig, LoadRuntime},
		"later middleware fails": {RequireConfig, LoadRuntime, func(*cobra.Command, []string, func(*cobra.Command, []string) error) error {
			return boom
		}},
	}
	for name, chain := range tests {
		t.Run(name, func(t *testing.T) {
			var rt *core.Runtime
			factory := UseMiddlewareChain(chain...)(func() *cobra.Command {
				cmd := &cobra.Command{
					Use: "x",
					RunE: func(cmd *cobra.Command, _ []string) error {
						rt, _ = Get[*core.Runtime](cmd, CtxKeyRuntime)
						return boom
					},
				}
				cmd.Flags().String("config", "", "")
				return cmd
			})

			cmd := factory()
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			cmd.SetArgs([]string{"--config", path})
			cmd.PersistentPostRunE = func(c *cobra.Command, _ []string) error {
				t.Fatal("post-run hooks do not run after a failure")
				return nil
			}
			if name == "later middleware fails" {
				orig := cmd.PreRunE
				cmd.PreRunE = func(c *cobra.Command, a []string) error {
					err := orig(c, a)
					rt, _ = Get[*core.Runtime](c, CtxKeyRuntime)
					return err
				}
			}

			require.ErrorIs(t, cmd.Execute(), boom)
			require.NotNil(t, rt)

			_, _, err := rt.Store.Get("anything")
			assert.Error(t, err, "sqlite handle is closed")
		})
	}
}

func TestFlagComboError(t *testing.T) {
	logger.UseTestMode()
	err := FlagComboError(errs.UpgradeNeedsPlugins, "update", "plugin", "x/y.php")
	assert.ErrorIs(t, err, ErrLogged)
}
