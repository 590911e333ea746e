package middleware

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wpsix/breakdance-icon-fix/internal/config"
	"github.com/wpsix/breakdance-icon-fix/internal/core"
	"github.com/wpsix/breakdance-icon-fix/internal/utils"
)

// RuntimeOptions are appended to every runtime built by LoadRuntime. Tests use
// it to swap the HTTP client.
var RuntimeOptions []core.Option

// LoadRuntime builds the host runtime from the config stored by RequireConfig.
// The root command closes it after a successful run; a failing RunE or a
// failing later middleware closes it here, since cobra skips post-run hooks
// on error.
func LoadRuntime(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	cfg, err := Get[*config.Config](cmd, CtxKeyConfig)
	if err != nil {
		return err
	}

	rt, err := core.NewRuntime(cmd.Context(), cfg, RuntimeOptions...)
	if err != nil {
		return err
	}

	ctx := context.WithValue(cmd.Context(), CtxKeyRuntime, rt)
	cmd.SetContext(ctx)

	if run := cmd.RunE; run != nil {
		cmd.RunE = func(c *cobra.Command, a []string) error {
			if err := run(c, a); err != nil {
				utils.Try(rt.Close)
				return err
			}
			return nil
		}
	}

	if err := next(cmd, args); err != nil {
		utils.Try(rt.Close)
		return err
	}
	return nil
}
