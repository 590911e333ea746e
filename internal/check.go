package internal

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/wpsix/breakdance-icon-fix/internal/core"
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
	"github.com/wpsix/breakdance-icon-fix/internal/middleware"
	"github.com/wpsix/breakdance-icon-fix/internal/notifier"
)

func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run an update-check pass and store the result",
		Long: `Run an update-check pass.

The installed plugin is reported as checked, the update_plugins record is
passed through the pre-set filter and written back to the store. A notice is
printed when an update is pending.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := middleware.Get[*core.Runtime](cmd, middleware.CtxKeyRuntime)
			if err != nil {
				return err
			}

			state, resolved, err := rt.CheckUpdates()
			if err != nil {
				return err
			}

			if logger.FlagJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(state)
			}

			if !resolved {
				logger.Warn("No usable update metadata at %s, nothing changed", rt.Config.UpdateURL)
				return nil
			}

			d, ok := state.Pending(rt.Checker.Slug())
			if !ok {
				logger.Success("%s %s is up to date", rt.Checker.Slug(), rt.Config.Version)
				return nil
			}

			notifier.DisplayVersionUpdate(rt.Checker.Slug(), rt.Config.Version, d.NewVersion)
			return nil
		},
	}
}
