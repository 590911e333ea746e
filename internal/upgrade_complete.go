package internal

import (
	"github.com/spf13/cobra"

	"github.com/wpsix/breakdance-icon-fix/internal/core"
	"github.com/wpsix/breakdance-icon-fix/internal/errs"
	"github.com/wpsix/breakdance-icon-fix/internal/host"
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
	"github.com/wpsix/breakdance-icon-fix/internal/middleware"
	"github.com/wpsix/breakdance-icon-fix/internal/utils"
)

func NewUpgradeCompleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade-complete",
		Short: "Dispatch upgrader_process_complete",
		Long: `Dispatch the upgrader_process_complete action, as the host does once an
install or update finished.

Examples:
  bif-updater upgrade-complete --action update --type plugin --plugins breakdance-icon-fix/plugin.php
  bif-updater upgrade-complete --action install --type plugin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			action, err := cmd.Flags().GetString("action")
			if err != nil {
				return err
			}
			kind, err := cmd.Flags().GetString("type")
			if err != nil {
				return err
			}
			plugins, err := cmd.Flags().GetStringSlice("plugins")
			if err != nil {
				return err
			}

			if !utils.Contains([]string{host.UpgradeActionUpdate, host.UpgradeActionInstall}, action) {
				return middleware.FlagComboError(errs.UnknownUpgradeKind, "action", action)
			}
			if !utils.Contains([]string{host.UpgradeTypePlugin, host.UpgradeTypeTheme}, kind) {
				return middleware.FlagComboError(errs.UnknownUpgradeKind, "type", kind)
			}

			rt, err := middleware.Get[*core.Runtime](cmd, middleware.CtxKeyRuntime)
			if err != nil {
				return err
			}

			if action == host.UpgradeActionUpdate && kind == host.UpgradeTypePlugin && len(plugins) == 0 {
				return middleware.FlagComboError(errs.UpgradeNeedsPlugins, action, kind, rt.Checker.Slug())
			}

			rt.UpgradeComplete(host.UpgradeOptions{Action: action, Type: kind, Plugins: plugins})
			logger.Info("upgrader_process_complete dispatched: %s %s %v", action, kind, plugins)
			return nil
		},
	}

	cmd.Flags().String("action", host.UpgradeActionUpdate, "Completed action (update|install)")
	cmd.Flags().String("type", host.UpgradeTypePlugin, "Upgraded item type (plugin|theme)")
	cmd.Flags().StringSlice("plugins", nil, "Plugin ids touched by the upgrade")
	return cmd
}
