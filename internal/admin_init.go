package internal

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/wpsix/breakdance-icon-fix/internal/core"
	"github.com/wpsix/breakdance-icon-fix/internal/errs"
	"github.com/wpsix/breakdance-icon-fix/internal/host"
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
	"github.com/wpsix/breakdance-icon-fix/internal/middleware"
)

func NewAdminInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin-init",
		Short: "Dispatch admin_init, optionally as a forced re-check",
		Long: `Dispatch the admin_init action.

Examples:
  bif-updater admin-init --force-check      # same as the "Check again" button
  bif-updater admin-init --query page=plugins`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, err := cmd.Flags().GetBool("force-check")
			if err != nil {
				return err
			}
			pairs, err := cmd.Flags().GetStringToString("query")
			if err != nil {
				return err
			}

			if _, clash := pairs[host.ForceCheckParam]; clash && force {
				return middleware.FlagComboError(errs.ForceCheckWithQuery, host.ForceCheckParam)
			}

			rt, err := middleware.Get[*core.Runtime](cmd, middleware.CtxKeyRuntime)
			if err != nil {
				return err
			}

			query := url.Values{}
			for k, v := range pairs {
				query.Set(k, v)
			}
			if force {
				query.Set(host.ForceCheckParam, "1")
			}

			rt.AdminInit(query)
			logger.Info("admin_init dispatched (%s)", query.Encode())
			return nil
		},
	}

	cmd.Flags().BoolP("force-check", "f", false, "Set force-check=1 on the request")
	cmd.Flags().StringToString("query", nil, "Extra request query parameters (key=value)")
	return cmd
}
