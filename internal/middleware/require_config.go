package middleware

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wpsix/breakdance-icon-fix/internal/globalconfig"
)

// RequireConfig resolves the runtime configuration (file, then BIF_*
// environment) and stores it under CtxKeyConfig.
func RequireConfig(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	var opts []globalconfig.Option
	if f := cmd.Flags().Lookup("config"); f != nil && f.Value.String() != "" {
		opts = append(opts, globalconfig.WithConfigPath(f.Value.String()))
	}

	cfg, err := globalconfig.Load(opts...)
	if err != nil {
		return fmt.Errorf("missing config: %w", err)
	}

	ctx := context.WithValue(cmd.Context(), CtxKeyConfig, cfg)
	cmd.SetContext(ctx)

	return next(cmd, args)
}
