package internal

import (
	"github.com/spf13/cobra"

	"github.com/wpsix/breakdance-icon-fix/internal/checker"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			checker.PrintVersion(cmd.OutOrStdout())
		},
	}
}
