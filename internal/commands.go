package internal

import (
	"github.com/spf13/cobra"

	"github.com/wpsix/breakdance-icon-fix/internal/middleware"
)

var withRuntime = middleware.UseMiddlewareChain(middleware.RequireConfig, middleware.LoadRuntime)

var defaultCommands = []middleware.CommandFactory{
	NewInitCmd,
	NewVersionCmd,
	withRuntime(NewCheckCmd),
	withRuntime(NewInfoCmd),
	withRuntime(NewAdminInitCmd),
	withRuntime(NewUpgradeCompleteCmd),
	NewCacheCmd,
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}
