package internal

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wpsix/breakdance-icon-fix/internal/checker"
	"github.com/wpsix/breakdance-icon-fix/internal/core"
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
	"github.com/wpsix/breakdance-icon-fix/internal/middleware"
	"github.com/wpsix/breakdance-icon-fix/internal/notifier"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bif-updater",
		Short: "Self-hosted update checker for Breakdance Icon Fix",
		Long: `bif-updater drives the Breakdance Icon Fix update checker outside of a
running site. It plays the host's part: it keeps the transient store, fires
the update hooks and shows what the plugin screen would show.`,
		Example: `bif-updater check
bif-updater info breakdance-icon-fix
bif-updater upgrade-complete --action update --type plugin --plugins breakdance-icon-fix/plugin.php`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.ConfigureLoggerFromFlags()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			versionFlag, _ := cmd.Flags().GetBool("version")
			if versionFlag {
				checker.PrintVersion(cmd.OutOrStdout())
				return
			}
			_ = cmd.Help()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := middleware.Get[*core.Runtime](cmd, middleware.CtxKeyRuntime)
			if err != nil {
				return nil
			}
			defer func() {
				if err := rt.Close(); err != nil {
					logger.Debug("Failed to close runtime: %v", err)
				}
			}()

			noUpdate, _ := cmd.Flags().GetBool("no-update-check")

			envNoUpdate := strings.TrimSpace(os.Getenv("BIF_NO_UPDATE_CHECK")) == "1"

			switch {
			case cmd.Name() == "check",
				logger.FlagJSON,
				envNoUpdate || noUpdate:
				return nil
			}

			notifier.DisplayUpdateNotification(rt.Site, rt.Checker.Slug(), rt.Config.Version)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.Flags().BoolP("version", "v", false, "Print version information")
	cmd.PersistentFlags().Bool("no-update-check", false, "Skip the pending update notice")
	cmd.PersistentFlags().String("config", "", "Config file (default ~/.config/bif-updater/config.yml)")
	cmd.PersistentFlags().CountVarP(&logger.FlagVerboseCount, "verbose", "V", "Verbose output (-V, -VV)")
	cmd.PersistentFlags().BoolVarP(&logger.FlagQuiet, "quiet", "q", false, "Only print errors")
	cmd.PersistentFlags().BoolVarP(&logger.FlagSilent, "silent", "s", false, "Print nothing")
	cmd.PersistentFlags().BoolVar(&logger.FlagJSON, "json", false, "Machine-readable output")

	RegisterSubCommands(cmd)

	return cmd
}

func Execute() error {
	root := NewRootCmd()

	if os.Getenv("COMP_LINE") != "" ||
		(len(os.Args) > 1 && strings.HasPrefix(os.Args[1], "__complete")) {
		return root.Execute()
	}

	if err := root.Execute(); err != nil {
		logger.Debug("Failed to execute root command: %v", err)
		return err
	}
	return nil
}
