package internal

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wpsix/breakdance-icon-fix/internal/initiator"
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
	"github.com/wpsix/breakdance-icon-fix/internal/prompter"
)

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the bif-updater configuration",
		Long: `Write the bif-updater configuration.
This command will:
- Ask for the plugin file, installed version, update URL and store backend
- Create the configuration directory in ~/.config/bif-updater
- Save the answers to config.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			yes, err := cmd.Flags().GetBool("yes")
			if err != nil {
				return err
			}
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}

			var p prompter.Prompter = prompter.New(os.Stdin, cmd.OutOrStdout())
			if yes {
				p = prompter.Static{Answer: true}
			}

			cfg, err := initiator.New(path, p).Execute()
			if err != nil {
				return err
			}

			logger.Success("Initialized bif-updater for %s", cfg.PluginFile)
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Accept the current values without prompting")
	return cmd
}
