package internal

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/wpsix/breakdance-icon-fix/internal/core"
	"github.com/wpsix/breakdance-icon-fix/internal/host"
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
	"github.com/wpsix/breakdance-icon-fix/internal/middleware"
	"github.com/wpsix/breakdance-icon-fix/internal/utils"
)

func NewInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [slug]",
		Short: "Show the plugin_information answer for a slug",
		Long: `Dispatch a plugins_api "plugin_information" query.

The slug is the plugin directory (breakdance-icon-fix), not the plugin file.
Without an argument the managed plugin's slug is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := middleware.Get[*core.Runtime](cmd, middleware.CtxKeyRuntime)
			if err != nil {
				return err
			}

			slug := rt.Checker.BaseSlug()
			if len(args) == 1 {
				slug = args[0]
			}

			info, err := rt.PluginInfo(slug)
			if err != nil {
				return err
			}

			if logger.FlagJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			return renderInfo(info)
		},
	}
}

func renderInfo(info *host.PluginInfo) error {
	table := logger.CreateTable([]string{"Field", "Value"})

	rows := [][]string{
		{"Name", info.Name},
		{"Slug", info.Slug},
		{"Version", info.Version},
		{"Author", info.Author},
		{"Homepage", info.Homepage},
		{"Requires", info.Requires},
		{"Tested", info.Tested},
		{"Requires PHP", info.RequiresPHP},
		{"Download", info.DownloadLink},
		{"Description", truncate(utils.StripHTML(info.Sections.Description), 60)},
		{"Changelog", truncate(utils.StripHTML(info.Sections.Changelog), 60)},
	}

	for _, row := range rows {
		if row[1] == "" {
			row[1] = "-"
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}

	return table.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
