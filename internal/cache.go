package internal

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wpsix/breakdance-icon-fix/internal/checker"
	"github.com/wpsix/breakdance-icon-fix/internal/core"
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
	"github.com/wpsix/breakdance-icon-fix/internal/middleware"
	"github.com/wpsix/breakdance-icon-fix/internal/prompter"
)

func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the cached update metadata",
	}

	cmd.AddCommand(withRuntime(newCacheShowCmd)(), withRuntime(newCacheClearCmd)())
	return cmd
}

func newCacheShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cached metadata record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := middleware.Get[*core.Runtime](cmd, middleware.CtxKeyRuntime)
			if err != nil {
				return err
			}

			st := rt.Checker.Status()

			if logger.FlagJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}

			return renderStatus(st)
		},
	}
}

func renderStatus(st checker.Status) error {
	table := logger.CreateTable([]string{"Plugin", "Installed", "Cached", "Cache key", "Last check"})

	cached := "-"
	if st.Cached != nil {
		cached = st.Cached.Version
	}
	lastCheck := "never"
	if !st.CheckedAt.IsZero() {
		lastCheck = st.CheckedAt.Local().Format(time.DateTime)
	}

	if err := table.Append([]string{st.Slug, st.Installed, cached, st.CacheKey, lastCheck}); err != nil {
		return err
	}
	return table.Render()
}

func newCacheClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop the cached metadata record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := middleware.Get[*core.Runtime](cmd, middleware.CtxKeyRuntime)
			if err != nil {
				return err
			}

			yes, err := cmd.Flags().GetBool("yes")
			if err != nil {
				return err
			}

			var p prompter.Prompter = prompter.New(os.Stdin, cmd.OutOrStdout())
			if yes {
				p = prompter.Static{Answer: true}
			}

			ok, err := p.Confirm("Clear cached update metadata for " + rt.Checker.Slug() + "?")
			if err != nil {
				return err
			}
			if !ok {
				logger.Info("Aborted")
				return nil
			}

			if err := rt.Checker.ClearCache(); err != nil {
				return err
			}
			logger.Success("Update cache cleared")
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}
