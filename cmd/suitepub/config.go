// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/suitepub/internal/config"
	"github.com/invowk/suitepub/internal/release"
)

// newConfigCommand creates the `suitepub config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect suitepub configuration",
		Long: `Inspect suitepub configuration.

Configuration is read from the first of:
  - the file given with --config
  - suitepub.cue in the current directory
  - the user config file (e.g. ~/.config/suitepub/config.cue on Linux)

Every value can be overridden with a SUITEPUB_ environment variable, e.g.
SUITEPUB_TRUNK_BRANCH=main.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd, app, flags)
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App, flags *rootFlags) error {
	wd, err := app.Getwd()
	if err != nil {
		return &ExitError{Code: release.ExitInternal, Err: err}
	}
	cfg, err := loadConfig(cmd, app, flags, wd)
	if err != nil {
		return err
	}

	source := SubtitleStyle.Render("(using defaults)")
	if cfg.Source != "" {
		source = cfg.Source
	}
	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintf(app.stdout, "%s: %s\n\n", CmdStyle.Render("Config file"), source)
	fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
	return nil
}
