// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/suitepub/internal/config"
	"github.com/invowk/suitepub/internal/gitrepo"
	"github.com/invowk/suitepub/internal/issue"
	"github.com/invowk/suitepub/internal/prompt"
	"github.com/invowk/suitepub/internal/release"
)

// runRelease loads the configuration, opens the repository and runs the
// release flow.
func runRelease(cmd *cobra.Command, app *App, flags *rootFlags) error {
	ctx := cmd.Context()

	wd, err := app.Getwd()
	if err != nil {
		return &ExitError{Code: release.ExitInternal, Err: fmt.Errorf("failed to get working directory: %w", err)}
	}

	cfg, err := loadConfig(cmd, app, flags, wd)
	if err != nil {
		return err
	}

	logger := app.progressLogger()
	diag := app.diagLogger()
	if cfg.Source != "" {
		logger.Debug("Loaded configuration", "file", cfg.Source)
	}

	repo, err := gitrepo.Open(wd, app.Runner)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: &release.StepError{
			Step: release.StepRoot, Code: ExitUsage, Issue: issue.NotRepositoryRootId, Err: err,
		}}
	}

	tag := cfg.DefaultTag
	tagExplicit := cmd.Flags().Changed("tag")
	if tagExplicit {
		tag = flags.tag.t
	}

	rel := release.New(release.Deps{
		Config:   cfg,
		Repo:     repo,
		Runner:   app.Runner,
		Finder:   app.Finder,
		Prompter: prompt.New(app.stdin, app.stdout, diag),
		Opener:   app.Opener,
		Logger:   logger,
		Diag:     diag,
		Stdout:   app.stdout,
		Stderr:   app.stderr,
		WorkDir:  wd,
	}, release.Options{
		Version:     flags.version.n,
		Tag:         tag.String(),
		TagExplicit: tagExplicit,
		DryRun:      flags.dryRun,
	})

	if err := rel.Run(ctx); err != nil {
		return toExitError(err)
	}
	if !flags.dryRun {
		fmt.Fprintln(app.stdout, SuccessStyle.Render("Release complete."))
	}
	return nil
}

// loadConfig loads the configuration for wd and applies its UI settings
// to app. Load failures exit with the usage code.
func loadConfig(cmd *cobra.Command, app *App, flags *rootFlags, wd string) (*config.Config, error) {
	cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{
		ConfigFilePath: flags.configPath,
		RepoDir:        wd,
	})
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Err: &release.StepError{
			Step: release.StepConfig, Code: ExitUsage, Issue: issue.ConfigLoadFailedId, Err: err,
		}}
	}
	app.verbose = flags.verbose || cfg.UI.Verbose
	app.glamourStyle = cfg.UI.ColorScheme.GlamourStyle()
	return cfg, nil
}
