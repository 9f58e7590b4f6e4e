// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/invowk/suitepub/internal/config"
	"github.com/invowk/suitepub/internal/issue"
	"github.com/invowk/suitepub/internal/release"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the suitepub command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "suitepub",
		Short: "Publish a multi-package JavaScript suite",
		Long: TitleStyle.Render("suitepub") + SubtitleStyle.Render(" - Publish a multi-package JavaScript suite") + `

suitepub checks that the repository is ready for a release, bumps the version
of every package in the suite, reinstalls, builds and publishes each one
(primary package first), commits the bumps, pushes and opens a pre-filled
release page.

` + SubtitleStyle.Render("Exit codes:") + `
  2  usage error or failed precondition
  3  uncommitted changes in the working tree
  4  install, build, publish or git command failed
  5  lock file not updated by the reinstall

` + SubtitleStyle.Render("Examples:") + `
  suitepub                  Prompt for the version and release from trunk
  suitepub -V 2.3.0         Release 2.3.0 without prompting
  suitepub -V 3.0.0-rc.1 -t next
                            Publish a pre-release under the "next" tag
  suitepub --dry-run        Show the release plan without changing anything
  suitepub config show      Show the effective configuration`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
			return &ExitError{Code: ExitUsage, Err: fmt.Errorf("unexpected argument %q", args[0])}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRelease(cmd, app, flags)
		},
	}

	rootCmd.Flags().VarP(&flags.version, "set-version", "V", "release version MAJOR.MINOR.PATCH[-PRERELEASE] (prompted if omitted)")
	flags.tag.t = config.DefaultConfig().DefaultTag
	rootCmd.Flags().VarP(&flags.tag, "tag", "t", "distribution tag; giving one lifts the trunk branch requirement")
	rootCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "check preconditions and print the plan without changing anything")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is ./suitepub.cue, then the user config)")

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command line and exits with its status code.
// This is called by main.main().
func Execute() {
	os.Exit(Run(context.Background(), NewApp(Dependencies{}), os.Args[1:]))
}

// Run executes the command line with args and returns the exit code.
func Run(ctx context.Context, app *App, args []string) int {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	)
	if err == nil {
		if helpRequested(rootCmd, args) {
			return ExitUsage
		}
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	// Flag and argument parsing errors.
	return ExitUsage
}

// helpRequested reports whether -h/--help was given to the command args
// resolve to.
func helpRequested(rootCmd *cobra.Command, args []string) bool {
	target, _, err := rootCmd.Find(args)
	if err != nil || target == nil {
		target = rootCmd
	}
	f := target.Flags().Lookup("help")
	return f != nil && f.Changed
}

// handleError prints err to stderr framed by blank lines, followed by the
// matching issue guide when the failure has one.
func (a *App) handleError(w io.Writer, _ fang.Styles, err error) {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(ErrorStyle.Render("Error: "))
	sb.WriteString(formatErrorForDisplay(err, a.verbose))
	sb.WriteString("\n")

	var se *release.StepError
	if errors.As(err, &se) {
		if se.Package != "" {
			fmt.Fprintf(&sb, "%s %s\n", renderLabelStyle.Render("Package:"), se.Package)
		}
		fmt.Fprintf(&sb, "%s %s\n", renderLabelStyle.Render("Step:"), se.Step)
		if se.Issue != 0 {
			sb.WriteString(a.renderIssue(se.Issue))
		}
	} else if !errors.As(err, new(*ExitError)) {
		sb.WriteString(renderHintStyle.Render("Run 'suitepub --help' for usage."))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	fmt.Fprint(w, sb.String())
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
