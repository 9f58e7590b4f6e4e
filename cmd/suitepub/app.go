// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/invowk/suitepub/internal/browser"
	"github.com/invowk/suitepub/internal/config"
	"github.com/invowk/suitepub/internal/issue"
	"github.com/invowk/suitepub/internal/runner"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and shared dependencies. Cobra handlers receive
	// an App and take every collaborator from it.
	App struct {
		Config ConfigProvider
		Runner runner.Runner
		Finder runner.Finder
		Opener browser.Opener
		Getwd  func() (string, error)
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		// glamourStyle is the issue rendering style of the loaded config.
		glamourStyle string
		verbose      bool
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Runner runner.Runner
		Finder runner.Finder
		Opener browser.Opener
		Getwd  func() (string, error)
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = runner.NewExecRunner()
	}
	if deps.Finder == nil {
		deps.Finder = runner.PathFinder{}
	}
	if deps.Opener == nil {
		deps.Opener = browser.System{Stdout: deps.Stderr, Stderr: deps.Stderr}
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}

	return &App{
		Config:       deps.Config,
		Runner:       deps.Runner,
		Finder:       deps.Finder,
		Opener:       deps.Opener,
		Getwd:        deps.Getwd,
		stdin:        deps.Stdin,
		stdout:       deps.Stdout,
		stderr:       deps.Stderr,
		glamourStyle: config.ColorSchemeAuto.GlamourStyle(),
	}
}

// progressLogger reports successful steps on stdout.
func (a *App) progressLogger() *log.Logger {
	return log.NewWithOptions(a.stdout, log.Options{
		Prefix: config.AppName,
		Level:  a.level(),
	})
}

// diagLogger reports warnings and rejected input on stderr.
func (a *App) diagLogger() *log.Logger {
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  a.level(),
	})
}

func (a *App) level() log.Level {
	if a.verbose {
		return log.DebugLevel
	}
	return log.InfoLevel
}

// renderIssue renders the catalogue entry for id, or "" if there is none.
func (a *App) renderIssue(id issue.Id) string {
	is := issue.Get(id)
	if is == nil {
		return ""
	}
	out, err := is.Render(a.glamourStyle)
	if err != nil {
		return string(is.MarkdownMsg())
	}
	return out
}
