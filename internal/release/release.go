// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/invowk/suitepub/internal/browser"
	"github.com/invowk/suitepub/internal/config"
	"github.com/invowk/suitepub/internal/runner"
	"github.com/invowk/suitepub/internal/version"
)

type (
	// Repository is the git view a release needs.
	Repository interface {
		Root() string
		CurrentBranch() (string, error)
		BranchCommit(branch string) (string, error)
		RemoteBranchCommit(remote, branch string) (string, error)
		Head() (string, error)
		RemoteURL(remote string) (string, error)
		Fetch(ctx context.Context, remote string) error
		ModifiedFiles(ctx context.Context) ([]string, error)
		Add(ctx context.Context, paths ...string) error
		HasStaged(ctx context.Context) (bool, error)
		Commit(ctx context.Context, message string) error
		Push(ctx context.Context, remote, branch string) error
	}

	// Prompter asks the operator for input.
	Prompter interface {
		Version(current string) (version.Number, error)
		OTP(pkg string) (version.OTP, error)
	}

	// Options are the per-invocation settings.
	Options struct {
		// Version skips the prompt when set. It must already be valid.
		Version version.Number
		// Tag is the distribution tag. Empty uses the configured default.
		Tag string
		// TagExplicit is set when the operator passed a tag, which lifts the
		// trunk branch requirement.
		TagExplicit bool
		// DryRun stops after version resolution and prints the plan.
		DryRun bool
	}

	// Deps are the collaborators of a Release.
	Deps struct {
		Config   *config.Config
		Repo     Repository
		Runner   runner.Runner
		Finder   runner.Finder
		Prompter Prompter
		Opener   browser.Opener
		// Logger receives progress messages.
		Logger *log.Logger
		// Diag receives warnings. Nil uses Logger.
		Diag *log.Logger
		// Stdout and Stderr receive external command output.
		Stdout io.Writer
		Stderr io.Writer
		// WorkDir is the directory suitepub was started from.
		WorkDir string
	}

	// Package is one package of the suite.
	Package struct {
		// Name is the manifest name, e.g. "@suite/core".
		Name string
		// Dir is repository-relative with forward slashes; "." for the root.
		Dir     string
		Primary bool
		// Manifest and Lock are repository-relative with forward slashes.
		Manifest string
		Lock     string
		// CurrentVersion is the manifest version before the bump.
		CurrentVersion string
	}

	// Session is the resolved state shared by every step of a run.
	Session struct {
		Version version.Number
		Tag     string
		// TagExplicit is set when the tag came from the command line.
		TagExplicit bool
		Root        string
		Branch      string
		// Packages are ordered primary first.
		Packages []Package
	}

	// Release runs a suite release.
	Release struct {
		cfg      *config.Config
		repo     Repository
		runner   runner.Runner
		finder   runner.Finder
		prompter Prompter
		opener   browser.Opener
		logger   *log.Logger
		diag     *log.Logger
		stdout   io.Writer
		stderr   io.Writer
		workDir  string
		opts     Options
	}
)

// New creates a Release.
func New(d Deps, opts Options) *Release {
	if opts.Tag == "" && !opts.TagExplicit {
		opts.Tag = d.Config.DefaultTag.String()
	}
	diag := d.Diag
	if diag == nil {
		diag = d.Logger
	}
	return &Release{
		cfg:      d.Config,
		repo:     d.Repo,
		runner:   d.Runner,
		finder:   d.Finder,
		prompter: d.Prompter,
		opener:   d.Opener,
		logger:   d.Logger,
		diag:     diag,
		stdout:   orDiscard(d.Stdout),
		stderr:   orDiscard(d.Stderr),
		workDir:  d.WorkDir,
		opts:     opts,
	}
}

// Primary returns the primary package.
func (s Session) Primary() Package {
	return s.Packages[0]
}

// Secondaries returns the packages published after the primary.
func (s Session) Secondaries() []Package {
	return s.Packages[1:]
}

// abs resolves a repository-relative slash path.
func (s Session) abs(rel string) string {
	return filepath.Join(s.Root, filepath.FromSlash(rel))
}

// Run performs the whole release. It stops at the first failing step.
func (r *Release) Run(ctx context.Context) error {
	if valid, errs := config.DistTag(r.opts.Tag).IsValid(); !valid {
		return stepErr("", StepConfig, ExitPrecondition, 0, errs[0])
	}
	if err := r.CheckPreconditions(ctx); err != nil {
		return err
	}

	pkgs, err := r.ResolvePackages()
	if err != nil {
		return err
	}

	v, err := r.ResolveVersion(ctx, pkgs[0])
	if err != nil {
		return err
	}

	branch, err := r.repo.CurrentBranch()
	if err != nil {
		return stepErr("", StepBranch, ExitPrecondition, 0, err)
	}

	s := Session{
		Version:     v,
		Tag:         r.opts.Tag,
		TagExplicit: r.opts.TagExplicit,
		Root:        r.repo.Root(),
		Branch:      branch,
		Packages:    pkgs,
	}

	if r.opts.DryRun {
		return r.PrintPlan(s)
	}

	r.logger.Info("Releasing", "version", s.Version, "tag", s.Tag, "packages", len(s.Packages))

	primary := s.Primary()
	if err := r.PublishPackage(ctx, s, primary); err != nil {
		return err
	}
	if err := r.CommitBump(ctx, s.Version, primary.Manifest, primary.Lock); err != nil {
		return err
	}

	var files []string
	for _, pkg := range s.Secondaries() {
		if err := r.PublishPackage(ctx, s, pkg); err != nil {
			return err
		}
		files = append(files, pkg.Manifest, pkg.Lock)
	}
	if len(files) > 0 {
		if err := r.CommitBump(ctx, s.Version, files...); err != nil {
			return err
		}
	}

	return r.Finalize(ctx, s)
}

// PrintPlan writes what a run would do without changing anything.
func (r *Release) PrintPlan(s Session) error {
	fmt.Fprintf(r.stdout, "Dry run: would release %s under tag %q from branch %s\n", s.Version, s.Tag, s.Branch)
	for i, pkg := range s.Packages {
		role := "secondary"
		if pkg.Primary {
			role = "primary"
		}
		fmt.Fprintf(r.stdout, "  %d. %s (%s, %s) %s -> %s\n", i+1, pkg.Name, role, pkg.Dir, pkg.CurrentVersion, s.Version)
	}
	fmt.Fprintf(r.stdout, "Then: commit %q, push %s %s, open the release page\n",
		commitMessage(s.Version), r.cfg.Remote, s.Branch)

	// The target is the current HEAD; a real run targets the bump commit.
	pageURL, err := r.ReleaseURL(s)
	if err != nil {
		r.diag.Warn("Could not build the release page URL", "err", err)
		return nil
	}
	fmt.Fprintf(r.stdout, "Release page: %s\n", pageURL)
	return nil
}

func commitMessage(v version.Number) string {
	return "Bump to " + v.String()
}

func relJoin(dir, name string) string {
	return path.Clean(path.Join(dir, name))
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
