// SPDX-License-Identifier: MPL-2.0

package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/invowk/suitepub/internal/runner"
)

// GitBinary is the executable used for CLI operations.
const GitBinary = "git"

var (
	// ErrNotRepository is returned when no repository encloses the start directory.
	ErrNotRepository = errors.New("not a git repository")

	// ErrDetachedHead is returned by CurrentBranch when HEAD is not a branch.
	ErrDetachedHead = errors.New("HEAD is detached")

	// ErrRefNotFound is returned when a branch or remote-tracking branch is missing.
	ErrRefNotFound = errors.New("reference not found")

	// ErrGitCommand is the sentinel error wrapped by GitCommandError.
	ErrGitCommand = errors.New("git command failed")
)

type (
	// Repo is an open repository.
	Repo struct {
		git    *git.Repository
		root   string
		runner runner.Runner
	}

	// GitCommandError reports a failed git CLI invocation.
	GitCommandError struct {
		Args     []string
		ExitCode runner.ExitCode
		Stderr   string
		Cause    error
	}
)

// Error implements the error interface.
func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	msg = fmt.Sprintf("%s (exit %d)", msg, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Unwrap returns ErrGitCommand and the underlying cause.
func (e *GitCommandError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrGitCommand, e.Cause}
	}
	return []error{ErrGitCommand}
}

// Open finds the repository enclosing dir. The root is the worktree
// top-level with symlinks resolved.
func Open(dir string, r runner.Runner) (*Repo, error) {
	g, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	wt, err := g.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}
	root := wt.Filesystem.Root()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	return &Repo{git: g, root: root, runner: r}, nil
}

// Root returns the worktree top-level directory.
func (r *Repo) Root() string { return r.root }

// CurrentBranch returns the short name of the checked-out branch.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.git.Head()
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", ErrDetachedHead
	}
	return head.Name().Short(), nil
}

// BranchCommit returns the commit of refs/heads/<branch>.
func (r *Repo) BranchCommit(branch string) (string, error) {
	return r.refCommit(plumbing.NewBranchReferenceName(branch))
}

// RemoteBranchCommit returns the commit of refs/remotes/<remote>/<branch>.
func (r *Repo) RemoteBranchCommit(remote, branch string) (string, error) {
	return r.refCommit(plumbing.NewRemoteReferenceName(remote, branch))
}

func (r *Repo) refCommit(name plumbing.ReferenceName) (string, error) {
	ref, err := r.git.Reference(name, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", fmt.Errorf("%w: %s", ErrRefNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	return ref.Hash().String(), nil
}

// Head returns the HEAD commit hash.
func (r *Repo) Head() (string, error) {
	head, err := r.git.Head()
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// RemoteURL returns the first configured URL of remote.
func (r *Repo) RemoteURL(remote string) (string, error) {
	rem, err := r.git.Remote(remote)
	if err != nil {
		return "", fmt.Errorf("failed to read remote %s: %w", remote, err)
	}
	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", remote)
	}
	return urls[0], nil
}

// Fetch runs `git fetch <remote>`.
func (r *Repo) Fetch(ctx context.Context, remote string) error {
	_, err := r.run(ctx, "fetch", remote)
	return err
}

// ModifiedFiles lists tracked files with staged or unstaged changes,
// repository-relative with forward slashes. Untracked files are ignored.
func (r *Repo) ModifiedFiles(ctx context.Context) ([]string, error) {
	out, err := r.run(ctx, "status", "--porcelain", "-z", "--untracked-files=no")
	if err != nil {
		return nil, err
	}
	return ParsePorcelainZ(out)
}

// Add stages paths (relative to the root).
func (r *Repo) Add(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	_, err := r.run(ctx, append([]string{"add", "--"}, paths...)...)
	return err
}

// HasStaged reports whether the index differs from HEAD.
func (r *Repo) HasStaged(ctx context.Context) (bool, error) {
	args := []string{"diff", "--cached", "--quiet"}
	res := r.runner.Run(ctx, r.command(args...))
	if res.Error != nil {
		return false, &GitCommandError{Args: args, Cause: res.Error}
	}
	switch res.ExitCode {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, &GitCommandError{Args: args, ExitCode: res.ExitCode, Stderr: res.ErrOutput}
	}
}

// Commit records the index with message.
func (r *Repo) Commit(ctx context.Context, message string) error {
	_, err := r.run(ctx, "commit", "-m", message)
	return err
}

// Push runs `git push <remote> <branch>`.
func (r *Repo) Push(ctx context.Context, remote, branch string) error {
	_, err := r.run(ctx, "push", remote, branch)
	return err
}

func (r *Repo) command(args ...string) runner.Command {
	cmd := runner.New(r.root, GitBinary, args...)
	cmd.Output = runner.OutputBuffer
	return cmd
}

// run executes a git subcommand and returns its stdout.
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	res := r.runner.Run(ctx, r.command(args...))
	if res.Error != nil {
		return "", &GitCommandError{Args: args, Cause: res.Error}
	}
	if !res.ExitCode.IsSuccess() {
		return "", &GitCommandError{Args: args, ExitCode: res.ExitCode, Stderr: res.ErrOutput}
	}
	return res.Output, nil
}
