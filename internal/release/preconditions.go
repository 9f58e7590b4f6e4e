// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/invowk/suitepub/internal/issue"
)

// CheckPreconditions verifies, in order and stopping at the first failure,
// that the required tools are installed, that the run starts from trunk
// (unless a tag was given), that trunk matches its remote after a fetch,
// that the working directory is the repository root, and that the tree is
// clean. Nothing is modified.
func (r *Release) CheckPreconditions(ctx context.Context) error {
	if err := r.checkTools(); err != nil {
		return err
	}
	if err := r.checkBranch(); err != nil {
		return err
	}
	if err := r.checkUpToDate(ctx); err != nil {
		return err
	}
	if err := r.checkRoot(); err != nil {
		return err
	}
	return r.checkClean(ctx)
}

func (r *Release) checkTools() error {
	for _, tool := range r.cfg.RequiredTools {
		if _, err := r.finder.LookPath(tool.String()); err != nil {
			ec := issue.NewErrorContext().
				WithOperation("find required tool").
				WithResource(tool.String()).
				Wrap(fmt.Errorf("%w: %s", ErrToolNotFound, tool))
			if link, ok := issue.ToolInstallLink(tool.String()); ok {
				ec.WithSuggestion(fmt.Sprintf("Install %s: %s", tool, link))
			} else {
				ec.WithSuggestion(fmt.Sprintf("Install %s and add it to your PATH", tool))
			}
			return stepErr("", StepTools, ExitPrecondition, issue.ToolNotFoundId, ec.BuildError())
		}
		r.logger.Debug("Found tool", "tool", tool)
	}
	return nil
}

func (r *Release) checkBranch() error {
	if r.opts.TagExplicit {
		r.logger.Debug("Skipping branch check", "tag", r.opts.Tag)
		return nil
	}
	branch, err := r.repo.CurrentBranch()
	if err != nil {
		return stepErr("", StepBranch, ExitPrecondition, issue.WrongBranchId, err)
	}
	if branch != r.cfg.TrunkBranch.String() {
		err := issue.NewErrorContext().
			WithOperation("check branch").
			WithResource(branch).
			WithSuggestion(fmt.Sprintf("Switch to %s, or pass -t <tag> to publish from this branch", r.cfg.TrunkBranch)).
			Wrap(fmt.Errorf("%w: on %q, want %q", ErrWrongBranch, branch, r.cfg.TrunkBranch)).
			BuildError()
		return stepErr("", StepBranch, ExitPrecondition, issue.WrongBranchId, err)
	}
	return nil
}

func (r *Release) checkUpToDate(ctx context.Context) error {
	remote := r.cfg.Remote.String()
	trunk := r.cfg.TrunkBranch.String()

	r.logger.Info("Fetching", "remote", remote)
	if err := r.repo.Fetch(ctx, remote); err != nil {
		return stepErr("", StepUpToDate, ExitPrecondition, issue.GitCommandFailedId, err)
	}

	local, err := r.repo.BranchCommit(trunk)
	if err != nil {
		return stepErr("", StepUpToDate, ExitPrecondition, issue.BranchNotUpToDateId, err)
	}
	upstream, err := r.repo.RemoteBranchCommit(remote, trunk)
	if err != nil {
		return stepErr("", StepUpToDate, ExitPrecondition, issue.BranchNotUpToDateId, err)
	}
	if local != upstream {
		err := fmt.Errorf("%w: %s is at %s, %s/%s is at %s", ErrNotUpToDate, trunk, short(local), remote, trunk, short(upstream))
		return stepErr("", StepUpToDate, ExitPrecondition, issue.BranchNotUpToDateId, err)
	}
	return nil
}

func (r *Release) checkRoot() error {
	wd, err := filepath.EvalSymlinks(r.workDir)
	if err != nil {
		return stepErr("", StepRoot, ExitPrecondition, issue.NotRepositoryRootId, fmt.Errorf("failed to resolve working directory: %w", err))
	}
	root := r.repo.Root()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	if filepath.Clean(wd) != filepath.Clean(root) {
		err := fmt.Errorf("%w: started in %s, root is %s", ErrNotRoot, wd, root)
		return stepErr("", StepRoot, ExitPrecondition, issue.NotRepositoryRootId, err)
	}
	return nil
}

func (r *Release) checkClean(ctx context.Context) error {
	files, err := r.repo.ModifiedFiles(ctx)
	if err != nil {
		return stepErr("", StepCleanTree, ExitPrecondition, issue.GitCommandFailedId, err)
	}
	if len(files) > 0 {
		for _, f := range files {
			r.diag.Warn("Uncommitted change", "file", f)
		}
		return stepErr("", StepCleanTree, ExitDirtyTree, issue.DirtyWorkingTreeId,
			fmt.Errorf("%w: %d modified file(s)", ErrDirtyTree, len(files)))
	}
	return nil
}

func short(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
