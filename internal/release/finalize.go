// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"fmt"

	"github.com/invowk/suitepub/internal/issue"
	"github.com/invowk/suitepub/internal/notes"
	"github.com/invowk/suitepub/internal/version"
)

// CommitBump stages files and commits them as "Bump to <version>". No
// commit is made when staging leaves the index unchanged.
func (r *Release) CommitBump(ctx context.Context, v version.Number, files ...string) error {
	if err := r.repo.Add(ctx, files...); err != nil {
		return stepErr("", StepCommit, ExitCommandFailed, issue.GitCommandFailedId, err)
	}
	staged, err := r.repo.HasStaged(ctx)
	if err != nil {
		return stepErr("", StepCommit, ExitCommandFailed, issue.GitCommandFailedId, err)
	}
	if !staged {
		r.logger.Info("Nothing to commit", "files", len(files))
		return nil
	}
	msg := commitMessage(v)
	if err := r.repo.Commit(ctx, msg); err != nil {
		return stepErr("", StepCommit, ExitCommandFailed, issue.GitCommandFailedId, err)
	}
	r.logger.Info("Committed", "message", msg, "files", len(files))
	return nil
}

// Finalize pushes the release branch and opens the pre-filled release page.
// A page that cannot be built or opened is reported but does not fail the
// run, since everything has been published by then.
func (r *Release) Finalize(ctx context.Context, s Session) error {
	remote := r.cfg.Remote.String()
	if err := r.repo.Push(ctx, remote, s.Branch); err != nil {
		return stepErr("", StepPush, ExitCommandFailed, issue.GitCommandFailedId, err)
	}
	r.logger.Info("Pushed", "remote", remote, "branch", s.Branch)

	url, err := r.ReleaseURL(s)
	if err != nil {
		r.diag.Warn("Could not build the release page URL", "err", err)
		return nil
	}
	if err := r.opener.Open(url); err != nil {
		r.diag.Warn("Could not open a browser, open the release page manually", "err", err)
		fmt.Fprintln(r.stdout, url)
		return nil
	}
	r.logger.Info("Opened release page", "version", s.Version)
	return nil
}

// ReleaseURL builds the release page URL for the current HEAD.
func (r *Release) ReleaseURL(s Session) (string, error) {
	target, err := r.repo.Head()
	if err != nil {
		return "", err
	}

	repository := r.cfg.Release.Repository
	if repository == "" {
		remoteURL, err := r.repo.RemoteURL(r.cfg.Remote.String())
		if err != nil {
			return "", err
		}
		if repository, err = notes.RepositoryFromRemote(remoteURL); err != nil {
			return "", err
		}
	}

	pkgs := make([]notes.Package, len(s.Packages))
	for i, p := range s.Packages {
		pkgs[i] = notes.Package{Name: p.Name, Dir: p.Dir}
	}

	return notes.URL(notes.Request{
		BaseURL:    r.cfg.Release.BaseURL,
		Repository: repository,
		Target:     target,
		Template:   r.cfg.Release.NotesTemplate,
		Release:    notes.Release{Version: s.Version.String(), Tag: s.Tag, Packages: pkgs},
	})
}
