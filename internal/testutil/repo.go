// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// FixtureRemoteURL is the remote URL configured by InitRepo.
const FixtureRemoteURL = "git@github.com:acme/suite.git"

// Repo is a git repository fixture on disk.
type Repo struct {
	Dir  string
	Git  *git.Repository
	t    testing.TB
	when time.Time
}

// InitRepo creates a repository in a temp dir on branch master with the
// given files committed, an "origin" remote, and origin/master pointing at
// that commit (as after a fetch).
func InitRepo(t testing.TB, files map[string]string) *Repo {
	t.Helper()

	dir := t.TempDir()
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}

	r, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}
	if _, err := r.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{FixtureRemoteURL}}); err != nil {
		t.Fatalf("failed to create remote: %v", err)
	}

	repo := &Repo{Dir: dir, Git: r, t: t, when: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	if len(files) == 0 {
		files = map[string]string{"README.md": "suite\n"}
	}
	hash := repo.Commit("Initial commit", files)
	repo.SetRemoteRef("origin", "master", hash)
	return repo
}

// Commit writes files, stages them and commits. It returns the commit hash.
func (r *Repo) Commit(message string, files map[string]string) plumbing.Hash {
	r.t.Helper()

	wt, err := r.Git.Worktree()
	if err != nil {
		r.t.Fatalf("failed to open worktree: %v", err)
	}
	for name, content := range files {
		MustWriteFile(r.t, filepath.Join(r.Dir, name), content)
		if _, err := wt.Add(filepath.ToSlash(name)); err != nil {
			r.t.Fatalf("failed to stage %s: %v", name, err)
		}
	}

	r.when = r.when.Add(time.Minute)
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: r.when},
	})
	if err != nil {
		r.t.Fatalf("failed to commit: %v", err)
	}
	return hash
}

// SetRemoteRef points refs/remotes/<remote>/<branch> at hash.
func (r *Repo) SetRemoteRef(remote, branch string, hash plumbing.Hash) {
	r.t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName(remote, branch), hash)
	if err := r.Git.Storer.SetReference(ref); err != nil {
		r.t.Fatalf("failed to set remote ref: %v", err)
	}
}

// Checkout switches to branch, creating it from HEAD when create is set.
func (r *Repo) Checkout(branch string, create bool) {
	r.t.Helper()
	wt, err := r.Git.Worktree()
	if err != nil {
		r.t.Fatalf("failed to open worktree: %v", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch), Create: create}); err != nil {
		r.t.Fatalf("failed to checkout %s: %v", branch, err)
	}
}

// Head returns the current HEAD commit hash.
func (r *Repo) Head() plumbing.Hash {
	r.t.Helper()
	ref, err := r.Git.Head()
	if err != nil {
		r.t.Fatalf("failed to read HEAD: %v", err)
	}
	return ref.Hash()
}
