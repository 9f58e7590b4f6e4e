// SPDX-License-Identifier: MPL-2.0

package release

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/invowk/suitepub/internal/config"
	"github.com/invowk/suitepub/internal/gitrepo"
	"github.com/invowk/suitepub/internal/manifest"
	"github.com/invowk/suitepub/internal/prompt"
	"github.com/invowk/suitepub/internal/runner"
	"github.com/invowk/suitepub/internal/testutil"
)

var _ Repository = (*gitrepo.Repo)(nil)

type (
	// journal records the order of side effects across fakes.
	journal struct {
		entries []string
	}

	commit struct {
		message string
		files   []string
	}

	// fakeRepo tracks file contents as of HEAD and reports files whose
	// content on disk differs as modified.
	fakeRepo struct {
		j         *journal
		root      string
		branch    string
		local     string
		upstream  string
		remoteURL string
		committed map[string]string
		staged    map[string]bool
		commits   []commit
		fetched   int
		pushed    []string
	}

	fakeRunner struct {
		j     *journal
		t     *testing.T
		calls []runner.Command
		// updateLock makes install rewrite the lock file from the manifest.
		updateLock bool
		// fail maps a subcommand ("install", "run", "publish") to an exit code.
		fail map[string]runner.ExitCode
	}

	fakeFinder struct {
		missing []string
	}

	fakeOpener struct {
		urls []string
		err  error
	}

	fixture struct {
		root   string
		repo   *fakeRepo
		runner *fakeRunner
		finder *fakeFinder
		opener *fakeOpener
		cfg    *config.Config
		stdout bytes.Buffer
		stderr bytes.Buffer
		logs   bytes.Buffer
	}
)

func (j *journal) add(format string, args ...any) {
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

func (j *journal) index(entry string) int {
	return slices.Index(j.entries, entry)
}

func (r *fakeRepo) Root() string                   { return r.root }
func (r *fakeRepo) CurrentBranch() (string, error) { return r.branch, nil }
func (r *fakeRepo) BranchCommit(string) (string, error) {
	return r.local, nil
}

func (r *fakeRepo) RemoteBranchCommit(string, string) (string, error) {
	return r.upstream, nil
}

func (r *fakeRepo) Head() (string, error) {
	return fmt.Sprintf("%040d", len(r.commits)), nil
}

func (r *fakeRepo) RemoteURL(string) (string, error) { return r.remoteURL, nil }

func (r *fakeRepo) Fetch(context.Context, string) error {
	r.fetched++
	return nil
}

func (r *fakeRepo) ModifiedFiles(context.Context) ([]string, error) {
	var files []string
	for _, rel := range slices.Sorted(maps.Keys(r.committed)) {
		data, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(rel)))
		if err != nil || string(data) != r.committed[rel] {
			files = append(files, rel)
		}
	}
	return files, nil
}

func (r *fakeRepo) Add(ctx context.Context, paths ...string) error {
	modified, _ := r.ModifiedFiles(ctx)
	for _, p := range paths {
		if slices.Contains(modified, p) {
			r.staged[p] = true
		}
	}
	return nil
}

func (r *fakeRepo) HasStaged(context.Context) (bool, error) {
	return len(r.staged) > 0, nil
}

func (r *fakeRepo) Commit(_ context.Context, message string) error {
	files := slices.Sorted(maps.Keys(r.staged))
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(f)))
		if err != nil {
			return err
		}
		r.committed[f] = string(data)
	}
	clear(r.staged)
	r.commits = append(r.commits, commit{message: message, files: files})
	r.j.add("commit %s", strings.Join(files, ","))
	return nil
}

func (r *fakeRepo) Push(_ context.Context, remote, branch string) error {
	r.pushed = append(r.pushed, remote+" "+branch)
	r.j.add("push")
	return nil
}

func (f *fakeRunner) Run(_ context.Context, cmd runner.Command) *runner.Result {
	f.calls = append(f.calls, cmd)
	sub := cmd.Args[0]
	f.j.add("%s %s", sub, cmd.Dir)

	if code, ok := f.fail[sub]; ok {
		res := &runner.Result{Command: cmd, ExitCode: code}
		if cmd.Output == runner.OutputLog {
			logPath := filepath.Join(f.t.TempDir(), "install.log")
			testutil.MustWriteFile(f.t, logPath, "npm ERR! code E404\n")
			res.LogPath = logPath
		}
		return res
	}

	switch sub {
	case "install":
		if f.updateLock {
			m, err := manifest.Read(filepath.Join(cmd.Dir, "package.json"))
			if err != nil {
				return runner.NewErrorResult(cmd, 1, err)
			}
			lock := fmt.Sprintf("{\n  \"name\": %q,\n  \"version\": %q,\n  \"lockfileVersion\": 3\n}\n", m.Name, m.Version)
			testutil.MustWriteFile(f.t, filepath.Join(cmd.Dir, "package-lock.json"), lock)
		}
	case "run":
		testutil.MustWriteFile(f.t, filepath.Join(cmd.Dir, "dist", "index.js"), "export {}\n")
	}
	return runner.NewSuccessResult(cmd)
}

func (f *fakeRunner) commandsFor(sub string) []runner.Command {
	var out []runner.Command
	for _, c := range f.calls {
		if c.Args[0] == sub {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeFinder) LookPath(name string) (string, error) {
	if slices.Contains(f.missing, name) {
		return "", errors.New("executable file not found in $PATH")
	}
	return "/usr/bin/" + name, nil
}

func (o *fakeOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

// newFixture lays out a three-package suite at currentVersion: the root
// package @suite/core and secondaries packages/react and packages/vue.
func newFixture(t *testing.T, currentVersion string) *fixture {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		"README.md":         "# suite\n",
		"package.json":      fmt.Sprintf("{\n  \"name\": \"@suite/core\",\n  \"version\": %q\n}\n", currentVersion),
		"package-lock.json": fmt.Sprintf("{\n  \"name\": \"@suite/core\",\n  \"version\": %q,\n  \"lockfileVersion\": 3\n}\n", currentVersion),
	}
	for _, name := range []string{"react", "vue"} {
		dir := "packages/" + name
		files[dir+"/package.json"] = fmt.Sprintf(
			"{\n  \"name\": \"@suite/%s\",\n  \"version\": %q,\n  \"peerDependencies\": {\n    \"@suite/core\": %q\n  }\n}\n",
			name, currentVersion, currentVersion)
		files[dir+"/package-lock.json"] = fmt.Sprintf(
			"{\n  \"name\": \"@suite/%s\",\n  \"version\": %q,\n  \"lockfileVersion\": 3\n}\n", name, currentVersion)
	}
	for rel, content := range files {
		testutil.MustWriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), content)
	}

	j := &journal{}
	return &fixture{
		root: root,
		repo: &fakeRepo{
			j:         j,
			root:      root,
			branch:    "master",
			local:     "aaaaaaaa",
			upstream:  "aaaaaaaa",
			remoteURL: "git@github.com:acme/suite.git",
			committed: files,
			staged:    map[string]bool{},
		},
		runner: &fakeRunner{j: j, t: t, updateLock: true, fail: map[string]runner.ExitCode{}},
		finder: &fakeFinder{},
		opener: &fakeOpener{},
		cfg:    config.DefaultConfig(),
	}
}

func (f *fixture) release(input string, opts Options) *Release {
	logger := log.NewWithOptions(&f.logs, log.Options{Level: log.DebugLevel})
	return New(Deps{
		Config:   f.cfg,
		Repo:     f.repo,
		Runner:   f.runner,
		Finder:   f.finder,
		Prompter: prompt.New(strings.NewReader(input), io.Discard, logger),
		Opener:   f.opener,
		Logger:   logger,
		Stdout:   &f.stdout,
		Stderr:   &f.stderr,
		WorkDir:  f.root,
	}, opts)
}

func (f *fixture) read(t *testing.T, rel string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Read(filepath.Join(f.root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func (f *fixture) events() *journal {
	return f.repo.j
}
