// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/invowk/suitepub/internal/config"
	"github.com/invowk/suitepub/internal/manifest"
	"github.com/invowk/suitepub/internal/version"
)

// ResolvePackages returns the suite, primary first. Configured packages are
// used in order; otherwise the layout is discovered from the repository root.
func (r *Release) ResolvePackages() ([]Package, error) {
	root := r.repo.Root()
	manifestFile := filepath.ToSlash(r.cfg.ManifestFile.Clean())

	entries := r.cfg.OrderedPackages()
	if len(entries) == 0 {
		found, err := manifest.Discover(root, r.cfg.ManifestFile.Clean())
		if err != nil {
			return nil, stepErr("", StepPackages, ExitPrecondition, 0, err)
		}
		entries = append(entries, config.PackageEntry{Dir: ".", Primary: true})
		for _, dir := range found.Secondaries {
			entries = append(entries, config.PackageEntry{Dir: config.RelPath(filepath.ToSlash(dir))})
		}
	}

	pkgs := make([]Package, 0, len(entries))
	for _, e := range entries {
		dir := filepath.ToSlash(e.Dir.Clean())
		mpath := relJoin(dir, manifestFile)
		m, err := manifest.Read(filepath.Join(root, filepath.FromSlash(mpath)))
		if err != nil {
			return nil, stepErr("", StepPackages, ExitPrecondition, 0, err)
		}
		pkgs = append(pkgs, Package{
			Name:           m.Name,
			Dir:            dir,
			Primary:        e.Primary,
			Manifest:       mpath,
			Lock:           relJoin(dir, filepath.ToSlash(r.cfg.LockFile.Clean())),
			CurrentVersion: m.Version,
		})
	}

	for _, pkg := range pkgs {
		r.logger.Debug("Package", "name", pkg.Name, "dir", pkg.Dir, "primary", pkg.Primary)
	}
	return pkgs, nil
}

// ResolveVersion returns the version given on the command line, or prompts
// for one showing the primary package's current version. It warns, without
// failing, when the version does not move forward or when a pre-release
// would land on the default tag.
func (r *Release) ResolveVersion(_ context.Context, primary Package) (version.Number, error) {
	v := r.opts.Version
	if v != "" {
		if err := v.Validate(); err != nil {
			return "", stepErr("", StepVersion, ExitPrecondition, 0, err)
		}
	} else {
		var err error
		if v, err = r.prompter.Version(primary.CurrentVersion); err != nil {
			return "", stepErr("", StepVersion, ExitPrecondition, 0, fmt.Errorf("failed to read version: %w", err))
		}
	}

	if cmp, ok := v.Compare(version.Number(primary.CurrentVersion)); ok && cmp <= 0 {
		r.diag.Warn("New version is not greater than the current one", "current", primary.CurrentVersion, "new", v)
	}
	if v.IsPrerelease() && !r.opts.TagExplicit && r.opts.Tag == r.cfg.DefaultTag.String() {
		r.diag.Warn("Publishing a pre-release under the default tag", "version", v, "tag", r.opts.Tag)
	}

	r.logger.Info("Resolved version", "version", v)
	return v, nil
}
