// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/invowk/suitepub/internal/issue"
	"github.com/invowk/suitepub/internal/manifest"
	"github.com/invowk/suitepub/internal/runner"
)

// PublishPackage bumps, reinstalls, verifies, builds and publishes one
// package. The one-time password is read right before publishing and not
// kept afterwards.
func (r *Release) PublishPackage(ctx context.Context, s Session, pkg Package) error {
	dir := s.abs(pkg.Dir)
	log := r.logger.With("package", pkg.Name)

	change, err := manifest.Bump(s.abs(pkg.Manifest), s.Version, s.Primary().Name)
	if err != nil {
		return stepErr(pkg.Name, StepBump, ExitInternal, 0, err)
	}
	log.Info("Bumped manifest", "version", s.Version)
	if d := change.Diff(); d != "" {
		log.Debug("Manifest diff\n" + d)
	}

	if err := r.install(ctx, dir, pkg); err != nil {
		return err
	}
	log.Info("Reinstalled dependencies")

	modified, err := r.repo.ModifiedFiles(ctx)
	if err != nil {
		return stepErr(pkg.Name, StepLockCheck, ExitCommandFailed, issue.GitCommandFailedId, err)
	}
	if !slices.Contains(modified, pkg.Lock) {
		return stepErr(pkg.Name, StepLockCheck, ExitLockUnchanged, issue.LockFileNotUpdatedId,
			fmt.Errorf("%w: %s", ErrLockUnchanged, pkg.Lock))
	}

	buildDir := s.abs(relJoin(pkg.Dir, filepath.ToSlash(r.cfg.BuildDir.Clean())))
	if err := os.RemoveAll(buildDir); err != nil {
		return stepErr(pkg.Name, StepBuild, ExitCommandFailed, issue.BuildFailedId,
			fmt.Errorf("failed to remove build output: %w", err))
	}
	if err := r.stream(ctx, dir, r.cfg.Commands.Build); err != nil {
		return stepErr(pkg.Name, StepBuild, ExitCommandFailed, issue.BuildFailedId, err)
	}
	log.Info("Built")

	publish, err := runner.Parse(dir, r.cfg.Commands.Publish)
	if err != nil {
		return stepErr(pkg.Name, StepPublish, ExitPrecondition, 0, err)
	}
	publish = publish.WithArgs("--tag", s.Tag)
	if r.cfg.OTPRequired {
		otp, err := r.prompter.OTP(pkg.Name)
		if err != nil {
			return stepErr(pkg.Name, StepOTP, ExitPrecondition, 0, fmt.Errorf("failed to read one-time password: %w", err))
		}
		publish = publish.WithArgs("--otp", string(otp)).WithSecret(string(otp))
	}
	publish.Stdout, publish.Stderr = r.stdout, r.stderr
	log.Debug("Running", "command", publish.String())
	if err := r.runner.Run(ctx, publish).Err(); err != nil {
		return stepErr(pkg.Name, StepPublish, ExitCommandFailed, issue.PublishFailedId, err)
	}
	log.Info("Published", "version", s.Version, "tag", s.Tag)
	return nil
}

// install reinstalls dependencies with output captured to a log file, which
// is printed to stderr only when the install fails.
func (r *Release) install(ctx context.Context, dir string, pkg Package) error {
	cmd, err := runner.Parse(dir, r.cfg.Commands.Install)
	if err != nil {
		return stepErr(pkg.Name, StepInstall, ExitPrecondition, 0, err)
	}
	cmd.Output = runner.OutputLog

	res := r.runner.Run(ctx, cmd)
	defer func() {
		if err := res.RemoveLog(); err != nil {
			r.diag.Warn("Could not remove install log", "path", res.LogPath, "err", err)
		}
	}()

	if err := res.Err(); err != nil {
		if out, readErr := res.ReadLog(); readErr == nil && out != "" {
			fmt.Fprintf(r.stderr, "\n%s\n", out)
		}
		return stepErr(pkg.Name, StepInstall, ExitCommandFailed, issue.InstallFailedId, err)
	}
	return nil
}

func (r *Release) stream(ctx context.Context, dir, line string) error {
	cmd, err := runner.Parse(dir, line)
	if err != nil {
		return err
	}
	cmd.Stdout, cmd.Stderr = r.stdout, r.stderr
	r.logger.Debug("Running", "command", cmd.String())
	return r.runner.Run(ctx, cmd).Err()
}
