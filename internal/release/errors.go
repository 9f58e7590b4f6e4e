// SPDX-License-Identifier: MPL-2.0

package release

import (
	"errors"
	"fmt"

	"github.com/invowk/suitepub/internal/issue"
)

// Exit codes reported through StepError.Code.
const (
	ExitInternal      = 1
	ExitPrecondition  = 2
	ExitDirtyTree     = 3
	ExitCommandFailed = 4
	ExitLockUnchanged = 5
)

// Steps of a release run.
const (
	StepConfig      Step = "load configuration"
	StepTools       Step = "check tools"
	StepBranch      Step = "check branch"
	StepUpToDate    Step = "check upstream"
	StepRoot        Step = "check repository root"
	StepCleanTree   Step = "check working tree"
	StepPackages    Step = "resolve packages"
	StepVersion     Step = "resolve version"
	StepBump        Step = "bump version"
	StepInstall     Step = "reinstall dependencies"
	StepLockCheck   Step = "check lock file"
	StepBuild       Step = "build"
	StepOTP         Step = "read one-time password"
	StepPublish     Step = "publish"
	StepCommit      Step = "commit"
	StepPush        Step = "push"
	StepReleasePage Step = "open release page"
)

var (
	// ErrToolNotFound is returned when a required tool is not on PATH.
	ErrToolNotFound = errors.New("required tool not found")
	// ErrWrongBranch is returned when releasing off trunk without an explicit tag.
	ErrWrongBranch = errors.New("not on the trunk branch")
	// ErrNotUpToDate is returned when local trunk differs from its remote tracking branch.
	ErrNotUpToDate = errors.New("trunk is not up to date with its remote")
	// ErrNotRoot is returned when the working directory is not the repository root.
	ErrNotRoot = errors.New("not at the repository root")
	// ErrDirtyTree is returned when tracked files have uncommitted changes.
	ErrDirtyTree = errors.New("working tree has uncommitted changes")
	// ErrLockUnchanged is returned when a reinstall leaves the lock file untouched.
	ErrLockUnchanged = errors.New("lock file was not updated")
)

type (
	// Step names one stage of a release run.
	Step string

	// StepError reports which package and step stopped a run.
	StepError struct {
		// Package is the manifest name, empty for run-wide steps.
		Package string
		Step    Step
		// Code is the process exit code the failure maps to.
		Code int
		// Issue is the catalogue entry explaining the failure, zero if none.
		Issue issue.Id
		Err   error
	}
)

// Error implements the error interface.
func (e *StepError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s: %s: %v", e.Package, e.Step, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error { return e.Err }

// ExitCode returns the process exit code for the failure.
func (e *StepError) ExitCode() int { return e.Code }

func stepErr(pkg string, step Step, code int, id issue.Id, err error) *StepError {
	return &StepError{Package: pkg, Step: step, Code: code, Issue: id, Err: err}
}
