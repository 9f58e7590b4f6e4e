// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/invowk/suitepub/internal/release"
)

// ExitUsage is the exit code for usage errors and failed preconditions.
const ExitUsage = release.ExitPrecondition

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// toExitError attaches the exit code of a release failure. Errors that do
// not carry one are internal errors.
func toExitError(err error) *ExitError {
	var se *release.StepError
	if errors.As(err, &se) {
		return &ExitError{Code: se.ExitCode(), Err: err}
	}
	return &ExitError{Code: release.ExitInternal, Err: err}
}
