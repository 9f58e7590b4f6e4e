// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"fmt"
	"os"
)

// ErrCommandFailed is the sentinel error wrapped by CommandError.
var ErrCommandFailed = errors.New("command failed")

type (
	// Result is the outcome of running a Command.
	Result struct {
		// Command is the invocation that produced this result.
		Command Command
		// ExitCode is the process exit status. Zero with a non-nil Error means
		// the process could not be started.
		ExitCode ExitCode
		// Error reports infrastructure failures (binary missing, context canceled).
		Error error
		// Output and ErrOutput hold buffered output in OutputBuffer mode.
		Output    string
		ErrOutput string
		// LogPath is the captured output file in OutputLog mode.
		LogPath string
	}

	// CommandError is returned by Result.Err for unsuccessful commands.
	CommandError struct {
		Command  string
		ExitCode ExitCode
		Cause    error
	}
)

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Command, e.Cause)
	}
	return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
}

// Unwrap returns ErrCommandFailed and the underlying cause for errors.Is().
func (e *CommandError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrCommandFailed, e.Cause}
	}
	return []error{ErrCommandFailed}
}

// Success reports whether the command ran and exited zero.
func (r *Result) Success() bool {
	return r.Error == nil && r.ExitCode.IsSuccess()
}

// Err returns nil on success and a *CommandError otherwise.
func (r *Result) Err() error {
	if r.Success() {
		return nil
	}
	return &CommandError{Command: r.Command.String(), ExitCode: r.ExitCode, Cause: r.Error}
}

// ReadLog returns the captured output of an OutputLog command.
func (r *Result) ReadLog() (string, error) {
	if r.LogPath == "" {
		return "", nil
	}
	data, err := os.ReadFile(r.LogPath)
	if err != nil {
		return "", fmt.Errorf("failed to read command log: %w", err)
	}
	return string(data), nil
}

// RemoveLog deletes the captured log file, if any.
func (r *Result) RemoveLog() error {
	if r.LogPath == "" {
		return nil
	}
	if err := os.Remove(r.LogPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove command log: %w", err)
	}
	return nil
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(cmd Command, code ExitCode, err error) *Result {
	return &Result{Command: cmd, ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult(cmd Command) *Result {
	return &Result{Command: cmd}
}
