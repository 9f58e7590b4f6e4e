// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNoWorkDir is returned when a Command does not name its directory.
var ErrNoWorkDir = errors.New("command has no working directory")

type (
	// Runner executes commands. Implementations must honor ctx cancellation.
	Runner interface {
		Run(ctx context.Context, cmd Command) *Result
	}

	// Finder resolves executables on the search path.
	Finder interface {
		LookPath(name string) (string, error)
	}

	// ExecRunner runs commands as host processes.
	ExecRunner struct {
		// LogDir is where OutputLog files are created. Empty uses os.TempDir().
		LogDir string
	}

	// PathFinder resolves executables with exec.LookPath.
	PathFinder struct{}
)

// NewExecRunner creates a runner for host processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// LookPath implements Finder.
func (PathFinder) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes cmd and reports how it ended. A non-zero exit is reported
// through ExitCode with a nil Error.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) *Result {
	if cmd.Dir == "" {
		return NewErrorResult(cmd, 1, ErrNoWorkDir)
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = os.Environ()

	result := &Result{Command: cmd}

	var stdout, stderr bytes.Buffer
	var logFile *os.File

	switch cmd.Output {
	case OutputBuffer:
		c.Stdout = &stdout
		c.Stderr = &stderr
	case OutputLog:
		f, err := os.CreateTemp(r.LogDir, logPattern(cmd.Name))
		if err != nil {
			return NewErrorResult(cmd, 1, fmt.Errorf("failed to create command log: %w", err))
		}
		logFile = f
		result.LogPath = f.Name()
		c.Stdout = f
		c.Stderr = f
	default:
		c.Stdin = cmd.Stdin
		c.Stdout = cmd.Stdout
		c.Stderr = cmd.Stderr
	}

	err := c.Run()

	if logFile != nil {
		if closeErr := logFile.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close command log: %w", closeErr)
		}
	}
	result.Output = stdout.String()
	result.ErrOutput = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			result.ExitCode = ExitCode(exitErr.ExitCode())
			// A process killed by a signal reports -1.
			if codeErr := result.ExitCode.Validate(); codeErr != nil {
				result.ExitCode = 1
				result.Error = fmt.Errorf("%s did not exit normally: %w", cmd.Name, errors.Join(err, codeErr))
			}
		} else {
			result.ExitCode = 1
			if ctx.Err() != nil {
				err = fmt.Errorf("%w: %w", ctx.Err(), err)
			}
			result.Error = fmt.Errorf("failed to execute %s: %w", cmd.Name, err)
		}
	}

	return result
}

// logPattern builds a CreateTemp pattern such as "suitepub-npm-*.log".
func logPattern(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return "suitepub-" + base + "-*.log"
}
