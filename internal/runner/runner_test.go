// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExecRunner_Stream(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	cmd := New(t.TempDir(), "sh", "-c", "printf hello")
	cmd.Stdout = &stdout

	result := NewExecRunner().Run(context.Background(), cmd)
	if err := result.Err(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if stdout.String() != "hello" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "hello")
	}
}

func TestExecRunner_UsesDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cmd := New(dir, "sh", "-c", "pwd -P")
	cmd.Output = OutputBuffer

	result := NewExecRunner().Run(context.Background(), cmd)
	if err := result.Err(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(result.Output); got != resolved {
		t.Errorf("pwd = %q, want %q", got, resolved)
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	t.Parallel()

	cmd := New(t.TempDir(), "sh", "-c", "echo boom >&2; exit 7")
	cmd.Output = OutputBuffer

	result := NewExecRunner().Run(context.Background(), cmd)
	if result.Error != nil {
		t.Fatalf("unexpected infrastructure error: %v", result.Error)
	}
	if result.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", result.ExitCode)
	}
	if !strings.Contains(result.ErrOutput, "boom") {
		t.Errorf("ErrOutput = %q, want to contain boom", result.ErrOutput)
	}

	err := result.Err()
	if !errors.Is(err, ErrCommandFailed) {
		t.Errorf("Err() = %v, want ErrCommandFailed", err)
	}
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.ExitCode != 7 {
		t.Errorf("Err() = %#v, want *CommandError with exit 7", err)
	}
}

func TestExecRunner_KilledBySignal(t *testing.T) {
	t.Parallel()

	result := NewExecRunner().Run(context.Background(), New(t.TempDir(), "sh", "-c", "kill -KILL $$"))
	if result.Success() {
		t.Fatal("Success() = true for a killed process")
	}
	if !errors.Is(result.Err(), ErrInvalidExitCode) {
		t.Errorf("Err() = %v, want it to wrap ErrInvalidExitCode", result.Err())
	}
}

func TestExecRunner_LogCapture(t *testing.T) {
	t.Parallel()

	runner := &ExecRunner{LogDir: t.TempDir()}
	cmd := New(t.TempDir(), "sh", "-c", "echo out; echo err >&2; exit 1")
	cmd.Output = OutputLog

	result := runner.Run(context.Background(), cmd)
	if result.ExitCode != 1 {
		t.Fatalf("ExitCode = %d, want 1", result.ExitCode)
	}
	if result.LogPath == "" {
		t.Fatal("LogPath is empty")
	}

	log, err := result.ReadLog()
	if err != nil {
		t.Fatalf("ReadLog() error: %v", err)
	}
	if !strings.Contains(log, "out") || !strings.Contains(log, "err") {
		t.Errorf("log = %q, want both streams", log)
	}

	if err := result.RemoveLog(); err != nil {
		t.Fatalf("RemoveLog() error: %v", err)
	}
	if _, err := os.Stat(result.LogPath); !os.IsNotExist(err) {
		t.Errorf("log file still exists after RemoveLog: %v", err)
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	t.Parallel()

	result := NewExecRunner().Run(context.Background(), New(t.TempDir(), "suitepub-no-such-binary"))
	if result.Error == nil {
		t.Fatal("expected infrastructure error for missing binary")
	}
	if result.Success() {
		t.Error("Success() = true for missing binary")
	}
}

func TestExecRunner_RequiresDir(t *testing.T) {
	t.Parallel()

	result := NewExecRunner().Run(context.Background(), Command{Name: "true"})
	if !errors.Is(result.Error, ErrNoWorkDir) {
		t.Errorf("Error = %v, want ErrNoWorkDir", result.Error)
	}
}

func TestExecRunner_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewExecRunner().Run(ctx, New(t.TempDir(), "sh", "-c", "sleep 5"))
	if !errors.Is(result.Error, context.Canceled) {
		t.Errorf("Error = %v, want context.Canceled", result.Error)
	}
}

func TestPathFinder(t *testing.T) {
	t.Parallel()

	if _, err := (PathFinder{}).LookPath("sh"); err != nil {
		t.Errorf("LookPath(sh) error: %v", err)
	}
	if _, err := (PathFinder{}).LookPath("suitepub-no-such-binary"); err == nil {
		t.Error("LookPath for missing binary returned nil error")
	}
}
