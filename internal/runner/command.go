// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"
)

// redactedArg replaces secret argument values in rendered command lines.
const redactedArg = "******"

// ErrEmptyCommand is returned when a command line splits into no words.
var ErrEmptyCommand = errors.New("empty command")

type (
	// OutputMode selects where a command's output goes.
	OutputMode int

	// Command describes one external process invocation.
	Command struct {
		// Name is the executable, resolved through PATH.
		Name string
		// Args are passed verbatim; no shell is involved.
		Args []string
		// Dir is the working directory. It is required so that no step depends
		// on the process working directory.
		Dir string
		// Output selects streaming, buffering or log capture.
		Output OutputMode
		// Stdin, Stdout and Stderr are used in OutputStream mode.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// Secrets are argument values masked in String().
		Secrets []string
	}
)

const (
	// OutputStream connects the process to Stdin/Stdout/Stderr.
	OutputStream OutputMode = iota
	// OutputBuffer captures stdout into Result.Output and stderr into Result.ErrOutput.
	OutputBuffer
	// OutputLog writes combined stdout and stderr to a temporary log file.
	OutputLog
)

// New builds a Command for name and args running in dir.
func New(dir, name string, args ...string) Command {
	return Command{Name: name, Args: args, Dir: dir}
}

// Parse splits a configured command line such as "npm run build --if-present"
// into a Command. Quoting and $VAR expansion follow POSIX shell rules; no
// shell process is started.
func Parse(dir, line string) (Command, error) {
	fields, err := shell.Fields(line, nil)
	if err != nil {
		return Command{}, fmt.Errorf("failed to parse command %q: %w", line, err)
	}
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: %q", ErrEmptyCommand, line)
	}
	return Command{Name: fields[0], Args: fields[1:], Dir: dir}, nil
}

// WithArgs returns a copy of c with extra arguments appended.
func (c Command) WithArgs(args ...string) Command {
	c.Args = append(slices.Clone(c.Args), args...)
	return c
}

// WithSecret returns a copy of c with value masked in String().
func (c Command) WithSecret(value string) Command {
	c.Secrets = append(slices.Clone(c.Secrets), value)
	return c
}

// Argv returns the full argument vector including the executable.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command line shell-quoted with secrets masked.
func (c Command) String() string {
	words := c.Argv()
	out := make([]string, len(words))
	for i, w := range words {
		if slices.Contains(c.Secrets, w) {
			out[i] = redactedArg
			continue
		}
		quoted, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			quoted = fmt.Sprintf("%q", w)
		}
		out[i] = quoted
	}
	return strings.Join(out, " ")
}
