// SPDX-License-Identifier: MPL-2.0

// Package prompt asks the operator for the release version and one-time
// passwords, re-prompting until the input is valid.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/invowk/suitepub/internal/version"
)

// ErrInputClosed is returned when input ends before a valid answer.
var ErrInputClosed = errors.New("input closed before a valid answer was given")

// Prompter asks questions through huh forms. On a terminal the forms are
// interactive; otherwise they fall back to huh's line-based accessible mode.
type Prompter struct {
	in       io.Reader
	out      io.Writer
	logger   *log.Logger
	terminal bool
}

// New creates a Prompter reading from in and writing prompts to out.
// Rejected answers are reported through logger.
func New(in io.Reader, out io.Writer, logger *log.Logger) *Prompter {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &Prompter{in: f, out: out, logger: logger, terminal: true}
	}
	return &Prompter{in: &lineReader{r: bufio.NewReader(in)}, out: out, logger: logger}
}

// Version shows the current version and asks for the next one until a
// valid MAJOR.MINOR.PATCH[-PRERELEASE] is entered.
func (p *Prompter) Version(current string) (version.Number, error) {
	if current != "" {
		fmt.Fprintf(p.out, "Current version: %s\n", current)
	}

	var answer string
	input := huh.NewInput().
		Title("New version").
		Placeholder("MAJOR.MINOR.PATCH[-PRERELEASE]").
		Value(&answer).
		Validate(func(s string) error {
			_, err := version.ParseNumber(strings.TrimSpace(s))
			if err != nil {
				p.logger.Warn("Rejected version", "input", s, "expected", "MAJOR.MINOR.PATCH[-PRERELEASE]")
			}
			return err
		})
	if err := p.run(input); err != nil {
		return "", err
	}

	n, err := version.ParseNumber(strings.TrimSpace(answer))
	if err != nil {
		// Accessible mode hands back the empty default once input is exhausted.
		return "", ErrInputClosed
	}
	return n, nil
}

// OTP asks for a six-digit one-time password until one is entered. The
// value is never echoed or logged.
func (p *Prompter) OTP(pkg string) (version.OTP, error) {
	var answer string
	input := huh.NewInput().
		Title("One-time password for " + pkg).
		Value(&answer).
		Validate(func(s string) error {
			_, err := version.ParseOTP(strings.TrimSpace(s))
			if err != nil {
				p.logger.Warn("Rejected one-time password", "expected", "six digits")
			}
			return err
		})
	// Piped input is never echoed, so masking only matters on a terminal.
	if p.terminal {
		input = input.EchoMode(huh.EchoModePassword)
	}
	if err := p.run(input); err != nil {
		return "", err
	}

	otp, err := version.ParseOTP(strings.TrimSpace(answer))
	if err != nil {
		return "", ErrInputClosed
	}
	return otp, nil
}

func (p *Prompter) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(huh.ThemeBase()).
		WithInput(p.in).
		WithOutput(p.out).
		WithShowHelp(p.terminal).
		WithAccessible(!p.terminal)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrInputClosed
		}
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// lineReader returns at most one line per Read. Each accessible form scans
// its own copy of the input, so answers for later prompts must stay unread.
type lineReader struct {
	r       *bufio.Reader
	pending []byte
}

func (l *lineReader) Read(b []byte) (int, error) {
	if len(l.pending) == 0 {
		line, err := l.r.ReadBytes('\n')
		if len(line) == 0 {
			return 0, err
		}
		l.pending = line
	}
	n := copy(b, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}
