// SPDX-License-Identifier: MPL-2.0

package prompt

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer, *bytes.Buffer) {
	var out, logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{})
	return New(strings.NewReader(input), &out, logger), &out, &logs
}

func TestVersion_RejectsThenAccepts(t *testing.T) {
	t.Parallel()

	p, out, logs := newTestPrompter("abc\n1.0.0\n")

	got, err := p.Version("0.9.1")
	if err != nil {
		t.Fatalf("Version() error: %v", err)
	}
	if got != "1.0.0" {
		t.Errorf("Version() = %q, want 1.0.0", got)
	}
	if n := strings.Count(logs.String(), "Rejected version"); n != 1 {
		t.Errorf("got %d rejection messages, want 1:\n%s", n, logs.String())
	}
	if !strings.Contains(logs.String(), "abc") {
		t.Errorf("rejection does not name the input:\n%s", logs.String())
	}
	if !strings.Contains(out.String(), "Current version: 0.9.1") {
		t.Errorf("current version not shown:\n%s", out.String())
	}
	if n := strings.Count(out.String(), "New version"); n < 2 {
		t.Errorf("prompted %d times, want at least 2", n)
	}
}

func TestVersion_Rejections(t *testing.T) {
	t.Parallel()

	p, _, logs := newTestPrompter("\n1.2\n1.2.3.4\nv1.2.3\n3.0.0-beta.1\n")

	got, err := p.Version("")
	if err != nil {
		t.Fatalf("Version() error: %v", err)
	}
	if got != "3.0.0-beta.1" {
		t.Errorf("Version() = %q", got)
	}
	if n := strings.Count(logs.String(), "Rejected version"); n != 4 {
		t.Errorf("got %d rejections, want 4", n)
	}
}

func TestVersion_LastLineWithoutNewline(t *testing.T) {
	t.Parallel()

	p, _, _ := newTestPrompter("2.0.0")
	if got, err := p.Version("1.0.0"); err != nil || got != "2.0.0" {
		t.Errorf("Version() = %q, %v", got, err)
	}
}

func TestVersion_EOF(t *testing.T) {
	t.Parallel()

	p, _, _ := newTestPrompter("abc\n")
	if _, err := p.Version("1.0.0"); !errors.Is(err, ErrInputClosed) {
		t.Errorf("Version() error = %v, want ErrInputClosed", err)
	}
}

func TestOTP(t *testing.T) {
	t.Parallel()

	p, out, logs := newTestPrompter("12345\n12a456\n1234567\n654321\n")

	got, err := p.OTP("@suite/core")
	if err != nil {
		t.Fatalf("OTP() error: %v", err)
	}
	if got != "654321" {
		t.Errorf("OTP() = %q", got)
	}
	if n := strings.Count(logs.String(), "Rejected one-time password"); n != 3 {
		t.Errorf("got %d rejections, want 3", n)
	}
	for _, secret := range []string{"12345", "12a456", "1234567", "654321"} {
		if strings.Contains(logs.String(), secret) || strings.Contains(out.String(), secret) {
			t.Errorf("one-time password %q leaked to output", secret)
		}
	}
	if !strings.Contains(out.String(), "One-time password for @suite/core") {
		t.Errorf("prompt missing package name:\n%s", out.String())
	}
}

func TestOTP_EOF(t *testing.T) {
	t.Parallel()

	p, _, _ := newTestPrompter("")
	if _, err := p.OTP("core"); !errors.Is(err, ErrInputClosed) {
		t.Errorf("OTP() error = %v, want ErrInputClosed", err)
	}
}

func TestPrompter_SequentialAnswers(t *testing.T) {
	t.Parallel()

	p, _, logs := newTestPrompter("1.4.0\n111111\nxyz\n222222\n")

	v, err := p.Version("1.3.9")
	if err != nil || v != "1.4.0" {
		t.Fatalf("Version() = %q, %v", v, err)
	}
	first, err := p.OTP("core")
	if err != nil || first != "111111" {
		t.Fatalf("first OTP() = %q, %v", first, err)
	}
	second, err := p.OTP("react")
	if err != nil || second != "222222" {
		t.Fatalf("second OTP() = %q, %v", second, err)
	}
	if n := strings.Count(logs.String(), "Rejected one-time password"); n != 1 {
		t.Errorf("got %d rejections, want 1", n)
	}
}

func TestLineReader_OneLinePerRead(t *testing.T) {
	t.Parallel()

	r := &lineReader{r: bufio.NewReader(strings.NewReader("first\nsecond"))}
	buf := make([]byte, 64)

	for _, want := range []string{"first\n", "second"} {
		n, err := r.Read(buf)
		if err != nil {
			t.Fatalf("Read() error: %v", err)
		}
		if got := string(buf[:n]); got != want {
			t.Errorf("Read() = %q, want %q", got, want)
		}
	}
	if _, err := r.Read(buf); !errors.Is(err, io.EOF) {
		t.Errorf("Read() at end = %v, want io.EOF", err)
	}
}
