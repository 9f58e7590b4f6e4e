// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		line     string
		wantArgv []string
		wantErr  error
	}{
		{name: "simple", line: "npm install", wantArgv: []string{"npm", "install"}},
		{name: "extra spaces", line: "  npm   run  build ", wantArgv: []string{"npm", "run", "build"}},
		{name: "quoted arg", line: `pnpm run "build all"`, wantArgv: []string{"pnpm", "run", "build all"}},
		{name: "single quotes", line: `yarn 'x y'`, wantArgv: []string{"yarn", "x y"}},
		{name: "empty", line: "", wantErr: ErrEmptyCommand},
		{name: "blank", line: "   ", wantErr: ErrEmptyCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd, err := Parse("/repo", tt.line)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.line, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.line, err)
			}
			if diff := cmp.Diff(tt.wantArgv, cmd.Argv()); diff != "" {
				t.Errorf("Parse(%q) argv mismatch (-want +got):\n%s", tt.line, diff)
			}
			if cmd.Dir != "/repo" {
				t.Errorf("Dir = %q, want /repo", cmd.Dir)
			}
		})
	}
}

func TestParse_UnterminatedQuote(t *testing.T) {
	t.Parallel()

	if _, err := Parse("/repo", `npm "run`); err == nil {
		t.Fatal("expected error for unterminated quote")
	}
}

func TestCommand_WithArgsDoesNotAlias(t *testing.T) {
	t.Parallel()

	base := New("/repo", "npm", "publish")
	a := base.WithArgs("--tag", "latest")
	b := base.WithArgs("--tag", "next")

	if diff := cmp.Diff([]string{"npm", "publish"}, base.Argv()); diff != "" {
		t.Errorf("base mutated (-want +got):\n%s", diff)
	}
	if a.Args[2] != "latest" || b.Args[2] != "next" {
		t.Errorf("derived commands share storage: a=%v b=%v", a.Args, b.Args)
	}
}

func TestCommand_StringMasksSecrets(t *testing.T) {
	t.Parallel()

	cmd := New("/repo", "npm", "publish", "--otp", "123456").WithSecret("123456")
	got := cmd.String()

	if want := "npm publish --otp ******"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCommand_StringQuotes(t *testing.T) {
	t.Parallel()

	cmd := New("/repo", "git", "commit", "-m", "Bump to 1.0.0")
	if want := "git commit -m 'Bump to 1.0.0'"; cmd.String() != want {
		t.Errorf("String() = %q, want %q", cmd.String(), want)
	}
}
