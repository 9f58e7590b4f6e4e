// SPDX-License-Identifier: MPL-2.0

package notes

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/invowk/suitepub/internal/config"
)

func TestRepositoryFromRemote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		remote  string
		want    string
		wantErr bool
	}{
		{remote: "git@github.com:acme/suite.git", want: "acme/suite"},
		{remote: "git@github.com:acme/suite", want: "acme/suite"},
		{remote: "github.com:acme/suite.git", want: "acme/suite"},
		{remote: "https://github.com/acme/suite.git", want: "acme/suite"},
		{remote: "https://github.com/acme/suite", want: "acme/suite"},
		{remote: "ssh://git@github.com/acme/suite.git", want: "acme/suite"},
		{remote: "https://github.com/acme", wantErr: true},
		{remote: "/srv/git/suite.git", wantErr: true},
		{remote: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			t.Parallel()

			got, err := RepositoryFromRemote(tt.remote)
			if tt.wantErr {
				if !errors.Is(err, ErrUnrecognizedRemote) {
					t.Errorf("RepositoryFromRemote(%q) error = %v, want ErrUnrecognizedRemote", tt.remote, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("RepositoryFromRemote(%q) = %q, %v; want %q", tt.remote, got, err, tt.want)
			}
		})
	}
}

func TestURL(t *testing.T) {
	t.Parallel()

	raw, err := URL(Request{
		BaseURL:    "https://github.com/",
		Repository: "acme/suite",
		Target:     "0123abcd",
		Template:   config.DefaultNotesTemplate,
		Release: Release{
			Version: "2.3.0",
			Tag:     "latest",
			Packages: []Package{
				{Name: "@suite/core", Dir: "."},
				{Name: "@suite/react", Dir: "packages/react"},
			},
		},
	})
	if err != nil {
		t.Fatalf("URL() error: %v", err)
	}

	if !strings.HasPrefix(raw, "https://github.com/acme/suite/releases/new?") {
		t.Errorf("URL() = %q, wrong path", raw)
	}
	if !strings.Contains(raw, "tag=2.3.0") || !strings.Contains(raw, "target=0123abcd") {
		t.Errorf("URL() = %q, missing tag or target", raw)
	}
	if strings.Contains(raw, "prerelease") {
		t.Errorf("URL() = %q, stable release marked as prerelease", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	body := u.Query().Get("body")
	for _, want := range []string{"## Changelog", "### [@suite/core@2.3.0]", "### [@suite/react@2.3.0]"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if u.Query().Get("title") != "2.3.0" {
		t.Errorf("title = %q, want 2.3.0", u.Query().Get("title"))
	}
}

func TestURL_Prerelease(t *testing.T) {
	t.Parallel()

	raw, err := URL(Request{
		BaseURL: "https://github.com", Repository: "acme/suite", Target: "abc",
		Template: "{{.Version}} on {{.Tag}}",
		Release:  Release{Version: "3.0.0-rc.1", Tag: "next"},
	})
	if err != nil {
		t.Fatal(err)
	}
	u, _ := url.Parse(raw)
	if u.Query().Get("prerelease") != "1" {
		t.Errorf("URL() = %q, want prerelease=1", raw)
	}
	if u.Query().Get("body") != "3.0.0-rc.1 on next" {
		t.Errorf("body = %q", u.Query().Get("body"))
	}
}

func TestBody_InvalidTemplate(t *testing.T) {
	t.Parallel()

	if _, err := Body("{{.Nope", Release{}); !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("parse error = %v, want ErrInvalidTemplate", err)
	}
	if _, err := Body("{{.Missing}}", Release{}); !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("exec error = %v, want ErrInvalidTemplate", err)
	}
}
