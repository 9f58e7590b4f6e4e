// SPDX-License-Identifier: MPL-2.0

package notes

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"text/template"
)

var (
	// ErrUnrecognizedRemote is returned when owner/repo cannot be derived from a remote URL.
	ErrUnrecognizedRemote = errors.New("unrecognized remote URL")

	// ErrInvalidTemplate is returned when the notes template fails to parse or render.
	ErrInvalidTemplate = errors.New("invalid release notes template")

	// scp-like syntax: [user@]host:owner/repo[.git]
	scpRemote = regexp.MustCompile(`^(?:[^@/]+@)?[^:/]+:([^/]+/[^/]+?)(?:\.git)?/?$`)
)

type (
	// Package is one published package as seen by the notes template.
	Package struct {
		Name string
		Dir  string
	}

	// Release is the data passed to the notes template.
	Release struct {
		Version  string
		Tag      string
		Packages []Package
	}

	// Request describes the release page to open.
	Request struct {
		// BaseURL is the hosting site, e.g. https://github.com.
		BaseURL string
		// Repository is "owner/repo".
		Repository string
		// Target is the commit the release tag points at.
		Target   string
		Template string
		Release  Release
	}
)

// RepositoryFromRemote derives "owner/repo" from a git remote URL in
// scp-like (git@host:owner/repo.git) or URL (https://host/owner/repo.git,
// ssh://git@host/owner/repo) form.
func RepositoryFromRemote(remote string) (string, error) {
	remote = strings.TrimSpace(remote)
	if m := scpRemote.FindStringSubmatch(remote); m != nil && !strings.Contains(remote, "://") {
		return m[1], nil
	}

	u, err := url.Parse(remote)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedRemote, remote)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedRemote, remote)
	}
	return parts[0] + "/" + strings.TrimSuffix(parts[1], ".git"), nil
}

// Body renders the notes template for r.
func Body(tmpl string, r Release) (string, error) {
	t, err := template.New("notes").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, r); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	return sb.String(), nil
}

// URL builds <base>/<repo>/releases/new with tag, target, title and body
// query parameters.
func URL(req Request) (string, error) {
	body, err := Body(req.Template, req.Release)
	if err != nil {
		return "", err
	}

	base, err := url.Parse(strings.TrimRight(req.BaseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid release base URL %q: %w", req.BaseURL, err)
	}
	u := base.JoinPath(req.Repository, "releases", "new")

	q := url.Values{}
	q.Set("tag", req.Release.Version)
	q.Set("target", req.Target)
	q.Set("title", req.Release.Version)
	q.Set("body", body)
	if strings.Contains(req.Release.Version, "-") {
		q.Set("prerelease", "1")
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
