// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/invowk/suitepub/internal/version"
)

const (
	nameKey    = "name"
	versionKey = "version"
	peerKey    = "peerDependencies"
)

var (
	// ErrInvalidManifest is returned when a manifest is not a JSON object.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrMissingName is returned when a manifest has no "name" field.
	ErrMissingName = errors.New("manifest has no name")

	prettyOptions = &pretty.Options{Width: 0, Prefix: "", Indent: "  ", SortKeys: false}
)

type (
	// Manifest is the subset of package.json the release flow needs.
	Manifest struct {
		Name             string
		Version          string
		PeerDependencies map[string]string
	}

	// Change records a manifest rewrite.
	Change struct {
		Path   string
		Before []byte
		After  []byte
	}
)

// Parse extracts the manifest fields from raw JSON.
func Parse(data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidManifest)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrInvalidManifest)
	}

	m := &Manifest{
		Name:    root.Get(nameKey).String(),
		Version: root.Get(versionKey).String(),
	}
	if m.Name == "" {
		return nil, ErrMissingName
	}

	peers := root.Get(peerKey)
	if peers.IsObject() {
		m.PeerDependencies = make(map[string]string)
		peers.ForEach(func(key, value gjson.Result) bool {
			m.PeerDependencies[key.String()] = value.String()
			return true
		})
	}
	return m, nil
}

// Read loads and parses the manifest at path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// HasPeer reports whether the manifest declares a peer dependency on name.
func (m *Manifest) HasPeer(name string) bool {
	_, ok := m.PeerDependencies[name]
	return ok
}

// Apply returns data with the version set to v and, if the manifest declares
// a peer dependency on primaryName, that dependency pinned to v as well.
func Apply(data []byte, v version.Number, primaryName string) ([]byte, error) {
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}

	out, err := sjson.SetBytes(data, versionKey, v.String())
	if err != nil {
		return nil, fmt.Errorf("failed to set version: %w", err)
	}

	if primaryName != "" && primaryName != m.Name && m.HasPeer(primaryName) {
		out, err = sjson.SetBytes(out, peerKey+"."+gjson.Escape(primaryName), v.String())
		if err != nil {
			return nil, fmt.Errorf("failed to set peer dependency %s: %w", primaryName, err)
		}
	}

	return pretty.PrettyOptions(out, prettyOptions), nil
}

// Bump rewrites the manifest at path in place. See Apply.
func Bump(path string, v version.Number, primaryName string) (*Change, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	after, err := Apply(before, v, primaryName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := os.WriteFile(path, after, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	return &Change{Path: path, Before: before, After: after}, nil
}

// Diff renders the line diff of the change.
func (c *Change) Diff() string {
	return Diff(c.Before, c.After)
}
