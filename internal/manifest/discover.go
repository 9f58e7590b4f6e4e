// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// WorkspaceDir is the directory scanned for secondary packages.
const WorkspaceDir = "packages"

// Discovered is the package layout found under a repository root.
type Discovered struct {
	// Primary is the manifest of the repository root package.
	Primary *Manifest
	// Secondaries are repository-relative directories of packages that
	// declare a peer dependency on the primary, in lexical order.
	Secondaries []string
}

// Discover finds the suite under root. The root package is primary; every
// direct child of packages/ whose manifest peer-depends on it is secondary.
// Children without a manifest, or without the peer dependency, are skipped.
func Discover(root, manifestFile string) (*Discovered, error) {
	primary, err := Read(filepath.Join(root, manifestFile))
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(root, WorkspaceDir))
	if errors.Is(err, fs.ErrNotExist) {
		return &Discovered{Primary: primary}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", WorkspaceDir, err)
	}

	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		rel := filepath.Join(WorkspaceDir, e.Name())
		m, err := Read(filepath.Join(root, rel, manifestFile))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if m.HasPeer(primary.Name) {
			dirs = append(dirs, rel)
		}
	}
	slices.Sort(dirs)

	return &Discovered{Primary: primary, Secondaries: dirs}, nil
}
