// SPDX-License-Identifier: MPL-2.0

package gitrepo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedStatus is returned for unparseable `git status --porcelain -z` output.
var ErrMalformedStatus = errors.New("malformed git status output")

// ParsePorcelainZ extracts paths from NUL-terminated porcelain v1 status
// output. Each entry is "XY <path>"; renames and copies are followed by an
// extra entry holding the source path, which is skipped.
func ParsePorcelainZ(out string) ([]string, error) {
	var paths []string
	entries := strings.Split(out, "\x00")
	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		if entry == "" {
			continue
		}
		if len(entry) < 4 || entry[2] != ' ' {
			return nil, fmt.Errorf("%w: %q", ErrMalformedStatus, entry)
		}
		paths = append(paths, entry[3:])
		if x := entry[0]; x == 'R' || x == 'C' {
			i++
		}
	}
	return paths, nil
}
