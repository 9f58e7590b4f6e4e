// SPDX-License-Identifier: MPL-2.0

// Package manifest reads and rewrites package manifests (package.json).
//
// Edits are made in place on the raw JSON document so that key order and
// unrelated fields survive a version bump. The result is reformatted with
// two-space indentation and a trailing newline, matching what npm writes.
package manifest
