// SPDX-License-Identifier: MPL-2.0

// Package gitrepo inspects and updates the repository being released.
//
// Reads (branch, refs, HEAD, remote URL) go through go-git. Anything that
// must match what the operator's own git would do (fetching with their
// credentials, status against their index, commit hooks, pushing) shells out
// to the git CLI through a runner.Runner.
package gitrepo
