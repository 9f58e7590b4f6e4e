// SPDX-License-Identifier: MPL-2.0

// Package release drives a suite release from precondition checks to the
// release page.
//
// A run is strictly sequential: preconditions, version resolution, the
// primary package (bump, reinstall, lock check, build, publish, commit),
// every secondary package, one combined commit, then push and the release
// page. The first failing step stops the run with a *StepError naming the
// package and step. Work already done (published packages, commits, bumped
// manifests) is left in place.
package release
