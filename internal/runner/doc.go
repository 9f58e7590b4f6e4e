// SPDX-License-Identifier: MPL-2.0

// Package runner executes the external collaborators of a release (git, the
// package manager, the registry CLI) as child processes.
//
// Every Command names its working directory explicitly; the runner never
// changes the process working directory. Output is streamed to the caller's
// writers, buffered, or captured to a temporary log file that is surfaced
// only when the command fails.
package runner
