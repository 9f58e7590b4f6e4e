// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the suitepub command line.
//
// The root command runs a release; `config show` prints the effective
// configuration. Commands are executed through fang, which provides styled
// help and interrupt handling. Exit codes travel out of RunE as *ExitError.
package cmd
