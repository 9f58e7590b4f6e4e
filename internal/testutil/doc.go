// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment isolation (MustSetenv, IsolateConfig),
// file operations (MustMkdirAll, MustWriteFile, MustReadFile) and git fixtures
// built with go-git (InitRepo).
package testutil
