// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the platform's home variable (HOME, or USERPROFILE on
// Windows) at dir and returns a cleanup function restoring it.
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		return MustSetenv(t, "HOME", dir)
	}
}

// IsolateConfig points HOME and XDG_CONFIG_HOME at dir so that no user
// configuration leaks into a test.
func IsolateConfig(t testing.TB, dir string) func() {
	t.Helper()
	restoreHome := SetHomeDir(t, dir)
	restoreXDG := MustSetenv(t, "XDG_CONFIG_HOME", dir)
	return func() {
		restoreXDG()
		restoreHome()
	}
}
