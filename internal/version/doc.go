// SPDX-License-Identifier: MPL-2.0

// Package version defines the validated value types entered by the release
// operator: the suite version number and the registry one-time password.
package version
