// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. The Markdown catalogue in this package holds the longer
// guidance shown when a release precondition or publish step fails.
package issue
