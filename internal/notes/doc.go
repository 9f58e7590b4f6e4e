// SPDX-License-Identifier: MPL-2.0

// Package notes builds the pre-filled release page URL opened at the end of
// a release.
package notes
