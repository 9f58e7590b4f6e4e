// SPDX-License-Identifier: MPL-2.0

// Package browser opens URLs in the operator's default browser.
package browser

import (
	"fmt"
	"io"

	pkgbrowser "github.com/pkg/browser"
)

type (
	// Opener opens a URL for the operator.
	Opener interface {
		Open(url string) error
	}

	// System opens URLs with the platform launcher (xdg-open, open, start).
	System struct {
		// Stdout and Stderr receive the launcher's output. Nil discards it.
		Stdout io.Writer
		Stderr io.Writer
	}
)

// Open implements Opener.
func (s System) Open(url string) error {
	pkgbrowser.Stdout = orDiscard(s.Stdout)
	pkgbrowser.Stderr = orDiscard(s.Stderr)
	if err := pkgbrowser.OpenURL(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
