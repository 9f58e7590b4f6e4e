// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrInvalidNumber is the sentinel error wrapped by InvalidNumberError.
var ErrInvalidNumber = errors.New("invalid version number")

// numberPattern is MAJOR.MINOR.PATCH with an optional pre-release suffix.
// The check is purely syntactic: no ordering against the previous release.
var numberPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[A-Za-z0-9.]+)?$`)

type (
	// Number is a release version such as "2.3.0" or "3.0.0-beta.1".
	Number string

	// InvalidNumberError is returned when a Number does not match
	// MAJOR.MINOR.PATCH[-PRERELEASE].
	InvalidNumberError struct {
		Value Number
	}
)

// Error implements the error interface.
func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("invalid version %q (expected MAJOR.MINOR.PATCH[-PRERELEASE], e.g. 2.3.0 or 3.0.0-rc.1)", string(e.Value))
}

// Unwrap returns ErrInvalidNumber for errors.Is() compatibility.
func (e *InvalidNumberError) Unwrap() error { return ErrInvalidNumber }

// ParseNumber validates s and returns it as a Number.
func ParseNumber(s string) (Number, error) {
	n := Number(s)
	if err := n.Validate(); err != nil {
		return "", err
	}
	return n, nil
}

// Validate returns an InvalidNumberError if the Number is malformed.
func (n Number) Validate() error {
	if !numberPattern.MatchString(string(n)) {
		return &InvalidNumberError{Value: n}
	}
	return nil
}

// IsValid returns whether the Number is well-formed, and the validation
// errors if it is not.
func (n Number) IsValid() (bool, []error) {
	if err := n.Validate(); err != nil {
		return false, []error{err}
	}
	return true, nil
}

// IsPrerelease reports whether the Number carries a pre-release suffix.
func (n Number) IsPrerelease() bool {
	return strings.Contains(string(n), "-")
}

// Compare orders n against other using semantic version precedence and
// reports whether both were comparable. Numbers that pass Validate but are
// not strict semver (e.g. "1.0.0-rc..1") are not comparable.
func (n Number) Compare(other Number) (int, bool) {
	a, b := "v"+string(n), "v"+string(other)
	if !semver.IsValid(a) || !semver.IsValid(b) {
		return 0, false
	}
	return semver.Compare(a, b), true
}

// String returns the version as entered.
func (n Number) String() string { return string(n) }
