// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"regexp"
)

// ErrInvalidOTP is the sentinel error wrapped by InvalidOTPError.
var ErrInvalidOTP = errors.New("invalid one-time password")

var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

type (
	// OTP is a registry one-time password. It is single-use and never logged;
	// validation errors report only its length.
	OTP string

	// InvalidOTPError is returned when an OTP is not exactly six digits.
	InvalidOTPError struct {
		Length int
	}
)

// Error implements the error interface.
func (e *InvalidOTPError) Error() string {
	return "one-time password must be exactly 6 digits"
}

// Unwrap returns ErrInvalidOTP for errors.Is() compatibility.
func (e *InvalidOTPError) Unwrap() error { return ErrInvalidOTP }

// ParseOTP validates s and returns it as an OTP.
func ParseOTP(s string) (OTP, error) {
	o := OTP(s)
	if err := o.Validate(); err != nil {
		return "", err
	}
	return o, nil
}

// Validate returns an InvalidOTPError unless the OTP is exactly six digits.
func (o OTP) Validate() error {
	if !otpPattern.MatchString(string(o)) {
		return &InvalidOTPError{Length: len(o)}
	}
	return nil
}

// IsValid returns whether the OTP is well-formed, and the validation errors
// if it is not.
func (o OTP) IsValid() (bool, []error) {
	if err := o.Validate(); err != nil {
		return false, []error{err}
	}
	return true, nil
}
