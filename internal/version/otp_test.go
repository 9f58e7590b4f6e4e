// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestOTP_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		valid bool
	}{
		{"123456", true},
		{"000000", true},
		{"12345", false},
		{"1234567", false},
		{"12a456", false},
		{"", false},
		{" 123456", false},
		{"١٢٣٤٥٦", false}, // Arabic-Indic digits
	}

	for _, tt := range tests {
		err := OTP(tt.value).Validate()
		if tt.valid != (err == nil) {
			t.Errorf("Validate(%q) = %v, want valid=%v", tt.value, err, tt.valid)
		}
		if err != nil && !errors.Is(err, ErrInvalidOTP) {
			t.Errorf("Validate(%q) error should wrap ErrInvalidOTP", tt.value)
		}
	}
}

func TestOTP_ErrorDoesNotEchoValue(t *testing.T) {
	t.Parallel()

	_, err := ParseOTP("98765")
	if err == nil {
		t.Fatal("ParseOTP(98765) = nil, want error")
	}
	if strings.Contains(err.Error(), "98765") {
		t.Errorf("error message leaks the password: %q", err)
	}
}

func TestOTP_AcceptsSixDigits(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[0-9]{6}`).Draw(t, "otp")
		if _, err := ParseOTP(s); err != nil {
			t.Fatalf("ParseOTP(%q) = %v, want nil", s, err)
		}
	})
}

func TestOTP_RejectsOtherDigitCounts(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 12).Filter(func(n int) bool { return n != 6 }).Draw(t, "length")
		s := strings.Repeat("7", n)
		if err := OTP(s).Validate(); err == nil {
			t.Fatalf("Validate(%q) = nil, want error", s)
		}
	})
}

func TestOTP_RejectsNonDigits(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		digits := rapid.StringMatching(`[0-9]{6}`).Draw(t, "digits")
		pos := rapid.IntRange(0, 5).Draw(t, "pos")
		bad := rapid.RuneFrom([]rune("aZ-. _x")).Draw(t, "bad")
		s := digits[:pos] + string(bad) + digits[pos+1:]
		if err := OTP(s).Validate(); err == nil {
			t.Fatalf("Validate(%q) = nil, want error", s)
		}
	})
}
