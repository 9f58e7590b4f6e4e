// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestNumber_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		valid bool
	}{
		{"2.3.0", true},
		{"0.0.1", true},
		{"10.20.30", true},
		{"1.0.0-beta", true},
		{"1.0.0-rc.1", true},
		{"1.0.0-0.3.7", true},
		{"", false},
		{"1.2", false},
		{"1.2.3.4", false},
		{"v1.2.3", false},
		{"1.2.3-", false},
		{"1.2.3-beta_1", false},
		{"1.2.3+build", false},
		{" 1.2.3", false},
		{"1.2.3\n", false},
		{"a.b.c", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.value), func(t *testing.T) {
			t.Parallel()

			err := Number(tt.value).Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate(%q) = %v, want nil", tt.value, err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatalf("Validate(%q) = nil, want error", tt.value)
				}
				if !errors.Is(err, ErrInvalidNumber) {
					t.Errorf("error should wrap ErrInvalidNumber, got %v", err)
				}
				var ine *InvalidNumberError
				if !errors.As(err, &ine) || ine.Value != Number(tt.value) {
					t.Errorf("error should be *InvalidNumberError carrying the value, got %#v", err)
				}
			}
		})
	}
}

func TestNumber_AcceptsEveryWellFormedVersion(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[0-9]{1,4}\.[0-9]{1,4}\.[0-9]{1,4}(-[A-Za-z0-9.]{1,12})?`).Draw(t, "version")
		n, err := ParseNumber(s)
		if err != nil {
			t.Fatalf("ParseNumber(%q) = %v, want nil", s, err)
		}
		if n.String() != s {
			t.Fatalf("ParseNumber(%q) = %q, want unchanged value", s, n)
		}
	})
}

func TestNumber_RejectsWrongComponentCount(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		parts := rapid.SliceOfN(rapid.IntRange(0, 999), 0, 6).
			Filter(func(p []int) bool { return len(p) != 3 }).
			Draw(t, "parts")
		strs := make([]string, len(parts))
		for i, p := range parts {
			strs[i] = fmt.Sprint(p)
		}
		s := strings.Join(strs, ".")
		if err := Number(s).Validate(); err == nil {
			t.Fatalf("Validate(%q) = nil, want error", s)
		}
	})
}

func TestNumber_RejectsLeadingV(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}`).Draw(t, "version")
		if err := Number("v" + s).Validate(); err == nil {
			t.Fatalf("Validate(%q) = nil, want error", "v"+s)
		}
	})
}

func TestNumber_IsPrerelease(t *testing.T) {
	t.Parallel()

	if Number("1.2.3").IsPrerelease() {
		t.Error("1.2.3 should not be a pre-release")
	}
	if !Number("1.2.3-alpha.1").IsPrerelease() {
		t.Error("1.2.3-alpha.1 should be a pre-release")
	}
}

func TestNumber_Compare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b       Number
		want       int
		comparable bool
	}{
		{"2.3.0", "2.2.9", 1, true},
		{"2.3.0", "2.3.0", 0, true},
		{"2.3.0-rc.1", "2.3.0", -1, true},
		{"1.10.0", "1.9.0", 1, true},
		{"1.0.0-rc..1", "1.0.0", 0, false},
	}

	for _, tt := range tests {
		got, ok := tt.a.Compare(tt.b)
		if ok != tt.comparable || got != tt.want {
			t.Errorf("%s.Compare(%s) = (%d, %v), want (%d, %v)", tt.a, tt.b, got, ok, tt.want, tt.comparable)
		}
	}
}
