// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "success", value: ExitSuccess, wantValid: true},
		{name: "usage", value: ExitUsage, wantValid: true},
		{name: "missing reference", value: ExitMissingReference, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "negative is invalid", value: -1, wantValid: false},
		{name: "256 is invalid", value: 256, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Fatalf("ExitCode(%d).Validate() error = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if !tt.wantValid && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("error does not wrap ErrInvalidExitCode: %v", err)
			}
		})
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	t.Parallel()

	seen := map[ExitCode]string{}
	for name, code := range map[string]ExitCode{
		"success":           ExitSuccess,
		"failure":           ExitFailure,
		"usage":             ExitUsage,
		"missing reference": ExitMissingReference,
	} {
		if other, dup := seen[code]; dup {
			t.Errorf("exit code %d shared by %q and %q", code, name, other)
		}
		seen[code] = name
	}
	if !ExitSuccess.IsSuccess() || ExitUsage.IsSuccess() {
		t.Error("IsSuccess() must only hold for ExitSuccess")
	}
	if got := ExitMissingReference.String(); got != "3" {
		t.Errorf("String() = %q, want %q", got, "3")
	}
}
