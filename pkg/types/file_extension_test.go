// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestFileExtensionValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext     FileExtension
		wantErr bool
	}{
		{".js", false},
		{".cs", false},
		{".meta", false},
		{"js", true},
		{".", true},
		{"", true},
		{"./x", true},
		{` .js`, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.ext), func(t *testing.T) {
			t.Parallel()

			err := tt.ext.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("FileExtension(%q).Validate() error = %v, wantErr %v", tt.ext, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidFileExtension) {
				t.Errorf("error does not wrap ErrInvalidFileExtension: %v", err)
			}
		})
	}
}

func TestFileExtensionToken(t *testing.T) {
	t.Parallel()

	if got := FileExtension(".js").Token(); got != "js" {
		t.Errorf("Token() = %q, want %q", got, "js")
	}
}
