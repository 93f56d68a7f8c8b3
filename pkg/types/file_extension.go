// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFileExtension is the sentinel error wrapped by InvalidFileExtensionError.
var ErrInvalidFileExtension = errors.New("invalid file extension")

type (
	// FileExtension is a file name extension including its leading dot (".js").
	FileExtension string

	// InvalidFileExtensionError is returned when a FileExtension lacks the
	// leading dot, has nothing after it, or contains a path separator.
	InvalidFileExtensionError struct {
		Value FileExtension
	}
)

// String returns the extension with its leading dot.
func (e FileExtension) String() string { return string(e) }

// Token returns the extension without its leading dot ("js").
func (e FileExtension) Token() string { return strings.TrimPrefix(string(e), ".") }

// Validate returns an error unless the extension looks like ".name".
func (e FileExtension) Validate() error {
	s := string(e)
	if len(s) < 2 || s[0] != '.' || strings.ContainsAny(s, `/\`) || strings.TrimSpace(s) != s {
		return &InvalidFileExtensionError{Value: e}
	}
	return nil
}

// Error implements the error interface for InvalidFileExtensionError.
func (e *InvalidFileExtensionError) Error() string {
	return fmt.Sprintf("invalid file extension %q: must start with '.' and contain no separators", e.Value)
}

// Unwrap returns ErrInvalidFileExtension for errors.Is() compatibility.
func (e *InvalidFileExtensionError) Unwrap() error { return ErrInvalidFileExtension }
