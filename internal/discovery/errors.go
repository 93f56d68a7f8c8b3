// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
)

var (
	// ErrRootNotFound is returned when the scan root does not exist or is
	// not a directory.
	ErrRootNotFound = errors.New("scan root not found")
	// ErrReadSource is wrapped by ReadError.
	ErrReadSource = errors.New("cannot read source")
)

type (
	// RootError reports a scan root that cannot be walked.
	RootError struct {
		Root  string
		Cause error
	}

	// ReadError reports a matching source file, or a directory beneath the
	// scan root, that could not be read.
	ReadError struct {
		Path  string
		Cause error
	}
)

// Error implements the error interface.
func (e *RootError) Error() string {
	return fmt.Sprintf("scan root %s: %v", e.Root, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *RootError) Unwrap() error { return e.Cause }

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Cause)
}

// Unwrap returns both ErrReadSource and the underlying cause.
func (e *ReadError) Unwrap() []error { return []error{ErrReadSource, e.Cause} }
