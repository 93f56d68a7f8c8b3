// SPDX-License-Identifier: MPL-2.0

// Package reference checks the reference assemblies handed to the conversion
// service. The service needs a complete reference set for semantic analysis,
// so a single missing assembly aborts the run before anything is converted.
package reference

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// DefaultCoreReference names the core runtime assembly that is always
// passed to the conversion service. The service resolves it itself.
const DefaultCoreReference = "mscorlib.dll"

var (
	// ErrMissingReference is wrapped by MissingReferenceError.
	ErrMissingReference = errors.New("reference assembly not found")
	// ErrEmptyReference is returned for blank reference paths.
	ErrEmptyReference = errors.New("empty reference path")
)

// MissingReferenceError identifies the first supplied reference that does
// not exist as a regular file.
type MissingReferenceError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *MissingReferenceError) Error() string {
	if e.Cause != nil && !errors.Is(e.Cause, fs.ErrNotExist) {
		return fmt.Sprintf("cannot find referenced assembly: %s: %v", e.Path, e.Cause)
	}
	return "cannot find referenced assembly: " + e.Path
}

// Unwrap returns ErrMissingReference for errors.Is() compatibility.
func (e *MissingReferenceError) Unwrap() error { return ErrMissingReference }

// Validate checks refs in order and fails on the first one that is not an
// existing regular file. On success it returns refs followed by core, the
// implicit runtime reference, which is never checked. A blank core falls
// back to DefaultCoreReference.
func Validate(refs []string, core string) ([]string, error) {
	for _, ref := range refs {
		if strings.TrimSpace(ref) == "" {
			return nil, ErrEmptyReference
		}
		info, err := os.Stat(ref)
		if err != nil {
			return nil, &MissingReferenceError{Path: ref, Cause: err}
		}
		if !info.Mode().IsRegular() {
			return nil, &MissingReferenceError{Path: ref, Cause: fmt.Errorf("not a regular file")}
		}
	}

	if strings.TrimSpace(core) == "" {
		core = DefaultCoreReference
	}
	out := make([]string, 0, len(refs)+1)
	out = append(out, refs...)
	return append(out, core), nil
}
