// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/scriptport/scriptport/internal/reference"
	"github.com/scriptport/scriptport/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// usageError marks err as an argument error.
func usageError(err error) error {
	return &ExitError{Code: types.ExitUsage, Err: err}
}

// exitCodeFor maps a run error to the process exit code. Missing reference
// assemblies get their own code and a blank reference path is an argument
// error. Every other failure after argument parsing is a plain failure.
func exitCodeFor(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code != types.ExitSuccess {
		return exitErr.Code
	}
	if errors.Is(err, reference.ErrEmptyReference) {
		return types.ExitUsage
	}
	if errors.Is(err, reference.ErrMissingReference) {
		return types.ExitMissingReference
	}
	return types.ExitFailure
}
