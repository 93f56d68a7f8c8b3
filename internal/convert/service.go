// SPDX-License-Identifier: MPL-2.0

package convert

import (
	"context"
	"errors"
	"fmt"

	"github.com/scriptport/scriptport/internal/classify"
	"github.com/scriptport/scriptport/internal/discovery"
)

var (
	// ErrService is wrapped by ServiceError.
	ErrService = errors.New("conversion service failed")
	// ErrDuplicateResult marks a second result for a file already converted.
	ErrDuplicateResult = errors.New("duplicate result")
	// ErrUnknownResult marks a result for a file that was not in the request.
	ErrUnknownResult = errors.New("result for file not in request")
	// ErrLateResult marks a result delivered after Convert returned.
	ErrLateResult = errors.New("result delivered after conversion finished")
	// ErrNotConverted reports files the service returned no result for.
	ErrNotConverted = errors.New("no result from converter")
)

type (
	// Request is everything the conversion service needs for one category.
	// It is built immediately before dispatch and owned by that dispatch.
	Request struct {
		Category   classify.Category
		Files      []discovery.SourceFile
		Defines    []string
		References []string
		// IgnoreErrors asks the service to tolerate per-file failures.
		IgnoreErrors bool
	}

	// Result is the converted text of one input file.
	Result struct {
		OriginalPath string
		Content      string
	}

	// Service converts a request and calls onConverted once per converted
	// file, in any order and from any goroutine, before Convert returns.
	Service interface {
		Convert(ctx context.Context, req Request, onConverted func(Result)) error
	}

	// ServiceFunc adapts a function to the Service interface.
	ServiceFunc func(ctx context.Context, req Request, onConverted func(Result)) error

	// Handler persists one accepted result.
	Handler interface {
		Write(res Result) error
	}

	// HandlerFunc adapts a function to the Handler interface.
	HandlerFunc func(res Result) error

	// ServiceError is a failure reported by the conversion service for a
	// whole category.
	ServiceError struct {
		Category classify.Category
		Cause    error
	}

	// FileError is a per-file failure: the handler could not persist the
	// result, or the result itself was rejected.
	FileError struct {
		Path  string
		Cause error
	}
)

// Convert calls f.
func (f ServiceFunc) Convert(ctx context.Context, req Request, onConverted func(Result)) error {
	return f(ctx, req, onConverted)
}

// Write calls f.
func (f HandlerFunc) Write(res Result) error { return f(res) }

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("converting %s scripts: %v", e.Category.Slug(), e.Cause)
}

// Unwrap returns both ErrService and the service's own error.
func (e *ServiceError) Unwrap() []error { return []error{ErrService, e.Cause} }

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *FileError) Unwrap() error { return e.Cause }
