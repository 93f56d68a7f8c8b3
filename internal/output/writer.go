// SPDX-License-Identifier: MPL-2.0

package output

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/scriptport/scriptport/internal/convert"
	"github.com/scriptport/scriptport/pkg/fspath"
	"github.com/scriptport/scriptport/pkg/types"
)

const (
	// DefaultMetaSuffix is appended by Unity to every asset path to name
	// its sidecar.
	DefaultMetaSuffix = ".meta"

	filePerm = 0o644
)

var (
	// ErrSidecarMissing is returned when a converted script has no sidecar
	// to carry over.
	ErrSidecarMissing = errors.New("sidecar file missing")
	// ErrWriteOutput is wrapped by every failure to persist converted text.
	ErrWriteOutput = errors.New("failed to write converted script")
	// ErrInvalidWriterConfig is returned by New for unusable extensions.
	ErrInvalidWriterConfig = errors.New("invalid output writer config")
)

type (
	// Config selects the extensions the Writer maps between.
	Config struct {
		SourceExt  types.FileExtension
		TargetExt  types.FileExtension
		MetaSuffix string
		Logger     *slog.Logger
	}

	// Writer implements convert.Handler. It never modifies or removes the
	// original script or its sidecar.
	Writer struct {
		sourceExt  types.FileExtension
		targetExt  types.FileExtension
		metaSuffix string
		logger     *slog.Logger
	}

	// SidecarError reports a sidecar that could not be carried over.
	SidecarError struct {
		// Path is the expected sidecar of the original script.
		Path  string
		Cause error
	}

	// WriteError reports converted text that could not be written.
	WriteError struct {
		Path  string
		Cause error
	}
)

var _ convert.Handler = (*Writer)(nil)

// New validates cfg and creates a Writer.
func New(cfg Config) (*Writer, error) {
	if err := cfg.SourceExt.Validate(); err != nil {
		return nil, fmt.Errorf("%w: source extension: %w", ErrInvalidWriterConfig, err)
	}
	if err := cfg.TargetExt.Validate(); err != nil {
		return nil, fmt.Errorf("%w: target extension: %w", ErrInvalidWriterConfig, err)
	}
	if cfg.SourceExt == cfg.TargetExt {
		return nil, fmt.Errorf("%w: source and target extension are both %q", ErrInvalidWriterConfig, cfg.SourceExt)
	}
	meta := cfg.MetaSuffix
	if meta == "" {
		meta = DefaultMetaSuffix
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		sourceExt:  cfg.SourceExt,
		targetExt:  cfg.TargetExt,
		metaSuffix: meta,
		logger:     logger,
	}, nil
}

// Write stores res.Content at the original path with its extension replaced
// and copies the original's sidecar to the matching sidecar name. Existing
// files at either destination are overwritten.
func (w *Writer) Write(res convert.Result) error {
	target, sidecarTarget := w.Targets(res.OriginalPath)
	if err := os.WriteFile(target, []byte(res.Content), filePerm); err != nil {
		return &WriteError{Path: target, Cause: err}
	}

	sidecar := res.OriginalPath + w.metaSuffix
	data, err := os.ReadFile(sidecar)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = ErrSidecarMissing
		}
		return &SidecarError{Path: sidecar, Cause: err}
	}
	if err := os.WriteFile(sidecarTarget, data, filePerm); err != nil {
		return &WriteError{Path: sidecarTarget, Cause: err}
	}

	w.logger.Debug("wrote converted script", "path", target, "sidecar", sidecarTarget)
	return nil
}

// Targets returns the paths Write produces for the script at path. A script
// without the source extension gets its sidecar named after the new file.
func (w *Writer) Targets(path string) (script, sidecar string) {
	script = fspath.ChangeExt(path, w.targetExt)
	sidecar, ok := fspath.SwapEmbeddedExt(path+w.metaSuffix, w.sourceExt, w.targetExt, w.metaSuffix)
	if !ok {
		sidecar = script + w.metaSuffix
	}
	return script, sidecar
}

// Error implements the error interface.
func (e *SidecarError) Error() string {
	return fmt.Sprintf("sidecar %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *SidecarError) Unwrap() error { return e.Cause }

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrWriteOutput and the underlying cause.
func (e *WriteError) Unwrap() []error { return []error{ErrWriteOutput, e.Cause} }
