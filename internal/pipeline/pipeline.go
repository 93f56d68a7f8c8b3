// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/scriptport/scriptport/internal/classify"
	"github.com/scriptport/scriptport/internal/convert"
	"github.com/scriptport/scriptport/internal/discovery"
	"github.com/scriptport/scriptport/internal/output"
	"github.com/scriptport/scriptport/internal/reference"
	"github.com/scriptport/scriptport/pkg/fspath"
	"github.com/scriptport/scriptport/pkg/types"
)

var (
	// ErrIncomplete is returned, together with the summary, when at least
	// one category or file could not be converted.
	ErrIncomplete = errors.New("conversion incomplete")
	// ErrNoProject is returned when Options.ProjectPath is empty.
	ErrNoProject = errors.New("no project path given")
	// ErrNoService is returned by New without a conversion service.
	ErrNoService = errors.New("no conversion service configured")
)

type (
	// Options describes one run.
	Options struct {
		// ProjectPath is the Unity project root.
		ProjectPath string
		// ScanDir is the directory below ProjectPath that holds the scripts.
		// Empty scans the whole project.
		ScanDir    string
		SourceExt  types.FileExtension
		TargetExt  types.FileExtension
		MetaSuffix string
		Markers    classify.Markers
		// Ignore are doublestar globs relative to the scan root.
		Ignore []string

		// Dump lists the partitioned scripts before conversion starts.
		Dump bool

		References    []string
		CoreReference string
		Defines       []string
		IgnoreErrors  bool
	}

	// Config wires a Runner.
	Config struct {
		Service   convert.Service
		Discovery *discovery.Discovery
		// Out receives the dump listing; nil discards it.
		Out io.Writer
		// Styles renders the dump; nil renders plain text.
		Styles *Styles
		Logger *slog.Logger
	}

	// Runner executes pipeline runs. One Runner may serve many sequential
	// runs, which lets a cached Discovery skip unchanged files.
	Runner struct {
		service   convert.Service
		discovery *discovery.Discovery
		out       io.Writer
		styles    *Styles
		logger    *slog.Logger
	}

	// Summary describes what a run found and did.
	Summary struct {
		ProjectPath string
		ScanRoot    string
		Partitions  classify.Partitions
		Diagnostics []discovery.Diagnostic
		// References is the validated reference list including the core
		// reference. It is empty when validation failed.
		References []string
		Report     convert.Report
	}
)

// New creates a Runner.
func New(cfg Config) (*Runner, error) {
	if cfg.Service == nil {
		return nil, ErrNoService
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	disc := cfg.Discovery
	if disc == nil {
		disc = discovery.New(nil, logger)
	}
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	styles := cfg.Styles
	if styles == nil {
		styles = PlainStyles()
	}
	return &Runner{
		service:   cfg.Service,
		discovery: disc,
		out:       out,
		styles:    styles,
		logger:    logger,
	}, nil
}

// Run performs one pass. A reference failure aborts before anything is
// dispatched. When the run completes with failures the summary is returned
// together with an error wrapping ErrIncomplete.
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.ProjectPath == "" {
		return nil, ErrNoProject
	}
	markers := opts.Markers
	if markers == (classify.Markers{}) {
		markers = classify.DefaultMarkers()
	}
	if err := markers.Validate(); err != nil {
		return nil, err
	}
	writer, err := output.New(output.Config{
		SourceExt:  opts.SourceExt,
		TargetExt:  opts.TargetExt,
		MetaSuffix: opts.MetaSuffix,
		Logger:     r.logger,
	})
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		ProjectPath: opts.ProjectPath,
		ScanRoot:    filepath.Join(opts.ProjectPath, opts.ScanDir),
	}

	found, err := r.discovery.Discover(ctx, discovery.Options{
		Root:      summary.ScanRoot,
		Extension: opts.SourceExt,
		Ignore:    opts.Ignore,
	})
	if err != nil {
		return nil, err
	}
	summary.Diagnostics = found.Diagnostics
	for _, diag := range found.Diagnostics {
		r.logger.Warn(diag.Message, "code", diag.Code, "path", diag.Path)
	}

	summary.Partitions = classify.Partition(found.Files, markers, func(f discovery.SourceFile) string {
		return fspath.RelSlash(opts.ProjectPath, f.Path)
	})
	r.logger.Info("classified scripts",
		"runtime", len(summary.Partitions.Runtime),
		"editor", len(summary.Partitions.Editor),
		"plugin", len(summary.Partitions.Plugin))

	if opts.Dump {
		if err := r.styles.Dump(r.out, summary.Partitions, opts.ProjectPath); err != nil {
			return summary, fmt.Errorf("write dump: %w", err)
		}
	}

	refs, err := reference.Validate(opts.References, opts.CoreReference)
	if err != nil {
		return summary, err
	}
	summary.References = refs

	orch, err := convert.NewOrchestrator(convert.OrchestratorConfig{
		Service:      r.service,
		Handler:      writer,
		IgnoreErrors: opts.IgnoreErrors,
		Logger:       r.logger,
	})
	if err != nil {
		return summary, err
	}
	summary.Report = orch.Run(ctx, summary.Partitions, opts.Defines, refs)

	if summary.Report.Failed() {
		return summary, fmt.Errorf("%w: %w", ErrIncomplete, summary.Report.Err())
	}
	return summary, nil
}

// Converted returns the number of scripts persisted by the run.
func (s *Summary) Converted() int { return s.Report.Converted() }
