// SPDX-License-Identifier: MPL-2.0

package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/scriptport/scriptport/internal/classify"
	"github.com/scriptport/scriptport/internal/discovery"
)

// ErrInvalidOrchestratorConfig is returned by NewOrchestrator when the
// service or handler is missing.
var ErrInvalidOrchestratorConfig = errors.New("invalid orchestrator config")

type (
	// OrchestratorConfig wires an Orchestrator.
	OrchestratorConfig struct {
		Service Service
		Handler Handler
		// IgnoreErrors is passed through to the service on every request.
		IgnoreErrors bool
		Logger       *slog.Logger
	}

	// Orchestrator dispatches categories to a Service sequentially.
	Orchestrator struct {
		service      Service
		handler      Handler
		ignoreErrors bool
		logger       *slog.Logger
	}

	// CategoryReport describes the outcome of dispatching one category.
	CategoryReport struct {
		Category classify.Category
		// Files is the number of files in the request.
		Files int
		// Converted lists files whose result was persisted.
		Converted []string
		// Unconverted lists files the service never reported or whose
		// result could not be persisted.
		Unconverted []string
		// FileErrors holds per-file failures in arrival order.
		FileErrors []*FileError
		// Err is the service's failure for the whole category, if any.
		Err error
		// IgnoreErrors is set when the request asked the service to tolerate
		// per-file failures. Files the service skipped then do not fail
		// the category.
		IgnoreErrors bool
	}

	// Report collects the category reports in dispatch order. Empty
	// categories are not dispatched and have no report.
	Report struct {
		Categories []CategoryReport
	}

	// dispatch tracks the results of one Convert call. Its mutex serializes
	// callback invocations so the service may call back concurrently.
	dispatch struct {
		mu      sync.Mutex
		pending map[string]bool
		closed  bool
		report  *CategoryReport
		handler Handler
		logger  *slog.Logger
	}
)

// NewOrchestrator validates cfg and creates an Orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) (*Orchestrator, error) {
	if cfg.Service == nil || cfg.Handler == nil {
		return nil, ErrInvalidOrchestratorConfig
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		service:      cfg.Service,
		handler:      cfg.Handler,
		ignoreErrors: cfg.IgnoreErrors,
		logger:       logger,
	}, nil
}

// Run dispatches every non-empty category of p in Runtime, Editor, Plugin
// order. A failure in one category is recorded in its report and the next
// category is still attempted.
func (o *Orchestrator) Run(ctx context.Context, p classify.Partitions, defines, references []string) Report {
	var report Report
	normalized := NormalizeDefines(defines)

	for _, category := range classify.Categories() {
		files := p.Files(category)
		if len(files) == 0 {
			o.logger.Debug("no scripts to convert", "category", category.Slug())
			continue
		}

		if err := ctx.Err(); err != nil {
			report.Categories = append(report.Categories, CategoryReport{
				Category:     category,
				Files:        len(files),
				Unconverted:  paths(files),
				Err:          err,
				IgnoreErrors: o.ignoreErrors,
			})
			continue
		}

		req := Request{
			Category:     category,
			Files:        slices.Clone(files),
			Defines:      slices.Clone(normalized),
			References:   slices.Clone(references),
			IgnoreErrors: o.ignoreErrors,
		}
		report.Categories = append(report.Categories, o.dispatch(ctx, req))
	}

	return report
}

// dispatch sends one request and collects its results.
func (o *Orchestrator) dispatch(ctx context.Context, req Request) CategoryReport {
	o.logger.Info("converting scripts", "category", req.Category.Slug(), "files", len(req.Files))

	cr := &CategoryReport{Category: req.Category, Files: len(req.Files), IgnoreErrors: req.IgnoreErrors}
	d := &dispatch{
		pending: make(map[string]bool, len(req.Files)),
		report:  cr,
		handler: o.handler,
		logger:  o.logger,
	}
	for _, f := range req.Files {
		d.pending[f.Path] = true
	}

	err := o.service.Convert(ctx, req, d.accept)

	d.mu.Lock()
	d.closed = true
	for path, waiting := range d.pending {
		if waiting {
			cr.Unconverted = append(cr.Unconverted, path)
		}
	}
	d.mu.Unlock()
	sort.Strings(cr.Unconverted)

	if err != nil {
		cr.Err = &ServiceError{Category: req.Category, Cause: err}
		o.logger.Error("conversion service failed", "category", req.Category.Slug(), "error", err)
	}
	o.logger.Debug("category finished",
		"category", req.Category.Slug(),
		"converted", len(cr.Converted),
		"unconverted", len(cr.Unconverted),
		"file_errors", len(cr.FileErrors))

	return *cr
}

// accept is the callback handed to the service.
func (d *dispatch) accept(res Result) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.Warn("dropping conversion result", "path", res.OriginalPath, "error", ErrLateResult)
		return
	}

	waiting, known := d.pending[res.OriginalPath]
	switch {
	case !known:
		d.reject(res.OriginalPath, ErrUnknownResult)
		return
	case !waiting:
		d.reject(res.OriginalPath, ErrDuplicateResult)
		return
	}
	d.pending[res.OriginalPath] = false

	if err := d.handler.Write(res); err != nil {
		d.report.Unconverted = append(d.report.Unconverted, res.OriginalPath)
		d.reject(res.OriginalPath, err)
		return
	}
	d.report.Converted = append(d.report.Converted, res.OriginalPath)
	d.logger.Debug("converted script", "path", res.OriginalPath)
}

// reject records a per-file failure. Callers hold d.mu.
func (d *dispatch) reject(path string, cause error) {
	d.report.FileErrors = append(d.report.FileErrors, &FileError{Path: path, Cause: cause})
	d.logger.Error("script not persisted", "path", path, "error", cause)
}

// Failed reports whether the category had a service or per-file failure.
func (r CategoryReport) Failed() bool {
	return r.Err != nil || len(r.FileErrors) > 0 || (!r.IgnoreErrors && len(r.Skipped()) > 0)
}

// Skipped lists the unconverted files that have no FileError: the service
// never delivered a result for them.
func (r CategoryReport) Skipped() []string {
	var skipped []string
	for _, path := range r.Unconverted {
		if !slices.ContainsFunc(r.FileErrors, func(fe *FileError) bool { return fe.Path == path }) {
			skipped = append(skipped, path)
		}
	}
	return skipped
}

// Failed reports whether any dispatched category failed.
func (r Report) Failed() bool {
	for _, c := range r.Categories {
		if c.Failed() {
			return true
		}
	}
	return false
}

// Converted returns the total number of persisted results.
func (r Report) Converted() int {
	n := 0
	for _, c := range r.Categories {
		n += len(c.Converted)
	}
	return n
}

// Err joins every failure in the report, or returns nil.
func (r Report) Err() error {
	var errs []error
	for _, c := range r.Categories {
		if c.Err != nil {
			errs = append(errs, c.Err)
		}
		for _, fe := range c.FileErrors {
			errs = append(errs, fe)
		}
		if skipped := c.Skipped(); c.Err == nil && !c.IgnoreErrors && len(skipped) > 0 {
			errs = append(errs, fmt.Errorf("%w: %d %s script(s)", ErrNotConverted, len(skipped), c.Category.Slug()))
		}
	}
	return errors.Join(errs...)
}

// NormalizeDefines trims, de-duplicates and sorts preprocessor symbols.
// Defines are a set; order carries no meaning.
func NormalizeDefines(defines []string) []string {
	set := make(map[string]struct{}, len(defines))
	for _, d := range defines {
		d = strings.TrimSpace(d)
		if d != "" {
			set[d] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func paths(files []discovery.SourceFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
