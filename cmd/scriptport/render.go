// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/scriptport/scriptport/internal/config"
	"github.com/scriptport/scriptport/internal/convert"
	"github.com/scriptport/scriptport/internal/discovery"
	"github.com/scriptport/scriptport/internal/issue"
	"github.com/scriptport/scriptport/internal/pipeline"
	"github.com/scriptport/scriptport/internal/reference"
	"github.com/scriptport/scriptport/pkg/fspath"
)

// fail renders err on stderr and returns it as an ExitError. Cobra's own
// error printing is silenced since the error was already shown.
func (a *App) fail(cmd *cobra.Command, err error, verbose bool, scheme config.ColorScheme) error {
	a.renderError(err, verbose, scheme)
	cmd.SilenceErrors = true
	return &ExitError{Code: exitCodeFor(err), Err: err}
}

// renderError prints the error message, its suggestions, and the linked
// issue catalog entry when there is one.
func (a *App) renderError(err error, verbose bool, scheme config.ColorScheme) {
	fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("✗"), formatErrorForDisplay(err, verbose))

	entry := issue.IssueOf(err)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(string(scheme))
	if renderErr != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", entry.Id(), "error", renderErr)
		return
	}
	fmt.Fprint(a.stderr, rendered)
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// include their suggestions, and the full chain in verbose mode.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// describeRunError attaches operation context and a catalog entry to the
// errors a pipeline run can end with.
func describeRunError(err error) error {
	var (
		refErr  *reference.MissingReferenceError
		rootErr *discovery.RootError
		readErr *discovery.ReadError
	)
	ctx := issue.NewErrorContext().Wrap(err)

	switch {
	case errors.As(err, &refErr):
		ctx.WithOperation("validate references").
			WithResource(refErr.Path).
			WithSuggestion("Check the --references paths and the converter.references config").
			WithIssue(issue.ReferenceNotFoundId)
	case errors.As(err, &rootErr):
		ctx.WithOperation("discover scripts").
			WithResource(rootErr.Root).
			WithSuggestion("Set project.scan_dir to \"\" to scan the whole project").
			WithIssue(issue.ScanRootNotFoundId)
	case errors.As(err, &readErr):
		ctx.WithOperation("read scripts").
			WithResource(readErr.Path).
			WithIssue(issue.PermissionDeniedId)
	case errors.Is(err, convert.ErrNoConverterCommand):
		// The service already described the problem.
		return err
	case errors.Is(err, pipeline.ErrIncomplete):
		ctx.WithOperation("convert every script").
			WithSuggestion("Re-run with --verbose to see the converter's diagnostics").
			WithIssue(issue.ConverterFailedId)
	default:
		return err
	}
	return ctx.BuildError()
}

// renderSummary prints per-category counts, every per-file failure and
// the files the converter returned nothing for.
func renderSummary(w io.Writer, summary *pipeline.Summary) {
	if summary == nil || len(summary.Report.Categories) == 0 {
		return
	}

	total := summary.Partitions.Len()
	mark := SuccessStyle.Render("✓")
	if summary.Report.Failed() {
		mark = WarningStyle.Render("!")
	}
	fmt.Fprintf(w, "\n%s Converted %d of %d scripts\n", mark, summary.Converted(), total)

	for _, cr := range summary.Report.Categories {
		fmt.Fprintf(w, "  %s %d/%d\n", TitleStyle.Render(cr.Category.String()+":"), len(cr.Converted), cr.Files)
		if cr.Err != nil {
			fmt.Fprintf(w, "    %s %s\n", ErrorStyle.Render("✗"), cr.Err)
		}
		for _, fe := range cr.FileErrors {
			fmt.Fprintf(w, "    %s %s: %s\n", ErrorStyle.Render("✗"),
				CmdStyle.Render(fspath.RelSlash(summary.ProjectPath, fe.Path)), fe.Cause)
		}
		for _, path := range cr.Skipped() {
			fmt.Fprintf(w, "    %s %s\n", VerboseStyle.Render("not converted:"),
				fspath.RelSlash(summary.ProjectPath, path))
		}
	}
}
