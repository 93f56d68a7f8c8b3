// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/scriptport/scriptport/internal/config"
	"github.com/scriptport/scriptport/internal/discovery"
	"github.com/scriptport/scriptport/internal/issue"
	"github.com/scriptport/scriptport/internal/pipeline"
	"github.com/scriptport/scriptport/internal/watch"
)

// errNoProjectPath is returned when neither --project-path nor a positional
// argument names the project.
var errNoProjectPath = errors.New("a project path is required (use --project-path or pass it as an argument)")

// runConvert is the root command: load configuration, run the pipeline
// once, and keep re-running it in watch mode.
func runConvert(cmd *cobra.Command, app *App, flags *rootFlags, args []string) error {
	projectPath, err := resolveProjectPath(flags.projectPath, args)
	if err != nil {
		return app.fail(cmd, err, flags.verbose, config.ColorSchemeAuto)
	}

	ctx := cmd.Context()
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return app.fail(cmd, err, flags.verbose, config.ColorSchemeAuto)
	}
	verbose := flags.verbose || cfg.UI.Verbose
	logger := newLogger(app.stderr, verbose)

	svc, err := app.NewService(cfg.Converter, app.stderr, logger)
	if err != nil {
		return app.fail(cmd, err, verbose, cfg.UI.ColorScheme)
	}

	var cache *discovery.ContentCache
	if flags.watch && cfg.Discovery.CacheSize > 0 {
		if cache, err = discovery.NewContentCache(cfg.Discovery.CacheSize); err != nil {
			return app.fail(cmd, err, verbose, cfg.UI.ColorScheme)
		}
	}

	runner, err := pipeline.New(pipeline.Config{
		Service:   svc,
		Discovery: discovery.New(cache, logger),
		Out:       app.stdout,
		Styles:    dumpStyles(),
		Logger:    logger,
	})
	if err != nil {
		return app.fail(cmd, err, verbose, cfg.UI.ColorScheme)
	}

	opts := pipelineOptions(cfg, flags, projectPath)
	if flags.watch {
		return runWatchMode(ctx, cmd, app, runner, opts, cfg, verbose)
	}

	summary, runErr := runner.Run(ctx, opts)
	renderSummary(app.stdout, summary)
	if runErr != nil {
		return app.fail(cmd, describeRunError(runErr), verbose, cfg.UI.ColorScheme)
	}
	return nil
}

// resolveProjectPath accepts the project either as --project-path or as
// the single positional argument, and checks that it is a directory.
func resolveProjectPath(flagValue string, args []string) (string, error) {
	path := flagValue
	if len(args) == 1 {
		if path != "" && path != args[0] {
			return "", usageError(fmt.Errorf("project path given twice: %q and %q", path, args[0]))
		}
		path = args[0]
	}
	if path == "" {
		return "", usageError(errNoProjectPath)
	}

	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		err = fmt.Errorf("%s is not a directory", path)
	}
	if err != nil {
		return "", usageError(issue.NewErrorContext().
			WithOperation("open project").
			WithResource(path).
			WithSuggestion("Pass the directory that contains the project's Assets folder").
			WithIssue(issue.ProjectNotFoundId).
			Wrap(err).
			Build())
	}
	return filepath.Clean(path), nil
}

// pipelineOptions merges configuration with flags. List flags extend the
// configured lists; boolean flags can only switch behavior on.
func pipelineOptions(cfg *config.Config, flags *rootFlags, projectPath string) pipeline.Options {
	return pipeline.Options{
		ProjectPath:   projectPath,
		ScanDir:       cfg.Project.ScanDir,
		SourceExt:     cfg.Project.SourceExt,
		TargetExt:     cfg.Project.TargetExt,
		MetaSuffix:    cfg.Project.MetaSuffix,
		Markers:       cfg.Classify.Markers(),
		Ignore:        cfg.Discovery.Ignore,
		Dump:          flags.dump,
		References:    slices.Concat(cfg.Converter.References, flags.references),
		CoreReference: cfg.Converter.CoreReference,
		Defines:       slices.Concat(cfg.Converter.Defines, flags.defines),
		IgnoreErrors:  flags.ignoreErrors || cfg.Converter.IgnoreErrors,
	}
}

// runWatchMode runs the pipeline once and then again after every batch of
// script or sidecar changes until the context is cancelled.
func runWatchMode(ctx context.Context, cmd *cobra.Command, app *App, runner *pipeline.Runner, opts pipeline.Options, cfg *config.Config, verbose bool) error {
	runOnce := func(ctx context.Context) {
		summary, err := runner.Run(ctx, opts)
		renderSummary(app.stdout, summary)
		if err != nil {
			app.renderError(describeRunError(err), verbose, cfg.UI.ColorScheme)
		}
	}

	fmt.Fprintf(app.stdout, "%s Watch mode: initial conversion of %s\n", CmdStyle.Render("→"), opts.ProjectPath)
	runOnce(ctx)

	w, err := watch.New(watch.Config{
		Root:     filepath.Join(opts.ProjectPath, opts.ScanDir),
		Patterns: watch.ScriptPatterns(opts.SourceExt, opts.MetaSuffix),
		Ignore:   opts.Ignore,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(app.stdout, "\n%s Detected %d change(s), converting again\n", CmdStyle.Render("→"), len(changed))
			runOnce(ctx)
			fmt.Fprintf(app.stdout, "\n%s Watching for changes...\n", CmdStyle.Render("→"))
			return nil
		},
		Logger: newLogger(app.stderr, verbose),
	})
	if err != nil {
		return app.fail(cmd, err, verbose, cfg.UI.ColorScheme)
	}

	fmt.Fprintf(app.stdout, "\n%s Watching for changes (Ctrl+C to stop)...\n", CmdStyle.Render("→"))
	if err := w.Run(ctx); err != nil {
		return app.fail(cmd, err, verbose, cfg.UI.ColorScheme)
	}
	return nil
}
