// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/scriptport/scriptport/internal/config"
	"github.com/scriptport/scriptport/internal/convert"
	"github.com/scriptport/scriptport/internal/issue"
)

type (
	// ServiceFactory builds the conversion service from the converter
	// configuration. Tests replace it with an in-process fake.
	ServiceFactory func(cfg config.ConverterConfig, stderr io.Writer, logger *slog.Logger) (convert.Service, error)

	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference.
	App struct {
		Config     config.Provider
		NewService ServiceFactory
		stdout     io.Writer
		stderr     io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config     config.Provider
		NewService ServiceFactory
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// unconfiguredService stands in for the converter when no command is
	// configured, so discovery, dump and reference validation still run.
	unconfiguredService struct{}
)

// NewApp creates an App, filling unset dependencies with defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		NewService: deps.NewService,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.NewService == nil {
		app.NewService = newProcessService
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// newProcessService runs the configured converter command.
func newProcessService(cfg config.ConverterConfig, stderr io.Writer, logger *slog.Logger) (convert.Service, error) {
	svc, err := convert.NewProcessService(convert.ProcessConfig{
		Command:  cfg.Command,
		EnvFiles: cfg.EnvFiles,
		Stderr:   stderr,
		Logger:   logger,
	})
	if errors.Is(err, convert.ErrNoConverterCommand) {
		return unconfiguredService{}, nil
	}
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("start converter").
			WithResource(cfg.Command).
			WithSuggestion("Check converter.command for shell syntax errors").
			WithSuggestion("Check that every converter.env_files entry exists").
			WithIssue(issue.ConverterNotConfiguredId).
			Wrap(err).
			BuildError()
	}
	return svc, nil
}

// Convert fails every category with an actionable error.
func (unconfiguredService) Convert(context.Context, convert.Request, func(convert.Result)) error {
	return issue.NewErrorContext().
		WithOperation("convert scripts").
		WithSuggestion("Set converter.command in " + config.LocalConfigFileName + " or your user config").
		WithSuggestion("Or export " + config.EnvPrefix + "_CONVERTER_COMMAND").
		WithIssue(issue.ConverterNotConfiguredId).
		Wrap(convert.ErrNoConverterCommand).
		BuildError()
}
