// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the scriptport command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the values bound to the root command's flags.
type rootFlags struct {
	projectPath  string
	configPath   string
	verbose      bool
	dump         bool
	ignoreErrors bool
	watch        bool
	references   []string
	defines      []string
}

// newRootCommand creates the scriptport command tree.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "scriptport [project-path]",
		Short: "Port UnityScript sources of a Unity project to C#",
		Long: TitleStyle.Render("scriptport") + SubtitleStyle.Render(" - Port UnityScript sources of a Unity project to C#") + `

scriptport finds every UnityScript file below the project's Assets
directory, splits them into Runtime, Editor and Plugin scripts, hands
each group to the configured converter and writes the C# result next
to the original together with a copy of its .meta file.

Original .js and .js.meta files are never modified or deleted.

` + SubtitleStyle.Render("Examples:") + `
  scriptport ~/Projects/Game --dump
  scriptport -p ~/Projects/Game -r Library/UnityEngine.dll -d UNITY_EDITOR
  scriptport ~/Projects/Game --watch`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageError(fmt.Errorf("accepts at most one project path, received %d", len(args)))
			}
			return nil
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, app, flags, args)
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.configPath, "config", "", "config file (default is <user config dir>/scriptport/config.cue)")

	f := rootCmd.Flags()
	f.StringVarP(&flags.projectPath, "project-path", "p", "", "Unity project root")
	f.BoolVar(&flags.dump, "dump", false, "list the scripts of every category before converting")
	f.BoolVar(&flags.ignoreErrors, "ignore-errors", false, "ask the converter to tolerate per-file failures")
	f.StringSliceVarP(&flags.references, "references", "r", nil, "reference assembly passed to the converter (repeatable)")
	f.StringSliceVarP(&flags.defines, "defines", "d", nil, "preprocessor symbol passed to the converter (repeatable)")
	f.BoolVar(&flags.watch, "watch", false, "convert again whenever a script or .meta file changes")

	rootCmd.AddCommand(newConfigCommand(app, flags))
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process with the run's exit code.
// This is called by main.main().
func Execute() {
	rootCmd := newRootCommand(NewApp(Dependencies{}))
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(exitCodeFor(err)))
	}
}
