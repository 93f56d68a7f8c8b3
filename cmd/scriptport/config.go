// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scriptport/scriptport/internal/config"
)

// newConfigCommand creates the `scriptport config` command tree.
// Subcommands that read configuration use the App's config Provider.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage scriptport configuration",
		Long: `Manage scriptport configuration.

Configuration is read from the first file found of:
  - the --config flag
  - Linux: ~/.config/scriptport/config.cue
  - macOS: ~/Library/Application Support/scriptport/config.cue
  - Windows: %AppData%\scriptport\config.cue
  - ./scriptport.cue

Every key can be overridden with a SCRIPTPORT_<SECTION>_<KEY> environment
variable, e.g. SCRIPTPORT_CONVERTER_COMMAND.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), app, flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose, config.ColorSchemeAuto)
			}
			showConfig(app.stdout, cfg)
			return nil
		},
	})

	var local bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(app.stdout, local); err != nil {
				return app.fail(cmd, err, flags.verbose, config.ColorSchemeAuto)
			}
			return nil
		},
	}
	initCmd.Flags().BoolVar(&local, "local", false, "write ./"+config.LocalConfigFileName+" instead of the user config file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := showConfigPath(app.stdout); err != nil {
				return app.fail(cmd, err, flags.verbose, config.ColorSchemeAuto)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), app, flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose, config.ColorSchemeAuto)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func loadConfig(ctx context.Context, app *App, flags *rootFlags) (*config.Config, error) {
	return app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
}

func showConfig(w io.Writer, cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	source := SubtitleStyle.Render("(using defaults)")
	if cfg.Source != "" {
		source = cfg.Source
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), source)

	section := func(name string, entries ...[2]string) {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", keyStyle.Render(name))
		for _, e := range entries {
			fmt.Fprintf(w, "  %s: %s\n", e[0], valueStyle.Render(e[1]))
		}
	}

	section("project",
		[2]string{"scan_dir", quoteEmpty(cfg.Project.ScanDir)},
		[2]string{"source_ext", string(cfg.Project.SourceExt)},
		[2]string{"target_ext", string(cfg.Project.TargetExt)},
		[2]string{"meta_suffix", cfg.Project.MetaSuffix},
	)
	section("classify",
		[2]string{"editor_marker", cfg.Classify.EditorMarker},
		[2]string{"plugin_marker", cfg.Classify.PluginMarker},
	)
	section("discovery",
		[2]string{"ignore", listOrNone(cfg.Discovery.Ignore)},
		[2]string{"cache_size", fmt.Sprint(cfg.Discovery.CacheSize)},
	)
	section("converter",
		[2]string{"command", quoteEmpty(cfg.Converter.Command)},
		[2]string{"ignore_errors", fmt.Sprint(cfg.Converter.IgnoreErrors)},
		[2]string{"core_reference", cfg.Converter.CoreReference},
		[2]string{"env_files", listOrNone(cfg.Converter.EnvFiles)},
		[2]string{"defines", listOrNone(cfg.Converter.Defines)},
		[2]string{"references", listOrNone(cfg.Converter.References)},
	)
	section("ui",
		[2]string{"verbose", fmt.Sprint(cfg.UI.Verbose)},
		[2]string{"color_scheme", cfg.UI.ColorScheme.String()},
	)
}

func initConfig(w io.Writer, local bool) error {
	path := config.LocalConfigFileName
	if !local {
		var err error
		if path, err = config.ConfigFilePath(); err != nil {
			return err
		}
	}

	created, err := config.CreateDefaultConfig(path)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		fmt.Fprintf(w, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(w, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(w io.Writer) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	cfgFile, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(w, "Config file: %s\n", cfgFile)
	fmt.Fprintf(w, "Project config file: ./%s\n", config.LocalConfigFileName)
	return nil
}

func quoteEmpty(s string) string {
	if s == "" {
		return `""`
	}
	return s
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
