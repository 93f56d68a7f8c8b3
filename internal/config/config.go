// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/scriptport/scriptport/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "scriptport"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFileName is looked up in the working directory when the
	// config directory has no config file.
	LocalConfigFileName = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment overrides, e.g. SCRIPTPORT_CONVERTER_COMMAND.
	EnvPrefix = "SCRIPTPORT"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the scriptport configuration directory below the
// platform's user config directory.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// ConfigFilePath returns the path of the config file in the config directory.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := resolveConfigFile(opts)
	if err != nil {
		return nil, err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'scriptport config dump' to see every supported key").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = resolvedPath

	// Environment overrides bypass the CUE schema, so the decoded values are
	// checked again.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables for typos").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, nil
}

// resolveConfigFile returns the config file to load, or "" when only
// defaults apply. An explicit path must exist.
func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'scriptport config init' to write a default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(cuePath) {
		return cuePath, nil
	}

	localPath := LocalConfigFileName
	if opts.WorkDir != "" {
		localPath = filepath.Join(opts.WorkDir, LocalConfigFileName)
	}
	if fileExists(localPath) {
		return localPath, nil
	}
	return "", nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("project.scan_dir", d.Project.ScanDir)
	v.SetDefault("project.source_ext", d.Project.SourceExt.String())
	v.SetDefault("project.target_ext", d.Project.TargetExt.String())
	v.SetDefault("project.meta_suffix", d.Project.MetaSuffix)
	v.SetDefault("classify.editor_marker", d.Classify.EditorMarker)
	v.SetDefault("classify.plugin_marker", d.Classify.PluginMarker)
	v.SetDefault("discovery.ignore", d.Discovery.Ignore)
	v.SetDefault("discovery.cache_size", d.Discovery.CacheSize)
	v.SetDefault("converter.command", d.Converter.Command)
	v.SetDefault("converter.ignore_errors", d.Converter.IgnoreErrors)
	v.SetDefault("converter.core_reference", d.Converter.CoreReference)
	v.SetDefault("converter.env_files", d.Converter.EnvFiles)
	v.SetDefault("converter.defines", d.Converter.Defines)
	v.SetDefault("converter.references", d.Converter.References)
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("ui.color_scheme", d.UI.ColorScheme.String())
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to path unless a
// file already exists there. It reports whether a file was written.
func CreateDefaultConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// scriptport configuration file\n")
	sb.WriteString("// Every key may be omitted; run 'scriptport config show' for the effective values.\n\n")

	sb.WriteString("project: {\n")
	fmt.Fprintf(&sb, "\tscan_dir:    %q\n", cfg.Project.ScanDir)
	fmt.Fprintf(&sb, "\tsource_ext:  %q\n", cfg.Project.SourceExt)
	fmt.Fprintf(&sb, "\ttarget_ext:  %q\n", cfg.Project.TargetExt)
	fmt.Fprintf(&sb, "\tmeta_suffix: %q\n", cfg.Project.MetaSuffix)
	sb.WriteString("}\n")

	sb.WriteString("\nclassify: {\n")
	fmt.Fprintf(&sb, "\teditor_marker: %q\n", cfg.Classify.EditorMarker)
	fmt.Fprintf(&sb, "\tplugin_marker: %q\n", cfg.Classify.PluginMarker)
	sb.WriteString("}\n")

	sb.WriteString("\ndiscovery: {\n")
	fmt.Fprintf(&sb, "\tignore:     %s\n", cueList(cfg.Discovery.Ignore))
	fmt.Fprintf(&sb, "\tcache_size: %d\n", cfg.Discovery.CacheSize)
	sb.WriteString("}\n")

	sb.WriteString("\nconverter: {\n")
	fmt.Fprintf(&sb, "\tcommand:        %q\n", cfg.Converter.Command)
	fmt.Fprintf(&sb, "\tignore_errors:  %v\n", cfg.Converter.IgnoreErrors)
	fmt.Fprintf(&sb, "\tcore_reference: %q\n", cfg.Converter.CoreReference)
	fmt.Fprintf(&sb, "\tenv_files:      %s\n", cueList(cfg.Converter.EnvFiles))
	fmt.Fprintf(&sb, "\tdefines:        %s\n", cueList(cfg.Converter.Defines))
	fmt.Fprintf(&sb, "\treferences:     %s\n", cueList(cfg.Converter.References))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}

func cueList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
