// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/scriptport/scriptport/internal/classify"
	"github.com/scriptport/scriptport/internal/output"
	"github.com/scriptport/scriptport/internal/reference"
	"github.com/scriptport/scriptport/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultScanDir is where Unity keeps project assets.
	DefaultScanDir = "Assets"
	// DefaultSourceExt is the UnityScript extension.
	DefaultSourceExt types.FileExtension = ".js"
	// DefaultTargetExt is the C# extension.
	DefaultTargetExt types.FileExtension = ".cs"
	// DefaultCacheSize bounds the watch-mode content cache.
	DefaultCacheSize = 4096
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidProjectConfig is the sentinel error wrapped by InvalidProjectConfigError.
	ErrInvalidProjectConfig = errors.New("invalid project config")
	// ErrInvalidDiscoveryConfig is the sentinel error wrapped by InvalidDiscoveryConfigError.
	ErrInvalidDiscoveryConfig = errors.New("invalid discovery config")
	// ErrInvalidConverterConfig is the sentinel error wrapped by InvalidConverterConfigError.
	ErrInvalidConverterConfig = errors.New("invalid converter config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidProjectConfigError collects field-level errors of a ProjectConfig.
	InvalidProjectConfigError struct {
		FieldErrors []error
	}

	// InvalidDiscoveryConfigError collects field-level errors of a DiscoveryConfig.
	InvalidDiscoveryConfigError struct {
		FieldErrors []error
	}

	// InvalidConverterConfigError collects field-level errors of a ConverterConfig.
	InvalidConverterConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		Project   ProjectConfig   `json:"project" mapstructure:"project"`
		Classify  ClassifyConfig  `json:"classify" mapstructure:"classify"`
		Discovery DiscoveryConfig `json:"discovery" mapstructure:"discovery"`
		Converter ConverterConfig `json:"converter" mapstructure:"converter"`
		UI        UIConfig        `json:"ui" mapstructure:"ui"`

		// Source is the file the configuration was read from, or "" when
		// only defaults and environment overrides apply.
		Source string `json:"-" mapstructure:"-"`
	}

	// ProjectConfig describes the layout of a Unity project.
	ProjectConfig struct {
		// ScanDir is scanned below the project root; "" scans the whole project.
		ScanDir   string              `json:"scan_dir" mapstructure:"scan_dir"`
		SourceExt types.FileExtension `json:"source_ext" mapstructure:"source_ext"`
		TargetExt types.FileExtension `json:"target_ext" mapstructure:"target_ext"`
		// MetaSuffix names the sidecar of every asset.
		MetaSuffix string `json:"meta_suffix" mapstructure:"meta_suffix"`
	}

	// ClassifyConfig holds the directory names that select a category.
	ClassifyConfig struct {
		EditorMarker string `json:"editor_marker" mapstructure:"editor_marker"`
		PluginMarker string `json:"plugin_marker" mapstructure:"plugin_marker"`
	}

	// DiscoveryConfig tunes the source walk.
	DiscoveryConfig struct {
		// Ignore are doublestar globs relative to the scan root.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
		// CacheSize bounds the content cache used in watch mode; 0 disables it.
		CacheSize int `json:"cache_size" mapstructure:"cache_size"`
	}

	// ConverterConfig configures the external conversion service.
	ConverterConfig struct {
		// Command is the shell command line that starts the converter.
		Command       string   `json:"command" mapstructure:"command"`
		IgnoreErrors  bool     `json:"ignore_errors" mapstructure:"ignore_errors"`
		CoreReference string   `json:"core_reference" mapstructure:"core_reference"`
		EnvFiles      []string `json:"env_files" mapstructure:"env_files"`
		// Defines and References are merged with the command-line values.
		Defines    []string `json:"defines" mapstructure:"defines"`
		References []string `json:"references" mapstructure:"references"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// Markers returns the classification markers.
func (c ClassifyConfig) Markers() classify.Markers {
	return classify.Markers{Editor: c.EditorMarker, Plugin: c.PluginMarker}
}

// IsValid returns whether the ProjectConfig has usable extensions.
func (c ProjectConfig) IsValid() (bool, []error) {
	var errs []error
	if err := c.SourceExt.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("source_ext: %w", err))
	}
	if err := c.TargetExt.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("target_ext: %w", err))
	}
	if c.SourceExt == c.TargetExt {
		errs = append(errs, fmt.Errorf("target_ext: must differ from source_ext %q", c.SourceExt))
	}
	if err := types.FileExtension(c.MetaSuffix).Validate(); err != nil {
		errs = append(errs, fmt.Errorf("meta_suffix: %w", err))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidProjectConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidProjectConfigError.
func (e *InvalidProjectConfigError) Error() string {
	return fmt.Sprintf("invalid project config: %s", joinFieldErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidProjectConfig followed by the field errors.
func (e *InvalidProjectConfigError) Unwrap() []error {
	return append([]error{ErrInvalidProjectConfig}, e.FieldErrors...)
}

// IsValid returns whether every ignore glob parses and the cache size is
// not negative.
func (c DiscoveryConfig) IsValid() (bool, []error) {
	var errs []error
	for i, pat := range c.Ignore {
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("ignore[%d]: invalid glob %q", i, pat))
		}
	}
	if c.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache_size: must not be negative, got %d", c.CacheSize))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidDiscoveryConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDiscoveryConfigError.
func (e *InvalidDiscoveryConfigError) Error() string {
	return fmt.Sprintf("invalid discovery config: %s", joinFieldErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidDiscoveryConfig followed by the field errors.
func (e *InvalidDiscoveryConfigError) Unwrap() []error {
	return append([]error{ErrInvalidDiscoveryConfig}, e.FieldErrors...)
}

// IsValid returns whether list entries are non-blank. An empty Command is
// valid here; it is rejected only when a conversion is attempted.
func (c ConverterConfig) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.CoreReference) == "" {
		errs = append(errs, errors.New("core_reference: must not be empty"))
	}
	for name, list := range map[string][]string{
		"env_files":  c.EnvFiles,
		"references": c.References,
	} {
		for i, v := range list {
			if strings.TrimSpace(v) == "" {
				errs = append(errs, fmt.Errorf("%s[%d]: must not be empty", name, i))
			}
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConverterConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConverterConfigError.
func (e *InvalidConverterConfigError) Error() string {
	return fmt.Sprintf("invalid converter config: %s", joinFieldErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidConverterConfig followed by the field errors.
func (e *InvalidConverterConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConverterConfig}, e.FieldErrors...)
}

// IsValid returns whether the UIConfig has valid fields.
func (c UIConfig) IsValid() (bool, []error) {
	return c.ColorScheme.IsValid()
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Project.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if err := c.Classify.Markers().Validate(); err != nil {
		errs = append(errs, err)
	}
	if valid, fieldErrs := c.Discovery.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Converter.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", joinFieldErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			ScanDir:    DefaultScanDir,
			SourceExt:  DefaultSourceExt,
			TargetExt:  DefaultTargetExt,
			MetaSuffix: output.DefaultMetaSuffix,
		},
		Classify: ClassifyConfig{
			EditorMarker: classify.DefaultEditorMarker,
			PluginMarker: classify.DefaultPluginMarker,
		},
		Discovery: DiscoveryConfig{
			Ignore:    []string{},
			CacheSize: DefaultCacheSize,
		},
		Converter: ConverterConfig{
			CoreReference: reference.DefaultCoreReference,
			EnvFiles:      []string{},
			Defines:       []string{},
			References:    []string{},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// joinFieldErrors renders one error inline and more as a count.
func joinFieldErrors(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	return fmt.Sprintf("%d field errors", len(errs))
}

