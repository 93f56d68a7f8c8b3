// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/scriptport/scriptport/internal/issue"
)

// isolatedOptions points every lookup at empty temporary directories.
func isolatedOptions(t *testing.T) LoadOptions {
	t.Helper()
	return LoadOptions{ConfigDirPath: t.TempDir(), WorkDir: t.TempDir()}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), isolatedOptions(t))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
	want := DefaultConfig()
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_ConfigDirFile(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	path := filepath.Join(opts.ConfigDirPath, "config.cue")
	writeFile(t, path, `
project: scan_dir: "Game"
converter: {
	command: "us2cs --stdio"
	defines: ["UNITY_5", "DEBUG"]
	references: ["/opt/unity/UnityEngine.dll"]
}
discovery: cache_size: 16
ui: verbose: true
`)
	// A local file must be ignored when the config dir has one.
	writeFile(t, filepath.Join(opts.WorkDir, LocalConfigFileName), `project: scan_dir: "Local"`)

	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
	if cfg.Project.ScanDir != "Game" {
		t.Errorf("ScanDir = %q, want Game", cfg.Project.ScanDir)
	}
	if cfg.Project.SourceExt != DefaultSourceExt {
		t.Errorf("SourceExt = %q, want default", cfg.Project.SourceExt)
	}
	if cfg.Converter.Command != "us2cs --stdio" {
		t.Errorf("Command = %q", cfg.Converter.Command)
	}
	if !slices.Equal(cfg.Converter.Defines, []string{"UNITY_5", "DEBUG"}) {
		t.Errorf("Defines = %q", cfg.Converter.Defines)
	}
	if cfg.Discovery.CacheSize != 16 || !cfg.UI.Verbose {
		t.Errorf("cache_size = %d, verbose = %v", cfg.Discovery.CacheSize, cfg.UI.Verbose)
	}
}

func TestLoad_LocalFileFallback(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	local := filepath.Join(opts.WorkDir, LocalConfigFileName)
	writeFile(t, local, `classify: editor_marker: "EditorOnly"`)

	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Source != local || cfg.Classify.EditorMarker != "EditorOnly" {
		t.Errorf("Source = %q, EditorMarker = %q", cfg.Source, cfg.Classify.EditorMarker)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	explicit := filepath.Join(t.TempDir(), "custom.cue")
	writeFile(t, explicit, `converter: ignore_errors: true`)
	opts.ConfigFilePath = explicit

	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Converter.IgnoreErrors {
		t.Error("IgnoreErrors should be loaded from the explicit file")
	}

	opts.ConfigFilePath = filepath.Join(t.TempDir(), "missing.cue")
	_, err = NewProvider().Load(context.Background(), opts)
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Issue != issue.ConfigLoadFailedId {
		t.Fatalf("Load() error = %v, want ActionableError linked to ConfigLoadFailedId", err)
	}
	if ae.Resource != opts.ConfigFilePath {
		t.Errorf("Resource = %q, want %q", ae.Resource, opts.ConfigFilePath)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"unknown color scheme", `ui: color_scheme: "neon"`, "ui.color_scheme"},
		{"unknown field", `project: bogus: 1`, "bogus"},
		{"extension without dot", `project: source_ext: "js"`, "project.source_ext"},
		{"marker with separator", `classify: plugin_marker: "Assets/Plugins"`, "classify.plugin_marker"},
		{"negative cache", `discovery: cache_size: -1`, "discovery.cache_size"},
		{"wrong type", `converter: references: "UnityEngine.dll"`, "converter.references"},
		{"syntax error", `project: {`, "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := isolatedOptions(t)
			writeFile(t, filepath.Join(opts.ConfigDirPath, "config.cue"), tt.content)

			_, err := NewProvider().Load(context.Background(), opts)
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
			if issue.IssueOf(err) == nil {
				t.Error("error should link to the config issue")
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCRIPTPORT_CONVERTER_COMMAND", "env-converter")
	t.Setenv("SCRIPTPORT_CONVERTER_DEFINES", "A,B")
	t.Setenv("SCRIPTPORT_DISCOVERY_CACHE_SIZE", "7")
	t.Setenv("SCRIPTPORT_UI_VERBOSE", "true")

	opts := isolatedOptions(t)
	writeFile(t, filepath.Join(opts.ConfigDirPath, "config.cue"), `converter: command: "file-converter"`)

	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Converter.Command != "env-converter" {
		t.Errorf("Command = %q, want the environment value", cfg.Converter.Command)
	}
	if !slices.Equal(cfg.Converter.Defines, []string{"A", "B"}) {
		t.Errorf("Defines = %q, want [A B]", cfg.Converter.Defines)
	}
	if cfg.Discovery.CacheSize != 7 || !cfg.UI.Verbose {
		t.Errorf("cache_size = %d, verbose = %v", cfg.Discovery.CacheSize, cfg.UI.Verbose)
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	t.Setenv("SCRIPTPORT_UI_COLOR_SCHEME", "neon")

	_, err := NewProvider().Load(context.Background(), isolatedOptions(t))
	if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, ErrInvalidColorScheme) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig wrapping ErrInvalidColorScheme", err)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, isolatedOptions(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Converter.Command = `us2cs --mode "strict"`
	cfg.Converter.References = []string{`C:\Unity\UnityEngine.dll`}
	cfg.Discovery.Ignore = []string{"**/Generated/**"}
	cfg.UI.ColorScheme = ColorSchemeDark

	opts := isolatedOptions(t)
	opts.ConfigFilePath = filepath.Join(t.TempDir(), "generated.cue")
	writeFile(t, opts.ConfigFilePath, GenerateCUE(cfg))

	loaded, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("generated CUE does not load: %v\n%s", err, GenerateCUE(cfg))
	}
	loaded.Source = ""
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", loaded, cfg)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.cue")
	created, err := CreateDefaultConfig(path)
	if err != nil || !created {
		t.Fatalf("CreateDefaultConfig() = %v, %v; want true, nil", created, err)
	}

	writeFile(t, path, "// edited\n")
	created, err = CreateDefaultConfig(path)
	if err != nil || created {
		t.Fatalf("second CreateDefaultConfig() = %v, %v; want false, nil", created, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "// edited\n" {
		t.Error("existing config file was overwritten")
	}
}

func TestConfigDir_Override(t *testing.T) {
	SetConfigDirOverride("/tmp/scriptport-test")
	t.Cleanup(Reset)

	dir, err := ConfigDir()
	if err != nil || dir != "/tmp/scriptport-test" {
		t.Errorf("ConfigDir() = %q, %v", dir, err)
	}
	path, err := ConfigFilePath()
	if err != nil || path != filepath.Join("/tmp/scriptport-test", "config.cue") {
		t.Errorf("ConfigFilePath() = %q, %v", path, err)
	}
}

func TestFormatCUEPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"ui"}, "ui"},
		{[]string{"ui", "color_scheme"}, "ui.color_scheme"},
		{[]string{"converter", "references", "0"}, "converter.references[0]"},
		{[]string{"0"}, "0"},
	}
	for _, tt := range tests {
		if got := formatCUEPath(tt.path); got != tt.want {
			t.Errorf("formatCUEPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
