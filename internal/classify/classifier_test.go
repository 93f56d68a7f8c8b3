// SPDX-License-Identifier: MPL-2.0

package classify

import (
	"errors"
	"testing"

	"github.com/scriptport/scriptport/internal/discovery"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	m := DefaultMarkers()
	tests := []struct {
		path string
		want Category
	}{
		{"Assets/Scripts/Player.js", Runtime},
		{"Assets/Editor/Inspector.js", Editor},
		{`Assets\Editor\Inspector.js`, Editor},
		{"Assets/Plugins/Vendor/Lib.js", Plugin},
		{"Assets/Plugins/Editor/LibInspector.js", Editor},
		{"Assets/Editor/Plugins/Odd.js", Editor},
		{"Assets/MyEditorStuff/Thing.js", Runtime},
		{"Assets/PluginsExtra/Thing.js", Runtime},
		{"Assets/Scripts/Editor.js", Runtime},
		{"Assets/Scripts/Plugins.js", Runtime},
		{"Editor/Root.js", Editor},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.path, m); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestClassify_CustomMarkers(t *testing.T) {
	t.Parallel()

	m := Markers{Editor: "Tools", Plugin: "ThirdParty"}
	if got := Classify("Assets/Tools/X.js", m); got != Editor {
		t.Errorf("Classify() = %v, want Editor", got)
	}
	if got := Classify("Assets/Editor/X.js", m); got != Runtime {
		t.Errorf("Classify() = %v, want Runtime", got)
	}
	if got := Classify("Assets/ThirdParty/X.js", m); got != Plugin {
		t.Errorf("Classify() = %v, want Plugin", got)
	}
}

func TestPartition_TotalAndDisjoint(t *testing.T) {
	t.Parallel()

	files := []discovery.SourceFile{
		{Path: "Assets/A.js"},
		{Path: "Assets/Editor/B.js"},
		{Path: "Assets/Plugins/C.js"},
		{Path: "Assets/Plugins/Editor/D.js"},
		{Path: "Assets/Sub/E.js"},
	}

	p := Partition(files, DefaultMarkers(), nil)

	if p.Len() != len(files) {
		t.Fatalf("Partition() covers %d files, want %d", p.Len(), len(files))
	}
	seen := map[string]Category{}
	for _, c := range Categories() {
		for _, f := range p.Files(c) {
			if prev, dup := seen[f.Path]; dup {
				t.Errorf("%s assigned to both %v and %v", f.Path, prev, c)
			}
			seen[f.Path] = c
		}
	}
	for _, f := range files {
		if _, ok := seen[f.Path]; !ok {
			t.Errorf("%s missing from every category", f.Path)
		}
	}
	if len(p.Runtime) != 2 || len(p.Editor) != 2 || len(p.Plugin) != 1 {
		t.Errorf("Partition() sizes = %d/%d/%d, want 2/2/1", len(p.Runtime), len(p.Editor), len(p.Plugin))
	}
}

func TestPartition_KeyFunc(t *testing.T) {
	t.Parallel()

	// The project itself lives below a directory named Editor; only the
	// project-relative key must be classified.
	files := []discovery.SourceFile{{Path: "/home/me/Editor/Game/Assets/A.js"}}
	p := Partition(files, DefaultMarkers(), func(f discovery.SourceFile) string { return "Assets/A.js" })
	if len(p.Runtime) != 1 {
		t.Errorf("Partition() with key func = %+v, want one Runtime file", p)
	}
}

func TestMarkersValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		m       Markers
		wantErr bool
	}{
		{name: "defaults", m: DefaultMarkers()},
		{name: "empty editor", m: Markers{Plugin: "Plugins"}, wantErr: true},
		{name: "nested plugin", m: Markers{Editor: "Editor", Plugin: "a/b"}, wantErr: true},
		{name: "dot", m: Markers{Editor: ".", Plugin: "Plugins"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.m.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidMarkers) {
				t.Errorf("error does not wrap ErrInvalidMarkers: %v", err)
			}
		})
	}
}

func TestCategory(t *testing.T) {
	t.Parallel()

	want := []string{"Runtime", "Editor", "Plugin"}
	for i, c := range Categories() {
		if c.String() != want[i] {
			t.Errorf("Categories()[%d] = %v, want %s", i, c, want[i])
		}
		if err := c.Validate(); err != nil {
			t.Errorf("%v.Validate() error: %v", c, err)
		}
	}
	if err := Category(7).Validate(); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("Category(7).Validate() = %v, want ErrInvalidCategory", err)
	}
	if Plugin.Slug() != "plugins" {
		t.Errorf("Plugin.Slug() = %q", Plugin.Slug())
	}
}
