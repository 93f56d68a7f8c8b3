// SPDX-License-Identifier: MPL-2.0

package classify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scriptport/scriptport/internal/discovery"
	"github.com/scriptport/scriptport/pkg/fspath"
)

const (
	// DefaultEditorMarker is Unity's special folder for editor-only scripts.
	DefaultEditorMarker = "Editor"
	// DefaultPluginMarker is Unity's special folder for plugin scripts.
	DefaultPluginMarker = "Plugins"
)

// ErrInvalidMarkers is the sentinel error wrapped by InvalidMarkersError.
var ErrInvalidMarkers = errors.New("invalid markers")

type (
	// Markers holds the directory names that select the Editor and Plugin
	// categories. Each marker is a single path segment.
	Markers struct {
		Editor string
		Plugin string
	}

	// InvalidMarkersError is returned when a marker is empty or is not a
	// single path segment.
	InvalidMarkersError struct {
		Field string
		Value string
	}

	// Partitions holds the discovered files split by category. Every
	// discovered file appears in exactly one slice.
	Partitions struct {
		Runtime []discovery.SourceFile
		Editor  []discovery.SourceFile
		Plugin  []discovery.SourceFile
	}
)

// DefaultMarkers returns the Unity folder markers.
func DefaultMarkers() Markers {
	return Markers{Editor: DefaultEditorMarker, Plugin: DefaultPluginMarker}
}

// Validate returns an error if either marker is unusable.
func (m Markers) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"editor", m.Editor},
		{"plugin", m.Plugin},
	} {
		if strings.TrimSpace(f.value) == "" || len(fspath.Segments(f.value)) != 1 || fspath.Segments(f.value)[0] != f.value {
			return &InvalidMarkersError{Field: f.name, Value: f.value}
		}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidMarkersError) Error() string {
	return fmt.Sprintf("invalid %s marker %q: must be a single directory name", e.Field, e.Value)
}

// Unwrap returns ErrInvalidMarkers for errors.Is() compatibility.
func (e *InvalidMarkersError) Unwrap() error { return ErrInvalidMarkers }

// Classify assigns exactly one category to path. The editor marker is
// checked first, so a path below both markers is an Editor script.
func Classify(path string, m Markers) Category {
	switch {
	case fspath.HasDirSegment(path, m.Editor):
		return Editor
	case fspath.HasDirSegment(path, m.Plugin):
		return Plugin
	default:
		return Runtime
	}
}

// Partition classifies every file and returns the three disjoint sets,
// each keeping the input order. keyFn selects the path that is classified;
// a nil keyFn classifies SourceFile.Path.
func Partition(files []discovery.SourceFile, m Markers, keyFn func(discovery.SourceFile) string) Partitions {
	var p Partitions
	for _, f := range files {
		key := f.Path
		if keyFn != nil {
			key = keyFn(f)
		}
		switch Classify(key, m) {
		case Editor:
			p.Editor = append(p.Editor, f)
		case Plugin:
			p.Plugin = append(p.Plugin, f)
		default:
			p.Runtime = append(p.Runtime, f)
		}
	}
	return p
}

// Files returns the files assigned to c.
func (p Partitions) Files(c Category) []discovery.SourceFile {
	switch c {
	case Runtime:
		return p.Runtime
	case Editor:
		return p.Editor
	case Plugin:
		return p.Plugin
	default:
		return nil
	}
}

// Len returns the total number of classified files.
func (p Partitions) Len() int {
	return len(p.Runtime) + len(p.Editor) + len(p.Plugin)
}
