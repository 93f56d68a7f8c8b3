// SPDX-License-Identifier: MPL-2.0

package classify

import (
	"errors"
	"fmt"
)

const (
	// Runtime scripts are compiled into the player build.
	Runtime Category = iota
	// Editor scripts live below an editor marker directory.
	Editor
	// Plugin scripts live below a plugin marker directory.
	Plugin
)

// ErrInvalidCategory is the sentinel error wrapped by InvalidCategoryError.
var ErrInvalidCategory = errors.New("invalid category")

type (
	// Category is the classification tag assigned once to every discovered file.
	Category int

	// InvalidCategoryError is returned when a Category value is not one of
	// Runtime, Editor or Plugin.
	InvalidCategoryError struct {
		Value Category
	}
)

// Categories returns every category in dispatch order.
func Categories() []Category {
	return []Category{Runtime, Editor, Plugin}
}

// String returns the human-readable category name used in dumps.
func (c Category) String() string {
	switch c {
	case Runtime:
		return "Runtime"
	case Editor:
		return "Editor"
	case Plugin:
		return "Plugin"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Slug returns the lowercase name used in logs and passed to converters.
func (c Category) Slug() string {
	switch c {
	case Runtime:
		return "runtime"
	case Editor:
		return "editor"
	case Plugin:
		return "plugins"
	default:
		return "unknown"
	}
}

// Validate returns an error if c is not a known category.
func (c Category) Validate() error {
	if c < Runtime || c > Plugin {
		return &InvalidCategoryError{Value: c}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid category %d", int(e.Value))
}

// Unwrap returns ErrInvalidCategory for errors.Is() compatibility.
func (e *InvalidCategoryError) Unwrap() error { return ErrInvalidCategory }
