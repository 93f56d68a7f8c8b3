// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/scriptport/scriptport/internal/classify"
	"github.com/scriptport/scriptport/pkg/fspath"
)

// Styles controls how the dump listing is rendered.
type Styles struct {
	Header lipgloss.Style
	Path   lipgloss.Style
}

// PlainStyles renders without decoration.
func PlainStyles() *Styles {
	return &Styles{Header: lipgloss.NewStyle(), Path: lipgloss.NewStyle()}
}

// Dump writes every category with a "<Category> Scripts" header followed by
// one project-relative path per line. Empty categories still get a header.
func (s *Styles) Dump(w io.Writer, p classify.Partitions, projectPath string) error {
	for _, c := range classify.Categories() {
		if _, err := fmt.Fprintf(w, "\n%s\n", s.Header.Render(c.String()+" Scripts")); err != nil {
			return err
		}
		for _, f := range p.Files(c) {
			if _, err := fmt.Fprintln(w, s.Path.Render(fspath.RelSlash(projectPath, f.Path))); err != nil {
				return err
			}
		}
	}
	return nil
}
