// SPDX-License-Identifier: MPL-2.0

// Package fspath provides path helpers that behave the same regardless of
// which separator convention a path was written in. Unity projects move
// between Windows and POSIX hosts, so both '/' and '\' are treated as
// separators when tokenizing.
package fspath

import (
	"path/filepath"
	"strings"

	"github.com/scriptport/scriptport/pkg/types"
)

// isSeparator reports whether r separates path segments on any platform.
func isSeparator(r rune) bool { return r == '/' || r == '\\' }

// Segments splits p on '/' and '\' and drops empty and "." segments.
func Segments(p string) []string {
	fields := strings.FieldsFunc(p, isSeparator)
	out := fields[:0]
	for _, f := range fields {
		if f == "." {
			continue
		}
		out = append(out, f)
	}
	return out
}

// DirSegments returns the directory segments of p, that is every segment
// except the final file name.
func DirSegments(p string) []string {
	segs := Segments(p)
	if len(segs) == 0 {
		return nil
	}
	return segs[:len(segs)-1]
}

// HasDirSegment reports whether token appears as a whole directory segment
// of p. The file name itself never matches.
func HasDirSegment(p, token string) bool {
	for _, seg := range DirSegments(p) {
		if seg == token {
			return true
		}
	}
	return false
}

// ChangeExt replaces the extension of the final path element with ext,
// leaving every directory component untouched. A path without an extension
// gets ext appended.
func ChangeExt(p string, ext types.FileExtension) string {
	return strings.TrimSuffix(p, filepath.Ext(p)) + string(ext)
}

// SwapEmbeddedExt rewrites a sidecar path of the form "<name><from><suffix>"
// into "<name><to><suffix>". Only the file name is examined; the second
// return value is false when the name does not end in from+suffix.
func SwapEmbeddedExt(p string, from, to types.FileExtension, suffix string) (string, bool) {
	dir, name := filepath.Split(p)
	marker := string(from) + suffix
	if !strings.HasSuffix(name, marker) || len(name) == len(marker) {
		return "", false
	}
	return dir + strings.TrimSuffix(name, marker) + string(to) + suffix, true
}

// RelSlash returns target relative to base using forward slashes. When the
// relative path cannot be computed the cleaned target is returned instead.
func RelSlash(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(target))
	}
	return filepath.ToSlash(rel)
}
