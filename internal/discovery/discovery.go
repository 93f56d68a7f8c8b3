// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/scriptport/scriptport/pkg/types"
)

// defaultIgnores are always skipped. Unity itself never imports hidden
// directories or directories whose name ends in '~'.
var defaultIgnores = []string{
	"**/.*/**",
	"**/*~/**",
}

type (
	// SourceFile is a discovered script with its contents read at
	// enumeration time. It is never mutated after discovery.
	SourceFile struct {
		// Path is the file path as found under the scan root.
		Path string
		// Contents is the file text.
		Contents string
	}

	// Options selects what Discover enumerates.
	Options struct {
		// Root is the directory whose subtree is scanned.
		Root string
		// Extension is the source extension, e.g. ".js".
		Extension types.FileExtension
		// Ignore are doublestar globs, relative to Root with forward slashes,
		// for files and directories that must be skipped.
		Ignore []string
	}

	// Result is the outcome of a successful discovery run.
	Result struct {
		// Files are sorted by path.
		Files       []SourceFile
		Diagnostics []Diagnostic
	}

	// Discovery enumerates source files, optionally reusing contents from a
	// ContentCache across runs.
	Discovery struct {
		cache  *ContentCache
		logger *slog.Logger
	}
)

// New creates a Discovery. cache and logger may be nil.
func New(cache *ContentCache, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{cache: cache, logger: logger}
}

// Validate checks that Options can drive a walk.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Root) == "" {
		return &RootError{Root: o.Root, Cause: ErrRootNotFound}
	}
	if err := o.Extension.Validate(); err != nil {
		return err
	}
	for _, pat := range o.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("invalid ignore pattern %q", pat)
		}
	}
	return nil
}

// Discover walks opts.Root and returns every file ending in opts.Extension.
func (d *Discovery) Discover(ctx context.Context, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	info, err := os.Stat(opts.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, &RootError{Root: opts.Root, Cause: ErrRootNotFound}
		}
		return Result{}, &RootError{Root: opts.Root, Cause: err}
	}
	if !info.IsDir() {
		return Result{}, &RootError{Root: opts.Root, Cause: fmt.Errorf("%w: not a directory", ErrRootNotFound)}
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(opts.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, opts.Ignore...)

	var res Result
	walkErr := filepath.WalkDir(opts.Root, func(path string, entry fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if walkErr != nil {
			if path == opts.Root {
				return &RootError{Root: opts.Root, Cause: walkErr}
			}
			// Scripts under an unreadable directory would silently drop out
			// of every category.
			return &ReadError{Path: path, Cause: walkErr}
		}

		rel, relErr := filepath.Rel(opts.Root, path)
		if relErr != nil || rel == "." {
			return nil //nolint:nilerr // the root itself and unrelatable paths are not candidates
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if isIgnored(ignores, rel) || isIgnored(ignores, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(entry.Name(), string(opts.Extension)) || entry.Name() == string(opts.Extension) {
			return nil
		}
		if isIgnored(ignores, rel) {
			return nil
		}
		if !entry.Type().IsRegular() {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     "not_regular_file",
				Message:  fmt.Sprintf("skipping %s: not a regular file", path),
				Path:     path,
			})
			return nil
		}

		contents, readErr := d.read(path, entry)
		if readErr != nil {
			return &ReadError{Path: path, Cause: readErr}
		}
		res.Files = append(res.Files, SourceFile{Path: path, Contents: contents})
		return nil
	})
	if walkErr != nil {
		return Result{}, walkErr
	}

	sort.Slice(res.Files, func(i, j int) bool { return res.Files[i].Path < res.Files[j].Path })
	d.logger.Debug("discovered source files", "root", opts.Root, "extension", opts.Extension, "count", len(res.Files))
	return res, nil
}

// read returns the file contents, consulting the cache when one is set.
func (d *Discovery) read(path string, entry fs.DirEntry) (string, error) {
	if d.cache == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	info, err := entry.Info()
	if err != nil {
		return "", err
	}
	if contents, ok := d.cache.Get(path, info); ok {
		return contents, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	contents := string(data)
	d.cache.Put(path, info, contents)
	return contents, nil
}

// isIgnored reports whether rel (forward slashes) matches any pattern.
func isIgnored(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}
