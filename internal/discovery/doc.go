// SPDX-License-Identifier: MPL-2.0

// Package discovery enumerates script source files below a scan root.
//
// Discovery walks the whole subtree, keeps files whose name ends with the
// configured source extension, and reads their contents eagerly so later
// pipeline stages never touch the filesystem to obtain source text. Paths
// matching ignore globs (doublestar syntax, relative to the root) are
// skipped. An unreadable file or directory aborts the walk with a ReadError;
// non-regular files are reported as diagnostics.
package discovery
