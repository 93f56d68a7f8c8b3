// SPDX-License-Identifier: MPL-2.0

// Package classify partitions discovered script files into the Runtime,
// Editor and Plugin categories by matching configured marker directory names
// against the directory segments of each path.
package classify
