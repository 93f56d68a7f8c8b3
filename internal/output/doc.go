// SPDX-License-Identifier: MPL-2.0

// Package output persists converted scripts next to their sources and
// carries the asset sidecar over to the new file name.
package output
