// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// The helpers build Unity-style project trees on disk (WriteTree, MustReadFile)
// and manage process state that some tests must touch (MustChdir).
package testutil
