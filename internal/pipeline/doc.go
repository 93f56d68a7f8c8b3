// SPDX-License-Identifier: MPL-2.0

// Package pipeline runs one ingestion pass over a Unity project: discover
// scripts, classify them, validate references, convert each category and
// persist the results.
package pipeline
