// SPDX-License-Identifier: MPL-2.0

// Package convert dispatches classified script files to a conversion service.
//
// The conversion itself happens behind the Service capability. The
// Orchestrator builds one Request per non-empty category, dispatches the
// categories one after another in Runtime, Editor, Plugin order, and hands
// every accepted per-file result to a Handler (normally the output writer).
// A failing category never prevents the next one from being attempted, and
// nothing is retried or rolled back.
//
// ProcessService is the production Service: it runs an external converter
// command through the mvdan/sh interpreter and speaks JSON over stdio.
package convert
