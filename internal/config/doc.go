// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from the file named by --config, else from
// config.cue in the platform config directory (~/.config/scriptport on Linux,
// ~/Library/Application Support/scriptport on macOS, %APPDATA%\scriptport on
// Windows), else from scriptport.cue in the working directory. Every key can be
// overridden through SCRIPTPORT_<SECTION>_<KEY> environment variables.
//
// Files are validated against the embedded CUE schema (config_schema.cue)
// before they are merged over the defaults.
package config
