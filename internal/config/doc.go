// SPDX-License-Identifier: MPL-2.0

// Package config handles suitepub configuration using Viper with CUE as the file format.
//
// A release configuration is looked up in this order: the file passed with
// --config, suitepub.cue at the repository root, then config.cue in the user
// configuration directory ($XDG_CONFIG_HOME/suitepub on Linux,
// ~/Library/Application Support/suitepub on macOS, %APPDATA%\suitepub on Windows).
// When none exists the defaults describe an npm suite released from "master".
//
// Files are validated against the embedded #Config schema (config_schema.cue)
// before being merged over the defaults.
package config
