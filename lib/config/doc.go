// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the timeline
// command and viewer.
//
// Configuration is loaded from a single file specified by either the
// TIMELINE_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. Commands run without a config use
// [Default].
//
// Files ending in .json or .jsonc are parsed as JSON with comments and
// trailing commas; anything else is YAML.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No environment
// variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Paths, Display, Rooms, Viewer
//   - [Default] -- returns a Config with working defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- reports every invalid field by name
package config
