// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the treebuf tools.
//
// Configuration is loaded from a single file named by either the
// --config flag or the TREEBUF_CONFIG environment variable (see
// [Resolve]). There is no ~/.config discovery and no automatic file
// search: without either, the built-in [Default] applies. Environment
// variables never override individual values.
//
// Files ending in .json or .jsonc are read as JSON with comments and
// trailing commas allowed; anything else is YAML. Both map onto the
// same keys:
//
//	decode:
//	  max_depth: 64
//	  max_elements: 16777216
//	output:
//	  compact: false
//	  color: auto
//	envelope:
//	  domain: treebuf.document
//	  seal: false
//
// Unknown keys are rejected so that a misspelled limit fails loudly
// instead of silently keeping its default.
package config
