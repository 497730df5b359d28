// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the treebuf
// binaries.
//
// Version information is injected at build time via -ldflags, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/treebuf/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// The variables default to "unknown" and "0.1.0-dev" in development
// builds and test runs.
package version

import (
	"fmt"
	"runtime"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// Info returns a formatted version string suitable for --version output.
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full returns Info followed by the Go version, the platform and the
// envelope layout version the binary writes.
func Full(envelopeVersion int) string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s\n  Envelope: v%d",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH, envelopeVersion)
}
