// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for treebuf packages.
//
// [RandomInputs], [Truncations] and [Mutations] build deterministic
// corpora of damaged documents for decoder robustness tests. The
// generators are seeded, so a failing input is reproduced by rerunning
// the test, and the corpora are small enough to run on every test
// invocation.
//
// [WriteFile] places a test input in the test's temporary directory
// and returns its path, for commands that take file arguments.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no treebuf-internal dependencies.
package testutil
