// Copyright 2025-2026 The minipb Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build !debug

// Package debug includes debugging helpers.
//
// Without the debug build tag, everything in this file compiles down to
// nothing.
package debug

import "testing"

// Enabled is true if the library is being built with the debug tag, which
// enables various debugging features.
const Enabled = false

// Log prints debugging information to stderr. No-op in release builds.
func Log(context []any, operation string, format string, args ...any) {}

// Assert panics if cond is false, but only in debug mode.
//
// In release builds the condition is not even evaluated where callers guard
// with [Enabled]; a violated precondition is undefined behavior.
func Assert(cond bool, format string, args ...any) {}

// WithTesting routes debug logs on the current goroutine to t until the
// returned cleanup function is called. No-op in release builds.
func WithTesting(t testing.TB) func() {
	return func() {}
}
