// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package isatty reports whether the process is talking to a terminal.
package isatty

// IsTerminal returns true if the process's stdout is connected to a
// terminal.
func IsTerminal() bool {
	return isTerminal()
}
