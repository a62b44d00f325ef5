// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/tiny1990/mtd-utils/lib/color"
)

func TestWithContext(t *testing.T) {
	logger := NewLogger(DebugLevel, color.NewColor(color.ColorNever), nil, nil, "")
	ctx := context.Background()
	if v, ok := ctx.Value(globalLoggerKeyType{}).(*Logger); ok || v != nil {
		t.Fatalf("default context should not carry a logger, got %+v", v)
	}
	ctx = WithLogger(ctx, logger)
	if LoggerFromContext(ctx) == nil {
		t.Fatal("updated context should carry a logger, got nil")
	}
}

func TestPrefixAndStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLogger(DebugLevel, color.NewColor(color.ColorNever), &out, &errOut, "ubiattach: ")
	l.SetFlags(0)

	l.Infof("attached mtd%d", 0)
	if got, want := out.String(), "ubiattach: attached mtd0\n"; got != want {
		t.Errorf("Infof wrote %q, want %q", got, want)
	}
	if errOut.Len() != 0 {
		t.Errorf("Infof wrote to the error stream: %q", errOut.String())
	}

	out.Reset()
	l.Errorf("cannot attach mtd%d", 1)
	if got, want := errOut.String(), "ubiattach: ERROR: cannot attach mtd1\n"; got != want {
		t.Errorf("Errorf wrote %q, want %q", got, want)
	}
	if out.Len() != 0 {
		t.Errorf("Errorf wrote to the output stream: %q", out.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLogger(ErrorLevel, color.NewColor(color.ColorNever), &out, &errOut, "")
	l.SetFlags(0)

	l.Debugf("noisy detail")
	l.Infof("progress")
	l.Warningf("suspicious")
	l.Errorf("broken")

	if out.Len() != 0 {
		t.Errorf("ErrorLevel logger emitted non-error output: %q", out.String())
	}
	if got := errOut.String(); !strings.Contains(got, "broken") || strings.Contains(got, "suspicious") {
		t.Errorf("ErrorLevel logger emitted wrong error output: %q", got)
	}
}

func TestLevelFlag(t *testing.T) {
	var level LogLevel
	if err := level.Set("debug"); err != nil {
		t.Fatal(err)
	}
	if level != DebugLevel {
		t.Errorf("Set(\"debug\") produced %v", level)
	}
	if err := level.Set("verbose"); err == nil {
		t.Error("Set accepted an invalid level name")
	}
}

func TestContextFuncs(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLogger(InfoLevel, color.NewColor(color.ColorNever), &out, &errOut, "tool: ")
	l.SetFlags(0)
	ctx := WithLogger(context.Background(), l)

	Infof(ctx, "hello")
	Errorf(ctx, "goodbye")

	if got, want := out.String(), "tool: hello\n"; got != want {
		t.Errorf("Infof via context wrote %q, want %q", got, want)
	}
	if got, want := errOut.String(), "tool: ERROR: goodbye\n"; got != want {
		t.Errorf("Errorf via context wrote %q, want %q", got, want)
	}
}
