// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package color

import (
	"fmt"
	"testing"
)

func TestColors(t *testing.T) {
	c := NewColor(ColorAlways)
	colorFns := []func(string, ...interface{}) string{c.Red, c.Green, c.Yellow, c.Cyan}
	colorCodes := []ColorCode{RedFg, GreenFg, YellowFg, CyanFg}

	for i, code := range colorCodes {
		str := fmt.Sprintf("test string: %d", i)
		colored := colorFns[i]("test string: %d", i)
		want := fmt.Sprintf("%v%vm%v%v", escape, code, str, clear)
		if colored != want {
			t.Errorf("expected string %q, got %q", want, colored)
		}
		if got := c.WithColor(code, "test string: %d", i); got != want {
			t.Errorf("expected string %q, got %q", want, got)
		}
	}
}

func TestColorsDisabled(t *testing.T) {
	c := NewColor(ColorNever)
	colorFns := []func(string, ...interface{}) string{c.Red, c.Green, c.Yellow, c.Cyan}

	for i, fn := range colorFns {
		str := fmt.Sprintf("test string: %d", i)
		if got := fn("test string: %d", i); got != str {
			t.Errorf("expected string %q, got %q", str, got)
		}
	}
	if c.Enabled() {
		t.Error("ColorNever color reports Enabled() = true")
	}
}

func TestEnableColorFlag(t *testing.T) {
	var ec EnableColor
	for _, s := range []string{"never", "auto", "always"} {
		if err := ec.Set(s); err != nil {
			t.Fatal(err)
		}
		if ec.String() != s {
			t.Errorf("EnableColor round trip: set %q, got %q", s, ec.String())
		}
	}
	if err := ec.Set("sometimes"); err == nil {
		t.Error("EnableColor accepted an invalid mode")
	}
}
