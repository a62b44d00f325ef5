// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package color colorizes terminal output when the terminal supports it.
package color

import (
	"fmt"
	"os"

	"github.com/tiny1990/mtd-utils/lib/isatty"
)

const (
	escape = "\033["
	clear  = escape + "0m"
)

// ColorCode is an ANSI foreground color.
type ColorCode int

const (
	RedFg ColorCode = iota + 31
	GreenFg
	YellowFg
	BlueFg
	MagentaFg
	CyanFg
)

// Color formats strings, wrapping them in ANSI color sequences when
// enabled.
type Color interface {
	Red(format string, a ...interface{}) string
	Green(format string, a ...interface{}) string
	Yellow(format string, a ...interface{}) string
	Cyan(format string, a ...interface{}) string
	WithColor(code ColorCode, format string, a ...interface{}) string
	Enabled() bool
}

type color struct{}

func (color) Red(format string, a ...interface{}) string    { return colorString(RedFg, format, a...) }
func (color) Green(format string, a ...interface{}) string  { return colorString(GreenFg, format, a...) }
func (color) Yellow(format string, a ...interface{}) string { return colorString(YellowFg, format, a...) }
func (color) Cyan(format string, a ...interface{}) string   { return colorString(CyanFg, format, a...) }
func (color) WithColor(code ColorCode, format string, a ...interface{}) string {
	return colorString(code, format, a...)
}
func (color) Enabled() bool { return true }

func colorString(c ColorCode, format string, a ...interface{}) string {
	return fmt.Sprintf("%v%vm%v%v", escape, c, fmt.Sprintf(format, a...), clear)
}

type monochrome struct{}

func (monochrome) Red(format string, a ...interface{}) string    { return fmt.Sprintf(format, a...) }
func (monochrome) Green(format string, a ...interface{}) string  { return fmt.Sprintf(format, a...) }
func (monochrome) Yellow(format string, a ...interface{}) string { return fmt.Sprintf(format, a...) }
func (monochrome) Cyan(format string, a ...interface{}) string   { return fmt.Sprintf(format, a...) }
func (monochrome) WithColor(_ ColorCode, format string, a ...interface{}) string {
	return fmt.Sprintf(format, a...)
}
func (monochrome) Enabled() bool { return false }

// EnableColor selects whether color output is forced on, forced off, or
// decided by looking at the terminal. It implements flag.Value.
type EnableColor int

const (
	ColorNever EnableColor = iota
	ColorAuto
	ColorAlways
)

func (ec *EnableColor) String() string {
	switch *ec {
	case ColorNever:
		return "never"
	case ColorAuto:
		return "auto"
	case ColorAlways:
		return "always"
	}
	return ""
}

func (ec *EnableColor) Set(s string) error {
	switch s {
	case "never":
		*ec = ColorNever
	case "auto":
		*ec = ColorAuto
	case "always":
		*ec = ColorAlways
	default:
		return fmt.Errorf("%s is not a valid color value", s)
	}
	return nil
}

func isColorAvailable() bool {
	switch os.Getenv("TERM") {
	case "dumb", "":
		return false
	}
	return isatty.IsTerminal()
}

// NewColor returns a Color honoring the given EnableColor mode.
func NewColor(enableColor EnableColor) Color {
	ec := enableColor != ColorNever
	if enableColor == ColorAuto {
		ec = isColorAvailable()
	}
	if ec {
		return color{}
	}
	return monochrome{}
}
