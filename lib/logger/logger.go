// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package logger provides leveled logging for the command-line tools in
// this repository. A Logger can be carried in a context.Context so that
// library code logs through whatever the tool configured.
package logger

import (
	"context"
	"fmt"
	"io"
	goLog "log"
	"os"

	"github.com/tiny1990/mtd-utils/lib/color"
)

type globalLoggerKeyType struct{}

// WithLogger returns the context with its logger set as the provided
// Logger.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, globalLoggerKeyType{}, logger)
}

// LoggerFromContext returns the context's logger if configured, otherwise
// nil.
func LoggerFromContext(ctx context.Context) *Logger {
	if v, ok := ctx.Value(globalLoggerKeyType{}).(*Logger); ok && v != nil {
		return v
	}
	return nil
}

// LogLevel controls the amount of detail a Logger emits.
type LogLevel int

const (
	NoLogLevel LogLevel = iota
	FatalLevel
	ErrorLevel
	WarningLevel
	InfoLevel
	DebugLevel
)

var levelToName = map[LogLevel]string{
	NoLogLevel:   "no",
	FatalLevel:   "fatal",
	ErrorLevel:   "error",
	WarningLevel: "warning",
	InfoLevel:    "info",
	DebugLevel:   "debug",
}

// String returns the string representation of the LogLevel.
func (l *LogLevel) String() string {
	return levelToName[*l]
}

// Set sets the LogLevel based on its string value. It implements
// flag.Value.
func (l *LogLevel) Set(s string) error {
	for level, name := range levelToName {
		if name == s {
			*l = level
			return nil
		}
	}
	return fmt.Errorf("%s is not a valid level", s)
}

// Logger writes leveled, optionally colored messages, each prefixed with
// the name of the tool that configured it.
type Logger struct {
	LoggerLevel   LogLevel
	goLogger      *goLog.Logger
	goErrorLogger *goLog.Logger
	color         color.Color
	prefix        string
}

// NewLogger creates a new logger instance. Messages at or below
// loggerLevel are emitted; non-error output goes to outWriter and error
// output to errWriter, either of which may be nil to select the standard
// streams. The prefix appears directly before every message.
func NewLogger(loggerLevel LogLevel, color color.Color, outWriter, errWriter io.Writer, prefix string) *Logger {
	if outWriter == nil {
		outWriter = os.Stdout
	}
	if errWriter == nil {
		errWriter = os.Stderr
	}
	return &Logger{
		LoggerLevel:   loggerLevel,
		goLogger:      goLog.New(outWriter, "", goLog.LstdFlags),
		goErrorLogger: goLog.New(errWriter, "", goLog.LstdFlags),
		color:         color,
		prefix:        prefix,
	}
}

// SetFlags sets the output flags (log.Ldate and friends) on both
// underlying loggers. Interactive tools typically pass 0.
func (l *Logger) SetFlags(flags int) {
	l.goLogger.SetFlags(flags)
	l.goErrorLogger.SetFlags(flags)
}

func (l *Logger) log(tag, format string, a ...interface{}) {
	l.goLogger.Printf("%s%s%s", l.prefix, tag, fmt.Sprintf(format, a...))
}

func (l *Logger) errorLog(tag, format string, a ...interface{}) {
	l.goErrorLogger.Printf("%s%s%s", l.prefix, tag, fmt.Sprintf(format, a...))
}

// Infof logs the message if the logger is at least InfoLevel.
func (l *Logger) Infof(format string, a ...interface{}) {
	if l.LoggerLevel >= InfoLevel {
		l.log("", format, a...)
	}
}

// Debugf logs the message if the logger is at least DebugLevel.
func (l *Logger) Debugf(format string, a ...interface{}) {
	if l.LoggerLevel >= DebugLevel {
		l.log(l.color.Cyan("DEBUG: "), format, a...)
	}
}

// Warningf logs the message if the logger is at least WarningLevel.
func (l *Logger) Warningf(format string, a ...interface{}) {
	if l.LoggerLevel >= WarningLevel {
		l.errorLog(l.color.Yellow("WARN: "), format, a...)
	}
}

// Errorf logs the message if the logger is at least ErrorLevel.
func (l *Logger) Errorf(format string, a ...interface{}) {
	if l.LoggerLevel >= ErrorLevel {
		l.errorLog(l.color.Red("ERROR: "), format, a...)
	}
}

// Fatalf logs the message and exits with a non-zero status.
func (l *Logger) Fatalf(format string, a ...interface{}) {
	if l.LoggerLevel >= FatalLevel {
		l.errorLog(l.color.Red("FATAL: "), format, a...)
	}
	os.Exit(1)
}

func logf(ctx context.Context, level LogLevel, format string, a ...interface{}) {
	l := LoggerFromContext(ctx)
	if l == nil {
		goLog.Printf(format, a...)
		return
	}
	switch level {
	case InfoLevel:
		l.Infof(format, a...)
	case DebugLevel:
		l.Debugf(format, a...)
	case WarningLevel:
		l.Warningf(format, a...)
	case ErrorLevel:
		l.Errorf(format, a...)
	case FatalLevel:
		l.Fatalf(format, a...)
	}
}

// Infof logs through the context's logger, falling back to the stdlib
// logger if none is configured.
func Infof(ctx context.Context, format string, a ...interface{}) {
	logf(ctx, InfoLevel, format, a...)
}

// Debugf logs through the context's logger, falling back to the stdlib
// logger if none is configured.
func Debugf(ctx context.Context, format string, a ...interface{}) {
	logf(ctx, DebugLevel, format, a...)
}

// Warningf logs through the context's logger, falling back to the stdlib
// logger if none is configured.
func Warningf(ctx context.Context, format string, a ...interface{}) {
	logf(ctx, WarningLevel, format, a...)
}

// Errorf logs through the context's logger, falling back to the stdlib
// logger if none is configured.
func Errorf(ctx context.Context, format string, a ...interface{}) {
	logf(ctx, ErrorLevel, format, a...)
}

// Fatalf logs through the context's logger and exits with a non-zero
// status.
func Fatalf(ctx context.Context, format string, a ...interface{}) {
	logf(ctx, FatalLevel, format, a...)
}
