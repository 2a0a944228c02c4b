// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
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

package config

import (
	"io"
	"log"
	"os"

	"golang.org/x/term"
)

// LogLevel is the verbosity of a LogGroup.
type LogLevel int

const (
	// ErrLevel is the minimum level of logging.
	ErrLevel LogLevel = iota + 1
	// WarnLevel additionally logs warnings, e.g. skipped flow facts.
	WarnLevel
	// InfoLevel additionally logs high-level progress.
	InfoLevel
	// DebugLevel additionally logs per-constraint decisions (dropped
	// constraints, refinement queries).
	DebugLevel
	// TraceLevel additionally narrates every phase transition; only
	// practical on small inputs.
	TraceLevel
)

// LogGroup is a set of five leveled loggers (trace/debug/info/warn/error)
// wrapping the standard library's log.Logger, the primary user-visible
// channel for skipped flow facts and dropped constraints.
type LogGroup struct {
	level LogLevel
	trace *log.Logger
	debug *log.Logger
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
}

// NewLogGroup returns a LogGroup configured from o.LogLevel, writing to
// os.Stderr. The timestamp prefix is enabled only when os.Stderr is a
// terminal, so that piped/report output stays diffable across runs.
func NewLogGroup(o *Options) *LogGroup {
	flags := log.Lmsgprefix
	if term.IsTerminal(int(os.Stderr.Fd())) {
		flags |= log.Ltime
	}
	l := &LogGroup{
		level: LogLevel(o.LogLevel),
		trace: log.New(os.Stderr, "[TRACE] ", flags),
		debug: log.New(os.Stderr, "[DEBUG] ", flags),
		info:  log.New(os.Stderr, "[INFO] ", flags),
		warn:  log.New(os.Stderr, "[WARN] ", flags),
		err:   log.New(os.Stderr, "[ERROR] ", flags),
	}
	return l
}

// SetAllOutput redirects every logger in the group to w.
func (l *LogGroup) SetAllOutput(w io.Writer) {
	l.trace.SetOutput(w)
	l.debug.SetOutput(w)
	l.info.SetOutput(w)
	l.warn.SetOutput(w)
	l.err.SetOutput(w)
}

// Tracef logs to the trace logger if the group's level allows it.
func (l *LogGroup) Tracef(format string, v ...any) {
	if l != nil && l.level >= TraceLevel {
		l.trace.Printf(format, v...)
	}
}

// Debugf logs to the debug logger if the group's level allows it.
func (l *LogGroup) Debugf(format string, v ...any) {
	if l != nil && l.level >= DebugLevel {
		l.debug.Printf(format, v...)
	}
}

// Infof logs to the info logger if the group's level allows it.
func (l *LogGroup) Infof(format string, v ...any) {
	if l != nil && l.level >= InfoLevel {
		l.info.Printf(format, v...)
	}
}

// Warnf logs to the warn logger if the group's level allows it. This is the
// channel flow-fact drops are reported on.
func (l *LogGroup) Warnf(format string, v ...any) {
	if l != nil && l.level >= WarnLevel {
		l.warn.Printf(format, v...)
	}
}

// Errorf logs to the error logger if the group's level allows it.
func (l *LogGroup) Errorf(format string, v ...any) {
	if l != nil && l.level >= ErrLevel {
		l.err.Printf(format, v...)
	}
}
