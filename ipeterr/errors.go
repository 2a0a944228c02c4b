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

// Package ipeterr declares the error taxonomy of the constraint builder: a
// handful of fatal kinds that abort Build, and recoverable kinds that are
// logged and elided.
package ipeterr

import "fmt"

// Kind classifies an error as fatal (halts Build) or recoverable (logged and
// skipped).
type Kind string

const (
	// KindUnresolvedIndirectCall is fatal: a call site has neither a static
	// callee list nor a flow-fact-provided target set.
	KindUnresolvedIndirectCall Kind = "unresolved-indirect-call"
	// KindBuilderReinvocation is fatal: a builder was used for a second
	// Build call.
	KindBuilderReinvocation Kind = "builder-reinvocation"
	// KindUnsupportedFactShape is recoverable: a fact's shape (symbolic RHS,
	// context-sensitive term/scope, instruction-level term, unknown scope
	// kind) is not supported by lowering.
	KindUnsupportedFactShape Kind = "unsupported-fact-shape"
	// KindUnknownMarker is recoverable: a bitcode fact references a marker
	// with no resolved instruction.
	KindUnknownMarker Kind = "unknown-marker"
	// KindMissingVariableInConstraint is recoverable: a constraint referenced
	// a variable the ILP never saw, typically because it names unreachable
	// code.
	KindMissingVariableInConstraint Kind = "missing-variable-in-constraint"
	// KindGCFGInvariantViolation is fatal: the GCFG super-structure's
	// function set overlaps with functions reached via ordinary calls.
	KindGCFGInvariantViolation Kind = "gcfg-invariant-violation"
	// KindBitcodeUnderGCFG is fatal: bitcode was requested together with
	// GCFG orchestration, an unimplemented combination.
	KindBitcodeUnderGCFG Kind = "bitcode-under-gcfg"
)

// Error is the concrete error type for every Kind above.
type Error struct {
	Kind Kind
	// Context names the offending program point (block, call site,
	// function...) for diagnostics.
	Context string
	// Detail is an optional human-readable elaboration.
	Detail string
	// Wrapped is an optional underlying error.
	Wrapped error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap exposes the wrapped error to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Wrapped }

// Is reports whether target is an *Error of the same Kind, so that
// errors.Is(err, ipeterr.New(KindX, "", "")) works regardless of Context and
// Detail.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// New builds an *Error of the given kind.
func New(kind Kind, context, detail string) *Error {
	return &Error{Kind: kind, Context: context, Detail: detail}
}

// Wrap builds an *Error of the given kind wrapping err.
func Wrap(kind Kind, context string, err error) *Error {
	return &Error{Kind: kind, Context: context, Wrapped: err}
}

// Fatal reports whether kind halts Build immediately.
func Fatal(kind Kind) bool {
	switch kind {
	case KindUnresolvedIndirectCall, KindBuilderReinvocation,
		KindGCFGInvariantViolation, KindBitcodeUnderGCFG:
		return true
	default:
		return false
	}
}

// IsFatal reports whether err (if an *Error) is a fatal kind.
func IsFatal(err error) bool {
	var e *Error
	if as, ok := err.(*Error); ok {
		e = as
	} else {
		return false
	}
	return Fatal(e.Kind)
}

var _ fmt.Stringer = Kind("")

// String implements fmt.Stringer for Kind.
func (k Kind) String() string { return string(k) }
