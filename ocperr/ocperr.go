// Copyright 2026 The Goocp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ocperr defines the error taxonomy used across the transcription:
// InvalidConfig, DimensionMismatch, NumericalFailure and OutOfRange.
package ocperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers (the NLP bridge, the solver) can react
// without parsing messages.
type Kind int

const (
	// InvalidConfig marks a dimension mismatch between OCP-declared sizes and
	// bounds/name accessors, N < 2, or mismatched Iterate rows.
	InvalidConfig Kind = iota
	// DimensionMismatch marks inconsistent Iterate time/state/control column
	// counts, or row counts not matching OCP dimensions.
	DimensionMismatch
	// NumericalFailure marks a NaN/Inf produced by an OCP callback.
	NumericalFailure
	// OutOfRange marks a query for a name or column past declared sizes.
	OutOfRange
)

func (k Kind) String() string {
	switch k {
	case InvalidConfig:
		return "InvalidConfig"
	case DimensionMismatch:
		return "DimensionMismatch"
	case NumericalFailure:
		return "NumericalFailure"
	case OutOfRange:
		return "OutOfRange"
	default:
		return "Unknown"
	}
}

// sentinel is the value errors.Is compares against; wrapped by every Error
// of a given Kind so errors.Is(err, InvalidConfig.Sentinel()) works.
type sentinel Kind

func (s sentinel) Error() string { return Kind(s).String() }

// Sentinel returns the comparable error value identifying this Kind.
func (k Kind) Sentinel() error { return sentinel(k) }

// Error is a classified, formatted error, analogous in call shape to gosl's
// chk.Err(format, args...) but carrying a Kind so it can be matched with
// errors.Is against Kind.Sentinel().
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Is lets errors.Is(err, InvalidConfig.Sentinel()) succeed.
func (e *Error) Is(target error) bool {
	s, ok := target.(sentinel)
	return ok && Kind(s) == e.Kind
}

// New constructs a classified error with a chk.Err-style formatted message.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, msg: fmt.Sprintf("%s: %s", kind, fmt.Sprintf(format, args...))}
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return errors.Is(err, kind.Sentinel())
}
