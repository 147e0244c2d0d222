// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to classify a returned error.
var (
	// ErrMalformedInput reports input that could not be parsed or
	// that names an out-of-range variable or table.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInvariant reports a broken internal invariant. Operations on
	// a Base that detect one panic with this error; Load returns it
	// for a stream record that breaks a node invariant.
	ErrInvariant = errors.New("invariant violated")

	// ErrEvalUndefined reports an evaluation that reached a variable
	// with no assigned value.
	ErrEvalUndefined = errors.New("evaluation undefined")

	// ErrCancelled reports an operation stopped before completion.
	ErrCancelled = errors.New("cancelled")
)

func errMalformedf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrMalformedInput}, a...)...)
}

func errInvariantf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvariant}, a...)...)
}

func errEvalf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrEvalUndefined}, a...)...)
}
