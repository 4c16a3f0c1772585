// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package xwim

import (
	"github.com/pkg/errors"
)

var (
	// ErrConflictingAction is returned if compression and extraction are
	// requested at the same time.
	ErrConflictingAction = errors.New("cannot compress and extract at the same time")

	// ErrNoInput is returned if a request has no input paths.
	ErrNoInput = errors.New("no input paths given")

	// ErrAmbiguousOutput is returned if multiple inputs should be compressed
	// without an output path.
	ErrAmbiguousOutput = errors.New("an output path is required to compress multiple inputs")

	// ErrUnhandledFormat is returned if a path does not resolve to a known
	// archive format. Use [UnhandledFormatError] to get the path.
	ErrUnhandledFormat = errors.New("unhandled archive format")

	// ErrCannotInferIntent is returned if neither extraction nor compression
	// can be inferred from a request.
	ErrCannotInferIntent = errors.New("cannot infer whether to compress or extract")
)

// UnhandledFormatError names the path that does not resolve to a known
// archive format. It matches [ErrUnhandledFormat] with errors.Is.
type UnhandledFormatError struct {
	Path string
}

// Error implements the error interface.
func (e *UnhandledFormatError) Error() string {
	return ErrUnhandledFormat.Error() + ": " + e.Path
}

// Unwrap returns [ErrUnhandledFormat].
func (e *UnhandledFormatError) Unwrap() error {
	return ErrUnhandledFormat
}
