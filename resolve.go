// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package xwim

import (
	"github.com/hashicorp/go-xwim/format"
)

// Resolve returns the [Intent] of req. Explicit flags win; without flags,
// extraction is inferred before compression. A nil cfg selects the defaults
// of [NewConfig].
func Resolve(req *Request, cfg *Config) (Intent, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	intent, err := resolve(req)
	if err != nil {
		cfg.Logger().Debug("cannot resolve intent", "inputs", req.Inputs, "output", req.Output, "error", err)
		return nil, err
	}
	cfg.Logger().Debug("resolved intent", "kind", intent.Kind(), "inputs", req.Inputs, "output", req.Output)
	return intent, nil
}

func resolve(req *Request) (Intent, error) {
	if req.Compress && req.Extract {
		return nil, ErrConflictingAction
	}
	if len(req.Inputs) == 0 {
		return nil, ErrNoInput
	}

	switch {
	case req.Compress:
		return compressIntent(req)

	case req.Extract:
		for _, in := range req.Inputs {
			if !format.IsArchive(in) {
				return nil, &UnhandledFormatError{Path: in}
			}
		}
		return extractIntent(req), nil
	}

	if intent := inferExtract(req); intent != nil {
		return intent, nil
	}
	if intent := inferCompress(req); intent != nil {
		return intent, nil
	}
	return nil, ErrCannotInferIntent
}

// inferExtract returns an Extract intent if all inputs are archives and the
// output does not look like an archive itself.
func inferExtract(req *Request) Intent {
	for _, in := range req.Inputs {
		if !format.IsArchive(in) {
			return nil
		}
	}
	// an archive output might ask for repackaging
	if req.Output != "" && format.IsArchive(req.Output) {
		return nil
	}
	return extractIntent(req)
}

// inferCompress returns a compression intent for a single input without
// output, or for any number of inputs with an archive output.
func inferCompress(req *Request) Intent {
	if req.Output == "" {
		if len(req.Inputs) == 1 {
			return &CompressSingle{Input: req.Inputs[0]}
		}
		return nil
	}
	if !format.IsArchive(req.Output) {
		return nil
	}
	intent, _ := compressIntent(req)
	return intent
}

func compressIntent(req *Request) (Intent, error) {
	if len(req.Inputs) == 1 {
		return &CompressSingle{Input: req.Inputs[0], Output: req.Output}, nil
	}
	if req.Output == "" {
		return nil, ErrAmbiguousOutput
	}
	return &CompressMany{Inputs: append([]string(nil), req.Inputs...), Output: req.Output}, nil
}

func extractIntent(req *Request) Intent {
	return &Extract{Archives: append([]string(nil), req.Inputs...), Output: req.Output}
}
