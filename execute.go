// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package xwim

import (
	"context"

	"github.com/pkg/errors"
)

// Execute runs intent with the archiver of cfg. A nil cfg selects the
// defaults of [NewConfig]. Errors are not recovered: outputs that were
// created before a failure are left in place.
func Execute(ctx context.Context, intent Intent, cfg *Config) error {
	if cfg == nil {
		cfg = NewConfig()
	}

	switch i := intent.(type) {
	case *CompressSingle:
		return i.execute(ctx, cfg)
	case *CompressMany:
		return i.execute(ctx, cfg)
	case *Extract:
		return i.execute(ctx, cfg)
	}
	return errors.Errorf("unknown intent %T", intent)
}

// Run resolves req and executes the resulting intent.
func Run(ctx context.Context, req *Request, cfg *Config) error {
	if cfg == nil {
		cfg = NewConfig()
	}

	intent, err := Resolve(req, cfg)
	if err != nil {
		return err
	}
	return Execute(ctx, intent, cfg)
}
