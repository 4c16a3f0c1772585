// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package xwim

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-xwim/format"
	"github.com/pkg/errors"
)

// OutPathFor returns the destination directory of archive. Without output,
// it is wd joined with the archive name without its archive extension. A
// single archive is extracted into the output itself, multiple archives
// into one sub directory of the output each.
func (x *Extract) OutPathFor(archive string, wd string) string {
	name := filepath.Base(format.StripKnownExtension(archive))
	switch {
	case x.Output == "":
		return filepath.Join(wd, name)
	case len(x.Archives) == 1:
		return filepath.Clean(x.Output)
	default:
		return filepath.Join(x.Output, name)
	}
}

func (x *Extract) execute(ctx context.Context, cfg *Config) error {
	var wd string
	if x.Output == "" {
		var err error
		if wd, err = cfg.WorkingDir(); err != nil {
			return errors.Wrap(err, "cannot determine working directory")
		}
	}

	if x.Output != "" && len(x.Archives) > 1 {
		if err := os.MkdirAll(x.Output, cfg.CreateDirMode()); err != nil {
			return errors.Wrapf(err, "cannot create output directory %s", x.Output)
		}
	}

	archives := append([]string(nil), x.Archives...)
	sort.Strings(archives)

	for _, archive := range archives {
		dst := x.OutPathFor(archive, wd)
		if err := os.MkdirAll(dst, cfg.CreateDirMode()); err != nil {
			return errors.Wrapf(err, "cannot create destination %s", dst)
		}

		cfg.Logger().Info("extracting", "archive", archive, "destination", dst)
		if err := cfg.Archiver().Extract(ctx, archive, dst); err != nil {
			return errors.Wrapf(err, "cannot extract %s into %s", archive, dst)
		}

		if err := flatten(dst, cfg); err != nil {
			return errors.Wrapf(err, "cannot flatten %s", dst)
		}
	}
	return nil
}
