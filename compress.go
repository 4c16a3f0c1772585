// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package xwim

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-xwim/format"
	"github.com/pkg/errors"
)

// OutputPath returns the archive to create. An explicit output has to be an
// archive name. Otherwise the name is derived from the input: known archive
// extensions and the last ordinary extension are removed, and defaultExt is
// appended, so "notes.txt" becomes "notes.tar.gz". A derived name has no
// directory part.
func (c *CompressSingle) OutputPath(defaultExt string) (string, error) {
	if c.Output != "" {
		if !format.IsArchive(c.Output) {
			return "", &UnhandledFormatError{Path: c.Output}
		}
		return c.Output, nil
	}

	in := c.Input
	if b := filepath.Base(in); b == "." || b == ".." || b == string(filepath.Separator) {
		// name the archive after the directory itself
		if abs, err := filepath.Abs(in); err == nil {
			in = abs
		}
	}

	name := stem(filepath.Base(format.StripKnownExtension(in)))
	if name == "" || name == string(filepath.Separator) {
		name = "archive"
	}
	return name + defaultExt, nil
}

func (c *CompressSingle) execute(ctx context.Context, cfg *Config) error {
	out, err := c.OutputPath(cfg.DefaultExtension())
	if err != nil {
		return err
	}
	if c.Output == "" {
		wd, err := cfg.WorkingDir()
		if err != nil {
			return errors.Wrap(err, "cannot determine working directory")
		}
		out = filepath.Join(wd, out)
	}

	cfg.Logger().Info("compressing", "input", c.Input, "archive", out)
	if err := cfg.Archiver().Compress(ctx, []string{c.Input}, out); err != nil {
		return errors.Wrapf(err, "cannot compress %s into %s", c.Input, out)
	}
	return nil
}

// OutputPath returns the archive to create, which has to be an archive name.
func (c *CompressMany) OutputPath() (string, error) {
	if !format.IsArchive(c.Output) {
		return "", &UnhandledFormatError{Path: c.Output}
	}
	return c.Output, nil
}

func (c *CompressMany) execute(ctx context.Context, cfg *Config) error {
	out, err := c.OutputPath()
	if err != nil {
		return err
	}

	cfg.Logger().Info("compressing", "inputs", c.Inputs, "archive", out)
	if err := cfg.Archiver().Compress(ctx, c.Inputs, out); err != nil {
		return errors.Wrapf(err, "cannot compress %d inputs into %s", len(c.Inputs), out)
	}
	return nil
}

// stem returns name without its last extension. A leading dot does not start
// an extension.
func stem(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name
	}
	return name[:i]
}
