// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package xwim

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// maxTempAttempts bounds the search for an unused temporary name.
const maxTempAttempts = 16

// flatten removes redundant nesting from dst: if dst holds exactly one
// directory with the same name as dst, the contents of that directory
// replace dst.
func flatten(dst string, cfg *Config) error {
	dst = filepath.Clean(dst)
	entries, err := os.ReadDir(dst)
	if err != nil {
		return errors.Wrapf(err, "cannot read %s", dst)
	}
	if len(entries) != 1 || !entries[0].IsDir() || !sameName(entries[0].Name(), filepath.Base(dst)) {
		return nil
	}
	inner := filepath.Join(dst, entries[0].Name())

	tmp, err := tempSibling(dst, cfg)
	if err != nil {
		return err
	}

	cfg.Logger().Debug("flatten: move inner directory aside", "from", inner, "to", tmp)
	if err := os.Rename(inner, tmp); err != nil {
		return errors.Wrapf(err, "cannot move %s to %s", inner, tmp)
	}

	exchanged, err := exchangeDirs(tmp, dst)
	if err != nil {
		return errors.Wrapf(err, "cannot exchange %s and %s", tmp, dst)
	}
	if exchanged {
		// tmp now holds the empty outer directory
		cfg.Logger().Debug("flatten: exchanged directories", "dst", dst, "tmp", tmp)
		if err := os.Remove(tmp); err != nil {
			return errors.Wrapf(err, "cannot remove %s", tmp)
		}
		return nil
	}

	// interrupting the next two steps leaves the contents in tmp
	cfg.Logger().Debug("flatten: remove outer directory", "path", dst)
	if err := os.Remove(dst); err != nil {
		return errors.Wrapf(err, "cannot remove %s", dst)
	}
	cfg.Logger().Debug("flatten: move inner directory into place", "from", tmp, "to", dst)
	if err := os.Rename(tmp, dst); err != nil {
		return errors.Wrapf(err, "cannot move %s to %s", tmp, dst)
	}
	return nil
}

// tempSibling returns an unused path next to dst.
func tempSibling(dst string, cfg *Config) (string, error) {
	for i := 0; i < maxTempAttempts; i++ {
		tmp := dst + cfg.TempSuffix()
		if _, err := os.Lstat(tmp); os.IsNotExist(err) {
			return tmp, nil
		}
	}
	return "", errors.Errorf("cannot find an unused temporary name next to %s", dst)
}

// sameName reports whether a and b name the same file system entry. Names
// are compared case-insensitively where the file system usually is.
func sameName(a, b string) bool {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
