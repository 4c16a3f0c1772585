// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// packFunc writes entries as an archive to w.
type packFunc func(ctx context.Context, w io.Writer, entries []packEntry, cfg *Config, m *Metrics) error

// packEntry is a file system object that is added to an archive.
type packEntry struct {
	// path on disk
	path string

	// name is the slash separated name inside the archive
	name string

	// info is the result of os.Lstat on path
	info fs.FileInfo

	// link is the target of a symlink
	link string
}

// collectEntries walks every input and returns the entries of the archive in
// a stable order. Each input becomes a top-level entry named by its base name.
// skip is excluded from the walk, so an archive is never added to itself.
func collectEntries(inputs []string, skip string, cfg *Config, m *Metrics) ([]packEntry, error) {
	var excludes []glob.Glob
	if len(cfg.Excludes()) > 0 {
		var err error
		if excludes, err = compilePatterns(cfg.Excludes()); err != nil {
			return nil, err
		}
	}

	skipAbs, err := filepath.Abs(skip)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot resolve %s", skip)
	}

	var entries []packEntry
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot resolve %s", input)
		}
		parent := filepath.Dir(abs)

		walkErr := filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p == skipAbs {
				return nil
			}

			rel, err := filepath.Rel(parent, p)
			if err != nil {
				return err
			}
			// the file system root has no name of its own
			if rel == "." {
				return nil
			}
			name := filepath.ToSlash(rel)

			if excludes != nil && (matchAny(excludes, name) || matchAny(excludes, path.Base(name))) {
				cfg.Logger().Debug("skipping excluded file", "name", name)
				m.ExcludedFiles++
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			info, err := os.Lstat(p)
			if err != nil {
				return err
			}

			e := packEntry{path: p, name: name, info: info}
			switch {
			case info.Mode()&fs.ModeSymlink != 0:
				if e.link, err = os.Readlink(p); err != nil {
					return err
				}
			case info.IsDir(), info.Mode().IsRegular():
			default:
				if cfg.ContinueOnUnsupportedFiles() {
					cfg.Logger().Info("skipping unsupported file", "name", name, "type", info.Mode().Type())
					m.UnsupportedFiles++
					m.LastUnsupportedFile = name
					return nil
				}
				return unsupportedFile(p)
			}
			entries = append(entries, e)
			return nil
		})
		if walkErr != nil {
			return nil, errors.Wrapf(walkErr, "cannot walk %s", input)
		}
	}
	return entries, nil
}

// copyFile copies the content of the file at p to w.
func copyFile(w io.Writer, p string) (int64, error) {
	f, err := os.Open(p)
	if err != nil {
		return 0, errors.Wrapf(err, "cannot open %s", p)
	}
	defer f.Close()

	n, err := io.Copy(w, f)
	if err != nil {
		return n, errors.Wrapf(err, "cannot add %s", p)
	}
	return n, nil
}

// countPacked increases the counter of m matching the type of e.
func countPacked(m *Metrics, e packEntry) {
	switch {
	case e.link != "":
		m.PackedSymlinks++
	case e.info.IsDir():
		m.PackedDirs++
	default:
		m.PackedFiles++
	}
}
