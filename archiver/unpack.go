// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// unpackFunc extracts the archive src to dst.
type unpackFunc func(ctx context.Context, t Target, dst string, src archiveSource, cfg *Config) error

// archiveSource is an opened archive file.
type archiveSource interface {
	io.Reader
	io.ReaderAt
	Name() string
	Size() int64
}

// dirTimes remembers the times of an extracted directory. They are applied
// after all entries are written, because creating entries changes them.
type dirTimes struct {
	path  string
	atime time.Time
	mtime time.Time
}

// handleError increases the error counter, sets the latest error and
// decides if extraction should continue.
func handleError(c *Config, m *Metrics, msg string, err error) error {
	m.ExtractionErrors++
	m.LastExtractionError = errors.Wrap(err, msg)

	if c.ContinueOnError() {
		c.Logger().Error(msg, "error", err)
		return nil
	}
	return m.LastExtractionError
}

// abort records err in m and returns it regardless of the continue-on-error
// policy. It is used for failures that leave nothing to continue with.
func abort(m *Metrics, msg string, err error) error {
	m.ExtractionErrors++
	m.LastExtractionError = errors.Wrap(err, msg)
	return m.LastExtractionError
}

// compilePatterns compiles glob patterns with '/' as separator.
func compilePatterns(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %q", p)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// matchAny returns true if name matches one of globs. Trailing slashes of
// directory names are ignored.
func matchAny(globs []glob.Glob, name string) bool {
	name = strings.TrimSuffix(name, "/")
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// extract checks ctx for cancellation, while it walks src and writes every
// entry to dst on t.
func extract(ctx context.Context, t Target, dst string, src archiveWalker, cfg *Config, m *Metrics) error {
	// check if dst needs to be created
	if err := createDir(t, dst, ".", cfg.CustomCreateDirMode(), cfg); err != nil {
		return abort(m, "cannot create destination", err)
	}

	var patterns []glob.Glob
	if len(cfg.Patterns()) > 0 {
		var err error
		if patterns, err = compilePatterns(cfg.Patterns()); err != nil {
			return abort(m, "cannot compile patterns", err)
		}
	}

	cfg.Logger().Info("start extraction", "type", src.Type(), "dst", dst)
	var objectCounter int64
	var extractedBytes int64
	var dirs []dirTimes

	for {
		if err := ctx.Err(); err != nil {
			return abort(m, "context error", err)
		}

		ae, err := src.Next()

		switch {

		// if no more files are found exit loop
		case err == io.EOF:
			if !cfg.DropFileAttributes() {
				setDirTimes(t, dirs, cfg)
			}
			return nil

		// return any other error
		case err != nil:
			return handleError(cfg, m, "error reading", err)

		case ae == nil:
			continue
		}

		// check if maximum of objects is exceeded
		objectCounter++
		if err := cfg.CheckMaxFiles(objectCounter); err != nil {
			return handleError(cfg, m, "max objects check failed", err)
		}

		// check if file needs to match patterns
		if patterns != nil && !matchAny(patterns, ae.Name()) {
			cfg.Logger().Debug("skipping file (pattern mismatch)", "name", ae.Name())
			m.PatternMismatches++
			continue
		}

		cfg.Logger().Debug("extract", "name", ae.Name())
		switch {

		case ae.IsDir():
			if err := createDir(t, dst, ae.Name(), ae.Mode().Perm()|0o700, cfg); err != nil {
				if err := handleError(cfg, m, "failed to create safe directory", err); err != nil {
					return err
				}
				continue
			}
			dirs = append(dirs, dirTimes{filepath.Join(dst, localPath(ae.Name())), accessTime(ae), ae.ModTime()})
			m.ExtractedDirs++

		case ae.IsRegular():
			if err := cfg.CheckExtractionSize(extractedBytes + ae.Size()); err != nil {
				return handleError(cfg, m, "max extraction size exceeded", err)
			}

			fin, err := ae.Open()
			if err != nil {
				return handleError(cfg, m, "failed to open file", err)
			}

			remaining := int64(-1)
			if cfg.MaxExtractionSize() >= 0 {
				remaining = cfg.MaxExtractionSize() - extractedBytes
			}
			n, err := createFile(t, dst, ae.Name(), fin, ae.Mode(), remaining, cfg)
			fin.Close()
			extractedBytes += n
			m.ExtractionSize = extractedBytes
			if err != nil {
				if errors.Is(err, io.ErrShortWrite) {
					err = errors.Wrap(ErrMaxExtractionSizeExceeded, err.Error())
				}
				if err := handleError(cfg, m, "failed to create file", err); err != nil {
					return err
				}
				continue
			}

			if !cfg.DropFileAttributes() && !ae.ModTime().IsZero() {
				path := filepath.Join(dst, localPath(ae.Name()))
				if err := t.Chtimes(path, accessTime(ae), ae.ModTime()); err != nil {
					cfg.Logger().Warn("cannot set file times", "path", path, "error", err)
				}
			}
			m.ExtractedFiles++

		case ae.IsSymlink():
			if cfg.DenySymlinkExtraction() {
				if cfg.ContinueOnUnsupportedFiles() {
					cfg.Logger().Info("skipped symlink extraction", "name", ae.Name(), "target", ae.Linkname())
					m.UnsupportedFiles++
					m.LastUnsupportedFile = ae.Name()
					continue
				}
				if err := handleError(cfg, m, "symlinks are not allowed", unsupportedFile(ae.Name())); err != nil {
					return err
				}
				continue
			}

			if err := createSymlink(t, dst, ae.Name(), ae.Linkname(), cfg); err != nil {
				if err := handleError(cfg, m, "failed to create symlink", err); err != nil {
					return err
				}
				continue
			}

			if !cfg.DropFileAttributes() && !ae.ModTime().IsZero() {
				path := filepath.Join(dst, localPath(ae.Name()))
				if err := t.Lchtimes(path, accessTime(ae), ae.ModTime()); err != nil {
					cfg.Logger().Warn("cannot set symlink times", "path", path, "error", err)
				}
			}
			m.ExtractedSymlinks++

		default:
			if cfg.ContinueOnUnsupportedFiles() {
				cfg.Logger().Info("skipping unsupported file", "name", ae.Name(), "type", ae.Type())
				m.UnsupportedFiles++
				m.LastUnsupportedFile = ae.Name()
				continue
			}
			if err := handleError(cfg, m, "cannot extract file", unsupportedFile(ae.Name())); err != nil {
				return err
			}
		}
	}
}

// setDirTimes applies the recorded directory times, deepest first.
func setDirTimes(t Target, dirs []dirTimes, cfg *Config) {
	for i := len(dirs) - 1; i >= 0; i-- {
		d := dirs[i]
		if d.mtime.IsZero() {
			continue
		}
		if err := t.Chtimes(d.path, d.atime, d.mtime); err != nil {
			cfg.Logger().Warn("cannot set directory times", "path", d.path, "error", err)
		}
	}
}

// accessTime returns the access time of ae, falling back to the modification
// time for formats that do not record it.
func accessTime(ae archiveEntry) time.Time {
	if at := ae.AccessTime(); !at.IsZero() {
		return at
	}
	return ae.ModTime()
}
