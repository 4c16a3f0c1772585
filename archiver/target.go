// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Target specifies all functions the engine needs to write extracted entries.
type Target interface {
	// CreateFile creates a file at path with src as content. If the file already
	// exists and overwrite is false, an error is returned. The size of the file
	// must not exceed maxSize, unless maxSize < 0. The number of written bytes is
	// returned, also on error.
	CreateFile(path string, src io.Reader, mode fs.FileMode, overwrite bool, maxSize int64) (int64, error)

	// CreateDir creates path with mode. Existing directories are left untouched.
	CreateDir(path string, mode fs.FileMode) error

	// CreateSymlink creates newname as a symbolic link to oldname. If newname
	// already exists and overwrite is false, an error is returned.
	CreateSymlink(oldname string, newname string, overwrite bool) error

	// Lstat see docs for os.Lstat. Used to detect symlinks in the extraction path.
	Lstat(path string) (fs.FileInfo, error)

	// Chtimes see docs for os.Chtimes.
	Chtimes(name string, atime, mtime time.Time) error

	// Lchtimes changes the times of a symlink itself.
	Lchtimes(name string, atime, mtime time.Time) error
}

// createFile is a wrapper around the CreateFile function of t.
//
// The parent directories of name are created with the config.CustomCreateDirMode().
// If the path contains path traversal or a symlink (unless traversal is
// configured), an error is returned.
func createFile(t Target, dst string, name string, src io.Reader, mode fs.FileMode, maxSize int64, cfg *Config) (int64, error) {
	if len(name) == 0 {
		return 0, errors.New("cannot create file without name")
	}

	name = localPath(name)

	// ensures that the directory exists and is safe to write to
	if err := createDir(t, dst, filepath.Dir(name), cfg.CustomCreateDirMode(), cfg); err != nil {
		return 0, errors.Wrap(err, "cannot create directory")
	}

	// ensure that an existing file is not a symlink
	if err := securityCheck(t, dst, name, cfg); err != nil {
		return 0, errors.Wrap(err, "security check path failed")
	}
	return t.CreateFile(filepath.Join(dst, name), src, mode, cfg.Overwrite(), maxSize)
}

// createDir is a wrapper around the CreateDir function of t.
//
// If dst does not exist, it is created when config.CreateDestination() is set.
// The path is checked for traversal and symlinks before the directory is
// created.
func createDir(t Target, dst string, name string, mode fs.FileMode, cfg *Config) error {
	if len(dst) > 0 {
		if _, err := t.Lstat(dst); os.IsNotExist(err) {
			if !cfg.CreateDestination() {
				return errors.Errorf("destination %s does not exist", dst)
			}
			if err := t.CreateDir(dst, cfg.CustomCreateDirMode()); err != nil {
				return errors.Wrap(err, "failed to create destination directory")
			}
			cfg.Logger().Info("created destination directory", "path", dst)
		}
	}

	if name == "." {
		return nil
	}

	if err := securityCheck(t, dst, name, cfg); err != nil {
		return errors.Wrap(err, "security check path failed")
	}

	return t.CreateDir(filepath.Join(dst, localPath(name)), mode)
}

// createSymlink is a wrapper around the CreateSymlink function of t.
//
// Symlinks are refused if extraction is denied, if the link target is absolute
// or if the link target escapes dst.
func createSymlink(t Target, dst string, name string, linkTarget string, cfg *Config) error {
	if cfg.DenySymlinkExtraction() {
		return unsupportedFile(name)
	}

	if len(name) == 0 {
		return errors.New("empty name")
	}

	if filepath.IsAbs(linkTarget) {
		return errors.Errorf("symlink with absolute path as target: %s", linkTarget)
	}

	name = localPath(name)
	linkDirectory := filepath.Dir(name)

	if err := createDir(t, dst, linkDirectory, cfg.CustomCreateDirMode(), cfg); err != nil {
		return errors.Wrapf(err, "cannot create directory %s for symlink", linkDirectory)
	}

	// the link has to resolve inside dst
	if err := securityCheck(t, dst, filepath.Join(linkDirectory, linkTarget), cfg); err != nil {
		return errors.Wrap(err, "symlink target security check path failed")
	}

	return t.CreateSymlink(linkTarget, filepath.Join(dst, name), cfg.Overwrite())
}

// securityCheck returns an error if path escapes dst or if any element of
// path below dst is a symlink. Symlinks are tolerated with a warning when
// config.TraverseSymlinks() is set.
func securityCheck(t Target, dst string, path string, cfg *Config) error {
	if len(dst) == 0 && filepath.IsAbs(path) {
		return errors.New("absolute path detected")
	}

	path = localPath(path)

	rel, err := filepath.Rel(dst, filepath.Join(dst, path))
	if err != nil {
		return errors.Wrap(err, "failed to get relative path")
	}
	if !filepath.IsLocal(rel) {
		return errors.New("path traversal detected")
	}

	elements := strings.Split(path, string(os.PathSeparator))
	for i := range elements {
		subDirs := filepath.Join(elements[0 : i+1]...)
		checkDir := filepath.Join(dst, subDirs)
		if len(checkDir) == 0 || checkDir == "." {
			continue
		}

		symlink, err := isSymlink(t, checkDir)
		if err != nil {
			return errors.Wrap(err, "failed to check symlink")
		}
		if !symlink {
			continue
		}
		if !cfg.TraverseSymlinks() {
			return errors.Errorf("symlink in path: %s", subDirs)
		}
		cfg.Logger().Warn("traverse symlink", "sub-dir", subDirs)
	}

	return nil
}

// isSymlink returns true if path exists and is a symlink.
func isSymlink(t Target, path string) (bool, error) {
	stat, err := t.Lstat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "invalid path")
	}
	return stat.Mode()&os.ModeSymlink == os.ModeSymlink, nil
}

// localPath converts a slash separated archive name into a platform path.
func localPath(name string) string {
	return filepath.Join(strings.Split(name, "/")...)
}
