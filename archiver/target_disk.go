// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import (
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/pkg/errors"
)

// TargetDisk is the [Target] that writes to the local filesystem.
type TargetDisk struct{}

// NewTargetDisk creates a new TargetDisk.
func NewTargetDisk() *TargetDisk {
	return &TargetDisk{}
}

// CreateDir creates a directory at the specified path with the specified mode. If the directory already
// exists, nothing is done.
func (d *TargetDisk) CreateDir(path string, mode fs.FileMode) error {
	if err := os.MkdirAll(path, mode.Perm()); err != nil {
		return errors.Wrap(err, "failed to create directory")
	}
	return nil
}

// CreateFile creates a file at the specified path with src as content. An
// existing file is only replaced if overwrite is true. At most maxSize bytes
// are written, unless maxSize < 0.
func (d *TargetDisk) CreateFile(path string, src io.Reader, mode fs.FileMode, overwrite bool, maxSize int64) (int64, error) {
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		if err != nil {
			return 0, errors.Wrap(err, "invalid path")
		}
		if !overwrite {
			return 0, errors.Errorf("file %s already exists", path)
		}
	}

	dstFile, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return 0, errors.Wrap(err, "failed to create file")
	}
	defer dstFile.Close()

	n, err := io.Copy(limitWriter(dstFile, maxSize), src)
	if err != nil {
		return n, errors.Wrap(err, "failed to write file")
	}
	return n, nil
}

// CreateSymlink creates a symbolic link from newname to oldname. If
// newname already exists and overwrite is false, an error is returned.
func (d *TargetDisk) CreateSymlink(oldname string, newname string, overwrite bool) error {
	if _, err := os.Lstat(newname); !os.IsNotExist(err) {
		if !overwrite {
			return errors.Errorf("file %s already exists", newname)
		}
		if err := os.Remove(newname); err != nil {
			return errors.Wrap(err, "failed to overwrite file")
		}
	}

	if err := os.Symlink(oldname, newname); err != nil {
		return errors.Wrap(err, "failed to create symlink")
	}
	return nil
}

// Lstat returns the FileInfo structure describing the named file.
func (d *TargetDisk) Lstat(name string) (fs.FileInfo, error) {
	return os.Lstat(name)
}

// Chtimes changes the access and modification times of the named file.
func (d *TargetDisk) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(name, atime, mtime)
}

// Lchtimes changes the access and modification times of a symlink. It is a
// no-op on platforms that cannot change symlink times.
func (d *TargetDisk) Lchtimes(name string, atime, mtime time.Time) error {
	if canMaintainSymlinkTimestamps {
		return lchtimes(name, atime, mtime)
	}
	return nil
}
