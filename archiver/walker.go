// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import (
	"io"
	"io/fs"
	"time"
)

// archiveWalker iterates over the entries of an archive.
type archiveWalker interface {
	Type() string
	Next() (archiveEntry, error)
}

// archiveEntry is a single entry of an archive.
type archiveEntry interface {
	Name() string
	Size() int64
	Mode() fs.FileMode
	Linkname() string
	IsRegular() bool
	IsDir() bool
	IsSymlink() bool
	Open() (io.ReadCloser, error)
	Type() fs.FileMode
	AccessTime() time.Time
	ModTime() time.Time
}
