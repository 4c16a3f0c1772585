// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import (
	"context"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/bodgit/sevenzip"
	"github.com/pkg/errors"
)

// unpackSevenZip extracts the 7z archive src to dst.
func unpackSevenZip(ctx context.Context, t Target, dst string, src archiveSource, cfg *Config) error {
	m := &Metrics{Operation: OperationExtract, ArchiveType: "7z"}
	defer cfg.MetricsHook()(ctx, m)
	defer captureDuration(m, now())

	size := src.Size()
	m.InputSize = size
	if cfg.MaxInputSize() != -1 && size > cfg.MaxInputSize() {
		return abort(m, "cannot unpack 7z", errors.Wrapf(ErrMaxInputSizeExceeded, "%s has %d bytes", src.Name(), size))
	}

	reader, err := sevenzip.NewReader(src, size)
	if err != nil {
		return abort(m, "cannot create 7z reader", err)
	}

	cfg.Logger().Info("extracting 7z", "archive", src.Name())
	return extract(ctx, t, dst, &sevenZipWalker{r: reader}, cfg, m)
}

type sevenZipWalker struct {
	r  *sevenzip.Reader
	fp int
}

func (z *sevenZipWalker) Type() string {
	return "7z"
}

func (z *sevenZipWalker) Next() (archiveEntry, error) {
	if z.fp >= len(z.r.File) {
		return nil, io.EOF
	}
	defer func() { z.fp++ }()
	return &sevenZipEntry{z.r.File[z.fp]}, nil
}

type sevenZipEntry struct {
	f *sevenzip.File
}

func (z *sevenZipEntry) Name() string {
	return z.f.Name
}

func (z *sevenZipEntry) Size() int64 {
	return z.f.FileInfo().Size()
}

func (z *sevenZipEntry) Mode() os.FileMode {
	return z.f.FileInfo().Mode()
}

// Linkname is empty, symlinks are extracted as regular files by the reader.
func (z *sevenZipEntry) Linkname() string {
	return ""
}

func (z *sevenZipEntry) IsRegular() bool {
	return z.f.FileInfo().Mode().IsRegular()
}

func (z *sevenZipEntry) IsDir() bool {
	return z.f.FileInfo().Mode().IsDir()
}

func (z *sevenZipEntry) IsSymlink() bool {
	return false
}

func (z *sevenZipEntry) Open() (io.ReadCloser, error) {
	return z.f.Open()
}

func (z *sevenZipEntry) Type() fs.FileMode {
	return z.f.FileInfo().Mode().Type()
}

func (z *sevenZipEntry) AccessTime() time.Time {
	return z.f.FileInfo().ModTime()
}

func (z *sevenZipEntry) ModTime() time.Time {
	return z.f.FileInfo().ModTime()
}
