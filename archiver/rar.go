// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import (
	"context"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/nwaples/rardecode"
)

// unpackRar extracts the rar archive src to dst. Multi-volume archives are
// not supported.
func unpackRar(ctx context.Context, t Target, dst string, src archiveSource, cfg *Config) error {
	m := &Metrics{Operation: OperationExtract, ArchiveType: "rar"}
	defer cfg.MetricsHook()(ctx, m)
	defer captureDuration(m, now())

	limitedReader := newLimitErrorReader(src, cfg.MaxInputSize())
	defer captureInputSize(m, limitedReader)

	r, err := rardecode.NewReader(limitedReader, "")
	if err != nil {
		return abort(m, "cannot create rar decoder", err)
	}

	cfg.Logger().Info("extracting rar", "archive", src.Name())
	return extract(ctx, t, dst, &rarWalker{r}, cfg, m)
}

// rarWalker is an archiveWalker for rar files.
type rarWalker struct {
	r *rardecode.Reader
}

func (rw *rarWalker) Type() string {
	return "rar"
}

func (rw *rarWalker) Next() (archiveEntry, error) {
	fh, err := rw.r.Next()
	if err != nil {
		return nil, err
	}
	return &rarEntry{fh, rw.r}, nil
}

// rarEntry is an archiveEntry for rar files.
type rarEntry struct {
	f *rardecode.FileHeader
	r io.Reader
}

func (r *rarEntry) Name() string {
	return r.f.Name
}

func (r *rarEntry) Size() int64 {
	return r.f.UnPackedSize
}

func (r *rarEntry) Mode() os.FileMode {
	return r.f.Mode()
}

// Linkname symlinks are not supported.
func (r *rarEntry) Linkname() string {
	return ""
}

func (r *rarEntry) IsRegular() bool {
	return r.f.Mode().IsRegular()
}

func (r *rarEntry) IsDir() bool {
	return r.f.IsDir
}

func (r *rarEntry) IsSymlink() bool {
	return false
}

func (r *rarEntry) Type() fs.FileMode {
	return r.f.Mode().Type()
}

// Open returns a reader for the current file of the archive.
func (r *rarEntry) Open() (io.ReadCloser, error) {
	return io.NopCloser(r.r), nil
}

func (r *rarEntry) AccessTime() time.Time {
	return r.f.AccessTime
}

func (r *rarEntry) ModTime() time.Time {
	return r.f.ModificationTime
}
