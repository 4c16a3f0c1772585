// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import (
	"archive/tar"
	"context"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/pkg/errors"
)

// unpackTar returns an unpackFunc for tar archives wrapped in f. A nil filter
// reads a plain tar archive.
func unpackTar(archiveType string, f *filter) unpackFunc {
	return func(ctx context.Context, t Target, dst string, src archiveSource, cfg *Config) error {
		m := &Metrics{Operation: OperationExtract, ArchiveType: archiveType}
		defer cfg.MetricsHook()(ctx, m)
		defer captureDuration(m, now())

		limitedReader := newLimitErrorReader(src, cfg.MaxInputSize())
		defer captureInputSize(m, limitedReader)

		var r io.Reader = limitedReader
		if f != nil {
			hr, err := newHeaderReader(limitedReader, maxHeaderLength)
			if err != nil {
				return abort(m, "cannot read header", err)
			}
			if !f.checkHeader(hr.PeekHeader()) {
				return abort(m, "cannot decompress", errors.Wrapf(ErrInvalidHeader, "%s is not %s compressed", src.Name(), f.name))
			}
			dr, err := f.newReader(hr)
			if err != nil {
				return abort(m, "cannot start decompression", err)
			}
			defer dr.Close()
			r = dr
		}

		cfg.Logger().Info("extracting tar", "type", archiveType, "archive", src.Name())
		return extract(ctx, t, dst, &tarWalker{tr: tar.NewReader(r), typ: archiveType}, cfg, m)
	}
}

// tarWalker is a walker for tar files
type tarWalker struct {
	tr  *tar.Reader
	typ string
}

// Type returns the archive type
func (t *tarWalker) Type() string {
	return t.typ
}

// Next returns the next entry in the tar archive
func (t *tarWalker) Next() (archiveEntry, error) {
	hdr, err := t.tr.Next()
	if err != nil {
		return nil, err
	}
	return &tarEntry{hdr, t.tr}, nil
}

// tarEntry is an entry in a tar archive
type tarEntry struct {
	hdr *tar.Header
	tr  *tar.Reader
}

func (t *tarEntry) Name() string {
	return t.hdr.Name
}

func (t *tarEntry) Size() int64 {
	return t.hdr.Size
}

func (t *tarEntry) Mode() os.FileMode {
	return t.hdr.FileInfo().Mode()
}

func (t *tarEntry) Linkname() string {
	return t.hdr.Linkname
}

func (t *tarEntry) IsRegular() bool {
	return t.hdr.Typeflag == tar.TypeReg
}

func (t *tarEntry) IsDir() bool {
	return t.hdr.Typeflag == tar.TypeDir
}

func (t *tarEntry) IsSymlink() bool {
	return t.hdr.Typeflag == tar.TypeSymlink
}

// Open returns a reader for the entry. Closing it does not close the archive.
func (t *tarEntry) Open() (io.ReadCloser, error) {
	return &noopReaderCloser{t.tr}, nil
}

func (t *tarEntry) Type() fs.FileMode {
	return t.hdr.FileInfo().Mode().Type()
}

func (t *tarEntry) AccessTime() time.Time {
	return t.hdr.AccessTime
}

func (t *tarEntry) ModTime() time.Time {
	return t.hdr.ModTime
}

// packTar returns a packFunc that writes a tar archive through f. A nil
// filter writes a plain tar archive.
func packTar(f *filter) packFunc {
	return func(ctx context.Context, w io.Writer, entries []packEntry, cfg *Config, m *Metrics) error {
		out := w
		var fw io.WriteCloser
		if f != nil {
			var err error
			if fw, err = f.newWriter(w, cfg.CompressionLevel()); err != nil {
				return errors.Wrapf(err, "cannot start %s compression", f.name)
			}
			out = fw
		}

		tw := tar.NewWriter(out)
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}

			hdr, err := tar.FileInfoHeader(e.info, e.link)
			if err != nil {
				return errors.Wrapf(err, "cannot create header for %s", e.path)
			}
			hdr.Name = e.name
			if e.info.IsDir() {
				hdr.Name += "/"
			}
			if err := tw.WriteHeader(hdr); err != nil {
				return errors.Wrapf(err, "cannot write header for %s", e.path)
			}

			if e.info.Mode().IsRegular() {
				n, err := copyFile(tw, e.path)
				if err != nil {
					return err
				}
				m.PackedSize += n
			}
			countPacked(m, e)
			cfg.Logger().Debug("packed", "name", hdr.Name)
		}

		if err := tw.Close(); err != nil {
			return errors.Wrap(err, "cannot finish tar archive")
		}
		if fw != nil {
			if err := fw.Close(); err != nil {
				return errors.Wrapf(err, "cannot finish %s compression", f.name)
			}
		}
		return nil
	}
}
