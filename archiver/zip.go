// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import (
	"archive/zip"
	"context"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"
)

// unpackZip extracts the zip archive src to dst.
func unpackZip(ctx context.Context, t Target, dst string, src archiveSource, cfg *Config) error {
	m := &Metrics{Operation: OperationExtract, ArchiveType: "zip"}
	defer cfg.MetricsHook()(ctx, m)
	defer captureDuration(m, now())

	size := src.Size()
	m.InputSize = size
	if cfg.MaxInputSize() != -1 && size > cfg.MaxInputSize() {
		return abort(m, "cannot unpack zip", errors.Wrapf(ErrMaxInputSizeExceeded, "%s has %d bytes", src.Name(), size))
	}

	reader, err := zip.NewReader(src, size)
	if err != nil {
		return abort(m, "cannot create zip reader", err)
	}

	cfg.Logger().Info("extracting zip", "archive", src.Name())
	return extract(ctx, t, dst, &zipWalker{zr: reader}, cfg, m)
}

// zipWalker is a walker for zip files
type zipWalker struct {
	zr *zip.Reader
	fp int
}

// Type returns the archive type
func (z *zipWalker) Type() string {
	return "zip"
}

// Next returns the next entry in the zip archive
func (z *zipWalker) Next() (archiveEntry, error) {
	if z.fp >= len(z.zr.File) {
		return nil, io.EOF
	}
	defer func() { z.fp++ }()
	return &zipEntry{z.zr.File[z.fp]}, nil
}

// zipEntry is an entry in a zip archive
type zipEntry struct {
	zf *zip.File
}

func (z *zipEntry) Name() string {
	return z.zf.Name
}

func (z *zipEntry) Size() int64 {
	return int64(z.zf.UncompressedSize64)
}

func (z *zipEntry) Mode() os.FileMode {
	return z.zf.Mode()
}

// Linkname returns the content of a symlink entry, which is its target.
func (z *zipEntry) Linkname() string {
	rc, err := z.zf.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()
	data, _ := io.ReadAll(io.LimitReader(rc, 4096))
	return string(data)
}

func (z *zipEntry) IsRegular() bool {
	return z.zf.Mode().Type() == 0 && !strings.HasSuffix(z.zf.Name, "/")
}

func (z *zipEntry) IsDir() bool {
	return z.zf.Mode().IsDir() || strings.HasSuffix(z.zf.Name, "/")
}

func (z *zipEntry) IsSymlink() bool {
	return z.zf.Mode().Type() == os.ModeSymlink
}

func (z *zipEntry) Open() (io.ReadCloser, error) {
	return z.zf.Open()
}

func (z *zipEntry) Type() fs.FileMode {
	return z.zf.Mode().Type()
}

// AccessTime is not recorded by zip.
func (z *zipEntry) AccessTime() time.Time {
	return time.Time{}
}

func (z *zipEntry) ModTime() time.Time {
	return z.zf.Modified
}

// packZip writes a zip archive of entries to w. Files are compressed with
// deflate at the configured level.
func packZip(ctx context.Context, w io.Writer, entries []packEntry, cfg *Config, m *Metrics) error {
	level := cfg.CompressionLevel()
	if level < 0 {
		level = flate.DefaultCompression
	}

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := zip.FileInfoHeader(e.info)
		if err != nil {
			return errors.Wrapf(err, "cannot create header for %s", e.path)
		}
		hdr.Name = e.name
		switch {
		case e.info.IsDir():
			hdr.Name += "/"
			hdr.Method = zip.Store
		case e.info.Mode().IsRegular():
			hdr.Method = zip.Deflate
		default:
			hdr.Method = zip.Store
		}

		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return errors.Wrapf(err, "cannot write header for %s", e.path)
		}

		switch {
		case e.info.Mode().IsRegular():
			n, err := copyFile(fw, e.path)
			if err != nil {
				return err
			}
			m.PackedSize += n
		case e.link != "":
			// zip stores the symlink target as content
			if _, err := io.WriteString(fw, e.link); err != nil {
				return errors.Wrapf(err, "cannot write symlink %s", e.path)
			}
		}
		countPacked(m, e)
		cfg.Logger().Debug("packed", "name", hdr.Name)
	}

	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "cannot finish zip archive")
	}
	return nil
}
