// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-xwim/format"
	"github.com/pkg/errors"
)

// capability describes what the engine can do with a format.
type capability struct {
	unpack unpackFunc
	pack   packFunc
}

// capabilities lists every format the engine can handle. Formats without an
// entry, e.g. tar.lz and tar.Z, are recognized by name but unsupported.
var capabilities = map[format.Format]capability{
	format.Tar:       {unpack: unpackTar("tar", nil), pack: packTar(nil)},
	format.TarBzip2:  tarCapability(format.TarBzip2),
	format.TarGzip:   tarCapability(format.TarGzip),
	format.TarXz:     tarCapability(format.TarXz),
	format.TarZstd:   tarCapability(format.TarZstd),
	format.TarLz4:    tarCapability(format.TarLz4),
	format.TarBrotli: tarCapability(format.TarBrotli),
	format.TarSnappy: tarCapability(format.TarSnappy),
	format.Zip:       {unpack: unpackZip, pack: packZip},
	format.SevenZip:  {unpack: unpackSevenZip},
	format.Rar:       {unpack: unpackRar},
}

// tarCapability returns the capability of a tar format with a filter.
func tarCapability(f format.Format) capability {
	flt, ok := availableFilters[f.Filter()]
	if !ok {
		panic("no filter for " + f.String())
	}
	return capability{unpack: unpackTar(f.String(), flt), pack: packTar(flt)}
}

// CanCompress returns true if the engine can create archives of format f.
func CanCompress(f format.Format) bool {
	return capabilities[f].pack != nil
}

// CanExtract returns true if the engine can unpack archives of format f.
func CanExtract(f format.Format) bool {
	return capabilities[f].unpack != nil
}

// Engine creates and unpacks archives on the local filesystem. The format
// is always derived from the archive name.
type Engine struct {
	cfg    *Config
	target Target
}

// New returns an Engine that uses cfg. A nil cfg selects the defaults of
// [NewConfig].
func New(cfg *Config) *Engine {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Engine{cfg: cfg, target: NewTargetDisk()}
}

// Compress creates archive from inputs. Inputs are added in sorted order,
// each one as a top-level entry. The archive is written to a temporary file
// next to archive and renamed on success, so a failed compression leaves no
// partial archive behind.
func (e *Engine) Compress(ctx context.Context, inputs []string, archive string) (err error) {
	f := format.Resolve(archive)
	c := capabilities[f]
	if c.pack == nil {
		return errors.Wrapf(ErrUnsupportedFormat, "cannot create %s archive %s", f, archive)
	}
	if len(inputs) == 0 {
		return ErrNoInputs
	}

	if _, err := os.Lstat(archive); err == nil && !e.cfg.Overwrite() {
		return errors.Wrapf(ErrArchiveExists, "%s", archive)
	}

	m := &Metrics{Operation: OperationCompress, ArchiveType: f.String()}
	defer e.cfg.MetricsHook()(ctx, m)
	defer captureDuration(m, now())

	sorted := append([]string(nil), inputs...)
	sort.Strings(sorted)

	entries, err := collectEntries(sorted, archive, e.cfg, m)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(archive), "."+filepath.Base(archive)+".*")
	if err != nil {
		return errors.Wrapf(err, "cannot create temporary file for %s", archive)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	e.cfg.Logger().Info("compressing", "type", f.String(), "archive", archive, "inputs", len(sorted))
	cw := &countingWriter{W: tmp}
	bw := bufio.NewWriter(cw)
	if err = c.pack(ctx, bw, entries, e.cfg, m); err != nil {
		return errors.Wrapf(err, "cannot compress %s", archive)
	}
	if err = bw.Flush(); err != nil {
		return errors.Wrapf(err, "cannot write %s", archive)
	}
	m.ArchiveSize = cw.N

	if err = tmp.Chmod(e.cfg.CustomArchiveFileMode()); err != nil {
		return errors.Wrapf(err, "cannot set mode of %s", archive)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "cannot close %s", archive)
	}
	if err = os.Rename(tmp.Name(), archive); err != nil {
		return errors.Wrapf(err, "cannot move archive into place at %s", archive)
	}
	return nil
}

// Extract unpacks archive into dst. dst is created if it does not exist.
func (e *Engine) Extract(ctx context.Context, archive string, dst string) error {
	f := format.Resolve(archive)
	c := capabilities[f]
	if c.unpack == nil {
		return errors.Wrapf(ErrUnsupportedFormat, "cannot extract %s archive %s", f, archive)
	}

	file, err := os.Open(archive)
	if err != nil {
		return errors.Wrapf(err, "cannot open %s", archive)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return errors.Wrapf(err, "cannot stat %s", archive)
	}
	if stat.IsDir() {
		return errors.Errorf("%s is a directory", archive)
	}

	return c.unpack(ctx, e.target, dst, &archiveFile{File: file, size: stat.Size()}, e.cfg)
}

// archiveFile is an opened archive of known size.
type archiveFile struct {
	*os.File
	size int64
}

// Size returns the size of the archive at open time.
func (a *archiveFile) Size() int64 {
	return a.size
}
