// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// filter is a stream compression that wraps a tar container.
type filter struct {
	// name is the extension of the filter without the dot, e.g. "gz"
	name string

	// magicBytes the compressed stream starts with. An empty list disables
	// the header check, e.g. for brotli which has no magic bytes.
	magicBytes [][]byte

	// newReader returns a decompressing reader for src
	newReader func(src io.Reader) (io.ReadCloser, error)

	// newWriter returns a compressing writer for dst. level -1 selects the
	// default of the filter.
	newWriter func(dst io.Writer, level int) (io.WriteCloser, error)
}

// checkHeader reports whether header starts with one of the magic bytes of f.
func (f *filter) checkHeader(header []byte) bool {
	if len(f.magicBytes) == 0 {
		return true
	}
	return matchesMagicBytes(header, 0, f.magicBytes)
}

// availableFilters holds all supported filters, keyed by their extension.
var availableFilters = map[string]*filter{
	"br": {
		name: "br",
		newReader: func(src io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(brotli.NewReader(src)), nil
		},
		newWriter: func(dst io.Writer, level int) (io.WriteCloser, error) {
			if level < 0 {
				level = brotli.DefaultCompression
			}
			return brotli.NewWriterLevel(dst, level), nil
		},
	},
	"bz2": {
		name: "bz2",
		magicBytes: [][]byte{
			[]byte("BZh1"), []byte("BZh2"), []byte("BZh3"),
			[]byte("BZh4"), []byte("BZh5"), []byte("BZh6"),
			[]byte("BZh7"), []byte("BZh8"), []byte("BZh9"),
		},
		newReader: func(src io.Reader) (io.ReadCloser, error) {
			return bzip2.NewReader(src, nil)
		},
		newWriter: func(dst io.Writer, level int) (io.WriteCloser, error) {
			// zero selects the default level
			if level < 0 {
				level = 0
			}
			return bzip2.NewWriter(dst, &bzip2.WriterConfig{Level: level})
		},
	},
	"gz": {
		name:       "gz",
		magicBytes: [][]byte{{0x1f, 0x8b}},
		newReader: func(src io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(src)
		},
		newWriter: func(dst io.Writer, level int) (io.WriteCloser, error) {
			if level < 0 {
				level = gzip.DefaultCompression
			}
			return gzip.NewWriterLevel(dst, level)
		},
	},
	"lz4": {
		name:       "lz4",
		magicBytes: [][]byte{{0x04, 0x22, 0x4D, 0x18}},
		newReader: func(src io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(lz4.NewReader(src)), nil
		},
		newWriter: func(dst io.Writer, level int) (io.WriteCloser, error) {
			w := lz4.NewWriter(dst)
			if level > 0 {
				if err := w.Apply(lz4.CompressionLevelOption(lz4Levels[min(level, len(lz4Levels)-1)])); err != nil {
					return nil, err
				}
			}
			return w, nil
		},
	},
	"sz": {
		name:       "sz",
		magicBytes: [][]byte{append([]byte{0xff, 0x06, 0x00, 0x00}, []byte("sNaPpY")...)},
		newReader: func(src io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(snappy.NewReader(src)), nil
		},
		newWriter: func(dst io.Writer, _ int) (io.WriteCloser, error) {
			return snappy.NewBufferedWriter(dst), nil
		},
	},
	"xz": {
		name:       "xz",
		magicBytes: [][]byte{{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}},
		newReader: func(src io.Reader) (io.ReadCloser, error) {
			r, err := xz.NewReader(src)
			if err != nil {
				return nil, err
			}
			return io.NopCloser(r), nil
		},
		newWriter: func(dst io.Writer, _ int) (io.WriteCloser, error) {
			return xz.NewWriter(dst)
		},
	},
	"zst": {
		name:       "zst",
		magicBytes: [][]byte{{0x28, 0xb5, 0x2f, 0xfd}},
		newReader: func(src io.Reader) (io.ReadCloser, error) {
			d, err := zstd.NewReader(src)
			if err != nil {
				return nil, err
			}
			return d.IOReadCloser(), nil
		},
		newWriter: func(dst io.Writer, level int) (io.WriteCloser, error) {
			var opts []zstd.EOption
			if level > 0 {
				opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
			}
			return zstd.NewWriter(dst, opts...)
		},
	},
}

// lz4Levels maps the levels 1 to 9 onto the lz4 compression levels.
var lz4Levels = []lz4.CompressionLevel{
	lz4.Fast,
	lz4.Level1, lz4.Level2, lz4.Level3,
	lz4.Level4, lz4.Level5, lz4.Level6,
	lz4.Level7, lz4.Level8, lz4.Level9,
}

// maxHeaderLength is the longest magic byte sequence of all filters.
var maxHeaderLength int

// init calculates the maximum header length
func init() {
	for _, f := range availableFilters {
		for _, mb := range f.magicBytes {
			if len(mb) > maxHeaderLength {
				maxHeaderLength = len(mb)
			}
		}
	}
}

// matchesMagicBytes checks if data contains one of magicBytes at offset.
func matchesMagicBytes(data []byte, offset int, magicBytes [][]byte) bool {
	for _, mb := range magicBytes {
		if offset+len(mb) > len(data) {
			continue
		}
		if bytes.Equal(mb, data[offset:offset+len(mb)]) {
			return true
		}
	}
	return false
}
