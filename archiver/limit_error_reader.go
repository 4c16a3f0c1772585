// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import (
	"io"

	"github.com/pkg/errors"
)

// limitErrorReader is a reader that returns an error wrapping
// [ErrMaxInputSizeExceeded] if the limit is exceeded before the underlying
// reader is fully read. If the limit is -1, all data is read.
type limitErrorReader struct {
	R io.Reader // underlying reader
	L int64     // limit
	N int64     // number of bytes read
}

// Read reads from the underlying reader and fills up p.
func (l *limitErrorReader) Read(p []byte) (int, error) {
	m := l.L - l.N
	if l.L == -1 || m > int64(len(p)) {
		m = int64(len(p))
	}

	if m == 0 && len(p) > 0 {
		// an input of exactly L bytes is fine
		var probe [1]byte
		n, err := l.R.Read(probe[:])
		if n == 0 {
			return 0, err
		}
		return 0, errors.Wrapf(ErrMaxInputSizeExceeded, "read limit of %d bytes exceeded", l.L)
	}

	// preserve error type of the underlying reader
	n, err := l.R.Read(p[:m])
	l.N += int64(n)
	return n, err
}

// ReadBytes returns how many bytes have been read from the underlying reader
func (l *limitErrorReader) ReadBytes() int {
	return int(l.N)
}

// newLimitErrorReader returns a new limitErrorReader that reads from r
func newLimitErrorReader(r io.Reader, limit int64) *limitErrorReader {
	return &limitErrorReader{R: r, L: limit}
}
