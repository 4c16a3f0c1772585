// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import (
	"io"

	"github.com/pkg/errors"
)

// headerReader is an implementation of io.Reader that allows the first bytes of
// the reader to be read twice. It is used to verify magic bytes before a
// decompressor consumes the stream.
type headerReader struct {
	r      io.Reader
	header []byte
	peeked []byte
}

func newHeaderReader(r io.Reader, headerSize int) (*headerReader, error) {
	// read at least headerSize bytes. If EOF, capture whatever was read.
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, errors.Wrap(err, "cannot read header")
	}
	return &headerReader{r: r, header: buf[:n], peeked: buf[:n]}, nil
}

func (p *headerReader) Read(b []byte) (int, error) {
	if len(p.header) > 0 {
		n := copy(b, p.header)
		p.header = p.header[n:]
		return n, nil
	}
	return p.r.Read(b)
}

// PeekHeader returns the bytes read at construction.
func (p *headerReader) PeekHeader() []byte {
	return p.peeked
}
