// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import "io"

// limitErrorWriter is a wrapper around an io.Writer that returns io.ErrShortWrite
// when the limit is reached.
type limitErrorWriter struct {
	W io.Writer // underlying writer
	L int64     // limit
	N int64     // number of bytes written
}

// Write writes up to len(p) bytes from p to the underlying writer. The limit
// is enforced by returning io.ErrShortWrite.
func (l *limitErrorWriter) Write(p []byte) (n int, err error) {
	if l.N >= l.L {
		return 0, io.ErrShortWrite
	}

	if int64(len(p)) > l.L-l.N {
		n, err = l.W.Write(p[0 : l.L-l.N])
		if err == nil {
			err = io.ErrShortWrite
		}
		l.N += int64(n)
		return n, err
	}

	n, err = l.W.Write(p)
	l.N += int64(n)
	return n, err
}

// limitWriter returns w limited to maxSize bytes. Negative sizes disable the limit.
func limitWriter(w io.Writer, maxSize int64) io.Writer {
	if maxSize < 0 {
		return w
	}
	return &limitErrorWriter{W: w, L: maxSize}
}

// countingWriter counts the bytes written to W.
type countingWriter struct {
	W io.Writer
	N int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.W.Write(p)
	c.N += int64(n)
	return n, err
}
