// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import "io"

// noopReaderCloser implements io.ReadCloser with a no-op Close, so that
// entries of streaming archives do not close the archive reader.
type noopReaderCloser struct {
	io.Reader
}

// Close is a no-op.
func (n *noopReaderCloser) Close() error {
	return nil
}
