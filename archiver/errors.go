// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import "github.com/pkg/errors"

var (
	// ErrUnsupportedFormat is returned if the engine cannot create or unpack
	// archives of the requested format.
	ErrUnsupportedFormat = errors.New("unsupported archive format")

	// ErrArchiveExists is returned if the archive to create already exists and
	// overwriting is disabled.
	ErrArchiveExists = errors.New("archive already exists")

	// ErrNoInputs is returned if an archive should be created from nothing.
	ErrNoInputs = errors.New("no inputs to compress")

	// ErrInvalidHeader is returned if the compressed stream does not start with
	// the magic bytes of the filter derived from the archive name.
	ErrInvalidHeader = errors.New("invalid archive header")

	// ErrMaxFilesExceeded is returned if the maximum number of files is exceeded.
	ErrMaxFilesExceeded = errors.New("maximum files exceeded")

	// ErrMaxExtractionSizeExceeded is returned if the maximum size over all
	// extracted files is exceeded.
	ErrMaxExtractionSizeExceeded = errors.New("maximum extraction size exceeded")

	// ErrMaxInputSizeExceeded is returned if the archive is larger than allowed.
	ErrMaxInputSizeExceeded = errors.New("maximum input size exceeded")

	// ErrUnsupportedFile is returned if an archive entry cannot be extracted,
	// e.g. devices, fifos or denied symlinks.
	ErrUnsupportedFile = errors.New("unsupported file")
)

// unsupportedFile returns an error that names the skipped entry and wraps
// [ErrUnsupportedFile].
func unsupportedFile(name string) error {
	return errors.Wrapf(ErrUnsupportedFile, "cannot extract %s", name)
}
