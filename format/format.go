// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package format

// Format is a combination of archive container and compression filter that
// is recognized by its file extension.
type Format int

const (
	// Unknown is the sentinel for paths that are not a recognized archive.
	Unknown Format = iota
	Tar
	TarBzip2
	TarGzip
	TarLzip
	TarXz
	TarCompress
	TarZstd
	TarLz4
	TarBrotli
	TarSnappy
	Zip
	SevenZip
	Rar
)

// formatNames holds the canonical spelling of every format.
var formatNames = map[Format]string{
	Unknown:     "unknown",
	Tar:         "tar",
	TarBzip2:    "tar.bz2",
	TarGzip:     "tar.gz",
	TarLzip:     "tar.lz",
	TarXz:       "tar.xz",
	TarCompress: "tar.Z",
	TarZstd:     "tar.zst",
	TarLz4:      "tar.lz4",
	TarBrotli:   "tar.br",
	TarSnappy:   "tar.sz",
	Zip:         "zip",
	SevenZip:    "7z",
	Rar:         "rar",
}

// String returns the canonical extension of f without the leading dot.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return formatNames[Unknown]
}

// Extension returns the canonical extension of f including the leading dot,
// or an empty string for [Unknown].
func (f Format) Extension() string {
	if f == Unknown {
		return ""
	}
	return "." + f.String()
}

// IsTar returns true if f is a tar container, optionally wrapped in a
// compression filter.
func (f Format) IsTar() bool {
	switch f {
	case Tar, TarBzip2, TarGzip, TarLzip, TarXz, TarCompress, TarZstd, TarLz4, TarBrotli, TarSnappy:
		return true
	}
	return false
}

// Filter returns the compression filter of a tar format, e.g. "gz" for
// [TarGzip]. Plain [Tar] and non-tar formats return an empty string.
func (f Format) Filter() string {
	if !f.IsTar() || f == Tar {
		return ""
	}
	return f.String()[len("tar."):]
}
