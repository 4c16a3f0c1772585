// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import (
	"context"
	"encoding/json"
	"time"
)

// Operations reported in [Metrics].
const (
	OperationCompress = "compress"
	OperationExtract  = "extract"
)

// Metrics holds the measurements of a single compression or extraction.
type Metrics struct {
	// Operation is either [OperationCompress] or [OperationExtract]
	Operation string `json:"operation"`

	// ArchiveType is the format of the archive, e.g. "tar.gz"
	ArchiveType string `json:"archive_type"`

	// Duration is the time the operation took
	Duration time.Duration `json:"duration"`

	// InputSize is the size of the archive read during extraction
	InputSize int64 `json:"input_size"`

	// ExtractedDirs is the number of extracted directories
	ExtractedDirs int64 `json:"extracted_dirs"`

	// ExtractedFiles is the number of extracted files
	ExtractedFiles int64 `json:"extracted_files"`

	// ExtractedSymlinks is the number of extracted symlinks
	ExtractedSymlinks int64 `json:"extracted_symlinks"`

	// ExtractionSize is the size of the extracted files
	ExtractionSize int64 `json:"extraction_size"`

	// ExtractionErrors is the number of errors during extraction
	ExtractionErrors int64 `json:"extraction_errors"`

	// LastExtractionError is the last error during extraction
	LastExtractionError error `json:"last_extraction_error"`

	// PatternMismatches is the number of entries skipped by patterns
	PatternMismatches int64 `json:"pattern_mismatches"`

	// UnsupportedFiles is the number of skipped unsupported files
	UnsupportedFiles int64 `json:"unsupported_files"`

	// LastUnsupportedFile is the last skipped unsupported file
	LastUnsupportedFile string `json:"last_unsupported_file"`

	// PackedDirs is the number of directories added to a created archive
	PackedDirs int64 `json:"packed_dirs"`

	// PackedFiles is the number of files added to a created archive
	PackedFiles int64 `json:"packed_files"`

	// PackedSymlinks is the number of symlinks added to a created archive
	PackedSymlinks int64 `json:"packed_symlinks"`

	// PackedSize is the uncompressed size of all added files
	PackedSize int64 `json:"packed_size"`

	// ExcludedFiles is the number of entries skipped by exclude patterns
	ExcludedFiles int64 `json:"excluded_files"`

	// ArchiveSize is the size of the created archive
	ArchiveSize int64 `json:"archive_size"`
}

// String returns a JSON representation of [Metrics].
func (m Metrics) String() string {
	b, _ := json.Marshal(m)
	return string(b)
}

// MarshalJSON implements the [encoding/json.Marshaler] interface.
func (m Metrics) MarshalJSON() ([]byte, error) {
	var lastError string
	if m.LastExtractionError != nil {
		lastError = m.LastExtractionError.Error()
	}

	type Alias Metrics
	return json.Marshal(&struct {
		LastExtractionError string `json:"last_extraction_error"`
		*Alias
	}{
		LastExtractionError: lastError,
		Alias:               (*Alias)(&m),
	})
}

// MetricsHook is called with the [Metrics] of every finished operation, e.g.
// to log them or to submit them to a monitoring service.
type MetricsHook func(context.Context, *Metrics)

// now is a function point that returns time.Now to the caller.
var now = time.Now

// captureDuration stores the time passed since start in m.
func captureDuration(m *Metrics, start time.Time) {
	m.Duration = now().Sub(start)
}

// captureInputSize stores the bytes read through ler in m.
func captureInputSize(m *Metrics, ler *limitErrorReader) {
	m.InputSize = int64(ler.ReadBytes())
}
