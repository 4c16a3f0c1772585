// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archiver

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
)

// ConfigOption is a function pointer to implement the option pattern
type ConfigOption func(*Config)

// Config holds all configuration options of the [Engine] for both
// directions, creating and unpacking archives.
//
// The configuration options can be adjusted using the option pattern style.
// The default configuration is designed to be secure by default and prevent
// exhaustion, path traversal and symlink attacks during extraction.
type Config struct {
	// compressionLevel is the level handed to the compression filter. -1 selects
	// the default level of the filter.
	compressionLevel int

	// continueOnError decides if the extraction should be continued even if an error occurred
	continueOnError bool

	// continueOnUnsupportedFiles offers the option to enable/disable skipping unsupported files
	continueOnUnsupportedFiles bool

	// create destination directory if it does not exist
	createDestination bool

	// customCreateDirMode is the file mode for created directories, that are not defined in the archive (respecting umask)
	customCreateDirMode fs.FileMode

	// customArchiveFileMode is the file mode of a created archive
	customArchiveFileMode fs.FileMode

	// denySymlinkExtraction offers the option to enable/disable the extraction of symlinks
	denySymlinkExtraction bool

	// dropFileAttributes is a flag drop the file attributes of the extracted files
	dropFileAttributes bool

	// excludes is a list of glob patterns of files that are not added to a created archive
	excludes []string

	// logger stream for the engine
	logger logger

	// maxExtractionSize is the maximum size of all files after decompression.
	// Set value to -1 to disable the check.
	maxExtractionSize int64

	// maxFiles is the maximum of files (including folder and symlinks) in an archive.
	// Set value to -1 to disable the check.
	maxFiles int64

	// maxInputSize is the maximum size of the input archive.
	// Set value to -1 to disable the check.
	maxInputSize int64

	// metricsHook is a function to consume metrics after a finished operation
	metricsHook MetricsHook

	// Define if files should be overwritten in the destination
	overwrite bool

	// patterns is a list of glob patterns files need to match to be extracted
	patterns []string

	// traverseSymlinks traverses symlinks to directories during extraction
	traverseSymlinks bool
}

// CheckMaxFiles checks if counter exceeds the configured maximum. If the maximum is exceeded,
// a [ErrMaxFilesExceeded] error is returned.
func (c *Config) CheckMaxFiles(counter int64) error {

	// check if disabled
	if c.MaxFiles() == -1 {
		return nil
	}

	// check value
	if counter > c.MaxFiles() {
		return ErrMaxFilesExceeded
	}
	return nil
}

// CheckExtractionSize checks if fileSize exceeds configured maximum. If the maximum is exceeded,
// a [ErrMaxExtractionSizeExceeded] error is returned.
func (c *Config) CheckExtractionSize(fileSize int64) error {

	// check if disabled
	if c.MaxExtractionSize() == -1 {
		return nil
	}

	// check value
	if fileSize > c.MaxExtractionSize() {
		return ErrMaxExtractionSizeExceeded
	}
	return nil
}

// CompressionLevel returns the level for the compression filter. -1 selects
// the default of the filter.
func (c *Config) CompressionLevel() int {
	return c.compressionLevel
}

// ContinueOnError returns true if the extraction should continue on error.
func (c *Config) ContinueOnError() bool {
	return c.continueOnError
}

// ContinueOnUnsupportedFiles returns true if unsupported files, e.g., FIFO, block or
// character devices, should be skipped.
//
// If symlinks are not allowed and a symlink is found, it is considered an unsupported
// file.
func (c *Config) ContinueOnUnsupportedFiles() bool {
	return c.continueOnUnsupportedFiles
}

// CreateDestination returns true if the destination directory should be
// created if it does not exist.
func (c *Config) CreateDestination() bool {
	return c.createDestination
}

// CustomArchiveFileMode returns the file mode of created archives.
func (c *Config) CustomArchiveFileMode() fs.FileMode {
	return c.customArchiveFileMode
}

// CustomCreateDirMode returns the file mode for created directories,
// that are not defined in the archive. (respecting umask)
func (c *Config) CustomCreateDirMode() fs.FileMode {
	return c.customCreateDirMode
}

// DenySymlinkExtraction returns true if symlinks are NOT allowed.
func (c *Config) DenySymlinkExtraction() bool {
	return c.denySymlinkExtraction
}

// DropFileAttributes returns true if the file attributes should be dropped.
func (c *Config) DropFileAttributes() bool {
	return c.dropFileAttributes
}

// Excludes returns the glob patterns of files that are skipped when an
// archive is created.
func (c *Config) Excludes() []string {
	return c.excludes
}

// Logger returns the logger.
func (c *Config) Logger() logger {
	return c.logger
}

// MaxExtractionSize returns the maximum size over all decompressed and extracted files.
func (c *Config) MaxExtractionSize() int64 {
	return c.maxExtractionSize
}

// MaxFiles returns the maximum of files (including folder and symlinks) in an archive.
func (c *Config) MaxFiles() int64 {
	return c.maxFiles
}

// MaxInputSize returns the maximum size of the input.
func (c *Config) MaxInputSize() int64 {
	return c.maxInputSize
}

// MetricsHook returns the metrics hook.
func (c *Config) MetricsHook() MetricsHook {
	if c.metricsHook == nil {
		return defaultMetricsHook
	}
	return c.metricsHook
}

// Overwrite returns true if files should be overwritten in the destination.
func (c *Config) Overwrite() bool {
	return c.overwrite
}

// Patterns returns a list of glob patterns to match files to extract.
func (c *Config) Patterns() []string {
	return c.patterns
}

// TraverseSymlinks returns true if symlinks should be traversed during extraction.
func (c *Config) TraverseSymlinks() bool {
	return c.traverseSymlinks
}

const (
	defaultCompressionLevel           = -1            // filter default
	defaultContinueOnError            = false         // stop on error and return error
	defaultContinueOnUnsupportedFiles = false         // stop on unsupported files and return error
	defaultCreateDestination          = true          // create destination directory
	defaultCustomArchiveFileMode      = 0644          // default archive permissions rw-r--r--
	defaultCustomCreateDirMode        = 0750          // default directory permissions rwxr-x---
	defaultDenySymlinkExtraction      = false         // allow symlink extraction
	defaultDropFileAttributes         = false         // keep modification times from archive
	defaultMaxFiles                   = 100000        // 100k files
	defaultMaxExtractionSize          = 1 << (10 * 3) // 1 Gb
	defaultMaxInputSize               = 1 << (10 * 3) // 1 Gb
	defaultOverwrite                  = false         // don't overwrite existing files
	defaultTraverseSymlinks           = false         // don't traverse symlinks
)

var (
	// slog to discard
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	// no operation metrics hook
	defaultMetricsHook = func(ctx context.Context, m *Metrics) {
		// noop
	}
)

// NewConfig is a generator option that takes opts as adjustments of the
// default configuration in an option pattern style.
func NewConfig(opts ...ConfigOption) *Config {

	// setup default values
	config := &Config{
		compressionLevel:           defaultCompressionLevel,
		continueOnError:            defaultContinueOnError,
		continueOnUnsupportedFiles: defaultContinueOnUnsupportedFiles,
		createDestination:          defaultCreateDestination,
		customArchiveFileMode:      defaultCustomArchiveFileMode,
		customCreateDirMode:        defaultCustomCreateDirMode,
		denySymlinkExtraction:      defaultDenySymlinkExtraction,
		dropFileAttributes:         defaultDropFileAttributes,
		logger:                     defaultLogger,
		maxExtractionSize:          defaultMaxExtractionSize,
		maxFiles:                   defaultMaxFiles,
		maxInputSize:               defaultMaxInputSize,
		metricsHook:                defaultMetricsHook,
		overwrite:                  defaultOverwrite,
		traverseSymlinks:           defaultTraverseSymlinks,
	}

	// Loop through each option
	for _, opt := range opts {
		opt(config)
	}

	return config
}

// WithCompressionLevel options pattern function to set the level of the
// compression filter (1 fastest, 9 best). -1 selects the default level.
func WithCompressionLevel(level int) ConfigOption {
	return func(c *Config) {
		c.compressionLevel = level
	}
}

// WithContinueOnError options pattern function to continue on error during extraction. If set to true,
// the error is logged and the extraction continues. If set to false, the extraction stops and returns the error.
func WithContinueOnError(yes bool) ConfigOption {
	return func(c *Config) {
		c.continueOnError = yes
	}
}

// WithContinueOnUnsupportedFiles options pattern function to
// enable/disable skipping unsupported files. An unsupported file is a file
// that is not supported by the extraction algorithm. If symlinks are not allowed
// and a symlink is found, it is considered an unsupported file.
func WithContinueOnUnsupportedFiles(ctd bool) ConfigOption {
	return func(c *Config) {
		c.continueOnUnsupportedFiles = ctd
	}
}

// WithCreateDestination options pattern function to create
// destination directory if it does not exist.
func WithCreateDestination(create bool) ConfigOption {
	return func(c *Config) {
		c.createDestination = create
	}
}

// WithCustomArchiveFileMode options pattern function to set the file mode of
// created archives.
func WithCustomArchiveFileMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.customArchiveFileMode = mode
	}
}

// WithCustomCreateDirMode options pattern function to set the file mode
// for created directories, that are not defined in the archive. (respecting umask)
func WithCustomCreateDirMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.customCreateDirMode = mode
	}
}

// WithDenySymlinkExtraction options pattern function to deny symlink extraction.
func WithDenySymlinkExtraction(deny bool) ConfigOption {
	return func(c *Config) {
		c.denySymlinkExtraction = deny
	}
}

// WithDropFileAttributes options pattern function to drop the
// file attributes of the extracted files.
func WithDropFileAttributes(drop bool) ConfigOption {
	return func(c *Config) {
		c.dropFileAttributes = drop
	}
}

// WithExcludes options pattern function to add glob patterns of files that
// are not added to a created archive. Patterns are matched against the name
// inside the archive and against the base name.
func WithExcludes(pattern ...string) ConfigOption {
	return func(c *Config) {
		c.excludes = append(c.excludes, pattern...)
	}
}

// WithInsecureTraverseSymlinks options pattern function to traverse symlinks during extraction.
func WithInsecureTraverseSymlinks(traverse bool) ConfigOption {
	return func(c *Config) {
		c.traverseSymlinks = traverse
	}
}

// WithLogger options pattern function to set a custom logger.
func WithLogger(logger logger) ConfigOption {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithMaxExtractionSize options pattern function to set maximum size over all decompressed
// and extracted files. (-1 to disable check)
func WithMaxExtractionSize(maxExtractionSize int64) ConfigOption {
	return func(c *Config) {
		c.maxExtractionSize = maxExtractionSize
	}
}

// WithMaxFiles options pattern function to set maximum number of extracted, files, directories
// and symlinks during the extraction. (-1 to disable check)
func WithMaxFiles(maxFiles int64) ConfigOption {
	return func(c *Config) {
		c.maxFiles = maxFiles
	}
}

// WithMaxInputSize options pattern function to set MaxInputSize for extraction input file. (-1 to disable check)
func WithMaxInputSize(maxInputSize int64) ConfigOption {
	return func(c *Config) {
		c.maxInputSize = maxInputSize
	}
}

// WithMetricsHook options pattern function to set a [MetricsHook], which is
// called after every compression or extraction.
func WithMetricsHook(hook MetricsHook) ConfigOption {
	return func(c *Config) {
		c.metricsHook = hook
	}
}

// WithOverwrite options pattern function specify if files should be overwritten in the destination.
func WithOverwrite(enable bool) ConfigOption {
	return func(c *Config) {
		c.overwrite = enable
	}
}

// WithPatterns options pattern function to set glob patterns, that files need to match to be extracted.
// Patterns are matched using [github.com/gobwas/glob] with '/' as separator.
func WithPatterns(pattern ...string) ConfigOption {
	return func(c *Config) {
		c.patterns = append(c.patterns, pattern...)
	}
}
