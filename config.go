// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package xwim

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand"
	"os"

	"github.com/hashicorp/go-xwim/archiver"
)

//go:generate mockgen -destination=mock_archiver_test.go -package=xwim_test github.com/hashicorp/go-xwim Archiver

// Archiver is the archive engine used by the executors. The format of an
// archive is derived from its name.
type Archiver interface {
	// Compress creates archive from inputs.
	Compress(ctx context.Context, inputs []string, archive string) error

	// Extract unpacks archive into the directory dst.
	Extract(ctx context.Context, archive string, dst string) error
}

// ConfigOption is a function pointer to implement the option pattern
type ConfigOption func(*Config)

// Config holds the configuration of the resolver and the executors.
type Config struct {
	// archiver compresses and extracts archives
	archiver Archiver

	// createDirMode is the mode of directories created for extraction (respecting umask)
	createDirMode fs.FileMode

	// defaultExtension is appended to derived archive names
	defaultExtension string

	// logger stream
	logger logger

	// tempSuffix returns the suffix of the temporary name used for flattening
	tempSuffix func() string

	// workingDir returns the directory relative outputs are placed in
	workingDir func() (string, error)
}

// Archiver returns the archive engine.
func (c *Config) Archiver() Archiver {
	return c.archiver
}

// CreateDirMode returns the mode of directories created for extraction.
func (c *Config) CreateDirMode() fs.FileMode {
	return c.createDirMode
}

// DefaultExtension returns the extension of derived archive names, ".tar.gz"
// on unix and ".zip" elsewhere.
func (c *Config) DefaultExtension() string {
	return c.defaultExtension
}

// Logger returns the logger.
func (c *Config) Logger() logger {
	return c.logger
}

// TempSuffix returns a new suffix for a temporary directory name.
func (c *Config) TempSuffix() string {
	return c.tempSuffix()
}

// WorkingDir returns the directory that derived outputs are placed in.
func (c *Config) WorkingDir() (string, error) {
	return c.workingDir()
}

const (
	defaultCreateDirMode = 0755 // rwxr-xr-x
)

var (
	// slog to discard
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	// random suffix in the range of the original tool
	defaultTempSuffix = func() string {
		return fmt.Sprintf(".xwim%d", rand.Intn(100000))
	}
)

// NewConfig is a generator option that takes opts as adjustments of the
// default configuration in an option pattern style. Without [WithArchiver],
// the engine of the archiver package with its default limits is used.
func NewConfig(opts ...ConfigOption) *Config {
	config := &Config{
		createDirMode:    defaultCreateDirMode,
		defaultExtension: defaultExtension,
		logger:           defaultLogger,
		tempSuffix:       defaultTempSuffix,
		workingDir:       os.Getwd,
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.archiver == nil {
		config.archiver = archiver.New(archiver.NewConfig(archiver.WithLogger(config.logger)))
	}
	return config
}

// WithArchiver options pattern function to set the archive engine.
func WithArchiver(a Archiver) ConfigOption {
	return func(c *Config) {
		c.archiver = a
	}
}

// WithCreateDirMode options pattern function to set the mode of directories
// created for extraction.
func WithCreateDirMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.createDirMode = mode
	}
}

// WithLogger options pattern function to set a custom logger.
func WithLogger(logger logger) ConfigOption {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithTempSuffix options pattern function to set the source of suffixes for
// temporary directory names, e.g. for deterministic tests.
func WithTempSuffix(suffix func() string) ConfigOption {
	return func(c *Config) {
		c.tempSuffix = suffix
	}
}

// WithWorkingDir options pattern function to set the function that returns
// the directory derived outputs are placed in. Defaults to os.Getwd.
func WithWorkingDir(wd func() (string, error)) ConfigOption {
	return func(c *Config) {
		c.workingDir = wd
	}
}
