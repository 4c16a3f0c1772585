// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	xwim "github.com/hashicorp/go-xwim"
	"github.com/hashicorp/go-xwim/archiver"
)

// CLI are the cli parameters for the xwim binary
type CLI struct {
	Paths             []string         `arg:"" name:"path" help:"Files, directories or archives."`
	Compress          bool             `short:"c" help:"Compress the paths into an archive."`
	Config            kong.ConfigFlag  `optional:"" help:"Load defaults from a YAML configuration file."`
	ContinueOnError   bool             `short:"C" env:"XWIM_CONTINUE_ON_ERROR" help:"Continue extraction on error."`
	DenySymlinks      bool             `short:"D" env:"XWIM_DENY_SYMLINKS" help:"Deny symlink extraction."`
	Exclude           []string         `optional:"" env:"XWIM_EXCLUDE" help:"Glob patterns of files that are not compressed."`
	Extract           bool             `short:"x" help:"Extract the archives."`
	FollowSymlinks    bool             `short:"F" env:"XWIM_FOLLOW_SYMLINKS" help:"[Dangerous!] Follow symlinks to directories during extraction."`
	Level             int              `optional:"" default:"-1" env:"XWIM_LEVEL" help:"Compression level from 1 (fastest) to 9 (best). (filter default: -1)"`
	MaxFiles          int64            `optional:"" default:"100000" env:"XWIM_MAX_FILES" help:"Maximum files that are extracted before stop. (disable check: -1)"`
	MaxExtractionSize int64            `optional:"" default:"1073741824" env:"XWIM_MAX_EXTRACTION_SIZE" help:"Maximum extraction size that allowed is (in bytes). (disable check: -1)"`
	MaxInputSize      int64            `optional:"" default:"1073741824" env:"XWIM_MAX_INPUT_SIZE" help:"Maximum input size that allowed is (in bytes). (disable check: -1)"`
	Metrics           bool             `short:"M" optional:"" default:"false" env:"XWIM_METRICS" help:"Print metrics to log after each operation."`
	Out               string           `short:"o" optional:"" help:"Output archive or directory."`
	Overwrite         bool             `short:"O" env:"XWIM_OVERWRITE" help:"Overwrite if exist."`
	Pattern           []string         `optional:"" env:"XWIM_PATTERN" help:"Glob patterns of files to extract."`
	Verbose           bool             `short:"v" optional:"" env:"XWIM_VERBOSE" help:"Verbose logging."`
	Version           kong.VersionFlag `short:"V" optional:"" help:"Print release version information."`
}

// configPaths are the configuration files loaded before the command line is
// applied. Missing files are ignored.
var configPaths = []string{
	"~/.config/xwim/config.yaml",
	"./.xwim.yaml",
}

// options returns the kong options of the xwim binary.
func options(version, commit, date string) []kong.Option {
	return []kong.Option{
		kong.Name("xwim"),
		kong.Description("Do what I mean with archives: compress files or extract archives."),
		kong.UsageOnError(),
		kong.Configuration(YAML, configPaths...),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date),
		},
	}
}

// Run the entrypoint into xwim as a cli tool
func Run(version, commit, date string) {
	var cli CLI
	kong.Parse(&cli, options(version, commit, date)...)

	logger := newLogger(cli.Verbose)
	if err := execute(context.Background(), &cli, logger); err != nil {
		logger.Error("xwim failed", "error", err)
		os.Exit(-1)
	}
}

// newLogger returns a text logger to stderr. Only errors are logged unless
// verbose is set.
func newLogger(verbose bool) *slog.Logger {
	logLevel := slog.LevelError
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// execute resolves and runs the request described by cli.
func execute(ctx context.Context, cli *CLI, logger *slog.Logger) error {
	// setup metrics hook
	metricsToLog := func(ctx context.Context, m *archiver.Metrics) {
		if cli.Metrics {
			logger.Info("operation finished", "metrics", m)
		}
	}

	engineConfig := archiver.NewConfig(
		archiver.WithCompressionLevel(cli.Level),
		archiver.WithContinueOnError(cli.ContinueOnError),
		archiver.WithDenySymlinkExtraction(cli.DenySymlinks),
		archiver.WithExcludes(cli.Exclude...),
		archiver.WithInsecureTraverseSymlinks(cli.FollowSymlinks),
		archiver.WithLogger(logger),
		archiver.WithMaxExtractionSize(cli.MaxExtractionSize),
		archiver.WithMaxFiles(cli.MaxFiles),
		archiver.WithMaxInputSize(cli.MaxInputSize),
		archiver.WithMetricsHook(metricsToLog),
		archiver.WithOverwrite(cli.Overwrite),
		archiver.WithPatterns(cli.Pattern...),
	)

	config := xwim.NewConfig(
		xwim.WithArchiver(archiver.New(engineConfig)),
		xwim.WithLogger(logger),
	)

	req := xwim.NewRequest(cli.Compress, cli.Extract, cli.Out, cli.Paths...)
	for _, d := range req.Duplicates {
		logger.Warn("ignoring duplicate path", "path", d)
	}

	return xwim.Run(ctx, req, config)
}
