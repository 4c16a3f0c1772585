// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

// Package format recognizes archive formats by their file extension.
//
// A plain file path vocabulary cannot express compound extensions such as
// ".tar.gz", because their embedded dots look like ordinary filename dots. The
// registry therefore walks the base name from the right, one dot-segment at a
// time, and only accepts an accumulated suffix while every step is a known
// extension. The first unknown step discards the whole match, so "report.v2.tar"
// is not mistaken for a tar archive.
//
// All tables are built at package initialization and never modified afterwards.
package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

// compoundExtensions maps every recognized archive spelling to its format.
var compoundExtensions = map[string]Format{
	".tar": Tar,

	// bzip2
	".tar.bz2": TarBzip2,
	".tb2":     TarBzip2,
	".tbz":     TarBzip2,
	".tbz2":    TarBzip2,
	".tz2":     TarBzip2,

	// gzip
	".tar.gz": TarGzip,
	".taz":    TarGzip,
	".tgz":    TarGzip,

	// lzip
	".tar.lz": TarLzip,

	// xz
	".tar.xz": TarXz,
	".txz":    TarXz,

	// compress
	".tar.Z": TarCompress,
	".tZ":    TarCompress,
	".taZ":   TarCompress,

	// zstd
	".tar.zst": TarZstd,
	".tzst":    TarZstd,

	".tar.lz4": TarLz4,
	".tar.br":  TarBrotli,
	".tar.sz":  TarSnappy,

	".zip": Zip,
	".7z":  SevenZip,
	".rar": Rar,
}

// strippableExtensions are single segments that are removed when deriving a
// name from an archive path, but which do not denote an archive on their own.
var strippableExtensions = []string{
	".7zip", ".jar",
	".bz2", ".bzip2",
	".gz", ".gzip",
	".lz", ".xz", ".Z", ".zst",
	".lz4", ".br", ".sz",
}

// knownExtensions is the lower-cased union of the compound and strippable
// extensions. Every step of the extension walk has to be found here.
var knownExtensions map[string]struct{}

// lowerCompoundExtensions is the lower-cased index of compoundExtensions.
var lowerCompoundExtensions map[string]Format

// init builds the lookup indices and verifies that every compound extension
// can be reached by the extension walk.
func init() {
	knownExtensions = make(map[string]struct{}, len(compoundExtensions)+len(strippableExtensions))
	lowerCompoundExtensions = make(map[string]Format, len(compoundExtensions))
	for ext, f := range compoundExtensions {
		knownExtensions[strings.ToLower(ext)] = struct{}{}
		if ext == strings.ToLower(ext) {
			lowerCompoundExtensions[ext] = f
		}
	}
	// ".taZ" and ".taz" collide when folded; lower-case spellings take precedence
	for ext, f := range compoundExtensions {
		if _, ok := lowerCompoundExtensions[strings.ToLower(ext)]; !ok {
			lowerCompoundExtensions[strings.ToLower(ext)] = f
		}
	}
	for _, ext := range strippableExtensions {
		knownExtensions[strings.ToLower(ext)] = struct{}{}
	}

	if err := checkReachable(); err != nil {
		panic(err)
	}
}

// checkReachable returns an error if a compound extension contains a suffix
// that the extension walk would reject before reaching the full spelling.
func checkReachable() error {
	for ext := range compoundExtensions {
		rest := "x" + ext
		var acc string
		for {
			e := extension(rest)
			if e == "" {
				break
			}
			acc = e + acc
			if !isKnown(acc) {
				return fmt.Errorf("extension %q is not reachable: step %q is unknown", ext, acc)
			}
			rest = rest[:len(rest)-len(e)]
		}
		if acc != ext {
			return fmt.Errorf("extension %q is not reachable: walk stopped at %q", ext, acc)
		}
	}
	return nil
}

// CompoundExtensions returns a copy of all extensions that resolve to a
// [Format].
func CompoundExtensions() map[string]Format {
	m := make(map[string]Format, len(compoundExtensions))
	for ext, f := range compoundExtensions {
		m[ext] = f
	}
	return m
}

// LongestKnownExtension returns the longest known (possibly compound)
// extension of the base name of path, e.g. ".tar.gz" for "x.tar.gz". Trailing
// path separators are ignored. An empty string is returned if the base name
// has no extension, the last segment is unknown, or any segment further to the
// left is unknown.
func LongestKnownExtension(path string) string {
	ext, _ := walk(baseName(path))
	return ext
}

// StripKnownExtension returns path without its longest known extension. If
// nothing is stripped, path is returned unchanged.
func StripKnownExtension(path string) string {
	name := baseName(path)
	ext, stem := walk(name)
	if ext == "" {
		return path
	}
	return filepath.Join(filepath.Dir(filepath.Clean(path)), stem)
}

// Resolve returns the format of path by looking up its longest known
// extension. [Unknown] is returned if the extension is not an archive format.
func Resolve(path string) Format {
	ext := LongestKnownExtension(path)
	if ext == "" {
		return Unknown
	}
	if f, ok := compoundExtensions[ext]; ok {
		return f
	}
	if f, ok := lowerCompoundExtensions[strings.ToLower(ext)]; ok {
		return f
	}
	return Unknown
}

// IsArchive returns true if path resolves to a recognized archive format.
func IsArchive(path string) bool {
	return Resolve(path) != Unknown
}

// walk peels dot-segments off name from the right and returns the longest
// accumulated extension together with the remaining stem. The walk stops at
// the first unknown step and reports no extension in that case.
func walk(name string) (string, string) {
	var ext, acc string
	rest := name
	for {
		e := extension(rest)
		if e == "" {
			return ext, rest
		}
		acc = e + acc
		if !isKnown(acc) {
			return "", name
		}
		ext = acc
		rest = rest[:len(rest)-len(e)]
	}
}

// isKnown reports whether ext is part of the extension vocabulary.
func isKnown(ext string) bool {
	_, ok := knownExtensions[strings.ToLower(ext)]
	return ok
}

// extension returns the last dot-segment of name including the dot. A leading
// dot does not start an extension, so ".profile" has none.
func extension(name string) string {
	if name == "." || name == ".." {
		return ""
	}
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return name[i:]
}

// baseName returns the last element of path with trailing separators removed.
func baseName(path string) string {
	if path == "" {
		return ""
	}
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
