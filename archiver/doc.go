// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

// Package archiver is the archive engine behind xwim. It creates tar archives
// with a compression filter and zip archives, and it extracts these as well
// as 7z and rar archives.
//
// The format of an archive is derived from its name with the
// [github.com/hashicorp/go-xwim/format] registry. During extraction, the
// compressed stream is verified against the magic bytes of the filter, and
// every entry is checked for path traversal and symlinks in its path before
// it is written. Limits for the number of files, the extraction size and the
// input size guard against archive bombs.
package archiver
