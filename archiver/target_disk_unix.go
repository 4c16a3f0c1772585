// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

//go:build unix

package archiver

import (
	"time"

	"golang.org/x/sys/unix"
)

// lchtimes modifies the access and modified timestamps on a target path
// without following symlinks.
func lchtimes(path string, atime, mtime time.Time) error {
	return unix.Lutimes(path, []unix.Timeval{
		unix.NsecToTimeval(atime.UnixNano()),
		unix.NsecToTimeval(mtime.UnixNano()),
	})
}

// canMaintainSymlinkTimestamps is true where symlink times can be changed.
// os.Chtimes follows symlinks, unix.Lutimes does not.
const canMaintainSymlinkTimestamps = true
