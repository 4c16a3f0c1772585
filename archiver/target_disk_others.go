// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package archiver

import (
	"runtime"
	"time"

	"github.com/pkg/errors"
)

// lchtimes is not available on this platform.
func lchtimes(_ string, _, _ time.Time) error {
	return errors.Errorf("Lchtimes is not supported on this platform (%s)", runtime.GOOS)
}

// canMaintainSymlinkTimestamps is true where symlink times can be changed.
const canMaintainSymlinkTimestamps = false
