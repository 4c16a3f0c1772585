// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

//go:build !linux

package xwim

// exchangeDirs is not available on this platform.
func exchangeDirs(_, _ string) (bool, error) {
	return false, nil
}
