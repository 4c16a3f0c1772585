// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package xwim

// defaultExtension is appended to derived archive names.
const defaultExtension = ".zip"
