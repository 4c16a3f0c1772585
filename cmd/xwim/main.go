// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/hashicorp/go-xwim/cmd"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main start the xwim cli
func main() {
	cmd.Run(version, commit, date)
}
