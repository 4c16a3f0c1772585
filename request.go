// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package xwim

import (
	"path/filepath"
	"sort"
)

// Request is the raw signal of the user. Compress and Extract are the
// explicit flags, false means "not given". Output is empty if no output path
// was given.
type Request struct {
	Compress bool
	Extract  bool
	Output   string

	// Inputs are the cleaned, deduplicated input paths in sorted order.
	Inputs []string

	// Duplicates holds the inputs that were given more than once.
	Duplicates []string
}

// NewRequest returns a Request for inputs. Inputs that are equal after
// cleaning are kept once and reported in Request.Duplicates.
func NewRequest(compress, extract bool, output string, inputs ...string) *Request {
	req := &Request{
		Compress: compress,
		Extract:  extract,
		Output:   output,
	}

	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		p := filepath.Clean(in)
		if seen[p] {
			req.Duplicates = append(req.Duplicates, in)
			continue
		}
		seen[p] = true
		req.Inputs = append(req.Inputs, p)
	}
	sort.Strings(req.Inputs)
	return req
}
