// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package xwim

// Kind identifies the variant of an [Intent].
type Kind int

const (
	KindCompressSingle Kind = iota + 1
	KindCompressMany
	KindExtract
)

// String returns the name of k.
func (k Kind) String() string {
	switch k {
	case KindCompressSingle:
		return "compress-single"
	case KindCompressMany:
		return "compress-many"
	case KindExtract:
		return "extract"
	}
	return "unknown"
}

// Intent is the resolved action of a [Request]. It is one of
// [*CompressSingle], [*CompressMany] or [*Extract], and it is executed once
// with [Execute].
type Intent interface {
	Kind() Kind

	// intent restricts the implementations to this package
	intent()
}

// CompressSingle compresses one input. Output is empty if the archive name
// should be derived from the input.
type CompressSingle struct {
	Input  string
	Output string
}

// Kind returns [KindCompressSingle].
func (*CompressSingle) Kind() Kind { return KindCompressSingle }

func (*CompressSingle) intent() {}

// CompressMany bundles at least two inputs into the archive Output.
type CompressMany struct {
	Inputs []string
	Output string
}

// Kind returns [KindCompressMany].
func (*CompressMany) Kind() Kind { return KindCompressMany }

func (*CompressMany) intent() {}

// Extract unpacks Archives. Output is empty if every archive should be
// extracted into the working directory.
type Extract struct {
	Archives []string
	Output   string
}

// Kind returns [KindExtract].
func (*Extract) Kind() Kind { return KindExtract }

func (*Extract) intent() {}
