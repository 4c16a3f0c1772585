// Package xwim does what you mean with archives: given a set of paths, it
// decides whether to compress them into an archive or to extract them, and
// then does so.
//
// A [Request] carries the raw signal of the user: explicit compress or
// extract flags, an optional output path and the input paths. [Resolve] turns
// it into exactly one [Intent] (see [CompressSingle], [CompressMany] and
// [Extract]), using the archive extensions known to the
// [github.com/hashicorp/go-xwim/format] registry. [Execute] runs an intent
// against an [Archiver], by default the engine of the
// [github.com/hashicorp/go-xwim/archiver] package.
//
// Extraction removes redundant nesting: if an archive "foo.zip" holds a single
// directory "foo", the result is "./foo" with the contents of the inner
// directory, not "./foo/foo".
//
// Configuration is done using the [Config], which is created with
// [NewConfig] and functional options.
package xwim
