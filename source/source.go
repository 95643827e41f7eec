// Package source provides the byte-stream implementations a reader can
// index: plain files, advisory-locked files, in-memory buffers, memory-mapped
// files, and seekable zstd-compressed files. All of them satisfy Source,
// which adds cloning and closing on top of io.ReadSeeker. A clone is an
// independent read position over the same bytes, which is what lets multiple
// readers work side by side without re-indexing the stream.
package source

import "io"

type Source interface {
	io.ReadSeeker
	io.Closer

	// Clone returns an independent handle over the same bytes. The clone
	// starts at position zero and moves independently from the original.
	// Closing either side leaves the other usable.
	Clone() (Source, error)
}
