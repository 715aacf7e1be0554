package store

import (
	"hash"
	"hash/crc32"
	"io"

	"github.com/ironsweet/docvalues/core/util"
)

/*
Abstract base for output to a file in a Directory. A sequential,
append-only output stream computing a running CRC32 of everything
written.
*/
type IndexOutput interface {
	io.Closer
	util.DataOutput
	// Returns the current position in this file, where the next write
	// will occur.
	FilePointer() int64
	// Returns the current checksum of bytes written so far
	Checksum() int64
}

type IndexOutputImpl struct {
	*util.DataOutputImpl
}

func newIndexOutput(part util.DataWriter) *IndexOutputImpl {
	return &IndexOutputImpl{util.NewDataOutput(part)}
}

/* Accumulates the position and the CRC32 of an output stream. */
type checksumTracker struct {
	digest hash.Hash32
	pos    int64
}

func newChecksumTracker() *checksumTracker {
	return &checksumTracker{digest: crc32.NewIEEE()}
}

func (t *checksumTracker) update(p []byte) {
	t.digest.Write(p)
	t.pos += int64(len(p))
}

func (t *checksumTracker) Checksum() int64 {
	return int64(t.digest.Sum32())
}

func (t *checksumTracker) FilePointer() int64 {
	return t.pos
}
