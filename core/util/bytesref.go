package util

import (
	"bytes"
	"fmt"
)

/* An empty byte slice for convenience */
var EMPTY_BYTES = []byte{}

/*
Represents []byte, as a slice (offset + length) into an existing
[]byte.

Unless otherwise noted, terms are passed around as []byte directly.
BytesRef is used when a caller needs to hold a reference while the
underlying []byte is allowed to change.
*/
type BytesRef struct {
	// The contents of the BytesRef.
	Bytes  []byte
	Offset int
	Length int
}

func NewEmptyBytesRef() *BytesRef {
	return NewBytesRefFrom(EMPTY_BYTES)
}

func NewBytesRef(bytes []byte, offset, length int) *BytesRef {
	return &BytesRef{
		Bytes:  bytes,
		Offset: offset,
		Length: length,
	}
}

func NewBytesRefFrom(bytes []byte) *BytesRef {
	return NewBytesRef(bytes, 0, len(bytes))
}

/* Returns true if the referenced bytes equal other. */
func (br *BytesRef) BytesEquals(other []byte) bool {
	return bytes.Equal(br.ToBytes(), other)
}

/* Renders the referenced bytes as hex, e.g. [61 62]. */
func (br *BytesRef) String() string {
	return fmt.Sprintf("[% x]", br.ToBytes())
}

/* Interprets the stored bytes as UTF8 bytes, returning the resulting string */
func (br *BytesRef) Utf8ToString() string {
	return string(br.ToBytes())
}

func (br *BytesRef) ToBytes() []byte {
	return br.Bytes[br.Offset : br.Offset+br.Length]
}

/* Unsigned byte order, which for UTF-8 is also unicode code point order. */
func CompareBytes(a, b []byte) int {
	return bytes.Compare(a, b)
}

func UTF8SortedAsUnicodeLess(aBytes, bBytes []byte) bool {
	return bytes.Compare(aBytes, bBytes) < 0
}

type BytesRefs [][]byte

func (br BytesRefs) Len() int {
	return len(br)
}

func (br BytesRefs) Less(i, j int) bool {
	return UTF8SortedAsUnicodeLess(br[i], br[j])
}

func (br BytesRefs) Swap(i, j int) {
	br[i], br[j] = br[j], br[i]
}
