package store

import (
	"errors"
	"fmt"
	"io"

	"github.com/ironsweet/docvalues/core/util"
)

/*
Abstract base for input from a file in a Directory. A random-access
input stream. Used for all index data reads.

An IndexInput is only used by one goroutine. Clone() returns an
independently positioned input over the same bytes.
*/
type IndexInput interface {
	io.Closer
	util.DataInput
	SkipBytes(numBytes int64) error
	// Returns the current position in this file, where the next read
	// will occur.
	FilePointer() int64
	// Sets current position in this file, where the next read will occur.
	Seek(pos int64) error
	// The number of bytes in the file.
	Length() int64
	Clone() IndexInput
}

type IndexInputImpl struct {
	*util.DataInputImpl
	desc string
}

func NewIndexInputImpl(desc string, r util.DataReader) *IndexInputImpl {
	assert2(desc != "", "resourceDescription must not be empty")
	return &IndexInputImpl{util.NewDataInput(r), desc}
}

func (in *IndexInputImpl) String() string {
	return in.desc
}

var ErrReadPastEOF = errors.New("read past EOF")

/*
IndexInput over an in-memory byte slice. The slice is shared by every
clone and never modified.
*/
type ByteSliceIndexInput struct {
	*IndexInputImpl
	data []byte
	pos  int64
}

func NewByteSliceIndexInput(desc string, data []byte) *ByteSliceIndexInput {
	ans := &ByteSliceIndexInput{data: data}
	ans.IndexInputImpl = NewIndexInputImpl(desc, ans)
	return ans
}

func (in *ByteSliceIndexInput) ReadByte() (byte, error) {
	if in.pos >= int64(len(in.data)) {
		return 0, fmt.Errorf("%v: %v", ErrReadPastEOF, in)
	}
	in.pos++
	return in.data[in.pos-1], nil
}

func (in *ByteSliceIndexInput) ReadBytes(buf []byte) error {
	if in.pos+int64(len(buf)) > int64(len(in.data)) {
		return fmt.Errorf("%v: %v", ErrReadPastEOF, in)
	}
	copy(buf, in.data[in.pos:])
	in.pos += int64(len(buf))
	return nil
}

func (in *ByteSliceIndexInput) FilePointer() int64 { return in.pos }

func (in *ByteSliceIndexInput) Seek(pos int64) error {
	if pos < 0 || pos > int64(len(in.data)) {
		return fmt.Errorf("seek position %v out of bounds [0,%v]: %v", pos, len(in.data), in)
	}
	in.pos = pos
	return nil
}

func (in *ByteSliceIndexInput) Length() int64 { return int64(len(in.data)) }

func (in *ByteSliceIndexInput) Clone() IndexInput {
	ans := NewByteSliceIndexInput(in.desc, in.data)
	ans.pos = in.pos
	return ans
}

func (in *ByteSliceIndexInput) Close() error { return nil }

/*
DataInput backed by a byte array. Positions beyond the array return
ErrReadPastEOF rather than panicking.
*/
type ByteArrayDataInput struct {
	*ByteSliceIndexInput
}

func NewByteArrayDataInput(bytes []byte) *ByteArrayDataInput {
	return &ByteArrayDataInput{NewByteSliceIndexInput("ByteArrayDataInput", bytes)}
}

func (in *ByteArrayDataInput) Reset(bytes []byte) {
	in.data = bytes
	in.pos = 0
}

func (in *ByteArrayDataInput) Position() int { return int(in.pos) }

func (in *ByteArrayDataInput) EOF() bool { return in.pos >= int64(len(in.data)) }
