package store

import (
	"fmt"
	"hash"
	"hash/crc32"
)

/*
Extension of IndexInput, computing checksum as it goes.
Callers can retrieve the checksum via Checksum().
*/
type ChecksumIndexInput interface {
	IndexInput
	Checksum() int64
}

/*
Simple implementation of ChecksumIndexInput that wraps another input
and delegates calls.
*/
type BufferedChecksumIndexInput struct {
	*IndexInputImpl
	main   IndexInput
	digest hash.Hash32
}

func NewChecksumIndexInput(main IndexInput) *BufferedChecksumIndexInput {
	ans := &BufferedChecksumIndexInput{
		main:   main,
		digest: crc32.NewIEEE(),
	}
	ans.IndexInputImpl = NewIndexInputImpl(
		fmt.Sprintf("BufferedChecksumIndexInput(%v)", main), ans)
	return ans
}

func (in *BufferedChecksumIndexInput) ReadByte() (b byte, err error) {
	if b, err = in.main.ReadByte(); err == nil {
		in.digest.Write([]byte{b})
	}
	return
}

func (in *BufferedChecksumIndexInput) ReadBytes(p []byte) (err error) {
	if err = in.main.ReadBytes(p); err == nil {
		in.digest.Write(p)
	}
	return
}

func (in *BufferedChecksumIndexInput) Checksum() int64 {
	return int64(in.digest.Sum32())
}

func (in *BufferedChecksumIndexInput) Close() error {
	return in.main.Close()
}

func (in *BufferedChecksumIndexInput) FilePointer() int64 {
	return in.main.FilePointer()
}

/* Only forward seeks are supported; skipped bytes are read so they are checksummed. */
func (in *BufferedChecksumIndexInput) Seek(pos int64) error {
	skip := pos - in.FilePointer()
	if skip < 0 {
		return fmt.Errorf("%v cannot seek backwards", in)
	}
	return in.SkipBytes(skip)
}

func (in *BufferedChecksumIndexInput) Length() int64 {
	return in.main.Length()
}

func (in *BufferedChecksumIndexInput) Clone() IndexInput {
	panic("not supported")
}
