package util

import (
	"errors"
)

/*
Abstract base for performing read operations of the low-level data
types.

DataInput may only be used from one goroutine, because it keeps
internal state like the file position. To allow concurrent use, every
DataInput must be cloned before it is handed to another goroutine.
*/
type DataInput interface {
	ReadByte() (b byte, err error)
	ReadBytes(buf []byte) error
	ReadShort() (n int16, err error)
	ReadInt() (n int32, err error)
	ReadVInt() (n int32, err error)
	ReadLong() (n int64, err error)
	ReadVLong() (n int64, err error)
	ReadString() (s string, err error)
	ReadStringStringMap() (m map[string]string, err error)
	ReadStringSet() (m map[string]bool, err error)
}

type DataReader interface {
	/* Reads and returns a single byte.	*/
	ReadByte() (b byte, err error)
	/* Reads a specified number of bytes into an array */
	ReadBytes(buf []byte) error
}

const SKIP_BUFFER_SIZE = 1024

type DataInputImpl struct {
	Reader DataReader
	// Per-instance so delegating inputs that checksum the skipped
	// bytes never share a buffer with another goroutine.
	skipBuffer []byte
}

func NewDataInput(spi DataReader) *DataInputImpl {
	return &DataInputImpl{Reader: spi}
}

func (in *DataInputImpl) ReadShort() (n int16, err error) {
	var b1, b2 byte
	if b1, err = in.Reader.ReadByte(); err == nil {
		if b2, err = in.Reader.ReadByte(); err == nil {
			return (int16(b1) << 8) | int16(b2), nil
		}
	}
	return 0, err
}

func (in *DataInputImpl) ReadInt() (n int32, err error) {
	var buf [4]byte
	if err = in.Reader.ReadBytes(buf[:]); err != nil {
		return 0, err
	}
	return (int32(buf[0]) << 24) | (int32(buf[1]) << 16) | (int32(buf[2]) << 8) | int32(buf[3]), nil
}

func (in *DataInputImpl) ReadVInt() (n int32, err error) {
	var b byte
	for shift := uint(0); shift <= 28; shift += 7 {
		if b, err = in.Reader.ReadByte(); err != nil {
			return 0, err
		}
		if shift == 28 {
			// Warning: the next ands use 0x0F / 0xF0 - beware copy/paste errors:
			n |= (int32(b) & 0x0F) << 28
			if b&0xF0 == 0 {
				return n, nil
			}
			return 0, errors.New("Invalid vInt detected (too many bits)")
		}
		n |= (int32(b) & 0x7F) << shift
		if b < 128 {
			return n, nil
		}
	}
	panic("unreachable")
}

func (in *DataInputImpl) ReadLong() (n int64, err error) {
	d1, err := in.ReadInt()
	if err != nil {
		return 0, err
	}
	d2, err := in.ReadInt()
	if err != nil {
		return 0, err
	}
	return (int64(d1) << 32) | int64(d2)&0xFFFFFFFF, nil
}

func (in *DataInputImpl) ReadVLong() (n int64, err error) {
	var b byte
	for shift := uint(0); shift <= 56; shift += 7 {
		if b, err = in.Reader.ReadByte(); err != nil {
			return 0, err
		}
		n |= int64(b&0x7F) << shift
		if b < 128 {
			return n, nil
		}
	}
	return 0, errors.New("Invalid vLong detected (negative values disallowed)")
}

func (in *DataInputImpl) ReadString() (s string, err error) {
	length, err := in.ReadVInt()
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", errors.New("negative string length")
	}
	bytes := make([]byte, length)
	if err = in.Reader.ReadBytes(bytes); err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (in *DataInputImpl) ReadStringStringMap() (m map[string]string, err error) {
	count, err := in.ReadInt()
	if err != nil {
		return nil, err
	}
	m = make(map[string]string)
	for i := int32(0); i < count; i++ {
		key, err := in.ReadString()
		if err != nil {
			return nil, err
		}
		value, err := in.ReadString()
		if err != nil {
			return nil, err
		}
		m[key] = value
	}
	return m, nil
}

func (in *DataInputImpl) ReadStringSet() (s map[string]bool, err error) {
	count, err := in.ReadInt()
	if err != nil {
		return nil, err
	}
	s = make(map[string]bool)
	for i := int32(0); i < count; i++ {
		key, err := in.ReadString()
		if err != nil {
			return nil, err
		}
		s[key] = true
	}
	return s, nil
}

/*
Skip over numBytes bytes. The contract on this method is that it
should have the same behavior as reading the same number of bytes
into a buffer and discarding its content. Negative values of numBytes
are not supported.
*/
func (in *DataInputImpl) SkipBytes(numBytes int64) (err error) {
	assert2(numBytes >= 0, "numBytes must be >= 0, got %v", numBytes)
	if in.skipBuffer == nil {
		in.skipBuffer = make([]byte, SKIP_BUFFER_SIZE)
	}
	var step int
	for skipped := int64(0); skipped < numBytes; {
		step = int(numBytes - skipped)
		if SKIP_BUFFER_SIZE < step {
			step = SKIP_BUFFER_SIZE
		}
		if err = in.Reader.ReadBytes(in.skipBuffer[:step]); err != nil {
			return
		}
		skipped += int64(step)
	}
	return nil
}
