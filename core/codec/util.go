package codec

import (
	"fmt"

	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("codec")

/* Constant to identify the start of a codec header. */
const CODEC_MAGIC = 0x3fd76c17

/* Constant to identify the start of a codec footer. */
const FOOTER_MAGIC = ^CODEC_MAGIC

const FOOTER_LENGTH = 16

/*
Writes a codec header, which records both a string to identify the
file and a version number. This header can be parsed and validated
with CheckHeader().

CodecHeader --> Magic,CodecName,Version
	Magic --> uint32. This identifies the start of the header. It is
	always CODEC_MAGIC.
	CodecName --> string. This is a string to identify this file.
	Version --> uint32. Records the version of the file.

Note that the length of a codec header depends only upon the name of
the codec, so this length can be computed at any time with
HeaderLength().
*/
func WriteHeader(out util.DataOutput, codec string, version int) error {
	assert(out != nil)
	bytes := []byte(codec)
	assert2(len(bytes) == len(codec) && len(bytes) < 128,
		"codec must be simple ASCII, less than 128 characters in length [got %v]", codec)
	err := out.WriteInt(CODEC_MAGIC)
	if err == nil {
		if err = out.WriteString(codec); err == nil {
			err = out.WriteInt(int32(version))
		}
	}
	return err
}

/* Computes the length of a codec header */
func HeaderLength(codec string) int {
	return 9 + len(codec)
}

/*
Reads and validates a header previously written with WriteHeader().
Returns the actual version, or a corruption error when the magic or
codec name do not match.
*/
func CheckHeader(in util.DataInput, codec string, minVersion, maxVersion int32) (v int32, err error) {
	// Safety to guard against reading a bogus string:
	actualHeader, err := in.ReadInt()
	if err != nil {
		return 0, err
	}
	if actualHeader != CODEC_MAGIC {
		return 0, NewCorruptIndexError(in,
			"codec header mismatch: actual header=%v vs expected header=%v",
			actualHeader, CODEC_MAGIC)
	}
	return CheckHeaderNoMagic(in, codec, minVersion, maxVersion)
}

/* Like CheckHeader() except this version assumes the magic has already been read and validated. */
func CheckHeaderNoMagic(in util.DataInput, codec string, minVersion, maxVersion int32) (v int32, err error) {
	actualCodec, err := in.ReadString()
	if err != nil {
		return 0, err
	}
	if actualCodec != codec {
		return 0, NewCorruptIndexError(in,
			"codec mismatch: actual codec=%v vs expected codec=%v", actualCodec, codec)
	}

	actualVersion, err := in.ReadInt()
	if err != nil {
		return 0, err
	}
	if actualVersion < minVersion {
		return 0, NewIndexFormatTooOldError(in, actualVersion, minVersion, maxVersion)
	}
	if actualVersion > maxVersion {
		return 0, NewIndexFormatTooNewError(in, actualVersion, minVersion, maxVersion)
	}
	return actualVersion, nil
}

/*
Writes a codec footer, which records both a checksum algorithm ID and
a checksum. This footer can be parsed and validated with CheckFooter().

CodecFooter --> Magic,AlgorithmID,Checksum
	- Magic --> uint32. This identifies the start of the footer. It is
		always FOOTER_MAGIC.
	- AlgorithmID --> uint32. This indicates the checksum algorithm
		used. Currently this is always 0, for zlib-crc32.
	- Checksum --> uint64. The actual checksum value for all previous
		bytes in the stream, including the bytes from Magic and AlgorithmID.
*/
func WriteFooter(out store.IndexOutput) (err error) {
	if err = out.WriteInt(FOOTER_MAGIC); err == nil {
		if err = out.WriteInt(0); err == nil {
			err = out.WriteLong(out.Checksum())
		}
	}
	return
}

/* Validates the codec footer previously written by WriteFooter(). */
func CheckFooter(in store.ChecksumIndexInput) (cs int64, err error) {
	if err = validateFooter(in); err != nil {
		return 0, err
	}
	cs = in.Checksum()
	var cs2 int64
	if cs2, err = in.ReadLong(); err != nil {
		return 0, err
	}
	if cs != cs2 {
		return 0, NewCorruptIndexError(in,
			"checksum failed (hardware problem?): expected=%x actual=%x", cs2, cs)
	}
	if in.FilePointer() != in.Length() {
		return 0, NewCorruptIndexError(in,
			"did not read all bytes from file: read %v vs size %v",
			in.FilePointer(), in.Length())
	}
	return cs, nil
}

/* Returns (but does not validate) the checksum previously written by CheckFooter. */
func RetrieveChecksum(in store.IndexInput) (int64, error) {
	var err error
	if err = in.Seek(in.Length() - FOOTER_LENGTH); err != nil {
		return 0, err
	}
	if err = validateFooter(in); err != nil {
		return 0, err
	}
	return in.ReadLong()
}

func validateFooter(in store.IndexInput) error {
	magic, err := in.ReadInt()
	if err != nil {
		return err
	}
	if magic != FOOTER_MAGIC {
		return NewCorruptIndexError(in,
			"codec footer mismatch: actual footer=%v vs expected footer=%v",
			magic, FOOTER_MAGIC)
	}

	algorithmId, err := in.ReadInt()
	if err != nil {
		return err
	}
	if algorithmId != 0 {
		return NewCorruptIndexError(in,
			"codec footer mismatch: unknown algorithmID: %v", algorithmId)
	}
	return nil
}

/* Checks that the stream is positioned at the end, and returns error if it is not. */
func CheckEOF(in store.IndexInput) error {
	if in.FilePointer() != in.Length() {
		return NewCorruptIndexError(in,
			"did not read all bytes from file: read %v vs size %v",
			in.FilePointer(), in.Length())
	}
	return nil
}

/*
Clones the provided input, reads all bytes from the file, and calls
CheckFooter().

Note that this method may be slow, as it must process the entire file.
If you just need to extract the checksum value, call RetrieveChecksum().
*/
func ChecksumEntireFile(input store.IndexInput) (int64, error) {
	clone := input.Clone()
	if err := clone.Seek(0); err != nil {
		return 0, err
	}
	in := store.NewChecksumIndexInput(clone)
	if in.Length() < FOOTER_LENGTH {
		return 0, NewCorruptIndexError(input,
			"misplaced codec footer (file truncated?): length=%v but footerLength==%v",
			in.Length(), FOOTER_LENGTH)
	}
	if err := in.Seek(in.Length() - FOOTER_LENGTH); err != nil {
		return 0, err
	}
	cs, err := CheckFooter(in)
	if err != nil {
		return 0, err
	}
	log.Debugf("Verified checksum %x of %v", cs, input)
	return cs, nil
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
