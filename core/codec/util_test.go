package codec

import (
	"testing"

	"github.com/ironsweet/docvalues/core/store"
	"github.com/stretchr/testify/require"
)

func writeWithFooter(t *testing.T, dir store.Directory, name string, body func(out store.IndexOutput)) {
	out, err := dir.CreateOutput(name, store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	require.NoError(t, WriteHeader(out, "TestCodec", 3))
	body(out)
	require.NoError(t, WriteFooter(out))
	require.NoError(t, out.Close())
}

func TestHeaderFooterRoundTrip(t *testing.T) {
	dir := store.NewRAMDirectory()
	writeWithFooter(t, dir, "f", func(out store.IndexOutput) {
		require.NoError(t, out.WriteVInt(42))
	})

	in, err := dir.OpenChecksumInput("f", store.IO_CONTEXT_READ)
	require.NoError(t, err)
	v, err := CheckHeader(in, "TestCodec", 0, 3)
	require.NoError(t, err)
	require.Equal(t, int32(3), v)
	require.Equal(t, int64(HeaderLength("TestCodec")), in.FilePointer())
	n, err := in.ReadVInt()
	require.NoError(t, err)
	require.Equal(t, int32(42), n)
	cs, err := CheckFooter(in)
	require.NoError(t, err)

	raw, err := dir.OpenInput("f", store.IO_CONTEXT_READ)
	require.NoError(t, err)
	retrieved, err := RetrieveChecksum(raw)
	require.NoError(t, err)
	require.Equal(t, cs, retrieved)
	full, err := ChecksumEntireFile(raw)
	require.NoError(t, err)
	require.Equal(t, cs, full)
}

func TestCheckHeaderMismatch(t *testing.T) {
	dir := store.NewRAMDirectory()
	writeWithFooter(t, dir, "f", func(out store.IndexOutput) {})

	in, err := dir.OpenInput("f", store.IO_CONTEXT_READ)
	require.NoError(t, err)
	_, err = CheckHeader(in, "OtherCodec", 0, 3)
	require.IsType(t, &CorruptIndexError{}, err)

	in.Seek(0)
	_, err = CheckHeader(in, "TestCodec", 4, 5)
	require.IsType(t, &IndexFormatTooOldError{}, err)

	in.Seek(0)
	_, err = CheckHeader(in, "TestCodec", 0, 2)
	require.IsType(t, &IndexFormatTooNewError{}, err)

	in.Seek(4)
	_, err = CheckHeader(in, "TestCodec", 0, 3)
	require.IsType(t, &CorruptIndexError{}, err)
}

func TestCorruptedBodyFailsChecksum(t *testing.T) {
	dir := store.NewRAMDirectory()
	writeWithFooter(t, dir, "f", func(out store.IndexOutput) {
		out.WriteLong(7)
	})
	src, err := dir.OpenInput("f", store.IO_CONTEXT_READ)
	require.NoError(t, err)
	data := make([]byte, src.Length())
	require.NoError(t, src.ReadBytes(data))
	data[HeaderLength("TestCodec")+3] ^= 0xff

	_, err = ChecksumEntireFile(store.NewByteSliceIndexInput("corrupted", data))
	require.Error(t, err)
	cie, ok := err.(*CorruptIndexError)
	require.True(t, ok)
	require.Contains(t, cie.Message, "checksum failed")
	require.Equal(t, "BufferedChecksumIndexInput(corrupted)", cie.Resource)
}

func TestCheckEOF(t *testing.T) {
	in := store.NewByteSliceIndexInput("eof", []byte{1, 2})
	require.Error(t, CheckEOF(in))
	in.Seek(2)
	require.NoError(t, CheckEOF(in))
}
