package store

import (
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir Directory, name string, fn func(out IndexOutput)) {
	out, err := dir.CreateOutput(name, IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	fn(out)
	require.NoError(t, out.Close())
}

func TestIO(t *testing.T) {
	filename := "a.txt"
	testdata := "hello world"

	dir := NewRAMDirectory()
	writeFile(t, dir, filename, func(out IndexOutput) {
		require.NoError(t, out.WriteString(testdata))
	})

	n, err := dir.FileLength(filename)
	require.NoError(t, err)
	require.Equal(t, int64(len(testdata))+1, n)

	in, err := dir.OpenInput(filename, IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	s, err := in.ReadString()
	require.NoError(t, err)
	require.Equal(t, testdata, s)

	_, err = in.ReadByte()
	require.Error(t, err)
}

func TestRAMDirectoryFiles(t *testing.T) {
	dir := NewRAMDirectory()
	writeFile(t, dir, "b", func(out IndexOutput) { out.WriteInt(1) })
	writeFile(t, dir, "a", func(out IndexOutput) { out.WriteLong(2) })

	names, err := dir.ListAll()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, names)
	require.Equal(t, int64(12), dir.RamBytesUsed())

	require.NoError(t, dir.DeleteFile("a"))
	require.False(t, dir.FileExists("a"))
	require.Error(t, dir.DeleteFile("a"))
	_, err = dir.OpenInput("a", IO_CONTEXT_READ)
	require.Error(t, err)
	require.Equal(t, int64(4), dir.RamBytesUsed())
}

func TestPrimitivesRoundTrip(t *testing.T) {
	dir := NewRAMDirectory()
	writeFile(t, dir, "p", func(out IndexOutput) {
		require.NoError(t, out.WriteVInt(300))
		require.NoError(t, out.WriteVLong(1<<40))
		require.NoError(t, out.WriteLong(-7))
		require.NoError(t, out.WriteStringStringMap(map[string]string{"k2": "v2", "k1": "v1"}))
		require.NoError(t, out.WriteStringSet(map[string]bool{"x": true}))
	})

	in, err := dir.OpenInput("p", IO_CONTEXT_READ)
	require.NoError(t, err)
	v, err := in.ReadVInt()
	require.NoError(t, err)
	require.Equal(t, int32(300), v)
	l, err := in.ReadVLong()
	require.NoError(t, err)
	require.Equal(t, int64(1<<40), l)
	l, err = in.ReadLong()
	require.NoError(t, err)
	require.Equal(t, int64(-7), l)
	m, err := in.ReadStringStringMap()
	require.NoError(t, err)
	require.Equal(t, map[string]string{"k1": "v1", "k2": "v2"}, m)
	set, err := in.ReadStringSet()
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"x": true}, set)
	require.Equal(t, in.Length(), in.FilePointer())
}

func TestCloneIsIndependent(t *testing.T) {
	dir := NewRAMDirectory()
	writeFile(t, dir, "c", func(out IndexOutput) {
		out.WriteBytes([]byte{1, 2, 3, 4})
	})
	in, err := dir.OpenInput("c", IO_CONTEXT_READ)
	require.NoError(t, err)
	in.ReadByte()
	clone := in.Clone()
	require.NoError(t, clone.Seek(3))
	b, err := in.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(2), b)
	b, err = clone.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(4), b)
}

func TestChecksumMatchesOutput(t *testing.T) {
	data := []byte("checksummed payload")
	dir := NewRAMDirectory()
	var written int64
	writeFile(t, dir, "x", func(out IndexOutput) {
		require.NoError(t, out.WriteBytes(data))
		written = out.Checksum()
		require.Equal(t, int64(len(data)), out.FilePointer())
	})
	require.Equal(t, int64(crc32.ChecksumIEEE(data)), written)

	in, err := dir.OpenChecksumInput("x", IO_CONTEXT_READONCE)
	require.NoError(t, err)
	require.NoError(t, in.Seek(int64(len(data))))
	require.Equal(t, written, in.Checksum())
	require.Error(t, in.Seek(0))
}

func TestCopy(t *testing.T) {
	from, to := NewRAMDirectory(), NewRAMDirectory()
	writeFile(t, from, "src", func(out IndexOutput) { out.WriteString("copied") })
	require.NoError(t, Copy(from, to, "src", "dst", IO_CONTEXT_DEFAULT))
	in, err := to.OpenInput("dst", IO_CONTEXT_READ)
	require.NoError(t, err)
	s, err := in.ReadString()
	require.NoError(t, err)
	require.Equal(t, "copied", s)
}

func TestByteArrayDataInput(t *testing.T) {
	in := NewByteArrayDataInput([]byte{0x81, 0x01, 5})
	v, err := in.ReadVInt()
	require.NoError(t, err)
	require.Equal(t, int32(129), v)
	require.Equal(t, 2, in.Position())
	require.False(t, in.EOF())
	in.Reset([]byte{})
	require.True(t, in.EOF())
	_, err = in.ReadByte()
	require.Error(t, err)
}

func TestTrackingDirectoryWrapper(t *testing.T) {
	dir := NewTrackingDirectoryWrapper(NewRAMDirectory())
	for _, name := range []string{"b", "a"} {
		out, err := dir.CreateOutput(name, IO_CONTEXT_DEFAULT)
		require.NoError(t, err)
		require.NoError(t, out.Close())
	}
	assert.Equal(t, []string{"a", "b"}, dir.CreatedFiles())
	require.NoError(t, dir.DeleteFile("a"))
	assert.False(t, dir.ContainsFile("a"))
	assert.True(t, dir.ContainsFile("b"))
	assert.True(t, dir.FileExists("b"))
}
