package lucene46

import (
	"testing"

	"github.com/ironsweet/docvalues/core/codec"
	. "github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/stretchr/testify/require"
)

func titleInfos() FieldInfos {
	title := NewFieldInfo("title", true, 0, false, false, false,
		INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS, DOC_VALUES_TYPE_SORTED, DOC_VALUES_TYPE_NONE, -1, nil)
	return NewFieldInfos([]*FieldInfo{title})
}

func TestFieldInfosRoundTrip(t *testing.T) {
	dir := store.NewRAMDirectory()
	require.NoError(t, Lucene46FieldInfosWriter(dir, "_0", "", titleInfos(), store.IO_CONTEXT_DEFAULT))

	infos, err := Lucene46FieldInfosReader(dir, "_0", "", store.IO_CONTEXT_READ)
	require.NoError(t, err)
	require.Equal(t, 1, infos.Size())
	fi := infos.FieldInfoByName("title")
	require.NotNil(t, fi)
	require.Equal(t, int32(0), fi.Number)
	require.True(t, fi.IsIndexed())
	require.Equal(t, INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS, fi.IndexOptions())
	require.Equal(t, DOC_VALUES_TYPE_SORTED, fi.DocValuesType())
	require.Equal(t, DOC_VALUES_TYPE_NONE, fi.NormType())
	require.Equal(t, int64(-1), fi.DocValuesGen())
	require.Empty(t, fi.Attributes())
	require.False(t, fi.HasVectors())
	require.False(t, fi.HasPayloads())
	require.False(t, fi.OmitsNorms())
}

func TestFieldInfosRoundTripAllOptions(t *testing.T) {
	var all []*FieldInfo
	opts := []IndexOptions{INDEX_OPT_NONE, INDEX_OPT_DOCS_ONLY, INDEX_OPT_DOCS_AND_FREQS,
		INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS, INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS}
	types := []DocValuesType{DOC_VALUES_TYPE_NONE, DOC_VALUES_TYPE_NUMERIC, DOC_VALUES_TYPE_BINARY,
		DOC_VALUES_TYPE_SORTED, DOC_VALUES_TYPE_SORTED_SET}
	for i, opt := range opts {
		indexed := opt != INDEX_OPT_NONE
		payloads := opt >= INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS
		gen := int64(-1)
		if types[i] != DOC_VALUES_TYPE_NONE {
			gen = int64(i * 3)
		}
		all = append(all, NewFieldInfo(string(rune('a'+i)), indexed, int32(10-i), indexed, i%2 == 0, payloads,
			opt, types[i], DOC_VALUES_TYPE_NUMERIC, gen, map[string]string{"k": string(rune('0' + i))}))
	}
	dir := store.NewRAMDirectory()
	require.NoError(t, Lucene46FieldInfosWriter(dir, "_1", "Asserting_0", NewFieldInfos(all), store.IO_CONTEXT_DEFAULT))
	require.True(t, dir.FileExists("_1_Asserting_0.fnm"))

	infos, err := Lucene46FieldInfosReader(dir, "_1", "Asserting_0", store.IO_CONTEXT_READ)
	require.NoError(t, err)
	for _, expected := range all {
		actual := infos.FieldInfoByNumber(int(expected.Number))
		require.Equal(t, expected.String(), actual.String())
	}
}

func TestInvalidDocValuesByteIsCorruption(t *testing.T) {
	dir := store.NewRAMDirectory()
	require.NoError(t, Lucene46FieldInfosWriter(dir, "_0", "", titleInfos(), store.IO_CONTEXT_DEFAULT))

	in, err := dir.OpenInput("_0.fnm", store.IO_CONTEXT_READ)
	require.NoError(t, err)
	data := make([]byte, in.Length())
	require.NoError(t, in.ReadBytes(data))

	// header, field count, "title", number, flags, then the doc values byte
	pos := codec.HeaderLength(FI_CODEC_NAME) + 1 + 6 + 1 + 1
	require.Equal(t, byte(DOC_VALUES_TYPE_SORTED), data[pos])
	data[pos] = 7

	out, err := dir.CreateOutput("_9.fnm", store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	require.NoError(t, out.WriteBytes(data))
	require.NoError(t, out.Close())

	_, err = Lucene46FieldInfosReader(dir, "_9", "", store.IO_CONTEXT_READ)
	require.Error(t, err)
	cie, ok := err.(*codec.CorruptIndexError)
	require.True(t, ok, "expected corruption, got %v", err)
	require.Contains(t, cie.Message, "invalid docvalues byte: 7")
	require.Contains(t, cie.Resource, "_9.fnm")
}

func TestFlagCombinationsAreDecodedAsWritten(t *testing.T) {
	dir := store.NewRAMDirectory()
	out, err := dir.CreateOutput("_6.fnm", store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	require.NoError(t, codec.WriteHeader(out, FI_CODEC_NAME, FI_FORMAT_CURRENT))
	require.NoError(t, out.WriteVInt(1))
	require.NoError(t, out.WriteString("body"))
	require.NoError(t, out.WriteVInt(3))
	// payloads without positions
	require.NoError(t, out.WriteByte(FI_IS_INDEXED|FI_STORE_PAYLOADS|FI_OMIT_TERM_FREQ_AND_POSITIONS))
	require.NoError(t, out.WriteByte(0))
	require.NoError(t, out.WriteLong(-1))
	require.NoError(t, out.WriteStringStringMap(nil))
	require.NoError(t, codec.WriteFooter(out))
	require.NoError(t, out.Close())

	infos, err := Lucene46FieldInfosReader(dir, "_6", "", store.IO_CONTEXT_READ)
	require.NoError(t, err)
	fi := infos.FieldInfoByName("body")
	require.NotNil(t, fi)
	require.Equal(t, int32(3), fi.Number)
	require.True(t, fi.IsIndexed())
	require.True(t, fi.HasPayloads())
	require.Equal(t, INDEX_OPT_DOCS_ONLY, fi.IndexOptions())
	require.Equal(t, DOC_VALUES_TYPE_NONE, fi.DocValuesType())
}

func TestTruncatedFooterIsCorruption(t *testing.T) {
	dir := store.NewRAMDirectory()
	require.NoError(t, Lucene46FieldInfosWriter(dir, "_0", "", titleInfos(), store.IO_CONTEXT_DEFAULT))
	require.NoError(t, store.Copy(dir, dir, "_0.fnm", "_0.tmp", store.IO_CONTEXT_DEFAULT))

	in, err := dir.OpenInput("_0.tmp", store.IO_CONTEXT_READ)
	require.NoError(t, err)
	data := make([]byte, in.Length())
	require.NoError(t, in.ReadBytes(data))
	data[len(data)-1] ^= 0x1

	out, err := dir.CreateOutput("_2.fnm", store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	require.NoError(t, out.WriteBytes(data))
	require.NoError(t, out.Close())

	_, err = Lucene46FieldInfosReader(dir, "_2", "", store.IO_CONTEXT_READ)
	require.IsType(t, &codec.CorruptIndexError{}, err)
}

func TestLegacyVersionWithoutFooter(t *testing.T) {
	dir := store.NewRAMDirectory()
	out, err := dir.CreateOutput("_3.fnm", store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	require.NoError(t, codec.WriteHeader(out, FI_CODEC_NAME, FI_FORMAT_START))
	require.NoError(t, out.WriteVInt(1))
	require.NoError(t, writeFieldInfo(out, titleInfos().Values[0]))
	require.NoError(t, out.Close())

	infos, err := Lucene46FieldInfosReader(dir, "_3", "", store.IO_CONTEXT_READ)
	require.NoError(t, err)
	require.Equal(t, DOC_VALUES_TYPE_SORTED, infos.FieldInfoByName("title").DocValuesType())

	// trailing garbage fails the end of file check
	out, err = dir.CreateOutput("_4.fnm", store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	require.NoError(t, codec.WriteHeader(out, FI_CODEC_NAME, FI_FORMAT_START))
	require.NoError(t, out.WriteVInt(0))
	require.NoError(t, out.WriteByte(0))
	require.NoError(t, out.Close())
	_, err = Lucene46FieldInfosReader(dir, "_4", "", store.IO_CONTEXT_READ)
	require.IsType(t, &codec.CorruptIndexError{}, err)
}

func TestSegmentInfoRoundTrip(t *testing.T) {
	dir := store.NewRAMDirectory()
	si := NewSegmentInfo(dir, "4.6", "_5", 3, false, nil, map[string]string{"source": "flush"}, nil)
	si.SetFiles(map[string]bool{"_5.fnm": true, "_5.dvd": true})

	format := NewLucene46SegmentInfoFormat()
	require.NoError(t, format.SegmentInfoWriter().Write(dir, si, titleInfos(), store.IO_CONTEXT_DEFAULT))
	require.True(t, si.Files()["_5.si"])

	read, err := format.SegmentInfoReader().Read(dir, "_5", store.IO_CONTEXT_READ)
	require.NoError(t, err)
	require.Equal(t, "4.6", read.Version())
	require.Equal(t, 3, read.DocCount())
	require.False(t, read.IsCompoundFile())
	require.Equal(t, map[string]string{"source": "flush"}, read.Diagnostics())
	require.Equal(t, []string{"_5.dvd", "_5.fnm", "_5.si"}, read.SortedFiles())
}
