package index

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/ironsweet/docvalues/core/codec/lucene45"
	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/document"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(fields ...document.IndexableField) *document.Document {
	return document.NewDocument().Add(fields...)
}

func openReader(t *testing.T, dir store.Directory) DirectoryReader {
	r, err := OpenDirectoryReader(dir)
	require.NoError(t, err)
	return r
}

/* Writes three documents covering every doc values type and a missing value of each. */
func writeAllTypes(t *testing.T, dir store.Directory, conf *Config) {
	w, err := NewIndexWriter(dir, conf)
	require.NoError(t, err)
	require.NoError(t, w.AddDocument(newDoc(
		document.NewNumericDocValuesField("num", 5),
		document.NewBinaryDocValuesField("bin", []byte("a")),
		document.NewSortedDocValuesField("sorted", []byte("beta")),
		document.NewSortedSetDocValuesField("set", []byte("y")),
		document.NewSortedSetDocValuesField("set", []byte("x")),
		document.NewSortedSetDocValuesField("set", []byte("y")),
	)))
	require.NoError(t, w.AddDocument(newDoc(
		document.NewNumericDocValuesField("num", -3),
		document.NewSortedDocValuesField("sorted", []byte("alpha")),
		document.NewSortedSetDocValuesField("set", []byte("y")),
	)))
	require.NoError(t, w.AddDocument(newDoc(
		document.NewBinaryDocValuesField("bin", []byte("c")),
	)))
	assert.Equal(t, 3, w.NumDocs())
	require.NoError(t, w.Close())
}

func TestDocValuesRoundTrip(t *testing.T) {
	for _, conf := range []*Config{
		NewConfig(),
		NewConfig().SetCompression(lucene45.COMPRESSION_ZSTD),
		NewConfig().SetCompression(lucene45.COMPRESSION_LZ4).SetAsserting(true),
	} {
		dir := store.NewRAMDirectory()
		writeAllTypes(t, dir, conf)

		r := openReader(t, dir)
		leaves := r.Leaves()
		require.Len(t, leaves, 1)
		assert.Equal(t, 3, r.MaxDoc())
		reader := leaves[0].Reader()

		num, err := GetNumeric(reader, "num")
		require.NoError(t, err)
		assert.Equal(t, []int64{5, -3, 0}, []int64{num(0), num(1), num(2)})
		bits, err := GetDocsWithField(reader, "num")
		require.NoError(t, err)
		assert.True(t, bits.At(0))
		assert.True(t, bits.At(1))
		assert.False(t, bits.At(2))

		bin, err := GetBinary(reader, "bin")
		require.NoError(t, err)
		assert.Equal(t, "a", string(bin.Get(0)))
		assert.Empty(t, bin.Get(1))
		assert.Equal(t, "c", string(bin.Get(2)))

		sorted, err := GetSorted(reader, "sorted")
		require.NoError(t, err)
		assert.Equal(t, 2, sorted.ValueCount())
		assert.Equal(t, 1, sorted.Ord(0))
		assert.Equal(t, 0, sorted.Ord(1))
		assert.Equal(t, -1, sorted.Ord(2))
		assert.Equal(t, "alpha", string(sorted.LookupOrd(0)))
		assert.Equal(t, 1, sorted.LookupTerm([]byte("beta")))

		// a sorted field reads as binary
		sortedAsBinary, err := GetBinary(reader, "sorted")
		require.NoError(t, err)
		assert.Equal(t, "beta", string(sortedAsBinary.Get(0)))

		set, err := GetSortedSet(reader, "set")
		require.NoError(t, err)
		assert.Equal(t, int64(2), set.ValueCount())
		assert.Equal(t, []int64{0, 1}, ordsOf(set, 0))
		assert.Equal(t, []int64{1}, ordsOf(set, 1))
		assert.Empty(t, ordsOf(set, 2))
		assert.Equal(t, "x", string(set.LookupOrd(0)))

		// a sorted field reads as a singleton set
		sortedAsSet, err := GetSortedSet(reader, "sorted")
		require.NoError(t, err)
		assert.NotNil(t, UnwrapSingleton(sortedAsSet))
		assert.Equal(t, []int64{0}, ordsOf(sortedAsSet, 1))

		require.NoError(t, r.Close())
	}
}

func ordsOf(dv spi.SortedSetDocValues, doc int) (ords []int64) {
	dv.SetDocument(doc)
	for ord := dv.NextOrd(); ord != spi.NO_MORE_ORDS; ord = dv.NextOrd() {
		ords = append(ords, ord)
	}
	return
}

func TestAbsentAndMismatchedFields(t *testing.T) {
	dir := store.NewRAMDirectory()
	writeAllTypes(t, dir, NewConfig())
	r := openReader(t, dir)
	defer r.Close()
	reader := r.Leaves()[0].Reader()

	dv, err := reader.NumericDocValues("nope")
	require.NoError(t, err)
	assert.Nil(t, dv)

	num, err := GetNumeric(reader, "nope")
	require.NoError(t, err)
	assert.Equal(t, int64(0), num(1))
	bits, err := GetDocsWithField(reader, "nope")
	require.NoError(t, err)
	assert.False(t, bits.At(0))
	set, err := GetSortedSet(reader, "nope")
	require.NoError(t, err)
	assert.Equal(t, int64(0), set.ValueCount())

	_, err = reader.NumericDocValues("sorted")
	require.Error(t, err)
	assert.IsType(t, &spi.IllegalArgumentError{}, err)
	_, err = reader.SortedSetDocValues("bin")
	require.Error(t, err)
}

func TestAddDocumentValidation(t *testing.T) {
	w, err := NewIndexWriter(store.NewRAMDirectory(), NewConfig())
	require.NoError(t, err)
	defer w.Rollback()

	require.NoError(t, w.AddDocument(newDoc(document.NewNumericDocValuesField("f", 1))))

	// type change across documents
	err = w.AddDocument(newDoc(document.NewBinaryDocValuesField("f", []byte("x"))))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot change DocValues type")

	// two values for a single valued field
	err = w.AddDocument(newDoc(
		document.NewSortedDocValuesField("s", []byte("a")),
		document.NewSortedDocValuesField("s", []byte("b"))))
	require.Error(t, err)

	// too large
	err = w.AddDocument(newDoc(
		document.NewBinaryDocValuesField("big", make([]byte, MAX_DOC_VALUES_LENGTH+1))))
	require.Error(t, err)

	// rejected documents leave no trace
	assert.Equal(t, 1, w.NumDocs())
	require.NoError(t, w.AddDocument(newDoc(
		document.NewSortedDocValuesField("s", []byte("a")))))
	assert.Equal(t, 2, w.NumDocs())
}

func TestMultipleSegments(t *testing.T) {
	dir := store.NewRAMDirectory()
	w, err := NewIndexWriter(dir, NewConfig().SetMaxBufferedDocs(2))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, w.AddDocument(newDoc(document.NewNumericDocValuesField("id", int64(i)))))
	}
	require.NoError(t, w.Commit())

	r := openReader(t, dir)
	defer r.Close()
	assert.Equal(t, 5, r.MaxDoc())
	assert.Equal(t, 5, r.NumDocs())
	leaves := r.Leaves()
	require.Len(t, leaves, 3)
	for i, leaf := range leaves {
		assert.Equal(t, i, leaf.Ord)
		assert.Equal(t, 2*i, leaf.DocBase)
	}
	assert.Equal(t, 0, SubIndex(1, leaves))
	assert.Equal(t, 1, SubIndex(3, leaves))
	assert.Equal(t, 2, SubIndex(4, leaves))

	for doc := 0; doc < 5; doc++ {
		leaf := leaves[SubIndex(doc, leaves)]
		ids, err := GetNumeric(leaf.Reader(), "id")
		require.NoError(t, err)
		assert.Equal(t, int64(doc), ids(doc-leaf.DocBase))
	}
	assert.Same(t, r.Context(), TopLevelContext(leaves[2]))
}

func TestAppendKeepsFieldTypes(t *testing.T) {
	dir := store.NewRAMDirectory()
	w, err := NewIndexWriter(dir, NewConfig())
	require.NoError(t, err)
	require.NoError(t, w.AddDocument(newDoc(document.NewNumericDocValuesField("f", 1))))
	require.NoError(t, w.Close())

	w, err = NewIndexWriter(dir, NewConfig().SetOpenMode(OPEN_MODE_APPEND))
	require.NoError(t, err)
	assert.Equal(t, 1, w.NumDocs())
	assert.Error(t, w.AddDocument(newDoc(document.NewSortedDocValuesField("f", []byte("x")))))
	require.NoError(t, w.AddDocument(newDoc(document.NewNumericDocValuesField("f", 2))))
	require.NoError(t, w.Close())

	r := openReader(t, dir)
	defer r.Close()
	assert.Len(t, r.Leaves(), 2)
	assert.Equal(t, int64(2), r.Version())
	assert.Equal(t, "segments_2", r.SegmentInfos().SegmentsFileName())

	// CREATE replaces the index
	w, err = NewIndexWriter(dir, NewConfig().SetOpenMode(OPEN_MODE_CREATE))
	require.NoError(t, err)
	assert.Equal(t, 0, w.NumDocs())
	require.NoError(t, w.AddDocument(newDoc(document.NewSortedDocValuesField("f", []byte("x")))))
	require.NoError(t, w.Close())
	r2 := openReader(t, dir)
	defer r2.Close()
	assert.Equal(t, 1, r2.MaxDoc())
}

func TestOpenWithoutIndex(t *testing.T) {
	dir := store.NewRAMDirectory()
	_, err := OpenDirectoryReader(dir)
	assert.Error(t, err)
	_, err = NewIndexWriter(dir, NewConfig().SetOpenMode(OPEN_MODE_APPEND))
	assert.Error(t, err)
}

func TestRollback(t *testing.T) {
	dir := store.NewRAMDirectory()
	w, err := NewIndexWriter(dir, NewConfig())
	require.NoError(t, err)
	require.NoError(t, w.AddDocument(newDoc(document.NewNumericDocValuesField("f", 1))))
	require.NoError(t, w.Commit())
	committed, err := dir.ListAll()
	require.NoError(t, err)

	require.NoError(t, w.AddDocument(newDoc(document.NewNumericDocValuesField("f", 2))))
	require.NoError(t, w.Flush())
	require.NoError(t, w.Rollback())
	assert.Equal(t, ErrAlreadyClosed, w.AddDocument(newDoc()))

	files, err := dir.ListAll()
	require.NoError(t, err)
	assert.ElementsMatch(t, committed, files)

	r := openReader(t, dir)
	defer r.Close()
	assert.Equal(t, 1, r.MaxDoc())
}

func TestCommitData(t *testing.T) {
	dir := store.NewRAMDirectory()
	w, err := NewIndexWriter(dir, NewConfig())
	require.NoError(t, err)
	w.SetCommitData(map[string]string{"epoch": "7"})
	require.NoError(t, w.AddDocument(newDoc(document.NewNumericDocValuesField("f", 1))))
	require.NoError(t, w.Close())

	sis, err := ReadSegmentInfos(dir)
	require.NoError(t, err)
	assert.Equal(t, "7", sis.UserData()["epoch"])
	assert.Equal(t, 1, sis.TotalDocCount())
	assert.Equal(t, "segments_1", sis.SegmentsFileName())
	require.Len(t, sis.Segments, 1)
	assert.Equal(t, "flush", sis.Segments[0].Diagnostics()["source"])
}

func TestFlushReportsToInfoStream(t *testing.T) {
	var buf bytes.Buffer
	backend := logging.AddModuleLevel(logging.NewLogBackend(&buf, "", 0))
	backend.SetLevel(logging.DEBUG, "infostream")
	logging.SetBackend(backend)
	t.Cleanup(func() { logging.SetBackend(logging.NewLogBackend(os.Stderr, "", 0)) })

	dir := store.NewRAMDirectory()
	w, err := NewIndexWriter(dir, NewConfig().SetLoggingInfoStream("infostream"))
	require.NoError(t, err)
	require.NoError(t, w.AddDocument(newDoc(document.NewNumericDocValuesField("f", 1))))
	require.NoError(t, w.Flush())
	assert.Contains(t, buf.String(), "SW: flush doc values as segment _0 numDocs=1")

	backend.SetLevel(logging.INFO, "infostream")
	buf.Reset()
	require.NoError(t, w.AddDocument(newDoc(document.NewNumericDocValuesField("f", 2))))
	require.NoError(t, w.Close())
	assert.NotContains(t, buf.String(), "SW:")
}

func TestReaderRefCount(t *testing.T) {
	dir := store.NewRAMDirectory()
	writeAllTypes(t, dir, NewConfig())

	r := openReader(t, dir)
	r.IncRef()
	require.NoError(t, r.Close())
	assert.Equal(t, int32(1), r.RefCount())
	require.NoError(t, r.Close()) // second Close is a no-op
	assert.Equal(t, int32(1), r.RefCount())
	require.NoError(t, r.DecRef())
	assert.Equal(t, int32(0), r.RefCount())
	assert.Error(t, r.DecRef())
	assert.Panics(t, func() { r.IncRef() })
}

func TestMultiReader(t *testing.T) {
	dir1, dir2 := store.NewRAMDirectory(), store.NewRAMDirectory()
	writeAllTypes(t, dir1, NewConfig())
	writeAllTypes(t, dir2, NewConfig())
	r1, r2 := openReader(t, dir1), openReader(t, dir2)

	mr := NewMultiReader([]IndexReader{r1, r2}, false)
	assert.Equal(t, 6, mr.MaxDoc())
	leaves := mr.Leaves()
	require.Len(t, leaves, 2)
	assert.Equal(t, 3, leaves[1].DocBase)
	assert.Equal(t, 1, leaves[1].Ord)
	assert.Equal(t, int32(2), r1.RefCount())

	require.NoError(t, mr.Close())
	assert.Equal(t, int32(1), r1.RefCount())
	require.NoError(t, r1.Close())
	require.NoError(t, r2.Close())
	assert.Equal(t, int32(0), r2.RefCount())
}

func TestCheckIndex(t *testing.T) {
	dir := store.NewRAMDirectory()
	writeAllTypes(t, dir, NewConfig().SetCompression(lucene45.COMPRESSION_ZSTD))

	var out bytes.Buffer
	status, err := CheckIndex(context.Background(), dir, &out)
	require.NoError(t, err)
	assert.True(t, status.Clean, out.String())
	assert.Equal(t, 1, status.NumSegments)
	assert.Equal(t, 3, status.TotalDocCount)
	require.Len(t, status.SegmentInfos, 1)

	dvStatus := status.SegmentInfos[0].DocValuesStatus
	require.NotNil(t, dvStatus)
	assert.Equal(t, 4, dvStatus.TotalValueFields)
	assert.Equal(t, 1, dvStatus.TotalNumericFields)
	assert.Equal(t, 1, dvStatus.TotalBinaryFields)
	assert.Equal(t, 1, dvStatus.TotalSortedFields)
	assert.Equal(t, 1, dvStatus.TotalSortedSetFields)
	for _, field := range dvStatus.Fields {
		assert.NoError(t, field.Error)
		assert.Equal(t, 2, field.DocsWithValue, field.Name)
	}
	assert.Contains(t, out.String(), "No problems were detected")
}

func TestCheckIndexMissingSegments(t *testing.T) {
	status, err := CheckIndex(context.Background(), store.NewRAMDirectory(), nil)
	require.NoError(t, err)
	assert.False(t, status.Clean)
	assert.True(t, status.MissingSegments)
}

func TestCheckDocValuesCancelled(t *testing.T) {
	dir := store.NewRAMDirectory()
	writeAllTypes(t, dir, NewConfig())
	r := openReader(t, dir)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CheckDocValues(ctx, r.Leaves()[0].Reader())
	assert.Error(t, err)
}
