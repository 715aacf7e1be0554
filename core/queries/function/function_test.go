package function

import (
	"fmt"
	"testing"

	"github.com/ironsweet/docvalues/core/document"
	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/search"
	"github.com/ironsweet/docvalues/core/search/model"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
Five documents in one segment:

	doc  int  float  double  name      label
	0    5    1.5    2.5     banana    x
	1    -3   -0.5   10      apple     y
	2    -    -      -       -         -
	3    0    0      -1      cherry    z
	4    -    -      -       𝄞clef     -
*/
func openReader(t *testing.T) index.IndexReader {
	dir := store.NewRAMDirectory()
	w, err := index.NewIndexWriter(dir, index.NewConfig())
	require.NoError(t, err)
	docs := []*document.Document{
		document.NewDocument().Add(
			document.NewNumericDocValuesField("int", 5),
			document.NewFloatDocValuesField("float", 1.5),
			document.NewDoubleDocValuesField("double", 2.5),
			document.NewSortedDocValuesField("name", []byte("banana")),
			document.NewBinaryDocValuesField("label", []byte("x"))),
		document.NewDocument().Add(
			document.NewNumericDocValuesField("int", -3),
			document.NewFloatDocValuesField("float", -0.5),
			document.NewDoubleDocValuesField("double", 10),
			document.NewSortedDocValuesField("name", []byte("apple")),
			document.NewBinaryDocValuesField("label", []byte("y"))),
		document.NewDocument(),
		document.NewDocument().Add(
			document.NewNumericDocValuesField("int", 0),
			document.NewFloatDocValuesField("float", 0),
			document.NewDoubleDocValuesField("double", -1),
			document.NewSortedDocValuesField("name", []byte("cherry")),
			document.NewBinaryDocValuesField("label", []byte("z"))),
		document.NewDocument().Add(
			document.NewSortedDocValuesField("name", []byte("𝄞clef"))),
	}
	for _, doc := range docs {
		require.NoError(t, w.AddDocument(doc))
	}
	require.NoError(t, w.Close())
	r, err := index.OpenDirectoryReader(dir)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	require.Len(t, r.Leaves(), 1)
	return r
}

func valuesOf(t *testing.T, leaf *index.AtomicReaderContext, vs ValueSource) FunctionValues {
	vals, err := vs.Values(leaf)
	require.NoError(t, err)
	return vals
}

func TestNumericFieldSources(t *testing.T) {
	leaf := openReader(t).Leaves()[0]

	ints := valuesOf(t, leaf, NewIntFieldSource("int"))
	assert.Equal(t, int32(5), ints.IntVal(0))
	assert.Equal(t, int64(-3), ints.LongVal(1))
	assert.Equal(t, float32(-3), ints.FloatVal(1))
	assert.Equal(t, int8(5), ints.ByteVal(0))
	assert.True(t, ints.BoolVal(0))
	assert.False(t, ints.BoolVal(3))
	assert.True(t, ints.Exists(3))
	assert.False(t, ints.Exists(2))
	assert.Nil(t, ints.ObjectVal(2))
	assert.Equal(t, int32(5), ints.ObjectVal(0))
	assert.Equal(t, "int(int)=-3", ints.String(1))

	floats := valuesOf(t, leaf, NewFloatFieldSource("float"))
	assert.Equal(t, float32(1.5), floats.FloatVal(0))
	assert.Equal(t, -0.5, floats.DoubleVal(1))
	assert.Equal(t, int32(1), floats.IntVal(0))
	assert.Equal(t, "1.5", floats.StrVal(0))
	assert.True(t, floats.Exists(3))
	assert.False(t, floats.Exists(2))

	doubles := valuesOf(t, leaf, NewDoubleFieldSource("double"))
	assert.Equal(t, 10.0, doubles.DoubleVal(1))
	assert.Equal(t, int64(2), doubles.LongVal(0))
	assert.Equal(t, int16(-1), doubles.ShortVal(3))
	assert.Equal(t, "double(double)=2.5", doubles.String(0))
	assert.Nil(t, doubles.ObjectVal(2))
	assert.Equal(t, 2.5, doubles.ObjectVal(0))

	longs := valuesOf(t, leaf, NewLongFieldSource("int"))
	assert.Equal(t, int64(-3), longs.LongVal(1))
	assert.Equal(t, "-3", longs.StrVal(1))
	b, ok := longs.BytesVal(0, nil)
	assert.True(t, ok)
	assert.Equal(t, "5", string(b))
	b, ok = longs.BytesVal(2, b)
	assert.False(t, ok)
	assert.Empty(t, b)
}

func TestValueFiller(t *testing.T) {
	leaf := openReader(t).Leaves()[0]

	filler := valuesOf(t, leaf, NewIntFieldSource("int")).ValueFiller()
	mval := filler.Value()
	filler.FillValue(0)
	assert.Equal(t, "5", mval.String())
	dup := mval.Duplicate()
	filler.FillValue(2)
	assert.Same(t, mval, filler.Value())
	assert.False(t, mval.Exists())
	assert.Equal(t, int32(5), dup.Object())

	filler = valuesOf(t, leaf, NewBytesRefFieldSource("name")).ValueFiller()
	mval = filler.Value()
	filler.FillValue(1)
	assert.Equal(t, "apple", mval.Object())
	filler.FillValue(2)
	assert.False(t, mval.Exists())
	assert.Nil(t, mval.Object())

	filler = valuesOf(t, leaf, NewBytesRefFieldSource("label")).ValueFiller()
	mval = filler.Value()
	filler.FillValue(3)
	assert.Equal(t, "z", mval.Object())
	filler.FillValue(4)
	assert.False(t, mval.Exists())

	filler = valuesOf(t, leaf, NewDoubleFieldSource("double")).ValueFiller()
	filler.FillValue(3)
	assert.Equal(t, -1.0, filler.Value().Object())
}

func TestStringSources(t *testing.T) {
	leaf := openReader(t).Leaves()[0]

	vals := valuesOf(t, leaf, NewBytesRefFieldSource("name"))
	require.IsType(t, &DocTermsIndexDocValues{}, vals)
	ords := vals.(OrdinalValues)
	assert.Equal(t, 4, ords.NumOrd())
	assert.Equal(t, 0, ords.OrdVal(1))
	assert.Equal(t, -1, ords.OrdVal(2))
	assert.Equal(t, "name=banana", vals.String(0))
	assert.Equal(t, "𝄞clef", vals.StrVal(4))
	assert.Len(t, vals.(*DocTermsIndexDocValues).UTF16Val(4), 6)
	assert.Equal(t, "", vals.StrVal(2))
	assert.Nil(t, vals.ObjectVal(2))
	assert.False(t, vals.BoolVal(2))
	b, ok := vals.BytesVal(3, nil)
	assert.True(t, ok)
	assert.Equal(t, "cherry", string(b))
	assert.Panics(t, func() { vals.IntVal(0) })
	assert.Equal(t, float32(1), vals.Explain(0).Value())

	labels := valuesOf(t, leaf, NewBytesRefFieldSource("label"))
	require.IsType(t, &StrDocValues{}, labels)
	assert.Equal(t, "y", labels.StrVal(1))
	assert.Equal(t, "label='y'", labels.String(1))
	assert.False(t, labels.Exists(2))
	assert.Nil(t, labels.ObjectVal(2))
	assert.Equal(t, "x", labels.ObjectVal(0))
	assert.Panics(t, func() { labels.DoubleVal(0) })

	sorted, err := NewSortedFieldSource("name").OrdinalValues(leaf)
	require.NoError(t, err)
	assert.Equal(t, 3, sorted.OrdVal(4))
	assert.Equal(t, "sorted(name)=apple", sorted.String(1))
}

func TestConstSources(t *testing.T) {
	leaf := openReader(t).Leaves()[0]

	c := valuesOf(t, leaf, NewConstValueSource(0.5))
	assert.Equal(t, float32(0.5), c.FloatVal(3))
	assert.True(t, c.Exists(2))
	assert.Equal(t, "const(0.5)=0.5", c.String(0))

	b := valuesOf(t, leaf, NewBoolConstValueSource(true))
	assert.True(t, b.BoolVal(4))
	assert.Equal(t, int32(1), b.IntVal(4))
	assert.Equal(t, 1.0, b.DoubleVal(4))
	assert.Equal(t, "const(true)=true", b.String(0))
	assert.Equal(t, true, b.ObjectVal(1))
}

func matches(t *testing.T, leaf *index.AtomicReaderContext, vs ValueSource,
	lower, upper []byte, includeLower, includeUpper bool) []int {

	scorer, err := valuesOf(t, leaf, vs).RangeScorer(leaf, lower, upper, includeLower, includeUpper)
	require.NoError(t, err)
	var docs []int
	for {
		doc, err := scorer.NextDoc()
		require.NoError(t, err)
		if doc == model.NO_MORE_DOCS {
			return docs
		}
		docs = append(docs, doc)
	}
}

func bound(s string) []byte { return []byte(s) }

func TestRangeScorers(t *testing.T) {
	leaf := openReader(t).Leaves()[0]

	ints := NewIntFieldSource("int")
	assert.Equal(t, []int{0, 3}, matches(t, leaf, ints, bound("0"), bound("5"), true, true))
	assert.Equal(t, []int{1, 3}, matches(t, leaf, ints, bound("-3"), bound("5"), true, false))
	assert.Equal(t, []int{1, 3}, matches(t, leaf, ints, nil, bound("0"), true, true))
	assert.Empty(t, matches(t, leaf, ints, bound("0"), bound("5"), false, false))

	doubles := NewDoubleFieldSource("double")
	assert.Equal(t, []int{1}, matches(t, leaf, doubles, bound("2.5"), nil, false, true))
	assert.Equal(t, []int{0, 3}, matches(t, leaf, doubles, nil, bound("2.5"), true, true))

	floats := NewFloatFieldSource("float")
	assert.Equal(t, []int{1, 3}, matches(t, leaf, floats, bound("-1"), bound("1.5"), true, false))

	names := NewBytesRefFieldSource("name")
	// bounds absent from the dictionary resolve to their insertion point
	assert.Equal(t, []int{0, 3}, matches(t, leaf, names, bound("b"), bound("d"), true, true))
	assert.Equal(t, []int{3, 4}, matches(t, leaf, names, bound("banana"), nil, false, true))
	assert.Equal(t, []int{1}, matches(t, leaf, names, nil, bound("apple"), true, true))
	assert.Empty(t, matches(t, leaf, names, bound("apple"), bound("apple"), false, true))

	labels := NewBytesRefFieldSource("label")
	assert.Equal(t, []int{0, 1}, matches(t, leaf, labels, bound("x"), bound("y"), true, true))
	assert.Equal(t, []int{1}, matches(t, leaf, labels, bound("x"), bound("z"), false, false))

	vals := valuesOf(t, leaf, ints)
	_, err := vals.RangeScorer(leaf, bound("abc"), nil, true, true)
	assert.Error(t, err)

	scorer, err := vals.RangeScorer(leaf, nil, nil, true, true)
	require.NoError(t, err)
	doc, err := scorer.Advance(2)
	require.NoError(t, err)
	assert.Equal(t, 3, doc)
	score, err := scorer.Score()
	require.NoError(t, err)
	assert.Equal(t, float32(0), score)
}

func TestFunctionWeight(t *testing.T) {
	r := openReader(t)
	w := NewFunctionWeight(NewDoubleFieldSource("double"), 2)

	td, err := search.NewIndexSearcher(r).SearchTop(w, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, td.TotalHits)
	require.Len(t, td.ScoreDocs, 3)
	assert.Equal(t, 1, td.ScoreDocs[0].Doc)
	assert.Equal(t, float32(20), td.ScoreDocs[0].Score)
	assert.Equal(t, 0, td.ScoreDocs[1].Doc)
	assert.Equal(t, 2, td.ScoreDocs[2].Doc)

	exp, err := w.Explain(r.Leaves()[0], 1)
	require.NoError(t, err)
	assert.True(t, exp.IsMatch())
	assert.Equal(t,
		"20 = (MATCH) FunctionQuery(double(double)), product of:\n  10 = double(double)=10\n  2 = boost\n",
		fmt.Sprint(exp))
}

func TestFunctionRangeWeight(t *testing.T) {
	r := openReader(t)
	w := NewFunctionRangeWeight(NewBytesRefFieldSource("name"), bound("b"), nil, true, true)
	assert.Equal(t, "frange(name):[b TO *]", w.String())

	c := search.NewTotalHitCountCollector()
	require.NoError(t, search.NewIndexSearcher(r).Search(w, c))
	assert.Equal(t, 3, c.TotalHits())

	td, err := search.NewIndexSearcher(r).SearchTop(w, 5)
	require.NoError(t, err)
	assert.Equal(t, float32(1), td.ScoreDocs[0].Score)
}

func TestValueSourceSortField(t *testing.T) {
	r := openReader(t)
	sort := search.NewSort(NewValueSourceSortField(NewDoubleFieldSource("double"), true))
	td, err := search.NewIndexSearcher(r).SearchSorted(search.NewMatchAllDocsWeight(1), 5, sort)
	require.NoError(t, err)
	var docs []int
	for _, sd := range td.ScoreDocs {
		docs = append(docs, sd.Doc)
	}
	assert.Equal(t, []int{1, 0, 2, 4, 3}, docs)
	assert.Equal(t, 10.0, td.FieldDocs[0].Fields[0])
	assert.Equal(t, `<custom:"double(double)": double(double)>!`, sort.String())
}
