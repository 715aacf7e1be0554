package facet

import (
	"testing"

	"github.com/ironsweet/docvalues/core/document"
	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/search"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathToString(t *testing.T) {
	s, err := PathToString("color", "red")
	require.NoError(t, err)
	assert.Equal(t, "color\x1fred", s)
	assert.Equal(t, []string{"color", "red"}, StringToPath(s))

	// delimiter and escape inside a component survive the round trip
	s, err = PathToString("a\x1fb", "c\x1ed")
	require.NoError(t, err)
	assert.Equal(t, "a\x1e\x1fb\x1fc\x1e\x1ed", s)
	assert.Equal(t, []string{"a\x1fb", "c\x1ed"}, StringToPath(s))

	s, err = PathToString()
	require.NoError(t, err)
	assert.Equal(t, "", s)
	assert.Empty(t, StringToPath(""))

	_, err = PathToString("color", "")
	assert.Error(t, err)
}

func TestConfig(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, DEFAULT_DIM_CONFIG, c.DimConfig("color"))
	c.SetMultiValued("color", true)
	c.SetIndexFieldName("size", "$sizes")
	assert.True(t, c.DimConfig("color").MultiValued)
	assert.Equal(t, DEFAULT_INDEX_FIELD_NAME, c.DimConfig("color").IndexFieldName)
	assert.Equal(t, "$sizes", c.DimConfig("size").IndexFieldName)
	assert.Len(t, c.DimConfigs(), 2)

	doc, err := c.Build(document.NewDocument().Add(
		document.NewNumericDocValuesField("n", 1),
		NewSortedSetDocValuesFacetField("color", "red"),
		NewSortedSetDocValuesFacetField("color", "blue"),
		NewSortedSetDocValuesFacetField("size", "small")))
	require.NoError(t, err)
	require.Len(t, doc.Fields(), 4)
	assert.Equal(t, "n", doc.Fields()[0].Name())
	facets := doc.GetFields(DEFAULT_INDEX_FIELD_NAME)
	require.Len(t, facets, 2)
	assert.Equal(t, []byte("color\x1fred"), facets[0].BinaryValue())
	assert.Equal(t, []byte("color\x1fblue"), facets[1].BinaryValue())
	assert.Equal(t, []byte("size\x1fsmall"), doc.GetField("$sizes").BinaryValue())

	// size is single valued
	_, err = c.Build(document.NewDocument().Add(
		NewSortedSetDocValuesFacetField("size", "small"),
		NewSortedSetDocValuesFacetField("size", "large")))
	assert.Error(t, err)

	assert.Panics(t, func() { NewSortedSetDocValuesFacetField("color", "") })
}

func TestTopOrdAndIntQueue(t *testing.T) {
	q := NewTopOrdAndIntQueue(3)
	for _, e := range []OrdAndValue{{0, 1}, {1, 5}, {2, 1}, {3, 5}, {4, 2}, {5, 1}} {
		q.InsertWithOverflow(e)
	}
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, OrdAndValue{4, 2}, q.Top())
	assert.False(t, q.InsertWithOverflow(OrdAndValue{6, 2}))
	assert.True(t, q.InsertWithOverflow(OrdAndValue{0, 2}))

	var popped []OrdAndValue
	for q.Len() > 0 {
		popped = append(popped, q.PopLeast())
	}
	assert.Equal(t, []OrdAndValue{{0, 2}, {3, 5}, {1, 5}}, popped)
}

func TestFacetResultString(t *testing.T) {
	r := &FacetResult{
		Dim:         "color",
		Path:        []string{},
		Value:       4,
		ChildCount:  3,
		LabelValues: []*LabelAndValue{{"red", 2}, {"blue", 1}},
	}
	assert.Equal(t, "dim=color path=[] value=4 childCount=3\n  red (2)\n  blue (1)\n", r.String())
}

func TestFacetsCollector(t *testing.T) {
	dir := store.NewRAMDirectory()
	w, err := index.NewIndexWriter(dir, index.NewConfig().SetMaxBufferedDocs(2))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, w.AddDocument(document.NewDocument().Add(
			document.NewNumericDocValuesField("n", int64(i)))))
	}
	require.NoError(t, w.Close())
	r, err := index.OpenDirectoryReader(dir)
	require.NoError(t, err)
	defer r.Close()

	fc := NewFacetsCollector(true)
	td, err := Search(search.NewIndexSearcher(r), search.NewMatchAllDocsWeight(2), 3, fc)
	require.NoError(t, err)
	assert.Equal(t, 5, td.TotalHits)
	assert.Len(t, td.ScoreDocs, 3)

	mds := fc.MatchingDocs()
	require.Len(t, mds, 3)
	assert.Equal(t, 2, mds[0].TotalHits)
	assert.Equal(t, 1, mds[2].TotalHits)
	assert.True(t, mds[1].DocIdSet().At(1))
	assert.Equal(t, float32(2), mds[1].Scores[1])

	var docs []int
	require.NoError(t, mds[0].Each(func(doc int) error {
		docs = append(docs, doc)
		return nil
	}))
	assert.Equal(t, []int{0, 1}, docs)
}
