package search

import (
	"testing"

	"github.com/ironsweet/docvalues/core/document"
	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	name    string // empty when missing
	price   int64
	rating  float64
	noPrice bool
}

/* Indexes products into two segments of up to three docs each. */
func newProductReader(t *testing.T, products ...product) index.IndexReader {
	dir := store.NewRAMDirectory()
	w, err := index.NewIndexWriter(dir, index.NewConfig().SetMaxBufferedDocs(3))
	require.NoError(t, err)
	for _, p := range products {
		doc := document.NewDocument().Add(document.NewDoubleDocValuesField("rating", p.rating))
		if p.name != "" {
			doc.Add(document.NewSortedDocValuesField("name", []byte(p.name)))
			doc.Add(document.NewBinaryDocValuesField("label", []byte(p.name)))
		}
		if !p.noPrice {
			doc.Add(document.NewNumericDocValuesField("price", p.price))
		}
		require.NoError(t, w.AddDocument(doc))
	}
	require.NoError(t, w.Close())
	r, err := index.OpenDirectoryReader(dir)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

var catalog = []product{
	{name: "pear", price: 30, rating: 4.5},
	{name: "apple", price: 10, rating: 3.0},
	{name: "fig", price: 30, rating: 1.5},
	{name: "", price: 5, rating: 4.5},
	{name: "kiwi", noPrice: true, rating: 2.0},
}

func docsOf(td TopDocs) (ans []int) {
	for _, sd := range td.ScoreDocs {
		ans = append(ans, sd.Doc)
	}
	return
}

func TestSearchTopConstantScore(t *testing.T) {
	r := newProductReader(t, catalog...)
	ss := NewIndexSearcher(r)
	require.Len(t, ss.Leaves(), 2)

	td, err := ss.SearchTop(NewMatchAllDocsWeight(2), 3)
	require.NoError(t, err)
	assert.Equal(t, 5, td.TotalHits)
	// ties on score are broken by doc id
	assert.Equal(t, []int{0, 1, 2}, docsOf(td))
	assert.Equal(t, 2.0, td.MaxScore)
	assert.Equal(t, float32(2), td.ScoreDocs[0].Score)
}

func TestSortByLong(t *testing.T) {
	r := newProductReader(t, catalog...)
	ss := NewIndexSearcher(r)

	td, err := ss.SearchSorted(NewMatchAllDocsWeight(1), 10, NewSort(NewSortField("price", SORT_FIELD_TYPE_LONG, false)))
	require.NoError(t, err)
	// missing price sorts as 0; equal prices by doc id
	assert.Equal(t, []int{4, 3, 1, 0, 2}, docsOf(td))
	assert.Equal(t, int64(0), td.FieldDocs[0].Fields[0])
	assert.Equal(t, int64(30), td.FieldDocs[4].Fields[0])
	assert.Len(t, td.Fields, 1)

	byPriceDesc := NewSortField("price", SORT_FIELD_TYPE_LONG, true).SetMissingValue(int64(100))
	td, err = ss.SearchSorted(NewMatchAllDocsWeight(1), 2, NewSort(byPriceDesc))
	require.NoError(t, err)
	assert.Equal(t, 5, td.TotalHits)
	assert.Equal(t, []int{4, 0}, docsOf(td))
}

func TestSortByMultipleFields(t *testing.T) {
	r := newProductReader(t, catalog...)
	ss := NewIndexSearcher(r)

	sort := NewSort(
		NewSortField("rating", SORT_FIELD_TYPE_DOUBLE, true),
		NewSortField("price", SORT_FIELD_TYPE_LONG, false))
	td, err := ss.SearchSorted(NewMatchAllDocsWeight(1), 10, sort)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 0, 1, 4, 2}, docsOf(td))
	assert.Equal(t, []interface{}{4.5, int64(5)}, td.FieldDocs[0].Fields)
	assert.Equal(t, "<DOUBLE: \"rating\">!,<LONG: \"price\">", sort.String())
}

func TestSortByString(t *testing.T) {
	r := newProductReader(t, catalog...)
	ss := NewIndexSearcher(r)

	td, err := ss.SearchSorted(NewMatchAllDocsWeight(1), 10, NewSort(NewSortField("name", SORT_FIELD_TYPE_STRING, false)))
	require.NoError(t, err)
	// missing first by default
	assert.Equal(t, []int{3, 1, 2, 4, 0}, docsOf(td))
	assert.Nil(t, td.FieldDocs[0].Fields[0])
	assert.Equal(t, []byte("apple"), td.FieldDocs[1].Fields[0])

	last := NewSortField("label", SORT_FIELD_TYPE_STRING_VAL, false).SetMissingValue(STRING_LAST)
	td, err = ss.SearchSorted(NewMatchAllDocsWeight(1), 10, NewSort(last))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4, 0, 3}, docsOf(td))

	reversed := NewSortField("name", SORT_FIELD_TYPE_STRING, true)
	td, err = ss.SearchSorted(NewMatchAllDocsWeight(1), 2, NewSort(reversed))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4}, docsOf(td))
}

func TestSortByDocAndScore(t *testing.T) {
	r := newProductReader(t, catalog...)
	ss := NewIndexSearcher(r)

	td, err := ss.SearchSorted(NewMatchAllDocsWeight(1), 10, NewSort(NewSortField("", SORT_FIELD_TYPE_DOC, true)))
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 2, 1, 0}, docsOf(td))

	td, err = ss.SearchSorted(NewMatchAllDocsWeight(3), 2, RELEVANCE)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, docsOf(td))
	assert.Equal(t, float32(3), td.ScoreDocs[0].Score)
	assert.Equal(t, 3.0, td.MaxScore)
}

func TestTopDocsRange(t *testing.T) {
	r := newProductReader(t, catalog...)
	c, err := NewTopFieldCollector(INDEXORDER, 5, false, false)
	require.NoError(t, err)
	require.NoError(t, Search(r, c))
	td := c.TopDocsRange(1, 2)
	assert.Equal(t, []int{1, 2}, docsOf(td))

	c2 := NewTopScoreDocCollector(5, true)
	require.NoError(t, Search(r, c2))
	assert.Empty(t, c2.TopDocsRange(7, 2).ScoreDocs)
}

func TestMultiCollector(t *testing.T) {
	r := newProductReader(t, catalog...)
	count := NewTotalHitCountCollector()
	top := NewTopScoreDocCollector(2, true)
	c := WrapCollectors(nil, count, top)
	assert.False(t, c.AcceptsDocsOutOfOrder())
	require.NoError(t, Search(r, c))
	assert.Equal(t, 5, count.TotalHits())
	assert.Equal(t, 5, top.TotalHits())
	assert.Equal(t, []int{0, 1}, docsOf(top.TopDocs()))

	assert.Same(t, count, WrapCollectors(count, nil))
	assert.Panics(t, func() { WrapCollectors(nil) })
}

func TestExplanation(t *testing.T) {
	exp := NewExplanation(2, "sum of:")
	exp.AddDetail(NewExplanation(1.5, "price"))
	exp.AddDetail(NewMatchExplanation(false, 0.5, "rating"))
	assert.True(t, exp.IsMatch())
	assert.Equal(t, "2 = sum of:\n  1.5 = price\n  0.5 = (NON_MATCH) rating\n", exp.String())
	assert.False(t, exp.Details()[1].IsMatch())

	assert.False(t, NewExplanation(0, "zero").IsMatch())
	assert.True(t, NewMatchExplanation(true, 0, "forced").IsMatch())
}
