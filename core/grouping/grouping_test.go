package grouping

import (
	"math"
	"testing"

	"github.com/ironsweet/docvalues/core/document"
	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/queries/function"
	"github.com/ironsweet/docvalues/core/search"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util/mutable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type book struct {
	author string // empty when missing
	price  int64
	color  string
}

/*
Seven books in three segments of up to three docs:

	doc  author  price  color
	0    a       10     red
	1    b       5      blue
	2    a       7      red
	3    -       3      green
	4    c       20     red
	5    b       1      green
	6    a       30     blue
*/
var books = []book{
	{"a", 10, "red"},
	{"b", 5, "blue"},
	{"a", 7, "red"},
	{"", 3, "green"},
	{"c", 20, "red"},
	{"b", 1, "green"},
	{"a", 30, "blue"},
}

func newBookSearcher(t *testing.T) *search.IndexSearcher {
	dir := store.NewRAMDirectory()
	w, err := index.NewIndexWriter(dir, index.NewConfig().SetMaxBufferedDocs(3))
	require.NoError(t, err)
	for _, b := range books {
		doc := document.NewDocument().Add(
			document.NewNumericDocValuesField("price", b.price),
			document.NewSortedDocValuesField("color", []byte(b.color)))
		if b.author != "" {
			doc.Add(document.NewSortedDocValuesField("author", []byte(b.author)))
		}
		require.NoError(t, w.AddDocument(doc))
	}
	require.NoError(t, w.Close())
	r, err := index.OpenDirectoryReader(dir)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	require.Len(t, r.Leaves(), 3)
	return search.NewIndexSearcher(r)
}

var (
	byAuthor    = function.NewBytesRefFieldSource("author")
	byPrice     = search.NewSort(search.NewSortField("price", search.SORT_FIELD_TYPE_LONG, false))
	byPriceDesc = search.NewSort(search.NewSortField("price", search.SORT_FIELD_TYPE_LONG, true))
)

func groupNames(groups []*SearchGroup) (ans []string) {
	for _, g := range groups {
		ans = append(ans, g.GroupValue.String())
	}
	return
}

func docsOf(sds []*search.ScoreDoc) (ans []int) {
	for _, sd := range sds {
		ans = append(ans, sd.Doc)
	}
	return
}

func firstPass(t *testing.T, ss *search.IndexSearcher, groupSort *search.Sort, topN int) *FunctionFirstPassGroupingCollector {
	c, err := NewFunctionFirstPassGroupingCollector(byAuthor, groupSort, topN)
	require.NoError(t, err)
	require.NoError(t, ss.Search(search.NewMatchAllDocsWeight(1), c))
	return c
}

func TestFirstPassTopGroups(t *testing.T) {
	ss := newBookSearcher(t)

	groups := firstPass(t, ss, byPrice, 2).GetTopGroups(0, true)
	assert.Equal(t, []string{"b", "(null)"}, groupNames(groups))
	assert.Equal(t, []interface{}{int64(1)}, groups[0].SortValues)
	assert.Equal(t, []interface{}{int64(3)}, groups[1].SortValues)

	c := firstPass(t, ss, byPrice, 10)
	assert.Equal(t, []string{"b", "(null)", "a", "c"}, groupNames(c.GetTopGroups(0, false)))
	groups = c.GetTopGroups(1, false)
	assert.Equal(t, []string{"(null)", "a", "c"}, groupNames(groups))
	assert.Nil(t, groups[0].SortValues)
	assert.Nil(t, c.GetTopGroups(4, false))
}

func TestFirstPassReplacesBottomGroup(t *testing.T) {
	ss := newBookSearcher(t)

	// c replaces b at the bottom, then a moves up with its 30
	groups := firstPass(t, ss, byPriceDesc, 2).GetTopGroups(0, true)
	assert.Equal(t, []string{"a", "c"}, groupNames(groups))
	assert.Equal(t, []interface{}{int64(30)}, groups[0].SortValues)
	assert.Equal(t, []interface{}{int64(20)}, groups[1].SortValues)
}

func TestFirstPassRejectsZeroGroups(t *testing.T) {
	_, err := NewFunctionFirstPassGroupingCollector(byAuthor, byPrice, 0)
	assert.Error(t, err)
}

func TestSecondPass(t *testing.T) {
	ss := newBookSearcher(t)
	groups := firstPass(t, ss, byPrice, 2).GetTopGroups(0, true)

	c, err := NewFunctionSecondPassGroupingCollector(byAuthor, groups, byPrice, byPrice, 10, false, false)
	require.NoError(t, err)
	require.NoError(t, ss.Search(search.NewMatchAllDocsWeight(1), c))
	tg := c.GetTopGroups(0)
	assert.Equal(t, 7, tg.TotalHitCount)
	assert.Equal(t, 3, tg.TotalGroupedHitCount)
	assert.Equal(t, -1, tg.TotalGroupCount)
	require.Len(t, tg.Groups, 2)
	assert.Equal(t, "b", tg.Groups[0].GroupValue.String())
	assert.Equal(t, []int{5, 1}, docsOf(tg.Groups[0].ScoreDocs))
	assert.Equal(t, 2, tg.Groups[0].TotalHits)
	assert.Equal(t, []interface{}{int64(1)}, tg.Groups[0].GroupSortValues)
	assert.Equal(t, int64(5), tg.Groups[0].FieldDocs[1].Fields[0])
	assert.Equal(t, []int{3}, docsOf(tg.Groups[1].ScoreDocs))
	assert.Equal(t, byPrice.Fields(), tg.WithinGroupSort)
	assert.True(t, math.IsNaN(tg.MaxScore), "max score is not tracked")

	// by score, ties broken by doc id
	c, err = NewFunctionSecondPassGroupingCollector(byAuthor, groups, byPrice, nil, 1, true, true)
	require.NoError(t, err)
	require.NoError(t, ss.Search(search.NewMatchAllDocsWeight(2), c))
	tg = c.GetTopGroups(0)
	assert.Equal(t, []int{1}, docsOf(tg.Groups[0].ScoreDocs))
	assert.Equal(t, 2, tg.Groups[0].TotalHits)
	assert.Equal(t, 2.0, tg.MaxScore)
	assert.Nil(t, tg.WithinGroupSort)

	_, err = NewFunctionSecondPassGroupingCollector(byAuthor, nil, byPrice, nil, 1, true, true)
	assert.Error(t, err)
}

func TestAllGroupHeads(t *testing.T) {
	ss := newBookSearcher(t)

	c := NewFunctionAllGroupHeadsCollector(byAuthor, byPrice)
	require.NoError(t, ss.Search(search.NewMatchAllDocsWeight(1), c))
	assert.Equal(t, 4, c.GroupHeadsSize())
	heads := c.RetrieveGroupHeads(len(books))
	assert.Equal(t, uint(4), heads.Count())
	for _, doc := range []uint{2, 3, 4, 5} {
		assert.True(t, heads.Test(doc), "doc %v", doc)
	}
	assert.Equal(t, []int{2, 3, 4, 5}, c.RetrieveGroupHeadDocs())

	c = NewFunctionAllGroupHeadsCollector(byAuthor, byPriceDesc)
	require.NoError(t, ss.Search(search.NewMatchAllDocsWeight(1), c))
	assert.Equal(t, []int{1, 3, 4, 6}, c.RetrieveGroupHeadDocs())

	// equal scores keep the first doc of each group
	c = NewFunctionAllGroupHeadsCollector(byAuthor, search.RELEVANCE)
	require.NoError(t, ss.Search(search.NewMatchAllDocsWeight(1), c))
	assert.Equal(t, []int{0, 1, 3, 4}, c.RetrieveGroupHeadDocs())
}

func TestAllGroups(t *testing.T) {
	ss := newBookSearcher(t)

	c := NewFunctionAllGroupsCollector(byAuthor)
	require.NoError(t, ss.Search(search.NewMatchAllDocsWeight(1), c))
	assert.Equal(t, 4, c.GroupCount())
	var names []string
	for _, g := range c.Groups() {
		names = append(names, g.String())
	}
	assert.Equal(t, []string{"(null)", "a", "b", "c"}, names)
}

func TestDistinctValues(t *testing.T) {
	ss := newBookSearcher(t)
	groups := firstPass(t, ss, byPrice, 2).GetTopGroups(0, false)

	c := NewFunctionDistinctValuesCollector(byAuthor, function.NewBytesRefFieldSource("color"), groups)
	require.NoError(t, ss.Search(search.NewMatchAllDocsWeight(1), c))
	counts := c.Groups()
	require.Len(t, counts, 2)

	valuesOf := func(gc *GroupCount) (ans []string) {
		for _, v := range gc.UniqueValues() {
			ans = append(ans, v.String())
		}
		return
	}
	assert.Equal(t, "b", counts[0].GroupValue.String())
	assert.Equal(t, 2, counts[0].Count())
	assert.Equal(t, []string{"blue", "green"}, valuesOf(counts[0]))
	assert.Equal(t, []string{"green"}, valuesOf(counts[1]))
}

func TestGroupingSearch(t *testing.T) {
	ss := newBookSearcher(t)
	gs := NewGroupingSearch(byAuthor).
		SetGroupSort(byPrice).
		SetSortWithinGroup(byPrice).
		SetGroupDocsLimit(5).
		SetFillSortFields(true).
		SetAllGroups(true).
		SetAllGroupHeads(true)

	run := func() *TopGroups {
		tg, err := gs.Search(ss, search.NewMatchAllDocsWeight(1), 0, 2)
		require.NoError(t, err)
		return tg
	}
	tg := run()
	assert.Equal(t, 4, tg.TotalGroupCount)
	assert.Equal(t, 7, tg.TotalHitCount)
	require.Len(t, tg.Groups, 2)
	assert.Equal(t, "b", tg.Groups[0].GroupValue.String())
	assert.Equal(t, []int{5, 1}, docsOf(tg.Groups[0].ScoreDocs))
	assert.Equal(t, []interface{}{int64(1)}, tg.Groups[0].GroupSortValues)
	assert.False(t, tg.Groups[1].GroupValue.Exists())
	assert.Len(t, gs.MatchingGroups(), 4)
	assert.Equal(t, uint(4), gs.MatchingGroupHeads().Count())
	assert.True(t, gs.MatchingGroupHeads().Test(5))

	// a second run over the same index yields identical groups
	again := run()
	require.Len(t, again.Groups, len(tg.Groups))
	for i, g := range tg.Groups {
		assert.True(t, mutable.Equals(g.GroupValue, again.Groups[i].GroupValue))
		assert.Equal(t, docsOf(g.ScoreDocs), docsOf(again.Groups[i].ScoreDocs))
	}

	tg, err := gs.Search(ss, search.NewMatchAllDocsWeight(1), 4, 2)
	require.NoError(t, err)
	assert.Empty(t, tg.Groups)
	assert.Equal(t, 4, tg.TotalGroupCount)
}

func TestCollectorLifecycle(t *testing.T) {
	ss := newBookSearcher(t)
	c, err := NewFunctionFirstPassGroupingCollector(byAuthor, byPrice, 2)
	require.NoError(t, err)
	assert.Equal(t, STATE_UNSET, c.State())
	assert.Error(t, c.Collect(0))

	require.NoError(t, ss.Search(search.NewMatchAllDocsWeight(1), c))
	assert.Equal(t, STATE_PER_SEGMENT_ACTIVE, c.State())
	c.GetTopGroups(0, false)
	assert.Equal(t, STATE_DONE, c.State())
	assert.Equal(t, "Done", c.State().String())

	assert.Equal(t, ErrCollectorDone, c.Collect(0))
	assert.Equal(t, ErrCollectorDone, ss.Search(search.NewMatchAllDocsWeight(1), c))

	heads := NewFunctionAllGroupHeadsCollector(byAuthor, byPrice)
	require.NoError(t, ss.Search(search.NewMatchAllDocsWeight(1), heads))
	heads.RetrieveGroupHeadDocs()
	assert.Equal(t, ErrCollectorDone, ss.Search(search.NewMatchAllDocsWeight(1), heads))
}
