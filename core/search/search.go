package search

import (
	"fmt"

	"github.com/ironsweet/docvalues/core/index"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("search")

// search/IndexSearcher.java

/*
Implements search over a single IndexReader.

Applications usually need only call the inherited SearchTop() or
SearchSorted() methods. For performance reasons, if your index is
unchanging, you should share a single IndexSearcher instance across
multiple searches instead of creating a new one per-search.

NOTE: IndexSearcher instances are completely thread safe, meaning
multiple goroutines can call any of its methods, concurrently. The
Collectors passed in are not; use one per goroutine.
*/
type IndexSearcher struct {
	reader        index.IndexReader
	readerContext index.IndexReaderContext
	leafContexts  []*index.AtomicReaderContext
}

func NewIndexSearcher(r index.IndexReader) *IndexSearcher {
	log.Debugf("Initializing IndexSearcher from IndexReader: %v", r)
	return &IndexSearcher{r, r.Context(), r.Leaves()}
}

// Return the IndexReader this searches.
func (ss *IndexSearcher) IndexReader() index.IndexReader {
	return ss.reader
}

/*
Returns this searcher's top-level IndexReaderContext.
*/
func (ss *IndexSearcher) TopReaderContext() index.IndexReaderContext {
	return ss.readerContext
}

// Leaves of the searched reader, in doc base order.
func (ss *IndexSearcher) Leaves() []*index.AtomicReaderContext {
	return ss.leafContexts
}

/*
Finds the top n hits for the documents matched by w, sorted by score
descending then doc id ascending.
*/
func (ss *IndexSearcher) SearchTop(w Weight, n int) (topDocs TopDocs, err error) {
	if limit := max(ss.reader.MaxDoc(), 1); n > limit {
		n = limit
	}
	c := NewTopScoreDocCollector(n, !w.ScoresDocsOutOfOrder())
	if err = ss.Search(w, c); err != nil {
		return TopDocs{}, err
	}
	return c.TopDocs(), nil
}

/*
Search implementation with arbitrary sorting. Finds the top n hits for
the documents matched by w, sorted by sort. Scores are tracked when
the sort needs them.
*/
func (ss *IndexSearcher) SearchSorted(w Weight, n int, sort *Sort) (topDocs TopDocs, err error) {
	if limit := max(ss.reader.MaxDoc(), 1); n > limit {
		n = limit
	}
	needsScores := sort.NeedsScores()
	c, err := NewTopFieldCollector(sort, n, needsScores, needsScores)
	if err != nil {
		return TopDocs{}, err
	}
	if err = ss.Search(w, c); err != nil {
		return TopDocs{}, err
	}
	return c.TopDocs(), nil
}

/*
Lower-level search API. Collect() is called for every matching
document of every leaf, leaves being visited in doc base order by the
calling goroutine.
*/
func (ss *IndexSearcher) Search(w Weight, c Collector) error {
	assert2(c.AcceptsDocsOutOfOrder() || !w.ScoresDocsOutOfOrder(),
		"collector %T requires docs in order but %v scores out of order", c, w)
	for _, ctx := range ss.leafContexts { // search each subreader
		if err := c.SetNextReader(ctx); err != nil {
			return err
		}
		scorer, err := w.Scorer(ctx)
		if err != nil {
			return err
		}
		if scorer == nil {
			continue
		}
		if err = ScoreAndCollect(scorer, c); err != nil {
			return err
		}
	}
	return nil
}

func (ss *IndexSearcher) String() string {
	return fmt.Sprintf("IndexSearcher(%v)", ss.reader)
}

/*
Drives c over every document of every leaf of reader, scoring each
with 1. Equivalent to a match-all query.
*/
func Search(reader index.IndexReader, c Collector) error {
	return NewIndexSearcher(reader).Search(NewMatchAllDocsWeight(1), c)
}
