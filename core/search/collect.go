package search

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/ironsweet/docvalues/core/index"
)

// search/ScoreDoc.java

/* Holds one hit in TopDocs. */
type ScoreDoc struct {
	// The score of this document for the query.
	Score float32
	// A hit document's number.
	Doc int
	// Only set by MergeTopDocs
	ShardIndex int
}

func NewScoreDoc(doc int, score float32) *ScoreDoc {
	return NewShardedScoreDoc(doc, score, -1)
}

func NewShardedScoreDoc(doc int, score float32, shardIndex int) *ScoreDoc {
	return &ScoreDoc{score, doc, shardIndex}
}

func (d *ScoreDoc) String() string {
	return fmt.Sprintf("doc=%v score=%v shardIndex=%v", d.Doc, d.Score, d.ShardIndex)
}

// search/FieldDoc.java

/*
Expert: A ScoreDoc which also contains information about how to sort
the referenced document. In addition to the document number and
score, this object contains a slice of values for the document from
the field(s) used to sort. For example, if the sort criteria was to
sort by fields "a", "b" then "c", the Fields slice will have three
elements, corresponding respectively to the values of "a", "b" and
"c".
*/
type FieldDoc struct {
	*ScoreDoc
	// The values which are used to sort the referenced document. The
	// order of these will match the original sort criteria given by a
	// Sort.
	Fields []interface{}
}

func (d *FieldDoc) String() string {
	return fmt.Sprintf("%v fields=%v", d.ScoreDoc, d.Fields)
}

type PriorityQueue struct {
	items []interface{}
	less  func(i, j int) bool
}

func (pq PriorityQueue) Len() int            { return len(pq.items) }
func (pq PriorityQueue) Less(i, j int) bool  { return pq.less(i, j) }
func (pq PriorityQueue) Swap(i, j int)       { pq.items[i], pq.items[j] = pq.items[j], pq.items[i] }
func (pq *PriorityQueue) Push(x interface{}) { pq.items = append(pq.items, x) }
func (pq *PriorityQueue) Pop() interface{} {
	n := pq.Len()
	ans := pq.items[n-1]
	pq.items = pq.items[0 : n-1]
	return ans
}
func (pq *PriorityQueue) Top() interface{} { return pq.items[0] }
func (pq *PriorityQueue) updateTop() interface{} {
	heap.Fix(pq, 0)
	return pq.items[0]
}

// search/TopDocs.java

/* Represents hits returned by IndexSearcher.SearchTop(). */
type TopDocs struct {
	// The total number of hits for the query.
	TotalHits int
	// The top hits for the query.
	ScoreDocs []*ScoreDoc
	// Stores the maximum score value encountered, NaN if not tracked.
	MaxScore float64
	// The fields which were used to sort results, nil when sorted by
	// relevance.
	Fields []*SortField
	// The hits with their sort values, parallel to ScoreDocs. Only set
	// when Fields is set.
	FieldDocs []*FieldDoc
}

func (td TopDocs) String() string {
	return fmt.Sprintf("TopDocs(totalHits=%v maxScore=%v hits=%v)", td.TotalHits, td.MaxScore, td.ScoreDocs)
}

// search/Collector.java

/*
Expert: Collectors are primarily meant to be used to gather raw
results from a search, and implement sorting or custom result
filtering, collation, etc.

A collector is driven by one goroutine: SetNextReader() is called
once per segment, followed by SetScorer() and Collect() for the
matching documents of that segment.
*/
type Collector interface {
	/*
		Called before successive calls to Collect(). Implementations that
		need the score of the current document (passed-in to Collect()),
		should save the passed-in Scorer and call scorer.Score() when
		needed.
	*/
	SetScorer(s Scorer)
	/*
		Called once for every document matching a query, with the
		unbased document number.
	*/
	Collect(doc int) error
	/*
		Called before collecting from each AtomicReaderContext. All doc
		ids in Collect() will correspond to ctx.Reader(). Add
		ctx.DocBase to the current reader's internal document id to
		re-base ids in Collect().
	*/
	SetNextReader(ctx *index.AtomicReaderContext) error
	/*
		Return true if this collector does not require the matching
		docIDs to be delivered in int sort order (smallest to largest)
		to Collect().
	*/
	AcceptsDocsOutOfOrder() bool
}

// search/TopDocsCollector.java

/*
A base for all collectors that return a TopDocs output. This collector
allows easy extension by providing a single constructor which accepts
a PriorityQueue as well as protected members for that priority queue
and a counter of the number of total hits.
*/
type TopDocsCollector interface {
	Collector
	// Returns the top docs that were collected by this collector.
	TopDocs() TopDocs
	/*
		Returns the documents in the rage [start .. start+howMany) that
		were collected by this collector. Note that if start >= pq.size(),
		an empty TopDocs is returned, and if pq.size() - start < howMany,
		then only the available documents in [start .. pq.size()) are
		returned.

		NOTE: you cannot call this method more than once for each search
		execution.
	*/
	TopDocsRange(start, howMany int) TopDocs
	// The total number of documents that matched this query.
	TotalHits() int
}

type TopDocsCreator interface {
	// Populates the results array with the ScoreDoc instances.
	populateResults(results []*ScoreDoc, howMany int)
	/*
		Returns a TopDocs instance containing the given results. If
		results is nil it means there are no results to return, either
		because there were 0 calls to collect() or because the arguments
		to topDocs were invalid.
	*/
	newTopDocs(results []*ScoreDoc, start int) TopDocs
	// The number of valid PQ entries
	topDocsSize() int
}

type abstractTopDocsCollector struct {
	Collector
	TopDocsCreator
	pq        *PriorityQueue
	totalHits int
}

func newTopDocsCollector(self interface{}, pq *PriorityQueue) *abstractTopDocsCollector {
	return &abstractTopDocsCollector{
		Collector:      self.(Collector),
		TopDocsCreator: self.(TopDocsCreator),
		pq:             pq,
	}
}

func (c *abstractTopDocsCollector) TotalHits() int {
	return c.totalHits
}

func (c *abstractTopDocsCollector) populateResults(results []*ScoreDoc, howMany int) {
	for i := howMany - 1; i >= 0; i-- {
		results[i] = heap.Pop(c.pq).(*ScoreDoc)
	}
}

func (c *abstractTopDocsCollector) topDocsSize() int {
	// In case pq was populated with sentinel values, there might be less
	// results than pq.size(). Therefore return all results until either
	// pq.size() or totalHits.
	if n := c.pq.Len(); c.totalHits >= n {
		return n
	}
	return c.totalHits
}

func (c *abstractTopDocsCollector) TopDocs() TopDocs {
	return c.TopDocsRange(0, c.TopDocsCreator.topDocsSize())
}

func (c *abstractTopDocsCollector) TopDocsRange(start, howMany int) TopDocs {
	size := c.TopDocsCreator.topDocsSize()

	// Don't bother to return an error, just return an empty TopDocs in
	// case the parameters are invalid or out of range.
	if start < 0 || start >= size || howMany <= 0 {
		return c.newTopDocs(nil, start)
	}

	// We know that start < pqsize, so just fix howMany.
	if size-start < howMany {
		howMany = size - start
	}
	results := make([]*ScoreDoc, howMany)

	// pq's pop() returns the 'least' element in the queue, therefore
	// need to discard the first ones, until we reach the requested
	// range.
	for i := c.pq.Len() - start - howMany; i > 0; i-- {
		heap.Pop(c.pq)
	}

	// Get the requested results from pq.
	c.TopDocsCreator.populateResults(results, howMany)

	return c.newTopDocs(results, start)
}

// search/TopScoreDocCollector.java

/*
A Collector implementation that collects the top-scoring hits,
returning them as a TopDocs. This is used by IndexSearcher to
implement TopDocs-based search. Hits are sorted by score descending
and then (when the scores are tied) docID ascending.
*/
type TopScoreDocCollector struct {
	*abstractTopDocsCollector
	pqTop   *ScoreDoc
	docBase int
	scorer  Scorer
}

func newTopScoreDocCollector(numHits int) (*TopScoreDocCollector, *PriorityQueue) {
	docs := make([]interface{}, numHits)
	for i := range docs {
		docs[i] = NewScoreDoc(math.MaxInt32, -math.MaxFloat32)
	}
	pq := &PriorityQueue{items: docs}
	pq.less = func(i, j int) bool {
		hitA := pq.items[i].(*ScoreDoc)
		hitB := pq.items[j].(*ScoreDoc)
		if hitA.Score == hitB.Score {
			return hitA.Doc > hitB.Doc
		}
		return hitA.Score < hitB.Score
	}
	heap.Init(pq)

	return &TopScoreDocCollector{pqTop: pq.Top().(*ScoreDoc)}, pq
}

func (c *TopScoreDocCollector) newTopDocs(results []*ScoreDoc, start int) TopDocs {
	if results == nil {
		return TopDocs{c.totalHits, []*ScoreDoc{}, math.NaN(), nil, nil}
	}

	// We need to compute maxScore in order to set it in TopDocs. If
	// start == 0, it means the largest element is already in results,
	// use its score as maxScore. Otherwise pop everything else, until
	// the largest element is extracted and use its score as maxScore.
	maxScore := math.NaN()
	if start == 0 {
		maxScore = float64(results[0].Score)
	} else {
		pq := c.pq
		for i := pq.Len(); i > 1; i-- {
			heap.Pop(pq)
		}
		maxScore = float64(heap.Pop(pq).(*ScoreDoc).Score)
	}

	return TopDocs{c.totalHits, results, maxScore, nil, nil}
}

func (c *TopScoreDocCollector) SetNextReader(ctx *index.AtomicReaderContext) error {
	c.docBase = ctx.DocBase
	return nil
}

func (c *TopScoreDocCollector) SetScorer(scorer Scorer) {
	c.scorer = scorer
}

/*
Creates a new TopScoreDocCollector given the number of hits to
collect and whether documents are scored in order by the input Scorer
to SetScorer().
*/
func NewTopScoreDocCollector(numHits int, docsScoredInOrder bool) TopDocsCollector {
	assert2(numHits > 0, "numHits must be > 0; please use TotalHitCountCollector if you just need the total hit count")

	if docsScoredInOrder {
		return newInOrderTopScoreDocCollector(numHits)
	}
	return newOutOfOrderTopScoreDocCollector(numHits)
}

// Assumes docs are scored in order.
type InOrderTopScoreDocCollector struct {
	*TopScoreDocCollector
}

func newInOrderTopScoreDocCollector(numHits int) *InOrderTopScoreDocCollector {
	base, pq := newTopScoreDocCollector(numHits)
	c := &InOrderTopScoreDocCollector{base}
	c.abstractTopDocsCollector = newTopDocsCollector(c, pq)
	return c
}

func (c *InOrderTopScoreDocCollector) Collect(doc int) (err error) {
	score, err := c.scorer.Score()
	if err != nil {
		return err
	}

	// This collector cannot handle these scores:
	assert2(score != -math.MaxFloat32, "score is -MaxFloat32")
	assert2(!math.IsNaN(float64(score)), "score is NaN")

	c.totalHits++
	if score <= c.pqTop.Score {
		// Since docs are returned in-order (i.e., increasing doc Id), a
		// document with equal score to pqTop.score cannot compete since
		// HitQueue favors documents with lower doc Ids. Therefore reject
		// those docs too.
		return
	}
	c.pqTop.Doc = doc + c.docBase
	c.pqTop.Score = score
	c.pqTop = c.pq.updateTop().(*ScoreDoc)
	return
}

func (c *InOrderTopScoreDocCollector) AcceptsDocsOutOfOrder() bool {
	return false
}

type OutOfOrderTopScoreDocCollector struct {
	*TopScoreDocCollector
}

func newOutOfOrderTopScoreDocCollector(numHits int) *OutOfOrderTopScoreDocCollector {
	base, pq := newTopScoreDocCollector(numHits)
	c := &OutOfOrderTopScoreDocCollector{base}
	c.abstractTopDocsCollector = newTopDocsCollector(c, pq)
	return c
}

func (c *OutOfOrderTopScoreDocCollector) Collect(doc int) (err error) {
	var score float32
	if score, err = c.scorer.Score(); err != nil {
		return err
	}

	// This collector cannot handle NaN
	assert2(!math.IsNaN(float64(score)), "score is NaN")

	c.totalHits++
	if score < c.pqTop.Score {
		// Doesn't compete w/ bottom entry in queue
		return nil
	}
	doc += c.docBase
	if score == c.pqTop.Score && doc > c.pqTop.Doc {
		// Break tie in score by doc ID:
		return nil
	}
	c.pqTop.Doc = doc
	c.pqTop.Score = score
	c.pqTop = c.pq.updateTop().(*ScoreDoc)
	return nil
}

func (c *OutOfOrderTopScoreDocCollector) AcceptsDocsOutOfOrder() bool {
	return true
}

// search/TotalHitCountCollector.java

/* Just counts the total number of hits. */
type TotalHitCountCollector struct {
	totalHits int
}

func NewTotalHitCountCollector() *TotalHitCountCollector {
	return &TotalHitCountCollector{}
}

// Returns how many hits matched the search.
func (c *TotalHitCountCollector) TotalHits() int {
	return c.totalHits
}

func (c *TotalHitCountCollector) SetScorer(s Scorer) {}

func (c *TotalHitCountCollector) SetNextReader(ctx *index.AtomicReaderContext) error {
	return nil
}

func (c *TotalHitCountCollector) AcceptsDocsOutOfOrder() bool {
	return true
}

func (c *TotalHitCountCollector) Collect(doc int) error {
	c.totalHits++
	return nil
}

// search/MultiCollector.java

/*
A Collector which allows running a search with several Collectors. It
offers a static Wrap method which accepts a list of collectors and
wraps them with MultiCollector, while filtering out the nil ones.
*/
type MultiCollector struct {
	collectors []Collector
}

/*
Wraps a list of Collectors with a MultiCollector. Nil collectors are
filtered out; a single remaining collector is returned unwrapped.
*/
func WrapCollectors(collectors ...Collector) Collector {
	var valid []Collector
	for _, c := range collectors {
		if c != nil {
			valid = append(valid, c)
		}
	}
	assert2(len(valid) > 0, "At least 1 collector must not be nil")
	if len(valid) == 1 {
		return valid[0]
	}
	return &MultiCollector{valid}
}

func (c *MultiCollector) AcceptsDocsOutOfOrder() bool {
	for _, sub := range c.collectors {
		if !sub.AcceptsDocsOutOfOrder() {
			return false
		}
	}
	return true
}

func (c *MultiCollector) Collect(doc int) error {
	for _, sub := range c.collectors {
		if err := sub.Collect(doc); err != nil {
			return err
		}
	}
	return nil
}

func (c *MultiCollector) SetNextReader(ctx *index.AtomicReaderContext) error {
	for _, sub := range c.collectors {
		if err := sub.SetNextReader(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *MultiCollector) SetScorer(s Scorer) {
	for _, sub := range c.collectors {
		sub.SetScorer(s)
	}
}
