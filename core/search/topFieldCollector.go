package search

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/ironsweet/docvalues/core/index"
)

// search/FieldValueHitQueue.java

type fieldValueHitEntry struct {
	*ScoreDoc
	slot int
}

func (e *fieldValueHitEntry) String() string {
	return fmt.Sprintf("slot:%v %v", e.slot, e.ScoreDoc)
}

/*
Expert: A hit queue for sorting by hits by terms in more than one
field. The top of the queue is the weakest hit, i.e. the one sorted
last.
*/
type FieldValueHitQueue struct {
	*PriorityQueue
	fields      []*SortField
	comparators []FieldComparator
	reverseMul  []int
}

/*
Creates a hit queue sorted by the given list of fields, holding at
most size entries.
*/
func NewFieldValueHitQueue(fields []*SortField, size int) (*FieldValueHitQueue, error) {
	assert2(len(fields) > 0, "Sort must contain at least one field")
	q := &FieldValueHitQueue{
		PriorityQueue: &PriorityQueue{items: make([]interface{}, 0, size)},
		fields:        fields,
		comparators:   make([]FieldComparator, len(fields)),
		reverseMul:    make([]int, len(fields)),
	}
	for i, field := range fields {
		q.reverseMul[i] = 1
		if field.reverse {
			q.reverseMul[i] = -1
		}
		var err error
		if q.comparators[i], err = field.ComparatorOf(size, i); err != nil {
			return nil, err
		}
	}
	q.less = func(i, j int) bool {
		return q.lessThan(q.items[i].(*fieldValueHitEntry), q.items[j].(*fieldValueHitEntry))
	}
	return q, nil
}

/* Returns whether hitA sorts after hitB. */
func (q *FieldValueHitQueue) lessThan(hitA, hitB *fieldValueHitEntry) bool {
	assert2(hitA != hitB, "comparing an entry with itself")
	assert2(hitA.slot != hitB.slot, "two entries share slot %v", hitA.slot)

	for i, comp := range q.comparators {
		if c := q.reverseMul[i] * comp.Compare(hitA.slot, hitB.slot); c != 0 {
			// Short circuit
			return c > 0
		}
	}
	// avoid random sort order that could lead to duplicates
	return hitA.Doc > hitB.Doc
}

func (q *FieldValueHitQueue) Comparators() []FieldComparator { return q.comparators }

func (q *FieldValueHitQueue) ReverseMul() []int { return q.reverseMul }

/*
Given a queue entry, creates a corresponding FieldDoc that contains
the values used to sort the given document. These values are not the
raw values out of the index, but the internal representation of them.
*/
func (q *FieldValueHitQueue) fillFields(entry *fieldValueHitEntry) *FieldDoc {
	fields := make([]interface{}, len(q.comparators))
	for i, comp := range q.comparators {
		fields[i] = comp.Value(entry.slot)
	}
	return &FieldDoc{entry.ScoreDoc, fields}
}

// search/TopFieldCollector.java

/*
A Collector that sorts by SortField using FieldComparators.

Documents are assumed to be collected in increasing doc id order
within a segment, so a hit tying with the bottom of a full queue is
never competitive.
*/
type TopFieldCollector struct {
	queue          *FieldValueHitQueue
	numHits        int
	totalHits      int
	trackDocScores bool
	trackMaxScore  bool
	maxScore       float32
	docBase        int
	scorer         Scorer
	bottom         *fieldValueHitEntry
	queueFull      bool
}

/*
Creates a new TopFieldCollector from the given arguments.

trackDocScores specifies whether document scores should be tracked and
set on the results; trackMaxScore whether the query's max score should
be tracked. Both add scoring overhead to the search.
*/
func NewTopFieldCollector(sort *Sort, numHits int, trackDocScores, trackMaxScore bool) (*TopFieldCollector, error) {
	assert2(numHits > 0, "numHits must be > 0; please use TotalHitCountCollector if you just need the total hit count")
	queue, err := NewFieldValueHitQueue(sort.fields, numHits)
	if err != nil {
		return nil, err
	}
	return &TopFieldCollector{
		queue:          queue,
		numHits:        numHits,
		trackDocScores: trackDocScores,
		trackMaxScore:  trackMaxScore,
		maxScore:       float32(math.Inf(-1)),
	}, nil
}

func (c *TopFieldCollector) SetNextReader(ctx *index.AtomicReaderContext) error {
	c.docBase = ctx.DocBase
	for _, comp := range c.queue.comparators {
		if err := comp.SetNextReader(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *TopFieldCollector) SetScorer(scorer Scorer) {
	c.scorer = scorer
	for _, comp := range c.queue.comparators {
		comp.SetScorer(scorer)
	}
}

func (c *TopFieldCollector) AcceptsDocsOutOfOrder() bool {
	return false
}

func (c *TopFieldCollector) Collect(doc int) (err error) {
	score := float32(math.NaN())
	if c.trackMaxScore {
		if score, err = c.scorer.Score(); err != nil {
			return err
		}
		if score > c.maxScore {
			c.maxScore = score
		}
	}

	c.totalHits++
	comparators, reverseMul := c.queue.comparators, c.queue.reverseMul
	if c.queueFull {
		// Fastmatch: return if this hit is not competitive
		for i, comp := range comparators {
			cmp, err := comp.CompareBottom(doc)
			if err != nil {
				return err
			}
			if cmp *= reverseMul[i]; cmp < 0 {
				// Definitely not competitive.
				return nil
			} else if cmp > 0 {
				// Definitely competitive.
				break
			} else if i == len(comparators)-1 {
				// Here cmp == 0. We've hit the last comparator, and the doc's
				// value equals the bottom; since docs are visited in doc Id
				// order, this doc cannot compete with any other document in
				// the queue.
				return nil
			}
		}

		// This hit is competitive - replace bottom element in queue &
		// adjustTop
		for _, comp := range comparators {
			if err = comp.Copy(c.bottom.slot, doc); err != nil {
				return err
			}
		}
		if c.trackDocScores && !c.trackMaxScore {
			if score, err = c.scorer.Score(); err != nil {
				return err
			}
		}
		c.bottom.Doc = c.docBase + doc
		c.bottom.Score = score
		c.bottom = c.queue.updateTop().(*fieldValueHitEntry)
		c.setBottom()
		return nil
	}

	// Startup transient: queue hasn't gathered numHits yet
	slot := c.totalHits - 1
	for _, comp := range comparators {
		if err = comp.Copy(slot, doc); err != nil {
			return err
		}
	}
	if c.trackDocScores && !c.trackMaxScore {
		if score, err = c.scorer.Score(); err != nil {
			return err
		}
	}
	heap.Push(c.queue, &fieldValueHitEntry{NewScoreDoc(c.docBase+doc, score), slot})
	if c.queueFull = c.totalHits == c.numHits; c.queueFull {
		c.bottom = c.queue.Top().(*fieldValueHitEntry)
		c.setBottom()
	}
	return nil
}

func (c *TopFieldCollector) setBottom() {
	for _, comp := range c.queue.comparators {
		comp.SetBottom(c.bottom.slot)
	}
}

// The total number of documents that matched this query.
func (c *TopFieldCollector) TotalHits() int { return c.totalHits }

/* Returns the top docs that were collected by this collector. */
func (c *TopFieldCollector) TopDocs() TopDocs {
	return c.TopDocsRange(0, c.queue.Len())
}

/*
Returns the documents in the range [start .. start+howMany) that were
collected by this collector. Each hit carries its sort values in
FieldDocs. Can only be called once per search.
*/
func (c *TopFieldCollector) TopDocsRange(start, howMany int) TopDocs {
	maxScore := math.NaN()
	if c.trackMaxScore && c.totalHits > 0 {
		maxScore = float64(c.maxScore)
	}
	ans := TopDocs{
		TotalHits: c.totalHits,
		ScoreDocs: []*ScoreDoc{},
		MaxScore:  maxScore,
		Fields:    c.queue.fields,
	}
	size := c.queue.Len()
	if start < 0 || start >= size || howMany <= 0 {
		return ans
	}
	if size-start < howMany {
		howMany = size - start
	}
	for i := size - start - howMany; i > 0; i-- {
		heap.Pop(c.queue)
	}
	ans.ScoreDocs = make([]*ScoreDoc, howMany)
	ans.FieldDocs = make([]*FieldDoc, howMany)
	for i := howMany - 1; i >= 0; i-- {
		entry := heap.Pop(c.queue).(*fieldValueHitEntry)
		ans.FieldDocs[i] = c.queue.fillFields(entry)
		ans.ScoreDocs[i] = entry.ScoreDoc
	}
	return ans
}
