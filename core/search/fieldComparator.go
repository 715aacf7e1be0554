package search

import (
	"bytes"
	"cmp"
	"math"

	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/util"
)

// search/FieldComparator.java

/*
Expert: a FieldComparator compares hits so as to determine their sort
order when collecting the top results with TopFieldCollector. The
concrete public FieldComparator implementations are used for the
various SortField types.

This API is designed to achieve high performance sorting, by exposing
a tight interaction with FieldValueHitQueue as it visits hits.
Whenever a hit is competitive, it's enrolled into a virtual slot,
which is an int ranging from 0 to numHits-1. The FieldComparator is
made aware of segment transitions during searching in case any
internal state it's tracking needs to be recomputed during these
transitions.

A comparator must define these functions:

	Compare         Compare a hit at 'slot a' with hit 'slot b'.
	SetBottom       Called when the bottom slot changes so the
	                comparator can cache the bottom value.
	CompareBottom   Compare a new hit (docID) against the "weakest"
	                (bottom) entry in the queue.
	Copy            Installs a new hit into the priority queue.
	SetNextReader   Invoked when the search is switching to the next
	                segment.
	Value           Return the sort value stored in the specified slot.
*/
type FieldComparator interface {
	/*
		Compare hit at slot1 with hit at slot2. Returns any N < 0 if
		slot2's value is sorted after slot1, any N > 0 if the slot2's
		value is sorted before slot1 and 0 if they are equal.
	*/
	Compare(slot1, slot2 int) int
	/*
		Set the bottom slot, ie the "weakest" (sorted last) entry in the
		queue. When CompareBottom() is called, you should compare against
		this slot. This will always be called before CompareBottom().
	*/
	SetBottom(slot int)
	/*
		Compare the bottom of the queue with this doc. This will only
		invoked after SetBottom() has been called. Returns any N < 0 if
		the doc's value is sorted after the bottom entry (not
		competitive), any N > 0 if the doc's value is sorted before the
		bottom entry and 0 if they are equal.
	*/
	CompareBottom(doc int) (int, error)
	/*
		This method is called when a new hit is competitive. You should
		copy any state associated with this document that will be
		required for future comparisons, into the specified slot.
	*/
	Copy(slot, doc int) error
	/*
		Set a new AtomicReaderContext. All subsequent docIDs are relative
		to the current reader (you must add docBase if you need to map it
		to a top-level docID).
	*/
	SetNextReader(ctx *index.AtomicReaderContext) error
	/*
		Sets the Scorer to use in case a document's score is needed.
	*/
	SetScorer(scorer Scorer)
	/* Return the actual value in the slot. */
	Value(slot int) interface{}
}

// Sorts by descending relevance. NOTE: if you are sorting only by
// descending relevance and then secondarily by ascending docID,
// performance is faster using TopScoreDocCollector directly.
type relevanceComparator struct {
	scores []float32
	bottom float32
	scorer Scorer
}

func newRelevanceComparator(numHits int) *relevanceComparator {
	return &relevanceComparator{scores: make([]float32, numHits)}
}

func (c *relevanceComparator) Compare(slot1, slot2 int) int {
	return cmp.Compare(c.scores[slot2], c.scores[slot1])
}

func (c *relevanceComparator) CompareBottom(doc int) (int, error) {
	score, err := c.scorer.Score()
	if err != nil {
		return 0, err
	}
	assert2(!math.IsNaN(float64(score)), "score is NaN")
	return cmp.Compare(score, c.bottom), nil
}

func (c *relevanceComparator) Copy(slot, doc int) (err error) {
	c.scores[slot], err = c.scorer.Score()
	assert2(err != nil || !math.IsNaN(float64(c.scores[slot])), "score is NaN")
	return
}

func (c *relevanceComparator) SetNextReader(ctx *index.AtomicReaderContext) error {
	return nil
}

func (c *relevanceComparator) SetBottom(bottom int) {
	c.bottom = c.scores[bottom]
}

func (c *relevanceComparator) SetScorer(scorer Scorer) {
	c.scorer = scorer
}

func (c *relevanceComparator) Value(slot int) interface{} {
	return c.scores[slot]
}

// Sorts by ascending docID
type docComparator struct {
	docIDs  []int
	docBase int
	bottom  int
}

func newDocComparator(numHits int) *docComparator {
	return &docComparator{docIDs: make([]int, numHits)}
}

func (c *docComparator) Compare(slot1, slot2 int) int {
	// No overflow risk because docIDs are non-negative
	return c.docIDs[slot1] - c.docIDs[slot2]
}

func (c *docComparator) CompareBottom(doc int) (int, error) {
	// No overflow risk because docIDs are non-negative
	return c.bottom - (c.docBase + doc), nil
}

func (c *docComparator) Copy(slot, doc int) error {
	c.docIDs[slot] = c.docBase + doc
	return nil
}

func (c *docComparator) SetNextReader(ctx *index.AtomicReaderContext) error {
	c.docBase = ctx.DocBase
	return nil
}

func (c *docComparator) SetBottom(bottom int) {
	c.bottom = c.docIDs[bottom]
}

func (c *docComparator) SetScorer(scorer Scorer) {}

func (c *docComparator) Value(slot int) interface{} {
	return c.docIDs[slot]
}

// Decoders of the numeric doc values written by the document package.
func decodeInt(v int64) int32      { return int32(v) }
func decodeLong(v int64) int64     { return v }
func decodeFloat(v int64) float32  { return math.Float32frombits(uint32(v)) }
func decodeDouble(v int64) float64 { return math.Float64frombits(uint64(v)) }

/*
Parses field's values as T using NumericDocValues and sorts by
ascending value. Documents without a value take the missing value,
zero unless set on the SortField.
*/
type numericComparator[T int32 | int64 | float32 | float64] struct {
	values        []T
	bottom        T
	field         string
	missingValue  T
	decode        func(int64) T
	current       spi.NumericDocValues
	docsWithField util.Bits
}

func newNumericComparator[T int32 | int64 | float32 | float64](numHits int, field string,
	missingValue interface{}, decode func(int64) T) *numericComparator[T] {

	c := &numericComparator[T]{
		values: make([]T, numHits),
		field:  field,
		decode: decode,
	}
	if missingValue != nil {
		c.missingValue = missingValue.(T)
	}
	return c
}

func (c *numericComparator[T]) valueOf(doc int) T {
	v := c.decode(c.current(doc))
	// Test for v == 0 to save Bits.At() call for the (common) case
	// where a doc has a value and the value is 0:
	if v == 0 && !c.docsWithField.At(doc) {
		return c.missingValue
	}
	return v
}

func (c *numericComparator[T]) Compare(slot1, slot2 int) int {
	return cmp.Compare(c.values[slot1], c.values[slot2])
}

func (c *numericComparator[T]) CompareBottom(doc int) (int, error) {
	return cmp.Compare(c.bottom, c.valueOf(doc)), nil
}

func (c *numericComparator[T]) Copy(slot, doc int) error {
	c.values[slot] = c.valueOf(doc)
	return nil
}

func (c *numericComparator[T]) SetNextReader(ctx *index.AtomicReaderContext) (err error) {
	reader := ctx.Reader()
	if c.current, err = index.GetNumeric(reader, c.field); err != nil {
		return err
	}
	c.docsWithField, err = index.GetDocsWithField(reader, c.field)
	return err
}

func (c *numericComparator[T]) SetBottom(bottom int) {
	c.bottom = c.values[bottom]
}

func (c *numericComparator[T]) SetScorer(scorer Scorer) {}

func (c *numericComparator[T]) Value(slot int) interface{} {
	return c.values[slot]
}

/*
Copies src into dst, reusing dst's storage. The result is never nil
so that an empty value stays distinct from a missing one.
*/
func copyTerm(dst, src []byte) []byte {
	if dst == nil {
		dst = make([]byte, 0, len(src))
	}
	return append(dst[:0], src...)
}

/*
Compares two terms where nil stands for a missing value, sorting
first unless missingLast.
*/
func compareTerms(a, b []byte, missingLast bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		if missingLast {
			return 1
		}
		return -1
	case b == nil:
		if missingLast {
			return -1
		}
		return 1
	}
	return bytes.Compare(a, b)
}

/*
Sorts by field's natural Term sort order, using ordinals. The values
are read through SortedDocValues. Slots keep a copy of the value so
hits of different segments compare correctly.
*/
type termOrdValComparator struct {
	values      [][]byte
	bottom      []byte
	field       string
	missingLast bool
	current     spi.SortedDocValues
}

func newTermOrdValComparator(numHits int, field string, missingLast bool) *termOrdValComparator {
	return &termOrdValComparator{
		values:      make([][]byte, numHits),
		field:       field,
		missingLast: missingLast,
	}
}

func (c *termOrdValComparator) valueOf(doc int) []byte {
	if ord := c.current.Ord(doc); ord != -1 {
		return c.current.LookupOrd(ord)
	}
	return nil
}

func (c *termOrdValComparator) Compare(slot1, slot2 int) int {
	return compareTerms(c.values[slot1], c.values[slot2], c.missingLast)
}

func (c *termOrdValComparator) CompareBottom(doc int) (int, error) {
	return compareTerms(c.bottom, c.valueOf(doc), c.missingLast), nil
}

func (c *termOrdValComparator) Copy(slot, doc int) error {
	if v := c.valueOf(doc); v != nil {
		c.values[slot] = copyTerm(c.values[slot], v)
	} else {
		c.values[slot] = nil
	}
	return nil
}

func (c *termOrdValComparator) SetNextReader(ctx *index.AtomicReaderContext) (err error) {
	c.current, err = index.GetSorted(ctx.Reader(), c.field)
	return err
}

func (c *termOrdValComparator) SetBottom(bottom int) {
	c.bottom = c.values[bottom]
}

func (c *termOrdValComparator) SetScorer(scorer Scorer) {}

func (c *termOrdValComparator) Value(slot int) interface{} {
	return c.values[slot]
}

/*
Sorts by field's natural Term sort order. All comparisons are done
using bytes.Compare over BinaryDocValues, which is slow for medium to
large result sets but possibly very fast for very small results sets.
*/
type termValComparator struct {
	values        [][]byte
	bottom        []byte
	field         string
	missingLast   bool
	docTerms      spi.BinaryDocValues
	docsWithField util.Bits
}

func newTermValComparator(numHits int, field string, missingLast bool) *termValComparator {
	return &termValComparator{
		values:      make([][]byte, numHits),
		field:       field,
		missingLast: missingLast,
	}
}

func (c *termValComparator) valueOf(doc int) []byte {
	v := c.docTerms.Get(doc)
	if len(v) == 0 && !c.docsWithField.At(doc) {
		return nil
	}
	return v
}

func (c *termValComparator) Compare(slot1, slot2 int) int {
	return compareTerms(c.values[slot1], c.values[slot2], c.missingLast)
}

func (c *termValComparator) CompareBottom(doc int) (int, error) {
	return compareTerms(c.bottom, c.valueOf(doc), c.missingLast), nil
}

func (c *termValComparator) Copy(slot, doc int) error {
	if v := c.valueOf(doc); v != nil {
		c.values[slot] = copyTerm(c.values[slot], v)
	} else {
		c.values[slot] = nil
	}
	return nil
}

func (c *termValComparator) SetNextReader(ctx *index.AtomicReaderContext) (err error) {
	reader := ctx.Reader()
	if c.docTerms, err = index.GetBinary(reader, c.field); err != nil {
		return err
	}
	c.docsWithField, err = index.GetDocsWithField(reader, c.field)
	return err
}

func (c *termValComparator) SetBottom(bottom int) {
	c.bottom = c.values[bottom]
}

func (c *termValComparator) SetScorer(scorer Scorer) {}

func (c *termValComparator) Value(slot int) interface{} {
	return c.values[slot]
}
