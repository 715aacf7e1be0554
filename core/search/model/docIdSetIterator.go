package model

import (
	"math"
)

// When returned by NextDoc(), Advance(int) and DocId() it means there
// are no more docs in the iterator.
const NO_MORE_DOCS = math.MaxInt32

// search/DocIdSetIterator.java

/*
This interface defines methods to iterate over a set of non-decreasing
doc ids. Note that this type assumes it iterates on doc Ids, and
therefore NO_MORE_DOCS is set to math.MaxInt32 in order to be used as
a sentinel object.
*/
type DocIdSetIterator interface {
	/*
		Returns -1 if NextDoc() or Advance() were not called yet,
		NO_MORE_DOCS if the iterator has exhausted, or the doc ID it is
		currently on otherwise.
	*/
	DocId() int
	/*
		Advances to the next document in the set and returns the doc it
		is currently on, or NO_MORE_DOCS if there are no more docs in the
		set.

		NOTE: after the iterator has exhausted you should not call this
		method, as it may result in unpredicted behavior.
	*/
	NextDoc() (doc int, err error)
	/*
		Advances to the first beyond the current whose document number is
		greater than or equal to target, and returns the document number
		itself. Exhausts the iterator and returns NO_MORE_DOCS if target
		is greater than the highest document number in the set.

		The behavior of this method is undefined when called with
		target <= current, or after the iterator has exhausted.
	*/
	Advance(target int) (doc int, err error)
	/*
		Returns the estimated cost of this iterator. This is generally an
		upper bound of the number of documents this iterator might match.
	*/
	Cost() int64
}
