package facet

import (
	"container/heap"
)

// facet/TopOrdAndIntQueue.java

/* Holds a single entry. */
type OrdAndValue struct {
	// Ordinal of the entry.
	Ord int
	// Value associated with the ordinal.
	Value int
}

/*
Keeps the highest count ordinals, bounded to a fixed size. The least
entry, at the top, has the lowest count and, among equal counts, the
highest ordinal.
*/
type TopOrdAndIntQueue struct {
	items   []OrdAndValue
	maxSize int
}

func NewTopOrdAndIntQueue(topN int) *TopOrdAndIntQueue {
	assert2(topN > 0, "topN must be > 0 (got %v)", topN)
	return &TopOrdAndIntQueue{make([]OrdAndValue, 0, topN), topN}
}

func (q *TopOrdAndIntQueue) Len() int { return len(q.items) }

func (q *TopOrdAndIntQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.Value != b.Value {
		return a.Value < b.Value
	}
	return a.Ord > b.Ord
}

func (q *TopOrdAndIntQueue) Swap(i, j int)      { q.items[i], q.items[j] = q.items[j], q.items[i] }
func (q *TopOrdAndIntQueue) Push(x interface{}) { q.items = append(q.items, x.(OrdAndValue)) }

func (q *TopOrdAndIntQueue) Pop() interface{} {
	n := len(q.items)
	ans := q.items[n-1]
	q.items = q.items[:n-1]
	return ans
}

/* Returns the least entry. The queue must not be empty. */
func (q *TopOrdAndIntQueue) Top() OrdAndValue { return q.items[0] }

/*
Adds entry if the queue is not full or entry beats the least one,
which is then dropped. Returns whether entry was kept.
*/
func (q *TopOrdAndIntQueue) InsertWithOverflow(entry OrdAndValue) bool {
	if len(q.items) < q.maxSize {
		heap.Push(q, entry)
		return true
	}
	top := q.items[0]
	if top.Value < entry.Value || (top.Value == entry.Value && top.Ord > entry.Ord) {
		q.items[0] = entry
		heap.Fix(q, 0)
		return true
	}
	return false
}

/* Removes and returns the least entry. */
func (q *TopOrdAndIntQueue) PopLeast() OrdAndValue {
	return heap.Pop(q).(OrdAndValue)
}
