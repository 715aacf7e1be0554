package spi

import (
	. "github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/util"
)

/*
A forward-only cursor over a numeric sequence. Value reports ok=false
for a missing value. There is no removal operation: sequences handed
to a DocValuesConsumer are read-only.
*/
type NumericIterator interface {
	Next() bool
	Value() (v int64, ok bool)
}

/* Returns a fresh iterator over the same sequence on every call. */
type NumericIterable func() NumericIterator

/* A forward-only cursor over a byte string sequence. Value returns nil for a missing value. */
type BytesIterator interface {
	Next() bool
	Value() []byte
}

/* Returns a fresh iterator over the same sequence on every call. */
type BytesIterable func() BytesIterator

type funcNumericIterator struct {
	size  int
	index int
	value func(i int) (int64, bool)
}

func (it *funcNumericIterator) Next() bool {
	if it.index+1 >= it.size {
		it.index = it.size
		return false
	}
	it.index++
	return true
}

func (it *funcNumericIterator) Value() (int64, bool) {
	assert2(it.index >= 0 && it.index < it.size, "Value() called outside of the sequence")
	return it.value(it.index)
}

/* Builds an iterable of size elements whose i-th value is value(i). */
func NewNumericIterableFunc(size int, value func(i int) (int64, bool)) NumericIterable {
	return func() NumericIterator {
		return &funcNumericIterator{size: size, index: -1, value: value}
	}
}

/* Builds an iterable over values where every value is present. */
func NewNumericIterable(values ...int64) NumericIterable {
	return NewNumericIterableFunc(len(values), func(i int) (int64, bool) {
		return values[i], true
	})
}

/* Builds an iterable over values where present[i] tells whether values[i] exists. */
func NewNullableNumericIterable(values []int64, present []bool) NumericIterable {
	assert(len(values) == len(present))
	return NewNumericIterableFunc(len(values), func(i int) (int64, bool) {
		if !present[i] {
			return 0, false
		}
		return values[i], true
	})
}

type funcBytesIterator struct {
	size  int
	index int
	value func(i int) []byte
}

func (it *funcBytesIterator) Next() bool {
	if it.index+1 >= it.size {
		it.index = it.size
		return false
	}
	it.index++
	return true
}

func (it *funcBytesIterator) Value() []byte {
	assert2(it.index >= 0 && it.index < it.size, "Value() called outside of the sequence")
	return it.value(it.index)
}

/* Builds an iterable of size elements whose i-th value is value(i). */
func NewBytesIterableFunc(size int, value func(i int) []byte) BytesIterable {
	return func() BytesIterator {
		return &funcBytesIterator{size: size, index: -1, value: value}
	}
}

/* Builds an iterable over values; nil elements are missing. */
func NewBytesIterable(values ...[]byte) BytesIterable {
	return NewBytesIterableFunc(len(values), func(i int) []byte {
		return values[i]
	})
}

/* Drains an iterable into a slice, mostly useful for tests and merges. */
func CollectNumeric(values NumericIterable) (ans []int64, present []bool) {
	for it := values(); it.Next(); {
		v, ok := it.Value()
		ans = append(ans, v)
		present = append(present, ok)
	}
	return
}

/* Drains an iterable into a slice. */
func CollectBytes(values BytesIterable) (ans [][]byte) {
	for it := values(); it.Next(); {
		ans = append(ans, it.Value())
	}
	return
}

/*
Builds the per-document numeric sequence of a merged segment: the
documents of every reader in order, honoring docs-with-field.
*/
func MergedNumericIterable(toMerge []NumericDocValues, docsWithField []util.Bits, maxDocs []int) NumericIterable {
	assert(len(toMerge) == len(docsWithField) && len(toMerge) == len(maxDocs))
	total, starts := 0, make([]int, len(maxDocs))
	for i, n := range maxDocs {
		starts[i] = total
		total += n
	}
	return NewNumericIterableFunc(total, func(doc int) (int64, bool) {
		reader := readerIndex(starts, doc)
		local := doc - starts[reader]
		if docsWithField[reader] != nil && !docsWithField[reader].At(local) {
			return 0, false
		}
		return toMerge[reader](local), true
	})
}

/* Builds the per-document binary sequence of a merged segment. */
func MergedBytesIterable(toMerge []BinaryDocValues, docsWithField []util.Bits, maxDocs []int) BytesIterable {
	assert(len(toMerge) == len(docsWithField) && len(toMerge) == len(maxDocs))
	total, starts := 0, make([]int, len(maxDocs))
	for i, n := range maxDocs {
		starts[i] = total
		total += n
	}
	return NewBytesIterableFunc(total, func(doc int) []byte {
		reader := readerIndex(starts, doc)
		local := doc - starts[reader]
		if docsWithField[reader] != nil && !docsWithField[reader].At(local) {
			return nil
		}
		v := toMerge[reader].Get(local)
		if v == nil {
			v = util.EMPTY_BYTES
		}
		return v
	})
}

// returns the last reader whose first doc is <= doc
func readerIndex(starts []int, doc int) int {
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) >> 1
		if starts[mid] <= doc {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

/*
Merges the numeric docvalues from toMerge into the consumer's field.

The default implementation calls AddNumericField(), passing an
iterable that concatenates the segments on the fly.
*/
func MergeNumericField(consumer DocValuesConsumer, fieldInfo *FieldInfo,
	toMerge []NumericDocValues, docsWithField []util.Bits, maxDocs []int) error {
	return consumer.AddNumericField(fieldInfo, MergedNumericIterable(toMerge, docsWithField, maxDocs))
}

/* Merges the binary docvalues from toMerge into the consumer's field. */
func MergeBinaryField(consumer DocValuesConsumer, fieldInfo *FieldInfo,
	toMerge []BinaryDocValues, docsWithField []util.Bits, maxDocs []int) error {
	return consumer.AddBinaryField(fieldInfo, MergedBytesIterable(toMerge, docsWithField, maxDocs))
}
