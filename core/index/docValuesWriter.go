package index

import (
	"fmt"
	"sort"

	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/util"
)

// Maximum length of a single binary, sorted or sorted set value.
const MAX_DOC_VALUES_LENGTH = util.BYTE_BLOCK_SIZE - 2

/*
Buffers the doc values of one field in RAM until the segment is
flushed. Documents are added in increasing docID order; documents
that never received a value are written as missing.
*/
type DocValuesWriter interface {
	util.Accountable
	finish(numDoc int)
	flush(state *model.SegmentWriteState, consumer spi.DocValuesConsumer) error
}

func newDocValuesWriter(fieldInfo *model.FieldInfo, bytesUsed util.Counter) DocValuesWriter {
	switch fieldInfo.DocValuesType() {
	case model.DOC_VALUES_TYPE_NUMERIC:
		return newNumericDocValuesWriter(fieldInfo)
	case model.DOC_VALUES_TYPE_BINARY:
		return newBinaryDocValuesWriter(fieldInfo)
	case model.DOC_VALUES_TYPE_SORTED:
		return newSortedDocValuesWriter(fieldInfo, bytesUsed)
	case model.DOC_VALUES_TYPE_SORTED_SET:
		return newSortedSetDocValuesWriter(fieldInfo, bytesUsed)
	}
	panic(fmt.Sprintf("field '%v' has no doc values", fieldInfo.Name))
}

func duplicateValueError(field string) error {
	return spi.NewIllegalArgumentError(
		"DocValuesField \"%v\" appears more than once in this document (only one value is allowed per field)",
		field)
}

// index/NumericDocValuesWriter.java

type numericDocValuesWriter struct {
	fieldInfo *model.FieldInfo
	pending   []int64
	present   []bool
}

func newNumericDocValuesWriter(fieldInfo *model.FieldInfo) *numericDocValuesWriter {
	return &numericDocValuesWriter{fieldInfo: fieldInfo}
}

func (w *numericDocValuesWriter) addValue(docID int, value int64) error {
	if docID < len(w.pending) {
		return duplicateValueError(w.fieldInfo.Name)
	}
	// Fill in any holes:
	for len(w.pending) < docID {
		w.pending = append(w.pending, 0)
		w.present = append(w.present, false)
	}
	w.pending = append(w.pending, value)
	w.present = append(w.present, true)
	return nil
}

func (w *numericDocValuesWriter) finish(numDoc int) {}

func (w *numericDocValuesWriter) flush(state *model.SegmentWriteState, consumer spi.DocValuesConsumer) error {
	maxDoc := state.SegmentInfo.DocCount()
	pending, present := w.pending, w.present
	return consumer.AddNumericField(w.fieldInfo, spi.NewNumericIterableFunc(maxDoc, func(doc int) (int64, bool) {
		if doc < len(pending) && present[doc] {
			return pending[doc], true
		}
		return 0, false
	}))
}

func (w *numericDocValuesWriter) RamBytesUsed() int64 {
	return util.SizeOf(w.pending) + util.SizeOf(w.present)
}

// index/BinaryDocValuesWriter.java

type binaryDocValuesWriter struct {
	fieldInfo *model.FieldInfo
	pending   [][]byte // nil for missing
	bytesUsed int64
}

func newBinaryDocValuesWriter(fieldInfo *model.FieldInfo) *binaryDocValuesWriter {
	return &binaryDocValuesWriter{fieldInfo: fieldInfo}
}

func (w *binaryDocValuesWriter) addValue(docID int, value []byte) error {
	if docID < len(w.pending) {
		return duplicateValueError(w.fieldInfo.Name)
	}
	assert2(value != nil, "field \"%v\": null value not allowed", w.fieldInfo.Name)
	for len(w.pending) < docID {
		w.pending = append(w.pending, nil)
	}
	w.pending = append(w.pending, append(make([]byte, 0, len(value)), value...))
	w.bytesUsed += int64(len(value))
	return nil
}

func (w *binaryDocValuesWriter) finish(numDoc int) {}

func (w *binaryDocValuesWriter) flush(state *model.SegmentWriteState, consumer spi.DocValuesConsumer) error {
	maxDoc := state.SegmentInfo.DocCount()
	pending := w.pending
	return consumer.AddBinaryField(w.fieldInfo, spi.NewBytesIterableFunc(maxDoc, func(doc int) []byte {
		if doc < len(pending) {
			return pending[doc]
		}
		return nil
	}))
}

func (w *binaryDocValuesWriter) RamBytesUsed() int64 {
	return w.bytesUsed + int64(len(w.pending))*util.NUM_BYTES_ARRAY_HEADER
}

func newTermsHash(bytesUsed util.Counter) *util.BytesRefHash {
	return util.NewBytesRefHash(
		util.NewByteBlockPool(util.NewDirectTrackingAllocator(bytesUsed)),
		util.DEFAULT_BYTES_REF_HASH_CAPACITY,
		util.NewDirectBytesStartArray(util.DEFAULT_BYTES_REF_HASH_CAPACITY, bytesUsed))
}

func addTerm(hash *util.BytesRefHash, field string, value []byte) (int, error) {
	termID, err := hash.Add(value)
	if err != nil {
		return 0, spi.NewIllegalArgumentError(
			"DocValuesField \"%v\" is too large, must be <= %v", field, MAX_DOC_VALUES_LENGTH)
	}
	if termID < 0 {
		termID = -termID - 1
	}
	return termID, nil
}

/*
Sorts the hashed terms and returns the dictionary in order together
with the map from term id to ordinal.
*/
func sortTerms(hash *util.BytesRefHash) (dict [][]byte, ordMap []int) {
	valueCount := hash.Size()
	sortedValues := hash.Sort(util.UTF8SortedAsUnicodeLess)
	dict = make([][]byte, valueCount)
	ordMap = make([]int, valueCount)
	for ord := 0; ord < valueCount; ord++ {
		ordMap[sortedValues[ord]] = ord
		dict[ord] = hash.Get(sortedValues[ord])
	}
	return dict, ordMap
}

// index/SortedDocValuesWriter.java

type sortedDocValuesWriter struct {
	fieldInfo *model.FieldInfo
	hash      *util.BytesRefHash
	pending   []int // term id per doc, -1 for missing
}

func newSortedDocValuesWriter(fieldInfo *model.FieldInfo, bytesUsed util.Counter) *sortedDocValuesWriter {
	return &sortedDocValuesWriter{
		fieldInfo: fieldInfo,
		hash:      newTermsHash(bytesUsed),
	}
}

func (w *sortedDocValuesWriter) addValue(docID int, value []byte) error {
	if docID < len(w.pending) {
		return duplicateValueError(w.fieldInfo.Name)
	}
	assert2(value != nil, "field \"%v\": null value not allowed", w.fieldInfo.Name)
	termID, err := addTerm(w.hash, w.fieldInfo.Name, value)
	if err != nil {
		return err
	}
	for len(w.pending) < docID {
		w.pending = append(w.pending, -1)
	}
	w.pending = append(w.pending, termID)
	return nil
}

func (w *sortedDocValuesWriter) finish(numDoc int) {}

func (w *sortedDocValuesWriter) flush(state *model.SegmentWriteState, consumer spi.DocValuesConsumer) error {
	maxDoc := state.SegmentInfo.DocCount()
	dict, ordMap := sortTerms(w.hash)
	pending := w.pending
	return consumer.AddSortedField(w.fieldInfo,
		spi.NewBytesIterable(dict...),
		spi.NewNumericIterableFunc(maxDoc, func(doc int) (int64, bool) {
			if doc < len(pending) && pending[doc] != -1 {
				return int64(ordMap[pending[doc]]), true
			}
			return -1, true
		}))
}

func (w *sortedDocValuesWriter) RamBytesUsed() int64 {
	return util.SizeOf(w.pending)
}

// index/SortedSetDocValuesWriter.java

type sortedSetDocValuesWriter struct {
	fieldInfo     *model.FieldInfo
	hash          *util.BytesRefHash
	pending       []int // term ids of all docs, flattened
	pendingCounts []int // number of term ids per doc
	currentDoc    int
	currentValues []int
}

func newSortedSetDocValuesWriter(fieldInfo *model.FieldInfo, bytesUsed util.Counter) *sortedSetDocValuesWriter {
	return &sortedSetDocValuesWriter{
		fieldInfo: fieldInfo,
		hash:      newTermsHash(bytesUsed),
	}
}

func (w *sortedSetDocValuesWriter) addValue(docID int, value []byte) error {
	assert2(value != nil, "field \"%v\": null value not allowed", w.fieldInfo.Name)
	assert2(docID >= w.currentDoc, "documents must be added in order")
	if docID != w.currentDoc {
		w.finishCurrentDoc()
	}
	// Fill in any holes:
	for w.currentDoc < docID {
		w.pendingCounts = append(w.pendingCounts, 0) // no values
		w.currentDoc++
	}
	termID, err := addTerm(w.hash, w.fieldInfo.Name, value)
	if err != nil {
		return err
	}
	w.currentValues = append(w.currentValues, termID)
	return nil
}

// finalize currentDoc: this deduplicates the current term ids
func (w *sortedSetDocValuesWriter) finishCurrentDoc() {
	sort.Ints(w.currentValues)
	lastValue, count := -1, 0
	for _, termID := range w.currentValues {
		// if it's not a duplicate
		if termID != lastValue {
			w.pending = append(w.pending, termID)
			count++
		}
		lastValue = termID
	}
	w.pendingCounts = append(w.pendingCounts, count)
	w.currentValues = w.currentValues[:0]
	w.currentDoc++
}

func (w *sortedSetDocValuesWriter) finish(numDoc int) {
	w.finishCurrentDoc()
	// fill in any holes
	for i := w.currentDoc; i < numDoc; i++ {
		w.pendingCounts = append(w.pendingCounts, 0) // no values
	}
	w.currentDoc = numDoc
}

func (w *sortedSetDocValuesWriter) flush(state *model.SegmentWriteState, consumer spi.DocValuesConsumer) error {
	maxDoc := state.SegmentInfo.DocCount()
	assert2(len(w.pendingCounts) == maxDoc, "%v ord counts for %v docs", len(w.pendingCounts), maxDoc)
	dict, ordMap := sortTerms(w.hash)

	// Per document the ords are sorted, which the term ids are not.
	ords := make([]int64, len(w.pending))
	upto := 0
	for _, count := range w.pendingCounts {
		docOrds := ords[upto : upto+count]
		for i := range docOrds {
			docOrds[i] = int64(ordMap[w.pending[upto+i]])
		}
		sort.Slice(docOrds, func(i, j int) bool { return docOrds[i] < docOrds[j] })
		upto += count
	}

	counts := make([]int64, maxDoc)
	for doc, count := range w.pendingCounts {
		counts[doc] = int64(count)
	}
	return consumer.AddSortedSetField(w.fieldInfo,
		spi.NewBytesIterable(dict...),
		spi.NewNumericIterable(counts...),
		spi.NewNumericIterable(ords...))
}

func (w *sortedSetDocValuesWriter) RamBytesUsed() int64 {
	return util.SizeOf(w.pending) + util.SizeOf(w.pendingCounts)
}
