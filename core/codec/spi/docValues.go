package spi

import (
	"io"
	"sort"
	"sync"

	. "github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/util"
)

/*
Encodes/decodes per-document values.

Note, when extending this class, the name Name() may be written into
the index in certain configurations. In order for the segment to be
read, the name must resolve to your implemetation via
LoadDocValuesFormat().
*/
type DocValuesFormat interface {
	Name() string
	// Returns a DocValuesConsumer to write docvalues to the index.
	FieldsConsumer(state *SegmentWriteState) (w DocValuesConsumer, err error)
	// Returns a DocValuesProducer to read docvalues from the index.
	//
	// NOTE: by the time this call returns, it must hold open any files
	// it will need to use; else, those files may be deleted.
	FieldsProducer(state SegmentReadState) (r DocValuesProducer, err error)
}

var (
	formatsLock         sync.RWMutex
	allDocValuesFormats = map[string]DocValuesFormat{}
)

// workaround Lucene Java's SPI mechanism
func RegisterDocValuesFormat(formats ...DocValuesFormat) {
	formatsLock.Lock()
	defer formatsLock.Unlock()
	for _, format := range formats {
		log.Debugf("Found DocValuesFormat: %v", format.Name())
		allDocValuesFormats[format.Name()] = format
	}
}

func LoadDocValuesFormat(name string) (DocValuesFormat, error) {
	formatsLock.RLock()
	defer formatsLock.RUnlock()
	f, ok := allDocValuesFormats[name]
	if !ok {
		names := make([]string, 0, len(allDocValuesFormats))
		for n := range allDocValuesFormats {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, NewIllegalArgumentError(
			"A DocValuesFormat with name '%v' does not exist. Available formats: %v", name, names)
	}
	return f, nil
}

/*
Abstract API that consumes numeric, binary, sorted and sorted set
docvalues. Concrete implementations of this actually do "something"
with the docvalues (write it into the index in a specific format).

The lifecycle is:

1. DocValuesConsumer is created by DocValuesFormat.FieldsConsumer().
2. AddNumericField, AddBinaryField, AddSortedField or
AddSortedSetField are called for each field. The API is a "pull"
rather than "push": every sequence is handed over as an iterable, and
the implementation is free to iterate over the values multiple times,
each pass through a fresh iterator.
3. After all fields are added, the consumer is closed.
*/
type DocValuesConsumer interface {
	io.Closer
	// Writes numeric docvalues for a field. One value per document,
	// missing values report ok=false.
	AddNumericField(field *FieldInfo, values NumericIterable) error
	// Writes binary docvalues for a field. One value per document, nil
	// for missing.
	AddBinaryField(field *FieldInfo, values BytesIterable) error
	// Writes pre-sorted binary docvalues for a field. values is the
	// dictionary, docToOrd holds one ordinal per document (-1 missing).
	AddSortedField(field *FieldInfo, values BytesIterable, docToOrd NumericIterable) error
	// Writes pre-sorted set docvalues for a field. docToOrdCount holds
	// the number of ords per document and ords the flattened ords.
	AddSortedSetField(field *FieldInfo, values BytesIterable, docToOrdCount, ords NumericIterable) error
}

// Abstract API that produces numeric, binary, sorted and sorted set docvalues.
type DocValuesProducer interface {
	io.Closer
	Numeric(field *FieldInfo) (v NumericDocValues, err error)
	Binary(field *FieldInfo) (v BinaryDocValues, err error)
	Sorted(field *FieldInfo) (v SortedDocValues, err error)
	SortedSet(field *FieldInfo) (v SortedSetDocValues, err error)
	// Returns a Bits at the size of reader.MaxDoc(), with turned on
	// bits for each docid that does have a value for this field.
	DocsWithField(field *FieldInfo) (util.Bits, error)
	// Checks consistency of this producer. Note that this may be
	// costly in terms of I/O, e.g. may involve computing a checksum
	// value against large data files.
	CheckIntegrity() error
}

/* A per-document numeric value. Missing documents return 0. */
type NumericDocValues func(docID int) int64

/* A per-document []byte */
type BinaryDocValues interface {
	// Lookup the value for document. The returned slice may be re-used
	// across calls to Get() so make sure to copy it if you want to keep
	// it around.
	Get(docID int) []byte
}

/*
A per-document []byte, deduplicated and sorted. Instead of returning
the bytes directly, each document maps to an ordinal, and the
ordinal's bytes can be looked up.
*/
type SortedDocValues interface {
	BinaryDocValues
	// Returns the ordinal for the specified docID, or -1 if the
	// document has no value.
	Ord(docID int) int
	// Retrieves the value for the specified ordinal.
	LookupOrd(ord int) []byte
	// Returns the number of unique values.
	ValueCount() int
	// If key exists, returns its ordinal, else returns -insertionPoint-1.
	LookupTerm(key []byte) int
}

/* When returned by NextOrd() it means there are no more ordinals for the document. */
const NO_MORE_ORDS = -1

/*
A per-document set of presorted []byte values. Per-document values
must be deduplicated and sorted.
*/
type SortedSetDocValues interface {
	// Returns the next ordinal for the current document (previously
	// set by SetDocument()), or NO_MORE_ORDS.
	NextOrd() int64
	// Sets iteration to the specified docID
	SetDocument(docID int)
	// Retrieves the value for the specified ordinal.
	LookupOrd(ord int64) []byte
	// Returns the number of unique values.
	ValueCount() int64
	// If key exists, returns its ordinal, else returns -insertionPoint-1.
	LookupTerm(key []byte) int64
}

/*
Binary searches the dictionary of a sorted accessor. If key exists,
returns its ordinal, else returns -insertionPoint-1, like
sort.Search() conventions.
*/
func LookupTerm(valueCount int64, lookupOrd func(int64) []byte, key []byte) int64 {
	low, high := int64(0), valueCount-1
	for low <= high {
		mid := int64(uint64(low+high) >> 1)
		cmp := util.CompareBytes(lookupOrd(mid), key)
		if cmp < 0 {
			low = mid + 1
		} else if cmp > 0 {
			high = mid - 1
		} else {
			return mid // key found
		}
	}
	return -(low + 1) // key not found.
}

/* Assembles a SortedDocValues out of an ord function and a dictionary lookup. */
type SortedDocValuesView struct {
	OrdFunc       func(docID int) int
	LookupOrdFunc func(ord int) []byte
	Count         int
}

func NewSortedDocValuesView(ord func(int) int, lookup func(int) []byte, valueCount int) *SortedDocValuesView {
	return &SortedDocValuesView{ord, lookup, valueCount}
}

func (v *SortedDocValuesView) Get(docID int) []byte {
	if ord := v.OrdFunc(docID); ord != -1 {
		return v.LookupOrdFunc(ord)
	}
	return nil
}

func (v *SortedDocValuesView) Ord(docID int) int        { return v.OrdFunc(docID) }
func (v *SortedDocValuesView) LookupOrd(ord int) []byte { return v.LookupOrdFunc(ord) }
func (v *SortedDocValuesView) ValueCount() int          { return v.Count }
func (v *SortedDocValuesView) LookupTerm(key []byte) int {
	return int(LookupTerm(int64(v.Count), func(ord int64) []byte {
		return v.LookupOrdFunc(int(ord))
	}, key))
}

/* Exposes a single-valued SortedDocValues as a SortedSetDocValues. */
type SingletonSortedSetDocValues struct {
	in    SortedDocValues
	docID int
	set   bool
}

func NewSingletonSortedSetDocValues(in SortedDocValues) *SingletonSortedSetDocValues {
	return &SingletonSortedSetDocValues{in: in}
}

/* Returns the wrapped single-valued instance. */
func (v *SingletonSortedSetDocValues) SortedDocValues() SortedDocValues { return v.in }

func (v *SingletonSortedSetDocValues) SetDocument(docID int) {
	v.docID = docID
	v.set = false
}

func (v *SingletonSortedSetDocValues) NextOrd() int64 {
	if v.set {
		return NO_MORE_ORDS
	}
	v.set = true
	return int64(v.in.Ord(v.docID))
}

func (v *SingletonSortedSetDocValues) LookupOrd(ord int64) []byte {
	return v.in.LookupOrd(int(ord))
}

func (v *SingletonSortedSetDocValues) ValueCount() int64 {
	return int64(v.in.ValueCount())
}

func (v *SingletonSortedSetDocValues) LookupTerm(key []byte) int64 {
	return int64(v.in.LookupTerm(key))
}

// Empty accessors returned for fields a segment holds no values for.

var EMPTY_NUMERIC = NumericDocValues(func(docID int) int64 { return 0 })

type emptyBinaryDocValues struct{}

func (v emptyBinaryDocValues) Get(docID int) []byte { return nil }

var EMPTY_BINARY BinaryDocValues = emptyBinaryDocValues{}

var EMPTY_SORTED SortedDocValues = NewSortedDocValuesView(
	func(int) int { return -1 },
	func(int) []byte { panic("no ordinals in an empty SortedDocValues") },
	0)

type emptySortedSetDocValues struct{}

func (v emptySortedSetDocValues) NextOrd() int64             { return NO_MORE_ORDS }
func (v emptySortedSetDocValues) SetDocument(docID int)      {}
func (v emptySortedSetDocValues) LookupOrd(ord int64) []byte { panic("no ordinals in an empty SortedSetDocValues") }
func (v emptySortedSetDocValues) ValueCount() int64          { return 0 }
func (v emptySortedSetDocValues) LookupTerm(key []byte) int64 {
	return -1
}

var EMPTY_SORTED_SET SortedSetDocValues = emptySortedSetDocValues{}
