package sortedset

import (
	"fmt"

	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/facet"
	"github.com/ironsweet/docvalues/core/index"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("sortedset")

// facet/sortedset/SortedSetDocValuesReaderState.java

/* Holds start/end range of ords, which maps to one dimension. */
type OrdRange struct {
	// Start of range, inclusive
	Start int
	// End of range, inclusive
	End int
}

func (r OrdRange) String() string {
	return fmt.Sprintf("[%v, %v]", r.Start, r.End)
}

/*
Maps the ordinals of each segment to the ordinals of a merged,
reader-wide dictionary. Needed to count facets of a reader with more
than one segment; building one is left to the caller.
*/
type OrdinalMap interface {
	// Returns the global ordinal of segmentOrd in the segment at segmentIndex.
	GlobalOrd(segmentIndex int, segmentOrd int64) int64
	// Returns the number of values in the merged dictionary.
	ValueCount() int64
	// Returns the value of globalOrd in the merged dictionary.
	LookupOrd(globalOrd int64) []byte
	// Returns the global ordinal of key, or -insertionPoint-1 if absent.
	LookupTerm(key []byte) int64
}

/*
Wraps an IndexReader and resolves ords using existing SortedSetDocValues
APIs without a separate taxonomy index. This only supports flat facets
(dimension + label), and it makes faceting a bit slower, adds some cost
at reopen time, but avoids managing the separate taxonomy index.

NOTE: creating an instance of this class is somewhat costly, as it
computes all ordinal ranges; so you should create it once and re-use
that instance for a given IndexReader.
*/
type ReaderState interface {
	// Indexed field we are reading.
	Field() string
	// Returns the OrdRange for this dimension, or nil.
	OrdRange(dim string) *OrdRange
	// Returns mapping from prefix to OrdRange.
	PrefixToOrdRange() map[string]*OrdRange
	// Returns the merged dictionary, nil when the reader has at most one segment.
	OrdinalMap() OrdinalMap
	// Returns the value of a reader-wide ordinal.
	LookupOrd(ord int64) []byte
	// Returns the reader-wide ordinal of key, or -insertionPoint-1.
	LookupTerm(key []byte) int64
	// Returns the top-level IndexReader.
	OrigReader() index.IndexReader
	// Number of unique labels.
	Size() int
}

// facet/sortedset/DefaultSortedSetDocValuesReaderState.java

/* Default implementation of ReaderState. */
type DefaultSortedSetDocValuesReaderState struct {
	field            string
	origReader       index.IndexReader
	valueCount       int
	ordinalMap       OrdinalMap
	dict             spi.SortedSetDocValues
	prefixToOrdRange map[string]*OrdRange
}

/*
Creates this, pulling doc values from the default field
(facet.DEFAULT_INDEX_FIELD_NAME). See
NewSortedSetDocValuesReaderStateOf.
*/
func NewDefaultSortedSetDocValuesReaderState(reader index.IndexReader,
	ordinalMap OrdinalMap) (*DefaultSortedSetDocValuesReaderState, error) {
	return NewSortedSetDocValuesReaderStateOf(reader, facet.DEFAULT_INDEX_FIELD_NAME, ordinalMap)
}

/*
Creates this, pulling doc values from the specified field. ordinalMap
may be nil unless reader has more than one segment. Ordinal ranges
are computed with one scan of the dictionary.
*/
func NewSortedSetDocValuesReaderStateOf(reader index.IndexReader, field string,
	ordinalMap OrdinalMap) (*DefaultSortedSetDocValuesReaderState, error) {

	s := &DefaultSortedSetDocValuesReaderState{
		field:            field,
		origReader:       reader,
		ordinalMap:       ordinalMap,
		prefixToOrdRange: make(map[string]*OrdRange),
	}

	leaves := reader.Leaves()
	switch {
	case ordinalMap != nil:
		s.valueCount = int(ordinalMap.ValueCount())
	case len(leaves) > 1:
		return nil, spi.NewIllegalArgumentError(
			"reader has %v segments; an OrdinalMap is required to facet on field \"%v\"", len(leaves), field)
	case len(leaves) == 1:
		dv, err := index.GetSortedSet(leaves[0].Reader(), field)
		if err != nil {
			return nil, err
		}
		s.dict = dv
		s.valueCount = int(dv.ValueCount())
	}

	var lastDim string
	startOrd := -1

	// labels of one dimension are adjacent in the dictionary
	for ord := 0; ord < s.valueCount; ord++ {
		term := s.LookupOrd(int64(ord))
		components := facet.StringToPath(string(term))
		if len(components) != 2 {
			return nil, errors.Errorf("this class can only handle 2 level hierarchy (dim/value); got: %v %q",
				components, term)
		}
		if components[0] != lastDim {
			if startOrd != -1 {
				s.prefixToOrdRange[lastDim] = &OrdRange{startOrd, ord - 1}
			}
			startOrd = ord
			lastDim = components[0]
		}
	}
	if startOrd != -1 {
		s.prefixToOrdRange[lastDim] = &OrdRange{startOrd, s.valueCount - 1}
	}
	log.Debugf("Field %v: %v labels in %v dimensions", field, s.valueCount, len(s.prefixToOrdRange))
	return s, nil
}

func (s *DefaultSortedSetDocValuesReaderState) Field() string                 { return s.field }
func (s *DefaultSortedSetDocValuesReaderState) OrdRange(dim string) *OrdRange { return s.prefixToOrdRange[dim] }
func (s *DefaultSortedSetDocValuesReaderState) OrdinalMap() OrdinalMap        { return s.ordinalMap }
func (s *DefaultSortedSetDocValuesReaderState) OrigReader() index.IndexReader { return s.origReader }
func (s *DefaultSortedSetDocValuesReaderState) Size() int                     { return s.valueCount }

func (s *DefaultSortedSetDocValuesReaderState) PrefixToOrdRange() map[string]*OrdRange {
	return s.prefixToOrdRange
}

func (s *DefaultSortedSetDocValuesReaderState) LookupOrd(ord int64) []byte {
	if s.ordinalMap != nil {
		return s.ordinalMap.LookupOrd(ord)
	}
	return s.dict.LookupOrd(ord)
}

func (s *DefaultSortedSetDocValuesReaderState) LookupTerm(key []byte) int64 {
	if s.ordinalMap != nil {
		return s.ordinalMap.LookupTerm(key)
	}
	if s.dict == nil {
		return -1
	}
	return s.dict.LookupTerm(key)
}
