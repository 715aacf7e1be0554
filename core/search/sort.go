package search

import (
	"bytes"
	"fmt"
)

// search/SortField.java

// Specifies the type of the terms to be sorted, or special types such
// as CUSTOM
type SortFieldType int

const (
	// Sort by document score (relevance). Sort values are float32 and
	// higher values are at the front.
	SORT_FIELD_TYPE_SCORE = SortFieldType(iota)
	// Sort by document number (index order). Sort values are int and
	// lower values are at the front.
	SORT_FIELD_TYPE_DOC
	// Sort using term values as Strings. Sort values are []byte and
	// lower values are at the front. Reads SORTED doc values.
	SORT_FIELD_TYPE_STRING
	// Sort using term values as encoded int32. Reads NUMERIC doc values.
	SORT_FIELD_TYPE_INT
	// Sort using term values as encoded float32. Reads NUMERIC doc values.
	SORT_FIELD_TYPE_FLOAT
	// Sort using term values as int64. Reads NUMERIC doc values.
	SORT_FIELD_TYPE_LONG
	// Sort using term values as encoded float64. Reads NUMERIC doc values.
	SORT_FIELD_TYPE_DOUBLE
	// Sort using a custom FieldComparatorSource.
	SORT_FIELD_TYPE_CUSTOM
	// Sort using term values as Strings, but comparing by value (using
	// bytes.Compare) for all comparisons. Reads BINARY doc values.
	SORT_FIELD_TYPE_STRING_VAL
)

func (t SortFieldType) String() string {
	switch t {
	case SORT_FIELD_TYPE_SCORE:
		return "SCORE"
	case SORT_FIELD_TYPE_DOC:
		return "DOC"
	case SORT_FIELD_TYPE_STRING:
		return "STRING"
	case SORT_FIELD_TYPE_INT:
		return "INT"
	case SORT_FIELD_TYPE_FLOAT:
		return "FLOAT"
	case SORT_FIELD_TYPE_LONG:
		return "LONG"
	case SORT_FIELD_TYPE_DOUBLE:
		return "DOUBLE"
	case SORT_FIELD_TYPE_CUSTOM:
		return "CUSTOM"
	case SORT_FIELD_TYPE_STRING_VAL:
		return "STRING_VAL"
	}
	return fmt.Sprintf("SortFieldType(%d)", int(t))
}

/*
Provides a FieldComparator for custom field sorting.
*/
type FieldComparatorSource interface {
	/*
		Creates a comparator for the field in the given index.
		numHits is the number of slots the comparator must hold.
	*/
	NewComparator(fieldname string, numHits, sortPos int, reversed bool) (FieldComparator, error)
}

/*
Stores information about how to sort documents by terms in an
individual field. Fields must be indexed with doc values of the type
matching the sort type in order to sort by them.
*/
type SortField struct {
	field            string
	typ              SortFieldType
	reverse          bool
	comparatorSource FieldComparatorSource
	missingValue     interface{}
}

// Represents sorting by document score (relevance).
var FIELD_SCORE = NewSortField("", SORT_FIELD_TYPE_SCORE, false)

// Represents sorting by document number (index order).
var FIELD_DOC = NewSortField("", SORT_FIELD_TYPE_DOC, false)

/*
Creates a sort, possibly in reverse, by terms in the given field with
the type of term values explicitly given. Field may be empty only if
type is SCORE or DOC.
*/
func NewSortField(field string, typ SortFieldType, reverse bool) *SortField {
	assert2(typ != SORT_FIELD_TYPE_CUSTOM, "use NewCustomSortField for custom sort fields")
	assert2(field != "" || typ == SORT_FIELD_TYPE_SCORE || typ == SORT_FIELD_TYPE_DOC,
		"field can only be empty when type is SCORE or DOC")
	return &SortField{field: field, typ: typ, reverse: reverse}
}

/* Creates a sort, possibly in reverse, with a custom comparison function. */
func NewCustomSortField(field string, comparator FieldComparatorSource, reverse bool) *SortField {
	assert2(comparator != nil, "comparator source is nil")
	return &SortField{
		field:            field,
		typ:              SORT_FIELD_TYPE_CUSTOM,
		reverse:          reverse,
		comparatorSource: comparator,
	}
}

/*
Sets the value used for documents without a value in the field. Its Go
type must match the sort type (int32, float32, int64, float64), or be
STRING_FIRST/STRING_LAST for string sorts.
*/
func (f *SortField) SetMissingValue(missingValue interface{}) *SortField {
	switch f.typ {
	case SORT_FIELD_TYPE_STRING, SORT_FIELD_TYPE_STRING_VAL:
		assert2(missingValue == STRING_FIRST || missingValue == STRING_LAST,
			"For STRING type, missing value must be either STRING_FIRST or STRING_LAST")
	case SORT_FIELD_TYPE_INT:
		_, ok := missingValue.(int32)
		assert2(ok, "missing value must be int32 for INT")
	case SORT_FIELD_TYPE_FLOAT:
		_, ok := missingValue.(float32)
		assert2(ok, "missing value must be float32 for FLOAT")
	case SORT_FIELD_TYPE_LONG:
		_, ok := missingValue.(int64)
		assert2(ok, "missing value must be int64 for LONG")
	case SORT_FIELD_TYPE_DOUBLE:
		_, ok := missingValue.(float64)
		assert2(ok, "missing value must be float64 for DOUBLE")
	default:
		panic(fmt.Sprintf("Missing value only works for numeric or STRING types, not %v", f.typ))
	}
	f.missingValue = missingValue
	return f
}

// Pass this to SetMissingValue to have missing string values sort first.
const STRING_FIRST = "SortField.STRING_FIRST"

// Pass this to SetMissingValue to have missing string values sort last.
const STRING_LAST = "SortField.STRING_LAST"

// Returns the name of the field. Could return "" if the sort is by
// SCORE or DOC.
func (f *SortField) Field() string { return f.field }

func (f *SortField) Type() SortFieldType { return f.typ }

// Returns whether the sort should be reversed.
func (f *SortField) Reverse() bool { return f.reverse }

func (f *SortField) ComparatorSource() FieldComparatorSource { return f.comparatorSource }

func (f *SortField) MissingValue() interface{} { return f.missingValue }

// Whether the relevance score is needed to sort documents.
func (f *SortField) NeedsScores() bool {
	return f.typ == SORT_FIELD_TYPE_SCORE
}

func (f *SortField) String() string {
	var buf bytes.Buffer
	switch f.typ {
	case SORT_FIELD_TYPE_SCORE:
		buf.WriteString("<score>")
	case SORT_FIELD_TYPE_DOC:
		buf.WriteString("<doc>")
	case SORT_FIELD_TYPE_CUSTOM:
		fmt.Fprintf(&buf, "<custom:\"%v\": %v>", f.field, f.comparatorSource)
	default:
		fmt.Fprintf(&buf, "<%v: \"%v\">", f.typ, f.field)
	}
	if f.reverse {
		buf.WriteString("!")
	}
	if f.missingValue != nil {
		fmt.Fprintf(&buf, " missingValue=%v", f.missingValue)
	}
	return buf.String()
}

/*
Returns the FieldComparator to use for sorting.

numHits is the number of top hits the queue will store, sortPos the
position of this SortField within the Sort.
*/
func (f *SortField) ComparatorOf(numHits, sortPos int) (FieldComparator, error) {
	switch f.typ {
	case SORT_FIELD_TYPE_SCORE:
		return newRelevanceComparator(numHits), nil
	case SORT_FIELD_TYPE_DOC:
		return newDocComparator(numHits), nil
	case SORT_FIELD_TYPE_INT:
		return newNumericComparator(numHits, f.field, f.missingValue, decodeInt), nil
	case SORT_FIELD_TYPE_FLOAT:
		return newNumericComparator(numHits, f.field, f.missingValue, decodeFloat), nil
	case SORT_FIELD_TYPE_LONG:
		return newNumericComparator(numHits, f.field, f.missingValue, decodeLong), nil
	case SORT_FIELD_TYPE_DOUBLE:
		return newNumericComparator(numHits, f.field, f.missingValue, decodeDouble), nil
	case SORT_FIELD_TYPE_CUSTOM:
		return f.comparatorSource.NewComparator(f.field, numHits, sortPos, f.reverse)
	case SORT_FIELD_TYPE_STRING:
		return newTermOrdValComparator(numHits, f.field, f.missingValue == STRING_LAST), nil
	case SORT_FIELD_TYPE_STRING_VAL:
		return newTermValComparator(numHits, f.field, f.missingValue == STRING_LAST), nil
	}
	panic(fmt.Sprintf("illegal sort type: %v", f.typ))
}

// search/Sort.java

/*
Encapsulates sort criteria for returned hits.

Sorting by a field requires the field to carry doc values of the type
matching the SortField. Sorts are compared field by field, the first
SortField being the most significant.
*/
type Sort struct {
	fields []*SortField
}

/*
Represents sorting by computed relevance. Using this sort criteria
returns the same results as calling SearchTop() without a sort
criteria, only with slightly more overhead.
*/
var RELEVANCE = NewSort(FIELD_SCORE)

// Represents sorting by index order.
var INDEXORDER = NewSort(FIELD_DOC)

/* Sets the sort to the given criteria in succession. */
func NewSort(fields ...*SortField) *Sort {
	assert2(len(fields) > 0, "There must be at least 1 sort field")
	return &Sort{fields}
}

// Representation of the sort criteria.
func (s *Sort) Fields() []*SortField { return s.fields }

// Whether the relevance score is needed to sort documents.
func (s *Sort) NeedsScores() bool {
	for _, f := range s.fields {
		if f.NeedsScores() {
			return true
		}
	}
	return false
}

func (s *Sort) String() string {
	var buf bytes.Buffer
	for i, f := range s.fields {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString(f.String())
	}
	return buf.String()
}
