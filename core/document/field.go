package document

import (
	"fmt"
	"math"

	"github.com/ironsweet/docvalues/core/index/model"
)

/* Represents a single field for indexing. */
type IndexableField interface {
	// Field name
	Name() string
	// FieldType describing the properties of this field.
	FieldType() *FieldType
	// Non-empty for numeric fields
	NumericValue() (int64, bool)
	// Non-nil if this field has a binary value
	BinaryValue() []byte
	String() string
}

/*
Expert: directly create a field for a document. Most users should use
one of the sugar constructors: NewNumericDocValuesField,
NewBinaryDocValuesField, NewSortedDocValuesField,
NewSortedSetDocValuesField, NewStringField.
*/
type Field struct {
	name       string
	_type      *FieldType
	numeric    int64
	hasNumeric bool
	bytes      []byte
}

func newField(name string, ft *FieldType) *Field {
	assert2(name != "", "name cannot be empty")
	assert2(ft != nil, "type cannot be nil")
	return &Field{name: name, _type: ft}
}

/* Create a field with a binary value. */
func NewBinaryField(name string, value []byte, ft *FieldType) *Field {
	assert2(value != nil, "value cannot be nil")
	f := newField(name, ft)
	f.bytes = value
	return f
}

/* Create a field with a numeric value. */
func NewNumericField(name string, value int64, ft *FieldType) *Field {
	f := newField(name, ft)
	f.numeric, f.hasNumeric = value, true
	return f
}

/* Field that stores a per-document int64 value for scoring, sorting or value retrieval. */
func NewNumericDocValuesField(name string, value int64) *Field {
	return NewNumericField(name, value, NUMERIC_DOC_VALUES_TYPE)
}

/*
Field that stores a per-document float32 value, encoded with its raw
IEEE 754 bits in a numeric doc value.
*/
func NewFloatDocValuesField(name string, value float32) *Field {
	return NewNumericField(name, int64(int32(math.Float32bits(value))), NUMERIC_DOC_VALUES_TYPE)
}

/*
Field that stores a per-document float64 value, encoded with its raw
IEEE 754 bits in a numeric doc value.
*/
func NewDoubleDocValuesField(name string, value float64) *Field {
	return NewNumericField(name, int64(math.Float64bits(value)), NUMERIC_DOC_VALUES_TYPE)
}

/* Field that stores a per-document []byte value. */
func NewBinaryDocValuesField(name string, value []byte) *Field {
	return NewBinaryField(name, value, BINARY_DOC_VALUES_TYPE)
}

/*
Field that stores a per-document []byte value, indexed for sorting.
The values are deduplicated into a sorted dictionary at flush.
*/
func NewSortedDocValuesField(name string, value []byte) *Field {
	return NewBinaryField(name, value, SORTED_DOC_VALUES_TYPE)
}

/*
Field that stores a set of per-document []byte values. Add one field
per value; duplicates within a document are collapsed.
*/
func NewSortedSetDocValuesField(name string, value []byte) *Field {
	return NewBinaryField(name, value, SORTED_SET_DOC_VALUES_TYPE)
}

/* A field that is indexed as a single token and sortable. */
func NewStringField(name, value string) *Field {
	return NewBinaryField(name, []byte(value), STRING_FIELD_TYPE)
}

func (f *Field) Name() string          { return f.name }
func (f *Field) FieldType() *FieldType { return f._type }
func (f *Field) BinaryValue() []byte   { return f.bytes }

func (f *Field) NumericValue() (int64, bool) {
	return f.numeric, f.hasNumeric
}

func (f *Field) String() string {
	if f.hasNumeric {
		return fmt.Sprintf("%v<%v:%v>", f._type, f.name, f.numeric)
	}
	if f._type.DocValueType() == model.DOC_VALUES_TYPE_BINARY {
		return fmt.Sprintf("%v<%v:%v>", f._type, f.name, f.bytes)
	}
	return fmt.Sprintf("%v<%v:%s>", f._type, f.name, f.bytes)
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
