package document

import (
	"bytes"
	"fmt"

	"github.com/ironsweet/docvalues/core/index/model"
)

/* Describes the properties of a field. */
type FieldType struct {
	indexed          bool
	tokenized        bool
	storeTermVectors bool
	omitNorms        bool
	indexOptions     model.IndexOptions
	docValueType     model.DocValuesType
	frozen           bool
}

/* Create a new mutable FieldType with all of the properties from ref */
func NewFieldTypeFrom(ref *FieldType) *FieldType {
	ft := *ref
	ft.frozen = false
	return &ft
}

/* Create a new FieldType with default properties. */
func NewFieldType() *FieldType {
	return &FieldType{tokenized: true}
}

func (ft *FieldType) checkIfFrozen() {
	assert2(!ft.frozen, "this FieldType is already frozen and cannot be changed")
}

/*
Prevents future changes. Note, it is recommended that this is called
once the FieldTypes's properties have been set, to prevent unintentional
state changes.
*/
func (ft *FieldType) Freeze() *FieldType {
	ft.frozen = true
	return ft
}

func (ft *FieldType) Indexed() bool                        { return ft.indexed }
func (ft *FieldType) SetIndexed(v bool)                    { ft.checkIfFrozen(); ft.indexed = v }
func (ft *FieldType) Tokenized() bool                      { return ft.tokenized }
func (ft *FieldType) SetTokenized(v bool)                  { ft.checkIfFrozen(); ft.tokenized = v }
func (ft *FieldType) StoreTermVectors() bool               { return ft.storeTermVectors }
func (ft *FieldType) SetStoreTermVectors(v bool)           { ft.checkIfFrozen(); ft.storeTermVectors = v }
func (ft *FieldType) OmitNorms() bool                      { return ft.omitNorms }
func (ft *FieldType) SetOmitNorms(v bool)                  { ft.checkIfFrozen(); ft.omitNorms = v }
func (ft *FieldType) IndexOptions() model.IndexOptions     { return ft.indexOptions }
func (ft *FieldType) SetIndexOptions(v model.IndexOptions) { ft.checkIfFrozen(); ft.indexOptions = v }
func (ft *FieldType) DocValueType() model.DocValuesType    { return ft.docValueType }
func (ft *FieldType) SetDocValueType(v model.DocValuesType) {
	ft.checkIfFrozen()
	ft.docValueType = v
}

/* Returns the field properties recorded in the segment's field infos. */
func (ft *FieldType) Model() model.FieldType {
	return model.FieldType{
		Indexed:          ft.indexed,
		Tokenized:        ft.tokenized,
		StoreTermVectors: ft.storeTermVectors,
		OmitNorms:        ft.omitNorms,
		IndexOptions:     ft.indexOptions,
		DocValueType:     ft.docValueType,
	}
}

/* Prints a Field for human consumption. */
func (ft *FieldType) String() string {
	var buf bytes.Buffer
	if ft.indexed {
		buf.WriteString("indexed")
		if ft.tokenized {
			buf.WriteString(",tokenized")
		}
		if ft.storeTermVectors {
			buf.WriteString(",termVector")
		}
		if ft.omitNorms {
			buf.WriteString(",omitNorms")
		}
		if ft.indexOptions != model.INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS {
			fmt.Fprintf(&buf, ",indexOptions=%v", ft.indexOptions)
		}
	}
	if ft.docValueType != model.DOC_VALUES_TYPE_NONE {
		if buf.Len() > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, "docValueType=%v", ft.docValueType)
	}
	return buf.String()
}

func newDocValuesFieldType(t model.DocValuesType) *FieldType {
	ft := NewFieldType()
	ft.SetDocValueType(t)
	return ft.Freeze()
}

var (
	// Type for numeric DocValues.
	NUMERIC_DOC_VALUES_TYPE = newDocValuesFieldType(model.DOC_VALUES_TYPE_NUMERIC)
	// Type for binary DocValues.
	BINARY_DOC_VALUES_TYPE = newDocValuesFieldType(model.DOC_VALUES_TYPE_BINARY)
	// Type for sorted bytes DocValues.
	SORTED_DOC_VALUES_TYPE = newDocValuesFieldType(model.DOC_VALUES_TYPE_SORTED)
	// Type for sorted bytes DocValues.
	SORTED_SET_DOC_VALUES_TYPE = newDocValuesFieldType(model.DOC_VALUES_TYPE_SORTED_SET)
)

// Indexed, not tokenized, omits norms, indexes DOCS_ONLY, with a
// sorted doc value for sorting and grouping.
var STRING_FIELD_TYPE = func() *FieldType {
	ft := NewFieldType()
	ft.SetIndexed(true)
	ft.SetTokenized(false)
	ft.SetOmitNorms(true)
	ft.SetIndexOptions(model.INDEX_OPT_DOCS_ONLY)
	ft.SetDocValueType(model.DOC_VALUES_TYPE_SORTED)
	return ft.Freeze()
}()
