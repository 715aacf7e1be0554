package model

import (
	"fmt"
)

/*
Access to the Field Info file that describes document fields and
whether or not they are indexed. Each segment has a separate Field
Info file. Objects of this class are thread-safe for multiple readers,
but only one thread can be adding documents at a time, with no other
reader or writer threads accessing this object.
*/
type FieldInfo struct {
	// Field's name
	Name string
	// Internal field number
	Number int32

	indexed      bool
	docValueType DocValuesType

	// True if any document indexed term vectors
	storeTermVector bool

	normType      DocValuesType
	omitNorms     bool
	indexOptions  IndexOptions
	storePayloads bool

	dvGen int64

	*AttributesMixin
}

func NewFieldInfo(name string, indexed bool, number int32, storeTermVector, omitNorms, storePayloads bool,
	indexOptions IndexOptions, docValues, normsType DocValuesType, dvGen int64, attributes map[string]string) *FieldInfo {
	fi := DecodeFieldInfo(name, indexed, number, storeTermVector, omitNorms, storePayloads,
		indexOptions, docValues, normsType, dvGen, attributes)
	assert(fi.CheckConsistency())
	return fi
}

/*
Builds a FieldInfo from flags read off disk. Unlike NewFieldInfo, the
combination of flags is taken as is and never checked.
*/
func DecodeFieldInfo(name string, indexed bool, number int32, storeTermVector, omitNorms, storePayloads bool,
	indexOptions IndexOptions, docValues, normsType DocValuesType, dvGen int64, attributes map[string]string) *FieldInfo {
	fi := &FieldInfo{
		Name:         name,
		indexed:      indexed,
		Number:       number,
		docValueType: docValues,
		dvGen:        dvGen,
	}
	if attributes == nil {
		attributes = make(map[string]string)
	}
	fi.AttributesMixin = &AttributesMixin{attributes}
	if indexed {
		fi.storeTermVector = storeTermVector
		fi.storePayloads = storePayloads
		fi.omitNorms = omitNorms
		fi.indexOptions = indexOptions
		if !omitNorms {
			fi.normType = normsType
		}
	} // for non-indexed fields, leave defaults
	return fi
}

/*
Performs internal consistency checks. Always returns true (or panics
if something is wrong).
*/
func (info *FieldInfo) CheckConsistency() bool {
	if !info.indexed {
		assert2(!info.storeTermVector, "field '%v' is not indexed but stores term vectors", info.Name)
		assert2(!info.storePayloads, "field '%v' is not indexed but stores payloads", info.Name)
		assert2(!info.omitNorms, "field '%v' is not indexed but omits norms", info.Name)
		assert2(info.normType == DOC_VALUES_TYPE_NONE, "field '%v' is not indexed but has norms", info.Name)
		assert2(info.indexOptions == INDEX_OPT_NONE, "field '%v' is not indexed but has index options", info.Name)
	} else {
		assert2(info.indexOptions != INDEX_OPT_NONE, "indexed field '%v' must have index options", info.Name)
		assert2(info.indexOptions >= INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS || !info.storePayloads,
			"indexed field '%v' cannot have payloads without positions", info.Name)
		assert2(!info.omitNorms || info.normType == DOC_VALUES_TYPE_NONE,
			"field '%v' omits norms but has norms", info.Name)
	}
	assert2(info.dvGen == -1 || info.docValueType != DOC_VALUES_TYPE_NONE,
		"field '%v' has docValuesGen=%v but no docValuesType", info.Name, info.dvGen)
	return true
}

/* Returns IndexOptions for the field, or INDEX_OPT_NONE if the field is not indexed */
func (info *FieldInfo) IndexOptions() IndexOptions { return info.indexOptions }

/* Returns true if this field has any docValues. */
func (info *FieldInfo) HasDocValues() bool {
	return info.docValueType != DOC_VALUES_TYPE_NONE
}

/* Returns DocValuesType of the docValues. This may be DOC_VALUES_TYPE_NONE if the field has no docvalues. */
func (info *FieldInfo) DocValuesType() DocValuesType { return info.docValueType }

/*
Sets the doc values type. A field can move from no doc values to any
type once; changing an already assigned type panics.
*/
func (info *FieldInfo) SetDocValuesType(v DocValuesType) {
	assert2(info.docValueType == DOC_VALUES_TYPE_NONE || info.docValueType == v,
		"cannot change DocValues type from %v to %v for field '%v'", info.docValueType, v, info.Name)
	info.docValueType = v
	assert(info.CheckConsistency())
}

/* Sets the docValues generation of this field. */
func (info *FieldInfo) SetDocValuesGen(gen int64) {
	info.dvGen = gen
	assert(info.CheckConsistency())
}

/*
Returns the docValues generation of this field, or -1 if no docValues
updates exist for it.
*/
func (info *FieldInfo) DocValuesGen() int64 { return info.dvGen }

/* Returns DocValuesType of the norm. This may be DOC_VALUES_TYPE_NONE if the field has no norms. */
func (info *FieldInfo) NormType() DocValuesType { return info.normType }

func (info *FieldInfo) SetNormValueType(typ DocValuesType) {
	assert2(info.normType == DOC_VALUES_TYPE_NONE || info.normType == typ,
		"cannot change Norm type from %v to %v for field '%v'", info.normType, typ, info.Name)
	info.normType = typ
	assert(info.CheckConsistency())
}

/* Returns true if norms are explicitly omitted for this field */
func (info *FieldInfo) OmitsNorms() bool { return info.omitNorms }

/* Returns true if this field actually has any norms. */
func (info *FieldInfo) HasNorms() bool { return info.normType != DOC_VALUES_TYPE_NONE }

/* Returns true if this field is indexed. */
func (info *FieldInfo) IsIndexed() bool { return info.indexed }

/* Returns true if any payloads exist for this field. */
func (info *FieldInfo) HasPayloads() bool { return info.storePayloads }

/* Returns true if any term vectors exist for this field. */
func (info *FieldInfo) HasVectors() bool { return info.storeTermVector }

func (fi *FieldInfo) String() string {
	return fmt.Sprintf("%v-%v, isIndexed=%v, docValueType=%v, dvGen=%v, hasVectors=%v, normType=%v, omitNorms=%v, indexOptions=%v, hasPayloads=%v, attributes=%v",
		fi.Number, fi.Name, fi.indexed, fi.docValueType, fi.dvGen, fi.storeTermVector, fi.normType, fi.omitNorms, fi.indexOptions, fi.storePayloads, fi.attributes)
}

type Int32Slice []int32

func (p Int32Slice) Len() int           { return len(p) }
func (p Int32Slice) Less(i, j int) bool { return p[i] < p[j] }
func (p Int32Slice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

/* Controls how much information is stored in the postings lists. */
type IndexOptions int

const (
	INDEX_OPT_NONE                                     = IndexOptions(0)
	INDEX_OPT_DOCS_ONLY                                = IndexOptions(1)
	INDEX_OPT_DOCS_AND_FREQS                           = IndexOptions(2)
	INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS             = IndexOptions(3)
	INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS = IndexOptions(4)
)

func (opt IndexOptions) String() string {
	switch opt {
	case INDEX_OPT_NONE:
		return "NONE"
	case INDEX_OPT_DOCS_ONLY:
		return "DOCS_ONLY"
	case INDEX_OPT_DOCS_AND_FREQS:
		return "DOCS_AND_FREQS"
	case INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS:
		return "DOCS_AND_FREQS_AND_POSITIONS"
	case INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS:
		return "DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS"
	}
	return fmt.Sprintf("IndexOptions(%d)", int(opt))
}

/* DocValues types. Note that DocValues is strongly typed, so a field cannot have different types across different documents. */
type DocValuesType int

const (
	DOC_VALUES_TYPE_NONE       = DocValuesType(0)
	DOC_VALUES_TYPE_NUMERIC    = DocValuesType(1)
	DOC_VALUES_TYPE_BINARY     = DocValuesType(2)
	DOC_VALUES_TYPE_SORTED     = DocValuesType(3)
	DOC_VALUES_TYPE_SORTED_SET = DocValuesType(4)
)

func (t DocValuesType) String() string {
	switch t {
	case DOC_VALUES_TYPE_NONE:
		return "NONE"
	case DOC_VALUES_TYPE_NUMERIC:
		return "NUMERIC"
	case DOC_VALUES_TYPE_BINARY:
		return "BINARY"
	case DOC_VALUES_TYPE_SORTED:
		return "SORTED"
	case DOC_VALUES_TYPE_SORTED_SET:
		return "SORTED_SET"
	}
	return fmt.Sprintf("DocValuesType(%d)", int(t))
}

/* Returns true if v names one of the defined types. */
func (t DocValuesType) IsValid() bool {
	return t >= DOC_VALUES_TYPE_NONE && t <= DOC_VALUES_TYPE_SORTED_SET
}
