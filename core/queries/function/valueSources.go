package function

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/util"
)

func numericValues(ctx *index.AtomicReaderContext, field string) (spi.NumericDocValues, util.Bits, error) {
	reader := ctx.Reader()
	arr, err := index.GetNumeric(reader, field)
	if err != nil {
		return nil, nil, err
	}
	valid, err := index.GetDocsWithField(reader, field)
	if err != nil {
		return nil, nil, err
	}
	return arr, valid, nil
}

/* A value of zero bits may still be missing. */
func existsIn(arr spi.NumericDocValues, valid util.Bits) func(doc int) bool {
	return func(doc int) bool {
		return arr(doc) != 0 || valid.At(doc)
	}
}

// queries/function/valuesource/IntFieldSource.java

/* Obtains int32 values from a NUMERIC doc values field. */
type IntFieldSource struct {
	field string
}

func NewIntFieldSource(field string) *IntFieldSource {
	return &IntFieldSource{field}
}

func (s *IntFieldSource) Field() string       { return s.field }
func (s *IntFieldSource) Description() string { return "int(" + s.field + ")" }

func (s *IntFieldSource) Values(ctx *index.AtomicReaderContext) (FunctionValues, error) {
	arr, valid, err := numericValues(ctx, s.field)
	if err != nil {
		return nil, err
	}
	return NewIntDocValues(s, func(doc int) int32 {
		return int32(arr(doc))
	}, existsIn(arr, valid)), nil
}

// queries/function/valuesource/LongFieldSource.java

/* Obtains int64 values from a NUMERIC doc values field. */
type LongFieldSource struct {
	field string
}

func NewLongFieldSource(field string) *LongFieldSource {
	return &LongFieldSource{field}
}

func (s *LongFieldSource) Field() string       { return s.field }
func (s *LongFieldSource) Description() string { return "long(" + s.field + ")" }

func (s *LongFieldSource) Values(ctx *index.AtomicReaderContext) (FunctionValues, error) {
	arr, valid, err := numericValues(ctx, s.field)
	if err != nil {
		return nil, err
	}
	return NewLongDocValues(s, arr, existsIn(arr, valid)), nil
}

// queries/function/valuesource/FloatFieldSource.java

/*
Obtains float32 values from a NUMERIC doc values field holding the raw
bits of float32 values.
*/
type FloatFieldSource struct {
	field string
}

func NewFloatFieldSource(field string) *FloatFieldSource {
	return &FloatFieldSource{field}
}

func (s *FloatFieldSource) Field() string       { return s.field }
func (s *FloatFieldSource) Description() string { return "float(" + s.field + ")" }

func (s *FloatFieldSource) Values(ctx *index.AtomicReaderContext) (FunctionValues, error) {
	arr, valid, err := numericValues(ctx, s.field)
	if err != nil {
		return nil, err
	}
	return NewFloatDocValues(s, func(doc int) float32 {
		return math.Float32frombits(uint32(arr(doc)))
	}, existsIn(arr, valid)), nil
}

// queries/function/valuesource/DoubleFieldSource.java

/*
Obtains float64 values from a NUMERIC doc values field holding the raw
bits of float64 values.
*/
type DoubleFieldSource struct {
	field string
}

func NewDoubleFieldSource(field string) *DoubleFieldSource {
	return &DoubleFieldSource{field}
}

func (s *DoubleFieldSource) Field() string       { return s.field }
func (s *DoubleFieldSource) Description() string { return "double(" + s.field + ")" }

func (s *DoubleFieldSource) Values(ctx *index.AtomicReaderContext) (FunctionValues, error) {
	arr, valid, err := numericValues(ctx, s.field)
	if err != nil {
		return nil, err
	}
	return NewDoubleDocValues(s, func(doc int) float64 {
		return math.Float64frombits(uint64(arr(doc)))
	}, existsIn(arr, valid)), nil
}

// queries/function/valuesource/BytesRefFieldSource.java

/*
An implementation for retrieving FunctionValues instances for byte
string fields. SORTED fields are read through their ordinals, other
fields as BINARY doc values.
*/
type BytesRefFieldSource struct {
	field string
}

func NewBytesRefFieldSource(field string) *BytesRefFieldSource {
	return &BytesRefFieldSource{field}
}

func (s *BytesRefFieldSource) Field() string       { return s.field }
func (s *BytesRefFieldSource) Description() string { return s.field }

func (s *BytesRefFieldSource) Values(ctx *index.AtomicReaderContext) (FunctionValues, error) {
	reader := ctx.Reader()
	// To be sorted or not to be sorted, that is the question
	if fi := reader.FieldInfos().FieldInfoByName(s.field); fi != nil && fi.DocValuesType() == model.DOC_VALUES_TYPE_SORTED {
		termsIndex, err := index.GetSorted(reader, s.field)
		if err != nil {
			return nil, err
		}
		return NewDocTermsIndexDocValues(s, termsIndex), nil
	}
	binary, err := index.GetBinary(reader, s.field)
	if err != nil {
		return nil, err
	}
	valid, err := index.GetDocsWithField(reader, s.field)
	if err != nil {
		return nil, err
	}
	return NewStrDocValues(s, binary.Get, valid.At), nil
}

/* Obtains ordinal-aware values from a SORTED doc values field. */
type SortedFieldSource struct {
	field string
}

func NewSortedFieldSource(field string) *SortedFieldSource {
	return &SortedFieldSource{field}
}

func (s *SortedFieldSource) Field() string       { return s.field }
func (s *SortedFieldSource) Description() string { return "sorted(" + s.field + ")" }

func (s *SortedFieldSource) Values(ctx *index.AtomicReaderContext) (FunctionValues, error) {
	return s.OrdinalValues(ctx)
}

/* Same as Values(), typed for ordinal access. */
func (s *SortedFieldSource) OrdinalValues(ctx *index.AtomicReaderContext) (*DocTermsIndexDocValues, error) {
	termsIndex, err := index.GetSorted(ctx.Reader(), s.field)
	if err != nil {
		return nil, err
	}
	return NewDocTermsIndexDocValues(s, termsIndex), nil
}

// queries/function/valuesource/ConstValueSource.java

/* ConstValueSource returns a constant for all documents. */
type ConstValueSource struct {
	constant float32
}

func NewConstValueSource(constant float32) *ConstValueSource {
	return &ConstValueSource{constant}
}

func (s *ConstValueSource) Float() float32  { return s.constant }
func (s *ConstValueSource) Double() float64 { return float64(s.constant) }

func (s *ConstValueSource) Description() string {
	return "const(" + strconv.FormatFloat(float64(s.constant), 'g', -1, 32) + ")"
}

func (s *ConstValueSource) Values(ctx *index.AtomicReaderContext) (FunctionValues, error) {
	return NewFloatDocValues(s, func(int) float32 { return s.constant }, nil), nil
}

/* BoolConstValueSource returns a constant bool for all documents. */
type BoolConstValueSource struct {
	constant bool
}

func NewBoolConstValueSource(constant bool) *BoolConstValueSource {
	return &BoolConstValueSource{constant}
}

func (s *BoolConstValueSource) Bool() bool { return s.constant }

func (s *BoolConstValueSource) Description() string {
	return fmt.Sprintf("const(%v)", s.constant)
}

func (s *BoolConstValueSource) Values(ctx *index.AtomicReaderContext) (FunctionValues, error) {
	return NewBoolDocValues(s, func(int) bool { return s.constant }, nil), nil
}
