package function

import (
	"math"
	"strconv"

	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/search"
	"github.com/ironsweet/docvalues/core/util/mutable"
)

// queries/function/docvalues/BoolDocValues.java

/* Abstract FunctionValues implementation which supports retrieving bool values. */
type BoolDocValues struct {
	*funcValues
	val func(doc int) bool
}

/* Creates a bool view. A nil exists means every document has a value. */
func NewBoolDocValues(vs ValueSource, val func(doc int) bool, exists func(doc int) bool) *BoolDocValues {
	ans := &BoolDocValues{val: val}
	ans.funcValues = newFuncValues(ans, vs, exists)
	return ans
}

func (v *BoolDocValues) BoolVal(doc int) bool { return v.val(doc) }

func (v *BoolDocValues) IntVal(doc int) int32 {
	if v.val(doc) {
		return 1
	}
	return 0
}

func (v *BoolDocValues) ByteVal(doc int) int8      { return int8(v.IntVal(doc)) }
func (v *BoolDocValues) ShortVal(doc int) int16    { return int16(v.IntVal(doc)) }
func (v *BoolDocValues) LongVal(doc int) int64     { return int64(v.IntVal(doc)) }
func (v *BoolDocValues) FloatVal(doc int) float32  { return float32(v.IntVal(doc)) }
func (v *BoolDocValues) DoubleVal(doc int) float64 { return float64(v.IntVal(doc)) }
func (v *BoolDocValues) StrVal(doc int) string     { return strconv.FormatBool(v.val(doc)) }

func (v *BoolDocValues) ObjectVal(doc int) interface{} {
	if !v.Exists(doc) {
		return nil
	}
	return v.val(doc)
}

func (v *BoolDocValues) ValueFiller() ValueFiller {
	mval := new(mutable.ValueBool)
	return newValueFiller(mval, func(doc int) {
		mval.Value = v.val(doc)
		mval.Missing = !v.Exists(doc)
	})
}

// queries/function/docvalues/IntDocValues.java

/* Abstract FunctionValues implementation which supports retrieving int32 values. */
type IntDocValues struct {
	*funcValues
	val func(doc int) int32
}

/* Creates an int32 view. A nil exists means every document has a value. */
func NewIntDocValues(vs ValueSource, val func(doc int) int32, exists func(doc int) bool) *IntDocValues {
	ans := &IntDocValues{val: val}
	ans.funcValues = newFuncValues(ans, vs, exists)
	return ans
}

func (v *IntDocValues) ByteVal(doc int) int8      { return int8(v.val(doc)) }
func (v *IntDocValues) ShortVal(doc int) int16    { return int16(v.val(doc)) }
func (v *IntDocValues) IntVal(doc int) int32      { return v.val(doc) }
func (v *IntDocValues) LongVal(doc int) int64     { return int64(v.val(doc)) }
func (v *IntDocValues) FloatVal(doc int) float32  { return float32(v.val(doc)) }
func (v *IntDocValues) DoubleVal(doc int) float64 { return float64(v.val(doc)) }
func (v *IntDocValues) BoolVal(doc int) bool      { return v.val(doc) != 0 }
func (v *IntDocValues) StrVal(doc int) string     { return strconv.FormatInt(int64(v.val(doc)), 10) }

func (v *IntDocValues) ObjectVal(doc int) interface{} {
	if !v.Exists(doc) {
		return nil
	}
	return v.val(doc)
}

func (v *IntDocValues) RangeScorer(ctx *index.AtomicReaderContext, lower, upper []byte,
	includeLower, includeUpper bool) (search.Scorer, error) {

	in, err := intRange(lower, upper, includeLower, includeUpper, math.MinInt32, math.MaxInt32, parseInt32)
	if err != nil {
		return nil, err
	}
	return NewValueSourceScorer(ctx, v, func(doc int) bool {
		return v.Exists(doc) && in(v.val(doc))
	}), nil
}

func (v *IntDocValues) ValueFiller() ValueFiller {
	mval := new(mutable.ValueInt32)
	return newValueFiller(mval, func(doc int) {
		mval.Value = v.val(doc)
		mval.Missing = !v.Exists(doc)
	})
}

// queries/function/docvalues/LongDocValues.java

/* Abstract FunctionValues implementation which supports retrieving int64 values. */
type LongDocValues struct {
	*funcValues
	val func(doc int) int64
}

/* Creates an int64 view. A nil exists means every document has a value. */
func NewLongDocValues(vs ValueSource, val func(doc int) int64, exists func(doc int) bool) *LongDocValues {
	ans := &LongDocValues{val: val}
	ans.funcValues = newFuncValues(ans, vs, exists)
	return ans
}

func (v *LongDocValues) ByteVal(doc int) int8      { return int8(v.val(doc)) }
func (v *LongDocValues) ShortVal(doc int) int16    { return int16(v.val(doc)) }
func (v *LongDocValues) IntVal(doc int) int32      { return int32(v.val(doc)) }
func (v *LongDocValues) LongVal(doc int) int64     { return v.val(doc) }
func (v *LongDocValues) FloatVal(doc int) float32  { return float32(v.val(doc)) }
func (v *LongDocValues) DoubleVal(doc int) float64 { return float64(v.val(doc)) }
func (v *LongDocValues) BoolVal(doc int) bool      { return v.val(doc) != 0 }
func (v *LongDocValues) StrVal(doc int) string     { return strconv.FormatInt(v.val(doc), 10) }

func (v *LongDocValues) ObjectVal(doc int) interface{} {
	if !v.Exists(doc) {
		return nil
	}
	return v.val(doc)
}

func (v *LongDocValues) RangeScorer(ctx *index.AtomicReaderContext, lower, upper []byte,
	includeLower, includeUpper bool) (search.Scorer, error) {

	in, err := intRange(lower, upper, includeLower, includeUpper, math.MinInt64, math.MaxInt64, parseInt64)
	if err != nil {
		return nil, err
	}
	return NewValueSourceScorer(ctx, v, func(doc int) bool {
		return v.Exists(doc) && in(v.val(doc))
	}), nil
}

func (v *LongDocValues) ValueFiller() ValueFiller {
	mval := new(mutable.ValueInt64)
	return newValueFiller(mval, func(doc int) {
		mval.Value = v.val(doc)
		mval.Missing = !v.Exists(doc)
	})
}

// queries/function/docvalues/FloatDocValues.java

/* Abstract FunctionValues implementation which supports retrieving float32 values. */
type FloatDocValues struct {
	*funcValues
	val func(doc int) float32
}

/* Creates a float32 view. A nil exists means every document has a value. */
func NewFloatDocValues(vs ValueSource, val func(doc int) float32, exists func(doc int) bool) *FloatDocValues {
	ans := &FloatDocValues{val: val}
	ans.funcValues = newFuncValues(ans, vs, exists)
	return ans
}

func (v *FloatDocValues) ByteVal(doc int) int8      { return int8(v.val(doc)) }
func (v *FloatDocValues) ShortVal(doc int) int16    { return int16(v.val(doc)) }
func (v *FloatDocValues) IntVal(doc int) int32      { return int32(v.val(doc)) }
func (v *FloatDocValues) LongVal(doc int) int64     { return int64(v.val(doc)) }
func (v *FloatDocValues) FloatVal(doc int) float32  { return v.val(doc) }
func (v *FloatDocValues) DoubleVal(doc int) float64 { return float64(v.val(doc)) }
func (v *FloatDocValues) BoolVal(doc int) bool      { return v.IntVal(doc) != 0 }

func (v *FloatDocValues) StrVal(doc int) string {
	return strconv.FormatFloat(float64(v.val(doc)), 'g', -1, 32)
}

func (v *FloatDocValues) ObjectVal(doc int) interface{} {
	if !v.Exists(doc) {
		return nil
	}
	return v.val(doc)
}

func (v *FloatDocValues) ValueFiller() ValueFiller {
	mval := new(mutable.ValueFloat32)
	return newValueFiller(mval, func(doc int) {
		mval.Value = v.val(doc)
		mval.Missing = !v.Exists(doc)
	})
}

// queries/function/docvalues/DoubleDocValues.java

/* Abstract FunctionValues implementation which supports retrieving float64 values. */
type DoubleDocValues struct {
	*funcValues
	val func(doc int) float64
}

/* Creates a float64 view. A nil exists means every document has a value. */
func NewDoubleDocValues(vs ValueSource, val func(doc int) float64, exists func(doc int) bool) *DoubleDocValues {
	ans := &DoubleDocValues{val: val}
	ans.funcValues = newFuncValues(ans, vs, exists)
	return ans
}

func (v *DoubleDocValues) ByteVal(doc int) int8      { return int8(v.val(doc)) }
func (v *DoubleDocValues) ShortVal(doc int) int16    { return int16(v.val(doc)) }
func (v *DoubleDocValues) IntVal(doc int) int32      { return int32(v.val(doc)) }
func (v *DoubleDocValues) LongVal(doc int) int64     { return int64(v.val(doc)) }
func (v *DoubleDocValues) FloatVal(doc int) float32  { return float32(v.val(doc)) }
func (v *DoubleDocValues) DoubleVal(doc int) float64 { return v.val(doc) }
func (v *DoubleDocValues) BoolVal(doc int) bool      { return v.val(doc) != 0 }

func (v *DoubleDocValues) StrVal(doc int) string {
	return strconv.FormatFloat(v.val(doc), 'g', -1, 64)
}

func (v *DoubleDocValues) ObjectVal(doc int) interface{} {
	if !v.Exists(doc) {
		return nil
	}
	return v.val(doc)
}

func (v *DoubleDocValues) RangeScorer(ctx *index.AtomicReaderContext, lower, upper []byte,
	includeLower, includeUpper bool) (search.Scorer, error) {

	in, err := floatRange(lower, upper, includeLower, includeUpper, parseFloat64)
	if err != nil {
		return nil, err
	}
	return NewValueSourceScorer(ctx, v, func(doc int) bool {
		return v.Exists(doc) && in(v.val(doc))
	}), nil
}

func (v *DoubleDocValues) ValueFiller() ValueFiller {
	mval := new(mutable.ValueFloat64)
	return newValueFiller(mval, func(doc int) {
		mval.Value = v.val(doc)
		mval.Missing = !v.Exists(doc)
	})
}

// queries/function/docvalues/StrDocValues.java

/*
Abstract FunctionValues implementation which supports retrieving byte
string values. Numeric accessors panic.
*/
type StrDocValues struct {
	*funcValues
	val func(doc int) []byte
}

/*
Creates a byte string view. val may return a slice reused across
calls. A nil exists means every document has a value.
*/
func NewStrDocValues(vs ValueSource, val func(doc int) []byte, exists func(doc int) bool) *StrDocValues {
	ans := &StrDocValues{val: val}
	ans.funcValues = newFuncValues(ans, vs, exists)
	return ans
}

func (v *StrDocValues) ByteVal(doc int) int8 {
	unsupported(v.vs, "ByteVal")
	return 0
}

func (v *StrDocValues) ShortVal(doc int) int16 {
	unsupported(v.vs, "ShortVal")
	return 0
}

func (v *StrDocValues) IntVal(doc int) int32 {
	unsupported(v.vs, "IntVal")
	return 0
}

func (v *StrDocValues) LongVal(doc int) int64 {
	unsupported(v.vs, "LongVal")
	return 0
}

func (v *StrDocValues) FloatVal(doc int) float32 {
	unsupported(v.vs, "FloatVal")
	return 0
}

func (v *StrDocValues) DoubleVal(doc int) float64 {
	unsupported(v.vs, "DoubleVal")
	return 0
}

func (v *StrDocValues) BoolVal(doc int) bool { return v.Exists(doc) }

func (v *StrDocValues) StrVal(doc int) string {
	if !v.Exists(doc) {
		return ""
	}
	return string(v.val(doc))
}

func (v *StrDocValues) BytesVal(doc int, target []byte) ([]byte, bool) {
	if !v.Exists(doc) {
		return target[:0], false
	}
	return append(target[:0], v.val(doc)...), true
}

func (v *StrDocValues) ObjectVal(doc int) interface{} {
	if !v.Exists(doc) {
		return nil
	}
	return v.StrVal(doc)
}

func (v *StrDocValues) String(doc int) string {
	return v.vs.Description() + "='" + v.StrVal(doc) + "'"
}

func (v *StrDocValues) Explain(doc int) search.Explanation {
	return explainPresence(v, doc)
}

/* Byte-wise range over the values; missing documents never match. */
func (v *StrDocValues) RangeScorer(ctx *index.AtomicReaderContext, lower, upper []byte,
	includeLower, includeUpper bool) (search.Scorer, error) {

	return NewValueSourceScorer(ctx, v, func(doc int) bool {
		return v.Exists(doc) && inTermRange(v.val(doc), lower, upper, includeLower, includeUpper)
	}), nil
}

func (v *StrDocValues) ValueFiller() ValueFiller {
	mval := new(mutable.ValueStr)
	return newValueFiller(mval, func(doc int) {
		var ok bool
		mval.Value, ok = v.BytesVal(doc, mval.Value)
		mval.Missing = !ok
	})
}
