/*
Package function exposes per-document values, read from doc values or
computed, through one typed view. Grouping, sorting and range matching
consume any value source through that view regardless of its primitive
type.
*/
package function

import (
	"fmt"

	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/search"
	"github.com/ironsweet/docvalues/core/util/mutable"
)

// queries/function/ValueSource.java

/*
Instantiates FunctionValues for a particular reader.

Often used when creating a FunctionQuery, or grouping and sorting by a
computed value.
*/
type ValueSource interface {
	// Gets the values for this reader. Values are only valid for the
	// segment of ctx and must not be shared across goroutines.
	Values(ctx *index.AtomicReaderContext) (FunctionValues, error)
	// Description of field, used in explain()
	Description() string
}

// queries/function/FunctionValues.java

/*
Represents field values as different types. Normally created via a
ValueSource for a particular field and reader.

A view defines one native accessor; the others are derived from it by
narrowing or widening conversions. Accessors a view cannot derive
panic.
*/
type FunctionValues interface {
	ByteVal(doc int) int8
	ShortVal(doc int) int16
	IntVal(doc int) int32
	LongVal(doc int) int64
	FloatVal(doc int) float32
	DoubleVal(doc int) float64
	BoolVal(doc int) bool
	// Returns "" when the document has no value.
	StrVal(doc int) string
	/*
		Appends the bytes of doc's value to target[:0]. Returns false,
		with an empty result, when the document has no value.
	*/
	BytesVal(doc int, target []byte) ([]byte, bool)
	// Native value of the document, nil when it has none.
	ObjectVal(doc int) interface{}
	// Returns true if there is a value for this document
	Exists(doc int) bool
	// Renders "<description>=<value>".
	String(doc int) string
	Explain(doc int) search.Explanation
	/*
		Returns a filler holding one reusable mutable value. The value is
		overwritten on every fill.
	*/
	ValueFiller() ValueFiller
	/*
		Returns a Scorer over the documents whose value falls between
		lower and upper. A nil bound is open.
	*/
	RangeScorer(ctx *index.AtomicReaderContext, lower, upper []byte,
		includeLower, includeUpper bool) (search.Scorer, error)
}

/* FunctionValues backed by a sorted dictionary. */
type OrdinalValues interface {
	FunctionValues
	// Ordinal of doc's value, -1 when it has none.
	OrdVal(doc int) int
	// Size of the dictionary.
	NumOrd() int
}

/*
Abstraction of the logic required to fill the value of a specified
doc into a reusable mutable.Value. Implementations of ValueFiller must
reuse the same Value instance on every FillValue().
*/
type ValueFiller interface {
	Value() mutable.Value
	FillValue(doc int)
}

type valueFiller struct {
	mval mutable.Value
	fill func(doc int)
}

func newValueFiller(mval mutable.Value, fill func(doc int)) ValueFiller {
	return &valueFiller{mval, fill}
}

func (f *valueFiller) Value() mutable.Value { return f.mval }
func (f *valueFiller) FillValue(doc int)    { f.fill(doc) }

/*
Accessors shared by all views. Each view embeds it and sets itself as
spi so derived accessors reach the view's native one.
*/
type funcValues struct {
	spi    FunctionValues
	vs     ValueSource
	exists func(doc int) bool
}

func newFuncValues(spi FunctionValues, vs ValueSource, exists func(doc int) bool) *funcValues {
	return &funcValues{spi, vs, exists}
}

func (v *funcValues) Exists(doc int) bool {
	return v.exists == nil || v.exists(doc)
}

func (v *funcValues) BytesVal(doc int, target []byte) ([]byte, bool) {
	if !v.spi.Exists(doc) {
		return target[:0], false
	}
	return append(target[:0], v.spi.StrVal(doc)...), true
}

func (v *funcValues) String(doc int) string {
	return fmt.Sprintf("%v=%v", v.vs.Description(), v.spi.StrVal(doc))
}

func (v *funcValues) Explain(doc int) search.Explanation {
	return search.NewExplanation(v.spi.FloatVal(doc), v.spi.String(doc))
}

/* Float range over FloatVal(). */
func (v *funcValues) RangeScorer(ctx *index.AtomicReaderContext, lower, upper []byte,
	includeLower, includeUpper bool) (search.Scorer, error) {

	in, err := floatRange(lower, upper, includeLower, includeUpper, parseFloat32)
	if err != nil {
		return nil, err
	}
	return NewValueSourceScorer(ctx, v.spi, func(doc int) bool {
		return v.spi.Exists(doc) && in(v.spi.FloatVal(doc))
	}), nil
}

/* Panics for accessors a view has no conversion for. */
func unsupported(vs ValueSource, accessor string) {
	panic(fmt.Sprintf("%v does not support %v", vs.Description(), accessor))
}
