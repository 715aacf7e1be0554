package function

import (
	"bytes"
	"math"
	"unicode/utf16"

	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/search"
	"github.com/ironsweet/docvalues/core/util"
	"github.com/ironsweet/docvalues/core/util/mutable"
)

// queries/function/docvalues/DocTermsIndexDocValues.java

/*
Internal class, subject to change. Serves as base class for
FunctionValues based on SortedDocValues: values are read through their
ordinal and range scans binary search the dictionary.
*/
type DocTermsIndexDocValues struct {
	*funcValues
	termsIndex spi.SortedDocValues
	spareChars []uint16
}

func NewDocTermsIndexDocValues(vs ValueSource, termsIndex spi.SortedDocValues) *DocTermsIndexDocValues {
	ans := &DocTermsIndexDocValues{termsIndex: termsIndex}
	ans.funcValues = newFuncValues(ans, vs, func(doc int) bool {
		return termsIndex.Ord(doc) != -1
	})
	return ans
}

func (v *DocTermsIndexDocValues) OrdVal(doc int) int { return v.termsIndex.Ord(doc) }
func (v *DocTermsIndexDocValues) NumOrd() int        { return v.termsIndex.ValueCount() }

func (v *DocTermsIndexDocValues) BytesVal(doc int, target []byte) ([]byte, bool) {
	ord := v.termsIndex.Ord(doc)
	if ord == -1 {
		return target[:0], false
	}
	return append(target[:0], v.termsIndex.LookupOrd(ord)...), true
}

/*
Returns doc's value as UTF-16 code units, invalid UTF-8 replaced by
U+FFFD, or nil when it has none. The result is reused by the next call.
*/
func (v *DocTermsIndexDocValues) UTF16Val(doc int) []uint16 {
	ord := v.termsIndex.Ord(doc)
	if ord == -1 {
		return nil
	}
	v.spareChars = util.UTF8ToUTF16(v.termsIndex.LookupOrd(ord), v.spareChars[:0])
	return v.spareChars
}

func (v *DocTermsIndexDocValues) StrVal(doc int) string {
	chars := v.UTF16Val(doc)
	if chars == nil {
		return ""
	}
	return string(utf16.Decode(chars))
}

func (v *DocTermsIndexDocValues) BoolVal(doc int) bool { return v.Exists(doc) }

func (v *DocTermsIndexDocValues) ObjectVal(doc int) interface{} {
	if !v.Exists(doc) {
		return nil
	}
	return v.StrVal(doc)
}

func (v *DocTermsIndexDocValues) ByteVal(doc int) int8 {
	unsupported(v.vs, "ByteVal")
	return 0
}

func (v *DocTermsIndexDocValues) ShortVal(doc int) int16 {
	unsupported(v.vs, "ShortVal")
	return 0
}

func (v *DocTermsIndexDocValues) IntVal(doc int) int32 {
	unsupported(v.vs, "IntVal")
	return 0
}

func (v *DocTermsIndexDocValues) LongVal(doc int) int64 {
	unsupported(v.vs, "LongVal")
	return 0
}

func (v *DocTermsIndexDocValues) FloatVal(doc int) float32 {
	unsupported(v.vs, "FloatVal")
	return 0
}

func (v *DocTermsIndexDocValues) DoubleVal(doc int) float64 {
	unsupported(v.vs, "DoubleVal")
	return 0
}

func (v *DocTermsIndexDocValues) Explain(doc int) search.Explanation {
	return explainPresence(v, doc)
}

/*
Matches the documents whose ordinal falls in the ordinal range of
[lower, upper]. Bounds missing from the dictionary are resolved to
their insertion point.
*/
func (v *DocTermsIndexDocValues) RangeScorer(ctx *index.AtomicReaderContext, lower, upper []byte,
	includeLower, includeUpper bool) (search.Scorer, error) {

	ll, uu := v.OrdRange(lower, upper, includeLower, includeUpper)
	return NewValueSourceScorer(ctx, v, func(doc int) bool {
		ord := v.termsIndex.Ord(doc)
		return ord >= ll && ord <= uu
	}), nil
}

/*
Resolves byte string bounds to an inclusive ordinal range. The range is
empty, lower > upper, when no dictionary entry falls between the bounds.
*/
func (v *DocTermsIndexDocValues) OrdRange(lower, upper []byte, includeLower, includeUpper bool) (ll, uu int) {
	// documents without a value, ord -1, never match
	ll = 0
	if lower != nil {
		if ll = v.termsIndex.LookupTerm(lower); ll < 0 {
			ll = -ll - 1
		} else if !includeLower {
			ll++
		}
	}
	uu = math.MaxInt32
	if upper != nil {
		if uu = v.termsIndex.LookupTerm(upper); uu < 0 {
			uu = -uu - 2
		} else if !includeUpper {
			uu--
		}
	}
	return
}

func (v *DocTermsIndexDocValues) ValueFiller() ValueFiller {
	mval := new(mutable.ValueStr)
	return newValueFiller(mval, func(doc int) {
		ord := v.termsIndex.Ord(doc)
		if ord == -1 {
			mval.Value = mval.Value[:0]
			mval.Missing = true
			return
		}
		mval.Value = append(mval.Value[:0], v.termsIndex.LookupOrd(ord)...)
		mval.Missing = false
	})
}

/* Explains a string value by its presence: 1 when doc has one. */
func explainPresence(v FunctionValues, doc int) search.Explanation {
	var value float32
	if v.Exists(doc) {
		value = 1
	}
	return search.NewExplanation(value, v.String(doc))
}

func inTermRange(term, lower, upper []byte, includeLower, includeUpper bool) bool {
	if lower != nil {
		if c := bytes.Compare(term, lower); c < 0 || c == 0 && !includeLower {
			return false
		}
	}
	if upper != nil {
		if c := bytes.Compare(term, upper); c > 0 || c == 0 && !includeUpper {
			return false
		}
	}
	return true
}
