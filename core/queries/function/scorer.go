package function

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/search"
	"github.com/ironsweet/docvalues/core/search/model"
	"github.com/pkg/errors"
)

// queries/function/ValueSourceScorer.java

/*
Scorer which returns the result of FunctionValues.FloatVal() as the
score for a document, visiting the documents of a segment for which
matches returns true.
*/
type ValueSourceScorer struct {
	maxDoc  int
	doc     int
	values  FunctionValues
	matches func(doc int) bool
}

/* Creates a scorer over ctx's segment. A nil matches accepts every document. */
func NewValueSourceScorer(ctx *index.AtomicReaderContext, values FunctionValues, matches func(doc int) bool) *ValueSourceScorer {
	if matches == nil {
		matches = func(int) bool { return true }
	}
	return &ValueSourceScorer{
		maxDoc:  ctx.Reader().MaxDoc(),
		doc:     -1,
		values:  values,
		matches: matches,
	}
}

func (s *ValueSourceScorer) Values() FunctionValues { return s.values }

func (s *ValueSourceScorer) DocId() int { return s.doc }

func (s *ValueSourceScorer) NextDoc() (int, error) {
	for {
		if s.doc++; s.doc >= s.maxDoc {
			s.doc = model.NO_MORE_DOCS
			return s.doc, nil
		}
		if s.matches(s.doc) {
			return s.doc, nil
		}
	}
}

func (s *ValueSourceScorer) Advance(target int) (int, error) {
	// also works fine when target==NO_MORE_DOCS
	s.doc = target - 1
	return s.NextDoc()
}

func (s *ValueSourceScorer) Cost() int64 { return int64(s.maxDoc) }

func (s *ValueSourceScorer) Score() (float32, error) {
	return s.values.FloatVal(s.doc), nil
}

func parseFloat32(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}

func parseFloat64(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func parseInt32(s string) (int32, error) {
	i, err := strconv.ParseInt(s, 10, 32)
	return int32(i), err
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseBound[T int32 | int64 | float32 | float64](bound []byte, open T, parse func(string) (T, error)) (T, error) {
	if bound == nil {
		return open, nil
	}
	v, err := parse(string(bound))
	if err != nil {
		return 0, errors.Wrapf(err, "illegal range bound %q", bound)
	}
	return v, nil
}

/*
Integer range test. Exclusive bounds are turned inclusive by moving the
endpoints inward.
*/
func intRange[T int32 | int64](lower, upper []byte, includeLower, includeUpper bool,
	minValue, maxValue T, parse func(string) (T, error)) (func(T) bool, error) {

	l, err := parseBound(lower, minValue, parse)
	if err != nil {
		return nil, err
	}
	u, err := parseBound(upper, maxValue, parse)
	if err != nil {
		return nil, err
	}
	if !includeLower && l < maxValue {
		l++
	}
	if !includeUpper && u > minValue {
		u--
	}
	return func(v T) bool { return v >= l && v <= u }, nil
}

/* Floating point range test; open bounds are infinite. */
func floatRange[T float32 | float64](lower, upper []byte, includeLower, includeUpper bool,
	parse func(string) (T, error)) (func(T) bool, error) {

	l, err := parseBound(lower, T(math.Inf(-1)), parse)
	if err != nil {
		return nil, err
	}
	u, err := parseBound(upper, T(math.Inf(1)), parse)
	if err != nil {
		return nil, err
	}
	switch {
	case includeLower && includeUpper:
		return func(v T) bool { return v >= l && v <= u }, nil
	case includeLower:
		return func(v T) bool { return v >= l && v < u }, nil
	case includeUpper:
		return func(v T) bool { return v > l && v <= u }, nil
	}
	return func(v T) bool { return v > l && v < u }, nil
}

// queries/function/FunctionQuery.java

/*
Weight matching all documents, scoring each by the value of a
ValueSource multiplied by a boost.
*/
type FunctionWeight struct {
	source ValueSource
	boost  float32
}

func NewFunctionWeight(source ValueSource, boost float32) *FunctionWeight {
	return &FunctionWeight{source, boost}
}

func (w *FunctionWeight) Scorer(ctx *index.AtomicReaderContext) (search.Scorer, error) {
	values, err := w.source.Values(ctx)
	if err != nil {
		return nil, err
	}
	return &allScorer{NewValueSourceScorer(ctx, values, nil), w.boost}, nil
}

func (w *FunctionWeight) ScoresDocsOutOfOrder() bool { return false }

/* Explains the score of doc, relative to ctx's segment. */
func (w *FunctionWeight) Explain(ctx *index.AtomicReaderContext, doc int) (search.Explanation, error) {
	values, err := w.source.Values(ctx)
	if err != nil {
		return nil, err
	}
	exp := search.NewMatchExplanation(true, clampScore(w.boost*values.FloatVal(doc)),
		fmt.Sprintf("FunctionQuery(%v), product of:", w.source.Description()))
	exp.AddDetail(values.Explain(doc))
	exp.AddDetail(search.NewExplanation(w.boost, "boost"))
	return exp, nil
}

func (w *FunctionWeight) String() string {
	return fmt.Sprintf("FunctionQuery(%v)^%v", w.source.Description(), w.boost)
}

type allScorer struct {
	*ValueSourceScorer
	boost float32
}

func (s *allScorer) Score() (float32, error) {
	return clampScore(s.boost * s.values.FloatVal(s.doc)), nil
}

// Collectors reject -Inf scores
func clampScore(score float32) float32 {
	if score > float32(math.Inf(-1)) {
		return score
	}
	return -math.MaxFloat32
}

// queries/function/ValueSourceRangeFilter.java

/*
Weight matching the documents whose value of a ValueSource falls in a
range, all with the same score. A nil bound is open.
*/
type FunctionRangeWeight struct {
	source                     ValueSource
	lower, upper               []byte
	includeLower, includeUpper bool
}

func NewFunctionRangeWeight(source ValueSource, lower, upper []byte, includeLower, includeUpper bool) *FunctionRangeWeight {
	return &FunctionRangeWeight{source, lower, upper, includeLower, includeUpper}
}

func (w *FunctionRangeWeight) Scorer(ctx *index.AtomicReaderContext) (search.Scorer, error) {
	values, err := w.source.Values(ctx)
	if err != nil {
		return nil, err
	}
	scorer, err := values.RangeScorer(ctx, w.lower, w.upper, w.includeLower, w.includeUpper)
	if err != nil {
		return nil, err
	}
	return constantScorer{scorer}, nil
}

func (w *FunctionRangeWeight) ScoresDocsOutOfOrder() bool { return false }

func (w *FunctionRangeWeight) String() string {
	var buf []byte
	buf = append(buf, "frange("...)
	buf = append(buf, w.source.Description()...)
	buf = append(buf, "):"...)
	if w.includeLower {
		buf = append(buf, '[')
	} else {
		buf = append(buf, '{')
	}
	if w.lower == nil {
		buf = append(buf, '*')
	} else {
		buf = append(buf, w.lower...)
	}
	buf = append(buf, " TO "...)
	if w.upper == nil {
		buf = append(buf, '*')
	} else {
		buf = append(buf, w.upper...)
	}
	if w.includeUpper {
		buf = append(buf, ']')
	} else {
		buf = append(buf, '}')
	}
	return string(buf)
}

type constantScorer struct {
	search.Scorer
}

func (s constantScorer) Score() (float32, error) { return 1, nil }
