package function

import (
	"cmp"

	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/search"
)

/*
Returns a SortField sorting by the DoubleVal() of source, ascending
unless reverse.
*/
func NewValueSourceSortField(source ValueSource, reverse bool) *search.SortField {
	return search.NewCustomSortField(source.Description(), &valueSourceComparatorSource{source}, reverse)
}

type valueSourceComparatorSource struct {
	source ValueSource
}

func (s *valueSourceComparatorSource) NewComparator(fieldname string, numHits, sortPos int, reversed bool) (search.FieldComparator, error) {
	return &valueSourceComparator{source: s.source, values: make([]float64, numHits)}, nil
}

func (s *valueSourceComparatorSource) String() string {
	return s.source.Description()
}

/*
Implement a FieldComparator that works off of the FunctionValues for a
ValueSource instead of the normal doc values.
*/
type valueSourceComparator struct {
	source  ValueSource
	values  []float64
	bottom  float64
	docVals FunctionValues
}

func (c *valueSourceComparator) Compare(slot1, slot2 int) int {
	return cmp.Compare(c.values[slot1], c.values[slot2])
}

func (c *valueSourceComparator) SetBottom(bottom int) {
	c.bottom = c.values[bottom]
}

func (c *valueSourceComparator) CompareBottom(doc int) (int, error) {
	return cmp.Compare(c.bottom, c.docVals.DoubleVal(doc)), nil
}

func (c *valueSourceComparator) Copy(slot, doc int) error {
	c.values[slot] = c.docVals.DoubleVal(doc)
	return nil
}

func (c *valueSourceComparator) SetNextReader(ctx *index.AtomicReaderContext) (err error) {
	c.docVals, err = c.source.Values(ctx)
	return err
}

func (c *valueSourceComparator) SetScorer(scorer search.Scorer) {}

func (c *valueSourceComparator) Value(slot int) interface{} {
	return c.values[slot]
}
