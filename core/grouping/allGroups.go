package grouping

import (
	"sort"

	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/queries/function"
	"github.com/ironsweet/docvalues/core/search"
	"github.com/ironsweet/docvalues/core/util/mutable"
)

// search/grouping/function/FunctionAllGroupsCollector.java

/*
FunctionAllGroupsCollector collects every distinct group value. Used
along with the first pass to compute the total group count.
*/
type FunctionAllGroupsCollector struct {
	lifecycle
	groupBy function.ValueSource
	groups  *mutable.Map[struct{}]

	filler function.ValueFiller
	mval   mutable.Value
}

func NewFunctionAllGroupsCollector(groupBy function.ValueSource) *FunctionAllGroupsCollector {
	return &FunctionAllGroupsCollector{
		groupBy: groupBy,
		groups:  mutable.NewMap[struct{}](128),
	}
}

func (c *FunctionAllGroupsCollector) Collect(doc int) error {
	if err := c.checkCollect(); err != nil {
		return err
	}
	c.filler.FillValue(doc)
	if _, ok := c.groups.Get(c.mval); !ok {
		c.groups.Put(c.mval.Duplicate(), struct{}{})
	}
	return nil
}

func (c *FunctionAllGroupsCollector) SetNextReader(ctx *index.AtomicReaderContext) (err error) {
	if err = c.nextSegment(); err != nil {
		return err
	}
	values, err := c.groupBy.Values(ctx)
	if err != nil {
		return err
	}
	c.filler = values.ValueFiller()
	c.mval = c.filler.Value()
	return nil
}

func (c *FunctionAllGroupsCollector) SetScorer(scorer search.Scorer) {}

func (c *FunctionAllGroupsCollector) AcceptsDocsOutOfOrder() bool {
	return true
}

/* Returns the total number of groups seen. */
func (c *FunctionAllGroupsCollector) GroupCount() int {
	return c.groups.Len()
}

/*
Returns the group values, ascending by mutable.CompareTo. Extracting
the groups ends collection.
*/
func (c *FunctionAllGroupsCollector) Groups() []mutable.Value {
	c.finish()
	return sortedKeys(c.groups)
}

func sortedKeys[V any](m *mutable.Map[V]) []mutable.Value {
	keys := make([]mutable.Value, 0, m.Len())
	m.Each(func(key mutable.Value, _ V) bool {
		keys = append(keys, key)
		return true
	})
	sort.Slice(keys, func(i, j int) bool {
		return mutable.CompareTo(keys[i], keys[j]) < 0
	})
	return keys
}
