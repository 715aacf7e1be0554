package grouping

import (
	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/queries/function"
	"github.com/ironsweet/docvalues/core/search"
	"github.com/ironsweet/docvalues/core/util/mutable"
)

// search/grouping/function/FunctionDistinctValuesCollector.java

/* The distinct count values seen in one group. */
type GroupCount struct {
	GroupValue   mutable.Value
	uniqueValues *mutable.Map[struct{}]
}

/* Returns the distinct values, ascending by mutable.CompareTo. */
func (g *GroupCount) UniqueValues() []mutable.Value {
	return sortedKeys(g.uniqueValues)
}

func (g *GroupCount) Count() int { return g.uniqueValues.Len() }

/*
FunctionDistinctValuesCollector collects, for each of the given
groups, the distinct values of countSource among its documents.
*/
type FunctionDistinctValuesCollector struct {
	lifecycle
	groupSource     function.ValueSource
	countSource     function.ValueSource
	groups          []*GroupCount
	generatedGroups *mutable.Map[*GroupCount]

	groupFiller function.ValueFiller
	groupMval   mutable.Value
	countFiller function.ValueFiller
	countMval   mutable.Value
}

func NewFunctionDistinctValuesCollector(groupSource, countSource function.ValueSource,
	groups []*SearchGroup) *FunctionDistinctValuesCollector {

	c := &FunctionDistinctValuesCollector{
		groupSource:     groupSource,
		countSource:     countSource,
		generatedGroups: mutable.NewMap[*GroupCount](len(groups)),
	}
	for _, group := range groups {
		gc := &GroupCount{group.GroupValue, mutable.NewMap[struct{}](16)}
		c.groups = append(c.groups, gc)
		c.generatedGroups.Put(group.GroupValue, gc)
	}
	return c
}

func (c *FunctionDistinctValuesCollector) Collect(doc int) error {
	if err := c.checkCollect(); err != nil {
		return err
	}
	c.groupFiller.FillValue(doc)
	if gc, ok := c.generatedGroups.Get(c.groupMval); ok {
		c.countFiller.FillValue(doc)
		if _, seen := gc.uniqueValues.Get(c.countMval); !seen {
			gc.uniqueValues.Put(c.countMval.Duplicate(), struct{}{})
		}
	}
	return nil
}

func (c *FunctionDistinctValuesCollector) SetNextReader(ctx *index.AtomicReaderContext) (err error) {
	if err = c.nextSegment(); err != nil {
		return err
	}
	values, err := c.groupSource.Values(ctx)
	if err != nil {
		return err
	}
	c.groupFiller = values.ValueFiller()
	c.groupMval = c.groupFiller.Value()
	if values, err = c.countSource.Values(ctx); err != nil {
		return err
	}
	c.countFiller = values.ValueFiller()
	c.countMval = c.countFiller.Value()
	return nil
}

func (c *FunctionDistinctValuesCollector) SetScorer(scorer search.Scorer) {}

func (c *FunctionDistinctValuesCollector) AcceptsDocsOutOfOrder() bool {
	return true
}

/*
Returns the groups in the order they were given, each with its
distinct values. Extracting the groups ends collection.
*/
func (c *FunctionDistinctValuesCollector) Groups() []*GroupCount {
	c.finish()
	return c.groups
}
