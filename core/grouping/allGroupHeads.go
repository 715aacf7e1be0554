package grouping

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/queries/function"
	"github.com/ironsweet/docvalues/core/search"
	"github.com/ironsweet/docvalues/core/util/mutable"
)

// search/grouping/function/FunctionAllGroupHeadsCollector.java

/*
The most relevant document of a group so far, with one single-slot
comparator per within-group sort field holding its sort values.
*/
type groupHead struct {
	groupValue  mutable.Value
	doc         int
	comparators []search.FieldComparator
}

func (h *groupHead) compare(compIDX, doc int) (int, error) {
	return h.comparators[compIDX].CompareBottom(doc)
}

func (h *groupHead) updateDocHead(doc, docBase int) error {
	for _, fc := range h.comparators {
		if err := fc.Copy(0, doc); err != nil {
			return err
		}
		fc.SetBottom(0)
	}
	h.doc = doc + docBase
	return nil
}

/*
FunctionAllGroupHeadsCollector collects the most relevant document of
every group, relevance being given by the within-group sort.
*/
type FunctionAllGroupHeadsCollector struct {
	lifecycle
	groupBy         function.ValueSource
	sortWithinGroup *search.Sort
	reversed        []int
	compIDXEnd      int
	groups          *mutable.Map[*groupHead]

	readerContext *index.AtomicReaderContext
	scorer        search.Scorer
	filler        function.ValueFiller
	mval          mutable.Value
}

func NewFunctionAllGroupHeadsCollector(groupBy function.ValueSource,
	sortWithinGroup *search.Sort) *FunctionAllGroupHeadsCollector {

	fields := sortWithinGroup.Fields()
	c := &FunctionAllGroupHeadsCollector{
		groupBy:         groupBy,
		sortWithinGroup: sortWithinGroup,
		reversed:        make([]int, len(fields)),
		compIDXEnd:      len(fields) - 1,
		groups:          mutable.NewMap[*groupHead](16),
	}
	for i, field := range fields {
		c.reversed[i] = 1
		if field.Reverse() {
			c.reversed[i] = -1
		}
	}
	return c
}

func (c *FunctionAllGroupHeadsCollector) newGroupHead(doc int) (*groupHead, error) {
	fields := c.sortWithinGroup.Fields()
	head := &groupHead{
		groupValue:  c.mval.Duplicate(),
		doc:         doc + c.readerContext.DocBase,
		comparators: make([]search.FieldComparator, len(fields)),
	}
	for i, field := range fields {
		fc, err := field.ComparatorOf(1, i)
		if err != nil {
			return nil, err
		}
		if err = fc.SetNextReader(c.readerContext); err != nil {
			return nil, err
		}
		if c.scorer != nil {
			fc.SetScorer(c.scorer)
		}
		if err = fc.Copy(0, doc); err != nil {
			return nil, err
		}
		fc.SetBottom(0)
		head.comparators[i] = fc
	}
	return head, nil
}

func (c *FunctionAllGroupHeadsCollector) Collect(doc int) error {
	if err := c.checkCollect(); err != nil {
		return err
	}
	c.filler.FillValue(doc)
	head, ok := c.groups.Get(c.mval)
	if !ok {
		head, err := c.newGroupHead(doc)
		if err != nil {
			return err
		}
		c.groups.Put(head.groupValue, head)
		return nil
	}

	// Check if the current doc is more relevant than the current head
	for compIDX := 0; ; compIDX++ {
		cmp, err := head.compare(compIDX, doc)
		if err != nil {
			return err
		}
		if cmp = c.reversed[compIDX] * cmp; cmp < 0 {
			// Definitely not competitive. So don't even bother to continue
			return nil
		} else if cmp > 0 {
			// Definitely competitive.
			break
		} else if compIDX == c.compIDXEnd {
			// Here cmp == 0. If we're at the last comparator, this doc is
			// not competitive, since docs are visited in doc id order.
			return nil
		}
	}
	return head.updateDocHead(doc, c.readerContext.DocBase)
}

func (c *FunctionAllGroupHeadsCollector) SetScorer(scorer search.Scorer) {
	c.scorer = scorer
	c.groups.Each(func(_ mutable.Value, head *groupHead) bool {
		for _, fc := range head.comparators {
			fc.SetScorer(scorer)
		}
		return true
	})
}

func (c *FunctionAllGroupHeadsCollector) SetNextReader(ctx *index.AtomicReaderContext) (err error) {
	if err = c.nextSegment(); err != nil {
		return err
	}
	c.readerContext = ctx
	values, err := c.groupBy.Values(ctx)
	if err != nil {
		return err
	}
	c.filler = values.ValueFiller()
	c.mval = c.filler.Value()

	c.groups.Each(func(_ mutable.Value, head *groupHead) bool {
		for _, fc := range head.comparators {
			if err = fc.SetNextReader(ctx); err != nil {
				return false
			}
		}
		return true
	})
	return err
}

func (c *FunctionAllGroupHeadsCollector) AcceptsDocsOutOfOrder() bool {
	return false
}

/* Returns the number of group heads found. */
func (c *FunctionAllGroupHeadsCollector) GroupHeadsSize() int {
	return c.groups.Len()
}

/*
Returns the group head documents as a bitset of maxDoc bits.
Extracting the heads ends collection.
*/
func (c *FunctionAllGroupHeadsCollector) RetrieveGroupHeads(maxDoc int) *bitset.BitSet {
	c.finish()
	bits := bitset.New(uint(maxDoc))
	c.groups.Each(func(_ mutable.Value, head *groupHead) bool {
		bits.Set(uint(head.doc))
		return true
	})
	return bits
}

/*
Returns the group head documents in ascending doc id order.
Extracting the heads ends collection.
*/
func (c *FunctionAllGroupHeadsCollector) RetrieveGroupHeadDocs() []int {
	c.finish()
	docHeads := make([]int, 0, c.groups.Len())
	c.groups.Each(func(_ mutable.Value, head *groupHead) bool {
		docHeads = append(docHeads, head.doc)
		return true
	})
	sort.Ints(docHeads)
	return docHeads
}
