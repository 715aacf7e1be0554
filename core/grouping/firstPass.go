package grouping

import (
	"sort"

	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/queries/function"
	"github.com/ironsweet/docvalues/core/search"
	"github.com/ironsweet/docvalues/core/util/mutable"
	"github.com/pkg/errors"
)

// search/grouping/AbstractFirstPassGroupingCollector.java

type collectedSearchGroup struct {
	SearchGroup
	topDoc         int
	comparatorSlot int
}

/*
FunctionFirstPassGroupingCollector is the first pass of a two-pass
grouping search: it collects the top N groups by the group sort, the
value of a group being the one of its most relevant document. Group
keys are produced by a ValueSource.
*/
type FunctionFirstPassGroupingCollector struct {
	lifecycle
	groupBy     function.ValueSource
	groupSort   []*search.SortField
	comparators []search.FieldComparator
	reversed    []int
	topNGroups  int
	groupMap    *mutable.Map[*collectedSearchGroup]
	compIDXEnd  int

	// sorted by the group sort once topNGroups groups were seen, nil before
	orderedGroups []*collectedSearchGroup
	docBase       int
	spareSlot     int

	filler function.ValueFiller
	mval   mutable.Value
}

/*
Creates the first pass collector. groupSort orders the groups against
each other (use search.RELEVANCE for descending score), topNGroups is
how many groups to keep.
*/
func NewFunctionFirstPassGroupingCollector(groupBy function.ValueSource,
	groupSort *search.Sort, topNGroups int) (*FunctionFirstPassGroupingCollector, error) {

	if topNGroups < 1 {
		return nil, errors.Errorf("topNGroups must be >= 1 (got %v)", topNGroups)
	}
	fields := groupSort.Fields()
	c := &FunctionFirstPassGroupingCollector{
		groupBy:     groupBy,
		groupSort:   fields,
		comparators: make([]search.FieldComparator, len(fields)),
		reversed:    make([]int, len(fields)),
		topNGroups:  topNGroups,
		groupMap:    mutable.NewMap[*collectedSearchGroup](topNGroups),
		compIDXEnd:  len(fields) - 1,
		spareSlot:   topNGroups,
	}
	var err error
	for i, field := range fields {
		// use topNGroups + 1 so we have a spare slot to use for comparing
		// (tracked by c.spareSlot)
		if c.comparators[i], err = field.ComparatorOf(topNGroups+1, i); err != nil {
			return nil, err
		}
		c.reversed[i] = 1
		if field.Reverse() {
			c.reversed[i] = -1
		}
	}
	return c, nil
}

/*
Returns the top groups, starting from offset, or nil if no groups
were collected or offset is beyond the collected groups. If fillFields
is true, the SortValues of each group are filled in. Extracting the
groups ends collection.
*/
func (c *FunctionFirstPassGroupingCollector) GetTopGroups(offset int, fillFields bool) []*SearchGroup {
	c.finish()
	if c.groupMap.Len() <= offset {
		return nil
	}
	if c.orderedGroups == nil {
		c.buildSortedSet()
	}
	var result []*SearchGroup
	for i, group := range c.orderedGroups {
		if i < offset {
			continue
		}
		sg := &SearchGroup{GroupValue: group.GroupValue}
		if fillFields {
			sg.SortValues = make([]interface{}, len(c.comparators))
			for sortFieldIDX, fc := range c.comparators {
				sg.SortValues[sortFieldIDX] = fc.Value(group.comparatorSlot)
			}
		}
		result = append(result, sg)
	}
	log.Debugf("First pass kept %v groups, returning %v from offset %v",
		len(c.orderedGroups), len(result), offset)
	return result
}

func (c *FunctionFirstPassGroupingCollector) SetScorer(scorer search.Scorer) {
	for _, fc := range c.comparators {
		fc.SetScorer(scorer)
	}
}

func (c *FunctionFirstPassGroupingCollector) Collect(doc int) (err error) {
	if err = c.checkCollect(); err != nil {
		return err
	}

	// If orderedGroups != nil we already have collected N groups and can
	// short circuit by comparing this document to the bottom group,
	// without having to find what group this document belongs to.
	//
	// Even if this document belongs to a group in the top N, we'll know
	// that we don't have to update that group.
	//
	// Downside: if the number of unique groups is very low, this is
	// wasted effort as we will most likely be updating an existing group.
	if c.orderedGroups != nil {
		for compIDX := 0; ; compIDX++ {
			cmp, err := c.comparators[compIDX].CompareBottom(doc)
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
				// not competitive, since docs are visited in doc id order,
				// which means this doc cannot compete with any other document
				// in the queue.
				return nil
			}
		}
	}

	// Docs without a group value fall into the group of the missing value.
	c.filler.FillValue(doc)
	group, ok := c.groupMap.Get(c.mval)
	if !ok {
		// First time we are seeing this group, or, we've seen it before
		// but it fell out of the top N and is now coming back
		if c.groupMap.Len() < c.topNGroups {
			// Still in startup transient: we have not seen enough unique
			// groups to start pruning them; just keep collecting them.

			// Add a new collectedSearchGroup:
			sg := &collectedSearchGroup{
				SearchGroup:    SearchGroup{GroupValue: c.mval.Duplicate()},
				topDoc:         c.docBase + doc,
				comparatorSlot: c.groupMap.Len(),
			}
			for _, fc := range c.comparators {
				if err = fc.Copy(sg.comparatorSlot, doc); err != nil {
					return err
				}
			}
			c.groupMap.Put(sg.GroupValue, sg)

			if c.groupMap.Len() == c.topNGroups {
				// End of startup transient: we now have max number of groups;
				// from here on we will drop bottom group when we insert new
				// one:
				c.buildSortedSet()
			}
			return nil
		}

		// We already tested that the document is competitive, so replace
		// the bottom group with this new group.
		bottomGroup := c.pollLast()
		assert2(bottomGroup != nil, "no bottom group to replace")

		// Remove before updating the group since lookup is done via
		// comparators.
		c.groupMap.Remove(bottomGroup.GroupValue)

		// reuse the removed collectedSearchGroup
		bottomGroup.GroupValue.Copy(c.mval)
		bottomGroup.topDoc = c.docBase + doc

		for _, fc := range c.comparators {
			if err = fc.Copy(bottomGroup.comparatorSlot, doc); err != nil {
				return err
			}
		}

		c.groupMap.Put(bottomGroup.GroupValue, bottomGroup)
		c.addOrdered(bottomGroup)
		assert2(len(c.orderedGroups) == c.topNGroups, "ordered groups out of sync")

		lastComparatorSlot := c.orderedGroups[len(c.orderedGroups)-1].comparatorSlot
		for _, fc := range c.comparators {
			fc.SetBottom(lastComparatorSlot)
		}
		return nil
	}

	// Update existing group:
	for compIDX := 0; ; compIDX++ {
		fc := c.comparators[compIDX]
		if err = fc.Copy(c.spareSlot, doc); err != nil {
			return err
		}
		if cmp := c.reversed[compIDX] * fc.Compare(group.comparatorSlot, c.spareSlot); cmp < 0 {
			// Definitely not competitive.
			return nil
		} else if cmp > 0 {
			// Definitely competitive; set remaining comparators:
			for compIDX2 := compIDX + 1; compIDX2 < len(c.comparators); compIDX2++ {
				if err = c.comparators[compIDX2].Copy(c.spareSlot, doc); err != nil {
					return err
				}
			}
			break
		} else if compIDX == c.compIDXEnd {
			// Here cmp == 0. If we're at the last comparator, this doc is
			// not competitive, since docs are visited in doc id order, which
			// means this doc cannot compete with any other document in the
			// queue.
			return nil
		}
	}

	// Remove before updating the group since lookup is done via
	// comparators.
	var prevLast *collectedSearchGroup
	if c.orderedGroups != nil {
		prevLast = c.orderedGroups[len(c.orderedGroups)-1]
		c.removeOrdered(group)
		assert2(len(c.orderedGroups) == c.topNGroups-1, "ordered groups out of sync")
	}

	group.topDoc = c.docBase + doc

	// Swap slots
	group.comparatorSlot, c.spareSlot = c.spareSlot, group.comparatorSlot

	// Re-add the changed group
	if c.orderedGroups != nil {
		c.addOrdered(group)
		assert2(len(c.orderedGroups) == c.topNGroups, "ordered groups out of sync")
		newLast := c.orderedGroups[len(c.orderedGroups)-1]
		// If we changed the value of the last group, or changed which group
		// was last, then update bottom:
		if group == newLast || prevLast != newLast {
			for _, fc := range c.comparators {
				fc.SetBottom(newLast.comparatorSlot)
			}
		}
	}
	return nil
}

func (c *FunctionFirstPassGroupingCollector) compareGroups(o1, o2 *collectedSearchGroup) int {
	for compIDX, fc := range c.comparators {
		if cmp := c.reversed[compIDX] * fc.Compare(o1.comparatorSlot, o2.comparatorSlot); cmp != 0 {
			return cmp
		}
	}
	return o1.topDoc - o2.topDoc
}

func (c *FunctionFirstPassGroupingCollector) buildSortedSet() {
	c.orderedGroups = make([]*collectedSearchGroup, 0, c.topNGroups)
	c.groupMap.Each(func(_ mutable.Value, group *collectedSearchGroup) bool {
		c.orderedGroups = append(c.orderedGroups, group)
		return true
	})
	sort.Slice(c.orderedGroups, func(i, j int) bool {
		return c.compareGroups(c.orderedGroups[i], c.orderedGroups[j]) < 0
	})
	assert2(len(c.orderedGroups) > 0, "no group to order")

	bottomSlot := c.orderedGroups[len(c.orderedGroups)-1].comparatorSlot
	for _, fc := range c.comparators {
		fc.SetBottom(bottomSlot)
	}
}

func (c *FunctionFirstPassGroupingCollector) searchOrdered(group *collectedSearchGroup) int {
	return sort.Search(len(c.orderedGroups), func(i int) bool {
		return c.compareGroups(c.orderedGroups[i], group) >= 0
	})
}

func (c *FunctionFirstPassGroupingCollector) addOrdered(group *collectedSearchGroup) {
	i := c.searchOrdered(group)
	c.orderedGroups = append(c.orderedGroups, nil)
	copy(c.orderedGroups[i+1:], c.orderedGroups[i:])
	c.orderedGroups[i] = group
}

func (c *FunctionFirstPassGroupingCollector) removeOrdered(group *collectedSearchGroup) {
	i := c.searchOrdered(group)
	assert2(i < len(c.orderedGroups) && c.orderedGroups[i] == group, "group %v is not ordered", group)
	c.orderedGroups = append(c.orderedGroups[:i], c.orderedGroups[i+1:]...)
}

func (c *FunctionFirstPassGroupingCollector) pollLast() *collectedSearchGroup {
	n := len(c.orderedGroups)
	if n == 0 {
		return nil
	}
	last := c.orderedGroups[n-1]
	c.orderedGroups = c.orderedGroups[:n-1]
	return last
}

func (c *FunctionFirstPassGroupingCollector) AcceptsDocsOutOfOrder() bool {
	return false
}

func (c *FunctionFirstPassGroupingCollector) SetNextReader(ctx *index.AtomicReaderContext) (err error) {
	if err = c.nextSegment(); err != nil {
		return err
	}
	c.docBase = ctx.DocBase
	for _, fc := range c.comparators {
		if err = fc.SetNextReader(ctx); err != nil {
			return err
		}
	}
	values, err := c.groupBy.Values(ctx)
	if err != nil {
		return err
	}
	c.filler = values.ValueFiller()
	c.mval = c.filler.Value()
	return nil
}
