package grouping

import (
	"math"

	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/queries/function"
	"github.com/ironsweet/docvalues/core/search"
	"github.com/ironsweet/docvalues/core/util/mutable"
	"github.com/pkg/errors"
)

// search/grouping/AbstractSecondPassGroupingCollector.java

type searchGroupDocs struct {
	groupValue mutable.Value
	collector  search.TopDocsCollector
}

/*
FunctionSecondPassGroupingCollector is the second pass of a two-pass
grouping search: given the top groups of the first pass, it collects
the top documents of each of them by the within-group sort.
*/
type FunctionSecondPassGroupingCollector struct {
	lifecycle
	groupBy         function.ValueSource
	groups          []*SearchGroup
	groupSort       *search.Sort
	withinGroupSort *search.Sort
	maxDocsPerGroup int
	groupMap        *mutable.Map[*searchGroupDocs]

	totalHitCount        int
	totalGroupedHitCount int

	filler function.ValueFiller
	mval   mutable.Value
}

/*
Creates the second pass collector for groups. A nil withinGroupSort
sorts the documents of each group by descending score.
*/
func NewFunctionSecondPassGroupingCollector(groupBy function.ValueSource, groups []*SearchGroup,
	groupSort, withinGroupSort *search.Sort, maxDocsPerGroup int,
	getScores, getMaxScores bool) (*FunctionSecondPassGroupingCollector, error) {

	if len(groups) == 0 {
		return nil, errors.New("no groups to collect (groups is empty)")
	}
	c := &FunctionSecondPassGroupingCollector{
		groupBy:         groupBy,
		groups:          groups,
		groupSort:       groupSort,
		withinGroupSort: withinGroupSort,
		maxDocsPerGroup: maxDocsPerGroup,
		groupMap:        mutable.NewMap[*searchGroupDocs](len(groups)),
	}
	for _, group := range groups {
		var collector search.TopDocsCollector
		if withinGroupSort == nil {
			// Sort by score
			collector = search.NewTopScoreDocCollector(maxDocsPerGroup, true)
		} else {
			// Sort by fields
			var err error
			if collector, err = search.NewTopFieldCollector(withinGroupSort,
				maxDocsPerGroup, getScores, getMaxScores); err != nil {
				return nil, err
			}
		}
		c.groupMap.Put(group.GroupValue, &searchGroupDocs{group.GroupValue, collector})
	}
	return c, nil
}

func (c *FunctionSecondPassGroupingCollector) SetScorer(scorer search.Scorer) {
	c.groupMap.Each(func(_ mutable.Value, group *searchGroupDocs) bool {
		group.collector.SetScorer(scorer)
		return true
	})
}

func (c *FunctionSecondPassGroupingCollector) Collect(doc int) error {
	if err := c.checkCollect(); err != nil {
		return err
	}
	c.totalHitCount++
	c.filler.FillValue(doc)
	if group, ok := c.groupMap.Get(c.mval); ok {
		c.totalGroupedHitCount++
		return group.collector.Collect(doc)
	}
	return nil
}

func (c *FunctionSecondPassGroupingCollector) SetNextReader(ctx *index.AtomicReaderContext) (err error) {
	if err = c.nextSegment(); err != nil {
		return err
	}
	c.groupMap.Each(func(_ mutable.Value, group *searchGroupDocs) bool {
		err = group.collector.SetNextReader(ctx)
		return err == nil
	})
	if err != nil {
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

func (c *FunctionSecondPassGroupingCollector) AcceptsDocsOutOfOrder() bool {
	return false
}

/*
Returns the groups in first pass order, each with its top documents
starting at withinGroupOffset. Extracting the groups ends collection.
*/
func (c *FunctionSecondPassGroupingCollector) GetTopGroups(withinGroupOffset int) *TopGroups {
	c.finish()
	groupDocsResult := make([]*GroupDocs, 0, len(c.groups))
	maxScore := math.NaN()
	for _, group := range c.groups {
		docs, ok := c.groupMap.Get(group.GroupValue)
		assert2(ok, "group %v was not collected", group.GroupValue)
		topDocs := docs.collector.TopDocsRange(withinGroupOffset, c.maxDocsPerGroup)
		groupDocsResult = append(groupDocsResult, &GroupDocs{
			GroupValue:      docs.groupValue,
			MaxScore:        topDocs.MaxScore,
			Score:           math.NaN(),
			ScoreDocs:       topDocs.ScoreDocs,
			FieldDocs:       topDocs.FieldDocs,
			TotalHits:       topDocs.TotalHits,
			GroupSortValues: group.SortValues,
		})
		if !math.IsNaN(topDocs.MaxScore) && (math.IsNaN(maxScore) || topDocs.MaxScore > maxScore) {
			maxScore = topDocs.MaxScore
		}
	}
	ans := &TopGroups{
		TotalHitCount:        c.totalHitCount,
		TotalGroupedHitCount: c.totalGroupedHitCount,
		TotalGroupCount:      -1,
		Groups:               groupDocsResult,
		GroupSort:            c.groupSort.Fields(),
		MaxScore:             maxScore,
	}
	if c.withinGroupSort != nil {
		ans.WithinGroupSort = c.withinGroupSort.Fields()
	}
	return ans
}
