package grouping

import (
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/ironsweet/docvalues/core/queries/function"
	"github.com/ironsweet/docvalues/core/search"
	"github.com/ironsweet/docvalues/core/util/mutable"
)

// search/grouping/GroupingSearch.java

/*
GroupingSearch runs a two-pass grouping search by a ValueSource: the
first pass finds the top groups, the second the top documents of each.
Optionally all groups and all group heads are collected along with the
first pass.
*/
type GroupingSearch struct {
	groupFunction function.ValueSource

	groupSort       *search.Sort
	sortWithinGroup *search.Sort

	groupDocsOffset int
	groupDocsLimit  int
	fillSortFields  bool
	includeScores   bool
	includeMaxScore bool

	allGroups     bool
	allGroupHeads bool

	matchingGroups     []mutable.Value
	matchingGroupHeads *bitset.BitSet
}

func NewGroupingSearch(groupFunction function.ValueSource) *GroupingSearch {
	return &GroupingSearch{
		groupFunction:   groupFunction,
		groupSort:       search.RELEVANCE,
		sortWithinGroup: search.RELEVANCE,
		groupDocsLimit:  1,
		includeScores:   true,
		includeMaxScore: true,
	}
}

// Specifies how groups are sorted. Defaults to search.RELEVANCE.
func (gs *GroupingSearch) SetGroupSort(groupSort *search.Sort) *GroupingSearch {
	gs.groupSort = groupSort
	return gs
}

// Specified how docs are sorted within each group. Defaults to search.RELEVANCE.
func (gs *GroupingSearch) SetSortWithinGroup(sortWithinGroup *search.Sort) *GroupingSearch {
	gs.sortWithinGroup = sortWithinGroup
	return gs
}

// Specifies the offset for documents inside a group.
func (gs *GroupingSearch) SetGroupDocsOffset(groupDocsOffset int) *GroupingSearch {
	gs.groupDocsOffset = groupDocsOffset
	return gs
}

// Specifies the number of documents to return inside a group. Defaults to 1.
func (gs *GroupingSearch) SetGroupDocsLimit(groupDocsLimit int) *GroupingSearch {
	gs.groupDocsLimit = groupDocsLimit
	return gs
}

// Whether to also fill the sort values of each returned group.
func (gs *GroupingSearch) SetFillSortFields(fillSortFields bool) *GroupingSearch {
	gs.fillSortFields = fillSortFields
	return gs
}

// Whether to include the scores per doc inside a group.
func (gs *GroupingSearch) SetIncludeScores(includeScores bool) *GroupingSearch {
	gs.includeScores = includeScores
	return gs
}

// Whether to include the score of the most relevant document per group.
func (gs *GroupingSearch) SetIncludeMaxScore(includeMaxScore bool) *GroupingSearch {
	gs.includeMaxScore = includeMaxScore
	return gs
}

/*
Whether to also collect all groups matching the query. The total group
count is then set on the results, and the groups are available from
MatchingGroups().
*/
func (gs *GroupingSearch) SetAllGroups(allGroups bool) *GroupingSearch {
	gs.allGroups = allGroups
	return gs
}

/*
Whether to also compute the most relevant document of every group
matching the query, available from MatchingGroupHeads().
*/
func (gs *GroupingSearch) SetAllGroupHeads(allGroupHeads bool) *GroupingSearch {
	gs.allGroupHeads = allGroupHeads
	return gs
}

// The groups of the last search, if SetAllGroups(true) was set.
func (gs *GroupingSearch) MatchingGroups() []mutable.Value {
	return gs.matchingGroups
}

// The group heads of the last search, if SetAllGroupHeads(true) was set.
func (gs *GroupingSearch) MatchingGroupHeads() *bitset.BitSet {
	return gs.matchingGroupHeads
}

/*
Executes the grouped search of w, returning the groups in
[groupOffset, groupOffset+groupLimit) by the group sort.
*/
func (gs *GroupingSearch) Search(searcher *search.IndexSearcher, w search.Weight,
	groupOffset, groupLimit int) (*TopGroups, error) {

	topN := groupOffset + groupLimit
	firstPass, err := NewFunctionFirstPassGroupingCollector(gs.groupFunction, gs.groupSort, topN)
	if err != nil {
		return nil, err
	}
	var allGroupsCollector *FunctionAllGroupsCollector
	var allGroupHeadsCollector *FunctionAllGroupHeadsCollector
	collectors := []search.Collector{firstPass}
	if gs.allGroups {
		allGroupsCollector = NewFunctionAllGroupsCollector(gs.groupFunction)
		collectors = append(collectors, allGroupsCollector)
	}
	if gs.allGroupHeads {
		allGroupHeadsCollector = NewFunctionAllGroupHeadsCollector(gs.groupFunction, gs.sortWithinGroup)
		collectors = append(collectors, allGroupHeadsCollector)
	}
	if err = searcher.Search(w, search.WrapCollectors(collectors...)); err != nil {
		return nil, err
	}

	gs.matchingGroups = nil
	if allGroupsCollector != nil {
		gs.matchingGroups = allGroupsCollector.Groups()
	}
	maxDoc := searcher.IndexReader().MaxDoc()
	gs.matchingGroupHeads = bitset.New(uint(maxDoc))
	if allGroupHeadsCollector != nil {
		gs.matchingGroupHeads = allGroupHeadsCollector.RetrieveGroupHeads(maxDoc)
	}

	topSearchGroups := firstPass.GetTopGroups(groupOffset, gs.fillSortFields)
	if topSearchGroups == nil {
		log.Debugf("No groups found from offset %v", groupOffset)
		totalGroupCount := -1
		if gs.allGroups {
			totalGroupCount = len(gs.matchingGroups)
		}
		return &TopGroups{
			TotalGroupCount: totalGroupCount,
			Groups:          []*GroupDocs{},
			MaxScore:        math.NaN(),
		}, nil
	}

	topNInsideGroup := gs.groupDocsOffset + gs.groupDocsLimit
	secondPass, err := NewFunctionSecondPassGroupingCollector(gs.groupFunction, topSearchGroups,
		gs.groupSort, gs.sortWithinGroup, topNInsideGroup, gs.includeScores, gs.includeMaxScore)
	if err != nil {
		return nil, err
	}
	if err = searcher.Search(w, secondPass); err != nil {
		return nil, err
	}
	topGroups := secondPass.GetTopGroups(gs.groupDocsOffset)
	if gs.allGroups {
		return topGroups.WithGroupCount(len(gs.matchingGroups)), nil
	}
	return topGroups, nil
}
