package sortedset

import (
	"sort"

	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/facet"
	"github.com/ironsweet/docvalues/core/index"
	"github.com/pkg/errors"
)

// facet/sortedset/SortedSetDocValuesFacetCounts.java

/*
Compute facets counts from previously indexed SortedSetDocValuesFacetField,
without requiring a separate taxonomy index. Faceting is a bit slower
(~25%), and there is added cost on every IndexReader open to create a
new ReaderState. Furthermore, this does not support hierarchical
facets; only flat (dimension + label) facets, but it uses quite a bit
less RAM to do so.

NOTE: this class should be instantiated and then used from a single
goroutine, because it holds a thread-private instance of
SortedSetDocValues.
*/
type SortedSetDocValuesFacetCounts struct {
	state  ReaderState
	field  string
	counts []int
}

var _ facet.Facets = (*SortedSetDocValuesFacetCounts)(nil)

/* Sparse faceting: returns any dimension that had any hits, topCount labels per dimension. */
func NewSortedSetDocValuesFacetCounts(state ReaderState, hits *facet.FacetsCollector) (*SortedSetDocValuesFacetCounts, error) {
	c := &SortedSetDocValuesFacetCounts{
		state:  state,
		field:  state.Field(),
		counts: make([]int, state.Size()),
	}
	if err := c.count(hits.MatchingDocs()); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *SortedSetDocValuesFacetCounts) count(matchingDocs []*facet.MatchingDocs) error {
	leaves := c.state.OrigReader().Leaves()
	ordinalMap := c.state.OrdinalMap()

	for _, hits := range matchingDocs {
		// ordinals of the state are only valid for the segments of its reader
		if ord := hits.Context.Ord; ord >= len(leaves) || leaves[ord] != hits.Context {
			return errors.New("the SortedSetDocValuesReaderState provided to this class does not match the reader being searched; you must create a new SortedSetDocValuesReaderState every time you open a new IndexReader")
		}

		segValues, err := index.GetSortedSet(hits.Context.Reader(), c.field)
		if err != nil {
			return err
		}

		if ordinalMap == nil {
			// No ord mapping (e.g., single segment index): just aggregate
			// directly into counts:
			err = hits.Each(func(doc int) error {
				segValues.SetDocument(doc)
				for term := segValues.NextOrd(); term != spi.NO_MORE_ORDS; term = segValues.NextOrd() {
					c.counts[term]++
				}
				return nil
			})
			if err != nil {
				return err
			}
			continue
		}

		segOrd := hits.Context.Ord
		numSegOrds := segValues.ValueCount()
		if int64(hits.TotalHits) < numSegOrds/10 {
			// Remap every ord to global ord as we iterate:
			err = hits.Each(func(doc int) error {
				segValues.SetDocument(doc)
				for term := segValues.NextOrd(); term != spi.NO_MORE_ORDS; term = segValues.NextOrd() {
					c.counts[ordinalMap.GlobalOrd(segOrd, term)]++
				}
				return nil
			})
		} else {
			// First count in seg-ord space:
			segCounts := make([]int, numSegOrds)
			err = hits.Each(func(doc int) error {
				segValues.SetDocument(doc)
				for term := segValues.NextOrd(); term != spi.NO_MORE_ORDS; term = segValues.NextOrd() {
					segCounts[term]++
				}
				return nil
			})
			// Then, migrate to global ords:
			for ord, count := range segCounts {
				if count != 0 {
					c.counts[ordinalMap.GlobalOrd(segOrd, int64(ord))] += count
				}
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *SortedSetDocValuesFacetCounts) TopChildren(topN int, dim string, path ...string) (*facet.FacetResult, error) {
	if topN <= 0 {
		return nil, spi.NewIllegalArgumentError("topN must be > 0 (got: %v)", topN)
	}
	if len(path) > 0 {
		return nil, spi.NewIllegalArgumentError("path should be 0 length")
	}
	ordRange := c.state.OrdRange(dim)
	if ordRange == nil {
		return nil, spi.NewIllegalArgumentError("dimension \"%v\" was not indexed", dim)
	}
	return c.dim(dim, ordRange, topN), nil
}

func (c *SortedSetDocValuesFacetCounts) dim(dim string, ordRange *OrdRange, topN int) *facet.FacetResult {
	var dimCount, childCount int
	var labelValues []*facet.LabelAndValue

	if topN >= ordRange.End-ordRange.Start+1 {
		// every child fits: enumerate the whole range
		var children []facet.OrdAndValue
		for ord := ordRange.Start; ord <= ordRange.End; ord++ {
			if count := c.counts[ord]; count > 0 {
				dimCount += count
				childCount++
				children = append(children, facet.OrdAndValue{Ord: ord, Value: count})
			}
		}
		if childCount == 0 {
			return nil
		}
		sort.Slice(children, func(i, j int) bool {
			if children[i].Value != children[j].Value {
				return children[i].Value > children[j].Value
			}
			return children[i].Ord < children[j].Ord
		})
		labelValues = make([]*facet.LabelAndValue, len(children))
		for i, child := range children {
			labelValues[i] = c.labelAndValue(child)
		}
	} else {
		var q *facet.TopOrdAndIntQueue
		bottomCount := 0
		for ord := ordRange.Start; ord <= ordRange.End; ord++ {
			count := c.counts[ord]
			if count == 0 {
				continue
			}
			dimCount += count
			childCount++
			if count > bottomCount {
				if q == nil {
					// Lazy init, so we don't create this for the all-zero case:
					q = facet.NewTopOrdAndIntQueue(topN)
				}
				q.InsertWithOverflow(facet.OrdAndValue{Ord: ord, Value: count})
				if q.Len() == topN {
					bottomCount = q.Top().Value
				}
			}
		}
		if q == nil {
			return nil
		}
		labelValues = make([]*facet.LabelAndValue, q.Len())
		for i := len(labelValues) - 1; i >= 0; i-- {
			labelValues[i] = c.labelAndValue(q.PopLeast())
		}
	}

	return &facet.FacetResult{
		Dim:         dim,
		Path:        []string{},
		Value:       dimCount,
		ChildCount:  childCount,
		LabelValues: labelValues,
	}
}

func (c *SortedSetDocValuesFacetCounts) labelAndValue(ov facet.OrdAndValue) *facet.LabelAndValue {
	parts := facet.StringToPath(string(c.state.LookupOrd(int64(ov.Ord))))
	return &facet.LabelAndValue{Label: parts[1], Value: ov.Value}
}

func (c *SortedSetDocValuesFacetCounts) SpecificValue(dim string, path ...string) (int, error) {
	if len(path) != 1 {
		return 0, spi.NewIllegalArgumentError("path must be length=1")
	}
	fullPath, err := facet.PathToString(dim, path[0])
	if err != nil {
		return 0, err
	}
	ord := c.state.LookupTerm([]byte(fullPath))
	if ord < 0 {
		return -1, nil
	}
	return c.counts[ord], nil
}

func (c *SortedSetDocValuesFacetCounts) AllDims(topN int) ([]*facet.FacetResult, error) {
	if topN <= 0 {
		return nil, spi.NewIllegalArgumentError("topN must be > 0 (got: %v)", topN)
	}
	var results []*facet.FacetResult
	for dim, ordRange := range c.state.PrefixToOrdRange() {
		if fr := c.dim(dim, ordRange, topN); fr != nil {
			results = append(results, fr)
		}
	}

	// Sort by highest count:
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.Dim < b.Dim
	})
	return results, nil
}
