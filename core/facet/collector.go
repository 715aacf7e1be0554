package facet

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/search"
	"github.com/ironsweet/docvalues/core/util"
)

// facet/FacetsCollector.java

/* Holds the documents that were matched in one segment. */
type MatchingDocs struct {
	// Context for this segment.
	Context *index.AtomicReaderContext
	// Which documents were seen, by segment doc id.
	Bits *roaring.Bitmap
	// Non-nil if scores were kept, indexed by segment doc id.
	Scores []float32
	// Total number of hits.
	TotalHits int
}

/* Returns the matching documents as a Bits over the segment. */
func (md *MatchingDocs) DocIdSet() util.Bits {
	return util.NewRoaringBits(md.Bits, md.Context.Reader().MaxDoc())
}

/* Calls f for each matching document, in increasing doc id order. */
func (md *MatchingDocs) Each(f func(doc int) error) error {
	it := md.Bits.Iterator()
	for it.HasNext() {
		if err := f(int(it.Next())); err != nil {
			return err
		}
	}
	return nil
}

/*
Collects hits for subsequent faceting. Once you've run a search and
collected hits into this, instantiate one of the Facets subclasses to
do the facet counting.
*/
type FacetsCollector struct {
	keepScores   bool
	context      *index.AtomicReaderContext
	scorer       search.Scorer
	bits         *roaring.Bitmap
	totalHits    int
	scores       []float32
	matchingDocs []*MatchingDocs
}

/* Creates a FacetsCollector, keeping the score of every hit if keepScores is true. */
func NewFacetsCollector(keepScores bool) *FacetsCollector {
	return &FacetsCollector{keepScores: keepScores}
}

// True if scores were saved.
func (c *FacetsCollector) KeepScores() bool { return c.keepScores }

/* Returns the documents matched by the query, one MatchingDocs per visited segment. */
func (c *FacetsCollector) MatchingDocs() []*MatchingDocs {
	if c.bits != nil {
		c.finishSegment()
	}
	return c.matchingDocs
}

func (c *FacetsCollector) finishSegment() {
	c.matchingDocs = append(c.matchingDocs, &MatchingDocs{c.context, c.bits, c.scores, c.totalHits})
	c.bits, c.scores, c.totalHits = nil, nil, 0
}

func (c *FacetsCollector) AcceptsDocsOutOfOrder() bool {
	return true
}

func (c *FacetsCollector) Collect(doc int) error {
	c.bits.Add(uint32(doc))
	if c.keepScores {
		score, err := c.scorer.Score()
		if err != nil {
			return err
		}
		c.scores[doc] = score
	}
	c.totalHits++
	return nil
}

func (c *FacetsCollector) SetScorer(scorer search.Scorer) {
	c.scorer = scorer
}

func (c *FacetsCollector) SetNextReader(ctx *index.AtomicReaderContext) error {
	if c.bits != nil {
		c.finishSegment()
	}
	c.context = ctx
	c.bits = roaring.New()
	if c.keepScores {
		c.scores = make([]float32, ctx.Reader().MaxDoc())
	}
	return nil
}

/*
Utility method, to search and also collect all hits into the provided
FacetsCollector. Returns the top n hits by score.
*/
func Search(searcher *search.IndexSearcher, w search.Weight, n int, fc *FacetsCollector) (search.TopDocs, error) {
	if limit := max(searcher.IndexReader().MaxDoc(), 1); n > limit {
		n = limit
	}
	hits := search.NewTopScoreDocCollector(n, !w.ScoresDocsOutOfOrder())
	if err := searcher.Search(w, search.WrapCollectors(hits, fc)); err != nil {
		return search.TopDocs{}, err
	}
	log.Debugf("Collected facets over %v segments", len(fc.MatchingDocs()))
	return hits.TopDocs(), nil
}
