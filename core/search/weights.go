package search

import (
	"github.com/ironsweet/docvalues/core/index"
)

// search/Weight.java

/*
Expert: builds per-segment scorers.

Since Weight creates Scorer instances for a given AtomicReaderContext
(Scorer()), callers must maintain the relationship between the
searcher's top-level IndexReaderContext and the context used to create
a Scorer.
*/
type Weight interface {
	/*
		Returns a Scorer over the matching documents of the segment, or
		nil if no document of the segment can match.
	*/
	Scorer(ctx *index.AtomicReaderContext) (Scorer, error)
	/*
		Returns true iff this implementation scores docs only out of
		order. Collectors that do not accept docs out of order cannot be
		used with such weights.
	*/
	ScoresDocsOutOfOrder() bool // usually false
}
