package search

import (
	"fmt"

	"github.com/ironsweet/docvalues/core/index"
	"github.com/ironsweet/docvalues/core/search/model"
)

// search/Scorer.java

/*
Expert: Common scoring functionality for different types of queries.

A Scorer iterates over documents matching a query in increasing order
of doc Id. Document scores are computed using a given Similarity
implementation, or from per-document values for function queries.
*/
type Scorer interface {
	model.DocIdSetIterator
	// Returns the score of the current document matching the query.
	// Initially invalid, until NextDoc() or Advance() is called the
	// first time.
	Score() (float32, error)
}

/*
Scores and collects all matching documents of scorer, which must not
have been advanced yet.
*/
func ScoreAndCollect(scorer Scorer, c Collector) error {
	assert2(scorer.DocId() == -1, "scorer already started at %v", scorer.DocId()) // not started
	c.SetScorer(scorer)
	doc, err := scorer.NextDoc()
	for doc != model.NO_MORE_DOCS && err == nil {
		if err = c.Collect(doc); err != nil {
			return err
		}
		doc, err = scorer.NextDoc()
	}
	return err
}

// search/ConstantScoreQuery.java

/*
A Scorer that matches every document of a segment with the same
score, skipping no document.
*/
type ConstantScorer struct {
	maxDoc int
	doc    int
	score  float32
}

func NewConstantScorer(maxDoc int, score float32) *ConstantScorer {
	return &ConstantScorer{maxDoc: maxDoc, doc: -1, score: score}
}

func (s *ConstantScorer) DocId() int { return s.doc }

func (s *ConstantScorer) NextDoc() (int, error) {
	return s.Advance(s.doc + 1)
}

func (s *ConstantScorer) Advance(target int) (int, error) {
	if target >= s.maxDoc {
		s.doc = model.NO_MORE_DOCS
	} else {
		s.doc = target
	}
	return s.doc, nil
}

func (s *ConstantScorer) Cost() int64 { return int64(s.maxDoc) }

func (s *ConstantScorer) Score() (float32, error) {
	assert2(s.doc != -1 && s.doc != model.NO_MORE_DOCS, "scorer is not positioned: %v", s.doc)
	return s.score, nil
}

func (s *ConstantScorer) String() string {
	return fmt.Sprintf("ConstantScorer(maxDoc=%v score=%v)", s.maxDoc, s.score)
}

// search/MatchAllDocsQuery.java

type matchAllDocsWeight float32

/* Returns a Weight matching every document with the given score. */
func NewMatchAllDocsWeight(score float32) Weight {
	return matchAllDocsWeight(score)
}

func (w matchAllDocsWeight) Scorer(ctx *index.AtomicReaderContext) (Scorer, error) {
	return NewConstantScorer(ctx.Reader().MaxDoc(), float32(w)), nil
}

func (w matchAllDocsWeight) ScoresDocsOutOfOrder() bool { return false }

func (w matchAllDocsWeight) String() string {
	return fmt.Sprintf("*:*^%v", float32(w))
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
