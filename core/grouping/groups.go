package grouping

import (
	"fmt"

	"github.com/ironsweet/docvalues/core/search"
	"github.com/ironsweet/docvalues/core/util/mutable"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("grouping")

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}

// search/grouping/SearchGroup.java

/* Represents a group that is found during the first pass search. */
type SearchGroup struct {
	// The value that defines this group
	GroupValue mutable.Value
	/*
		The sort values used during sorting. These are the groupSort
		field values of the highest rank document (by the groupSort) within
		the group. Can be nil if fillFields=false had been passed to
		GetTopGroups().
	*/
	SortValues []interface{}
}

func (g *SearchGroup) String() string {
	return fmt.Sprintf("SearchGroup(groupValue=%v sortValues=%v)", g.GroupValue, g.SortValues)
}

// search/grouping/GroupDocs.java

/* Represents one group in the results. */
type GroupDocs struct {
	// The groupField value for all docs in this group
	GroupValue mutable.Value
	// Max score in this group, NaN if not tracked
	MaxScore float64
	// Overall aggregated score of this group (currently only set by join queries).
	Score float64
	// Hits; this may be FieldDoc instances if the withinGroupSort sorted by fields.
	ScoreDocs []*search.ScoreDoc
	FieldDocs []*search.FieldDoc
	// Total hits within this group
	TotalHits int
	// Matches the groupSort passed to FunctionFirstPassGroupingCollector.
	GroupSortValues []interface{}
}

// search/grouping/TopGroups.java

/* Represents result returned by a grouping search. */
type TopGroups struct {
	// Number of documents matching the search
	TotalHitCount int
	// Number of documents grouped into the topN groups
	TotalGroupedHitCount int
	// The total number of unique groups. -1 when not computed.
	TotalGroupCount int
	// Group results in groupSort order
	Groups []*GroupDocs
	// How groups are sorted against each other
	GroupSort []*search.SortField
	// How docs are sorted within each group
	WithinGroupSort []*search.SortField
	// Highest score across all hits, NaN if scores were not computed.
	MaxScore float64
}

/* Returns a copy of groups with the total number of unique groups set. */
func (g *TopGroups) WithGroupCount(totalGroupCount int) *TopGroups {
	ans := *g
	ans.TotalGroupCount = totalGroupCount
	return &ans
}

func (g *TopGroups) String() string {
	return fmt.Sprintf("TopGroups(totalHits=%v groupedHits=%v groupCount=%v groups=%v)",
		g.TotalHitCount, g.TotalGroupedHitCount, g.TotalGroupCount, len(g.Groups))
}

/*
Returned by a grouping collector asked to collect or switch segments
after its results were extracted.
*/
var ErrCollectorDone = errors.New("grouping collector already produced its results")

type CollectorState int

const (
	STATE_UNSET CollectorState = iota
	STATE_PER_SEGMENT_ACTIVE
	STATE_DONE
)

func (s CollectorState) String() string {
	switch s {
	case STATE_UNSET:
		return "Unset"
	case STATE_PER_SEGMENT_ACTIVE:
		return "PerSegmentActive"
	case STATE_DONE:
		return "Done"
	}
	return fmt.Sprintf("CollectorState(%d)", int(s))
}

/*
Tracks the lifecycle shared by grouping collectors: segments are
visited one after another, results are extracted once all of them were
seen, and nothing may be collected afterwards.
*/
type lifecycle struct {
	state CollectorState
}

func (l *lifecycle) nextSegment() error {
	if l.state == STATE_DONE {
		return ErrCollectorDone
	}
	l.state = STATE_PER_SEGMENT_ACTIVE
	return nil
}

func (l *lifecycle) checkCollect() error {
	switch l.state {
	case STATE_DONE:
		return ErrCollectorDone
	case STATE_UNSET:
		return errors.New("Collect called before SetNextReader")
	}
	return nil
}

func (l *lifecycle) finish() {
	l.state = STATE_DONE
}

func (l *lifecycle) State() CollectorState { return l.state }
