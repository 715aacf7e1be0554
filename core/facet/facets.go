package facet

import (
	"fmt"
	"strings"
)

// facet/LabelAndValue.java

/* Single label and its value, usually contained in a FacetResult. */
type LabelAndValue struct {
	// Facet's label.
	Label string
	// Value associated with this label.
	Value int
}

func (lv *LabelAndValue) String() string {
	return fmt.Sprintf("%v (%v)", lv.Label, lv.Value)
}

// facet/FacetResult.java

/* Counts or aggregates for a single dimension. */
type FacetResult struct {
	// Dimension that was requested.
	Dim string
	// Path whose children were requested.
	Path []string
	// Total value for this path (sum of all child counts, or custom
	// value).
	Value int
	// How many child labels were encountered.
	ChildCount int
	// Child counts.
	LabelValues []*LabelAndValue
}

func (r *FacetResult) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "dim=%v path=[%v] value=%v childCount=%v\n",
		r.Dim, strings.Join(r.Path, ", "), r.Value, r.ChildCount)
	for _, lv := range r.LabelValues {
		fmt.Fprintf(&buf, "  %v\n", lv)
	}
	return buf.String()
}

// facet/Facets.java

/* Common base for all facets implementations. */
type Facets interface {
	/*
		Returns the topN child labels under the specified path. Returns
		nil if the specified path doesn't exist or if this dimension was
		never seen.
	*/
	TopChildren(topN int, dim string, path ...string) (*FacetResult, error)
	/*
		Return the count or value for a specific path. Returns -1 if this
		path doesn't exist, else the count.
	*/
	SpecificValue(dim string, path ...string) (int, error)
	/*
		Returns topN labels for any dimension that had hits, sorted by the
		number of hits that dimension matched; this is used for "sparse"
		faceting, where many different dimensions were indexed, for
		example depending on the type of document.
	*/
	AllDims(topN int) ([]*FacetResult, error)
}
