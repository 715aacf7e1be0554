package facet

import (
	"fmt"

	"github.com/ironsweet/docvalues/core/document"
)

// facet/sortedset/SortedSetDocValuesFacetField.java

// Neither indexed nor carrying doc values until Config.Build() translates it.
var SORTED_SET_FACET_FIELD_TYPE = document.NewFieldType().Freeze()

/*
Add an instance of this to your Document for every facet label to be
indexed via SortedSetDocValues, then call Config.Build() on the
document.
*/
type SortedSetDocValuesFacetField struct {
	// Dimension.
	Dim string
	// Label.
	Label string
}

func NewSortedSetDocValuesFacetField(dim, label string) *SortedSetDocValuesFacetField {
	assert2(dim != "", "empty or null components not allowed; got: %q", dim)
	assert2(label != "", "empty or null components not allowed; got: %q", label)
	return &SortedSetDocValuesFacetField{dim, label}
}

func (f *SortedSetDocValuesFacetField) Name() string                   { return "dummy" }
func (f *SortedSetDocValuesFacetField) FieldType() *document.FieldType { return SORTED_SET_FACET_FIELD_TYPE }
func (f *SortedSetDocValuesFacetField) NumericValue() (int64, bool)    { return 0, false }
func (f *SortedSetDocValuesFacetField) BinaryValue() []byte            { return nil }

func (f *SortedSetDocValuesFacetField) String() string {
	return fmt.Sprintf("SortedSetDocValuesFacetField(dim=%v label=%v)", f.Dim, f.Label)
}
