package facet

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/document"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("facet")

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}

// facet/FacetsConfig.java

// Which field holds the facet labels (as doc values) by default.
const DEFAULT_INDEX_FIELD_NAME = "$facets"

const (
	// Joins the path components together
	DELIM_CHAR = '\u001f'
	// Escapes any occurrence of the path component inside the label
	ESCAPE_CHAR = '\u001e'
)

/* Holds the configuration for one dimension. */
type DimConfig struct {
	// True if this dimension is hierarchical.
	Hierarchical bool
	// True if this dimension is multi-valued.
	MultiValued bool
	// True if the count/aggregate for the entire dimension is required,
	// which is unusual (default is false).
	RequireDimCount bool
	// Actual field where this dimension's facet labels should be indexed.
	IndexFieldName string
}

// Default per-dimension configuration.
var DEFAULT_DIM_CONFIG = DimConfig{IndexFieldName: DEFAULT_INDEX_FIELD_NAME}

/*
Records the configuration of each dimension, and translates facet
fields into the doc values fields that are actually indexed. The same
configuration must be used at search time.

Config is safe for concurrent use.
*/
type Config struct {
	sync.RWMutex
	fieldTypes map[string]*DimConfig
}

func NewConfig() *Config {
	return &Config{fieldTypes: make(map[string]*DimConfig)}
}

/* Returns the current configuration for a dimension. */
func (c *Config) DimConfig(dim string) DimConfig {
	c.RLock()
	defer c.RUnlock()
	if ft, ok := c.fieldTypes[dim]; ok {
		return *ft
	}
	return DEFAULT_DIM_CONFIG
}

func (c *Config) update(dim string, f func(ft *DimConfig)) {
	c.Lock()
	defer c.Unlock()
	ft, ok := c.fieldTypes[dim]
	if !ok {
		ft = &DimConfig{IndexFieldName: DEFAULT_INDEX_FIELD_NAME}
		c.fieldTypes[dim] = ft
	}
	f(ft)
}

// Pass true if this dimension is hierarchical (has depth > 1 paths).
func (c *Config) SetHierarchical(dim string, v bool) {
	c.update(dim, func(ft *DimConfig) { ft.Hierarchical = v })
}

// Pass true if this dimension may have more than one value per document.
func (c *Config) SetMultiValued(dim string, v bool) {
	c.update(dim, func(ft *DimConfig) { ft.MultiValued = v })
}

// Pass true if at search time you require accurate counts of the dimension.
func (c *Config) SetRequireDimCount(dim string, v bool) {
	c.update(dim, func(ft *DimConfig) { ft.RequireDimCount = v })
}

// Specify which index field name should hold the labels of this dimension.
func (c *Config) SetIndexFieldName(dim, indexFieldName string) {
	c.update(dim, func(ft *DimConfig) { ft.IndexFieldName = indexFieldName })
}

/* Returns a snapshot of the configured dimensions. */
func (c *Config) DimConfigs() map[string]DimConfig {
	c.RLock()
	defer c.RUnlock()
	ans := make(map[string]DimConfig, len(c.fieldTypes))
	for dim, ft := range c.fieldTypes {
		ans[dim] = *ft
	}
	return ans
}

/*
Translates the SortedSetDocValuesFacetFields of doc into sorted set
doc values fields, one per label, holding the encoded dim and label.
Other fields are carried over unchanged. Add the returned document to
the IndexWriter, not the input one.
*/
func (c *Config) Build(doc *document.Document) (*document.Document, error) {
	// Find all SortedSetDocValuesFacetFields, collated by the actual field
	dvByField := make(map[string][]*SortedSetDocValuesFacetField)
	var indexFieldNames []string
	seenDims := make(map[string]bool)

	result := document.NewDocument()
	for _, field := range doc.Fields() {
		facetField, ok := field.(*SortedSetDocValuesFacetField)
		if !ok {
			result.Add(field)
			continue
		}
		dimConfig := c.DimConfig(facetField.Dim)
		if !dimConfig.MultiValued {
			if seenDims[facetField.Dim] {
				return nil, spi.NewIllegalArgumentError(
					"dimension \"%v\" is not multiValued, but it appears more than once in this document",
					facetField.Dim)
			}
			seenDims[facetField.Dim] = true
		}
		name := dimConfig.IndexFieldName
		if _, ok := dvByField[name]; !ok {
			indexFieldNames = append(indexFieldNames, name)
		}
		dvByField[name] = append(dvByField[name], facetField)
	}

	for _, name := range indexFieldNames {
		for _, facetField := range dvByField[name] {
			fullPath, err := PathToString(facetField.Dim, facetField.Label)
			if err != nil {
				return nil, err
			}
			// For facet counts
			result.Add(document.NewSortedSetDocValuesField(name, []byte(fullPath)))
		}
	}
	return result, nil
}

/*
Turns a dim and path into an encoded string. Components are joined by
DELIM_CHAR; occurrences of DELIM_CHAR or ESCAPE_CHAR inside a component
are preceded by ESCAPE_CHAR. Components must not be empty.
*/
func PathToString(path ...string) (string, error) {
	var buf strings.Builder
	for i, s := range path {
		if s == "" {
			return "", spi.NewIllegalArgumentError("each path component must have length > 0 (got: \"\")")
		}
		if i > 0 {
			buf.WriteRune(DELIM_CHAR)
		}
		for _, ch := range s {
			if ch == DELIM_CHAR || ch == ESCAPE_CHAR {
				buf.WriteRune(ESCAPE_CHAR)
			}
			buf.WriteRune(ch)
		}
	}
	return buf.String(), nil
}

/* Turns an encoded string (from a previous call to PathToString) back into the original path. */
func StringToPath(s string) []string {
	if s == "" {
		return []string{}
	}
	var parts []string
	var buf strings.Builder
	lastEscape := false
	for _, ch := range s {
		switch {
		case lastEscape:
			buf.WriteRune(ch)
			lastEscape = false
		case ch == ESCAPE_CHAR:
			lastEscape = true
		case ch == DELIM_CHAR:
			parts = append(parts, buf.String())
			buf.Reset()
		default:
			buf.WriteRune(ch)
		}
	}
	parts = append(parts, buf.String())
	assert2(!lastEscape, "dangling escape in %q", s)
	return parts
}
