package perfield

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	. "github.com/ironsweet/docvalues/core/codec/spi"
	. "github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/util"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("perfield")

const (
	// FieldInfo attribute name used to store the format name for each field.
	PER_FIELD_FORMAT_KEY = "PerFieldDocValuesFormat.format"
	// FieldInfo attribute name used to store the segment suffix name for each field.
	PER_FIELD_SUFFIX_KEY = "PerFieldDocValuesFormat.suffix"
)

/*
Enables per field docvalues support,

Note, when extending this class, the name Name() is written into the
index. In order for the field to be read, the name must resolve to
your implementation via LoadDocValuesFormat(). This method use a
registry map to resolve format names.

Files written by each docvalues format have an additional suffix
containing the format name. For example, in a per-field configuration
instead of _1.dvd fielnames would look like _1_Lucene45_0.dvd.
*/
type PerFieldDocValuesFormat struct {
	formatForField func(field string) DocValuesFormat
}

func NewPerFieldDocValuesFormat(f func(field string) DocValuesFormat) *PerFieldDocValuesFormat {
	return &PerFieldDocValuesFormat{f}
}

func (pf *PerFieldDocValuesFormat) Name() string {
	return "PerFieldDV40"
}

func (pf *PerFieldDocValuesFormat) FieldsConsumer(state *SegmentWriteState) (w DocValuesConsumer, err error) {
	return newPerFieldDocValuesWriter(pf, state), nil
}

func (pf *PerFieldDocValuesFormat) FieldsProducer(state SegmentReadState) (r DocValuesProducer, err error) {
	p, err := newPerFieldDocValuesReader(state)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (pf *PerFieldDocValuesFormat) String() string {
	return "PerFieldDocValuesFormat"
}

func dvSuffix(format, suffix string) string {
	return format + "_" + suffix
}

func dvFullSegmentSuffix(outerSuffix, suffix string) string {
	if len(outerSuffix) == 0 {
		return suffix
	}
	return outerSuffix + "_" + suffix
}

type consumerAndSuffix struct {
	consumer DocValuesConsumer
	suffix   int
}

type PerFieldDocValuesWriter struct {
	owner             *PerFieldDocValuesFormat
	formats           map[DocValuesFormat]*consumerAndSuffix
	suffixes          map[string]int
	segmentWriteState *SegmentWriteState
}

func newPerFieldDocValuesWriter(owner *PerFieldDocValuesFormat, state *SegmentWriteState) *PerFieldDocValuesWriter {
	return &PerFieldDocValuesWriter{
		owner:             owner,
		formats:           make(map[DocValuesFormat]*consumerAndSuffix),
		suffixes:          make(map[string]int),
		segmentWriteState: state,
	}
}

func (w *PerFieldDocValuesWriter) AddNumericField(field *FieldInfo, values NumericIterable) error {
	c, err := w.instance(field)
	if err != nil {
		return err
	}
	return c.AddNumericField(field, values)
}

func (w *PerFieldDocValuesWriter) AddBinaryField(field *FieldInfo, values BytesIterable) error {
	c, err := w.instance(field)
	if err != nil {
		return err
	}
	return c.AddBinaryField(field, values)
}

func (w *PerFieldDocValuesWriter) AddSortedField(field *FieldInfo, values BytesIterable, docToOrd NumericIterable) error {
	c, err := w.instance(field)
	if err != nil {
		return err
	}
	return c.AddSortedField(field, values, docToOrd)
}

func (w *PerFieldDocValuesWriter) AddSortedSetField(field *FieldInfo, values BytesIterable,
	docToOrdCount, ords NumericIterable) error {
	c, err := w.instance(field)
	if err != nil {
		return err
	}
	return c.AddSortedSetField(field, values, docToOrdCount, ords)
}

func (w *PerFieldDocValuesWriter) instance(field *FieldInfo) (DocValuesConsumer, error) {
	var format DocValuesFormat
	if field.DocValuesGen() != -1 {
		// this means the field never existed in that segment, yet is
		// applied updates
		formatName := field.Attribute(PER_FIELD_FORMAT_KEY)
		if formatName != "" {
			var err error
			if format, err = LoadDocValuesFormat(formatName); err != nil {
				return nil, err
			}
		}
	}
	if format == nil {
		format = w.owner.formatForField(field.Name)
	}
	if format == nil {
		return nil, fmt.Errorf("invalid nil DocValuesFormat for field='%v'", field.Name)
	}
	formatName := format.Name()

	previousValue := field.PutAttribute(PER_FIELD_FORMAT_KEY, formatName)
	assert2(field.DocValuesGen() != -1 || previousValue == "" || previousValue == formatName,
		"formatName=%v prevValue=%v", formatName, previousValue)

	var suffix int
	consumer, ok := w.formats[format]
	if !ok {
		// First time we are seeing this format; create a new instance
		if field.DocValuesGen() != -1 {
			// even when dvGen is != -1, it can still be a new field, that
			// never existed in the segment, and therefore doesn't have the
			// recorded attributes yet.
			if suffixAtt := field.Attribute(PER_FIELD_SUFFIX_KEY); suffixAtt != "" {
				var err error
				if suffix, err = strconv.Atoi(suffixAtt); err != nil {
					return nil, err
				}
			}
		} else {
			// bump the suffix
			if v, ok := w.suffixes[formatName]; ok {
				suffix = v + 1
			}
		}
		w.suffixes[formatName] = suffix

		segmentSuffix := dvFullSegmentSuffix(w.segmentWriteState.SegmentSuffix,
			dvSuffix(formatName, strconv.Itoa(suffix)))
		c, err := format.FieldsConsumer(NewSegmentWriteStateFrom(w.segmentWriteState, segmentSuffix))
		if err != nil {
			return nil, err
		}
		log.Debugf("Routing doc values of format %v to segment suffix %v", formatName, segmentSuffix)
		consumer = &consumerAndSuffix{c, suffix}
		w.formats[format] = consumer
	} else {
		// we've already seen this format, so just grab its suffix
		assert(w.suffixes[formatName] >= 0)
		suffix = consumer.suffix
	}

	suffixAtt := strconv.Itoa(suffix)
	previousValue = field.PutAttribute(PER_FIELD_SUFFIX_KEY, suffixAtt)
	assert2(field.DocValuesGen() != -1 || previousValue == "" || previousValue == suffixAtt,
		"suffix=%v prevValue=%v", suffix, previousValue)

	return consumer.consumer, nil
}

func (w *PerFieldDocValuesWriter) Close() error {
	var closers []io.Closer
	for _, v := range w.formats {
		closers = append(closers, v.consumer)
	}
	return util.Close(closers...)
}

type PerFieldDocValuesReader struct {
	fields  map[string]DocValuesProducer
	formats map[string]DocValuesProducer
}

func newPerFieldDocValuesReader(state SegmentReadState) (dvp *PerFieldDocValuesReader, err error) {
	ans := &PerFieldDocValuesReader{
		make(map[string]DocValuesProducer), make(map[string]DocValuesProducer)}
	// Read _X.per and init each format:
	success := false
	defer func() {
		if !success {
			util.CloseWhileSuppressingError(ans.closers()...)
		}
	}()
	// Read field name -> format name
	for _, fi := range state.FieldInfos.Values {
		if fi.HasDocValues() {
			fieldName := fi.Name
			if formatName := fi.Attribute(PER_FIELD_FORMAT_KEY); formatName != "" {
				// empty formatName means the field is in fieldInfos, but has no docvalues!
				suffix := fi.Attribute(PER_FIELD_SUFFIX_KEY)
				if suffix == "" {
					return nil, fmt.Errorf("missing attribute: %v for field: %v",
						PER_FIELD_SUFFIX_KEY, fieldName)
				}
				segmentSuffix := dvFullSegmentSuffix(state.SegmentSuffix, dvSuffix(formatName, suffix))
				if _, ok := ans.formats[segmentSuffix]; !ok {
					format, err := LoadDocValuesFormat(formatName)
					if err != nil {
						return nil, err
					}
					p, err := format.FieldsProducer(NewSegmentReadStateFrom(state, segmentSuffix))
					if err != nil {
						return nil, err
					}
					ans.formats[segmentSuffix] = p
				}
				ans.fields[fieldName] = ans.formats[segmentSuffix]
			}
		}
	}
	success = true
	return ans, nil
}

func (dvp *PerFieldDocValuesReader) closers() []io.Closer {
	// close in a stable order so errors are reproducible
	keys := make([]string, 0, len(dvp.formats))
	for k := range dvp.formats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]io.Closer, len(keys))
	for i, k := range keys {
		items[i] = dvp.formats[k]
	}
	return items
}

func (dvp *PerFieldDocValuesReader) Numeric(field *FieldInfo) (v NumericDocValues, err error) {
	if p, ok := dvp.fields[field.Name]; ok {
		return p.Numeric(field)
	}
	return nil, nil
}

func (dvp *PerFieldDocValuesReader) Binary(field *FieldInfo) (v BinaryDocValues, err error) {
	if p, ok := dvp.fields[field.Name]; ok {
		return p.Binary(field)
	}
	return nil, nil
}

func (dvp *PerFieldDocValuesReader) Sorted(field *FieldInfo) (v SortedDocValues, err error) {
	if p, ok := dvp.fields[field.Name]; ok {
		return p.Sorted(field)
	}
	return nil, nil
}

func (dvp *PerFieldDocValuesReader) SortedSet(field *FieldInfo) (v SortedSetDocValues, err error) {
	if p, ok := dvp.fields[field.Name]; ok {
		return p.SortedSet(field)
	}
	return nil, nil
}

func (dvp *PerFieldDocValuesReader) DocsWithField(field *FieldInfo) (util.Bits, error) {
	if p, ok := dvp.fields[field.Name]; ok {
		return p.DocsWithField(field)
	}
	return nil, nil
}

func (dvp *PerFieldDocValuesReader) CheckIntegrity() error {
	for _, c := range dvp.closers() {
		if err := c.(DocValuesProducer).CheckIntegrity(); err != nil {
			return err
		}
	}
	return nil
}

func (dvp *PerFieldDocValuesReader) Close() error {
	return util.Close(dvp.closers()...)
}

func (dvp *PerFieldDocValuesReader) String() string {
	return fmt.Sprintf("PerFieldDocValues(formats=%v)", len(dvp.formats))
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
