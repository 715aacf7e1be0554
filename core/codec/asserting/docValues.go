package asserting

import (
	"fmt"

	. "github.com/ironsweet/docvalues/core/codec/spi"
	. "github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/util"
)

/* Just like the wrapped DocValuesFormat but with additional asserts. */
type AssertingDocValuesFormat struct {
	in DocValuesFormat
}

func NewAssertingDocValuesFormat(in DocValuesFormat) *AssertingDocValuesFormat {
	return &AssertingDocValuesFormat{in}
}

func (f *AssertingDocValuesFormat) Name() string {
	return "Asserting"
}

func (f *AssertingDocValuesFormat) FieldsConsumer(state *SegmentWriteState) (DocValuesConsumer, error) {
	consumer, err := f.in.FieldsConsumer(state)
	if err != nil {
		return nil, err
	}
	check(consumer != nil, "nil consumer from %v", f.in.Name())
	log.Debugf("Checking doc values written to segment %v", state.SegmentInfo.Name)
	return &AssertingDocValuesConsumer{consumer, state.SegmentInfo.DocCount()}, nil
}

func (f *AssertingDocValuesFormat) FieldsProducer(state SegmentReadState) (DocValuesProducer, error) {
	check(state.FieldInfos.HasDocValues, "segment %v has no doc values", state.SegmentInfo.Name)
	producer, err := f.in.FieldsProducer(state)
	if err != nil {
		return nil, err
	}
	check(producer != nil, "nil producer from %v", f.in.Name())
	return &AssertingDocValuesProducer{producer, state.SegmentInfo.DocCount()}, nil
}

func (f *AssertingDocValuesFormat) String() string {
	return fmt.Sprintf("Asserting(%v)", f.in)
}

type AssertingDocValuesConsumer struct {
	in     DocValuesConsumer
	maxDoc int
}

func (w *AssertingDocValuesConsumer) AddNumericField(field *FieldInfo, values NumericIterable) error {
	count := 0
	for it := values(); it.Next(); count++ {
	}
	check(count == w.maxDoc, "field %v: %v numeric values for %v documents", field.Name, count, w.maxDoc)
	return w.in.AddNumericField(field, guardNumeric(field, "values", values))
}

func (w *AssertingDocValuesConsumer) AddBinaryField(field *FieldInfo, values BytesIterable) error {
	count := 0
	for it := values(); it.Next(); count++ {
	}
	check(count == w.maxDoc, "field %v: %v binary values for %v documents", field.Name, count, w.maxDoc)
	return w.in.AddBinaryField(field, guardBytes(field, "values", values))
}

func (w *AssertingDocValuesConsumer) AddSortedField(field *FieldInfo, values BytesIterable, docToOrd NumericIterable) error {
	valueCount := checkDictionary(field, values)

	seenOrds := util.NewFixedBitSetOf(valueCount)
	count := 0
	for it := docToOrd(); it.Next(); count++ {
		ord, ok := it.Value()
		check(ok, "field %v: document %v has no ordinal, use -1 for missing", field.Name, count)
		check(ord >= -1 && ord < int64(valueCount),
			"field %v: document %v has ordinal %v out of range [-1,%v)", field.Name, count, ord, valueCount)
		if ord != -1 {
			seenOrds.Set(int(ord))
		}
	}
	check(count == w.maxDoc, "field %v: %v ordinals for %v documents", field.Name, count, w.maxDoc)
	check(seenOrds.Cardinality() == valueCount,
		"field %v: dictionary has %v values but only %v are referenced", field.Name, valueCount, seenOrds.Cardinality())
	return w.in.AddSortedField(field, guardBytes(field, "dictionary", values), guardNumeric(field, "ords", docToOrd))
}

func (w *AssertingDocValuesConsumer) AddSortedSetField(field *FieldInfo, values BytesIterable,
	docToOrdCount, ords NumericIterable) error {

	valueCount := checkDictionary(field, values)

	seenOrds := util.NewFixedBitSetOf(valueCount)
	ordIt := ords()
	docCount, ordCount := 0, 0
	for it := docToOrdCount(); it.Next(); docCount++ {
		n, ok := it.Value()
		check(ok && n >= 0, "field %v: document %v has invalid ordinal count", field.Name, docCount)
		lastOrd := int64(-1)
		for i := int64(0); i < n; i++ {
			check(ordIt.Next(), "field %v: ordinals ran out at document %v", field.Name, docCount)
			ord, ok := ordIt.Value()
			check(ok, "field %v: document %v has a missing ordinal", field.Name, docCount)
			check(ord >= 0 && ord < int64(valueCount),
				"field %v: document %v has ordinal %v out of range [0,%v)", field.Name, docCount, ord, valueCount)
			check(ord > lastOrd,
				"field %v: document %v ordinals out of order (%v after %v)", field.Name, docCount, ord, lastOrd)
			seenOrds.Set(int(ord))
			lastOrd = ord
			ordCount++
		}
	}
	check(!ordIt.Next(), "field %v: more ordinals than the sum of per-document counts (%v)", field.Name, ordCount)
	check(docCount == w.maxDoc, "field %v: %v ordinal counts for %v documents", field.Name, docCount, w.maxDoc)
	check(seenOrds.Cardinality() == valueCount,
		"field %v: dictionary has %v values but only %v are referenced", field.Name, valueCount, seenOrds.Cardinality())
	return w.in.AddSortedSetField(field, guardBytes(field, "dictionary", values),
		guardNumeric(field, "ord counts", docToOrdCount), guardNumeric(field, "ords", ords))
}

/* Verifies the dictionary is strictly increasing and returns its size. */
func checkDictionary(field *FieldInfo, values BytesIterable) int {
	valueCount := 0
	var last []byte
	for it := values(); it.Next(); valueCount++ {
		b := it.Value()
		check(b != nil, "field %v: missing dictionary value at ordinal %v", field.Name, valueCount)
		check(valueCount == 0 || util.CompareBytes(last, b) < 0,
			"field %v: dictionary not strictly increasing at ordinal %v (%q after %q)", field.Name, valueCount, b, last)
		last = append(last[:0], b...)
	}
	return valueCount
}

func (w *AssertingDocValuesConsumer) Close() error {
	return w.in.Close()
}

type AssertingDocValuesProducer struct {
	in     DocValuesProducer
	maxDoc int
}

func (p *AssertingDocValuesProducer) checkDoc(field *FieldInfo, docID int) {
	check(docID >= 0 && docID < p.maxDoc, "field %v: document %v out of range [0,%v)", field.Name, docID, p.maxDoc)
}

func (p *AssertingDocValuesProducer) Numeric(field *FieldInfo) (NumericDocValues, error) {
	check(field.DocValuesType() == DOC_VALUES_TYPE_NUMERIC || field.NormType() == DOC_VALUES_TYPE_NUMERIC,
		"field %v is %v, not NUMERIC", field.Name, field.DocValuesType())
	values, err := p.in.Numeric(field)
	if err != nil || values == nil {
		return values, err
	}
	return func(docID int) int64 {
		p.checkDoc(field, docID)
		return values(docID)
	}, nil
}

func (p *AssertingDocValuesProducer) Binary(field *FieldInfo) (BinaryDocValues, error) {
	check(field.DocValuesType() == DOC_VALUES_TYPE_BINARY, "field %v is %v, not BINARY", field.Name, field.DocValuesType())
	values, err := p.in.Binary(field)
	if err != nil || values == nil {
		return values, err
	}
	return &assertingBinaryDocValues{values, field, p}, nil
}

func (p *AssertingDocValuesProducer) Sorted(field *FieldInfo) (SortedDocValues, error) {
	check(field.DocValuesType() == DOC_VALUES_TYPE_SORTED, "field %v is %v, not SORTED", field.Name, field.DocValuesType())
	values, err := p.in.Sorted(field)
	if err != nil || values == nil {
		return values, err
	}
	return &assertingSortedDocValues{values, field, p, values.ValueCount()}, nil
}

func (p *AssertingDocValuesProducer) SortedSet(field *FieldInfo) (SortedSetDocValues, error) {
	check(field.DocValuesType() == DOC_VALUES_TYPE_SORTED_SET,
		"field %v is %v, not SORTED_SET", field.Name, field.DocValuesType())
	values, err := p.in.SortedSet(field)
	if err != nil || values == nil {
		return values, err
	}
	return &assertingSortedSetDocValues{in: values, field: field, owner: p,
		valueCount: values.ValueCount()}, nil
}

func (p *AssertingDocValuesProducer) DocsWithField(field *FieldInfo) (util.Bits, error) {
	check(field.HasDocValues(), "field %v has no doc values", field.Name)
	bits, err := p.in.DocsWithField(field)
	if err != nil || bits == nil {
		return bits, err
	}
	check(bits.Length() == p.maxDoc, "field %v: docsWithField length %v != maxDoc %v",
		field.Name, bits.Length(), p.maxDoc)
	return &assertingBits{bits, field, p}, nil
}

func (p *AssertingDocValuesProducer) CheckIntegrity() error {
	return p.in.CheckIntegrity()
}

func (p *AssertingDocValuesProducer) Close() error {
	return p.in.Close()
}

type assertingBinaryDocValues struct {
	in    BinaryDocValues
	field *FieldInfo
	owner *AssertingDocValuesProducer
}

func (v *assertingBinaryDocValues) Get(docID int) []byte {
	v.owner.checkDoc(v.field, docID)
	return v.in.Get(docID)
}

type assertingSortedDocValues struct {
	in         SortedDocValues
	field      *FieldInfo
	owner      *AssertingDocValuesProducer
	valueCount int
}

func (v *assertingSortedDocValues) checkOrd(ord int) {
	check(ord >= 0 && ord < v.valueCount, "field %v: ordinal %v out of range [0,%v)", v.field.Name, ord, v.valueCount)
}

func (v *assertingSortedDocValues) Get(docID int) []byte {
	v.owner.checkDoc(v.field, docID)
	return v.in.Get(docID)
}

func (v *assertingSortedDocValues) Ord(docID int) int {
	v.owner.checkDoc(v.field, docID)
	ord := v.in.Ord(docID)
	check(ord >= -1 && ord < v.valueCount,
		"field %v: document %v has ordinal %v out of range [-1,%v)", v.field.Name, docID, ord, v.valueCount)
	return ord
}

func (v *assertingSortedDocValues) LookupOrd(ord int) []byte {
	v.checkOrd(ord)
	return v.in.LookupOrd(ord)
}

func (v *assertingSortedDocValues) ValueCount() int {
	n := v.in.ValueCount()
	check(n == v.valueCount, "field %v: value count changed from %v to %v", v.field.Name, v.valueCount, n)
	return n
}

func (v *assertingSortedDocValues) LookupTerm(key []byte) int {
	result := v.in.LookupTerm(key)
	check(result < v.valueCount, "field %v: LookupTerm returned %v", v.field.Name, result)
	if result >= 0 {
		check(util.CompareBytes(v.in.LookupOrd(result), key) == 0,
			"field %v: LookupTerm(%q) returned ordinal %v of a different term", v.field.Name, key, result)
	}
	return result
}

type assertingSortedSetDocValues struct {
	in         SortedSetDocValues
	field      *FieldInfo
	owner      *AssertingDocValuesProducer
	valueCount int64
	docID      int
	positioned bool
	exhausted  bool
	lastOrd    int64
}

func (v *assertingSortedSetDocValues) SetDocument(docID int) {
	v.owner.checkDoc(v.field, docID)
	v.in.SetDocument(docID)
	v.docID = docID
	v.positioned, v.exhausted = true, false
	v.lastOrd = -1
}

func (v *assertingSortedSetDocValues) NextOrd() int64 {
	check(v.positioned, "field %v: NextOrd called before SetDocument", v.field.Name)
	check(!v.exhausted, "field %v: NextOrd called after NO_MORE_ORDS for document %v", v.field.Name, v.docID)
	ord := v.in.NextOrd()
	if ord == NO_MORE_ORDS {
		v.exhausted = true
		return ord
	}
	check(ord >= 0 && ord < v.valueCount, "field %v: document %v has ordinal %v out of range [0,%v)",
		v.field.Name, v.docID, ord, v.valueCount)
	check(ord > v.lastOrd, "field %v: document %v ordinals out of order (%v after %v)",
		v.field.Name, v.docID, ord, v.lastOrd)
	v.lastOrd = ord
	return ord
}

func (v *assertingSortedSetDocValues) LookupOrd(ord int64) []byte {
	check(ord >= 0 && ord < v.valueCount, "field %v: ordinal %v out of range [0,%v)", v.field.Name, ord, v.valueCount)
	return v.in.LookupOrd(ord)
}

func (v *assertingSortedSetDocValues) ValueCount() int64 {
	n := v.in.ValueCount()
	check(n == v.valueCount, "field %v: value count changed from %v to %v", v.field.Name, v.valueCount, n)
	return n
}

func (v *assertingSortedSetDocValues) LookupTerm(key []byte) int64 {
	result := v.in.LookupTerm(key)
	check(result < v.valueCount, "field %v: LookupTerm returned %v", v.field.Name, result)
	if result >= 0 {
		check(util.CompareBytes(v.in.LookupOrd(result), key) == 0,
			"field %v: LookupTerm(%q) returned ordinal %v of a different term", v.field.Name, key, result)
	}
	return result
}

type assertingBits struct {
	in    util.Bits
	field *FieldInfo
	owner *AssertingDocValuesProducer
}

func (b *assertingBits) At(index int) bool {
	b.owner.checkDoc(b.field, index)
	return b.in.At(index)
}

func (b *assertingBits) Length() int { return b.in.Length() }
