package lucene45

import (
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/ironsweet/docvalues/core/codec"
	. "github.com/ironsweet/docvalues/core/codec/spi"
	. "github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util"
	"github.com/ironsweet/docvalues/core/util/packed"
)

type numericEntry struct {
	missingOffset int64
	missingLength int64
	count         int
	minValue      int64
	bitsPerValue  int
	offset        int64
}

type binaryEntry struct {
	missingOffset   int64
	missingLength   int64
	count           int
	minLength       int
	maxLength       int
	compression     Compression
	offset          int64
	storedLength    int64
	rawLength       int64
	addressesOffset int64
	addressBits     int
}

type ordListEntry struct {
	count           int
	offset          int64
	length          int64
	addressesOffset int64
	addressBits     int
}

type fieldEntry struct {
	kind    byte
	numeric *numericEntry // NUMERIC values, SORTED ords
	binary  *binaryEntry  // BINARY values, SORTED and SORTED_SET dictionaries
	ordList *ordListEntry // SORTED_SET ords
}

/*
Reader for Lucene45DocValuesFormat.

All metadata is read when the producer is opened; per-field data is
read on first access and cached. Cached data is immutable, so
accessors can be shared freely, except for SortedSetDocValues which
keeps a per-instance iteration cursor.
*/
type Lucene45DocValuesProducer struct {
	sync.Mutex
	data    store.IndexInput
	fields  map[int32]*fieldEntry
	maxDoc  int
	version int32

	numericInstances map[int32]*loadedNumeric
	binaryInstances  map[int32]*loadedBinary
	ordInstances     map[int32]*loadedOrdList
	bitsInstances    map[int32]util.Bits
}

func newLucene45DocValuesProducer(state SegmentReadState,
	dataCodec, dataExtension, metaCodec, metaExtension string) (dvp *Lucene45DocValuesProducer, err error) {

	dvp = &Lucene45DocValuesProducer{
		fields:           make(map[int32]*fieldEntry),
		maxDoc:           state.SegmentInfo.DocCount(),
		numericInstances: make(map[int32]*loadedNumeric),
		binaryInstances:  make(map[int32]*loadedBinary),
		ordInstances:     make(map[int32]*loadedOrdList),
		bitsInstances:    make(map[int32]util.Bits),
	}

	metaName := util.SegmentFileName(state.SegmentInfo.Name, state.SegmentSuffix, metaExtension)
	in, err := state.Dir.OpenChecksumInput(metaName, state.Context)
	if err != nil {
		return nil, err
	}
	success := false
	defer func() {
		if success {
			err = util.Close(in)
		} else {
			util.CloseWhileSuppressingError(in)
		}
	}()

	if dvp.version, err = codec.CheckHeader(in, metaCodec, DV_VERSION_START, DV_VERSION_CURRENT); err != nil {
		return nil, err
	}
	if err = dvp.readFields(in, state.FieldInfos); err != nil {
		return nil, err
	}
	if dvp.version >= DV_VERSION_CHECKSUM {
		_, err = codec.CheckFooter(in)
	} else {
		err = codec.CheckEOF(in)
	}
	if err != nil {
		return nil, err
	}
	success = true

	dataName := util.SegmentFileName(state.SegmentInfo.Name, state.SegmentSuffix, dataExtension)
	if dvp.data, err = state.Dir.OpenInput(dataName, state.Context); err != nil {
		return nil, err
	}
	success2 := false
	defer func() {
		if !success2 {
			util.CloseWhileSuppressingError(dvp.data)
		}
	}()

	var version2 int32
	if version2, err = codec.CheckHeader(dvp.data, dataCodec, DV_VERSION_START, DV_VERSION_CURRENT); err != nil {
		return nil, err
	}
	if version2 != dvp.version {
		return nil, codec.NewCorruptIndexError(dvp.data,
			"Format versions mismatch: meta=%v, data=%v", dvp.version, version2)
	}
	if dvp.version >= DV_VERSION_CHECKSUM {
		// NOTE: data file is too costly to verify checksum against all
		// the bytes on open, but for now we at least verify proper
		// structure of the checksum footer.
		if _, err = codec.RetrieveChecksum(dvp.data); err != nil {
			return nil, err
		}
	}
	success2 = true
	return dvp, nil
}

func (dvp *Lucene45DocValuesProducer) readFields(meta store.IndexInput, infos FieldInfos) (err error) {
	var fieldNumber int32
	for fieldNumber, err = meta.ReadVInt(); err == nil && fieldNumber != -1; fieldNumber, err = meta.ReadVInt() {
		if infos.FieldInfoByNumber(int(fieldNumber)) == nil {
			// trickier to validate more: because we re-use for norms,
			// because we use multiple entries for "composite" types like
			// sortedset, etc.
			return codec.NewCorruptIndexError(meta, "Invalid field number: %v", fieldNumber)
		}
		var kind byte
		if kind, err = meta.ReadByte(); err != nil {
			return err
		}
		entry := &fieldEntry{kind: kind}
		switch kind {
		case DV_NUMERIC:
			entry.numeric, err = readNumericEntry(meta)
		case DV_BINARY:
			entry.binary, err = readBinaryEntry(meta)
		case DV_SORTED:
			if entry.binary, err = readBinaryEntry(meta); err == nil {
				entry.numeric, err = readNumericEntry(meta)
			}
		case DV_SORTED_SET:
			if entry.binary, err = readBinaryEntry(meta); err == nil {
				entry.ordList, err = readOrdListEntry(meta)
			}
		default:
			return codec.NewCorruptIndexError(meta, "invalid entry type: %v", kind)
		}
		if err != nil {
			return err
		}
		dvp.fields[fieldNumber] = entry
	}
	return err
}

func readNumericEntry(meta store.IndexInput) (entry *numericEntry, err error) {
	entry = new(numericEntry)
	var n int32
	if entry.missingOffset, err = meta.ReadLong(); err != nil {
		return nil, err
	}
	if entry.missingLength, err = meta.ReadLong(); err != nil {
		return nil, err
	}
	if n, err = meta.ReadVInt(); err != nil {
		return nil, err
	}
	entry.count = int(n)
	if entry.minValue, err = meta.ReadLong(); err != nil {
		return nil, err
	}
	if n, err = meta.ReadVInt(); err != nil {
		return nil, err
	}
	entry.bitsPerValue = int(n)
	if entry.offset, err = meta.ReadLong(); err != nil {
		return nil, err
	}
	if entry.count < 0 || entry.bitsPerValue < 0 || entry.bitsPerValue > 64 {
		return nil, codec.NewCorruptIndexError(meta,
			"invalid numeric entry: count=%v bitsPerValue=%v", entry.count, entry.bitsPerValue)
	}
	return entry, nil
}

func readBinaryEntry(meta store.IndexInput) (entry *binaryEntry, err error) {
	entry = new(binaryEntry)
	var n int32
	var b byte
	if entry.missingOffset, err = meta.ReadLong(); err != nil {
		return nil, err
	}
	if entry.missingLength, err = meta.ReadLong(); err != nil {
		return nil, err
	}
	if n, err = meta.ReadVInt(); err != nil {
		return nil, err
	}
	entry.count = int(n)
	if n, err = meta.ReadVInt(); err != nil {
		return nil, err
	}
	entry.minLength = int(n)
	if n, err = meta.ReadVInt(); err != nil {
		return nil, err
	}
	entry.maxLength = int(n)
	if b, err = meta.ReadByte(); err != nil {
		return nil, err
	}
	entry.compression = Compression(b)
	if entry.offset, err = meta.ReadLong(); err != nil {
		return nil, err
	}
	if entry.storedLength, err = meta.ReadLong(); err != nil {
		return nil, err
	}
	if entry.rawLength, err = meta.ReadLong(); err != nil {
		return nil, err
	}
	if entry.addressesOffset, err = meta.ReadLong(); err != nil {
		return nil, err
	}
	if n, err = meta.ReadVInt(); err != nil {
		return nil, err
	}
	entry.addressBits = int(n)
	if entry.count < 0 || entry.compression > COMPRESSION_ZSTD {
		return nil, codec.NewCorruptIndexError(meta,
			"invalid binary entry: count=%v compression=%v", entry.count, b)
	}
	if entry.minLength == entry.maxLength && entry.rawLength != int64(entry.count)*int64(entry.minLength) {
		return nil, codec.NewCorruptIndexError(meta,
			"invalid binary entry: %v values of length %v but %v bytes",
			entry.count, entry.minLength, entry.rawLength)
	}
	return entry, nil
}

func readOrdListEntry(meta store.IndexInput) (entry *ordListEntry, err error) {
	entry = new(ordListEntry)
	var n int32
	if n, err = meta.ReadVInt(); err != nil {
		return nil, err
	}
	entry.count = int(n)
	if entry.offset, err = meta.ReadLong(); err != nil {
		return nil, err
	}
	if entry.length, err = meta.ReadLong(); err != nil {
		return nil, err
	}
	if entry.addressesOffset, err = meta.ReadLong(); err != nil {
		return nil, err
	}
	if n, err = meta.ReadVInt(); err != nil {
		return nil, err
	}
	entry.addressBits = int(n)
	return entry, nil
}

func (dvp *Lucene45DocValuesProducer) entry(field *FieldInfo, kind byte) (*fieldEntry, error) {
	entry, ok := dvp.fields[field.Number]
	if !ok {
		return nil, fmt.Errorf("no doc values written for field '%v'", field.Name)
	}
	if entry.kind != kind {
		return nil, fmt.Errorf("field '%v' was written as %v, not %v",
			field.Name, kindName(entry.kind), kindName(kind))
	}
	return entry, nil
}

func kindName(kind byte) string {
	switch kind {
	case DV_NUMERIC:
		return "NUMERIC"
	case DV_BINARY:
		return "BINARY"
	case DV_SORTED:
		return "SORTED"
	case DV_SORTED_SET:
		return "SORTED_SET"
	}
	return fmt.Sprintf("UNKNOWN(%v)", kind)
}

// Reads length bytes at offset. Caller must hold the lock.
func (dvp *Lucene45DocValuesProducer) readBlock(offset, length int64) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > dvp.data.Length() {
		return nil, codec.NewCorruptIndexError(dvp.data,
			"block [%v, %v) out of bounds (length=%v)", offset, offset+length, dvp.data.Length())
	}
	buf := make([]byte, length)
	if err := dvp.data.Seek(offset); err != nil {
		return nil, err
	}
	if err := dvp.data.ReadBytes(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (dvp *Lucene45DocValuesProducer) readPacked(offset int64, count, bitsPerValue int) (*packed.Reader, error) {
	buf, err := dvp.readBlock(offset, packed.ByteCount(count, bitsPerValue))
	if err != nil {
		return nil, err
	}
	r, err := packed.NewReader(buf, count, bitsPerValue)
	if err != nil {
		return nil, codec.NewCorruptIndexError(dvp.data, "%v", err)
	}
	return r, nil
}

type loadedNumeric struct {
	minValue int64
	values   *packed.Reader
}

func (n *loadedNumeric) get(docID int) int64 {
	return int64(uint64(n.minValue) + uint64(n.values.Get(docID)))
}

func (dvp *Lucene45DocValuesProducer) loadNumeric(number int32, entry *numericEntry) (*loadedNumeric, error) {
	dvp.Lock()
	defer dvp.Unlock()
	if v, ok := dvp.numericInstances[number]; ok {
		return v, nil
	}
	r, err := dvp.readPacked(entry.offset, entry.count, entry.bitsPerValue)
	if err != nil {
		return nil, err
	}
	v := &loadedNumeric{entry.minValue, r}
	dvp.numericInstances[number] = v
	return v, nil
}

func (dvp *Lucene45DocValuesProducer) Numeric(field *FieldInfo) (NumericDocValues, error) {
	entry, err := dvp.entry(field, DV_NUMERIC)
	if err != nil {
		return nil, err
	}
	n, err := dvp.loadNumeric(field.Number, entry.numeric)
	if err != nil {
		return nil, err
	}
	return n.get, nil
}

type loadedBinary struct {
	raw       []byte
	count     int
	width     int
	addresses *packed.Reader // nil for fixed width
}

func (b *loadedBinary) Get(docID int) []byte {
	if b.addresses == nil {
		start := docID * b.width
		return b.raw[start : start+b.width : start+b.width]
	}
	start, end := b.addresses.Get(docID), b.addresses.Get(docID+1)
	return b.raw[start:end:end]
}

func (dvp *Lucene45DocValuesProducer) loadBinary(number int32, entry *binaryEntry) (*loadedBinary, error) {
	dvp.Lock()
	defer dvp.Unlock()
	if v, ok := dvp.binaryInstances[number]; ok {
		return v, nil
	}
	stored, err := dvp.readBlock(entry.offset, entry.storedLength)
	if err != nil {
		return nil, err
	}
	raw, err := decompress(stored, entry.compression, entry.rawLength)
	if err != nil {
		return nil, codec.NewCorruptIndexError(dvp.data, "%v", err)
	}
	if int64(len(raw)) != entry.rawLength {
		return nil, codec.NewCorruptIndexError(dvp.data,
			"binary block holds %v bytes, expected %v", len(raw), entry.rawLength)
	}
	v := &loadedBinary{raw: raw, count: entry.count, width: entry.minLength}
	if entry.addressesOffset != -1 {
		if v.addresses, err = dvp.readPacked(entry.addressesOffset, entry.count+1, entry.addressBits); err != nil {
			return nil, err
		}
	}
	log.Debugf("Loaded %v binary values (%v bytes, %v) of field %v",
		entry.count, entry.rawLength, entry.compression, number)
	dvp.binaryInstances[number] = v
	return v, nil
}

func (dvp *Lucene45DocValuesProducer) Binary(field *FieldInfo) (BinaryDocValues, error) {
	entry, err := dvp.entry(field, DV_BINARY)
	if err != nil {
		return nil, err
	}
	b, err := dvp.loadBinary(field.Number, entry.binary)
	if err != nil {
		return nil, err
	}
	if entry.binary.missingOffset == -1 {
		return b, nil
	}
	docsWithField, err := dvp.DocsWithField(field)
	if err != nil {
		return nil, err
	}
	return &missingAwareBinary{b, docsWithField}, nil
}

/* Returns nil for documents without a value. */
type missingAwareBinary struct {
	values        BinaryDocValues
	docsWithField util.Bits
}

func (b *missingAwareBinary) Get(docID int) []byte {
	if !b.docsWithField.At(docID) {
		return nil
	}
	return b.values.Get(docID)
}

func (dvp *Lucene45DocValuesProducer) Sorted(field *FieldInfo) (SortedDocValues, error) {
	entry, err := dvp.entry(field, DV_SORTED)
	if err != nil {
		return nil, err
	}
	dict, err := dvp.loadBinary(field.Number, entry.binary)
	if err != nil {
		return nil, err
	}
	ords, err := dvp.loadNumeric(field.Number, entry.numeric)
	if err != nil {
		return nil, err
	}
	return NewSortedDocValuesView(
		func(docID int) int { return int(ords.get(docID)) },
		dict.Get,
		dict.count), nil
}

type loadedOrdList struct {
	data      []byte
	addresses *packed.Reader
}

func (dvp *Lucene45DocValuesProducer) loadOrdList(number int32, entry *ordListEntry) (*loadedOrdList, error) {
	dvp.Lock()
	defer dvp.Unlock()
	if v, ok := dvp.ordInstances[number]; ok {
		return v, nil
	}
	data, err := dvp.readBlock(entry.offset, entry.length)
	if err != nil {
		return nil, err
	}
	addresses, err := dvp.readPacked(entry.addressesOffset, entry.count+1, entry.addressBits)
	if err != nil {
		return nil, err
	}
	v := &loadedOrdList{data, addresses}
	dvp.ordInstances[number] = v
	return v, nil
}

func (dvp *Lucene45DocValuesProducer) SortedSet(field *FieldInfo) (SortedSetDocValues, error) {
	entry, err := dvp.entry(field, DV_SORTED_SET)
	if err != nil {
		return nil, err
	}
	dict, err := dvp.loadBinary(field.Number, entry.binary)
	if err != nil {
		return nil, err
	}
	ords, err := dvp.loadOrdList(field.Number, entry.ordList)
	if err != nil {
		return nil, err
	}
	return &sortedSetDocValues{
		dict:  dict,
		ords:  ords,
		input: store.NewByteArrayDataInput(nil),
	}, nil
}

type sortedSetDocValues struct {
	dict    *loadedBinary
	ords    *loadedOrdList
	input   *store.ByteArrayDataInput
	current int64
}

func (v *sortedSetDocValues) SetDocument(docID int) {
	start, end := v.ords.addresses.Get(docID), v.ords.addresses.Get(docID+1)
	v.input.Reset(v.ords.data[start:end])
	v.current = 0
}

func (v *sortedSetDocValues) NextOrd() int64 {
	if v.input.EOF() {
		return NO_MORE_ORDS
	}
	delta, err := v.input.ReadVLong()
	if err != nil {
		panic(fmt.Sprintf("corrupt ord list: %v", err))
	}
	v.current += delta
	return v.current
}

func (v *sortedSetDocValues) LookupOrd(ord int64) []byte { return v.dict.Get(int(ord)) }
func (v *sortedSetDocValues) ValueCount() int64          { return int64(v.dict.count) }

func (v *sortedSetDocValues) LookupTerm(key []byte) int64 {
	return LookupTerm(int64(v.dict.count), v.LookupOrd, key)
}

/* Bits backed by a function, for fields whose presence is derived from other data. */
type bitsFunc struct {
	at     func(int) bool
	length int
}

func (b bitsFunc) At(index int) bool { return b.at(index) }
func (b bitsFunc) Length() int       { return b.length }

func (dvp *Lucene45DocValuesProducer) loadMissingBits(number int32, offset, length int64) (util.Bits, error) {
	if offset == -1 {
		return util.MatchAllBits(dvp.maxDoc), nil
	}
	dvp.Lock()
	defer dvp.Unlock()
	if v, ok := dvp.bitsInstances[number]; ok {
		return v, nil
	}
	buf, err := dvp.readBlock(offset, length)
	if err != nil {
		return nil, err
	}
	rb := roaring.New()
	if err = rb.UnmarshalBinary(buf); err != nil {
		return nil, codec.NewCorruptIndexError(dvp.data, "invalid docs-with-field bitmap: %v", err)
	}
	v := util.NewRoaringBits(rb, dvp.maxDoc)
	dvp.bitsInstances[number] = v
	return v, nil
}

func (dvp *Lucene45DocValuesProducer) DocsWithField(field *FieldInfo) (util.Bits, error) {
	entry, ok := dvp.fields[field.Number]
	if !ok {
		return nil, fmt.Errorf("no doc values written for field '%v'", field.Name)
	}
	switch entry.kind {
	case DV_NUMERIC:
		return dvp.loadMissingBits(field.Number, entry.numeric.missingOffset, entry.numeric.missingLength)
	case DV_BINARY:
		return dvp.loadMissingBits(field.Number, entry.binary.missingOffset, entry.binary.missingLength)
	case DV_SORTED:
		ords, err := dvp.loadNumeric(field.Number, entry.numeric)
		if err != nil {
			return nil, err
		}
		return bitsFunc{func(docID int) bool { return ords.get(docID) != -1 }, dvp.maxDoc}, nil
	case DV_SORTED_SET:
		ords, err := dvp.loadOrdList(field.Number, entry.ordList)
		if err != nil {
			return nil, err
		}
		return bitsFunc{func(docID int) bool {
			return ords.addresses.Get(docID+1) > ords.addresses.Get(docID)
		}, dvp.maxDoc}, nil
	}
	panic("unreachable")
}

func (dvp *Lucene45DocValuesProducer) CheckIntegrity() error {
	if dvp.version < DV_VERSION_CHECKSUM {
		return nil
	}
	dvp.Lock()
	defer dvp.Unlock()
	_, err := codec.ChecksumEntireFile(dvp.data)
	return err
}

func (dvp *Lucene45DocValuesProducer) Close() error {
	return dvp.data.Close()
}
