package lucene46

import (
	"github.com/ironsweet/docvalues/core/codec"
	. "github.com/ironsweet/docvalues/core/codec/spi"
	. "github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("lucene46")

/*
Lucene 4.6 Field Infos format.

Field names are stored in the field info file, with suffix .fnm.

FieldInfos (.fnm) --> Header, FieldsCount, <FieldName, FieldNumber,
                      FieldBits, DocValuesBits, DocValuesGen,
                      Attributes>^FieldsCount, Footer

Data types:
- Header --> CodecHeader
- FieldsCount --> VInt
- FieldName --> string
- FieldBits, DocValuesBits --> byte
- FieldNumber --> VInt
- DocValuesGen --> Int64
- Attributes --> map[string]string
- Footer --> CodecFooter

Field Description:
- FieldsCount: the number of fields in this file.
- FieldName: name of the field as a UTF-8 string.
- FieldNumber: the field's number. Note that unlike previous versions
  of Lucene, the fields are not numbered implicitly by their order in
  the file, instead explicitly.
- FieldBits: a byte containing field options.
  - The low-order bit is one for indexed fields, and zero for non-indexed
    fields.
  - The second lowest-order bit is one for fields that have term vectors
    stored, and zero for fields without term vectors.
  - If the third lowest order-bit is set (0x4), offsets are stored into
    the postings list in addition to positions.
  - Fourth bit is unused.
  - If the fifth lowest-order bit is set (0x10), norms are omitted for
    the indexed field.
  - If the sixth lowest-order bit is set (0x20), payloads are stored
    for the indexed field.
  - If the seventh lowest-order bit is set (0x40), term frequencies
    and positions omitted for the indexed field.
  - If the eighth lowest-order bit is set (0x80), positions are omitted
    for the indexed field.
- DocValuesBits: a byte containing per-document value types. The type
  recorded as two four-bit integers, with the high-order bits
  representing norms options, and low-order bits representing DocValues
  options. Each four-bit integer can be decoded as such:
  - 0: no DocValues for this field.
  - 1: NumericDocValues.
  - 2: BinaryDocValues.
  - 3: SortedDocValues.
  - 4: SortedSetDocValues.
- DocValuesGen is the generation count of the field's DocValues. If
  this is -1, there are no DocValues updates to that field.
- Attributes: a key-value map of codec-private attributes.
*/
type Lucene46FieldInfosFormat struct {
	r FieldInfosReader
	w FieldInfosWriter
}

func NewLucene46FieldInfosFormat() *Lucene46FieldInfosFormat {
	return &Lucene46FieldInfosFormat{
		r: Lucene46FieldInfosReader,
		w: Lucene46FieldInfosWriter,
	}
}

func (f *Lucene46FieldInfosFormat) FieldInfosReader() FieldInfosReader {
	return f.r
}

func (f *Lucene46FieldInfosFormat) FieldInfosWriter() FieldInfosWriter {
	return f.w
}

const (
	// Extension of field infos
	FI_EXTENSION = "fnm"

	// Codec header
	FI_CODEC_NAME      = "Lucene46FieldInfos"
	FI_FORMAT_START    = 0
	FI_FORMAT_CHECKSUM = 1
	FI_FORMAT_CURRENT  = FI_FORMAT_CHECKSUM

	// Field flags
	FI_IS_INDEXED                   = 0x1
	FI_STORE_TERMVECTOR             = 0x2
	FI_STORE_OFFSETS_IN_POSTINGS    = 0x4
	FI_OMIT_NORMS                   = 0x10
	FI_STORE_PAYLOADS               = 0x20
	FI_OMIT_TERM_FREQ_AND_POSITIONS = 0x40
	FI_OMIT_POSITIONS               = 0x80
)

var Lucene46FieldInfosReader = func(dir store.Directory,
	segment, suffix string, context store.IOContext) (fi FieldInfos, err error) {

	fileName := util.SegmentFileName(segment, suffix, FI_EXTENSION)
	log.Debugf("Reading FieldInfos from %v", fileName)
	var input store.ChecksumIndexInput
	if input, err = dir.OpenChecksumInput(fileName, context); err != nil {
		return fi, err
	}

	var success = false
	defer func() {
		if success {
			err = input.Close()
		} else {
			util.CloseWhileSuppressingError(input)
		}
	}()

	var codecVersion int32
	if codecVersion, err = codec.CheckHeader(input,
		FI_CODEC_NAME,
		FI_FORMAT_START,
		FI_FORMAT_CURRENT); err != nil {
		return fi, err
	}

	var size int32
	if size, err = input.ReadVInt(); err != nil { //read in the size
		return fi, err
	}
	if size < 0 {
		return fi, codec.NewCorruptIndexError(input, "invalid field count: %v", size)
	}
	log.Debugf("Found %v FieldInfos.", size)

	infos := make([]*FieldInfo, size)
	for i := range infos {
		if infos[i], err = readFieldInfo(input); err != nil {
			return fi, err
		}
	}

	if codecVersion >= FI_FORMAT_CHECKSUM {
		if _, err = codec.CheckFooter(input); err != nil {
			return fi, err
		}
	} else {
		log.Warningf("%v predates checksums; verifying end of file only", fileName)
		if err = codec.CheckEOF(input); err != nil {
			return fi, err
		}
	}
	fi = NewFieldInfos(infos)
	success = true
	return fi, nil
}

func readFieldInfo(input store.IndexInput) (*FieldInfo, error) {
	name, err := input.ReadString()
	if err != nil {
		return nil, err
	}
	fieldNumber, err := input.ReadVInt()
	if err != nil {
		return nil, err
	}
	if fieldNumber < 0 {
		return nil, codec.NewCorruptIndexError(input,
			"invalid field number for field: %v, fieldNumber=%v", name, fieldNumber)
	}
	bits, err := input.ReadByte()
	if err != nil {
		return nil, err
	}
	isIndexed := (bits & FI_IS_INDEXED) != 0
	storeTermVector := (bits & FI_STORE_TERMVECTOR) != 0
	omitNorms := (bits & FI_OMIT_NORMS) != 0
	storePayloads := (bits & FI_STORE_PAYLOADS) != 0
	var indexOptions IndexOptions
	switch {
	case !isIndexed:
		indexOptions = INDEX_OPT_NONE
	case (bits & FI_OMIT_TERM_FREQ_AND_POSITIONS) != 0:
		indexOptions = INDEX_OPT_DOCS_ONLY
	case (bits & FI_OMIT_POSITIONS) != 0:
		indexOptions = INDEX_OPT_DOCS_AND_FREQS
	case (bits & FI_STORE_OFFSETS_IN_POSTINGS) != 0:
		indexOptions = INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS
	default:
		indexOptions = INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS
	}

	// DV Types are packed in one byte
	val, err := input.ReadByte()
	if err != nil {
		return nil, err
	}
	docValuesType, err := getDocValuesType(input, val&0x0F)
	if err != nil {
		return nil, err
	}
	normsType, err := getDocValuesType(input, (val>>4)&0x0F)
	if err != nil {
		return nil, err
	}
	dvGen, err := input.ReadLong()
	if err != nil {
		return nil, err
	}
	attributes, err := input.ReadStringStringMap()
	if err != nil {
		return nil, err
	}
	// flag combinations are decoded as written
	return DecodeFieldInfo(name, isIndexed, fieldNumber, storeTermVector,
		omitNorms, storePayloads, indexOptions, docValuesType, normsType, dvGen, attributes), nil
}

func getDocValuesType(input store.IndexInput, b byte) (DocValuesType, error) {
	t := DocValuesType(b)
	if !t.IsValid() {
		return DOC_VALUES_TYPE_NONE, codec.NewCorruptIndexError(input, "invalid docvalues byte: %v", b)
	}
	return t, nil
}

func docValuesByte(t DocValuesType) byte {
	assert(t.IsValid())
	return byte(t)
}

var Lucene46FieldInfosWriter = func(dir store.Directory,
	segName, suffix string, infos FieldInfos, ctx store.IOContext) (err error) {

	fileName := util.SegmentFileName(segName, suffix, FI_EXTENSION)
	var output store.IndexOutput
	if output, err = dir.CreateOutput(fileName, ctx); err != nil {
		return err
	}

	var success = false
	defer func() {
		if success {
			err = output.Close()
		} else {
			util.CloseWhileSuppressingError(output)
			dir.DeleteFile(fileName) // ignore error
		}
	}()

	if err = codec.WriteHeader(output, FI_CODEC_NAME, FI_FORMAT_CURRENT); err != nil {
		return err
	}
	if err = output.WriteVInt(int32(infos.Size())); err != nil {
		return err
	}
	for _, fi := range infos.Values {
		if err = writeFieldInfo(output, fi); err != nil {
			return err
		}
	}
	if err = codec.WriteFooter(output); err != nil {
		return err
	}
	log.Debugf("Wrote %v FieldInfos to %v", infos.Size(), fileName)
	success = true
	return nil
}

func writeFieldInfo(output store.IndexOutput, fi *FieldInfo) (err error) {
	indexOptions := fi.IndexOptions()
	bits := byte(0x0)
	if fi.HasVectors() {
		bits |= FI_STORE_TERMVECTOR
	}
	if fi.OmitsNorms() {
		bits |= FI_OMIT_NORMS
	}
	if fi.HasPayloads() {
		bits |= FI_STORE_PAYLOADS
	}
	if fi.IsIndexed() {
		bits |= FI_IS_INDEXED
		assert(indexOptions >= INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS || !fi.HasPayloads())
		switch indexOptions {
		case INDEX_OPT_DOCS_ONLY:
			bits |= FI_OMIT_TERM_FREQ_AND_POSITIONS
		case INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS:
			bits |= FI_STORE_OFFSETS_IN_POSTINGS
		case INDEX_OPT_DOCS_AND_FREQS:
			bits |= FI_OMIT_POSITIONS
		}
	}
	if err = output.WriteString(fi.Name); err != nil {
		return
	}
	if err = output.WriteVInt(fi.Number); err != nil {
		return
	}
	if err = output.WriteByte(bits); err != nil {
		return
	}

	// pack the DV types in one byte
	dv := docValuesByte(fi.DocValuesType())
	nrm := docValuesByte(fi.NormType())
	assert((dv&(^byte(0xF))) == 0 && (nrm&(^byte(0x0F))) == 0)
	if err = output.WriteByte((nrm << 4) | dv); err != nil {
		return
	}
	if err = output.WriteLong(fi.DocValuesGen()); err != nil {
		return
	}
	return output.WriteStringStringMap(fi.Attributes())
}
