package index

import (
	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util"
	"github.com/pkg/errors"
)

// index/SegmentReader.java

/*
IndexReader implementation over a single segment.

Instances pointing to the same segment (but using different deletes,
etc) may share the same core data.
*/
type SegmentReader struct {
	*IndexReaderImpl
	si                *model.SegmentInfo
	fieldInfos        model.FieldInfos
	docValuesProducer spi.DocValuesProducer // nil when no field has doc values
	readerContext     *AtomicReaderContext
}

/*
Opens a reader over the segment described by si, which must carry the
codec it was written with.
*/
func NewSegmentReader(si *model.SegmentInfo, ctx store.IOContext) (r *SegmentReader, err error) {
	codec, ok := si.Codec().(spi.Codec)
	assert2(ok, "segment %v has no codec", si.Name)
	dir := si.Dir

	r = &SegmentReader{si: si}
	r.IndexReaderImpl = newIndexReader(r)
	r.readerContext = newAtomicReaderContextFromReader(r)

	if r.fieldInfos, err = codec.FieldInfosFormat().FieldInfosReader()(
		dir, si.Name, "", store.IO_CONTEXT_READONCE); err != nil {
		return nil, errors.Wrapf(err, "read field infos of segment %v", si.Name)
	}
	if r.fieldInfos.HasDocValues {
		state := model.NewSegmentReadState(dir, si, r.fieldInfos, ctx)
		if r.docValuesProducer, err = codec.DocValuesFormat().FieldsProducer(state); err != nil {
			return nil, errors.Wrapf(err, "open doc values of segment %v", si.Name)
		}
	}
	log.Debugf("Opened segment %v: %v docs, %v fields", si.Name, si.DocCount(), r.fieldInfos.Size())
	return r, nil
}

func (r *SegmentReader) doClose() error {
	if r.docValuesProducer != nil {
		return r.docValuesProducer.Close()
	}
	return nil
}

func (r *SegmentReader) Context() IndexReaderContext {
	r.ensureOpen()
	return r.readerContext
}

func (r *SegmentReader) NumDocs() int {
	return r.si.DocCount()
}

func (r *SegmentReader) MaxDoc() int {
	return r.si.DocCount()
}

func (r *SegmentReader) FieldInfos() model.FieldInfos {
	r.ensureOpen()
	return r.fieldInfos
}

/* Return the SegmentInfo of the segment this reader is reading. */
func (r *SegmentReader) SegmentInfo() *model.SegmentInfo {
	return r.si
}

/* Return the name of the segment this reader is reading. */
func (r *SegmentReader) SegmentName() string {
	return r.si.Name
}

/* Returns the directory this index resides in. */
func (r *SegmentReader) Directory() store.Directory {
	return r.si.Dir
}

func (r *SegmentReader) String() string {
	return r.si.String()
}

/*
Returns the FieldInfo of field if it has doc values of type expected,
nil if it has no doc values at all, or an error for another type.
*/
func (r *SegmentReader) docValuesField(field string, expected model.DocValuesType) (*model.FieldInfo, error) {
	r.ensureOpen()
	fi := r.fieldInfos.FieldInfoByName(field)
	if fi == nil || fi.DocValuesType() == model.DOC_VALUES_TYPE_NONE {
		// Field does not exist or has no doc values
		return nil, nil
	}
	if fi.DocValuesType() != expected {
		return nil, spi.NewIllegalArgumentError(
			"field \"%v\" was indexed with docValuesType=%v; cannot get %v",
			field, fi.DocValuesType(), expected)
	}
	return fi, nil
}

func (r *SegmentReader) NumericDocValues(field string) (spi.NumericDocValues, error) {
	fi, err := r.docValuesField(field, model.DOC_VALUES_TYPE_NUMERIC)
	if fi == nil || err != nil {
		return nil, err
	}
	return r.docValuesProducer.Numeric(fi)
}

func (r *SegmentReader) BinaryDocValues(field string) (spi.BinaryDocValues, error) {
	fi, err := r.docValuesField(field, model.DOC_VALUES_TYPE_BINARY)
	if fi == nil || err != nil {
		return nil, err
	}
	return r.docValuesProducer.Binary(fi)
}

func (r *SegmentReader) SortedDocValues(field string) (spi.SortedDocValues, error) {
	fi, err := r.docValuesField(field, model.DOC_VALUES_TYPE_SORTED)
	if fi == nil || err != nil {
		return nil, err
	}
	return r.docValuesProducer.Sorted(fi)
}

func (r *SegmentReader) SortedSetDocValues(field string) (spi.SortedSetDocValues, error) {
	fi, err := r.docValuesField(field, model.DOC_VALUES_TYPE_SORTED_SET)
	if fi == nil || err != nil {
		return nil, err
	}
	return r.docValuesProducer.SortedSet(fi)
}

func (r *SegmentReader) DocsWithField(field string) (util.Bits, error) {
	r.ensureOpen()
	fi := r.fieldInfos.FieldInfoByName(field)
	if fi == nil || fi.DocValuesType() == model.DOC_VALUES_TYPE_NONE {
		return nil, nil
	}
	return r.docValuesProducer.DocsWithField(fi)
}

/* Re-reads every doc values file of the segment and verifies its checksum. */
func (r *SegmentReader) CheckIntegrity() error {
	r.ensureOpen()
	if r.docValuesProducer != nil {
		if err := r.docValuesProducer.CheckIntegrity(); err != nil {
			return errors.Wrapf(err, "segment %v", r.si.Name)
		}
	}
	return nil
}
