package index

import (
	"sort"

	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/document"
	"github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("index")

// index/DocumentsWriterPerThread.java

/*
Buffers the doc values of added documents in RAM and writes them as
one new segment on Flush(). A SegmentWriter is used by a single
goroutine at a time and can flush only once.
*/
type SegmentWriter struct {
	directory  store.Directory
	segment    string
	config     *Config
	codec      spi.Codec
	infoStream util.InfoStream

	fieldNumbers *model.FieldNumbers
	fieldInfos   *model.FieldInfosBuilder
	writers      map[string]DocValuesWriter
	bytesUsed    util.Counter
	numDocsInRAM int
	flushed      bool
}

/*
Creates a writer for the segment named segment. Field numbers are
drawn from fieldNumbers, which may be shared across the segments of
one index to keep numbers and doc values types stable; nil allocates
a private registry.
*/
func NewSegmentWriter(dir store.Directory, segment string, conf *Config,
	fieldNumbers *model.FieldNumbers) (*SegmentWriter, error) {

	codec, err := conf.Codec()
	if err != nil {
		return nil, err
	}
	if fieldNumbers == nil {
		fieldNumbers = model.NewFieldNumbers()
	}
	return &SegmentWriter{
		directory:    dir,
		segment:      segment,
		config:       conf,
		codec:        codec,
		infoStream:   conf.InfoStream(),
		fieldNumbers: fieldNumbers,
		fieldInfos:   model.NewFieldInfosBuilder(fieldNumbers),
		writers:      make(map[string]DocValuesWriter),
		bytesUsed:    util.NewCounter(),
	}, nil
}

func (w *SegmentWriter) Segment() string { return w.segment }

func (w *SegmentWriter) NumDocs() int { return w.numDocsInRAM }

/* Returns the approximate RAM held by buffered values. */
func (w *SegmentWriter) RamBytesUsed() int64 {
	ans := w.bytesUsed.Get()
	for _, dvw := range w.writers {
		ans += dvw.RamBytesUsed()
	}
	return ans
}

/*
Adds one document. Fields without doc values that are not indexed are
ignored. The document is validated as a whole first, so a rejected
document leaves no trace in the segment.
*/
func (w *SegmentWriter) AddDocument(doc *document.Document) error {
	assert2(!w.flushed, "segment %v was already flushed", w.segment)
	if err := w.validate(doc); err != nil {
		return err
	}

	docID := w.numDocsInRAM
	for _, field := range doc.Fields() {
		ft := field.FieldType()
		if !ft.Indexed() && ft.DocValueType() == model.DOC_VALUES_TYPE_NONE {
			continue
		}
		fi, err := w.fieldInfos.AddOrUpdate(field.Name(), ft.Model())
		if err != nil {
			return spi.NewIllegalArgumentError("%v", err)
		}
		if ft.DocValueType() != model.DOC_VALUES_TYPE_NONE {
			if err = w.addDocValue(docID, fi, field); err != nil {
				return err
			}
		}
	}
	w.numDocsInRAM++
	return nil
}

func (w *SegmentWriter) validate(doc *document.Document) error {
	seen := make(map[string]model.DocValuesType)
	for _, field := range doc.Fields() {
		name, dvType := field.Name(), field.FieldType().DocValueType()
		if dvType == model.DOC_VALUES_TYPE_NONE {
			continue
		}
		if current := w.fieldNumbers.DocValuesType(name); current != model.DOC_VALUES_TYPE_NONE && current != dvType {
			return spi.NewIllegalArgumentError(
				"cannot change DocValues type from %v to %v for field \"%v\"", current, dvType, name)
		}
		if prev, ok := seen[name]; ok {
			if prev != dvType {
				return spi.NewIllegalArgumentError(
					"cannot change DocValues type from %v to %v for field \"%v\"", prev, dvType, name)
			}
			if dvType != model.DOC_VALUES_TYPE_SORTED_SET {
				return duplicateValueError(name)
			}
		}
		seen[name] = dvType

		if dvType == model.DOC_VALUES_TYPE_NUMERIC {
			if _, ok := field.NumericValue(); !ok {
				return spi.NewIllegalArgumentError("field=\"%v\": null value not allowed", name)
			}
			continue
		}
		value := field.BinaryValue()
		if value == nil {
			return spi.NewIllegalArgumentError("field=\"%v\": null value not allowed", name)
		}
		if len(value) > MAX_DOC_VALUES_LENGTH {
			return spi.NewIllegalArgumentError(
				"DocValuesField \"%v\" is too large, must be <= %v", name, MAX_DOC_VALUES_LENGTH)
		}
	}
	return nil
}

func (w *SegmentWriter) addDocValue(docID int, fi *model.FieldInfo, field document.IndexableField) error {
	dvw, ok := w.writers[fi.Name]
	if !ok {
		dvw = newDocValuesWriter(fi, w.bytesUsed)
		w.writers[fi.Name] = dvw
	}
	switch dvw := dvw.(type) {
	case *numericDocValuesWriter:
		v, _ := field.NumericValue()
		return dvw.addValue(docID, v)
	case *binaryDocValuesWriter:
		return dvw.addValue(docID, field.BinaryValue())
	case *sortedDocValuesWriter:
		return dvw.addValue(docID, field.BinaryValue())
	case *sortedSetDocValuesWriter:
		return dvw.addValue(docID, field.BinaryValue())
	}
	panic("unknown doc values writer")
}

/*
Writes the buffered documents as a new segment: doc values through
the codec's doc values format, then field infos, then the segment
info carrying the list of written files. On failure every file
written so far is deleted.
*/
func (w *SegmentWriter) Flush() (si *model.SegmentInfo, err error) {
	assert2(!w.flushed, "segment %v was already flushed", w.segment)
	w.flushed = true

	diagnostics := map[string]string{
		"source":     "flush",
		"os":         util.OS_NAME,
		"os.arch":    util.OS_ARCH,
		"go.version": util.GO_VERSION,
		"version":    util.LUCENE_MAIN_VERSION,
	}
	for k, v := range w.config.Diagnostics() {
		diagnostics[k] = v
	}
	si = model.NewSegmentInfo(w.directory, util.LUCENE_MAIN_VERSION, w.segment,
		w.numDocsInRAM, false, w.codec, diagnostics, nil)
	fieldInfos := w.fieldInfos.Finish()

	trackingDir := store.NewTrackingDirectoryWrapper(w.directory)
	ctx := store.NewIOContextForFlush(&store.FlushInfo{
		NumDocs:              w.numDocsInRAM,
		EstimatedSegmentSize: w.RamBytesUsed(),
	})
	state := model.NewSegmentWriteState(w.infoStream, trackingDir, si, fieldInfos, ctx)

	var success = false
	defer func() {
		if !success {
			util.DeleteFilesIgnoringErrors(w.directory, trackingDir.CreatedFiles()...)
		}
	}()

	if w.infoStream.IsEnabled("SW") {
		w.infoStream.Message("SW", "flush doc values as segment %v numDocs=%v", w.segment, w.numDocsInRAM)
	}
	if fieldInfos.HasDocValues {
		if err = w.flushDocValues(state, fieldInfos); err != nil {
			return nil, errors.Wrapf(err, "flush doc values of segment %v", w.segment)
		}
	}
	if err = w.codec.FieldInfosFormat().FieldInfosWriter()(trackingDir,
		w.segment, "", fieldInfos, store.IO_CONTEXT_DEFAULT); err != nil {
		return nil, errors.Wrapf(err, "write field infos of segment %v", w.segment)
	}

	files := make(map[string]bool)
	for _, name := range trackingDir.CreatedFiles() {
		files[name] = true
	}
	si.SetFiles(files)
	if err = w.codec.SegmentInfoFormat().SegmentInfoWriter().Write(trackingDir,
		si, fieldInfos, store.IO_CONTEXT_DEFAULT); err != nil {
		return nil, errors.Wrapf(err, "write segment info of segment %v", w.segment)
	}

	log.Debugf("Flushed segment %v: %v docs, %v fields, files %v",
		w.segment, w.numDocsInRAM, fieldInfos.Size(), si.SortedFiles())
	success = true
	return si, nil
}

func (w *SegmentWriter) flushDocValues(state *model.SegmentWriteState, fieldInfos model.FieldInfos) (err error) {
	var consumer spi.DocValuesConsumer
	if consumer, err = w.codec.DocValuesFormat().FieldsConsumer(state); err != nil {
		return err
	}
	var success = false
	defer func() {
		if success {
			err = consumer.Close()
		} else {
			util.CloseWhileSuppressingError(consumer)
		}
	}()

	names := make([]string, 0, len(w.writers))
	for name := range w.writers {
		names = append(names, name)
	}
	// write in field number order
	sort.Slice(names, func(i, j int) bool {
		return fieldInfos.FieldInfoByName(names[i]).Number < fieldInfos.FieldInfoByName(names[j]).Number
	})
	for _, name := range names {
		dvw := w.writers[name]
		dvw.finish(state.SegmentInfo.DocCount())
		if err = dvw.flush(state, consumer); err != nil {
			return err
		}
	}
	success = true
	return nil
}
