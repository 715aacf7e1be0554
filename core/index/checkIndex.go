package index

import (
	"context"
	"fmt"
	"io"

	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// index/CheckIndex.java

// Returned from CheckIndex() detailing the health and status of the index
type CheckIndexStatus struct {
	// True if no problems found with the index.
	Clean bool
	// True if no segments file could be found.
	MissingSegments bool
	// Name of latest segments_N file in the index.
	SegmentsFileName string
	// Number of segments in the index.
	NumSegments int
	// Status of each segment, in commit order.
	SegmentInfos []*SegmentStatus
	// Number of documents in all segments.
	TotalDocCount int
	// Holds the userData of the last commit in the index
	UserData map[string]string
}

// Holds the status of each segment in the index.
type SegmentStatus struct {
	Name     string
	Codec    string
	DocCount int
	// Diagnostics recorded when the segment was written.
	Diagnostics map[string]string
	// Status for testing of doc values, nil if the segment could not
	// be opened.
	DocValuesStatus *DocValuesStatus
	// First error hit on this segment, if any.
	Error error
}

// Status from testing DocValues
type DocValuesStatus struct {
	// Total number of docValues tested.
	TotalValueFields int
	// Total number of numeric fields
	TotalNumericFields int
	// Total number of binary fields
	TotalBinaryFields int
	// Total number of sorted fields
	TotalSortedFields int
	// Total number of sortedset fields
	TotalSortedSetFields int
	// Per field status, in field number order.
	Fields []*FieldDocValuesStatus
	// First error hit on any field, if any.
	Error error
}

// Status of the doc values of a single field.
type FieldDocValuesStatus struct {
	Name string
	Type model.DocValuesType
	// Number of documents that have a value.
	DocsWithValue int
	// Number of unique values of a sorted or sorted set field.
	ValueCount int64
	Error      error
}

/*
Returns a status detailing the state of the current commit of dir.
Every segment is opened and all of its doc values are verified. The
returned error is only non-nil when the index could not be inspected
at all; problems found in segments mark the status unclean.

WARNING: make sure you only call this when the index is not opened
by any writer.
*/
func CheckIndex(ctx context.Context, dir store.Directory, infoStream io.Writer) (*CheckIndexStatus, error) {
	if infoStream == nil {
		infoStream = io.Discard
	}
	msg := func(format string, args ...interface{}) {
		fmt.Fprintf(infoStream, format+"\n", args...)
	}

	status := &CheckIndexStatus{}
	files, err := dir.ListAll()
	if err != nil {
		return nil, err
	}
	if LastCommitGeneration(files) == -1 {
		msg("ERROR: could not find any segments file in directory")
		status.MissingSegments = true
		return status, nil
	}
	sis, err := ReadSegmentInfos(dir)
	if err != nil {
		msg("ERROR: could not read any segments file in directory")
		status.MissingSegments = true
		return status, nil
	}

	status.SegmentsFileName = sis.SegmentsFileName()
	status.NumSegments = len(sis.Segments)
	status.UserData = sis.UserData()
	msg("Segments file=%v numSegments=%v version=%v", status.SegmentsFileName, status.NumSegments, sis.Version())

	status.Clean = true
	for i, si := range sis.Segments {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		segStatus := &SegmentStatus{
			Name:        si.Name,
			Codec:       si.Codec().(spi.Codec).Name(),
			DocCount:    si.DocCount(),
			Diagnostics: si.Diagnostics(),
		}
		status.SegmentInfos = append(status.SegmentInfos, segStatus)
		msg("  %v of %v: name=%v docCount=%v", i+1, len(sis.Segments), si.Name, si.DocCount())
		msg("    codec=%v", segStatus.Codec)
		if len(segStatus.Diagnostics) > 0 {
			msg("    diagnostics = %v", segStatus.Diagnostics)
		}

		if segStatus.Error = checkSegment(ctx, si, segStatus, msg); segStatus.Error != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			msg("FAILED")
			msg("    WARNING: %v", segStatus.Error)
			status.Clean = false
			continue
		}
		status.TotalDocCount += si.DocCount()
		msg("OK")
	}

	if status.Clean {
		msg("No problems were detected with this index.")
	} else {
		msg("WARNING: %v broken segments detected", countBroken(status.SegmentInfos))
	}
	return status, nil
}

func checkSegment(ctx context.Context, si *model.SegmentInfo, segStatus *SegmentStatus,
	msg func(string, ...interface{})) (err error) {

	msg("    test: open reader.........")
	var reader *SegmentReader
	if reader, err = NewSegmentReader(si, store.IO_CONTEXT_READ); err != nil {
		return err
	}
	defer util.CloseWhileSuppressingError(reader)

	msg("    test: check integrity.....")
	if err = reader.CheckIntegrity(); err != nil {
		return err
	}

	msg("    test: docvalues...........")
	status, err := CheckDocValues(ctx, reader)
	segStatus.DocValuesStatus = status
	if err != nil {
		return err
	}
	msg("OK [%v docvalues fields; %v BINARY; %v NUMERIC; %v SORTED; %v SORTED_SET]",
		status.TotalValueFields, status.TotalBinaryFields, status.TotalNumericFields,
		status.TotalSortedFields, status.TotalSortedSetFields)
	return nil
}

func countBroken(segments []*SegmentStatus) (n int) {
	for _, s := range segments {
		if s.Error != nil {
			n++
		}
	}
	return
}

/*
Verifies the doc values of every field of the segment reader. Each
field is checked by its own goroutine with its own accessors. The
status is returned even on failure, with the failing fields carrying
their errors; the returned error is the first one hit.
*/
func CheckDocValues(ctx context.Context, reader AtomicReader) (*DocValuesStatus, error) {
	status := &DocValuesStatus{}
	g, ctx := errgroup.WithContext(ctx)
	for _, fi := range reader.FieldInfos().Values {
		if !fi.HasDocValues() {
			continue
		}
		fieldStatus := &FieldDocValuesStatus{Name: fi.Name, Type: fi.DocValuesType()}
		status.Fields = append(status.Fields, fieldStatus)
		status.TotalValueFields++
		switch fi.DocValuesType() {
		case model.DOC_VALUES_TYPE_NUMERIC:
			status.TotalNumericFields++
		case model.DOC_VALUES_TYPE_BINARY:
			status.TotalBinaryFields++
		case model.DOC_VALUES_TYPE_SORTED:
			status.TotalSortedFields++
		case model.DOC_VALUES_TYPE_SORTED_SET:
			status.TotalSortedSetFields++
		}

		fi := fi
		g.Go(func() error {
			err := checkDocValuesField(ctx, reader, fi, fieldStatus)
			if err != nil {
				err = errors.Wrapf(err, "field \"%v\"", fi.Name)
				fieldStatus.Error = err
			}
			return err
		})
	}
	status.Error = g.Wait()
	return status, status.Error
}

func checkDocValuesField(ctx context.Context, reader AtomicReader, fi *model.FieldInfo,
	status *FieldDocValuesStatus) error {

	maxDoc := reader.MaxDoc()
	docsWithField, err := reader.DocsWithField(fi.Name)
	if err != nil {
		return err
	}
	if docsWithField == nil {
		return fmt.Errorf("%v docsWithField does not exist", fi.DocValuesType())
	}
	if docsWithField.Length() != maxDoc {
		return fmt.Errorf("%v docsWithField has incorrect length: %v, expected: %v",
			fi.DocValuesType(), docsWithField.Length(), maxDoc)
	}

	switch fi.DocValuesType() {
	case model.DOC_VALUES_TYPE_NUMERIC:
		dv, err := reader.NumericDocValues(fi.Name)
		if err != nil {
			return err
		}
		for doc := 0; doc < maxDoc; doc++ {
			if doc%1024 == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
			if v := dv(doc); docsWithField.At(doc) {
				status.DocsWithValue++
			} else if v != 0 {
				return fmt.Errorf("dv for field: %v is missing but has value=%v for doc: %v", fi.Name, v, doc)
			}
		}

	case model.DOC_VALUES_TYPE_BINARY:
		dv, err := reader.BinaryDocValues(fi.Name)
		if err != nil {
			return err
		}
		for doc := 0; doc < maxDoc; doc++ {
			if doc%1024 == 0 && ctx.Err() != nil {
				return ctx.Err()
			}
			if v := dv.Get(doc); docsWithField.At(doc) {
				status.DocsWithValue++
			} else if len(v) != 0 {
				return fmt.Errorf("dv for field: %v is missing but has value=%v for doc: %v", fi.Name, v, doc)
			}
		}

	case model.DOC_VALUES_TYPE_SORTED:
		dv, err := reader.SortedDocValues(fi.Name)
		if err != nil {
			return err
		}
		if status.DocsWithValue, err = checkSortedDocValues(ctx, fi.Name, maxDoc, dv, docsWithField); err != nil {
			return err
		}
		status.ValueCount = int64(dv.ValueCount())

	case model.DOC_VALUES_TYPE_SORTED_SET:
		dv, err := reader.SortedSetDocValues(fi.Name)
		if err != nil {
			return err
		}
		if status.DocsWithValue, err = checkSortedSetDocValues(ctx, fi.Name, maxDoc, dv, docsWithField); err != nil {
			return err
		}
		status.ValueCount = dv.ValueCount()

	default:
		return fmt.Errorf("unknown doc values type %v", fi.DocValuesType())
	}
	return nil
}

func checkSortedDocValues(ctx context.Context, field string, maxDoc int,
	dv spi.SortedDocValues, docsWithField util.Bits) (docsWithValue int, err error) {

	maxOrd := dv.ValueCount() - 1
	seenOrds := util.NewFixedBitSetOf(dv.ValueCount())
	maxOrd2 := -1
	for doc := 0; doc < maxDoc; doc++ {
		if doc%1024 == 0 && ctx.Err() != nil {
			return 0, ctx.Err()
		}
		ord := dv.Ord(doc)
		if ord == -1 {
			if docsWithField.At(doc) {
				return 0, fmt.Errorf("dv for field: %v has -1 ord but is not marked missing for doc: %v", field, doc)
			}
			continue
		}
		if ord < -1 || ord > maxOrd {
			return 0, fmt.Errorf("ord out of bounds: %v", ord)
		}
		if !docsWithField.At(doc) {
			return 0, fmt.Errorf("dv for field: %v is marked missing but has ord=%v for doc: %v", field, ord, doc)
		}
		docsWithValue++
		if ord > maxOrd2 {
			maxOrd2 = ord
		}
		seenOrds.Set(ord)
	}
	if maxOrd != maxOrd2 {
		return 0, fmt.Errorf("dv for field: %v reports wrong maxOrd=%v but this is not the case: %v",
			field, maxOrd, maxOrd2)
	}
	if seenOrds.Cardinality() != dv.ValueCount() {
		return 0, fmt.Errorf("dv for field: %v has holes in its ords, valueCount=%v but only used: %v",
			field, dv.ValueCount(), seenOrds.Cardinality())
	}
	var lastValue []byte
	for i := 0; i <= maxOrd; i++ {
		term := dv.LookupOrd(i)
		if i > 0 && util.CompareBytes(term, lastValue) <= 0 {
			return 0, fmt.Errorf("dv for field: %v has ords out of order: %v >=%v", field, lastValue, term)
		}
		lastValue = append(lastValue[:0], term...)
	}
	return docsWithValue, nil
}

func checkSortedSetDocValues(ctx context.Context, field string, maxDoc int,
	dv spi.SortedSetDocValues, docsWithField util.Bits) (docsWithValue int, err error) {

	maxOrd := dv.ValueCount() - 1
	seenOrds := util.NewFixedBitSetOf(int(dv.ValueCount()))
	maxOrd2 := int64(-1)
	for doc := 0; doc < maxDoc; doc++ {
		if doc%1024 == 0 && ctx.Err() != nil {
			return 0, ctx.Err()
		}
		dv.SetDocument(doc)
		lastOrd := int64(-1)
		if docsWithField.At(doc) {
			ordCount := 0
			for ord := dv.NextOrd(); ord != spi.NO_MORE_ORDS; ord = dv.NextOrd() {
				if ord <= lastOrd {
					return 0, fmt.Errorf("ords out of order: %v <= %v for doc: %v", ord, lastOrd, doc)
				}
				if ord < 0 || ord > maxOrd {
					return 0, fmt.Errorf("ord out of bounds: %v", ord)
				}
				lastOrd = ord
				if ord > maxOrd2 {
					maxOrd2 = ord
				}
				seenOrds.Set(int(ord))
				ordCount++
			}
			if ordCount == 0 {
				return 0, fmt.Errorf("dv for field: %v has no ordinals but is not marked missing for doc: %v", field, doc)
			}
			docsWithValue++
		} else if ord := dv.NextOrd(); ord != spi.NO_MORE_ORDS {
			return 0, fmt.Errorf("dv for field: %v is marked missing but has ord=%v for doc: %v", field, ord, doc)
		}
	}
	if maxOrd != maxOrd2 {
		return 0, fmt.Errorf("dv for field: %v reports wrong maxOrd=%v but this is not the case: %v",
			field, maxOrd, maxOrd2)
	}
	if int64(seenOrds.Cardinality()) != dv.ValueCount() {
		return 0, fmt.Errorf("dv for field: %v has holes in its ords, valueCount=%v but only used: %v",
			field, dv.ValueCount(), seenOrds.Cardinality())
	}
	var lastValue []byte
	for i := int64(0); i <= maxOrd; i++ {
		term := dv.LookupOrd(i)
		if i > 0 && util.CompareBytes(term, lastValue) <= 0 {
			return 0, fmt.Errorf("dv for field: %v has ords out of order: %v >=%v", field, lastValue, term)
		}
		lastValue = append(lastValue[:0], term...)
	}
	return docsWithValue, nil
}
