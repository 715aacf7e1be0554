package lucene45

import (
	"bytes"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/ironsweet/docvalues/core/codec"
	. "github.com/ironsweet/docvalues/core/codec/spi"
	. "github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util"
	"github.com/ironsweet/docvalues/core/util/packed"
)

/* Writer for Lucene45DocValuesFormat */
type Lucene45DocValuesConsumer struct {
	data, meta  store.IndexOutput
	maxDoc      int
	compression Compression
	closed      bool
}

func newLucene45DocValuesConsumer(state *SegmentWriteState, compression Compression,
	dataCodec, dataExtension, metaCodec, metaExtension string) (w *Lucene45DocValuesConsumer, err error) {

	w = &Lucene45DocValuesConsumer{
		maxDoc:      state.SegmentInfo.DocCount(),
		compression: compression,
	}
	var success = false
	defer func() {
		if !success {
			util.CloseWhileSuppressingError(w.data, w.meta)
		}
	}()

	dataName := util.SegmentFileName(state.SegmentInfo.Name, state.SegmentSuffix, dataExtension)
	if w.data, err = state.Directory.CreateOutput(dataName, state.Context); err != nil {
		return nil, err
	}
	if err = codec.WriteHeader(w.data, dataCodec, DV_VERSION_CURRENT); err != nil {
		return nil, err
	}
	metaName := util.SegmentFileName(state.SegmentInfo.Name, state.SegmentSuffix, metaExtension)
	if w.meta, err = state.Directory.CreateOutput(metaName, state.Context); err != nil {
		return nil, err
	}
	if err = codec.WriteHeader(w.meta, metaCodec, DV_VERSION_CURRENT); err != nil {
		return nil, err
	}
	state.SegmentInfo.AddFile(dataName)
	state.SegmentInfo.AddFile(metaName)
	log.Debugf("Writing doc values to %v and %v", dataName, metaName)
	success = true
	return w, nil
}

func (w *Lucene45DocValuesConsumer) AddNumericField(field *FieldInfo, values NumericIterable) (err error) {
	if err = w.meta.WriteVInt(field.Number); err == nil {
		if err = w.meta.WriteByte(DV_NUMERIC); err == nil {
			err = w.addNumericEntry(values, true)
		}
	}
	return
}

/*
Writes a NUMERIC entry. When trackMissing is false, absent values are
not expected: ordinals use -1 themselves to mark missing documents.
*/
func (w *Lucene45DocValuesConsumer) addNumericEntry(values NumericIterable, trackMissing bool) error {
	minValue, maxValue := int64(math.MaxInt64), int64(math.MinInt64)
	count, missing := 0, false
	for it := values(); it.Next(); count++ {
		v, ok := it.Value()
		if !ok {
			missing = true
			v = 0
		}
		if v < minValue {
			minValue = v
		}
		if v > maxValue {
			maxValue = v
		}
	}
	if count == 0 {
		minValue, maxValue = 0, 0
	}

	missingOffset, missingLength := int64(-1), int64(0)
	if trackMissing && missing {
		rb := roaring.New()
		doc := uint32(0)
		for it := values(); it.Next(); doc++ {
			if _, ok := it.Value(); ok {
				rb.Add(doc)
			}
		}
		var err error
		if missingOffset, missingLength, err = w.writeBitmap(rb); err != nil {
			return err
		}
	}

	delta := uint64(maxValue) - uint64(minValue)
	bitsPerValue := 0
	if delta != 0 {
		bitsPerValue = packed.UnsignedBitsRequired(int64(delta))
	}
	if err := w.writeLongs(missingOffset, missingLength); err != nil {
		return err
	}
	if err := w.meta.WriteVInt(int32(count)); err != nil {
		return err
	}
	if err := w.meta.WriteLong(minValue); err != nil {
		return err
	}
	if err := w.meta.WriteVInt(int32(bitsPerValue)); err != nil {
		return err
	}
	if err := w.meta.WriteLong(w.data.FilePointer()); err != nil {
		return err
	}
	if bitsPerValue == 0 {
		return nil
	}
	writer := packed.NewWriter(w.data, count, bitsPerValue)
	for it := values(); it.Next(); {
		v, ok := it.Value()
		if !ok {
			v = 0
		}
		if err := writer.Add(int64(uint64(v) - uint64(minValue))); err != nil {
			return err
		}
	}
	return writer.Finish()
}

func (w *Lucene45DocValuesConsumer) writeBitmap(rb *roaring.Bitmap) (offset, length int64, err error) {
	var buf []byte
	if buf, err = rb.ToBytes(); err != nil {
		return 0, 0, err
	}
	offset = w.data.FilePointer()
	if err = w.data.WriteBytes(buf); err != nil {
		return 0, 0, err
	}
	return offset, int64(len(buf)), nil
}

func (w *Lucene45DocValuesConsumer) writeLongs(values ...int64) error {
	for _, v := range values {
		if err := w.meta.WriteLong(v); err != nil {
			return err
		}
	}
	return nil
}

func (w *Lucene45DocValuesConsumer) writeAddresses(addresses []int64) (offset int64, bitsPerValue int, err error) {
	offset = w.data.FilePointer()
	bitsPerValue = packed.UnsignedBitsRequired(addresses[len(addresses)-1])
	writer := packed.NewWriter(w.data, len(addresses), bitsPerValue)
	for _, addr := range addresses {
		if err = writer.Add(addr); err != nil {
			return
		}
	}
	err = writer.Finish()
	return
}

func (w *Lucene45DocValuesConsumer) AddBinaryField(field *FieldInfo, values BytesIterable) (err error) {
	if err = w.meta.WriteVInt(field.Number); err == nil {
		if err = w.meta.WriteByte(DV_BINARY); err == nil {
			err = w.addBinaryEntry(values, true)
		}
	}
	return
}

func (w *Lucene45DocValuesConsumer) addBinaryEntry(values BytesIterable, trackMissing bool) error {
	var raw bytes.Buffer
	minLength, maxLength := math.MaxInt32, math.MinInt32
	addresses := []int64{0}
	rb := roaring.New()
	count, missing := 0, false
	for it := values(); it.Next(); count++ {
		v := it.Value()
		if v == nil {
			missing = true
		} else {
			rb.Add(uint32(count))
		}
		raw.Write(v)
		if len(v) < minLength {
			minLength = len(v)
		}
		if len(v) > maxLength {
			maxLength = len(v)
		}
		addresses = append(addresses, int64(raw.Len()))
	}
	if count == 0 {
		minLength, maxLength = 0, 0
	}

	missingOffset, missingLength := int64(-1), int64(0)
	if trackMissing && missing {
		var err error
		if missingOffset, missingLength, err = w.writeBitmap(rb); err != nil {
			return err
		}
	}

	stored, mode, err := compress(raw.Bytes(), w.compression)
	if err != nil {
		return err
	}
	dataOffset := w.data.FilePointer()
	if err = w.data.WriteBytes(stored); err != nil {
		return err
	}

	addressesOffset, addressBits := int64(-1), 0
	if minLength != maxLength {
		if addressesOffset, addressBits, err = w.writeAddresses(addresses); err != nil {
			return err
		}
	}

	if err = w.writeLongs(missingOffset, missingLength); err != nil {
		return err
	}
	if err = w.meta.WriteVInt(int32(count)); err != nil {
		return err
	}
	if err = w.meta.WriteVInt(int32(minLength)); err != nil {
		return err
	}
	if err = w.meta.WriteVInt(int32(maxLength)); err != nil {
		return err
	}
	if err = w.meta.WriteByte(byte(mode)); err != nil {
		return err
	}
	if err = w.writeLongs(dataOffset, int64(len(stored)), int64(raw.Len()), addressesOffset); err != nil {
		return err
	}
	return w.meta.WriteVInt(int32(addressBits))
}

func (w *Lucene45DocValuesConsumer) AddSortedField(field *FieldInfo, values BytesIterable, docToOrd NumericIterable) (err error) {
	if err = w.meta.WriteVInt(field.Number); err == nil {
		if err = w.meta.WriteByte(DV_SORTED); err == nil {
			if err = w.addBinaryEntry(values, false); err == nil {
				err = w.addNumericEntry(docToOrd, false)
			}
		}
	}
	return
}

func (w *Lucene45DocValuesConsumer) AddSortedSetField(field *FieldInfo, values BytesIterable,
	docToOrdCount, ords NumericIterable) (err error) {

	if err = w.meta.WriteVInt(field.Number); err != nil {
		return
	}
	if err = w.meta.WriteByte(DV_SORTED_SET); err != nil {
		return
	}
	if err = w.addBinaryEntry(values, false); err != nil {
		return
	}

	offset := w.data.FilePointer()
	addresses := []int64{0}
	ordIt := ords()
	count := 0
	for it := docToOrdCount(); it.Next(); count++ {
		n, _ := it.Value()
		var prev int64
		for i := int64(0); i < n; i++ {
			if !ordIt.Next() {
				return codec.NewCorruptIndexError(w.data,
					"ords ran out at document %v (expected %v ords)", count, n)
			}
			ord, _ := ordIt.Value()
			if err = w.data.WriteVLong(ord - prev); err != nil {
				return
			}
			prev = ord
		}
		addresses = append(addresses, w.data.FilePointer()-offset)
	}
	length := w.data.FilePointer() - offset

	var addressesOffset int64
	var addressBits int
	if addressesOffset, addressBits, err = w.writeAddresses(addresses); err != nil {
		return
	}
	if err = w.meta.WriteVInt(int32(count)); err != nil {
		return
	}
	if err = w.writeLongs(offset, length, addressesOffset); err != nil {
		return
	}
	return w.meta.WriteVInt(int32(addressBits))
}

func (w *Lucene45DocValuesConsumer) Close() (err error) {
	if w.closed {
		return nil
	}
	w.closed = true
	var success = false
	defer func() {
		if success {
			err = util.Close(w.data, w.meta)
		} else {
			util.CloseWhileSuppressingError(w.data, w.meta)
		}
	}()

	if w.meta != nil {
		if err = w.meta.WriteVInt(-1); err != nil { // write EOF marker
			return
		}
		if err = codec.WriteFooter(w.meta); err != nil {
			return
		}
	}
	if w.data != nil {
		if err = codec.WriteFooter(w.data); err != nil {
			return
		}
	}
	success = true
	return nil
}
