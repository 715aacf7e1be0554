package lucene45

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/ironsweet/docvalues/core/codec"
	. "github.com/ironsweet/docvalues/core/codec/spi"
	. "github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dvField(name string, number int32, typ DocValuesType) *FieldInfo {
	return NewFieldInfo(name, false, number, false, false, false,
		INDEX_OPT_NONE, typ, DOC_VALUES_TYPE_NONE, -1, nil)
}

/* Writes one segment through write and opens a producer over it. */
func writeAndOpen(t *testing.T, dir store.Directory, fis FieldInfos, maxDoc int,
	c Compression, write func(w DocValuesConsumer)) (*SegmentInfo, DocValuesProducer) {

	si := NewSegmentInfo(dir, "4.6", "_0", maxDoc, false, nil, nil, nil)
	state := NewSegmentWriteState(util.NO_OUTPUT, dir, si, fis, store.IO_CONTEXT_DEFAULT)
	w, err := NewLucene45DocValuesFormatWith(c).FieldsConsumer(state)
	require.NoError(t, err)
	write(w)
	require.NoError(t, w.Close())
	assert.True(t, si.Files()["_0.dvd"])
	assert.True(t, si.Files()["_0.dvm"])

	p, err := NewLucene45DocValuesFormat().FieldsProducer(NewSegmentReadState(dir, si, fis, store.IO_CONTEXT_READ))
	require.NoError(t, err)
	return si, p
}

func TestNumericRoundTrip(t *testing.T) {
	price := dvField("price", 0, DOC_VALUES_TYPE_NUMERIC)
	constant := dvField("constant", 1, DOC_VALUES_TYPE_NUMERIC)
	fis := NewFieldInfos([]*FieldInfo{price, constant})

	values := []int64{-5, 1 << 40, 0, 17}
	present := []bool{true, true, false, true}
	_, p := writeAndOpen(t, store.NewRAMDirectory(), fis, 4, COMPRESSION_NONE, func(w DocValuesConsumer) {
		require.NoError(t, w.AddNumericField(price, NewNullableNumericIterable(values, present)))
		require.NoError(t, w.AddNumericField(constant, NewNumericIterable(7, 7, 7, 7)))
	})
	defer p.Close()

	ndv, err := p.Numeric(price)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), ndv(0))
	assert.Equal(t, int64(1<<40), ndv(1))
	assert.Equal(t, int64(0), ndv(2))
	assert.Equal(t, int64(17), ndv(3))

	bits, err := p.DocsWithField(price)
	require.NoError(t, err)
	assert.Equal(t, 4, bits.Length())
	assert.True(t, bits.At(0))
	assert.False(t, bits.At(2))
	assert.True(t, bits.At(3))

	cdv, err := p.Numeric(constant)
	require.NoError(t, err)
	for doc := 0; doc < 4; doc++ {
		assert.Equal(t, int64(7), cdv(doc))
	}
	bits, err = p.DocsWithField(constant)
	require.NoError(t, err)
	assert.Equal(t, util.MatchAllBits(4), bits)
}

func TestNumericExtremes(t *testing.T) {
	f := dvField("n", 0, DOC_VALUES_TYPE_NUMERIC)
	fis := NewFieldInfos([]*FieldInfo{f})
	values := []int64{-1 << 63, 1<<63 - 1, 0}
	_, p := writeAndOpen(t, store.NewRAMDirectory(), fis, 3, COMPRESSION_NONE, func(w DocValuesConsumer) {
		require.NoError(t, w.AddNumericField(f, NewNumericIterable(values...)))
	})
	defer p.Close()
	ndv, err := p.Numeric(f)
	require.NoError(t, err)
	for doc, v := range values {
		assert.Equal(t, v, ndv(doc))
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	for _, c := range []Compression{COMPRESSION_NONE, COMPRESSION_LZ4, COMPRESSION_ZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			varField := dvField("var", 0, DOC_VALUES_TYPE_BINARY)
			fixedField := dvField("fixed", 1, DOC_VALUES_TYPE_BINARY)
			fis := NewFieldInfos([]*FieldInfo{varField, fixedField})
			vars := [][]byte{[]byte("hello"), nil, []byte(""), []byte("a longer value")}
			fixed := [][]byte{[]byte("abc"), []byte("def"), []byte("ghi"), []byte("jkl")}
			_, p := writeAndOpen(t, store.NewRAMDirectory(), fis, 4, c, func(w DocValuesConsumer) {
				require.NoError(t, w.AddBinaryField(varField, NewBytesIterable(vars...)))
				require.NoError(t, w.AddBinaryField(fixedField, NewBytesIterable(fixed...)))
			})
			defer p.Close()

			bdv, err := p.Binary(varField)
			require.NoError(t, err)
			assert.Equal(t, "hello", string(bdv.Get(0)))
			assert.Nil(t, bdv.Get(1))
			assert.Equal(t, "", string(bdv.Get(2)))
			assert.NotNil(t, bdv.Get(2))
			assert.Equal(t, "a longer value", string(bdv.Get(3)))

			bits, err := p.DocsWithField(varField)
			require.NoError(t, err)
			assert.False(t, bits.At(1))
			assert.True(t, bits.At(2))

			bdv, err = p.Binary(fixedField)
			require.NoError(t, err)
			for doc, v := range fixed {
				assert.Equal(t, v, bdv.Get(doc))
			}
		})
	}
}

func TestCompressionShrinksRepetitivePayload(t *testing.T) {
	const maxDoc = 500
	values := make([][]byte, maxDoc)
	for i := range values {
		values[i] = []byte(fmt.Sprintf("the quick brown fox jumps over the lazy dog %d", i%10))
	}
	sizes := make(map[Compression]int64)
	for _, c := range []Compression{COMPRESSION_NONE, COMPRESSION_LZ4, COMPRESSION_ZSTD} {
		f := dvField("body", 0, DOC_VALUES_TYPE_BINARY)
		dir := store.NewRAMDirectory()
		_, p := writeAndOpen(t, dir, NewFieldInfos([]*FieldInfo{f}), maxDoc, c, func(w DocValuesConsumer) {
			require.NoError(t, w.AddBinaryField(f, NewBytesIterable(values...)))
		})
		bdv, err := p.Binary(f)
		require.NoError(t, err)
		for doc, v := range values {
			require.Equal(t, v, bdv.Get(doc))
		}
		require.NoError(t, p.Close())
		sizes[c], err = dir.FileLength("_0.dvd")
		require.NoError(t, err)
	}
	assert.True(t, sizes[COMPRESSION_LZ4] < sizes[COMPRESSION_NONE], "%v", sizes)
	assert.True(t, sizes[COMPRESSION_ZSTD] < sizes[COMPRESSION_NONE], "%v", sizes)
}

func TestSortedRoundTrip(t *testing.T) {
	f := dvField("color", 0, DOC_VALUES_TYPE_SORTED)
	fis := NewFieldInfos([]*FieldInfo{f})
	_, p := writeAndOpen(t, store.NewRAMDirectory(), fis, 4, COMPRESSION_LZ4, func(w DocValuesConsumer) {
		require.NoError(t, w.AddSortedField(f,
			NewBytesIterable([]byte("blue"), []byte("green"), []byte("red")),
			NewNumericIterable(2, -1, 0, 1)))
	})
	defer p.Close()

	sdv, err := p.Sorted(f)
	require.NoError(t, err)
	assert.Equal(t, 3, sdv.ValueCount())
	assert.Equal(t, 2, sdv.Ord(0))
	assert.Equal(t, -1, sdv.Ord(1))
	assert.Equal(t, "red", string(sdv.Get(0)))
	assert.Nil(t, sdv.Get(1))
	assert.Equal(t, "blue", string(sdv.LookupOrd(0)))
	assert.Equal(t, 1, sdv.LookupTerm([]byte("green")))
	assert.Equal(t, -2, sdv.LookupTerm([]byte("cyan")))
	assert.Equal(t, -4, sdv.LookupTerm([]byte("zebra")))

	bits, err := p.DocsWithField(f)
	require.NoError(t, err)
	assert.True(t, bits.At(0))
	assert.False(t, bits.At(1))
	assert.True(t, bits.At(2))
}

func collectOrds(ssdv SortedSetDocValues, doc int) []int64 {
	ssdv.SetDocument(doc)
	var ords []int64
	for ord := ssdv.NextOrd(); ord != NO_MORE_ORDS; ord = ssdv.NextOrd() {
		ords = append(ords, ord)
	}
	return ords
}

func TestSortedSetRoundTrip(t *testing.T) {
	f := dvField("tags", 0, DOC_VALUES_TYPE_SORTED_SET)
	fis := NewFieldInfos([]*FieldInfo{f})
	_, p := writeAndOpen(t, store.NewRAMDirectory(), fis, 4, COMPRESSION_ZSTD, func(w DocValuesConsumer) {
		require.NoError(t, w.AddSortedSetField(f,
			NewBytesIterable([]byte("a"), []byte("b"), []byte("c"), []byte("d")),
			NewNumericIterable(2, 0, 3, 1),
			NewNumericIterable(0, 2, 1, 2, 3, 3)))
	})
	defer p.Close()

	ssdv, err := p.SortedSet(f)
	require.NoError(t, err)
	assert.Equal(t, int64(4), ssdv.ValueCount())
	assert.Equal(t, []int64{0, 2}, collectOrds(ssdv, 0))
	assert.Nil(t, collectOrds(ssdv, 1))
	assert.Equal(t, []int64{1, 2, 3}, collectOrds(ssdv, 2))
	assert.Equal(t, []int64{3}, collectOrds(ssdv, 3))
	assert.Equal(t, "c", string(ssdv.LookupOrd(2)))
	assert.Equal(t, int64(3), ssdv.LookupTerm([]byte("d")))
	assert.Equal(t, int64(-5), ssdv.LookupTerm([]byte("e")))

	bits, err := p.DocsWithField(f)
	require.NoError(t, err)
	assert.True(t, bits.At(0))
	assert.False(t, bits.At(1))
}

func TestAccessorTypeMismatch(t *testing.T) {
	f := dvField("n", 0, DOC_VALUES_TYPE_NUMERIC)
	other := dvField("other", 1, DOC_VALUES_TYPE_BINARY)
	fis := NewFieldInfos([]*FieldInfo{f, other})
	_, p := writeAndOpen(t, store.NewRAMDirectory(), fis, 1, COMPRESSION_NONE, func(w DocValuesConsumer) {
		require.NoError(t, w.AddNumericField(f, NewNumericIterable(1)))
	})
	defer p.Close()

	_, err := p.Binary(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NUMERIC")
	_, err = p.Binary(other)
	require.Error(t, err)
}

func rewrite(t *testing.T, dir store.Directory, name string, patch func(data []byte) []byte) {
	in, err := dir.OpenInput(name, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	data := make([]byte, in.Length())
	require.NoError(t, in.ReadBytes(data))
	require.NoError(t, in.Close())
	data = patch(data)
	out, err := dir.CreateOutput(name, store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	require.NoError(t, out.WriteBytes(data))
	require.NoError(t, out.Close())
}

func TestCheckIntegrityDetectsCorruption(t *testing.T) {
	f := dvField("n", 0, DOC_VALUES_TYPE_NUMERIC)
	fis := NewFieldInfos([]*FieldInfo{f})
	dir := store.NewRAMDirectory()
	si, p := writeAndOpen(t, dir, fis, 3, COMPRESSION_NONE, func(w DocValuesConsumer) {
		require.NoError(t, w.AddNumericField(f, NewNumericIterable(1000, 2000, 3000)))
	})
	require.NoError(t, p.CheckIntegrity())
	require.NoError(t, p.Close())

	rewrite(t, dir, "_0.dvd", func(data []byte) []byte {
		data[codec.HeaderLength(DV_DATA_CODEC)] ^= 0xFF
		return data
	})
	p, err := NewLucene45DocValuesFormat().FieldsProducer(NewSegmentReadState(dir, si, fis, store.IO_CONTEXT_READ))
	require.NoError(t, err) // only the footer structure is verified on open
	defer p.Close()
	err = p.CheckIntegrity()
	require.Error(t, err)
	_, ok := err.(*codec.CorruptIndexError)
	assert.True(t, ok, "%v", err)
}

func TestTruncatedMetadataFailsOpen(t *testing.T) {
	f := dvField("n", 0, DOC_VALUES_TYPE_NUMERIC)
	fis := NewFieldInfos([]*FieldInfo{f})
	dir := store.NewRAMDirectory()
	si, p := writeAndOpen(t, dir, fis, 2, COMPRESSION_NONE, func(w DocValuesConsumer) {
		require.NoError(t, w.AddNumericField(f, NewNumericIterable(1, 2)))
	})
	require.NoError(t, p.Close())

	rewrite(t, dir, "_0.dvm", func(data []byte) []byte {
		return data[:len(data)-4]
	})
	_, err := NewLucene45DocValuesFormat().FieldsProducer(NewSegmentReadState(dir, si, fis, store.IO_CONTEXT_READ))
	require.Error(t, err)
}

func TestConcurrentAccessors(t *testing.T) {
	const maxDoc = 200
	f := dvField("id", 0, DOC_VALUES_TYPE_BINARY)
	s := dvField("tags", 1, DOC_VALUES_TYPE_SORTED_SET)
	fis := NewFieldInfos([]*FieldInfo{f, s})
	ids := make([][]byte, maxDoc)
	counts := make([]int64, maxDoc)
	var ords []int64
	for i := range ids {
		ids[i] = []byte(fmt.Sprintf("id-%d", i))
		counts[i] = int64(i % 3)
		for ord := int64(0); ord < counts[i]; ord++ {
			ords = append(ords, ord)
		}
	}
	_, p := writeAndOpen(t, store.NewRAMDirectory(), fis, maxDoc, COMPRESSION_LZ4, func(w DocValuesConsumer) {
		require.NoError(t, w.AddBinaryField(f, NewBytesIterable(ids...)))
		require.NoError(t, w.AddSortedSetField(s,
			NewBytesIterable([]byte("x"), []byte("y")),
			NewNumericIterable(counts...),
			NewNumericIterable(ords...)))
	})
	defer p.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bdv, err := p.Binary(f)
			if err != nil {
				errs <- err
				return
			}
			ssdv, err := p.SortedSet(s)
			if err != nil {
				errs <- err
				return
			}
			for doc := 0; doc < maxDoc; doc++ {
				if !bytes.Equal(ids[doc], bdv.Get(doc)) {
					errs <- fmt.Errorf("doc %v: got %q", doc, bdv.Get(doc))
					return
				}
				if n := len(collectOrds(ssdv, doc)); int64(n) != counts[doc] {
					errs <- fmt.Errorf("doc %v: got %v ords", doc, n)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestCodecRegistered(t *testing.T) {
	c, err := LoadCodec("Lucene45")
	require.NoError(t, err)
	assert.Equal(t, "Lucene45", c.Name())
	assert.Equal(t, "PerFieldDV40", c.DocValuesFormat().Name())

	format, err := LoadDocValuesFormat("Lucene45")
	require.NoError(t, err)
	assert.Equal(t, "Lucene45", format.Name())

	_, err = ParseCompression("snappy")
	require.Error(t, err)
	comp, err := ParseCompression("zstd")
	require.NoError(t, err)
	assert.Equal(t, COMPRESSION_ZSTD, comp)
}
