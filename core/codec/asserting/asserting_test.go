package asserting

import (
	"testing"

	"github.com/ironsweet/docvalues/core/codec/lucene45"
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

func newState(dir store.Directory, maxDoc int, fis FieldInfos) *SegmentWriteState {
	si := NewSegmentInfo(dir, "4.6", "_0", maxDoc, false, nil, nil, nil)
	return NewSegmentWriteState(util.NO_OUTPUT, dir, si, fis, store.IO_CONTEXT_DEFAULT)
}

func expectViolation(t *testing.T, contains string, f func()) {
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected an assertion error")
		err, ok := r.(*AssertionError)
		require.True(t, ok, "unexpected panic: %v", r)
		assert.Contains(t, err.Error(), contains)
	}()
	f()
}

func fileBytes(t *testing.T, dir store.Directory, name string) []byte {
	in, err := dir.OpenInput(name, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	defer in.Close()
	data := make([]byte, in.Length())
	require.NoError(t, in.ReadBytes(data))
	return data
}

func writeAll(t *testing.T, w DocValuesConsumer, num, bin, sorted, set *FieldInfo) {
	require.NoError(t, w.AddNumericField(num, NewNumericIterable(3, -4, 5)))
	require.NoError(t, w.AddBinaryField(bin, NewBytesIterable([]byte("x"), nil, []byte("yz"))))
	require.NoError(t, w.AddSortedField(sorted,
		NewBytesIterable([]byte("a"), []byte("b")), NewNumericIterable(1, -1, 0)))
	require.NoError(t, w.AddSortedSetField(set,
		NewBytesIterable([]byte("p"), []byte("q"), []byte("r")),
		NewNumericIterable(2, 0, 1), NewNumericIterable(0, 2, 1)))
	require.NoError(t, w.Close())
}

func TestOutputIsIdentical(t *testing.T) {
	num := dvField("num", 0, DOC_VALUES_TYPE_NUMERIC)
	bin := dvField("bin", 1, DOC_VALUES_TYPE_BINARY)
	sorted := dvField("sorted", 2, DOC_VALUES_TYPE_SORTED)
	set := dvField("set", 3, DOC_VALUES_TYPE_SORTED_SET)
	fis := NewFieldInfos([]*FieldInfo{num, bin, sorted, set})

	plainDir, checkedDir := store.NewRAMDirectory(), store.NewRAMDirectory()
	plain, err := lucene45.NewLucene45DocValuesFormat().FieldsConsumer(newState(plainDir, 3, fis))
	require.NoError(t, err)
	writeAll(t, plain, num, bin, sorted, set)

	checkedState := newState(checkedDir, 3, fis)
	checked, err := NewAssertingDocValuesFormat(lucene45.NewLucene45DocValuesFormat()).FieldsConsumer(checkedState)
	require.NoError(t, err)
	writeAll(t, checked, num, bin, sorted, set)

	for _, name := range []string{"_0.dvd", "_0.dvm"} {
		assert.Equal(t, fileBytes(t, plainDir, name), fileBytes(t, checkedDir, name), name)
	}

	p, err := NewAssertingDocValuesFormat(lucene45.NewLucene45DocValuesFormat()).FieldsProducer(
		NewSegmentReadState(checkedDir, checkedState.SegmentInfo, fis, store.IO_CONTEXT_READ))
	require.NoError(t, err)
	defer p.Close()

	ndv, err := p.Numeric(num)
	require.NoError(t, err)
	assert.Equal(t, int64(-4), ndv(1))
	expectViolation(t, "document 3 out of range", func() { ndv(3) })

	sdv, err := p.Sorted(sorted)
	require.NoError(t, err)
	assert.Equal(t, "b", string(sdv.Get(0)))
	expectViolation(t, "ordinal 2 out of range", func() { sdv.LookupOrd(2) })

	ssdv, err := p.SortedSet(set)
	require.NoError(t, err)
	expectViolation(t, "before SetDocument", func() { ssdv.NextOrd() })
	ssdv.SetDocument(0)
	assert.Equal(t, int64(0), ssdv.NextOrd())
	assert.Equal(t, int64(2), ssdv.NextOrd())
	assert.Equal(t, int64(NO_MORE_ORDS), ssdv.NextOrd())
	expectViolation(t, "after NO_MORE_ORDS", func() { ssdv.NextOrd() })

	bits, err := p.DocsWithField(bin)
	require.NoError(t, err)
	assert.False(t, bits.At(1))
	expectViolation(t, "document -1 out of range", func() { bits.At(-1) })

	expectViolation(t, "not BINARY", func() { p.Binary(num) })
	require.NoError(t, p.CheckIntegrity())
}

func TestConsumerViolations(t *testing.T) {
	num := dvField("num", 0, DOC_VALUES_TYPE_NUMERIC)
	sorted := dvField("sorted", 1, DOC_VALUES_TYPE_SORTED)
	set := dvField("set", 2, DOC_VALUES_TYPE_SORTED_SET)
	fis := NewFieldInfos([]*FieldInfo{num, sorted, set})

	cases := []struct {
		name     string
		contains string
		write    func(w DocValuesConsumer) error
	}{
		{"count mismatch", "2 numeric values for 3 documents", func(w DocValuesConsumer) error {
			return w.AddNumericField(num, NewNumericIterable(1, 2))
		}},
		{"dictionary order", "not strictly increasing at ordinal 1", func(w DocValuesConsumer) error {
			return w.AddSortedField(sorted, NewBytesIterable([]byte("b"), []byte("a")), NewNumericIterable(0, 1, 0))
		}},
		{"duplicate term", "not strictly increasing at ordinal 1", func(w DocValuesConsumer) error {
			return w.AddSortedField(sorted, NewBytesIterable([]byte("a"), []byte("a")), NewNumericIterable(0, 1, 0))
		}},
		{"ord out of range", "ordinal 5 out of range", func(w DocValuesConsumer) error {
			return w.AddSortedField(sorted, NewBytesIterable([]byte("a")), NewNumericIterable(0, 5, -1))
		}},
		{"unreferenced term", "only 1 are referenced", func(w DocValuesConsumer) error {
			return w.AddSortedField(sorted, NewBytesIterable([]byte("a"), []byte("b")), NewNumericIterable(0, 0, -1))
		}},
		{"set ords out of order", "ordinals out of order", func(w DocValuesConsumer) error {
			return w.AddSortedSetField(set, NewBytesIterable([]byte("a"), []byte("b")),
				NewNumericIterable(2, 0, 0), NewNumericIterable(1, 0))
		}},
		{"too many ords", "more ordinals than the sum", func(w DocValuesConsumer) error {
			return w.AddSortedSetField(set, NewBytesIterable([]byte("a"), []byte("b")),
				NewNumericIterable(2, 0, 0), NewNumericIterable(0, 1, 1))
		}},
		{"too few ords", "ordinals ran out at document 2", func(w DocValuesConsumer) error {
			return w.AddSortedSetField(set, NewBytesIterable([]byte("a"), []byte("b")),
				NewNumericIterable(1, 0, 1), NewNumericIterable(0))
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := store.NewRAMDirectory()
			w, err := NewAssertingDocValuesFormat(lucene45.NewLucene45DocValuesFormat()).FieldsConsumer(newState(dir, 3, fis))
			require.NoError(t, err)
			defer w.Close()
			expectViolation(t, c.contains, func() { c.write(w) })
		})
	}
}

func TestIteratorProtocol(t *testing.T) {
	f := dvField("num", 0, DOC_VALUES_TYPE_NUMERIC)
	it := guardNumeric(f, "values", NewNumericIterable(1))()
	expectViolation(t, "Value called before Next", func() { it.Value() })
	require.True(t, it.Next())
	v, ok := it.Value()
	assert.Equal(t, int64(1), v)
	assert.True(t, ok)
	require.False(t, it.Next())
	require.False(t, it.Next())
	expectViolation(t, "exhausted", func() { it.Value() })

	bit := guardBytes(f, "dictionary", NewBytesIterable([]byte("a")))()
	require.True(t, bit.Next())
	assert.Equal(t, "a", string(bit.Value()))
	require.False(t, bit.Next())
	expectViolation(t, "exhausted", func() { bit.Value() })
}

func TestCodecRegistered(t *testing.T) {
	c, err := LoadCodec("Asserting")
	require.NoError(t, err)
	assert.Equal(t, "Asserting", c.Name())
	f, err := LoadDocValuesFormat("Asserting")
	require.NoError(t, err)
	assert.Equal(t, "Asserting", f.Name())
}
