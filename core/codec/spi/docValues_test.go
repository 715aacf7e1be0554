package spi

import (
	"testing"

	. "github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/util"
	"github.com/stretchr/testify/require"
)

func dictionary(terms ...string) func(int64) []byte {
	return func(ord int64) []byte { return []byte(terms[ord]) }
}

func TestLookupTerm(t *testing.T) {
	lookup := dictionary("apple", "banana", "cherry")
	require.Equal(t, int64(1), LookupTerm(3, lookup, []byte("banana")))
	require.Equal(t, int64(-1), LookupTerm(3, lookup, []byte("a")))
	require.Equal(t, int64(-3), LookupTerm(3, lookup, []byte("blueberry")))
	require.Equal(t, int64(-4), LookupTerm(3, lookup, []byte("date")))
	require.Equal(t, int64(-1), LookupTerm(0, lookup, []byte("x")))
}

func TestSingletonSortedSet(t *testing.T) {
	terms := []string{"a", "b"}
	ords := []int{1, -1, 0}
	sorted := NewSortedDocValuesView(
		func(doc int) int { return ords[doc] },
		func(ord int) []byte { return []byte(terms[ord]) },
		len(terms))
	require.Equal(t, []byte("b"), sorted.Get(0))
	require.Nil(t, sorted.Get(1))
	require.Equal(t, 1, sorted.LookupTerm([]byte("b")))

	set := NewSingletonSortedSetDocValues(sorted)
	set.SetDocument(0)
	require.Equal(t, int64(1), set.NextOrd())
	require.Equal(t, int64(NO_MORE_ORDS), set.NextOrd())
	set.SetDocument(1)
	require.Equal(t, int64(NO_MORE_ORDS), set.NextOrd())
	require.Equal(t, int64(2), set.ValueCount())
}

func TestIterablesAreRepeatable(t *testing.T) {
	values := NewNullableNumericIterable([]int64{5, 0, 7}, []bool{true, false, true})
	for pass := 0; pass < 2; pass++ {
		got, present := CollectNumeric(values)
		require.Equal(t, []int64{5, 0, 7}, got)
		require.Equal(t, []bool{true, false, true}, present)
	}

	it := NewBytesIterable([]byte("x"))()
	require.True(t, it.Next())
	require.False(t, it.Next())
	require.False(t, it.Next())
	require.Panics(t, func() { it.Value() })
}

type recordingConsumer struct {
	numeric []int64
	present []bool
	binary  [][]byte
}

func (c *recordingConsumer) Close() error { return nil }
func (c *recordingConsumer) AddNumericField(field *FieldInfo, values NumericIterable) error {
	c.numeric, c.present = CollectNumeric(values)
	return nil
}
func (c *recordingConsumer) AddBinaryField(field *FieldInfo, values BytesIterable) error {
	c.binary = CollectBytes(values)
	return nil
}
func (c *recordingConsumer) AddSortedField(field *FieldInfo, values BytesIterable, docToOrd NumericIterable) error {
	return nil
}
func (c *recordingConsumer) AddSortedSetField(field *FieldInfo, values BytesIterable, docToOrdCount, ords NumericIterable) error {
	return nil
}

func TestMergeNumericAndBinary(t *testing.T) {
	c := &recordingConsumer{}
	a := NumericDocValues(func(doc int) int64 { return int64(doc + 1) })
	b := NumericDocValues(func(doc int) int64 { return int64(100 + doc) })
	withField := util.NewFixedBitSetOf(2)
	withField.Set(1)

	require.NoError(t, MergeNumericField(c, nil,
		[]NumericDocValues{a, EMPTY_NUMERIC, b},
		[]util.Bits{nil, util.MatchNoBits(0), withField},
		[]int{2, 0, 2}))
	require.Equal(t, []int64{1, 2, 0, 101}, c.numeric)
	require.Equal(t, []bool{true, true, false, true}, c.present)

	require.NoError(t, MergeBinaryField(c, nil,
		[]BinaryDocValues{EMPTY_BINARY},
		[]util.Bits{util.MatchAllBits(2)},
		[]int{2}))
	require.Equal(t, [][]byte{{}, {}}, c.binary)
}

func TestLoadUnknownCodec(t *testing.T) {
	_, err := LoadCodec("NoSuchCodec")
	require.IsType(t, &IllegalArgumentError{}, err)
	_, err = LoadDocValuesFormat("NoSuchFormat")
	require.Error(t, err)
}
