package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldInfosOrderedByNumber(t *testing.T) {
	b := NewFieldInfosBuilder(NewFieldNumbers())
	_, err := b.AddOrUpdate("title", FieldType{Indexed: true, Tokenized: true, IndexOptions: INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS})
	require.NoError(t, err)
	_, err = b.AddOrUpdate("price", FieldType{DocValueType: DOC_VALUES_TYPE_NUMERIC})
	require.NoError(t, err)

	infos := b.Finish()
	require.Equal(t, 2, infos.Size())
	require.Equal(t, "title", infos.Values[0].Name)
	require.Equal(t, "price", infos.Values[1].Name)
	require.True(t, infos.HasDocValues)
	require.True(t, infos.HasProx)
	require.Equal(t, int32(1), infos.FieldInfoByName("price").Number)
	require.Nil(t, infos.FieldInfoByNumber(5))
	require.Equal(t, int64(-1), infos.FieldInfoByName("price").DocValuesGen())
}

func TestDocValuesTypeCannotChange(t *testing.T) {
	numbers := NewFieldNumbers()
	b := NewFieldInfosBuilder(numbers)
	_, err := b.AddOrUpdate("f", FieldType{DocValueType: DOC_VALUES_TYPE_SORTED})
	require.NoError(t, err)
	_, err = b.AddOrUpdate("f", FieldType{DocValueType: DOC_VALUES_TYPE_BINARY})
	require.Error(t, err)

	// the shared registry remembers the type for the next segment
	b2 := NewFieldInfosBuilder(numbers)
	_, err = b2.AddOrUpdate("f", FieldType{DocValueType: DOC_VALUES_TYPE_NUMERIC})
	require.Error(t, err)
	fi, err := b2.AddOrUpdate("f", FieldType{DocValueType: DOC_VALUES_TYPE_SORTED})
	require.NoError(t, err)
	require.Equal(t, int32(0), fi.Number)
}

func TestDuplicateFieldNumbersPanic(t *testing.T) {
	a := NewFieldInfo("a", false, 0, false, false, false, INDEX_OPT_NONE, DOC_VALUES_TYPE_NONE, DOC_VALUES_TYPE_NONE, -1, nil)
	b := NewFieldInfo("b", false, 0, false, false, false, INDEX_OPT_NONE, DOC_VALUES_TYPE_NONE, DOC_VALUES_TYPE_NONE, -1, nil)
	require.Panics(t, func() { NewFieldInfos([]*FieldInfo{a, b}) })
}

func TestAttributes(t *testing.T) {
	fi := NewFieldInfo("a", false, 0, false, false, false, INDEX_OPT_NONE, DOC_VALUES_TYPE_BINARY, DOC_VALUES_TYPE_NONE, -1, nil)
	require.Equal(t, "", fi.PutAttribute("k", "v1"))
	require.Equal(t, "v1", fi.PutAttribute("k", "v2"))
	require.Equal(t, "v2", fi.Attribute("k"))
	require.Equal(t, "BINARY", fi.DocValuesType().String())
	require.False(t, DocValuesType(7).IsValid())
}

func TestSegmentInfoFiles(t *testing.T) {
	si := NewSegmentInfo(nil, "4.6", "_0", -1, false, nil, nil, nil)
	si.SetDocCount(3)
	require.Equal(t, 3, si.DocCount())
	require.Panics(t, func() { si.SetDocCount(4) })
	si.AddFile("_0.si")
	si.AddFile("_0.dvd")
	require.Equal(t, []string{"_0.dvd", "_0.si"}, si.SortedFiles())
	require.Panics(t, func() { si.AddFile("bogus") })
	require.Equal(t, "_0(4.6):C3", si.String())
}
