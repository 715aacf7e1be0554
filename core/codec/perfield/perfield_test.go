package perfield_test

import (
	"testing"

	"github.com/ironsweet/docvalues/core/codec/asserting"
	"github.com/ironsweet/docvalues/core/codec/lucene45"
	"github.com/ironsweet/docvalues/core/codec/perfield"
	. "github.com/ironsweet/docvalues/core/codec/spi"
	. "github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/ironsweet/docvalues/core/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutesFieldsToFormats(t *testing.T) {
	plain := lucene45.NewLucene45DocValuesFormat()
	checked := asserting.NewAssertingDocValuesFormat(lucene45.NewLucene45DocValuesFormat())
	format := perfield.NewPerFieldDocValuesFormat(func(field string) DocValuesFormat {
		if field == "checked" {
			return checked
		}
		return plain
	})

	a := NewFieldInfo("plain", false, 0, false, false, false, INDEX_OPT_NONE,
		DOC_VALUES_TYPE_NUMERIC, DOC_VALUES_TYPE_NONE, -1, nil)
	b := NewFieldInfo("checked", false, 1, false, false, false, INDEX_OPT_NONE,
		DOC_VALUES_TYPE_BINARY, DOC_VALUES_TYPE_NONE, -1, nil)
	c := NewFieldInfo("empty", false, 2, false, false, false, INDEX_OPT_NONE,
		DOC_VALUES_TYPE_NONE, DOC_VALUES_TYPE_NONE, -1, nil)
	fis := NewFieldInfos([]*FieldInfo{a, b, c})

	dir := store.NewRAMDirectory()
	si := NewSegmentInfo(dir, "4.6", "_0", 2, false, nil, nil, nil)
	w, err := format.FieldsConsumer(NewSegmentWriteState(util.NO_OUTPUT, dir, si, fis, store.IO_CONTEXT_DEFAULT))
	require.NoError(t, err)
	require.NoError(t, w.AddNumericField(a, NewNumericIterable(10, 20)))
	require.NoError(t, w.AddBinaryField(b, NewBytesIterable([]byte("x"), []byte("y"))))
	require.NoError(t, w.Close())

	assert.Equal(t, "Lucene45", a.Attribute(perfield.PER_FIELD_FORMAT_KEY))
	assert.Equal(t, "0", a.Attribute(perfield.PER_FIELD_SUFFIX_KEY))
	assert.Equal(t, "Asserting", b.Attribute(perfield.PER_FIELD_FORMAT_KEY))
	assert.Equal(t, "", c.Attribute(perfield.PER_FIELD_FORMAT_KEY))
	for _, name := range []string{"_0_Lucene45_0.dvd", "_0_Lucene45_0.dvm", "_0_Asserting_0.dvd", "_0_Asserting_0.dvm"} {
		assert.True(t, dir.FileExists(name), name)
		assert.True(t, si.Files()[name], name)
	}

	p, err := format.FieldsProducer(NewSegmentReadState(dir, si, fis, store.IO_CONTEXT_READ))
	require.NoError(t, err)
	defer p.Close()
	ndv, err := p.Numeric(a)
	require.NoError(t, err)
	assert.Equal(t, int64(20), ndv(1))
	bdv, err := p.Binary(b)
	require.NoError(t, err)
	assert.Equal(t, "y", string(bdv.Get(1)))
	missing, err := p.Numeric(c)
	require.NoError(t, err)
	assert.Nil(t, missing)
	require.NoError(t, p.CheckIntegrity())
}

func TestMissingSuffixAttribute(t *testing.T) {
	f := NewFieldInfo("f", false, 0, false, false, false, INDEX_OPT_NONE,
		DOC_VALUES_TYPE_NUMERIC, DOC_VALUES_TYPE_NONE, -1,
		map[string]string{perfield.PER_FIELD_FORMAT_KEY: "Lucene45"})
	fis := NewFieldInfos([]*FieldInfo{f})
	dir := store.NewRAMDirectory()
	si := NewSegmentInfo(dir, "4.6", "_0", 1, false, nil, nil, nil)
	format := perfield.NewPerFieldDocValuesFormat(nil)
	_, err := format.FieldsProducer(NewSegmentReadState(dir, si, fis, store.IO_CONTEXT_READ))
	require.Error(t, err)
	assert.Contains(t, err.Error(), perfield.PER_FIELD_SUFFIX_KEY)
}
