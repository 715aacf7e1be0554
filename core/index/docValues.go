package index

import (
	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/util"
)

// index/DocValues.java

/*
Returns NumericDocValues for the reader, or an empty instance if the
field has no doc values.
*/
func GetNumeric(reader AtomicReader, field string) (spi.NumericDocValues, error) {
	dv, err := reader.NumericDocValues(field)
	if err != nil {
		return nil, err
	}
	if dv == nil {
		return spi.EMPTY_NUMERIC, nil
	}
	return dv, nil
}

/*
Returns BinaryDocValues for the reader, falling back to the values of
a SORTED field. Returns an empty instance if the field has no doc
values.
*/
func GetBinary(reader AtomicReader, field string) (spi.BinaryDocValues, error) {
	if fi := reader.FieldInfos().FieldInfoByName(field); fi != nil && fi.DocValuesType() == model.DOC_VALUES_TYPE_SORTED {
		return GetSorted(reader, field)
	}
	dv, err := reader.BinaryDocValues(field)
	if err != nil {
		return nil, err
	}
	if dv == nil {
		return spi.EMPTY_BINARY, nil
	}
	return dv, nil
}

/*
Returns SortedDocValues for the reader, or an empty instance if the
field has no doc values.
*/
func GetSorted(reader AtomicReader, field string) (spi.SortedDocValues, error) {
	dv, err := reader.SortedDocValues(field)
	if err != nil {
		return nil, err
	}
	if dv == nil {
		return spi.EMPTY_SORTED, nil
	}
	return dv, nil
}

/*
Returns SortedSetDocValues for the reader. A SORTED field is exposed
as a singleton set. Returns an empty instance if the field has no doc
values.
*/
func GetSortedSet(reader AtomicReader, field string) (spi.SortedSetDocValues, error) {
	if fi := reader.FieldInfos().FieldInfoByName(field); fi != nil && fi.DocValuesType() == model.DOC_VALUES_TYPE_SORTED {
		sorted, err := reader.SortedDocValues(field)
		if err != nil {
			return nil, err
		}
		return spi.NewSingletonSortedSetDocValues(sorted), nil
	}
	dv, err := reader.SortedSetDocValues(field)
	if err != nil {
		return nil, err
	}
	if dv == nil {
		return spi.EMPTY_SORTED_SET, nil
	}
	return dv, nil
}

/*
Returns a Bits for the reader, with a bit set for every document that
has a value in field. All bits are clear if the field has no doc
values.
*/
func GetDocsWithField(reader AtomicReader, field string) (util.Bits, error) {
	dv, err := reader.DocsWithField(field)
	if err != nil {
		return nil, err
	}
	if dv == nil {
		return util.MatchNoBits(reader.MaxDoc()), nil
	}
	return dv, nil
}

/*
Returns the single-valued view of dv if it was produced from a SORTED
field, nil otherwise.
*/
func UnwrapSingleton(dv spi.SortedSetDocValues) spi.SortedDocValues {
	if singleton, ok := dv.(*spi.SingletonSortedSetDocValues); ok {
		return singleton.SortedDocValues()
	}
	return nil
}
