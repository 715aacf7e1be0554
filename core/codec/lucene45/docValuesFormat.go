package lucene45

import (
	"fmt"

	. "github.com/ironsweet/docvalues/core/codec/spi"
	. "github.com/ironsweet/docvalues/core/index/model"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("lucene45")

const (
	DV_DATA_CODEC     = "Lucene45DocValuesData"
	DV_DATA_EXTENSION = "dvd"
	DV_META_CODEC     = "Lucene45DocValuesMetadata"
	DV_META_EXTENSION = "dvm"

	DV_VERSION_START    = 0
	DV_VERSION_CHECKSUM = 1
	DV_VERSION_CURRENT  = DV_VERSION_CHECKSUM

	DV_NUMERIC    = 0
	DV_BINARY     = 1
	DV_SORTED     = 2
	DV_SORTED_SET = 3
)

/*
Lucene 4.5 DocValues format.

Encodes the four per-document value types with these strategies:

NUMERIC:
- Delta-compressed: per-document integers are stored as the
  difference from the minimum value, bit-packed with just enough bits
  for the largest difference. A field where every document holds the
  same value takes no data at all.

BINARY:
- Fixed-width: when all values have the same length, values are
  simply concatenated.
- Variable-width: the concatenated payload is followed by the
  bit-packed start address of every document (plus the end address).
- The payload may be block-compressed with LZ4 or zstd. The mode is
  recorded per field, so readers never need to be configured.

SORTED:
- The dictionary is written as a BINARY entry, and the per-document
  ordinals (-1 for missing) as a NUMERIC entry.

SORTED_SET:
- The dictionary is written as a BINARY entry. Each document's
  ordinals are written as a run of delta-encoded VLongs, followed by
  the bit-packed start address of every document's run.

Documents without a value are recorded in a serialized roaring bitmap
of the documents that do have one; the bitmap is omitted when every
document has a value.

Files:
1. .dvm: DocValues metadata
2. .dvd: DocValues data

Both files start with a codec header and end with a codec footer.
*/
type Lucene45DocValuesFormat struct {
	compression Compression
}

func NewLucene45DocValuesFormat() *Lucene45DocValuesFormat {
	return NewLucene45DocValuesFormatWith(COMPRESSION_NONE)
}

/* Returns a format compressing binary payloads with c when writing. */
func NewLucene45DocValuesFormatWith(c Compression) *Lucene45DocValuesFormat {
	return &Lucene45DocValuesFormat{c}
}

func (f *Lucene45DocValuesFormat) Name() string {
	return "Lucene45"
}

func (f *Lucene45DocValuesFormat) FieldsConsumer(state *SegmentWriteState) (w DocValuesConsumer, err error) {
	c, err := newLucene45DocValuesConsumer(state, f.compression,
		DV_DATA_CODEC, DV_DATA_EXTENSION, DV_META_CODEC, DV_META_EXTENSION)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (f *Lucene45DocValuesFormat) FieldsProducer(state SegmentReadState) (r DocValuesProducer, err error) {
	p, err := newLucene45DocValuesProducer(state,
		DV_DATA_CODEC, DV_DATA_EXTENSION, DV_META_CODEC, DV_META_EXTENSION)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (f *Lucene45DocValuesFormat) String() string {
	return fmt.Sprintf("Lucene45DocValuesFormat(compression=%v)", f.compression)
}
