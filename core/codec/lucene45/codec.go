package lucene45

import (
	"fmt"

	"github.com/ironsweet/docvalues/core/codec/lucene46"
	"github.com/ironsweet/docvalues/core/codec/perfield"
	. "github.com/ironsweet/docvalues/core/codec/spi"
)

// NOTE: if we make largish changes in a minor release, easier to
// just make Lucene46Codec or whatever if they are backwards
// compatible or smallish we can probably do the backwards in the
// docvalues reader (it writes a minor version, etc).
/*
Implements the Lucene 4.5 index format, with configurable per-field
docvalues formats.

Field infos and segment infos are written with the Lucene 4.6
formats, which carry checksummed footers.
*/
type Lucene45Codec struct {
	*CodecImpl
	dvFormat DocValuesFormat
}

func init() {
	RegisterDocValuesFormat(NewLucene45DocValuesFormat())
	RegisterCodec(Lucene45CodecImpl)
}

var Lucene45CodecImpl = NewLucene45Codec(COMPRESSION_NONE)

/*
Returns a Lucene45 codec whose default docvalues format compresses
binary payloads with c. Segments written with any compression mode
are readable by every Lucene45 codec instance.
*/
func NewLucene45Codec(c Compression) *Lucene45Codec {
	ans := &Lucene45Codec{dvFormat: NewLucene45DocValuesFormatWith(c)}
	ans.CodecImpl = NewCodec("Lucene45",
		lucene46.NewLucene46FieldInfosFormat(),
		lucene46.NewLucene46SegmentInfoFormat(),
		perfield.NewPerFieldDocValuesFormat(func(field string) DocValuesFormat {
			return ans.DocValuesFormatForField(field)
		}),
	)
	return ans
}

/*
Returns the docvalues format that should be used for writing new
segments of field.

The default implementation always returns "Lucene45"
*/
func (codec *Lucene45Codec) DocValuesFormatForField(field string) DocValuesFormat {
	return codec.dvFormat
}

func (codec *Lucene45Codec) String() string {
	return fmt.Sprintf("Lucene45(docValues=%v)", codec.dvFormat)
}
