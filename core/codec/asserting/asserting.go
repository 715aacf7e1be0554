/*
Package asserting wraps the docvalues codec with invariant checks.

Every value sequence handed to a consumer is walked once and verified
before it is forwarded untouched, so the wrapped format writes exactly
the bytes it would have written on its own. Accessors returned by the
producer reject out-of-range documents and ordinals. Any violation
panics with an *AssertionError naming the field, document or ordinal.

Meant for tests and verification builds.
*/
package asserting

import (
	"fmt"

	"github.com/ironsweet/docvalues/core/codec/lucene45"
	"github.com/ironsweet/docvalues/core/codec/perfield"
	. "github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("asserting")

/* A codec contract violation. */
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return e.Message
}

func fail(msg string, args ...interface{}) {
	panic(&AssertionError{fmt.Sprintf(msg, args...)})
}

func check(ok bool, msg string, args ...interface{}) {
	if !ok {
		fail(msg, args...)
	}
}

/* Codec that wraps every docvalues format with AssertingDocValuesFormat. */
type AssertingCodec struct {
	*CodecImpl
	dvFormat DocValuesFormat
}

func init() {
	RegisterDocValuesFormat(NewAssertingDocValuesFormat(lucene45.NewLucene45DocValuesFormat()))
	RegisterCodec(AssertingCodecImpl)
}

var AssertingCodecImpl = NewAssertingCodec(lucene45.COMPRESSION_NONE)

func NewAssertingCodec(c lucene45.Compression) *AssertingCodec {
	delegate := lucene45.NewLucene45Codec(c)
	ans := &AssertingCodec{
		dvFormat: NewAssertingDocValuesFormat(lucene45.NewLucene45DocValuesFormatWith(c)),
	}
	ans.CodecImpl = NewCodec("Asserting",
		delegate.FieldInfosFormat(),
		delegate.SegmentInfoFormat(),
		perfield.NewPerFieldDocValuesFormat(func(field string) DocValuesFormat {
			return ans.dvFormat
		}),
	)
	return ans
}

func (codec *AssertingCodec) String() string {
	return fmt.Sprintf("Asserting(%v)", codec.dvFormat)
}
