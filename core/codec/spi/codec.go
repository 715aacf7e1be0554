package spi

import (
	"fmt"
	"sort"
	"sync"

	. "github.com/ironsweet/docvalues/core/index/model"
	"github.com/ironsweet/docvalues/core/store"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("spi")

/*
Encodes/decodes the doc values side of an index segment.

Note, when extending this class, the name is written into the index.
In order for the segment to be read, the name must resolve to your
implementation via LoadCodec(). This method use a registry map to
resolve codec names.

If you implement your own codec, make sure that it is registered so
LoadCodec() can find it.
*/
type Codec interface {
	// Returns this codec's name
	Name() string
	// Encodes/decodes docvalues
	DocValuesFormat() DocValuesFormat
	// Encodes/decodes field infos file
	FieldInfosFormat() FieldInfosFormat
	// Encodes/decodes segment info file
	SegmentInfoFormat() SegmentInfoFormat
}

type CodecImpl struct {
	name             string
	fieldInfosFormat FieldInfosFormat
	infosFormat      SegmentInfoFormat
	docValuesFormat  DocValuesFormat
}

func NewCodec(name string,
	fieldInfosFormat FieldInfosFormat,
	infosFormat SegmentInfoFormat,
	docValuesFormat DocValuesFormat) *CodecImpl {
	return &CodecImpl{name, fieldInfosFormat, infosFormat, docValuesFormat}
}

func (codec *CodecImpl) Name() string {
	return codec.name
}

func (codec *CodecImpl) DocValuesFormat() DocValuesFormat {
	return codec.docValuesFormat
}

func (codec *CodecImpl) FieldInfosFormat() FieldInfosFormat {
	return codec.fieldInfosFormat
}

func (codec *CodecImpl) SegmentInfoFormat() SegmentInfoFormat {
	return codec.infosFormat
}

/*
returns the codec's name. Subclass can override to provide more
detail (such as parameters.)
*/
func (codec *CodecImpl) String() string {
	return codec.name
}

var (
	codecsLock sync.RWMutex
	allCodecs  = make(map[string]Codec)
)

// workaround Lucene Java's SPI mechanism
func RegisterCodec(codecs ...Codec) {
	codecsLock.Lock()
	defer codecsLock.Unlock()
	for _, codec := range codecs {
		log.Debugf("Found codec: %v", codec.Name())
		allCodecs[codec.Name()] = codec
	}
}

// looks up a codec by name
func LoadCodec(name string) (Codec, error) {
	codecsLock.RLock()
	defer codecsLock.RUnlock()
	c, ok := allCodecs[name]
	if !ok {
		return nil, NewIllegalArgumentError(
			"A Codec with name '%v' does not exist. Available codecs: %v",
			name, availableCodecs())
	}
	return c, nil
}

// returns a sorted list of all available codec names
func AvailableCodecs() []string {
	codecsLock.RLock()
	defer codecsLock.RUnlock()
	return availableCodecs()
}

func availableCodecs() []string {
	ans := make([]string, 0, len(allCodecs))
	for name := range allCodecs {
		ans = append(ans, name)
	}
	sort.Strings(ans)
	return ans
}

// Encodes/decodes FieldInfos
type FieldInfosFormat interface {
	// Returns a FieldInfosReader to read field infos from the index
	FieldInfosReader() FieldInfosReader
	// Returns a FieldInfosWriter to write field infos to the index
	FieldInfosWriter() FieldInfosWriter
}

// Codec API for reading FieldInfos.
type FieldInfosReader func(d store.Directory, name, suffix string, ctx store.IOContext) (infos FieldInfos, err error)

// Codec API for writing FieldInfos.
type FieldInfosWriter func(d store.Directory, name, suffix string, infos FieldInfos, ctx store.IOContext) error

/*
Returned for configuration and argument mistakes, such as asking for
a doc values type a field was not indexed with.
*/
type IllegalArgumentError struct {
	msg string
}

func NewIllegalArgumentError(msg string, args ...interface{}) error {
	return &IllegalArgumentError{fmt.Sprintf(msg, args...)}
}

func (e *IllegalArgumentError) Error() string {
	return e.msg
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
