package index

import (
	"fmt"

	"github.com/ironsweet/docvalues/core/codec/asserting"
	"github.com/ironsweet/docvalues/core/codec/lucene45"
	"github.com/ironsweet/docvalues/core/codec/spi"
	"github.com/ironsweet/docvalues/core/util"
)

// index/IndexWriterConfig.java

// Name of the codec new segments are written with by default.
const DEFAULT_CODEC_NAME = "Lucene45"

// Denotes a flush trigger is disabled.
const DISABLE_AUTO_FLUSH = -1

// Specifies the open mode for IndexWriter
type OpenMode int

const (
	// Creates a new index or overwrites an existing one.
	OPEN_MODE_CREATE = OpenMode(1)
	// Opens an existing index.
	OPEN_MODE_APPEND = OpenMode(2)
	// Creates a new index if one does not exist,
	// otherwise it opens the index and documents will be appended.
	OPEN_MODE_CREATE_OR_APPEND = OpenMode(3)
)

func (m OpenMode) String() string {
	switch m {
	case OPEN_MODE_CREATE:
		return "CREATE"
	case OPEN_MODE_APPEND:
		return "APPEND"
	case OPEN_MODE_CREATE_OR_APPEND:
		return "CREATE_OR_APPEND"
	}
	return fmt.Sprintf("OpenMode(%d)", int(m))
}

/*
Holds all the configuration used by SegmentWriter and IndexWriter.

All setter methods return *Config to allow chaining settings
conveniently, for example:

	conf := NewConfig().
		SetCompression(lucene45.COMPRESSION_ZSTD).
		SetAsserting(true)
*/
type Config struct {
	codecName   string
	compression lucene45.Compression
	asserting   bool
	infoStream  util.InfoStream
	diagnostics map[string]string

	openMode        OpenMode
	maxBufferedDocs int
}

func NewConfig() *Config {
	return &Config{
		codecName:   DEFAULT_CODEC_NAME,
		compression: lucene45.COMPRESSION_NONE,
		infoStream:  util.NO_OUTPUT,

		openMode:        OPEN_MODE_CREATE_OR_APPEND,
		maxBufferedDocs: DISABLE_AUTO_FLUSH,
	}
}

/*
Sets the name of the registered codec new segments are written with.
Ignored when asserting is enabled.
*/
func (conf *Config) SetCodecName(name string) *Config {
	assert2(name != "", "codec name must not be empty")
	conf.codecName = name
	return conf
}

func (conf *Config) CodecName() string {
	return conf.codecName
}

/* Sets how the default doc values format compresses binary payloads. */
func (conf *Config) SetCompression(c lucene45.Compression) *Config {
	conf.compression = c
	return conf
}

func (conf *Config) Compression() lucene45.Compression {
	return conf.compression
}

/*
When enabled, new segments are written through the Asserting codec
which validates every doc values sequence before forwarding it.
*/
func (conf *Config) SetAsserting(on bool) *Config {
	conf.asserting = on
	return conf
}

func (conf *Config) Asserting() bool {
	return conf.asserting
}

/*
Flush messages are printed to this. Must not be nil, but NO_OUTPUT
may be used to suppress output.
*/
func (conf *Config) SetInfoStream(infoStream util.InfoStream) *Config {
	assert2(infoStream != nil, "Cannot set InfoStream implementation to nil. "+
		"To disable logging use util.NO_OUTPUT")
	conf.infoStream = infoStream
	return conf
}

/* Sends flush messages to the named go-logging module, at DEBUG level. */
func (conf *Config) SetLoggingInfoStream(module string) *Config {
	return conf.SetInfoStream(util.NewLoggingInfoStream(module))
}

func (conf *Config) InfoStream() util.InfoStream {
	return conf.infoStream
}

/* Extra diagnostics recorded into every flushed segment. */
func (conf *Config) SetDiagnostics(diagnostics map[string]string) *Config {
	conf.diagnostics = diagnostics
	return conf
}

func (conf *Config) Diagnostics() map[string]string {
	return conf.diagnostics
}

func (conf *Config) SetOpenMode(mode OpenMode) *Config {
	conf.openMode = mode
	return conf
}

func (conf *Config) OpenMode() OpenMode {
	return conf.openMode
}

/*
Determines the minimal number of documents required before the
buffered documents are flushed as a new segment. Pass
DISABLE_AUTO_FLUSH to flush only on explicit Flush() or Commit().
*/
func (conf *Config) SetMaxBufferedDocs(maxBufferedDocs int) *Config {
	assert2(maxBufferedDocs == DISABLE_AUTO_FLUSH || maxBufferedDocs >= 2,
		"maxBufferedDocs must at least be 2 when enabled")
	conf.maxBufferedDocs = maxBufferedDocs
	return conf
}

func (conf *Config) MaxBufferedDocs() int {
	return conf.maxBufferedDocs
}

/* Resolves the codec new segments are written with. */
func (conf *Config) Codec() (spi.Codec, error) {
	switch {
	case conf.asserting:
		return asserting.NewAssertingCodec(conf.compression), nil
	case conf.codecName == DEFAULT_CODEC_NAME:
		return lucene45.NewLucene45Codec(conf.compression), nil
	default:
		return spi.LoadCodec(conf.codecName)
	}
}

func (conf *Config) String() string {
	return fmt.Sprintf("codec=%v\ncompression=%v\nasserting=%v\ninfoStream=%T\nopenMode=%v\nmaxBufferedDocs=%v\n",
		conf.codecName, conf.compression, conf.asserting, conf.infoStream, conf.openMode, conf.maxBufferedDocs)
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
