package lucene45

import (
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

/* Block compression applied to binary payloads and dictionaries. */
type Compression byte

const (
	COMPRESSION_NONE = Compression(0)
	COMPRESSION_LZ4  = Compression(1)
	COMPRESSION_ZSTD = Compression(2)
)

func (c Compression) String() string {
	switch c {
	case COMPRESSION_NONE:
		return "none"
	case COMPRESSION_LZ4:
		return "lz4"
	case COMPRESSION_ZSTD:
		return "zstd"
	}
	return fmt.Sprintf("Compression(%d)", byte(c))
}

/* Parses "none", "lz4" or "zstd" (case insensitive). */
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return COMPRESSION_NONE, nil
	case "lz4":
		return COMPRESSION_LZ4, nil
	case "zstd":
		return COMPRESSION_ZSTD, nil
	}
	return COMPRESSION_NONE, fmt.Errorf("unknown compression: %v", name)
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

/*
Compresses raw with c. When compression does not make the block
smaller the raw bytes are returned with COMPRESSION_NONE, so the
caller must record the returned mode rather than c.
*/
func compress(raw []byte, c Compression) ([]byte, Compression, error) {
	if c == COMPRESSION_NONE || len(raw) == 0 {
		return raw, COMPRESSION_NONE, nil
	}
	var packed []byte
	switch c {
	case COMPRESSION_LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, buf, nil)
		if err != nil {
			return nil, c, err
		}
		packed = buf[:n] // n == 0 means incompressible
	case COMPRESSION_ZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, c, err
		}
		packed = enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, c, fmt.Errorf("unknown compression: %v", c)
	}
	if len(packed) == 0 || len(packed) >= len(raw) {
		return raw, COMPRESSION_NONE, nil
	}
	return packed, c, nil
}

func decompress(stored []byte, c Compression, rawLength int64) ([]byte, error) {
	switch c {
	case COMPRESSION_NONE:
		return stored, nil
	case COMPRESSION_LZ4:
		raw := make([]byte, rawLength)
		n, err := lz4.UncompressBlock(stored, raw)
		if err != nil {
			return nil, err
		}
		if int64(n) != rawLength {
			return nil, fmt.Errorf("lz4: decompressed %v bytes, expected %v", n, rawLength)
		}
		return raw, nil
	case COMPRESSION_ZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)
		raw, err := dec.DecodeAll(stored, make([]byte, 0, rawLength))
		if err != nil {
			return nil, err
		}
		if int64(len(raw)) != rawLength {
			return nil, fmt.Errorf("zstd: decompressed %v bytes, expected %v", len(raw), rawLength)
		}
		return raw, nil
	}
	return nil, fmt.Errorf("unknown compression: %v", c)
}
