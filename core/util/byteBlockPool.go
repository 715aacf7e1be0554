package util

// util/ByteBlockPool.java

const (
	BYTE_BLOCK_SHIFT = 15
	BYTE_BLOCK_SIZE  = 1 << BYTE_BLOCK_SHIFT
	BYTE_BLOCK_MASK  = BYTE_BLOCK_SIZE - 1
)

/*
Stores byte strings in shared fixed-size []byte blocks. Each entry is
a one or two byte length prefix followed by the bytes, and is
addressed by its absolute offset into the pool. Entries never cross
block boundaries.
*/
type ByteBlockPool struct {
	// array of buffers currently used in the pool. Buffers are
	// allocated if needed, don't modify this outside of this class.
	Buffers [][]byte
	// index into the buffers array pointing to the current buffer
	// used as the head
	bufferUpto int
	// Where we are in head buffer
	ByteUpto int
	// Current head buffer
	Buffer []byte
	// Current head offset
	ByteOffset int

	allocator ByteAllocator
}

func NewByteBlockPool(allocator ByteAllocator) *ByteBlockPool {
	return &ByteBlockPool{
		Buffers:    make([][]byte, 10),
		bufferUpto: -1,
		ByteUpto:   BYTE_BLOCK_SIZE,
		ByteOffset: -BYTE_BLOCK_SIZE,
		allocator:  allocator,
	}
}

/*
Expert: Resets the pool to its initial state, reusing the first
buffer when reuseFirst is true. Buffers are zero-filled when
zeroFillBuffers is true.
*/
func (pool *ByteBlockPool) Reset(zeroFillBuffers, reuseFirst bool) {
	if pool.bufferUpto == -1 {
		return
	}
	// We allocated at least one buffer
	if zeroFillBuffers {
		for i := 0; i < pool.bufferUpto; i++ {
			// fully zero fill buffers that we fully used
			for j := range pool.Buffers[i] {
				pool.Buffers[i][j] = 0
			}
		}
		// partial zero fill the final buffer
		for j := 0; j < pool.ByteUpto; j++ {
			pool.Buffers[pool.bufferUpto][j] = 0
		}
	}

	if pool.bufferUpto > 0 || !reuseFirst {
		offset := 0
		if reuseFirst {
			offset = 1
		}
		// Recycle all but the first buffer
		pool.allocator.RecycleByteBlocks(pool.Buffers, offset, 1+pool.bufferUpto)
	}
	if reuseFirst {
		// Re-use the first buffer
		pool.bufferUpto = 0
		pool.ByteUpto = 0
		pool.ByteOffset = 0
		pool.Buffer = pool.Buffers[0]
	} else {
		pool.bufferUpto = -1
		pool.ByteUpto = BYTE_BLOCK_SIZE
		pool.ByteOffset = -BYTE_BLOCK_SIZE
		pool.Buffer = nil
	}
}

/*
Advances the pool to its next buffer. This method should be called
once after the constructor to initialize the pool. In contrast to the
constructor a Reset() call will advance the pool to its first buffer
immediately.
*/
func (pool *ByteBlockPool) NextBuffer() {
	if 1+pool.bufferUpto == len(pool.Buffers) {
		newBuffers := make([][]byte, Oversize(len(pool.Buffers)+1, NUM_BYTES_OBJECT_REF))
		copy(newBuffers, pool.Buffers)
		pool.Buffers = newBuffers
	}
	pool.Buffer = pool.allocator.ByteBlock()
	pool.Buffers[1+pool.bufferUpto] = pool.Buffer
	pool.bufferUpto++

	pool.ByteUpto = 0
	pool.ByteOffset += BYTE_BLOCK_SIZE
}

/* Points term at the length-prefixed entry starting at textStart. */
func (pool *ByteBlockPool) SetBytesRef(term *BytesRef, textStart int) {
	bytes := pool.Buffers[textStart>>BYTE_BLOCK_SHIFT]
	term.Bytes = bytes
	pos := textStart & BYTE_BLOCK_MASK
	if bytes[pos]&0x80 == 0 {
		// length is 1 byte
		term.Length = int(bytes[pos])
		term.Offset = pos + 1
	} else {
		// length is 2 bytes
		term.Length = int(bytes[pos]&0x7f) + int(bytes[pos+1])<<7
		term.Offset = pos + 2
	}
	assert2(term.Length >= 0, "negative term length: %v", term.Length)
}
