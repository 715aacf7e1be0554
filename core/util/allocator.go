package util

/* Abstract class for allocating and freeing byte blocks. */
type ByteAllocator interface {
	RecycleByteBlocks(blocks [][]byte, start, end int)
	ByteBlock() []byte
}

/* A simple Allocator that never recycles, but tracks how much total RAM is in use. */
type DirectTrackingAllocator struct {
	blockSize int
	bytesUsed Counter
}

func NewDirectTrackingAllocator(bytesUsed Counter) *DirectTrackingAllocator {
	return &DirectTrackingAllocator{BYTE_BLOCK_SIZE, bytesUsed}
}

func (a *DirectTrackingAllocator) ByteBlock() []byte {
	a.bytesUsed.AddAndGet(int64(a.blockSize))
	return make([]byte, a.blockSize)
}

func (a *DirectTrackingAllocator) RecycleByteBlocks(blocks [][]byte, start, end int) {
	a.bytesUsed.AddAndGet(-int64((end - start) * a.blockSize))
	for i := start; i < end; i++ {
		blocks[i] = nil
	}
}

// util/Counter.java

type Counter interface {
	AddAndGet(delta int64) int64
	Get() int64
}

func NewCounter() Counter {
	return &serialCounter{0}
}

type serialCounter struct {
	count int64
}

func (sc *serialCounter) AddAndGet(delta int64) int64 {
	sc.count += delta
	return sc.count
}

func (sc *serialCounter) Get() int64 {
	return sc.count
}
