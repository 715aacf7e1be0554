package util

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHash() *BytesRefHash {
	counter := NewCounter()
	pool := NewByteBlockPool(NewDirectTrackingAllocator(counter))
	return NewBytesRefHash(pool, DEFAULT_BYTES_REF_HASH_CAPACITY,
		NewDirectBytesStartArray(DEFAULT_BYTES_REF_HASH_CAPACITY, counter))
}

func TestBytesRefHashAddAndFind(t *testing.T) {
	h := newTestHash()
	for i := 0; i < 1000; i++ {
		id, err := h.Add([]byte(fmt.Sprintf("term%04d", i)))
		require.NoError(t, err)
		assert.Equal(t, i, id)
	}
	assert.Equal(t, 1000, h.Size())

	id, err := h.Add([]byte("term0042"))
	require.NoError(t, err)
	assert.Equal(t, -(42 + 1), id)
	assert.Equal(t, 42, h.Find([]byte("term0042")))
	assert.Equal(t, -1, h.Find([]byte("missing")))
	assert.Equal(t, "term0999", string(h.Get(999)))
}

func TestBytesRefHashLongValues(t *testing.T) {
	h := newTestHash()
	long := make([]byte, 300)
	for i := range long {
		long[i] = byte('a' + i%26)
	}
	id, err := h.Add(long)
	require.NoError(t, err)
	assert.Equal(t, long, h.Get(id))

	_, err = h.Add(make([]byte, BYTE_BLOCK_SIZE))
	assert.IsType(t, MaxBytesLengthExceededError(""), err)
}

func TestBytesRefHashSort(t *testing.T) {
	h := newTestHash()
	for _, s := range []string{"pear", "apple", "fig", "banana"} {
		_, err := h.Add([]byte(s))
		require.NoError(t, err)
	}
	sorted := h.Sort(UTF8SortedAsUnicodeLess)
	var got []string
	for _, id := range sorted[:h.Size()] {
		got = append(got, string(h.Get(id)))
	}
	assert.Equal(t, []string{"apple", "banana", "fig", "pear"}, got)
}
