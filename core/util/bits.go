package util

import (
	"fmt"
	"math/bits"

	"github.com/RoaringBitmap/roaring/v2"
)

/* Interface for Bitset-like structures. */
type Bits interface {
	/*
		Returns the value of the bit with the specified index. The index
		should be non-negative and < Length(). The result of passing
		negative or out of bounds values is undefined.
	*/
	At(index int) bool
	// Returns the number of bits in the set
	Length() int
}

/* Extension of Bits for live documents. */
type MutableBits interface {
	Bits
	// Sets the bit specified by index to false.
	Clear(index int)
}

/* Bits impl of the specified length with all bits set. */
type MatchAllBits int

func (b MatchAllBits) At(index int) bool { return true }
func (b MatchAllBits) Length() int       { return int(b) }

/* Bits impl of the specified length with no bits set. */
type MatchNoBits int

func (b MatchNoBits) At(index int) bool { return false }
func (b MatchNoBits) Length() int       { return int(b) }

/*
BitSet of fixed length (numBits), backed by accessible Bits() []uint64,
accessed with an int index. Unlike OpenBitSet, this bit set does not
auto-expand.
*/
type FixedBitSet struct {
	bits    []uint64
	numBits int
}

func NewFixedBitSetOf(numBits int) *FixedBitSet {
	return &FixedBitSet{
		bits:    make([]uint64, bits2words(numBits)),
		numBits: numBits,
	}
}

/* Returns the number of 64 bit words it would take to hold numBits */
func bits2words(numBits int) int {
	return (numBits + 63) >> 6
}

func (b *FixedBitSet) Length() int { return b.numBits }

func (b *FixedBitSet) At(index int) bool {
	assert2(index >= 0 && index < b.numBits, "index=%v numBits=%v", index, b.numBits)
	return b.bits[index>>6]&(uint64(1)<<uint(index&63)) != 0
}

func (b *FixedBitSet) Set(index int) {
	assert2(index >= 0 && index < b.numBits, "index=%v numBits=%v", index, b.numBits)
	b.bits[index>>6] |= uint64(1) << uint(index&63)
}

func (b *FixedBitSet) Clear(index int) {
	assert2(index >= 0 && index < b.numBits, "index=%v numBits=%v", index, b.numBits)
	b.bits[index>>6] &^= uint64(1) << uint(index&63)
}

/*
Returns number of set bits. NOTE: this visits every uint64 in the
backing bits slice, and the result is not internaly cached!
*/
func (b *FixedBitSet) Cardinality() int {
	n := 0
	for _, w := range b.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

/* Returns the index of the first set bit starting at the index specified, or -1. */
func (b *FixedBitSet) NextSetBit(index int) int {
	if index >= b.numBits {
		return -1
	}
	i := index >> 6
	word := b.bits[i] >> uint(index&63)
	if word != 0 {
		return index + bits.TrailingZeros64(word)
	}
	for i++; i < len(b.bits); i++ {
		if word = b.bits[i]; word != 0 {
			return i<<6 + bits.TrailingZeros64(word)
		}
	}
	return -1
}

/*
Read-only Bits view over a roaring bitmap. Used where the set of
documents is sparse or was persisted in its portable serialized form.
*/
type RoaringBits struct {
	rb     *roaring.Bitmap
	length int
}

func NewRoaringBits(rb *roaring.Bitmap, length int) *RoaringBits {
	assert2(rb != nil, "nil roaring bitmap")
	return &RoaringBits{rb, length}
}

func (b *RoaringBits) At(index int) bool {
	return b.rb.Contains(uint32(index))
}

func (b *RoaringBits) Length() int { return b.length }

func (b *RoaringBits) Cardinality() int {
	return int(b.rb.GetCardinality())
}

func (b *RoaringBits) String() string {
	return fmt.Sprintf("RoaringBits(length=%v, cardinality=%v)", b.length, b.rb.GetCardinality())
}
