package util

import (
	"github.com/spaolacci/murmur3"
)

/* Returns the MurmurHash3_x86_32 hash of data with the given seed. */
func MurmurHash3_x86_32(data []byte, seed uint32) uint32 {
	return murmur3.Sum32WithSeed(data, seed)
}

/*
Seed for hashing byte strings in memory. Fixed so hash iteration
order is reproducible across runs.
*/
const GOOD_FAST_HASH_SEED uint32 = 0x9747b28c
