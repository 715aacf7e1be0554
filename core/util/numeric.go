package util

import (
	"math/bits"
)

/* Returns how many bits are required to hold values up to and including maxValue. */
func BitsRequired(maxValue uint64) int {
	if maxValue == 0 {
		return 1
	}
	return 64 - bits.LeadingZeros64(maxValue)
}
