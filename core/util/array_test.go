package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* Ensure Oversize() gives linear amortized cost of realloc/copy */
func TestGrowth(t *testing.T) {
	var currentSize = 0
	var copyCost int64 = 0

	// Make sure it hits MAX_ARRAY_LENGTH, if we insist:
	for currentSize != MAX_ARRAY_LENGTH {
		nextSize := Oversize(1+currentSize, NUM_BYTES_OBJECT_REF)
		require.True(t, nextSize > currentSize, "%v -> %v", currentSize, nextSize)
		if currentSize > 0 {
			copyCost += int64(currentSize)
			copyCostPerElement := float64(copyCost) / float64(currentSize)
			require.True(t, copyCostPerElement < 10, "cost %v", copyCostPerElement)
		}
		currentSize = nextSize
	}
}

func TestGrowIntSliceKeepsContent(t *testing.T) {
	arr := GrowIntSlice([]int{1, 2, 3}, 10)
	assert.True(t, len(arr) >= 10)
	assert.Equal(t, []int{1, 2, 3}, arr[:3])
}
