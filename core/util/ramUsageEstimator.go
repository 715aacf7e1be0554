package util

// util.RamUsageEstimator.java

// amd64 system
const (
	NUM_BYTES_INT  = 8
	NUM_BYTES_LONG = 8

	/* Number of bytes to represent an object reference */
	NUM_BYTES_OBJECT_REF = 8

	// Number of bytes to represent an array header (no content, but with alignments).
	NUM_BYTES_ARRAY_HEADER = 24

	// Object sizes are always rounded up to a multiple of this constant.
	NUM_BYTES_OBJECT_ALIGNMENT = 8
)

/* Aligns an object size to be the next multiple of NUM_BYTES_OBJECT_ALIGNMENT */
func alignObjectSize(size int64) int64 {
	size += NUM_BYTES_OBJECT_ALIGNMENT - 1
	return size - (size % NUM_BYTES_OBJECT_ALIGNMENT)
}

/* Returns the size in bytes of the slice, header included. */
func SizeOf(arr interface{}) int64 {
	switch v := arr.(type) {
	case []int64:
		return alignObjectSize(NUM_BYTES_ARRAY_HEADER + NUM_BYTES_LONG*int64(cap(v)))
	case []int:
		return alignObjectSize(NUM_BYTES_ARRAY_HEADER + NUM_BYTES_INT*int64(cap(v)))
	case []bool:
		return alignObjectSize(NUM_BYTES_ARRAY_HEADER + int64(cap(v)))
	case []byte:
		return alignObjectSize(NUM_BYTES_ARRAY_HEADER + int64(cap(v)))
	}
	panic("not supported yet")
}
