package internal

type Numbers interface {
	uint | int | int8 | int32 | int64 | uint8 | uint32 | uint64 | float32 | float64
}

func NearestMultiple[T Numbers](j, k T) T {
	if j >= 0 {
		return (j / k) * k
	}
	return ((j - k + T(1)) / k) * k
}

// ChunkBase returns the record number the chunk containing record n starts
// at, for the given chunk size. Chunks start at records 1, 1+c, 1+2c, and so
// on, which is also the exact set of keys the offset index samples.
func ChunkBase(n, chunkSize int64) int64 {
	return NearestMultiple(n-1, chunkSize) + 1
}
