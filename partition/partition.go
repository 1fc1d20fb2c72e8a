package partition

// Sizes splits n items into parts of near-equal size.
// First n % parts parts receive one extra item. Parts lower than 1 are treated as 1.
func Sizes(n uint64, parts int) []uint64 {
	if parts < 1 {
		parts = 1
	}

	base := n / uint64(parts)
	remainder := n % uint64(parts)

	sizes := make([]uint64, parts)
	for i := range sizes {
		sizes[i] = base
		if uint64(i) < remainder {
			sizes[i]++
		}
	}
	return sizes
}

// Split splits data into contiguous subslices with sizes returned by Sizes.
// Subslices share memory with data.
func Split[T any](data []T, parts int) [][]T {
	sizes := Sizes(uint64(len(data)), parts)
	result := make([][]T, 0, len(sizes))

	var start uint64
	for _, size := range sizes {
		end := start + size
		result = append(result, data[start:end:end])
		start = end
	}
	return result
}
