package arena

import (
	"math"
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/outofforest/birthday/types"
	"github.com/outofforest/photon"
)

// MaxKeys is the largest number of keys the arena may hold.
const MaxKeys = math.MaxInt / types.KeyLength

// Huge page sizes tried, in order, when unmapping memory allocated with huge pages.
var hugePageSizes = []uintptr{
	2 * 1024 * 1024,
	1024 * 1024 * 1024,
}

// New allocates memory-mapped buffer for count keys.
// Returned function unmaps the memory, keys must not be used after it is called.
func New(count uint64, useHugePages bool) (*Arena, func() error, error) {
	if count == 0 {
		return &Arena{}, func() error { return nil }, nil
	}
	if count > MaxKeys {
		return nil, nil, errors.Errorf("number of keys %d exceeds the limit %d", count, uint64(MaxKeys))
	}

	size := uintptr(count) * types.KeyLength
	opts := unix.MAP_PRIVATE | unix.MAP_ANONYMOUS | unix.MAP_NORESERVE
	if useHugePages {
		opts |= unix.MAP_HUGETLB
	}
	dataP, err := unix.MmapPtr(-1, 0, nil, size, unix.PROT_READ|unix.PROT_WRITE, opts)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "memory allocation of %d keys failed", count)
	}

	return &Arena{
			size: uint64(size),
			keys: photon.SliceFromPointer[types.Key](dataP, int(count)),
		}, func() error {
			// When using huge pages, the size must be a multiple of the hugepage size. Otherwise, munmap fails.
			if useHugePages {
				for _, pageSize := range hugePageSizes {
					if err := unmap(dataP, size, pageSize); err == nil {
						return nil
					}
				}
			}
			return errors.Wrapf(unmap(dataP, size, uintptr(os.Getpagesize())),
				"releasing memory of %d keys failed", count)
		}, nil
}

// Arena is the flat buffer keeping the whole population of packed keys.
type Arena struct {
	size uint64
	keys []types.Key
}

// Size returns size of the arena in bytes.
func (a *Arena) Size() uint64 {
	return a.size
}

// Keys returns keys stored in the arena.
func (a *Arena) Keys() []types.Key {
	return a.keys
}

func unmap(ptr unsafe.Pointer, size, pageSize uintptr) error {
	return unix.MunmapPtr(ptr, alignSize(size, pageSize))
}

func alignSize(size, pageSize uintptr) uintptr {
	return (size + pageSize - 1) / pageSize * pageSize
}
