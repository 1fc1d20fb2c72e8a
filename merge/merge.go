package merge

import (
	"container/heap"
	"iter"

	"github.com/outofforest/birthday/types"
	"github.com/outofforest/mass"
)

// cursor points to the next key to be emitted from partition.
type cursor struct {
	Partition []types.Key
	Position  int
}

func (c *cursor) Key() types.Key {
	return c.Partition[c.Position]
}

type cursorHeap []*cursor

func (h cursorHeap) Len() int {
	return len(h)
}

func (h cursorHeap) Less(i, j int) bool {
	return h[i].Key().Compare(h[j].Key()) < 0
}

func (h cursorHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *cursorHeap) Push(x any) {
	*h = append(*h, x.(*cursor))
}

func (h *cursorHeap) Pop() any {
	old := *h
	c := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return c
}

// Merge returns iterator emitting keys of all the sorted partitions in ascending order.
// Only one cursor per partition is kept in memory, merged sequence is never materialized.
func Merge(partitions [][]types.Key) iter.Seq[types.Key] {
	return func(yield func(types.Key) bool) {
		if len(partitions) == 0 {
			return
		}

		// Cursors are allocated in one block, heap swaps pointers only.
		massCursor := mass.New[cursor](uint64(len(partitions)))
		h := make(cursorHeap, 0, len(partitions))
		for _, p := range partitions {
			if len(p) == 0 {
				continue
			}
			c := massCursor.New()
			c.Partition = p
			h = append(h, c)
		}
		heap.Init(&h)

		for h.Len() > 0 {
			c := h[0]
			if !yield(c.Key()) {
				return
			}

			c.Position++
			if c.Position == len(c.Partition) {
				heap.Pop(&h)
				continue
			}
			heap.Fix(&h, 0)
		}
	}
}
