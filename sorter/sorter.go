package sorter

import (
	"context"
	"fmt"
	"runtime"
	"slices"

	"github.com/pkg/errors"

	"github.com/outofforest/birthday/partition"
	"github.com/outofforest/birthday/types"
	"github.com/outofforest/parallel"
)

// sortChunk sorts single chunk in place. It can't be interrupted.
var sortChunk = func(chunk []types.Key) {
	slices.SortFunc(chunk, types.Key.Compare)
}

// Sort splits keys into chunks and sorts each of them in place.
// At most concurrency chunks are sorted at the same time, non-positive value means number of CPUs.
// Returned partitions share memory with keys, caller should not use keys directly anymore.
// Context is checked between chunks, so after cancellation Sort returns once chunks being sorted
// at that moment are done. Using more chunks than concurrency shortens that time.
func Sort(ctx context.Context, keys []types.Key, chunks, concurrency int) ([][]types.Key, error) {
	if chunks < 1 {
		return nil, errors.Errorf("invalid number of chunks: %d", chunks)
	}
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	partitions := partition.Split(keys, chunks)

	chunkCh := make(chan int, len(partitions))
	for i := range partitions {
		chunkCh <- i
	}
	close(chunkCh)

	err := parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		for i := range min(len(partitions), concurrency) {
			spawn(fmt.Sprintf("sorter-%02d", i), parallel.Continue, func(ctx context.Context) error {
				for chunk := range chunkCh {
					if ctx.Err() != nil {
						return errors.WithStack(ctx.Err())
					}
					sortChunk(partitions[chunk])
				}
				return nil
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return partitions, nil
}
