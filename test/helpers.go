package test

import (
	"context"
	"iter"
	"slices"
	"testing"

	"github.com/outofforest/birthday/types"
	"github.com/outofforest/logger"
)

// Context returns context carrying the logger, canceled when test finishes.
func Context(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), logger.New(logger.DefaultConfig)))
	t.Cleanup(cancel)
	return ctx
}

// CollectKeys collects keys produced by the iterator.
func CollectKeys(seq iter.Seq[types.Key]) []types.Key {
	keys := []types.Key{}
	for k := range seq {
		keys = append(keys, k)
	}
	return keys
}

// SortedCopy returns sorted copy of keys.
func SortedCopy(keys []types.Key) []types.Key {
	keys = slices.Clone(keys)
	slices.SortFunc(keys, types.Key.Compare)
	return keys
}

// Flatten concatenates partitions.
func Flatten(partitions [][]types.Key) []types.Key {
	keys := []types.Key{}
	for _, p := range partitions {
		keys = append(keys, p...)
	}
	return keys
}
