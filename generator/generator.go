package generator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/cespare/xxhash"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/outofforest/birthday/hash"
	"github.com/outofforest/birthday/packing"
	"github.com/outofforest/birthday/partition"
	"github.com/outofforest/birthday/types"
	"github.com/outofforest/parallel"
	"github.com/outofforest/photon"
)

// checkInterval is the number of samples generated between checks of the context.
const checkInterval = 4096

// Config stores generator configuration.
type Config struct {
	Samples      uint64
	Workers      int
	PrefixHexLen int
	Algorithm    hash.Algorithm

	// Seed makes the streams deterministic if non-zero.
	Seed uint64
}

// Shares returns the number of samples generated by each worker. Workers with nothing to do are dropped.
func Shares(samples uint64, workers int) []uint64 {
	return lo.Filter(partition.Sizes(samples, workers), func(share uint64, _ int) bool {
		return share > 0
	})
}

type seedRecord struct {
	Seed  uint64
	Time  int64
	PID   uint64
	Index uint64
}

// WorkerSeed returns seed for the random source of the worker.
// Zero seed mixes current time and process id, so streams differ between runs.
func WorkerSeed(seed uint64, index int) uint64 {
	r := seedRecord{
		Seed:  seed,
		Index: uint64(index),
	}
	if seed == 0 {
		r.Time = time.Now().UnixNano()
		r.PID = uint64(os.Getpid())
	}
	return xxhash.Sum64(photon.NewFromValue(&r).B)
}

// Generate generates config.Samples packed keys into keys.
// Each worker fills its own contiguous part of keys. On error content of keys is undefined.
func Generate(ctx context.Context, config Config, keys []types.Key) error {
	if uint64(len(keys)) < config.Samples {
		return errors.Errorf("buffer of %d keys is too small for %d samples", len(keys), config.Samples)
	}
	if config.PrefixHexLen < 1 || config.PrefixHexLen > types.MaxPrefixHexLength {
		return errors.Errorf("prefix length %d is outside [1, %d]", config.PrefixHexLen, types.MaxPrefixHexLength)
	}
	if config.Algorithm.Sum == nil {
		return errors.New("hash algorithm is not set")
	}

	shares := Shares(config.Samples, config.Workers)
	if len(shares) == 0 {
		return errors.WithStack(ctx.Err())
	}

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		var start uint64
		for i, share := range shares {
			part := keys[start : start+share]
			start += share

			seed := WorkerSeed(config.Seed, i)
			spawn(fmt.Sprintf("generator-%02d", i), parallel.Continue, func(ctx context.Context) error {
				return generate(ctx, part, seed, config.PrefixHexLen, config.Algorithm.Sum)
			})
		}
		return nil
	})
}

func generate(ctx context.Context, keys []types.Key, seed uint64, prefixHexLen int, sum hash.Func) error {
	r := rand.New(rand.NewPCG(seed, ^seed))
	for i := range keys {
		if i%checkInterval == 0 && ctx.Err() != nil {
			return errors.WithStack(ctx.Err())
		}

		x := r.Uint64()
		input := packing.InputBytes(x)
		keys[i] = packing.Pack(packing.PrefixFromDigest(sum(input[:]), prefixHexLen), x)
	}
	return nil
}
