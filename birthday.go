package birthday

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/outofforest/birthday/arena"
	"github.com/outofforest/birthday/collision"
	"github.com/outofforest/birthday/generator"
	"github.com/outofforest/birthday/hash"
	"github.com/outofforest/birthday/merge"
	"github.com/outofforest/birthday/persistent"
	"github.com/outofforest/birthday/sorter"
	"github.com/outofforest/birthday/types"
	"github.com/outofforest/birthday/verify"
	"github.com/outofforest/logger"
)

var sortSamples = sorter.Sort

// Result is the outcome of the search.
type Result struct {
	Found     bool
	Collision types.Collision
	Artifact  persistent.Artifact

	Samples  uint64
	Expected float64

	GenerationTime time.Duration
	SortTime       time.Duration
	SearchTime     time.Duration
}

// Search generates config.MaxSamples random inputs and looks for two of them having hashes
// with equal prefix. Found collision is stored in config.OutputDir.
// Not finding a collision is not an error, Result.Found is false then.
func Search(ctx context.Context, config Config) (Result, error) {
	if err := config.Validate(); err != nil {
		return Result{}, err
	}
	algorithm, err := hash.Get(config.Algorithm)
	if err != nil {
		return Result{}, err
	}

	log := logger.Get(ctx)
	result := Result{
		Samples:  config.MaxSamples,
		Expected: ExpectedSamples(config.PrefixHexLen),
	}

	if err := ctx.Err(); err != nil {
		return Result{}, phaseError(PhaseGeneration, err)
	}

	population, deallocPopulation, err := arena.New(config.MaxSamples, config.UseHugePages)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := deallocPopulation(); err != nil {
			log.Error("Releasing samples failed", zap.Error(err))
		}
	}()

	log.Info("Generating samples",
		zap.String("algorithm", algorithm.Name),
		zap.Int("prefixHexLen", config.PrefixHexLen),
		zap.Uint64("samples", config.MaxSamples),
		zap.Float64("expectedSamples", result.Expected),
		zap.Int("workers", config.GenerationWorkers),
		zap.Uint64("memory", population.Size()))

	start := time.Now()
	if err := generator.Generate(ctx, generator.Config{
		Samples:      config.MaxSamples,
		Workers:      config.GenerationWorkers,
		PrefixHexLen: config.PrefixHexLen,
		Algorithm:    algorithm,
		Seed:         config.Seed,
	}, population.Keys()); err != nil {
		return Result{}, phaseError(PhaseGeneration, err)
	}
	result.GenerationTime = time.Since(start)
	log.Info("Samples generated", zap.Duration("duration", result.GenerationTime))

	if err := ctx.Err(); err != nil {
		return Result{}, phaseError(PhaseGeneration, err)
	}

	start = time.Now()
	partitions, err := sortSamples(ctx, population.Keys(), config.SortChunks, config.SortConcurrency)
	if err != nil {
		return Result{}, phaseError(PhaseSorting, err)
	}
	result.SortTime = time.Since(start)
	log.Info("Samples sorted", zap.Int("chunks", len(partitions)), zap.Duration("duration", result.SortTime))

	if err := ctx.Err(); err != nil {
		return Result{}, phaseError(PhaseSorting, err)
	}

	start = time.Now()
	c, found, err := collision.Find(ctx, merge.Merge(partitions), verify.New(algorithm, config.PrefixHexLen))
	if err != nil {
		return Result{}, phaseError(PhaseSearch, err)
	}
	result.SearchTime = time.Since(start)

	if !found {
		log.Info("No collision found", zap.Duration("duration", result.SearchTime))
		return result, nil
	}

	log.Info("Collision found",
		zap.Uint64("prefix", c.Prefix),
		zap.String("hash1", c.Hash1),
		zap.String("hash2", c.Hash2),
		zap.Duration("duration", result.SearchTime))

	if err := ctx.Err(); err != nil {
		return Result{}, phaseError(PhaseSearch, err)
	}

	artifact, err := persistent.NewDirStore(config.OutputDir).Save(algorithm.Name, config.PrefixHexLen, c)
	if err != nil {
		return Result{}, phaseError(PhasePersistence, err)
	}
	log.Info("Collision stored", zap.String("dir", artifact.Dir))

	result.Found = true
	result.Collision = c
	result.Artifact = artifact
	return result, nil
}
