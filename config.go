package birthday

import (
	"math"
	"runtime"

	"github.com/pkg/errors"

	"github.com/outofforest/birthday/arena"
	"github.com/outofforest/birthday/hash"
	"github.com/outofforest/birthday/packing"
	"github.com/outofforest/birthday/types"
)

// Default configuration values.
const (
	DefaultAlgorithm    = hash.SHA256
	DefaultPrefixHexLen = 10
	DefaultMaxSamples   = 7_000_000
	DefaultOutputDir    = "Collision_Birthday"
)

// Config stores search configuration.
type Config struct {
	Algorithm    string
	PrefixHexLen int
	MaxSamples   uint64

	GenerationWorkers int
	SortChunks        int

	// SortConcurrency limits the number of chunks sorted at the same time. Non-positive means number of CPUs.
	SortConcurrency int

	// Seed makes generated samples deterministic if non-zero.
	Seed uint64

	OutputDir    string
	UseHugePages bool
}

// DefaultConfig returns default search configuration.
func DefaultConfig() Config {
	workers := runtime.NumCPU()
	return Config{
		Algorithm:         DefaultAlgorithm,
		PrefixHexLen:      DefaultPrefixHexLen,
		MaxSamples:        DefaultMaxSamples,
		GenerationWorkers: workers,
		SortChunks:        workers,
		OutputDir:         DefaultOutputDir,
	}
}

// Validate verifies that search may be started with the configuration.
func (c Config) Validate() error {
	if _, err := hash.Get(c.Algorithm); err != nil {
		return err
	}
	if c.PrefixHexLen < 1 || c.PrefixHexLen > types.MaxPrefixHexLength {
		return errors.Errorf("prefix length must be in range [1, %d], got %d", types.MaxPrefixHexLength,
			c.PrefixHexLen)
	}
	if c.MaxSamples > arena.MaxKeys {
		return errors.Errorf("number of samples must not exceed %d, got %d", uint64(arena.MaxKeys), c.MaxSamples)
	}
	if c.GenerationWorkers < 1 {
		return errors.Errorf("number of generation workers must be positive, got %d", c.GenerationWorkers)
	}
	if c.SortChunks < 1 {
		return errors.Errorf("number of sort chunks must be positive, got %d", c.SortChunks)
	}
	if c.OutputDir == "" {
		return errors.New("output directory is not set")
	}
	return nil
}

// ExpectedSamples returns the number of samples after which collision is expected.
func ExpectedSamples(prefixHexLen int) float64 {
	return math.Pow(2, float64(packing.PrefixBits(prefixHexLen))/2+0.5)
}
