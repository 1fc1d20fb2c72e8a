package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/outofforest/birthday"
	"github.com/outofforest/birthday/hash"
	"github.com/outofforest/logger"
)

func main() {
	config := birthday.DefaultConfig()

	flags := pflag.NewFlagSet("birthday", pflag.ExitOnError)
	flags.IntVarP(&config.PrefixHexLen, "target-prefix", "t", config.PrefixHexLen,
		"number of hex digits of the prefix to match")
	flags.StringVarP(&config.Algorithm, "algo", "a", config.Algorithm,
		"hash algorithm: "+strings.Join(hash.Names(), ", "))
	flags.Uint64VarP(&config.MaxSamples, "max-samples", "n", config.MaxSamples,
		"total number of samples to generate")
	flags.IntVarP(&config.GenerationWorkers, "workers", "w", config.GenerationWorkers,
		"number of generation workers")
	flags.IntVarP(&config.SortChunks, "sort-chunks", "s", config.SortChunks,
		"number of chunks sorted in parallel")
	flags.Uint64Var(&config.Seed, "seed", 0, "seed making samples deterministic, 0 means random")
	flags.StringVarP(&config.OutputDir, "output", "o", config.OutputDir, "directory where collisions are stored")
	flags.BoolVar(&config.UseHugePages, "huge-pages", false, "use huge pages for samples")
	_ = flags.Parse(os.Args[1:])

	ctx, cancel := signal.NotifyContext(logger.WithLogger(context.Background(), logger.New(logger.DefaultConfig)),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, config); err != nil {
		cancel()
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, config birthday.Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	fmt.Println("Algorithm        :", config.Algorithm)
	fmt.Println("Target prefix    :", config.PrefixHexLen, "hex")
	fmt.Println("Samples          :", config.MaxSamples)
	fmt.Printf("Expected samples : %.0f\n", birthday.ExpectedSamples(config.PrefixHexLen))
	fmt.Println("Workers          :", config.GenerationWorkers)
	fmt.Println("Sort chunks      :", config.SortChunks)

	start := time.Now()
	result, err := birthday.Search(ctx, config)
	if err != nil {
		var interruptedErr *birthday.InterruptedError
		if errors.As(err, &interruptedErr) {
			return errors.Errorf("interrupted during %s, nothing stored", interruptedErr.Phase)
		}
		return err
	}

	fmt.Printf("Generation       : %.2fs\n", result.GenerationTime.Seconds())
	fmt.Printf("Sorting          : %.2fs\n", result.SortTime.Seconds())
	fmt.Printf("Search           : %.2fs\n", result.SearchTime.Seconds())

	if result.Found {
		c := result.Collision
		fmt.Println("=== COLLISION FOUND ===")
		fmt.Println("Prefix (int)     :", c.Prefix)
		fmt.Printf("x1               : %016x\n", c.X1)
		fmt.Printf("x2               : %016x\n", c.X2)
		fmt.Println("hash1            :", c.Hash1)
		fmt.Println("hash2            :", c.Hash2)
		fmt.Println("Files written to :", result.Artifact.Dir)
	} else {
		fmt.Println("No collision found in these samples")
		fmt.Println("Increase --max-samples or reduce --target-prefix")
	}

	fmt.Printf("Total time       : %.2fs\n", time.Since(start).Seconds())
	return nil
}
