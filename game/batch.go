package game

import (
	"context"
	"fmt"
	"runtime"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"montyhall/models"
)

const (
	// DefaultRounds is the batch size used when none is given
	DefaultRounds = 100

	// DefaultChunkSize is the number of rounds each random stream covers
	DefaultChunkSize = 1024
)

// Runner plays batches of rounds.
//
// A batch is cut into fixed-size chunks and chunk k draws from its own stream
// NewStreamSource(seed, k). Chunks run on up to Workers goroutines; records are
// written at their round index and chunk tallies are summed, so a seed yields
// the same batch whatever the worker count.
type Runner struct {
	workers   int
	chunkSize int
}

// NewRunner creates a batch runner. Non-positive values fall back to defaults.
func NewRunner(workers, chunkSize int) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Runner{
		workers:   workers,
		chunkSize: chunkSize,
	}
}

// Workers returns the goroutine limit used per batch
func (r *Runner) Workers() int {
	return r.workers
}

// ChunkSize returns the number of rounds per random stream
func (r *Runner) ChunkSize() int {
	return r.chunkSize
}

// Play runs the given number of rounds with the given seed
func (r *Runner) Play(ctx context.Context, rounds int, seed int64) (*models.BatchResult, error) {
	if rounds < 1 {
		return nil, fmt.Errorf("%w: batch size must be at least 1, got %d", ErrInvalidArgument, rounds)
	}

	chunks := (rounds + r.chunkSize - 1) / r.chunkSize
	records := make([]models.RoundResult, 2*rounds)
	partials := make([]*models.BatchSummary, chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for k := 0; k < chunks; k++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			start := k * r.chunkSize
			end := min(start+r.chunkSize, rounds)
			rng := NewStreamSource(seed, uint64(k))
			summary := models.NewBatchSummary()

			for i := start; i < end; i++ {
				round, err := PlayRound(rng)
				if err != nil {
					return fmt.Errorf("round %d: %w", i+1, err)
				}
				records[2*i] = round.Stay
				records[2*i+1] = round.Switch
				summary.Add(round.Stay)
				summary.Add(round.Switch)
				summary.Rounds++
			}

			partials[k] = summary
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := models.NewBatchSummary()
	for _, partial := range partials {
		summary.Merge(partial)
	}
	summary.Normalize()

	log.WithFields(log.Fields{
		"rounds":  rounds,
		"seed":    seed,
		"chunks":  chunks,
		"workers": r.workers,
	}).Debug("Batch completed")

	return &models.BatchResult{
		Seed:    seed,
		Records: records,
		Summary: summary,
	}, nil
}

// PlayBatch runs a batch sequentially with a single worker
func PlayBatch(ctx context.Context, rounds int, seed int64) (*models.BatchResult, error) {
	return NewRunner(1, DefaultChunkSize).Play(ctx, rounds, seed)
}
