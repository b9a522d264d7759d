// Package simulation implements the Monte Carlo core of the margin
// intelligence engine: geometric Brownian motion path generation and
// margin-call probability estimation over the generated paths.
package simulation

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"
)

// PathParams are the inputs to one simulation run. Drift and volatility are
// per-trading-day values (annual assumptions are scaled by the caller).
type PathParams struct {
	InitialValue    float64
	DailyDrift      float64
	DailyVolatility float64
	HorizonDays     int
	Iterations      int
	Seed            uint64
}

// Simulator generates independent simulated portfolio-value trajectories.
//
// Determinism: each trial derives its own PCG stream from (seed, trial
// index), so output is bit-identical for a fixed seed regardless of how many
// workers the trials are partitioned across.
type Simulator struct {
	workers int
	log     zerolog.Logger
}

// NewSimulator creates a simulator that partitions trials across the given
// number of workers. Zero or negative means runtime.NumCPU().
func NewSimulator(workers int, log zerolog.Logger) *Simulator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Simulator{
		workers: workers,
		log:     log.With().Str("component", "simulator").Logger(),
	}
}

// Simulate returns a matrix of simulated portfolio values with one row per
// trial and one column per trading day, 1..HorizonDays. Values are floored
// at zero; a path that reaches zero stays there.
func (s *Simulator) Simulate(ctx context.Context, p PathParams) ([][]float64, error) {
	if p.Iterations <= 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", p.Iterations)
	}
	if p.HorizonDays <= 0 {
		return nil, fmt.Errorf("horizon days must be positive, got %d", p.HorizonDays)
	}
	if p.InitialValue <= 0 {
		return nil, fmt.Errorf("initial value must be positive, got %f", p.InitialValue)
	}
	if p.DailyVolatility < 0 {
		return nil, fmt.Errorf("daily volatility must not be negative, got %f", p.DailyVolatility)
	}

	paths := make([][]float64, p.Iterations)

	workers := s.workers
	if workers > p.Iterations {
		workers = p.Iterations
	}

	// Partition trials into contiguous chunks. The chunking only affects
	// scheduling: trial t always uses the (seed, t) stream, so the matrix
	// is independent of the worker count.
	chunk := (p.Iterations + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > p.Iterations {
			end = p.Iterations
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for trial := start; trial < end; trial++ {
				if ctx.Err() != nil {
					return
				}
				paths[trial] = simulatePath(p, uint64(trial))
			}
		}(start, end)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.log.Debug().
		Int("iterations", p.Iterations).
		Int("horizon_days", p.HorizonDays).
		Int("workers", workers).
		Uint64("seed", p.Seed).
		Msg("Generated simulation paths")

	return paths, nil
}

// simulatePath runs a single GBM trial. The drift term uses the standard
// Ito correction: log-step = (mu - 0.5*sigma^2) + sigma*Z per trading day.
func simulatePath(p PathParams, trial uint64) []float64 {
	normal := distuv.Normal{
		Mu:    0,
		Sigma: 1,
		Src:   rand.NewPCG(p.Seed, trial),
	}

	logDrift := p.DailyDrift - 0.5*p.DailyVolatility*p.DailyVolatility

	path := make([]float64, p.HorizonDays)
	value := p.InitialValue
	for day := 0; day < p.HorizonDays; day++ {
		if value <= 0 {
			// Absorbing floor: a wiped-out portfolio cannot recover,
			// and zero values would produce NaN equity ratios later.
			path[day] = 0
			continue
		}
		z := normal.Rand()
		value *= math.Exp(logDrift + p.DailyVolatility*z)
		if value < 0 || math.IsNaN(value) {
			value = 0
		}
		path[day] = value
	}
	return path
}
