package simulation

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Estimator consumes simulated paths and produces per-horizon margin-call
// probabilities.
type Estimator struct {
	log zerolog.Logger
}

// NewEstimator creates a margin-call estimator.
func NewEstimator(log zerolog.Logger) *Estimator {
	return &Estimator{
		log: log.With().Str("component", "estimator").Logger(),
	}
}

// EstimateProbabilities returns, for each horizon day h, the fraction of
// trials whose equity ratio fell below the maintenance requirement at any day
// up to and including h. Breach is monotonic once crossed, so only the
// earliest breach day per trial matters.
//
// Horizons must be positive and no larger than the simulated path length.
// The caller handles the marginUsed = 0 case before simulating; this
// function assumes marginUsed > 0.
func (e *Estimator) EstimateProbabilities(
	paths [][]float64,
	horizons []int,
	marginUsed float64,
	maintenanceRequirement float64,
) (map[int]float64, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no simulation paths provided")
	}
	if len(horizons) == 0 {
		return nil, fmt.Errorf("no horizons provided")
	}

	pathLen := len(paths[0])
	maxHorizon := 0
	for _, h := range horizons {
		if h <= 0 {
			return nil, fmt.Errorf("horizon must be positive, got %d", h)
		}
		if h > pathLen {
			return nil, fmt.Errorf("horizon %d exceeds simulated path length %d", h, pathLen)
		}
		if h > maxHorizon {
			maxHorizon = h
		}
	}

	// breachedBy[d] counts trials whose first breach occurred on day d+1.
	// A prefix sum then yields cumulative breach counts per horizon.
	breachedBy := make([]int, maxHorizon)

	for _, path := range paths {
		for day := 0; day < maxHorizon; day++ {
			value := path[day]
			// A zero-value path has no equity left at all.
			if value <= 0 || (value-marginUsed)/value < maintenanceRequirement {
				breachedBy[day]++
				break
			}
		}
	}

	cumulative := 0
	cumulativeByDay := make([]int, maxHorizon)
	for day := 0; day < maxHorizon; day++ {
		cumulative += breachedBy[day]
		cumulativeByDay[day] = cumulative
	}

	probabilities := make(map[int]float64, len(horizons))
	for _, h := range horizons {
		probabilities[h] = float64(cumulativeByDay[h-1]) / float64(len(paths))
	}

	e.log.Debug().
		Int("trials", len(paths)).
		Int("max_horizon", maxHorizon).
		Int("breached", cumulative).
		Msg("Estimated margin call probabilities")

	return probabilities, nil
}
