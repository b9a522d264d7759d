// Package margin orchestrates the margin intelligence engine: path
// simulation, margin-call estimation, risk profiling, stress testing, and
// recommendations, assembled into one result per request.
package margin

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/incomeclarity/marginsight/internal/domain"
	"github.com/incomeclarity/marginsight/internal/modules/profile"
	"github.com/incomeclarity/marginsight/internal/modules/recommendations"
	"github.com/incomeclarity/marginsight/internal/modules/simulation"
	"github.com/incomeclarity/marginsight/internal/modules/stress"
	"github.com/incomeclarity/marginsight/pkg/formulas"
)

// Analyzer is the service contract the API layer and the cache decorator
// consume.
type Analyzer interface {
	Analyze(ctx context.Context, req domain.SimulationRequest) (*domain.SimulationResult, error)
}

// Service is the margin intelligence orchestrator. It performs no I/O: it
// validates the request, dispatches to the engine components, and assembles
// the result. Every call is independent; the service holds no per-request
// state.
type Service struct {
	simulator         *simulation.Simulator
	estimator         *simulation.Estimator
	profiler          *profile.Profiler
	stressRunner      *stress.Runner
	recommender       *recommendations.Engine
	defaultIterations int
	maxIterations     int
	now               func() time.Time
	log               zerolog.Logger
}

// NewService creates the orchestrator. defaultIterations fills requests that
// omit an iteration count (zero falls back to the engine default);
// maxIterations caps request-supplied counts, zero means no cap.
func NewService(
	simulator *simulation.Simulator,
	estimator *simulation.Estimator,
	profiler *profile.Profiler,
	stressRunner *stress.Runner,
	recommender *recommendations.Engine,
	defaultIterations, maxIterations int,
	log zerolog.Logger,
) *Service {
	return &Service{
		simulator:         simulator,
		estimator:         estimator,
		profiler:          profiler,
		stressRunner:      stressRunner,
		recommender:       recommender,
		defaultIterations: defaultIterations,
		maxIterations:     maxIterations,
		now:           time.Now,
		log:           log.With().Str("service", "margin").Logger(),
	}
}

// Analyze runs the full margin intelligence pipeline. It either returns a
// complete SimulationResult or an error; partial results are never returned.
func (s *Service) Analyze(ctx context.Context, req domain.SimulationRequest) (*domain.SimulationResult, error) {
	if req.Iterations == 0 && s.defaultIterations > 0 {
		req.Iterations = s.defaultIterations
	}
	req = req.Normalize()
	if err := req.Validate(s.maxIterations); err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = uint64(s.now().UnixNano())
	}

	snapshot := req.Snapshot
	assumptions := req.Assumptions

	riskProfile := s.profiler.Profile(snapshot, assumptions.MarginInterestRate)
	stressResults := s.stressRunner.Run(snapshot)

	// Zero margin means zero margin risk: no breach is possible at any
	// horizon, so skip the simulation entirely. The general formula would
	// divide by degenerate ratios here, hence the explicit branch.
	if snapshot.MarginUsed == 0 {
		probabilities := make(map[int]float64, len(req.HorizonDays))
		for _, h := range req.HorizonDays {
			probabilities[h] = 0
		}
		return &domain.SimulationResult{
			Probabilities:          probabilities,
			RiskLevel:              domain.RiskLevelLow,
			SafeDrawdownPercentage: 100,
			SafeDrawdownDollars:    snapshot.TotalValue,
			Recommendations:        recommendations.NoMarginRecommendations(),
			StressTests:            stressResults,
			RiskProfile:            riskProfile,
			Details:                s.details(req, riskProfile, seed),
		}, nil
	}

	maxHorizon := req.HorizonDays[len(req.HorizonDays)-1]

	paths, err := s.simulator.Simulate(ctx, simulation.PathParams{
		InitialValue:    snapshot.TotalValue,
		DailyDrift:      formulas.DailyDrift(assumptions.AnnualReturn),
		DailyVolatility: formulas.DailyVolatility(assumptions.AnnualVolatility),
		HorizonDays:     maxHorizon,
		Iterations:      req.Iterations,
		Seed:            seed,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.NewComputationError("path simulation", err)
	}

	probabilities, err := s.estimator.EstimateProbabilities(
		paths, req.HorizonDays, snapshot.MarginUsed, assumptions.MaintenanceRequirement)
	if err != nil {
		return nil, domain.NewComputationError("probability estimation", err)
	}

	safeDrawdown := formulas.SafeDrawdownPercent(
		snapshot.TotalValue, snapshot.MarginUsed, assumptions.MaintenanceRequirement)

	recs := s.recommender.Recommend(recommendations.RuleInput{
		Snapshot:   snapshot,
		Profile:    riskProfile,
		TaxRate:    req.TaxRate,
		AnnualRate: assumptions.MarginInterestRate,
	})

	result := &domain.SimulationResult{
		Probabilities:          probabilities,
		RiskLevel:              domain.ClassifyRiskLevel(probabilities[maxHorizon]),
		SafeDrawdownPercentage: safeDrawdown * 100,
		SafeDrawdownDollars:    safeDrawdown * snapshot.TotalValue,
		Recommendations:        recs,
		StressTests:            stressResults,
		RiskProfile:            riskProfile,
		Details:                s.details(req, riskProfile, seed),
	}

	s.log.Info().
		Float64("portfolio_value", snapshot.TotalValue).
		Float64("margin_used", snapshot.MarginUsed).
		Int("iterations", req.Iterations).
		Str("risk_level", string(result.RiskLevel)).
		Float64("longest_horizon_probability", probabilities[maxHorizon]).
		Msg("Completed margin analysis")

	return result, nil
}

func (s *Service) details(req domain.SimulationRequest, rp domain.RiskProfile, seed uint64) domain.CalculationDetails {
	breakEven := 0.0
	if req.Snapshot.MarginUsed > 0 {
		breakEven = req.Snapshot.MarginUsed / (1 - profile.RequiredEquity)
	}
	return domain.CalculationDetails{
		CurrentMarginRatio:   req.Snapshot.MarginUsed / req.Snapshot.TotalValue,
		LiquidationThreshold: rp.MarginCallThreshold,
		BreakEvenPoint:       breakEven,
		Seed:                 seed,
		Iterations:           req.Iterations,
	}
}
