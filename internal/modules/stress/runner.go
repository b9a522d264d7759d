package stress

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/incomeclarity/marginsight/internal/domain"
	"github.com/incomeclarity/marginsight/pkg/formulas"
)

// RegulatoryMinimumEquity is the equity ratio below which a stress scenario
// counts as triggering a margin call. This is deliberately distinct from the
// user-configurable maintenance requirement used in Monte Carlo simulation:
// stress tests model the regulatory margin-call minimum, while simulation
// models the account-specific maintenance requirement. Do not unify the two.
const RegulatoryMinimumEquity = 0.30

// Action classifications derived from the triggered state.
const (
	actionReduce  = "Reduce position sizes or add capital"
	actionMonitor = "Monitor closely, maintain current strategy"
)

// Runner evaluates the scenario catalog against portfolio snapshots.
type Runner struct {
	log zerolog.Logger
}

// NewRunner creates a stress test runner.
func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{
		log: log.With().Str("component", "stress_runner").Logger(),
	}
}

// Run applies every catalog scenario to the snapshot and returns one result
// per scenario, in catalog order.
func (r *Runner) Run(snapshot domain.PortfolioSnapshot) []domain.StressTestResult {
	results := make([]domain.StressTestResult, 0, len(catalog))
	for _, scenario := range catalog {
		results = append(results, r.runScenario(snapshot, scenario))
	}
	return results
}

func (r *Runner) runScenario(snapshot domain.PortfolioSnapshot, scenario domain.StressScenario) domain.StressTestResult {
	stressedValue := snapshot.TotalValue * (1 - scenario.MarketDrop)
	equityRatio := formulas.EquityRatio(stressedValue, snapshot.MarginUsed)
	triggered := snapshot.MarginUsed > 0 && equityRatio < RegulatoryMinimumEquity

	recoveryDays := scenario.RecoveryDays
	if recoveryDays == 0 {
		// Linear heuristic: deeper drops take proportionally longer to
		// recover, roughly one year per 100% drawdown.
		recoveryDays = int(math.Round(scenario.MarketDrop * 365))
	}

	sustainability := 1 - scenario.DividendCut
	if scenario.DividendCut == 0 {
		sustainability = math.Max(0.5, 1-scenario.MarketDrop*0.5)
	}

	action := actionMonitor
	if triggered {
		action = actionReduce
	}

	r.log.Debug().
		Str("scenario", scenario.Name).
		Float64("stressed_value", stressedValue).
		Float64("equity_ratio", equityRatio).
		Bool("triggered", triggered).
		Msg("Evaluated stress scenario")

	return domain.StressTestResult{
		ScenarioName:           scenario.Name,
		Triggered:              triggered,
		RecoveryDays:           recoveryDays,
		DividendSustainability: sustainability,
		ActionRequired:         action,
	}
}
