// Package domain contains the pure value objects of the margin intelligence
// engine. Everything here is created fresh per request from caller-supplied
// snapshot data; nothing persists and nothing touches infrastructure.
package domain

// Default engine parameters. These match the account-level defaults of the
// surrounding dividend tracker and are overridable per request.
const (
	DefaultMaintenanceRequirement = 0.25
	DefaultAnnualVolatility       = 0.16
	DefaultAnnualReturn           = 0.07
	DefaultMarginInterestRate     = 0.065
	DefaultIterations             = 5000
)

// DefaultHorizonDays are the look-ahead horizons used when a request does not
// specify its own list.
var DefaultHorizonDays = []int{30, 60, 90}

// RiskLevel classifies the margin-call probability at the longest horizon.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"      // < 5%
	RiskLevelModerate RiskLevel = "moderate" // 5-20%
	RiskLevelHigh     RiskLevel = "high"     // > 20%
)

// ClassifyRiskLevel maps a margin-call probability to a risk level.
func ClassifyRiskLevel(probability float64) RiskLevel {
	switch {
	case probability < 0.05:
		return RiskLevelLow
	case probability <= 0.20:
		return RiskLevelModerate
	default:
		return RiskLevelHigh
	}
}

// Holding is a single position within a portfolio snapshot.
// Volatility and Beta are optional; zero means unknown.
type Holding struct {
	Symbol      string  `json:"symbol"`
	MarketValue float64 `json:"marketValue"`
	Sector      string  `json:"sector"`
	Volatility  float64 `json:"volatility,omitempty"`
	Beta        float64 `json:"beta,omitempty"`
}

// PortfolioSnapshot is the point-in-time portfolio state the engine operates
// on. Invariant: 0 <= MarginUsed < TotalValue.
type PortfolioSnapshot struct {
	TotalValue            float64   `json:"totalValue"`
	Holdings              []Holding `json:"holdings,omitempty"`
	MarginUsed            float64   `json:"marginUsed"`
	MonthlyDividendIncome float64   `json:"monthlyDividendIncome,omitempty"`
}

// MarketAssumptions bundles the simulation parameters. It is immutable per
// run: the service copies and normalizes it before dispatching.
type MarketAssumptions struct {
	AnnualVolatility       float64 `json:"annualVolatility"`
	AnnualReturn           float64 `json:"annualReturn"`
	MaintenanceRequirement float64 `json:"maintenanceRequirement"`
	MarginInterestRate     float64 `json:"marginInterestRate"`
}

// ApplyDefaults fills zero-valued fields with the engine defaults.
func (a MarketAssumptions) ApplyDefaults() MarketAssumptions {
	if a.AnnualVolatility == 0 {
		a.AnnualVolatility = DefaultAnnualVolatility
	}
	if a.AnnualReturn == 0 {
		a.AnnualReturn = DefaultAnnualReturn
	}
	if a.MaintenanceRequirement == 0 {
		a.MaintenanceRequirement = DefaultMaintenanceRequirement
	}
	if a.MarginInterestRate == 0 {
		a.MarginInterestRate = DefaultMarginInterestRate
	}
	return a
}

// SimulationRequest is the validated input to the margin intelligence
// service. Seed 0 means "derive from request time"; tests pass an explicit
// nonzero seed for reproducibility.
type SimulationRequest struct {
	Snapshot    PortfolioSnapshot `json:"snapshot"`
	Assumptions MarketAssumptions `json:"assumptions"`
	HorizonDays []int             `json:"horizonDays"`
	Iterations  int               `json:"iterations"`
	Seed        uint64            `json:"seed,omitempty"`
	TaxRate     float64           `json:"taxRate,omitempty"`
}

// CalculationDetails carries the intermediate figures callers display
// alongside the headline probabilities.
type CalculationDetails struct {
	CurrentMarginRatio   float64 `json:"currentMarginRatio"`
	LiquidationThreshold float64 `json:"liquidationThreshold"`
	BreakEvenPoint       float64 `json:"breakEvenPoint"`
	Seed                 uint64  `json:"seed"`
	Iterations           int     `json:"iterations"`
}

// SimulationResult is the complete engine output. A request either fully
// succeeds with one of these or fails atomically.
type SimulationResult struct {
	Probabilities          map[int]float64    `json:"probabilities"`
	RiskLevel              RiskLevel          `json:"riskLevel"`
	SafeDrawdownPercentage float64            `json:"safeDrawdownPercentage"`
	SafeDrawdownDollars    float64            `json:"safeDrawdownDollars"`
	Recommendations        []Recommendation   `json:"recommendations"`
	StressTests            []StressTestResult `json:"stressTestScenarios"`
	RiskProfile            RiskProfile        `json:"riskProfile"`
	Details                CalculationDetails `json:"calculationDetails"`
}

// RiskProfile holds the structural risk metrics computed from current
// holdings, independent of simulation.
type RiskProfile struct {
	LiquidationPrice      float64 `json:"liquidationPrice"`
	MarginCallThreshold   float64 `json:"marginCallThreshold"`
	ConcentrationRisk     float64 `json:"concentrationRisk"`
	CorrelationRisk       float64 `json:"correlationRisk"`
	DividendCoverageRatio float64 `json:"dividendCoverageRatio"`
}

// StressScenario is one entry of the fixed stress catalog. Zero-valued
// optional fields mean "not specified by the scenario".
type StressScenario struct {
	Name         string  `json:"name"`
	MarketDrop   float64 `json:"marketDrop"`
	DividendCut  float64 `json:"dividendCut,omitempty"`
	RateIncrease float64 `json:"rateIncrease,omitempty"`
	RecoveryDays int     `json:"recoveryDays,omitempty"`
}

// StressTestResult reports the outcome of one deterministic shock scenario.
type StressTestResult struct {
	ScenarioName           string  `json:"scenarioName"`
	Triggered              bool    `json:"triggered"`
	RecoveryDays           int     `json:"recoveryDays"`
	DividendSustainability float64 `json:"dividendSustainability"`
	ActionRequired         string  `json:"actionRequired"`
}

// RecommendationType is the category of a margin usage recommendation.
type RecommendationType string

const (
	RecommendationIncrease  RecommendationType = "increase"
	RecommendationDecrease  RecommendationType = "decrease"
	RecommendationRebalance RecommendationType = "rebalance"
	RecommendationOptimize  RecommendationType = "optimize"
)

// Recommendation is a single ranked, explainable recommendation.
// RiskScore is signed: negative values reduce risk.
type Recommendation struct {
	Type           RecommendationType `json:"type"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Confidence     float64            `json:"confidence"`
	ExpectedReturn float64            `json:"expectedReturn"`
	RiskScore      float64            `json:"riskScore"`
	Steps          []string           `json:"implementationSteps"`
}
