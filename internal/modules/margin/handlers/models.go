package handlers

import (
	"github.com/incomeclarity/marginsight/internal/domain"
)

// SimulateRequest is the wire shape of a simulation request. Flat on purpose:
// frontend clients send a single JSON object, not nested assumption groups.
type SimulateRequest struct {
	PortfolioValue         float64          `json:"portfolioValue"`
	MarginUsed             float64          `json:"marginUsed"`
	MaintenanceRequirement float64          `json:"maintenanceRequirement,omitempty"`
	AnnualVolatility       float64          `json:"annualVolatility,omitempty"`
	AnnualReturn           float64          `json:"annualReturn,omitempty"`
	MarginInterestRate     float64          `json:"marginInterestRate,omitempty"`
	DaysToLookAhead        []int            `json:"daysToLookAhead,omitempty"`
	Iterations             int              `json:"iterations,omitempty"`
	Seed                   uint64           `json:"seed,omitempty"`
	TaxRate                float64          `json:"taxRate,omitempty"`
	MonthlyDividendIncome  float64          `json:"monthlyDividendIncome,omitempty"`
	Holdings               []domain.Holding `json:"holdings,omitempty"`
}

// ToDomain converts the wire request into the engine request. Defaults are
// applied later by Normalize; this is a pure reshaping.
func (r SimulateRequest) ToDomain() domain.SimulationRequest {
	return domain.SimulationRequest{
		Snapshot: domain.PortfolioSnapshot{
			TotalValue:            r.PortfolioValue,
			Holdings:              r.Holdings,
			MarginUsed:            r.MarginUsed,
			MonthlyDividendIncome: r.MonthlyDividendIncome,
		},
		Assumptions: domain.MarketAssumptions{
			AnnualVolatility:       r.AnnualVolatility,
			AnnualReturn:           r.AnnualReturn,
			MaintenanceRequirement: r.MaintenanceRequirement,
			MarginInterestRate:     r.MarginInterestRate,
		},
		HorizonDays: r.DaysToLookAhead,
		Iterations:  r.Iterations,
		Seed:        r.Seed,
		TaxRate:     r.TaxRate,
	}
}

// SimulateResponse is the wire shape of a simulation result. The probability
// map carries every requested horizon; the three fixed fields repeat the
// standard horizons for clients that predate configurable look-aheads.
type SimulateResponse struct {
	Probabilities          map[int]float64           `json:"probabilities"`
	Probability30Days      float64                   `json:"probability30Days"`
	Probability60Days      float64                   `json:"probability60Days"`
	Probability90Days      float64                   `json:"probability90Days"`
	RiskLevel              domain.RiskLevel          `json:"riskLevel"`
	SafeDrawdownPercentage float64                   `json:"safeDrawdownPercentage"`
	SafeDrawdownDollars    float64                   `json:"safeDrawdownDollars"`
	Recommendations        []domain.Recommendation   `json:"recommendations"`
	StressTestScenarios    []domain.StressTestResult `json:"stressTestScenarios"`
	RiskProfile            domain.RiskProfile        `json:"riskProfile"`
	CalculationDetails     domain.CalculationDetails `json:"calculationDetails"`
}

// FromDomain converts an engine result into the wire response.
func FromDomain(result *domain.SimulationResult) SimulateResponse {
	return SimulateResponse{
		Probabilities:          result.Probabilities,
		Probability30Days:      result.Probabilities[30],
		Probability60Days:      result.Probabilities[60],
		Probability90Days:      result.Probabilities[90],
		RiskLevel:              result.RiskLevel,
		SafeDrawdownPercentage: result.SafeDrawdownPercentage,
		SafeDrawdownDollars:    result.SafeDrawdownDollars,
		Recommendations:        result.Recommendations,
		StressTestScenarios:    result.StressTests,
		RiskProfile:            result.RiskProfile,
		CalculationDetails:     result.Details,
	}
}
