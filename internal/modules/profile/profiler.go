// Package profile computes structural risk metrics from current holdings,
// independent of any simulation.
package profile

import (
	"github.com/rs/zerolog"

	"github.com/incomeclarity/marginsight/internal/domain"
	"github.com/incomeclarity/marginsight/pkg/formulas"
)

const (
	// RequiredEquity is the minimum equity ratio used for liquidation
	// price estimation. This is the broker's forced-liquidation floor,
	// not the user-configurable maintenance requirement used in
	// simulation.
	RequiredEquity = 0.30

	// StressCorrelationFactor models holdings moving together during
	// systemic stress when estimating the liquidation price.
	StressCorrelationFactor = 0.80

	// MarginCallBuffer is the safety margin applied above the liquidation
	// price to derive the margin call threshold.
	MarginCallBuffer = 1.10

	// CoverageCap is the sentinel returned for the dividend coverage
	// ratio when margin interest is zero. It stands in for infinity so
	// the value stays representable in JSON and comparable in sorts.
	CoverageCap = 999.0
)

// Profiler computes RiskProfile values from portfolio snapshots.
type Profiler struct {
	log zerolog.Logger
}

// NewProfiler creates a risk profiler.
func NewProfiler(log zerolog.Logger) *Profiler {
	return &Profiler{
		log: log.With().Str("component", "profiler").Logger(),
	}
}

// Profile computes concentration, correlation, liquidation and coverage
// metrics for the given snapshot. marginInterestRate is annual.
func (p *Profiler) Profile(snapshot domain.PortfolioSnapshot, marginInterestRate float64) domain.RiskProfile {
	concentration := p.concentrationRisk(snapshot.Holdings)
	correlation := p.correlationRisk(snapshot.Holdings)
	liquidationPrice := p.liquidationPrice(snapshot.TotalValue, snapshot.MarginUsed)
	coverage := p.dividendCoverage(snapshot.MonthlyDividendIncome, snapshot.MarginUsed, marginInterestRate)

	rp := domain.RiskProfile{
		LiquidationPrice:      liquidationPrice,
		MarginCallThreshold:   liquidationPrice * MarginCallBuffer,
		ConcentrationRisk:     concentration,
		CorrelationRisk:       correlation,
		DividendCoverageRatio: coverage,
	}

	p.log.Debug().
		Float64("concentration", concentration).
		Float64("correlation", correlation).
		Float64("liquidation_price", liquidationPrice).
		Float64("coverage", coverage).
		Msg("Computed risk profile")

	return rp
}

// concentrationRisk is the Herfindahl index over holding weights:
// 1 for a single holding, approaching 0 for a well-diversified portfolio.
func (p *Profiler) concentrationRisk(holdings []domain.Holding) float64 {
	values := make([]float64, len(holdings))
	for i, h := range holdings {
		values[i] = h.MarketValue
	}
	return formulas.HerfindahlIndex(values)
}

// correlationRisk is a simplified co-movement proxy: the Herfindahl index
// over sector weights rather than holding weights. A portfolio concentrated
// in one sector scores high even when spread across many tickers, reflecting
// how holdings move together during systemic stress. A covariance-based
// model could replace this, but the sector proxy is the documented baseline.
func (p *Profiler) correlationRisk(holdings []domain.Holding) float64 {
	bySector := make(map[string]float64)
	for _, h := range holdings {
		sector := h.Sector
		if sector == "" {
			sector = "Unknown"
		}
		bySector[sector] += h.MarketValue
	}

	values := make([]float64, 0, len(bySector))
	for _, v := range bySector {
		values = append(values, v)
	}
	return formulas.HerfindahlIndex(values)
}

// liquidationPrice estimates the portfolio value drop at which equity falls
// to the required minimum, assuming holdings decline together per the stress
// correlation factor. liquidationValue = marginUsed / (1 - requiredEquity)
// is the portfolio value at which forced liquidation begins; the returned
// figure is the distance from the current value to that point.
func (p *Profiler) liquidationPrice(totalValue, marginUsed float64) float64 {
	if marginUsed <= 0 {
		return 0
	}

	liquidationValue := marginUsed / (1 - RequiredEquity)
	drop := totalValue - liquidationValue
	if drop < 0 {
		return 0
	}
	// Correlated stress moves the whole portfolio at once, shrinking the
	// effective cushion.
	return drop * StressCorrelationFactor
}

// dividendCoverage is monthly dividend income divided by monthly margin
// interest, capped at CoverageCap when interest is zero.
func (p *Profiler) dividendCoverage(monthlyIncome, marginUsed, annualRate float64) float64 {
	interest := formulas.MonthlyMarginInterest(marginUsed, annualRate)
	if interest <= 0 {
		return CoverageCap
	}
	ratio := monthlyIncome / interest
	if ratio > CoverageCap {
		return CoverageCap
	}
	return ratio
}
