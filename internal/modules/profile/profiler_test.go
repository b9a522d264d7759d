package profile

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/incomeclarity/marginsight/internal/domain"
)

func TestProfileWorkedExample(t *testing.T) {
	p := NewProfiler(zerolog.Nop())

	snapshot := domain.PortfolioSnapshot{
		TotalValue:            100000,
		MarginUsed:            30000,
		MonthlyDividendIncome: 500,
		Holdings: []domain.Holding{
			{Symbol: "O", MarketValue: 50000, Sector: "Real Estate"},
			{Symbol: "MAIN", MarketValue: 30000, Sector: "Financials"},
			{Symbol: "JEPI", MarketValue: 20000, Sector: "Financials"},
		},
	}

	rp := p.Profile(snapshot, 0.065)

	// Concentration: 0.5^2 + 0.3^2 + 0.2^2 = 0.38
	assert.InDelta(t, 0.38, rp.ConcentrationRisk, 1e-12)

	// Correlation proxy over sectors: 0.5^2 + 0.5^2 = 0.5
	assert.InDelta(t, 0.5, rp.CorrelationRisk, 1e-12)

	// Liquidation value = 30000/0.7 ~ 42857.14; cushion ~ 57142.86;
	// scaled by the 0.8 stress correlation factor.
	assert.InDelta(t, 45714.2857, rp.LiquidationPrice, 0.01)
	assert.InDelta(t, rp.LiquidationPrice*MarginCallBuffer, rp.MarginCallThreshold, 1e-9)

	// Monthly interest = 30000*0.065/12 = 162.5; coverage = 500/162.5
	assert.InDelta(t, 3.0769, rp.DividendCoverageRatio, 0.001)
}

func TestProfileNoMargin(t *testing.T) {
	p := NewProfiler(zerolog.Nop())

	rp := p.Profile(domain.PortfolioSnapshot{
		TotalValue:            100000,
		MonthlyDividendIncome: 500,
	}, 0.065)

	assert.Zero(t, rp.LiquidationPrice)
	assert.Zero(t, rp.MarginCallThreshold)
	assert.Equal(t, CoverageCap, rp.DividendCoverageRatio, "no interest means capped coverage")
}

func TestProfileUnderwaterPortfolio(t *testing.T) {
	p := NewProfiler(zerolog.Nop())

	// Margin so high that the liquidation value exceeds the current value:
	// the cushion floors at zero rather than going negative.
	rp := p.Profile(domain.PortfolioSnapshot{
		TotalValue: 100000,
		MarginUsed: 80000,
	}, 0.065)

	assert.Zero(t, rp.LiquidationPrice)
}

func TestProfileEmptyHoldings(t *testing.T) {
	p := NewProfiler(zerolog.Nop())

	rp := p.Profile(domain.PortfolioSnapshot{TotalValue: 100000, MarginUsed: 10000}, 0.065)

	assert.Zero(t, rp.ConcentrationRisk)
	assert.Zero(t, rp.CorrelationRisk)
}

func TestProfileUnknownSectorGrouping(t *testing.T) {
	p := NewProfiler(zerolog.Nop())

	snapshot := domain.PortfolioSnapshot{
		TotalValue: 100000,
		MarginUsed: 10000,
		Holdings: []domain.Holding{
			{Symbol: "A", MarketValue: 50000},
			{Symbol: "B", MarketValue: 50000},
		},
	}

	rp := p.Profile(snapshot, 0.065)

	// Both holdings fall into the Unknown sector bucket.
	assert.InDelta(t, 1.0, rp.CorrelationRisk, 1e-12)
	assert.InDelta(t, 0.5, rp.ConcentrationRisk, 1e-12)
}

func TestProfileCoverageCapped(t *testing.T) {
	p := NewProfiler(zerolog.Nop())

	rp := p.Profile(domain.PortfolioSnapshot{
		TotalValue:            1000000,
		MarginUsed:            100,
		MonthlyDividendIncome: 100000,
	}, 0.065)

	assert.Equal(t, CoverageCap, rp.DividendCoverageRatio)
}
