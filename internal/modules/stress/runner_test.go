package stress

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incomeclarity/marginsight/internal/domain"
)

func TestCatalogContents(t *testing.T) {
	scenarios := Catalog()
	require.Len(t, scenarios, 4)

	byName := make(map[string]domain.StressScenario, len(scenarios))
	for _, s := range scenarios {
		byName[s.Name] = s
	}

	crisis := byName["2008 Financial Crisis"]
	assert.Equal(t, 0.37, crisis.MarketDrop)

	covid := byName["COVID-19 Crash"]
	assert.Equal(t, 0.34, covid.MarketDrop)
	assert.Equal(t, 33, covid.RecoveryDays)

	cuts := byName["Dividend Cut Wave"]
	assert.Equal(t, 0.15, cuts.MarketDrop)
	assert.Equal(t, 0.30, cuts.DividendCut)
	assert.Equal(t, 30, cuts.RecoveryDays)

	rates := byName["Rate Spike"]
	assert.Equal(t, 0.20, rates.MarketDrop)
	assert.Equal(t, 0.03, rates.RateIncrease)
}

func TestCatalogReturnsCopy(t *testing.T) {
	first := Catalog()
	first[0].MarketDrop = 0.99

	second := Catalog()
	assert.Equal(t, 0.37, second[0].MarketDrop, "mutating a returned catalog must not affect the source")
}

func TestRunHighLeverageTriggers2008(t *testing.T) {
	r := NewRunner(zerolog.Nop())

	// 100k portfolio, 50k margin. After a 37% drop value is 63k, equity
	// ratio (63k-50k)/63k ~ 0.206 < 0.30: triggered.
	results := r.Run(domain.PortfolioSnapshot{TotalValue: 100000, MarginUsed: 50000})
	require.Len(t, results, 4)

	byName := make(map[string]domain.StressTestResult, len(results))
	for _, res := range results {
		byName[res.ScenarioName] = res
	}

	crisis := byName["2008 Financial Crisis"]
	assert.True(t, crisis.Triggered)
	assert.Equal(t, "Reduce position sizes or add capital", crisis.ActionRequired)
	// No fixed recovery: 0.37 * 365 rounds to 135.
	assert.Equal(t, 135, crisis.RecoveryDays)

	// Rate spike: value 80k, equity (80k-50k)/80k = 0.375 >= 0.30.
	rates := byName["Rate Spike"]
	assert.False(t, rates.Triggered)
	assert.Equal(t, "Monitor closely, maintain current strategy", rates.ActionRequired)
}

func TestRunNoMarginNeverTriggers(t *testing.T) {
	r := NewRunner(zerolog.Nop())

	results := r.Run(domain.PortfolioSnapshot{TotalValue: 100000, MarginUsed: 0})
	for _, res := range results {
		assert.False(t, res.Triggered, "scenario %s", res.ScenarioName)
		assert.Equal(t, "Monitor closely, maintain current strategy", res.ActionRequired)
	}
}

func TestRunDividendSustainability(t *testing.T) {
	r := NewRunner(zerolog.Nop())

	results := r.Run(domain.PortfolioSnapshot{TotalValue: 100000, MarginUsed: 20000})

	byName := make(map[string]domain.StressTestResult, len(results))
	for _, res := range results {
		byName[res.ScenarioName] = res
	}

	// Explicit cut: sustainability = 1 - 0.30.
	assert.InDelta(t, 0.70, byName["Dividend Cut Wave"].DividendSustainability, 1e-12)

	// No explicit cut: max(0.5, 1 - drop*0.5).
	assert.InDelta(t, 0.815, byName["2008 Financial Crisis"].DividendSustainability, 1e-12)
	assert.InDelta(t, 0.90, byName["Rate Spike"].DividendSustainability, 1e-12)
}

func TestRunResultsInCatalogOrder(t *testing.T) {
	r := NewRunner(zerolog.Nop())

	results := r.Run(domain.PortfolioSnapshot{TotalValue: 100000, MarginUsed: 10000})
	scenarios := Catalog()
	require.Len(t, results, len(scenarios))
	for i, s := range scenarios {
		assert.Equal(t, s.Name, results[i].ScenarioName)
	}
}
