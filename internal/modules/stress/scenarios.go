// Package stress applies a fixed catalog of deterministic shock scenarios to
// a portfolio snapshot and reports margin-call triggering and recovery
// estimates. No randomness is involved: results are reproducible and
// comparable across runs.
package stress

import "github.com/incomeclarity/marginsight/internal/domain"

// CatalogVersion identifies the scenario table below. Bump when scenarios
// are added or retuned so stored results remain comparable.
const CatalogVersion = "2024.1"

// catalog is the fixed scenario table. It is not user-supplied: callers
// always run the full catalog.
var catalog = []domain.StressScenario{
	{
		Name:       "2008 Financial Crisis",
		MarketDrop: 0.37,
	},
	{
		Name:         "COVID-19 Crash",
		MarketDrop:   0.34,
		RecoveryDays: 33,
	},
	{
		Name:         "Dividend Cut Wave",
		MarketDrop:   0.15,
		DividendCut:  0.30,
		RecoveryDays: 30,
	},
	{
		Name:         "Rate Spike",
		MarketDrop:   0.20,
		RateIncrease: 0.03,
	},
}

// Catalog returns a copy of the versioned scenario table.
func Catalog() []domain.StressScenario {
	out := make([]domain.StressScenario, len(catalog))
	copy(out, catalog)
	return out
}
