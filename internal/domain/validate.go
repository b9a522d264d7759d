package domain

import (
	"fmt"
	"sort"
)

// Normalize applies defaults and canonicalizes the horizon list (sorted,
// deduplicated). Call before Validate.
func (r SimulationRequest) Normalize() SimulationRequest {
	r.Assumptions = r.Assumptions.ApplyDefaults()

	if r.Iterations == 0 {
		r.Iterations = DefaultIterations
	}

	if len(r.HorizonDays) == 0 {
		r.HorizonDays = append([]int(nil), DefaultHorizonDays...)
	} else {
		seen := make(map[int]bool, len(r.HorizonDays))
		horizons := make([]int, 0, len(r.HorizonDays))
		for _, h := range r.HorizonDays {
			if !seen[h] {
				seen[h] = true
				horizons = append(horizons, h)
			}
		}
		sort.Ints(horizons)
		r.HorizonDays = horizons
	}

	return r
}

// Validate checks the request invariants. Returns an InvalidInputError
// naming the first violated constraint, or nil.
func (r SimulationRequest) Validate(maxIterations int) error {
	if r.Snapshot.TotalValue <= 0 {
		return NewInvalidInput("portfolioValue", "must be greater than 0")
	}
	if r.Snapshot.MarginUsed < 0 {
		return NewInvalidInput("marginUsed", "must not be negative")
	}
	if r.Snapshot.MarginUsed >= r.Snapshot.TotalValue {
		return NewInvalidInput("marginUsed", "must be less than portfolio value")
	}
	if r.Assumptions.AnnualVolatility <= 0 {
		return NewInvalidInput("annualVolatility", "must be greater than 0")
	}
	if r.Assumptions.MaintenanceRequirement <= 0 || r.Assumptions.MaintenanceRequirement >= 1 {
		return NewInvalidInput("maintenanceRequirement", "must be between 0 and 1 exclusive")
	}
	if r.Iterations <= 0 {
		return NewInvalidInput("iterations", "must be a positive integer")
	}
	if maxIterations > 0 && r.Iterations > maxIterations {
		return NewInvalidInput("iterations", fmt.Sprintf("must not exceed %d", maxIterations))
	}
	for _, h := range r.HorizonDays {
		if h <= 0 {
			return NewInvalidInput("daysToLookAhead", "horizons must be positive integers")
		}
	}
	for i, holding := range r.Snapshot.Holdings {
		if holding.MarketValue < 0 {
			return NewInvalidInput("holdings", fmt.Sprintf("holding %d has negative market value", i))
		}
	}
	if r.TaxRate < 0 || r.TaxRate >= 1 {
		return NewInvalidInput("taxRate", "must be in [0, 1)")
	}
	return nil
}
