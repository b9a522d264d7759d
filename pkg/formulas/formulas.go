// Package formulas provides shared financial math used across the margin
// intelligence modules. All functions are pure and operate on plain float64
// values.
package formulas

import "math"

// TradingDaysPerYear is the annualization basis used for square-root-of-time
// scaling between annual and daily parameters.
const TradingDaysPerYear = 252.0

// EquityRatio returns (portfolioValue - marginUsed) / portfolioValue.
// Returns 0 when portfolioValue is not positive (degenerate, callers
// validate before reaching this point).
func EquityRatio(portfolioValue, marginUsed float64) float64 {
	if portfolioValue <= 0 {
		return 0
	}
	return (portfolioValue - marginUsed) / portfolioValue
}

// HerfindahlIndex returns the sum of squared weights for the given values.
// Values are normalized internally, so callers may pass raw market values.
// Returns 0 for an empty or zero-total input.
func HerfindahlIndex(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	if total <= 0 {
		return 0
	}

	hhi := 0.0
	for _, v := range values {
		if v > 0 {
			w := v / total
			hhi += w * w
		}
	}
	return hhi
}

// SafeDrawdownPercent returns the largest one-time fractional value drop the
// portfolio tolerates before equity falls below the maintenance requirement,
// solved algebraically and floored at 0.
//
// Derivation: after a drop d, equity ratio = 1 - marginUsed/(value*(1-d)).
// Setting that equal to the maintenance requirement and solving for d gives
// d = 1 - marginUsed/(value*(1-maintenanceRequirement)).
func SafeDrawdownPercent(portfolioValue, marginUsed, maintenanceRequirement float64) float64 {
	if portfolioValue <= 0 || maintenanceRequirement >= 1 {
		return 0
	}
	d := 1 - marginUsed/(portfolioValue*(1-maintenanceRequirement))
	if d < 0 {
		return 0
	}
	return d
}

// DailyDrift converts an annual expected return to a per-trading-day drift.
func DailyDrift(annualReturn float64) float64 {
	return annualReturn / TradingDaysPerYear
}

// DailyVolatility converts annual volatility to daily volatility using
// square-root-of-time scaling.
func DailyVolatility(annualVolatility float64) float64 {
	return annualVolatility / math.Sqrt(TradingDaysPerYear)
}

// MonthlyMarginInterest returns the monthly interest cost on the given margin
// balance at the given annual rate.
func MonthlyMarginInterest(marginUsed, annualRate float64) float64 {
	return marginUsed * annualRate / 12
}
