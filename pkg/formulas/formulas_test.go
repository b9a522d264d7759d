package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEquityRatio(t *testing.T) {
	tests := []struct {
		name           string
		portfolioValue float64
		marginUsed     float64
		expected       float64
	}{
		{"no margin", 100000, 0, 1.0},
		{"typical leverage", 100000, 30000, 0.7},
		{"heavy leverage", 100000, 80000, 0.2},
		{"zero portfolio", 0, 30000, 0},
		{"negative portfolio", -100, 30000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EquityRatio(tt.portfolioValue, tt.marginUsed), 1e-12)
		})
	}
}

func TestHerfindahlIndex(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single holding", []float64{50000}, 1.0},
		{"two equal holdings", []float64{50000, 50000}, 0.5},
		{"four equal holdings", []float64{25, 25, 25, 25}, 0.25},
		{"dominant position", []float64{90, 10}, 0.81 + 0.01},
		{"zero values ignored", []float64{0, 0, 100}, 1.0},
		{"all zero", []float64{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, HerfindahlIndex(tt.values), 1e-12)
		})
	}
}

func TestSafeDrawdownPercent(t *testing.T) {
	tests := []struct {
		name        string
		value       float64
		margin      float64
		maintenance float64
		expected    float64
	}{
		{"worked example", 100000, 30000, 0.25, 0.6},
		{"no margin", 100000, 0, 0.25, 1.0},
		{"already underwater", 100000, 80000, 0.25, 0},
		{"zero portfolio", 0, 30000, 0.25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SafeDrawdownPercent(tt.value, tt.margin, tt.maintenance), 1e-12)
		})
	}
}

func TestDailyScaling(t *testing.T) {
	// 252 trading days: drift scales linearly, volatility by sqrt of time.
	assert.InDelta(t, 0.07/252, DailyDrift(0.07), 1e-15)
	assert.InDelta(t, 0.16/15.874507866387544, DailyVolatility(0.16), 1e-12)
}

func TestMonthlyMarginInterest(t *testing.T) {
	assert.InDelta(t, 162.5, MonthlyMarginInterest(30000, 0.065), 1e-9)
	assert.Zero(t, MonthlyMarginInterest(0, 0.065))
}
