// Package recommendations implements the rule-based layer that turns margin
// usage, risk profile, and tax inputs into ranked, explainable
// recommendations.
package recommendations

import (
	"fmt"

	"github.com/incomeclarity/marginsight/internal/domain"
)

// Rule thresholds. Each rule fires independently; none suppresses another.
const (
	// VelocityThreshold is the monthly dividend income per $1000 of
	// margin above which additional margin usage is recommended.
	VelocityThreshold = 50.0

	// TaxRateThreshold is the ordinary tax rate above which margin
	// interest deductibility becomes worth optimizing.
	TaxRateThreshold = 0.25

	// ConcentrationThreshold is the Herfindahl index above which
	// rebalancing is recommended.
	ConcentrationThreshold = 0.25
)

// RuleInput carries everything a rule may inspect. Rules are pure functions
// over this struct.
type RuleInput struct {
	Snapshot   domain.PortfolioSnapshot
	Profile    domain.RiskProfile
	TaxRate    float64
	AnnualRate float64 // margin interest rate
}

// Rule evaluates one independent condition. A nil return means the rule did
// not fire.
type Rule func(in RuleInput) *domain.Recommendation

// VelocityScore returns monthly dividend income generated per $1000 of
// margin used, or 0 when no margin is in use.
func VelocityScore(monthlyIncome, marginUsed float64) float64 {
	if marginUsed <= 0 {
		return 0
	}
	return monthlyIncome / (marginUsed / 1000)
}

// velocityRule recommends increasing margin when the income velocity is high
// enough that additional borrowing pays for itself comfortably.
func velocityRule(in RuleInput) *domain.Recommendation {
	velocity := VelocityScore(in.Snapshot.MonthlyDividendIncome, in.Snapshot.MarginUsed)
	if velocity <= VelocityThreshold {
		return nil
	}

	return &domain.Recommendation{
		Type:  domain.RecommendationIncrease,
		Title: "High income velocity supports additional margin",
		Description: fmt.Sprintf(
			"Your portfolio generates $%.2f of monthly dividend income per $1,000 of margin, well above the $%.0f threshold.",
			velocity, VelocityThreshold),
		Confidence:     0.85,
		ExpectedReturn: velocity * 12 / 1000, // annualized income per dollar borrowed
		RiskScore:      0.3,
		Steps: []string{
			"Review current maintenance requirement and buying power",
			"Increase margin gradually, keeping equity ratio above 50%",
			"Direct new borrowing into diversified dividend payers",
		},
	}
}

// taxRule recommends optimizing around margin interest deductibility for
// investors in higher ordinary brackets.
func taxRule(in RuleInput) *domain.Recommendation {
	if in.TaxRate <= TaxRateThreshold {
		return nil
	}

	annualInterest := in.Snapshot.MarginUsed * in.AnnualRate
	deductionValue := annualInterest * in.TaxRate

	return &domain.Recommendation{
		Type:  domain.RecommendationOptimize,
		Title: "Margin interest is tax deductible at your bracket",
		Description: fmt.Sprintf(
			"At a %.0f%% ordinary rate, deducting margin interest against investment income is worth about $%.2f per year.",
			in.TaxRate*100, deductionValue),
		Confidence:     0.92,
		ExpectedReturn: deductionValue,
		RiskScore:      0,
		Steps: []string{
			"Confirm itemized deduction eligibility with a tax professional",
			"Track margin interest paid for the investment interest deduction",
			"Offset against ordinary dividend and interest income first",
		},
	}
}

// concentrationRule recommends rebalancing when holdings are concentrated
// enough that a single-name shock threatens the margin cushion.
func concentrationRule(in RuleInput) *domain.Recommendation {
	if in.Profile.ConcentrationRisk <= ConcentrationThreshold {
		return nil
	}

	return &domain.Recommendation{
		Type:  domain.RecommendationRebalance,
		Title: "Concentrated holdings amplify margin risk",
		Description: fmt.Sprintf(
			"Portfolio concentration (Herfindahl %.2f) exceeds the %.2f threshold; a single-position drawdown could breach maintenance.",
			in.Profile.ConcentrationRisk, ConcentrationThreshold),
		Confidence:     0.78,
		ExpectedReturn: 0,
		RiskScore:      -0.5,
		Steps: []string{
			"Trim the largest positions toward equal weights",
			"Redeploy proceeds across under-represented sectors",
			"Re-run the risk profile after rebalancing",
		},
	}
}
