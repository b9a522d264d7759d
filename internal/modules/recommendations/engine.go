package recommendations

import (
	"github.com/rs/zerolog"

	"github.com/incomeclarity/marginsight/internal/domain"
)

// Engine evaluates the rule list against one input. Rules are additive:
// zero, one, or many may fire, and firing order follows declaration order.
type Engine struct {
	rules []Rule
	log   zerolog.Logger
}

// NewEngine creates a recommendation engine with the standard rule set.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		rules: []Rule{
			velocityRule,
			taxRule,
			concentrationRule,
		},
		log: log.With().Str("component", "recommendations").Logger(),
	}
}

// Recommend runs every rule and collects the ones that fired.
func (e *Engine) Recommend(in RuleInput) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, len(e.rules))
	for _, rule := range e.rules {
		if rec := rule(in); rec != nil {
			recs = append(recs, *rec)
		}
	}

	e.log.Debug().
		Int("fired", len(recs)).
		Int("rules", len(e.rules)).
		Msg("Evaluated recommendation rules")

	return recs
}

// NoMarginRecommendations is the fixed set returned by the zero-margin
// short-circuit: there is no margin risk to manage, only the option to take
// some on.
func NoMarginRecommendations() []domain.Recommendation {
	return []domain.Recommendation{
		{
			Type:        domain.RecommendationOptimize,
			Title:       "No margin risk",
			Description: "You are not using margin, so there is no margin call risk. Margin could amplify dividend income if used conservatively.",
			Confidence:  1.0,
			RiskScore:   0,
			Steps: []string{
				"Maintain current unleveraged strategy, or",
				"Consider conservative margin usage (under 20% of portfolio value) to amplify income",
			},
		},
	}
}
