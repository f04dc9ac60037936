package sustainability

import "github.com/sdg12/foodfacts-api/types"

// scoreScale maps the mean approval ratio onto the 0-5 level scale
const scoreScale = 5

// CounterKey returns the tally counter key an outcome contributes to
// for the given attribute (e.g. "en:palm-oil" + VotedTrue ->
// "en:palm-oil_ok")
func CounterKey(attribute string, outcome Outcome) string {
	return attribute + outcome.suffix()
}

// Score derives the scalar sustainability level from a full tally: the
// mean over all tracked attributes of true_count / total_count, scaled
// to 0-5. An attribute nobody voted on contributes ratio 0 (the zero
// denominator is guarded, never divided through).
func Score(tally types.Sustainability) float64 {
	sum := 0.0

	for _, attribute := range types.SustainabilityAttributes {
		trueCount := tally[attribute+types.SuffixTrue]
		total := trueCount +
			tally[attribute+types.SuffixFalse] +
			tally[attribute+types.SuffixNeutral]

		if total > 0 {
			sum += trueCount / total
		}
	}

	return sum / float64(len(types.SustainabilityAttributes)) * scoreScale
}
