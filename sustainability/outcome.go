package sustainability

import (
	"strings"

	"github.com/sdg12/foodfacts-api/db"
	"github.com/sdg12/foodfacts-api/types"
)

// Outcome is the state of one (user, product, attribute) vote.
// NoVote is the implicit initial state; Neutral is an explicit vote.
type Outcome int

const (
	NoVote Outcome = iota
	VotedTrue
	VotedFalse
	VotedNeutral
)

// ParseOutcome parses a vote value from the request path. The three
// legal values are "true", "false" and "null"; anything else fails with
// an invalid-argument error before any state is touched.
func ParseOutcome(value string) (Outcome, error) {
	switch value {
	case "true":
		return VotedTrue, nil
	case "false":
		return VotedFalse, nil
	case "null":
		return VotedNeutral, nil
	default:
		return NoVote, db.NewInvalidArgumentError("vote value", value)
	}
}

// FromRecord converts a stored vote record entry to an Outcome.
// A missing entry is NoVote; a present nil entry is an explicit neutral.
func FromRecord(value *bool, present bool) Outcome {
	switch {
	case !present:
		return NoVote
	case value == nil:
		return VotedNeutral
	case *value:
		return VotedTrue
	default:
		return VotedFalse
	}
}

// Record converts the outcome to its stored representation.
// Only castable outcomes (true/false/neutral) are representable.
func (o Outcome) Record() *bool {
	switch o {
	case VotedTrue:
		value := true
		return &value
	case VotedFalse:
		value := false
		return &value
	default:
		return nil
	}
}

// suffix selects the tally counter the outcome contributes to
func (o Outcome) suffix() string {
	switch o {
	case VotedTrue:
		return types.SuffixTrue
	case VotedFalse:
		return types.SuffixFalse
	default:
		return types.SuffixNeutral
	}
}

func (o Outcome) String() string {
	switch o {
	case VotedTrue:
		return "true"
	case VotedFalse:
		return "false"
	case VotedNeutral:
		return "null"
	default:
		return "novote"
	}
}

// NormalizeAttribute canonicalizes a sustainability attribute name from
// the request path, accepting both the bare name ("palm-oil") and the
// stored prefixed form ("en:palm-oil"). The second return is false for
// attributes outside the tracked set.
func NormalizeAttribute(attribute string) (string, bool) {
	name := strings.TrimSpace(attribute)
	if !strings.HasPrefix(name, "en:") {
		name = "en:" + name
	}

	for _, candidate := range types.SustainabilityAttributes {
		if candidate == name {
			return name, true
		}
	}

	return "", false
}
