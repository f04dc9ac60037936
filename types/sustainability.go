package types

// Sustainability is the per-product tally sub-document: one counter per
// attribute/outcome pair (keys like "en:palm-oil_ok") plus the derived
// scalar level. Counters are integral but float64-typed because the
// derived level shares the same document.
type Sustainability map[string]float64

// LevelKey is the key of the derived scalar score inside the
// sustainability sub-document
const LevelKey = "en:sustainability_level"

// DefaultLevel is the score assigned to a product nobody has voted on yet
// (the midpoint of the 0-5 scale)
const DefaultLevel = 2.5

// SustainabilityAttributes is the fixed set of tracked attributes.
// Each one owns three counters, suffixed _ok, _nok and _ns.
var SustainabilityAttributes = []string{
	"en:suitable-packaging",
	"en:suitable-size",
	"en:palm-oil",
	"en:manufacturing",
	"en:transport",
	"en:storage",
}

// Counter suffixes per vote outcome
const (
	SuffixTrue    = "_ok"
	SuffixFalse   = "_nok"
	SuffixNeutral = "_ns"
)

// DefaultSustainability returns a tally with every counter zeroed
// and the level at its midpoint default
func DefaultSustainability() Sustainability {
	tally := Sustainability{LevelKey: DefaultLevel}
	for _, attribute := range SustainabilityAttributes {
		tally[attribute+SuffixTrue] = 0
		tally[attribute+SuffixFalse] = 0
		tally[attribute+SuffixNeutral] = 0
	}

	return tally
}

// Clone returns an independent copy of the tally
func (s Sustainability) Clone() Sustainability {
	copied := make(Sustainability, len(s))
	for key, value := range s {
		copied[key] = value
	}

	return copied
}
