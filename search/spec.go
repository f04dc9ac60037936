package search

import "regexp"

// filterKind selects the fragment builder a spec entry dispatches to.
// Keeping the dispatch as a tagged enum (instead of function values in
// the table) keeps the table inspectable and testable in isolation.
type filterKind int

const (
	// kindTagContains builds a substring filter on "<value>_tags"
	kindTagContains filterKind = iota
	// kindNumericCompare builds a numeric comparison on the value field
	kindNumericCompare
	// kindPresence builds an existence/emptiness filter on a fixed field
	kindPresence
)

// specEntry describes one recognized parameter group: how its trigger
// key is matched, how the primary value is validated, which sibling
// parameters carry the operator/operand, and which builder runs.
type specEntry struct {
	// keyPattern matches an incoming parameter name (e.g. "tagtype_3")
	keyPattern *regexp.Regexp

	// allowedValues is the enumerated allowlist for the primary value;
	// nil means any value is accepted. Entries whose value feeds a
	// storage field name must carry an allowlist.
	allowedValues []string

	// operatorPrefix + group names the sibling parameter carrying the
	// operator; empty when the group uses no operator
	operatorPrefix string

	// allowedOperators are the legal values of the operator parameter
	allowedOperators []string

	// operandPrefix + group names the sibling parameter carrying the
	// operand; empty when the group uses no operand
	operandPrefix string

	kind filterKind

	// field is the target field for presence entries
	field string
}

// Tag types that may appear as a tagtype_<n> value. The validated value
// becomes the "<value>_tags" field name, so this list is the injection
// barrier for tag filters.
var tagTypes = []string{
	"brands",
	"categories",
	"packaging",
	"labels",
	"origins",
	"manufacturing_places",
	"emb_codes",
	"purchase_places",
	"stores",
	"countries",
	"additives",
	"allergens",
	"traces",
	"nutrition_grades",
	"states",
}

// Nutrient names that may appear as a nutriment_<n> value. The value is
// used directly as a storage field name, so it is allowlisted too.
var nutrientNames = []string{
	"alcohol",
	"alpha-linolenic-acid",
	"arachidic-acid",
	"arachidonic-acid",
	"behenic-acid",
	"bicarbonate",
	"biotin",
	"butyric-acid",
	"caffeine",
	"calcium",
	"capric-acid",
	"caproic-acid",
	"caprylic-acid",
	"carbohydrates",
	"casein",
	"cerotic-acid",
	"chloride",
	"cholesterol",
	"chromium",
	"copper",
	"dihomo-gamma-linolenic-acid",
	"docosahexaenoic-acid",
	"eicosapentaenoic-acid",
	"elaidic-acid",
	"energy",
	"erucic-acid",
	"fat",
	"fiber",
	"fluoride",
	"fructose",
	"gamma-linolenic-acid",
	"glucose",
	"gondoic-acid",
	"iodine",
	"iron",
	"lactose",
	"lauric-acid",
	"lignoceric-acid",
	"linoleic-acid",
	"magnesium",
	"maltodextrins",
	"maltose",
	"manganese",
	"mead-acid",
	"melissic-acid",
	"molybdenum",
	"monounsaturated-fat",
	"montanic-acid",
	"myristic-acid",
	"nervonic-acid",
	"nucleotides",
	"oleic-acid",
	"omega-3-fat",
	"omega-6-fat",
	"omega-9-fat",
	"palmitic-acid",
	"pantothenic-acid",
	"phosphorus",
	"polyols",
	"polyunsaturated-fat",
	"potassium",
	"proteins",
	"saturated-fat",
	"selenium",
	"serum-proteins",
	"silica",
	"sodium",
	"starch",
	"stearic-acid",
	"sucrose",
	"sugars",
	"taurine",
	"trans-fat",
	"vitamin-a",
	"vitamin-b1",
	"vitamin-b12",
	"vitamin-b2",
	"vitamin-b6",
	"vitamin-b9",
	"vitamin-c",
	"vitamin-d",
	"vitamin-e",
	"vitamin-k",
	"vitamin-pp",
	"zinc",
}

// filterSpecs is the ordered table of recognized parameter groups.
// Matching is first-match-wins over this order.
var filterSpecs = []specEntry{
	{
		keyPattern:       regexp.MustCompile(`^tagtype_[0-9]+$`),
		allowedValues:    tagTypes,
		operatorPrefix:   "tag_contains_",
		allowedOperators: []string{OpContains, OpDoesNotContain},
		operandPrefix:    "tag_",
		kind:             kindTagContains,
	},
	{
		keyPattern:       regexp.MustCompile(`^nutriment_[0-9]+$`),
		allowedValues:    nutrientNames,
		operatorPrefix:   "nutriment_compare_",
		allowedOperators: CompareOperators,
		operandPrefix:    "nutriment_value_",
		kind:             kindNumericCompare,
	},
	{
		keyPattern: regexp.MustCompile(`additives`),
		allowedValues: []string{
			"without_additives",
			"with_additives",
			"indifferent_additives",
		},
		kind:  kindPresence,
		field: "additives_tags",
	},
	{
		keyPattern: regexp.MustCompile(`ingredients_from_palm_oil`),
		allowedValues: []string{
			"without",
			"with",
			"indifferent",
		},
		kind:  kindPresence,
		field: "ingredients_from_palm_oil_tags",
	},
	{
		keyPattern: regexp.MustCompile(`ingredients_from_or_that_may_be_from_palm_oil`),
		allowedValues: []string{
			"without",
			"with",
			"indifferent",
		},
		kind:  kindPresence,
		field: "ingredients_from_or_that_may_be_from_palm_oil_tags",
	},
}

var groupSuffix = regexp.MustCompile(`_([0-9]+)$`)

// matchSpec finds the first spec entry whose pattern matches the key
func matchSpec(key string) *specEntry {
	for index := range filterSpecs {
		if filterSpecs[index].keyPattern.MatchString(key) {
			return &filterSpecs[index]
		}
	}

	return nil
}

// groupOf extracts the numeric group identifier from a matched key
// ("tagtype_3" -> "3"); empty for keys without a numeric suffix
func groupOf(key string) string {
	match := groupSuffix.FindStringSubmatch(key)
	if match == nil {
		return ""
	}

	return match[1]
}
