// Package facets holds the static allowlists that gate which field
// names may be used when building dynamic storage queries. Any
// user-supplied facet, category or taxonomy token must pass through
// these tables before it reaches the data layer.
package facets

// Plural facet tokens, used to build the actual storage field names
// (e.g. "categories" -> "categories_tags")
var plural = []string{
	"additives",
	"allergens",
	"brands",
	"categories",
	"countries",
	"contributors",
	"code",
	"entry_dates",
	"ingredients",
	"labels",
	"languages",
	"nutrition_grade",
	"packaging",
	"packaging_codes",
	"purchase_places",
	"photographer",
	"informer",
	"states",
	"stores",
	"traces",
}

// Singular user-facing counterparts, related to the plural list by
// positional correspondence
var singular = []string{
	"additive",
	"allergen",
	"brand",
	"category",
	"country",
	"contributor",
	"code",
	"entry_date",
	"ingredient",
	"label",
	"language",
	"nutrition_grade",
	"packaging",
	"packaging_code",
	"purchase_place",
	"photographer",
	"informer",
	"state",
	"store",
	"trace",
}

// Taxonomies are the static taxonomy files that may be served
var taxonomies = []string{
	"additives",
	"additives_classes",
	"allergens",
	"brands",
	"categories",
	"countries",
	"ingredients",
	"ingredients_analysis",
	"languages",
	"nova_groups",
	"nutrient_levels",
	"states",
	"sustainability",
}

// IsPlural reports whether the token is an allowlisted plural facet name
func IsPlural(token string) bool {
	return indexOf(plural, token) >= 0
}

// PluralOf maps an allowlisted singular category token to its plural
// counterpart. The second return is false when the token misses the
// allowlist, in which case it must never reach the storage layer.
func PluralOf(category string) (string, bool) {
	index := indexOf(singular, category)
	if index < 0 {
		return "", false
	}

	return plural[index], true
}

// IsTaxonomy reports whether the token names a servable taxonomy file
func IsTaxonomy(token string) bool {
	return indexOf(taxonomies, token) >= 0
}

func indexOf(list []string, value string) int {
	for index, candidate := range list {
		if candidate == value {
			return index
		}
	}

	return -1
}
