package search

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Filter fragment builders. Each function is pure and returns a single
// MongoDB filter fragment, or an empty fragment meaning "impose no
// constraint". Callers must omit empty fragments from the AND list,
// never treat them as errors.

// Substring-match operators
const (
	OpContains       = "contains"
	OpDoesNotContain = "does_not_contains"
)

// Numeric comparison operators, matching MongoDB's vocabulary
// without the $ prefix
var CompareOperators = []string{"lt", "lte", "gt", "gte", "eq"}

// ContainsOrExcludes builds a case-insensitive substring match on the
// field ("contains"), or its negation ("does_not_contains"). Any other
// operator yields an empty fragment.
func ContainsOrExcludes(field string, operator string, value string) bson.M {
	match := bson.M{"$regex": value, "$options": "i"}

	switch operator {
	case OpContains:
		return bson.M{field: match}
	case OpDoesNotContain:
		return bson.M{field: bson.M{"$not": match}}
	default:
		return bson.M{}
	}
}

// CompareNumeric builds a {field: {$op: value}} comparison fragment.
// Unknown operators and non-numeric operands yield an empty fragment.
func CompareNumeric(field string, operator string, value string) bson.M {
	if !containsString(CompareOperators, operator) {
		return bson.M{}
	}

	number, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return bson.M{}
	}

	return bson.M{field: bson.M{"$" + operator: number}}
}

// Presence builds an existence/emptiness fragment on an array field
// from a three-way token: "indifferent*" imposes no constraint,
// "without*" requires the field to exist and be empty, "with*" requires
// it to exist and be non-empty. The "without" prefix must be tested
// before "with" since one is a prefix of the other.
func Presence(field string, token string) bson.M {
	switch {
	case strings.HasPrefix(token, "indifferent"):
		return bson.M{}
	case strings.HasPrefix(token, "without"):
		return bson.M{field: bson.M{"$exists": true, "$eq": bson.A{}}}
	case strings.HasPrefix(token, "with"):
		return bson.M{field: bson.M{"$exists": true, "$ne": bson.A{}}}
	default:
		return bson.M{}
	}
}

func containsString(list []string, value string) bool {
	for _, candidate := range list {
		if candidate == value {
			return true
		}
	}

	return false
}
