package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestContainsOrExcludesUnknownOperator(t *testing.T) {
	assert.Empty(t, ContainsOrExcludes("brands_tags", "maybe_contains", "acme"))
}

func TestCompareNumericOperators(t *testing.T) {
	for _, operator := range CompareOperators {
		fragment := CompareNumeric("fat", operator, "12.5")

		assert.Equal(t, bson.M{"fat": bson.M{"$" + operator: 12.5}}, fragment)
	}
}

func TestCompareNumericUnknownOperator(t *testing.T) {
	assert.Empty(t, CompareNumeric("fat", "almost", "12.5"))
}

func TestCompareNumericBadOperand(t *testing.T) {
	assert.Empty(t, CompareNumeric("fat", "lt", "a-lot"))
}

func TestPresencePrefixes(t *testing.T) {
	field := "additives_tags"

	// "without" must win over "with" despite the shared prefix
	assert.Equal(t,
		bson.M{field: bson.M{"$exists": true, "$eq": bson.A{}}},
		Presence(field, "without_additives"))
	assert.Equal(t,
		bson.M{field: bson.M{"$exists": true, "$ne": bson.A{}}},
		Presence(field, "with_additives"))
	assert.Empty(t, Presence(field, "indifferent_additives"))
	assert.Empty(t, Presence(field, "whatever"))
}
