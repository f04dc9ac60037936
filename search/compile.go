// Package search translates free-form request query parameters into
// MongoDB filter fragments. Unrecognized keys and malformed parameter
// groups are skipped silently (fail-open): a garbled search UI degrades
// to a broader search instead of an error. Skipped groups are reported
// at debug level so the permissiveness stays observable.
package search

import (
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
)

// Compile inspects the request parameters and emits one filter fragment
// per recognized, fully-satisfied parameter group, in key order of the
// input. The fragments are meant to be combined with CombineAnd; an
// empty result means "no constraint".
func Compile(params Params) []bson.M {
	fragments := []bson.M{}

	for _, key := range params.Keys() {
		entry := matchSpec(key)
		if entry == nil {
			continue
		}

		fragment, ok := compileGroup(params, key, entry)
		if !ok {
			log.Debug().
				Str("key", key).
				Msg("skipping invalid or incomplete search parameter group")
			continue
		}

		if len(fragment) > 0 {
			fragments = append(fragments, fragment)
		}
	}

	return fragments
}

// CombineAnd combines the fragment list into a single filter document.
// An empty list translates to the match-all filter, never match-none.
func CombineAnd(fragments []bson.M) bson.M {
	if len(fragments) == 0 {
		return bson.M{}
	}

	return bson.M{"$and": fragments}
}

// compileGroup validates and assembles a single parameter group.
// The second return is false when the group must be skipped.
func compileGroup(params Params, key string, entry *specEntry) (bson.M, bool) {
	value, _ := params.Get(key)

	if entry.allowedValues != nil && !containsString(entry.allowedValues, value) {
		return nil, false
	}

	group := groupOf(key)

	operator := ""
	if entry.operatorPrefix != "" {
		found := false
		operator, found = params.Get(entry.operatorPrefix + group)
		if !found || !containsString(entry.allowedOperators, operator) {
			return nil, false
		}
	}

	operand := ""
	if entry.operandPrefix != "" {
		found := false
		// Presence is required; the content is left to the builder
		operand, found = params.Get(entry.operandPrefix + group)
		if !found {
			return nil, false
		}
	}

	switch entry.kind {
	case kindTagContains:
		return ContainsOrExcludes(value+"_tags", operator, operand), true
	case kindNumericCompare:
		return CompareNumeric(value, operator, operand), true
	case kindPresence:
		return Presence(entry.field, value), true
	default:
		return nil, false
	}
}
