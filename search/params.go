package search

import (
	"net/url"
	"strings"
)

// Params is an insertion-ordered view of the request query string.
// The compiler iterates keys in the order the client sent them so that
// the emitted fragment list is deterministic (the fragments are ANDed,
// so order does not affect correctness, only testability).
type Params struct {
	keys   []string
	values map[string]string
}

// ParseQuery parses a raw query string ("a=1&b=2") preserving key
// order. When a key repeats, the first value wins.
func ParseQuery(raw string) Params {
	params := Params{values: map[string]string{}}

	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}

		key := pair
		value := ""
		if index := strings.Index(pair, "="); index >= 0 {
			key = pair[:index]
			value = pair[index+1:]
		}

		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}

		params.Set(decodedKey, decodedValue)
	}

	return params
}

// Set adds a key/value pair, keeping the first value for repeated keys
func (p *Params) Set(key string, value string) {
	if p.values == nil {
		p.values = map[string]string{}
	}

	if _, exists := p.values[key]; exists {
		return
	}

	p.keys = append(p.keys, key)
	p.values[key] = value
}

// Get looks up the value for a key
func (p Params) Get(key string) (string, bool) {
	value, ok := p.values[key]
	return value, ok
}

// Keys returns the keys in insertion order
func (p Params) Keys() []string {
	return p.keys
}
