package facets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPluralOf(t *testing.T) {
	plural, ok := PluralOf("category")
	assert.True(t, ok)
	assert.Equal(t, "categories", plural)

	plural, ok = PluralOf("entry_date")
	assert.True(t, ok)
	assert.Equal(t, "entry_dates", plural)

	// Same token in both lists
	plural, ok = PluralOf("packaging")
	assert.True(t, ok)
	assert.Equal(t, "packaging", plural)
}

func TestPluralOfRejectsUnknownTokens(t *testing.T) {
	_, ok := PluralOf("categories") // plural form is not a singular token
	assert.False(t, ok)

	_, ok = PluralOf("$where")
	assert.False(t, ok)

	_, ok = PluralOf("")
	assert.False(t, ok)
}

func TestIsPlural(t *testing.T) {
	assert.True(t, IsPlural("categories"))
	assert.True(t, IsPlural("brands"))
	assert.False(t, IsPlural("category"))
	assert.False(t, IsPlural("sustainability.en:palm-oil_ok"))
}

func TestListsStayInLockstep(t *testing.T) {
	// The allowlists correspond positionally; a drifting edit to one
	// list silently remaps every facet after it
	assert.Equal(t, len(plural), len(singular))
}

func TestIsTaxonomy(t *testing.T) {
	assert.True(t, IsTaxonomy("ingredients"))
	assert.True(t, IsTaxonomy("sustainability"))
	assert.False(t, IsTaxonomy("../secrets"))
	assert.False(t, IsTaxonomy(""))
}
