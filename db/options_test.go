package db

import (
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionsFromQueryDefaults(t *testing.T) {
	options := OptionsFromQuery(url.Values{})
	assert.Equal(t, DefaultOptions(), options)
}

func TestOptionsFromQuery(t *testing.T) {
	query := url.Values{
		"page_size": []string{"25"},
		"skip":      []string{"50"},
		"lang":      []string{"fr"},
		"sort_by":   []string{"product_name"},
	}

	options := OptionsFromQuery(query)
	assert.Equal(t, int64(25), options.PageSize)
	assert.Equal(t, int64(50), options.Skip)
	assert.Equal(t, "fr", options.Lang)
	assert.Equal(t, "product_name", options.SortBy)
}

func TestOptionsFromQueryIgnoresMalformedValues(t *testing.T) {
	query := url.Values{
		"page_size": []string{"lots"},
		"skip":      []string{"-3"},
	}

	options := OptionsFromQuery(query)
	assert.Equal(t, int64(DefaultPageSize), options.PageSize)
	assert.Equal(t, int64(0), options.Skip)
}

func TestOptionsFromQueryRejectsZeroPageSize(t *testing.T) {
	query := url.Values{"page_size": []string{"0"}}
	assert.Equal(t, int64(DefaultPageSize), OptionsFromQuery(query).PageSize)
}

func TestBarcodePattern(t *testing.T) {
	assert.Equal(t, "^0*737628064502$", BarcodePattern("737628064502"))
	assert.Equal(t, "^0*737628064502$", BarcodePattern("00737628064502"))
	assert.Equal(t, "^0*737628064502$", BarcodePattern("  737628064502 "))
}

func TestBarcodePatternMatchesPaddedVariants(t *testing.T) {
	pattern := regexp.MustCompile(BarcodePattern("0123456"))

	assert.True(t, pattern.MatchString("123456"))
	assert.True(t, pattern.MatchString("0000123456"))
	assert.False(t, pattern.MatchString("1234567"))
	assert.False(t, pattern.MatchString("9123456"))
}

func TestBarcodePatternQuotesMetacharacters(t *testing.T) {
	pattern := BarcodePattern("12.4")
	assert.Equal(t, "^0*12\\.4$", pattern)
	assert.False(t, regexp.MustCompile(pattern).MatchString("1234"))
}
