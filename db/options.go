package db

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// DefaultPageSize caps result pages when the client does not ask
// for a specific size
const DefaultPageSize = 10

// DefaultLang prefixes facet values when querying tag fields
const DefaultLang = "en"

// Options is the pagination/shaping envelope applied to every
// multi-document query
type Options struct {
	PageSize int64  `json:"page_size"`
	Skip     int64  `json:"skip"`
	Lang     string `json:"lang"`
	SortBy   string `json:"sort_by,omitempty"`
}

// DefaultOptions returns the options used when the client passes nothing
func DefaultOptions() Options {
	return Options{
		PageSize: DefaultPageSize,
		Skip:     0,
		Lang:     DefaultLang,
	}
}

// OptionsFromQuery reads the page_size, skip, lang and sort_by
// parameters, falling back to defaults for absent or malformed values
func OptionsFromQuery(query url.Values) Options {
	options := DefaultOptions()

	if raw := query.Get("page_size"); raw != "" {
		if pageSize, err := strconv.ParseInt(raw, 10, 64); err == nil && pageSize > 0 {
			options.PageSize = pageSize
		}
	}
	if raw := query.Get("skip"); raw != "" {
		if skip, err := strconv.ParseInt(raw, 10, 64); err == nil && skip >= 0 {
			options.Skip = skip
		}
	}
	if lang := query.Get("lang"); lang != "" {
		options.Lang = lang
	}
	if sortBy := query.Get("sort_by"); sortBy != "" {
		options.SortBy = sortBy
	}

	return options
}

// BarcodePattern builds the zero-padding-tolerant match pattern for a
// barcode lookup: leading zeros are stripped from the input and the
// anchored pattern accepts any number of leading zeros on the stored code
func BarcodePattern(barcode string) string {
	trimmed := strings.TrimLeft(strings.TrimSpace(barcode), "0")
	return "^0*" + regexp.QuoteMeta(trimmed) + "$"
}
