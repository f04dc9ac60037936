package facets

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog/log"

	"github.com/sdg12/foodfacts-api/db"
	"github.com/sdg12/foodfacts-api/facets"
	"github.com/sdg12/foodfacts-api/types"
	"github.com/sdg12/foodfacts-api/util"
)

// TaxonomyRoutes creates a Chi router serving the static taxonomy
// files, at the root level
func TaxonomyRoutes(staticDir string) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/{taxonomy}.json", GetTaxonomy(staticDir))
	return router
}

// GetTaxonomy serves a static taxonomy file. Only allowlisted taxonomy
// names ever reach the filesystem.
func GetTaxonomy(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taxonomy := strings.TrimSpace(chi.URLParam(r, "taxonomy"))

		if !facets.IsTaxonomy(taxonomy) {
			log.Warn().Str("taxonomy", taxonomy).Msg("taxonomy not in the allowlist")
			util.JSON(w, http.StatusOK, types.NotFoundEnvelope(taxonomy, "taxonomy"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, filepath.Join(staticDir, "tax", taxonomy+".json"))
	}
}

// GetValues returns the distinct values users have entered for a facet
// field, optionally narrowed by a fuzzy `search` parameter
func GetValues(database db.ProductProvider) http.HandlerFunc {
	// Use a closure to inject the database provider
	return func(w http.ResponseWriter, r *http.Request) {
		facet := strings.TrimSpace(chi.URLParam(r, "facet"))

		if !facets.IsPlural(facet) {
			log.Warn().Str("facet", facet).Msg("facet not in the allowlist")
			util.JSON(w, http.StatusOK, types.NotFoundEnvelope(facet, "facet"))
			return
		}

		values, err := database.GetFacetValues(r.Context(), facet)
		if err != nil {
			util.JSON(w, http.StatusOK, types.FailedEnvelope(err.Error()))
			return
		}

		// Narrow the value list if a search was given
		search := strings.ToLower(r.URL.Query().Get("search"))
		if search != "" {
			matched := []string{}
			for _, value := range values {
				if fuzzy.MatchNormalized(search, strings.ToLower(value)) {
					matched = append(matched, value)
				}
			}
			values = matched
		}

		if len(values) == 0 {
			util.JSON(w, http.StatusOK, types.Envelope{
				"count": 0, "tags": nil, "status": 0,
			})
			return
		}

		util.JSON(w, http.StatusOK, types.Envelope{
			"count":  len(values),
			"tags":   values,
			"status": 1,
		})
	}
}

// GetCategoryProducts returns the products whose facet field contains
// the given value, paginated by the standard query parameters
func GetCategoryProducts(database db.ProductProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		options := db.OptionsFromQuery(r.URL.Query())
		serveCategoryProducts(w, r, database, options)
	}
}

// GetCategoryProductsPage is the numbered-page variant: the page size
// is fixed and the skip offset is derived from the page number
// (pages start at 1)
func GetCategoryProductsPage(database db.ProductProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.ParseInt(chi.URLParam(r, "page"), 10, 64)
		if err != nil || page < 1 {
			util.JSON(w, http.StatusOK, types.FailedEnvelope("invalid page number"))
			return
		}

		options := db.OptionsFromQuery(r.URL.Query())
		options.PageSize = db.DefaultPageSize
		options.Skip = db.DefaultPageSize * (page - 1)
		serveCategoryProducts(w, r, database, options)
	}
}

func serveCategoryProducts(w http.ResponseWriter, r *http.Request,
	database db.ProductProvider, options db.Options) {

	category := strings.TrimSpace(chi.URLParam(r, "category"))
	facet := strings.TrimSpace(chi.URLParam(r, "facet"))

	plural, ok := facets.PluralOf(category)
	if !ok {
		log.Warn().Str("category", category).Msg("category not in the allowlist")
		util.JSON(w, http.StatusOK, types.NotFoundEnvelope(category, "category"))
		return
	}

	products, err := database.GetCategoryProducts(r.Context(), plural, facet, options)
	if err != nil {
		util.JSON(w, http.StatusOK, types.FailedEnvelope(err.Error()))
		return
	}

	if len(products) == 0 {
		util.JSON(w, http.StatusOK, types.Envelope{
			"count": 0, "products": nil, "status": 0, "options": options,
		})
		return
	}

	util.JSON(w, http.StatusOK, types.Envelope{
		"count":    len(products),
		"products": products,
		"status":   1,
		"options":  options,
	})
}
