package search

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/sdg12/foodfacts-api/db"
	"github.com/sdg12/foodfacts-api/search"
	"github.com/sdg12/foodfacts-api/types"
	"github.com/sdg12/foodfacts-api/util"
)

// Routes creates a new Chi router with the product search route,
// at the root level
func Routes(database db.ProductProvider) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/search.pl", Search(database))
	return router
}

// Search compiles the request query string into database filter
// fragments and returns the matching product page. Unrecognized or
// malformed filter parameters never fail the request; they are dropped
// and the search runs with whatever constraints survived.
func Search(database db.ProductProvider) http.HandlerFunc {
	// Use a closure to inject the database provider
	return func(w http.ResponseWriter, r *http.Request) {
		params := search.ParseQuery(r.URL.RawQuery)
		fragments := search.Compile(params)
		options := db.OptionsFromQuery(r.URL.Query())

		products, err := database.SearchProducts(r.Context(), fragments, options)
		if err != nil {
			util.JSON(w, http.StatusOK, types.FailedEnvelope(err.Error()))
			return
		}

		if len(products) == 0 {
			util.JSON(w, http.StatusOK, types.NotFoundEnvelope("search", "products"))
			return
		}

		util.JSON(w, http.StatusOK, types.Envelope{
			"status":         1,
			"status_verbose": "search found",
			"count":          len(products),
			"products":       products,
			"options":        options,
		})
	}
}
