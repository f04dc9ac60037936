package products

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog/log"

	"github.com/sdg12/foodfacts-api/db"
	"github.com/sdg12/foodfacts-api/off"
	"github.com/sdg12/foodfacts-api/types"
	"github.com/sdg12/foodfacts-api/util"
)

// Routes creates a new Chi router with all of the routes for the
// product resource, at the root level
func Routes(database db.ProductProvider, fallback *off.Client) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/{barcode}.json", GetByBarcode(database, fallback))
	return router
}

// GetByBarcode looks a product up by its barcode, tolerating leading
// zeros on either side of the match. When the product is missing
// locally and a fallback client is configured, the upstream service is
// consulted before reporting not-found. Domain misses are reported in
// the status envelope with HTTP 200, per the wire contract.
func GetByBarcode(database db.ProductProvider, fallback *off.Client) http.HandlerFunc {
	// Use a closure to inject the database provider
	return func(w http.ResponseWriter, r *http.Request) {
		barcode := chi.URLParam(r, "barcode")
		if barcode == "" {
			util.JSON(w, http.StatusOK, types.FailedEnvelope("barcode cannot be empty"))
			return
		}

		product, err := database.GetProductByBarcode(r.Context(), barcode)
		if err == nil {
			util.JSON(w, http.StatusOK, types.Envelope{
				"code":    product.Code(),
				"product": product,
				"status":  1,
			})
			return
		}

		if _, notFound := err.(*db.NotFoundError); !notFound {
			util.JSON(w, http.StatusOK, types.FailedEnvelope(err.Error()))
			return
		}

		if fallback != nil {
			envelope, fallbackErr := fallback.GetProduct(r.Context(), barcode)
			if fallbackErr == nil {
				util.JSON(w, http.StatusOK, envelope)
				return
			}

			log.Warn().
				Err(fallbackErr).
				Str("barcode", barcode).
				Msg("upstream product lookup failed")
		}

		log.Info().Str("barcode", barcode).Msg("product not found")
		util.JSON(w, http.StatusOK, types.NotFoundEnvelope(barcode, "product"))
	}
}
