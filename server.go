package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/ironstar-io/chizerolog"
	"github.com/rs/zerolog"

	apiFacets "github.com/sdg12/foodfacts-api/api/facets"
	apiProducts "github.com/sdg12/foodfacts-api/api/products"
	apiSearch "github.com/sdg12/foodfacts-api/api/search"
	apiUsers "github.com/sdg12/foodfacts-api/api/users"
	"github.com/sdg12/foodfacts-api/env"
	"github.com/sdg12/foodfacts-api/off"
	"github.com/sdg12/foodfacts-api/session"
	"github.com/sdg12/foodfacts-api/sustainability"
	"github.com/sdg12/foodfacts-api/types"
	"github.com/sdg12/foodfacts-api/util"

	"github.com/sdg12/foodfacts-api/db/mongo"
)

// defaultExternalBaseURL is the upstream service consulted when a
// barcode misses the local database and fallback is enabled
const defaultExternalBaseURL = "https://world.openfoodfacts.org"

// APIServer is a struct that bundles together the various server-wide
// resources used at runtime that each have
// a lifecycle of initialization, connection, and disconnection
type APIServer struct {
	dbProvider *mongo.Provider
	sessions   session.Store
	engine     *sustainability.Engine
	offClient  *off.Client
	staticDir  string
	logger     zerolog.Logger
}

// NewAPIServer initializes the struct and all constituent components
func NewAPIServer(logger zerolog.Logger) (*APIServer, error) {
	// Initialize the MongoDB handler
	dbProvider, err := mongo.NewProvider()
	if err != nil {
		return nil, err
	}

	// Initialize the session store; sessions idle longer than the TTL
	// are evicted in the background
	sessionTTL := 24 * time.Hour
	if ttl, err := env.GetDurationEnv("session TTL", "SESSION_TTL"); err == nil {
		sessionTTL = ttl
	}
	sessions := session.NewMemoryStore(time.Hour, sessionTTL)

	// Initialize the upstream fallback client if it is enabled
	var offClient *off.Client
	if enabled, err := env.GetBoolEnv("external fallback flag", "EXTERNAL_FALLBACK"); err == nil && enabled {
		baseURL := defaultExternalBaseURL
		if value, err := env.GetEnv("external base URL", "EXTERNAL_BASE_URL"); err == nil {
			baseURL = value
		}

		offClient = off.NewClient(baseURL, &http.Client{Timeout: 5 * time.Second})
	}

	staticDir := "static"
	if value, err := env.GetEnv("static file directory", "STATIC_DIR"); err == nil {
		staticDir = value
	}

	return &APIServer{
		dbProvider: dbProvider,
		sessions:   sessions,
		engine:     sustainability.NewEngine(dbProvider, dbProvider),
		offClient:  offClient,
		staticDir:  staticDir,
		logger:     logger,
	}, nil
}

// Connect initializes the struct and all constituent components
func (a *APIServer) Connect(ctx context.Context) error {
	a.logger.Info().Msg("initializing MongoDB database provider")
	err := a.dbProvider.Connect(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("could not connect to the database")
		return err
	}
	a.logger.Info().Msg("successfully connected to and pinged the database")

	return nil
}

// Disconnect tears down all constituent components
func (a *APIServer) Disconnect(ctx context.Context) error {
	err := a.dbProvider.Disconnect(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("could not disconnect from the database")
		return err
	}
	a.logger.Info().Msg("disconnected from the database")

	return nil
}

// Serve runs the main API server until it's cancelled for some reason,
// in which case it attempts to gracefully shutdown.
// This function blocks.
func (a *APIServer) Serve(ctx context.Context, port int) {
	router := a.routes()
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Fatal().Err(err).Msg("listen failed")
		}
	}()
	a.logger.Info().Int("port", port).Msg("API server started")

	<-ctx.Done()
	a.logger.Info().Msg("API server stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer func() {
		cancel()
	}()

	if err := server.Shutdown(ctx); err != nil {
		a.logger.Fatal().Err(err).Msg("API server shutdown failed")
	}
	a.logger.Info().Msg("API server exited properly")
}

func (a *APIServer) routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.Recoverer,                          // Recover from panics without crashing the server
		chizerolog.LoggerMiddleware(&a.logger),        // Log API request calls
		middleware.RedirectSlashes,                    // Redirect slashes to no slash URL versions
		render.SetContentType(render.ContentTypeJSON), // Set content-type headers to application/json
		middleware.Compress(5),                        // Compress results, mostly gzipping assets and json
		middleware.NoCache,                            // Prevent clients from caching the results
		a.corsMiddleware(),                            // Create cors middleware from go-chi/cors
	)

	// ==============================
	// Add all routes to the API here
	// ==============================

	// Can be used for health checks
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(204)
	})

	router.Mount("/api/v0/product", apiProducts.Routes(a.dbProvider, a.offClient))
	router.Mount("/data/taxonomies", apiFacets.TaxonomyRoutes(a.staticDir))
	router.Mount("/cgi", apiSearch.Routes(a.dbProvider))
	router.Mount("/user", apiUsers.Routes(a.dbProvider, a.engine, a.sessions))

	// The facet/category routes match at the root, after the static
	// prefixes above
	router.Get("/{facet}.json", apiFacets.GetValues(a.dbProvider))
	router.Get("/{category}/{facet}.json", apiFacets.GetCategoryProducts(a.dbProvider))
	router.Get("/{category}/{facet}/{page}.json", apiFacets.GetCategoryProductsPage(a.dbProvider))

	// A JSON document is returned when no route matches
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		util.JSON(w, http.StatusNotFound, types.Envelope{
			"status":         0,
			"url":            r.URL.Path,
			"status_verbose": "resource not found: " + r.URL.Path,
		})
	})

	return router
}

func (a *APIServer) corsMiddleware() func(http.Handler) http.Handler {
	// See if the CORS_ALLOWED_ORIGINS environment variable was set
	allowedOrigins := "*"
	if value, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok {
		allowedOrigins = value
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
