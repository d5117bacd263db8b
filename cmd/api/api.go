package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fiscofacil/ncm-indexer/internal/cache"
	"github.com/fiscofacil/ncm-indexer/internal/logger"
	"github.com/fiscofacil/ncm-indexer/internal/search"
	"github.com/fiscofacil/ncm-indexer/internal/store"
)

type application struct {
	config  config
	indexer *search.Indexer
	store   *store.Storage     // nil when no database is configured
	cache   *cache.SearchCache // nil when no Redis is configured
	logger  *logger.Logger
}

type config struct {
	addr        string
	adminSecret string
	meili       meiliConfig
	db          dbConfig
	redis       redisConfig
}

type meiliConfig struct {
	host   string
	apiKey string
	index  string
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

type redisConfig struct {
	addr string
	ttl  time.Duration
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Get("/busca", app.handleSearchNcm)

		r.Route("/admin", func(r chi.Router) {
			r.Use(app.adminOnly)

			r.Route("/ncm", func(r chi.Router) {
				r.Post("/", app.handleIndexNcm)
				r.Delete("/", app.handleDeleteNcm)
				r.Post("/importar", app.handleImportNcmTable)
				r.Get("/stats", app.handleNcmStats)
			})

			r.Get("/ingestion/history", app.handleGetIngestionHistory)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	log.Printf("Server started on %s", app.config.addr)
	return srv.ListenAndServe()
}
