package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/fiscofacil/ncm-indexer/internal/cache"
	"github.com/fiscofacil/ncm-indexer/internal/db"
	"github.com/fiscofacil/ncm-indexer/internal/env"
	"github.com/fiscofacil/ncm-indexer/internal/logger"
	"github.com/fiscofacil/ncm-indexer/internal/search"
	"github.com/fiscofacil/ncm-indexer/internal/store"
)

func main() {
	godotenv.Load()

	cfg := config{
		addr:        env.GetString("ADDR", ":8080"),
		adminSecret: env.GetString("ADMIN_SECRET", ""),
		meili: meiliConfig{
			host:   env.GetString("MEILISEARCH_URL", "http://meilisearch:7700"),
			apiKey: env.GetString("MEILI_MASTER_KEY", ""),
			index:  env.GetString("MEILI_INDEX", "ncm"),
		},
		db: dbConfig{
			addr:         env.GetString("DB_ADDR", ""),
			maxOpenConns: env.GetInt("DB_MAX_OPEN_CONNS", 25),
			maxIdleConns: env.GetInt("DB_MAX_IDLE_CONNS", 25),
			maxIdleTime:  env.GetString("DB_MAX_IDLE_TIME", "15m"),
		},
		redis: redisConfig{
			addr: env.GetString("REDIS_ADDR", ""),
			ttl:  env.GetDuration("CACHE_TTL", 5*time.Minute),
		},
	}

	appLogger := logger.FromEnv(env.GetString("LOG_LEVEL", "info"))

	engine := search.NewMeiliEngine(cfg.meili.host, cfg.meili.apiKey, cfg.meili.index)
	indexer := search.NewIndexer(engine, appLogger)

	app := &application{
		config:  cfg,
		indexer: indexer,
		logger:  appLogger,
	}

	if cfg.db.addr != "" {
		database, err := db.New(
			cfg.db.addr,
			cfg.db.maxOpenConns,
			cfg.db.maxIdleConns,
			cfg.db.maxIdleTime)
		if err != nil {
			log.Panic(err)
		}
		defer database.Close()
		log.Printf("Database connection pool established")

		app.store = store.NewStorage(database)
	} else {
		appLogger.Warn("API", "DB_ADDR not set, running without ingestion history")
	}

	if cfg.redis.addr != "" {
		app.cache = cache.New(cfg.redis.addr, cfg.redis.ttl)
		log.Printf("Search cache enabled at %s", cfg.redis.addr)
	}

	mux := app.mount()

	log.Fatal(app.run(mux))
}
