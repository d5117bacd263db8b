package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/fiscofacil/ncm-indexer/internal/db"
	"github.com/fiscofacil/ncm-indexer/internal/env"
	"github.com/fiscofacil/ncm-indexer/internal/logger"
	"github.com/fiscofacil/ncm-indexer/internal/ncm"
	"github.com/fiscofacil/ncm-indexer/internal/search"
	"github.com/fiscofacil/ncm-indexer/internal/store"
)

// ingest loads a raw nomenclature table file into the search index from
// the command line, the operator-driven counterpart of the upload route.
func main() {
	godotenv.Load()

	var (
		filePath  = flag.String("file", "", "raw nomenclature table (.json or .csv)")
		reset     = flag.Bool("reset", false, "clear the index before loading")
		latin1    = flag.Bool("latin1", false, "decode CSV input as ISO 8859-1")
		indexName = flag.String("index", env.GetString("MEILI_INDEX", "ncm"), "target index name")
	)
	flag.Parse()

	appLogger := logger.FromEnv(env.GetString("LOG_LEVEL", "info"))

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: ingest -file <table.json|table.csv> [-reset] [-latin1] [-index name]")
		os.Exit(2)
	}

	run(*filePath, *reset, *latin1, *indexName, appLogger)
}

func run(filePath string, reset, latin1 bool, indexName string, appLogger *logger.Logger) {
	const component = "Ingest"

	file, err := os.Open(filePath)
	if err != nil {
		appLogger.Fatal(component, "Failed to open table file: %v", err)
	}
	defer file.Close()

	appLogger.Info(component, "Reading table: %s", filePath)
	entries, err := ncm.ParseFile(filePath, file, latin1)
	if err != nil {
		appLogger.Fatal(component, "Failed to parse table: %v", err)
	}

	docs, summary := ncm.Transform(entries)
	appLogger.Info(component, "Transformed %d entries: %d NCM codes, %d active",
		summary.Total, summary.Ncms, summary.Ativos)

	engine := search.NewMeiliEngine(
		env.GetString("MEILISEARCH_URL", "http://meilisearch:7700"),
		env.GetString("MEILI_MASTER_KEY", ""),
		indexName,
	)
	indexer := search.NewIndexer(engine, appLogger)

	ctx := context.Background()
	result, loadErr := indexer.BulkLoad(ctx, docs, reset)

	recordHistory(ctx, filePath, result, loadErr, appLogger)

	if loadErr != nil {
		committed := 0
		if result != nil {
			committed = result.Batches
		}
		appLogger.Fatal(component, "Bulk load failed after %d committed batches: %v",
			committed, loadErr)
	}

	appLogger.Info(component, "Done: %d documents in %d batches, tasks %v",
		result.Total, result.Batches, result.Tasks)
}

func recordHistory(ctx context.Context, sourceFile string, result *search.LoadResult, loadErr error, appLogger *logger.Logger) {
	const component = "Ingest"

	dbAddr := env.GetString("DB_ADDR", "")
	if dbAddr == "" || result == nil {
		return
	}

	database, err := db.New(dbAddr,
		env.GetInt("DB_MAX_OPEN_CONNS", 25),
		env.GetInt("DB_MAX_IDLE_CONNS", 25),
		env.GetString("DB_MAX_IDLE_TIME", "15m"))
	if err != nil {
		appLogger.Warn(component, "Skipping ingestion history, database unavailable: %v", err)
		return
	}
	defer database.Close()

	status := store.StatusSuccess
	if loadErr != nil {
		status = store.StatusFailure
		if result.Batches > 0 {
			status = store.StatusPartial
		}
	}

	storage := store.NewStorage(database)
	history := &store.IngestionHistory{
		ReferenceDate:  time.Now(),
		SourceFile:     sourceFile,
		TriggerType:    store.TriggerTypeManual,
		Status:         status,
		TotalDocuments: result.Total,
		Batches:        result.Batches,
	}

	if err := storage.IngestionHistory.InsertIngestionHistory(ctx, history); err != nil {
		appLogger.Warn(component, "Failed to record ingestion history: %v", err)
	}
}
