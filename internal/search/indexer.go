package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fiscofacil/ncm-indexer/internal/logger"
	"github.com/fiscofacil/ncm-indexer/internal/ncm"
)

// batchSize keeps each write request under the engine's payload limit.
// It is a design constant, not configuration.
const batchSize = 1000

const defaultSearchLimit = 20

const component = "Indexer"

var (
	// ErrNoDocuments rejects a bulk load with an empty document list.
	ErrNoDocuments = errors.New("document list is empty")

	// ErrQueryTooShort rejects queries under two characters before any
	// engine round trip.
	ErrQueryTooShort = errors.New("query must have at least 2 characters")
)

// LoadResult reports one bulk-load saga. Tasks holds the engine task id
// of every batch that was committed, including on a mid-saga failure:
// committed batches are never rolled back, so callers can see how far
// the load went and re-run with reset to recover a clean state.
type LoadResult struct {
	Total   int      `json:"total"`
	Batches int      `json:"lotes"`
	Tasks   []string `json:"tasks"`
}

// SearchParams is the public query surface: free text, optional level
// filter, optional limit.
type SearchParams struct {
	Query string
	Nivel string
	Limit int64
}

// Indexer owns all interaction with the engine for one index: lifecycle,
// batched loads, deletions and queries. Writes are serialized through a
// single-writer lock; two concurrent loads would otherwise interleave
// their batches with no mutual exclusion at the engine.
type Indexer struct {
	engine Engine
	log    *logger.Logger

	writeMu sync.Mutex
}

func NewIndexer(engine Engine, log *logger.Logger) *Indexer {
	return &Indexer{engine: engine, log: log}
}

// BulkLoad uploads documents in fixed-size batches, sequentially and in
// input order, optionally clearing the index first. Attributes are
// configured on every load so a freshly created index is queryable
// immediately. Each batch is acknowledged by a task id; indexing
// completion stays asynchronous on the engine side.
func (ix *Indexer) BulkLoad(ctx context.Context, docs []ncm.Document, reset bool) (*LoadResult, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	ix.writeMu.Lock()
	defer ix.writeMu.Unlock()

	result := &LoadResult{Total: len(docs), Tasks: []string{}}

	if err := ix.engine.EnsureIndex(ctx); err != nil {
		return result, err
	}

	if reset {
		if _, err := ix.engine.DeleteAllDocuments(ctx); err != nil {
			return result, err
		}
		ix.log.Info(component, "Index cleared before load")
	}

	if err := ix.engine.ConfigureAttributes(ctx); err != nil {
		return result, err
	}

	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}

		task, err := ix.engine.AddDocuments(ctx, docs[start:end])
		if err != nil {
			ix.log.Error(component, "Batch %d failed after %d committed batches: %v",
				result.Batches+1, result.Batches, err)
			return result, err
		}

		result.Batches++
		result.Tasks = append(result.Tasks, task)
		ix.log.Info(component, "Batch %d: %d documents submitted (task %s)",
			result.Batches, end-start, task)
	}

	ix.log.Info(component, "Bulk load submitted: %d documents in %d batches",
		result.Total, result.Batches)
	return result, nil
}

// DeleteOne removes a single document by id.
func (ix *Indexer) DeleteOne(ctx context.Context, id int) (string, error) {
	ix.writeMu.Lock()
	defer ix.writeMu.Unlock()

	if err := ix.engine.EnsureIndex(ctx); err != nil {
		return "", err
	}
	return ix.engine.DeleteDocument(ctx, id)
}

// DeleteAll clears every document from the index. Attribute
// configuration is retained by the engine.
func (ix *Indexer) DeleteAll(ctx context.Context) (string, error) {
	ix.writeMu.Lock()
	defer ix.writeMu.Unlock()

	if err := ix.engine.EnsureIndex(ctx); err != nil {
		return "", err
	}
	return ix.engine.DeleteAllDocuments(ctx)
}

// Search runs a highlighted query restricted to currently valid entries,
// intersected with the level filter when one is supplied. Queries whose
// trimmed length is under two characters fail before any engine call.
func (ix *Indexer) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	if len([]rune(strings.TrimSpace(p.Query))) < 2 {
		return nil, ErrQueryTooShort
	}

	limit := p.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	filters := []string{"ativo = true"}
	if p.Nivel != "" {
		filters = append(filters, fmt.Sprintf("nivel = %q", p.Nivel))
	}

	return ix.engine.Search(ctx, EngineQuery{
		Text:      p.Query,
		Filters:   filters,
		Limit:     limit,
		Highlight: true,
	})
}

// AdminSearch is the unfiltered administrative lookup: no validity
// filter, no highlighting, empty query allowed (the engine then returns
// documents in ranking order).
func (ix *Indexer) AdminSearch(ctx context.Context, query string, limit int64) (*SearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return ix.engine.Search(ctx, EngineQuery{Text: query, Limit: limit})
}

// Stats surfaces the engine's index statistics read-only.
func (ix *Indexer) Stats(ctx context.Context) (*IndexStats, error) {
	return ix.engine.Stats(ctx)
}
