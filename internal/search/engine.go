package search

import (
	"context"

	"github.com/fiscofacil/ncm-indexer/internal/ncm"
)

// Engine is the contract the gateway requires from the search backend:
// index lifecycle, bulk writes acknowledged by task ids, and filtered
// queries. Write operations are asynchronous on the engine side; the task
// id only acknowledges submission, not indexing completion.
type Engine interface {
	EnsureIndex(ctx context.Context) error
	ConfigureAttributes(ctx context.Context) error
	AddDocuments(ctx context.Context, docs []ncm.Document) (string, error)
	DeleteDocument(ctx context.Context, id int) (string, error)
	DeleteAllDocuments(ctx context.Context) (string, error)
	Search(ctx context.Context, q EngineQuery) (*SearchResult, error)
	Stats(ctx context.Context) (*IndexStats, error)
}

// EngineQuery is one query against the engine. Filters are ANDed.
type EngineQuery struct {
	Text      string
	Filters   []string
	Limit     int64
	Highlight bool
}

// HighlightedFields carries the marked-up copies of the searchable
// fields the engine highlights.
type HighlightedFields struct {
	Codigo    string `json:"codigo"`
	Descricao string `json:"descricao"`
}

// Hit is one ranked result. Formatted is present only when highlighting
// was requested.
type Hit struct {
	ncm.Document
	Formatted *HighlightedFields `json:"_formatted,omitempty"`
}

type SearchResult struct {
	Hits  []Hit `json:"hits"`
	Total int64 `json:"total"`
}

// IndexStats mirrors the engine's per-index statistics. IsIndexing is
// read-only observer information; no caller decision hangs on it.
type IndexStats struct {
	NumberOfDocuments int64            `json:"numberOfDocuments"`
	IsIndexing        bool             `json:"isIndexing"`
	FieldDistribution map[string]int64 `json:"fieldDistribution,omitempty"`
}

// EngineError surfaces the engine's own message verbatim, tagged with
// the operation that failed.
type EngineError struct {
	Op  string
	Err string
}

func (e *EngineError) Error() string {
	return e.Op + ": " + e.Err
}
