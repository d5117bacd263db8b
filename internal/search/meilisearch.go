package search

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/meilisearch/meilisearch-go"

	"github.com/fiscofacil/ncm-indexer/internal/ncm"
)

var (
	searchableAttributes = []string{"descricao", "codigo", "descricao_limpa"}
	filterableAttributes = []string{"nivel", "ativo", "capitulo"}
	rankingRules         = []string{"words", "typo", "proximity", "attribute", "sort", "exactness"}
)

const (
	highlightPreTag  = "<mark>"
	highlightPostTag = "</mark>"
)

// MeiliEngine implements Engine against a Meilisearch server. The index
// name is injected so environments (and tests against a scratch server)
// can run side by side.
type MeiliEngine struct {
	client    *meilisearch.Client
	indexName string
}

func NewMeiliEngine(host, apiKey, indexName string) *MeiliEngine {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &MeiliEngine{client: client, indexName: indexName}
}

func (e *MeiliEngine) index() *meilisearch.Index {
	return e.client.Index(e.indexName)
}

// EnsureIndex creates the index with "id" as primary key. An index that
// already exists is success, not an error.
func (e *MeiliEngine) EnsureIndex(_ context.Context) error {
	if _, err := e.client.GetIndex(e.indexName); err == nil {
		return nil
	}

	_, err := e.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        e.indexName,
		PrimaryKey: "id",
	})
	if err != nil && !strings.Contains(err.Error(), "index_already_exists") {
		return &EngineError{Op: "create-index", Err: err.Error()}
	}
	return nil
}

func (e *MeiliEngine) ConfigureAttributes(_ context.Context) error {
	if _, err := e.index().UpdateSearchableAttributes(&searchableAttributes); err != nil {
		return &EngineError{Op: "update-searchable-attributes", Err: err.Error()}
	}
	if _, err := e.index().UpdateFilterableAttributes(&filterableAttributes); err != nil {
		return &EngineError{Op: "update-filterable-attributes", Err: err.Error()}
	}
	if _, err := e.index().UpdateRankingRules(&rankingRules); err != nil {
		return &EngineError{Op: "update-ranking-rules", Err: err.Error()}
	}
	return nil
}

func (e *MeiliEngine) AddDocuments(_ context.Context, docs []ncm.Document) (string, error) {
	task, err := e.index().AddDocuments(docs)
	if err != nil {
		return "", &EngineError{Op: "add-documents", Err: err.Error()}
	}
	return strconv.FormatInt(task.TaskUID, 10), nil
}

func (e *MeiliEngine) DeleteDocument(_ context.Context, id int) (string, error) {
	task, err := e.index().DeleteDocument(strconv.Itoa(id))
	if err != nil {
		return "", &EngineError{Op: "delete-document", Err: err.Error()}
	}
	return strconv.FormatInt(task.TaskUID, 10), nil
}

func (e *MeiliEngine) DeleteAllDocuments(_ context.Context) (string, error) {
	task, err := e.index().DeleteAllDocuments()
	if err != nil {
		return "", &EngineError{Op: "delete-all-documents", Err: err.Error()}
	}
	return strconv.FormatInt(task.TaskUID, 10), nil
}

func (e *MeiliEngine) Search(_ context.Context, q EngineQuery) (*SearchResult, error) {
	req := &meilisearch.SearchRequest{
		Limit: q.Limit,
	}
	if len(q.Filters) > 0 {
		req.Filter = strings.Join(q.Filters, " AND ")
	}
	if q.Highlight {
		req.AttributesToHighlight = []string{"descricao", "codigo"}
		req.HighlightPreTag = highlightPreTag
		req.HighlightPostTag = highlightPostTag
	}

	res, err := e.index().Search(q.Text, req)
	if err != nil {
		return nil, &EngineError{Op: "search", Err: err.Error()}
	}

	hits, err := decodeHits(res.Hits)
	if err != nil {
		return nil, &EngineError{Op: "search", Err: err.Error()}
	}

	return &SearchResult{Hits: hits, Total: res.EstimatedTotalHits}, nil
}

func (e *MeiliEngine) Stats(_ context.Context) (*IndexStats, error) {
	stats, err := e.index().GetStats()
	if err != nil {
		return nil, &EngineError{Op: "get-stats", Err: err.Error()}
	}

	return &IndexStats{
		NumberOfDocuments: stats.NumberOfDocuments,
		IsIndexing:        stats.IsIndexing,
		FieldDistribution: stats.FieldDistribution,
	}, nil
}

// decodeHits round-trips the engine's loosely typed hit list into the
// typed shape the gateway exposes.
func decodeHits(raw []interface{}) ([]Hit, error) {
	if len(raw) == 0 {
		return []Hit{}, nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	var hits []Hit
	if err := json.Unmarshal(encoded, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}
